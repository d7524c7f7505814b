package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/openbracket/tournament-engine/models"
	"github.com/openbracket/tournament-engine/repositories"
	"github.com/openbracket/tournament-engine/storage"
)

type CreateTournamentInput struct {
	Name          string                    `json:"name"`
	Description   *string                   `json:"description,omitempty"`
	Format        models.TournamentFormat   `json:"format"`
	SeedingPolicy models.SeedingPolicy      `json:"seeding_policy"`
	StartDate     time.Time                 `json:"start_date"`
	GroupConfig   *models.GroupStageConfig  `json:"group_config,omitempty"`
}

type UpdateTournamentInput struct {
	Name          *string                  `json:"name,omitempty"`
	Description   *string                  `json:"description,omitempty"`
	SeedingPolicy *models.SeedingPolicy    `json:"seeding_policy,omitempty"`
	StartDate     *time.Time               `json:"start_date,omitempty"`
	GroupConfig   *models.GroupStageConfig `json:"group_config,omitempty"`
}

type TournamentService interface {
	Create(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter repositories.TournamentListFilter) ([]models.Tournament, error)
	Update(ctx context.Context, actingUserID int, id int, input UpdateTournamentInput) (*models.Tournament, error)
	UpdateStatus(ctx context.Context, actingUserID int, id int, status models.TournamentStatus) (*models.Tournament, error)
	UploadLogo(ctx context.Context, actingUserID int, id int, contentType string, reader io.Reader) (*models.Tournament, error)
	Delete(ctx context.Context, actingUserID int, id int) error
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	userRepo       repositories.UserRepository
	uploader       storage.FileUploader
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		userRepo:       userRepo,
		uploader:       uploader,
	}
}

func validFormat(format models.TournamentFormat) bool {
	switch format {
	case models.FormatSingleElimination,
		models.FormatDoubleElimination,
		models.FormatRoundRobin,
		models.FormatSwissSystem,
		models.FormatGroupStage:
		return true
	}
	return false
}

func validSeedingPolicy(policy models.SeedingPolicy) bool {
	switch policy {
	case models.SeedingSeeded, models.SeedingRandom, models.SeedingRegistrationOrder:
		return true
	}
	return false
}

func (s *tournamentService) Create(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Name == "" {
		return nil, ErrValidationFailed
	}
	if !validFormat(input.Format) {
		return nil, ErrUnsupportedFormat
	}
	if input.SeedingPolicy == "" {
		input.SeedingPolicy = models.SeedingSeeded
	}
	if !validSeedingPolicy(input.SeedingPolicy) {
		return nil, ErrValidationFailed
	}

	tournament := &models.Tournament{
		Name:          input.Name,
		Description:   input.Description,
		OrganizerID:   organizerID,
		Format:        input.Format,
		SeedingPolicy: input.SeedingPolicy,
		Status:        models.StatusRegistration,
		StartDate:     input.StartDate,
	}

	if input.Format == models.FormatGroupStage {
		if input.GroupConfig == nil || input.GroupConfig.NumberOfGroups < 1 {
			return nil, ErrInvalidGroupConfiguration
		}
		raw, err := json.Marshal(input.GroupConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to encode group config: %w", err)
		}
		cfgJSON := string(raw)
		tournament.GroupConfigJSON = &cfgJSON
	}

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTournamentNameConflict):
			return nil, ErrTournamentNameConflict
		case errors.Is(err, repositories.ErrUserNotFound):
			return nil, ErrUserNotFound
		default:
			return nil, fmt.Errorf("failed to create tournament: %w", err)
		}
	}
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}

	if organizer, err := s.userRepo.GetByID(ctx, tournament.OrganizerID); err == nil {
		organizer.PasswordHash = ""
		tournament.Organizer = organizer
	}
	s.populateLogoURL(tournament)
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, filter repositories.TournamentListFilter) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	for i := range tournaments {
		s.populateLogoURL(&tournaments[i])
	}
	return tournaments, nil
}

func (s *tournamentService) Update(ctx context.Context, actingUserID int, id int, input UpdateTournamentInput) (*models.Tournament, error) {
	tournament, err := s.authorizeOrganizer(ctx, actingUserID, id)
	if err != nil {
		return nil, err
	}
	if tournament.Status != models.StatusRegistration {
		return nil, ErrTournamentInvalidStatusTransition
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrValidationFailed
		}
		tournament.Name = *input.Name
	}
	if input.Description != nil {
		tournament.Description = input.Description
	}
	if input.SeedingPolicy != nil {
		if !validSeedingPolicy(*input.SeedingPolicy) {
			return nil, ErrValidationFailed
		}
		tournament.SeedingPolicy = *input.SeedingPolicy
	}
	if input.StartDate != nil {
		tournament.StartDate = *input.StartDate
	}
	if input.GroupConfig != nil {
		if tournament.Format != models.FormatGroupStage {
			return nil, ErrInvalidGroupConfiguration
		}
		raw, err := json.Marshal(input.GroupConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to encode group config: %w", err)
		}
		cfgJSON := string(raw)
		tournament.GroupConfigJSON = &cfgJSON
	}

	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, fmt.Errorf("failed to update tournament %d: %w", id, err)
	}
	s.populateLogoURL(tournament)
	return tournament, nil
}

// allowedStatusTransitions lists the forward edges of the tournament lifecycle.
// Cancellation is allowed from any non-terminal state.
var allowedStatusTransitions = map[models.TournamentStatus][]models.TournamentStatus{
	models.StatusRegistration: {models.StatusActive, models.StatusCanceled},
	models.StatusActive:       {models.StatusCompleted, models.StatusCanceled},
}

func (s *tournamentService) UpdateStatus(ctx context.Context, actingUserID int, id int, status models.TournamentStatus) (*models.Tournament, error) {
	tournament, err := s.authorizeOrganizer(ctx, actingUserID, id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, next := range allowedStatusTransitions[tournament.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ErrTournamentInvalidStatusTransition
	}

	if err := s.tournamentRepo.UpdateStatus(ctx, nil, id, status); err != nil {
		return nil, fmt.Errorf("failed to update tournament %d status: %w", id, err)
	}
	tournament.Status = status
	s.populateLogoURL(tournament)
	return tournament, nil
}

func (s *tournamentService) UploadLogo(ctx context.Context, actingUserID int, id int, contentType string, reader io.Reader) (*models.Tournament, error) {
	if s.uploader == nil {
		return nil, errors.New("file storage is not configured")
	}
	tournament, err := s.authorizeOrganizer(ctx, actingUserID, id)
	if err != nil {
		return nil, err
	}

	ext := ""
	switch contentType {
	case "image/png":
		ext = ".png"
	case "image/jpeg":
		ext = ".jpg"
	case "image/webp":
		ext = ".webp"
	default:
		return nil, ErrValidationFailed
	}

	key := fmt.Sprintf("tournaments/%d/logo%s", id, ext)
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload tournament logo: %w", err)
	}

	if err := s.tournamentRepo.UpdateLogoKey(ctx, id, result.Key); err != nil {
		return nil, fmt.Errorf("failed to persist tournament logo key: %w", err)
	}
	tournament.LogoKey = &result.Key
	s.populateLogoURL(tournament)
	return tournament, nil
}

func (s *tournamentService) Delete(ctx context.Context, actingUserID int, id int) error {
	tournament, err := s.authorizeOrganizer(ctx, actingUserID, id)
	if err != nil {
		return err
	}

	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to delete tournament %d: %w", id, err)
	}

	if s.uploader != nil && tournament.LogoKey != nil {
		_ = s.uploader.Delete(ctx, *tournament.LogoKey)
	}
	return nil
}

// authorizeOrganizer loads the tournament and verifies the acting user owns it
// or is an admin.
func (s *tournamentService) authorizeOrganizer(ctx context.Context, actingUserID int, tournamentID int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", tournamentID, err)
	}

	if tournament.OrganizerID == actingUserID {
		return tournament, nil
	}

	user, err := s.userRepo.GetByID(ctx, actingUserID)
	if err != nil {
		return nil, ErrForbiddenOperation
	}
	if user.Role != models.RoleAdmin {
		return nil, ErrForbiddenOperation
	}
	return tournament, nil
}

func (s *tournamentService) populateLogoURL(t *models.Tournament) {
	if s.uploader == nil || t.LogoKey == nil {
		return
	}
	if u := s.uploader.GetPublicURL(*t.LogoKey); u != "" {
		t.LogoURL = &u
	}
}
