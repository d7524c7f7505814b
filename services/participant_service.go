package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/openbracket/tournament-engine/models"
	"github.com/openbracket/tournament-engine/repositories"
)

type RegisterParticipantInput struct {
	DisplayName string `json:"display_name"`
	Seed        *int   `json:"seed,omitempty"`
}

type ParticipantService interface {
	Register(ctx context.Context, tournamentID int, input RegisterParticipantInput) (*models.Participant, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Participant, error)
	UpdateStatus(ctx context.Context, actingUserID int, participantID int, status models.ParticipantStatus) (*models.Participant, error)
	AssignSeed(ctx context.Context, actingUserID int, participantID int, seed *int) (*models.Participant, error)
	Remove(ctx context.Context, actingUserID int, participantID int) error
}

type participantService struct {
	participantRepo repositories.ParticipantRepository
	tournamentRepo  repositories.TournamentRepository
	userRepo        repositories.UserRepository
}

func NewParticipantService(
	participantRepo repositories.ParticipantRepository,
	tournamentRepo repositories.TournamentRepository,
	userRepo repositories.UserRepository,
) ParticipantService {
	return &participantService{
		participantRepo: participantRepo,
		tournamentRepo:  tournamentRepo,
		userRepo:        userRepo,
	}
}

func (s *participantService) Register(ctx context.Context, tournamentID int, input RegisterParticipantInput) (*models.Participant, error) {
	if input.DisplayName == "" {
		return nil, ErrValidationFailed
	}
	if input.Seed != nil && *input.Seed < 1 {
		return nil, ErrValidationFailed
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", tournamentID, err)
	}
	if tournament.Status != models.StatusRegistration {
		return nil, ErrRegistrationNotOpen
	}

	participant := &models.Participant{
		TournamentID: tournamentID,
		DisplayName:  input.DisplayName,
		Seed:         input.Seed,
		Status:       models.ParticipantStatusApplication,
	}

	if err := s.participantRepo.Create(ctx, participant); err != nil {
		switch {
		case errors.Is(err, repositories.ErrParticipantNameConflict):
			return nil, ErrParticipantNameConflict
		case errors.Is(err, repositories.ErrParticipantSeedConflict):
			return nil, ErrParticipantSeedConflict
		default:
			return nil, fmt.Errorf("failed to register participant: %w", err)
		}
	}
	return participant, nil
}

func (s *participantService) ListByTournament(ctx context.Context, tournamentID int) ([]models.Participant, error) {
	participants, err := s.participantRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants of tournament %d: %w", tournamentID, err)
	}
	return participants, nil
}

func (s *participantService) UpdateStatus(ctx context.Context, actingUserID int, participantID int, status models.ParticipantStatus) (*models.Participant, error) {
	switch status {
	case models.ParticipantStatusApproved, models.ParticipantStatusRejected:
	default:
		return nil, ErrValidationFailed
	}

	participant, err := s.authorizeParticipantAccess(ctx, actingUserID, participantID)
	if err != nil {
		return nil, err
	}

	if err := s.participantRepo.UpdateStatus(ctx, participantID, status); err != nil {
		return nil, fmt.Errorf("failed to update participant %d status: %w", participantID, err)
	}
	participant.Status = status
	return participant, nil
}

func (s *participantService) AssignSeed(ctx context.Context, actingUserID int, participantID int, seed *int) (*models.Participant, error) {
	if seed != nil && *seed < 1 {
		return nil, ErrValidationFailed
	}

	participant, err := s.authorizeParticipantAccess(ctx, actingUserID, participantID)
	if err != nil {
		return nil, err
	}

	if err := s.participantRepo.UpdateSeed(ctx, participantID, seed); err != nil {
		if errors.Is(err, repositories.ErrParticipantSeedConflict) {
			return nil, ErrParticipantSeedConflict
		}
		return nil, fmt.Errorf("failed to update participant %d seed: %w", participantID, err)
	}
	participant.Seed = seed
	return participant, nil
}

func (s *participantService) Remove(ctx context.Context, actingUserID int, participantID int) error {
	if _, err := s.authorizeParticipantAccess(ctx, actingUserID, participantID); err != nil {
		return err
	}
	if err := s.participantRepo.Delete(ctx, participantID); err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return ErrParticipantNotFound
		}
		return fmt.Errorf("failed to delete participant %d: %w", participantID, err)
	}
	return nil
}

// authorizeParticipantAccess loads the participant and verifies the acting
// user organizes the tournament or is an admin. Mutations are rejected once
// the tournament has left the registration phase.
func (s *participantService) authorizeParticipantAccess(ctx context.Context, actingUserID int, participantID int) (*models.Participant, error) {
	participant, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to get participant %d: %w", participantID, err)
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, participant.TournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament %d: %w", participant.TournamentID, err)
	}
	if tournament.Status != models.StatusRegistration {
		return nil, ErrRegistrationNotOpen
	}

	if tournament.OrganizerID != actingUserID {
		user, err := s.userRepo.GetByID(ctx, actingUserID)
		if err != nil || user.Role != models.RoleAdmin {
			return nil, ErrForbiddenOperation
		}
	}
	return participant, nil
}
