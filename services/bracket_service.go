package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/openbracket/tournament-engine/brackets"
	"github.com/openbracket/tournament-engine/models"
	"github.com/openbracket/tournament-engine/repositories"
	"golang.org/x/sync/errgroup"
)

// BracketView is the assembled read model returned to clients: the tournament
// with its matches plus the derived progress figures.
type BracketView struct {
	Tournament           *models.Tournament        `json:"tournament"`
	Topology             *brackets.BracketTopology `json:"topology,omitempty"`
	CompletionPercentage float64                   `json:"completion_percentage"`
	Frontier             []*models.Match           `json:"frontier"`
	Decided              bool                      `json:"decided"`
	ChampionID           *int                      `json:"champion_participant_id,omitempty"`
}

type BracketService interface {
	GenerateAndSaveBracket(ctx context.Context, actingUserID int, tournamentID int, regenerate bool) (*BracketView, error)
	GetBracket(ctx context.Context, tournamentID int) (*BracketView, error)
	GetStandings(ctx context.Context, tournamentID int) ([]models.Standing, error)
	LoadBracket(ctx context.Context, tournamentID int) (*brackets.Bracket, *models.Tournament, error)
}

type bracketService struct {
	db              *sql.DB
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	userRepo        repositories.UserRepository
	hub             *brackets.Hub
	logger          *slog.Logger
}

func NewBracketService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	userRepo repositories.UserRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		db:              db,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		userRepo:        userRepo,
		hub:             hub,
		logger:          logger,
	}
}

func (s *bracketService) GenerateAndSaveBracket(ctx context.Context, actingUserID int, tournamentID int, regenerate bool) (*BracketView, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", tournamentID, err)
	}
	if err := s.authorize(ctx, actingUserID, tournament); err != nil {
		return nil, err
	}
	switch tournament.Status {
	case models.StatusRegistration, models.StatusActive:
	default:
		return nil, ErrTournamentInvalidStatusTransition
	}

	existing, err := s.matchRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of tournament %d: %w", tournamentID, err)
	}
	if len(existing) > 0 && !regenerate {
		return nil, mapEngineError(brackets.ErrMaterializationConflict)
	}

	dbParticipants, err := s.participantRepo.ListApprovedByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved participants of tournament %d: %w", tournamentID, err)
	}
	participants := make([]*models.Participant, len(dbParticipants))
	for i := range dbParticipants {
		participants[i] = &dbParticipants[i]
	}

	generator, err := brackets.NewGenerator(tournament.Format)
	if err != nil {
		return nil, ErrUnsupportedFormat
	}

	s.logger.Info("generating bracket",
		"tournament_id", tournamentID,
		"format", generator.GetName(),
		"participants", len(participants),
		"regenerate", regenerate,
	)

	bracket, err := generator.GenerateBracket(ctx, brackets.GenerateBracketParams{
		Tournament:   tournament,
		Participants: participants,
	})
	if err != nil {
		return nil, mapEngineError(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	var txErr error
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("rollback failed", "tournament_id", tournamentID, "error", rbErr)
			}
		}
	}()

	if regenerate {
		if txErr = s.matchRepo.DeleteByTournament(ctx, tx, tournamentID); txErr != nil {
			return nil, txErr
		}
	}
	if txErr = s.matchRepo.CreateBatch(ctx, tx, bracket.Matches); txErr != nil {
		return nil, txErr
	}
	if tournament.Status == models.StatusRegistration {
		if txErr = s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, models.StatusActive); txErr != nil {
			return nil, txErr
		}
		tournament.Status = models.StatusActive
	}
	if txErr = tx.Commit(); txErr != nil {
		return nil, fmt.Errorf("failed to commit bracket of tournament %d: %w", tournamentID, txErr)
	}

	view := s.buildView(tournament, participants, bracket)
	s.broadcast(tournamentID, brackets.EventBracketGenerated, view)
	return view, nil
}

func (s *bracketService) GetBracket(ctx context.Context, tournamentID int) (*BracketView, error) {
	bracket, tournament, err := s.LoadBracket(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	participants := make([]*models.Participant, len(tournament.Participants))
	for i := range tournament.Participants {
		participants[i] = &tournament.Participants[i]
	}
	return s.buildView(tournament, participants, bracket), nil
}

func (s *bracketService) GetStandings(ctx context.Context, tournamentID int) ([]models.Standing, error) {
	bracket, _, err := s.LoadBracket(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return bracket.Standings(), nil
}

// LoadBracket fetches the tournament, its participants, and its matches in
// parallel and rebuilds the in-memory bracket from them.
func (s *bracketService) LoadBracket(ctx context.Context, tournamentID int) (*brackets.Bracket, *models.Tournament, error) {
	var (
		tournament   *models.Tournament
		participants []models.Participant
		matches      []models.Match
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.tournamentRepo.GetByID(gCtx, tournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return fmt.Errorf("failed to get tournament %d: %w", tournamentID, err)
		}
		tournament = t
		return nil
	})
	g.Go(func() error {
		p, err := s.participantRepo.ListApprovedByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list participants of tournament %d: %w", tournamentID, err)
		}
		participants = p
		return nil
	})
	g.Go(func() error {
		m, err := s.matchRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list matches of tournament %d: %w", tournamentID, err)
		}
		matches = m
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if len(matches) == 0 {
		return nil, nil, ErrNotFound
	}

	tournament.Participants = participants
	tournament.Matches = matches

	participantPtrs := make([]*models.Participant, len(participants))
	for i := range participants {
		participantPtrs[i] = &participants[i]
	}
	matchPtrs := make([]*models.Match, len(matches))
	for i := range matches {
		matchPtrs[i] = &matches[i]
	}

	bracket, err := brackets.Rebuild(tournament, participantPtrs, matchPtrs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to rebuild bracket of tournament %d: %w", tournamentID, err)
	}
	return bracket, tournament, nil
}

func (s *bracketService) buildView(tournament *models.Tournament, participants []*models.Participant, bracket *brackets.Bracket) *BracketView {
	if len(tournament.Matches) == 0 {
		tournament.Matches = make([]models.Match, 0, len(bracket.Matches))
		for _, m := range bracket.Matches {
			tournament.Matches = append(tournament.Matches, *m)
		}
	}

	groupCfg, _ := tournament.GroupConfig()
	topology, err := brackets.GenerateTopology(bracket.SlotCount, tournament.Format, groupCfg)
	if err != nil {
		topology = nil
	}

	return &BracketView{
		Tournament:           tournament,
		Topology:             topology,
		CompletionPercentage: bracket.CompletionPercentage(),
		Frontier:             bracket.CurrentFrontier(),
		Decided:              bracket.Decided(),
		ChampionID:           bracket.Champion(),
	}
}

func (s *bracketService) authorize(ctx context.Context, actingUserID int, tournament *models.Tournament) error {
	if tournament.OrganizerID == actingUserID {
		return nil
	}
	user, err := s.userRepo.GetByID(ctx, actingUserID)
	if err != nil || user.Role != models.RoleAdmin {
		return ErrForbiddenOperation
	}
	return nil
}

func (s *bracketService) broadcast(tournamentID int, event string, payload interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom(fmt.Sprintf("tournament_%d", tournamentID), brackets.WebSocketMessage{
		Type:    event,
		Payload: payload,
	})
}

// mapEngineError converts bracket engine sentinels into service sentinels so
// handlers map them uniformly.
func mapEngineError(err error) error {
	switch {
	case errors.Is(err, brackets.ErrInsufficientParticipants):
		return ErrInsufficientParticipants
	case errors.Is(err, brackets.ErrDuplicateSeed):
		return ErrDuplicateSeed
	case errors.Is(err, brackets.ErrUnsupportedFormat):
		return ErrUnsupportedFormat
	case errors.Is(err, brackets.ErrInvalidSlotCount):
		return ErrInvalidGroupConfiguration
	case errors.Is(err, brackets.ErrMaterializationConflict):
		return ErrBracketAlreadyExists
	case errors.Is(err, brackets.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, brackets.ErrMatchNotReady):
		return ErrMatchNotReady
	case errors.Is(err, brackets.ErrInvalidResult):
		return ErrInvalidResult
	case errors.Is(err, brackets.ErrResultConflict):
		return ErrResultConflict
	default:
		return err
	}
}
