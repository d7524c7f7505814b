package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/openbracket/tournament-engine/brackets"
	"github.com/openbracket/tournament-engine/models"
	"github.com/openbracket/tournament-engine/repositories"
)

type RecordResultInput struct {
	Score1              int `json:"score1"`
	Score2              int `json:"score2"`
	WinnerParticipantID int `json:"winner_participant_id"`
}

// MatchResultOutcome reports what one result submission changed.
type MatchResultOutcome struct {
	UpdatedMatches []*models.Match `json:"updated_matches"`
	Decided        bool            `json:"decided"`
	ChampionID     *int            `json:"champion_participant_id,omitempty"`
}

type MatchService interface {
	RecordResult(ctx context.Context, actingUserID int, matchID uuid.UUID, input RecordResultInput) (*MatchResultOutcome, error)
	GetByID(ctx context.Context, matchID uuid.UUID) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error)
}

type matchService struct {
	db             *sql.DB
	matchRepo      repositories.MatchRepository
	tournamentRepo repositories.TournamentRepository
	userRepo       repositories.UserRepository
	bracketService BracketService
	hub            *brackets.Hub
	logger         *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	userRepo repositories.UserRepository,
	bracketService BracketService,
	hub *brackets.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:             db,
		matchRepo:      matchRepo,
		tournamentRepo: tournamentRepo,
		userRepo:       userRepo,
		bracketService: bracketService,
		hub:            hub,
		logger:         logger,
	}
}

func (s *matchService) RecordResult(ctx context.Context, actingUserID int, matchID uuid.UUID, input RecordResultInput) (*MatchResultOutcome, error) {
	stored, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %s: %w", matchID, err)
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, stored.TournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament %d: %w", stored.TournamentID, err)
	}
	if err := s.authorize(ctx, actingUserID, tournament); err != nil {
		return nil, err
	}
	if tournament.Status != models.StatusActive {
		return nil, ErrTournamentNotActive
	}

	bracket, _, err := s.bracketService.LoadBracket(ctx, stored.TournamentID)
	if err != nil {
		return nil, err
	}

	// Matches the engine creates during progression (lazy swiss rounds,
	// group playoffs) are not in the database yet; everything else is an
	// update guarded by the version loaded above.
	persisted := make(map[uuid.UUID]bool, len(bracket.Matches))
	for _, m := range bracket.Matches {
		persisted[m.ID] = true
	}

	changed, err := bracket.RecordResult(brackets.ResultParams{
		MatchID:             matchID,
		Score1:              input.Score1,
		Score2:              input.Score2,
		WinnerParticipantID: input.WinnerParticipantID,
	})
	if err != nil {
		return nil, mapEngineError(err)
	}
	if len(changed) == 0 {
		// Identical resubmission, nothing to persist.
		return &MatchResultOutcome{
			UpdatedMatches: nil,
			Decided:        bracket.Decided(),
			ChampionID:     bracket.Champion(),
		}, nil
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
				s.logger.Error("rollback failed", "match_id", matchID, "error", rbErr)
			}
		}
	}()

	var created []*models.Match
	for _, m := range changed {
		if !persisted[m.ID] {
			created = append(created, m)
			continue
		}
		if txErr = s.matchRepo.Update(ctx, tx, m, m.Version); txErr != nil {
			if errors.Is(txErr, repositories.ErrMatchVersionConflict) {
				txErr = ErrResultConflict
			}
			return nil, txErr
		}
	}
	if len(created) > 0 {
		if txErr = s.matchRepo.CreateBatch(ctx, tx, created); txErr != nil {
			return nil, txErr
		}
	}

	decided := bracket.Decided()
	champion := bracket.Champion()
	if decided && champion != nil {
		if txErr = s.tournamentRepo.SetWinner(ctx, tx, tournament.ID, *champion); txErr != nil {
			return nil, txErr
		}
	}

	if txErr = tx.Commit(); txErr != nil {
		return nil, fmt.Errorf("failed to commit result of match %s: %w", matchID, txErr)
	}

	s.logger.Info("match result recorded",
		"tournament_id", tournament.ID,
		"match_id", matchID,
		"winner_participant_id", input.WinnerParticipantID,
		"changed_matches", len(changed),
		"decided", decided,
	)

	outcome := &MatchResultOutcome{
		UpdatedMatches: changed,
		Decided:        decided,
		ChampionID:     champion,
	}
	s.broadcast(tournament.ID, brackets.EventMatchUpdated, outcome)
	if decided {
		s.broadcast(tournament.ID, brackets.EventTournamentDecided, outcome)
	}
	return outcome, nil
}

func (s *matchService) GetByID(ctx context.Context, matchID uuid.UUID) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %s: %w", matchID, err)
	}
	return match, nil
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of tournament %d: %w", tournamentID, err)
	}
	return matches, nil
}

func (s *matchService) authorize(ctx context.Context, actingUserID int, tournament *models.Tournament) error {
	if tournament.OrganizerID == actingUserID {
		return nil
	}
	user, err := s.userRepo.GetByID(ctx, actingUserID)
	if err != nil || user.Role != models.RoleAdmin {
		return ErrForbiddenOperation
	}
	return nil
}

func (s *matchService) broadcast(tournamentID int, event string, payload interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom(fmt.Sprintf("tournament_%d", tournamentID), brackets.WebSocketMessage{
		Type:    event,
		Payload: payload,
	})
}
