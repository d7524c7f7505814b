package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/openbracket/tournament-engine/models"
)

var (
	ErrMatchNotFound        = errors.New("match not found")
	ErrMatchVersionConflict = errors.New("match version conflict")
)

type MatchRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error)
	Update(ctx context.Context, exec SQLExecutor, match *models.Match, expectedVersion int) error
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, tournament_id, bracket_side, round, order_in_round, group_number,
	slot1_participant_id, slot2_participant_id, slot1_bye, slot2_bye,
	status, winner_participant_id, loser_participant_id, score1, score2,
	next_match_on_win, next_slot_on_win, next_match_on_loss, next_slot_on_loss,
	version, created_at`

func scanMatch(row interface{ Scan(...any) error }, m *models.Match) error {
	return row.Scan(
		&m.ID,
		&m.TournamentID,
		&m.BracketSide,
		&m.Round,
		&m.OrderInRound,
		&m.GroupNumber,
		&m.Slot1ParticipantID,
		&m.Slot2ParticipantID,
		&m.Slot1Bye,
		&m.Slot2Bye,
		&m.Status,
		&m.WinnerParticipantID,
		&m.LoserParticipantID,
		&m.Score1,
		&m.Score2,
		&m.NextMatchOnWin,
		&m.NextSlotOnWin,
		&m.NextMatchOnLoss,
		&m.NextSlotOnLoss,
		&m.Version,
		&m.CreatedAt,
	)
}

// CreateBatch inserts a generated match set. Callers pass the transaction they
// opened for materialization so the whole bracket lands atomically.
func (r *postgresMatchRepository) CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO matches (
			id, tournament_id, bracket_side, round, order_in_round, group_number,
			slot1_participant_id, slot2_participant_id, slot1_bye, slot2_bye,
			status, winner_participant_id, loser_participant_id, score1, score2,
			next_match_on_win, next_slot_on_win, next_match_on_loss, next_slot_on_loss,
			version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING created_at`

	for _, m := range matches {
		err := exec.QueryRowContext(ctx, query,
			m.ID,
			m.TournamentID,
			m.BracketSide,
			m.Round,
			m.OrderInRound,
			m.GroupNumber,
			m.Slot1ParticipantID,
			m.Slot2ParticipantID,
			m.Slot1Bye,
			m.Slot2Bye,
			m.Status,
			m.WinnerParticipantID,
			m.LoserParticipantID,
			m.Score1,
			m.Score2,
			m.NextMatchOnWin,
			m.NextSlotOnWin,
			m.NextMatchOnLoss,
			m.NextSlotOnLoss,
			m.Version,
		).Scan(&m.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert match %s: %w", m.ID, err)
		}
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	m := &models.Match{}
	err := scanMatch(r.db.QueryRowContext(ctx, query, id), m)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %s: %w", id, err)
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE tournament_id = $1
		ORDER BY
			CASE bracket_side WHEN 'winners' THEN 0 WHEN 'losers' THEN 1 ELSE 2 END,
			group_number ASC NULLS FIRST,
			round ASC,
			order_in_round ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []models.Match
	for rows.Next() {
		var m models.Match
		if err := scanMatch(rows, &m); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate match rows: %w", err)
	}
	return matches, nil
}

// Update persists a mutated match guarded by its expected version. Zero rows
// affected means a concurrent writer got there first.
func (r *postgresMatchRepository) Update(ctx context.Context, exec SQLExecutor, m *models.Match, expectedVersion int) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE matches
		SET slot1_participant_id = $1, slot2_participant_id = $2,
			slot1_bye = $3, slot2_bye = $4,
			status = $5, winner_participant_id = $6, loser_participant_id = $7,
			score1 = $8, score2 = $9,
			version = version + 1
		WHERE id = $10 AND version = $11`

	result, err := exec.ExecContext(ctx, query,
		m.Slot1ParticipantID,
		m.Slot2ParticipantID,
		m.Slot1Bye,
		m.Slot2Bye,
		m.Status,
		m.WinnerParticipantID,
		m.LoserParticipantID,
		m.Score1,
		m.Score2,
		m.ID,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update match %s: %w", m.ID, err)
	}
	if err := checkAffectedRows(result, ErrMatchVersionConflict); err != nil {
		return err
	}
	m.Version = expectedVersion + 1
	return nil
}

// DeleteByTournament drops every match of a tournament. Regeneration recreates
// the whole set, so missing rows are not an error.
func (r *postgresMatchRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	if exec == nil {
		exec = r.db
	}
	_, err := exec.ExecContext(ctx, `DELETE FROM matches WHERE tournament_id = $1`, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to delete matches of tournament %d: %w", tournamentID, err)
	}
	return nil
}
