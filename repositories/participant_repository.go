package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/openbracket/tournament-engine/models"
)

var (
	ErrParticipantNotFound     = errors.New("participant not found")
	ErrParticipantNameConflict = errors.New("participant display name conflict")
	ErrParticipantSeedConflict = errors.New("participant seed conflict")
)

type ParticipantRepository interface {
	Create(ctx context.Context, participant *models.Participant) error
	GetByID(ctx context.Context, id int) (*models.Participant, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Participant, error)
	ListApprovedByTournament(ctx context.Context, tournamentID int) ([]models.Participant, error)
	UpdateStatus(ctx context.Context, id int, status models.ParticipantStatus) error
	UpdateSeed(ctx context.Context, id int, seed *int) error
	Delete(ctx context.Context, id int) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) Create(ctx context.Context, p *models.Participant) error {
	query := `
		INSERT INTO participants (tournament_id, display_name, seed, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		p.TournamentID,
		p.DisplayName,
		p.Seed,
		p.Status,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch {
			case pqErr.Code == "23505" && pqErr.Constraint == "participants_tournament_id_display_name_key":
				return ErrParticipantNameConflict
			case pqErr.Code == "23505" && pqErr.Constraint == "participants_tournament_id_seed_key":
				return ErrParticipantSeedConflict
			case pqErr.Code == "23503" && pqErr.Constraint == "participants_tournament_id_fkey":
				return ErrTournamentNotFound
			}
		}
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	return nil
}

func (r *postgresParticipantRepository) GetByID(ctx context.Context, id int) (*models.Participant, error) {
	query := `
		SELECT id, tournament_id, display_name, seed, status, created_at
		FROM participants
		WHERE id = $1`

	p := &models.Participant{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.TournamentID,
		&p.DisplayName,
		&p.Seed,
		&p.Status,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to scan participant %d: %w", id, err)
	}
	return p, nil
}

func (r *postgresParticipantRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Participant, error) {
	query := `
		SELECT id, tournament_id, display_name, seed, status, created_at
		FROM participants
		WHERE tournament_id = $1
		ORDER BY created_at ASC, id ASC`
	return r.queryParticipants(ctx, query, tournamentID)
}

func (r *postgresParticipantRepository) ListApprovedByTournament(ctx context.Context, tournamentID int) ([]models.Participant, error) {
	query := `
		SELECT id, tournament_id, display_name, seed, status, created_at
		FROM participants
		WHERE tournament_id = $1 AND status = $2
		ORDER BY created_at ASC, id ASC`
	return r.queryParticipants(ctx, query, tournamentID, models.ParticipantStatusApproved)
}

func (r *postgresParticipantRepository) queryParticipants(ctx context.Context, query string, args ...any) ([]models.Participant, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		err := rows.Scan(&p.ID, &p.TournamentID, &p.DisplayName, &p.Seed, &p.Status, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participant rows: %w", err)
	}
	return participants, nil
}

func (r *postgresParticipantRepository) UpdateStatus(ctx context.Context, id int, status models.ParticipantStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE participants SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update participant %d status: %w", id, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) UpdateSeed(ctx context.Context, id int, seed *int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE participants SET seed = $1 WHERE id = $2`, seed, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" && pqErr.Constraint == "participants_tournament_id_seed_key" {
			return ErrParticipantSeedConflict
		}
		return fmt.Errorf("failed to update participant %d seed: %w", id, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete participant %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}
