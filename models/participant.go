package models

import "time"

type ParticipantStatus string

const (
	ParticipantStatusApplication ParticipantStatus = "application"
	ParticipantStatusApproved    ParticipantStatus = "approved"
	ParticipantStatusRejected    ParticipantStatus = "rejected"
)

// Participant is a registered entrant of a tournament. Seed is optional and,
// when present, unique within the tournament (lower = stronger). Participants
// are immutable from the bracket's point of view once matches are generated.
type Participant struct {
	ID           int               `json:"id" db:"id"`
	TournamentID int               `json:"tournament_id" db:"tournament_id"`
	DisplayName  string            `json:"display_name" db:"display_name"`
	Seed         *int              `json:"seed,omitempty" db:"seed"`
	Status       ParticipantStatus `json:"status" db:"status"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
}
