package models

import (
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusCompleted MatchStatus = "completed"
	MatchStatusCanceled  MatchStatus = "canceled"
)

// BracketSide locates a match within a double-elimination structure.
// Single-section formats (single elimination, round robin, swiss, group play)
// keep all their matches on the winners side.
type BracketSide string

const (
	SideWinners    BracketSide = "winners"
	SideLosers     BracketSide = "losers"
	SideGrandFinal BracketSide = "grand_final"
)

// Match is a single game instance inside a tournament bracket. Matches are
// created in bulk at materialization time and mutated only by result recording;
// regeneration discards and recreates the whole set.
type Match struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	BracketSide  BracketSide `json:"bracket_side" db:"bracket_side"`
	Round        int         `json:"round" db:"round"`
	OrderInRound int         `json:"order_in_round" db:"order_in_round"`

	// GroupNumber is set only for group-stage matches.
	GroupNumber *int `json:"group_number,omitempty" db:"group_number"`

	Slot1ParticipantID *int `json:"slot1_participant_id,omitempty" db:"slot1_participant_id"`
	Slot2ParticipantID *int `json:"slot2_participant_id,omitempty" db:"slot2_participant_id"`
	Slot1Bye           bool `json:"slot1_bye" db:"slot1_bye"`
	Slot2Bye           bool `json:"slot2_bye" db:"slot2_bye"`

	Status              MatchStatus `json:"status" db:"status"`
	WinnerParticipantID *int        `json:"winner_participant_id,omitempty" db:"winner_participant_id"`
	LoserParticipantID  *int        `json:"loser_participant_id,omitempty" db:"loser_participant_id"`
	Score1              *int        `json:"score1,omitempty" db:"score1"`
	Score2              *int        `json:"score2,omitempty" db:"score2"`

	NextMatchOnWin  *uuid.UUID `json:"next_match_on_win,omitempty" db:"next_match_on_win"`
	NextSlotOnWin   *int       `json:"next_slot_on_win,omitempty" db:"next_slot_on_win"`
	NextMatchOnLoss *uuid.UUID `json:"next_match_on_loss,omitempty" db:"next_match_on_loss"`
	NextSlotOnLoss  *int       `json:"next_slot_on_loss,omitempty" db:"next_slot_on_loss"`

	// Version guards concurrent result submissions; every mutation increments it.
	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SlotFilled reports whether slot 1 or 2 holds either a participant or a bye.
func (m *Match) SlotFilled(slot int) bool {
	if slot == 1 {
		return m.Slot1ParticipantID != nil || m.Slot1Bye
	}
	return m.Slot2ParticipantID != nil || m.Slot2Bye
}

func (m *Match) BothSlotsFilled() bool {
	return m.SlotFilled(1) && m.SlotFilled(2)
}

// HasBye reports whether either slot is a bye placeholder. Matches with a bye
// are auto-resolved and never played.
func (m *Match) HasBye() bool {
	return m.Slot1Bye || m.Slot2Bye
}

// HoldsParticipant reports whether the given participant occupies one of the
// two slots.
func (m *Match) HoldsParticipant(participantID int) bool {
	if m.Slot1ParticipantID != nil && *m.Slot1ParticipantID == participantID {
		return true
	}
	return m.Slot2ParticipantID != nil && *m.Slot2ParticipantID == participantID
}
