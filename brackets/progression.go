package brackets

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/openbracket/tournament-engine/models"
	"github.com/openbracket/tournament-engine/utils"
)

type ResultParams struct {
	MatchID             uuid.UUID
	Score1              int
	Score2              int
	WinnerParticipantID int
}

// RecordResult applies one match result to the bracket: the match completes,
// the winner advances into its next slot, the loser drops to the losers
// bracket where one exists, bye pairings created by the advancement resolve
// in cascade, and format-specific follow-ups fire (grand final reset, lazy
// swiss pairing, playoff seating after group play). It returns every match
// that was mutated or created so the host can persist and broadcast only the
// delta.
//
// Re-submitting the identical result for a completed match is a no-op
// success; a different result is a conflict that requires explicit override
// by regeneration, never last-write-wins.
func (b *Bracket) RecordResult(params ResultParams) ([]*models.Match, error) {
	m, ok := b.MatchByID(params.MatchID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, params.MatchID)
	}

	if m.Status == models.MatchStatusCanceled {
		return nil, fmt.Errorf("%w: match %s is canceled", ErrInvalidResult, m.ID)
	}
	if m.HasBye() {
		return nil, fmt.Errorf("%w: match %s is a bye and resolves automatically", ErrInvalidResult, m.ID)
	}
	if m.Status == models.MatchStatusCompleted {
		if m.WinnerParticipantID != nil && *m.WinnerParticipantID == params.WinnerParticipantID &&
			m.Score1 != nil && *m.Score1 == params.Score1 &&
			m.Score2 != nil && *m.Score2 == params.Score2 {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: match %s", ErrResultConflict, m.ID)
	}
	if !m.BothSlotsFilled() {
		return nil, fmt.Errorf("%w: match %s", ErrMatchNotReady, m.ID)
	}
	if !m.HoldsParticipant(params.WinnerParticipantID) {
		return nil, fmt.Errorf("%w: participant %d is not in match %s", ErrInvalidResult, params.WinnerParticipantID, m.ID)
	}
	if params.Score1 < 0 || params.Score2 < 0 {
		return nil, fmt.Errorf("%w: negative score", ErrInvalidResult)
	}

	cs := newChangeSet()

	m.Status = models.MatchStatusCompleted
	m.Score1 = utils.Ptr(params.Score1)
	m.Score2 = utils.Ptr(params.Score2)
	m.WinnerParticipantID = utils.Ptr(params.WinnerParticipantID)
	if m.Slot1ParticipantID != nil && *m.Slot1ParticipantID == params.WinnerParticipantID {
		m.LoserParticipantID = m.Slot2ParticipantID
	} else {
		m.LoserParticipantID = m.Slot1ParticipantID
	}
	cs.note(m)

	b.advanceEntry(cs, m.NextMatchOnWin, m.NextSlotOnWin, SeedSlot{ParticipantID: m.WinnerParticipantID})
	b.advanceEntry(cs, m.NextMatchOnLoss, m.NextSlotOnLoss, SeedSlot{ParticipantID: m.LoserParticipantID})

	switch b.Format {
	case models.FormatDoubleElimination:
		b.maybeResetGrandFinal(cs, m)
	case models.FormatSwissSystem:
		b.maybeAdvanceSwissRound(cs)
	case models.FormatGroupStage:
		if !b.groupPlayInProgress() && !b.playoffMaterialized() {
			b.materializeGroupPlayoffs(cs)
		}
	}

	return cs.matches(), nil
}

// maybeResetGrandFinal materializes the bracket-reset game when the
// losers-bracket finalist (slot 2 by construction) takes grand final game
// one: both finalists are carried over and have a single decider. A winners
// champion victory ends the tournament with no reset.
func (b *Bracket) maybeResetGrandFinal(cs *changeSet, m *models.Match) {
	if m.BracketSide != models.SideGrandFinal || m.Round != 1 {
		return
	}
	if m.WinnerParticipantID == nil || m.Slot2ParticipantID == nil || *m.WinnerParticipantID != *m.Slot2ParticipantID {
		return
	}

	reset := newMatch(b.TournamentID, models.SideGrandFinal, 2, 1)
	reset.Slot1ParticipantID = m.Slot1ParticipantID
	reset.Slot2ParticipantID = m.Slot2ParticipantID
	reset.Status = models.MatchStatusScheduled
	b.addMatch(reset)
	cs.note(reset)
}

// maybeAdvanceSwissRound pairs the next swiss round once every match of the
// latest round is completed and rounds remain.
func (b *Bracket) maybeAdvanceSwissRound(cs *changeSet) {
	latest := 0
	for _, m := range b.Matches {
		if m.Round > latest {
			latest = m.Round
		}
	}
	if latest == 0 || latest >= b.SwissRounds {
		return
	}
	for _, m := range b.Matches {
		if m.Round == latest && m.Status != models.MatchStatusCompleted && m.Status != models.MatchStatusCanceled {
			return
		}
	}
	b.pairNextSwissRound(cs, latest+1)
}
