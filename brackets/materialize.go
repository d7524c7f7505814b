package brackets

import (
	"github.com/google/uuid"
	"github.com/openbracket/tournament-engine/models"
	"github.com/openbracket/tournament-engine/utils"
)

// changeSet collects every match mutated during one engine operation so the
// host can persist and broadcast incrementally. A nil changeSet is valid and
// simply records nothing (used during initial materialization, where the whole
// set is saved anyway).
type changeSet struct {
	order []*models.Match
	seen  map[uuid.UUID]bool
}

func newChangeSet() *changeSet {
	return &changeSet{seen: make(map[uuid.UUID]bool)}
}

func (c *changeSet) note(m *models.Match) {
	if c == nil {
		return
	}
	if !c.seen[m.ID] {
		c.seen[m.ID] = true
		c.order = append(c.order, m)
	}
}

func (c *changeSet) matches() []*models.Match {
	if c == nil {
		return nil
	}
	return c.order
}

// fillSlot writes a participant or bye into a match slot and reacts to the new
// occupancy: two real participants mark the match schedulable, a bye pairing
// auto-resolves immediately and cascades forward.
func (b *Bracket) fillSlot(cs *changeSet, m *models.Match, slot int, entry SeedSlot) {
	if slot == 1 {
		m.Slot1ParticipantID = entry.ParticipantID
		m.Slot1Bye = entry.Bye
	} else {
		m.Slot2ParticipantID = entry.ParticipantID
		m.Slot2Bye = entry.Bye
	}
	cs.note(m)

	if !m.BothSlotsFilled() || m.Status != models.MatchStatusPending {
		return
	}
	if m.HasBye() {
		b.autoResolve(cs, m)
		return
	}
	// Both slots hold real participants: the match becomes schedulable. The
	// engine only marks readiness; actual scheduling is the host's call.
	m.Status = models.MatchStatusScheduled
}

// autoResolve completes a match that contains at least one bye: the real
// participant wins without score entry. A bye is forwarded as the loser, and
// when both slots are byes the walkover itself propagates as a bye, which lets
// an all-bye sub-bracket collapse through multiple rounds.
func (b *Bracket) autoResolve(cs *changeSet, m *models.Match) {
	m.Status = models.MatchStatusCompleted
	cs.note(m)

	winner := SeedSlot{Bye: true}
	switch {
	case m.Slot1ParticipantID != nil:
		m.WinnerParticipantID = m.Slot1ParticipantID
		winner = SeedSlot{ParticipantID: m.Slot1ParticipantID}
	case m.Slot2ParticipantID != nil:
		m.WinnerParticipantID = m.Slot2ParticipantID
		winner = SeedSlot{ParticipantID: m.Slot2ParticipantID}
	}

	b.advanceEntry(cs, m.NextMatchOnWin, m.NextSlotOnWin, winner)
	b.advanceEntry(cs, m.NextMatchOnLoss, m.NextSlotOnLoss, SeedSlot{Bye: true})
}

func (b *Bracket) advanceEntry(cs *changeSet, matchID *uuid.UUID, slot *int, entry SeedSlot) {
	if matchID == nil || slot == nil {
		return
	}
	if target, ok := b.byID[*matchID]; ok {
		b.fillSlot(cs, target, *slot, entry)
	}
}

func linkWin(from, to *models.Match, slot int) {
	from.NextMatchOnWin = utils.Ptr(to.ID)
	from.NextSlotOnWin = utils.Ptr(slot)
}

func linkLoss(from, to *models.Match, slot int) {
	from.NextMatchOnLoss = utils.Ptr(to.ID)
	from.NextSlotOnLoss = utils.Ptr(slot)
}

// buildSingleEliminationTree creates the match skeleton of a single
// elimination bracket on the winners side and wires winner advancement:
// match i of round r feeds slot i%2+1 of match i/2 in round r+1. The first
// round is NOT seated here; callers that need additional wiring (the double
// elimination generator routes losers out of this tree) do that before
// calling seatFirstRound, so bye auto-wins cascade through complete links.
func (b *Bracket) buildSingleEliminationTree(slotCount int) [][]*models.Match {
	numRounds := 0
	for 1<<numRounds < slotCount {
		numRounds++
	}

	byRound := make([][]*models.Match, numRounds+1)
	for r := 1; r <= numRounds; r++ {
		count := slotCount >> r
		byRound[r] = make([]*models.Match, count)
		for i := 0; i < count; i++ {
			m := newMatch(b.TournamentID, models.SideWinners, r, i+1)
			byRound[r][i] = m
			b.addMatch(m)
		}
	}

	for r := 1; r < numRounds; r++ {
		for i, m := range byRound[r] {
			linkWin(m, byRound[r+1][i/2], i%2+1)
		}
	}

	return byRound
}

// seatFirstRound pairs consecutive seed list entries into the given matches,
// triggering readiness marking and bye auto-resolution as slots fill.
func (b *Bracket) seatFirstRound(firstRound []*models.Match, seeds SeedList) {
	for i, m := range firstRound {
		b.fillSlot(nil, m, 1, seeds[2*i])
		b.fillSlot(nil, m, 2, seeds[2*i+1])
	}
}
