package brackets

import (
	"context"
	"fmt"
	"sort"

	"github.com/openbracket/tournament-engine/models"
	"github.com/openbracket/tournament-engine/utils"
)

type SwissGenerator struct{}

func NewSwissGenerator() BracketGenerator {
	return &SwissGenerator{}
}

func (g *SwissGenerator) GetName() string {
	return "Swiss"
}

// GenerateBracket materializes only round 1 of a Swiss tournament: top half
// against bottom half in seed order. Later rounds depend on cumulative
// standings and are paired lazily by the progression engine once the current
// round completes. The total round count is fixed at ceil(log2(N)).
func (g *SwissGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Bracket, error) {
	n := len(params.Participants)
	if n < 2 {
		return nil, fmt.Errorf("%w: swiss needs at least 2, found %d", ErrInsufficientParticipants, n)
	}

	ordered, err := orderParticipants(params.Participants, params.Tournament.SeedingPolicy, params.Rand)
	if err != nil {
		return nil, err
	}

	b := newBracket(params.Tournament.ID, models.FormatSwissSystem, n)
	b.SwissRounds = swissRoundCount(n)
	b.setParticipants(params.Participants)

	half := n / 2
	order := 0
	for i := 0; i < half; i++ {
		order++
		m := newMatch(b.TournamentID, models.SideWinners, 1, order)
		b.addMatch(m)
		b.fillSlot(nil, m, 1, SeedSlot{ParticipantID: utils.Ptr(ordered[i].ID)})
		b.fillSlot(nil, m, 2, SeedSlot{ParticipantID: utils.Ptr(ordered[i+half].ID)})
	}
	if n%2 != 0 {
		// Odd field: the lowest seed sits out round 1 with a bye.
		order++
		m := newMatch(b.TournamentID, models.SideWinners, 1, order)
		b.addMatch(m)
		b.fillSlot(nil, m, 1, SeedSlot{ParticipantID: utils.Ptr(ordered[n-1].ID)})
		b.fillSlot(nil, m, 2, SeedSlot{Bye: true})
	}

	b.sortMatches()
	return b, nil
}

// swissScore is the cumulative record used for pairing order.
type swissScore struct {
	participantID int
	wins          int
	hadBye        bool
}

// pairNextSwissRound generates the matches of the given round from cumulative
// win counts: standings descending, adjacent pairing, no rematches where
// avoidable, ties broken by original seed. With an odd field the lowest-placed
// participant who has not yet received a bye sits out. Created matches are
// noted in the change set.
func (b *Bracket) pairNextSwissRound(cs *changeSet, round int) {
	scores := b.swissStandingsOrder()

	played := make(map[[2]int]bool)
	for _, m := range b.Matches {
		if m.Slot1ParticipantID != nil && m.Slot2ParticipantID != nil {
			played[pairKey(*m.Slot1ParticipantID, *m.Slot2ParticipantID)] = true
		}
	}

	var byeRecipient *int
	if len(scores)%2 != 0 {
		// Walk from the bottom of the standings for someone without a bye yet.
		for i := len(scores) - 1; i >= 0; i-- {
			if !scores[i].hadBye {
				byeRecipient = utils.Ptr(scores[i].participantID)
				scores = append(scores[:i], scores[i+1:]...)
				break
			}
		}
		if byeRecipient == nil {
			byeRecipient = utils.Ptr(scores[len(scores)-1].participantID)
			scores = scores[:len(scores)-1]
		}
	}

	order := 0
	paired := make([]bool, len(scores))
	for i := range scores {
		if paired[i] {
			continue
		}
		opponent := -1
		for j := i + 1; j < len(scores); j++ {
			if !paired[j] && !played[pairKey(scores[i].participantID, scores[j].participantID)] {
				opponent = j
				break
			}
		}
		if opponent == -1 {
			// No fresh opponent left in the pool: accept the rematch rather
			// than leaving the round incomplete.
			for j := i + 1; j < len(scores); j++ {
				if !paired[j] {
					opponent = j
					break
				}
			}
		}
		if opponent == -1 {
			break
		}
		paired[i], paired[opponent] = true, true

		order++
		m := newMatch(b.TournamentID, models.SideWinners, round, order)
		b.addMatch(m)
		cs.note(m)
		b.fillSlot(cs, m, 1, SeedSlot{ParticipantID: utils.Ptr(scores[i].participantID)})
		b.fillSlot(cs, m, 2, SeedSlot{ParticipantID: utils.Ptr(scores[opponent].participantID)})
	}

	if byeRecipient != nil {
		order++
		m := newMatch(b.TournamentID, models.SideWinners, round, order)
		b.addMatch(m)
		cs.note(m)
		b.fillSlot(cs, m, 1, SeedSlot{ParticipantID: byeRecipient})
		b.fillSlot(cs, m, 2, SeedSlot{Bye: true})
	}
}

// swissStandingsOrder returns every participant ordered by wins descending,
// then original seed ascending (unseeded last), then id for stability.
func (b *Bracket) swissStandingsOrder() []swissScore {
	byID := make(map[int]*swissScore, len(b.Participants))
	scores := make([]swissScore, 0, len(b.Participants))
	for id := range b.Participants {
		scores = append(scores, swissScore{participantID: id})
	}
	for i := range scores {
		byID[scores[i].participantID] = &scores[i]
	}

	for _, m := range b.Matches {
		if m.HasBye() {
			if m.Slot1ParticipantID != nil {
				if s, ok := byID[*m.Slot1ParticipantID]; ok {
					s.hadBye = true
					s.wins++
				}
			}
			continue
		}
		if m.Status == models.MatchStatusCompleted && m.WinnerParticipantID != nil {
			if s, ok := byID[*m.WinnerParticipantID]; ok {
				s.wins++
			}
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].wins != scores[j].wins {
			return scores[i].wins > scores[j].wins
		}
		si := b.Participants[scores[i].participantID].Seed
		sj := b.Participants[scores[j].participantID].Seed
		switch {
		case si != nil && sj != nil && *si != *sj:
			return *si < *sj
		case si != nil && sj == nil:
			return true
		case si == nil && sj != nil:
			return false
		}
		return scores[i].participantID < scores[j].participantID
	})
	return scores
}

func pairKey(a, c int) [2]int {
	if a < c {
		return [2]int{a, c}
	}
	return [2]int{c, a}
}
