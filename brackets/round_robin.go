package brackets

import (
	"context"
	"fmt"

	"github.com/openbracket/tournament-engine/models"
	"github.com/openbracket/tournament-engine/utils"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() BracketGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// GenerateBracket creates the full round-robin schedule: every participant
// meets every other exactly once, laid out in rotation rounds so nobody plays
// twice in the same round. All matches are schedulable immediately; there is
// no winner advancement.
func (g *RoundRobinGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Bracket, error) {
	n := len(params.Participants)
	if n < 2 {
		return nil, fmt.Errorf("%w: round robin needs at least 2, found %d", ErrInsufficientParticipants, n)
	}

	ordered, err := orderParticipants(params.Participants, params.Tournament.SeedingPolicy, params.Rand)
	if err != nil {
		return nil, err
	}

	b := newBracket(params.Tournament.ID, models.FormatRoundRobin, n)
	b.setParticipants(params.Participants)
	materializeRoundRobin(b, ordered, nil)
	b.sortMatches()

	return b, nil
}

// materializeRoundRobin emits one full single round robin for the given
// participants using the standard rotation: fix the first entry, rotate the
// rest. Odd fields insert a phantom opponent; its pairing each round is the
// bye (no match record is created for it). groupNumber tags group-stage play
// and is nil for a plain round robin.
func materializeRoundRobin(b *Bracket, participants []*models.Participant, groupNumber *int) {
	ids := make([]int, 0, len(participants)+1)
	for _, p := range participants {
		ids = append(ids, p.ID)
	}

	const phantom = -1
	if len(ids)%2 != 0 {
		ids = append(ids, phantom)
	}
	n := len(ids)

	for round := 1; round <= n-1; round++ {
		order := 0
		for i := 0; i < n/2; i++ {
			p1, p2 := ids[i], ids[n-1-i]
			if p1 == phantom || p2 == phantom {
				continue
			}
			order++
			m := newMatch(b.TournamentID, models.SideWinners, round, order)
			m.GroupNumber = groupNumber
			b.addMatch(m)
			b.fillSlot(nil, m, 1, SeedSlot{ParticipantID: utils.Ptr(p1)})
			b.fillSlot(nil, m, 2, SeedSlot{ParticipantID: utils.Ptr(p2)})
		}
		// Rotate all but the first position.
		rotated := make([]int, 0, n)
		rotated = append(rotated, ids[0], ids[n-1])
		rotated = append(rotated, ids[1:n-1]...)
		ids = rotated
	}
}
