package brackets

import (
	"context"
	"fmt"

	"github.com/openbracket/tournament-engine/models"
)

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateBracket materializes a single elimination bracket: the field is
// padded to the next power of two, seated in bracket-balanced order, and every
// bye pairing is resolved immediately so the playable first round is ready.
func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Bracket, error) {
	n := len(params.Participants)
	if n < 2 {
		return nil, fmt.Errorf("%w: single elimination needs at least 2, found %d", ErrInsufficientParticipants, n)
	}

	slotCount := nextPowerOfTwo(n)
	seeds, err := BuildSeedList(params.Participants, params.Tournament.SeedingPolicy, slotCount, params.Rand)
	if err != nil {
		return nil, err
	}

	b := newBracket(params.Tournament.ID, models.FormatSingleElimination, slotCount)
	b.setParticipants(params.Participants)

	byRound := b.buildSingleEliminationTree(slotCount)
	b.seatFirstRound(byRound[1], seeds)
	b.sortMatches()

	return b, nil
}
