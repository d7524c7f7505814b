package brackets

import (
	"context"
	"fmt"
	"math"

	"github.com/openbracket/tournament-engine/models"
)

type DoubleEliminationGenerator struct{}

func NewDoubleEliminationGenerator() BracketGenerator {
	return &DoubleEliminationGenerator{}
}

func (g *DoubleEliminationGenerator) GetName() string {
	return "DoubleElimination"
}

// GenerateBracket materializes a double elimination bracket: a winners tree
// identical to single elimination, a losers bracket following the standard
// drop-in pattern, and one grand final joining the two champions. The grand
// final reset game is not created here; the progression engine materializes it
// lazily when the losers-bracket finalist wins game one.
//
// Loser routing: winners round 1 losers pair up in losers round 1; the losers
// of winners round r>1 drop into losers round 2*(r-1), in reversed order on
// even winners rounds so early rematches are avoided.
func (g *DoubleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Bracket, error) {
	n := len(params.Participants)
	if n < 2 {
		return nil, fmt.Errorf("%w: double elimination needs at least 2, found %d", ErrInsufficientParticipants, n)
	}

	slotCount := nextPowerOfTwo(n)
	k := int(math.Log2(float64(slotCount)))

	seeds, err := BuildSeedList(params.Participants, params.Tournament.SeedingPolicy, slotCount, params.Rand)
	if err != nil {
		return nil, err
	}

	b := newBracket(params.Tournament.ID, models.FormatDoubleElimination, slotCount)
	b.setParticipants(params.Participants)

	winners := b.buildSingleEliminationTree(slotCount)

	losers := make([][]*models.Match, 2*(k-1)+1)
	for q := 1; q <= 2*(k-1); q++ {
		j := (q + 1) / 2
		count := 1 << (k - 1 - j)
		losers[q] = make([]*models.Match, count)
		for i := 0; i < count; i++ {
			m := newMatch(b.TournamentID, models.SideLosers, q, i+1)
			losers[q][i] = m
			b.addMatch(m)
		}
	}

	grandFinal := newMatch(b.TournamentID, models.SideGrandFinal, 1, 1)
	b.addMatch(grandFinal)

	// Winners champion takes slot 1 of the grand final, losers champion slot 2.
	linkWin(winners[k][0], grandFinal, 1)

	if k == 1 {
		// Two entrants: the loser of the only winners match goes straight to
		// the grand final for a second life.
		linkLoss(winners[1][0], grandFinal, 2)
	} else {
		for i, m := range winners[1] {
			linkLoss(m, losers[1][i/2], i%2+1)
		}
		for r := 2; r <= k; r++ {
			drop := losers[2*(r-1)]
			for i, m := range winners[r] {
				j := i
				if r%2 == 0 {
					j = len(drop) - 1 - i
				}
				linkLoss(m, drop[j], 2)
			}
		}
		for q := 1; q < 2*(k-1); q++ {
			for i, m := range losers[q] {
				if q%2 == 1 {
					linkWin(m, losers[q+1][i], 1)
				} else {
					linkWin(m, losers[q+1][i/2], i%2+1)
				}
			}
		}
		linkWin(losers[2*(k-1)][0], grandFinal, 2)
	}

	b.seatFirstRound(winners[1], seeds)
	b.sortMatches()

	return b, nil
}
