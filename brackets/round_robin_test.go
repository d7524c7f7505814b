package brackets

import (
	"testing"

	"github.com/openbracket/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRobinEveryPairMeetsOnce(t *testing.T) {
	testCases := []struct {
		name           string
		n              int
		expectedRounds int
	}{
		{name: "even field", n: 4, expectedRounds: 3},
		{name: "odd field", n: 5, expectedRounds: 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := generateTestBracket(t, models.FormatRoundRobin, tc.n)

			require.Len(t, b.Matches, tc.n*(tc.n-1)/2)

			pairs := make(map[[2]int]int)
			maxRound := 0
			for _, m := range b.Matches {
				assert.Equal(t, models.MatchStatusScheduled, m.Status)
				assert.Nil(t, m.NextMatchOnWin, "round robin has no advancement")
				pairs[pairKey(*m.Slot1ParticipantID, *m.Slot2ParticipantID)]++
				if m.Round > maxRound {
					maxRound = m.Round
				}
			}
			assert.Equal(t, tc.expectedRounds, maxRound)
			for pair, count := range pairs {
				assert.Equal(t, 1, count, "pair %v scheduled more than once", pair)
			}
			assert.Len(t, pairs, tc.n*(tc.n-1)/2)
		})
	}
}

func TestRoundRobinNobodyPlaysTwicePerRound(t *testing.T) {
	b := generateTestBracket(t, models.FormatRoundRobin, 5)

	for round, matches := range b.MatchesByRound(models.SideWinners) {
		seen := make(map[int]bool)
		for _, m := range matches {
			for _, id := range []int{*m.Slot1ParticipantID, *m.Slot2ParticipantID} {
				assert.False(t, seen[id], "participant %d plays twice in round %d", id, round)
				seen[id] = true
			}
		}
		// Odd field: exactly one participant sits the round out.
		assert.Len(t, seen, 4)
	}
}

func TestRoundRobinStandings(t *testing.T) {
	b := generateTestBracket(t, models.FormatRoundRobin, 4)

	assert.Nil(t, b.Champion(), "no champion before all rounds complete")

	playAllScheduled(t, b)

	standings := b.Standings()
	require.Len(t, standings, 4)
	// Lowest ID wins every pairing, so the table is 3-0, 2-1, 1-2, 0-3.
	for i, s := range standings {
		assert.Equal(t, i+1, s.ParticipantID)
		assert.Equal(t, i+1, s.Rank)
		assert.Equal(t, 3-i, s.Wins)
		assert.Equal(t, i, s.Losses)
	}

	require.True(t, b.Decided())
	assert.Equal(t, 1, *b.Champion())
}
