package brackets

import (
	"testing"

	"github.com/openbracket/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionPercentageIgnoresByes(t *testing.T) {
	b := generateTestBracket(t, models.FormatSingleElimination, 5)

	// Three walkovers are complete, yet nothing playable has happened.
	assert.InDelta(t, 0.0, b.CompletionPercentage(), 0.001)

	opener := b.matchAt(models.SideWinners, 0, 1, 2)
	playMatch(t, b, opener, 4)
	assert.InDelta(t, 25.0, b.CompletionPercentage(), 0.001)
}

func TestCurrentFrontier(t *testing.T) {
	b := generateTestBracket(t, models.FormatSingleElimination, 5)

	// Playable at once: the 4-5 opener and the round 2 pairing of two bye
	// winners.
	frontier := b.CurrentFrontier()
	require.Len(t, frontier, 2)
	for _, m := range frontier {
		assert.Equal(t, models.MatchStatusScheduled, m.Status)
		assert.False(t, m.HasBye())
	}

	playMatch(t, b, b.matchAt(models.SideWinners, 0, 1, 2), 4)

	// Seed 1 now has its round 2 opponent.
	frontier = b.CurrentFrontier()
	require.Len(t, frontier, 2)
}

func TestMatchesByRound(t *testing.T) {
	b := generateTestBracket(t, models.FormatSingleElimination, 8)

	byRound := b.MatchesByRound(models.SideWinners)
	require.Len(t, byRound, 3)
	assert.Len(t, byRound[1], 4)
	assert.Len(t, byRound[2], 2)
	assert.Len(t, byRound[3], 1)

	for round, matches := range byRound {
		for i, m := range matches {
			assert.Equal(t, round, m.Round)
			assert.Equal(t, i+1, m.OrderInRound)
		}
	}

	assert.Empty(t, b.MatchesByRound(models.SideLosers))
}

func TestStandingsHeadToHeadBreaksTies(t *testing.T) {
	b := generateTestBracket(t, models.FormatRoundRobin, 4)

	// 1 and 2 finish 2-1; 2 has the far better score difference but lost the
	// mutual match, so 1 ranks above. Same for 3 over 4 at 1-2.
	playPair(t, b, 1, 2, 1, 1, 0)
	playPair(t, b, 1, 3, 1, 1, 0)
	playPair(t, b, 1, 4, 4, 1, 0)
	playPair(t, b, 2, 3, 2, 5, 0)
	playPair(t, b, 2, 4, 2, 1, 0)
	playPair(t, b, 3, 4, 3, 1, 0)

	standings := b.Standings()
	require.Len(t, standings, 4)

	order := make([]int, 0, 4)
	for _, s := range standings {
		order = append(order, s.ParticipantID)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, order)

	assert.Equal(t, 2, standings[0].Wins)
	assert.Equal(t, 1, standings[0].ScoreDifference)
	assert.Equal(t, 5, standings[1].ScoreDifference)
}

// playPair records a result for the match between a and c, with the given
// score from the winner's perspective.
func playPair(t *testing.T, b *Bracket, a, c, winner, winScore, loseScore int) {
	t.Helper()
	for _, m := range b.Matches {
		if m.Slot1ParticipantID == nil || m.Slot2ParticipantID == nil {
			continue
		}
		if pairKey(*m.Slot1ParticipantID, *m.Slot2ParticipantID) != pairKey(a, c) {
			continue
		}
		score1, score2 := winScore, loseScore
		if *m.Slot2ParticipantID == winner {
			score1, score2 = loseScore, winScore
		}
		_, err := b.RecordResult(ResultParams{
			MatchID:             m.ID,
			Score1:              score1,
			Score2:              score2,
			WinnerParticipantID: winner,
		})
		require.NoError(t, err)
		return
	}
	t.Fatalf("no match between %d and %d", a, c)
}
