package brackets

import (
	"testing"

	"github.com/openbracket/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwissFirstRoundPairsTopHalfAgainstBottomHalf(t *testing.T) {
	b := generateTestBracket(t, models.FormatSwissSystem, 8)

	assert.Equal(t, 3, b.SwissRounds)
	require.Len(t, b.Matches, 4, "only round 1 exists at generation")

	expected := [][2]int{{1, 5}, {2, 6}, {3, 7}, {4, 8}}
	for i, want := range expected {
		m := b.matchAt(models.SideWinners, 0, 1, i+1)
		require.NotNil(t, m)
		assert.Equal(t, want[0], *m.Slot1ParticipantID)
		assert.Equal(t, want[1], *m.Slot2ParticipantID)
		assert.Equal(t, models.MatchStatusScheduled, m.Status)
	}
}

func TestSwissNextRoundPairsByRecord(t *testing.T) {
	b := generateTestBracket(t, models.FormatSwissSystem, 8)

	round1 := b.MatchesByRound(models.SideWinners)[1]
	var changed []*models.Match
	for _, m := range round1 {
		changed = playMatch(t, b, m, *m.Slot1ParticipantID)
	}

	// Completing the last round 1 match pairs round 2 in the same delta.
	require.Len(t, changed, 5)
	require.Len(t, b.Matches, 8)

	// Round 1 winners 1-4 face each other, as do the 0-1 group.
	expected := [][2]int{{1, 2}, {3, 4}, {5, 6}, {7, 8}}
	for i, want := range expected {
		m := b.matchAt(models.SideWinners, 0, 2, i+1)
		require.NotNil(t, m)
		assert.Equal(t, want[0], *m.Slot1ParticipantID)
		assert.Equal(t, want[1], *m.Slot2ParticipantID)
	}
}

func TestSwissAvoidsRematches(t *testing.T) {
	b := generateTestBracket(t, models.FormatSwissSystem, 8)
	playAllScheduled(t, b)

	pairs := make(map[[2]int]int)
	rounds := 0
	for _, m := range b.Matches {
		pairs[pairKey(*m.Slot1ParticipantID, *m.Slot2ParticipantID)]++
		if m.Round > rounds {
			rounds = m.Round
		}
	}
	assert.Equal(t, 3, rounds)
	for pair, count := range pairs {
		assert.Equal(t, 1, count, "rematch of %v", pair)
	}
}

func TestSwissChampionAfterFinalRound(t *testing.T) {
	b := generateTestBracket(t, models.FormatSwissSystem, 8)

	round1 := b.MatchesByRound(models.SideWinners)[1]
	for _, m := range round1 {
		playMatch(t, b, m, *m.Slot1ParticipantID)
	}
	assert.Nil(t, b.Champion(), "rounds remain even though all current matches are done")

	playAllScheduled(t, b)
	require.True(t, b.Decided())
	assert.Equal(t, 1, *b.Champion())

	standings := b.Standings()
	require.Len(t, standings, 8)
	assert.Equal(t, 3, standings[0].Wins)
	assert.Equal(t, 1, standings[0].ParticipantID)
}

func TestSwissOddFieldRotatesByes(t *testing.T) {
	b := generateTestBracket(t, models.FormatSwissSystem, 5)

	assert.Equal(t, 3, b.SwissRounds)

	// The lowest seed sits out round 1; the walkover is already complete.
	bye := b.matchAt(models.SideWinners, 0, 1, 3)
	require.NotNil(t, bye)
	require.True(t, bye.HasBye())
	assert.Equal(t, 5, *bye.Slot1ParticipantID)
	assert.Equal(t, models.MatchStatusCompleted, bye.Status)
	assert.Equal(t, 5, *bye.WinnerParticipantID)

	playAllScheduled(t, b)

	// Each round's bye goes to the lowest-placed participant still owed one.
	byeRecipients := make(map[int]int)
	for _, m := range b.Matches {
		if m.HasBye() {
			byeRecipients[m.Round] = *m.Slot1ParticipantID
		}
	}
	assert.Equal(t, map[int]int{1: 5, 2: 4, 3: 3}, byeRecipients)

	require.True(t, b.Decided())
	assert.Equal(t, 1, *b.Champion())
}

func TestSwissByeMatchRejectsResults(t *testing.T) {
	b := generateTestBracket(t, models.FormatSwissSystem, 5)

	bye := b.matchAt(models.SideWinners, 0, 1, 3)
	require.NotNil(t, bye)

	_, err := b.RecordResult(ResultParams{
		MatchID:             bye.ID,
		Score1:              1,
		WinnerParticipantID: 5,
	})
	assert.ErrorIs(t, err, ErrInvalidResult)
}
