package brackets

import (
	"testing"

	"github.com/openbracket/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleEliminationFullField(t *testing.T) {
	b := generateTestBracket(t, models.FormatSingleElimination, 4)

	require.Len(t, b.Matches, 3)
	assert.Equal(t, 4, b.SlotCount)

	m1 := b.matchAt(models.SideWinners, 0, 1, 1)
	m2 := b.matchAt(models.SideWinners, 0, 1, 2)
	final := b.matchAt(models.SideWinners, 0, 2, 1)
	require.NotNil(t, m1)
	require.NotNil(t, m2)
	require.NotNil(t, final)

	// Seed 1 meets seed 4, seed 2 meets seed 3.
	assert.Equal(t, 1, *m1.Slot1ParticipantID)
	assert.Equal(t, 4, *m1.Slot2ParticipantID)
	assert.Equal(t, 2, *m2.Slot1ParticipantID)
	assert.Equal(t, 3, *m2.Slot2ParticipantID)

	assert.Equal(t, models.MatchStatusScheduled, m1.Status)
	assert.Equal(t, models.MatchStatusScheduled, m2.Status)
	assert.Equal(t, models.MatchStatusPending, final.Status)

	require.NotNil(t, m1.NextMatchOnWin)
	assert.Equal(t, final.ID, *m1.NextMatchOnWin)
	assert.Equal(t, 1, *m1.NextSlotOnWin)
	assert.Equal(t, final.ID, *m2.NextMatchOnWin)
	assert.Equal(t, 2, *m2.NextSlotOnWin)
	assert.Nil(t, final.NextMatchOnWin)
}

func TestSingleEliminationBYEsAutoResolve(t *testing.T) {
	b := generateTestBracket(t, models.FormatSingleElimination, 5)

	require.Len(t, b.Matches, 7)
	assert.Equal(t, 8, b.SlotCount)

	byes, playable := 0, 0
	for _, m := range b.Matches {
		if m.HasBye() {
			byes++
			assert.Equal(t, models.MatchStatusCompleted, m.Status)
			assert.Nil(t, m.Score1)
			assert.Nil(t, m.Score2)
		} else {
			playable++
		}
	}
	assert.Equal(t, 3, byes)
	assert.Equal(t, 4, playable)

	// Seeds 4 and 5 contest the only playable opener.
	opener := b.matchAt(models.SideWinners, 0, 1, 2)
	require.NotNil(t, opener)
	assert.Equal(t, 4, *opener.Slot1ParticipantID)
	assert.Equal(t, 5, *opener.Slot2ParticipantID)
	assert.Equal(t, models.MatchStatusScheduled, opener.Status)

	// Two bye winners meet in round 2, already schedulable at generation.
	semi := b.matchAt(models.SideWinners, 0, 2, 2)
	require.NotNil(t, semi)
	assert.Equal(t, 2, *semi.Slot1ParticipantID)
	assert.Equal(t, 3, *semi.Slot2ParticipantID)
	assert.Equal(t, models.MatchStatusScheduled, semi.Status)

	// Seed 1's bye carried it to round 2 slot 1.
	semi1 := b.matchAt(models.SideWinners, 0, 2, 1)
	require.NotNil(t, semi1)
	assert.Equal(t, 1, *semi1.Slot1ParticipantID)
	assert.Nil(t, semi1.Slot2ParticipantID)
	assert.Equal(t, models.MatchStatusPending, semi1.Status)
}

func TestSingleEliminationWinnerAdvances(t *testing.T) {
	b := generateTestBracket(t, models.FormatSingleElimination, 4)

	m1 := b.matchAt(models.SideWinners, 0, 1, 1)
	final := b.matchAt(models.SideWinners, 0, 2, 1)

	changed := playMatch(t, b, m1, 4)

	assert.Equal(t, models.MatchStatusCompleted, m1.Status)
	assert.Equal(t, 4, *m1.WinnerParticipantID)
	assert.Equal(t, 1, *m1.LoserParticipantID)
	assert.Equal(t, 4, *final.Slot1ParticipantID)
	assert.Equal(t, models.MatchStatusPending, final.Status)

	// The delta contains the played match and the fed final, nothing else.
	require.Len(t, changed, 2)
	assert.Equal(t, m1.ID, changed[0].ID)
	assert.Equal(t, final.ID, changed[1].ID)
}

func TestSingleEliminationPlayThrough(t *testing.T) {
	for _, n := range []int{2, 4, 5, 8, 13} {
		b := generateTestBracket(t, models.FormatSingleElimination, n)
		playAllScheduled(t, b)

		require.True(t, b.Decided(), "field of %d should finish", n)
		require.NotNil(t, b.Champion())
		assert.Equal(t, 1, *b.Champion(), "lowest ID wins every match")
		assert.InDelta(t, 100.0, b.CompletionPercentage(), 0.001)
		assert.Empty(t, b.CurrentFrontier())
	}
}
