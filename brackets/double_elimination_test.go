package brackets

import (
	"testing"

	"github.com/openbracket/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoubleEliminationLayout(t *testing.T) {
	b := generateTestBracket(t, models.FormatDoubleElimination, 4)

	require.Len(t, b.Matches, 6)
	assert.Len(t, matchesOn(b, models.SideWinners), 3)
	assert.Len(t, matchesOn(b, models.SideLosers), 2)
	assert.Len(t, matchesOn(b, models.SideGrandFinal), 1)

	w1 := b.matchAt(models.SideWinners, 0, 1, 1)
	w2 := b.matchAt(models.SideWinners, 0, 1, 2)
	wf := b.matchAt(models.SideWinners, 0, 2, 1)
	l1 := b.matchAt(models.SideLosers, 0, 1, 1)
	l2 := b.matchAt(models.SideLosers, 0, 2, 1)
	gf := b.matchAt(models.SideGrandFinal, 0, 1, 1)
	for _, m := range []*models.Match{w1, w2, wf, l1, l2, gf} {
		require.NotNil(t, m)
	}

	// Opening round losers pair up in losers round 1.
	assert.Equal(t, l1.ID, *w1.NextMatchOnLoss)
	assert.Equal(t, 1, *w1.NextSlotOnLoss)
	assert.Equal(t, l1.ID, *w2.NextMatchOnLoss)
	assert.Equal(t, 2, *w2.NextSlotOnLoss)

	// The winners finalist drops into the last losers round; its opponent
	// climbed through the losers bracket.
	assert.Equal(t, l2.ID, *wf.NextMatchOnLoss)
	assert.Equal(t, 2, *wf.NextSlotOnLoss)
	assert.Equal(t, l2.ID, *l1.NextMatchOnWin)
	assert.Equal(t, 1, *l1.NextSlotOnWin)

	// Winners champion holds grand final slot 1, losers champion slot 2.
	assert.Equal(t, gf.ID, *wf.NextMatchOnWin)
	assert.Equal(t, 1, *wf.NextSlotOnWin)
	assert.Equal(t, gf.ID, *l2.NextMatchOnWin)
	assert.Equal(t, 2, *l2.NextSlotOnWin)
}

func TestDoubleEliminationWinnersChampionTakesFinal(t *testing.T) {
	b := generateTestBracket(t, models.FormatDoubleElimination, 4)
	playAllScheduled(t, b)

	require.True(t, b.Decided())
	assert.Equal(t, 1, *b.Champion())

	// An undefeated run leaves no reset game.
	assert.Nil(t, b.matchAt(models.SideGrandFinal, 0, 2, 1))
	require.Len(t, b.Matches, 6)
}

func TestDoubleEliminationGrandFinalReset(t *testing.T) {
	b := generateTestBracket(t, models.FormatDoubleElimination, 4)

	playMatch(t, b, b.matchAt(models.SideWinners, 0, 1, 1), 1)
	playMatch(t, b, b.matchAt(models.SideWinners, 0, 1, 2), 2)
	playMatch(t, b, b.matchAt(models.SideWinners, 0, 2, 1), 1)
	playMatch(t, b, b.matchAt(models.SideLosers, 0, 1, 1), 3)
	playMatch(t, b, b.matchAt(models.SideLosers, 0, 2, 1), 2)

	gf := b.matchAt(models.SideGrandFinal, 0, 1, 1)
	require.NotNil(t, gf)
	assert.Equal(t, 1, *gf.Slot1ParticipantID)
	assert.Equal(t, 2, *gf.Slot2ParticipantID)

	// The losers-bracket finalist takes game one, forcing a decider.
	changed := playMatch(t, b, gf, 2)

	reset := b.matchAt(models.SideGrandFinal, 0, 2, 1)
	require.NotNil(t, reset, "reset game should materialize")
	assert.Equal(t, 1, *reset.Slot1ParticipantID)
	assert.Equal(t, 2, *reset.Slot2ParticipantID)
	assert.Equal(t, models.MatchStatusScheduled, reset.Status)
	require.Len(t, changed, 2)
	assert.Equal(t, reset.ID, changed[1].ID)

	assert.False(t, b.Decided(), "no champion until the decider is played")

	playMatch(t, b, reset, 2)
	require.True(t, b.Decided())
	assert.Equal(t, 2, *b.Champion())
}

func TestDoubleEliminationSecondLossEliminates(t *testing.T) {
	b := generateTestBracket(t, models.FormatDoubleElimination, 4)

	playMatch(t, b, b.matchAt(models.SideWinners, 0, 1, 1), 1) // 4's first loss
	playMatch(t, b, b.matchAt(models.SideWinners, 0, 1, 2), 2) // 3's first loss
	playMatch(t, b, b.matchAt(models.SideLosers, 0, 1, 1), 3)  // 4's second loss

	for _, m := range b.Matches {
		if m.Status == models.MatchStatusCompleted {
			continue
		}
		assert.NotEqual(t, 4, valueOrZero(m.Slot1ParticipantID))
		assert.NotEqual(t, 4, valueOrZero(m.Slot2ParticipantID))
	}
}

func TestDoubleEliminationTwoEntrants(t *testing.T) {
	b := generateTestBracket(t, models.FormatDoubleElimination, 2)

	// A single winners match feeds both grand final slots.
	require.Len(t, b.Matches, 2)
	w := b.matchAt(models.SideWinners, 0, 1, 1)
	gf := b.matchAt(models.SideGrandFinal, 0, 1, 1)
	require.NotNil(t, w)
	require.NotNil(t, gf)
	assert.Equal(t, gf.ID, *w.NextMatchOnWin)
	assert.Equal(t, gf.ID, *w.NextMatchOnLoss)

	playMatch(t, b, w, 2)
	assert.Equal(t, 2, *gf.Slot1ParticipantID)
	assert.Equal(t, 1, *gf.Slot2ParticipantID)

	playMatch(t, b, gf, 2)
	require.True(t, b.Decided())
	assert.Equal(t, 2, *b.Champion())
}

func valueOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
