package brackets

import (
	"context"
	"testing"

	"github.com/openbracket/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupStageSnakeSeeding(t *testing.T) {
	b := generateTestBracketFor(t, testGroupTournament(2, 4, 2), 8)

	require.Len(t, b.Matches, 12, "two groups of four, six matches each")

	members := map[int][]int{}
	for _, m := range b.Matches {
		require.NotNil(t, m.GroupNumber, "no playoff match before group play ends")
		g := *m.GroupNumber
		for _, id := range []int{*m.Slot1ParticipantID, *m.Slot2ParticipantID} {
			if !containsInt(members[g], id) {
				members[g] = append(members[g], id)
			}
		}
	}

	assert.ElementsMatch(t, []int{1, 4, 5, 8}, members[1])
	assert.ElementsMatch(t, []int{2, 3, 6, 7}, members[2])
}

func TestGroupStagePlayoffSeatsCrossGroup(t *testing.T) {
	b := generateTestBracketFor(t, testGroupTournament(2, 4, 2), 8)

	assert.Nil(t, b.Champion())

	// Finish every group match but one; the playoff must not exist yet.
	frontier := b.CurrentFrontier()
	require.Len(t, frontier, 12)
	for _, m := range frontier[:11] {
		playMatch(t, b, m, minSlotID(m))
	}
	require.Len(t, b.Matches, 12)

	last := b.CurrentFrontier()
	require.Len(t, last, 1)
	changed := playMatch(t, b, last[0], minSlotID(last[0]))

	// The final group result materializes the four-slot knockout.
	require.Len(t, b.Matches, 15)
	assert.Len(t, changed, 4)

	semi1 := b.matchAt(models.SideWinners, 0, 1, 1)
	semi2 := b.matchAt(models.SideWinners, 0, 1, 2)
	final := b.matchAt(models.SideWinners, 0, 2, 1)
	require.NotNil(t, semi1)
	require.NotNil(t, semi2)
	require.NotNil(t, final)
	assert.Nil(t, semi1.GroupNumber)

	// Group winners 1 and 2 meet the other group's runner-up.
	assert.Equal(t, 1, *semi1.Slot1ParticipantID)
	assert.Equal(t, 3, *semi1.Slot2ParticipantID)
	assert.Equal(t, 2, *semi2.Slot1ParticipantID)
	assert.Equal(t, 4, *semi2.Slot2ParticipantID)
	assert.Equal(t, models.MatchStatusScheduled, semi1.Status)
	assert.Equal(t, models.MatchStatusPending, final.Status)
}

func TestGroupStagePlayThrough(t *testing.T) {
	b := generateTestBracketFor(t, testGroupTournament(2, 4, 2), 8)
	playAllScheduled(t, b)

	require.True(t, b.Decided())
	assert.Equal(t, 1, *b.Champion())
	assert.InDelta(t, 100.0, b.CompletionPercentage(), 0.001)
}

func TestGroupStageStandingsPerGroup(t *testing.T) {
	b := generateTestBracketFor(t, testGroupTournament(2, 4, 2), 8)
	playAllScheduled(t, b)

	g1 := b.GroupStandings(1)
	require.Len(t, g1, 4)
	assert.Equal(t, []int{1, 4, 5, 8}, []int{
		g1[0].ParticipantID, g1[1].ParticipantID, g1[2].ParticipantID, g1[3].ParticipantID,
	})
	assert.Equal(t, 3, g1[0].Wins)
	require.NotNil(t, g1[0].GroupNumber)
	assert.Equal(t, 1, *g1[0].GroupNumber)

	g2 := b.GroupStandings(2)
	require.Len(t, g2, 4)
	assert.Equal(t, 2, g2[0].ParticipantID)
}

func TestGroupStageRequiresConfig(t *testing.T) {
	tournament := testTournament(models.FormatGroupStage)

	generator, err := NewGenerator(tournament.Format)
	require.NoError(t, err)

	_, err = generator.GenerateBracket(context.Background(), GenerateBracketParams{
		Tournament:   tournament,
		Participants: testParticipants(8),
	})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func minSlotID(m *models.Match) int {
	if *m.Slot2ParticipantID < *m.Slot1ParticipantID {
		return *m.Slot2ParticipantID
	}
	return *m.Slot1ParticipantID
}
