package brackets

import (
	"testing"

	"github.com/openbracket/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countMatches(rounds []RoundSpec, side models.BracketSide) int {
	total := 0
	for _, r := range rounds {
		if r.BracketSide == side {
			total += r.MatchCount
		}
	}
	return total
}

func TestSingleEliminationTopology(t *testing.T) {
	topo, err := GenerateTopology(8, models.FormatSingleElimination, nil)
	require.NoError(t, err)

	require.Len(t, topo.Rounds, 3)
	assert.Equal(t, 4, topo.Rounds[0].MatchCount)
	assert.Equal(t, 2, topo.Rounds[1].MatchCount)
	assert.Equal(t, 1, topo.Rounds[2].MatchCount)
	assert.Equal(t, 7, countMatches(topo.Rounds, models.SideWinners), "N slots produce N-1 matches")
}

func TestSingleEliminationTopologyRejectsNonPowerOfTwo(t *testing.T) {
	_, err := GenerateTopology(6, models.FormatSingleElimination, nil)
	assert.ErrorIs(t, err, ErrInvalidSlotCount)
}

func TestDoubleEliminationTopology(t *testing.T) {
	topo, err := GenerateTopology(8, models.FormatDoubleElimination, nil)
	require.NoError(t, err)

	// Winners 4+2+1, losers 2+2+1+1, one grand final.
	assert.Equal(t, 7, countMatches(topo.Rounds, models.SideWinners))
	assert.Equal(t, 6, countMatches(topo.Rounds, models.SideLosers))
	assert.Equal(t, 1, countMatches(topo.Rounds, models.SideGrandFinal))

	loserRounds := make([]int, 0)
	for _, r := range topo.Rounds {
		if r.BracketSide == models.SideLosers {
			loserRounds = append(loserRounds, r.MatchCount)
		}
	}
	assert.Equal(t, []int{2, 2, 1, 1}, loserRounds)
}

func TestRoundRobinTopology(t *testing.T) {
	testCases := []struct {
		name           string
		n              int
		expectedRounds int
		perRound       int
	}{
		{name: "even field", n: 6, expectedRounds: 5, perRound: 3},
		{name: "odd field", n: 5, expectedRounds: 5, perRound: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			topo, err := GenerateTopology(tc.n, models.FormatRoundRobin, nil)
			require.NoError(t, err)
			require.Len(t, topo.Rounds, tc.expectedRounds)
			for _, r := range topo.Rounds {
				assert.Equal(t, tc.perRound, r.MatchCount)
			}
			assert.Equal(t, tc.n*(tc.n-1)/2, countMatches(topo.Rounds, models.SideWinners))
		})
	}
}

func TestSwissTopology(t *testing.T) {
	testCases := []struct {
		name           string
		n              int
		expectedRounds int
	}{
		{name: "8 players", n: 8, expectedRounds: 3},
		{name: "5 players", n: 5, expectedRounds: 3},
		{name: "16 players", n: 16, expectedRounds: 4},
		{name: "9 players", n: 9, expectedRounds: 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			topo, err := GenerateTopology(tc.n, models.FormatSwissSystem, nil)
			require.NoError(t, err)
			assert.Len(t, topo.Rounds, tc.expectedRounds)
		})
	}
}

func TestGroupStageTopology(t *testing.T) {
	cfg := &models.GroupStageConfig{NumberOfGroups: 2, TeamsPerGroup: 4, QualifiersPerGroup: 2}
	topo, err := GenerateTopology(8, models.FormatGroupStage, cfg)
	require.NoError(t, err)

	require.Len(t, topo.Groups, 2)
	for _, g := range topo.Groups {
		assert.Equal(t, 4, g.Size)
		assert.Len(t, g.Rounds, 3)
	}

	require.NotNil(t, topo.Playoff)
	assert.Equal(t, 4, topo.Playoff.SlotCount)
	assert.Len(t, topo.Playoff.Rounds, 2)
}

func TestGroupStageTopologyUnevenGroups(t *testing.T) {
	cfg := &models.GroupStageConfig{NumberOfGroups: 3, TeamsPerGroup: 4, QualifiersPerGroup: 1}
	topo, err := GenerateTopology(10, models.FormatGroupStage, cfg)
	require.NoError(t, err)

	sizes := []int{topo.Groups[0].Size, topo.Groups[1].Size, topo.Groups[2].Size}
	assert.Equal(t, []int{4, 3, 3}, sizes)

	// 3 qualifiers pad up to a 4 slot playoff.
	require.NotNil(t, topo.Playoff)
	assert.Equal(t, 4, topo.Playoff.SlotCount)
}

func TestGenerateTopologyErrors(t *testing.T) {
	_, err := GenerateTopology(1, models.FormatSingleElimination, nil)
	assert.ErrorIs(t, err, ErrInsufficientParticipants)

	_, err = GenerateTopology(8, models.TournamentFormat("LADDER"), nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = GenerateTopology(8, models.FormatGroupStage, nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
