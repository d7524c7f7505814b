package brackets

import (
	"math/rand"
	"testing"

	"github.com/openbracket/tournament-engine/models"
	"github.com/openbracket/tournament-engine/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBracketOrder(t *testing.T) {
	testCases := []struct {
		name      string
		slotCount int
		expected  []int
	}{
		{name: "2 slots", slotCount: 2, expected: []int{0, 1}},
		{name: "4 slots", slotCount: 4, expected: []int{0, 3, 1, 2}},
		{name: "8 slots", slotCount: 8, expected: []int{0, 7, 3, 4, 1, 6, 2, 5}},
		{name: "16 slots", slotCount: 16, expected: []int{0, 15, 7, 8, 3, 12, 4, 11, 1, 14, 6, 9, 2, 13, 5, 10}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, bracketOrder(tc.slotCount))
		})
	}
}

func TestBracketOrderTopSeedsInOppositeHalves(t *testing.T) {
	for _, slotCount := range []int{4, 8, 16, 32} {
		order := bracketOrder(slotCount)
		pos := make(map[int]int, slotCount)
		for slot, seedPos := range order {
			pos[seedPos] = slot
		}
		half := slotCount / 2
		assert.True(t, (pos[0] < half) != (pos[1] < half),
			"slots %d: seeds 1 and 2 must be in opposite halves", slotCount)
	}
}

func TestBuildSeedListPadsWithByes(t *testing.T) {
	seeds, err := BuildSeedList(testParticipants(5), models.SeedingSeeded, 8, nil)
	require.NoError(t, err)
	require.Len(t, seeds, 8)

	byes := 0
	for _, s := range seeds {
		if s.Bye {
			byes++
		}
	}
	assert.Equal(t, 3, byes)

	// Pairs are consecutive entries; the top seed must draw a bye.
	require.NotNil(t, seeds[0].ParticipantID)
	assert.Equal(t, 1, *seeds[0].ParticipantID)
	assert.True(t, seeds[1].Bye)

	// Seeds 4 and 5 meet in the only real first-round pairing.
	require.NotNil(t, seeds[2].ParticipantID)
	require.NotNil(t, seeds[3].ParticipantID)
	assert.Equal(t, 4, *seeds[2].ParticipantID)
	assert.Equal(t, 5, *seeds[3].ParticipantID)
}

func TestBuildSeedListErrors(t *testing.T) {
	testCases := []struct {
		name         string
		participants []*models.Participant
		slotCount    int
		expectedErr  error
	}{
		{
			name:         "one participant",
			participants: testParticipants(1),
			slotCount:    2,
			expectedErr:  ErrInsufficientParticipants,
		},
		{
			name:         "slot count not a power of two",
			participants: testParticipants(5),
			slotCount:    6,
			expectedErr:  ErrInvalidSlotCount,
		},
		{
			name:         "slot count smaller than field",
			participants: testParticipants(5),
			slotCount:    4,
			expectedErr:  ErrInvalidSlotCount,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildSeedList(tc.participants, models.SeedingSeeded, tc.slotCount, nil)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func TestOrderParticipantsSeededDuplicateSeed(t *testing.T) {
	participants := testParticipants(4)
	participants[2].Seed = utils.Ptr(2) // same as participant 2

	_, err := orderParticipants(participants, models.SeedingSeeded, nil)
	assert.ErrorIs(t, err, ErrDuplicateSeed)
}

func TestOrderParticipantsSeededUnseededGoLast(t *testing.T) {
	participants := testParticipants(4)
	participants[0].Seed = nil // participant 1 registered first but has no seed

	ordered, err := orderParticipants(participants, models.SeedingSeeded, nil)
	require.NoError(t, err)

	ids := make([]int, 0, len(ordered))
	for _, p := range ordered {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int{2, 3, 4, 1}, ids)
}

func TestOrderParticipantsRegistrationOrder(t *testing.T) {
	participants := testParticipants(4)
	// Seeds would reorder; registration order must ignore them.
	participants[0].Seed = utils.Ptr(4)
	participants[3].Seed = utils.Ptr(1)

	ordered, err := orderParticipants(participants, models.SeedingRegistrationOrder, nil)
	require.NoError(t, err)
	for i, p := range ordered {
		assert.Equal(t, i+1, p.ID)
	}
}

func TestOrderParticipantsRandomDeterministicWithSeed(t *testing.T) {
	first, err := orderParticipants(testParticipants(8), models.SeedingRandom, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	second, err := orderParticipants(testParticipants(8), models.SeedingRandom, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	require.Len(t, first, 8)
	seen := make(map[int]bool)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		seen[first[i].ID] = true
	}
	assert.Len(t, seen, 8, "shuffle must keep every participant exactly once")
}
