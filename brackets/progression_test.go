package brackets

import (
	"testing"

	"github.com/google/uuid"
	"github.com/openbracket/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordResultIdempotentResubmit(t *testing.T) {
	b := generateTestBracket(t, models.FormatSingleElimination, 4)
	m := b.matchAt(models.SideWinners, 0, 1, 1)

	params := ResultParams{MatchID: m.ID, Score1: 2, Score2: 1, WinnerParticipantID: 1}

	changed, err := b.RecordResult(params)
	require.NoError(t, err)
	require.NotEmpty(t, changed)

	// Same result again: accepted, nothing to persist.
	changed, err = b.RecordResult(params)
	require.NoError(t, err)
	assert.Nil(t, changed)
}

func TestRecordResultConflictingResubmit(t *testing.T) {
	b := generateTestBracket(t, models.FormatSingleElimination, 4)
	m := b.matchAt(models.SideWinners, 0, 1, 1)

	_, err := b.RecordResult(ResultParams{MatchID: m.ID, Score1: 2, Score2: 1, WinnerParticipantID: 1})
	require.NoError(t, err)

	testCases := []struct {
		name   string
		params ResultParams
	}{
		{name: "different winner", params: ResultParams{MatchID: m.ID, Score1: 1, Score2: 2, WinnerParticipantID: 4}},
		{name: "different score", params: ResultParams{MatchID: m.ID, Score1: 3, Score2: 1, WinnerParticipantID: 1}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := b.RecordResult(tc.params)
			assert.ErrorIs(t, err, ErrResultConflict)
		})
	}

	// The stored result is untouched.
	assert.Equal(t, 2, *m.Score1)
	assert.Equal(t, 1, *m.Score2)
	assert.Equal(t, 1, *m.WinnerParticipantID)
}

func TestRecordResultValidation(t *testing.T) {
	b := generateTestBracket(t, models.FormatSingleElimination, 4)
	opener := b.matchAt(models.SideWinners, 0, 1, 1)
	final := b.matchAt(models.SideWinners, 0, 2, 1)

	testCases := []struct {
		name     string
		params   ResultParams
		expected error
	}{
		{
			name:     "unknown match",
			params:   ResultParams{MatchID: uuid.New(), Score1: 1, WinnerParticipantID: 1},
			expected: ErrMatchNotFound,
		},
		{
			name:     "final before semifinals",
			params:   ResultParams{MatchID: final.ID, Score1: 1, WinnerParticipantID: 1},
			expected: ErrMatchNotReady,
		},
		{
			name:     "winner not in match",
			params:   ResultParams{MatchID: opener.ID, Score1: 1, WinnerParticipantID: 2},
			expected: ErrInvalidResult,
		},
		{
			name:     "negative score",
			params:   ResultParams{MatchID: opener.ID, Score1: -1, Score2: 0, WinnerParticipantID: 1},
			expected: ErrInvalidResult,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := b.RecordResult(tc.params)
			assert.ErrorIs(t, err, tc.expected)
		})
	}

	assert.Equal(t, models.MatchStatusScheduled, opener.Status, "failed submissions leave the match untouched")
}

func TestRecordResultCascadesIntoDownstreamMatch(t *testing.T) {
	// Three entrants: seed 1 opens on a bye, so the second semifinal decides
	// seed 1's opponent directly.
	b := generateTestBracket(t, models.FormatSingleElimination, 3)
	require.Len(t, b.Matches, 3)

	semi := b.matchAt(models.SideWinners, 0, 1, 2)
	final := b.matchAt(models.SideWinners, 0, 2, 1)
	require.NotNil(t, semi)
	assert.Equal(t, 2, *semi.Slot1ParticipantID)
	assert.Equal(t, 3, *semi.Slot2ParticipantID)
	assert.Equal(t, 1, *final.Slot1ParticipantID)

	changed := playMatch(t, b, semi, 3)

	require.Len(t, changed, 2)
	assert.Equal(t, semi.ID, changed[0].ID)
	assert.Equal(t, final.ID, changed[1].ID)
	assert.Equal(t, 3, *final.Slot2ParticipantID)
	assert.Equal(t, models.MatchStatusScheduled, final.Status)
}

func TestRecordResultLoserBookkeeping(t *testing.T) {
	b := generateTestBracket(t, models.FormatSingleElimination, 4)
	m := b.matchAt(models.SideWinners, 0, 1, 2)

	// Winner seated in slot 2.
	changed, err := b.RecordResult(ResultParams{MatchID: m.ID, Score1: 0, Score2: 2, WinnerParticipantID: 3})
	require.NoError(t, err)
	require.NotEmpty(t, changed)

	assert.Equal(t, 3, *m.WinnerParticipantID)
	assert.Equal(t, 2, *m.LoserParticipantID)
	assert.Equal(t, 0, *m.Score1)
	assert.Equal(t, 2, *m.Score2)
	assert.Equal(t, models.MatchStatusCompleted, m.Status)
}
