package brackets

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/openbracket/tournament-engine/models"
	"github.com/openbracket/tournament-engine/utils"
	"github.com/stretchr/testify/require"
)

func testParticipants(n int) []*models.Participant {
	participants := make([]*models.Participant, 0, n)
	for i := 1; i <= n; i++ {
		participants = append(participants, &models.Participant{
			ID:           i,
			TournamentID: 1,
			DisplayName:  fmt.Sprintf("Player %d", i),
			Seed:         utils.Ptr(i),
			Status:       models.ParticipantStatusApproved,
		})
	}
	return participants
}

func testTournament(format models.TournamentFormat) *models.Tournament {
	return &models.Tournament{
		ID:            1,
		Name:          "Test Cup",
		Format:        format,
		SeedingPolicy: models.SeedingSeeded,
		Status:        models.StatusActive,
	}
}

func testGroupTournament(numGroups, teamsPerGroup, qualifiers int) *models.Tournament {
	t := testTournament(models.FormatGroupStage)
	raw, _ := json.Marshal(models.GroupStageConfig{
		NumberOfGroups:     numGroups,
		TeamsPerGroup:      teamsPerGroup,
		QualifiersPerGroup: qualifiers,
	})
	cfg := string(raw)
	t.GroupConfigJSON = &cfg
	return t
}

func generateTestBracket(t *testing.T, format models.TournamentFormat, n int) *Bracket {
	t.Helper()
	return generateTestBracketFor(t, testTournament(format), n)
}

func generateTestBracketFor(t *testing.T, tournament *models.Tournament, n int) *Bracket {
	t.Helper()
	generator, err := NewGenerator(tournament.Format)
	require.NoError(t, err)

	b, err := generator.GenerateBracket(context.Background(), GenerateBracketParams{
		Tournament:   tournament,
		Participants: testParticipants(n),
	})
	require.NoError(t, err)
	return b
}

// playMatch records a win for winnerID with a 1-0 score from the winner's
// perspective.
func playMatch(t *testing.T, b *Bracket, m *models.Match, winnerID int) []*models.Match {
	t.Helper()
	score1, score2 := 1, 0
	if m.Slot2ParticipantID != nil && *m.Slot2ParticipantID == winnerID {
		score1, score2 = 0, 1
	}
	changed, err := b.RecordResult(ResultParams{
		MatchID:             m.ID,
		Score1:              score1,
		Score2:              score2,
		WinnerParticipantID: winnerID,
	})
	require.NoError(t, err)
	return changed
}

// playAllScheduled repeatedly completes every schedulable match, letting the
// lowest participant ID win, until nothing is left to play.
func playAllScheduled(t *testing.T, b *Bracket) {
	t.Helper()
	for {
		frontier := b.CurrentFrontier()
		if len(frontier) == 0 {
			return
		}
		for _, m := range frontier {
			winner := *m.Slot1ParticipantID
			if *m.Slot2ParticipantID < winner {
				winner = *m.Slot2ParticipantID
			}
			playMatch(t, b, m, winner)
		}
	}
}

func matchesOn(b *Bracket, side models.BracketSide) []*models.Match {
	out := make([]*models.Match, 0)
	for _, m := range b.Matches {
		if m.BracketSide == side {
			out = append(out, m)
		}
	}
	return out
}
