package brackets

import (
	"context"
	"fmt"

	"github.com/openbracket/tournament-engine/models"
	"github.com/openbracket/tournament-engine/utils"
)

type GroupStageGenerator struct{}

func NewGroupStageGenerator() BracketGenerator {
	return &GroupStageGenerator{}
}

func (g *GroupStageGenerator) GetName() string {
	return "GroupStage"
}

// GenerateBracket materializes the group phase: participants are snake-seeded
// across the configured groups and each group plays an internal round robin.
// The single-elimination playoff is part of the topology but stays
// unmaterialized until every group match completes; the progression engine
// then seats the qualifiers.
func (g *GroupStageGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Bracket, error) {
	cfg, err := params.Tournament.GroupConfig()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: group stage requires a group config", ErrUnsupportedFormat)
	}

	n := len(params.Participants)
	if n < cfg.NumberOfGroups*2 {
		return nil, fmt.Errorf("%w: %d participants cannot fill %d groups", ErrInsufficientParticipants, n, cfg.NumberOfGroups)
	}

	ordered, err := orderParticipants(params.Participants, params.Tournament.SeedingPolicy, params.Rand)
	if err != nil {
		return nil, err
	}

	b := newBracket(params.Tournament.ID, models.FormatGroupStage, n)
	b.GroupConfig = cfg
	b.setParticipants(params.Participants)

	for idx, members := range snakeSeedGroups(ordered, cfg.NumberOfGroups) {
		materializeRoundRobin(b, members, utils.Ptr(idx+1))
	}

	b.sortMatches()
	return b, nil
}

// snakeSeedGroups deals participants into groups in serpentine order
// (1..G, G..1, ...) so the strongest entrants land in different groups and
// group strength stays balanced.
func snakeSeedGroups(ordered []*models.Participant, numGroups int) [][]*models.Participant {
	groups := make([][]*models.Participant, numGroups)
	forward := true
	for i := 0; i < len(ordered); i += numGroups {
		row := ordered[i:min(i+numGroups, len(ordered))]
		if forward {
			for j, p := range row {
				groups[j] = append(groups[j], p)
			}
		} else {
			for j, p := range row {
				groups[numGroups-1-j] = append(groups[numGroups-1-j], p)
			}
		}
		forward = !forward
	}
	return groups
}

// materializeGroupPlayoffs seats the playoff bracket once group play is done:
// the top qualifiers of each group, ordered rank row by rank row (all group
// winners, then all runners-up, ...). Fed through the balanced bracket order
// this pairs every group winner against another group's runner-up, so group
// mates cannot meet before the later rounds.
func (b *Bracket) materializeGroupPlayoffs(cs *changeSet) {
	cfg := b.GroupConfig
	if cfg == nil {
		return
	}

	qualifiers := make([]int, 0, cfg.NumberOfGroups*cfg.QualifiersPerGroup)
	for rank := 1; rank <= cfg.QualifiersPerGroup; rank++ {
		for g := 1; g <= cfg.NumberOfGroups; g++ {
			standings := b.GroupStandings(g)
			if rank <= len(standings) {
				qualifiers = append(qualifiers, standings[rank-1].ParticipantID)
			}
		}
	}

	slotCount := nextPowerOfTwo(len(qualifiers))
	seeds := make(SeedList, slotCount)
	for i, pos := range bracketOrder(slotCount) {
		if pos < len(qualifiers) {
			seeds[i] = SeedSlot{ParticipantID: utils.Ptr(qualifiers[pos])}
		} else {
			seeds[i] = SeedSlot{Bye: true}
		}
	}

	byRound := b.buildSingleEliminationTree(slotCount)
	for _, round := range byRound[1:] {
		for _, m := range round {
			cs.note(m)
		}
	}
	b.seatFirstRound(byRound[1], seeds)
	b.sortMatches()
}

// groupPlayInProgress reports whether any group match is still unplayed.
func (b *Bracket) groupPlayInProgress() bool {
	for _, m := range b.Matches {
		if m.GroupNumber != nil && m.Status != models.MatchStatusCompleted && m.Status != models.MatchStatusCanceled {
			return true
		}
	}
	return false
}

// playoffMaterialized reports whether the knockout phase already exists.
func (b *Bracket) playoffMaterialized() bool {
	for _, m := range b.Matches {
		if m.GroupNumber == nil {
			return true
		}
	}
	return false
}
