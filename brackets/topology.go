package brackets

import (
	"fmt"
	"math"

	"github.com/openbracket/tournament-engine/models"
)

// RoundSpec describes one round of the abstract bracket shape.
type RoundSpec struct {
	RoundNumber int                `json:"round_number"`
	MatchCount  int                `json:"match_count"`
	BracketSide models.BracketSide `json:"bracket_side"`
}

// GroupTopology is the round-robin shape of a single group.
type GroupTopology struct {
	GroupNumber int         `json:"group_number"`
	Size        int         `json:"size"`
	Rounds      []RoundSpec `json:"rounds"`
}

// BracketTopology is the abstract shape of a format for a given field size,
// independent of which participants occupy the slots. It is derived purely
// from the slot count and format.
type BracketTopology struct {
	Format    models.TournamentFormat `json:"format"`
	SlotCount int                     `json:"slot_count"`
	Rounds    []RoundSpec             `json:"rounds"`

	// Groups and Playoff are populated for GROUP_STAGE only. The playoff
	// stays unmaterialized until group play completes.
	Groups  []GroupTopology  `json:"groups,omitempty"`
	Playoff *BracketTopology `json:"playoff,omitempty"`
}

// GenerateTopology computes the round structure for slotCount entrants under
// the given format. For elimination formats slotCount must be a power of two;
// for the remaining formats it is simply the participant count.
func GenerateTopology(slotCount int, format models.TournamentFormat, groupCfg *models.GroupStageConfig) (*BracketTopology, error) {
	if slotCount < 2 {
		return nil, fmt.Errorf("%w: %d slots", ErrInsufficientParticipants, slotCount)
	}

	switch format {
	case models.FormatSingleElimination:
		return singleEliminationTopology(slotCount)
	case models.FormatDoubleElimination:
		return doubleEliminationTopology(slotCount)
	case models.FormatRoundRobin:
		return roundRobinTopology(slotCount), nil
	case models.FormatSwissSystem:
		return swissTopology(slotCount), nil
	case models.FormatGroupStage:
		return groupStageTopology(slotCount, groupCfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func singleEliminationTopology(slotCount int) (*BracketTopology, error) {
	if !isPowerOfTwo(slotCount) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSlotCount, slotCount)
	}
	numRounds := int(math.Log2(float64(slotCount)))
	rounds := make([]RoundSpec, 0, numRounds)
	for r := 1; r <= numRounds; r++ {
		rounds = append(rounds, RoundSpec{
			RoundNumber: r,
			MatchCount:  slotCount >> r,
			BracketSide: models.SideWinners,
		})
	}
	return &BracketTopology{Format: models.FormatSingleElimination, SlotCount: slotCount, Rounds: rounds}, nil
}

// doubleEliminationTopology lays out the winners bracket identically to single
// elimination, then the losers bracket in the standard drop-in pattern: round
// 2j-1 pairs losers-bracket survivors, round 2j receives the losers of winners
// round j+1, both with 2^(k-1-j) matches. A single grand final joins the two
// champions; the optional reset game is materialized lazily.
func doubleEliminationTopology(slotCount int) (*BracketTopology, error) {
	base, err := singleEliminationTopology(slotCount)
	if err != nil {
		return nil, err
	}
	k := int(math.Log2(float64(slotCount)))
	rounds := base.Rounds
	for q := 1; q <= 2*(k-1); q++ {
		j := (q + 1) / 2
		rounds = append(rounds, RoundSpec{
			RoundNumber: q,
			MatchCount:  1 << (k - 1 - j),
			BracketSide: models.SideLosers,
		})
	}
	rounds = append(rounds, RoundSpec{RoundNumber: 1, MatchCount: 1, BracketSide: models.SideGrandFinal})
	return &BracketTopology{Format: models.FormatDoubleElimination, SlotCount: slotCount, Rounds: rounds}, nil
}

// roundRobinTopology uses the standard rotation scheme: fix one participant,
// rotate the rest. Odd fields get one bye per round, so every pairing still
// occurs exactly once and the total is N*(N-1)/2.
func roundRobinTopology(n int) *BracketTopology {
	numRounds := n - 1
	perRound := n / 2
	if n%2 != 0 {
		numRounds = n
		perRound = (n - 1) / 2
	}
	rounds := make([]RoundSpec, 0, numRounds)
	for r := 1; r <= numRounds; r++ {
		rounds = append(rounds, RoundSpec{RoundNumber: r, MatchCount: perRound, BracketSide: models.SideWinners})
	}
	return &BracketTopology{Format: models.FormatRoundRobin, SlotCount: n, Rounds: rounds}
}

// swissTopology fixes the round count upfront but only round 1 pairings are
// part of the topology; later rounds depend on standings and are produced
// incrementally by the progression engine.
func swissTopology(n int) *BracketTopology {
	numRounds := swissRoundCount(n)
	perRound := (n + 1) / 2
	rounds := make([]RoundSpec, 0, numRounds)
	for r := 1; r <= numRounds; r++ {
		rounds = append(rounds, RoundSpec{RoundNumber: r, MatchCount: perRound, BracketSide: models.SideWinners})
	}
	return &BracketTopology{Format: models.FormatSwissSystem, SlotCount: n, Rounds: rounds}
}

func groupStageTopology(slotCount int, cfg *models.GroupStageConfig) (*BracketTopology, error) {
	if cfg == nil || cfg.NumberOfGroups < 1 || cfg.TeamsPerGroup < 2 {
		return nil, fmt.Errorf("%w: group stage requires a valid group config", ErrUnsupportedFormat)
	}
	if slotCount < cfg.NumberOfGroups*2 {
		return nil, fmt.Errorf("%w: %d participants for %d groups", ErrInsufficientParticipants, slotCount, cfg.NumberOfGroups)
	}

	groups := make([]GroupTopology, 0, cfg.NumberOfGroups)
	for g := 1; g <= cfg.NumberOfGroups; g++ {
		size := groupSize(slotCount, cfg.NumberOfGroups, g)
		sub := roundRobinTopology(size)
		groups = append(groups, GroupTopology{GroupNumber: g, Size: size, Rounds: sub.Rounds})
	}

	qualifiers := cfg.QualifiersPerGroup
	if qualifiers <= 0 {
		qualifiers = 2
	}
	playoff, err := singleEliminationTopology(nextPowerOfTwo(cfg.NumberOfGroups * qualifiers))
	if err != nil {
		return nil, err
	}

	return &BracketTopology{
		Format:    models.FormatGroupStage,
		SlotCount: slotCount,
		Groups:    groups,
		Playoff:   playoff,
	}, nil
}

// groupSize distributes n participants over numGroups round-robin style, so
// the first groups absorb any remainder.
func groupSize(n, numGroups, group int) int {
	size := n / numGroups
	if group <= n%numGroups {
		size++
	}
	return size
}
