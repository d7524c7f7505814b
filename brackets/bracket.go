package brackets

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/openbracket/tournament-engine/models"
)

// position addresses a match inside a bracket. group is zero for everything
// except group-stage group play.
type position struct {
	side  models.BracketSide
	group int
	round int
	order int
}

// Bracket is the in-memory match graph of one tournament. It is produced once
// by a BracketGenerator, mutated only through RecordResult, and rebuilt from
// persisted rows on every host operation. The engine holds no other state.
type Bracket struct {
	TournamentID int
	Format       models.TournamentFormat
	SlotCount    int

	// SwissRounds is the fixed total round count for SWISS_SYSTEM; zero for
	// every other format.
	SwissRounds int

	GroupConfig *models.GroupStageConfig

	Matches      []*models.Match
	Participants map[int]*models.Participant

	byID  map[uuid.UUID]*models.Match
	byPos map[position]*models.Match
}

func newBracket(tournamentID int, format models.TournamentFormat, slotCount int) *Bracket {
	return &Bracket{
		TournamentID: tournamentID,
		Format:       format,
		SlotCount:    slotCount,
		Participants: make(map[int]*models.Participant),
		byID:         make(map[uuid.UUID]*models.Match),
		byPos:        make(map[position]*models.Match),
	}
}

func (b *Bracket) addMatch(m *models.Match) {
	b.Matches = append(b.Matches, m)
	b.byID[m.ID] = m
	b.byPos[positionOf(m)] = m
}

func positionOf(m *models.Match) position {
	group := 0
	if m.GroupNumber != nil {
		group = *m.GroupNumber
	}
	return position{side: m.BracketSide, group: group, round: m.Round, order: m.OrderInRound}
}

// MatchByID looks a match up by its identifier.
func (b *Bracket) MatchByID(id uuid.UUID) (*models.Match, bool) {
	m, ok := b.byID[id]
	return m, ok
}

func (b *Bracket) matchAt(side models.BracketSide, group, round, order int) *models.Match {
	return b.byPos[position{side: side, group: group, round: round, order: order}]
}

func (b *Bracket) setParticipants(participants []*models.Participant) {
	for _, p := range participants {
		b.Participants[p.ID] = p
	}
}

func newMatch(tournamentID int, side models.BracketSide, round, order int) *models.Match {
	return &models.Match{
		ID:           uuid.New(),
		TournamentID: tournamentID,
		BracketSide:  side,
		Round:        round,
		OrderInRound: order,
		Status:       models.MatchStatusPending,
		Version:      1,
	}
}

// Rebuild reconstructs a Bracket from persisted rows so that the progression
// engine and query facade can operate on it. The match slice is expected to be
// the complete set for the tournament.
func Rebuild(tournament *models.Tournament, participants []*models.Participant, matches []*models.Match) (*Bracket, error) {
	groupCfg, err := tournament.GroupConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid group stage config for tournament %d: %w", tournament.ID, err)
	}

	b := newBracket(tournament.ID, tournament.Format, 0)
	b.GroupConfig = groupCfg
	b.setParticipants(participants)
	for _, m := range matches {
		b.addMatch(m)
	}

	switch tournament.Format {
	case models.FormatSingleElimination, models.FormatDoubleElimination:
		firstRound := 0
		for _, m := range matches {
			if m.BracketSide == models.SideWinners && m.Round == 1 {
				firstRound++
			}
		}
		b.SlotCount = firstRound * 2
	case models.FormatSwissSystem:
		b.SlotCount = len(participants)
		b.SwissRounds = swissRoundCount(len(participants))
	default:
		b.SlotCount = len(participants)
	}

	return b, nil
}

func swissRoundCount(n int) int {
	if n < 2 {
		return 0
	}
	return int(math.Ceil(math.Log2(float64(n))))
}

func nextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// sortMatches orders the bracket's match slice for stable output: winners
// rounds first, then losers, then grand finals, each by round and order.
func (b *Bracket) sortMatches() {
	sideRank := map[models.BracketSide]int{
		models.SideWinners:    0,
		models.SideLosers:     1,
		models.SideGrandFinal: 2,
	}
	sort.Slice(b.Matches, func(i, j int) bool {
		a, c := b.Matches[i], b.Matches[j]
		if sideRank[a.BracketSide] != sideRank[c.BracketSide] {
			return sideRank[a.BracketSide] < sideRank[c.BracketSide]
		}
		ga, gc := 0, 0
		if a.GroupNumber != nil {
			ga = *a.GroupNumber
		}
		if c.GroupNumber != nil {
			gc = *c.GroupNumber
		}
		if ga != gc {
			return ga < gc
		}
		if a.Round != c.Round {
			return a.Round < c.Round
		}
		return a.OrderInRound < c.OrderInRound
	})
}
