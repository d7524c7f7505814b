package brackets

import (
	"sort"

	"github.com/openbracket/tournament-engine/models"
)

// The query facade: read-only projections over the match collection for
// rendering and API responses. Nothing here mutates the bracket.

// MatchesByRound groups the matches of one bracket side by round number, each
// round ordered left to right.
func (b *Bracket) MatchesByRound(side models.BracketSide) map[int][]*models.Match {
	byRound := make(map[int][]*models.Match)
	for _, m := range b.Matches {
		if m.BracketSide == side {
			byRound[m.Round] = append(byRound[m.Round], m)
		}
	}
	for _, round := range byRound {
		sort.Slice(round, func(i, j int) bool {
			return round[i].OrderInRound < round[j].OrderInRound
		})
	}
	return byRound
}

// CompletionPercentage is the share of playable matches already completed.
// Bye walkovers are excluded from both sides of the ratio: they were never
// playable.
func (b *Bracket) CompletionPercentage() float64 {
	total, completed := 0, 0
	for _, m := range b.Matches {
		if m.HasBye() || m.Status == models.MatchStatusCanceled {
			continue
		}
		total++
		if m.Status == models.MatchStatusCompleted {
			completed++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

// CurrentFrontier returns the live set: matches whose slots are both filled
// with real participants but which have not been completed.
func (b *Bracket) CurrentFrontier() []*models.Match {
	frontier := make([]*models.Match, 0)
	for _, m := range b.Matches {
		if m.Status == models.MatchStatusScheduled {
			frontier = append(frontier, m)
		}
	}
	return frontier
}

// Standings computes the overall table for round-robin and swiss play: wins
// descending, head-to-head between two tied participants, then score
// difference, then seed. Byes count as wins but contribute no scores.
func (b *Bracket) Standings() []models.Standing {
	return b.computeStandings(func(m *models.Match) bool { return true }, nil)
}

// GroupStandings computes the table of a single group.
func (b *Bracket) GroupStandings(group int) []models.Standing {
	inGroup := make(map[int]bool)
	for _, m := range b.Matches {
		if m.GroupNumber == nil || *m.GroupNumber != group {
			continue
		}
		if m.Slot1ParticipantID != nil {
			inGroup[*m.Slot1ParticipantID] = true
		}
		if m.Slot2ParticipantID != nil {
			inGroup[*m.Slot2ParticipantID] = true
		}
	}
	standings := b.computeStandings(func(m *models.Match) bool {
		return m.GroupNumber != nil && *m.GroupNumber == group
	}, inGroup)
	for i := range standings {
		g := group
		standings[i].GroupNumber = &g
	}
	return standings
}

func (b *Bracket) computeStandings(include func(*models.Match) bool, only map[int]bool) []models.Standing {
	rows := make(map[int]*models.Standing)
	ensure := func(id int) *models.Standing {
		if s, ok := rows[id]; ok {
			return s
		}
		s := &models.Standing{ParticipantID: id}
		if p, ok := b.Participants[id]; ok {
			s.DisplayName = p.DisplayName
		}
		rows[id] = s
		return s
	}
	if only != nil {
		for id := range only {
			ensure(id)
		}
	} else {
		for id := range b.Participants {
			ensure(id)
		}
	}

	// beat[a][b] = a won the mutual match, for head-to-head tie breaks.
	beat := make(map[int]map[int]bool)
	for _, m := range b.Matches {
		if !include(m) || m.Status != models.MatchStatusCompleted {
			continue
		}
		if m.HasBye() {
			if m.WinnerParticipantID != nil {
				ensure(*m.WinnerParticipantID).Wins++
			}
			continue
		}
		if m.WinnerParticipantID == nil || m.LoserParticipantID == nil {
			continue
		}
		w := ensure(*m.WinnerParticipantID)
		l := ensure(*m.LoserParticipantID)
		w.Wins++
		l.Losses++
		if m.Score1 != nil && m.Score2 != nil {
			s1 := ensure(*m.Slot1ParticipantID)
			s2 := ensure(*m.Slot2ParticipantID)
			s1.ScoreFor += *m.Score1
			s1.ScoreAgainst += *m.Score2
			s2.ScoreFor += *m.Score2
			s2.ScoreAgainst += *m.Score1
		}
		if beat[w.ParticipantID] == nil {
			beat[w.ParticipantID] = make(map[int]bool)
		}
		beat[w.ParticipantID][l.ParticipantID] = true
	}

	standings := make([]models.Standing, 0, len(rows))
	for _, s := range rows {
		s.ScoreDifference = s.ScoreFor - s.ScoreAgainst
		standings = append(standings, *s)
	}

	sort.SliceStable(standings, func(i, j int) bool {
		a, c := standings[i], standings[j]
		if a.Wins != c.Wins {
			return a.Wins > c.Wins
		}
		if beat[a.ParticipantID][c.ParticipantID] {
			return true
		}
		if beat[c.ParticipantID][a.ParticipantID] {
			return false
		}
		if a.ScoreDifference != c.ScoreDifference {
			return a.ScoreDifference > c.ScoreDifference
		}
		return lessBySeed(b.Participants[a.ParticipantID], b.Participants[c.ParticipantID])
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}

func lessBySeed(a, c *models.Participant) bool {
	if a == nil || c == nil {
		return a != nil
	}
	switch {
	case a.Seed != nil && c.Seed != nil && *a.Seed != *c.Seed:
		return *a.Seed < *c.Seed
	case a.Seed != nil && c.Seed == nil:
		return true
	case a.Seed == nil && c.Seed != nil:
		return false
	}
	return a.ID < c.ID
}

// Decided reports whether the tournament has a champion.
func (b *Bracket) Decided() bool {
	return b.Champion() != nil
}

// Champion returns the winning participant once the bracket is decided, nil
// before that. For double elimination the reset game, when it exists, is the
// decider; for round robin and swiss the table leader after the final round.
func (b *Bracket) Champion() *int {
	switch b.Format {
	case models.FormatSingleElimination:
		return b.eliminationChampion(func(m *models.Match) bool { return m.BracketSide == models.SideWinners })
	case models.FormatDoubleElimination:
		if reset := b.matchAt(models.SideGrandFinal, 0, 2, 1); reset != nil {
			if reset.Status == models.MatchStatusCompleted {
				return reset.WinnerParticipantID
			}
			return nil
		}
		gf := b.matchAt(models.SideGrandFinal, 0, 1, 1)
		if gf != nil && gf.Status == models.MatchStatusCompleted {
			return gf.WinnerParticipantID
		}
		return nil
	case models.FormatRoundRobin, models.FormatSwissSystem:
		if !b.allMatchesCompleted() {
			return nil
		}
		if b.Format == models.FormatSwissSystem {
			latest := 0
			for _, m := range b.Matches {
				if m.Round > latest {
					latest = m.Round
				}
			}
			if latest < b.SwissRounds {
				return nil
			}
		}
		standings := b.Standings()
		if len(standings) == 0 {
			return nil
		}
		id := standings[0].ParticipantID
		return &id
	case models.FormatGroupStage:
		if !b.playoffMaterialized() {
			return nil
		}
		return b.eliminationChampion(func(m *models.Match) bool {
			return m.GroupNumber == nil && m.BracketSide == models.SideWinners
		})
	}
	return nil
}

func (b *Bracket) eliminationChampion(include func(*models.Match) bool) *int {
	var final *models.Match
	for _, m := range b.Matches {
		if !include(m) {
			continue
		}
		if final == nil || m.Round > final.Round {
			final = m
		}
	}
	if final != nil && final.Status == models.MatchStatusCompleted {
		return final.WinnerParticipantID
	}
	return nil
}

func (b *Bracket) allMatchesCompleted() bool {
	if len(b.Matches) == 0 {
		return false
	}
	for _, m := range b.Matches {
		if m.Status != models.MatchStatusCompleted && m.Status != models.MatchStatusCanceled {
			return false
		}
	}
	return true
}
