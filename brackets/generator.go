package brackets

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/openbracket/tournament-engine/models"
)

type GenerateBracketParams struct {
	Tournament   *models.Tournament
	Participants []*models.Participant

	// Rand drives the RANDOM seeding policy. Nil falls back to the global
	// source; tests inject a fixed seed.
	Rand *rand.Rand
}

// BracketGenerator turns an approved participant list into a fully wired match
// graph for one tournament format.
type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Bracket, error)

	GetName() string
}

// NewGenerator picks the generator for a tournament format.
func NewGenerator(format models.TournamentFormat) (BracketGenerator, error) {
	switch format {
	case models.FormatSingleElimination:
		return NewSingleEliminationGenerator(), nil
	case models.FormatDoubleElimination:
		return NewDoubleEliminationGenerator(), nil
	case models.FormatRoundRobin:
		return NewRoundRobinGenerator(), nil
	case models.FormatSwissSystem:
		return NewSwissGenerator(), nil
	case models.FormatGroupStage:
		return NewGroupStageGenerator(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
