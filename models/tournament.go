package models

import (
	"encoding/json"
	"time"
)

type TournamentStatus string

const (
	StatusRegistration TournamentStatus = "registration"
	StatusActive       TournamentStatus = "active"
	StatusCompleted    TournamentStatus = "completed"
	StatusCanceled     TournamentStatus = "canceled"
)

// TournamentFormat matches the wire-level format enum.
type TournamentFormat string

const (
	FormatSingleElimination TournamentFormat = "SINGLE_ELIMINATION"
	FormatDoubleElimination TournamentFormat = "DOUBLE_ELIMINATION"
	FormatRoundRobin        TournamentFormat = "ROUND_ROBIN"
	FormatSwissSystem       TournamentFormat = "SWISS_SYSTEM"
	FormatGroupStage        TournamentFormat = "GROUP_STAGE"
)

type SeedingPolicy string

const (
	SeedingSeeded            SeedingPolicy = "SEEDED"
	SeedingRandom            SeedingPolicy = "RANDOM"
	SeedingRegistrationOrder SeedingPolicy = "REGISTRATION_ORDER"
)

// GroupStageConfig configures the group phase of GROUP_STAGE tournaments.
// QualifiersPerGroup participants advance from each group into the playoff
// bracket; it defaults to 2 when unset.
type GroupStageConfig struct {
	NumberOfGroups     int `json:"number_of_groups"`
	TeamsPerGroup      int `json:"teams_per_group"`
	QualifiersPerGroup int `json:"qualifiers_per_group,omitempty"`
}

type Tournament struct {
	ID            int              `json:"id" db:"id"`
	Name          string           `json:"name" db:"name"`
	Description   *string          `json:"description,omitempty" db:"description"`
	OrganizerID   int              `json:"organizer_id" db:"organizer_id"`
	Format        TournamentFormat `json:"format" db:"format"`
	SeedingPolicy SeedingPolicy    `json:"seeding_policy" db:"seeding_policy"`
	Status        TournamentStatus `json:"status" db:"status"`
	StartDate     time.Time        `json:"start_date" db:"start_date"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	LogoKey       *string          `json:"-" db:"logo_key"`
	LogoURL       *string          `json:"logo_url,omitempty" db:"-"`

	// Raw group config JSON as stored; parsed on demand.
	GroupConfigJSON *string `json:"-" db:"group_config"`

	WinnerParticipantID *int `json:"winner_participant_id,omitempty" db:"winner_participant_id"`

	// Optional linked data, populated by services.
	Organizer    *User         `json:"organizer,omitempty" db:"-"`
	Participants []Participant `json:"participants,omitempty" db:"-"`
	Matches      []Match       `json:"matches,omitempty" db:"-"`
}

// GroupConfig parses the stored group-stage settings. Returns nil for
// tournaments that are not group stage or carry no config.
func (t *Tournament) GroupConfig() (*GroupStageConfig, error) {
	if t.Format != FormatGroupStage || t.GroupConfigJSON == nil || *t.GroupConfigJSON == "" {
		return nil, nil
	}
	var cfg GroupStageConfig
	if err := json.Unmarshal([]byte(*t.GroupConfigJSON), &cfg); err != nil {
		return nil, err
	}
	if cfg.QualifiersPerGroup <= 0 {
		cfg.QualifiersPerGroup = 2
	}
	return &cfg, nil
}
