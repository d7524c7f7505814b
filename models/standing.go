package models

// Standing is a read-only projection over completed matches, computed by the
// bracket query facade for round-robin, swiss, and group play. It is never
// stored; ranks are recomputed from the match set on every request.
type Standing struct {
	ParticipantID   int    `json:"participant_id"`
	DisplayName     string `json:"display_name"`
	GroupNumber     *int   `json:"group_number,omitempty"`
	Wins            int    `json:"wins"`
	Losses          int    `json:"losses"`
	ScoreFor        int    `json:"score_for"`
	ScoreAgainst    int    `json:"score_against"`
	ScoreDifference int    `json:"score_difference"`
	Rank            int    `json:"rank"`
}
