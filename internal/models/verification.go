package models

import (
	"time"

	"github.com/google/uuid"
)

// Outcome is the realized over/under result against a line.
type Outcome string

const (
	OutcomeOver  Outcome = "OVER"
	OutcomeUnder Outcome = "UNDER"
	// OutcomePush means the realized value landed exactly on the line.
	// Pushes are excluded from both correct and incorrect tallies.
	OutcomePush Outcome = "PUSH"
)

// VerificationResult pairs a stored prediction with the realized statistic.
// Created once per prediction per day, never mutated. Correct is nil on a
// push, where correctness is undefined.
type VerificationResult struct {
	ID           uuid.UUID `db:"id" json:"id"`
	PredictionID uuid.UUID `db:"prediction_id" json:"prediction_id" validate:"required"`
	PlayerID     int64     `db:"player_id" json:"player_id"`
	PlayerName   string    `db:"player_name" json:"player_name"`
	TeamAbbr     string    `db:"team_abbr" json:"team_abbr"`
	Stat         StatKey   `db:"stat" json:"stat"`
	GameDate     time.Time `db:"game_date" json:"game_date"`
	Matchup      string    `db:"matchup" json:"matchup"`

	Line           float64        `db:"line" json:"line"`
	PredictedValue float64        `db:"predicted_value" json:"predicted_value"`
	Recommendation Recommendation `db:"recommendation" json:"recommendation"`

	ActualValue  float64 `db:"actual_value" json:"actual_value"`
	ActualResult Outcome `db:"actual_result" json:"actual_result"`
	Correct      *bool   `db:"correct" json:"correct"`
	Difference   float64 `db:"difference" json:"difference"`

	ConfidenceScore float64         `db:"confidence_score" json:"confidence_score"`
	ConfidenceLabel ConfidenceLabel `db:"confidence_label" json:"confidence_label"`
	EdgePct         float64         `db:"edge_pct" json:"edge_pct"`

	VerifiedAt time.Time `db:"verified_at" json:"verified_at"`
}

// IsPush reports whether the realized value landed exactly on the line.
func (v *VerificationResult) IsPush() bool {
	return v.ActualResult == OutcomePush
}
