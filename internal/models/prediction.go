package models

import (
	"time"

	"github.com/google/uuid"
)

// Recommendation is the over/under call attached to a prediction.
type Recommendation string

const (
	RecommendOver  Recommendation = "OVER"
	RecommendUnder Recommendation = "UNDER"
	RecommendHold  Recommendation = "HOLD"
)

// ConfidenceLabel buckets a confidence score for display.
type ConfidenceLabel string

const (
	ConfidenceHigh   ConfidenceLabel = "HIGH"
	ConfidenceMedium ConfidenceLabel = "MEDIUM"
	ConfidenceLow    ConfidenceLabel = "LOW"
)

// Prediction methods.
const (
	MethodEnsemble    = "ensemble"
	MethodWeightedAvg = "weighted_avg"
)

// PredictionBreakdown records the window averages and intermediate values
// that produced a prediction.
type PredictionBreakdown struct {
	Last5Avg        float64 `json:"last_5_avg"`
	Last10Avg       float64 `json:"last_10_avg"`
	Last20Avg       float64 `json:"last_20_avg"`
	BasePrediction  float64 `json:"base_prediction"`
	TrendAdjustment float64 `json:"trend_adjustment"`
}

// Prediction is one over/under projection for a (player, statistic) pair on
// a given date. Predictions are read-only after creation and are later
// paired with a realized outcome by the verifier.
type Prediction struct {
	ID         uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	PlayerID   int64     `db:"player_id" json:"player_id" validate:"required"`
	PlayerName string    `db:"player_name" json:"player_name"`
	TeamAbbr   string    `db:"team_abbr" json:"team_abbr"`
	Stat       StatKey   `db:"stat" json:"stat" validate:"required"`
	GameID     int64     `db:"game_id" json:"game_id"`
	GameDate   time.Time `db:"game_date" json:"game_date" validate:"required"`
	Opponent   string    `db:"opponent" json:"opponent"`
	IsHome     bool      `db:"is_home" json:"is_home"`
	Matchup    string    `db:"matchup" json:"matchup"`

	PredictedValue float64  `db:"predicted_value" json:"prediction"`
	Line           *float64 `db:"line" json:"line"`
	EdgePct        float64  `db:"edge_pct" json:"edge_pct"`

	Recommendation  Recommendation  `db:"recommendation" json:"recommendation" validate:"oneof=OVER UNDER HOLD"`
	ConfidenceScore float64         `db:"confidence_score" json:"confidence_score" validate:"gte=0,lte=100"`
	ConfidenceLabel ConfidenceLabel `db:"confidence_label" json:"confidence_label"`

	Method      string   `db:"method" json:"prediction_method"`
	ModelScore  *float64 `db:"model_score" json:"ml_prediction"`
	WeightedAvg float64  `db:"weighted_avg" json:"wa_prediction"`
	Trend       float64  `db:"trend" json:"trend"`
	Consistency float64  `db:"consistency" json:"consistency"`

	Breakdown PredictionBreakdown `db:"breakdown" json:"breakdown"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// HasLine reports whether a positive market line was attached.
func (p *Prediction) HasLine() bool {
	return p.Line != nil && *p.Line > 0
}

// IsActionable reports whether the prediction carries a line and a non-HOLD
// recommendation, the precondition for verification.
func (p *Prediction) IsActionable() bool {
	return p.HasLine() && p.Recommendation != RecommendHold
}

// TeamTotalPrediction is a projected final score for one team in a game,
// built from the weighted rolling average of recent team totals.
type TeamTotalPrediction struct {
	ID             uuid.UUID `db:"id" json:"id"`
	TeamID         int64     `db:"team_id" json:"team_id"`
	TeamName       string    `db:"team_name" json:"team_name"`
	TeamAbbr       string    `db:"team_abbr" json:"team_abbr"`
	GameID         int64     `db:"game_id" json:"game_id"`
	GameDate       time.Time `db:"game_date" json:"game_date"`
	Matchup        string    `db:"matchup" json:"matchup"`
	PredictedTotal float64   `db:"predicted_total" json:"prediction"`
	Last5Avg       float64   `db:"last_5_avg" json:"last_5_avg"`
	Last10Avg      float64   `db:"last_10_avg" json:"last_10_avg"`
	Last20Avg      float64   `db:"last_20_avg" json:"last_20_avg"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
