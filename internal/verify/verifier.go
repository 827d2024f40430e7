// Package verify scores stored predictions against realized results.
package verify

import (
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/sharp-props/internal/models"
)

// Verifier classifies realized outcomes against past predictions.
type Verifier struct{}

// NewVerifier creates a verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// Verify scores one prediction against the player's realized game log for
// the predicted date. Predictions without a line or with a HOLD
// recommendation are skipped (second return false), not verified. A push
// leaves Correct nil: correctness is undefined when the realized value
// lands exactly on the line.
func (v *Verifier) Verify(pred *models.Prediction, realized *models.PlayerGameLog) (*models.VerificationResult, bool) {
	if pred == nil || realized == nil || !pred.IsActionable() {
		return nil, false
	}

	line := *pred.Line
	actual := realized.Stat(pred.Stat)
	outcome := Classify(actual, line)

	var correct *bool
	if outcome != models.OutcomePush {
		c := pred.Recommendation == models.Recommendation(outcome)
		correct = &c
	}

	return &models.VerificationResult{
		ID:              uuid.New(),
		PredictionID:    pred.ID,
		PlayerID:        pred.PlayerID,
		PlayerName:      pred.PlayerName,
		TeamAbbr:        pred.TeamAbbr,
		Stat:            pred.Stat,
		GameDate:        pred.GameDate,
		Matchup:         pred.Matchup,
		Line:            line,
		PredictedValue:  pred.PredictedValue,
		Recommendation:  pred.Recommendation,
		ActualValue:     actual,
		ActualResult:    outcome,
		Correct:         correct,
		Difference:      actual - line,
		ConfidenceScore: pred.ConfidenceScore,
		ConfidenceLabel: pred.ConfidenceLabel,
		EdgePct:         pred.EdgePct,
		VerifiedAt:      time.Now().UTC(),
	}, true
}

// Classify maps a realized value against a line to its outcome.
func Classify(actual, line float64) models.Outcome {
	switch {
	case actual > line:
		return models.OutcomeOver
	case actual < line:
		return models.OutcomeUnder
	default:
		return models.OutcomePush
	}
}
