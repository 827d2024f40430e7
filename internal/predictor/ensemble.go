// Package predictor blends rolling-average and model-based projections into
// over/under calls with a confidence score.
package predictor

import (
	"math"

	"github.com/yourusername/sharp-props/internal/models"
)

// Blend and decision constants.
const (
	// TrendDamping scales the trend percentage into a nudge on the base
	// estimate rather than a full pass-through.
	TrendDamping = 0.05
	// ModelBlendWeight is the model share of the ensemble blend. Applied
	// unconditionally whenever a positive model score exists.
	ModelBlendWeight = 0.6

	// HighEdgeThreshold and MediumEdgeThreshold are absolute edge
	// percentages that recalibrate confidence against the line.
	HighEdgeThreshold   = 15.0
	MediumEdgeThreshold = 8.0

	highEdgeConfidenceCap   = 95.0
	mediumEdgeConfidenceCap = 90.0
	confidenceFloor         = 20.0

	highLabelThreshold   = 75.0
	mediumLabelThreshold = 50.0
)

// WindowWeights is the fixed weighting of rolling windows in the base
// estimate. A window contributes only when its mean is positive.
var WindowWeights = map[int]float64{5: 0.45, 10: 0.30, 20: 0.25}

// Projection is the outcome of one ensemble prediction for a statistic.
type Projection struct {
	Value           float64
	WeightedAvg     float64
	ModelScore      *float64
	Method          string
	Line            *float64
	EdgePct         float64
	Recommendation  models.Recommendation
	ConfidenceScore float64
	ConfidenceLabel models.ConfidenceLabel
	Trend           float64
	Consistency     float64
	Breakdown       models.PredictionBreakdown
}

// Ensemble produces projections from processed rolling stats, an optional
// market line and an optional external model score.
type Ensemble struct {
	weights map[int]float64
}

// New creates an ensemble predictor with the standard window weights.
func New() *Ensemble {
	return &Ensemble{weights: WindowWeights}
}

// Predict projects one statistic. A nil result with
// models.ErrInsufficientData means no rolling window contributed; this is
// distinct from a HOLD recommendation, which is a valid projection without
// an actionable edge. modelScore participates in the blend only when
// present and positive.
func (e *Ensemble) Predict(processed *models.ProcessedStats, stat models.StatKey, line, modelScore *float64) (*Projection, error) {
	var weightedSum, totalWeight float64
	for window, weight := range e.weights {
		mean := processed.WindowAverage(window, stat)
		if mean > 0 {
			weightedSum += mean * weight
			totalWeight += weight
		}
	}
	if totalWeight == 0 {
		return nil, models.ErrInsufficientData
	}

	base := weightedSum / totalWeight
	trend := processed.TrendFor(stat)
	trendAdjustment := base * (trend / 100) * TrendDamping
	weightedAvg := base + trendAdjustment

	projection := &Projection{
		WeightedAvg: weightedAvg,
		Method:      models.MethodWeightedAvg,
		Trend:       trend,
		Consistency: processed.ConsistencyFor(stat),
		Breakdown: models.PredictionBreakdown{
			Last5Avg:        processed.WindowAverage(5, stat),
			Last10Avg:       processed.WindowAverage(10, stat),
			Last20Avg:       processed.WindowAverage(20, stat),
			BasePrediction:  base,
			TrendAdjustment: trendAdjustment,
		},
	}

	if modelScore != nil && *modelScore > 0 {
		projection.Value = ModelBlendWeight**modelScore + (1-ModelBlendWeight)*weightedAvg
		projection.ModelScore = modelScore
		projection.Method = models.MethodEnsemble
	} else {
		projection.Value = weightedAvg
	}

	e.recommend(projection, line)
	return projection, nil
}

// recommend recalibrates confidence against the posted line and settles the
// over/under call. Raw consistency is subject-intrinsic; edge magnitude
// measures market disagreement. Without a line the recommendation is HOLD
// and the edge stays 0.
func (e *Ensemble) recommend(p *Projection, line *float64) {
	confidence := p.Consistency
	p.Recommendation = models.RecommendHold

	if line != nil && *line > 0 {
		p.Line = line
		p.EdgePct = (p.Value - *line) / *line * 100

		switch {
		case math.Abs(p.EdgePct) >= HighEdgeThreshold:
			confidence = math.Min(highEdgeConfidenceCap, confidence+15)
		case math.Abs(p.EdgePct) >= MediumEdgeThreshold:
			confidence = math.Min(mediumEdgeConfidenceCap, confidence+5)
		default:
			confidence = math.Max(confidenceFloor, confidence-10)
		}

		if p.EdgePct > MediumEdgeThreshold {
			p.Recommendation = models.RecommendOver
		} else if p.EdgePct < -MediumEdgeThreshold {
			p.Recommendation = models.RecommendUnder
		}
	}

	p.ConfidenceScore = confidence
	switch {
	case confidence >= highLabelThreshold:
		p.ConfidenceLabel = models.ConfidenceHigh
	case confidence >= mediumLabelThreshold:
		p.ConfidenceLabel = models.ConfidenceMedium
	default:
		p.ConfidenceLabel = models.ConfidenceLow
	}
}

// PredictTeamTotal projects a team's final score from its recent game
// totals (most recent first) with the standard window weighting. Returns
// models.ErrInsufficientData when no totals are available.
func (e *Ensemble) PredictTeamTotal(totals []float64) (prediction, avg5, avg10, avg20 float64, err error) {
	if len(totals) == 0 {
		return 0, 0, 0, 0, models.ErrInsufficientData
	}
	avg5 = headMean(totals, 5)
	avg10 = headMean(totals, 10)
	avg20 = headMean(totals, 20)
	prediction = avg5*WindowWeights[5] + avg10*WindowWeights[10] + avg20*WindowWeights[20]
	return prediction, avg5, avg10, avg20, nil
}

func headMean(values []float64, n int) float64 {
	if n > len(values) {
		n = len(values)
	}
	if n == 0 {
		return 0
	}
	var sum float64
	for _, v := range values[:n] {
		sum += v
	}
	return sum / float64(n)
}
