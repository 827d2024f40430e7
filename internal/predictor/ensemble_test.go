package predictor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sharp-props/internal/models"
)

func snapshot(averages map[int]float64, trend, consistency float64) *models.ProcessedStats {
	rolling := make(map[int]models.WindowAverages, len(averages))
	for window, mean := range averages {
		rolling[window] = models.WindowAverages{models.StatPoints: mean}
	}
	return &models.ProcessedStats{
		PlayerID:        1,
		RollingAverages: rolling,
		Trends:          map[models.StatKey]float64{models.StatPoints: trend},
		Consistency:     map[models.StatKey]float64{models.StatPoints: consistency},
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestPredictWeightedAverageAgainstLine(t *testing.T) {
	processed := snapshot(map[int]float64{5: 28.0, 10: 25.0, 20: 24.0}, 5.0, 72.0)

	proj, err := New().Predict(processed, models.StatPoints, floatPtr(25.5), nil)
	require.NoError(t, err)

	assert.InDelta(t, 25.35, proj.Breakdown.BasePrediction, 1e-9)
	assert.InDelta(t, 0.0634, proj.Breakdown.TrendAdjustment, 1e-4)
	assert.InDelta(t, 25.41, proj.Value, 0.01)
	assert.InDelta(t, -0.35, proj.EdgePct, 0.05)
	assert.Equal(t, models.RecommendHold, proj.Recommendation)
	assert.InDelta(t, 62.0, proj.ConfidenceScore, 1e-9)
	assert.Equal(t, models.ConfidenceMedium, proj.ConfidenceLabel)
	assert.Equal(t, models.MethodWeightedAvg, proj.Method)
	assert.Nil(t, proj.ModelScore)
}

func TestPredictEqualWindowsYieldsWindowMean(t *testing.T) {
	processed := snapshot(map[int]float64{5: 22.0, 10: 22.0, 20: 22.0}, 0, 60.0)

	proj, err := New().Predict(processed, models.StatPoints, nil, nil)
	require.NoError(t, err)

	assert.InDelta(t, 22.0, proj.Value, 1e-9)
}

func TestPredictBlendIsNeutralWhenModelAgrees(t *testing.T) {
	processed := snapshot(map[int]float64{5: 22.0, 10: 22.0, 20: 22.0}, 0, 60.0)

	base, err := New().Predict(processed, models.StatPoints, nil, nil)
	require.NoError(t, err)

	blended, err := New().Predict(processed, models.StatPoints, nil, floatPtr(base.Value))
	require.NoError(t, err)

	assert.InDelta(t, base.Value, blended.Value, 1e-9)
	assert.Equal(t, models.MethodEnsemble, blended.Method)
	require.NotNil(t, blended.ModelScore)
}

func TestPredictBlendsModelScoreSixtyForty(t *testing.T) {
	processed := snapshot(map[int]float64{5: 20.0, 10: 20.0, 20: 20.0}, 0, 60.0)

	proj, err := New().Predict(processed, models.StatPoints, nil, floatPtr(30.0))
	require.NoError(t, err)

	// 0.6*30 + 0.4*20
	assert.InDelta(t, 26.0, proj.Value, 1e-9)
}

func TestPredictIgnoresNonPositiveModelScore(t *testing.T) {
	processed := snapshot(map[int]float64{5: 20.0, 10: 20.0, 20: 20.0}, 0, 60.0)

	proj, err := New().Predict(processed, models.StatPoints, nil, floatPtr(0))
	require.NoError(t, err)

	assert.InDelta(t, 20.0, proj.Value, 1e-9)
	assert.Equal(t, models.MethodWeightedAvg, proj.Method)
	assert.Nil(t, proj.ModelScore)
}

func TestPredictWithoutLineAlwaysHolds(t *testing.T) {
	processed := snapshot(map[int]float64{5: 40.0, 10: 40.0, 20: 40.0}, 0, 90.0)

	proj, err := New().Predict(processed, models.StatPoints, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, models.RecommendHold, proj.Recommendation)
	assert.Zero(t, proj.EdgePct)
	assert.Nil(t, proj.Line)
}

func TestPredictNoContributingWindows(t *testing.T) {
	processed := snapshot(map[int]float64{}, 0, 50.0)

	proj, err := New().Predict(processed, models.StatPoints, nil, nil)
	assert.ErrorIs(t, err, models.ErrInsufficientData)
	assert.Nil(t, proj)
}

func TestPredictPartialWindowsRenormalizeWeights(t *testing.T) {
	// Only the 5-game window has data, so it carries the full weight.
	processed := snapshot(map[int]float64{5: 18.0}, 0, 55.0)

	proj, err := New().Predict(processed, models.StatPoints, nil, nil)
	require.NoError(t, err)

	assert.InDelta(t, 18.0, proj.Value, 1e-9)
}

func TestRecommendEdgeThresholds(t *testing.T) {
	tests := []struct {
		name           string
		line           float64
		consistency    float64
		wantCall       models.Recommendation
		wantConfidence float64
	}{
		{"strong over edge", 20.0, 70.0, models.RecommendOver, 85.0},
		{"moderate under edge", 27.5, 70.0, models.RecommendUnder, 75.0},
		{"inside the noise band", 25.0, 70.0, models.RecommendHold, 60.0},
		{"high edge cap", 20.0, 92.0, models.RecommendOver, 95.0},
		{"low consistency floor", 25.0, 25.0, models.RecommendHold, 20.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processed := snapshot(map[int]float64{5: 25.0, 10: 25.0, 20: 25.0}, 0, tt.consistency)

			proj, err := New().Predict(processed, models.StatPoints, floatPtr(tt.line), nil)
			require.NoError(t, err)

			assert.Equal(t, tt.wantCall, proj.Recommendation)
			assert.InDelta(t, tt.wantConfidence, proj.ConfidenceScore, 1e-9)
		})
	}
}

func TestPredictTeamTotal(t *testing.T) {
	totals := []float64{120, 110, 115, 105, 100, 110, 110, 110, 110, 110}

	prediction, avg5, avg10, avg20, err := New().PredictTeamTotal(totals)
	require.NoError(t, err)

	assert.InDelta(t, 110.0, avg5, 1e-9)
	assert.InDelta(t, 111.0, avg10, 1e-9)
	assert.InDelta(t, 111.0, avg20, 1e-9)
	assert.InDelta(t, 110*0.45+111*0.30+111*0.25, prediction, 1e-9)
}

func TestPredictTeamTotalNoGames(t *testing.T) {
	_, _, _, _, err := New().PredictTeamTotal(nil)
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}
