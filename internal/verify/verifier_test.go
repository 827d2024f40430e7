package verify

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sharp-props/internal/models"
)

func linedPrediction(stat models.StatKey, line float64, call models.Recommendation) *models.Prediction {
	return &models.Prediction{
		ID:              uuid.New(),
		PlayerID:        23,
		PlayerName:      "LeBron James",
		TeamAbbr:        "LAL",
		Stat:            stat,
		GameDate:        time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Matchup:         "BOS @ LAL",
		PredictedValue:  28.4,
		Line:            &line,
		Recommendation:  call,
		ConfidenceScore: 80,
		ConfidenceLabel: models.ConfidenceHigh,
		EdgePct:         11.4,
	}
}

func realizedLog(pts, reb, ast float64) *models.PlayerGameLog {
	return &models.PlayerGameLog{
		PlayerID: 23,
		GameDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Points:   pts,
		Rebounds: reb,
		Assists:  ast,
	}
}

func TestVerifyCorrectOver(t *testing.T) {
	pred := linedPrediction(models.StatPoints, 25.5, models.RecommendOver)

	result, ok := NewVerifier().Verify(pred, realizedLog(30, 8, 7))
	require.True(t, ok)

	assert.Equal(t, models.OutcomeOver, result.ActualResult)
	require.NotNil(t, result.Correct)
	assert.True(t, *result.Correct)
	assert.InDelta(t, 30.0, result.ActualValue, 1e-9)
	assert.InDelta(t, 4.5, result.Difference, 1e-9)
}

func TestVerifyIncorrectCall(t *testing.T) {
	pred := linedPrediction(models.StatPoints, 25.5, models.RecommendUnder)

	result, ok := NewVerifier().Verify(pred, realizedLog(30, 8, 7))
	require.True(t, ok)

	require.NotNil(t, result.Correct)
	assert.False(t, *result.Correct)
}

func TestVerifyPushLeavesCorrectnessUndefined(t *testing.T) {
	pred := linedPrediction(models.StatAssists, 7.0, models.RecommendOver)

	result, ok := NewVerifier().Verify(pred, realizedLog(30, 8, 7))
	require.True(t, ok)

	assert.Equal(t, models.OutcomePush, result.ActualResult)
	assert.Nil(t, result.Correct)
}

func TestVerifyCompositeStatSums(t *testing.T) {
	pred := linedPrediction(models.StatPRA, 42.5, models.RecommendOver)

	result, ok := NewVerifier().Verify(pred, realizedLog(30, 8, 7))
	require.True(t, ok)

	assert.InDelta(t, 45.0, result.ActualValue, 1e-9)
	require.NotNil(t, result.Correct)
	assert.True(t, *result.Correct)
}

func TestVerifySkipsNonActionable(t *testing.T) {
	hold := linedPrediction(models.StatPoints, 25.5, models.RecommendHold)
	_, ok := NewVerifier().Verify(hold, realizedLog(30, 8, 7))
	assert.False(t, ok)

	unlined := linedPrediction(models.StatPoints, 25.5, models.RecommendOver)
	unlined.Line = nil
	_, ok = NewVerifier().Verify(unlined, realizedLog(30, 8, 7))
	assert.False(t, ok)

	_, ok = NewVerifier().Verify(linedPrediction(models.StatPoints, 25.5, models.RecommendOver), nil)
	assert.False(t, ok)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, models.OutcomeOver, Classify(26, 25.5))
	assert.Equal(t, models.OutcomeUnder, Classify(25, 25.5))
	assert.Equal(t, models.OutcomePush, Classify(25.5, 25.5))
}

func boolPtr(v bool) *bool { return &v }

func TestSummarizeExcludesPushes(t *testing.T) {
	results := []*models.VerificationResult{
		{Stat: models.StatPoints, ConfidenceLabel: models.ConfidenceHigh, Correct: boolPtr(true)},
		{Stat: models.StatPoints, ConfidenceLabel: models.ConfidenceHigh, Correct: boolPtr(true)},
		{Stat: models.StatPoints, ConfidenceLabel: models.ConfidenceMedium, Correct: boolPtr(false)},
		{Stat: models.StatRebounds, ConfidenceLabel: models.ConfidenceMedium, Correct: boolPtr(true)},
		{Stat: models.StatRebounds, ConfidenceLabel: models.ConfidenceLow, Correct: nil, ActualResult: models.OutcomePush},
	}

	summary := Summarize(results)

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 3, summary.Correct)
	assert.Equal(t, 1, summary.Incorrect)
	assert.Equal(t, 1, summary.Pushes)
	assert.InDelta(t, 75.0, summary.AccuracyPct, 1e-9)

	high := summary.ByConfidence[models.ConfidenceHigh]
	assert.Equal(t, 2, high.Total)
	assert.InDelta(t, 100.0, high.AccuracyPct, 1e-9)

	points := summary.ByStat[models.StatPoints]
	assert.Equal(t, 3, points.Total)
	assert.InDelta(t, 66.67, points.AccuracyPct, 0.01)

	// The push never reached a bucket.
	assert.NotContains(t, summary.ByConfidence, models.ConfidenceLow)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	assert.Zero(t, summary.Total)
	assert.Zero(t, summary.AccuracyPct)
	assert.Empty(t, summary.ByStat)
}
