package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sharp-props/internal/models"
	"github.com/yourusername/sharp-props/internal/repository"
)

type fakeUnverifiedRepo struct {
	repository.PredictionRepository
	pending    []*models.Prediction
	cutoffSeen time.Time
}

func (f *fakeUnverifiedRepo) GetUnverified(ctx context.Context, before time.Time) ([]*models.Prediction, error) {
	f.cutoffSeen = before
	var eligible []*models.Prediction
	for _, p := range f.pending {
		if p.GameDate.Before(before) {
			eligible = append(eligible, p)
		}
	}
	return eligible, nil
}

type fakeRealizedRepo struct {
	repository.GameLogRepository
	realized map[int64]*models.PlayerGameLog
}

func (f *fakeRealizedRepo) GetByPlayerAndDate(ctx context.Context, playerID int64, date time.Time) (*models.PlayerGameLog, error) {
	if log, ok := f.realized[playerID]; ok {
		return log, nil
	}
	return nil, models.ErrNotFound
}

type fakeResultRepo struct {
	repository.ResultRepository
	inserted []*models.VerificationResult
}

func (f *fakeResultRepo) Insert(ctx context.Context, result *models.VerificationResult) error {
	f.inserted = append(f.inserted, result)
	return nil
}

func actionablePrediction(playerID int64, stat models.StatKey, line float64, rec models.Recommendation, gameDate time.Time) *models.Prediction {
	return &models.Prediction{
		ID:             uuid.New(),
		PlayerID:       playerID,
		PlayerName:     "Test Player",
		Stat:           stat,
		GameDate:       gameDate,
		Line:           &line,
		Recommendation: rec,
	}
}

func TestRunVerificationOnlySettlesDayOldPredictions(t *testing.T) {
	asOf := time.Date(2025, 1, 16, 9, 30, 0, 0, time.UTC)
	yesterday := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	today := time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC)

	predRepo := &fakeUnverifiedRepo{pending: []*models.Prediction{
		actionablePrediction(100, models.StatPoints, 25.5, models.RecommendOver, yesterday),
		actionablePrediction(200, models.StatPoints, 25.5, models.RecommendOver, today),
	}}
	resultRepo := &fakeResultRepo{}
	repos := &repository.Repositories{
		Prediction: predRepo,
		GameLog: &fakeRealizedRepo{realized: map[int64]*models.PlayerGameLog{
			100: {PlayerID: 100, GameDate: yesterday, Points: 31},
			200: {PlayerID: 200, GameDate: today, Points: 31},
		}},
		Result: resultRepo,
	}

	svc := NewVerificationService(repos, logrus.New())
	report, err := svc.RunVerification(context.Background(), asOf)
	require.NoError(t, err)

	// The same-day prediction stays pending until tomorrow's run
	assert.Equal(t, time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC), predRepo.cutoffSeen)
	assert.Equal(t, 1, report.Verified)
	require.Len(t, resultRepo.inserted, 1)
	assert.Equal(t, int64(100), resultRepo.inserted[0].PlayerID)
}

func TestRunVerificationClassifiesOutcomes(t *testing.T) {
	asOf := time.Date(2025, 1, 16, 9, 0, 0, 0, time.UTC)
	gameDate := time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC)

	over := actionablePrediction(1, models.StatPoints, 25.5, models.RecommendOver, gameDate)
	under := actionablePrediction(2, models.StatRebounds, 10.5, models.RecommendUnder, gameDate)
	push := actionablePrediction(3, models.StatAssists, 7.0, models.RecommendOver, gameDate)

	resultRepo := &fakeResultRepo{}
	repos := &repository.Repositories{
		Prediction: &fakeUnverifiedRepo{pending: []*models.Prediction{over, under, push}},
		GameLog: &fakeRealizedRepo{realized: map[int64]*models.PlayerGameLog{
			1: {PlayerID: 1, Points: 30},   // over hits
			2: {PlayerID: 2, Rebounds: 12}, // under misses
			3: {PlayerID: 3, Assists: 7},   // lands on the line
		}},
		Result: resultRepo,
	}

	svc := NewVerificationService(repos, logrus.New())
	report, err := svc.RunVerification(context.Background(), asOf)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Verified)
	assert.Equal(t, 1, report.Correct)
	assert.Equal(t, 1, report.Incorrect)
	assert.Equal(t, 1, report.Pushes)

	byPlayer := map[int64]*models.VerificationResult{}
	for _, r := range resultRepo.inserted {
		byPlayer[r.PlayerID] = r
	}
	require.NotNil(t, byPlayer[1].Correct)
	assert.True(t, *byPlayer[1].Correct)
	require.NotNil(t, byPlayer[2].Correct)
	assert.False(t, *byPlayer[2].Correct)
	assert.Nil(t, byPlayer[3].Correct, "a push has no defined correctness")
	assert.Equal(t, models.OutcomePush, byPlayer[3].ActualResult)
}

func TestRunVerificationSkipsNonActionable(t *testing.T) {
	asOf := time.Date(2025, 1, 16, 9, 0, 0, 0, time.UTC)
	gameDate := time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC)

	hold := actionablePrediction(1, models.StatPoints, 25.5, models.RecommendHold, gameDate)
	unlined := actionablePrediction(2, models.StatPoints, 25.5, models.RecommendOver, gameDate)
	unlined.Line = nil

	resultRepo := &fakeResultRepo{}
	repos := &repository.Repositories{
		Prediction: &fakeUnverifiedRepo{pending: []*models.Prediction{hold, unlined}},
		GameLog:    &fakeRealizedRepo{realized: map[int64]*models.PlayerGameLog{}},
		Result:     resultRepo,
	}

	svc := NewVerificationService(repos, logrus.New())
	report, err := svc.RunVerification(context.Background(), asOf)
	require.NoError(t, err)

	assert.Zero(t, report.Verified)
	assert.Equal(t, 2, report.Skipped)
	assert.Empty(t, resultRepo.inserted)
}

func TestRunVerificationLeavesMissingBoxScoresPending(t *testing.T) {
	asOf := time.Date(2025, 1, 16, 9, 0, 0, 0, time.UTC)
	gameDate := time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC)

	pred := actionablePrediction(1, models.StatPoints, 25.5, models.RecommendOver, gameDate)

	resultRepo := &fakeResultRepo{}
	repos := &repository.Repositories{
		Prediction: &fakeUnverifiedRepo{pending: []*models.Prediction{pred}},
		GameLog:    &fakeRealizedRepo{realized: map[int64]*models.PlayerGameLog{}},
		Result:     resultRepo,
	}

	svc := NewVerificationService(repos, logrus.New())
	report, err := svc.RunVerification(context.Background(), asOf)
	require.NoError(t, err)

	assert.Zero(t, report.Verified)
	assert.Equal(t, 1, report.NoData)
	assert.Empty(t, resultRepo.inserted, "postponed games settle on a later run")
}
