package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/sharp-props/internal/database"
	"github.com/yourusername/sharp-props/internal/models"
)

// Integration tests require a reachable test database; SetupTestDB skips
// when config/config.yaml.test is absent or the database is unreachable.

func TestGameLogRepositoryRoundTrip(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	gameDate := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	logs := []*models.PlayerGameLog{
		{
			PlayerID:   900001,
			PlayerName: "Test Player",
			TeamID:     14,
			TeamAbbr:   "LAL",
			GameID:     800001,
			GameDate:   gameDate,
			Minutes:    "34:12",
			Points:     28,
			Rebounds:   7,
			Assists:    9,
		},
	}

	if err := repos.GameLog.UpsertBatch(ctx, logs); err != nil {
		t.Fatalf("failed to upsert game logs: %v", err)
	}

	retrieved, err := repos.GameLog.GetByPlayer(ctx, 900001, 20)
	if err != nil {
		t.Fatalf("failed to retrieve game logs: %v", err)
	}
	if len(retrieved) == 0 {
		t.Fatal("expected at least one game log")
	}
	if retrieved[0].Points != 28 {
		t.Errorf("expected 28 points, got %v", retrieved[0].Points)
	}

	// Upsert the same (player, game) with corrected numbers
	logs[0].Points = 30
	if err := repos.GameLog.UpsertBatch(ctx, logs); err != nil {
		t.Fatalf("failed to re-upsert game logs: %v", err)
	}

	single, err := repos.GameLog.GetByPlayerAndDate(ctx, 900001, gameDate)
	if err != nil {
		t.Fatalf("failed to retrieve game log by date: %v", err)
	}
	if single.Points != 30 {
		t.Errorf("expected upsert to overwrite points, got %v", single.Points)
	}
}

func TestPredictionRepositorySupersedes(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	gameDate := time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC)
	line := 25.5

	pred := &models.Prediction{
		ID:              uuid.New(),
		PlayerID:        900002,
		PlayerName:      "Test Player",
		Stat:            models.StatPoints,
		GameDate:        gameDate,
		PredictedValue:  27.1,
		Line:            &line,
		Recommendation:  models.RecommendOver,
		ConfidenceScore: 70,
		ConfidenceLabel: models.ConfidenceMedium,
		Method:          models.MethodWeightedAvg,
		CreatedAt:       time.Now(),
	}

	if err := repos.Prediction.Insert(ctx, pred); err != nil {
		t.Fatalf("failed to insert prediction: %v", err)
	}

	// A re-run for the same (player, stat, date) replaces the stored row
	rerun := *pred
	rerun.ID = uuid.New()
	rerun.PredictedValue = 24.8
	rerun.Recommendation = models.RecommendHold
	if err := repos.Prediction.Insert(ctx, &rerun); err != nil {
		t.Fatalf("failed to re-insert prediction: %v", err)
	}

	stored, err := repos.Prediction.GetByDate(ctx, gameDate)
	if err != nil {
		t.Fatalf("failed to retrieve predictions: %v", err)
	}

	var found *models.Prediction
	for _, p := range stored {
		if p.PlayerID == 900002 && p.Stat == models.StatPoints {
			if found != nil {
				t.Fatal("expected a single prediction per (player, stat, date)")
			}
			found = p
		}
	}
	if found == nil {
		t.Fatal("expected prediction to be stored")
	}
	if found.PredictedValue != 24.8 {
		t.Errorf("expected re-run to supersede, got predicted value %v", found.PredictedValue)
	}
}

func TestResultRepositoryVerifiesOnce(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	gameDate := time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC)
	line := 7.5

	pred := &models.Prediction{
		ID:              uuid.New(),
		PlayerID:        900003,
		PlayerName:      "Test Player",
		Stat:            models.StatRebounds,
		GameDate:        gameDate,
		PredictedValue:  8.4,
		Line:            &line,
		Recommendation:  models.RecommendOver,
		ConfidenceScore: 65,
		ConfidenceLabel: models.ConfidenceMedium,
		Method:          models.MethodWeightedAvg,
		CreatedAt:       time.Now(),
	}
	if err := repos.Prediction.Insert(ctx, pred); err != nil {
		t.Fatalf("failed to insert prediction: %v", err)
	}

	correct := true
	result := &models.VerificationResult{
		ID:             uuid.New(),
		PredictionID:   pred.ID,
		PlayerID:       pred.PlayerID,
		Stat:           pred.Stat,
		GameDate:       gameDate,
		Line:           line,
		PredictedValue: pred.PredictedValue,
		Recommendation: pred.Recommendation,
		ActualValue:    9,
		ActualResult:   models.OutcomeOver,
		Correct:        &correct,
		VerifiedAt:     time.Now(),
	}
	if err := repos.Result.Insert(ctx, result); err != nil {
		t.Fatalf("failed to insert result: %v", err)
	}

	// Second insert for the same prediction is a no-op
	dup := *result
	dup.ID = uuid.New()
	if err := repos.Result.Insert(ctx, &dup); err != nil {
		t.Fatalf("duplicate insert should be a no-op, got: %v", err)
	}

	unverified, err := repos.Prediction.GetUnverified(ctx, gameDate.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("failed to query unverified predictions: %v", err)
	}
	for _, p := range unverified {
		if p.ID == pred.ID {
			t.Error("verified prediction still reported as unverified")
		}
	}
}
