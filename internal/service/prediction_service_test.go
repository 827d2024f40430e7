package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sharp-props/internal/config"
	"github.com/yourusername/sharp-props/internal/models"
	"github.com/yourusername/sharp-props/internal/repository"
)

// Ordered event labels shared by the fakes, used to assert that a player's
// snapshot is refreshed before any of their projections are stored.
const (
	eventSnapshotUpsert   = "snapshot"
	eventPredictionInsert = "prediction"
)

type fakeGameRepo struct {
	repository.GameRepository
	slate []*models.Game
	final []*models.Game
}

func (f *fakeGameRepo) GetByDate(ctx context.Context, date time.Time) ([]*models.Game, error) {
	return f.slate, nil
}

func (f *fakeGameRepo) GetFinalByDateRange(ctx context.Context, start, end time.Time) ([]*models.Game, error) {
	return f.final, nil
}

type fakeGameLogRepo struct {
	repository.GameLogRepository
	logsByPlayer map[int64][]*models.PlayerGameLog
}

func (f *fakeGameLogRepo) ActivePlayerIDs(ctx context.Context, since time.Time) ([]int64, error) {
	ids := make([]int64, 0, len(f.logsByPlayer))
	for id := range f.logsByPlayer {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeGameLogRepo) GetByPlayer(ctx context.Context, playerID int64, limit int) ([]*models.PlayerGameLog, error) {
	return f.logsByPlayer[playerID], nil
}

func (f *fakeGameLogRepo) GetByPlayerBefore(ctx context.Context, playerID int64, before time.Time, limit int) ([]*models.PlayerGameLog, error) {
	var prior []*models.PlayerGameLog
	for _, l := range f.logsByPlayer[playerID] {
		if l.GameDate.Before(before) {
			prior = append(prior, l)
		}
	}
	return prior, nil
}

func (f *fakeGameLogRepo) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.PlayerGameLog, error) {
	return nil, nil
}

type fakeProcessedRepo struct {
	repository.ProcessedStatsRepository
	events *[]string
}

func (f *fakeProcessedRepo) Upsert(ctx context.Context, stats *models.ProcessedStats) error {
	*f.events = append(*f.events, eventSnapshotUpsert)
	return nil
}

type fakePredictionRepo struct {
	repository.PredictionRepository
	events     *[]string
	inserted   []*models.Prediction
	teamTotals []*models.TeamTotalPrediction
}

func (f *fakePredictionRepo) Insert(ctx context.Context, prediction *models.Prediction) error {
	*f.events = append(*f.events, eventPredictionInsert)
	f.inserted = append(f.inserted, prediction)
	return nil
}

func (f *fakePredictionRepo) InsertTeamTotal(ctx context.Context, total *models.TeamTotalPrediction) error {
	f.teamTotals = append(f.teamTotals, total)
	return nil
}

type fakeInjuryRepo struct {
	repository.InjuryRepository
}

func (f *fakeInjuryRepo) GetLatest(ctx context.Context) ([]*models.Injury, error) {
	return nil, nil
}

type fakeLinesProvider struct {
	table models.LineTable
}

func (f *fakeLinesProvider) FetchPropLines(ctx context.Context) (models.LineTable, error) {
	return f.table, nil
}

func (f *fakeLinesProvider) Name() string { return "fake-lines" }

type recordingScorer struct {
	statsScored []models.StatKey
	score       float64
}

func (r *recordingScorer) Score(ctx context.Context, playerID int64, gameDate time.Time, stat models.StatKey, features []float64) (float64, error) {
	r.statsScored = append(r.statsScored, stat)
	return r.score, nil
}

func testPredictionConfig() *config.PredictionConfig {
	return &config.PredictionConfig{
		Windows:             []int{5, 10, 20},
		GameLogLimit:        25,
		RosterLookbackDays:  14,
		ContextLookbackDays: 14,
		RetentionDays:       120,
	}
}

// playerLogs builds n final-game logs, most recent first, all before date.
func playerLogs(playerID, teamID int64, name, abbr string, n int, points float64, date time.Time) []*models.PlayerGameLog {
	logs := make([]*models.PlayerGameLog, 0, n)
	for i := 1; i <= n; i++ {
		logs = append(logs, &models.PlayerGameLog{
			PlayerID:   playerID,
			PlayerName: name,
			TeamID:     teamID,
			TeamAbbr:   abbr,
			GameID:     int64(1000 + i),
			GameDate:   date.AddDate(0, 0, -i),
			Minutes:    "34:12",
			Points:     points,
			Rebounds:   8,
			Assists:    7,
			ThreesMade: 3,
		})
	}
	return logs
}

func slateGame(date time.Time) *models.Game {
	return &models.Game{
		ID:              500,
		GameDate:        date,
		Status:          "Scheduled",
		HomeTeamID:      1,
		HomeTeamName:    "Los Angeles Lakers",
		HomeTeamAbbr:    "LAL",
		VisitorTeamID:   2,
		VisitorTeamName: "Boston Celtics",
		VisitorTeamAbbr: "BOS",
	}
}

type predictionHarness struct {
	svc            *PredictionService
	events         []string
	predictionRepo *fakePredictionRepo
	scorer         *recordingScorer
}

func newPredictionHarness(t *testing.T, date time.Time, logsByPlayer map[int64][]*models.PlayerGameLog, table models.LineTable, withScorer bool) *predictionHarness {
	t.Helper()
	h := &predictionHarness{}

	h.predictionRepo = &fakePredictionRepo{events: &h.events}
	repos := &repository.Repositories{
		Game:           &fakeGameRepo{slate: []*models.Game{slateGame(date)}},
		GameLog:        &fakeGameLogRepo{logsByPlayer: logsByPlayer},
		ProcessedStats: &fakeProcessedRepo{events: &h.events},
		Prediction:     h.predictionRepo,
		Injury:         &fakeInjuryRepo{},
	}

	cfg := testPredictionConfig()
	baseLog := logrus.New()
	processor := NewStatsProcessor(repos.GameLog, repos.ProcessedStats, cfg, baseLog)

	var scorer ModelScorer
	if withScorer {
		h.scorer = &recordingScorer{score: 30.0}
		scorer = h.scorer
	}

	h.svc = NewPredictionService(repos, processor, &fakeLinesProvider{table: table}, scorer, cfg, baseLog)
	return h
}

func TestRunPredictionsRefreshesSnapshotFirst(t *testing.T) {
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	logs := map[int64][]*models.PlayerGameLog{
		100: playerLogs(100, 1, "LeBron James", "LAL", 12, 27, date),
	}

	h := newPredictionHarness(t, date, logs, models.LineTable{}, true)
	report, err := h.svc.RunPredictions(context.Background(), date)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Games)
	assert.Equal(t, len(models.PredictableStatKeys), report.Predictions)

	// The snapshot upsert must precede every stored projection
	require.NotEmpty(t, h.events)
	assert.Equal(t, eventSnapshotUpsert, h.events[0])
	for _, e := range h.events[1:] {
		assert.Equal(t, eventPredictionInsert, e)
	}
}

func TestRunPredictionsNeverScoresPRA(t *testing.T) {
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	logs := map[int64][]*models.PlayerGameLog{
		100: playerLogs(100, 1, "LeBron James", "LAL", 12, 27, date),
	}

	h := newPredictionHarness(t, date, logs, models.LineTable{}, true)
	_, err := h.svc.RunPredictions(context.Background(), date)
	require.NoError(t, err)

	require.NotEmpty(t, h.scorer.statsScored)
	for _, stat := range h.scorer.statsScored {
		assert.NotEqual(t, models.StatPRA, stat, "composite PRA must not reach the model service")
	}

	for _, p := range h.predictionRepo.inserted {
		if p.Stat == models.StatPRA {
			assert.Nil(t, p.ModelScore)
			assert.Equal(t, models.MethodWeightedAvg, p.Method)
		} else {
			assert.NotNil(t, p.ModelScore)
			assert.Equal(t, models.MethodEnsemble, p.Method)
		}
	}
}

func TestRunPredictionsSkipsOffSlatePlayers(t *testing.T) {
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	logs := map[int64][]*models.PlayerGameLog{
		100: playerLogs(100, 1, "LeBron James", "LAL", 12, 27, date),
		200: playerLogs(200, 9, "Nikola Jokic", "DEN", 12, 26, date),
	}

	h := newPredictionHarness(t, date, logs, models.LineTable{}, false)
	_, err := h.svc.RunPredictions(context.Background(), date)
	require.NoError(t, err)

	for _, p := range h.predictionRepo.inserted {
		assert.Equal(t, int64(100), p.PlayerID, "only slate players should be projected")
	}
}

func TestRunPredictionsWithoutScorerUsesWeightedAverages(t *testing.T) {
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	logs := map[int64][]*models.PlayerGameLog{
		100: playerLogs(100, 1, "LeBron James", "LAL", 12, 27, date),
	}

	h := newPredictionHarness(t, date, logs, models.LineTable{}, false)
	report, err := h.svc.RunPredictions(context.Background(), date)
	require.NoError(t, err)

	assert.Zero(t, report.EnsembleUsed)
	assert.Equal(t, report.Predictions, report.WeightedAvgOnly)
	for _, p := range h.predictionRepo.inserted {
		assert.Nil(t, p.ModelScore)
	}
}

func TestRunPredictionsAttachesMatchedLines(t *testing.T) {
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	logs := map[int64][]*models.PlayerGameLog{
		// Steady 27 point scorer facing a 20.5 line: a clear OVER edge
		100: playerLogs(100, 1, "LeBron James", "LAL", 12, 27, date),
	}
	table := models.LineTable{
		"lebron james": models.StatLines{models.StatPoints: 20.5},
	}

	h := newPredictionHarness(t, date, logs, table, false)
	report, err := h.svc.RunPredictions(context.Background(), date)
	require.NoError(t, err)

	assert.Equal(t, 1, report.WithLines)

	var pts *models.Prediction
	for _, p := range h.predictionRepo.inserted {
		if p.Stat == models.StatPoints {
			pts = p
		}
	}
	require.NotNil(t, pts)
	require.NotNil(t, pts.Line)
	assert.Equal(t, 20.5, *pts.Line)
	assert.Equal(t, models.RecommendOver, pts.Recommendation)
	assert.Positive(t, pts.EdgePct)
	assert.Equal(t, "BOS @ LAL", pts.Matchup)
	assert.NotEqual(t, uuid.Nil, pts.ID)
}
