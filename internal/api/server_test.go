package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sharp-props/internal/config"
	"github.com/yourusername/sharp-props/internal/models"
	"github.com/yourusername/sharp-props/internal/repository"
	"github.com/yourusername/sharp-props/internal/verify"
)

type stubPredictionRepo struct {
	repository.PredictionRepository
	props  []*models.Prediction
	totals []*models.TeamTotalPrediction
}

func (s *stubPredictionRepo) GetByDate(ctx context.Context, date time.Time) ([]*models.Prediction, error) {
	return s.props, nil
}

func (s *stubPredictionRepo) GetTeamTotalsByDate(ctx context.Context, date time.Time) ([]*models.TeamTotalPrediction, error) {
	return s.totals, nil
}

type stubGameLogRepo struct {
	repository.GameLogRepository
	logs []*models.PlayerGameLog
}

func (s *stubGameLogRepo) GetByPlayer(ctx context.Context, playerID int64, limit int) ([]*models.PlayerGameLog, error) {
	return s.logs, nil
}

type stubProcessedRepo struct {
	repository.ProcessedStatsRepository
	stats *models.ProcessedStats
}

func (s *stubProcessedRepo) GetByPlayerID(ctx context.Context, playerID int64) (*models.ProcessedStats, error) {
	if s.stats == nil {
		return nil, models.ErrNotFound
	}
	return s.stats, nil
}

type stubTeamRepo struct {
	repository.TeamRepository
	teams []*models.Team
}

func (s *stubTeamRepo) List(ctx context.Context) ([]*models.Team, error) {
	return s.teams, nil
}

type stubAccuracy struct {
	summary verify.AccuracySummary
}

func (s *stubAccuracy) AccuracySummary(ctx context.Context, days int) (verify.AccuracySummary, error) {
	return s.summary, nil
}

func prop(name string, confidence float64, label models.ConfidenceLabel) *models.Prediction {
	line := 25.5
	return &models.Prediction{
		ID:              uuid.New(),
		PlayerName:      name,
		Stat:            models.StatPoints,
		Line:            &line,
		Recommendation:  models.RecommendOver,
		ConfidenceScore: confidence,
		ConfidenceLabel: label,
	}
}

func newTestServer(props []*models.Prediction, logs []*models.PlayerGameLog) *Server {
	repos := &repository.Repositories{
		Prediction:     &stubPredictionRepo{props: props},
		GameLog:        &stubGameLogRepo{logs: logs},
		ProcessedStats: &stubProcessedRepo{},
		Team:           &stubTeamRepo{teams: []*models.Team{{ID: 1, Abbreviation: "LAL"}}},
	}
	cfg := &config.APIConfig{AllowedOrigin: "https://dashboard.example.com", AccuracyDays: 14}
	accuracy := &stubAccuracy{summary: verify.AccuracySummary{Total: 40, Correct: 24, AccuracyPct: 60.0}}
	return NewServer(cfg, repos, accuracy, logrus.New())
}

func TestPredictionsEndpointSortsByConfidence(t *testing.T) {
	props := []*models.Prediction{
		prop("Role Player", 45, models.ConfidenceLow),
		prop("Star Player", 88, models.ConfidenceHigh),
		prop("Sixth Man", 62, models.ConfidenceMedium),
	}
	server := newTestServer(props, nil)

	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/predictions/2025-01-15", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp predictionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.PlayerProps, 3)
	assert.Equal(t, "Star Player", resp.PlayerProps[0].PlayerName)
	assert.Equal(t, "Role Player", resp.PlayerProps[2].PlayerName)
	require.Len(t, resp.HighConfidence, 1)
	assert.Equal(t, "Star Player", resp.HighConfidence[0].PlayerName)
	assert.Equal(t, 3, resp.TotalPredictions)
}

func TestPredictionsEndpointRejectsBadDate(t *testing.T) {
	server := newTestServer(nil, nil)

	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/predictions/not-a-date", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlayerStatsEndpoint(t *testing.T) {
	logs := []*models.PlayerGameLog{
		{PlayerID: 237, PlayerName: "LeBron James", TeamAbbr: "LAL", Points: 31},
	}
	server := newTestServer(nil, logs)

	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/players/237/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp playerStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(237), resp.PlayerID)
	assert.Equal(t, "LeBron James", resp.PlayerName)
	require.Len(t, resp.GameLogs, 1)
}

func TestPlayerStatsEndpointRejectsBadID(t *testing.T) {
	server := newTestServer(nil, nil)

	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/players/abc/stats", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAccuracyEndpoint(t *testing.T) {
	server := newTestServer(nil, nil)

	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/accuracy", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(40), resp["total_predictions"])
	assert.Equal(t, 60.0, resp["accuracy_pct"])
	assert.Equal(t, float64(14), resp["days_tracked"])
}

func TestCORSHeaders(t *testing.T) {
	server := newTestServer(nil, nil)

	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/teams", nil))

	assert.Equal(t, "https://dashboard.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, httptest.NewRequest("OPTIONS", "/teams", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
