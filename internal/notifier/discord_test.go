package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sharp-props/internal/config"
	"github.com/yourusername/sharp-props/internal/models"
	"github.com/yourusername/sharp-props/internal/verify"
)

type stubPredictions struct {
	predictions []*models.Prediction
}

func (s *stubPredictions) GetByDate(ctx context.Context, date time.Time) ([]*models.Prediction, error) {
	return s.predictions, nil
}

type stubAccuracy struct {
	summary verify.AccuracySummary
}

func (s *stubAccuracy) AccuracySummary(ctx context.Context, days int) (verify.AccuracySummary, error) {
	return s.summary, nil
}

func pick(name string, rec models.Recommendation, confidence, edge float64) *models.Prediction {
	line := 25.5
	return &models.Prediction{
		ID:              uuid.New(),
		PlayerName:      name,
		TeamAbbr:        "LAL",
		Stat:            models.StatPoints,
		Line:            &line,
		PredictedValue:  28.1,
		EdgePct:         edge,
		Recommendation:  rec,
		ConfidenceScore: confidence,
		ConfidenceLabel: models.ConfidenceHigh,
	}
}

func newTestNotifier(t *testing.T, url string, preds []*models.Prediction) *DiscordNotifier {
	t.Helper()
	cfg := &config.NotifierConfig{Enabled: true, WebhookURL: url, MaxPicks: 15, AccuracyDays: 7}
	return NewDiscordNotifier(
		cfg,
		&stubPredictions{predictions: preds},
		&stubAccuracy{summary: verify.AccuracySummary{Correct: 12, Incorrect: 8, AccuracyPct: 60.0}},
		logrus.New(),
	)
}

func TestNotifySlateRanksAndFilters(t *testing.T) {
	var payload webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	hold := pick("Bench Player", models.RecommendHold, 99, 0)
	unlined := pick("No Line", models.RecommendOver, 99, 20)
	unlined.Line = nil

	preds := []*models.Prediction{
		pick("Second Best", models.RecommendOver, 70, 10),
		hold,
		pick("Top Pick", models.RecommendUnder, 90, -18),
		unlined,
	}

	n := newTestNotifier(t, server.URL, preds)
	require.NoError(t, n.NotifySlate(context.Background(), time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)))

	require.Len(t, payload.Embeds, 1)
	desc := payload.Embeds[0].Description

	assert.Contains(t, desc, "Top Pick")
	assert.Contains(t, desc, "Second Best")
	assert.NotContains(t, desc, "Bench Player")
	assert.NotContains(t, desc, "No Line")
	assert.Less(t, strings.Index(desc, "Top Pick"), strings.Index(desc, "Second Best"),
		"higher confidence pick should be listed first")
	assert.Contains(t, payload.Embeds[0].Footer.Text, "60.0% (12/20)")
}

func TestNotifySlateNoPicks(t *testing.T) {
	var payload webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := newTestNotifier(t, server.URL, nil)
	require.NoError(t, n.NotifySlate(context.Background(), time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)))

	require.Len(t, payload.Embeds, 1)
	assert.Contains(t, payload.Embeds[0].Title, "No Strong Picks")
}

func TestNotifySlateDisabledIsNoOp(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	cfg := &config.NotifierConfig{Enabled: false, WebhookURL: server.URL}
	n := NewDiscordNotifier(cfg, &stubPredictions{}, nil, logrus.New())

	require.NoError(t, n.NotifySlate(context.Background(), time.Now()))
	assert.False(t, called)
}

func TestNotifySlateWebhookFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	n := newTestNotifier(t, server.URL, []*models.Prediction{pick("Someone", models.RecommendOver, 80, 12)})

	err := n.NotifySlate(context.Background(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}
