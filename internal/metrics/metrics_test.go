package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestRecordPrediction(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordPrediction("pts", "ensemble", true)
		RecordPrediction("pra", "weighted_average", false)
	})
}

func TestRecordVerification(t *testing.T) {
	InitRegistry()

	for _, outcome := range []string{"correct", "incorrect", "push"} {
		assert.NotPanics(t, func() {
			RecordVerification(outcome)
		})
	}
}

func TestUpdateTrailingAccuracy(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name string
		band string
		pct  float64
	}{
		{name: "overall band", band: "overall", pct: 57.5},
		{name: "high band", band: "high", pct: 62.1},
		{name: "zero accuracy", band: "medium", pct: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				UpdateTrailingAccuracy(tt.band, tt.pct)
			})
		})
	}
}

func TestHandlerServesRegisteredMetrics(t *testing.T) {
	InitRegistry()
	RecordIngestion(12, 240, 3.5)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	Handler().ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "sharp_props_games_ingested_total")
}
