// Package metrics provides the centralized Prometheus registry for the
// prediction engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsGeneratedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sharp_props",
		Name:      "predictions_generated_total",
		Help:      "Total number of player projections generated",
	}, []string{"stat", "method"})
	PredictionsWithLinesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sharp_props",
		Name:      "predictions_with_lines_total",
		Help:      "Total number of projections matched to a posted line",
	})
	TeamTotalsGeneratedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sharp_props",
		Name:      "team_totals_generated_total",
		Help:      "Total number of team total projections generated",
	})
	VerificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sharp_props",
		Name:      "verifications_total",
		Help:      "Total number of settled predictions by outcome",
	}, []string{"outcome"})
	GamesIngestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sharp_props",
		Name:      "games_ingested_total",
		Help:      "Total number of games fetched from the stats provider",
	})
	GameLogsIngestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sharp_props",
		Name:      "game_logs_ingested_total",
		Help:      "Total number of player box-score lines stored",
	})
	DataSourceErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sharp_props",
		Name:      "datasource_errors_total",
		Help:      "Total number of upstream provider errors",
	}, []string{"source"})
	NotificationsSentTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sharp_props",
		Name:      "notifications_sent_total",
		Help:      "Total number of slate notifications delivered",
	})
)

// Gauge metrics
var (
	SlateGames = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sharp_props",
		Name:      "slate_games",
		Help:      "Number of games on the most recent predicted slate",
	})
	TrailingAccuracyPct = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "sharp_props",
		Name:      "trailing_accuracy_pct",
		Help:      "Trailing hit rate of settled predictions by confidence band",
	}, []string{"band"})
	UnverifiedPredictions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sharp_props",
		Name:      "unverified_predictions",
		Help:      "Predictions awaiting settlement at the last verification run",
	})
)

// Histogram metrics
var (
	PredictionRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sharp_props",
		Name:      "prediction_run_duration_seconds",
		Help:      "Duration of full slate prediction runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
	})
	IngestionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sharp_props",
		Name:      "ingestion_duration_seconds",
		Help:      "Duration of daily ingestion runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
	})
	VerificationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sharp_props",
		Name:      "verification_duration_seconds",
		Help:      "Duration of verification runs in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(PredictionsGeneratedTotal)
		registry.MustRegister(PredictionsWithLinesTotal)
		registry.MustRegister(TeamTotalsGeneratedTotal)
		registry.MustRegister(VerificationsTotal)
		registry.MustRegister(GamesIngestedTotal)
		registry.MustRegister(GameLogsIngestedTotal)
		registry.MustRegister(DataSourceErrorsTotal)
		registry.MustRegister(NotificationsSentTotal)

		// Register gauge metrics
		registry.MustRegister(SlateGames)
		registry.MustRegister(TrailingAccuracyPct)
		registry.MustRegister(UnverifiedPredictions)

		// Register histogram metrics
		registry.MustRegister(PredictionRunDuration)
		registry.MustRegister(IngestionDuration)
		registry.MustRegister(VerificationDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler. The model-service client
// registers its metrics on the default registry, so both are gathered.
func Handler() http.Handler {
	gatherers := prometheus.Gatherers{GetRegistry(), prometheus.DefaultGatherer}
	return promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})
}

// RecordPrediction records one generated projection.
func RecordPrediction(stat, method string, hasLine bool) {
	PredictionsGeneratedTotal.WithLabelValues(stat, method).Inc()
	if hasLine {
		PredictionsWithLinesTotal.Inc()
	}
}

// RecordTeamTotal records one generated team total projection.
func RecordTeamTotal() {
	TeamTotalsGeneratedTotal.Inc()
}

// RecordVerification records one settled prediction.
func RecordVerification(outcome string) {
	VerificationsTotal.WithLabelValues(outcome).Inc()
}

// RecordIngestion records the volume of one ingestion run.
func RecordIngestion(games, gameLogs int, durationSeconds float64) {
	GamesIngestedTotal.Add(float64(games))
	GameLogsIngestedTotal.Add(float64(gameLogs))
	IngestionDuration.Observe(durationSeconds)
}

// RecordDataSourceError records an upstream provider failure.
func RecordDataSourceError(source string) {
	DataSourceErrorsTotal.WithLabelValues(source).Inc()
}

// RecordNotificationSent records a delivered slate notification.
func RecordNotificationSent() {
	NotificationsSentTotal.Inc()
}

// RecordPredictionRun records the shape and duration of a slate run.
func RecordPredictionRun(games int, durationSeconds float64) {
	SlateGames.Set(float64(games))
	PredictionRunDuration.Observe(durationSeconds)
}

// RecordVerificationRun records the duration and backlog of a verification run.
func RecordVerificationRun(pending int, durationSeconds float64) {
	UnverifiedPredictions.Set(float64(pending))
	VerificationDuration.Observe(durationSeconds)
}

// UpdateTrailingAccuracy updates the hit-rate gauge for a confidence band.
func UpdateTrailingAccuracy(band string, pct float64) {
	TrailingAccuracyPct.WithLabelValues(band).Set(pct)
}
