// Package ml provides Prometheus metrics for model scoring operations.
package ml

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ModelScoresTotal tracks total model scores requested
	ModelScoresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_scores_total",
			Help: "Total number of model scores requested",
		},
		[]string{"stat", "cache_hit"},
	)

	// ModelScoreLatency tracks model scoring latency
	ModelScoreLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "model_score_latency_seconds",
			Help:    "Model scoring latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stat"},
	)

	// ModelErrorsTotal tracks model service errors
	ModelErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_errors_total",
			Help: "Total number of model service errors",
		},
		[]string{"method", "error_type"},
	)

	// ModelCacheHitRatio tracks the score cache hit ratio
	ModelCacheHitRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_cache_hit_ratio",
			Help: "Model score cache hit ratio",
		},
	)

	// ModelTrainingJobsTotal tracks training jobs
	ModelTrainingJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_training_jobs_total",
			Help: "Total number of model training jobs",
		},
		[]string{"stat", "status"},
	)
)
