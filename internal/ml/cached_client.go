// Package ml provides the cached model scoring client.
package ml

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharp-props/internal/config"
	"github.com/yourusername/sharp-props/internal/models"
)

// CachedScorer wraps the model service client with per-slate score caching.
// The same (player, stat, game date) is scored at most once per cache TTL.
type CachedScorer struct {
	client *HTTPClient
	cache  *ScoreCache
	logger *logrus.Logger
}

// NewCachedScorer creates a new cached scorer
func NewCachedScorer(cfg *config.ModelServiceConfig, logger *logrus.Logger) *CachedScorer {
	return &CachedScorer{
		client: NewHTTPClient(cfg, logger),
		cache: NewScoreCache(
			time.Duration(cfg.CacheTTLSeconds)*time.Second,
			cfg.CacheMaxSize,
		),
		logger: logger,
	}
}

// Score retrieves a model score with caching
func (c *CachedScorer) Score(ctx context.Context, playerID int64, gameDate time.Time, stat models.StatKey, features []float64) (float64, error) {
	key := CacheKey{
		PlayerID: playerID,
		Stat:     stat,
		GameDate: gameDate.Format("2006-01-02"),
	}

	if score, found := c.cache.Get(key); found {
		ModelScoresTotal.WithLabelValues(string(stat), "true").Inc()
		return score, nil
	}

	score, err := c.client.Predict(ctx, stat, features)
	if err != nil {
		return 0, err
	}

	c.cache.Set(key, score)
	ModelScoresTotal.WithLabelValues(string(stat), "false").Inc()
	return score, nil
}

// TrainModel submits a training job and flushes the score cache so new
// model output replaces cached scores
func (c *CachedScorer) TrainModel(ctx context.Context, stat models.StatKey, lookbackDays int) (*TrainingStatus, error) {
	status, err := c.client.TrainModel(ctx, stat, lookbackDays)
	if err != nil {
		return nil, err
	}

	c.cache.Flush()
	return status, nil
}

// GetTrainingStatus retrieves training job status
func (c *CachedScorer) GetTrainingStatus(ctx context.Context, jobID string) (*TrainingStatus, error) {
	return c.client.GetTrainingStatus(ctx, jobID)
}

// HealthCheck verifies the model service is reachable
func (c *CachedScorer) HealthCheck(ctx context.Context) error {
	return c.client.HealthCheck(ctx)
}
