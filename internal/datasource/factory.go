package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/sharp-props/internal/config"
)

// Factory creates provider implementations from configuration
type Factory struct {
	config *config.Config
	logger *logrus.Logger
}

// NewFactory creates a new data source factory
func NewFactory(cfg *config.Config, logger *logrus.Logger) *Factory {
	return &Factory{
		config: cfg,
		logger: logger,
	}
}

// NewStatsProvider creates the schedule/box-score provider
func (f *Factory) NewStatsProvider() (StatsProvider, error) {
	cfg := f.config.StatsAPI
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("stats API base URL is required")
	}

	clientCfg := DefaultHTTPClientConfig()
	clientCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	clientCfg.RateLimit = cfg.RateLimit

	httpClient := NewRateLimitedHTTPClient(clientCfg, f.logger)
	return NewStatsClient(httpClient, cfg.BaseURL, cfg.APIKey, cfg.FetchAdvanced, f.logger), nil
}

// NewLinesProvider creates the sportsbook prop lines provider
func (f *Factory) NewLinesProvider() (LinesProvider, error) {
	cfg := f.config.OddsAPI
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("odds API base URL is required")
	}

	clientCfg := DefaultHTTPClientConfig()
	clientCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	clientCfg.RateLimit = cfg.RateLimit

	httpClient := NewRateLimitedHTTPClient(clientCfg, f.logger)
	return NewLinesClient(httpClient, cfg.BaseURL, cfg.APIKey, cfg.Regions, f.logger), nil
}
