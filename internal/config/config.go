// Package config provides configuration management for the Sharp Props engine.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App          AppConfig          `mapstructure:"app" validate:"required"`
	Database     DatabaseConfig     `mapstructure:"database" validate:"required"`
	StatsAPI     StatsAPIConfig     `mapstructure:"stats_api" validate:"required"`
	OddsAPI      OddsAPIConfig      `mapstructure:"odds_api" validate:"required"`
	ModelService ModelServiceConfig `mapstructure:"model_service" validate:"required"`
	Prediction   PredictionConfig   `mapstructure:"prediction" validate:"required"`
	Ingestion    IngestionConfig    `mapstructure:"ingestion" validate:"required"`
	Scheduler    SchedulerConfig    `mapstructure:"scheduler" validate:"required"`
	Notifier     NotifierConfig     `mapstructure:"notifier"`
	Metrics      MetricsConfig      `mapstructure:"metrics" validate:"required"`
	API          APIConfig          `mapstructure:"api"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// StatsAPIConfig represents the schedule/box-score provider configuration
type StatsAPIConfig struct {
	BaseURL        string  `mapstructure:"base_url" validate:"required,url"`
	APIKey         string  `mapstructure:"api_key"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	FetchAdvanced  bool    `mapstructure:"fetch_advanced"`
}

// OddsAPIConfig represents the market-line provider configuration
type OddsAPIConfig struct {
	BaseURL        string  `mapstructure:"base_url" validate:"required,url"`
	APIKey         string  `mapstructure:"api_key"`
	Regions        string  `mapstructure:"regions"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
}

// ModelServiceConfig represents the external regressor service configuration
type ModelServiceConfig struct {
	Enabled               bool   `mapstructure:"enabled"`
	HTTPAddress           string `mapstructure:"http_address" validate:"required_if=Enabled true,omitempty,url"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
	CacheTTLSeconds       int    `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	CacheMaxSize          int    `mapstructure:"cache_max_size" validate:"required,gt=0"`
	TrainingLookbackDays  int    `mapstructure:"training_lookback_days" validate:"required,gt=0"`
}

// PredictionConfig represents prediction run configuration
type PredictionConfig struct {
	Windows             []int `mapstructure:"windows" validate:"required,min=1,windows"`
	GameLogLimit        int   `mapstructure:"game_log_limit" validate:"required,gt=0"`
	RosterLookbackDays  int   `mapstructure:"roster_lookback_days" validate:"required,gt=0"`
	ContextLookbackDays int   `mapstructure:"context_lookback_days" validate:"required,gt=0"`
	RetentionDays       int   `mapstructure:"retention_days" validate:"required,gt=0"`
}

// IngestionConfig represents data ingestion configuration
type IngestionConfig struct {
	BackfillDays  int  `mapstructure:"backfill_days" validate:"required,gt=0"`
	FetchInjuries bool `mapstructure:"fetch_injuries"`
}

// SchedulerConfig represents cron expressions for the engine's jobs
type SchedulerConfig struct {
	Ingest  string `mapstructure:"ingest" validate:"required"`
	Process string `mapstructure:"process" validate:"required"`
	Predict string `mapstructure:"predict" validate:"required"`
	Verify  string `mapstructure:"verify" validate:"required"`
}

// NotifierConfig represents the chat-webhook notifier configuration
type NotifierConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	WebhookURL    string `mapstructure:"webhook_url" validate:"required_if=Enabled true,omitempty,url"`
	MaxPicks      int    `mapstructure:"max_picks" validate:"omitempty,gt=0"`
	AccuracyDays  int    `mapstructure:"accuracy_days" validate:"omitempty,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// APIConfig represents the dashboard API server configuration
type APIConfig struct {
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	AllowedOrigin  string `mapstructure:"allowed_origin"`
	AccuracyDays   int    `mapstructure:"accuracy_days" validate:"omitempty,gt=0"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
