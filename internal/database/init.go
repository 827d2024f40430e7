package database

import (
	"context"
	"fmt"

	"github.com/yourusername/sharp-props/internal/config"
)

// schemaStatements holds the DDL applied on startup. Statements are
// idempotent so repeated initialization is safe.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS teams (
		id BIGINT PRIMARY KEY,
		full_name TEXT NOT NULL,
		abbreviation TEXT NOT NULL UNIQUE,
		city TEXT NOT NULL DEFAULT '',
		conference TEXT NOT NULL DEFAULT '',
		division TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS games (
		id BIGINT PRIMARY KEY,
		game_date DATE NOT NULL,
		season INT NOT NULL,
		status TEXT NOT NULL,
		home_team_id BIGINT NOT NULL,
		home_team_name TEXT NOT NULL DEFAULT '',
		home_team_abbr TEXT NOT NULL DEFAULT '',
		visitor_team_id BIGINT NOT NULL,
		visitor_team_name TEXT NOT NULL DEFAULT '',
		visitor_team_abbr TEXT NOT NULL DEFAULT '',
		home_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		visitor_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_games_date ON games (game_date)`,
	`CREATE TABLE IF NOT EXISTS player_game_logs (
		player_id BIGINT NOT NULL,
		player_name TEXT NOT NULL,
		team_id BIGINT NOT NULL,
		team_abbr TEXT NOT NULL DEFAULT '',
		game_id BIGINT NOT NULL,
		game_date DATE NOT NULL,
		is_home BOOLEAN NOT NULL DEFAULT FALSE,
		opponent_id BIGINT NOT NULL DEFAULT 0,
		opponent_abbr TEXT NOT NULL DEFAULT '',
		minutes TEXT NOT NULL DEFAULT '0',
		pts DOUBLE PRECISION NOT NULL DEFAULT 0,
		reb DOUBLE PRECISION NOT NULL DEFAULT 0,
		ast DOUBLE PRECISION NOT NULL DEFAULT 0,
		stl DOUBLE PRECISION NOT NULL DEFAULT 0,
		blk DOUBLE PRECISION NOT NULL DEFAULT 0,
		turnover DOUBLE PRECISION NOT NULL DEFAULT 0,
		fgm DOUBLE PRECISION NOT NULL DEFAULT 0,
		fga DOUBLE PRECISION NOT NULL DEFAULT 0,
		fg3m DOUBLE PRECISION NOT NULL DEFAULT 0,
		fg3a DOUBLE PRECISION NOT NULL DEFAULT 0,
		ftm DOUBLE PRECISION NOT NULL DEFAULT 0,
		fta DOUBLE PRECISION NOT NULL DEFAULT 0,
		pace DOUBLE PRECISION NOT NULL DEFAULT 0,
		usage_pct DOUBLE PRECISION NOT NULL DEFAULT 0,
		true_shooting_pct DOUBLE PRECISION NOT NULL DEFAULT 0,
		off_rating DOUBLE PRECISION NOT NULL DEFAULT 0,
		def_rating DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (player_id, game_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_game_logs_player_date ON player_game_logs (player_id, game_date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_game_logs_game_date ON player_game_logs (game_date)`,
	`CREATE TABLE IF NOT EXISTS processed_stats (
		player_id BIGINT PRIMARY KEY,
		player_name TEXT NOT NULL,
		team_abbr TEXT NOT NULL DEFAULT '',
		rolling_averages JSONB NOT NULL,
		trends JSONB NOT NULL,
		consistency JSONB NOT NULL,
		games_analyzed INT NOT NULL,
		processed_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS predictions (
		id UUID PRIMARY KEY,
		player_id BIGINT NOT NULL,
		player_name TEXT NOT NULL,
		team_abbr TEXT NOT NULL DEFAULT '',
		stat TEXT NOT NULL,
		game_id BIGINT NOT NULL DEFAULT 0,
		game_date DATE NOT NULL,
		opponent TEXT NOT NULL DEFAULT '',
		is_home BOOLEAN NOT NULL DEFAULT FALSE,
		matchup TEXT NOT NULL DEFAULT '',
		predicted_value DOUBLE PRECISION NOT NULL,
		line DOUBLE PRECISION,
		edge_pct DOUBLE PRECISION NOT NULL DEFAULT 0,
		recommendation TEXT NOT NULL,
		confidence_score DOUBLE PRECISION NOT NULL,
		confidence_label TEXT NOT NULL,
		method TEXT NOT NULL,
		model_score DOUBLE PRECISION,
		weighted_avg DOUBLE PRECISION NOT NULL,
		trend DOUBLE PRECISION NOT NULL,
		consistency DOUBLE PRECISION NOT NULL,
		breakdown JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		UNIQUE (player_id, stat, game_date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_predictions_game_date ON predictions (game_date)`,
	`CREATE TABLE IF NOT EXISTS team_total_predictions (
		id UUID PRIMARY KEY,
		team_id BIGINT NOT NULL,
		team_name TEXT NOT NULL DEFAULT '',
		team_abbr TEXT NOT NULL DEFAULT '',
		game_id BIGINT NOT NULL DEFAULT 0,
		game_date DATE NOT NULL,
		matchup TEXT NOT NULL DEFAULT '',
		predicted_total DOUBLE PRECISION NOT NULL,
		last_5_avg DOUBLE PRECISION NOT NULL DEFAULT 0,
		last_10_avg DOUBLE PRECISION NOT NULL DEFAULT 0,
		last_20_avg DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		UNIQUE (team_id, game_date)
	)`,
	`CREATE TABLE IF NOT EXISTS verification_results (
		id UUID PRIMARY KEY,
		prediction_id UUID NOT NULL UNIQUE REFERENCES predictions (id),
		player_id BIGINT NOT NULL,
		player_name TEXT NOT NULL DEFAULT '',
		team_abbr TEXT NOT NULL DEFAULT '',
		stat TEXT NOT NULL,
		game_date DATE NOT NULL,
		matchup TEXT NOT NULL DEFAULT '',
		line DOUBLE PRECISION NOT NULL,
		predicted_value DOUBLE PRECISION NOT NULL,
		recommendation TEXT NOT NULL,
		actual_value DOUBLE PRECISION NOT NULL,
		actual_result TEXT NOT NULL,
		correct BOOLEAN,
		difference DOUBLE PRECISION NOT NULL DEFAULT 0,
		confidence_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		confidence_label TEXT NOT NULL DEFAULT '',
		edge_pct DOUBLE PRECISION NOT NULL DEFAULT 0,
		verified_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_verification_game_date ON verification_results (game_date)`,
	`CREATE TABLE IF NOT EXISTS injuries (
		player_id BIGINT NOT NULL,
		player_name TEXT NOT NULL,
		team_abbr TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT '',
		status_abbr TEXT NOT NULL DEFAULT '',
		injury_type TEXT NOT NULL DEFAULT '',
		return_date TEXT NOT NULL DEFAULT '',
		comment TEXT NOT NULL DEFAULT '',
		report_date DATE NOT NULL,
		PRIMARY KEY (player_id, report_date)
	)`,
}

// Initialize creates a database connection pool and ensures the schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema applies the idempotent DDL statements
func EnsureSchema(ctx context.Context, db *DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
