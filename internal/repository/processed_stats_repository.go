package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/sharp-props/internal/database"
	"github.com/yourusername/sharp-props/internal/models"
)

// PostgresProcessedStatsRepository implements ProcessedStatsRepository for PostgreSQL
type PostgresProcessedStatsRepository struct {
	db *database.DB
}

// NewPostgresProcessedStatsRepository creates a new processed stats repository
func NewPostgresProcessedStatsRepository(db *database.DB) ProcessedStatsRepository {
	return &PostgresProcessedStatsRepository{db: db}
}

// Upsert stores a snapshot, replacing any prior snapshot for the player
func (r *PostgresProcessedStatsRepository) Upsert(ctx context.Context, stats *models.ProcessedStats) error {
	averagesJSON, err := json.Marshal(stats.RollingAverages)
	if err != nil {
		return fmt.Errorf("failed to marshal rolling averages: %w", err)
	}
	trendsJSON, err := json.Marshal(stats.Trends)
	if err != nil {
		return fmt.Errorf("failed to marshal trends: %w", err)
	}
	consistencyJSON, err := json.Marshal(stats.Consistency)
	if err != nil {
		return fmt.Errorf("failed to marshal consistency: %w", err)
	}

	query := `
		INSERT INTO processed_stats (player_id, player_name, team_abbr, rolling_averages, trends, consistency, games_analyzed, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (player_id) DO UPDATE SET
			player_name = EXCLUDED.player_name,
			team_abbr = EXCLUDED.team_abbr,
			rolling_averages = EXCLUDED.rolling_averages,
			trends = EXCLUDED.trends,
			consistency = EXCLUDED.consistency,
			games_analyzed = EXCLUDED.games_analyzed,
			processed_at = EXCLUDED.processed_at
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		stats.PlayerID, stats.PlayerName, stats.TeamAbbr,
		averagesJSON, trendsJSON, consistencyJSON,
		stats.GamesAnalyzed, stats.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert processed stats: %w", err)
	}

	return nil
}

func scanProcessedStats(row pgx.Row) (*models.ProcessedStats, error) {
	s := &models.ProcessedStats{}
	var averagesJSON, trendsJSON, consistencyJSON []byte

	err := row.Scan(
		&s.PlayerID, &s.PlayerName, &s.TeamAbbr,
		&averagesJSON, &trendsJSON, &consistencyJSON,
		&s.GamesAnalyzed, &s.ProcessedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(averagesJSON, &s.RollingAverages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rolling averages: %w", err)
	}
	if err := json.Unmarshal(trendsJSON, &s.Trends); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trends: %w", err)
	}
	if err := json.Unmarshal(consistencyJSON, &s.Consistency); err != nil {
		return nil, fmt.Errorf("failed to unmarshal consistency: %w", err)
	}

	return s, nil
}

// GetByPlayerID retrieves the current snapshot for a player
func (r *PostgresProcessedStatsRepository) GetByPlayerID(ctx context.Context, playerID int64) (*models.ProcessedStats, error) {
	query := `
		SELECT player_id, player_name, team_abbr, rolling_averages, trends, consistency, games_analyzed, processed_at
		FROM processed_stats WHERE player_id = $1
	`

	s, err := scanProcessedStats(r.db.GetPool().QueryRow(ctx, query, playerID))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get processed stats: %w", err)
	}

	return s, nil
}

// GetAll retrieves every stored snapshot
func (r *PostgresProcessedStatsRepository) GetAll(ctx context.Context) ([]*models.ProcessedStats, error) {
	query := `
		SELECT player_id, player_name, team_abbr, rolling_averages, trends, consistency, games_analyzed, processed_at
		FROM processed_stats
		ORDER BY player_id
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query processed stats: %w", err)
	}
	defer rows.Close()

	var all []*models.ProcessedStats
	for rows.Next() {
		s, err := scanProcessedStats(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan processed stats: %w", err)
		}
		all = append(all, s)
	}

	return all, rows.Err()
}
