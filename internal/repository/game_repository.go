package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/sharp-props/internal/database"
	"github.com/yourusername/sharp-props/internal/models"
)

const errScanGame = "failed to scan game: %w"

const gameColumns = `
	id, game_date, season, status,
	home_team_id, home_team_name, home_team_abbr,
	visitor_team_id, visitor_team_name, visitor_team_abbr,
	home_score, visitor_score, created_at`

// PostgresGameRepository implements GameRepository for PostgreSQL
type PostgresGameRepository struct {
	db *database.DB
}

// NewPostgresGameRepository creates a new game repository
func NewPostgresGameRepository(db *database.DB) GameRepository {
	return &PostgresGameRepository{db: db}
}

// UpsertBatch inserts or updates a batch of games. Scores and status are
// refreshed on conflict so re-ingesting a completed slate finalizes rows.
func (r *PostgresGameRepository) UpsertBatch(ctx context.Context, games []*models.Game) error {
	if len(games) == 0 {
		return nil
	}

	query := `
		INSERT INTO games (` + gameColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			home_score = EXCLUDED.home_score,
			visitor_score = EXCLUDED.visitor_score
	`

	batch := &pgx.Batch{}
	for _, g := range games {
		batch.Queue(query,
			g.ID, g.GameDate, g.Season, g.Status,
			g.HomeTeamID, g.HomeTeamName, g.HomeTeamAbbr,
			g.VisitorTeamID, g.VisitorTeamName, g.VisitorTeamAbbr,
			g.HomeScore, g.VisitorScore,
		)
	}

	results := r.db.GetPool().SendBatch(ctx, batch)
	defer results.Close()

	for range games {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert game batch: %w", err)
		}
	}

	return nil
}

func scanGame(row pgx.Row) (*models.Game, error) {
	g := &models.Game{}
	err := row.Scan(
		&g.ID, &g.GameDate, &g.Season, &g.Status,
		&g.HomeTeamID, &g.HomeTeamName, &g.HomeTeamAbbr,
		&g.VisitorTeamID, &g.VisitorTeamName, &g.VisitorTeamAbbr,
		&g.HomeScore, &g.VisitorScore, &g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// GetByID retrieves a game by ID
func (r *PostgresGameRepository) GetByID(ctx context.Context, id int64) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`

	g, err := scanGame(r.db.GetPool().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return g, nil
}

// GetByDate retrieves all games on a date
func (r *PostgresGameRepository) GetByDate(ctx context.Context, date time.Time) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE game_date = $1 ORDER BY id`

	rows, err := r.db.GetPool().Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query games by date: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanGame, err)
		}
		games = append(games, g)
	}

	return games, rows.Err()
}

// GetFinalByDateRange retrieves completed games within a date range
func (r *PostgresGameRepository) GetFinalByDateRange(ctx context.Context, start, end time.Time) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE status = $1 AND game_date >= $2 AND game_date <= $3
		ORDER BY game_date DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, models.GameStatusFinal, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query final games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanGame, err)
		}
		games = append(games, g)
	}

	return games, rows.Err()
}
