package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/sharp-props/internal/database"
	"github.com/yourusername/sharp-props/internal/models"
)

const errScanGameLog = "failed to scan game log: %w"

const gameLogColumns = `
	player_id, player_name, team_id, team_abbr, game_id, game_date, is_home,
	opponent_id, opponent_abbr, minutes,
	pts, reb, ast, stl, blk, turnover,
	fgm, fga, fg3m, fg3a, ftm, fta,
	pace, usage_pct, true_shooting_pct, off_rating, def_rating, created_at`

// PostgresGameLogRepository implements GameLogRepository for PostgreSQL
type PostgresGameLogRepository struct {
	db *database.DB
}

// NewPostgresGameLogRepository creates a new game log repository
func NewPostgresGameLogRepository(db *database.DB) GameLogRepository {
	return &PostgresGameLogRepository{db: db}
}

// UpsertBatch inserts or replaces a batch of game logs. Re-ingesting the
// same (player, game) pair overwrites the stored row.
func (r *PostgresGameLogRepository) UpsertBatch(ctx context.Context, logs []*models.PlayerGameLog) error {
	if len(logs) == 0 {
		return nil
	}

	query := `
		INSERT INTO player_game_logs (` + gameLogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16,
		        $17, $18, $19, $20, $21, $22,
		        $23, $24, $25, $26, $27, NOW())
		ON CONFLICT (player_id, game_id) DO UPDATE SET
			player_name = EXCLUDED.player_name,
			team_id = EXCLUDED.team_id,
			team_abbr = EXCLUDED.team_abbr,
			game_date = EXCLUDED.game_date,
			is_home = EXCLUDED.is_home,
			opponent_id = EXCLUDED.opponent_id,
			opponent_abbr = EXCLUDED.opponent_abbr,
			minutes = EXCLUDED.minutes,
			pts = EXCLUDED.pts, reb = EXCLUDED.reb, ast = EXCLUDED.ast,
			stl = EXCLUDED.stl, blk = EXCLUDED.blk, turnover = EXCLUDED.turnover,
			fgm = EXCLUDED.fgm, fga = EXCLUDED.fga,
			fg3m = EXCLUDED.fg3m, fg3a = EXCLUDED.fg3a,
			ftm = EXCLUDED.ftm, fta = EXCLUDED.fta,
			pace = EXCLUDED.pace, usage_pct = EXCLUDED.usage_pct,
			true_shooting_pct = EXCLUDED.true_shooting_pct,
			off_rating = EXCLUDED.off_rating, def_rating = EXCLUDED.def_rating
	`

	batch := &pgx.Batch{}
	for _, l := range logs {
		batch.Queue(query,
			l.PlayerID, l.PlayerName, l.TeamID, l.TeamAbbr, l.GameID, l.GameDate, l.IsHome,
			l.OpponentID, l.OpponentAbbr, l.Minutes,
			l.Points, l.Rebounds, l.Assists, l.Steals, l.Blocks, l.Turnovers,
			l.FGMade, l.FGAttempted, l.ThreesMade, l.ThreesAtt, l.FTMade, l.FTAttempted,
			l.Pace, l.UsagePct, l.TrueShootingPct, l.OffRating, l.DefRating,
		)
	}

	results := r.db.GetPool().SendBatch(ctx, batch)
	defer results.Close()

	for range logs {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert game log batch: %w", err)
		}
	}

	return nil
}

func scanGameLog(row pgx.Row) (*models.PlayerGameLog, error) {
	l := &models.PlayerGameLog{}
	err := row.Scan(
		&l.PlayerID, &l.PlayerName, &l.TeamID, &l.TeamAbbr, &l.GameID, &l.GameDate, &l.IsHome,
		&l.OpponentID, &l.OpponentAbbr, &l.Minutes,
		&l.Points, &l.Rebounds, &l.Assists, &l.Steals, &l.Blocks, &l.Turnovers,
		&l.FGMade, &l.FGAttempted, &l.ThreesMade, &l.ThreesAtt, &l.FTMade, &l.FTAttempted,
		&l.Pace, &l.UsagePct, &l.TrueShootingPct, &l.OffRating, &l.DefRating, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// GetByPlayer retrieves a player's game logs ordered most recent first
func (r *PostgresGameLogRepository) GetByPlayer(ctx context.Context, playerID int64, limit int) ([]*models.PlayerGameLog, error) {
	query := `
		SELECT ` + gameLogColumns + `
		FROM player_game_logs
		WHERE player_id = $1
		ORDER BY game_date DESC
		LIMIT $2
	`

	rows, err := r.db.GetPool().Query(ctx, query, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.PlayerGameLog
	for rows.Next() {
		l, err := scanGameLog(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanGameLog, err)
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}

// GetByPlayerBefore retrieves a player's game logs strictly before a date,
// most recent first. Used to build point-in-time feature vectors without
// leaking the target game.
func (r *PostgresGameLogRepository) GetByPlayerBefore(ctx context.Context, playerID int64, before time.Time, limit int) ([]*models.PlayerGameLog, error) {
	query := `
		SELECT ` + gameLogColumns + `
		FROM player_game_logs
		WHERE player_id = $1 AND game_date < $2
		ORDER BY game_date DESC
		LIMIT $3
	`

	rows, err := r.db.GetPool().Query(ctx, query, playerID, before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game logs before date: %w", err)
	}
	defer rows.Close()

	var logs []*models.PlayerGameLog
	for rows.Next() {
		l, err := scanGameLog(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanGameLog, err)
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}

// GetByPlayerAndDate retrieves the single log for a player on a game date
func (r *PostgresGameLogRepository) GetByPlayerAndDate(ctx context.Context, playerID int64, date time.Time) (*models.PlayerGameLog, error) {
	query := `
		SELECT ` + gameLogColumns + `
		FROM player_game_logs
		WHERE player_id = $1 AND game_date = $2
	`

	l, err := scanGameLog(r.db.GetPool().QueryRow(ctx, query, playerID, date))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game log: %w", err)
	}

	return l, nil
}

// GetByDateRange retrieves all game logs within a date range
func (r *PostgresGameLogRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.PlayerGameLog, error) {
	query := `
		SELECT ` + gameLogColumns + `
		FROM player_game_logs
		WHERE game_date >= $1 AND game_date <= $2
		ORDER BY game_date DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query game logs by date range: %w", err)
	}
	defer rows.Close()

	var logs []*models.PlayerGameLog
	for rows.Next() {
		l, err := scanGameLog(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanGameLog, err)
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}

// ActivePlayerIDs returns the distinct players with at least one log since
// the given date
func (r *PostgresGameLogRepository) ActivePlayerIDs(ctx context.Context, since time.Time) ([]int64, error) {
	query := `
		SELECT DISTINCT player_id
		FROM player_game_logs
		WHERE game_date >= $1
		ORDER BY player_id
	`

	rows, err := r.db.GetPool().Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query active players: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan player id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// DeleteOlderThan removes logs before the retention cutoff and returns the
// number of rows deleted
func (r *PostgresGameLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	commandTag, err := r.db.GetPool().Exec(ctx, "DELETE FROM player_game_logs WHERE game_date < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old game logs: %w", err)
	}

	return commandTag.RowsAffected(), nil
}
