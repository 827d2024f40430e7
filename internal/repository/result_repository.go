package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/sharp-props/internal/database"
	"github.com/yourusername/sharp-props/internal/models"
)

const errScanResult = "failed to scan verification result: %w"

const resultColumns = `
	id, prediction_id, player_id, player_name, team_abbr, stat, game_date, matchup,
	line, predicted_value, recommendation,
	actual_value, actual_result, correct, difference,
	confidence_score, confidence_label, edge_pct, verified_at`

// PostgresResultRepository implements ResultRepository for PostgreSQL
type PostgresResultRepository struct {
	db *database.DB
}

// NewPostgresResultRepository creates a new verification result repository
func NewPostgresResultRepository(db *database.DB) ResultRepository {
	return &PostgresResultRepository{db: db}
}

// Insert stores a verification result. The prediction_id UNIQUE constraint
// keeps each prediction verified at most once; a repeat run is a no-op.
func (r *PostgresResultRepository) Insert(ctx context.Context, result *models.VerificationResult) error {
	query := `
		INSERT INTO verification_results (` + resultColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (prediction_id) DO NOTHING
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		result.ID, result.PredictionID, result.PlayerID, result.PlayerName, result.TeamAbbr,
		result.Stat, result.GameDate, result.Matchup,
		result.Line, result.PredictedValue, result.Recommendation,
		result.ActualValue, result.ActualResult, result.Correct, result.Difference,
		result.ConfidenceScore, result.ConfidenceLabel, result.EdgePct, result.VerifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert verification result: %w", err)
	}

	return nil
}

func scanResult(row pgx.Row) (*models.VerificationResult, error) {
	v := &models.VerificationResult{}
	err := row.Scan(
		&v.ID, &v.PredictionID, &v.PlayerID, &v.PlayerName, &v.TeamAbbr,
		&v.Stat, &v.GameDate, &v.Matchup,
		&v.Line, &v.PredictedValue, &v.Recommendation,
		&v.ActualValue, &v.ActualResult, &v.Correct, &v.Difference,
		&v.ConfidenceScore, &v.ConfidenceLabel, &v.EdgePct, &v.VerifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// GetByDateRange retrieves verification results within a game date range
func (r *PostgresResultRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.VerificationResult, error) {
	query := `
		SELECT ` + resultColumns + `
		FROM verification_results
		WHERE game_date >= $1 AND game_date <= $2
		ORDER BY game_date DESC, player_id, stat
	`

	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query verification results: %w", err)
	}
	defer rows.Close()

	var results []*models.VerificationResult
	for rows.Next() {
		v, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanResult, err)
		}
		results = append(results, v)
	}

	return results, rows.Err()
}

// GetRecent retrieves the most recently verified results
func (r *PostgresResultRepository) GetRecent(ctx context.Context, limit int) ([]*models.VerificationResult, error) {
	query := `
		SELECT ` + resultColumns + `
		FROM verification_results
		ORDER BY verified_at DESC
		LIMIT $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent results: %w", err)
	}
	defer rows.Close()

	var results []*models.VerificationResult
	for rows.Next() {
		v, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanResult, err)
		}
		results = append(results, v)
	}

	return results, rows.Err()
}
