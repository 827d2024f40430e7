package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/sharp-props/internal/database"
	"github.com/yourusername/sharp-props/internal/models"
)

const errScanPrediction = "failed to scan prediction: %w"

const predictionColumns = `
	id, player_id, player_name, team_abbr, stat, game_id, game_date,
	opponent, is_home, matchup,
	predicted_value, line, edge_pct,
	recommendation, confidence_score, confidence_label,
	method, model_score, weighted_avg, trend, consistency,
	breakdown, created_at`

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// Insert stores a new prediction. A second prediction for the same
// (player, stat, game date) replaces the first so a re-run supersedes
// earlier output for the slate.
func (r *PostgresPredictionRepository) Insert(ctx context.Context, prediction *models.Prediction) error {
	breakdownJSON, err := json.Marshal(prediction.Breakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal breakdown: %w", err)
	}

	query := `
		INSERT INTO predictions (` + predictionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		ON CONFLICT (player_id, stat, game_date) DO UPDATE SET
			id = EXCLUDED.id,
			predicted_value = EXCLUDED.predicted_value,
			line = EXCLUDED.line,
			edge_pct = EXCLUDED.edge_pct,
			recommendation = EXCLUDED.recommendation,
			confidence_score = EXCLUDED.confidence_score,
			confidence_label = EXCLUDED.confidence_label,
			method = EXCLUDED.method,
			model_score = EXCLUDED.model_score,
			weighted_avg = EXCLUDED.weighted_avg,
			trend = EXCLUDED.trend,
			consistency = EXCLUDED.consistency,
			breakdown = EXCLUDED.breakdown,
			created_at = EXCLUDED.created_at
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		prediction.ID, prediction.PlayerID, prediction.PlayerName, prediction.TeamAbbr,
		prediction.Stat, prediction.GameID, prediction.GameDate,
		prediction.Opponent, prediction.IsHome, prediction.Matchup,
		prediction.PredictedValue, prediction.Line, prediction.EdgePct,
		prediction.Recommendation, prediction.ConfidenceScore, prediction.ConfidenceLabel,
		prediction.Method, prediction.ModelScore, prediction.WeightedAvg,
		prediction.Trend, prediction.Consistency,
		breakdownJSON, prediction.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}

	return nil
}

// InsertBatch stores multiple predictions
func (r *PostgresPredictionRepository) InsertBatch(ctx context.Context, predictions []*models.Prediction) error {
	for _, p := range predictions {
		if err := r.Insert(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func scanPrediction(row pgx.Row) (*models.Prediction, error) {
	p := &models.Prediction{}
	var breakdownJSON []byte

	err := row.Scan(
		&p.ID, &p.PlayerID, &p.PlayerName, &p.TeamAbbr, &p.Stat, &p.GameID, &p.GameDate,
		&p.Opponent, &p.IsHome, &p.Matchup,
		&p.PredictedValue, &p.Line, &p.EdgePct,
		&p.Recommendation, &p.ConfidenceScore, &p.ConfidenceLabel,
		&p.Method, &p.ModelScore, &p.WeightedAvg, &p.Trend, &p.Consistency,
		&breakdownJSON, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(breakdownJSON, &p.Breakdown); err != nil {
		return nil, fmt.Errorf("failed to unmarshal breakdown: %w", err)
	}

	return p, nil
}

// GetByID retrieves a prediction by ID
func (r *PostgresPredictionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE id = $1`

	p, err := scanPrediction(r.db.GetPool().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}

	return p, nil
}

// GetByDate retrieves all predictions for a game date, highest confidence first
func (r *PostgresPredictionRepository) GetByDate(ctx context.Context, date time.Time) ([]*models.Prediction, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM predictions
		WHERE game_date = $1
		ORDER BY confidence_score DESC, player_id, stat
	`

	rows, err := r.db.GetPool().Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions by date: %w", err)
	}
	defer rows.Close()

	var predictions []*models.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanPrediction, err)
		}
		predictions = append(predictions, p)
	}

	return predictions, rows.Err()
}

// GetUnverified retrieves predictions for game dates before the cutoff that
// have no verification result yet
func (r *PostgresPredictionRepository) GetUnverified(ctx context.Context, before time.Time) ([]*models.Prediction, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM predictions p
		WHERE p.game_date < $1
		  AND NOT EXISTS (
			SELECT 1 FROM verification_results v WHERE v.prediction_id = p.id
		  )
		ORDER BY p.game_date ASC, p.player_id, p.stat
	`

	rows, err := r.db.GetPool().Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to query unverified predictions: %w", err)
	}
	defer rows.Close()

	var predictions []*models.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanPrediction, err)
		}
		predictions = append(predictions, p)
	}

	return predictions, rows.Err()
}

// InsertTeamTotal stores a team total projection, replacing a re-run for the
// same team and date
func (r *PostgresPredictionRepository) InsertTeamTotal(ctx context.Context, total *models.TeamTotalPrediction) error {
	query := `
		INSERT INTO team_total_predictions (id, team_id, team_name, team_abbr, game_id, game_date, matchup,
			predicted_total, last_5_avg, last_10_avg, last_20_avg, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (team_id, game_date) DO UPDATE SET
			id = EXCLUDED.id,
			predicted_total = EXCLUDED.predicted_total,
			last_5_avg = EXCLUDED.last_5_avg,
			last_10_avg = EXCLUDED.last_10_avg,
			last_20_avg = EXCLUDED.last_20_avg,
			created_at = EXCLUDED.created_at
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		total.ID, total.TeamID, total.TeamName, total.TeamAbbr, total.GameID, total.GameDate, total.Matchup,
		total.PredictedTotal, total.Last5Avg, total.Last10Avg, total.Last20Avg, total.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert team total: %w", err)
	}

	return nil
}

// GetTeamTotalsByDate retrieves team total projections for a game date
func (r *PostgresPredictionRepository) GetTeamTotalsByDate(ctx context.Context, date time.Time) ([]*models.TeamTotalPrediction, error) {
	query := `
		SELECT id, team_id, team_name, team_abbr, game_id, game_date, matchup,
		       predicted_total, last_5_avg, last_10_avg, last_20_avg, created_at
		FROM team_total_predictions
		WHERE game_date = $1
		ORDER BY team_abbr
	`

	rows, err := r.db.GetPool().Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query team totals: %w", err)
	}
	defer rows.Close()

	var totals []*models.TeamTotalPrediction
	for rows.Next() {
		t := &models.TeamTotalPrediction{}
		err := rows.Scan(
			&t.ID, &t.TeamID, &t.TeamName, &t.TeamAbbr, &t.GameID, &t.GameDate, &t.Matchup,
			&t.PredictedTotal, &t.Last5Avg, &t.Last10Avg, &t.Last20Avg, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team total: %w", err)
		}
		totals = append(totals, t)
	}

	return totals, rows.Err()
}
