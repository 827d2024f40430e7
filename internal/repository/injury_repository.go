package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/sharp-props/internal/database"
	"github.com/yourusername/sharp-props/internal/models"
)

// PostgresInjuryRepository implements InjuryRepository for PostgreSQL
type PostgresInjuryRepository struct {
	db *database.DB
}

// NewPostgresInjuryRepository creates a new injury repository
func NewPostgresInjuryRepository(db *database.DB) InjuryRepository {
	return &PostgresInjuryRepository{db: db}
}

// ReplaceForDate replaces the stored injury report for a date with the
// given entries, in one transaction
func (r *PostgresInjuryRepository) ReplaceForDate(ctx context.Context, date time.Time, injuries []*models.Injury) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM injuries WHERE report_date = $1", date); err != nil {
			return fmt.Errorf("failed to clear injury report: %w", err)
		}

		query := `
			INSERT INTO injuries (player_id, player_name, team_abbr, status, status_abbr, injury_type, return_date, comment, report_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (player_id, report_date) DO UPDATE SET
				status = EXCLUDED.status,
				status_abbr = EXCLUDED.status_abbr,
				injury_type = EXCLUDED.injury_type,
				return_date = EXCLUDED.return_date,
				comment = EXCLUDED.comment
		`

		for _, inj := range injuries {
			_, err := tx.Exec(ctx, query,
				inj.PlayerID, inj.PlayerName, inj.TeamAbbr, inj.Status, inj.StatusAbbr,
				inj.InjuryType, inj.ReturnDate, inj.Comment, date,
			)
			if err != nil {
				return fmt.Errorf("failed to insert injury: %w", err)
			}
		}

		return nil
	})
}

// GetLatest retrieves the most recent injury report
func (r *PostgresInjuryRepository) GetLatest(ctx context.Context) ([]*models.Injury, error) {
	query := `
		SELECT player_id, player_name, team_abbr, status, status_abbr, injury_type, return_date, comment, report_date
		FROM injuries
		WHERE report_date = (SELECT MAX(report_date) FROM injuries)
		ORDER BY team_abbr, player_name
	`
	return r.queryInjuries(ctx, query)
}

// GetByDate retrieves the injury report filed on a date
func (r *PostgresInjuryRepository) GetByDate(ctx context.Context, date time.Time) ([]*models.Injury, error) {
	query := `
		SELECT player_id, player_name, team_abbr, status, status_abbr, injury_type, return_date, comment, report_date
		FROM injuries
		WHERE report_date = $1
		ORDER BY team_abbr, player_name
	`
	return r.queryInjuries(ctx, query, date)
}

func (r *PostgresInjuryRepository) queryInjuries(ctx context.Context, query string, args ...interface{}) ([]*models.Injury, error) {
	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query injuries: %w", err)
	}
	defer rows.Close()

	var injuries []*models.Injury
	for rows.Next() {
		inj := &models.Injury{}
		err := rows.Scan(
			&inj.PlayerID, &inj.PlayerName, &inj.TeamAbbr, &inj.Status, &inj.StatusAbbr,
			&inj.InjuryType, &inj.ReturnDate, &inj.Comment, &inj.ReportDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan injury: %w", err)
		}
		injuries = append(injuries, inj)
	}

	return injuries, rows.Err()
}
