package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/sharp-props/internal/database"
	"github.com/yourusername/sharp-props/internal/models"
)

// PostgresTeamRepository implements TeamRepository for PostgreSQL
type PostgresTeamRepository struct {
	db *database.DB
}

// NewPostgresTeamRepository creates a new team repository
func NewPostgresTeamRepository(db *database.DB) TeamRepository {
	return &PostgresTeamRepository{db: db}
}

// UpsertBatch inserts or refreshes team profiles
func (r *PostgresTeamRepository) UpsertBatch(ctx context.Context, teams []*models.Team) error {
	if len(teams) == 0 {
		return nil
	}

	query := `
		INSERT INTO teams (id, full_name, abbreviation, city, conference, division)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			abbreviation = EXCLUDED.abbreviation,
			city = EXCLUDED.city,
			conference = EXCLUDED.conference,
			division = EXCLUDED.division
	`

	batch := &pgx.Batch{}
	for _, t := range teams {
		batch.Queue(query, t.ID, t.FullName, t.Abbreviation, t.City, t.Conference, t.Division)
	}

	results := r.db.GetPool().SendBatch(ctx, batch)
	defer results.Close()

	for range teams {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert team batch: %w", err)
		}
	}

	return nil
}

func scanTeam(row pgx.Row) (*models.Team, error) {
	t := &models.Team{}
	err := row.Scan(&t.ID, &t.FullName, &t.Abbreviation, &t.City, &t.Conference, &t.Division)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetByID retrieves a team by ID
func (r *PostgresTeamRepository) GetByID(ctx context.Context, id int64) (*models.Team, error) {
	query := "SELECT id, full_name, abbreviation, city, conference, division FROM teams WHERE id = $1"

	t, err := scanTeam(r.db.GetPool().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return t, nil
}

// GetByAbbreviation retrieves a team by its abbreviation
func (r *PostgresTeamRepository) GetByAbbreviation(ctx context.Context, abbr string) (*models.Team, error) {
	query := "SELECT id, full_name, abbreviation, city, conference, division FROM teams WHERE abbreviation = $1"

	t, err := scanTeam(r.db.GetPool().QueryRow(ctx, query, abbr))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team by abbreviation: %w", err)
	}

	return t, nil
}

// List retrieves all teams
func (r *PostgresTeamRepository) List(ctx context.Context) ([]*models.Team, error) {
	query := "SELECT id, full_name, abbreviation, city, conference, division FROM teams ORDER BY abbreviation"

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}

	return teams, rows.Err()
}
