package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/sharp-props/internal/models"
)

// GameLogRepository defines the interface for player game log data access
type GameLogRepository interface {
	UpsertBatch(ctx context.Context, logs []*models.PlayerGameLog) error
	GetByPlayer(ctx context.Context, playerID int64, limit int) ([]*models.PlayerGameLog, error)
	GetByPlayerBefore(ctx context.Context, playerID int64, before time.Time, limit int) ([]*models.PlayerGameLog, error)
	GetByPlayerAndDate(ctx context.Context, playerID int64, date time.Time) (*models.PlayerGameLog, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.PlayerGameLog, error)
	ActivePlayerIDs(ctx context.Context, since time.Time) ([]int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// GameRepository defines the interface for game schedule data access
type GameRepository interface {
	UpsertBatch(ctx context.Context, games []*models.Game) error
	GetByID(ctx context.Context, id int64) (*models.Game, error)
	GetByDate(ctx context.Context, date time.Time) ([]*models.Game, error)
	GetFinalByDateRange(ctx context.Context, start, end time.Time) ([]*models.Game, error)
}

// ProcessedStatsRepository defines the interface for rolling snapshot data access
type ProcessedStatsRepository interface {
	Upsert(ctx context.Context, stats *models.ProcessedStats) error
	GetByPlayerID(ctx context.Context, playerID int64) (*models.ProcessedStats, error)
	GetAll(ctx context.Context) ([]*models.ProcessedStats, error)
}

// PredictionRepository defines the interface for prediction data access
type PredictionRepository interface {
	Insert(ctx context.Context, prediction *models.Prediction) error
	InsertBatch(ctx context.Context, predictions []*models.Prediction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error)
	GetByDate(ctx context.Context, date time.Time) ([]*models.Prediction, error)
	GetUnverified(ctx context.Context, before time.Time) ([]*models.Prediction, error)
	InsertTeamTotal(ctx context.Context, total *models.TeamTotalPrediction) error
	GetTeamTotalsByDate(ctx context.Context, date time.Time) ([]*models.TeamTotalPrediction, error)
}

// ResultRepository defines the interface for verification result data access
type ResultRepository interface {
	Insert(ctx context.Context, result *models.VerificationResult) error
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.VerificationResult, error)
	GetRecent(ctx context.Context, limit int) ([]*models.VerificationResult, error)
}

// InjuryRepository defines the interface for injury report data access
type InjuryRepository interface {
	ReplaceForDate(ctx context.Context, date time.Time, injuries []*models.Injury) error
	GetLatest(ctx context.Context) ([]*models.Injury, error)
	GetByDate(ctx context.Context, date time.Time) ([]*models.Injury, error)
}

// TeamRepository defines the interface for team profile data access
type TeamRepository interface {
	UpsertBatch(ctx context.Context, teams []*models.Team) error
	GetByID(ctx context.Context, id int64) (*models.Team, error)
	GetByAbbreviation(ctx context.Context, abbr string) (*models.Team, error)
	List(ctx context.Context) ([]*models.Team, error)
}
