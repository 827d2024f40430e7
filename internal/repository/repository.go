package repository

import (
	"fmt"

	"github.com/yourusername/sharp-props/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	GameLog        GameLogRepository
	Game           GameRepository
	ProcessedStats ProcessedStatsRepository
	Prediction     PredictionRepository
	Result         ResultRepository
	Injury         InjuryRepository
	Team           TeamRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		GameLog:        NewPostgresGameLogRepository(db),
		Game:           NewPostgresGameRepository(db),
		ProcessedStats: NewPostgresProcessedStatsRepository(db),
		Prediction:     NewPostgresPredictionRepository(db),
		Result:         NewPostgresResultRepository(db),
		Injury:         NewPostgresInjuryRepository(db),
		Team:           NewPostgresTeamRepository(db),
	}, nil
}
