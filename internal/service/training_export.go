package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharp-props/internal/config"
	"github.com/yourusername/sharp-props/internal/features"
	"github.com/yourusername/sharp-props/internal/leaguectx"
	"github.com/yourusername/sharp-props/internal/logger"
	"github.com/yourusername/sharp-props/internal/models"
	"github.com/yourusername/sharp-props/internal/repository"
)

// TrainingRow is one supervised example: the feature vector a player
// carried into a game, and what they actually produced.
type TrainingRow struct {
	PlayerID int64     `json:"player_id"`
	Stat     string    `json:"stat"`
	GameID   int64     `json:"game_id"`
	GameDate string    `json:"game_date"`
	Features []float64 `json:"features"`
	Label    float64   `json:"label"`
}

// TrainingExportService builds point-in-time training rows from stored game
// logs. Each row's vector uses only logs strictly before its game, the same
// cut the prediction run sees, so training and serving never diverge.
type TrainingExportService struct {
	gameLogRepo repository.GameLogRepository
	gameRepo    repository.GameRepository
	injuryRepo  repository.InjuryRepository
	resolver    *leaguectx.Resolver
	cfg         *config.PredictionConfig
	log         *logger.RunLogger
}

// NewTrainingExportService creates a new training exporter
func NewTrainingExportService(repos *repository.Repositories, cfg *config.PredictionConfig, baseLogger *logrus.Logger) *TrainingExportService {
	return &TrainingExportService{
		gameLogRepo: repos.GameLog,
		gameRepo:    repos.Game,
		injuryRepo:  repos.Injury,
		resolver:    leaguectx.NewResolver(),
		cfg:         cfg,
		log:         logger.NewRunLogger(baseLogger, "training_export"),
	}
}

// Export writes training rows for every target statistic as JSON lines.
// Returns the number of rows written.
func (s *TrainingExportService) Export(ctx context.Context, w io.Writer, lookbackDays int) (int, error) {
	since := truncateToDay(time.Now().UTC()).AddDate(0, 0, -lookbackDays)

	playerIDs, err := s.gameLogRepo.ActivePlayerIDs(ctx, since)
	if err != nil {
		return 0, fmt.Errorf("failed to list players: %w", err)
	}

	// Context inputs are loaded once and filtered per target date
	contextStart := since.AddDate(0, 0, -s.cfg.ContextLookbackDays)
	now := truncateToDay(time.Now().UTC())
	allGames, err := s.gameRepo.GetFinalByDateRange(ctx, contextStart, now)
	if err != nil {
		return 0, fmt.Errorf("failed to load games: %w", err)
	}
	allLogs, err := s.gameLogRepo.GetByDateRange(ctx, contextStart, now)
	if err != nil {
		return 0, fmt.Errorf("failed to load logs: %w", err)
	}

	contextCache := map[string]map[int64]models.TeamContext{}
	injuryCache := map[string]map[string]int{}
	encoder := json.NewEncoder(w)
	rows := 0

	for _, playerID := range playerIDs {
		if ctx.Err() != nil {
			return rows, ctx.Err()
		}

		logs, err := s.gameLogRepo.GetByPlayer(ctx, playerID, features.MaxGamesAvailable)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"player_id": playerID,
				"error":     err.Error(),
			}).Warn("Skipping player in export")
			continue
		}

		// logs are most recent first; each index is a candidate target
		// game with everything after it as history
		for i := 0; i < len(logs); i++ {
			target := logs[i]
			prior := logs[i+1:]
			if len(prior) < features.MinPriorGames {
				break
			}
			if target.GameDate.Before(since) {
				break
			}

			contexts := s.contextsBefore(target.GameDate, allGames, allLogs, contextCache)
			opponent := leaguectx.Lookup(contexts, target.OpponentID)

			vector, err := features.Build(prior, features.GameContext{
				IsHome:       target.IsHome,
				GameDate:     target.GameDate,
				TeamInjuries: s.injuryCount(ctx, target.GameDate, target.TeamAbbr, injuryCache),
			}, opponent)
			if err != nil {
				continue
			}

			for _, stat := range models.TargetStatKeys {
				row := TrainingRow{
					PlayerID: playerID,
					Stat:     string(stat),
					GameID:   target.GameID,
					GameDate: target.GameDate.Format("2006-01-02"),
					Features: vector,
					Label:    target.Stat(stat),
				}
				if err := encoder.Encode(row); err != nil {
					return rows, fmt.Errorf("failed to write row: %w", err)
				}
				rows++
			}
		}
	}

	s.log.WithFields(logrus.Fields{
		"rows":    rows,
		"players": len(playerIDs),
	}).Info("Training export completed")

	return rows, nil
}

// contextsBefore resolves team contexts from games and logs strictly before
// the given date, memoized per date.
func (s *TrainingExportService) contextsBefore(
	date time.Time,
	allGames []*models.Game,
	allLogs []*models.PlayerGameLog,
	cache map[string]map[int64]models.TeamContext,
) map[int64]models.TeamContext {
	key := date.Format("2006-01-02")
	if contexts, ok := cache[key]; ok {
		return contexts
	}

	windowStart := date.AddDate(0, 0, -s.cfg.ContextLookbackDays)

	var games []*models.Game
	for _, g := range allGames {
		if g.GameDate.Before(date) && !g.GameDate.Before(windowStart) {
			games = append(games, g)
		}
	}
	var logs []*models.PlayerGameLog
	for _, l := range allLogs {
		if l.GameDate.Before(date) && !l.GameDate.Before(windowStart) {
			logs = append(logs, l)
		}
	}

	contexts := s.resolver.Resolve(games, logs, nil)
	cache[key] = contexts
	return contexts
}

// injuryCount returns the player's team injury count from the report filed
// on the game date, 0 when no report exists for that date. Counts are
// memoized per date across the export.
func (s *TrainingExportService) injuryCount(ctx context.Context, date time.Time, teamAbbr string, cache map[string]map[string]int) float64 {
	key := date.Format("2006-01-02")
	counts, ok := cache[key]
	if !ok {
		injuries, err := s.injuryRepo.GetByDate(ctx, date)
		if err != nil {
			injuries = nil
		}
		counts = leaguectx.InjuryCounts(injuries)
		cache[key] = counts
	}
	return float64(counts[teamAbbr])
}
