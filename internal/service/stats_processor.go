// Package service wires the engine's pipeline stages together.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharp-props/internal/config"
	"github.com/yourusername/sharp-props/internal/logger"
	"github.com/yourusername/sharp-props/internal/models"
	"github.com/yourusername/sharp-props/internal/repository"
	"github.com/yourusername/sharp-props/internal/stats"
)

// minSnapshotGames is the floor below which no snapshot is stored: trend
// and consistency are meaningless on one or two games.
const minSnapshotGames = 3

// StatsProcessor recomputes rolling snapshots for active players
type StatsProcessor struct {
	gameLogRepo   repository.GameLogRepository
	processedRepo repository.ProcessedStatsRepository
	aggregator    *stats.Aggregator
	cfg           *config.PredictionConfig
	log           *logger.RunLogger
}

// NewStatsProcessor creates a new stats processor
func NewStatsProcessor(
	gameLogRepo repository.GameLogRepository,
	processedRepo repository.ProcessedStatsRepository,
	cfg *config.PredictionConfig,
	baseLogger *logrus.Logger,
) *StatsProcessor {
	return &StatsProcessor{
		gameLogRepo:   gameLogRepo,
		processedRepo: processedRepo,
		aggregator:    stats.NewAggregator(cfg.Windows...),
		cfg:           cfg,
		log:           logger.NewRunLogger(baseLogger, "stats_processor"),
	}
}

// ProcessAll recomputes snapshots for every player with a game log inside
// the roster lookback window. Per-player failures are counted and skipped
// so one bad roster entry never aborts the run.
func (p *StatsProcessor) ProcessAll(ctx context.Context) (processed, skipped int, err error) {
	since := time.Now().UTC().AddDate(0, 0, -p.cfg.RosterLookbackDays)

	playerIDs, err := p.gameLogRepo.ActivePlayerIDs(ctx, since)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list active players: %w", err)
	}

	for _, playerID := range playerIDs {
		if ctx.Err() != nil {
			return processed, skipped, ctx.Err()
		}

		if _, procErr := p.ProcessPlayer(ctx, playerID); procErr != nil {
			p.log.WithFields(logrus.Fields{
				"player_id": playerID,
				"error":     procErr.Error(),
			}).Warn("Skipping player")
			skipped++
			continue
		}
		processed++
	}

	p.log.LogProcessingRun(len(playerIDs), processed, skipped)
	return processed, skipped, nil
}

// ProcessPlayer recomputes and stores the snapshot for one player,
// returning it for immediate use downstream. The new snapshot replaces any
// prior one; snapshots are never merged. Fewer than minSnapshotGames logs
// yields models.ErrInsufficientData and stores nothing.
func (p *StatsProcessor) ProcessPlayer(ctx context.Context, playerID int64) (*models.ProcessedStats, error) {
	logs, err := p.gameLogRepo.GetByPlayer(ctx, playerID, p.cfg.GameLogLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load game logs: %w", err)
	}
	if len(logs) < minSnapshotGames {
		return nil, models.ErrInsufficientData
	}

	snapshot := p.aggregator.Process(logs)
	snapshot.PlayerID = playerID
	snapshot.PlayerName = logs[0].PlayerName
	snapshot.TeamAbbr = logs[0].TeamAbbr

	if err := p.processedRepo.Upsert(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to store snapshot: %w", err)
	}

	return snapshot, nil
}
