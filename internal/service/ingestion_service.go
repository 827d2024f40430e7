package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharp-props/internal/config"
	"github.com/yourusername/sharp-props/internal/datasource"
	"github.com/yourusername/sharp-props/internal/logger"
	"github.com/yourusername/sharp-props/internal/metrics"
	"github.com/yourusername/sharp-props/internal/repository"
)

// IngestionReport summarizes one ingestion run
type IngestionReport struct {
	GamesFetched   int
	LogsStored     int
	InjuriesStored int
	TeamsStored    int
	LogsPruned     int64
	Errors         int
	Duration       time.Duration
}

// IngestionService pulls the daily slate, box scores and the injury report
// into the store
type IngestionService struct {
	provider    datasource.StatsProvider
	gameRepo    repository.GameRepository
	gameLogRepo repository.GameLogRepository
	injuryRepo  repository.InjuryRepository
	teamRepo    repository.TeamRepository
	cfg         *config.IngestionConfig
	retention   int
	log         *logger.RunLogger
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	provider datasource.StatsProvider,
	repos *repository.Repositories,
	cfg *config.IngestionConfig,
	retentionDays int,
	baseLogger *logrus.Logger,
) *IngestionService {
	return &IngestionService{
		provider:    provider,
		gameRepo:    repos.Game,
		gameLogRepo: repos.GameLog,
		injuryRepo:  repos.Injury,
		teamRepo:    repos.Team,
		cfg:         cfg,
		retention:   retentionDays,
		log:         logger.NewRunLogger(baseLogger, "ingestion_service"),
	}
}

// IngestDate fetches and stores one date's slate and the completed games'
// box scores. Per-game failures are counted and skipped.
func (s *IngestionService) IngestDate(ctx context.Context, date time.Time) (*IngestionReport, error) {
	start := time.Now()
	report := &IngestionReport{}

	games, err := s.provider.FetchGames(ctx, date)
	if err != nil {
		metrics.RecordDataSourceError(s.provider.Name())
		return nil, fmt.Errorf("failed to fetch games: %w", err)
	}
	report.GamesFetched = len(games)

	if err := s.gameRepo.UpsertBatch(ctx, games); err != nil {
		return nil, fmt.Errorf("failed to store games: %w", err)
	}

	for _, game := range games {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		if !game.IsFinal() {
			continue
		}

		logs, err := s.provider.FetchGameLogs(ctx, game)
		if err != nil {
			metrics.RecordDataSourceError(s.provider.Name())
			s.log.WithFields(logrus.Fields{
				"game_id": game.ID,
				"error":   err.Error(),
			}).Warn("Failed to fetch box scores")
			report.Errors++
			continue
		}

		if err := s.gameLogRepo.UpsertBatch(ctx, logs); err != nil {
			s.log.WithFields(logrus.Fields{
				"game_id": game.ID,
				"error":   err.Error(),
			}).Error("Failed to store box scores")
			report.Errors++
			continue
		}
		report.LogsStored += len(logs)
	}

	report.Duration = time.Since(start)
	metrics.RecordIngestion(report.GamesFetched, report.LogsStored, report.Duration.Seconds())
	s.log.WithFields(logrus.Fields{
		"date":   date.Format("2006-01-02"),
		"games":  report.GamesFetched,
		"logs":   report.LogsStored,
		"errors": report.Errors,
	}).Info("Ingestion completed")

	return report, nil
}

// IngestDaily runs the standing daily pull: yesterday's completed slate,
// today's schedule, team profiles, the injury report, and retention pruning.
func (s *IngestionService) IngestDaily(ctx context.Context, now time.Time) (*IngestionReport, error) {
	start := time.Now()
	today := truncateToDay(now)

	report, err := s.IngestDate(ctx, today.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}

	// Today's schedule so the prediction run has a slate
	todayReport, err := s.IngestDate(ctx, today)
	if err != nil {
		s.log.WithField("error", err.Error()).Warn("Failed to ingest today's schedule")
		report.Errors++
	} else {
		report.GamesFetched += todayReport.GamesFetched
		report.LogsStored += todayReport.LogsStored
		report.Errors += todayReport.Errors
	}

	if err := s.ingestTeams(ctx, report); err != nil {
		report.Errors++
	}

	if s.cfg.FetchInjuries {
		if err := s.ingestInjuries(ctx, today, report); err != nil {
			report.Errors++
		}
	}

	if s.retention > 0 {
		pruned, err := s.gameLogRepo.DeleteOlderThan(ctx, today.AddDate(0, 0, -s.retention))
		if err != nil {
			s.log.WithField("error", err.Error()).Warn("Failed to prune old game logs")
			report.Errors++
		} else {
			report.LogsPruned = pruned
		}
	}

	report.Duration = time.Since(start)
	return report, nil
}

// Backfill ingests the trailing N days of completed games
func (s *IngestionService) Backfill(ctx context.Context, now time.Time, days int) (*IngestionReport, error) {
	start := time.Now()
	today := truncateToDay(now)
	combined := &IngestionReport{}

	for i := days; i >= 1; i-- {
		report, err := s.IngestDate(ctx, today.AddDate(0, 0, -i))
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"offset": i,
				"error":  err.Error(),
			}).Warn("Backfill day failed")
			combined.Errors++
			continue
		}
		combined.GamesFetched += report.GamesFetched
		combined.LogsStored += report.LogsStored
		combined.Errors += report.Errors
	}

	combined.Duration = time.Since(start)
	s.log.WithFields(logrus.Fields{
		"days":  days,
		"games": combined.GamesFetched,
		"logs":  combined.LogsStored,
	}).Info("Backfill completed")

	return combined, nil
}

func (s *IngestionService) ingestTeams(ctx context.Context, report *IngestionReport) error {
	teams, err := s.provider.FetchTeams(ctx)
	if err != nil {
		s.log.WithField("error", err.Error()).Warn("Failed to fetch teams")
		return err
	}
	if err := s.teamRepo.UpsertBatch(ctx, teams); err != nil {
		s.log.WithField("error", err.Error()).Error("Failed to store teams")
		return err
	}
	report.TeamsStored = len(teams)
	return nil
}

func (s *IngestionService) ingestInjuries(ctx context.Context, today time.Time, report *IngestionReport) error {
	injuries, err := s.provider.FetchInjuries(ctx)
	if err != nil {
		s.log.WithField("error", err.Error()).Warn("Failed to fetch injuries")
		return err
	}
	if injuries == nil {
		return nil
	}
	if err := s.injuryRepo.ReplaceForDate(ctx, today, injuries); err != nil {
		s.log.WithField("error", err.Error()).Error("Failed to store injuries")
		return err
	}
	report.InjuriesStored = len(injuries)
	return nil
}
