package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/sharp-props/internal/config"
	"github.com/yourusername/sharp-props/internal/service"
)

// SlateHook runs after a prediction job completes, receiving the slate date
// and the run report. Used to push picks to the notifier.
type SlateHook func(ctx context.Context, date time.Time, report *service.PredictionRunReport)

// Scheduler manages the engine's recurring jobs: ingest, process, predict
// and verify, each driven by its own cron expression.
type Scheduler struct {
	cron            *cron.Cron
	ingestionSvc    *service.IngestionService
	statsProcessor  *service.StatsProcessor
	predictionSvc   *service.PredictionService
	verificationSvc *service.VerificationService
	slateHook       SlateHook
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
}

// NewScheduler creates a scheduler over the four pipeline services.
func NewScheduler(
	ingestionSvc *service.IngestionService,
	statsProcessor *service.StatsProcessor,
	predictionSvc *service.PredictionService,
	verificationSvc *service.VerificationService,
	logger *logrus.Logger,
) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		ingestionSvc:    ingestionSvc,
		statsProcessor:  statsProcessor,
		predictionSvc:   predictionSvc,
		verificationSvc: verificationSvc,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// SetSlateHook registers a hook invoked after each scheduled prediction run.
func (s *Scheduler) SetSlateHook(hook SlateHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slateHook = hook
}

// ScheduleAll registers the full pipeline from the configured cron
// expressions. Job order within a day is enforced by the expressions
// themselves: ingest before process, process before predict.
func (s *Scheduler) ScheduleAll(cfg *config.SchedulerConfig) error {
	if err := s.ScheduleIngest(cfg.Ingest); err != nil {
		return err
	}
	if err := s.ScheduleProcess(cfg.Process); err != nil {
		return err
	}
	if err := s.SchedulePredict(cfg.Predict); err != nil {
		return err
	}
	return s.ScheduleVerify(cfg.Verify)
}

// ScheduleIngest schedules the daily data ingestion job.
func (s *Scheduler) ScheduleIngest(cronExpression string) error {
	return s.addJob("ingest", cronExpression, func(ctx context.Context) {
		report, err := s.ingestionSvc.IngestDaily(ctx, time.Now().UTC())
		if err != nil {
			s.logger.WithError(err).Error("Scheduled ingestion failed")
			return
		}
		s.logger.WithFields(logrus.Fields{
			"games":    report.GamesFetched,
			"logs":     report.LogsStored,
			"teams":    report.TeamsStored,
			"injuries": report.InjuriesStored,
		}).Info("Scheduled ingestion completed")
	})
}

// ScheduleProcess schedules the rolling-stats processing job.
func (s *Scheduler) ScheduleProcess(cronExpression string) error {
	return s.addJob("process", cronExpression, func(ctx context.Context) {
		processed, skipped, err := s.statsProcessor.ProcessAll(ctx)
		if err != nil {
			s.logger.WithError(err).Error("Scheduled stats processing failed")
			return
		}
		s.logger.WithFields(logrus.Fields{
			"processed": processed,
			"skipped":   skipped,
		}).Info("Scheduled stats processing completed")
	})
}

// SchedulePredict schedules the slate prediction job for the current day.
func (s *Scheduler) SchedulePredict(cronExpression string) error {
	return s.addJob("predict", cronExpression, func(ctx context.Context) {
		date := time.Now().UTC()
		report, err := s.predictionSvc.RunPredictions(ctx, date)
		if err != nil {
			s.logger.WithError(err).Error("Scheduled prediction run failed")
			return
		}
		s.mu.RLock()
		hook := s.slateHook
		s.mu.RUnlock()
		if hook != nil && report.Predictions > 0 {
			hook(ctx, date, report)
		}
	})
}

// ScheduleVerify schedules the outcome verification job, which only settles
// predictions at least one day old.
func (s *Scheduler) ScheduleVerify(cronExpression string) error {
	return s.addJob("verify", cronExpression, func(ctx context.Context) {
		report, err := s.verificationSvc.RunVerification(ctx, time.Now().UTC())
		if err != nil {
			s.logger.WithError(err).Error("Scheduled verification failed")
			return
		}
		s.logger.WithFields(logrus.Fields{
			"verified": report.Verified,
			"pushes":   report.Pushes,
			"no_data":  report.NoData,
		}).Info("Scheduled verification completed")
	})
}

func (s *Scheduler) addJob(name, cronExpression string, run func(ctx context.Context)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule %s job while scheduler is running", name)
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
		defer cancel()
		s.logger.WithField("job", name).Info("Starting scheduled job")
		run(ctx)
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add %s job: %w", name, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"job":  name,
		"cron": cronExpression,
	}).Info("Scheduled job")

	return nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for in-flight jobs.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(s.gracefulTimeout):
		s.logger.Warn("Scheduler stop timed out waiting for running jobs")
	}
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run.
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries.
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}
