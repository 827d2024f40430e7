package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharp-props/internal/logger"
	"github.com/yourusername/sharp-props/internal/metrics"
	"github.com/yourusername/sharp-props/internal/models"
	"github.com/yourusername/sharp-props/internal/repository"
	"github.com/yourusername/sharp-props/internal/verify"
)

// VerificationRunReport summarizes one verification run
type VerificationRunReport struct {
	Verified  int
	Correct   int
	Incorrect int
	Pushes    int
	Skipped   int
	NoData    int
	Duration  time.Duration
}

// VerificationService pairs stored predictions with realized box scores.
// Predictions are eligible one full day after their game date, so late box
// score corrections have settled.
type VerificationService struct {
	predictionRepo repository.PredictionRepository
	gameLogRepo    repository.GameLogRepository
	resultRepo     repository.ResultRepository
	verifier       *verify.Verifier
	log            *logger.RunLogger
}

// NewVerificationService creates a new verification service
func NewVerificationService(repos *repository.Repositories, baseLogger *logrus.Logger) *VerificationService {
	return &VerificationService{
		predictionRepo: repos.Prediction,
		gameLogRepo:    repos.GameLog,
		resultRepo:     repos.Result,
		verifier:       verify.NewVerifier(),
		log:            logger.NewRunLogger(baseLogger, "verification_service"),
	}
}

// RunVerification verifies every unverified prediction whose game date is
// at least one day before asOf. Predictions without a realized game log
// (inactive player, postponed game) are left unverified for a later run.
func (s *VerificationService) RunVerification(ctx context.Context, asOf time.Time) (*VerificationRunReport, error) {
	start := time.Now()
	report := &VerificationRunReport{}

	cutoff := truncateToDay(asOf)
	pending, err := s.predictionRepo.GetUnverified(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to load unverified predictions: %w", err)
	}

	for _, pred := range pending {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		if !pred.IsActionable() {
			// No line or a HOLD call: nothing to score
			report.Skipped++
			continue
		}

		realized, err := s.gameLogRepo.GetByPlayerAndDate(ctx, pred.PlayerID, pred.GameDate)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				report.NoData++
				continue
			}
			s.log.WithFields(logrus.Fields{
				"prediction_id": pred.ID,
				"error":         err.Error(),
			}).Warn("Failed to load realized game log")
			continue
		}

		result, ok := s.verifier.Verify(pred, realized)
		if !ok {
			report.Skipped++
			continue
		}

		if err := s.resultRepo.Insert(ctx, result); err != nil {
			s.log.WithFields(logrus.Fields{
				"prediction_id": pred.ID,
				"error":         err.Error(),
			}).Error("Failed to store verification result")
			continue
		}

		report.Verified++
		switch {
		case result.IsPush():
			report.Pushes++
			metrics.RecordVerification("push")
		case result.Correct != nil && *result.Correct:
			report.Correct++
			metrics.RecordVerification("correct")
		default:
			report.Incorrect++
			metrics.RecordVerification("incorrect")
		}
	}

	report.Duration = time.Since(start)
	metrics.RecordVerificationRun(report.NoData+report.Skipped, report.Duration.Seconds())
	s.log.LogVerificationRun(
		cutoff.Format("2006-01-02"),
		report.Verified, report.Correct, report.Incorrect, report.Pushes, report.NoData,
	)
	return report, nil
}

// AccuracySummary aggregates verification results for the trailing window
func (s *VerificationService) AccuracySummary(ctx context.Context, days int) (verify.AccuracySummary, error) {
	end := truncateToDay(time.Now().UTC())
	start := end.AddDate(0, 0, -days)

	results, err := s.resultRepo.GetByDateRange(ctx, start, end)
	if err != nil {
		return verify.AccuracySummary{}, fmt.Errorf("failed to load verification results: %w", err)
	}

	return verify.Summarize(results), nil
}
