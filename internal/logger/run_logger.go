// Package logger provides run-scoped logging for the prediction pipeline.
package logger

import (
	"github.com/sirupsen/logrus"
)

// RunLogger provides dedicated logging for pipeline runs.
type RunLogger struct {
	*logrus.Entry
}

// NewRunLogger creates a logger entry scoped to one pipeline component.
func NewRunLogger(baseLogger *logrus.Logger, component string) *RunLogger {
	return &RunLogger{
		Entry: baseLogger.WithField("component", component),
	}
}

// LogPredictionRun logs the summary of a prediction run.
func (r *RunLogger) LogPredictionRun(date string, games, predictions, withLines, ensembleUsed, weightedAvgOnly, insufficient int) {
	r.WithFields(logrus.Fields{
		"date":              date,
		"games":             games,
		"predictions":       predictions,
		"with_lines":        withLines,
		"ensemble":          ensembleUsed,
		"weighted_avg_only": weightedAvgOnly,
		"insufficient_data": insufficient,
	}).Info("Prediction run completed")
}

// LogProcessingRun logs the summary of a stats processing run.
func (r *RunLogger) LogProcessingRun(playersFound, processed, skipped int) {
	r.WithFields(logrus.Fields{
		"players_found": playersFound,
		"processed":     processed,
		"skipped":       skipped,
	}).Info("Stats processing completed")
}

// LogVerificationRun logs the summary of a verification run.
func (r *RunLogger) LogVerificationRun(date string, verified, correct, incorrect, pushes, noData int) {
	r.WithFields(logrus.Fields{
		"date":      date,
		"verified":  verified,
		"correct":   correct,
		"incorrect": incorrect,
		"pushes":    pushes,
		"no_data":   noData,
	}).Info("Verification run completed")
}
