// Package ml provides the HTTP client for the model scoring service.
package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharp-props/internal/config"
	"github.com/yourusername/sharp-props/internal/models"
)

// HTTPClient provides HTTP access to the model scoring service
type HTTPClient struct {
	client  *http.Client
	baseURL string
	logger  *logrus.Logger
}

// NewHTTPClient creates a new HTTP client for the model service
func NewHTTPClient(cfg *config.ModelServiceConfig, logger *logrus.Logger) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		},
		baseURL: cfg.HTTPAddress,
		logger:  logger,
	}
}

// ScoreRequest represents a scoring request payload
type ScoreRequest struct {
	Stat     string    `json:"stat"`
	Features []float64 `json:"features"`
}

// ScoreResponse represents a scoring response
type ScoreResponse struct {
	Stat         string  `json:"stat"`
	Score        float64 `json:"score"`
	ModelVersion string  `json:"model_version"`
}

// Predict scores a feature vector for one target statistic
func (c *HTTPClient) Predict(ctx context.Context, stat models.StatKey, features []float64) (float64, error) {
	start := time.Now()

	jsonData, err := json.Marshal(ScoreRequest{Stat: string(stat), Features: features})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/v1/score", bytes.NewBuffer(jsonData))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		ModelErrorsTotal.WithLabelValues("score", "network").Inc()
		return 0, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// No trained model for this statistic
		ModelErrorsTotal.WithLabelValues("score", "no_model").Inc()
		return 0, models.ErrModelUnavailable
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		ModelErrorsTotal.WithLabelValues("score", "http_error").Inc()
		return 0, fmt.Errorf("score request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var scoreResp ScoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&scoreResp); err != nil {
		ModelErrorsTotal.WithLabelValues("score", "decode").Inc()
		return 0, fmt.Errorf("%w: %v", ErrInvalidScore, err)
	}

	if scoreResp.Score < 0 {
		ModelErrorsTotal.WithLabelValues("score", "invalid_value").Inc()
		return 0, fmt.Errorf("%w: negative score %v", ErrInvalidScore, scoreResp.Score)
	}

	ModelScoreLatency.WithLabelValues(string(stat)).Observe(time.Since(start).Seconds())

	return scoreResp.Score, nil
}

// TrainRequest represents a training request payload
type TrainRequest struct {
	Stat         string `json:"stat"`
	LookbackDays int    `json:"lookback_days"`
}

// TrainResponse represents a training response
type TrainResponse struct {
	JobID       string    `json:"job_id"`
	Status      string    `json:"status"`
	Stat        string    `json:"stat"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// TrainingStatus represents the progress of a training job
type TrainingStatus struct {
	JobID       string     `json:"job_id"`
	Status      string     `json:"status"`
	Stat        string     `json:"stat"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	R2Score     *float64   `json:"r2_score,omitempty"`
}

// TrainModel submits a training job for one target statistic
func (c *HTTPClient) TrainModel(ctx context.Context, stat models.StatKey, lookbackDays int) (*TrainingStatus, error) {
	jsonData, err := json.Marshal(TrainRequest{Stat: string(stat), LookbackDays: lookbackDays})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/v1/models/train", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		ModelErrorsTotal.WithLabelValues("train", "network").Inc()
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		ModelErrorsTotal.WithLabelValues("train", "http_error").Inc()
		return nil, fmt.Errorf("%w: status %d: %s", ErrTrainingFailed, resp.StatusCode, string(body))
	}

	var trainResp TrainResponse
	if err := json.NewDecoder(resp.Body).Decode(&trainResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"job_id": trainResp.JobID,
		"stat":   trainResp.Stat,
		"status": trainResp.Status,
	}).Info("Training job submitted")

	ModelTrainingJobsTotal.WithLabelValues(trainResp.Stat, "submitted").Inc()

	submittedAt := trainResp.SubmittedAt
	return &TrainingStatus{
		JobID:       trainResp.JobID,
		Status:      trainResp.Status,
		Stat:        trainResp.Stat,
		SubmittedAt: &submittedAt,
	}, nil
}

// GetTrainingStatus retrieves training job status
func (c *HTTPClient) GetTrainingStatus(ctx context.Context, jobID string) (*TrainingStatus, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/api/v1/models/train/%s/status", c.baseURL, jobID), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status request failed with status %d", resp.StatusCode)
	}

	var status TrainingStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode status: %w", err)
	}

	return &status, nil
}

// HealthCheck verifies the model service is reachable
func (c *HTTPClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)
	}

	return nil
}
