// Package ml provides client interfaces for the model scoring service.
package ml

import "errors"

var (
	// ErrServiceUnavailable indicates the model service is unreachable
	ErrServiceUnavailable = errors.New("model service unavailable")

	// ErrInvalidScore indicates the score response is invalid
	ErrInvalidScore = errors.New("invalid score response")

	// ErrConnectionFailed indicates the HTTP connection failed
	ErrConnectionFailed = errors.New("model service connection failed")

	// ErrTrainingFailed indicates a training job could not be submitted
	ErrTrainingFailed = errors.New("training submission failed")
)
