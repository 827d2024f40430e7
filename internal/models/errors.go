package models

import "errors"

// Custom errors
var (
	ErrNotFound = errors.New("record not found")
	// ErrInsufficientData marks computations skipped for lack of prior
	// games. Always non-fatal; callers fall back or skip the subject.
	ErrInsufficientData = errors.New("insufficient prior game data")
	ErrModelUnavailable = errors.New("no regression model available")
	ErrInvalidID        = errors.New("invalid ID format")
	ErrDuplicateKey     = errors.New("duplicate key violation")
)
