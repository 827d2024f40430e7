package datasource

import (
	"context"
	"time"

	"github.com/yourusername/sharp-props/internal/models"
)

// StatsProvider defines the interface for fetching schedule and box score
// data from an external stats API
type StatsProvider interface {
	// FetchGames retrieves the game slate for a date
	FetchGames(ctx context.Context, date time.Time) ([]*models.Game, error)

	// FetchGameLogs retrieves per-player box scores for a game, merged with
	// advanced metrics when the provider exposes them
	FetchGameLogs(ctx context.Context, game *models.Game) ([]*models.PlayerGameLog, error)

	// FetchTeams retrieves all team profiles
	FetchTeams(ctx context.Context) ([]*models.Team, error)

	// FetchInjuries retrieves the current injury report
	FetchInjuries(ctx context.Context) ([]*models.Injury, error)

	// Name returns the name of the provider
	Name() string
}

// LinesProvider defines the interface for fetching player prop lines from a
// sportsbook aggregator
type LinesProvider interface {
	// FetchPropLines retrieves the current over/under lines for all player
	// prop markets, keyed by normalized player name
	FetchPropLines(ctx context.Context) (models.LineTable, error)

	// Name returns the name of the provider
	Name() string
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Provider name
	Code    string // Error code (e.g. "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
