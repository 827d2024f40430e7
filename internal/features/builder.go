// Package features assembles fixed-shape numeric feature vectors for the
// regression models. The slot order is normative: trained model weights are
// order-dependent.
package features

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/sharp-props/internal/models"
	"github.com/yourusername/sharp-props/internal/stats"
)

const (
	// VectorLen is the fixed feature vector length.
	VectorLen = 26
	// MinPriorGames is the floor below which no vector is emitted.
	MinPriorGames = 5
	// MaxGamesAvailable caps the games-available slot.
	MaxGamesAvailable = 50
	// MaxRestDays caps the rest-days slot.
	MaxRestDays = 7
)

// FeatureNames documents the vector layout, for model metadata and logging.
var FeatureNames = []string{
	"pts_avg3", "pts_avg5", "pts_avg10", "pts_trend",
	"reb_avg3", "reb_avg5", "reb_avg10", "reb_trend",
	"ast_avg3", "ast_avg5", "ast_avg10", "ast_trend",
	"fg3m_avg3", "fg3m_avg5", "fg3m_avg10", "fg3m_trend",
	"minutes_avg", "usage_pct_avg", "true_shooting_avg", "games_available",
	"is_home", "rest_days", "opp_def_rating", "opp_pace", "opp_pts_allowed_avg",
	"team_injuries_count",
}

// GameContext carries the slate-side inputs for one vector: the game being
// predicted (or the held-out game at training time).
type GameContext struct {
	IsHome   bool
	GameDate time.Time
	// TeamInjuries fills the final slot. Online prediction passes 0; the
	// training exporter passes the real count for the player's team.
	TeamInjuries float64
}

// Build assembles the 26-slot vector from a player's prior game logs
// (most recent first), the game context and the opponent's team context.
// Fewer than MinPriorGames prior logs yields models.ErrInsufficientData.
func Build(prior []*models.PlayerGameLog, game GameContext, opponent models.TeamContext) ([]float64, error) {
	if len(prior) < MinPriorGames {
		return nil, models.ErrInsufficientData
	}

	vector := make([]float64, 0, VectorLen)

	for _, key := range models.TargetStatKeys {
		values := make([]float64, len(prior))
		for i, g := range prior {
			values[i] = g.Stat(key)
		}
		vector = append(vector,
			headMean(values, 3),
			headMean(values, 5),
			headMean(values, 10),
			shortTrend(values),
		)
	}

	minutes := make([]float64, 0, 10)
	usage := make([]float64, 0, 10)
	trueShooting := make([]float64, 0, 10)
	for _, g := range headWindow(prior, 10) {
		minutes = append(minutes, stats.ParseMinutes(g.Minutes))
		usage = append(usage, g.UsagePct)
		trueShooting = append(trueShooting, g.TrueShootingPct)
	}
	vector = append(vector,
		stat.Mean(minutes, nil),
		stat.Mean(usage, nil),
		stat.Mean(trueShooting, nil),
		float64(min(len(prior), MaxGamesAvailable)),
	)

	isHome := 0.0
	if game.IsHome {
		isHome = 1.0
	}
	vector = append(vector,
		isHome,
		restDays(prior, game.GameDate),
		opponent.DefRating,
		opponent.Pace,
		opponent.PtsAllowedAvg,
		game.TeamInjuries,
	)

	return vector, nil
}

// shortTrend is the inline trend figure: recent-3 vs the next-3, requiring
// at least 6 values, 0 otherwise or when the older mean is 0.
func shortTrend(values []float64) float64 {
	if len(values) < 6 {
		return 0
	}
	recent := stat.Mean(values[:3], nil)
	older := stat.Mean(values[3:6], nil)
	if older <= 0 {
		return 0
	}
	return (recent - older) / older * 100
}

// restDays is the whole-day gap between the most recent prior game and the
// reference date, clamped to [0, MaxRestDays]. An unusable prior date
// defaults to 1; no prior game at all defaults to 2.
func restDays(prior []*models.PlayerGameLog, reference time.Time) float64 {
	if len(prior) == 0 {
		return 2
	}
	last := prior[0].GameDate
	if last.IsZero() || reference.IsZero() {
		return 1
	}
	days := int(reference.Sub(last).Hours() / 24)
	if days < 0 {
		days = 0
	}
	if days > MaxRestDays {
		days = MaxRestDays
	}
	return float64(days)
}

func headMean(values []float64, n int) float64 {
	if n > len(values) {
		n = len(values)
	}
	if n == 0 {
		return 0
	}
	return stat.Mean(values[:n], nil)
}

func headWindow(logs []*models.PlayerGameLog, n int) []*models.PlayerGameLog {
	if n < len(logs) {
		return logs[:n]
	}
	return logs
}
