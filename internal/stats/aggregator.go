// Package stats computes rolling-window aggregates over player game logs.
package stats

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/sharp-props/internal/models"
)

// Default window configuration.
var (
	DefaultWindows = []int{5, 10, 20}
)

const (
	// TrendWindow is the sub-window size compared against the preceding
	// sub-window of the same size to score momentum.
	TrendWindow = 5
	// ConsistencyWindow bounds the games examined for the consistency score.
	ConsistencyWindow = 10
	// ConsistencyMinGames is the floor below which consistency is undefined
	// and the neutral midpoint is substituted.
	ConsistencyMinGames = 3
	// NeutralConsistency is the midpoint substituted when consistency is
	// undefined.
	NeutralConsistency = 50.0
)

// Aggregator turns an ordered (most-recent-first) sequence of game logs for
// one player into rolling averages, trend and consistency signals.
type Aggregator struct {
	windows []int
}

// NewAggregator creates an aggregator with the given window sizes, falling
// back to the 5/10/20 defaults when none are supplied.
func NewAggregator(windows ...int) *Aggregator {
	if len(windows) == 0 {
		windows = DefaultWindows
	}
	return &Aggregator{windows: windows}
}

// Process computes the full rolling snapshot for one player. Logs must be
// ordered most recent first. Windows with zero available games produce no
// entry; trend and consistency are computed for the target statistics only.
func (a *Aggregator) Process(logs []*models.PlayerGameLog) *models.ProcessedStats {
	processed := &models.ProcessedStats{
		RollingAverages: a.RollingAverages(logs),
		Trends:          make(map[models.StatKey]float64, len(models.TargetStatKeys)),
		Consistency:     make(map[models.StatKey]float64, len(models.TargetStatKeys)),
		GamesAnalyzed:   len(logs),
		ProcessedAt:     time.Now().UTC(),
	}
	if len(logs) > 0 {
		processed.PlayerID = logs[0].PlayerID
		processed.PlayerName = logs[0].PlayerName
		processed.TeamAbbr = logs[0].TeamAbbr
	}

	for _, key := range models.TargetStatKeys {
		processed.Trends[key] = Trend(logs, key, TrendWindow)
		processed.Consistency[key] = Consistency(logs, key, ConsistencyWindow)
	}

	return processed
}

// RollingAverages computes per-statistic means for each configured window,
// using however many games are actually available (no synthetic padding).
func (a *Aggregator) RollingAverages(logs []*models.PlayerGameLog) map[int]models.WindowAverages {
	averages := make(map[int]models.WindowAverages, len(a.windows))

	for _, window := range a.windows {
		subset := headWindow(logs, window)
		if len(subset) == 0 {
			continue
		}
		averages[window] = windowAverages(subset)
	}

	return averages
}

func windowAverages(subset []*models.PlayerGameLog) models.WindowAverages {
	avgs := make(models.WindowAverages, len(models.RawStatKeys)+5)

	for _, key := range models.RawStatKeys {
		avgs[key] = stat.Mean(statValues(subset, key), nil)
	}

	// Shooting percentages are computed over summed makes and attempts for
	// the window, not averaged per-game percentages.
	avgs[models.StatFGPct] = shootingPct(subset, models.StatFGMade, models.StatFGAttempted)
	avgs[models.StatThreePct] = shootingPct(subset, models.StatThreesMade, models.StatThreesAtt)
	avgs[models.StatFTPct] = shootingPct(subset, models.StatFTMade, models.StatFTAttempted)

	minutes := make([]float64, len(subset))
	for i, g := range subset {
		minutes[i] = ParseMinutes(g.Minutes)
	}
	avgs[models.StatMinutes] = stat.Mean(minutes, nil)

	avgs[models.StatPRA] = avgs[models.StatPoints] + avgs[models.StatRebounds] + avgs[models.StatAssists]

	return avgs
}

// Trend scores recent momentum: the percentage delta of the mean of the
// first `window` games against the mean of the next `window`. Requires at
// least 2*window games, returns 0 otherwise or when the older mean is 0.
func Trend(logs []*models.PlayerGameLog, key models.StatKey, window int) float64 {
	if window <= 0 || len(logs) < window*2 {
		return 0
	}

	recent := stat.Mean(statValues(logs[:window], key), nil)
	older := stat.Mean(statValues(logs[window:window*2], key), nil)
	if older == 0 {
		return 0
	}

	return (recent - older) / older * 100
}

// Consistency scores how little a statistic varies relative to its mean
// over the first min(window, N) games: clamp((1 - stddev/mean) * 100, 0, 100)
// using the population standard deviation. A mean of 0 scores 0; fewer than
// ConsistencyMinGames games is undefined and yields the neutral midpoint.
func Consistency(logs []*models.PlayerGameLog, key models.StatKey, window int) float64 {
	subset := headWindow(logs, window)
	if len(subset) < ConsistencyMinGames {
		return NeutralConsistency
	}

	values := statValues(subset, key)
	mean := stat.Mean(values, nil)
	if mean == 0 {
		return 0
	}

	cv := stat.PopStdDev(values, nil) / mean
	return clamp((1-cv)*100, 0, 100)
}

func headWindow(logs []*models.PlayerGameLog, window int) []*models.PlayerGameLog {
	if window < len(logs) {
		return logs[:window]
	}
	return logs
}

func statValues(logs []*models.PlayerGameLog, key models.StatKey) []float64 {
	values := make([]float64, len(logs))
	for i, g := range logs {
		values[i] = g.Stat(key)
	}
	return values
}

func shootingPct(subset []*models.PlayerGameLog, made, attempted models.StatKey) float64 {
	var madeSum, attSum float64
	for _, g := range subset {
		madeSum += g.Stat(made)
		attSum += g.Stat(attempted)
	}
	if attSum == 0 {
		return 0
	}
	return madeSum / attSum
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
