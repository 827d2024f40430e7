package models

import "time"

// WindowAverages holds per-statistic means for one rolling window, plus
// derived shooting percentages, average minutes and the PRA composite.
type WindowAverages map[StatKey]float64

// ProcessedStats is the derived rolling snapshot for one player, recomputed
// on each scheduled processing run. The most recent snapshot supersedes any
// prior one for the same player; snapshots are never merged.
type ProcessedStats struct {
	PlayerID   int64  `db:"player_id" json:"player_id" validate:"required"`
	PlayerName string `db:"player_name" json:"player_name"`
	TeamAbbr   string `db:"team_abbr" json:"team_abbr"`

	// RollingAverages is keyed by window size (5/10/20 by default). A window
	// with zero available games has no entry.
	RollingAverages map[int]WindowAverages `db:"rolling_averages" json:"rolling_averages"`

	// Trends holds the percentage delta of the recent sub-window vs the
	// older sub-window per target statistic.
	Trends map[StatKey]float64 `db:"trends" json:"trends"`

	// Consistency holds a 0-100 score per target statistic. 50 is the
	// neutral default used when fewer than 3 games were available.
	Consistency map[StatKey]float64 `db:"consistency" json:"consistency"`

	GamesAnalyzed int       `db:"games_analyzed" json:"games_analyzed"`
	ProcessedAt   time.Time `db:"processed_at" json:"processed_at"`
}

// WindowAverage returns the mean for a stat over the given window size,
// or 0 when the window or stat is absent.
func (p *ProcessedStats) WindowAverage(window int, stat StatKey) float64 {
	if avgs, ok := p.RollingAverages[window]; ok {
		return avgs[stat]
	}
	return 0
}

// TrendFor returns the trend for a stat, 0 when absent.
func (p *ProcessedStats) TrendFor(stat StatKey) float64 {
	return p.Trends[stat]
}

// ConsistencyFor returns the consistency score for a stat, with the neutral
// midpoint substituted when the stat was never scored.
func (p *ProcessedStats) ConsistencyFor(stat StatKey) float64 {
	if c, ok := p.Consistency[stat]; ok {
		return c
	}
	return 50
}
