package models

// StatLines maps a statistic to its posted market line for one player.
type StatLines map[StatKey]float64

// LineTable maps normalized player names to their per-statistic lines for a
// slate. Keys must already be normalized (see the lines package).
type LineTable map[string]StatLines
