package models

// StatKey identifies a tracked box-score statistic.
type StatKey string

// Raw statistics recorded per game.
const (
	StatPoints        StatKey = "pts"
	StatRebounds      StatKey = "reb"
	StatAssists       StatKey = "ast"
	StatSteals        StatKey = "stl"
	StatBlocks        StatKey = "blk"
	StatTurnovers     StatKey = "turnover"
	StatFGMade        StatKey = "fgm"
	StatFGAttempted   StatKey = "fga"
	StatThreesMade    StatKey = "fg3m"
	StatThreesAtt     StatKey = "fg3a"
	StatFTMade        StatKey = "ftm"
	StatFTAttempted   StatKey = "fta"
	StatPRA           StatKey = "pra" // composite points+rebounds+assists
	StatMinutes       StatKey = "min"
	StatFGPct         StatKey = "fg_pct"
	StatThreePct      StatKey = "fg3_pct"
	StatFTPct         StatKey = "ft_pct"
)

// RawStatKeys are the per-game fields averaged by the rolling aggregator.
var RawStatKeys = []StatKey{
	StatPoints, StatRebounds, StatAssists, StatSteals, StatBlocks,
	StatTurnovers, StatFGMade, StatFGAttempted, StatThreesMade,
	StatThreesAtt, StatFTMade, StatFTAttempted,
}

// TargetStatKeys are the statistics we compute trend/consistency for and
// train regression models on.
var TargetStatKeys = []StatKey{StatPoints, StatRebounds, StatAssists, StatThreesMade}

// PredictableStatKeys are the statistics predictions are generated for.
// PRA has no dedicated model; it is predicted from rolling averages only.
var PredictableStatKeys = []StatKey{StatPoints, StatRebounds, StatAssists, StatThreesMade, StatPRA}

// StatLabels maps stat keys to display labels for notifications and the API.
var StatLabels = map[StatKey]string{
	StatPoints:     "Points",
	StatRebounds:   "Rebounds",
	StatAssists:    "Assists",
	StatThreesMade: "3-Pointers Made",
	StatPRA:        "Pts+Reb+Ast",
}

// Label returns the display label for a stat key, falling back to the raw key.
func (k StatKey) Label() string {
	if label, ok := StatLabels[k]; ok {
		return label
	}
	return string(k)
}
