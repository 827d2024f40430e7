package models

// Neutral league-average defaults used for teams without samples in the
// lookback window.
const (
	DefaultDefRating  = 110.0
	DefaultPace       = 100.0
	DefaultPtsAllowed = 110.0
)

// TeamContext is the per-team aggregate over a lookback window: a defensive
// rating proxy, a pace proxy, average points allowed and the current injury
// count. It is recomputed per prediction run and not persisted beyond it.
type TeamContext struct {
	TeamID        int64   `json:"team_id"`
	DefRating     float64 `json:"def_rating"`
	Pace          float64 `json:"pace"`
	PtsAllowedAvg float64 `json:"pts_allowed_avg"`
	Injuries      int     `json:"injuries"`
}

// NeutralTeamContext returns the neutral default context used when a team
// has no samples in the lookback window.
func NeutralTeamContext(teamID int64) TeamContext {
	return TeamContext{
		TeamID:        teamID,
		DefRating:     DefaultDefRating,
		Pace:          DefaultPace,
		PtsAllowedAvg: DefaultPtsAllowed,
	}
}
