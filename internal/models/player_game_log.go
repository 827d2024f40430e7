package models

import (
	"time"
)

// PlayerGameLog represents one player's recorded statistics for one game.
// Logs are immutable once stored and ordered by game date descending within
// a player.
type PlayerGameLog struct {
	PlayerID     int64     `db:"player_id" json:"player_id" validate:"required"`
	PlayerName   string    `db:"player_name" json:"player_name"`
	TeamID       int64     `db:"team_id" json:"team_id"`
	TeamAbbr     string    `db:"team_abbr" json:"team_abbr"`
	GameID       int64     `db:"game_id" json:"game_id" validate:"required"`
	GameDate     time.Time `db:"game_date" json:"game_date" validate:"required"`
	IsHome       bool      `db:"is_home" json:"is_home"`
	OpponentID   int64     `db:"opponent_id" json:"opponent_id"`
	OpponentAbbr string    `db:"opponent_abbr" json:"opponent_abbr"`

	// Minutes played as reported upstream, either "MM:SS" or a bare number.
	Minutes string `db:"minutes" json:"min"`

	Points        float64 `db:"pts" json:"pts"`
	Rebounds      float64 `db:"reb" json:"reb"`
	Assists       float64 `db:"ast" json:"ast"`
	Steals        float64 `db:"stl" json:"stl"`
	Blocks        float64 `db:"blk" json:"blk"`
	Turnovers     float64 `db:"turnover" json:"turnover"`
	FGMade        float64 `db:"fgm" json:"fgm"`
	FGAttempted   float64 `db:"fga" json:"fga"`
	ThreesMade    float64 `db:"fg3m" json:"fg3m"`
	ThreesAtt     float64 `db:"fg3a" json:"fg3a"`
	FTMade        float64 `db:"ftm" json:"ftm"`
	FTAttempted   float64 `db:"fta" json:"fta"`

	// Advanced metrics, zero when the upstream feed had none for this game.
	Pace            float64 `db:"pace" json:"pace"`
	UsagePct        float64 `db:"usage_pct" json:"usage_pct"`
	TrueShootingPct float64 `db:"true_shooting_pct" json:"true_shooting_pct"`
	OffRating       float64 `db:"off_rating" json:"off_rating"`
	DefRating       float64 `db:"def_rating" json:"def_rating"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Stat returns the value of a raw or composite statistic. Unknown keys
// return 0; composite PRA is the sum of points, rebounds and assists.
func (g *PlayerGameLog) Stat(key StatKey) float64 {
	switch key {
	case StatPoints:
		return g.Points
	case StatRebounds:
		return g.Rebounds
	case StatAssists:
		return g.Assists
	case StatSteals:
		return g.Steals
	case StatBlocks:
		return g.Blocks
	case StatTurnovers:
		return g.Turnovers
	case StatFGMade:
		return g.FGMade
	case StatFGAttempted:
		return g.FGAttempted
	case StatThreesMade:
		return g.ThreesMade
	case StatThreesAtt:
		return g.ThreesAtt
	case StatFTMade:
		return g.FTMade
	case StatFTAttempted:
		return g.FTAttempted
	case StatPRA:
		return g.Points + g.Rebounds + g.Assists
	default:
		return 0
	}
}
