package models

import "time"

// Injury status abbreviations that exclude a player from play. Only these
// count towards a team's injury context.
const (
	InjuryStatusOut          = "O"
	InjuryStatusOutForSeason = "OFS"
)

// Injury represents one entry from the daily injury report.
type Injury struct {
	PlayerID   int64     `db:"player_id" json:"player_id" validate:"required"`
	PlayerName string    `db:"player_name" json:"player_name"`
	TeamAbbr   string    `db:"team_abbr" json:"team_abbr"`
	Status     string    `db:"status" json:"status"`
	StatusAbbr string    `db:"status_abbr" json:"status_abbr"`
	InjuryType string    `db:"injury_type" json:"injury_type"`
	ReturnDate string    `db:"return_date" json:"return_date"`
	Comment    string    `db:"comment" json:"comment"`
	ReportDate time.Time `db:"report_date" json:"report_date"`
}

// RulesOut reports whether this injury removes the player from the lineup.
func (i *Injury) RulesOut() bool {
	return i.StatusAbbr == InjuryStatusOut || i.StatusAbbr == InjuryStatusOutForSeason
}
