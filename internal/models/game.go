package models

import "time"

// Game statuses as reported by the schedule provider.
const (
	GameStatusFinal = "Final"
)

// Game represents one scheduled or completed game.
type Game struct {
	ID               int64     `db:"id" json:"id" validate:"required"`
	GameDate         time.Time `db:"game_date" json:"date" validate:"required"`
	Season           int       `db:"season" json:"season"`
	Status           string    `db:"status" json:"status"`
	HomeTeamID       int64     `db:"home_team_id" json:"home_team_id"`
	HomeTeamName     string    `db:"home_team_name" json:"home_team_name"`
	HomeTeamAbbr     string    `db:"home_team_abbr" json:"home_team_abbr"`
	VisitorTeamID    int64     `db:"visitor_team_id" json:"visitor_team_id"`
	VisitorTeamName  string    `db:"visitor_team_name" json:"visitor_team_name"`
	VisitorTeamAbbr  string    `db:"visitor_team_abbr" json:"visitor_team_abbr"`
	HomeScore        float64   `db:"home_score" json:"home_score"`
	VisitorScore     float64   `db:"visitor_score" json:"visitor_score"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// IsFinal reports whether the game has completed.
func (g *Game) IsFinal() bool {
	return g.Status == GameStatusFinal
}

// Matchup renders the "AWAY @ HOME" display string.
func (g *Game) Matchup() string {
	return g.VisitorTeamAbbr + " @ " + g.HomeTeamAbbr
}

// ScoreFor returns the points scored by the given team in this game, and
// whether the team appeared in it.
func (g *Game) ScoreFor(teamID int64) (float64, bool) {
	switch teamID {
	case g.HomeTeamID:
		return g.HomeScore, true
	case g.VisitorTeamID:
		return g.VisitorScore, true
	default:
		return 0, false
	}
}

// PointsAllowedBy returns the points the given team conceded in this game,
// and whether the team appeared in it.
func (g *Game) PointsAllowedBy(teamID int64) (float64, bool) {
	switch teamID {
	case g.HomeTeamID:
		return g.VisitorScore, true
	case g.VisitorTeamID:
		return g.HomeScore, true
	default:
		return 0, false
	}
}
