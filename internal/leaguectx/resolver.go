// Package leaguectx aggregates league-wide records into per-team context.
package leaguectx

import (
	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/sharp-props/internal/models"
)

// Resolver is a stateless aggregator that turns recent league-wide games,
// player logs and the injury report into per-team context snapshots.
type Resolver struct{}

// NewResolver creates a context resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// teamSamples accumulates raw samples for one team before averaging.
type teamSamples struct {
	ptsAllowed []float64
	defRatings []float64
	paces      []float64
}

// Resolve computes a context snapshot for every team appearing in the
// inputs. Points allowed comes from game scores; defensive rating and pace
// come from advanced metrics attributed to the team across player logs.
// Teams with zero samples for a signal receive the neutral defaults.
func (r *Resolver) Resolve(games []*models.Game, logs []*models.PlayerGameLog, injuries []*models.Injury) map[int64]models.TeamContext {
	samples := make(map[int64]*teamSamples)

	byTeam := func(teamID int64) *teamSamples {
		s, ok := samples[teamID]
		if !ok {
			s = &teamSamples{}
			samples[teamID] = s
		}
		return s
	}

	for _, game := range games {
		if game.HomeTeamID != 0 {
			byTeam(game.HomeTeamID).ptsAllowed = append(byTeam(game.HomeTeamID).ptsAllowed, game.VisitorScore)
		}
		if game.VisitorTeamID != 0 {
			byTeam(game.VisitorTeamID).ptsAllowed = append(byTeam(game.VisitorTeamID).ptsAllowed, game.HomeScore)
		}
	}

	for _, g := range logs {
		if g.TeamID == 0 {
			continue
		}
		if g.DefRating > 0 {
			byTeam(g.TeamID).defRatings = append(byTeam(g.TeamID).defRatings, g.DefRating)
		}
		if g.Pace > 0 {
			byTeam(g.TeamID).paces = append(byTeam(g.TeamID).paces, g.Pace)
		}
	}

	injuryCounts := InjuryCounts(injuries)
	abbrToTeam := make(map[string]int64)
	for _, g := range logs {
		if g.TeamAbbr != "" && g.TeamID != 0 {
			abbrToTeam[g.TeamAbbr] = g.TeamID
		}
	}

	contexts := make(map[int64]models.TeamContext, len(samples))
	for teamID, s := range samples {
		ctx := models.NeutralTeamContext(teamID)
		if len(s.ptsAllowed) > 0 {
			ctx.PtsAllowedAvg = stat.Mean(s.ptsAllowed, nil)
		}
		if len(s.defRatings) > 0 {
			ctx.DefRating = stat.Mean(s.defRatings, nil)
		}
		if len(s.paces) > 0 {
			ctx.Pace = stat.Mean(s.paces, nil)
		}
		contexts[teamID] = ctx
	}

	for abbr, count := range injuryCounts {
		teamID, ok := abbrToTeam[abbr]
		if !ok {
			continue
		}
		ctx, ok := contexts[teamID]
		if !ok {
			ctx = models.NeutralTeamContext(teamID)
		}
		ctx.Injuries = count
		contexts[teamID] = ctx
	}

	return contexts
}

// Lookup returns the context for a team, substituting the neutral defaults
// when the team was never sampled.
func Lookup(contexts map[int64]models.TeamContext, teamID int64) models.TeamContext {
	if ctx, ok := contexts[teamID]; ok {
		return ctx
	}
	return models.NeutralTeamContext(teamID)
}

// InjuryCounts counts current injuries per team abbreviation, restricted to
// players ruled out ("O") or out for the season ("OFS").
func InjuryCounts(injuries []*models.Injury) map[string]int {
	counts := make(map[string]int)
	for _, injury := range injuries {
		if injury.TeamAbbr == "" || !injury.RulesOut() {
			continue
		}
		counts[injury.TeamAbbr]++
	}
	return counts
}
