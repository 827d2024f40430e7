package leaguectx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sharp-props/internal/models"
)

func TestResolveAveragesPointsAllowed(t *testing.T) {
	games := []*models.Game{
		{ID: 1, HomeTeamID: 1, VisitorTeamID: 2, HomeScore: 110, VisitorScore: 104},
		{ID: 2, HomeTeamID: 2, VisitorTeamID: 1, HomeScore: 120, VisitorScore: 112},
	}

	contexts := NewResolver().Resolve(games, nil, nil)

	lakers, ok := contexts[1]
	require.True(t, ok)
	// Allowed 104 at home, 120 on the road.
	assert.InDelta(t, 112.0, lakers.PtsAllowedAvg, 1e-9)

	celtics := Lookup(contexts, 2)
	assert.InDelta(t, (110.0+112.0)/2, celtics.PtsAllowedAvg, 1e-9)
}

func TestResolveAdvancedMetricsFromLogs(t *testing.T) {
	logs := []*models.PlayerGameLog{
		{TeamID: 1, TeamAbbr: "LAL", DefRating: 108, Pace: 99},
		{TeamID: 1, TeamAbbr: "LAL", DefRating: 112, Pace: 101},
		{TeamID: 1, TeamAbbr: "LAL"}, // no advanced feed for this game
	}

	contexts := NewResolver().Resolve(nil, logs, nil)

	ctx := Lookup(contexts, 1)
	assert.InDelta(t, 110.0, ctx.DefRating, 1e-9)
	assert.InDelta(t, 100.0, ctx.Pace, 1e-9)
	// No game scores sampled, so points allowed stays neutral.
	assert.InDelta(t, models.DefaultPtsAllowed, ctx.PtsAllowedAvg, 1e-9)
}

func TestResolveAttachesInjuryCounts(t *testing.T) {
	logs := []*models.PlayerGameLog{
		{TeamID: 1, TeamAbbr: "LAL", DefRating: 108},
	}
	injuries := []*models.Injury{
		{PlayerID: 10, TeamAbbr: "LAL", StatusAbbr: models.InjuryStatusOut},
		{PlayerID: 11, TeamAbbr: "LAL", StatusAbbr: models.InjuryStatusOutForSeason},
		{PlayerID: 12, TeamAbbr: "LAL", StatusAbbr: "GTD"},
		{PlayerID: 13, TeamAbbr: "BOS", StatusAbbr: models.InjuryStatusOut},
	}

	contexts := NewResolver().Resolve(nil, logs, injuries)

	assert.Equal(t, 2, Lookup(contexts, 1).Injuries)
}

func TestLookupFallsBackToNeutral(t *testing.T) {
	ctx := Lookup(map[int64]models.TeamContext{}, 99)

	assert.Equal(t, int64(99), ctx.TeamID)
	assert.InDelta(t, models.DefaultDefRating, ctx.DefRating, 1e-9)
	assert.InDelta(t, models.DefaultPace, ctx.Pace, 1e-9)
	assert.InDelta(t, models.DefaultPtsAllowed, ctx.PtsAllowedAvg, 1e-9)
	assert.Zero(t, ctx.Injuries)
}

func TestInjuryCountsSkipsQuestionable(t *testing.T) {
	injuries := []*models.Injury{
		{TeamAbbr: "MIA", StatusAbbr: models.InjuryStatusOut},
		{TeamAbbr: "MIA", StatusAbbr: "Q"},
		{TeamAbbr: "", StatusAbbr: models.InjuryStatusOut},
	}

	counts := InjuryCounts(injuries)

	assert.Equal(t, 1, counts["MIA"])
	assert.Len(t, counts, 1)
}
