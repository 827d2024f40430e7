package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/sharp-props/internal/models"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testHTTPClient() *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig()
	cfg.RateLimit = 1000
	cfg.MaxRetries = 0
	return NewRateLimitedHTTPClient(cfg, testLogger())
}

func TestStatsClientFetchGames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/games" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[{
			"id": 15908525,
			"date": "2025-01-15",
			"season": 2024,
			"status": "Final",
			"home_team": {"id": 14, "full_name": "Los Angeles Lakers", "abbreviation": "LAL"},
			"visitor_team": {"id": 2, "full_name": "Boston Celtics", "abbreviation": "BOS"},
			"home_team_score": 115,
			"visitor_team_score": 110
		}]}`)
	}))
	defer server.Close()

	client := NewStatsClient(testHTTPClient(), server.URL, "test-key", false, testLogger())

	games, err := client.FetchGames(context.Background(), time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("FetchGames failed: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(games))
	}

	g := games[0]
	if !g.IsFinal() {
		t.Error("expected game to be final")
	}
	if g.Matchup() != "BOS @ LAL" {
		t.Errorf("unexpected matchup: %s", g.Matchup())
	}
	if allowed, ok := g.PointsAllowedBy(14); !ok || allowed != 110 {
		t.Errorf("expected LAL to have allowed 110, got %v (%v)", allowed, ok)
	}
}

func TestStatsClientFetchGameLogsMergesAdvanced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/stats":
			fmt.Fprint(w, `{"data":[{
				"player": {"id": 237, "first_name": "LeBron", "last_name": "James"},
				"team": {"id": 14, "abbreviation": "LAL"},
				"min": "35:20",
				"pts": 28, "reb": 8, "ast": 11,
				"fgm": 10, "fga": 19, "fg3m": 2, "fg3a": 6, "ftm": 6, "fta": 7
			}]}`)
		case "/stats/advanced":
			fmt.Fprint(w, `{"data":[{
				"player": {"id": 237},
				"pace": 101.3,
				"usage_percentage": 0.31,
				"offensive_rating": 118.2,
				"defensive_rating": 110.4,
				"true_shooting_percentage": 0.62
			}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewStatsClient(testHTTPClient(), server.URL, "", true, testLogger())

	game := &models.Game{
		ID:              15908525,
		GameDate:        time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		HomeTeamID:      14,
		HomeTeamAbbr:    "LAL",
		VisitorTeamID:   2,
		VisitorTeamAbbr: "BOS",
	}

	logs, err := client.FetchGameLogs(context.Background(), game)
	if err != nil {
		t.Fatalf("FetchGameLogs failed: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(logs))
	}

	l := logs[0]
	if l.PlayerName != "LeBron James" {
		t.Errorf("unexpected player name: %s", l.PlayerName)
	}
	if !l.IsHome {
		t.Error("expected LAL player to be home")
	}
	if l.OpponentAbbr != "BOS" {
		t.Errorf("unexpected opponent: %s", l.OpponentAbbr)
	}
	if l.Pace != 101.3 || l.DefRating != 110.4 {
		t.Errorf("advanced metrics not merged: pace=%v def=%v", l.Pace, l.DefRating)
	}
	if got := l.Stat(models.StatPRA); got != 47 {
		t.Errorf("expected PRA 47, got %v", got)
	}
}

func TestLinesClientFetchPropLines(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/sports/basketball_nba/odds/":
			fmt.Fprint(w, `[{"id": "evt1", "home_team": "Los Angeles Lakers", "away_team": "Boston Celtics"}]`)
		case "/sports/basketball_nba/events/evt1/odds":
			fmt.Fprint(w, `{"id": "evt1", "bookmakers": [
				{"key": "book_a", "markets": [
					{"key": "player_points", "outcomes": [
						{"name": "Over", "description": "LeBron James Jr.", "point": 25.5, "price": -125},
						{"name": "Under", "description": "LeBron James Jr.", "point": 25.5, "price": -105}
					]}
				]},
				{"key": "book_b", "markets": [
					{"key": "player_points", "outcomes": [
						{"name": "Over", "description": "LeBron James Jr.", "point": 26.5, "price": -110}
					]},
					{"key": "player_unknown_market", "outcomes": [
						{"name": "Over", "description": "LeBron James Jr.", "point": 1.5, "price": -110}
					]}
				]}
			]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewLinesClient(testHTTPClient(), server.URL, "test-key", "us", testLogger())

	table, err := client.FetchPropLines(context.Background())
	if err != nil {
		t.Fatalf("FetchPropLines failed: %v", err)
	}

	// Suffix stripped and lowercased in the key
	statLines, ok := table["lebron james"]
	if !ok {
		t.Fatalf("expected normalized key, table keys: %v", table)
	}

	// The book priced at standard -110 juice wins
	if got := statLines[models.StatPoints]; got != 26.5 {
		t.Errorf("expected 26.5 points line, got %v", got)
	}

	// Unknown markets are ignored
	if len(statLines) != 1 {
		t.Errorf("expected only the points line, got %v", statLines)
	}
}

func TestStatsClientAuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewStatsClient(testHTTPClient(), server.URL, "bad-key", false, testLogger())

	_, err := client.FetchGames(context.Background(), time.Now())
	if err == nil {
		t.Fatal("expected error on 401")
	}

	dsErr, ok := err.(DataSourceError)
	if !ok {
		t.Fatalf("expected DataSourceError, got %T", err)
	}
	if dsErr.Code != ErrCodeAuthenticationFailed {
		t.Errorf("expected auth error code, got %s", dsErr.Code)
	}
}

func TestCircuitBreakerOpens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, _, err := w.(http.Hijacker).Hijack()
		if err == nil {
			conn.Close()
		}
	}))
	defer server.Close()

	cfg := DefaultHTTPClientConfig()
	cfg.RateLimit = 1000
	cfg.MaxRetries = 0
	cfg.CircuitBreakerMax = 2
	client := NewRateLimitedHTTPClient(cfg, testLogger())

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := client.Get(ctx, server.URL); err == nil {
			t.Fatal("expected connection error")
		}
	}

	_, err := client.Get(ctx, server.URL)
	if err == nil {
		t.Fatal("expected circuit breaker to reject the request")
	}
}
