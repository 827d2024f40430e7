package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/sharp-props/internal/models"
)

const statsSourceName = "balldontlie"

// StatsClient implements StatsProvider against a balldontlie-compatible API
type StatsClient struct {
	httpClient    *RateLimitedHTTPClient
	baseURL       string
	apiKey        string
	fetchAdvanced bool
	logger        *logrus.Logger
}

// NewStatsClient creates a new stats API client
func NewStatsClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, fetchAdvanced bool, logger *logrus.Logger) *StatsClient {
	return &StatsClient{
		httpClient:    httpClient,
		baseURL:       baseURL,
		apiKey:        apiKey,
		fetchAdvanced: fetchAdvanced,
		logger:        logger,
	}
}

// Name returns the provider name
func (c *StatsClient) Name() string {
	return statsSourceName
}

type apiTeam struct {
	ID           int64  `json:"id"`
	FullName     string `json:"full_name"`
	Abbreviation string `json:"abbreviation"`
	City         string `json:"city"`
	Conference   string `json:"conference"`
	Division     string `json:"division"`
}

type apiPlayer struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Teams     []apiTeam `json:"teams"`
}

type apiGame struct {
	ID               int64   `json:"id"`
	Date             string  `json:"date"`
	Season           int     `json:"season"`
	Status           string  `json:"status"`
	HomeTeam         apiTeam `json:"home_team"`
	VisitorTeam      apiTeam `json:"visitor_team"`
	HomeTeamScore    float64 `json:"home_team_score"`
	VisitorTeamScore float64 `json:"visitor_team_score"`
}

type apiStatLine struct {
	Player   apiPlayer `json:"player"`
	Team     apiTeam   `json:"team"`
	Min      string    `json:"min"`
	Pts      float64   `json:"pts"`
	Reb      float64   `json:"reb"`
	Ast      float64   `json:"ast"`
	Stl      float64   `json:"stl"`
	Blk      float64   `json:"blk"`
	Turnover float64   `json:"turnover"`
	Fgm      float64   `json:"fgm"`
	Fga      float64   `json:"fga"`
	Fg3m     float64   `json:"fg3m"`
	Fg3a     float64   `json:"fg3a"`
	Ftm      float64   `json:"ftm"`
	Fta      float64   `json:"fta"`
}

type apiAdvancedLine struct {
	Player          apiPlayer `json:"player"`
	Pace            float64   `json:"pace"`
	UsagePct        float64   `json:"usage_percentage"`
	OffensiveRating float64   `json:"offensive_rating"`
	DefensiveRating float64   `json:"defensive_rating"`
	TrueShootingPct float64   `json:"true_shooting_percentage"`
}

type apiInjury struct {
	Player     apiPlayer `json:"player"`
	Status     string    `json:"status"`
	StatusAbbr string    `json:"status_abbreviation"`
	InjuryType string    `json:"injury_type"`
	ReturnDate string    `json:"return_date"`
	Comment    string    `json:"comment"`
}

func (c *StatsClient) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return NewDataSourceError(statsSourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return NewDataSourceError(statsSourceName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return NewDataSourceError(statsSourceName, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewDataSourceError(statsSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode == http.StatusNotFound:
		return NewDataSourceError(statsSourceName, ErrCodeNotFound, "resource not found", nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return NewDataSourceError(statsSourceName, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewDataSourceError(statsSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}

	return nil
}

// parseGameDate accepts both plain dates and RFC3339 timestamps
func parseGameDate(raw string) (time.Time, error) {
	if len(raw) >= 10 {
		raw = raw[:10]
	}
	return time.Parse("2006-01-02", raw)
}

// FetchGames retrieves the game slate for a date
func (c *StatsClient) FetchGames(ctx context.Context, date time.Time) ([]*models.Game, error) {
	url := fmt.Sprintf("%s/games?dates[]=%s&per_page=100", c.baseURL, date.Format("2006-01-02"))

	var payload struct {
		Data []apiGame `json:"data"`
	}
	if err := c.get(ctx, url, &payload); err != nil {
		return nil, err
	}

	games := make([]*models.Game, 0, len(payload.Data))
	for _, g := range payload.Data {
		gameDate, err := parseGameDate(g.Date)
		if err != nil {
			c.logger.WithFields(logrus.Fields{
				"game_id": g.ID,
				"date":    g.Date,
			}).Warn("Skipping game with unparsable date")
			continue
		}
		games = append(games, &models.Game{
			ID:              g.ID,
			GameDate:        gameDate,
			Season:          g.Season,
			Status:          g.Status,
			HomeTeamID:      g.HomeTeam.ID,
			HomeTeamName:    g.HomeTeam.FullName,
			HomeTeamAbbr:    g.HomeTeam.Abbreviation,
			VisitorTeamID:   g.VisitorTeam.ID,
			VisitorTeamName: g.VisitorTeam.FullName,
			VisitorTeamAbbr: g.VisitorTeam.Abbreviation,
			HomeScore:       g.HomeTeamScore,
			VisitorScore:    g.VisitorTeamScore,
		})
	}

	return games, nil
}

// FetchGameLogs retrieves per-player box scores for a game. Advanced metrics
// are merged in by player when enabled; their absence is not an error.
func (c *StatsClient) FetchGameLogs(ctx context.Context, game *models.Game) ([]*models.PlayerGameLog, error) {
	url := fmt.Sprintf("%s/stats?game_ids[]=%d&per_page=100", c.baseURL, game.ID)

	var payload struct {
		Data []apiStatLine `json:"data"`
	}
	if err := c.get(ctx, url, &payload); err != nil {
		return nil, err
	}

	advByPlayer := map[int64]apiAdvancedLine{}
	if c.fetchAdvanced {
		advURL := fmt.Sprintf("%s/stats/advanced?game_ids[]=%d&per_page=100", c.baseURL, game.ID)
		var advPayload struct {
			Data []apiAdvancedLine `json:"data"`
		}
		if err := c.get(ctx, advURL, &advPayload); err != nil {
			c.logger.WithFields(logrus.Fields{
				"game_id": game.ID,
				"error":   err.Error(),
			}).Warn("Advanced stats unavailable")
		} else {
			for _, adv := range advPayload.Data {
				if adv.Player.ID != 0 {
					advByPlayer[adv.Player.ID] = adv
				}
			}
		}
	}

	logs := make([]*models.PlayerGameLog, 0, len(payload.Data))
	for _, s := range payload.Data {
		if s.Player.ID == 0 {
			continue
		}

		isHome := s.Team.ID == game.HomeTeamID
		opponentID := game.HomeTeamID
		opponentAbbr := game.HomeTeamAbbr
		if isHome {
			opponentID = game.VisitorTeamID
			opponentAbbr = game.VisitorTeamAbbr
		}

		adv := advByPlayer[s.Player.ID]

		logs = append(logs, &models.PlayerGameLog{
			PlayerID:        s.Player.ID,
			PlayerName:      s.Player.FirstName + " " + s.Player.LastName,
			TeamID:          s.Team.ID,
			TeamAbbr:        s.Team.Abbreviation,
			GameID:          game.ID,
			GameDate:        game.GameDate,
			IsHome:          isHome,
			OpponentID:      opponentID,
			OpponentAbbr:    opponentAbbr,
			Minutes:         s.Min,
			Points:          s.Pts,
			Rebounds:        s.Reb,
			Assists:         s.Ast,
			Steals:          s.Stl,
			Blocks:          s.Blk,
			Turnovers:       s.Turnover,
			FGMade:          s.Fgm,
			FGAttempted:     s.Fga,
			ThreesMade:      s.Fg3m,
			ThreesAtt:       s.Fg3a,
			FTMade:          s.Ftm,
			FTAttempted:     s.Fta,
			Pace:            adv.Pace,
			UsagePct:        adv.UsagePct,
			TrueShootingPct: adv.TrueShootingPct,
			OffRating:       adv.OffensiveRating,
			DefRating:       adv.DefensiveRating,
		})
	}

	return logs, nil
}

// FetchTeams retrieves all team profiles
func (c *StatsClient) FetchTeams(ctx context.Context) ([]*models.Team, error) {
	url := fmt.Sprintf("%s/teams?per_page=100", c.baseURL)

	var payload struct {
		Data []apiTeam `json:"data"`
	}
	if err := c.get(ctx, url, &payload); err != nil {
		return nil, err
	}

	teams := make([]*models.Team, 0, len(payload.Data))
	for _, t := range payload.Data {
		teams = append(teams, &models.Team{
			ID:           t.ID,
			FullName:     t.FullName,
			Abbreviation: t.Abbreviation,
			City:         t.City,
			Conference:   t.Conference,
			Division:     t.Division,
		})
	}

	return teams, nil
}

// FetchInjuries retrieves the current injury report. A missing endpoint
// yields an empty report rather than a hard failure.
func (c *StatsClient) FetchInjuries(ctx context.Context) ([]*models.Injury, error) {
	url := fmt.Sprintf("%s/player_injuries?per_page=100", c.baseURL)

	var payload struct {
		Data []apiInjury `json:"data"`
	}
	if err := c.get(ctx, url, &payload); err != nil {
		var dsErr DataSourceError
		if errors.As(err, &dsErr) && dsErr.Code == ErrCodeNotFound {
			c.logger.Warn("Injuries endpoint unavailable, skipping injury report")
			return nil, nil
		}
		return nil, err
	}

	now := time.Now().UTC()
	injuries := make([]*models.Injury, 0, len(payload.Data))
	for _, inj := range payload.Data {
		if inj.Player.ID == 0 {
			continue
		}

		teamAbbr := ""
		if len(inj.Player.Teams) > 0 {
			teamAbbr = inj.Player.Teams[0].Abbreviation
		}

		injuries = append(injuries, &models.Injury{
			PlayerID:   inj.Player.ID,
			PlayerName: inj.Player.FirstName + " " + inj.Player.LastName,
			TeamAbbr:   teamAbbr,
			Status:     inj.Status,
			StatusAbbr: inj.StatusAbbr,
			InjuryType: inj.InjuryType,
			ReturnDate: inj.ReturnDate,
			Comment:    inj.Comment,
			ReportDate: now,
		})
	}

	return injuries, nil
}
