package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/sharp-props/internal/lines"
	"github.com/yourusername/sharp-props/internal/models"
)

const linesSourceName = "odds_api"

// propMarkets are the sportsbook market keys requested per event.
var propMarkets = []string{
	"player_points",
	"player_rebounds",
	"player_assists",
	"player_threes",
	"player_points_rebounds_assists",
}

// marketToStat maps sportsbook market keys onto statistic keys.
var marketToStat = map[string]models.StatKey{
	"player_points":                  models.StatPoints,
	"player_rebounds":                models.StatRebounds,
	"player_assists":                 models.StatAssists,
	"player_threes":                  models.StatThreesMade,
	"player_points_rebounds_assists": models.StatPRA,
}

// LinesClient implements LinesProvider against an Odds-API-compatible
// sportsbook aggregator
type LinesClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	regions    string
	logger     *logrus.Logger
}

// NewLinesClient creates a new prop lines client
func NewLinesClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey, regions string, logger *logrus.Logger) *LinesClient {
	if regions == "" {
		regions = "us"
	}
	return &LinesClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		regions:    regions,
		logger:     logger,
	}
}

// Name returns the provider name
func (c *LinesClient) Name() string {
	return linesSourceName
}

type oddsEvent struct {
	ID       string `json:"id"`
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
}

type oddsOutcome struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Point       *float64         `json:"point"`
	Price       *decimal.Decimal `json:"price"`
}

type oddsMarket struct {
	Key      string        `json:"key"`
	Outcomes []oddsOutcome `json:"outcomes"`
}

type oddsBookmaker struct {
	Key     string       `json:"key"`
	Markets []oddsMarket `json:"markets"`
}

type oddsEventDetail struct {
	ID         string          `json:"id"`
	Bookmakers []oddsBookmaker `json:"bookmakers"`
}

func (c *LinesClient) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return NewDataSourceError(linesSourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return NewDataSourceError(linesSourceName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return NewDataSourceError(linesSourceName, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewDataSourceError(linesSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return NewDataSourceError(linesSourceName, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewDataSourceError(linesSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}

	return nil
}

// standardJuice is the American price of an evenly-priced prop. When
// several bookmakers post the same market, the line whose Over price sits
// closest to it is kept.
var standardJuice = decimal.NewFromInt(-110)

// FetchPropLines retrieves the current over/under lines for all player prop
// markets, keyed by normalized player name.
func (c *LinesClient) FetchPropLines(ctx context.Context) (models.LineTable, error) {
	if c.apiKey == "" {
		c.logger.Warn("Lines provider has no API key, skipping prop lines")
		return models.LineTable{}, nil
	}

	eventsURL := fmt.Sprintf(
		"%s/sports/basketball_nba/odds/?apiKey=%s&regions=%s&markets=totals&oddsFormat=american",
		c.baseURL, c.apiKey, c.regions,
	)

	var events []oddsEvent
	if err := c.get(ctx, eventsURL, &events); err != nil {
		return nil, err
	}
	c.logger.WithField("events", len(events)).Info("Fetched event list from lines provider")

	table := models.LineTable{}
	bestDist := map[string]decimal.Decimal{}
	markets := ""
	for i, m := range propMarkets {
		if i > 0 {
			markets += ","
		}
		markets += m
	}

	for _, event := range events {
		if event.ID == "" {
			continue
		}

		propURL := fmt.Sprintf(
			"%s/sports/basketball_nba/events/%s/odds?apiKey=%s&regions=%s&markets=%s&oddsFormat=american",
			c.baseURL, event.ID, c.apiKey, c.regions, markets,
		)

		var detail oddsEventDetail
		if err := c.get(ctx, propURL, &detail); err != nil {
			c.logger.WithFields(logrus.Fields{
				"event_id": event.ID,
				"error":    err.Error(),
			}).Warn("Failed to fetch props for event")
			continue
		}

		for _, bookmaker := range detail.Bookmakers {
			for _, market := range bookmaker.Markets {
				statKey, ok := marketToStat[market.Key]
				if !ok {
					continue
				}
				for _, outcome := range market.Outcomes {
					if outcome.Name != "Over" || outcome.Description == "" || outcome.Point == nil {
						continue
					}
					nameKey := lines.Normalize(outcome.Description)
					if nameKey == "" {
						continue
					}
					if _, ok := table[nameKey]; !ok {
						table[nameKey] = models.StatLines{}
					}

					// Unpriced outcomes rank behind any priced one
					distKey := nameKey + "|" + string(statKey)
					dist := decimal.NewFromInt(1 << 20)
					if outcome.Price != nil {
						dist = outcome.Price.Sub(standardJuice).Abs()
					}

					if prev, seen := bestDist[distKey]; !seen || dist.LessThan(prev) {
						table[nameKey][statKey] = *outcome.Point
						bestDist[distKey] = dist
					}
				}
			}
		}
	}

	c.logger.WithField("players", len(table)).Info("Fetched prop lines")
	return table, nil
}
