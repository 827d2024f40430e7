// Package notifier delivers daily slate summaries to a chat webhook.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharp-props/internal/config"
	"github.com/yourusername/sharp-props/internal/metrics"
	"github.com/yourusername/sharp-props/internal/models"
	"github.com/yourusername/sharp-props/internal/verify"
)

const (
	defaultMaxPicks     = 15
	defaultAccuracyDays = 7
	maxOvers            = 8
	maxUnders           = 7
	// Discord caps embed descriptions at 4096 characters.
	descriptionLimit = 4000
)

// PredictionSource supplies the day's stored predictions.
type PredictionSource interface {
	GetByDate(ctx context.Context, date time.Time) ([]*models.Prediction, error)
}

// AccuracySource supplies the trailing settled-pick accuracy.
type AccuracySource interface {
	AccuracySummary(ctx context.Context, days int) (verify.AccuracySummary, error)
}

// embed is the Discord embed wire format, the subset the notifier uses.
type embed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
	Footer      *struct {
		Text string `json:"text"`
	} `json:"footer,omitempty"`
}

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

// DiscordNotifier posts the day's top actionable picks to a Discord-style
// webhook, ranked by confidence and edge.
type DiscordNotifier struct {
	cfg         *config.NotifierConfig
	predictions PredictionSource
	accuracy    AccuracySource
	httpClient  *http.Client
	logger      *logrus.Logger
}

// NewDiscordNotifier creates a notifier. The accuracy source may be nil;
// the footer then omits the trailing record.
func NewDiscordNotifier(
	cfg *config.NotifierConfig,
	predictions PredictionSource,
	accuracy AccuracySource,
	logger *logrus.Logger,
) *DiscordNotifier {
	return &DiscordNotifier{
		cfg:         cfg,
		predictions: predictions,
		accuracy:    accuracy,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		logger:      logger,
	}
}

// NotifySlate loads the date's predictions, formats the top picks and posts
// them to the webhook. A disabled or unconfigured notifier is a no-op.
func (n *DiscordNotifier) NotifySlate(ctx context.Context, date time.Time) error {
	if n.cfg == nil || !n.cfg.Enabled || n.cfg.WebhookURL == "" {
		return nil
	}

	all, err := n.predictions.GetByDate(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to load predictions for notification: %w", err)
	}

	picks := actionablePicks(all)
	payload := n.buildPayload(ctx, date, picks)

	if err := n.post(ctx, payload); err != nil {
		return err
	}

	metrics.RecordNotificationSent()
	n.logger.WithFields(logrus.Fields{
		"date":  date.Format("2006-01-02"),
		"picks": len(picks),
	}).Info("Slate notification sent")
	return nil
}

// actionablePicks filters to lined, non-HOLD predictions and ranks them by
// confidence, breaking ties on absolute edge.
func actionablePicks(all []*models.Prediction) []*models.Prediction {
	picks := make([]*models.Prediction, 0, len(all))
	for _, p := range all {
		if p.IsActionable() {
			picks = append(picks, p)
		}
	}
	sort.Slice(picks, func(i, j int) bool {
		if picks[i].ConfidenceScore != picks[j].ConfidenceScore {
			return picks[i].ConfidenceScore > picks[j].ConfidenceScore
		}
		return abs(picks[i].EdgePct) > abs(picks[j].EdgePct)
	})
	return picks
}

func (n *DiscordNotifier) buildPayload(ctx context.Context, date time.Time, picks []*models.Prediction) webhookPayload {
	heading := date.Format("Monday, January 2, 2006")

	if len(picks) == 0 {
		return webhookPayload{Embeds: []embed{{
			Title:       "No Strong Picks Today",
			Description: fmt.Sprintf("No high-confidence picks for %s. Check back tomorrow.", heading),
			Color:       0x3498db,
		}}}
	}

	// Cap overs and unders separately so one side cannot crowd out the other.
	maxPicks := n.cfg.MaxPicks
	if maxPicks <= 0 {
		maxPicks = defaultMaxPicks
	}
	var overs, unders []*models.Prediction
	for _, p := range picks {
		switch p.Recommendation {
		case models.RecommendOver:
			if len(overs) < maxOvers {
				overs = append(overs, p)
			}
		case models.RecommendUnder:
			if len(unders) < maxUnders {
				unders = append(unders, p)
			}
		}
	}
	top := append(append([]*models.Prediction{}, overs...), unders...)
	if len(top) > maxPicks {
		top = top[:maxPicks]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n", heading)
	fmt.Fprintf(&b, "%d Overs | %d Unders | %d High Confidence\n\n",
		countRec(picks, models.RecommendOver),
		countRec(picks, models.RecommendUnder),
		countLabel(picks, models.ConfidenceHigh),
	)
	for i, p := range top {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "**%s** (%s) — %s **%s** %.1f\n",
			p.PlayerName, p.TeamAbbr, p.Stat.Label(), p.Recommendation, *p.Line)
		fmt.Fprintf(&b, "Pred: %.1f | Edge: %+.1f%% | %s", p.PredictedValue, p.EdgePct, p.ConfidenceLabel)
	}

	description := b.String()
	if len(description) > descriptionLimit {
		description = description[:descriptionLimit-3] + "..."
	}

	e := embed{
		Title:       "Today's Top Picks",
		Description: description,
		Color:       0x00ff88,
	}
	e.Footer = &struct {
		Text string `json:"text"`
	}{Text: n.accuracyFooter(ctx)}

	return webhookPayload{Embeds: []embed{e}}
}

func (n *DiscordNotifier) accuracyFooter(ctx context.Context) string {
	days := n.cfg.AccuracyDays
	if days <= 0 {
		days = defaultAccuracyDays
	}
	if n.accuracy == nil {
		return "Over/Under Prediction Engine"
	}
	summary, err := n.accuracy.AccuracySummary(ctx, days)
	if err != nil || summary.Correct+summary.Incorrect == 0 {
		return "Accuracy tracking starts after first verified day"
	}
	return fmt.Sprintf("Last %d days: %.1f%% (%d/%d)",
		days, summary.AccuracyPct, summary.Correct, summary.Correct+summary.Incorrect)
}

func (n *DiscordNotifier) post(ctx context.Context, payload webhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post webhook: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func countRec(picks []*models.Prediction, rec models.Recommendation) int {
	count := 0
	for _, p := range picks {
		if p.Recommendation == rec {
			count++
		}
	}
	return count
}

func countLabel(picks []*models.Prediction, label models.ConfidenceLabel) int {
	count := 0
	for _, p := range picks {
		if p.ConfidenceLabel == label {
			count++
		}
	}
	return count
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
