package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharp-props/internal/config"
	"github.com/yourusername/sharp-props/internal/datasource"
	"github.com/yourusername/sharp-props/internal/features"
	"github.com/yourusername/sharp-props/internal/leaguectx"
	"github.com/yourusername/sharp-props/internal/lines"
	"github.com/yourusername/sharp-props/internal/logger"
	"github.com/yourusername/sharp-props/internal/metrics"
	"github.com/yourusername/sharp-props/internal/models"
	"github.com/yourusername/sharp-props/internal/predictor"
	"github.com/yourusername/sharp-props/internal/repository"
)

// ModelScorer abstracts the model service for the prediction run. A nil
// scorer or a failed score degrades a prediction to weighted-average-only;
// it never fails the run.
type ModelScorer interface {
	Score(ctx context.Context, playerID int64, gameDate time.Time, stat models.StatKey, features []float64) (float64, error)
}

// PredictionRunReport summarizes one prediction run
type PredictionRunReport struct {
	GameDate         time.Time
	Games            int
	Predictions      int
	WithLines        int
	EnsembleUsed     int
	WeightedAvgOnly  int
	InsufficientData int
	TeamTotals       int
	Duration         time.Duration
}

// PredictionService runs the daily slate: resolve context, refresh
// snapshots, score, and store over/under projections.
type PredictionService struct {
	gameRepo       repository.GameRepository
	gameLogRepo    repository.GameLogRepository
	predictionRepo repository.PredictionRepository
	injuryRepo     repository.InjuryRepository
	processor      *StatsProcessor
	linesProvider  datasource.LinesProvider
	scorer         ModelScorer
	ensemble       *predictor.Ensemble
	resolver       *leaguectx.Resolver
	cfg            *config.PredictionConfig
	log            *logger.RunLogger
}

// NewPredictionService creates a new prediction service. linesProvider and
// scorer may be nil; the run then proceeds without lines or model scores.
func NewPredictionService(
	repos *repository.Repositories,
	processor *StatsProcessor,
	linesProvider datasource.LinesProvider,
	scorer ModelScorer,
	cfg *config.PredictionConfig,
	baseLogger *logrus.Logger,
) *PredictionService {
	return &PredictionService{
		gameRepo:       repos.Game,
		gameLogRepo:    repos.GameLog,
		predictionRepo: repos.Prediction,
		injuryRepo:     repos.Injury,
		processor:      processor,
		linesProvider:  linesProvider,
		scorer:         scorer,
		ensemble:       predictor.New(),
		resolver:       leaguectx.NewResolver(),
		cfg:            cfg,
		log:            logger.NewRunLogger(baseLogger, "prediction_service"),
	}
}

// slateEntry is one team's side of a scheduled game.
type slateEntry struct {
	game       *models.Game
	opponentID int64
	isHome     bool
}

// RunPredictions produces projections for every rostered player on the
// given slate. Rolling snapshots are refreshed before each player is
// scored, so no projection reads a stale snapshot.
func (s *PredictionService) RunPredictions(ctx context.Context, date time.Time) (*PredictionRunReport, error) {
	start := time.Now()
	date = truncateToDay(date)
	report := &PredictionRunReport{GameDate: date}

	games, err := s.gameRepo.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load slate: %w", err)
	}
	report.Games = len(games)
	if len(games) == 0 {
		s.log.WithField("date", date.Format("2006-01-02")).Info("No games scheduled, skipping prediction run")
		return report, nil
	}

	lineTable := s.fetchLines(ctx)
	contexts := s.resolveContexts(ctx, date)

	slate := map[int64]slateEntry{}
	for _, g := range games {
		slate[g.HomeTeamID] = slateEntry{game: g, opponentID: g.VisitorTeamID, isHome: true}
		slate[g.VisitorTeamID] = slateEntry{game: g, opponentID: g.HomeTeamID, isHome: false}
	}

	rosterSince := date.AddDate(0, 0, -s.cfg.RosterLookbackDays)
	playerIDs, err := s.gameLogRepo.ActivePlayerIDs(ctx, rosterSince)
	if err != nil {
		return nil, fmt.Errorf("failed to list active players: %w", err)
	}

	for _, playerID := range playerIDs {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		s.predictPlayer(ctx, playerID, date, slate, contexts, lineTable, report)
	}

	s.predictTeamTotals(ctx, date, games, report)

	report.Duration = time.Since(start)
	metrics.RecordPredictionRun(report.Games, report.Duration.Seconds())
	s.log.LogPredictionRun(
		date.Format("2006-01-02"),
		report.Games, report.Predictions, report.WithLines,
		report.EnsembleUsed, report.WeightedAvgOnly, report.InsufficientData,
	)
	return report, nil
}

// fetchLines pulls the prop line table; failures degrade to an empty table.
func (s *PredictionService) fetchLines(ctx context.Context) models.LineTable {
	if s.linesProvider == nil {
		return models.LineTable{}
	}
	table, err := s.linesProvider.FetchPropLines(ctx)
	if err != nil {
		s.log.WithField("error", err.Error()).Warn("Failed to fetch prop lines, predicting without lines")
		return models.LineTable{}
	}
	return table
}

// resolveContexts builds opponent contexts from the recent final games,
// their box scores and the latest injury report.
func (s *PredictionService) resolveContexts(ctx context.Context, date time.Time) map[int64]models.TeamContext {
	contextStart := date.AddDate(0, 0, -s.cfg.ContextLookbackDays)
	dayBefore := date.AddDate(0, 0, -1)

	finalGames, err := s.gameRepo.GetFinalByDateRange(ctx, contextStart, dayBefore)
	if err != nil {
		s.log.WithField("error", err.Error()).Warn("Failed to load context games, using neutral contexts")
		return map[int64]models.TeamContext{}
	}

	logs, err := s.gameLogRepo.GetByDateRange(ctx, contextStart, dayBefore)
	if err != nil {
		s.log.WithField("error", err.Error()).Warn("Failed to load context logs")
		logs = nil
	}

	injuries, err := s.injuryRepo.GetLatest(ctx)
	if err != nil {
		s.log.WithField("error", err.Error()).Warn("Failed to load injury report")
		injuries = nil
	}

	return s.resolver.Resolve(finalGames, logs, injuries)
}

// predictPlayer projects every predictable statistic for one player, if the
// player's team is on the slate.
func (s *PredictionService) predictPlayer(
	ctx context.Context,
	playerID int64,
	date time.Time,
	slate map[int64]slateEntry,
	contexts map[int64]models.TeamContext,
	lineTable models.LineTable,
	report *PredictionRunReport,
) {
	prior, err := s.gameLogRepo.GetByPlayerBefore(ctx, playerID, date, s.cfg.GameLogLimit)
	if err != nil || len(prior) == 0 {
		return
	}

	entry, plays := slate[prior[0].TeamID]
	if !plays {
		return
	}

	// Snapshot first: a projection must never read stale rolling stats
	snapshot, err := s.processor.ProcessPlayer(ctx, playerID)
	if err != nil {
		if !errors.Is(err, models.ErrInsufficientData) {
			s.log.WithFields(logrus.Fields{
				"player_id": playerID,
				"error":     err.Error(),
			}).Warn("Failed to refresh snapshot")
		}
		return
	}

	playerName := prior[0].PlayerName
	opponent := leaguectx.Lookup(contexts, entry.opponentID)

	vector, vecErr := features.Build(prior, features.GameContext{
		IsHome:   entry.isHome,
		GameDate: date,
	}, opponent)

	statLines, hasLines := lines.Match(playerName, lineTable)

	matchup := entry.game.Matchup()
	opponentAbbr := entry.game.HomeTeamAbbr
	if entry.isHome {
		opponentAbbr = entry.game.VisitorTeamAbbr
	}

	for _, stat := range models.PredictableStatKeys {
		var line *float64
		if hasLines {
			if v, ok := statLines[stat]; ok && v > 0 {
				l := v
				line = &l
			}
		}

		modelScore := s.score(ctx, playerID, date, stat, vector, vecErr)

		proj, err := s.ensemble.Predict(snapshot, stat, line, modelScore)
		if err != nil {
			if errors.Is(err, models.ErrInsufficientData) {
				report.InsufficientData++
			}
			continue
		}

		prediction := &models.Prediction{
			ID:              uuid.New(),
			PlayerID:        playerID,
			PlayerName:      playerName,
			TeamAbbr:        prior[0].TeamAbbr,
			Stat:            stat,
			GameID:          entry.game.ID,
			GameDate:        date,
			Opponent:        opponentAbbr,
			IsHome:          entry.isHome,
			Matchup:         matchup,
			PredictedValue:  proj.Value,
			Line:            proj.Line,
			EdgePct:         proj.EdgePct,
			Recommendation:  proj.Recommendation,
			ConfidenceScore: proj.ConfidenceScore,
			ConfidenceLabel: proj.ConfidenceLabel,
			Method:          proj.Method,
			ModelScore:      proj.ModelScore,
			WeightedAvg:     proj.WeightedAvg,
			Trend:           proj.Trend,
			Consistency:     proj.Consistency,
			Breakdown:       proj.Breakdown,
			CreatedAt:       time.Now().UTC(),
		}

		if err := s.predictionRepo.Insert(ctx, prediction); err != nil {
			s.log.WithFields(logrus.Fields{
				"player_id": playerID,
				"stat":      string(stat),
				"error":     err.Error(),
			}).Error("Failed to store prediction")
			continue
		}

		report.Predictions++
		if prediction.HasLine() {
			report.WithLines++
		}
		if proj.Method == models.MethodEnsemble {
			report.EnsembleUsed++
		} else {
			report.WeightedAvgOnly++
		}
		metrics.RecordPrediction(string(stat), string(proj.Method), prediction.HasLine())
	}
}

// score asks the model service for one statistic. PRA is a composite with
// no trained model; it and any scoring failure yield nil, which drops the
// projection to weighted-average-only.
func (s *PredictionService) score(ctx context.Context, playerID int64, date time.Time, stat models.StatKey, vector []float64, vecErr error) *float64 {
	if s.scorer == nil || stat == models.StatPRA || vecErr != nil || vector == nil {
		return nil
	}

	score, err := s.scorer.Score(ctx, playerID, date, stat, vector)
	if err != nil {
		if !errors.Is(err, models.ErrModelUnavailable) {
			s.log.WithFields(logrus.Fields{
				"player_id": playerID,
				"stat":      string(stat),
				"error":     err.Error(),
			}).Debug("Model score unavailable")
		}
		return nil
	}

	return &score
}

// predictTeamTotals projects final team scores for each side of the slate
// from their recent completed games.
func (s *PredictionService) predictTeamTotals(ctx context.Context, date time.Time, games []*models.Game, report *PredictionRunReport) {
	contextStart := date.AddDate(0, 0, -s.cfg.ContextLookbackDays*3)
	finalGames, err := s.gameRepo.GetFinalByDateRange(ctx, contextStart, date.AddDate(0, 0, -1))
	if err != nil {
		s.log.WithField("error", err.Error()).Warn("Failed to load games for team totals")
		return
	}

	// Most recent first for windowed means
	sort.Slice(finalGames, func(i, j int) bool {
		return finalGames[i].GameDate.After(finalGames[j].GameDate)
	})

	for _, g := range games {
		sides := []struct {
			teamID int64
			name   string
			abbr   string
		}{
			{g.HomeTeamID, g.HomeTeamName, g.HomeTeamAbbr},
			{g.VisitorTeamID, g.VisitorTeamName, g.VisitorTeamAbbr},
		}

		for _, side := range sides {
			var totals []float64
			for _, fg := range finalGames {
				if scored, ok := fg.ScoreFor(side.teamID); ok && scored > 0 {
					totals = append(totals, scored)
				}
			}

			prediction, avg5, avg10, avg20, err := s.ensemble.PredictTeamTotal(totals)
			if err != nil {
				continue
			}

			total := &models.TeamTotalPrediction{
				ID:             uuid.New(),
				TeamID:         side.teamID,
				TeamName:       side.name,
				TeamAbbr:       side.abbr,
				GameID:         g.ID,
				GameDate:       date,
				Matchup:        g.Matchup(),
				PredictedTotal: prediction,
				Last5Avg:       avg5,
				Last10Avg:      avg10,
				Last20Avg:      avg20,
				CreatedAt:      time.Now().UTC(),
			}

			if err := s.predictionRepo.InsertTeamTotal(ctx, total); err != nil {
				s.log.WithFields(logrus.Fields{
					"team_id": side.teamID,
					"error":   err.Error(),
				}).Error("Failed to store team total")
				continue
			}
			report.TeamTotals++
			metrics.RecordTeamTotal()
		}
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
