// Package api serves predictions, player stats and accuracy data to the
// dashboard frontend.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharp-props/internal/config"
	"github.com/yourusername/sharp-props/internal/models"
	"github.com/yourusername/sharp-props/internal/repository"
	"github.com/yourusername/sharp-props/internal/verify"
)

const (
	defaultAccuracyDays = 30
	gameLogLimit        = 20
)

var dateParamPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// AccuracySource supplies the trailing settled-pick accuracy.
type AccuracySource interface {
	AccuracySummary(ctx context.Context, days int) (verify.AccuracySummary, error)
}

// Server is the read-only dashboard HTTP server.
type Server struct {
	cfg      *config.APIConfig
	repos    *repository.Repositories
	accuracy AccuracySource
	server   *http.Server
	logger   *logrus.Logger
}

// NewServer creates a dashboard API server over the stores.
func NewServer(cfg *config.APIConfig, repos *repository.Repositories, accuracy AccuracySource, logger *logrus.Logger) *Server {
	return &Server{
		cfg:      cfg,
		repos:    repos,
		accuracy: accuracy,
		logger:   logger,
	}
}

// Routes returns the server's handler, exposed for tests.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /predictions", s.handlePredictions)
	mux.HandleFunc("GET /predictions/{date}", s.handlePredictionsByDate)
	mux.HandleFunc("GET /players/{playerId}/stats", s.handlePlayerStats)
	mux.HandleFunc("GET /accuracy", s.handleAccuracy)
	mux.HandleFunc("GET /teams", s.handleTeams)
	return s.withCORS(mux)
}

// Start runs the server until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	port := s.cfg.Port
	if port == 0 {
		port = 8090
	}

	s.server = &http.Server{
		Addr:         ":" + strconv.Itoa(port),
		Handler:      s.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.server.Shutdown(shutdownCtx)
	}()

	s.logger.WithField("port", port).Info("Dashboard API server starting")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	origin := s.cfg.AllowedOrigin
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Error("Failed to encode API response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// predictionsResponse is the /predictions payload: props sorted by
// confidence, with high-confidence picks surfaced separately.
type predictionsResponse struct {
	Date             string                        `json:"date"`
	PlayerProps      []*models.Prediction          `json:"player_props"`
	TeamTotals       []*models.TeamTotalPrediction `json:"team_totals"`
	TotalPredictions int                           `json:"total_predictions"`
	HighConfidence   []*models.Prediction          `json:"high_confidence"`
}

func (s *Server) handlePredictions(w http.ResponseWriter, r *http.Request) {
	s.servePredictions(w, r, time.Now().UTC().Format("2006-01-02"))
}

func (s *Server) handlePredictionsByDate(w http.ResponseWriter, r *http.Request) {
	s.servePredictions(w, r, r.PathValue("date"))
}

func (s *Server) servePredictions(w http.ResponseWriter, r *http.Request, dateStr string) {
	if !dateParamPattern.MatchString(dateStr) {
		s.writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	props, err := s.repos.Prediction.GetByDate(r.Context(), date)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load predictions")
		s.writeError(w, http.StatusInternalServerError, "failed to load predictions")
		return
	}

	totals, err := s.repos.Prediction.GetTeamTotalsByDate(r.Context(), date)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load team totals")
		s.writeError(w, http.StatusInternalServerError, "failed to load team totals")
		return
	}

	sort.Slice(props, func(i, j int) bool {
		return props[i].ConfidenceScore > props[j].ConfidenceScore
	})

	high := make([]*models.Prediction, 0)
	for _, p := range props {
		if p.ConfidenceLabel == models.ConfidenceHigh {
			high = append(high, p)
		}
	}

	s.writeJSON(w, http.StatusOK, predictionsResponse{
		Date:             dateStr,
		PlayerProps:      props,
		TeamTotals:       totals,
		TotalPredictions: len(props) + len(totals),
		HighConfidence:   high,
	})
}

// playerStatsResponse is the /players/{id}/stats payload: recent game logs
// plus the latest rolling snapshot.
type playerStatsResponse struct {
	PlayerID       int64                   `json:"player_id"`
	PlayerName     string                  `json:"player_name"`
	TeamAbbr       string                  `json:"team_abbr"`
	GameLogs       []*models.PlayerGameLog `json:"game_logs"`
	ProcessedStats *models.ProcessedStats  `json:"processed_stats"`
}

func (s *Server) handlePlayerStats(w http.ResponseWriter, r *http.Request) {
	playerID, err := strconv.ParseInt(r.PathValue("playerId"), 10, 64)
	if err != nil || playerID <= 0 {
		s.writeError(w, http.StatusBadRequest, "invalid player id")
		return
	}

	logs, err := s.repos.GameLog.GetByPlayer(r.Context(), playerID, gameLogLimit)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load game logs")
		s.writeError(w, http.StatusInternalServerError, "failed to load game logs")
		return
	}

	response := playerStatsResponse{PlayerID: playerID, GameLogs: logs}
	if len(logs) > 0 {
		response.PlayerName = logs[0].PlayerName
		response.TeamAbbr = logs[0].TeamAbbr
	}

	processed, err := s.repos.ProcessedStats.GetByPlayerID(r.Context(), playerID)
	if err == nil {
		response.ProcessedStats = processed
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleAccuracy(w http.ResponseWriter, r *http.Request) {
	days := s.cfg.AccuracyDays
	if days <= 0 {
		days = defaultAccuracyDays
	}

	summary, err := s.accuracy.AccuracySummary(r.Context(), days)
	if err != nil {
		s.logger.WithError(err).Error("Failed to compute accuracy")
		s.writeError(w, http.StatusInternalServerError, "failed to compute accuracy")
		return
	}

	type accuracyResponse struct {
		verify.AccuracySummary
		DaysTracked int    `json:"days_tracked"`
		Message     string `json:"message,omitempty"`
	}
	response := accuracyResponse{AccuracySummary: summary, DaysTracked: days}
	if summary.Total == 0 {
		response.Message = "No tracked results yet. Accuracy will populate as predictions are verified."
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.repos.Team.List(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("Failed to load teams")
		s.writeError(w, http.StatusInternalServerError, "failed to load teams")
		return
	}
	s.writeJSON(w, http.StatusOK, teams)
}
