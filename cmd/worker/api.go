package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"nhl_predictor/backend/internal/config"
	"nhl_predictor/backend/internal/reconciler"
	"nhl_predictor/backend/internal/repository"

	"github.com/rs/zerolog/log"
)

const defaultRecentLimit = 20

// apiServer exposes predictions over HTTP
type apiServer struct {
	rec *reconciler.Reconciler
	db  *repository.Database
}

func newAPIServer(cfg *config.Config, rec *reconciler.Reconciler, db *repository.Database) *http.Server {
	s := &apiServer{rec: rec, db: db}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/predict/", s.handlePredict)
	mux.HandleFunc("/api/accuracy", s.handleAccuracy)
	mux.HandleFunc("/api/predictions/recent", s.handleRecent)
	mux.HandleFunc("/api/games/upcoming", s.handleUpcoming)
	mux.HandleFunc("/api/stats/", s.handleTeamStats)
	mux.HandleFunc("/health", s.handleHealth)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.APIPort),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode API response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handlePredict serves GET /api/predict/{homeTeamID}/{awayTeamID}
func (s *apiServer) handlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/predict/"), "/")
	if len(parts) != 2 {
		writeError(w, http.StatusBadRequest, "expected /api/predict/{homeTeamID}/{awayTeamID}")
		return
	}

	homeTeamID, err := strconv.Atoi(parts[0])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid home team id")
		return
	}
	awayTeamID, err := strconv.Atoi(parts[1])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid away team id")
		return
	}

	result := s.rec.PredictGame(r.Context(), homeTeamID, awayTeamID)
	writeJSON(w, http.StatusOK, result)
}

// handleAccuracy serves GET /api/accuracy
func (s *apiServer) handleAccuracy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	summary, err := s.db.Predictions.Accuracy(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Accuracy query failed")
		writeError(w, http.StatusInternalServerError, "failed to compute accuracy")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// handleRecent serves GET /api/predictions/recent?limit=N
func (s *apiServer) handleRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 100 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	preds, err := s.db.Predictions.Recent(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("Recent predictions query failed")
		writeError(w, http.StatusInternalServerError, "failed to load predictions")
		return
	}

	writeJSON(w, http.StatusOK, preds)
}

// handleUpcoming serves GET /api/games/upcoming
func (s *apiServer) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	games, err := s.rec.ListUpcomingGames(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Upcoming games fetch failed")
		writeError(w, http.StatusBadGateway, "failed to load upcoming games")
		return
	}

	writeJSON(w, http.StatusOK, games)
}

// handleTeamStats serves GET /api/stats/{teamID}
func (s *apiServer) handleTeamStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	teamID, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/stats/"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid team id")
		return
	}

	stats, err := s.rec.FetchTeamStats(r.Context(), teamID)
	if err != nil {
		log.Warn().Err(err).Int("team_id", teamID).Msg("Team stats unavailable")
		writeError(w, http.StatusNotFound, "team stats unavailable")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// handleHealth serves GET /health with database pool status
func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Health(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"pool":   s.db.PoolStats(),
	})
}
