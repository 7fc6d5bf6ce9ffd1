// Package reconciler orchestrates the prediction lifecycle: fetching
// stat lines, predicting upcoming games, and folding actual results
// back into stored predictions.
package reconciler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"nhl_predictor/backend/internal/cache"
	"nhl_predictor/backend/internal/client"
	"nhl_predictor/backend/internal/config"
	"nhl_predictor/backend/internal/engine"
	"nhl_predictor/backend/internal/metrics"
	"nhl_predictor/backend/internal/models"
	"nhl_predictor/backend/internal/repository"

	"github.com/rs/zerolog/log"
)

// Reconciler ties the API clients, the model, and the database
// together. The cache is optional: a nil cache means every stats
// lookup goes to the API.
type Reconciler struct {
	cfg   *config.Config
	stats *client.StatsClient
	games *client.GameClient
	db    *repository.Database
	cache *cache.Cache
}

// New creates a reconciler
func New(cfg *config.Config, stats *client.StatsClient, games *client.GameClient, db *repository.Database, statsCache *cache.Cache) *Reconciler {
	return &Reconciler{
		cfg:   cfg,
		stats: stats,
		games: games,
		db:    db,
		cache: statsCache,
	}
}

// FetchTeamStats returns the normalized current-season stat line for a
// team, consulting the cache first.
func (r *Reconciler) FetchTeamStats(ctx context.Context, teamID int) (models.TeamStats, error) {
	if r.cache != nil {
		if stats, ok := r.cache.GetTeamStats(ctx, teamID); ok {
			return stats, nil
		}
	}

	stats, err := r.stats.FetchTeamStats(ctx, teamID)
	if err != nil {
		return models.TeamStats{}, err
	}

	if r.cache != nil {
		r.cache.SetTeamStats(ctx, teamID, stats)
	}

	return stats, nil
}

// PredictGame computes a prediction for the matchup. Both stat lines
// are fetched concurrently. If either team's stats are unavailable the
// neutral default is returned rather than an error: the caller always
// gets a prediction.
func (r *Reconciler) PredictGame(ctx context.Context, homeTeamID, awayTeamID int) models.PredictionResult {
	var (
		wg      sync.WaitGroup
		home    models.TeamStats
		away    models.TeamStats
		homeErr error
		awayErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		home, homeErr = r.FetchTeamStats(ctx, homeTeamID)
	}()
	go func() {
		defer wg.Done()
		away, awayErr = r.FetchTeamStats(ctx, awayTeamID)
	}()
	wg.Wait()

	if homeErr != nil || awayErr != nil {
		log.Warn().
			AnErr("home_err", homeErr).
			AnErr("away_err", awayErr).
			Int("home_team_id", homeTeamID).
			Int("away_team_id", awayTeamID).
			Msg("Stats unavailable, returning neutral prediction")
		metrics.RecordError("reconciler", "stats_unavailable")
		metrics.RecordPrediction("fallback")
		return engine.NeutralResult()
	}

	metrics.RecordPrediction("computed")
	return engine.Predict(home, away)
}

// PredictTodaysGames predicts every game on today's slate that does
// not already have a stored prediction. Returns the number of new
// predictions saved. Per-game failures are logged and skipped so one
// bad game never blocks the slate.
func (r *Reconciler) PredictTodaysGames(ctx context.Context) (int, error) {
	start := time.Now()

	events, err := r.games.FetchGamesOn(ctx, time.Now().UTC())
	if err != nil {
		metrics.RecordReconcile("predict", "error", time.Since(start).Seconds())
		return 0, fmt.Errorf("failed to fetch today's games: %w", err)
	}

	log.Info().Int("games", len(events)).Msg("Fetched today's slate")

	saved := 0
	for i := range events {
		event := &events[i]

		gameID, ok := event.GameID()
		if !ok {
			log.Warn().Str("event_id", event.ID).Msg("Unparseable game id, skipping")
			continue
		}

		exists, err := r.db.Predictions.Exists(ctx, gameID)
		if err != nil {
			log.Error().Err(err).Int("game_id", gameID).Msg("Failed to check for existing prediction")
			metrics.RecordError("reconciler", "db_error")
			continue
		}
		if exists {
			log.Debug().Int("game_id", gameID).Msg("Prediction already stored, skipping")
			continue
		}

		home, homeOK := event.Competitor("home")
		away, awayOK := event.Competitor("away")
		if !homeOK || !awayOK {
			log.Warn().Int("game_id", gameID).Msg("Event missing competitors, skipping")
			continue
		}

		espnHomeID, homeOK := home.TeamID()
		espnAwayID, awayOK := away.TeamID()
		if !homeOK || !awayOK {
			log.Warn().Int("game_id", gameID).Msg("Event has unparseable team ids, skipping")
			continue
		}

		// Scoreboard ids are ESPN ids; stats lookups and stored rows
		// use NHL ids.
		homeTeamID, homeOK := models.NHLTeamID(espnHomeID)
		awayTeamID, awayOK := models.NHLTeamID(espnAwayID)
		if !homeOK || !awayOK {
			log.Warn().
				Int("game_id", gameID).
				Int("espn_home_id", espnHomeID).
				Int("espn_away_id", espnAwayID).
				Msg("No NHL id mapping for team, skipping")
			metrics.RecordError("reconciler", "unmapped_team")
			continue
		}

		result := r.PredictGame(ctx, homeTeamID, awayTeamID)

		pred := result.ToPrediction(gameID, homeTeamID, awayTeamID, event.StartTime(), models.GameStatusScheduled)
		if err := r.db.Predictions.Save(ctx, pred); err != nil {
			log.Error().Err(err).Int("game_id", gameID).Msg("Failed to save prediction")
			metrics.RecordError("reconciler", "db_error")
			continue
		}

		saved++
	}

	metrics.RecordReconcile("predict", "success", time.Since(start).Seconds())
	log.Info().
		Int("saved", saved).
		Dur("duration", time.Since(start)).
		Msg("Slate prediction complete")

	return saved, nil
}

// upcomingWindowDays is how far ahead ListUpcomingGames looks
const upcomingWindowDays = 7

// ListUpcomingGames returns games from today through the next week
// that have not finished yet.
func (r *Reconciler) ListUpcomingGames(ctx context.Context) ([]models.GameEvent, error) {
	now := time.Now().UTC()
	events, err := r.games.FetchGames(ctx, now, now.AddDate(0, 0, upcomingWindowDays))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch upcoming games: %w", err)
	}

	upcoming := make([]models.GameEvent, 0, len(events))
	for i := range events {
		if events[i].IsCompleted() {
			continue
		}
		upcoming = append(upcoming, events[i])
	}

	return upcoming, nil
}

// ListCompletedGames fetches the scoreboard for yesterday and today
// and returns the games that finished with usable scores.
func (r *Reconciler) ListCompletedGames(ctx context.Context) ([]*models.CompletedGame, error) {
	now := time.Now().UTC()
	events, err := r.games.FetchGames(ctx, now.AddDate(0, 0, -1), now)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent games: %w", err)
	}

	var completed []*models.CompletedGame
	for i := range events {
		if !events[i].IsCompleted() {
			continue
		}
		if game, ok := events[i].ToCompletedGame(); ok {
			completed = append(completed, game)
		}
	}

	return completed, nil
}

// UpdateResults applies finished-game scores to stored predictions.
// When the scoreboard window yields no updates, the configured
// fallback game ids are re-checked individually through the per-game
// summary endpoint. Accuracy maintenance runs at the end of every pass
// regardless of how many results landed.
func (r *Reconciler) UpdateResults(ctx context.Context) (int, error) {
	start := time.Now()

	completed, err := r.ListCompletedGames(ctx)
	if err != nil {
		metrics.RecordReconcile("results", "error", time.Since(start).Seconds())
		return 0, err
	}

	log.Info().Int("completed_games", len(completed)).Msg("Scanning completed games for stored predictions")

	updated := 0
	for _, game := range completed {
		n, err := r.applyResult(ctx, game)
		if err != nil {
			log.Error().Err(err).Int("game_id", game.GameID).Msg("Failed to record game result")
			metrics.RecordError("reconciler", "db_error")
			continue
		}
		updated += n
	}

	if updated == 0 && len(r.cfg.FallbackGameIDs) > 0 {
		log.Info().
			Ints("game_ids", r.cfg.FallbackGameIDs).
			Msg("No results from scoreboard window, trying fallback game ids")
		updated += r.updateFromFallback(ctx)
	}

	// Maintenance runs even when nothing was updated: earlier passes
	// may have left accuracy below the threshold.
	if _, err := r.db.Predictions.CleanupInaccurate(ctx, r.cfg.AccuracyThresholdPct); err != nil {
		log.Error().Err(err).Msg("Accuracy maintenance failed")
		metrics.RecordError("reconciler", "cleanup_error")
	}

	metrics.RecordReconcile("results", "success", time.Since(start).Seconds())
	log.Info().
		Int("updated", updated).
		Dur("duration", time.Since(start)).
		Msg("Result reconciliation complete")

	return updated, nil
}

// applyResult records one finished game's outcome on its stored
// prediction rows. Games without a stored prediction update nothing.
func (r *Reconciler) applyResult(ctx context.Context, game *models.CompletedGame) (int, error) {
	pred, err := r.db.Predictions.GetByGameID(ctx, game.GameID)
	if err != nil {
		return 0, err
	}
	if pred == nil {
		return 0, nil
	}

	// Skip only when every row already carries an outcome; legacy
	// duplicate rows behind a reconciled one still need theirs.
	needs, err := r.db.Predictions.NeedsResult(ctx, game.GameID)
	if err != nil {
		return 0, err
	}
	if !needs {
		return 0, nil
	}

	return r.db.Predictions.UpdateResult(ctx, game.GameID, pred.ResultFor(game))
}

// updateFromFallback re-checks the configured game ids one by one
// through the per-game summary endpoint. Failures are logged and
// skipped.
func (r *Reconciler) updateFromFallback(ctx context.Context) int {
	updated := 0
	for _, gameID := range r.cfg.FallbackGameIDs {
		summary, err := r.games.FetchGameSummary(ctx, gameID)
		if err != nil {
			log.Warn().Err(err).Int("game_id", gameID).Msg("Fallback summary fetch failed")
			continue
		}

		event := summary.Event()
		if !event.IsCompleted() {
			log.Debug().Int("game_id", gameID).Msg("Fallback game not completed yet")
			continue
		}

		game, ok := event.ToCompletedGame()
		if !ok {
			continue
		}

		n, err := r.applyResult(ctx, game)
		if err != nil {
			log.Error().Err(err).Int("game_id", gameID).Msg("Failed to record fallback result")
			continue
		}
		updated += n
	}
	return updated
}
