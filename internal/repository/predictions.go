package repository

import (
	"context"
	"errors"
	"fmt"

	"nhl_predictor/backend/internal/metrics"
	"nhl_predictor/backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// PredictionRepository handles prediction-related database operations
type PredictionRepository struct {
	db *Database
}

const predictionColumns = `
	id, game_id, home_team_id, away_team_id,
	predicted_home_score, predicted_away_score,
	home_win_probability, away_win_probability, confidence,
	game_start_time, game_status,
	actual_home_score, actual_away_score, was_correct,
	created_at
`

func scanPrediction(row pgx.Row) (*models.Prediction, error) {
	pred := &models.Prediction{}
	err := row.Scan(
		&pred.ID, &pred.GameID, &pred.HomeTeamID, &pred.AwayTeamID,
		&pred.PredictedHomeScore, &pred.PredictedAwayScore,
		&pred.HomeWinProbability, &pred.AwayWinProbability, &pred.Confidence,
		&pred.GameStartTime, &pred.GameStatus,
		&pred.ActualHomeScore, &pred.ActualAwayScore, &pred.WasCorrect,
		&pred.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return pred, nil
}

// Exists reports whether any prediction is stored for a game
func (r *PredictionRepository) Exists(ctx context.Context, gameID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM predictions WHERE game_id = $1)`

	var exists bool
	if err := r.db.Pool.QueryRow(ctx, query, gameID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check prediction existence: %w", err)
	}

	return exists, nil
}

// NeedsResult reports whether any stored row for the game still lacks
// a reconciled outcome. Checked across all rows, not just the newest:
// legacy duplicate rows predate the composite-key upsert and must
// still receive results.
func (r *PredictionRepository) NeedsResult(ctx context.Context, gameID int) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM predictions
			WHERE game_id = $1
			  AND (game_status != $2 OR was_correct IS NULL)
		)
	`

	var needs bool
	if err := r.db.Pool.QueryRow(ctx, query, gameID, models.GameStatusFinal).Scan(&needs); err != nil {
		return false, fmt.Errorf("failed to check pending results: %w", err)
	}

	return needs, nil
}

// Save inserts a prediction, or refreshes the existing row for the
// same matchup. The upsert keeps the original created_at so repeated
// runs of the daily job do not look like new predictions. A matchup
// whose row already reached FINAL is left untouched: FINAL rows only
// ever leave the table through the maintenance routines.
func (r *PredictionRepository) Save(ctx context.Context, pred *models.Prediction) error {
	if pred == nil {
		return fmt.Errorf("prediction cannot be nil")
	}
	if err := validatePrediction(pred); err != nil {
		return fmt.Errorf("prediction validation failed: %w", err)
	}

	query := `
		INSERT INTO predictions (
			game_id, home_team_id, away_team_id,
			predicted_home_score, predicted_away_score,
			home_win_probability, away_win_probability, confidence,
			game_start_time, game_status, created_at
		) VALUES (
			$1, $2, $3,
			$4, $5,
			$6, $7, $8,
			$9, $10, NOW()
		)
		ON CONFLICT (game_id, home_team_id, away_team_id) DO UPDATE SET
			predicted_home_score = EXCLUDED.predicted_home_score,
			predicted_away_score = EXCLUDED.predicted_away_score,
			home_win_probability = EXCLUDED.home_win_probability,
			away_win_probability = EXCLUDED.away_win_probability,
			confidence = EXCLUDED.confidence,
			game_start_time = EXCLUDED.game_start_time,
			game_status = EXCLUDED.game_status
		WHERE predictions.game_status != $11
		RETURNING id, created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		pred.GameID, pred.HomeTeamID, pred.AwayTeamID,
		pred.PredictedHomeScore, pred.PredictedAwayScore,
		pred.HomeWinProbability, pred.AwayWinProbability, pred.Confidence,
		pred.GameStartTime, pred.GameStatus, models.GameStatusFinal,
	).Scan(&pred.ID, &pred.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		log.Debug().Int("game_id", pred.GameID).Msg("Matchup already FINAL, save skipped")
		return nil
	}
	if err != nil {
		log.Error().Err(err).Int("game_id", pred.GameID).Msg("Failed to save prediction")
		return fmt.Errorf("failed to save prediction: %w", err)
	}

	log.Info().
		Int("id", pred.ID).
		Int("game_id", pred.GameID).
		Float64("home_win_probability", pred.HomeWinProbability).
		Msg("Prediction saved")
	return nil
}

// GetByGameID retrieves the most recent prediction for a game.
// Returns nil when the game has no prediction.
func (r *PredictionRepository) GetByGameID(ctx context.Context, gameID int) (*models.Prediction, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM predictions
		WHERE game_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	pred, err := scanPrediction(r.db.Pool.QueryRow(ctx, query, gameID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}

	return pred, nil
}

// Recent returns the newest predictions first, up to limit
func (r *PredictionRepository) Recent(ctx context.Context, limit int) ([]*models.Prediction, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM predictions
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent predictions: %w", err)
	}
	defer rows.Close()

	var preds []*models.Prediction
	for rows.Next() {
		pred, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		preds = append(preds, pred)
	}

	return preds, rows.Err()
}

// Completed returns finished predictions with recorded scores, newest
// game first.
func (r *PredictionRepository) Completed(ctx context.Context) ([]*models.Prediction, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM predictions
		WHERE game_status = $1
		  AND actual_home_score IS NOT NULL
		  AND actual_away_score IS NOT NULL
		ORDER BY game_start_time DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, models.GameStatusFinal)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed predictions: %w", err)
	}
	defer rows.Close()

	var preds []*models.Prediction
	for rows.Next() {
		pred, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		preds = append(preds, pred)
	}

	return preds, rows.Err()
}

// UpdateResult records the actual outcome on every stored prediction
// row for a game. Duplicate rows for the same game all get the result,
// so accuracy bookkeeping stays consistent until the duplicate purge
// runs. Returns the number of rows updated.
func (r *PredictionRepository) UpdateResult(ctx context.Context, gameID int, result models.GameResult) (int, error) {
	query := `
		UPDATE predictions
		SET actual_home_score = $2,
		    actual_away_score = $3,
		    was_correct = $4,
		    game_status = $5
		WHERE game_id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		gameID,
		result.ActualHomeScore, result.ActualAwayScore,
		result.WasCorrect, result.GameStatus,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update prediction result: %w", err)
	}

	updated := int(tag.RowsAffected())
	if updated > 0 {
		log.Info().
			Int("game_id", gameID).
			Int("rows", updated).
			Bool("was_correct", result.WasCorrect).
			Msg("Prediction result recorded")
	}

	return updated, nil
}

// Accuracy computes the running accuracy over completed predictions
// with a recorded outcome. An empty table yields the zero summary, not
// an error.
func (r *PredictionRepository) Accuracy(ctx context.Context) (models.AccuracySummary, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE was_correct)
		FROM predictions
		WHERE game_status = $1
		  AND was_correct IS NOT NULL
	`

	var summary models.AccuracySummary
	err := r.db.Pool.QueryRow(ctx, query, models.GameStatusFinal).
		Scan(&summary.TotalGames, &summary.CorrectPredictions)
	if err != nil {
		return models.AccuracySummary{}, fmt.Errorf("failed to compute accuracy: %w", err)
	}

	if summary.TotalGames > 0 {
		summary.Accuracy = float64(summary.CorrectPredictions) / float64(summary.TotalGames) * 100
	}

	metrics.SetAccuracy(summary.Accuracy)
	return summary, nil
}

// CleanupDuplicates removes surplus prediction rows for games with
// more than one, keeping the newest row per game.
func (r *PredictionRepository) CleanupDuplicates(ctx context.Context) (models.DuplicateCleanupReport, error) {
	report := models.DuplicateCleanupReport{}

	countQuery := `
		SELECT COUNT(*)
		FROM (
			SELECT game_id
			FROM predictions
			GROUP BY game_id
			HAVING COUNT(*) > 1
		) dupes
	`
	if err := r.db.Pool.QueryRow(ctx, countQuery).Scan(&report.DuplicateGamesFound); err != nil {
		return report, fmt.Errorf("failed to count duplicate games: %w", err)
	}

	if report.DuplicateGamesFound == 0 {
		return report, nil
	}

	deleteQuery := `
		DELETE FROM predictions
		WHERE id NOT IN (
			SELECT DISTINCT ON (game_id) id
			FROM predictions
			ORDER BY game_id, created_at DESC
		)
	`
	tag, err := r.db.Pool.Exec(ctx, deleteQuery)
	if err != nil {
		return report, fmt.Errorf("failed to delete duplicate predictions: %w", err)
	}

	report.PredictionsRemoved = int(tag.RowsAffected())
	metrics.RecordCleanup("duplicate", report.PredictionsRemoved)

	log.Info().
		Int("duplicate_games", report.DuplicateGamesFound).
		Int("removed", report.PredictionsRemoved).
		Msg("Duplicate predictions cleaned up")

	return report, nil
}

// CleanupInaccurate deletes incorrect completed predictions, oldest
// game first, one at a time, until the running accuracy reaches
// thresholdPct or no incorrect rows remain. Deleting one at a time is
// deliberate: each removal changes the denominator, so the loop stops
// at the first state that clears the threshold.
func (r *PredictionRepository) CleanupInaccurate(ctx context.Context, thresholdPct float64) (models.AccuracyCleanupReport, error) {
	report := models.AccuracyCleanupReport{}

	before, err := r.Accuracy(ctx)
	if err != nil {
		return report, err
	}
	report.AccuracyBefore = before.Accuracy
	report.AccuracyAfter = before.Accuracy

	if before.TotalGames == 0 || before.Accuracy >= thresholdPct {
		return report, nil
	}

	deleteOldest := `
		DELETE FROM predictions
		WHERE id = (
			SELECT id
			FROM predictions
			WHERE game_status = $1
			  AND was_correct = FALSE
			ORDER BY game_start_time ASC
			LIMIT 1
		)
	`

	for {
		tag, err := r.db.Pool.Exec(ctx, deleteOldest, models.GameStatusFinal)
		if err != nil {
			return report, fmt.Errorf("failed to delete inaccurate prediction: %w", err)
		}
		if tag.RowsAffected() == 0 {
			break
		}
		report.Deleted++

		current, err := r.Accuracy(ctx)
		if err != nil {
			return report, err
		}
		report.AccuracyAfter = current.Accuracy

		if current.TotalGames == 0 || current.Accuracy >= thresholdPct {
			break
		}
	}

	if report.Deleted > 0 {
		metrics.RecordCleanup("inaccurate", report.Deleted)
		log.Info().
			Float64("accuracy_before", report.AccuracyBefore).
			Float64("accuracy_after", report.AccuracyAfter).
			Int("deleted", report.Deleted).
			Msg("Accuracy maintenance complete")
	}

	return report, nil
}

// validatePrediction ensures prediction data is valid before insertion
func validatePrediction(pred *models.Prediction) error {
	if pred.GameID <= 0 {
		return fmt.Errorf("game_id must be positive")
	}
	if pred.HomeTeamID <= 0 || pred.AwayTeamID <= 0 {
		return fmt.Errorf("team ids must be positive")
	}
	if pred.PredictedHomeScore < 0 || pred.PredictedAwayScore < 0 {
		return fmt.Errorf("predicted scores must be non-negative")
	}
	if pred.HomeWinProbability < 0 || pred.HomeWinProbability > 100 ||
		pred.AwayWinProbability < 0 || pred.AwayWinProbability > 100 {
		return fmt.Errorf("win probabilities must be between 0 and 100")
	}
	if pred.Confidence < 0 || pred.Confidence > 1 {
		return fmt.Errorf("confidence must be between 0 and 1")
	}
	if pred.GameStartTime.IsZero() {
		return fmt.Errorf("game_start_time is required")
	}
	return nil
}
