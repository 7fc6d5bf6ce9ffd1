// One-shot maintenance command: purge duplicate prediction rows and
// run accuracy maintenance. Intended for operators, the worker runs
// the same routines on its schedule.
package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"nhl_predictor/backend/internal/config"
	"nhl_predictor/backend/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	log.Info().Msg("Starting prediction cleanup")

	cfg := config.MustLoad()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	dupes, err := db.Predictions.CleanupDuplicates(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Duplicate cleanup failed")
	}
	log.Info().
		Int("duplicate_games", dupes.DuplicateGamesFound).
		Int("removed", dupes.PredictionsRemoved).
		Msg("Duplicate cleanup finished")

	accuracy, err := db.Predictions.CleanupInaccurate(ctx, cfg.AccuracyThresholdPct)
	if err != nil {
		log.Fatal().Err(err).Msg("Accuracy maintenance failed")
	}
	log.Info().
		Float64("accuracy_before", accuracy.AccuracyBefore).
		Float64("accuracy_after", accuracy.AccuracyAfter).
		Int("deleted", accuracy.Deleted).
		Msg("Accuracy maintenance finished")

	log.Info().Msg("Cleanup complete")
}
