// Package scheduler runs the daily reconciliation cycle on a cron
// schedule: predict today's slate, then fold in yesterday's results.
package scheduler

import (
	"context"
	"fmt"

	"nhl_predictor/backend/internal/config"
	"nhl_predictor/backend/internal/reconciler"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler manages the background reconciliation job
type Scheduler struct {
	cfg        *config.Config
	reconciler *reconciler.Reconciler
	cron       *cron.Cron
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg *config.Config, rec *reconciler.Reconciler) *Scheduler {
	return &Scheduler{
		cfg:        cfg,
		reconciler: rec,
		cron:       cron.New(),
	}
}

// Start schedules the daily cycle and optionally runs it immediately
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.cfg.ReconcileCron, func() {
		s.runCycle(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule reconciliation: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.cfg.ReconcileCron).
		Msg("Daily reconciliation scheduled")

	if s.cfg.RunAtStartup {
		log.Info().Msg("Running initial reconciliation cycle...")
		go s.runCycle(ctx)
	}

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cron != nil {
		cronCtx := s.cron.Stop()
		// Wait for an in-flight job to finish
		<-cronCtx.Done()
	}

	log.Info().Msg("Scheduler stopped")
}

// runCycle executes one full cycle. Prediction failures do not block
// result reconciliation: results can still land when the stats API is
// down.
func (s *Scheduler) runCycle(ctx context.Context) {
	log.Info().Msg("Running reconciliation cycle...")

	saved, err := s.reconciler.PredictTodaysGames(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Slate prediction failed")
	} else {
		log.Info().Int("predictions", saved).Msg("Slate prediction finished")
	}

	updated, err := s.reconciler.UpdateResults(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Result reconciliation failed")
	} else {
		log.Info().Int("results", updated).Msg("Result reconciliation finished")
	}
}
