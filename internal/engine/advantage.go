package engine

import (
	"math"

	"nhl_predictor/backend/internal/models"

	"github.com/rs/zerolog/log"
)

// Fixed model weights. These were tuned against the 2023-24 season and
// are design constants, not configuration.
const (
	homeIceOffenseBoost = 1.05
	homeIceDefenseBoost = 1.03
	homeIceBonus        = 0.1

	offenseGoalsWeight = 0.4
	offenseShotsWeight = 0.3
	offensePPWeight    = 0.3

	defenseGoalsWeight = 0.4
	defenseShotsWeight = 0.3
	defensePKWeight    = 0.3

	specialPPWeight = 0.4
	specialPKWeight = 0.4
	specialFOWeight = 0.2

	momentumSwing = 0.2
)

// clampDenominator floors per-game rates used as divisors at 1. Teams
// with near-zero goals or shots against (early season, expansion
// sides) would otherwise blow the defense composite up.
func clampDenominator(v float64) float64 {
	return math.Max(v, 1)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ComputeAdvantage derives the composite advantage for one team. The
// home variant gets the offense/defense boosts and the flat home-ice
// bonus. Malformed input degrades to the zero advantage instead of an
// error: the engine always predicts something.
func ComputeAdvantage(stats models.TeamStats, isHome bool) models.TeamAdvantage {
	offense := stats.Basic.GoalsForPerGame*offenseGoalsWeight +
		stats.Shooting.ShotsForPerGame*offenseShotsWeight +
		stats.Special.PowerPlayPct*offensePPWeight

	defense := (1/clampDenominator(stats.Basic.GoalsAgainstPerGame))*defenseGoalsWeight +
		(1/clampDenominator(stats.Shooting.ShotsAgainstPerGame))*defenseShotsWeight +
		stats.Special.PenaltyKillPct*defensePKWeight

	special := stats.Special.PowerPlayPct*specialPPWeight +
		stats.Special.PenaltyKillPct*specialPKWeight +
		stats.Special.FaceoffWinPct*specialFOWeight

	efficiency := (stats.Shooting.ShootingPct/100 + stats.Shooting.SavePct/100) / 2
	momentum := momentumFactor(stats)

	adv := models.TeamAdvantage{
		Offense:          offense,
		Defense:          defense,
		Special:          special,
		EfficiencyFactor: efficiency,
		MomentumFactor:   momentum,
	}

	if isHome {
		adv.Offense *= homeIceOffenseBoost
		adv.Defense *= homeIceDefenseBoost
		adv.HomeIceBonus = homeIceBonus
	}

	if !isFinite(adv.Offense) || !isFinite(adv.Defense) || !isFinite(adv.Special) ||
		!isFinite(adv.EfficiencyFactor) || !isFinite(adv.MomentumFactor) {
		log.Warn().
			Bool("is_home", isHome).
			Msg("Non-finite advantage computed, falling back to zero advantage")
		zero := models.ZeroAdvantage()
		if isHome {
			zero.HomeIceBonus = homeIceBonus
		}
		return zero
	}

	return adv
}

// momentumFactor scales around 1 with the team's win percentage. A
// team with no games played has no momentum signal and gets exactly 1.
func momentumFactor(stats models.TeamStats) float64 {
	if stats.Basic.GamesPlayed == 0 {
		return 1
	}
	winPct := stats.Basic.Wins / stats.Basic.GamesPlayed
	return 1 + momentumSwing*(winPct-0.5)
}
