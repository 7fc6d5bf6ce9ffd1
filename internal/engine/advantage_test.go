package engine

import (
	"math"
	"testing"

	"nhl_predictor/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func strongStats() models.TeamStats {
	return models.TeamStats{
		Basic: models.BasicStats{
			GamesPlayed:         50,
			Wins:                35,
			GoalsForPerGame:     3.6,
			GoalsAgainstPerGame: 2.4,
		},
		Shooting: models.ShootingStats{
			ShotsForPerGame:     33.0,
			ShotsAgainstPerGame: 27.5,
			ShootingPct:         10.9,
			SavePct:             91.3,
		},
		Special: models.SpecialStats{
			PowerPlayPct:   0.26,
			PenaltyKillPct: 0.84,
			FaceoffWinPct:  0.53,
		},
	}
}

func weakStats() models.TeamStats {
	return models.TeamStats{
		Basic: models.BasicStats{
			GamesPlayed:         50,
			Wins:                15,
			GoalsForPerGame:     2.4,
			GoalsAgainstPerGame: 3.5,
		},
		Shooting: models.ShootingStats{
			ShotsForPerGame:     27.0,
			ShotsAgainstPerGame: 33.0,
			ShootingPct:         8.9,
			SavePct:             89.4,
		},
		Special: models.SpecialStats{
			PowerPlayPct:   0.16,
			PenaltyKillPct: 0.75,
			FaceoffWinPct:  0.47,
		},
	}
}

func assertAdvantageFinite(t *testing.T, adv models.TeamAdvantage) {
	t.Helper()
	for name, v := range map[string]float64{
		"offense":    adv.Offense,
		"defense":    adv.Defense,
		"special":    adv.Special,
		"efficiency": adv.EfficiencyFactor,
		"momentum":   adv.MomentumFactor,
	} {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s should be finite", name)
	}
}

func TestComputeAdvantage_Finite(t *testing.T) {
	assertAdvantageFinite(t, ComputeAdvantage(strongStats(), true))
	assertAdvantageFinite(t, ComputeAdvantage(weakStats(), false))
}

func TestComputeAdvantage_HomeBoost(t *testing.T) {
	stats := strongStats()
	home := ComputeAdvantage(stats, true)
	away := ComputeAdvantage(stats, false)

	// Same team is strictly better at home
	assert.Greater(t, home.Offense, away.Offense, "Home offense should be boosted")
	assert.Greater(t, home.Defense, away.Defense, "Home defense should be boosted")
	assert.InDelta(t, home.Offense, away.Offense*1.05, 1e-9, "Offense boost should be 5%")
	assert.InDelta(t, home.Defense, away.Defense*1.03, 1e-9, "Defense boost should be 3%")

	assert.Equal(t, 0.1, home.HomeIceBonus, "Home side gets the flat bonus")
	assert.Equal(t, 0.0, away.HomeIceBonus, "Away side gets no bonus")

	// Boosts never touch the shared composites
	assert.Equal(t, home.Special, away.Special)
	assert.Equal(t, home.EfficiencyFactor, away.EfficiencyFactor)
	assert.Equal(t, home.MomentumFactor, away.MomentumFactor)
}

func TestComputeAdvantage_DenominatorClamp(t *testing.T) {
	stats := strongStats()
	stats.Basic.GoalsAgainstPerGame = 0
	stats.Shooting.ShotsAgainstPerGame = 0.3

	adv := ComputeAdvantage(stats, false)
	assertAdvantageFinite(t, adv)

	// Clamped denominators cap each reciprocal term at its weight
	assert.LessOrEqual(t, adv.Defense, 0.4+0.3+stats.Special.PenaltyKillPct*0.3+1e-9)
}

func TestMomentumFactor(t *testing.T) {
	stats := strongStats()

	// 35 wins in 50 games: winPct 0.7, momentum 1 + 0.2*(0.7-0.5)
	assert.InDelta(t, 1.04, momentumFactor(stats), 1e-9)

	stats.Basic.Wins = 25
	assert.InDelta(t, 1.0, momentumFactor(stats), 1e-9, "A .500 team has neutral momentum")

	stats.Basic.Wins = 0
	assert.InDelta(t, 0.9, momentumFactor(stats), 1e-9, "A winless team bottoms out at 0.9")

	stats.Basic.GamesPlayed = 0
	assert.Equal(t, 1.0, momentumFactor(stats), "No games played means no momentum signal")
}

func TestComputeAdvantage_ZeroStats(t *testing.T) {
	adv := ComputeAdvantage(models.TeamStats{}, true)
	assertAdvantageFinite(t, adv)
	assert.Equal(t, 0.1, adv.HomeIceBonus, "Zero stats keep the home-ice bonus")
	assert.Equal(t, 1.0, adv.MomentumFactor)
}

func TestComputeAdvantage_NonFiniteInput(t *testing.T) {
	stats := strongStats()
	stats.Shooting.ShootingPct = math.NaN()

	adv := ComputeAdvantage(stats, true)
	assertAdvantageFinite(t, adv)
	assert.Equal(t, 0.1, adv.HomeIceBonus, "Fallback keeps the home-ice bonus")
	assert.Equal(t, 1.0, adv.EfficiencyFactor, "Fallback uses the zero advantage")
}
