package engine

import (
	"math"
	"testing"

	"nhl_predictor/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertResultSane(t *testing.T, r models.PredictionResult) {
	t.Helper()

	assert.False(t, math.IsNaN(r.HomeTeamWinProbability), "Home probability should be finite")
	assert.False(t, math.IsNaN(r.AwayTeamWinProbability), "Away probability should be finite")
	assert.GreaterOrEqual(t, r.HomeTeamWinProbability, 0.0)
	assert.LessOrEqual(t, r.HomeTeamWinProbability, 100.0)
	assert.GreaterOrEqual(t, r.AwayTeamWinProbability, 0.0)
	assert.LessOrEqual(t, r.AwayTeamWinProbability, 100.0)
	assert.InDelta(t, 100.0, r.HomeTeamWinProbability+r.AwayTeamWinProbability, 0.1,
		"Probabilities should sum to 100 within rounding")

	assert.GreaterOrEqual(t, r.PredictedScore.Home, 0.0)
	assert.GreaterOrEqual(t, r.PredictedScore.Away, 0.0)

	assert.GreaterOrEqual(t, r.Factors.Confidence, 0.0)
	assert.LessOrEqual(t, r.Factors.Confidence, 1.0)
}

func TestPredict_StrongHomeFavored(t *testing.T) {
	result := Predict(strongStats(), weakStats())
	assertResultSane(t, result)

	assert.Greater(t, result.HomeTeamWinProbability, 50.0,
		"A strong home team against a weak visitor should be favored")
	assert.Greater(t, result.PredictedScore.Home, result.PredictedScore.Away)
	assert.Greater(t, result.Factors.Confidence, 0.0)
}

func TestPredict_MirrorMatchup(t *testing.T) {
	stats := strongStats()
	result := Predict(stats, stats)
	assertResultSane(t, result)

	// Identical teams: only home ice separates them
	assert.Greater(t, result.HomeTeamWinProbability, 50.0,
		"Home ice should tip an even matchup")
	assert.Less(t, result.HomeTeamWinProbability, 70.0,
		"Home ice alone should not produce a blowout probability")
}

func TestPredict_ZeroStats(t *testing.T) {
	result := Predict(models.TeamStats{}, models.TeamStats{})
	assertResultSane(t, result)

	// Home boosts still apply to the zero line, so home stays at or
	// above the coin flip.
	assert.GreaterOrEqual(t, result.HomeTeamWinProbability, 50.0)
	assert.Equal(t, 0.0, result.PredictedScore.Home, "Zero pace predicts zero goals")
	assert.Equal(t, 0.0, result.PredictedScore.Away)

	// Zero pace drives the confidence ratio to infinity, which clamps
	// at the ceiling.
	assert.Equal(t, 1.0, result.Factors.Confidence)
}

func TestPredict_RoundsToOneDecimal(t *testing.T) {
	result := Predict(strongStats(), weakStats())

	for _, v := range []float64{
		result.HomeTeamWinProbability,
		result.AwayTeamWinProbability,
		result.PredictedScore.Home,
		result.PredictedScore.Away,
	} {
		assert.InDelta(t, v, math.Round(v*10)/10, 1e-9, "Outputs should be rounded to one decimal")
	}
}

func TestPredict_ScoresTrackPace(t *testing.T) {
	home := strongStats()
	away := weakStats()

	pace := GamePace(home, away)
	expected := (home.Basic.GoalsForPerGame + home.Basic.GoalsAgainstPerGame +
		away.Basic.GoalsForPerGame + away.Basic.GoalsAgainstPerGame) / 2
	assert.InDelta(t, expected, pace, 1e-9)

	// Doubling the pace roughly doubles predicted totals
	fast := home
	fast.Basic.GoalsForPerGame *= 2
	fast.Basic.GoalsAgainstPerGame *= 2
	fastAway := away
	fastAway.Basic.GoalsForPerGame *= 2
	fastAway.Basic.GoalsAgainstPerGame *= 2

	slow := Predict(home, away)
	quick := Predict(fast, fastAway)
	assert.Greater(t, quick.PredictedScore.Home+quick.PredictedScore.Away,
		slow.PredictedScore.Home+slow.PredictedScore.Away)
}

func TestNeutralResult(t *testing.T) {
	result := NeutralResult()

	assert.Equal(t, 50.0, result.HomeTeamWinProbability)
	assert.Equal(t, 50.0, result.AwayTeamWinProbability)
	assert.Equal(t, 2.5, result.PredictedScore.Home)
	assert.Equal(t, 2.5, result.PredictedScore.Away)
	assert.Equal(t, 0.0, result.Factors.Confidence)
	assert.Equal(t, 5.0, result.Factors.GamePace)

	require.NotZero(t, result.Factors.HomeAdvantage.HomeIceBonus,
		"Neutral result still marks which side was home")
	assert.Zero(t, result.Factors.AwayAdvantage.HomeIceBonus)
}

func TestGamePace_ZeroStats(t *testing.T) {
	pace := GamePace(models.TeamStats{}, models.TeamStats{})
	assert.Equal(t, 0.0, pace, "Zero stat lines produce zero pace, not the default")

	// The default only covers non-finite arithmetic
	bad := models.TeamStats{}
	bad.Basic.GoalsForPerGame = math.Inf(1)
	assert.Equal(t, float64(defaultGamePace), GamePace(bad, models.TeamStats{}))
}
