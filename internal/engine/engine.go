// Package engine implements the win-probability and score model. It
// is pure computation: no I/O, no errors. Bad input degrades to a
// documented neutral prediction rather than failing the request.
package engine

import (
	"math"

	"nhl_predictor/backend/internal/models"

	"github.com/rs/zerolog/log"
)

const (
	// defaultGamePace is the league-average combined goals per game,
	// used when pace cannot be derived from the stat lines.
	defaultGamePace = 5

	scoreOffenseWeight    = 0.3
	scoreDefenseWeight    = 0.3
	scoreSpecialWeight    = 0.2
	scoreEfficiencyWeight = 0.1
	scoreMomentumWeight   = 0.1
)

// GamePace estimates the combined goals per game for a matchup: the
// average of both teams' (goals for + goals against) per game.
func GamePace(home, away models.TeamStats) float64 {
	homePace := home.Basic.GoalsForPerGame + home.Basic.GoalsAgainstPerGame
	awayPace := away.Basic.GoalsForPerGame + away.Basic.GoalsAgainstPerGame
	pace := (homePace + awayPace) / 2
	if !isFinite(pace) {
		return defaultGamePace
	}
	return pace
}

// compositeScore folds an advantage into the single scalar fed to the
// logistic transform. The home-ice bonus is added un-weighted; it is
// zero for the away side.
func compositeScore(adv models.TeamAdvantage) float64 {
	return adv.Offense*scoreOffenseWeight +
		adv.Defense*scoreDefenseWeight +
		adv.Special*scoreSpecialWeight +
		adv.EfficiencyFactor*scoreEfficiencyWeight +
		adv.MomentumFactor*scoreMomentumWeight +
		adv.HomeIceBonus
}

// scoreFactor is the offensive multiplier used to split the pace
// estimate into per-side predicted goals.
func scoreFactor(adv models.TeamAdvantage) float64 {
	factor := adv.Offense * adv.EfficiencyFactor * adv.MomentumFactor
	if adv.HomeIceBonus > 0 {
		factor *= homeIceOffenseBoost
	}
	return factor
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Predict computes win probabilities and an expected score for the
// matchup. It never fails: a computation that produces non-finite
// numbers is replaced with the neutral default so callers always get
// an answer.
func Predict(home, away models.TeamStats) models.PredictionResult {
	homeAdv := ComputeAdvantage(home, true)
	awayAdv := ComputeAdvantage(away, false)
	pace := GamePace(home, away)

	homeScore := compositeScore(homeAdv)
	awayScore := compositeScore(awayAdv)
	differential := homeScore - awayScore

	homeProb := 1 / (1 + math.Exp(-differential))
	awayProb := 1 - homeProb

	confidence := math.Abs(differential) / (pace * 0.1)
	if math.IsNaN(confidence) {
		confidence = 0
	}
	confidence = math.Min(confidence, 1)

	result := models.PredictionResult{
		HomeTeamWinProbability: round1(homeProb * 100),
		AwayTeamWinProbability: round1(awayProb * 100),
		PredictedScore: models.PredictedScore{
			Home: round1(pace * scoreFactor(homeAdv) / 2),
			Away: round1(pace * scoreFactor(awayAdv) / 2),
		},
		Factors: models.Factors{
			HomeAdvantage: homeAdv,
			AwayAdvantage: awayAdv,
			GamePace:      pace,
			Confidence:    confidence,
		},
	}

	if !resultIsFinite(result) {
		log.Warn().Msg("Non-finite prediction computed, returning neutral default")
		return NeutralResult()
	}

	return result
}

// NeutralResult is the documented fallback prediction: a coin flip
// with league-average scoring and no confidence.
func NeutralResult() models.PredictionResult {
	return models.PredictionResult{
		HomeTeamWinProbability: 50,
		AwayTeamWinProbability: 50,
		PredictedScore:         models.PredictedScore{Home: 2.5, Away: 2.5},
		Factors: models.Factors{
			HomeAdvantage: ComputeAdvantage(models.TeamStats{}, true),
			AwayAdvantage: ComputeAdvantage(models.TeamStats{}, false),
			GamePace:      defaultGamePace,
			Confidence:    0,
		},
	}
}

func resultIsFinite(r models.PredictionResult) bool {
	return isFinite(r.HomeTeamWinProbability) &&
		isFinite(r.AwayTeamWinProbability) &&
		isFinite(r.PredictedScore.Home) &&
		isFinite(r.PredictedScore.Away) &&
		isFinite(r.Factors.GamePace) &&
		isFinite(r.Factors.Confidence)
}
