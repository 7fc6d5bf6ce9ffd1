package models

import (
	"database/sql"
	"time"
)

// Game status values stored on predictions. FINAL is terminal: a
// prediction row is never mutated again once its game is FINAL, only
// deleted by the maintenance routines.
const (
	GameStatusScheduled = "SCHEDULED"
	GameStatusLive      = "LIVE"
	GameStatusFinal     = "FINAL"
)

// PredictionResult is the ephemeral outcome estimate for one matchup.
// Probabilities are percentages summing to 100 within rounding.
type PredictionResult struct {
	HomeTeamWinProbability float64        `json:"homeTeamWinProbability"`
	AwayTeamWinProbability float64        `json:"awayTeamWinProbability"`
	PredictedScore         PredictedScore `json:"predictedScore"`
	Factors                Factors        `json:"factors"`
}

// PredictedScore holds the expected goals per side
type PredictedScore struct {
	Home float64 `json:"home"`
	Away float64 `json:"away"`
}

// Factors exposes the inputs behind a prediction for display
type Factors struct {
	HomeAdvantage TeamAdvantage `json:"homeAdvantage"`
	AwayAdvantage TeamAdvantage `json:"awayAdvantage"`
	GamePace      float64       `json:"gamePace"`
	Confidence    float64       `json:"confidence"`
}

// Prediction is the persisted record of a prediction for one game.
// Outcome fields stay NULL until the game completes.
type Prediction struct {
	ID         int `db:"id"`
	GameID     int `db:"game_id"`
	HomeTeamID int `db:"home_team_id"`
	AwayTeamID int `db:"away_team_id"`

	PredictedHomeScore float64 `db:"predicted_home_score"`
	PredictedAwayScore float64 `db:"predicted_away_score"`
	HomeWinProbability float64 `db:"home_win_probability"`
	AwayWinProbability float64 `db:"away_win_probability"`
	Confidence         float64 `db:"confidence"`

	GameStartTime time.Time `db:"game_start_time"`
	GameStatus    string    `db:"game_status"`

	// Outcome, filled in by result reconciliation
	ActualHomeScore sql.NullInt32 `db:"actual_home_score"`
	ActualAwayScore sql.NullInt32 `db:"actual_away_score"`
	WasCorrect      sql.NullBool  `db:"was_correct"`

	CreatedAt time.Time `db:"created_at"`
}

// PredictsHomeWin reports which side the stored prediction favors
func (p *Prediction) PredictsHomeWin() bool {
	return p.HomeWinProbability > p.AwayWinProbability
}

// ToPrediction flattens a PredictionResult into a persistable record
// for the given game.
func (r *PredictionResult) ToPrediction(gameID, homeTeamID, awayTeamID int, startTime time.Time, status string) *Prediction {
	return &Prediction{
		GameID:             gameID,
		HomeTeamID:         homeTeamID,
		AwayTeamID:         awayTeamID,
		PredictedHomeScore: r.PredictedScore.Home,
		PredictedAwayScore: r.PredictedScore.Away,
		HomeWinProbability: r.HomeTeamWinProbability,
		AwayWinProbability: r.AwayTeamWinProbability,
		Confidence:         r.Factors.Confidence,
		GameStartTime:      startTime,
		GameStatus:         status,
	}
}

// GameResult carries the actual outcome applied to stored predictions
// when a game completes.
type GameResult struct {
	ActualHomeScore int
	ActualAwayScore int
	WasCorrect      bool
	GameStatus      string
}

// ResultFor derives the outcome record for this prediction from a
// finished game: correct means the predicted winner actually won.
// Goal margins and exact scores do not factor in.
func (p *Prediction) ResultFor(game *CompletedGame) GameResult {
	actualHomeWin := game.HomeScore > game.AwayScore
	return GameResult{
		ActualHomeScore: game.HomeScore,
		ActualAwayScore: game.AwayScore,
		WasCorrect:      actualHomeWin == p.PredictsHomeWin(),
		GameStatus:      GameStatusFinal,
	}
}

// AccuracySummary is the running accuracy over completed predictions
type AccuracySummary struct {
	TotalGames         int     `json:"totalGames"`
	CorrectPredictions int     `json:"correctPredictions"`
	Accuracy           float64 `json:"accuracy"`
}

// DuplicateCleanupReport summarizes a duplicate-prediction purge
type DuplicateCleanupReport struct {
	DuplicateGamesFound int `json:"duplicateGamesFound"`
	PredictionsRemoved  int `json:"predictionsRemoved"`
}

// AccuracyCleanupReport summarizes an accuracy-maintenance pass
type AccuracyCleanupReport struct {
	AccuracyBefore float64 `json:"accuracyBefore"`
	AccuracyAfter  float64 `json:"accuracyAfter"`
	Deleted        int     `json:"deleted"`
}
