package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCompetitor(homeAway, teamID, score string) Competitor {
	c := Competitor{HomeAway: homeAway, Score: score}
	c.Team.ID = teamID
	return c
}

func finishedEvent() GameEvent {
	return GameEvent{
		ID:   "401559001",
		Date: "2025-01-15T00:00Z",
		Status: EventStatus{
			Type: StatusType{Completed: true, State: "post", Description: "Final"},
		},
		Competitions: []Competition{{
			Competitors: []Competitor{
				testCompetitor("home", "10", "4"),
				testCompetitor("away", "14", "2"),
			},
		}},
	}
}

func TestGameEvent_IsCompleted_AnySignalSuffices(t *testing.T) {
	cases := []struct {
		name   string
		status StatusType
		want   bool
	}{
		{"completed flag only", StatusType{Completed: true}, true},
		{"post state only", StatusType{State: "post"}, true},
		{"post state uppercase", StatusType{State: "POST"}, true},
		{"final in description", StatusType{Description: "Final/OT"}, true},
		{"final lowercase", StatusType{Description: "final"}, true},
		{"in progress", StatusType{State: "in", Description: "2nd Period"}, false},
		{"scheduled", StatusType{State: "pre", Description: "Scheduled"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			event := finishedEvent()
			event.Status.Type = tc.status
			assert.Equal(t, tc.want, event.IsCompleted())
		})
	}
}

func TestGameEvent_IsCompleted_RequiresScores(t *testing.T) {
	event := finishedEvent()
	event.Competitions[0].Competitors[0].Score = ""
	assert.False(t, event.IsCompleted(),
		"A completion signal without numeric scores does not qualify")

	event = finishedEvent()
	event.Competitions[0].Competitors[1].Score = "TBD"
	assert.False(t, event.IsCompleted())

	event = finishedEvent()
	event.Competitions = nil
	assert.False(t, event.IsCompleted())
}

func TestGameEvent_ToCompletedGame(t *testing.T) {
	event := finishedEvent()

	game, ok := event.ToCompletedGame()
	require.True(t, ok)
	assert.Equal(t, 401559001, game.GameID)
	assert.Equal(t, 10, game.HomeTeamID)
	assert.Equal(t, 14, game.AwayTeamID)
	assert.Equal(t, 4, game.HomeScore)
	assert.Equal(t, 2, game.AwayScore)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), game.StartTime)
}

func TestGameEvent_StartTime_AcceptsBothPrecisions(t *testing.T) {
	event := finishedEvent()
	assert.False(t, event.StartTime().IsZero(), "Minute-precision timestamp should parse")

	event.Date = "2025-01-15T00:30:45Z"
	assert.False(t, event.StartTime().IsZero(), "Full RFC 3339 timestamp should parse")

	event.Date = "tomorrow"
	assert.True(t, event.StartTime().IsZero())
}

func TestGameSummaryResponse_Event(t *testing.T) {
	summary := GameSummaryResponse{}
	summary.Header.ID = "401559002"
	summary.Header.Competitions = []Competition{{
		Date:   "2025-01-14T23:00Z",
		Status: &EventStatus{Type: StatusType{Description: "Final"}},
		Competitors: []Competitor{
			testCompetitor("home", "5", "3"),
			testCompetitor("away", "22", "1"),
		},
	}}

	event := summary.Event()
	assert.True(t, event.IsCompleted(), "Summary completion signals should carry over")

	game, ok := event.ToCompletedGame()
	require.True(t, ok)
	assert.Equal(t, 401559002, game.GameID)
	assert.Equal(t, 3, game.HomeScore)
}

func TestPredictionResult_ToPrediction(t *testing.T) {
	result := PredictionResult{
		HomeTeamWinProbability: 61.5,
		AwayTeamWinProbability: 38.5,
		PredictedScore:         PredictedScore{Home: 3.2, Away: 2.4},
		Factors:                Factors{Confidence: 0.7},
	}

	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	pred := result.ToPrediction(401559001, 10, 14, start, GameStatusScheduled)

	assert.Equal(t, 401559001, pred.GameID)
	assert.Equal(t, 10, pred.HomeTeamID)
	assert.Equal(t, 14, pred.AwayTeamID)
	assert.Equal(t, 3.2, pred.PredictedHomeScore)
	assert.Equal(t, 61.5, pred.HomeWinProbability)
	assert.Equal(t, 0.7, pred.Confidence)
	assert.Equal(t, GameStatusScheduled, pred.GameStatus)
	assert.True(t, pred.PredictsHomeWin())
	assert.False(t, pred.WasCorrect.Valid, "Outcome stays NULL until the game completes")
}

func TestPrediction_ResultFor(t *testing.T) {
	homePick := &Prediction{HomeWinProbability: 61.5, AwayWinProbability: 38.5}
	awayPick := &Prediction{HomeWinProbability: 41.0, AwayWinProbability: 59.0}

	homeWin := &CompletedGame{GameID: 1, HomeScore: 4, AwayScore: 2}
	awayWin := &CompletedGame{GameID: 1, HomeScore: 1, AwayScore: 3}

	result := homePick.ResultFor(homeWin)
	assert.True(t, result.WasCorrect, "Predicted home winner actually won")
	assert.Equal(t, 4, result.ActualHomeScore)
	assert.Equal(t, 2, result.ActualAwayScore)
	assert.Equal(t, GameStatusFinal, result.GameStatus)

	assert.False(t, homePick.ResultFor(awayWin).WasCorrect)
	assert.True(t, awayPick.ResultFor(awayWin).WasCorrect)
	assert.False(t, awayPick.ResultFor(homeWin).WasCorrect)

	// Margin does not matter, only the winner
	blowout := &CompletedGame{GameID: 1, HomeScore: 9, AwayScore: 0}
	assert.True(t, homePick.ResultFor(blowout).WasCorrect)
}
