package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gameServer(t *testing.T, handler http.HandlerFunc) *GameClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGameClient(srv.URL, 5*time.Second)
}

func TestGameClient_FetchGames(t *testing.T) {
	c := gameServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/scoreboard", r.URL.Path)
		assert.Equal(t, "20250114-20250115", r.URL.Query().Get("dates"))
		w.Write([]byte(`{"events":[
			{"id":"401559001","date":"2025-01-15T00:00Z",
			 "status":{"type":{"completed":true,"state":"post","description":"Final"}},
			 "competitions":[{"competitors":[
				{"homeAway":"home","score":"4","team":{"id":"10"}},
				{"homeAway":"away","score":"2","team":{"id":"14"}}
			 ]}]},
			{"id":"401559002","date":"2025-01-15T02:00Z",
			 "status":{"type":{"completed":false,"state":"pre","description":"Scheduled"}},
			 "competitions":[{"competitors":[
				{"homeAway":"home","team":{"id":"5"}},
				{"homeAway":"away","team":{"id":"22"}}
			 ]}]}
		]}`))
	})

	from := time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	events, err := c.FetchGames(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.True(t, events[0].IsCompleted())
	game, ok := events[0].ToCompletedGame()
	require.True(t, ok)
	assert.Equal(t, 401559001, game.GameID)
	assert.Equal(t, 4, game.HomeScore)

	assert.False(t, events[1].IsCompleted(), "Scheduled game with no scores is not completed")
}

func TestGameClient_FetchGameSummary(t *testing.T) {
	c := gameServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/summary", r.URL.Path)
		assert.Equal(t, "401559001", r.URL.Query().Get("event"))
		w.Write([]byte(`{"header":{"id":"401559001","competitions":[
			{"date":"2025-01-15T00:00Z",
			 "status":{"type":{"description":"Final/OT"}},
			 "competitors":[
				{"homeAway":"home","score":"3","team":{"id":"10"}},
				{"homeAway":"away","score":"2","team":{"id":"14"}}
			 ]}
		]}}`))
	})

	summary, err := c.FetchGameSummary(context.Background(), 401559001)
	require.NoError(t, err)

	event := summary.Event()
	assert.True(t, event.IsCompleted(), "Description alone should mark completion")

	game, ok := event.ToCompletedGame()
	require.True(t, ok)
	assert.Equal(t, 3, game.HomeScore)
	assert.Equal(t, 2, game.AwayScore)
}

func TestGameClient_UpstreamError(t *testing.T) {
	c := gameServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.FetchGames(context.Background(), time.Now(), time.Now())
	assert.Error(t, err)
}
