package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSeasonID = 20242025

func statsServer(t *testing.T, handler http.HandlerFunc) *StatsClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewStatsClient(srv.URL, 5*time.Second, testSeasonID)
}

func TestStatsClient_FetchTeamStats(t *testing.T) {
	c := statsServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/summary", r.URL.Path)
		assert.Contains(t, r.URL.RawQuery, "teamId=10")
		w.Write([]byte(`{"data":[
			{"seasonId":20232024,"goalsForPerGame":2.9,"wins":38,"gamesPlayed":82},
			{"seasonId":20242025,"goalsForPerGame":3.4,"goalsAgainstPerGame":2.7,
			 "shotsForPerGame":31.5,"shotsAgainstPerGame":28.0,
			 "wins":30,"gamesPlayed":50,"powerPlayPct":0.24}
		]}`))
	})

	stats, err := c.FetchTeamStats(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, 3.4, stats.Basic.GoalsForPerGame, "Current season record should win")
	assert.Equal(t, 30.0, stats.Basic.Wins)
	assert.Equal(t, 0.24, stats.Special.PowerPlayPct)
	assert.InDelta(t, 10.79, stats.Shooting.ShootingPct, 0.01)
}

func TestStatsClient_NoRecords(t *testing.T) {
	c := statsServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	})

	_, err := c.FetchSeasonStats(context.Background(), 99)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestStatsClient_RetriesOnServiceUnavailable(t *testing.T) {
	var calls atomic.Int32
	c := statsServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"data":[{"seasonId":20242025,"wins":30,"gamesPlayed":50}]}`))
	})

	stats, err := c.FetchTeamStats(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load(), "Should retry once after the 503")
	assert.Equal(t, 30.0, stats.Basic.Wins)
}

func TestStatsClient_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	c := statsServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := c.FetchSeasonStats(context.Background(), 10)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "4xx responses should not be retried")
}

func TestStatsClient_ContextCancellation(t *testing.T) {
	c := statsServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchSeasonStats(ctx, 10)
	assert.Error(t, err)
}
