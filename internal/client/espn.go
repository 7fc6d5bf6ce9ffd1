package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"nhl_predictor/backend/internal/metrics"
	"nhl_predictor/backend/internal/models"

	"github.com/rs/zerolog/log"
)

// GameClient fetches schedule and result data from the ESPN NHL
// scoreboard API.
type GameClient struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
}

// NewGameClient creates a new scoreboard API client
func NewGameClient(baseURL string, timeout time.Duration) *GameClient {
	return &GameClient{
		baseURL:    baseURL,
		maxRetries: 3,
		retryDelay: 1 * time.Second,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// get performs a GET request with retry logic
func (c *GameClient) get(ctx context.Context, url, endpoint string) ([]byte, error) {
	start := time.Now()
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.retryDelay * time.Duration(1<<uint(attempt-1))
			log.Info().
				Str("url", url).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying scoreboard request after backoff")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "nhl-predictor/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("scoreboard request failed: %w", err)
			if attempt < c.maxRetries {
				continue
			}
			metrics.RecordAPICall(endpoint, "error", time.Since(start).Seconds())
			return nil, lastErr
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)
			if attempt < c.maxRetries {
				continue
			}
			metrics.RecordAPICall(endpoint, "error", time.Since(start).Seconds())
			return nil, lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK:
			metrics.RecordAPICall(endpoint, "success", time.Since(start).Seconds())
			return body, nil

		case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			lastErr = fmt.Errorf("scoreboard returned retryable status %d: %s", resp.StatusCode, string(body))
			if attempt < c.maxRetries {
				log.Warn().
					Str("url", url).
					Int("status", resp.StatusCode).
					Msg("Received retryable error, will retry")
				continue
			}
			metrics.RecordAPICall(endpoint, "error", time.Since(start).Seconds())
			return nil, lastErr

		default:
			metrics.RecordAPICall(endpoint, "error", time.Since(start).Seconds())
			return nil, fmt.Errorf("scoreboard returned status %d: %s", resp.StatusCode, string(body))
		}
	}

	return nil, lastErr
}

// formatDate renders a date the way the scoreboard expects (YYYYMMDD)
func formatDate(t time.Time) string {
	return t.Format("20060102")
}

// FetchGames fetches all games in the given date range, inclusive
func (c *GameClient) FetchGames(ctx context.Context, from, to time.Time) ([]models.GameEvent, error) {
	url := fmt.Sprintf("%s/scoreboard?dates=%s-%s", c.baseURL, formatDate(from), formatDate(to))

	body, err := c.get(ctx, url, "scoreboard")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch games: %w", err)
	}

	var resp models.ScoreboardResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scoreboard: %w", err)
	}

	return resp.Events, nil
}

// FetchGamesOn fetches all games on a single calendar day
func (c *GameClient) FetchGamesOn(ctx context.Context, day time.Time) ([]models.GameEvent, error) {
	return c.FetchGames(ctx, day, day)
}

// FetchGameSummary fetches the detail record for one game. Used by the
// reconciliation fallback when a finished game never shows up in the
// scoreboard window.
func (c *GameClient) FetchGameSummary(ctx context.Context, gameID int) (*models.GameSummaryResponse, error) {
	url := fmt.Sprintf("%s/summary?event=%d", c.baseURL, gameID)

	body, err := c.get(ctx, url, "game_summary")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch game summary: %w", err)
	}

	var resp models.GameSummaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game summary: %w", err)
	}

	return &resp, nil
}
