package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"nhl_predictor/backend/internal/metrics"
	"nhl_predictor/backend/internal/models"

	"github.com/rs/zerolog/log"
)

// ErrDataUnavailable signals that the stats provider returned no
// season records at all for a team. It is surfaced to the caller and
// never retried here.
var ErrDataUnavailable = errors.New("no season statistics available")

// StatsClient fetches team season summaries from the NHL stats API
type StatsClient struct {
	baseURL         string
	httpClient      *http.Client
	rateLimiter     chan struct{} // Rate limiting semaphore
	maxRetries      int
	retryDelay      time.Duration
	currentSeasonID int
}

// NewStatsClient creates a new NHL stats API client
func NewStatsClient(baseURL string, timeout time.Duration, currentSeasonID int) *StatsClient {
	// Max 10 concurrent requests against the stats API
	rateLimiter := make(chan struct{}, 10)
	for i := 0; i < 10; i++ {
		rateLimiter <- struct{}{}
	}

	return &StatsClient{
		baseURL:         baseURL,
		rateLimiter:     rateLimiter,
		maxRetries:      3,
		retryDelay:      1 * time.Second,
		currentSeasonID: currentSeasonID,
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

// get performs a GET request with retry logic and rate limiting
func (c *StatsClient) get(ctx context.Context, url, endpoint string) ([]byte, error) {
	// Rate limiting: acquire semaphore
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.rateLimiter:
	}
	defer func() { c.rateLimiter <- struct{}{} }()

	start := time.Now()
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s
			backoff := c.retryDelay * time.Duration(1<<uint(attempt-1))
			log.Info().
				Str("url", url).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying stats API request after backoff")

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

		log.Debug().
			Str("url", url).
			Int("attempt", attempt+1).
			Msg("Making stats API request")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("stats API request failed: %w", err)
			// Retry on network errors
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
			// Retryable errors
			lastErr = fmt.Errorf("stats API returned retryable status %d: %s", resp.StatusCode, string(body))
			if attempt < c.maxRetries {
				log.Warn().
					Str("url", url).
					Int("status", resp.StatusCode).
					Int("attempt", attempt+1).
					Msg("Received retryable error, will retry")
				continue
			}
			metrics.RecordAPICall(endpoint, "error", time.Since(start).Seconds())
			return nil, lastErr

		default:
			// Other errors - don't retry
			metrics.RecordAPICall(endpoint, "error", time.Since(start).Seconds())
			return nil, fmt.Errorf("stats API returned status %d: %s", resp.StatusCode, string(body))
		}
	}

	return nil, lastErr
}

// seasonSummaryResponse wraps the feed's data envelope
type seasonSummaryResponse struct {
	Data []map[string]interface{} `json:"data"`
}

// FetchSeasonStats fetches all season summary records for a team, one
// per season the franchise has played. Returns ErrDataUnavailable when
// the provider has nothing for the team id.
func (c *StatsClient) FetchSeasonStats(ctx context.Context, teamID int) ([]map[string]interface{}, error) {
	url := fmt.Sprintf("%s/summary?cayenneExp=teamId=%d", c.baseURL, teamID)

	body, err := c.get(ctx, url, "team_summary")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch season stats: %w", err)
	}

	var resp seasonSummaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal season stats: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("team %d: %w", teamID, ErrDataUnavailable)
	}

	return resp.Data, nil
}

// FetchTeamStats fetches and normalizes the current-season stat line
// for a team.
func (c *StatsClient) FetchTeamStats(ctx context.Context, teamID int) (models.TeamStats, error) {
	records, err := c.FetchSeasonStats(ctx, teamID)
	if err != nil {
		return models.TeamStats{}, err
	}

	stats, ok := models.NormalizeSeasonStats(records, c.currentSeasonID)
	if !ok {
		return models.TeamStats{}, fmt.Errorf("team %d: %w", teamID, ErrDataUnavailable)
	}

	return stats, nil
}
