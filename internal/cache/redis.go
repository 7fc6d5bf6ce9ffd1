// Package cache provides a Redis-backed cache for normalized team
// stat lines, so a prediction run does not hammer the stats API with
// one request per team per game.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"nhl_predictor/backend/internal/metrics"
	"nhl_predictor/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Config holds Redis connection configuration
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Cache wraps a Redis client for team stats caching
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis cache and verifies connectivity
func NewRedisCache(cfg Config, ttl time.Duration) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Str("port", cfg.Port).
		Dur("ttl", ttl).
		Msg("Successfully connected to Redis")

	return &Cache{client: client, ttl: ttl}, nil
}

func teamStatsKey(teamID int) string {
	return fmt.Sprintf("stats:%d", teamID)
}

// GetTeamStats returns the cached stat line for a team. The second
// return value reports whether the key was present.
func (c *Cache) GetTeamStats(ctx context.Context, teamID int) (models.TeamStats, bool) {
	data, err := c.client.Get(ctx, teamStatsKey(teamID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Int("team_id", teamID).Msg("Redis get failed")
		}
		metrics.RecordCacheMiss()
		return models.TeamStats{}, false
	}

	var stats models.TeamStats
	if err := json.Unmarshal(data, &stats); err != nil {
		log.Warn().Err(err).Int("team_id", teamID).Msg("Corrupt cache entry, discarding")
		c.client.Del(ctx, teamStatsKey(teamID))
		metrics.RecordCacheMiss()
		return models.TeamStats{}, false
	}

	metrics.RecordCacheHit()
	return stats, true
}

// SetTeamStats caches the stat line for a team. Cache failures are
// logged and swallowed, a broken cache never fails a prediction.
func (c *Cache) SetTeamStats(ctx context.Context, teamID int, stats models.TeamStats) {
	data, err := json.Marshal(stats)
	if err != nil {
		log.Warn().Err(err).Int("team_id", teamID).Msg("Failed to marshal team stats for cache")
		return
	}

	if err := c.client.Set(ctx, teamStatsKey(teamID), data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Int("team_id", teamID).Msg("Redis set failed")
	}
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	log.Info().Msg("Closing Redis connection")
	return c.client.Close()
}
