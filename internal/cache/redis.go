package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/actuallystonmai/movie-recommender/internal/metrics"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const defaultTTL = 10 * time.Minute

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func buildKey(userID int64, k int, genre string) string {
	return fmt.Sprintf("rec:user:%d:k:%d:genre:%s", userID, k, strings.ToLower(strings.TrimSpace(genre)))
}

func userPattern(userID int64) string {
	return fmt.Sprintf("rec:user:%d:*", userID)
}

// Get returns the cached recommendations, or nil on a miss.
func (c *Cache) Get(ctx context.Context, userID int64, k int, genre string) (*domain.RecommendationResult, error) {
	key := buildKey(userID, k, genre)
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheMisses.Inc()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendations from cache: %w", err)
	}

	var res domain.RecommendationResult
	if err := json.Unmarshal(val, &res); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recommendations %s: %w", key, err)
	}
	metrics.CacheHits.Inc()
	res.CacheHit = true
	return &res, nil
}

// Set stores recommendations for the configured TTL.
func (c *Cache) Set(ctx context.Context, userID int64, k int, genre string, res *domain.RecommendationResult) error {
	key := buildKey(userID, k, genre)
	val, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set recommendations in cache: %w", err)
	}
	return nil
}

// ClearUserCache drops every cached list for the user; called when their ratings change.
func (c *Cache) ClearUserCache(ctx context.Context, userID int64) error {
	iter := c.client.Scan(ctx, 0, userPattern(userID), 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache delete %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
