package ratelimit

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter decides whether another request for key fits in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type redisLimiter struct {
	client   *redis.Client
	requests int
	window   time.Duration
	prefix   string
}

// NewRedisLimiter returns a fixed-window limiter allowing requests per window.
func NewRedisLimiter(client *redis.Client, requests int, window time.Duration) Limiter {
	return &redisLimiter{
		client:   client,
		requests: requests,
		window:   window,
		prefix:   "ratelimit:",
	}
}

// NewRedisClient parses a redis:// URL and verifies connectivity.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// Allow implements Limiter.
func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	// Hash the key so client addresses are not stored in clear
	sum := sha256.Sum256([]byte(key))
	windowStart := time.Now().Truncate(l.window).Unix()
	redisKey := fmt.Sprintf("%s%x:%d", l.prefix, sum[:8], windowStart)

	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return true, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return true, fmt.Errorf("failed to set rate limit expiry: %w", err)
		}
	}

	return count <= int64(l.requests), nil
}
