package rateLimit

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"

	"github.com/robertarktes/arenalink/internal/observability"
)

// RateLimiter is a fixed-window counter kept in redis.
type RateLimiter struct {
	client *redis.Client
	limit  int
	period time.Duration
}

func NewRateLimiter(client *redis.Client, limit int, period time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, period: period}
}

// Allow counts one hit against key and reports whether it is within the
// window's limit.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	fullKey := "rl:" + key

	pipe := rl.client.TxPipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.ExpireNX(ctx, fullKey, rl.period)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, errors.Wrap(err, "rate limit")
	}

	if incr.Val() > int64(rl.limit) {
		observability.RateLimitExceeded.Inc()
		return false, nil
	}
	return true, nil
}
