package serverutils

import (
	"context"
	"fmt"
	"time"

	"virtualboard-be/internal/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const rateLimitWindow = time.Minute

// RateLimiter enforces fixed per-minute request windows per user. Counters
// live in Redis so limits hold across instances; when Redis is unavailable an
// in-process cache keeps single-instance limits working.
type RateLimiter struct {
	rdb      *redis.Client
	fallback *cache.Cache
}

func NewRateLimiter(rdb *redis.Client) *RateLimiter {
	return &RateLimiter{
		rdb:      rdb,
		fallback: cache.New(rateLimitWindow, 2*rateLimitWindow),
	}
}

// Allow consumes one request from the window for key. Returns a
// RateLimitError once the window is exhausted.
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int) error {
	count, err := r.increment(ctx, key)
	if err != nil {
		return err
	}
	if count > int64(limit) {
		return &apperror.RateLimitError{Limit: limit, Remaining: 0}
	}
	return nil
}

func (r *RateLimiter) increment(ctx context.Context, key string) (int64, error) {
	if r.rdb != nil {
		count, err := r.rdb.Incr(ctx, key).Result()
		if err == nil {
			if count == 1 {
				r.rdb.Expire(ctx, key, rateLimitWindow)
			}
			return count, nil
		}
		// Redis down: fall through to the local cache.
	}

	count, err := r.fallback.IncrementInt64(key, 1)
	if err != nil {
		r.fallback.Set(key, int64(1), rateLimitWindow)
		return 1, nil
	}
	return count, nil
}

// RateLimitMiddleware guards a route group with a per-user request budget.
func RateLimitMiddleware(limiter *RateLimiter, scope string, limit int) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userId, _ := ctx.Locals("user_id").(string)
		if userId == "" {
			return ctx.Next()
		}

		key := fmt.Sprintf("ratelimit:%s:%s", scope, userId)
		if err := limiter.Allow(ctx.Context(), key, limit); err != nil {
			return err
		}
		return ctx.Next()
	}
}
