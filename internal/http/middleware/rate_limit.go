package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig tunes the per-IP fixed-window limiter.
type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
	KeyPrefix   string
}

// DefaultRateLimitConfig limits each client IP to 100 requests per minute.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: 100,
		Window:      time.Minute,
		KeyPrefix:   "kisalink:rl",
	}
}

// RateLimit caps requests per IP with a Redis counter. Redis being down
// fails open: a shortener that refuses redirects because its limiter is
// unreachable is worse than one that briefly stops limiting.
func RateLimit(redisClient *redis.Client, config RateLimitConfig, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.Context()
		key := config.KeyPrefix + ":" + c.IP()

		count, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			logger.Error("rate limiter unavailable", zap.Error(err))
			return c.Next()
		}
		if count == 1 {
			// First hit opens the window.
			redisClient.Expire(ctx, key, config.Window)
		}

		remaining := int64(config.MaxRequests) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Set("X-RateLimit-Limit", strconv.Itoa(config.MaxRequests))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(config.Window).Unix(), 10))

		if count > int64(config.MaxRequests) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded",
			})
		}
		return c.Next()
	}
}
