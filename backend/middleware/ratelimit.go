package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/storydeck/marketplace/backend/utils"
	"github.com/storydeck/marketplace/storydeck/config"
)

// RateLimit limits requests per caller. Authenticated callers are keyed by
// uid so that users behind one address do not share a budget.
func RateLimit(limit int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if id := utils.Identity(c); id != nil {
				return "uid:" + id.UID
			}
			return "ip:" + utils.GetIPAddress(c)
		},
		LimitReached: func(c *fiber.Ctx) error {
			slog.Warn("Rate limit exceeded",
				slog.String("type", "http"),
				slog.String("ip", utils.GetIPAddress(c)),
				slog.String("path", c.Path()),
				slog.String("method", c.Method()),
				slog.Int("limit", limit),
				slog.Duration("window", window),
			)
			return utils.SendError(c, fiber.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED",
				"Too many requests. Please try again later.", nil)
		},
	})
}

// MutationRateLimit limits state-changing marketplace calls
func MutationRateLimit() fiber.Handler {
	return RateLimit(config.MutationRateLimit, config.RateLimitWindow)
}
