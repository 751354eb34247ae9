package middlewares

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/hdang/siteadmin/internal/audit"
	"github.com/hdang/siteadmin/internal/ratelimit"
)

// RateLimit applies a fixed-window limiter keyed by client IP. Blocked
// requests get a Retry-After header and leave a security event.
func RateLimit(limiter *ratelimit.Limiter, scope string, security *audit.SecurityRecorder) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		result := limiter.Check(ctx.IP())
		if !result.Allowed {
			retryAfter := result.RetryAfterSeconds()
			ctx.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
			security.RecordRateLimitExceeded(ctx.Context(), RequestInfo(ctx), scope)
			return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"apiVersion": "1.0",
				"error": fiber.Map{
					"code":       fiber.StatusTooManyRequests,
					"message":    "Too many requests",
					"retryAfter": retryAfter,
				},
			})
		}
		return ctx.Next()
	}
}
