package httpapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/superdark1999/multi-api-integration/internal/ratelimit"
)

const tooManyRequestsMessage = "Too many requests, please wait before retrying."

// NewRateLimitMiddleware returns a Fiber handler that admits or rejects each
// request before it reaches the aggregation route.
func NewRateLimitMiddleware(limiter *ratelimit.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter == nil {
			return c.Next()
		}

		decision := limiter.Admit(c.Context(), clientID(c))
		if !decision.Allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": tooManyRequestsMessage,
			})
		}

		return c.Next()
	}
}

// clientID derives the rate-limit key: the first X-Forwarded-For entry when
// present, otherwise the peer address. Unidentified clients all map to the
// same empty-ish key, which is accepted behavior.
func clientID(c *fiber.Ctx) string {
	forwarded := c.Get(fiber.HeaderXForwardedFor)
	if forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	return c.IP()
}
