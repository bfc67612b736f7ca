package ratelimit

import (
	"fmt"
	"strconv"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
)

// UserIDLocal is the Fiber local holding the authenticated requester.
const UserIDLocal = "user_id"

// Middleware applies a Limiter to Fiber requests.
type Middleware struct {
	limiter Limiter
	limit   int
	logger  types.Logger
}

// NewMiddleware creates a new rate limiting middleware.
func NewMiddleware(limiter Limiter, limit int, logger types.Logger) *Middleware {
	return &Middleware{
		limiter: limiter,
		limit:   limit,
		logger:  logger,
	}
}

// Handler limits requests by the user id set by the auth middleware,
// falling back to the client IP. Limiter errors let the request through.
func (m *Middleware) Handler() fiber.Handler {
	return m.handle
}

func (m *Middleware) handle(c *fiber.Ctx) error {
	key := "ip:" + c.IP()
	if userID, ok := c.Locals(UserIDLocal).(string); ok && userID != "" {
		key = "user:" + userID
	}

	result, err := m.limiter.Allow(c.UserContext(), key)
	if err != nil {
		m.logger.Warn("Rate limiter unavailable, allowing request", "key", key, "error", err)
		return c.Next()
	}

	setRateLimitHeaders(c, result, m.limit)

	if !result.Allowed {
		return sendRateLimitExceeded(c, result)
	}
	return c.Next()
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(c *fiber.Ctx, result *Result, limit int) {
	c.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

// sendRateLimitExceeded sends a 429 Too Many Requests response.
func sendRateLimitExceeded(c *fiber.Ctx, result *Result) error {
	retryAfter := int(result.RetryAfter.Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}

	c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))

	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error":   "rate_limited",
		"message": fmt.Sprintf("Rate limit exceeded. Please retry after %d seconds.", retryAfter),
	})
}
