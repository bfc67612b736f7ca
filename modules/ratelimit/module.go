package ratelimit

import (
	"context"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces every rate limit key in Redis.
const keyPrefix = "task-tracker:ratelimit:"

// Module owns the Redis connection used for rate limiting. With an empty
// Redis address the module is disabled and its handler passes every request.
type Module struct {
	client     *redis.Client
	middleware *Middleware
	config     Config
	redisAddr  string
	password   string
	logger     types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new rate limiting module.
func NewModule(redisAddr, password string, config Config, logger types.Logger) *Module {
	return &Module{
		redisAddr: redisAddr,
		password:  password,
		config:    config,
		logger:    logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "ratelimit"
}

// Enabled reports whether a Redis address was configured.
func (m *Module) Enabled() bool {
	return m.redisAddr != ""
}

// Start connects to Redis and builds the middleware.
func (m *Module) Start(ctx context.Context) error {
	if !m.Enabled() {
		m.logger.Info("Rate limiting disabled (REDIS_ADDR not set)")
		return nil
	}

	m.client = redis.NewClient(&redis.Options{
		Addr:     m.redisAddr,
		Password: m.password,
	})
	if err := m.client.Ping(ctx).Err(); err != nil {
		_ = m.client.Close()
		m.client = nil
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	limiter := NewSlidingWindowLimiter(m.client, m.config, keyPrefix)
	m.middleware = NewMiddleware(limiter, m.config.RequestsPerWindow, m.logger)

	m.logger.Info("Rate limiting enabled",
		"redis", m.redisAddr,
		"requests", m.config.RequestsPerWindow,
		"window", m.config.WindowSize.String())
	return nil
}

// Stop closes the Redis connection.
func (m *Module) Stop(_ context.Context) error {
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			m.logger.Error("Error closing Redis connection", "error", err)
		}
	}
	m.logger.Info("Rate limit module stopped")
	return nil
}

// Handler returns the Fiber handler enforcing the limit. Requests pass
// through while rate limiting is disabled or not yet started.
func (m *Module) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.middleware == nil {
			return c.Next()
		}
		return m.middleware.handle(c)
	}
}

// Health verifies the Redis connection.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if !m.Enabled() {
		return mono.HealthStatus{Healthy: true, Message: "disabled"}
	}
	if m.client == nil {
		return mono.HealthStatus{Healthy: false, Message: "Redis client not initialized"}
	}
	if err := m.client.Ping(ctx).Err(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("Redis ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{"redis": m.redisAddr},
	}
}
