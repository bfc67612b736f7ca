package ratelimit

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any)         {}
func (m *mockLogger) Info(_ string, _ ...any)          {}
func (m *mockLogger) Warn(_ string, _ ...any)          {}
func (m *mockLogger) Error(_ string, _ ...any)         {}
func (m *mockLogger) With(_ ...any) types.Logger       { return m }
func (m *mockLogger) WithError(_ error) types.Logger   { return m }
func (m *mockLogger) WithModule(_ string) types.Logger { return m }

// countingLimiter admits the first limit requests per key.
type countingLimiter struct {
	mu     sync.Mutex
	limit  int
	counts map[string]int
	err    error
}

func newCountingLimiter(limit int) *countingLimiter {
	return &countingLimiter{limit: limit, counts: make(map[string]int)}
}

func (l *countingLimiter) Allow(_ context.Context, key string) (*Result, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.counts[key]++
	used := l.counts[key]
	if used > l.limit {
		return &Result{Allowed: false, ResetAt: time.Now().Add(time.Minute), RetryAfter: 30 * time.Second}, nil
	}
	return &Result{Allowed: true, Remaining: l.limit - used, ResetAt: time.Now().Add(time.Minute)}, nil
}

func newTestApp(handler fiber.Handler, userID string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if userID != "" {
			c.Locals(UserIDLocal, userID)
		}
		return c.Next()
	})
	app.Use(handler)
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	return app
}

func TestMiddleware_LimitsPerUser(t *testing.T) {
	limiter := newCountingLimiter(2)
	mw := NewMiddleware(limiter, 2, &mockLogger{})
	app := newTestApp(mw.Handler(), "alice")

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/test", nil), -1)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Errorf("Request %d: expected status 200, got %d", i+1, resp.StatusCode)
		}
		if resp.Header.Get("X-RateLimit-Limit") != "2" {
			t.Errorf("expected X-RateLimit-Limit 2, got %q", resp.Header.Get("X-RateLimit-Limit"))
		}
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil), -1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Retry-After"); got != "30" {
		t.Errorf("expected Retry-After 30, got %q", got)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "rate_limited") {
		t.Errorf("unexpected body %s", body)
	}

	if limiter.counts["user:alice"] != 3 {
		t.Errorf("expected requests keyed by user, got %v", limiter.counts)
	}
}

func TestMiddleware_FallsBackToIP(t *testing.T) {
	limiter := newCountingLimiter(5)
	app := newTestApp(NewMiddleware(limiter, 5, &mockLogger{}).Handler(), "")

	if _, err := app.Test(httptest.NewRequest("GET", "/test", nil), -1); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for key := range limiter.counts {
		if !strings.HasPrefix(key, "ip:") {
			t.Errorf("expected ip key, got %q", key)
		}
	}
}

func TestMiddleware_FailsOpen(t *testing.T) {
	limiter := newCountingLimiter(0)
	limiter.err = errors.New("redis down")
	app := newTestApp(NewMiddleware(limiter, 1, &mockLogger{}).Handler(), "alice")

	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil), -1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected status 200 when limiter fails, got %d", resp.StatusCode)
	}
}

func TestModule_DisabledPassesThrough(t *testing.T) {
	m := NewModule("", "", DefaultConfig(), &mockLogger{})
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer m.Stop(context.Background())

	if m.Enabled() {
		t.Fatal("module should be disabled without a Redis address")
	}
	if h := m.Health(context.Background()); !h.Healthy {
		t.Errorf("disabled module should report healthy, got %+v", h)
	}

	app := newTestApp(m.Handler(), "alice")
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/test", nil), -1)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Errorf("expected status 200, got %d", resp.StatusCode)
		}
		if resp.Header.Get("X-RateLimit-Limit") != "" {
			t.Error("disabled module should not set rate limit headers")
		}
	}
}
