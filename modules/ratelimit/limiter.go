// Package ratelimit limits requests per authenticated requester with a
// Redis-backed sliding window.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Config bounds each requester to RequestsPerWindow requests in any
// WindowSize span.
type Config struct {
	RequestsPerWindow int
	WindowSize        time.Duration
}

// DefaultConfig returns 120 requests per minute.
func DefaultConfig() Config {
	return Config{
		RequestsPerWindow: 120,
		WindowSize:        time.Minute,
	}
}

// Result is the decision for a single request.
type Result struct {
	Allowed    bool
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration // only set when not allowed
}

// Limiter decides whether the request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}

// slidingWindowScript drops members older than the window and admits the
// request while the set holds fewer than the limit. It returns
// {allowed, remaining, retry_after_ms}.
var slidingWindowScript = redis.NewScript(`
	local since = tonumber(ARGV[2])
	local max = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', KEYS[1], 0, since)
	local used = redis.call('ZCARD', KEYS[1])

	if used >= max then
		local first = redis.call('ZRANGE', KEYS[1], 0, 0, 'WITHSCORES')
		if first[2] == nil then
			return {0, 0, ttl}
		end
		return {0, 0, tonumber(first[2]) - since}
	end

	redis.call('ZADD', KEYS[1], ARGV[1], ARGV[5])
	redis.call('PEXPIRE', KEYS[1], ttl)
	return {1, max - used - 1, 0}
`)

// SlidingWindowLimiter implements Limiter with a Redis sorted set per key.
type SlidingWindowLimiter struct {
	client *redis.Client
	config Config
	prefix string
}

var _ Limiter = (*SlidingWindowLimiter)(nil)

// NewSlidingWindowLimiter stores one sorted set per key under prefix.
func NewSlidingWindowLimiter(client *redis.Client, config Config, prefix string) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{client: client, config: config, prefix: prefix}
}

// Allow records the request for key if it fits in the current window.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (*Result, error) {
	now := time.Now()

	raw, err := slidingWindowScript.Run(ctx, l.client, []string{l.prefix + key},
		now.UnixMilli(),
		now.Add(-l.config.WindowSize).UnixMilli(),
		l.config.RequestsPerWindow,
		l.config.WindowSize.Milliseconds(),
		uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit script for %q: %w", key, err)
	}
	if len(raw) != 3 {
		return nil, fmt.Errorf("rate limit script returned %d values", len(raw))
	}

	res := &Result{
		Allowed:   raw[0] == 1,
		Remaining: int(raw[1]),
		ResetAt:   now.Add(l.config.WindowSize),
	}
	if !res.Allowed && raw[2] > 0 {
		res.RetryAfter = time.Duration(raw[2]) * time.Millisecond
	}
	return res, nil
}

// Config returns the limiter's configuration.
func (l *SlidingWindowLimiter) Config() Config {
	return l.config
}
