package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles login attempts per client using a sliding window
// backed by Redis. A nil client disables throttling.
type LoginLimiter struct {
	redis  redis.UniversalClient
	limit  int64
	window time.Duration
}

// NewLoginLimiter creates a login rate limiter.
func NewLoginLimiter(client redis.UniversalClient, limit int, window time.Duration) *LoginLimiter {
	if limit < 1 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &LoginLimiter{redis: client, limit: int64(limit), window: window}
}

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed   bool  `json:"allowed"`
	Remaining int64 `json:"remaining"`
	ResetAt   int64 `json:"reset_at"`
	Limit     int64 `json:"limit"`
}

// Check records a login attempt for the identifier and reports whether it
// is allowed under the limit. Without Redis the check always allows.
func (l *LoginLimiter) Check(ctx context.Context, identifier string) (*RateLimitResult, error) {
	if l.redis == nil {
		return &RateLimitResult{Allowed: true, Remaining: l.limit, Limit: l.limit}, nil
	}

	key := fmt.Sprintf("ratelimit:login:%s", identifier)
	now := time.Now()
	windowStart := now.Add(-l.window).UnixNano()
	windowEnd := now.UnixNano()

	// Lua script keeps the prune/count/add sequence atomic.
	script := redis.NewScript(`
		local key = KEYS[1]
		local window_start = tonumber(ARGV[1])
		local window_end = tonumber(ARGV[2])
		local limit = tonumber(ARGV[3])
		local expiry = tonumber(ARGV[4])

		redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

		local current = redis.call('ZCARD', key)
		if current >= limit then
			return {0, 0}
		end

		redis.call('ZADD', key, window_end, window_end)
		redis.call('PEXPIRE', key, expiry)

		return {1, limit - current - 1}
	`)

	result, err := script.Run(ctx, l.redis, []string{key},
		windowStart,
		windowEnd,
		l.limit,
		int64(l.window.Milliseconds())+60000, // buffer for cleanup
	).Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	allowed, _ := strconv.ParseInt(fmt.Sprint(result[0]), 10, 64)
	remaining, _ := strconv.ParseInt(fmt.Sprint(result[1]), 10, 64)

	return &RateLimitResult{
		Allowed:   allowed == 1,
		Remaining: remaining,
		ResetAt:   now.Add(l.window).Unix(),
		Limit:     l.limit,
	}, nil
}

// Reset clears the attempt counter for an identifier.
func (l *LoginLimiter) Reset(ctx context.Context, identifier string) error {
	if l.redis == nil {
		return nil
	}
	return l.redis.Del(ctx, fmt.Sprintf("ratelimit:login:%s", identifier)).Err()
}
