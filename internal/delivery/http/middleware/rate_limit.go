package middleware

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"elitesite-backend/internal/domain"
	"elitesite-backend/pkg/apperror"
	"elitesite-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	// KeyFunc identifies the caller, usually by IP
	KeyFunc   func(*gin.Context) string
	KeyPrefix string
	// Redis is optional; nil or unreachable counts in memory (per instance)
	Redis   *goredis.Client
	OnLimit func(*gin.Context)
}

// counter returns the hit count within the current window and when it resets
type counter interface {
	hit(ctx context.Context, key string, window time.Duration, now time.Time) (int, time.Time, error)
}

// INCR with EXPIRE on the first hit, returns {count, ttl}
var fixedWindowScript = goredis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return {n, redis.call('TTL', KEYS[1])}
`)

type redisCounter struct {
	client *goredis.Client
}

func (r redisCounter) hit(ctx context.Context, key string, window time.Duration, now time.Time) (int, time.Time, error) {
	vals, err := fixedWindowScript.Run(ctx, r.client, []string{key}, int(window.Seconds())).Int64Slice()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit: %w", err)
	}
	if len(vals) != 2 {
		return 0, time.Time{}, fmt.Errorf("redis rate limit: unexpected reply %v", vals)
	}
	return int(vals[0]), now.Add(time.Duration(vals[1]) * time.Second), nil
}

type windowEntry struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

// Expired windows are dropped at most once per sweepEvery, during a hit
const sweepEvery = 5 * time.Minute

type memoryStore struct {
	entries sync.Map // key -> *windowEntry

	sweepMu   sync.Mutex
	lastSweep time.Time
}

func (s *memoryStore) hit(key string, window time.Duration, now time.Time) (int, time.Time) {
	s.maybeSweep(now)

	v, _ := s.entries.LoadOrStore(key, &windowEntry{resetAt: now.Add(window)})
	e := v.(*windowEntry)

	e.mu.Lock()
	defer e.mu.Unlock()
	if now.After(e.resetAt) {
		e.count = 0
		e.resetAt = now.Add(window)
	}
	e.count++
	return e.count, e.resetAt
}

func (s *memoryStore) maybeSweep(now time.Time) {
	s.sweepMu.Lock()
	if s.lastSweep.IsZero() {
		s.lastSweep = now
	}
	due := now.Sub(s.lastSweep) >= sweepEvery
	if due {
		s.lastSweep = now
	}
	s.sweepMu.Unlock()

	if due {
		s.sweep(now)
	}
}

func (s *memoryStore) sweep(now time.Time) {
	s.entries.Range(func(k, v any) bool {
		e := v.(*windowEntry)
		e.mu.Lock()
		expired := now.After(e.resetAt)
		e.mu.Unlock()
		if expired {
			s.entries.Delete(k)
		}
		return true
	})
}

// ContactRateLimitConfig limits contact submissions per client IP. A Redis
// outage falls back to memory so the form stays usable.
func ContactRateLimitConfig(limit int, window time.Duration, client *goredis.Client) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:contact:",
		Redis:     client,
		KeyFunc:   func(c *gin.Context) string { return c.ClientIP() },
	}
}

// RateLimitMiddleware enforces a fixed window per key. A Limit of zero disables it.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	local := &memoryStore{}

	var shared counter
	if config.Redis != nil {
		shared = redisCounter{client: config.Redis}
	}

	return func(c *gin.Context) {
		if config.Limit <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := config.KeyPrefix + config.KeyFunc(c)
		now := time.Now()

		var (
			count   int
			resetAt time.Time
			err     error
		)
		if shared != nil {
			count, resetAt, err = shared.hit(ctx, key, config.Window, now)
		}
		if err != nil {
			logger.Log.WarnContext(ctx, "rate limit store unavailable",
				"request_id", c.GetString("RequestID"),
				"error", err,
			)
		}
		if shared == nil || err != nil {
			count, resetAt = local.hit(key, config.Window, now)
		}

		remaining := config.Limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if count <= config.Limit {
			c.Next()
			return
		}

		retryAfter := int(time.Until(resetAt).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfter))

		logger.Log.InfoContext(ctx, "contact rate limit hit",
			"request_id", c.GetString("RequestID"),
			"ip", c.ClientIP(),
			"path", c.FullPath(),
		)
		if config.OnLimit != nil {
			config.OnLimit(c)
		}
		// Rendered by ErrorHandler
		_ = c.Error(apperror.TooManyRequests(domain.MsgTooManyRequests))
		c.Abort()
	}
}
