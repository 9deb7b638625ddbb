package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "collector/internal/errors"
)

// RateLimiter decides whether a request identified by key may proceed.
// Injecting the limiter keeps the gateway decoupled from any particular
// counting strategy and lets tests substitute a deterministic one.
type RateLimiter interface {
	Allow(key string) bool
}

// SlidingWindowLimiter caps the number of events per key within a trailing
// time window. Timestamps are pruned lazily on each check. State is held in
// memory only and resets on process restart; this is an abuse-mitigation
// heuristic, not a correctness mechanism.
type SlidingWindowLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	now    func() time.Time
	hits   map[string][]time.Time
}

// NewSlidingWindowLimiter creates a limiter allowing limit events per key
// within the trailing window.
func NewSlidingWindowLimiter(limit int, window time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		hits:   make(map[string][]time.Time),
	}
}

// Allow records an event for key and reports whether it stays within the
// limit. Events older than the window are discarded first.
func (l *SlidingWindowLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	recent := l.hits[key][:0]
	for _, ts := range l.hits[key] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= l.limit {
		l.hits[key] = recent
		return false
	}

	l.hits[key] = append(recent, now)
	return true
}

// RateLimit returns a Gin middleware that rejects requests exceeding the
// limiter's budget with 429. Requests are keyed by client IP and route.
func RateLimit(limiter RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP() + ":" + c.FullPath()
		if !limiter.Allow(key) {
			abortWithAppError(c, apperrors.ErrRateLimited)
			return
		}
		c.Next()
	}
}
