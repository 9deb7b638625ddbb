package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSlidingWindowLimiter(t *testing.T) {
	t.Run("allows_up_to_limit", func(t *testing.T) {
		l := NewSlidingWindowLimiter(3, time.Minute)
		for i := 0; i < 3; i++ {
			if !l.Allow("k") {
				t.Fatalf("expected request %d allowed", i+1)
			}
		}
		if l.Allow("k") {
			t.Error("expected request over limit rejected")
		}
	})

	t.Run("keys_are_independent", func(t *testing.T) {
		l := NewSlidingWindowLimiter(1, time.Minute)
		if !l.Allow("a") {
			t.Fatal("expected first key allowed")
		}
		if !l.Allow("b") {
			t.Error("expected second key unaffected")
		}
		if l.Allow("a") {
			t.Error("expected first key exhausted")
		}
	})

	t.Run("window_slides", func(t *testing.T) {
		now := time.Now()
		l := NewSlidingWindowLimiter(2, time.Minute)
		l.now = func() time.Time { return now }

		l.Allow("k")
		l.Allow("k")
		if l.Allow("k") {
			t.Fatal("expected limit reached")
		}

		// Advance past the window; old timestamps are pruned lazily.
		now = now.Add(61 * time.Second)
		if !l.Allow("k") {
			t.Error("expected request allowed after window elapsed")
		}
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewSlidingWindowLimiter(1, time.Minute)

	r := gin.New()
	r.GET("/notes", RateLimit(limiter), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/notes", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	if rec := do(); rec.Code != http.StatusOK {
		t.Fatalf("expected first request allowed, got %d", rec.Code)
	}
	rec := do()
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}
