package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// clientLimiter caps requests per client IP over a fixed window. Counters
// reset when their window elapses, so a burst right before the boundary can
// briefly double the rate; acceptable for a single-instance deployment.
type clientLimiter struct {
	mu     sync.Mutex
	counts map[string]*windowHits
	limit  int
	window time.Duration
}

type windowHits struct {
	start time.Time
	n     int
}

func newClientLimiter(limit int, window time.Duration) *clientLimiter {
	l := &clientLimiter{
		counts: make(map[string]*windowHits),
		limit:  limit,
		window: window,
	}
	go l.sweep()
	return l
}

func (l *clientLimiter) allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	w := l.counts[key]
	if w == nil || now.Sub(w.start) >= l.window {
		l.counts[key] = &windowHits{start: now, n: 1}
		return true
	}
	if w.n >= l.limit {
		return false
	}
	w.n++
	return true
}

// sweep drops counters whose window has long passed so idle clients do not
// accumulate.
func (l *clientLimiter) sweep() {
	tick := time.NewTicker(time.Minute)
	for range tick.C {
		now := time.Now()
		l.mu.Lock()
		for key, w := range l.counts {
			if now.Sub(w.start) >= l.window {
				delete(l.counts, key)
			}
		}
		l.mu.Unlock()
	}
}

// RateLimit limits requests per client IP. Each call owns its own counters,
// so route groups can stack a tighter limit on top of the global one.
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	limiter := newClientLimiter(limit, window)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
