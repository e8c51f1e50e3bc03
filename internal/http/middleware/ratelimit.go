package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type ipWindow struct {
	start time.Time
	count int
}

var (
	localMu      sync.Mutex
	localWindows = make(map[string]*ipWindow)
)

// LocalRateLimit is an in-process fixed-window limiter keyed by client IP.
// It needs no Redis, so it stays effective on cheap abuse targets like
// /auth even when the shared limiter is unavailable.
func LocalRateLimit(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		ip := c.ClientIP()

		localMu.Lock()
		w, ok := localWindows[ip]
		if !ok || now.Sub(w.start) > window {
			localWindows[ip] = &ipWindow{start: now, count: 1}
			localMu.Unlock()
			c.Next()
			return
		}
		w.count++
		count := w.count
		localMu.Unlock()

		if count > limit {
			RateLimitBlocked.WithLabelValues("local", c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
