package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	rateLimitMax    = 50
	rateLimitWindow = time.Second
)

type rateWindow struct {
	start time.Time
	count int
}

// RateLimit returns a middleware that enforces a fixed-window rate limit of 50
// requests per second per client IP. Counters live in process memory and stale
// windows are pruned lazily as new requests arrive.
func RateLimit() gin.HandlerFunc {
	var (
		mu      sync.Mutex
		windows = make(map[string]*rateWindow)
	)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		now := time.Now()

		mu.Lock()
		w, ok := windows[ip]
		if !ok || now.Sub(w.start) >= rateLimitWindow {
			w = &rateWindow{start: now}
			windows[ip] = w
		}
		w.count++
		over := w.count > rateLimitMax
		if len(windows) > 4096 {
			for key, win := range windows {
				if now.Sub(win.start) >= rateLimitWindow {
					delete(windows, key)
				}
			}
		}
		mu.Unlock()

		if over {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"ok":      0,
				"code":    http.StatusTooManyRequests,
				"message": "too many requests, slow down",
			})
			return
		}

		c.Next()
	}
}
