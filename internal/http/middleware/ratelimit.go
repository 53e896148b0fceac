package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type memoryWindow struct {
	start time.Time
	count int
}

// memoryLimiter is a fixed-window counter per client, kept in process
// memory. State is per middleware instance and lost on restart.
type memoryLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	clients map[string]*memoryWindow
}

func (l *memoryLimiter) allow(id string) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.clients[id]
	if !ok || now.Sub(w.start) > l.window {
		l.clients[id] = &memoryWindow{start: now, count: 1}
		return true
	}
	w.count++
	return w.count <= l.max
}

// SimpleRateLimit caps requests per client IP without touching Redis. Good
// enough for the tiny admin surface; everything high-traffic goes through
// the Redis-backed limiters.
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	l := &memoryLimiter{
		max:     maxRequests,
		window:  window,
		clients: make(map[string]*memoryWindow),
	}
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
