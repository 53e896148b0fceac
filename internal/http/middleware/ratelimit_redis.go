package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"points_economy/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedisRateLimiter connects the shared Redis client backing the
// distributed limiters. When addr is empty or the ping fails the client
// stays nil and every Redis-backed limiter falls open: throttling here is
// load shedding, never a correctness gate.
func InitRedisRateLimiter(addr, password string, db int) {
	if addr == "" {
		return
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, rate limiting disabled", "error", err)
		return
	}
	redisClient = client
}

// RedisClient exposes the shared client so health checks can ping it.
// Nil when Redis is not configured.
func RedisClient() *redis.Client {
	return redisClient
}

// bump advances the fixed-window counter behind key and returns its new
// value. The first hit of a window stamps the TTL.
func bump(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		redisClient.Expire(ctx, key, window)
	}
	return n, nil
}

// RedisRateLimit caps requests per client IP across all instances with a
// Redis fixed window (INCR + EXPIRE). Redis errors fail open, flagged with a
// response header so they show up in traces without taking the API down.
func RedisRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		key := "rl:ip:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + c.ClientIP()
		n, err := bump(c.Request.Context(), key, window)
		if err != nil {
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}

		if n > int64(maxRequests) {
			RateLimitBlocked.WithLabelValues("ip", c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		RateLimitSeen.WithLabelValues("ip", c.FullPath()).Inc()
		c.Next()
	}
}
