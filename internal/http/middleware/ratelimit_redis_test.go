package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func limitedRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", mw, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func get(t *testing.T, r *gin.Engine) int {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	return w.Code
}

// With no Redis client configured the limiter must pass everything through.
func TestRedisRateLimitFailOpen(t *testing.T) {
	saved := redisClient
	redisClient = nil
	t.Cleanup(func() { redisClient = saved })

	r := limitedRouter(RedisRateLimit(1, time.Second))
	for i := 0; i < 5; i++ {
		if code := get(t, r); code != http.StatusOK {
			t.Fatalf("request %d: status %d with limiter disabled", i, code)
		}
	}
}

func TestSimpleRateLimitCapsPerWindow(t *testing.T) {
	r := limitedRouter(SimpleRateLimit(2, time.Minute))

	want := []int{200, 200, 429, 429}
	for i, w := range want {
		if code := get(t, r); code != w {
			t.Fatalf("request %d: status %d, want %d", i, code, w)
		}
	}
}

func TestMemoryLimiterWindowRollover(t *testing.T) {
	l := &memoryLimiter{max: 1, window: 20 * time.Millisecond, clients: map[string]*memoryWindow{}}

	if !l.allow("a") {
		t.Fatal("first request blocked")
	}
	if l.allow("a") {
		t.Fatal("second request allowed within window")
	}
	if !l.allow("b") {
		t.Fatal("other client blocked by a's window")
	}

	time.Sleep(30 * time.Millisecond)
	if !l.allow("a") {
		t.Fatal("request blocked after window rolled over")
	}
}

// Runs only against a real Redis; set REDIS_ADDR to enable.
func TestRedisRateLimitWindow(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	InitRedisRateLimiter(addr, os.Getenv("REDIS_PASSWORD"), 0)
	if redisClient == nil {
		t.Fatalf("redis at %s unreachable", addr)
	}

	const limit = 3
	r := limitedRouter(RedisRateLimit(limit, 2*time.Second))

	for i := 0; i < limit; i++ {
		if code := get(t, r); code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, code)
		}
	}
	if code := get(t, r); code != http.StatusTooManyRequests {
		t.Fatalf("over-limit request: status %d, want 429", code)
	}
}
