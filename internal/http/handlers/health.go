package handlers

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
)

// HealthHandler serves the probe endpoints. Postgres gates readiness; Redis
// only powers fail-open rate limiting, so it is reported but never gates.
type HealthHandler struct {
	db      *pgxpool.Pool
	rdb     *redis.Client
	version string
	started time.Time
}

// NewHealthHandler wires the probes. rdb may be nil when Redis is not
// configured.
func NewHealthHandler(db *pgxpool.Pool, rdb *redis.Client, version string) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb, version: version, started: time.Now()}
}

// Liveness answers the liveness probe. No dependency checks here: a hung
// database must not get the process restarted.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness answers the readiness probe with per-dependency detail.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ready := true
	checks := gin.H{}

	if err := h.db.Ping(ctx); err != nil {
		ready = false
		checks["database"] = "unhealthy: " + err.Error()
	} else {
		checks["database"] = "healthy"
	}

	switch {
	case h.rdb == nil:
		checks["redis"] = "not_configured"
	case h.rdb.Ping(ctx).Err() != nil:
		checks["redis"] = "unhealthy"
	default:
		checks["redis"] = "healthy"
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	checks["memory_alloc_mb"] = fmt.Sprintf("%.2f", float64(mem.Alloc)/(1<<20))

	status, code := "healthy", http.StatusOK
	if !ready {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":    status,
		"version":   h.version,
		"uptime":    time.Since(h.started).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

// Health is the quick combined endpoint load balancers poll.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "database unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version})
}
