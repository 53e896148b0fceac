package http

import (
	"time"

	"points_economy/internal/config"
	"points_economy/internal/http/handlers"
	"points_economy/internal/http/middleware"
	"points_economy/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes wires the whole HTTP surface: public catalog reads, the
// authenticated economy, the admin group and the notification feed.
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, version string, cfg *config.Config) {
	hub := ws.NewHub()
	h := handlers.NewHandler(db, hub)
	healthHandler := handlers.NewHealthHandler(db, middleware.RedisClient(), version)

	// Health and metrics (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiWindow := time.Duration(cfg.APIRateWindow) * time.Second
	econWindow := time.Duration(cfg.EconomyRateWindow) * time.Second

	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit(cfg.APIRateLimit, apiWindow))

	// Public reads
	api.GET("/market/items", h.ListItems)
	api.GET("/market/items/:key", h.GetItem)
	api.GET("/leaderboard", h.Leaderboard)

	// Authenticated economy. Mutating routes get a tighter per-user budget on
	// top of the per-IP group limit.
	auth := api.Group("")
	auth.Use(middleware.JWT())
	{
		econRL := middleware.UserRateLimit("economy", cfg.EconomyRateLimit, econWindow)

		auth.GET("/wallet", h.Wallet)
		auth.GET("/wallet/ledger", h.WalletLedger)

		auth.POST("/market/purchase", econRL, h.Purchase)
		auth.POST("/market/redeem", econRL, h.Redeem)
		auth.GET("/market/purchases", h.MyPurchases)

		auth.POST("/events", econRL, h.RecordEvent)

		auth.GET("/progress/achievements", h.Achievements)
		auth.GET("/progress/skills", h.Skills)

		auth.GET("/quests", h.ListQuests)
		auth.POST("/quests/:id/accept", h.AcceptQuest)
		auth.POST("/quests/:id/abandon", h.AbandonQuest)

		auth.GET("/gamification/summary", h.GamificationSummary)
		auth.GET("/gamification/teaser", h.AchievementTeaser)
	}

	// Admin surface: allowlisted operators only. The in-process limiter is
	// enough here; admin traffic is tiny.
	admin := api.Group("/admin")
	admin.Use(middleware.JWT(), middleware.AdminOnly(cfg.AdminUserIDs), middleware.SimpleRateLimit(60, time.Minute))
	{
		admin.POST("/market/items", h.AdminCreateItem)
		admin.PATCH("/market/items/:id", h.AdminUpdateItem)
		admin.POST("/adjust", h.AdminAdjust)
		admin.POST("/refund", h.AdminRefund)
		admin.GET("/audit", h.AdminAudit)
	}

	// WebSocket notification feed (token via query, see ws.HandleWS)
	r.GET("/ws", ws.HandleWS(hub))
}
