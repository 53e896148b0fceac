package handlers

import (
	"strconv"

	"points_economy/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler bundles the economy services behind the HTTP surface.
type Handler struct {
	DB        *pgxpool.Pool
	Ledger    *service.LedgerService
	Market    *service.MarketService
	Purchases *service.PurchaseService
	Progress  *service.ProgressService
	Quests    *service.QuestService
	Summary   *service.SummaryService
	Admin     *service.AdminService
}

// NewHandler wires the service graph. notifier may be nil; the economy then
// runs without push notifications.
func NewHandler(db *pgxpool.Pool, notifier service.Notifier) *Handler {
	ledger := service.NewLedgerService(db)
	market := service.NewMarketService(db)
	purchases := service.NewPurchaseService(db, ledger, notifier)
	progress := service.NewProgressService(db, ledger, notifier)
	audit := service.NewAuditService(db)

	return &Handler{
		DB:        db,
		Ledger:    ledger,
		Market:    market,
		Purchases: purchases,
		Progress:  progress,
		Quests:    service.NewQuestService(db),
		Summary:   service.NewSummaryService(db, ledger),
		Admin:     service.NewAdminService(ledger, market, purchases, progress, audit),
	}
}

// getUserID pulls the authenticated user id out of the gin context.
func getUserID(c interface{ Get(string) (any, bool) }) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// intQuery reads a numeric query parameter, falling back on bad input.
func intQuery(c *gin.Context, name string, fallback int) int {
	if v := c.Query(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
