package domain

import "time"

// AuditLog records an admin or balance-affecting action for operator review.
type AuditLog struct {
	ID        int64          `db:"id" json:"id"`
	ActorID   int64          `db:"actor_id" json:"actor_id"`
	Action    string         `db:"action" json:"action"`
	Category  string         `db:"category" json:"category"`
	Details   map[string]any `db:"details" json:"details"`
	IP        string         `db:"ip" json:"ip,omitempty"`
	UserAgent string         `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// Audit categories
const (
	AuditCategoryCatalog = "catalog"
	AuditCategoryBalance = "balance"
	AuditCategoryMarket  = "market"
)

// Audit actions
const (
	AuditActionItemCreate = "item_create"
	AuditActionItemUpdate = "item_update"
	AuditActionAdjust     = "wallet_adjust"
	AuditActionRefund     = "purchase_refund"
)
