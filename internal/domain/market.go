package domain

import (
	"time"

	"github.com/google/uuid"
)

// Rarity classifies market items for display purposes.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	}
	return false
}

// MarketItem is a catalog entry. The economy core only reads items; mutation
// authority lives on the admin surface.
type MarketItem struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Key             string    `db:"key" json:"key"`
	Name            string    `db:"name" json:"name"`
	Description     string    `db:"description" json:"description,omitempty"`
	Category        string    `db:"category" json:"category"`
	CostCoins       int64     `db:"cost_coins" json:"cost_coins"`
	Icon            string    `db:"icon" json:"icon,omitempty"`
	Rarity          Rarity    `db:"rarity" json:"rarity"`
	IsConsumable    bool      `db:"is_consumable" json:"is_consumable"`
	UsesPerPurchase int       `db:"uses_per_purchase" json:"uses_per_purchase"`
	IsAvailable     bool      `db:"is_available" json:"is_available"`
	SortOrder       int       `db:"sort_order" json:"sort_order"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Purchase records one paid-for acquisition. It is created atomically with
// its debiting ledger entry and is never deleted; it is the audit trail for
// what a user owns and consumed. Item name and cost are snapshots taken at
// purchase time, decoupled from later catalog edits.
type Purchase struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	UserID        int64      `db:"user_id" json:"user_id"`
	ItemID        uuid.UUID  `db:"item_id" json:"item_id"`
	LedgerEntryID uuid.UUID  `db:"ledger_entry_id" json:"ledger_entry_id"`
	ItemKey       string     `db:"item_key" json:"item_key"`
	ItemName      string     `db:"item_name" json:"item_name"`
	CostPaid      int64      `db:"cost_paid" json:"cost_paid"`
	Quantity      int        `db:"quantity" json:"quantity"`
	UsesRemaining *int       `db:"uses_remaining" json:"uses_remaining,omitempty"`
	IsRedeemed    bool       `db:"is_redeemed" json:"is_redeemed"`
	PurchasedAt   time.Time  `db:"purchased_at" json:"purchased_at"`
	RedeemedAt    *time.Time `db:"redeemed_at" json:"redeemed_at,omitempty"`
	RefundedAt    *time.Time `db:"refunded_at" json:"refunded_at,omitempty"`
	RefundEntryID *uuid.UUID `db:"refund_entry_id" json:"refund_entry_id,omitempty"`
}

// Consumable reports whether the purchase still requires redemption.
// Non-consumables carry no uses counter and are owned outright.
func (p *Purchase) Consumable() bool {
	return p.UsesRemaining != nil
}

func (p *Purchase) Refunded() bool {
	return p.RefundedAt != nil
}
