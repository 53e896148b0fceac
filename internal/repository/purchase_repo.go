package repository

import (
	"context"

	"points_economy/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PurchaseRepository stores owned items. Each row snapshots the item's key,
// name and price at purchase time, so later catalog edits never change what
// a user already bought.
type PurchaseRepository struct {
	db *pgxpool.Pool
}

func NewPurchaseRepository(db *pgxpool.Pool) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

const purchaseColumns = `id, user_id, item_id, ledger_entry_id, item_key, item_name, cost_paid,
	quantity, uses_remaining, is_redeemed, purchased_at, redeemed_at, refunded_at, refund_entry_id`

func scanPurchase(row pgx.Row) (*domain.Purchase, error) {
	var p domain.Purchase
	err := row.Scan(&p.ID, &p.UserID, &p.ItemID, &p.LedgerEntryID, &p.ItemKey, &p.ItemName,
		&p.CostPaid, &p.Quantity, &p.UsesRemaining, &p.IsRedeemed, &p.PurchasedAt,
		&p.RedeemedAt, &p.RefundedAt, &p.RefundEntryID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// InsertTx records the purchase inside the same transaction as its ledger
// entry, so an owned item without a charge can never exist.
func (r *PurchaseRepository) InsertTx(ctx context.Context, tx pgx.Tx, p *domain.Purchase) (*domain.Purchase, error) {
	return scanPurchase(tx.QueryRow(ctx,
		`INSERT INTO purchases (id, user_id, item_id, ledger_entry_id, item_key, item_name,
		                        cost_paid, quantity, uses_remaining)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+purchaseColumns,
		p.ID, p.UserID, p.ItemID, p.LedgerEntryID, p.ItemKey, p.ItemName,
		p.CostPaid, p.Quantity, p.UsesRemaining))
}

func (r *PurchaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Purchase, error) {
	return scanPurchase(r.db.QueryRow(ctx,
		`SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id))
}

// GetByLedgerEntry resolves the purchase that a charge entry paid for.
// Used to answer idempotent replays with the originally created purchase.
func (r *PurchaseRepository) GetByLedgerEntry(ctx context.Context, ledgerEntryID uuid.UUID) (*domain.Purchase, error) {
	return scanPurchase(r.db.QueryRow(ctx,
		`SELECT `+purchaseColumns+` FROM purchases WHERE ledger_entry_id = $1`, ledgerEntryID))
}

// GetForUpdate locks the purchase row for a redeem or refund decision.
func (r *PurchaseRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Purchase, error) {
	return scanPurchase(tx.QueryRow(ctx,
		`SELECT `+purchaseColumns+` FROM purchases WHERE id = $1 FOR UPDATE`, id))
}

// ListByUser returns the user's inventory, newest first. redeemed=nil returns
// everything; otherwise it filters on the redeemed flag.
func (r *PurchaseRepository) ListByUser(ctx context.Context, userID int64, redeemed *bool, limit, offset int) ([]*domain.Purchase, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var (
		rows pgx.Rows
		err  error
	)
	if redeemed == nil {
		rows, err = r.db.Query(ctx,
			`SELECT `+purchaseColumns+`
			 FROM purchases
			 WHERE user_id = $1
			 ORDER BY purchased_at DESC, id DESC
			 LIMIT $2 OFFSET $3`,
			userID, limit, offset)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT `+purchaseColumns+`
			 FROM purchases
			 WHERE user_id = $1 AND is_redeemed = $2 AND refunded_at IS NULL
			 ORDER BY purchased_at DESC, id DESC
			 LIMIT $3 OFFSET $4`,
			userID, *redeemed, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// SetRedemptionTx writes the state a redemption decided on: the remaining use
// count and whether the purchase is now spent. redeemed_at is stamped only at
// the false→true flip, so it marks exhaustion, not first use.
func (r *PurchaseRepository) SetRedemptionTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, usesRemaining *int, redeemed bool) (*domain.Purchase, error) {
	return scanPurchase(tx.QueryRow(ctx,
		`UPDATE purchases
		 SET uses_remaining = $1,
		     is_redeemed = $2,
		     redeemed_at = CASE WHEN $2 AND redeemed_at IS NULL THEN now() ELSE redeemed_at END
		 WHERE id = $3
		 RETURNING `+purchaseColumns,
		usesRemaining, redeemed, id))
}

// MarkRefundedTx links the purchase to its refund entry in the same
// transaction that credited the coins back.
func (r *PurchaseRepository) MarkRefundedTx(ctx context.Context, tx pgx.Tx, id, refundEntryID uuid.UUID) (*domain.Purchase, error) {
	return scanPurchase(tx.QueryRow(ctx,
		`UPDATE purchases
		 SET refunded_at = now(), refund_entry_id = $1
		 WHERE id = $2 AND refunded_at IS NULL
		 RETURNING `+purchaseColumns,
		refundEntryID, id))
}

// CountByUser reports inventory size for pagination.
func (r *PurchaseRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM purchases WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}
