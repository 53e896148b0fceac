package service

import (
	"context"
	"errors"

	"points_economy/internal/domain"
	"points_economy/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrItemNotFound     = errors.New("item not found")
	ErrPurchaseNotFound = errors.New("purchase not found")
	ErrForbidden        = errors.New("forbidden")
	ErrNotConsumable    = errors.New("item is not consumable")
	ErrPurchaseRefunded = errors.New("purchase was refunded")
	ErrAlreadyRefunded  = errors.New("purchase already refunded")
	ErrRefundRedeemed   = errors.New("cannot refund a redeemed purchase")
)

// maxPurchaseQuantity caps one order; larger carts are split by the client.
const maxPurchaseQuantity = 100

// PurchaseService orchestrates buying, redeeming and refunding market items.
// Every coin movement goes through the ledger append inside the same
// transaction as the purchase row, so money and inventory cannot diverge.
type PurchaseService struct {
	db        *pgxpool.Pool
	ledger    *LedgerService
	items     *repository.MarketRepository
	purchases *repository.PurchaseRepository
	notifier  Notifier
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(db *pgxpool.Pool, ledger *LedgerService, notifier Notifier) *PurchaseService {
	return &PurchaseService{
		db:        db,
		ledger:    ledger,
		items:     repository.NewMarketRepository(db),
		purchases: repository.NewPurchaseRepository(db),
		notifier:  notifier,
	}
}

// PurchaseResult carries the purchase and the wallet after the charge.
// Duplicate marks an idempotent replay: the originally created purchase is
// returned and nothing was charged again.
type PurchaseResult struct {
	Purchase  *domain.Purchase
	Wallet    *domain.Wallet
	Duplicate bool
}

// Purchase charges cost_coins * quantity and records the owned item. The
// caller-supplied idempotency key makes retries safe: a replay with the same
// key, item and quantity returns the original purchase; the same key with a
// different payload is rejected.
func (s *PurchaseService) Purchase(ctx context.Context, userID int64, itemKey string, quantity int, key string) (*PurchaseResult, error) {
	if key == "" {
		return nil, ErrInvalidArgument
	}
	if quantity <= 0 || quantity > maxPurchaseQuantity {
		return nil, ErrInvalidArgument
	}

	item, err := s.items.GetByKey(ctx, itemKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			PurchasesTotal.WithLabelValues("not_found").Inc()
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	if !item.IsAvailable {
		PurchasesTotal.WithLabelValues("not_found").Inc()
		return nil, ErrItemNotFound
	}

	cost := item.CostCoins * int64(quantity)

	var result *PurchaseResult
	err = runWalletTx(ctx, s.db, func(tx pgx.Tx) error {
		res, err := s.ledger.AppendInTx(ctx, tx, AppendRequest{
			UserID:     userID,
			DeltaCoins: -cost,
			Reason:     domain.ReasonPurchase,
			Key:        key,
			Note:       "purchase " + item.Key,
		})
		if err != nil {
			return err
		}

		if res.Duplicate {
			original, err := s.purchases.GetByLedgerEntry(ctx, res.Entry.ID)
			if err != nil {
				return err
			}
			if original.ItemID != item.ID || original.Quantity != quantity {
				return ErrIdempotencyKeyReused
			}
			result = &PurchaseResult{Purchase: original, Wallet: res.Wallet, Duplicate: true}
			return nil
		}

		var uses *int
		if item.IsConsumable {
			u := item.UsesPerPurchase * quantity
			uses = &u
		}
		created, err := s.purchases.InsertTx(ctx, tx, &domain.Purchase{
			ID:            uuid.New(),
			UserID:        userID,
			ItemID:        item.ID,
			LedgerEntryID: res.Entry.ID,
			ItemKey:       item.Key,
			ItemName:      item.Name,
			CostPaid:      cost,
			Quantity:      quantity,
			UsesRemaining: uses,
		})
		if err != nil {
			return err
		}
		result = &PurchaseResult{Purchase: created, Wallet: res.Wallet}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInsufficientFunds):
			PurchasesTotal.WithLabelValues("insufficient_funds").Inc()
		case errors.Is(err, ErrIdempotencyKeyReused):
			PurchasesTotal.WithLabelValues("key_reused").Inc()
		case errors.Is(err, ErrServiceUnavailable):
			PurchasesTotal.WithLabelValues("unavailable").Inc()
		default:
			PurchasesTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	if result.Duplicate {
		PurchasesTotal.WithLabelValues("duplicate").Inc()
		return result, nil
	}
	PurchasesTotal.WithLabelValues("ok").Inc()

	notify(s.notifier, userID, NotifyPurchase, result.Purchase)
	notify(s.notifier, userID, NotifyWalletUpdate, result.Wallet)
	return result, nil
}

// Redeem consumes one use of a consumable purchase. Only the owner may
// redeem; refunded purchases are rejected; an already-exhausted purchase is
// returned as-is so double-submits stay harmless. The ledger is untouched
// because the coins were spent at purchase time.
func (s *PurchaseService) Redeem(ctx context.Context, userID int64, purchaseID uuid.UUID) (*domain.Purchase, error) {
	var result *domain.Purchase
	consumed := false

	err := runWalletTx(ctx, s.db, func(tx pgx.Tx) error {
		p, err := s.purchases.GetForUpdate(ctx, tx, purchaseID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrPurchaseNotFound
			}
			return err
		}
		if p.UserID != userID {
			return ErrForbidden
		}
		if p.Refunded() {
			return ErrPurchaseRefunded
		}
		if !p.Consumable() {
			return ErrNotConsumable
		}
		if p.IsRedeemed {
			result = p
			return nil
		}

		uses := *p.UsesRemaining - 1
		if uses < 0 {
			uses = 0
		}
		updated, err := s.purchases.SetRedemptionTx(ctx, tx, p.ID, &uses, uses == 0)
		if err != nil {
			return err
		}
		result = updated
		consumed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if consumed {
		notify(s.notifier, userID, NotifyRedemption, result)
	}
	return result, nil
}

// Refund credits the full price back and stamps the purchase, exactly once.
// The deterministic refund key means even a crashed-and-retried refund cannot
// credit twice. Redeemed purchases cannot be refunded.
func (s *PurchaseService) Refund(ctx context.Context, purchaseID uuid.UUID, note string) (*domain.Purchase, error) {
	var result *domain.Purchase
	var wallet *domain.Wallet

	err := runWalletTx(ctx, s.db, func(tx pgx.Tx) error {
		p, err := s.purchases.GetForUpdate(ctx, tx, purchaseID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrPurchaseNotFound
			}
			return err
		}
		if p.Refunded() {
			return ErrAlreadyRefunded
		}
		if p.IsRedeemed {
			return ErrRefundRedeemed
		}

		res, err := s.ledger.AppendInTx(ctx, tx, AppendRequest{
			UserID:     p.UserID,
			DeltaCoins: p.CostPaid,
			Reason:     domain.ReasonRefund,
			Key:        domain.RefundKey(p.ID),
			Note:       note,
		})
		if err != nil {
			return err
		}

		updated, err := s.purchases.MarkRefundedTx(ctx, tx, p.ID, res.Entry.ID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrAlreadyRefunded
			}
			return err
		}
		result = updated
		wallet = res.Wallet
		return nil
	})
	if err != nil {
		return nil, err
	}

	notify(s.notifier, result.UserID, NotifyWalletUpdate, wallet)
	return result, nil
}

// Get returns one purchase, owner-checked.
func (s *PurchaseService) Get(ctx context.Context, userID int64, purchaseID uuid.UUID) (*domain.Purchase, error) {
	p, err := s.purchases.GetByID(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPurchaseNotFound
		}
		return nil, err
	}
	if p.UserID != userID {
		return nil, ErrForbidden
	}
	return p, nil
}

// Inventory returns the user's purchase history, newest first.
func (s *PurchaseService) Inventory(ctx context.Context, userID int64, limit, offset int) ([]*domain.Purchase, int64, error) {
	purchases, err := s.purchases.ListByUser(ctx, userID, nil, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.purchases.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return purchases, total, nil
}
