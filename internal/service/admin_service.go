package service

import (
	"context"
	"fmt"

	"points_economy/internal/domain"
	"points_economy/internal/logger"

	"github.com/google/uuid"
)

// AdminService is the operator surface: catalog mutations, manual wallet
// adjustments and refunds. It owns no storage; every call delegates to the
// economy services and records an audit row on success.
type AdminService struct {
	ledger    *LedgerService
	market    *MarketService
	purchases *PurchaseService
	progress  *ProgressService
	audit     *AuditService
}

// NewAdminService creates a new admin service
func NewAdminService(ledger *LedgerService, market *MarketService, purchases *PurchaseService, progress *ProgressService, audit *AuditService) *AdminService {
	return &AdminService{
		ledger:    ledger,
		market:    market,
		purchases: purchases,
		progress:  progress,
		audit:     audit,
	}
}

// AdjustRequest is a manual wallet adjustment. The idempotency key makes
// operator retries safe.
type AdjustRequest struct {
	UserID     int64  `json:"user_id"`
	DeltaCoins int64  `json:"delta_coins"`
	DeltaXP    int64  `json:"delta_xp"`
	Note       string `json:"note"`
	Key        string `json:"idempotency_key"`
}

// Adjust appends a manual_adjustment ledger entry for the target user. A
// positive adjustment also counts as a bonus_awarded event so bonus-tracking
// achievements advance.
func (s *AdminService) Adjust(ctx context.Context, actor Actor, req AdjustRequest) (*AppendResult, error) {
	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidArgument)
	}

	result, err := s.ledger.Append(ctx, AppendRequest{
		UserID:     req.UserID,
		DeltaCoins: req.DeltaCoins,
		DeltaXP:    req.DeltaXP,
		Reason:     domain.ReasonManualAdjustment,
		Key:        req.Key,
		Note:       req.Note,
	})
	if err != nil {
		return nil, err
	}

	if !result.Duplicate && (req.DeltaCoins > 0 || req.DeltaXP > 0) {
		// The adjustment is already committed; a failed event only costs
		// achievement progress, never coins.
		if _, err := s.progress.RecordEvent(ctx, req.UserID, domain.Event{Kind: domain.EventBonusAwarded}); err != nil {
			logger.Error("bonus event after adjustment failed", "error", err, "user_id", req.UserID)
		}
	}

	s.audit.Adjusted(ctx, actor, req.UserID, req.DeltaCoins, req.DeltaXP, req.Note)
	return result, nil
}

// CreateItem adds a catalog item on behalf of an operator.
func (s *AdminService) CreateItem(ctx context.Context, actor Actor, in ItemInput) (*domain.MarketItem, error) {
	item, err := s.market.CreateItem(ctx, in)
	if err != nil {
		return nil, err
	}

	s.audit.ItemCreated(ctx, actor, item.ID, item.Key)
	return item, nil
}

// UpdateItem applies a partial catalog update on behalf of an operator.
func (s *AdminService) UpdateItem(ctx context.Context, actor Actor, id uuid.UUID, patch ItemPatch) (*domain.MarketItem, error) {
	item, err := s.market.UpdateItem(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	details := make(map[string]any)
	if patch.Name != nil {
		details["name"] = *patch.Name
	}
	if patch.CostCoins != nil {
		details["cost_coins"] = *patch.CostCoins
	}
	if patch.IsAvailable != nil {
		details["is_available"] = *patch.IsAvailable
	}
	if patch.SortOrder != nil {
		details["sort_order"] = *patch.SortOrder
	}

	s.audit.ItemUpdated(ctx, actor, item.ID, item.Key, details)
	return item, nil
}

// Refund reverses a purchase and credits the owner's wallet.
func (s *AdminService) Refund(ctx context.Context, actor Actor, purchaseID uuid.UUID, reason string) (*domain.Purchase, error) {
	purchase, err := s.purchases.Refund(ctx, purchaseID, reason)
	if err != nil {
		return nil, err
	}

	s.audit.Refunded(ctx, actor, purchase.ID, purchase.UserID, purchase.CostPaid, reason)
	return purchase, nil
}

// AuditTrail returns the most recent audit rows.
func (s *AdminService) AuditTrail(ctx context.Context, limit int) ([]*domain.AuditLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.audit.Recent(ctx, limit)
}
