package service

import (
	"context"

	"points_economy/internal/domain"
	"points_economy/internal/logger"
	"points_economy/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Actor identifies the operator behind an audited call, together with the
// request attribution that lands in the audit row.
type Actor struct {
	ID        int64
	IP        string
	UserAgent string
}

// AuditService writes the operator action trail. Audit writes never fail the
// calling operation; errors are logged and dropped.
type AuditService struct {
	repo *repository.AuditRepository
}

func NewAuditService(db *pgxpool.Pool) *AuditService {
	return &AuditService{repo: repository.NewAuditRepository(db)}
}

// Record writes one audit row for the actor.
func (s *AuditService) Record(ctx context.Context, actor Actor, action, category string, details map[string]any) {
	row := &domain.AuditLog{
		ActorID:   actor.ID,
		Action:    action,
		Category:  category,
		Details:   details,
		IP:        actor.IP,
		UserAgent: actor.UserAgent,
	}
	if err := s.repo.Insert(ctx, row); err != nil {
		logger.Error("audit write failed", "error", err, "action", action, "actor_id", actor.ID)
	}
}

// ItemCreated records a catalog item creation.
func (s *AuditService) ItemCreated(ctx context.Context, actor Actor, itemID uuid.UUID, itemKey string) {
	s.Record(ctx, actor, domain.AuditActionItemCreate, domain.AuditCategoryCatalog, map[string]any{
		"item_id":  itemID.String(),
		"item_key": itemKey,
	})
}

// ItemUpdated records a catalog item update with the changed fields.
func (s *AuditService) ItemUpdated(ctx context.Context, actor Actor, itemID uuid.UUID, itemKey string, changed map[string]any) {
	if changed == nil {
		changed = map[string]any{}
	}
	changed["item_id"] = itemID.String()
	changed["item_key"] = itemKey

	s.Record(ctx, actor, domain.AuditActionItemUpdate, domain.AuditCategoryCatalog, changed)
}

// Adjusted records a manual wallet adjustment.
func (s *AuditService) Adjusted(ctx context.Context, actor Actor, targetUserID, deltaCoins, deltaXP int64, note string) {
	s.Record(ctx, actor, domain.AuditActionAdjust, domain.AuditCategoryBalance, map[string]any{
		"target_user_id": targetUserID,
		"delta_coins":    deltaCoins,
		"delta_xp":       deltaXP,
		"note":           note,
	})
}

// Refunded records a purchase refund.
func (s *AuditService) Refunded(ctx context.Context, actor Actor, purchaseID uuid.UUID, ownerID, amount int64, note string) {
	s.Record(ctx, actor, domain.AuditActionRefund, domain.AuditCategoryMarket, map[string]any{
		"purchase_id":    purchaseID.String(),
		"target_user_id": ownerID,
		"amount":         amount,
		"note":           note,
	})
}

// Recent returns the newest audit rows.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]*domain.AuditLog, error) {
	return s.repo.List(ctx, repository.AuditFilter{Limit: limit})
}

// ByActor returns the newest audit rows for one operator.
func (s *AuditService) ByActor(ctx context.Context, actorID int64, limit int) ([]*domain.AuditLog, error) {
	return s.repo.List(ctx, repository.AuditFilter{ActorID: actorID, Limit: limit})
}

// ByCategory returns the newest audit rows in one category.
func (s *AuditService) ByCategory(ctx context.Context, category string, limit int) ([]*domain.AuditLog, error) {
	return s.repo.List(ctx, repository.AuditFilter{Category: category, Limit: limit})
}
