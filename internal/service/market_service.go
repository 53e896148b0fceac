package service

import (
	"context"
	"errors"
	"fmt"

	"points_economy/internal/domain"
	"points_economy/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrDuplicateItemKey = errors.New("item key already exists")

// MarketService is the catalog: a read path for the economy core plus the
// admin-only mutation surface. Nothing in the purchase flow writes here.
type MarketService struct {
	items *repository.MarketRepository
}

// NewMarketService creates a new market service
func NewMarketService(db *pgxpool.Pool) *MarketService {
	return &MarketService{items: repository.NewMarketRepository(db)}
}

// List returns catalog items. Users see available items only; the admin
// surface passes includeUnavailable to see retired ones too.
func (s *MarketService) List(ctx context.Context, category string, includeUnavailable bool) ([]*domain.MarketItem, error) {
	return s.items.List(ctx, category, !includeUnavailable)
}

// GetByKey returns one item by its stable key.
func (s *MarketService) GetByKey(ctx context.Context, key string) (*domain.MarketItem, error) {
	item, err := s.items.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// GetByID returns one item by id.
func (s *MarketService) GetByID(ctx context.Context, id uuid.UUID) (*domain.MarketItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// ItemInput is the admin-facing shape for creating an item.
type ItemInput struct {
	Key             string        `json:"key"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	Category        string        `json:"category"`
	CostCoins       int64         `json:"cost_coins"`
	Icon            string        `json:"icon"`
	Rarity          domain.Rarity `json:"rarity"`
	IsConsumable    bool          `json:"is_consumable"`
	UsesPerPurchase int           `json:"uses_per_purchase"`
	IsAvailable     *bool         `json:"is_available"`
	SortOrder       int           `json:"sort_order"`
}

func (in *ItemInput) validate() error {
	if in.Key == "" {
		return fmt.Errorf("%w: key is required", ErrInvalidArgument)
	}
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if in.CostCoins < 0 {
		return fmt.Errorf("%w: cost_coins must not be negative", ErrInvalidArgument)
	}
	if in.Rarity == "" {
		in.Rarity = domain.RarityCommon
	}
	if !in.Rarity.Valid() {
		return fmt.Errorf("%w: unknown rarity %q", ErrInvalidArgument, in.Rarity)
	}
	if in.Category == "" {
		in.Category = "general"
	}
	if in.UsesPerPurchase <= 0 {
		in.UsesPerPurchase = 1
	}
	return nil
}

// CreateItem validates and inserts a catalog entry.
func (s *MarketService) CreateItem(ctx context.Context, in ItemInput) (*domain.MarketItem, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}

	item, err := s.items.Create(ctx, &domain.MarketItem{
		ID:              uuid.New(),
		Key:             in.Key,
		Name:            in.Name,
		Description:     in.Description,
		Category:        in.Category,
		CostCoins:       in.CostCoins,
		Icon:            in.Icon,
		Rarity:          in.Rarity,
		IsConsumable:    in.IsConsumable,
		UsesPerPurchase: in.UsesPerPurchase,
		IsAvailable:     available,
		SortOrder:       in.SortOrder,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateItemKey
		}
		return nil, err
	}
	return item, nil
}

// ItemPatch carries the admin-editable fields; nil fields are left alone.
// The key is immutable so existing purchase snapshots stay traceable.
type ItemPatch struct {
	Name            *string        `json:"name"`
	Description     *string        `json:"description"`
	Category        *string        `json:"category"`
	CostCoins       *int64         `json:"cost_coins"`
	Icon            *string        `json:"icon"`
	Rarity          *domain.Rarity `json:"rarity"`
	IsConsumable    *bool          `json:"is_consumable"`
	UsesPerPurchase *int           `json:"uses_per_purchase"`
	IsAvailable     *bool          `json:"is_available"`
	SortOrder       *int           `json:"sort_order"`
}

// UpdateItem applies a partial update to one item.
func (s *MarketService) UpdateItem(ctx context.Context, id uuid.UUID, patch ItemPatch) (*domain.MarketItem, error) {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Category != nil {
		item.Category = *patch.Category
	}
	if patch.CostCoins != nil {
		item.CostCoins = *patch.CostCoins
	}
	if patch.Icon != nil {
		item.Icon = *patch.Icon
	}
	if patch.Rarity != nil {
		item.Rarity = *patch.Rarity
	}
	if patch.IsConsumable != nil {
		item.IsConsumable = *patch.IsConsumable
	}
	if patch.UsesPerPurchase != nil {
		item.UsesPerPurchase = *patch.UsesPerPurchase
	}
	if patch.IsAvailable != nil {
		item.IsAvailable = *patch.IsAvailable
	}
	if patch.SortOrder != nil {
		item.SortOrder = *patch.SortOrder
	}

	if item.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if item.CostCoins < 0 {
		return nil, fmt.Errorf("%w: cost_coins must not be negative", ErrInvalidArgument)
	}
	if !item.Rarity.Valid() {
		return nil, fmt.Errorf("%w: unknown rarity %q", ErrInvalidArgument, item.Rarity)
	}
	if item.UsesPerPurchase <= 0 {
		return nil, fmt.Errorf("%w: uses_per_purchase must be positive", ErrInvalidArgument)
	}

	return s.items.Update(ctx, item)
}
