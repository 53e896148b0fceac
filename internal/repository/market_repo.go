package repository

import (
	"context"
	"fmt"

	"points_economy/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MarketRepository stores the reward catalog.
type MarketRepository struct {
	db *pgxpool.Pool
}

func NewMarketRepository(db *pgxpool.Pool) *MarketRepository {
	return &MarketRepository{db: db}
}

const marketItemColumns = `id, key, name, description, category, cost_coins, icon, rarity,
	is_consumable, uses_per_purchase, is_available, sort_order, created_at, updated_at`

func scanMarketItem(row pgx.Row) (*domain.MarketItem, error) {
	var m domain.MarketItem
	err := row.Scan(&m.ID, &m.Key, &m.Name, &m.Description, &m.Category, &m.CostCoins,
		&m.Icon, &m.Rarity, &m.IsConsumable, &m.UsesPerPurchase, &m.IsAvailable,
		&m.SortOrder, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MarketRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MarketItem, error) {
	return scanMarketItem(r.db.QueryRow(ctx,
		`SELECT `+marketItemColumns+` FROM market_items WHERE id = $1`, id))
}

func (r *MarketRepository) GetByKey(ctx context.Context, key string) (*domain.MarketItem, error) {
	return scanMarketItem(r.db.QueryRow(ctx,
		`SELECT `+marketItemColumns+` FROM market_items WHERE key = $1`, key))
}

// GetForUpdate locks the item row inside the purchase transaction so the
// price read and the charge happen against the same catalog state.
func (r *MarketRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.MarketItem, error) {
	return scanMarketItem(tx.QueryRow(ctx,
		`SELECT `+marketItemColumns+` FROM market_items WHERE id = $1 FOR UPDATE`, id))
}

// List returns catalog items ordered for display. Category filters when
// non-empty; availableOnly hides retired items.
func (r *MarketRepository) List(ctx context.Context, category string, availableOnly bool) ([]*domain.MarketItem, error) {
	query := `SELECT ` + marketItemColumns + ` FROM market_items WHERE 1=1`
	args := []any{}

	if availableOnly {
		query += ` AND is_available = TRUE`
	}
	if category != "" {
		args = append(args, category)
		query += fmt.Sprintf(` AND category = $%d`, len(args))
	}
	query += ` ORDER BY category, sort_order, name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.MarketItem
	for rows.Next() {
		m, err := scanMarketItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *MarketRepository) Create(ctx context.Context, m *domain.MarketItem) (*domain.MarketItem, error) {
	return scanMarketItem(r.db.QueryRow(ctx,
		`INSERT INTO market_items (id, key, name, description, category, cost_coins, icon, rarity,
		                           is_consumable, uses_per_purchase, is_available, sort_order)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING `+marketItemColumns,
		m.ID, m.Key, m.Name, m.Description, m.Category, m.CostCoins, m.Icon, m.Rarity,
		m.IsConsumable, m.UsesPerPurchase, m.IsAvailable, m.SortOrder))
}

// Update rewrites the mutable fields. The key is immutable once created so
// existing purchase snapshots stay traceable.
func (r *MarketRepository) Update(ctx context.Context, m *domain.MarketItem) (*domain.MarketItem, error) {
	return scanMarketItem(r.db.QueryRow(ctx,
		`UPDATE market_items
		 SET name = $1, description = $2, category = $3, cost_coins = $4, icon = $5,
		     rarity = $6, is_consumable = $7, uses_per_purchase = $8, is_available = $9,
		     sort_order = $10, updated_at = now()
		 WHERE id = $11
		 RETURNING `+marketItemColumns,
		m.Name, m.Description, m.Category, m.CostCoins, m.Icon, m.Rarity,
		m.IsConsumable, m.UsesPerPurchase, m.IsAvailable, m.SortOrder, m.ID))
}

// SetAvailability retires or restores an item without touching the rest.
func (r *MarketRepository) SetAvailability(ctx context.Context, id uuid.UUID, available bool) (*domain.MarketItem, error) {
	return scanMarketItem(r.db.QueryRow(ctx,
		`UPDATE market_items SET is_available = $1, updated_at = now()
		 WHERE id = $2
		 RETURNING `+marketItemColumns, available, id))
}
