package repository

import (
	"context"
	"errors"

	"points_economy/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WalletRepository owns the projected balance rows. All writes go through
// LockForUpdate + ApplyDelta inside the ledger append transaction; nothing
// else mutates wallets.
type WalletRepository struct {
	db *pgxpool.Pool
}

func NewWalletRepository(db *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{db: db}
}

const walletColumns = `user_id, coins, xp, lifetime_earned, lifetime_spent, created_at, updated_at`

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var w domain.Wallet
	err := row.Scan(&w.UserID, &w.Coins, &w.XP, &w.LifetimeEarned, &w.LifetimeSpent,
		&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Get returns the wallet row, or pgx.ErrNoRows when the user has no
// balance-affecting history yet.
func (r *WalletRepository) Get(ctx context.Context, userID int64) (*domain.Wallet, error) {
	return scanWallet(r.db.QueryRow(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE user_id = $1`, userID))
}

// GetOrCreate returns the wallet, creating the zero row on first use.
func (r *WalletRepository) GetOrCreate(ctx context.Context, userID int64) (*domain.Wallet, error) {
	w, err := r.Get(ctx, userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO wallets (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, userID)
}

// LockForUpdate creates the wallet row if missing and returns it under a
// row-level lock. Every ledger append for a user passes through here first,
// which is what serializes that user's balance changes.
func (r *WalletRepository) LockForUpdate(ctx context.Context, tx pgx.Tx, userID int64) (*domain.Wallet, error) {
	_, err := tx.Exec(ctx,
		`INSERT INTO wallets (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return nil, err
	}
	return scanWallet(tx.QueryRow(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE user_id = $1 FOR UPDATE`, userID))
}

// ApplyDelta moves the balance by (deltaCoins, deltaXP) and accumulates the
// lifetime counters. The guard repeats the non-negative check as part of the
// UPDATE itself; callers must already hold the row lock and have verified
// affordability, so no row coming back means an invariant was violated.
func (r *WalletRepository) ApplyDelta(ctx context.Context, tx pgx.Tx, userID, deltaCoins, deltaXP int64) (*domain.Wallet, error) {
	return scanWallet(tx.QueryRow(ctx,
		`UPDATE wallets
		 SET coins = coins + $1,
		     xp = xp + $2,
		     lifetime_earned = lifetime_earned + CASE WHEN $1 > 0 THEN $1 ELSE 0 END,
		     lifetime_spent = lifetime_spent + CASE WHEN $1 < 0 THEN -$1 ELSE 0 END,
		     updated_at = now()
		 WHERE user_id = $3 AND coins + $1 >= 0 AND xp + $2 >= 0
		 RETURNING `+walletColumns,
		deltaCoins, deltaXP, userID))
}

// TopByXP returns the leaderboard: wallets ordered by xp, capped by limit.
func (r *WalletRepository) TopByXP(ctx context.Context, limit int) ([]*domain.Wallet, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+walletColumns+`
		 FROM wallets
		 ORDER BY xp DESC, user_id
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	return result, rows.Err()
}
