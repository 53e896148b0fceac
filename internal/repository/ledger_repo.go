package repository

import (
	"context"
	"errors"

	"points_economy/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerRepository is the append-only record of every balance change.
// Rows are never updated or deleted; corrections are new entries.
type LedgerRepository struct {
	db *pgxpool.Pool
}

func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

const ledgerColumns = `id, user_id, delta_coins, delta_xp, reason, idempotency_key, note, created_at`

func scanLedgerEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	err := row.Scan(&e.ID, &e.UserID, &e.DeltaCoins, &e.DeltaXP, &e.Reason,
		&e.IdempotencyKey, &e.Note, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// InsertTx appends an entry inside the caller's transaction. When the same
// (user, reason, idempotency_key) was already recorded, it returns the
// existing entry with duplicate=true and writes nothing.
func (r *LedgerRepository) InsertTx(ctx context.Context, tx pgx.Tx, e *domain.LedgerEntry) (*domain.LedgerEntry, bool, error) {
	inserted, err := scanLedgerEntry(tx.QueryRow(ctx,
		`INSERT INTO ledger_entries (id, user_id, delta_coins, delta_xp, reason, idempotency_key, note)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id, reason, idempotency_key) DO NOTHING
		 RETURNING `+ledgerColumns,
		e.ID, e.UserID, e.DeltaCoins, e.DeltaXP, e.Reason, e.IdempotencyKey, e.Note))
	if err == nil {
		return inserted, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	existing, err := scanLedgerEntry(tx.QueryRow(ctx,
		`SELECT `+ledgerColumns+`
		 FROM ledger_entries
		 WHERE user_id = $1 AND reason = $2 AND idempotency_key = $3`,
		e.UserID, e.Reason, e.IdempotencyKey))
	if err != nil {
		return nil, false, err
	}
	return existing, true, nil
}

// GetByID returns a single entry, or pgx.ErrNoRows.
func (r *LedgerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LedgerEntry, error) {
	return scanLedgerEntry(r.db.QueryRow(ctx,
		`SELECT `+ledgerColumns+` FROM ledger_entries WHERE id = $1`, id))
}

// ListByUser returns the user's history, newest first. An empty reason
// returns all entries.
func (r *LedgerRepository) ListByUser(ctx context.Context, userID int64, reason domain.LedgerReason, limit, offset int) ([]*domain.LedgerEntry, error) {
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
	if reason == "" {
		rows, err = r.db.Query(ctx,
			`SELECT `+ledgerColumns+`
			 FROM ledger_entries
			 WHERE user_id = $1
			 ORDER BY created_at DESC, id DESC
			 LIMIT $2 OFFSET $3`,
			userID, limit, offset)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT `+ledgerColumns+`
			 FROM ledger_entries
			 WHERE user_id = $1 AND reason = $2
			 ORDER BY created_at DESC, id DESC
			 LIMIT $3 OFFSET $4`,
			userID, reason, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// CountByUser returns the total number of entries for pagination.
func (r *LedgerRepository) CountByUser(ctx context.Context, userID int64, reason domain.LedgerReason) (int64, error) {
	var count int64
	var err error
	if reason == "" {
		err = r.db.QueryRow(ctx,
			`SELECT COUNT(*) FROM ledger_entries WHERE user_id = $1`, userID).Scan(&count)
	} else {
		err = r.db.QueryRow(ctx,
			`SELECT COUNT(*) FROM ledger_entries WHERE user_id = $1 AND reason = $2`,
			userID, reason).Scan(&count)
	}
	return count, err
}

// SumDeltas folds the user's entries into ledger-derived totals. Used by the
// reconciliation check: these sums must match the wallet projection.
func (r *LedgerRepository) SumDeltas(ctx context.Context, userID int64) (coins, xp int64, err error) {
	err = r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(delta_coins), 0), COALESCE(SUM(delta_xp), 0)
		 FROM ledger_entries WHERE user_id = $1`, userID).Scan(&coins, &xp)
	return coins, xp, err
}
