package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrServiceUnavailable reports that transient database contention survived
// every retry. Clients may repeat the call with the same idempotency key.
var ErrServiceUnavailable = errors.New("service temporarily unavailable")

// txAttempts bounds retries of transient transaction failures.
const txAttempts = 3

// lockTimeout bounds how long a transaction waits on the wallet row lock
// before failing with a retryable error instead of queueing indefinitely.
const lockTimeout = "3s"

// transientTxError reports whether err is a lock timeout, serialization
// failure or deadlock. All three are safe to retry on a fresh transaction.
func transientTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "55P03", "40001", "40P01":
		return true
	}
	return false
}

// isUniqueViolation reports a Postgres unique constraint failure.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// runWalletTx runs fn in its own transaction with the wallet lock timeout
// applied, retrying transient failures with a short backoff before giving up
// with ErrServiceUnavailable.
func runWalletTx(ctx context.Context, db *pgxpool.Pool, fn func(pgx.Tx) error) error {
	var lastErr error
	for attempt := 1; attempt <= txAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt-1) * 50 * time.Millisecond):
			}
		}

		err := func() error {
			tx, err := db.BeginTx(ctx, pgx.TxOptions{})
			if err != nil {
				return err
			}
			defer func() { _ = tx.Rollback(ctx) }()

			if _, err := tx.Exec(ctx, `SET LOCAL lock_timeout = '`+lockTimeout+`'`); err != nil {
				return err
			}
			if err := fn(tx); err != nil {
				return err
			}
			return tx.Commit(ctx)
		}()
		if err == nil {
			return nil
		}
		if !transientTxError(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("%w: %v", ErrServiceUnavailable, lastErr)
}
