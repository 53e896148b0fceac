package service

import (
	"context"
	"errors"

	"points_economy/internal/domain"
	"points_economy/internal/logger"
	"points_economy/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrIdempotencyKeyReused = errors.New("idempotency key reused with a different payload")
	ErrInvariantViolation   = errors.New("wallet invariant violation")
)

// AppendRequest describes one balance-affecting entry.
type AppendRequest struct {
	UserID     int64
	DeltaCoins int64
	DeltaXP    int64
	Reason     domain.LedgerReason
	Key        string
	Note       string
}

// AppendResult carries the recorded entry and the wallet after it applied.
// Duplicate means the key had been seen before: Entry is the original row and
// the wallet was not touched again.
type AppendResult struct {
	Entry     *domain.LedgerEntry
	Wallet    *domain.Wallet
	Duplicate bool
}

// LedgerService owns the append path: one transaction covers the wallet row
// lock, the ledger insert and the projection update, so the two tables can
// never disagree.
type LedgerService struct {
	db      *pgxpool.Pool
	wallets *repository.WalletRepository
	ledger  *repository.LedgerRepository
	skills  *repository.SkillRepository
}

// NewLedgerService creates a new ledger service
func NewLedgerService(db *pgxpool.Pool) *LedgerService {
	return &LedgerService{
		db:      db,
		wallets: repository.NewWalletRepository(db),
		ledger:  repository.NewLedgerRepository(db),
		skills:  repository.NewSkillRepository(db),
	}
}

// Append records one entry in its own transaction, retrying transient lock
// failures. Replaying a key the ledger has already seen is a no-op success
// returning the original entry.
func (s *LedgerService) Append(ctx context.Context, req AppendRequest) (*AppendResult, error) {
	var result *AppendResult
	err := runWalletTx(ctx, s.db, func(tx pgx.Tx) error {
		var err error
		result, err = s.AppendInTx(ctx, tx, req)
		return err
	})
	if err != nil {
		LedgerAppends.WithLabelValues(string(req.Reason), "error").Inc()
		return nil, err
	}

	outcome := "ok"
	if result.Duplicate {
		outcome = "duplicate"
	}
	LedgerAppends.WithLabelValues(string(req.Reason), outcome).Inc()
	return result, nil
}

// AppendInTx is the append core, callable from a surrounding transaction
// (purchases and reward grants compose with it). Order matters: the wallet
// row lock is taken first, which serializes all appends for one user; the
// affordability check runs inside that lock; the guarded UPDATE re-checks it
// so a failure there is a bug, not a race.
func (s *LedgerService) AppendInTx(ctx context.Context, tx pgx.Tx, req AppendRequest) (*AppendResult, error) {
	if !req.Reason.Valid() {
		return nil, ErrInvalidArgument
	}
	if req.Key == "" {
		return nil, ErrInvalidArgument
	}

	wallet, err := s.wallets.LockForUpdate(ctx, tx, req.UserID)
	if err != nil {
		return nil, err
	}

	entry := &domain.LedgerEntry{
		ID:             uuid.New(),
		UserID:         req.UserID,
		DeltaCoins:     req.DeltaCoins,
		DeltaXP:        req.DeltaXP,
		Reason:         req.Reason,
		IdempotencyKey: req.Key,
		Note:           req.Note,
	}
	recorded, duplicate, err := s.ledger.InsertTx(ctx, tx, entry)
	if err != nil {
		return nil, err
	}
	if duplicate {
		if recorded.DeltaCoins != req.DeltaCoins || recorded.DeltaXP != req.DeltaXP {
			return nil, ErrIdempotencyKeyReused
		}
		return &AppendResult{Entry: recorded, Wallet: wallet, Duplicate: true}, nil
	}

	if wallet.Coins+req.DeltaCoins < 0 {
		return nil, ErrInsufficientFunds
	}
	if wallet.XP+req.DeltaXP < 0 {
		return nil, ErrInsufficientFunds
	}

	updated, err := s.wallets.ApplyDelta(ctx, tx, req.UserID, req.DeltaCoins, req.DeltaXP)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			InvariantViolations.Inc()
			logger.Error("wallet update failed after in-lock check",
				"user_id", req.UserID,
				"delta_coins", req.DeltaCoins,
				"delta_xp", req.DeltaXP,
				"reason", req.Reason,
				"key", req.Key)
			return nil, ErrInvariantViolation
		}
		return nil, err
	}

	return &AppendResult{Entry: recorded, Wallet: updated}, nil
}

// Snapshot returns the client-facing wallet view. Users without a wallet row
// get the zero snapshot; reads never create the row.
func (s *LedgerService) Snapshot(ctx context.Context, userID int64) (*domain.WalletSnapshot, error) {
	w, err := s.wallets.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		w = &domain.Wallet{UserID: userID}
	}

	stars, err := s.skills.TotalStars(ctx, userID)
	if err != nil {
		return nil, err
	}

	snap := w.Snapshot(stars)
	return &snap, nil
}

// History returns the user's ledger entries, newest first, plus the total
// count for pagination.
func (s *LedgerService) History(ctx context.Context, userID int64, reason domain.LedgerReason, limit, offset int) ([]*domain.LedgerEntry, int64, error) {
	if reason != "" && !reason.Valid() {
		return nil, 0, ErrInvalidArgument
	}
	entries, err := s.ledger.ListByUser(ctx, userID, reason, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.ledger.CountByUser(ctx, userID, reason)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// ReconcileReport compares the wallet projection against the ledger fold.
type ReconcileReport struct {
	UserID      int64 `json:"user_id"`
	WalletCoins int64 `json:"wallet_coins"`
	WalletXP    int64 `json:"wallet_xp"`
	LedgerCoins int64 `json:"ledger_coins"`
	LedgerXP    int64 `json:"ledger_xp"`
	Consistent  bool  `json:"consistent"`
}

// Reconcile verifies the projection invariant for one user: the wallet row
// must equal the sum of that user's ledger deltas.
func (s *LedgerService) Reconcile(ctx context.Context, userID int64) (*ReconcileReport, error) {
	w, err := s.wallets.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		w = &domain.Wallet{UserID: userID}
	}

	coins, xp, err := s.ledger.SumDeltas(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := &ReconcileReport{
		UserID:      userID,
		WalletCoins: w.Coins,
		WalletXP:    w.XP,
		LedgerCoins: coins,
		LedgerXP:    xp,
		Consistent:  w.Coins == coins && w.XP == xp &&
			w.Coins == w.LifetimeEarned-w.LifetimeSpent,
	}
	if !report.Consistent {
		logger.Error("wallet projection out of sync with ledger",
			"user_id", userID,
			"wallet_coins", w.Coins, "ledger_coins", coins,
			"wallet_xp", w.XP, "ledger_xp", xp)
	}
	return report, nil
}

// Leaderboard returns the top wallets by xp.
func (s *LedgerService) Leaderboard(ctx context.Context, limit int) ([]*domain.Wallet, error) {
	return s.wallets.TopByXP(ctx, limit)
}
