package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"points_economy/internal/domain"
	"points_economy/internal/repository"
	"points_economy/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

func connectDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	return db
}

var userIDSeq atomic.Int64

// freshUserID hands out ids no earlier run could have used; the database
// persists between runs.
func freshUserID() int64 {
	return time.Now().UnixNano() + userIDSeq.Add(1)
}

func TestLedgerAppendIdempotent(t *testing.T) {
	db := connectDB(t)
	ledger := service.NewLedgerService(db)

	ctx := context.Background()
	userID := freshUserID()
	key := uuid.NewString()

	first, err := ledger.Append(ctx, service.AppendRequest{
		UserID:     userID,
		DeltaCoins: 100,
		DeltaXP:    50,
		Reason:     domain.ReasonManualAdjustment,
		Key:        key,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if first.Duplicate {
		t.Fatalf("first append flagged duplicate")
	}
	if first.Wallet.Coins != 100 || first.Wallet.XP != 50 {
		t.Fatalf("wallet after append = %d coins %d xp", first.Wallet.Coins, first.Wallet.XP)
	}

	replay, err := ledger.Append(ctx, service.AppendRequest{
		UserID:     userID,
		DeltaCoins: 100,
		DeltaXP:    50,
		Reason:     domain.ReasonManualAdjustment,
		Key:        key,
	})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !replay.Duplicate {
		t.Fatalf("replay not flagged duplicate")
	}
	if replay.Entry.ID != first.Entry.ID {
		t.Fatalf("replay returned a different entry")
	}
	if replay.Wallet.Coins != 100 {
		t.Fatalf("replay changed balance: %d", replay.Wallet.Coins)
	}

	// same key, different payload
	_, err = ledger.Append(ctx, service.AppendRequest{
		UserID:     userID,
		DeltaCoins: 999,
		Reason:     domain.ReasonManualAdjustment,
		Key:        key,
	})
	if !errors.Is(err, service.ErrIdempotencyKeyReused) {
		t.Fatalf("expected ErrIdempotencyKeyReused, got %v", err)
	}

	report, err := ledger.Reconcile(ctx, userID)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !report.Consistent {
		t.Fatalf("projection inconsistent: %+v", report)
	}
}

func TestLedgerInsufficientFunds(t *testing.T) {
	db := connectDB(t)
	ledger := service.NewLedgerService(db)

	ctx := context.Background()
	userID := freshUserID()

	if _, err := ledger.Append(ctx, service.AppendRequest{
		UserID: userID, DeltaCoins: 30, Reason: domain.ReasonManualAdjustment, Key: uuid.NewString(),
	}); err != nil {
		t.Fatalf("fund wallet: %v", err)
	}

	_, err := ledger.Append(ctx, service.AppendRequest{
		UserID: userID, DeltaCoins: -31, Reason: domain.ReasonPurchase, Key: uuid.NewString(),
	})
	if !errors.Is(err, service.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	snap, err := ledger.Snapshot(ctx, userID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Coins != 30 {
		t.Fatalf("failed spend touched balance: %d", snap.Coins)
	}
}

func seedItem(t *testing.T, db *pgxpool.Pool, consumable bool, uses int, cost int64) *domain.MarketItem {
	t.Helper()
	items := repository.NewMarketRepository(db)
	item, err := items.Create(context.Background(), &domain.MarketItem{
		ID:              uuid.New(),
		Key:             "it_" + uuid.NewString()[:8],
		Name:            "Test Item",
		Category:        "test",
		CostCoins:       cost,
		Rarity:          domain.RarityCommon,
		IsConsumable:    consumable,
		UsesPerPurchase: uses,
		IsAvailable:     true,
	})
	if err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return item
}

func TestPurchaseReplayRedeemRefund(t *testing.T) {
	db := connectDB(t)
	ledger := service.NewLedgerService(db)
	purchases := service.NewPurchaseService(db, ledger, nil)

	ctx := context.Background()
	userID := freshUserID()
	item := seedItem(t, db, true, 2, 40)

	if _, err := ledger.Append(ctx, service.AppendRequest{
		UserID: userID, DeltaCoins: 100, Reason: domain.ReasonManualAdjustment, Key: uuid.NewString(),
	}); err != nil {
		t.Fatalf("fund wallet: %v", err)
	}

	key := uuid.NewString()
	res, err := purchases.Purchase(ctx, userID, item.Key, 1, key)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if res.Wallet.Coins != 60 {
		t.Fatalf("balance after purchase = %d", res.Wallet.Coins)
	}
	if res.Purchase.UsesRemaining == nil || *res.Purchase.UsesRemaining != 2 {
		t.Fatalf("uses_remaining = %v", res.Purchase.UsesRemaining)
	}

	replay, err := purchases.Purchase(ctx, userID, item.Key, 1, key)
	if err != nil {
		t.Fatalf("replay purchase: %v", err)
	}
	if !replay.Duplicate {
		t.Fatalf("replay not flagged duplicate")
	}
	if replay.Purchase.ID != res.Purchase.ID {
		t.Fatalf("replay created a second purchase")
	}
	if replay.Wallet.Coins != 60 {
		t.Fatalf("replay charged again: %d", replay.Wallet.Coins)
	}

	// first use
	p, err := purchases.Redeem(ctx, userID, res.Purchase.ID)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if p.IsRedeemed || *p.UsesRemaining != 1 {
		t.Fatalf("after first redeem: redeemed=%v uses=%d", p.IsRedeemed, *p.UsesRemaining)
	}

	// exhausting use
	p, err = purchases.Redeem(ctx, userID, res.Purchase.ID)
	if err != nil {
		t.Fatalf("redeem 2: %v", err)
	}
	if !p.IsRedeemed || *p.UsesRemaining != 0 {
		t.Fatalf("after second redeem: redeemed=%v uses=%d", p.IsRedeemed, *p.UsesRemaining)
	}

	// double-submit after exhaustion is a no-op, not an error
	p, err = purchases.Redeem(ctx, userID, res.Purchase.ID)
	if err != nil {
		t.Fatalf("redeem 3: %v", err)
	}
	if *p.UsesRemaining != 0 {
		t.Fatalf("third redeem changed uses: %d", *p.UsesRemaining)
	}

	if _, err := purchases.Refund(ctx, res.Purchase.ID, "test"); !errors.Is(err, service.ErrRefundRedeemed) {
		t.Fatalf("expected ErrRefundRedeemed, got %v", err)
	}

	// a fresh purchase can be refunded exactly once
	res2, err := purchases.Purchase(ctx, userID, item.Key, 1, uuid.NewString())
	if err != nil {
		t.Fatalf("purchase 2: %v", err)
	}
	refunded, err := purchases.Refund(ctx, res2.Purchase.ID, "test")
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if !refunded.Refunded() {
		t.Fatalf("refund did not stamp purchase")
	}
	if _, err := purchases.Refund(ctx, res2.Purchase.ID, "test"); !errors.Is(err, service.ErrAlreadyRefunded) {
		t.Fatalf("expected ErrAlreadyRefunded, got %v", err)
	}

	report, err := ledger.Reconcile(ctx, userID)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !report.Consistent {
		t.Fatalf("projection inconsistent: %+v", report)
	}
}

func TestConcurrentPurchasesNeverOverspend(t *testing.T) {
	db := connectDB(t)
	ledger := service.NewLedgerService(db)
	purchases := service.NewPurchaseService(db, ledger, nil)

	ctx := context.Background()
	userID := freshUserID()
	item := seedItem(t, db, false, 0, 25)

	// funds for exactly 3 of the 4 attempted purchases
	if _, err := ledger.Append(ctx, service.AppendRequest{
		UserID: userID, DeltaCoins: 75, Reason: domain.ReasonManualAdjustment, Key: uuid.NewString(),
	}); err != nil {
		t.Fatalf("fund wallet: %v", err)
	}

	const n = 4
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = purchases.Purchase(ctx, userID, item.Key, 1, uuid.NewString())
		}(i)
	}
	wg.Wait()

	ok, insufficient := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, service.ErrInsufficientFunds):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 3 || insufficient != 1 {
		t.Fatalf("got %d ok, %d insufficient", ok, insufficient)
	}

	snap, err := ledger.Snapshot(ctx, userID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Coins != 0 {
		t.Fatalf("balance after concurrent purchases = %d", snap.Coins)
	}

	report, err := ledger.Reconcile(ctx, userID)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !report.Consistent {
		t.Fatalf("projection inconsistent: %+v", report)
	}
}

func TestQuestCompletionPaysOnce(t *testing.T) {
	db := connectDB(t)
	ledger := service.NewLedgerService(db)
	progress := service.NewProgressService(db, ledger, nil)

	ctx := context.Background()
	userID := freshUserID()

	quests := repository.NewQuestRepository(db)
	def, err := quests.UpsertDefinition(ctx, &domain.QuestDefinition{
		ID:          uuid.New(),
		Key:         "q_" + uuid.NewString()[:8],
		Title:       "Test Quest",
		Difficulty:  domain.DifficultyEasy,
		EventKind:   domain.EventFocusSessionCompleted,
		Target:      3,
		RewardCoins: 10,
		RewardXP:    25,
		Repeat:      domain.RepeatDaily,
		IsActive:    true,
	})
	if err != nil {
		t.Fatalf("seed quest: %v", err)
	}

	ev := domain.Event{Kind: domain.EventFocusSessionCompleted}

	for i := 0; i < 2; i++ {
		res, err := progress.RecordEvent(ctx, userID, ev)
		if err != nil {
			t.Fatalf("event %d: %v", i, err)
		}
		for _, c := range res.Completions {
			if c.Key == def.Key {
				t.Fatalf("quest completed after %d events", i+1)
			}
		}
	}

	res, err := progress.RecordEvent(ctx, userID, ev)
	if err != nil {
		t.Fatalf("third event: %v", err)
	}
	found := false
	for _, c := range res.Completions {
		if c.Kind == "quest" && c.Key == def.Key {
			found = true
			if c.RewardCoins != 10 || c.RewardXP != 25 {
				t.Fatalf("completion rewards = %d/%d", c.RewardCoins, c.RewardXP)
			}
		}
	}
	if !found {
		t.Fatalf("quest not completed at target")
	}

	// further events within the period must not pay again
	if _, err := progress.RecordEvent(ctx, userID, ev); err != nil {
		t.Fatalf("fourth event: %v", err)
	}

	entries, _, err := ledger.History(ctx, userID, domain.ReasonQuestReward, 50, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	paid := 0
	for _, e := range entries {
		if e.Note == "quest "+def.Key {
			paid++
		}
	}
	if paid != 1 {
		t.Fatalf("quest paid %d times", paid)
	}
}

func TestLevelUpCascadeCompletesMilestone(t *testing.T) {
	db := connectDB(t)
	ledger := service.NewLedgerService(db)
	progress := service.NewProgressService(db, ledger, nil)

	ctx := context.Background()
	userID := freshUserID()

	achievements := repository.NewAchievementRepository(db)
	// pays enough xp in one go to cross the level 2 boundary
	big, err := achievements.UpsertDefinition(ctx, &domain.AchievementDefinition{
		ID:          uuid.New(),
		Key:         "a_" + uuid.NewString()[:8],
		Name:        "Big Reward",
		TriggerKind: domain.TriggerCount,
		EventKind:   domain.EventGoalMilestoneCompleted,
		Target:      1,
		RewardXP:    150,
		IsActive:    true,
	})
	if err != nil {
		t.Fatalf("seed count achievement: %v", err)
	}
	milestone, err := achievements.UpsertDefinition(ctx, &domain.AchievementDefinition{
		ID:          uuid.New(),
		Key:         "a_" + uuid.NewString()[:8],
		Name:        "Level Two",
		TriggerKind: domain.TriggerMilestone,
		EventKind:   domain.EventLevelUp,
		Target:      2,
		RewardCoins: 5,
		IsActive:    true,
	})
	if err != nil {
		t.Fatalf("seed milestone achievement: %v", err)
	}

	res, err := progress.RecordEvent(ctx, userID, domain.Event{Kind: domain.EventGoalMilestoneCompleted})
	if err != nil {
		t.Fatalf("event: %v", err)
	}
	if res.Wallet.Level < 2 {
		t.Fatalf("level = %d, want >= 2", res.Wallet.Level)
	}

	got := map[string]bool{}
	for _, c := range res.Completions {
		got[c.Key] = true
	}
	if !got[big.Key] {
		t.Fatalf("count achievement not completed: %+v", res.Completions)
	}
	if !got[milestone.Key] {
		t.Fatalf("level milestone not completed by cascade: %+v", res.Completions)
	}

	// the cascade already paid it; a second crossing cannot pay again
	if _, err := progress.RecordEvent(ctx, userID, domain.Event{Kind: domain.EventGoalMilestoneCompleted}); err != nil {
		t.Fatalf("second event: %v", err)
	}
	entries, _, err := ledger.History(ctx, userID, domain.ReasonAchievementReward, 50, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("achievement rewards paid %d times, want 2", len(entries))
	}
}
