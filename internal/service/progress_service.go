package service

import (
	"context"
	"errors"
	"time"

	"points_economy/internal/domain"
	"points_economy/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrSkillNotFound = errors.New("skill not found")

// EventResult is the response to one recorded event: whatever completed plus
// the wallet after all rewards applied.
type EventResult struct {
	Completions []domain.Completion   `json:"completions"`
	Wallet      domain.WalletSnapshot `json:"wallet"`
}

// ProgressService is the reward engine. One external event is processed in
// one transaction: the user's wallet row is locked first, which serializes
// all progress and reward writes for that user, then the event and every
// cascade it triggers are applied before commit. Reward payouts use
// deterministic idempotency keys, so a redelivered event can advance counters
// again but can never pay a reward twice.
type ProgressService struct {
	db           *pgxpool.Pool
	ledger       *LedgerService
	wallets      *repository.WalletRepository
	achievements *repository.AchievementRepository
	quests       *repository.QuestRepository
	skills       *repository.SkillRepository
	streaks      *repository.StreakRepository
	notifier     Notifier
}

// NewProgressService creates a new progress service
func NewProgressService(db *pgxpool.Pool, ledger *LedgerService, notifier Notifier) *ProgressService {
	return &ProgressService{
		db:           db,
		ledger:       ledger,
		wallets:      repository.NewWalletRepository(db),
		achievements: repository.NewAchievementRepository(db),
		quests:       repository.NewQuestRepository(db),
		skills:       repository.NewSkillRepository(db),
		streaks:      repository.NewStreakRepository(db),
		notifier:     notifier,
	}
}

// notice is a notification deferred until after commit.
type notice struct {
	msgType string
	payload any
}

// eventRun is the mutable state of one record_event transaction. It is
// rebuilt from scratch on every retry attempt.
type eventRun struct {
	tx             pgx.Tx
	userID         int64
	wallet         *domain.Wallet
	announcedLevel int
	completions    []domain.Completion
	queue          []domain.Event
	notices        []notice
}

// RecordEvent applies one external event and every cascade it triggers.
// The queue drains in bounded time: each quest completes at most once per
// period, each achievement and skill mastery at most once ever, and level_up
// events only fire on a strictly increasing level.
func (s *ProgressService) RecordEvent(ctx context.Context, userID int64, ev domain.Event) (*EventResult, error) {
	if !ev.Kind.Valid() || ev.Kind.Internal() {
		return nil, ErrInvalidArgument
	}
	if ev.Amount < 0 {
		return nil, ErrInvalidArgument
	}
	if ev.Amount == 0 {
		ev.Amount = 1
	}

	run := &eventRun{userID: userID}
	err := runWalletTx(ctx, s.db, func(tx pgx.Tx) error {
		run.tx = tx
		run.completions = nil
		run.notices = nil
		run.queue = []domain.Event{ev}

		wallet, err := s.wallets.LockForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		run.wallet = wallet
		run.announcedLevel, _, _ = domain.LevelForXP(wallet.XP)

		if err := s.advanceStreak(ctx, run); err != nil {
			return err
		}

		for len(run.queue) > 0 {
			cur := run.queue[0]
			run.queue = run.queue[1:]
			if err := s.applyEvent(ctx, run, cur); err != nil {
				return err
			}
			if err := s.checkLevelUp(run); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	EventsProcessed.WithLabelValues(string(ev.Kind)).Inc()
	for _, c := range run.completions {
		RewardsGranted.WithLabelValues(c.Kind).Inc()
	}

	stars, err := s.skills.TotalStars(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := &EventResult{
		Completions: run.completions,
		Wallet:      run.wallet.Snapshot(stars),
	}
	if result.Completions == nil {
		result.Completions = []domain.Completion{}
	}

	for _, n := range run.notices {
		notify(s.notifier, userID, n.msgType, n.payload)
	}
	notify(s.notifier, userID, NotifyWalletUpdate, result.Wallet)
	return result, nil
}

// applyEvent advances everything keyed on one event: skill stars, quests,
// count/milestone achievements, and unlock achievements on earned keys.
func (s *ProgressService) applyEvent(ctx context.Context, run *eventRun, ev domain.Event) error {
	if !ev.Kind.Internal() && ev.SkillKey != "" {
		if err := s.addSkillStars(ctx, run, ev); err != nil {
			return err
		}
	}
	if err := s.advanceQuests(ctx, run, ev); err != nil {
		return err
	}
	if err := s.advanceAchievements(ctx, run, ev); err != nil {
		return err
	}
	if ev.Kind == domain.EventAchievementEarned && ev.Key != "" {
		if err := s.advanceUnlocks(ctx, run, ev.Key); err != nil {
			return err
		}
	}
	return nil
}

// advanceStreak records today's activity and feeds streak achievements with
// the new current value. Same-day events change nothing.
func (s *ProgressService) advanceStreak(ctx context.Context, run *eventRun) error {
	prior, err := s.streaks.GetForUpdateTx(ctx, run.tx, run.userID, domain.StreakDailyActivity)
	if err != nil {
		return err
	}

	now := time.Now()
	adv := domain.AdvanceStreak(prior, now)
	if !adv.IsNewDay {
		return nil
	}

	if _, err := s.streaks.UpsertTx(ctx, run.tx, &domain.Streak{
		UserID:     run.userID,
		StreakType: domain.StreakDailyActivity,
		Current:    adv.Current,
		Longest:    adv.Longest,
		LastDay:    domain.DateUTC(now),
	}); err != nil {
		return err
	}

	defs, err := s.achievements.ListActiveByStreak(ctx, domain.StreakDailyActivity)
	if err != nil {
		return err
	}
	for _, def := range defs {
		p, err := s.achievements.RaiseProgressTx(ctx, run.tx, run.userID, def, int64(adv.Current))
		if err != nil {
			return err
		}
		if p == nil || p.Progress < def.Target {
			continue
		}
		if err := s.completeAchievement(ctx, run, def); err != nil {
			return err
		}
	}
	return nil
}

// advanceQuests rolls over stale periods, accumulates progress and pays
// completions for every active quest keyed on the event.
func (s *ProgressService) advanceQuests(ctx context.Context, run *eventRun, ev domain.Event) error {
	defs, err := s.quests.ListActiveByEvent(ctx, ev.Kind)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, def := range defs {
		period := def.Repeat.PeriodStart(now)

		p, err := s.quests.GetProgressForUpdateTx(ctx, run.tx, run.userID, def.ID)
		if err != nil {
			return err
		}
		if p == nil {
			p = &domain.QuestProgress{
				UserID:      run.userID,
				QuestID:     def.ID,
				PeriodStart: period,
				Status:      domain.StatusInProgress,
			}
		} else if !p.PeriodStart.Equal(period) {
			p.PeriodStart = period
			p.Progress = 0
			p.Status = domain.StatusInProgress
			p.CompletedAt = nil
		}

		if p.Status == domain.StatusCompleted || p.Status == domain.StatusAbandoned {
			continue
		}

		p.Status = domain.StatusInProgress
		p.Progress += ev.Amount

		completed := p.Progress >= def.Target
		if completed {
			completedAt := now
			p.Status = domain.StatusCompleted
			p.CompletedAt = &completedAt

			prev := def.Repeat.PrevPeriodStart(now)
			if def.Repeat != domain.RepeatNone && p.LastCompletedOn != nil && p.LastCompletedOn.Equal(prev) {
				p.StreakCount++
			} else {
				p.StreakCount = 1
			}
			lastCompleted := period
			p.LastCompletedOn = &lastCompleted
		}

		if _, err := s.quests.UpsertProgressTx(ctx, run.tx, p); err != nil {
			return err
		}
		if !completed {
			continue
		}

		coins, xp := def.RewardCoins, def.RewardXP
		if coins == 0 && xp == 0 {
			coins, xp = def.Difficulty.DefaultRewards()
		}
		if err := s.payReward(ctx, run, domain.ReasonQuestReward,
			domain.QuestRewardKey(def.ID, period, def.Repeat), coins, xp, "quest "+def.Key); err != nil {
			return err
		}

		completion := domain.Completion{
			Kind:        "quest",
			Key:         def.Key,
			Name:        def.Title,
			RewardCoins: coins,
			RewardXP:    xp,
		}
		run.completions = append(run.completions, completion)
		run.queue = append(run.queue, domain.Event{Kind: domain.EventQuestCompleted, Amount: 1, Key: def.Key})
		run.notices = append(run.notices, notice{NotifyQuestCompleted, completion})
	}
	return nil
}

// advanceAchievements feeds count and milestone definitions keyed on the
// event. Count triggers accumulate the amount; milestone triggers track a
// high-water mark (level_up events carry the reached level in Amount).
func (s *ProgressService) advanceAchievements(ctx context.Context, run *eventRun, ev domain.Event) error {
	defs, err := s.achievements.ListActiveByEvent(ctx, ev.Kind)
	if err != nil {
		return err
	}

	for _, def := range defs {
		var p *domain.AchievementProgress
		switch def.TriggerKind {
		case domain.TriggerCount:
			p, err = s.achievements.AddProgressTx(ctx, run.tx, run.userID, def, ev.Amount)
		case domain.TriggerMilestone:
			p, err = s.achievements.RaiseProgressTx(ctx, run.tx, run.userID, def, ev.Amount)
		default:
			continue
		}
		if err != nil {
			return err
		}
		if p == nil || p.Progress < def.Target {
			continue
		}
		if err := s.completeAchievement(ctx, run, def); err != nil {
			return err
		}
	}
	return nil
}

// advanceUnlocks adds progress to unlock achievements gated on a just-earned
// achievement key.
func (s *ProgressService) advanceUnlocks(ctx context.Context, run *eventRun, earnedKey string) error {
	defs, err := s.achievements.ListActiveByDependency(ctx, earnedKey)
	if err != nil {
		return err
	}
	for _, def := range defs {
		p, err := s.achievements.AddProgressTx(ctx, run.tx, run.userID, def, 1)
		if err != nil {
			return err
		}
		if p == nil || p.Progress < def.Target {
			continue
		}
		if err := s.completeAchievement(ctx, run, def); err != nil {
			return err
		}
	}
	return nil
}

// completeAchievement flips the row and pays the reward. The conditional
// flip means concurrent or replayed triggers complete it exactly once.
func (s *ProgressService) completeAchievement(ctx context.Context, run *eventRun, def *domain.AchievementDefinition) error {
	won, err := s.achievements.CompleteTx(ctx, run.tx, run.userID, def)
	if err != nil {
		return err
	}
	if !won {
		return nil
	}

	if err := s.payReward(ctx, run, domain.ReasonAchievementReward,
		domain.AchievementRewardKey(def.ID), def.RewardCoins, def.RewardXP, "achievement "+def.Key); err != nil {
		return err
	}

	completion := domain.Completion{
		Kind:        "achievement",
		Key:         def.Key,
		Name:        def.Name,
		RewardCoins: def.RewardCoins,
		RewardXP:    def.RewardXP,
	}
	run.completions = append(run.completions, completion)
	run.queue = append(run.queue, domain.Event{Kind: domain.EventAchievementEarned, Amount: 1, Key: def.Key})
	run.notices = append(run.notices, notice{NotifyAchievementEarned, completion})
	return nil
}

// addSkillStars accumulates stars (capped at mastery), emits a cascade event
// on level crossings and pays the mastery reward exactly once.
func (s *ProgressService) addSkillStars(ctx context.Context, run *eventRun, ev domain.Event) error {
	def, err := s.skills.GetByKey(ctx, ev.SkillKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSkillNotFound
		}
		return err
	}

	mastery := def.MasteryTarget()
	before, err := s.skills.GetStarsTx(ctx, run.tx, run.userID, def.ID)
	if err != nil {
		return err
	}

	p, err := s.skills.AddStarsTx(ctx, run.tx, run.userID, def.ID, ev.Amount, mastery)
	if err != nil {
		return err
	}

	levelBefore := def.LevelForStars(before)
	levelAfter := def.LevelForStars(p.Stars)
	if levelAfter > levelBefore {
		run.queue = append(run.queue, domain.Event{
			Kind:   domain.EventSkillLeveledUp,
			Amount: int64(levelAfter),
			Key:    def.Key,
		})
		run.notices = append(run.notices, notice{NotifySkillLeveledUp, map[string]any{
			"skill_key": def.Key,
			"name":      def.Name,
			"level":     levelAfter,
			"stars":     p.Stars,
		}})
	}

	if p.Stars < mastery {
		return nil
	}
	won, err := s.skills.CompleteTx(ctx, run.tx, run.userID, def.ID)
	if err != nil {
		return err
	}
	if !won {
		return nil
	}

	if err := s.payReward(ctx, run, domain.ReasonSkillReward,
		domain.SkillRewardKey(def.ID), def.RewardCoins, def.RewardXP, "skill mastery "+def.Key); err != nil {
		return err
	}
	completion := domain.Completion{
		Kind:        "skill",
		Key:         def.Key,
		Name:        def.Name,
		RewardCoins: def.RewardCoins,
		RewardXP:    def.RewardXP,
	}
	run.completions = append(run.completions, completion)
	return nil
}

// payReward appends a reward credit with a deterministic key. A duplicate
// means this exact reward was paid by an earlier delivery; the wallet is
// left alone and processing continues.
func (s *ProgressService) payReward(ctx context.Context, run *eventRun, reason domain.LedgerReason, key string, coins, xp int64, note string) error {
	res, err := s.ledger.AppendInTx(ctx, run.tx, AppendRequest{
		UserID:     run.userID,
		DeltaCoins: coins,
		DeltaXP:    xp,
		Reason:     reason,
		Key:        key,
		Note:       note,
	})
	if err != nil {
		return err
	}
	if !res.Duplicate {
		run.wallet = res.Wallet
	}
	return nil
}

// checkLevelUp enqueues a level_up cascade when the xp credits so far pushed
// the user past a level boundary. Level only increases, so this terminates.
func (s *ProgressService) checkLevelUp(run *eventRun) error {
	level, _, _ := domain.LevelForXP(run.wallet.XP)
	if level <= run.announcedLevel {
		return nil
	}
	run.announcedLevel = level
	run.queue = append(run.queue, domain.Event{Kind: domain.EventLevelUp, Amount: int64(level)})
	run.notices = append(run.notices, notice{NotifyLevelUp, map[string]any{"level": level}})
	return nil
}

// ListAchievements returns the achievement catalog joined with the user's
// progress. Hidden achievements appear only once completed.
func (s *ProgressService) ListAchievements(ctx context.Context, userID int64) ([]*domain.AchievementWithProgress, error) {
	return s.achievements.ListWithProgress(ctx, userID)
}

// ListSkills returns the skill catalog joined with the user's stars.
func (s *ProgressService) ListSkills(ctx context.Context, userID int64) ([]*domain.SkillWithProgress, error) {
	return s.skills.ListWithProgress(ctx, userID)
}
