package service

import (
	"context"

	"points_economy/internal/domain"
	"points_economy/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SummaryService aggregates the dashboard reads: one summary payload and the
// achievement teaser. Counts are best-effort; a failed sub-query leaves its
// field at zero rather than failing the whole dashboard.
type SummaryService struct {
	db      *pgxpool.Pool
	ledger  *LedgerService
	streaks *repository.StreakRepository
}

// NewSummaryService creates a new summary service
func NewSummaryService(db *pgxpool.Pool, ledger *LedgerService) *SummaryService {
	return &SummaryService{
		db:      db,
		ledger:  ledger,
		streaks: repository.NewStreakRepository(db),
	}
}

// Summary is the gamification dashboard payload.
type Summary struct {
	Wallet                domain.WalletSnapshot `json:"wallet"`
	AchievementsCompleted int64                 `json:"achievements_completed"`
	AchievementsTotal     int64                 `json:"achievements_total"`
	QuestsCompletedTotal  int64                 `json:"quests_completed_total"`
	QuestsInProgress      int64                 `json:"quests_in_progress"`
	SkillsMastered        int64                 `json:"skills_mastered"`
	CurrentStreak         int                   `json:"current_streak"`
	LongestStreak         int                   `json:"longest_streak"`
	RecentLedger          []*domain.LedgerEntry `json:"recent_ledger"`
}

// GetSummary returns the dashboard for one user.
func (s *SummaryService) GetSummary(ctx context.Context, userID int64) (*Summary, error) {
	wallet, err := s.ledger.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := &Summary{Wallet: *wallet}

	_ = s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM achievement_progress WHERE user_id = $1 AND status = $2
	`, userID, domain.StatusCompleted).Scan(&summary.AchievementsCompleted)

	_ = s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM achievement_definitions WHERE is_active = TRUE AND is_hidden = FALSE
	`).Scan(&summary.AchievementsTotal)

	// quest completions survive period rollovers only in the ledger, so the
	// lifetime count comes from there
	_ = s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM ledger_entries WHERE user_id = $1 AND reason = $2
	`, userID, domain.ReasonQuestReward).Scan(&summary.QuestsCompletedTotal)

	_ = s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM quest_progress WHERE user_id = $1 AND status = $2
	`, userID, domain.StatusInProgress).Scan(&summary.QuestsInProgress)

	_ = s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM skill_progress WHERE user_id = $1 AND status = $2
	`, userID, domain.StatusCompleted).Scan(&summary.SkillsMastered)

	if streak, err := s.streaks.Get(ctx, userID, domain.StreakDailyActivity); err == nil && streak != nil {
		summary.CurrentStreak = streak.Current
		summary.LongestStreak = streak.Longest
	}

	recent, _, err := s.ledger.History(ctx, userID, "", 10, 0)
	if err != nil {
		return nil, err
	}
	summary.RecentLedger = recent
	if summary.RecentLedger == nil {
		summary.RecentLedger = []*domain.LedgerEntry{}
	}

	return summary, nil
}

// Teaser returns the nearest-to-completion visible achievements, ranked by
// progress/target ratio. Hidden and completed definitions never appear.
func (s *SummaryService) Teaser(ctx context.Context, userID int64) ([]*domain.AchievementWithProgress, error) {
	rows, err := s.db.Query(ctx, `
		SELECT d.id, d.key, d.name, d.description, d.icon, d.trigger_kind, d.event_kind,
		       d.target, d.streak_type, d.dependency_key, d.reward_coins, d.reward_xp,
		       d.is_hidden, d.is_active, d.sort_order, d.created_at,
		       COALESCE(p.progress, 0), COALESCE(p.status, $2)
		FROM achievement_definitions d
		LEFT JOIN achievement_progress p ON p.achievement_id = d.id AND p.user_id = $1
		WHERE d.is_active = TRUE AND d.is_hidden = FALSE AND d.target > 0
		  AND COALESCE(p.status, $2) <> $3
		ORDER BY COALESCE(p.progress, 0)::float8 / d.target DESC, d.sort_order, d.key
		LIMIT 3
	`, userID, domain.StatusNotStarted, domain.StatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.AchievementWithProgress
	for rows.Next() {
		var item domain.AchievementWithProgress
		d := &item.Definition
		err := rows.Scan(&d.ID, &d.Key, &d.Name, &d.Description, &d.Icon, &d.TriggerKind,
			&d.EventKind, &d.Target, &d.StreakType, &d.DependencyKey, &d.RewardCoins,
			&d.RewardXP, &d.IsHidden, &d.IsActive, &d.SortOrder, &d.CreatedAt,
			&item.Progress, &item.Status)
		if err != nil {
			return nil, err
		}
		item.Target = d.Target
		result = append(result, &item)
	}
	if result == nil {
		result = []*domain.AchievementWithProgress{}
	}
	return result, rows.Err()
}
