package repository

import (
	"context"
	"errors"

	"points_economy/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AchievementRepository stores achievement definitions and per-user progress.
type AchievementRepository struct {
	db *pgxpool.Pool
}

func NewAchievementRepository(db *pgxpool.Pool) *AchievementRepository {
	return &AchievementRepository{db: db}
}

const achievementDefColumns = `id, key, name, description, icon, trigger_kind, event_kind,
	target, streak_type, dependency_key, reward_coins, reward_xp, is_hidden, is_active,
	sort_order, created_at`

func scanAchievementDef(row pgx.Row) (*domain.AchievementDefinition, error) {
	var d domain.AchievementDefinition
	err := row.Scan(&d.ID, &d.Key, &d.Name, &d.Description, &d.Icon, &d.TriggerKind,
		&d.EventKind, &d.Target, &d.StreakType, &d.DependencyKey, &d.RewardCoins,
		&d.RewardXP, &d.IsHidden, &d.IsActive, &d.SortOrder, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *AchievementRepository) scanDefs(rows pgx.Rows) ([]*domain.AchievementDefinition, error) {
	defer rows.Close()
	var result []*domain.AchievementDefinition
	for rows.Next() {
		d, err := scanAchievementDef(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (r *AchievementRepository) GetByKey(ctx context.Context, key string) (*domain.AchievementDefinition, error) {
	return scanAchievementDef(r.db.QueryRow(ctx,
		`SELECT `+achievementDefColumns+` FROM achievement_definitions WHERE key = $1`, key))
}

// ListActiveByEvent returns count and milestone definitions fed by one event
// kind. The engine walks these on every matching event.
func (r *AchievementRepository) ListActiveByEvent(ctx context.Context, kind domain.EventKind) ([]*domain.AchievementDefinition, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+achievementDefColumns+`
		 FROM achievement_definitions
		 WHERE is_active = TRUE AND event_kind = $1 AND trigger_kind IN ($2, $3)`,
		kind, domain.TriggerCount, domain.TriggerMilestone)
	if err != nil {
		return nil, err
	}
	return r.scanDefs(rows)
}

// ListActiveByStreak returns streak definitions watching one streak type.
func (r *AchievementRepository) ListActiveByStreak(ctx context.Context, streakType string) ([]*domain.AchievementDefinition, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+achievementDefColumns+`
		 FROM achievement_definitions
		 WHERE is_active = TRUE AND trigger_kind = $1 AND streak_type = $2`,
		domain.TriggerStreak, streakType)
	if err != nil {
		return nil, err
	}
	return r.scanDefs(rows)
}

// ListActiveByDependency returns unlock definitions gated on one achievement
// key. Earning the dependency completes these.
func (r *AchievementRepository) ListActiveByDependency(ctx context.Context, dependencyKey string) ([]*domain.AchievementDefinition, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+achievementDefColumns+`
		 FROM achievement_definitions
		 WHERE is_active = TRUE AND trigger_kind = $1 AND dependency_key = $2`,
		domain.TriggerUnlock, dependencyKey)
	if err != nil {
		return nil, err
	}
	return r.scanDefs(rows)
}

// UpsertDefinition inserts or refreshes a definition by key. Used by seeding
// and the admin surface; keys are stable identifiers across deploys.
func (r *AchievementRepository) UpsertDefinition(ctx context.Context, d *domain.AchievementDefinition) (*domain.AchievementDefinition, error) {
	return scanAchievementDef(r.db.QueryRow(ctx,
		`INSERT INTO achievement_definitions (id, key, name, description, icon, trigger_kind,
		     event_kind, target, streak_type, dependency_key, reward_coins, reward_xp,
		     is_hidden, is_active, sort_order)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 ON CONFLICT (key) DO UPDATE SET
		     name = EXCLUDED.name,
		     description = EXCLUDED.description,
		     icon = EXCLUDED.icon,
		     trigger_kind = EXCLUDED.trigger_kind,
		     event_kind = EXCLUDED.event_kind,
		     target = EXCLUDED.target,
		     streak_type = EXCLUDED.streak_type,
		     dependency_key = EXCLUDED.dependency_key,
		     reward_coins = EXCLUDED.reward_coins,
		     reward_xp = EXCLUDED.reward_xp,
		     is_hidden = EXCLUDED.is_hidden,
		     is_active = EXCLUDED.is_active,
		     sort_order = EXCLUDED.sort_order
		 RETURNING `+achievementDefColumns,
		d.ID, d.Key, d.Name, d.Description, d.Icon, d.TriggerKind, d.EventKind, d.Target,
		d.StreakType, d.DependencyKey, d.RewardCoins, d.RewardXP, d.IsHidden, d.IsActive,
		d.SortOrder))
}

// AddProgressTx accumulates count progress inside the engine's transaction.
// Completed rows are left untouched and return nil; progress never decreases.
func (r *AchievementRepository) AddProgressTx(ctx context.Context, tx pgx.Tx, userID int64, d *domain.AchievementDefinition, amount int64) (*domain.AchievementProgress, error) {
	p, err := scanAchievementProgress(tx.QueryRow(ctx,
		`INSERT INTO achievement_progress (user_id, achievement_id, progress, status)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, achievement_id) DO UPDATE SET
		     progress = achievement_progress.progress + EXCLUDED.progress,
		     status = $4,
		     updated_at = now()
		 WHERE achievement_progress.status <> $5
		 RETURNING user_id, achievement_id, progress, status, completed_at, updated_at`,
		userID, d.ID, amount, domain.StatusInProgress, domain.StatusCompleted))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// RaiseProgressTx lifts progress to a high-water mark (milestone and streak
// triggers report absolute values, not increments).
func (r *AchievementRepository) RaiseProgressTx(ctx context.Context, tx pgx.Tx, userID int64, d *domain.AchievementDefinition, value int64) (*domain.AchievementProgress, error) {
	p, err := scanAchievementProgress(tx.QueryRow(ctx,
		`INSERT INTO achievement_progress (user_id, achievement_id, progress, status)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, achievement_id) DO UPDATE SET
		     progress = GREATEST(achievement_progress.progress, EXCLUDED.progress),
		     status = $4,
		     updated_at = now()
		 WHERE achievement_progress.status <> $5
		 RETURNING user_id, achievement_id, progress, status, completed_at, updated_at`,
		userID, d.ID, value, domain.StatusInProgress, domain.StatusCompleted))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// CompleteTx flips the row to completed. Returns false when it already was,
// which is what makes each achievement pay out exactly once.
func (r *AchievementRepository) CompleteTx(ctx context.Context, tx pgx.Tx, userID int64, d *domain.AchievementDefinition) (bool, error) {
	tag, err := tx.Exec(ctx,
		`INSERT INTO achievement_progress (user_id, achievement_id, progress, status, completed_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (user_id, achievement_id) DO UPDATE SET
		     progress = GREATEST(achievement_progress.progress, EXCLUDED.progress),
		     status = $4,
		     completed_at = now(),
		     updated_at = now()
		 WHERE achievement_progress.status <> $4`,
		userID, d.ID, d.Target, domain.StatusCompleted)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanAchievementProgress(row pgx.Row) (*domain.AchievementProgress, error) {
	var p domain.AchievementProgress
	err := row.Scan(&p.UserID, &p.AchievementID, &p.Progress, &p.Status, &p.CompletedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListWithProgress joins active definitions with the user's progress. Hidden
// achievements appear only once completed.
func (r *AchievementRepository) ListWithProgress(ctx context.Context, userID int64) ([]*domain.AchievementWithProgress, error) {
	rows, err := r.db.Query(ctx,
		`SELECT d.id, d.key, d.name, d.description, d.icon, d.trigger_kind, d.event_kind,
		        d.target, d.streak_type, d.dependency_key, d.reward_coins, d.reward_xp,
		        d.is_hidden, d.is_active, d.sort_order, d.created_at,
		        COALESCE(p.progress, 0), COALESCE(p.status, $2)
		 FROM achievement_definitions d
		 LEFT JOIN achievement_progress p ON p.achievement_id = d.id AND p.user_id = $1
		 WHERE d.is_active = TRUE AND (d.is_hidden = FALSE OR p.status = $3)
		 ORDER BY d.sort_order, d.key`,
		userID, domain.StatusNotStarted, domain.StatusCompleted)
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
	return result, rows.Err()
}

// CountCompleted returns how many achievements the user has earned.
func (r *AchievementRepository) CountCompleted(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM achievement_progress WHERE user_id = $1 AND status = $2`,
		userID, domain.StatusCompleted).Scan(&count)
	return count, err
}
