package repository

import (
	"context"
	"errors"

	"points_economy/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SkillRepository stores skill definitions and per-user star counters.
type SkillRepository struct {
	db *pgxpool.Pool
}

func NewSkillRepository(db *pgxpool.Pool) *SkillRepository {
	return &SkillRepository{db: db}
}

const skillDefColumns = `id, key, name, category, max_level, stars_per_level,
	reward_coins, reward_xp, is_active, sort_order, created_at`

func scanSkillDef(row pgx.Row) (*domain.SkillDefinition, error) {
	var d domain.SkillDefinition
	err := row.Scan(&d.ID, &d.Key, &d.Name, &d.Category, &d.MaxLevel, &d.StarsPerLevel,
		&d.RewardCoins, &d.RewardXP, &d.IsActive, &d.SortOrder, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *SkillRepository) GetByKey(ctx context.Context, key string) (*domain.SkillDefinition, error) {
	return scanSkillDef(r.db.QueryRow(ctx,
		`SELECT `+skillDefColumns+` FROM skill_definitions WHERE key = $1 AND is_active = TRUE`, key))
}

// UpsertDefinition inserts or refreshes a definition by key.
func (r *SkillRepository) UpsertDefinition(ctx context.Context, d *domain.SkillDefinition) (*domain.SkillDefinition, error) {
	return scanSkillDef(r.db.QueryRow(ctx,
		`INSERT INTO skill_definitions (id, key, name, category, max_level, stars_per_level,
		     reward_coins, reward_xp, is_active, sort_order)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (key) DO UPDATE SET
		     name = EXCLUDED.name,
		     category = EXCLUDED.category,
		     max_level = EXCLUDED.max_level,
		     stars_per_level = EXCLUDED.stars_per_level,
		     reward_coins = EXCLUDED.reward_coins,
		     reward_xp = EXCLUDED.reward_xp,
		     is_active = EXCLUDED.is_active,
		     sort_order = EXCLUDED.sort_order
		 RETURNING `+skillDefColumns,
		d.ID, d.Key, d.Name, d.Category, d.MaxLevel, d.StarsPerLevel,
		d.RewardCoins, d.RewardXP, d.IsActive, d.SortOrder))
}

// GetStarsTx reads the current star count inside the engine's transaction.
// Missing rows read as zero.
func (r *SkillRepository) GetStarsTx(ctx context.Context, tx pgx.Tx, userID int64, skillID uuid.UUID) (int64, error) {
	var stars int64
	err := tx.QueryRow(ctx,
		`SELECT stars FROM skill_progress WHERE user_id = $1 AND skill_id = $2`,
		userID, skillID).Scan(&stars)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return stars, err
}

// AddStarsTx accumulates stars inside the engine's transaction, capped at the
// mastery target. Completed status is never regressed.
func (r *SkillRepository) AddStarsTx(ctx context.Context, tx pgx.Tx, userID int64, skillID uuid.UUID, stars, cap int64) (*domain.SkillProgress, error) {
	var p domain.SkillProgress
	err := tx.QueryRow(ctx,
		`INSERT INTO skill_progress (user_id, skill_id, stars, status)
		 VALUES ($1, $2, LEAST($3::bigint, $4::bigint), $5)
		 ON CONFLICT (user_id, skill_id) DO UPDATE SET
		     stars = LEAST(skill_progress.stars + $3, $4),
		     status = CASE WHEN skill_progress.status = $6
		                   THEN skill_progress.status ELSE EXCLUDED.status END,
		     updated_at = now()
		 RETURNING user_id, skill_id, stars, status, completed_at, updated_at`,
		userID, skillID, stars, cap, domain.StatusInProgress, domain.StatusCompleted).
		Scan(&p.UserID, &p.SkillID, &p.Stars, &p.Status, &p.CompletedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CompleteTx marks the skill mastered. Returns false when it already was.
func (r *SkillRepository) CompleteTx(ctx context.Context, tx pgx.Tx, userID int64, skillID uuid.UUID) (bool, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE skill_progress
		 SET status = $1, completed_at = now(), updated_at = now()
		 WHERE user_id = $2 AND skill_id = $3 AND status <> $1`,
		domain.StatusCompleted, userID, skillID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListWithProgress joins active definitions with the user's star counts.
func (r *SkillRepository) ListWithProgress(ctx context.Context, userID int64) ([]*domain.SkillWithProgress, error) {
	rows, err := r.db.Query(ctx,
		`SELECT d.id, d.key, d.name, d.category, d.max_level, d.stars_per_level,
		        d.reward_coins, d.reward_xp, d.is_active, d.sort_order, d.created_at,
		        COALESCE(p.stars, 0), COALESCE(p.status, $2)
		 FROM skill_definitions d
		 LEFT JOIN skill_progress p ON p.skill_id = d.id AND p.user_id = $1
		 WHERE d.is_active = TRUE
		 ORDER BY d.sort_order, d.key`,
		userID, domain.StatusNotStarted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.SkillWithProgress
	for rows.Next() {
		var item domain.SkillWithProgress
		d := &item.Definition
		err := rows.Scan(&d.ID, &d.Key, &d.Name, &d.Category, &d.MaxLevel, &d.StarsPerLevel,
			&d.RewardCoins, &d.RewardXP, &d.IsActive, &d.SortOrder, &d.CreatedAt,
			&item.Stars, &item.Status)
		if err != nil {
			return nil, err
		}
		item.Level = d.LevelForStars(item.Stars)
		item.Target = d.MasteryTarget()
		result = append(result, &item)
	}
	return result, rows.Err()
}

// TotalStars sums the user's stars across all skills.
func (r *SkillRepository) TotalStars(ctx context.Context, userID int64) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(stars), 0) FROM skill_progress WHERE user_id = $1`, userID).Scan(&total)
	return total, err
}
