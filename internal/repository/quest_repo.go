package repository

import (
	"context"
	"errors"

	"points_economy/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuestRepository stores quest definitions and per-user progress. A user has
// at most one progress row per quest; period rollovers reuse the row.
type QuestRepository struct {
	db *pgxpool.Pool
}

func NewQuestRepository(db *pgxpool.Pool) *QuestRepository {
	return &QuestRepository{db: db}
}

const questDefColumns = `id, key, title, description, difficulty, event_kind, target,
	reward_coins, reward_xp, repeat, is_active, sort_order, created_at`

func scanQuestDef(row pgx.Row) (*domain.QuestDefinition, error) {
	var d domain.QuestDefinition
	err := row.Scan(&d.ID, &d.Key, &d.Title, &d.Description, &d.Difficulty, &d.EventKind,
		&d.Target, &d.RewardCoins, &d.RewardXP, &d.Repeat, &d.IsActive, &d.SortOrder,
		&d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

const questProgressColumns = `user_id, quest_id, period_start, progress, status,
	completed_at, streak_count, last_completed_on, updated_at`

func scanQuestProgress(row pgx.Row) (*domain.QuestProgress, error) {
	var p domain.QuestProgress
	err := row.Scan(&p.UserID, &p.QuestID, &p.PeriodStart, &p.Progress, &p.Status,
		&p.CompletedAt, &p.StreakCount, &p.LastCompletedOn, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *QuestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuestDefinition, error) {
	return scanQuestDef(r.db.QueryRow(ctx,
		`SELECT `+questDefColumns+` FROM quest_definitions WHERE id = $1`, id))
}

func (r *QuestRepository) GetByKey(ctx context.Context, key string) (*domain.QuestDefinition, error) {
	return scanQuestDef(r.db.QueryRow(ctx,
		`SELECT `+questDefColumns+` FROM quest_definitions WHERE key = $1`, key))
}

// ListActiveByEvent returns quest definitions fed by one event kind.
func (r *QuestRepository) ListActiveByEvent(ctx context.Context, kind domain.EventKind) ([]*domain.QuestDefinition, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+questDefColumns+`
		 FROM quest_definitions
		 WHERE is_active = TRUE AND event_kind = $1`, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.QuestDefinition
	for rows.Next() {
		d, err := scanQuestDef(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

// UpsertDefinition inserts or refreshes a definition by key.
func (r *QuestRepository) UpsertDefinition(ctx context.Context, d *domain.QuestDefinition) (*domain.QuestDefinition, error) {
	return scanQuestDef(r.db.QueryRow(ctx,
		`INSERT INTO quest_definitions (id, key, title, description, difficulty, event_kind,
		     target, reward_coins, reward_xp, repeat, is_active, sort_order)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (key) DO UPDATE SET
		     title = EXCLUDED.title,
		     description = EXCLUDED.description,
		     difficulty = EXCLUDED.difficulty,
		     event_kind = EXCLUDED.event_kind,
		     target = EXCLUDED.target,
		     reward_coins = EXCLUDED.reward_coins,
		     reward_xp = EXCLUDED.reward_xp,
		     repeat = EXCLUDED.repeat,
		     is_active = EXCLUDED.is_active,
		     sort_order = EXCLUDED.sort_order
		 RETURNING `+questDefColumns,
		d.ID, d.Key, d.Title, d.Description, d.Difficulty, d.EventKind, d.Target,
		d.RewardCoins, d.RewardXP, d.Repeat, d.IsActive, d.SortOrder))
}

// GetProgressForUpdateTx locks the user's progress row for one quest, or
// returns nil when none exists. Callers hold the wallet lock, so a nil here
// cannot race another writer for the same user.
func (r *QuestRepository) GetProgressForUpdateTx(ctx context.Context, tx pgx.Tx, userID int64, questID uuid.UUID) (*domain.QuestProgress, error) {
	p, err := scanQuestProgress(tx.QueryRow(ctx,
		`SELECT `+questProgressColumns+`
		 FROM quest_progress
		 WHERE user_id = $1 AND quest_id = $2
		 FOR UPDATE`, userID, questID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// UpsertProgressTx writes the full progress row the caller computed.
func (r *QuestRepository) UpsertProgressTx(ctx context.Context, tx pgx.Tx, p *domain.QuestProgress) (*domain.QuestProgress, error) {
	return scanQuestProgress(tx.QueryRow(ctx,
		`INSERT INTO quest_progress (user_id, quest_id, period_start, progress, status,
		     completed_at, streak_count, last_completed_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (user_id, quest_id) DO UPDATE SET
		     period_start = EXCLUDED.period_start,
		     progress = EXCLUDED.progress,
		     status = EXCLUDED.status,
		     completed_at = EXCLUDED.completed_at,
		     streak_count = EXCLUDED.streak_count,
		     last_completed_on = EXCLUDED.last_completed_on,
		     updated_at = now()
		 RETURNING `+questProgressColumns,
		p.UserID, p.QuestID, p.PeriodStart, p.Progress, p.Status,
		p.CompletedAt, p.StreakCount, p.LastCompletedOn))
}

// ListProgressByUser returns all progress rows for the user keyed by quest.
func (r *QuestRepository) ListProgressByUser(ctx context.Context, userID int64) (map[uuid.UUID]*domain.QuestProgress, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+questProgressColumns+` FROM quest_progress WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[uuid.UUID]*domain.QuestProgress)
	for rows.Next() {
		p, err := scanQuestProgress(rows)
		if err != nil {
			return nil, err
		}
		result[p.QuestID] = p
	}
	return result, rows.Err()
}

// ListActive returns the quest catalog in display order.
func (r *QuestRepository) ListActive(ctx context.Context) ([]*domain.QuestDefinition, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+questDefColumns+`
		 FROM quest_definitions
		 WHERE is_active = TRUE
		 ORDER BY sort_order, key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.QuestDefinition
	for rows.Next() {
		d, err := scanQuestDef(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}
