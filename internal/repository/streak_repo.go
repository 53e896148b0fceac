package repository

import (
	"context"
	"errors"

	"points_economy/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StreakRepository stores per-(user, type) consecutive-day counters.
type StreakRepository struct {
	db *pgxpool.Pool
}

func NewStreakRepository(db *pgxpool.Pool) *StreakRepository {
	return &StreakRepository{db: db}
}

const streakColumns = `user_id, streak_type, current, longest, last_day, updated_at`

func scanStreak(row pgx.Row) (*domain.Streak, error) {
	var s domain.Streak
	err := row.Scan(&s.UserID, &s.StreakType, &s.Current, &s.Longest, &s.LastDay, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Get returns the streak, or nil when the user has no recorded activity.
func (r *StreakRepository) Get(ctx context.Context, userID int64, streakType string) (*domain.Streak, error) {
	s, err := scanStreak(r.db.QueryRow(ctx,
		`SELECT `+streakColumns+` FROM streaks WHERE user_id = $1 AND streak_type = $2`,
		userID, streakType))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

// GetForUpdateTx locks the streak row inside the engine's transaction.
func (r *StreakRepository) GetForUpdateTx(ctx context.Context, tx pgx.Tx, userID int64, streakType string) (*domain.Streak, error) {
	s, err := scanStreak(tx.QueryRow(ctx,
		`SELECT `+streakColumns+`
		 FROM streaks
		 WHERE user_id = $1 AND streak_type = $2
		 FOR UPDATE`, userID, streakType))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

// UpsertTx writes the streak state the caller computed.
func (r *StreakRepository) UpsertTx(ctx context.Context, tx pgx.Tx, s *domain.Streak) (*domain.Streak, error) {
	return scanStreak(tx.QueryRow(ctx,
		`INSERT INTO streaks (user_id, streak_type, current, longest, last_day)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, streak_type) DO UPDATE SET
		     current = EXCLUDED.current,
		     longest = EXCLUDED.longest,
		     last_day = EXCLUDED.last_day,
		     updated_at = now()
		 RETURNING `+streakColumns,
		s.UserID, s.StreakType, s.Current, s.Longest, s.LastDay))
}
