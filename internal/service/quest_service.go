package service

import (
	"context"
	"errors"
	"time"

	"points_economy/internal/domain"
	"points_economy/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrQuestNotFound = errors.New("quest not found")
	ErrQuestConflict = errors.New("quest is not in a state that allows this")
)

// QuestService handles the quest lifecycle around the engine: listing the
// catalog with the caller's progress, accepting and abandoning. Progress
// accumulation itself lives in the ProgressService.
type QuestService struct {
	db     *pgxpool.Pool
	quests *repository.QuestRepository
}

// NewQuestService creates a new quest service
func NewQuestService(db *pgxpool.Pool) *QuestService {
	return &QuestService{db: db, quests: repository.NewQuestRepository(db)}
}

// withProgress merges a definition with a progress row, treating rows from
// an expired period as not started. The displayed streak is zeroed when the
// last completion is older than the previous period.
func withProgress(def *domain.QuestDefinition, p *domain.QuestProgress, now time.Time) *domain.QuestWithProgress {
	out := &domain.QuestWithProgress{
		Definition: *def,
		Target:     def.Target,
		Status:     domain.StatusNotStarted,
	}
	if def.RewardCoins == 0 && def.RewardXP == 0 {
		out.Definition.RewardCoins, out.Definition.RewardXP = def.Difficulty.DefaultRewards()
	}
	if p == nil {
		return out
	}

	period := def.Repeat.PeriodStart(now)
	prev := def.Repeat.PrevPeriodStart(now)
	if p.LastCompletedOn != nil && (p.LastCompletedOn.Equal(period) || p.LastCompletedOn.Equal(prev)) {
		out.StreakCount = p.StreakCount
	}
	if p.PeriodStart.Equal(period) {
		out.Progress = p.Progress
		out.Status = p.Status
	}
	return out
}

// List returns active quests joined with the caller's current-period
// progress.
func (s *QuestService) List(ctx context.Context, userID int64) ([]*domain.QuestWithProgress, error) {
	defs, err := s.quests.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	progress, err := s.quests.ListProgressByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := make([]*domain.QuestWithProgress, 0, len(defs))
	for _, def := range defs {
		result = append(result, withProgress(def, progress[def.ID], now))
	}
	return result, nil
}

// Accept materializes the progress row in in_progress for the current
// period. It is idempotent: accepting an accepted or completed quest returns
// the current state unchanged. Quests auto-start on the first matching event
// regardless; accept is the explicit opt-in that surfaces them immediately.
func (s *QuestService) Accept(ctx context.Context, userID int64, questID uuid.UUID) (*domain.QuestWithProgress, error) {
	def, err := s.quests.GetByID(ctx, questID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestNotFound
		}
		return nil, err
	}
	if !def.IsActive {
		return nil, ErrQuestNotFound
	}

	var result *domain.QuestWithProgress
	err = runWalletTx(ctx, s.db, func(tx pgx.Tx) error {
		now := time.Now()
		period := def.Repeat.PeriodStart(now)

		p, err := s.quests.GetProgressForUpdateTx(ctx, tx, userID, questID)
		if err != nil {
			return err
		}
		switch {
		case p == nil:
			p = &domain.QuestProgress{
				UserID:      userID,
				QuestID:     questID,
				PeriodStart: period,
				Status:      domain.StatusInProgress,
			}
		case !p.PeriodStart.Equal(period):
			p.PeriodStart = period
			p.Progress = 0
			p.Status = domain.StatusInProgress
			p.CompletedAt = nil
		default:
			result = withProgress(def, p, now)
			return nil
		}

		saved, err := s.quests.UpsertProgressTx(ctx, tx, p)
		if err != nil {
			return err
		}
		result = withProgress(def, saved, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Abandon moves the current period's progress from in_progress to abandoned.
// Completed or untouched quests cannot be abandoned; the next period rollover
// re-enters in_progress.
func (s *QuestService) Abandon(ctx context.Context, userID int64, questID uuid.UUID) (*domain.QuestWithProgress, error) {
	def, err := s.quests.GetByID(ctx, questID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestNotFound
		}
		return nil, err
	}

	var result *domain.QuestWithProgress
	err = runWalletTx(ctx, s.db, func(tx pgx.Tx) error {
		now := time.Now()
		period := def.Repeat.PeriodStart(now)

		p, err := s.quests.GetProgressForUpdateTx(ctx, tx, userID, questID)
		if err != nil {
			return err
		}
		if p == nil || !p.PeriodStart.Equal(period) || p.Status != domain.StatusInProgress {
			return ErrQuestConflict
		}

		p.Status = domain.StatusAbandoned
		saved, err := s.quests.UpsertProgressTx(ctx, tx, p)
		if err != nil {
			return err
		}
		result = withProgress(def, saved, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
