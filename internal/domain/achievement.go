package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProgressStatus is the shared lifecycle of all progress records. Transitions
// are one-directional: not_started -> in_progress -> completed. Quests may
// additionally branch from in_progress to abandoned for the current period.
type ProgressStatus string

const (
	StatusNotStarted ProgressStatus = "not_started"
	StatusInProgress ProgressStatus = "in_progress"
	StatusCompleted  ProgressStatus = "completed"
	StatusAbandoned  ProgressStatus = "abandoned"
)

// TriggerKind says how an achievement is earned.
type TriggerKind string

const (
	// TriggerCount: event of EventKind observed Target times.
	TriggerCount TriggerKind = "count"
	// TriggerStreak: StreakType reaches Target consecutive days.
	TriggerStreak TriggerKind = "streak"
	// TriggerUnlock: the achievement named by DependencyKey is earned.
	TriggerUnlock TriggerKind = "unlock"
	// TriggerMilestone: user level reaches Target.
	TriggerMilestone TriggerKind = "milestone"
)

// AchievementDefinition is immutable content describing one achievement.
type AchievementDefinition struct {
	ID            uuid.UUID   `db:"id" json:"id"`
	Key           string      `db:"key" json:"key"`
	Name          string      `db:"name" json:"name"`
	Description   string      `db:"description" json:"description,omitempty"`
	Icon          string      `db:"icon" json:"icon,omitempty"`
	TriggerKind   TriggerKind `db:"trigger_kind" json:"trigger_kind"`
	EventKind     EventKind   `db:"event_kind" json:"event_kind,omitempty"`
	Target        int64       `db:"target" json:"target"`
	StreakType    string      `db:"streak_type" json:"streak_type,omitempty"`
	DependencyKey string      `db:"dependency_key" json:"dependency_key,omitempty"`
	RewardCoins   int64       `db:"reward_coins" json:"reward_coins"`
	RewardXP      int64       `db:"reward_xp" json:"reward_xp"`
	IsHidden      bool        `db:"is_hidden" json:"is_hidden"`
	IsActive      bool        `db:"is_active" json:"is_active"`
	SortOrder     int         `db:"sort_order" json:"sort_order"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
}

// AchievementProgress is the mutable per-user counter for one definition.
// Progress never decreases; completion is terminal.
type AchievementProgress struct {
	UserID        int64          `db:"user_id" json:"user_id"`
	AchievementID uuid.UUID      `db:"achievement_id" json:"achievement_id"`
	Progress      int64          `db:"progress" json:"progress"`
	Status        ProgressStatus `db:"status" json:"status"`
	CompletedAt   *time.Time     `db:"completed_at" json:"completed_at,omitempty"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// AchievementWithProgress joins a definition with the caller's progress for
// API responses. Progress is zero-valued when the user has not started.
type AchievementWithProgress struct {
	Definition AchievementDefinition `json:"definition"`
	Progress   int64                 `json:"progress"`
	Target     int64                 `json:"target"`
	Status     ProgressStatus        `json:"status"`
}
