package domain

import (
	"time"

	"github.com/google/uuid"
)

// QuestDifficulty scales default rewards.
type QuestDifficulty string

const (
	DifficultyStarter QuestDifficulty = "starter"
	DifficultyEasy    QuestDifficulty = "easy"
	DifficultyMedium  QuestDifficulty = "medium"
	DifficultyHard    QuestDifficulty = "hard"
	DifficultyEpic    QuestDifficulty = "epic"
)

// DefaultRewards returns the (coins, xp) paid for a quest of this difficulty
// when the definition does not set explicit rewards. Unknown difficulties
// fall back to starter values.
func (d QuestDifficulty) DefaultRewards() (coins, xp int64) {
	switch d {
	case DifficultyEasy:
		return 10, 25
	case DifficultyMedium:
		return 25, 50
	case DifficultyHard:
		return 50, 100
	case DifficultyEpic:
		return 100, 250
	default:
		return 5, 10
	}
}

// QuestRepeat says how often a quest's progress period rolls over.
type QuestRepeat string

const (
	RepeatNone   QuestRepeat = "none"
	RepeatDaily  QuestRepeat = "daily"
	RepeatWeekly QuestRepeat = "weekly"
)

// questEpoch is the fixed period start used for one-shot quests.
var questEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// PeriodStart returns the start of the period containing now, in UTC.
// Daily quests roll at UTC midnight, weekly quests at UTC Monday midnight,
// one-shot quests share a fixed epoch date.
func (r QuestRepeat) PeriodStart(now time.Time) time.Time {
	now = now.UTC()
	switch r {
	case RepeatDaily:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	case RepeatWeekly:
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		return time.Date(now.Year(), now.Month(), now.Day()-weekday+1, 0, 0, 0, 0, time.UTC)
	default:
		return questEpoch
	}
}

// PrevPeriodStart returns the start of the period immediately before the one
// containing now. Used to decide whether a completion extends the streak.
func (r QuestRepeat) PrevPeriodStart(now time.Time) time.Time {
	cur := r.PeriodStart(now)
	switch r {
	case RepeatDaily:
		return cur.AddDate(0, 0, -1)
	case RepeatWeekly:
		return cur.AddDate(0, 0, -7)
	default:
		return cur
	}
}

// QuestDefinition is immutable content describing one quest.
type QuestDefinition struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	Key         string          `db:"key" json:"key"`
	Title       string          `db:"title" json:"title"`
	Description string          `db:"description" json:"description,omitempty"`
	Difficulty  QuestDifficulty `db:"difficulty" json:"difficulty"`
	EventKind   EventKind       `db:"event_kind" json:"event_kind"`
	Target      int64           `db:"target" json:"target"`
	RewardCoins int64           `db:"reward_coins" json:"reward_coins"`
	RewardXP    int64           `db:"reward_xp" json:"reward_xp"`
	Repeat      QuestRepeat     `db:"repeat" json:"repeat"`
	IsActive    bool            `db:"is_active" json:"is_active"`
	SortOrder   int             `db:"sort_order" json:"sort_order"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// QuestProgress is the mutable per-user record for one quest. For repeatable
// quests the row is reused: a period rollover resets progress to 0 and
// re-enters in_progress, which is the one sanctioned reset. StreakCount
// counts consecutive periods completed; LastCompletedOn holds the period
// start of the most recent completion.
type QuestProgress struct {
	UserID          int64          `db:"user_id" json:"user_id"`
	QuestID         uuid.UUID      `db:"quest_id" json:"quest_id"`
	PeriodStart     time.Time      `db:"period_start" json:"period_start"`
	Progress        int64          `db:"progress" json:"progress"`
	Status          ProgressStatus `db:"status" json:"status"`
	CompletedAt     *time.Time     `db:"completed_at" json:"completed_at,omitempty"`
	StreakCount     int            `db:"streak_count" json:"streak_count"`
	LastCompletedOn *time.Time     `db:"last_completed_on" json:"last_completed_on,omitempty"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// QuestWithProgress joins a definition with the caller's progress for API
// responses.
type QuestWithProgress struct {
	Definition  QuestDefinition `json:"definition"`
	Progress    int64           `json:"progress"`
	Target      int64           `json:"target"`
	Status      ProgressStatus  `json:"status"`
	StreakCount int             `json:"streak_count"`
}
