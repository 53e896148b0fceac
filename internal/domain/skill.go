package domain

import (
	"time"

	"github.com/google/uuid"
)

// SkillCategory groups skills by life domain.
type SkillCategory string

const (
	SkillHealth       SkillCategory = "health"
	SkillLearning     SkillCategory = "learning"
	SkillProductivity SkillCategory = "productivity"
	SkillCreativity   SkillCategory = "creativity"
	SkillSocial       SkillCategory = "social"
	SkillFinance      SkillCategory = "finance"
	SkillWellness     SkillCategory = "wellness"
	SkillOther        SkillCategory = "other"
)

// SkillDefinition is immutable content describing one trainable skill.
// Mastery (reaching MaxLevel) pays the reward exactly once.
type SkillDefinition struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	Key           string        `db:"key" json:"key"`
	Name          string        `db:"name" json:"name"`
	Category      SkillCategory `db:"category" json:"category"`
	MaxLevel      int           `db:"max_level" json:"max_level"`
	StarsPerLevel int           `db:"stars_per_level" json:"stars_per_level"`
	RewardCoins   int64         `db:"reward_coins" json:"reward_coins"`
	RewardXP      int64         `db:"reward_xp" json:"reward_xp"`
	IsActive      bool          `db:"is_active" json:"is_active"`
	SortOrder     int           `db:"sort_order" json:"sort_order"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
}

// MasteryTarget is the total star count at which the skill is mastered.
func (d *SkillDefinition) MasteryTarget() int64 {
	return int64(d.MaxLevel) * int64(d.StarsPerLevel)
}

// LevelForStars derives the skill level from a star count, capped at
// MaxLevel. A skill with 3 stars per level is level 2 at 6 stars.
func (d *SkillDefinition) LevelForStars(stars int64) int {
	if d.StarsPerLevel <= 0 {
		return 0
	}
	level := int(stars) / d.StarsPerLevel
	if level > d.MaxLevel {
		return d.MaxLevel
	}
	return level
}

// SkillProgress is the mutable per-user star counter for one skill.
type SkillProgress struct {
	UserID      int64          `db:"user_id" json:"user_id"`
	SkillID     uuid.UUID      `db:"skill_id" json:"skill_id"`
	Stars       int64          `db:"stars" json:"stars"`
	Status      ProgressStatus `db:"status" json:"status"`
	CompletedAt *time.Time     `db:"completed_at" json:"completed_at,omitempty"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// SkillWithProgress joins a definition with the caller's progress for API
// responses. Level is derived from stars.
type SkillWithProgress struct {
	Definition SkillDefinition `json:"definition"`
	Stars      int64           `json:"stars"`
	Level      int             `json:"level"`
	Target     int64           `json:"target"`
	Status     ProgressStatus  `json:"status"`
}
