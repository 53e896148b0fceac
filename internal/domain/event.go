package domain

// EventKind names a domain event that can advance progress records.
type EventKind string

const (
	// External kinds, delivered by collaborating systems via POST /api/events.
	EventHabitCompleted         EventKind = "habit_completed"
	EventFocusSessionCompleted  EventKind = "focus_session_completed"
	EventGoalMilestoneCompleted EventKind = "goal_milestone_completed"
	EventBonusAwarded           EventKind = "bonus_awarded"
	EventCustom                 EventKind = "custom"

	// Internal cascade kinds, emitted by the engine itself while processing
	// an event. Rejected at the HTTP boundary.
	EventQuestCompleted    EventKind = "quest_completed"
	EventAchievementEarned EventKind = "achievement_earned"
	EventSkillLeveledUp    EventKind = "skill_leveled_up"
	EventLevelUp           EventKind = "level_up"
)

// Internal reports whether the kind may only be emitted by the engine.
func (k EventKind) Internal() bool {
	switch k {
	case EventQuestCompleted, EventAchievementEarned, EventSkillLeveledUp, EventLevelUp:
		return true
	}
	return false
}

// Valid reports whether the kind is known at all.
func (k EventKind) Valid() bool {
	switch k {
	case EventHabitCompleted, EventFocusSessionCompleted, EventGoalMilestoneCompleted,
		EventBonusAwarded, EventCustom:
		return true
	}
	return k.Internal()
}

// Event is one unit of input to the reward engine. Amount defaults to 1.
// Key carries the earned achievement's key on achievement_earned cascades and
// the reached level on level_up cascades (via Amount).
type Event struct {
	Kind     EventKind      `json:"kind"`
	Amount   int64          `json:"amount,omitempty"`
	SkillKey string         `json:"skill_key,omitempty"`
	Key      string         `json:"key,omitempty"`
	Meta     map[string]any `json:"meta,omitempty"`
}

// Completion describes one progress record the engine just completed, with
// the reward it paid out.
type Completion struct {
	Kind        string `json:"kind"` // achievement | quest | skill
	Key         string `json:"key"`
	Name        string `json:"name"`
	RewardCoins int64  `json:"reward_coins"`
	RewardXP    int64  `json:"reward_xp"`
}
