package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSkillLevelForStars(t *testing.T) {
	def := &SkillDefinition{MaxLevel: 5, StarsPerLevel: 3}

	cases := []struct {
		stars int64
		want  int
	}{
		{0, 0},
		{2, 0},
		{3, 1},
		{8, 2},
		{15, 5},
		{99, 5}, // capped at max level
	}

	for _, tc := range cases {
		if got := def.LevelForStars(tc.stars); got != tc.want {
			t.Fatalf("LevelForStars(%d) = %d; want %d", tc.stars, got, tc.want)
		}
	}

	if got := def.MasteryTarget(); got != 15 {
		t.Fatalf("MasteryTarget = %d; want 15", got)
	}
}

func TestEventKindClassification(t *testing.T) {
	for _, k := range []EventKind{EventHabitCompleted, EventFocusSessionCompleted,
		EventGoalMilestoneCompleted, EventBonusAwarded, EventCustom} {
		if k.Internal() {
			t.Fatalf("%s should be external", k)
		}
		if !k.Valid() {
			t.Fatalf("%s should be valid", k)
		}
	}

	for _, k := range []EventKind{EventQuestCompleted, EventAchievementEarned,
		EventSkillLeveledUp, EventLevelUp} {
		if !k.Internal() {
			t.Fatalf("%s should be internal", k)
		}
	}

	if EventKind("made_up").Valid() {
		t.Fatal("unknown kind should be invalid")
	}
}

func TestRewardKeysAreDeterministic(t *testing.T) {
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")

	if got := AchievementRewardKey(id); got != "achv:11111111-2222-3333-4444-555555555555" {
		t.Fatalf("achievement key = %s", got)
	}
	if got := SkillRewardKey(id); got != "skill:11111111-2222-3333-4444-555555555555" {
		t.Fatalf("skill key = %s", got)
	}

	period := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	oneShot := QuestRewardKey(id, period, RepeatNone)
	daily := QuestRewardKey(id, period, RepeatDaily)
	if oneShot != "quest:11111111-2222-3333-4444-555555555555" {
		t.Fatalf("one-shot quest key = %s", oneShot)
	}
	if daily != "quest:11111111-2222-3333-4444-555555555555:2025-03-10" {
		t.Fatalf("daily quest key = %s", daily)
	}

	// Same period must produce the same key; the next period a different one.
	if again := QuestRewardKey(id, period, RepeatDaily); again != daily {
		t.Fatal("daily key not stable for same period")
	}
	next := QuestRewardKey(id, period.AddDate(0, 0, 1), RepeatDaily)
	if next == daily {
		t.Fatal("daily key must differ across periods")
	}
}
