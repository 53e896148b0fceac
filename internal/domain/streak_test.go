package domain

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestAdvanceStreak(t *testing.T) {
	today := day("2025-03-10")

	cases := []struct {
		name  string
		prior *Streak
		want  StreakAdvance
	}{
		{
			name:  "first activity",
			prior: nil,
			want:  StreakAdvance{Current: 1, Longest: 1, IsNewDay: true},
		},
		{
			name:  "same day is a no-op",
			prior: &Streak{Current: 4, Longest: 6, LastDay: day("2025-03-10")},
			want:  StreakAdvance{Current: 4, Longest: 6, IsNewDay: false},
		},
		{
			name:  "yesterday extends",
			prior: &Streak{Current: 4, Longest: 6, LastDay: day("2025-03-09")},
			want:  StreakAdvance{Current: 5, Longest: 6, IsNewDay: true},
		},
		{
			name:  "extension raises high-water mark",
			prior: &Streak{Current: 6, Longest: 6, LastDay: day("2025-03-09")},
			want:  StreakAdvance{Current: 7, Longest: 7, IsNewDay: true},
		},
		{
			name:  "gap resets and reports broken",
			prior: &Streak{Current: 4, Longest: 6, LastDay: day("2025-03-07")},
			want:  StreakAdvance{Current: 1, Longest: 6, IsNewDay: true, Broken: true},
		},
	}

	for _, tc := range cases {
		got := AdvanceStreak(tc.prior, today)
		if got != tc.want {
			t.Fatalf("%s: AdvanceStreak = %+v; want %+v", tc.name, got, tc.want)
		}
	}
}

func TestAdvanceStreakIgnoresTimeOfDay(t *testing.T) {
	prior := &Streak{Current: 2, Longest: 2, LastDay: day("2025-03-09")}
	late := time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC)

	got := AdvanceStreak(prior, late)
	if got.Current != 3 || !got.IsNewDay {
		t.Fatalf("expected extension regardless of time of day, got %+v", got)
	}
}
