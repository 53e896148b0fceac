package domain

import (
	"testing"
	"time"
)

func TestDifficultyDefaultRewards(t *testing.T) {
	cases := []struct {
		difficulty QuestDifficulty
		wantCoins  int64
		wantXP     int64
	}{
		{DifficultyStarter, 5, 10},
		{DifficultyEasy, 10, 25},
		{DifficultyMedium, 25, 50},
		{DifficultyHard, 50, 100},
		{DifficultyEpic, 100, 250},
		{"unknown", 5, 10},
	}

	for _, tc := range cases {
		coins, xp := tc.difficulty.DefaultRewards()
		if coins != tc.wantCoins || xp != tc.wantXP {
			t.Fatalf("%s: DefaultRewards = (%d, %d); want (%d, %d)",
				tc.difficulty, coins, xp, tc.wantCoins, tc.wantXP)
		}
	}
}

func TestPeriodStart(t *testing.T) {
	// Wednesday midday UTC
	now := time.Date(2025, 3, 12, 13, 45, 0, 0, time.UTC)

	if got := RepeatDaily.PeriodStart(now); !got.Equal(day("2025-03-12")) {
		t.Fatalf("daily period = %v; want 2025-03-12", got)
	}
	if got := RepeatWeekly.PeriodStart(now); !got.Equal(day("2025-03-10")) {
		t.Fatalf("weekly period = %v; want Monday 2025-03-10", got)
	}
	if got := RepeatNone.PeriodStart(now); !got.Equal(day("2000-01-01")) {
		t.Fatalf("one-shot period = %v; want fixed epoch", got)
	}

	// Sunday belongs to the week that started the previous Monday.
	sunday := time.Date(2025, 3, 16, 8, 0, 0, 0, time.UTC)
	if got := RepeatWeekly.PeriodStart(sunday); !got.Equal(day("2025-03-10")) {
		t.Fatalf("weekly period on Sunday = %v; want 2025-03-10", got)
	}
}

func TestPrevPeriodStart(t *testing.T) {
	now := time.Date(2025, 3, 12, 13, 45, 0, 0, time.UTC)

	if got := RepeatDaily.PrevPeriodStart(now); !got.Equal(day("2025-03-11")) {
		t.Fatalf("daily prev period = %v; want 2025-03-11", got)
	}
	if got := RepeatWeekly.PrevPeriodStart(now); !got.Equal(day("2025-03-03")) {
		t.Fatalf("weekly prev period = %v; want 2025-03-03", got)
	}
}

func TestPeriodStartNonUTCInput(t *testing.T) {
	// 23:30 in UTC+3 is 20:30 UTC the same day; the period must be the UTC day.
	loc := time.FixedZone("UTC+3", 3*3600)
	now := time.Date(2025, 3, 12, 23, 30, 0, 0, loc)

	if got := RepeatDaily.PeriodStart(now); !got.Equal(day("2025-03-12")) {
		t.Fatalf("daily period for zoned input = %v; want 2025-03-12", got)
	}
}
