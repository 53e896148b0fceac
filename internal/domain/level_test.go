package domain

import "testing"

func TestLevelSpan(t *testing.T) {
	cases := []struct {
		level int
		want  int64
	}{
		{1, 100},
		{2, 282},
		{3, 519},
		{4, 800},
		{0, 0},
		{-1, 0},
	}

	for _, tc := range cases {
		if got := LevelSpan(tc.level); got != tc.want {
			t.Fatalf("LevelSpan(%d) = %d; want %d", tc.level, got, tc.want)
		}
	}
}

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		xp        int64
		wantLevel int
		wantInto  int64
		wantNext  int64
	}{
		{0, 1, 0, 100},
		{50, 1, 50, 50},
		{99, 1, 99, 1},
		{100, 2, 0, 282},
		{150, 2, 50, 232},
		{382, 3, 0, 519},
		{500, 3, 118, 401},
		{-5, 1, 0, 100},
	}

	for _, tc := range cases {
		level, into, next := LevelForXP(tc.xp)
		if level != tc.wantLevel || into != tc.wantInto || next != tc.wantNext {
			t.Fatalf("LevelForXP(%d) = (%d, %d, %d); want (%d, %d, %d)",
				tc.xp, level, into, next, tc.wantLevel, tc.wantInto, tc.wantNext)
		}
	}
}

func TestLevelForXPMonotonic(t *testing.T) {
	prev := 1
	for xp := int64(0); xp <= 5000; xp += 37 {
		level, _, _ := LevelForXP(xp)
		if level < prev {
			t.Fatalf("level decreased at xp=%d: %d -> %d", xp, prev, level)
		}
		prev = level
	}
}
