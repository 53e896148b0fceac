package domain

import "math"

// LevelSpan returns the XP required to get through the given level
// (100 * level^1.5, floored). Level 1 spans 100 XP, level 2 spans 282, and
// so on; the curve is strictly increasing.
func LevelSpan(level int) int64 {
	if level < 1 {
		return 0
	}
	return int64(math.Floor(100 * math.Pow(float64(level), 1.5)))
}

// LevelForXP converts a total XP amount into (level, xp into the current
// level, xp remaining to the next level). Levels start at 1; 150 total XP is
// level 2 with 50 XP into the level.
func LevelForXP(xp int64) (level int, intoLevel int64, toNext int64) {
	if xp < 0 {
		xp = 0
	}
	level = 1
	remaining := xp
	for {
		span := LevelSpan(level)
		if remaining < span {
			return level, remaining, span - remaining
		}
		remaining -= span
		level++
	}
}
