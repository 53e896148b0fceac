package domain

import "time"

// StreakType names a tracked consecutive-day counter.
const StreakDailyActivity = "daily_activity"

// Streak is a per-(user, type) consecutive-day counter. Days are UTC dates.
type Streak struct {
	UserID     int64     `db:"user_id" json:"user_id"`
	StreakType string    `db:"streak_type" json:"streak_type"`
	Current    int       `db:"current" json:"current"`
	Longest    int       `db:"longest" json:"longest"`
	LastDay    time.Time `db:"last_day" json:"last_day"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// StreakAdvance is the outcome of recording activity for one day.
type StreakAdvance struct {
	Current  int
	Longest  int
	IsNewDay bool
	Broken   bool
}

// AdvanceStreak applies the streak rules to a prior state. Same-day activity
// is a no-op; activity the day after LastDay extends the streak; anything
// else resets it to 1 (Broken only when there was prior activity). Longest
// is a high-water mark. A nil prior means no streak row exists yet.
func AdvanceStreak(prior *Streak, today time.Time) StreakAdvance {
	today = DateUTC(today)
	if prior == nil {
		return StreakAdvance{Current: 1, Longest: 1, IsNewDay: true}
	}

	last := DateUTC(prior.LastDay)
	if last.Equal(today) {
		return StreakAdvance{Current: prior.Current, Longest: prior.Longest, IsNewDay: false}
	}

	adv := StreakAdvance{IsNewDay: true}
	if last.Equal(today.AddDate(0, 0, -1)) {
		adv.Current = prior.Current + 1
	} else {
		adv.Current = 1
		adv.Broken = true
	}
	adv.Longest = prior.Longest
	if adv.Current > adv.Longest {
		adv.Longest = adv.Current
	}
	return adv
}

// DateUTC truncates a time to its UTC date.
func DateUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
