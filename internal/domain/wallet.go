package domain

import "time"

// Wallet is the projected balance row for one user. It is a materialized
// fold over that user's ledger entries and is only mutated inside the
// ledger append transaction.
type Wallet struct {
	UserID         int64     `db:"user_id" json:"user_id"`
	Coins          int64     `db:"coins" json:"coins"`
	XP             int64     `db:"xp" json:"xp"`
	LifetimeEarned int64     `db:"lifetime_earned" json:"lifetime_earned"`
	LifetimeSpent  int64     `db:"lifetime_spent" json:"lifetime_spent"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// WalletSnapshot is the read shape exposed to clients. Level fields are
// derived from XP, never stored.
type WalletSnapshot struct {
	Coins           int64 `json:"coins"`
	XP              int64 `json:"xp"`
	Level           int   `json:"level"`
	XPIntoLevel     int64 `json:"xp_into_level"`
	XPToNextLevel   int64 `json:"xp_to_next_level"`
	TotalSkillStars int64 `json:"total_skill_stars"`
	LifetimeEarned  int64 `json:"lifetime_earned"`
	LifetimeSpent   int64 `json:"lifetime_spent"`
}

// Snapshot derives the client-facing view from the stored wallet row.
func (w *Wallet) Snapshot(totalSkillStars int64) WalletSnapshot {
	level, into, toNext := LevelForXP(w.XP)
	return WalletSnapshot{
		Coins:           w.Coins,
		XP:              w.XP,
		Level:           level,
		XPIntoLevel:     into,
		XPToNextLevel:   toNext,
		TotalSkillStars: totalSkillStars,
		LifetimeEarned:  w.LifetimeEarned,
		LifetimeSpent:   w.LifetimeSpent,
	}
}
