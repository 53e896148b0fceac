package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LedgerReason tags why a ledger entry exists.
type LedgerReason string

const (
	ReasonPurchase          LedgerReason = "purchase"
	ReasonAchievementReward LedgerReason = "achievement_reward"
	ReasonQuestReward       LedgerReason = "quest_reward"
	ReasonSkillReward       LedgerReason = "skill_reward"
	ReasonRefund            LedgerReason = "refund"
	ReasonManualAdjustment  LedgerReason = "manual_adjustment"
)

// Valid reports whether the reason is one of the known tags.
func (r LedgerReason) Valid() bool {
	switch r {
	case ReasonPurchase, ReasonAchievementReward, ReasonQuestReward,
		ReasonSkillReward, ReasonRefund, ReasonManualAdjustment:
		return true
	}
	return false
}

// LedgerEntry is one balance-affecting event. Entries are append-only and
// immutable once written; corrections are new entries with a compensating
// reason. (user_id, reason, idempotency_key) is unique, which is what makes
// re-delivery of the same logical operation a no-op.
type LedgerEntry struct {
	ID             uuid.UUID    `db:"id" json:"id"`
	UserID         int64        `db:"user_id" json:"user_id"`
	DeltaCoins     int64        `db:"delta_coins" json:"delta_coins"`
	DeltaXP        int64        `db:"delta_xp" json:"delta_xp"`
	Reason         LedgerReason `db:"reason" json:"reason"`
	IdempotencyKey string       `db:"idempotency_key" json:"idempotency_key"`
	Note           string       `db:"note" json:"note,omitempty"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
}

// Deterministic idempotency keys for engine-issued rewards. These embed the
// definition id (and the period for repeatable quests) so that replaying the
// same completion event cannot pay twice.

func AchievementRewardKey(achievementID uuid.UUID) string {
	return "achv:" + achievementID.String()
}

func QuestRewardKey(questID uuid.UUID, periodStart time.Time, repeat QuestRepeat) string {
	if repeat == RepeatNone {
		return "quest:" + questID.String()
	}
	return fmt.Sprintf("quest:%s:%s", questID, periodStart.UTC().Format("2006-01-02"))
}

func SkillRewardKey(skillID uuid.UUID) string {
	return "skill:" + skillID.String()
}

func RefundKey(purchaseID uuid.UUID) string {
	return "refund:" + purchaseID.String()
}
