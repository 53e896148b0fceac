package service

// Notification message types pushed over the WebSocket feed.
const (
	NotifyWalletUpdate      = "wallet_update"
	NotifyPurchase          = "purchase"
	NotifyRedemption        = "redemption"
	NotifyAchievementEarned = "achievement_earned"
	NotifyQuestCompleted    = "quest_completed"
	NotifySkillLeveledUp    = "skill_leveled_up"
	NotifyLevelUp           = "level_up"
)

// Notifier pushes a message to every connected client of one user. Calls
// happen strictly after the originating transaction commits and must never
// block the caller. A nil Notifier is valid and drops everything.
type Notifier interface {
	NotifyUser(userID int64, msgType string, payload any)
}

func notify(n Notifier, userID int64, msgType string, payload any) {
	if n != nil {
		n.NotifyUser(userID, msgType, payload)
	}
}
