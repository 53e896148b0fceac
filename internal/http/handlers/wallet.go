package handlers

import (
	"net/http"

	"points_economy/internal/domain"

	"github.com/gin-gonic/gin"
)

// Wallet returns the caller's balance snapshot.
func (h *Handler) Wallet(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "user not found"})
		return
	}

	snapshot, err := h.Ledger.Snapshot(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// WalletLedger returns the caller's ledger entries, newest first.
// ?limit=, ?offset= paginate; ?reason= filters by entry reason.
func (h *Handler) WalletLedger(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "user not found"})
		return
	}

	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	reason := domain.LedgerReason(c.Query("reason"))

	entries, total, err := h.Ledger.History(c.Request.Context(), userID, reason, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"total":   total,
	})
}

type leaderboardEntry struct {
	Rank   int   `json:"rank"`
	UserID int64 `json:"user_id"`
	XP     int64 `json:"xp"`
	Level  int   `json:"level"`
}

// Leaderboard returns the top wallets by experience. Public; exposes xp and
// level only, never coin balances.
func (h *Handler) Leaderboard(c *gin.Context) {
	limit := intQuery(c, "limit", 10)

	wallets, err := h.Ledger.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	entries := make([]leaderboardEntry, 0, len(wallets))
	for i, w := range wallets {
		level, _, _ := domain.LevelForXP(w.XP)
		entries = append(entries, leaderboardEntry{
			Rank:   i + 1,
			UserID: w.UserID,
			XP:     w.XP,
			Level:  level,
		})
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
