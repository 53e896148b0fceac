package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GamificationSummary returns the dashboard payload: wallet, counts, streak
// and recent ledger activity in one call.
func (h *Handler) GamificationSummary(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "user not found"})
		return
	}

	summary, err := h.Summary.GetSummary(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// AchievementTeaser returns the caller's nearest-to-completion achievements.
func (h *Handler) AchievementTeaser(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "user not found"})
		return
	}

	teaser, err := h.Summary.Teaser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"achievements": teaser})
}
