package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Achievements returns every visible achievement with the caller's progress.
// Hidden achievements appear only once completed.
func (h *Handler) Achievements(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "user not found"})
		return
	}

	achievements, err := h.Progress.ListAchievements(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"achievements": achievements})
}

// Skills returns the active skill tracks with the caller's stars and level.
func (h *Handler) Skills(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "user not found"})
		return
	}

	skills, err := h.Progress.ListSkills(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"skills": skills})
}
