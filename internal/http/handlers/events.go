package handlers

import (
	"net/http"

	"points_economy/internal/domain"

	"github.com/gin-gonic/gin"
)

// RecordEvent is the event-source boundary: collaborating systems report
// user activity here and the reward engine reacts in one transaction.
// Internal cascade kinds are rejected; only the engine may emit those.
func (h *Handler) RecordEvent(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "user not found"})
		return
	}

	var ev domain.Event
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_argument", "message": "malformed event"})
		return
	}

	result, err := h.Progress.RecordEvent(c.Request.Context(), userID, ev)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
