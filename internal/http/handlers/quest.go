package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListQuests returns the active quest board with the caller's current-period
// progress merged in.
func (h *Handler) ListQuests(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "user not found"})
		return
	}

	quests, err := h.Quests.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quests": quests})
}

// AcceptQuest opts the caller into a quest for the current period. Accepting
// a quest already in progress is a no-op returning the current state.
func (h *Handler) AcceptQuest(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "user not found"})
		return
	}

	questID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_argument", "message": "quest id must be a uuid"})
		return
	}

	quest, err := h.Quests.Accept(c.Request.Context(), userID, questID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quest)
}

// AbandonQuest drops an in-progress quest for the current period.
func (h *Handler) AbandonQuest(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "user not found"})
		return
	}

	questID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_argument", "message": "quest id must be a uuid"})
		return
	}

	quest, err := h.Quests.Abandon(c.Request.Context(), userID, questID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quest)
}
