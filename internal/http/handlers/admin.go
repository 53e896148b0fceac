package handlers

import (
	"net/http"

	"points_economy/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// getActor captures who is calling and from where, for the audit trail.
func getActor(c *gin.Context) (service.Actor, bool) {
	id, ok := getUserID(c)
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{ID: id, IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}, true
}

// AdminCreateItem adds a catalog item.
func (h *Handler) AdminCreateItem(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "user not found"})
		return
	}

	var in service.ItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_argument", "message": "malformed item"})
		return
	}

	item, err := h.Admin.CreateItem(c.Request.Context(), actor, in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// AdminUpdateItem applies a partial update to a catalog item. The item key
// is immutable.
func (h *Handler) AdminUpdateItem(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "user not found"})
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_argument", "message": "item id must be a uuid"})
		return
	}

	var patch service.ItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_argument", "message": "malformed patch"})
		return
	}

	item, err := h.Admin.UpdateItem(c.Request.Context(), actor, itemID, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// AdminAdjust manually credits or debits a user's wallet through the ledger.
func (h *Handler) AdminAdjust(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "user not found"})
		return
	}

	var req service.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_argument", "message": "malformed adjustment"})
		return
	}

	result, err := h.Admin.Adjust(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entry":    result.Entry,
		"wallet":   result.Wallet,
		"replayed": result.Duplicate,
	})
}

// RefundRequest names the purchase to reverse.
type RefundRequest struct {
	PurchaseID string `json:"purchase_id" binding:"required"`
	Reason     string `json:"reason"`
}

// AdminRefund reverses a purchase and credits the owner's wallet. Redeemed
// purchases cannot be refunded.
func (h *Handler) AdminRefund(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "user not found"})
		return
	}

	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_argument", "message": "purchase_id is required"})
		return
	}

	purchaseID, err := uuid.Parse(req.PurchaseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_argument", "message": "purchase_id must be a uuid"})
		return
	}

	purchase, err := h.Admin.Refund(c.Request.Context(), actor, purchaseID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"purchase": purchase})
}

// AdminAudit returns the most recent audit rows.
func (h *Handler) AdminAudit(c *gin.Context) {
	logs, err := h.Admin.AuditTrail(c.Request.Context(), intQuery(c, "limit", 50))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
