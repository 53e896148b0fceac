package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListItems returns the purchasable catalog. Public; retired items are
// visible only through the admin surface. ?category= filters.
func (h *Handler) ListItems(c *gin.Context) {
	items, err := h.Market.List(c.Request.Context(), c.Query("category"), false)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetItem returns one catalog item by key. Public.
func (h *Handler) GetItem(c *gin.Context) {
	item, err := h.Market.GetByKey(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// PurchaseRequest is the buy call. Quantity defaults to 1; the idempotency
// key makes client retries safe.
type PurchaseRequest struct {
	ItemKey        string `json:"item_key" binding:"required"`
	Quantity       int    `json:"quantity"`
	IdempotencyKey string `json:"idempotency_key" binding:"required"`
}

// Purchase debits the wallet and records the purchase atomically. A replay
// with the same key returns 200 with the original purchase.
func (h *Handler) Purchase(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "user not found"})
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_argument", "message": "item_key and idempotency_key are required"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	result, err := h.Purchases.Purchase(c.Request.Context(), userID, req.ItemKey, req.Quantity, req.IdempotencyKey)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"purchase": result.Purchase,
		"wallet":   result.Wallet,
		"replayed": result.Duplicate,
	})
}

// RedeemRequest names the purchase to consume.
type RedeemRequest struct {
	PurchaseID string `json:"purchase_id" binding:"required"`
}

// Redeem consumes one use of an owned consumable purchase. Redeeming an
// exhausted purchase is a no-op returning the record unchanged.
func (h *Handler) Redeem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "user not found"})
		return
	}

	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_argument", "message": "purchase_id is required"})
		return
	}

	purchaseID, err := uuid.Parse(req.PurchaseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_argument", "message": "purchase_id must be a uuid"})
		return
	}

	purchase, err := h.Purchases.Redeem(c.Request.Context(), userID, purchaseID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"purchase": purchase})
}

// MyPurchases returns the caller's purchase history, newest first.
func (h *Handler) MyPurchases(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "user not found"})
		return
	}

	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)

	purchases, total, err := h.Purchases.Inventory(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"purchases": purchases,
		"total":     total,
	})
}
