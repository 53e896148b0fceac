package handlers

import (
	"errors"
	"net/http"

	"points_economy/internal/logger"
	"points_economy/internal/service"

	"github.com/gin-gonic/gin"
)

// errorMap orders the sentinel translations; first match wins. Wrapped
// errors keep their sentinel via errors.Is.
var errorMap = []struct {
	sentinel error
	status   int
	code     string
}{
	{service.ErrInvalidArgument, http.StatusBadRequest, "invalid_argument"},
	{service.ErrNotConsumable, http.StatusBadRequest, "not_consumable"},
	{service.ErrInsufficientFunds, http.StatusPaymentRequired, "insufficient_funds"},
	{service.ErrForbidden, http.StatusForbidden, "forbidden"},
	{service.ErrItemNotFound, http.StatusNotFound, "not_found"},
	{service.ErrPurchaseNotFound, http.StatusNotFound, "not_found"},
	{service.ErrQuestNotFound, http.StatusNotFound, "not_found"},
	{service.ErrSkillNotFound, http.StatusNotFound, "not_found"},
	{service.ErrIdempotencyKeyReused, http.StatusConflict, "idempotency_key_reused"},
	{service.ErrPurchaseRefunded, http.StatusConflict, "purchase_refunded"},
	{service.ErrAlreadyRefunded, http.StatusConflict, "already_refunded"},
	{service.ErrRefundRedeemed, http.StatusConflict, "purchase_redeemed"},
	{service.ErrQuestConflict, http.StatusConflict, "quest_state_conflict"},
	{service.ErrDuplicateItemKey, http.StatusConflict, "duplicate_item_key"},
	{service.ErrServiceUnavailable, http.StatusServiceUnavailable, "service_unavailable"},
	{service.ErrInvariantViolation, http.StatusInternalServerError, "invariant_violation"},
}

// respondError translates a service error into the wire shape
// {"error": <machine_code>, "message": <human text>}. Anything outside the
// sentinel set is a 500 and gets logged with the route.
func respondError(c *gin.Context, err error) {
	for _, m := range errorMap {
		if errors.Is(err, m.sentinel) {
			c.JSON(m.status, gin.H{"error": m.code, "message": err.Error()})
			return
		}
	}

	logger.Error("request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "internal error"})
}
