package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"points_economy/internal/service"

	"github.com/gin-gonic/gin"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"insufficient funds", service.ErrInsufficientFunds, http.StatusPaymentRequired, "insufficient_funds"},
		{"wrapped invalid argument", fmt.Errorf("%w: bad quantity", service.ErrInvalidArgument), http.StatusBadRequest, "invalid_argument"},
		{"not consumable", service.ErrNotConsumable, http.StatusBadRequest, "not_consumable"},
		{"item not found", service.ErrItemNotFound, http.StatusNotFound, "not_found"},
		{"purchase not found", service.ErrPurchaseNotFound, http.StatusNotFound, "not_found"},
		{"quest not found", service.ErrQuestNotFound, http.StatusNotFound, "not_found"},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"key reused", service.ErrIdempotencyKeyReused, http.StatusConflict, "idempotency_key_reused"},
		{"purchase refunded", service.ErrPurchaseRefunded, http.StatusConflict, "purchase_refunded"},
		{"already refunded", service.ErrAlreadyRefunded, http.StatusConflict, "already_refunded"},
		{"refund after redeem", service.ErrRefundRedeemed, http.StatusConflict, "purchase_redeemed"},
		{"quest state conflict", service.ErrQuestConflict, http.StatusConflict, "quest_state_conflict"},
		{"wrapped transient exhaustion", fmt.Errorf("%w: lock timeout", service.ErrServiceUnavailable), http.StatusServiceUnavailable, "service_unavailable"},
		{"invariant violation", service.ErrInvariantViolation, http.StatusInternalServerError, "invariant_violation"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			var body struct {
				Error   string `json:"error"`
				Message string `json:"message"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid body %q: %v", w.Body.String(), err)
			}
			if body.Error != tt.wantCode {
				t.Errorf("error code = %q, want %q", body.Error, tt.wantCode)
			}
			if body.Message == "" {
				t.Error("message is empty")
			}
		})
	}
}
