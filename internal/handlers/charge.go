package handlers

//go:generate mockgen -source=charge.go -destination=charge_mock.go -package=handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/gw-points-wallet/internal/apierr"
	"github.com/sbilibin2017/gw-points-wallet/internal/logger"
	"github.com/sbilibin2017/gw-points-wallet/internal/models"
)

// Charger defines the interface that the service must implement.
type Charger interface {
	Charge(ctx context.Context, userID, amount int64, requestID, orderID string) (*models.WalletSnapshot, error)
}

// ChargeRequest represents the JSON body for charging points
// swagger:model ChargeRequest
type ChargeRequest struct {
	// Points to add
	// required: true
	// default: 1000
	Amount int64 `json:"amount"`

	// Optional business reference
	OrderID string `json:"order_id" validate:"omitempty,max=100"`

	// Idempotency key; X-Idempotency-Key is used when empty
	RequestID string `json:"request_id" validate:"omitempty,max=120"`
}

// NewChargeHandler returns an HTTP handler for adding points to a wallet.
// @Summary Charge points
// @Description Adds points to the wallet, creating it on first use. Retrying with the same request id returns the current balance without charging again.
// @Tags wallet
// @Accept json
// @Produce json
// @Param userId path int true "User ID"
// @Param X-Idempotency-Key header string false "Request id when the body has none"
// @Param request body handlers.ChargeRequest true "Charge Request"
// @Success 200 {object} models.WalletSnapshot
// @Failure 400 {object} apierr.Response "INVALID_CHARGE_AMOUNT, MALFORMED_JSON or INVALID_REQUEST"
// @Failure 422 {object} apierr.Response "BALANCE_OVERFLOW"
// @Failure 401 {object} apierr.Response "Unauthorized"
// @Router /{userId}/wallet/charge [post]
// @Security BearerAuth
func NewChargeHandler(svc Charger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, ok := pathUserID(w, r)
		if !ok {
			return
		}

		var req ChargeRequest
		if !decodeBody(w, r, &req) {
			return
		}

		reqID, ok := requestID(w, r, req.RequestID)
		if !ok {
			return
		}

		snap, err := svc.Charge(ctx, userID, req.Amount, reqID, req.OrderID)
		if err != nil {
			logger.Log.Warnw("failed to charge points", "user_id", userID, "amount", req.Amount, "error", err)
			apierr.WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, snap)
	}
}
