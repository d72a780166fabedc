package handlers

//go:generate mockgen -source=pay.go -destination=pay_mock.go -package=handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/gw-points-wallet/internal/apierr"
	"github.com/sbilibin2017/gw-points-wallet/internal/logger"
	"github.com/sbilibin2017/gw-points-wallet/internal/models"
	"github.com/sbilibin2017/gw-points-wallet/internal/services"
)

// Payer defines the interface that the service must implement.
type Payer interface {
	Pay(ctx context.Context, cmd services.PayCommand) (*models.PaymentSnapshot, error)
}

// PayRequest represents the JSON body for paying an order with points
// swagger:model PayRequest
type PayRequest struct {
	// Order identifier, unique per payment
	// required: true
	OrderID string `json:"order_id" validate:"required,max=100"`

	// Order total
	// default: 1000
	TotalAmount int64 `json:"total_amount"`

	// Points to spend, must not exceed the total
	// default: 1000
	PointAmount int64 `json:"point_amount"`

	// Cash portion, must be 0
	CashAmount int64 `json:"cash_amount"`

	// Idempotency key; X-Idempotency-Key is used when empty
	RequestID string `json:"request_id" validate:"omitempty,max=120"`
}

// NewPayHandler returns an HTTP handler for paying an order with points.
// @Summary Pay with points
// @Description Captures a points-only payment. Paying an order again returns its current state without deducting points.
// @Tags payments
// @Accept json
// @Produce json
// @Param userId path int true "User ID"
// @Param X-Idempotency-Key header string false "Request id when the body has none"
// @Param request body handlers.PayRequest true "Pay Request"
// @Success 200 {object} models.PaymentSnapshot
// @Failure 400 {object} apierr.Response "INVALID_TOTAL_AMOUNT, INVALID_POINT_AMOUNT, POINT_EXCEED_TOTAL, CASH_AMOUNT_NOT_SUPPORTED or INSUFFICIENT_POINT"
// @Failure 403 {object} apierr.Response "PAYMENT_USER_MISMATCH"
// @Failure 404 {object} apierr.Response "WALLET_NOT_FOUND"
// @Failure 409 {object} apierr.Response "REQUEST_ID_REUSED"
// @Router /{userId}/payments/pay [post]
// @Security BearerAuth
func NewPayHandler(svc Payer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, ok := pathUserID(w, r)
		if !ok {
			return
		}

		var req PayRequest
		if !decodeBody(w, r, &req) {
			return
		}
		reqID, ok := requestID(w, r, req.RequestID)
		if !ok {
			return
		}

		snap, err := svc.Pay(ctx, services.PayCommand{
			UserID:      userID,
			OrderID:     req.OrderID,
			TotalAmount: req.TotalAmount,
			PointAmount: req.PointAmount,
			CashAmount:  req.CashAmount,
			RequestID:   reqID,
		})
		if err != nil {
			logger.Log.Warnw("payment failed", "user_id", userID, "order_id", req.OrderID, "error", err)
			apierr.WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, snap)
	}
}
