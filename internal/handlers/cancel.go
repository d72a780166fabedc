package handlers

//go:generate mockgen -source=cancel.go -destination=cancel_mock.go -package=handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/gw-points-wallet/internal/apierr"
	"github.com/sbilibin2017/gw-points-wallet/internal/logger"
	"github.com/sbilibin2017/gw-points-wallet/internal/models"
	"github.com/sbilibin2017/gw-points-wallet/internal/services"
)

// Canceler defines the interface that the service must implement.
type Canceler interface {
	Cancel(ctx context.Context, cmd services.CancelCommand) (*models.PaymentSnapshot, error)
}

// CancelRequest represents the JSON body for returning points of a payment
// swagger:model CancelRequest
type CancelRequest struct {
	// Order identifier of the payment
	// required: true
	OrderID string `json:"order_id" validate:"required,max=100"`

	// Points to return, at most the points still captured
	// default: 100
	CancelAmount int64 `json:"cancel_amount"`

	// Reason code, UNKNOWN when empty
	// default: USER_REQUEST
	ReasonCode string `json:"reason_code" validate:"omitempty,max=30"`

	// Free-form reason
	ReasonMessage string `json:"reason_message" validate:"omitempty,max=255"`

	// Idempotency key; X-Idempotency-Key is used when empty
	RequestID string `json:"request_id" validate:"omitempty,max=120"`
}

// NewCancelHandler returns an HTTP handler for full or partial cancellation.
// @Summary Cancel payment
// @Description Returns some or all points of a captured payment. The payment becomes CANCELED when nothing is left.
// @Tags payments
// @Accept json
// @Produce json
// @Param userId path int true "User ID"
// @Param X-Idempotency-Key header string false "Request id when the body has none"
// @Param request body handlers.CancelRequest true "Cancel Request"
// @Success 200 {object} models.PaymentSnapshot
// @Failure 400 {object} apierr.Response "INVALID_CANCEL_AMOUNT, EXCEED_POINT_PAID or PAYMENT_NOT_CAPTURED"
// @Failure 403 {object} apierr.Response "PAYMENT_USER_MISMATCH"
// @Failure 404 {object} apierr.Response "PAYMENT_NOT_FOUND"
// @Failure 409 {object} apierr.Response "REQUEST_ID_REUSED"
// @Router /{userId}/payments/cancel [post]
// @Security BearerAuth
func NewCancelHandler(svc Canceler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, ok := pathUserID(w, r)
		if !ok {
			return
		}

		var req CancelRequest
		if !decodeBody(w, r, &req) {
			return
		}
		reqID, ok := requestID(w, r, req.RequestID)
		if !ok {
			return
		}

		snap, err := svc.Cancel(ctx, services.CancelCommand{
			UserID:        userID,
			OrderID:       req.OrderID,
			CancelAmount:  req.CancelAmount,
			ReasonCode:    req.ReasonCode,
			ReasonMessage: req.ReasonMessage,
			RequestID:     reqID,
		})
		if err != nil {
			logger.Log.Warnw("cancel failed", "user_id", userID, "order_id", req.OrderID, "error", err)
			apierr.WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, snap)
	}
}
