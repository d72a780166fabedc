package handlers

//go:generate mockgen -source=payment.go -destination=payment_mock.go -package=handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/gw-points-wallet/internal/apierr"
	"github.com/sbilibin2017/gw-points-wallet/internal/models"
)

// PaymentReader defines the interface that the service must implement.
type PaymentReader interface {
	Get(ctx context.Context, userID int64, orderID string) (*models.PaymentDetails, error)
}

// NewGetPaymentHandler returns an HTTP handler for reading a payment.
// @Summary Get payment
// @Description Returns the payment of an order with its cancellations.
// @Tags payments
// @Produce json
// @Param userId path int true "User ID"
// @Param orderId path string true "Order ID"
// @Success 200 {object} models.PaymentDetails
// @Failure 403 {object} apierr.Response "PAYMENT_USER_MISMATCH"
// @Failure 404 {object} apierr.Response "PAYMENT_NOT_FOUND"
// @Router /{userId}/payments/{orderId} [get]
// @Security BearerAuth
func NewGetPaymentHandler(svc PaymentReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathUserID(w, r)
		if !ok {
			return
		}

		details, err := svc.Get(r.Context(), userID, chi.URLParam(r, "orderId"))
		if err != nil {
			apierr.WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, details)
	}
}
