package handlers

//go:generate mockgen -source=adjust.go -destination=adjust_mock.go -package=handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/gw-points-wallet/internal/apierr"
	"github.com/sbilibin2017/gw-points-wallet/internal/logger"
	"github.com/sbilibin2017/gw-points-wallet/internal/models"
)

// Adjuster defines the interface that the service must implement.
type Adjuster interface {
	ManualAdjust(ctx context.Context, userID, delta int64, requestID, memo string) (*models.WalletSnapshot, error)
}

// AdjustRequest represents the JSON body for an operator correction
// swagger:model AdjustRequest
type AdjustRequest struct {
	// Signed number of points; negative removes points
	// required: true
	// default: -100
	Delta int64 `json:"delta"`

	// Free-form reason stored on the ledger entry
	Memo string `json:"memo" validate:"omitempty,max=255"`

	// Idempotency key; X-Idempotency-Key is used when empty
	RequestID string `json:"request_id" validate:"omitempty,max=120"`
}

// NewAdjustHandler returns an HTTP handler for manual balance corrections.
// @Summary Adjust balance
// @Description Applies a signed correction in one step. Positive deltas are recorded as CHARGE and negative ones as DEBIT. A zero delta returns the current balance.
// @Tags wallet
// @Accept json
// @Produce json
// @Param userId path int true "User ID"
// @Param X-Idempotency-Key header string false "Request id when the body has none"
// @Param request body handlers.AdjustRequest true "Adjust Request"
// @Success 200 {object} models.WalletSnapshot
// @Failure 400 {object} apierr.Response "INSUFFICIENT_POINT"
// @Failure 422 {object} apierr.Response "BALANCE_OVERFLOW"
// @Failure 404 {object} apierr.Response "WALLET_NOT_FOUND"
// @Router /{userId}/wallet/adjust [post]
// @Security BearerAuth
func NewAdjustHandler(svc Adjuster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, ok := pathUserID(w, r)
		if !ok {
			return
		}

		var req AdjustRequest
		if !decodeBody(w, r, &req) {
			return
		}

		reqID, ok := requestID(w, r, req.RequestID)
		if !ok {
			return
		}

		snap, err := svc.ManualAdjust(ctx, userID, req.Delta, reqID, req.Memo)
		if err != nil {
			logger.Log.Warnw("failed to adjust balance", "user_id", userID, "delta", req.Delta, "error", err)
			apierr.WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, snap)
	}
}
