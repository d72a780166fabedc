package handlers

//go:generate mockgen -source=wallet.go -destination=wallet_mock.go -package=handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/sbilibin2017/gw-points-wallet/internal/apierr"
	"github.com/sbilibin2017/gw-points-wallet/internal/models"
)

// WalletReader defines the read side of the wallet service.
type WalletReader interface {
	Get(ctx context.Context, userID int64) (*models.WalletSnapshot, error)
	History(ctx context.Context, userID int64, limit, offset int) ([]models.LedgerEntryDB, error)
	Reconcile(ctx context.Context, userID int64) (*models.Reconciliation, error)
}

// LedgerResponse is a page of ledger entries
// swagger:model LedgerResponse
type LedgerResponse struct {
	UserID  int64                  `json:"user_id"`
	Limit   int                    `json:"limit"`
	Offset  int                    `json:"offset"`
	Entries []models.LedgerEntryDB `json:"entries"`
}

// NewGetWalletHandler returns an HTTP handler for reading a balance.
// @Summary Get wallet
// @Description Returns the balance of the wallet; a wallet that was never charged reads as zero.
// @Tags wallet
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} models.WalletSnapshot
// @Failure 400 {object} apierr.Response "Invalid user id"
// @Router /{userId}/wallet [get]
// @Security BearerAuth
func NewGetWalletHandler(svc WalletReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathUserID(w, r)
		if !ok {
			return
		}

		snap, err := svc.Get(r.Context(), userID)
		if err != nil {
			apierr.WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, snap)
	}
}

// NewLedgerHandler returns an HTTP handler for the ledger history.
// @Summary Ledger history
// @Description Returns ledger entries newest first.
// @Tags wallet
// @Produce json
// @Param userId path int true "User ID"
// @Param limit query int false "Page size, at most 100" default(20)
// @Param offset query int false "Entries to skip" default(0)
// @Success 200 {object} handlers.LedgerResponse
// @Failure 400 {object} apierr.Response "Invalid paging"
// @Router /{userId}/wallet/ledger [get]
// @Security BearerAuth
func NewLedgerHandler(svc WalletReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathUserID(w, r)
		if !ok {
			return
		}

		limit, err1 := queryInt(r, "limit")
		offset, err2 := queryInt(r, "offset")
		if err1 != nil || err2 != nil {
			apierr.Write(w, r, http.StatusBadRequest, apierr.CodeInvalidRequest, "limit and offset must be integers", nil)
			return
		}

		entries, err := svc.History(r.Context(), userID, limit, offset)
		if err != nil {
			apierr.WriteError(w, r, err)
			return
		}
		if entries == nil {
			entries = []models.LedgerEntryDB{}
		}

		writeJSON(w, http.StatusOK, LedgerResponse{
			UserID:  userID,
			Limit:   limit,
			Offset:  offset,
			Entries: entries,
		})
	}
}

// NewReconcileHandler returns an HTTP handler comparing balance and ledger.
// @Summary Reconcile wallet
// @Description Compares the stored balance with the signed sum of the ledger.
// @Tags wallet
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} models.Reconciliation
// @Router /{userId}/wallet/reconcile [get]
// @Security BearerAuth
func NewReconcileHandler(svc WalletReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathUserID(w, r)
		if !ok {
			return
		}

		rec, err := svc.Reconcile(r.Context(), userID)
		if err != nil {
			apierr.WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, rec)
	}
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
