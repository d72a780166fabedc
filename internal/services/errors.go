package services

import (
	"errors"
	"net/http"
)

// BusinessError is a rejected operation. Code is the machine-readable error
// code surfaced verbatim to clients; Status is the HTTP status it maps to.
type BusinessError struct {
	Code   string
	Status int
}

func (e *BusinessError) Error() string {
	return e.Code
}

func newBusinessError(code string, status int) *BusinessError {
	return &BusinessError{Code: code, Status: status}
}

// Payment errors
var (
	ErrInvalidTotalAmount     = newBusinessError("INVALID_TOTAL_AMOUNT", http.StatusBadRequest)
	ErrInvalidPointAmount     = newBusinessError("INVALID_POINT_AMOUNT", http.StatusBadRequest)
	ErrPointExceedTotal       = newBusinessError("POINT_EXCEED_TOTAL", http.StatusBadRequest)
	ErrCashAmountNotSupported = newBusinessError("CASH_AMOUNT_NOT_SUPPORTED", http.StatusBadRequest)
	ErrPaymentNotFound        = newBusinessError("PAYMENT_NOT_FOUND", http.StatusNotFound)
	ErrPaymentUserMismatch    = newBusinessError("PAYMENT_USER_MISMATCH", http.StatusForbidden)
	ErrPaymentNotCaptured     = newBusinessError("PAYMENT_NOT_CAPTURED", http.StatusBadRequest)
	ErrInvalidCancelAmount    = newBusinessError("INVALID_CANCEL_AMOUNT", http.StatusBadRequest)
	ErrExceedPointPaid        = newBusinessError("EXCEED_POINT_PAID", http.StatusBadRequest)
)

// Wallet errors
var (
	ErrInvalidChargeAmount = newBusinessError("INVALID_CHARGE_AMOUNT", http.StatusBadRequest)
	ErrInvalidDebitAmount  = newBusinessError("INVALID_DEBIT_AMOUNT", http.StatusBadRequest)
	ErrInvalidRefundAmount = newBusinessError("INVALID_REFUND_AMOUNT", http.StatusBadRequest)
	ErrInsufficientPoint   = newBusinessError("INSUFFICIENT_POINT", http.StatusBadRequest)
	ErrBalanceOverflow     = newBusinessError("BALANCE_OVERFLOW", http.StatusUnprocessableEntity)
	ErrWalletNotFound      = newBusinessError("WALLET_NOT_FOUND", http.StatusNotFound)
	ErrRequestIDReused     = newBusinessError("REQUEST_ID_REUSED", http.StatusConflict)
)

// AsBusinessError extracts a BusinessError from err.
func AsBusinessError(err error) (*BusinessError, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
