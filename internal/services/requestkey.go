package services

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Logical endpoints recorded in the idempotency table.
const (
	EndpointCharge = "/wallet/charge"
	EndpointDebit  = "/wallet/debit"
	EndpointRefund = "/wallet/refund"
	EndpointAdjust = "/wallet/adjust"
	EndpointPay    = "/payments/pay"
	EndpointCancel = "/payments/cancel"
)

var requestKeyNamespace = uuid.MustParse("8f0e4a52-3c1b-5d7e-9a61-2b4c6d8e0f13")

// NormalizeRequestKey returns the idempotency key for a call.
//
// A client supplied requestID wins. Without one, a key is derived from the
// endpoint, user and order so that a retry for the same order maps to the
// same key. Without an order there is nothing stable to derive from and a
// random key is returned, so such calls are not deduplicated.
func NormalizeRequestKey(requestID, endpoint string, userID int64, orderID string) string {
	if id := strings.TrimSpace(requestID); id != "" || orderID == "" {
		return clientOrRandomKey(id)
	}
	name := strings.Join([]string{endpoint, strconv.FormatInt(userID, 10), orderID}, "|")
	return uuid.NewSHA1(requestKeyNamespace, []byte(name)).String()
}

// clientOrRandomKey returns requestID, or a fresh random key when it is blank.
// Used where several legitimate calls share an order, such as partial cancels.
func clientOrRandomKey(requestID string) string {
	if id := strings.TrimSpace(requestID); id != "" {
		return id
	}
	return uuid.NewString()
}
