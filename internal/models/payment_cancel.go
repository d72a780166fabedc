package models

import "time"

// CancelUnknown is recorded when a cancel carries no reason code.
// Reason codes are otherwise free-form.
const CancelUnknown = "UNKNOWN"

// PaymentCancelDB represents one append-only cancellation against a payment.
type PaymentCancelDB struct {
	ID            int64     `json:"id" db:"id"`
	PaymentID     int64     `json:"payment_id" db:"payment_id"`
	CancelAmount  int64     `json:"cancel_amount" db:"cancel_amount"`
	ReasonCode    string    `json:"reason_code" db:"reason_code"`
	ReasonMessage *string   `json:"reason_message,omitempty" db:"reason_message"`
	RequestID     *string   `json:"request_id,omitempty" db:"request_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
