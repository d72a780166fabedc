package models

import "time"

// LedgerType is the direction of a point movement.
type LedgerType string

// Ledger entry types
const (
	LedgerCharge LedgerType = "CHARGE"
	LedgerDebit  LedgerType = "DEBIT"
	LedgerRefund LedgerType = "REFUND"
	LedgerCancel LedgerType = "CANCEL"
)

// Sign returns +1 for movements that increase the balance and -1 otherwise.
func (t LedgerType) Sign() int64 {
	switch t {
	case LedgerCharge, LedgerRefund:
		return 1
	default:
		return -1
	}
}

// LedgerStatus is the outcome recorded for a ledger entry.
type LedgerStatus string

// Ledger entry statuses
const (
	LedgerSuccess LedgerStatus = "SUCCESS"
	LedgerFailed  LedgerStatus = "FAILED"
	LedgerPending LedgerStatus = "PENDING"
)

// LedgerEntryDB represents an immutable point_ledger row.
// Amount is always positive; the direction is implied by Type.
type LedgerEntryDB struct {
	ID        int64        `json:"id" db:"id"`
	UserID    int64        `json:"user_id" db:"user_id"`
	Type      LedgerType   `json:"type" db:"type"`
	Amount    int64        `json:"amount" db:"amount"`
	OrderID   *string      `json:"order_id,omitempty" db:"order_id"`
	RequestID *string      `json:"request_id,omitempty" db:"request_id"`
	Status    LedgerStatus `json:"status" db:"status"`
	Memo      *string      `json:"memo,omitempty" db:"memo"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}

// SignedAmount returns the balance effect of the entry.
func (e LedgerEntryDB) SignedAmount() int64 {
	return e.Type.Sign() * e.Amount
}
