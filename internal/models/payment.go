package models

import "time"

// PaymentMethod is the funding source of a payment.
type PaymentMethod string

// PaymentMethodPoint is the only supported method; mixed payments are rejected.
const PaymentMethodPoint PaymentMethod = "POINT"

// PaymentStatus is the lifecycle state of a payment.
type PaymentStatus string

// Payment statuses
const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentCaptured PaymentStatus = "CAPTURED"
	PaymentCanceled PaymentStatus = "CANCELED"
)

// PaymentDB represents a payments row. OrderID is unique.
type PaymentDB struct {
	ID            int64         `json:"id" db:"id"`
	UserID        int64         `json:"user_id" db:"user_id"`
	OrderID       string        `json:"order_id" db:"order_id"`
	Method        PaymentMethod `json:"method" db:"method"`
	Status        PaymentStatus `json:"status" db:"status"`
	TotalAmount   int64         `json:"total_amount" db:"total_amount"`
	PointAmount   int64         `json:"point_amount" db:"point_amount"` // Points still captured, decreases on cancel
	CashAmount    int64         `json:"cash_amount" db:"cash_amount"`
	LastRequestID *string       `json:"last_request_id,omitempty" db:"last_request_id"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// PaymentSnapshot is returned by pay and cancel.
type PaymentSnapshot struct {
	OrderID     string        `json:"order_id"`
	UserID      int64         `json:"user_id"`
	Status      PaymentStatus `json:"status"`
	TotalAmount int64         `json:"total_amount"`
	PointAmount int64         `json:"point_amount"`
	CashAmount  int64         `json:"cash_amount"`
	Balance     int64         `json:"balance"`
}

// NewPaymentSnapshot combines a payment with the owner's current balance.
func NewPaymentSnapshot(p *PaymentDB, balance int64) *PaymentSnapshot {
	return &PaymentSnapshot{
		OrderID:     p.OrderID,
		UserID:      p.UserID,
		Status:      p.Status,
		TotalAmount: p.TotalAmount,
		PointAmount: p.PointAmount,
		CashAmount:  p.CashAmount,
		Balance:     balance,
	}
}

// PaymentDetails is a payment snapshot together with its cancellations.
type PaymentDetails struct {
	PaymentSnapshot
	Method        PaymentMethod     `json:"method"`
	LastRequestID *string           `json:"last_request_id,omitempty"`
	Cancels       []PaymentCancelDB `json:"cancels"`
}
