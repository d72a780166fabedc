package models

// LedgerEvent is published to Kafka after a wallet mutation commits.
type LedgerEvent struct {
	EventID   string     `json:"event_id"`   // EventID is a unique identifier of the event.
	Timestamp int64      `json:"timestamp"`  // Timestamp is the Unix time (seconds) the mutation committed.
	UserID    int64      `json:"user_id"`    // UserID is the owner of the wallet.
	Type      LedgerType `json:"type"`       // Type is the ledger direction, e.g. CHARGE or DEBIT.
	Amount    int64      `json:"amount"`     // Amount is the positive number of points moved.
	Balance   int64      `json:"balance"`    // Balance is the wallet balance after the mutation.
	OrderID   string     `json:"order_id"`   // OrderID is the business key, may be empty.
	RequestID string     `json:"request_id"` // RequestID is the idempotency key the mutation ran under.
}
