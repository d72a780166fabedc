package models

import "time"

// WalletDB represents a point wallet row in the database
type WalletDB struct {
	ID        int64     `json:"id" db:"id"`                 // Surrogate key
	UserID    int64     `json:"user_id" db:"user_id"`       // Owner of the wallet, unique
	Balance   int64     `json:"balance" db:"balance"`       // Current point balance, never negative
	Version   int64     `json:"version" db:"version"`       // Incremented on every balance write
	CreatedAt time.Time `json:"created_at" db:"created_at"` // Timestamp when the wallet was created
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // Timestamp of the last balance write
}

// WalletSnapshot is the externally visible state of a wallet.
type WalletSnapshot struct {
	UserID  int64 `json:"user_id"`
	Balance int64 `json:"balance"`
}

// Reconciliation compares the wallet balance with the signed sum of its ledger.
type Reconciliation struct {
	UserID     int64 `json:"user_id"`
	Balance    int64 `json:"balance"`
	LedgerSum  int64 `json:"ledger_sum"`
	Consistent bool  `json:"consistent"`
}
