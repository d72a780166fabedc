package models

import "time"

// IdempotencyDB represents a completed mutating call.
// Unique on (request_key, endpoint, user_id).
type IdempotencyDB struct {
	ID           int64     `json:"id" db:"id"`
	RequestKey   string    `json:"request_key" db:"request_key"`     // Client request id or derived key
	Endpoint     string    `json:"endpoint" db:"endpoint"`           // Logical operation, e.g. /wallet/charge
	UserID       int64     `json:"user_id" db:"user_id"`             // Owner of the guarded wallet
	HTTPStatus   int       `json:"http_status" db:"http_status"`     // Status reported for the original call
	ResponseBody string    `json:"response_body" db:"response_body"` // Snapshot kept for audit only
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
