package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-points-wallet/internal/models"
)

// IdempotencyRepository records completed mutating calls keyed by
// (request_key, endpoint, user_id).
type IdempotencyRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewIdempotencyRepository(db *sqlx.DB, txGetter TxGetter) *IdempotencyRepository {
	return &IdempotencyRepository{db: db, txGetter: txGetter}
}

// Exists reports whether the call identified by the key triple already completed.
func (r *IdempotencyRepository) Exists(ctx context.Context, requestKey, endpoint string, userID int64) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM idempotency
			WHERE request_key = $1 AND endpoint = $2 AND user_id = $3
		)
	`

	var exists bool
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &exists, query, requestKey, endpoint, userID)
	logQuery(query, []any{requestKey, endpoint, userID}, exists, err)

	return exists, err
}

// Save records a completed call. A second record for the same key triple
// yields ErrIdempotencyConflict.
func (r *IdempotencyRepository) Save(ctx context.Context, rec *models.IdempotencyDB) error {
	const query = `
		INSERT INTO idempotency (request_key, endpoint, user_id, http_status, response_body, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`
	args := []any{rec.RequestKey, rec.Endpoint, rec.UserID, rec.HTTPStatus, rec.ResponseBody}

	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), rec, query, args...)
	logQuery(query, args, rec.ID, err)

	if isUniqueViolation(err) {
		return ErrIdempotencyConflict
	}
	return err
}
