package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-points-wallet/internal/models"
)

// PaymentCancelRepository is the append-only record of cancellations.
type PaymentCancelRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewPaymentCancelRepository(db *sqlx.DB, txGetter TxGetter) *PaymentCancelRepository {
	return &PaymentCancelRepository{db: db, txGetter: txGetter}
}

// Append writes a cancellation and returns its id.
func (r *PaymentCancelRepository) Append(ctx context.Context, c *models.PaymentCancelDB) (int64, error) {
	const query = `
		INSERT INTO payment_cancels (payment_id, cancel_amount, reason_code, reason_message, request_id, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`
	args := []any{c.PaymentID, c.CancelAmount, c.ReasonCode, c.ReasonMessage, c.RequestID}

	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), c, query, args...)
	logQuery(query, args, c.ID, err)
	if err != nil {
		return 0, err
	}
	return c.ID, nil
}

// ExistsByRequestID reports whether the payment has a cancellation recorded
// under requestID.
func (r *PaymentCancelRepository) ExistsByRequestID(ctx context.Context, paymentID int64, requestID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM payment_cancels WHERE payment_id = $1 AND request_id = $2)`
	args := []any{paymentID, requestID}

	var exists bool
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &exists, query, args...)
	logQuery(query, args, exists, err)

	return exists, err
}

// ListByPayment returns the cancellations of a payment, oldest first.
func (r *PaymentCancelRepository) ListByPayment(ctx context.Context, paymentID int64) ([]models.PaymentCancelDB, error) {
	const query = `
		SELECT id, payment_id, cancel_amount, reason_code, reason_message, request_id, created_at
		FROM payment_cancels
		WHERE payment_id = $1
		ORDER BY id
	`

	cancels := []models.PaymentCancelDB{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &cancels, query, paymentID)
	logQuery(query, []any{paymentID}, len(cancels), err)

	return cancels, err
}
