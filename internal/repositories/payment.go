package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-points-wallet/internal/models"
)

const paymentColumns = `id, user_id, order_id, method, status, total_amount, point_amount, cash_amount, last_request_id, created_at, updated_at`

// PaymentRepository stores one payment per order id.
type PaymentRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewPaymentRepository(db *sqlx.DB, txGetter TxGetter) *PaymentRepository {
	return &PaymentRepository{db: db, txGetter: txGetter}
}

// CreateIfAbsent inserts p unless a payment with the same order id exists.
// It reports whether a row was inserted.
func (r *PaymentRepository) CreateIfAbsent(ctx context.Context, p *models.PaymentDB) (bool, error) {
	const query = `
		INSERT INTO payments (user_id, order_id, method, status, total_amount, point_amount, cash_amount, last_request_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (order_id) DO NOTHING
	`
	args := []any{p.UserID, p.OrderID, p.Method, p.Status, p.TotalAmount, p.PointAmount, p.CashAmount, p.LastRequestID}

	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, args...)
	var rows int64
	if res != nil {
		rows, _ = res.RowsAffected()
	}
	logQuery(query, args, rows, err)

	return rows == 1, err
}

// LockByOrderID returns the payment for an order holding an exclusive row
// lock until the enclosing transaction ends, nil when absent.
func (r *PaymentRepository) LockByOrderID(ctx context.Context, orderID string) (*models.PaymentDB, error) {
	tx := transaction(ctx, r.txGetter)
	if tx == nil {
		return nil, ErrNoTransaction
	}
	return r.getByOrderID(ctx, tx, `SELECT `+paymentColumns+` FROM payments WHERE order_id = $1 FOR UPDATE`, orderID)
}

// GetByOrderID returns the payment for an order without locking, nil when absent.
func (r *PaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*models.PaymentDB, error) {
	return r.getByOrderID(ctx, executor(ctx, r.db, r.txGetter), `SELECT `+paymentColumns+` FROM payments WHERE order_id = $1`, orderID)
}

func (r *PaymentRepository) getByOrderID(ctx context.Context, q sqlx.QueryerContext, query, orderID string) (*models.PaymentDB, error) {
	var p models.PaymentDB
	err := sqlx.GetContext(ctx, q, &p, query, orderID)
	logQuery(query, []any{orderID}, p, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update persists the mutable fields of a payment: status, point amount and
// last request id.
func (r *PaymentRepository) Update(ctx context.Context, p *models.PaymentDB) error {
	const query = `
		UPDATE payments
		SET status = $1, point_amount = $2, last_request_id = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`
	args := []any{p.Status, p.PointAmount, p.LastRequestID, p.ID}

	err := executor(ctx, r.db, r.txGetter).QueryRowxContext(ctx, query, args...).Scan(&p.UpdatedAt)
	logQuery(query, args, p.UpdatedAt, err)

	return err
}
