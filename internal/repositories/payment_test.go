package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sbilibin2017/gw-points-wallet/internal/models"
	"github.com/sbilibin2017/gw-points-wallet/internal/txmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var paymentRowColumns = []string{"id", "user_id", "order_id", "method", "status", "total_amount", "point_amount", "cash_amount", "last_request_id", "created_at", "updated_at"}

func TestPaymentRepository_CreateIfAbsent(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPaymentRepository(db, txmanager.GetTx)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (order_id) DO NOTHING")).
		WithArgs(1, "O1", "POINT", "PENDING", 500, 500, 0, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (order_id) DO NOTHING")).
		WithArgs(1, "O1", "POINT", "PENDING", 500, 500, 0, nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	p := &models.PaymentDB{UserID: 1, OrderID: "O1", Method: models.PaymentMethodPoint, Status: models.PaymentPending, TotalAmount: 500, PointAmount: 500}

	created, err := repo.CreateIfAbsent(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateIfAbsent(context.Background(), p)
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_LockByOrderID(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPaymentRepository(db, txmanager.GetTx)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM payments WHERE order_id = $1 FOR UPDATE")).
		WithArgs("O1").
		WillReturnRows(sqlmock.NewRows(paymentRowColumns).AddRow(5, 1, "O1", "POINT", "PENDING", 500, 500, 0, nil, now, now))
	mock.ExpectCommit()

	err := inTx(t, db, func(ctx context.Context) error {
		p, err := repo.LockByOrderID(ctx, "O1")
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, int64(5), p.ID)
		assert.Equal(t, models.PaymentPending, p.Status)
		assert.Nil(t, p.LastRequestID)
		return nil
	})
	require.NoError(t, err)

	_, err = repo.LockByOrderID(context.Background(), "O1")
	assert.ErrorIs(t, err, ErrNoTransaction)
}

func TestPaymentRepository_GetByOrderID_NotFound(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPaymentRepository(db, txmanager.GetTx)

	mock.ExpectQuery(regexp.QuoteMeta("FROM payments WHERE order_id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(paymentRowColumns))

	p, err := repo.GetByOrderID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestPaymentRepository_Update(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPaymentRepository(db, txmanager.GetTx)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE payments SET status = $1, point_amount = $2, last_request_id = $3, updated_at = NOW() WHERE id = $4 RETURNING updated_at")).
		WithArgs("CAPTURED", 300, "r3", 5).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

	requestID := "r3"
	p := &models.PaymentDB{ID: 5, Status: models.PaymentCaptured, PointAmount: 300, LastRequestID: &requestID}
	require.NoError(t, repo.Update(context.Background(), p))
	assert.Equal(t, now.Unix(), p.UpdatedAt.Unix())
}

func TestPaymentCancelRepository(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPaymentCancelRepository(db, txmanager.GetTx)
	now := time.Now()
	msg := "changed my mind"

	requestID := "c-1"

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO payment_cancels (payment_id, cancel_amount, reason_code, reason_message, request_id, created_at)")).
		WithArgs(5, 40, "USER_REQUEST", msg, requestID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM payment_cancels WHERE payment_id = $1 AND request_id = $2)")).
		WithArgs(5, "c-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM payment_cancels WHERE payment_id = $1 AND request_id = $2)")).
		WithArgs(6, "c-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(regexp.QuoteMeta("FROM payment_cancels WHERE payment_id = $1 ORDER BY id")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "payment_id", "cancel_amount", "reason_code", "reason_message", "request_id", "created_at"}).
			AddRow(1, 5, 40, "USER_REQUEST", msg, requestID, now))

	id, err := repo.Append(context.Background(), &models.PaymentCancelDB{PaymentID: 5, CancelAmount: 40, ReasonCode: "USER_REQUEST", ReasonMessage: &msg, RequestID: &requestID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	exists, err := repo.ExistsByRequestID(context.Background(), 5, "c-1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByRequestID(context.Background(), 6, "c-1")
	require.NoError(t, err)
	assert.False(t, exists)

	cancels, err := repo.ListByPayment(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, cancels, 1)
	assert.Equal(t, int64(40), cancels[0].CancelAmount)
	require.NotNil(t, cancels[0].RequestID)
	assert.Equal(t, "c-1", *cancels[0].RequestID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
