package services

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/gw-points-wallet/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentMocks struct {
	payments *MockPaymentStore
	cancels  *MockPaymentCancelStore
	wallet   *MockPointWallet
}

func newPaymentService(t *testing.T) (*PaymentService, paymentMocks) {
	ctrl := gomock.NewController(t)
	m := paymentMocks{
		payments: NewMockPaymentStore(ctrl),
		cancels:  NewMockPaymentCancelStore(ctrl),
		wallet:   NewMockPointWallet(ctrl),
	}
	return NewPaymentService(directTx{}, m.payments, m.cancels, m.wallet), m
}

func ptr(s string) *string { return &s }

func TestPaymentService_Pay_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cmd     PayCommand
		wantErr error
	}{
		{name: "zero total", cmd: PayCommand{TotalAmount: 0, PointAmount: 10}, wantErr: ErrInvalidTotalAmount},
		{name: "zero points", cmd: PayCommand{TotalAmount: 10, PointAmount: 0}, wantErr: ErrInvalidPointAmount},
		{name: "points above total", cmd: PayCommand{TotalAmount: 10, PointAmount: 11}, wantErr: ErrPointExceedTotal},
		{name: "cash portion", cmd: PayCommand{TotalAmount: 10, PointAmount: 10, CashAmount: 1}, wantErr: ErrCashAmountNotSupported},
		{name: "total checked first", cmd: PayCommand{TotalAmount: -1, PointAmount: -1, CashAmount: 5}, wantErr: ErrInvalidTotalAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newPaymentService(t)
			tt.cmd.UserID = 1
			tt.cmd.OrderID = "o1"

			_, err := svc.Pay(context.Background(), tt.cmd)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPaymentService_Pay(t *testing.T) {
	ctx := context.Background()
	svc, m := newPaymentService(t)

	cmd := PayCommand{UserID: 1, OrderID: "o1", TotalAmount: 100, PointAmount: 60, RequestID: "r2"}
	pending := &models.PaymentDB{ID: 9, UserID: 1, OrderID: "o1", Status: models.PaymentPending, TotalAmount: 100, PointAmount: 60}

	gomock.InOrder(
		m.payments.EXPECT().CreateIfAbsent(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, p *models.PaymentDB) (bool, error) {
			assert.Equal(t, models.PaymentPending, p.Status)
			assert.Equal(t, models.PaymentMethodPoint, p.Method)
			return true, nil
		}),
		m.payments.EXPECT().LockByOrderID(ctx, "o1").Return(pending, nil),
		m.wallet.EXPECT().DebitOnce(ctx, int64(1), int64(60), "r2", "o1").Return(int64(40), false, nil),
		m.payments.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, p *models.PaymentDB) error {
			assert.Equal(t, models.PaymentCaptured, p.Status)
			assert.Equal(t, "r2", *p.LastRequestID)
			return nil
		}),
	)

	snap, err := svc.Pay(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, &models.PaymentSnapshot{
		OrderID: "o1", UserID: 1, Status: models.PaymentCaptured,
		TotalAmount: 100, PointAmount: 60, Balance: 40,
	}, snap)
}

func TestPaymentService_Pay_Settled(t *testing.T) {
	ctx := context.Background()

	for _, status := range []models.PaymentStatus{models.PaymentCaptured, models.PaymentCanceled} {
		t.Run(string(status), func(t *testing.T) {
			svc, m := newPaymentService(t)
			existing := &models.PaymentDB{ID: 9, UserID: 1, OrderID: "o1", Status: status, TotalAmount: 100, PointAmount: 60}

			m.payments.EXPECT().CreateIfAbsent(ctx, gomock.Any()).Return(false, nil)
			m.payments.EXPECT().LockByOrderID(ctx, "o1").Return(existing, nil)
			m.wallet.EXPECT().Balance(ctx, int64(1)).Return(int64(40), nil)

			snap, err := svc.Pay(ctx, PayCommand{UserID: 1, OrderID: "o1", TotalAmount: 100, PointAmount: 60})

			require.NoError(t, err)
			assert.Equal(t, status, snap.Status)
			assert.Equal(t, int64(40), snap.Balance)
		})
	}
}

func TestPaymentService_Pay_Errors(t *testing.T) {
	ctx := context.Background()
	cmd := PayCommand{UserID: 1, OrderID: "o1", TotalAmount: 100, PointAmount: 60, RequestID: "r2"}

	tests := []struct {
		name    string
		setup   func(m paymentMocks)
		wantErr error
	}{
		{
			name: "order owned by another user",
			setup: func(m paymentMocks) {
				m.payments.EXPECT().CreateIfAbsent(ctx, gomock.Any()).Return(false, nil)
				m.payments.EXPECT().LockByOrderID(ctx, "o1").Return(&models.PaymentDB{UserID: 2, OrderID: "o1", Status: models.PaymentCaptured}, nil)
			},
			wantErr: ErrPaymentUserMismatch,
		},
		{
			name: "insufficient points",
			setup: func(m paymentMocks) {
				m.payments.EXPECT().CreateIfAbsent(ctx, gomock.Any()).Return(true, nil)
				m.payments.EXPECT().LockByOrderID(ctx, "o1").Return(&models.PaymentDB{UserID: 1, OrderID: "o1", Status: models.PaymentPending, PointAmount: 60}, nil)
				m.wallet.EXPECT().DebitOnce(ctx, int64(1), int64(60), "r2", "o1").Return(int64(0), false, ErrInsufficientPoint)
			},
			wantErr: ErrInsufficientPoint,
		},
		{
			name: "request id already used elsewhere",
			setup: func(m paymentMocks) {
				m.payments.EXPECT().CreateIfAbsent(ctx, gomock.Any()).Return(true, nil)
				m.payments.EXPECT().LockByOrderID(ctx, "o1").Return(&models.PaymentDB{UserID: 1, OrderID: "o1", Status: models.PaymentPending, PointAmount: 60}, nil)
				m.wallet.EXPECT().DebitOnce(ctx, int64(1), int64(60), "r2", "o1").Return(int64(100), true, nil)
			},
			wantErr: ErrRequestIDReused,
		},
		{
			name: "payment vanished",
			setup: func(m paymentMocks) {
				m.payments.EXPECT().CreateIfAbsent(ctx, gomock.Any()).Return(true, nil)
				m.payments.EXPECT().LockByOrderID(ctx, "o1").Return(nil, nil)
			},
			wantErr: errPaymentVanished,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newPaymentService(t)
			tt.setup(m)

			_, err := svc.Pay(ctx, cmd)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPaymentService_Cancel_Rejections(t *testing.T) {
	ctx := context.Background()
	captured := func() *models.PaymentDB {
		return &models.PaymentDB{ID: 9, UserID: 1, OrderID: "o1", Status: models.PaymentCaptured, TotalAmount: 100, PointAmount: 60}
	}

	tests := []struct {
		name    string
		amount  int64
		payment *models.PaymentDB
		wantErr error
	}{
		{name: "not found", amount: 10, payment: nil, wantErr: ErrPaymentNotFound},
		{name: "other user", amount: 10, payment: &models.PaymentDB{UserID: 2, Status: models.PaymentCaptured}, wantErr: ErrPaymentUserMismatch},
		{name: "pending", amount: 10, payment: &models.PaymentDB{UserID: 1, Status: models.PaymentPending}, wantErr: ErrPaymentNotCaptured},
		{name: "zero amount", amount: 0, payment: captured(), wantErr: ErrInvalidCancelAmount},
		{name: "above remaining", amount: 61, payment: captured(), wantErr: ErrExceedPointPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newPaymentService(t)
			m.payments.EXPECT().LockByOrderID(ctx, "o1").Return(tt.payment, nil)

			_, err := svc.Cancel(ctx, CancelCommand{UserID: 1, OrderID: "o1", CancelAmount: tt.amount})

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPaymentService_Cancel_AlreadyCanceled(t *testing.T) {
	ctx := context.Background()
	svc, m := newPaymentService(t)

	m.payments.EXPECT().LockByOrderID(ctx, "o1").Return(&models.PaymentDB{ID: 9, UserID: 1, OrderID: "o1", Status: models.PaymentCanceled}, nil)
	m.wallet.EXPECT().Balance(ctx, int64(1)).Return(int64(100), nil)

	snap, err := svc.Cancel(ctx, CancelCommand{UserID: 1, OrderID: "o1", CancelAmount: 999})

	require.NoError(t, err)
	assert.Equal(t, models.PaymentCanceled, snap.Status)
	assert.Equal(t, int64(100), snap.Balance)
}

func TestPaymentService_Cancel_Partial(t *testing.T) {
	ctx := context.Background()
	svc, m := newPaymentService(t)

	p := &models.PaymentDB{ID: 9, UserID: 1, OrderID: "o1", Status: models.PaymentCaptured, TotalAmount: 100, PointAmount: 60}

	gomock.InOrder(
		m.payments.EXPECT().LockByOrderID(ctx, "o1").Return(p, nil),
		m.cancels.EXPECT().ExistsByRequestID(ctx, int64(9), "c1").Return(false, nil),
		m.wallet.EXPECT().RefundOnce(ctx, int64(1), int64(20), "c1", "o1", "cancel:USER_REQUEST").Return(false, nil),
		m.cancels.EXPECT().Append(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, c *models.PaymentCancelDB) (int64, error) {
			assert.Equal(t, int64(9), c.PaymentID)
			assert.Equal(t, int64(20), c.CancelAmount)
			assert.Equal(t, "USER_REQUEST", c.ReasonCode)
			require.NotNil(t, c.ReasonMessage)
			assert.Equal(t, "changed mind", *c.ReasonMessage)
			require.NotNil(t, c.RequestID)
			assert.Equal(t, "c1", *c.RequestID)
			return 1, nil
		}),
		m.payments.EXPECT().Update(ctx, p).Return(nil),
		m.wallet.EXPECT().Balance(ctx, int64(1)).Return(int64(60), nil),
	)

	snap, err := svc.Cancel(ctx, CancelCommand{
		UserID: 1, OrderID: "o1", CancelAmount: 20,
		ReasonCode: "USER_REQUEST", ReasonMessage: "changed mind", RequestID: "c1",
	})

	require.NoError(t, err)
	assert.Equal(t, models.PaymentCaptured, snap.Status)
	assert.Equal(t, int64(40), snap.PointAmount)
	assert.Equal(t, int64(60), snap.Balance)
	assert.Equal(t, "c1", *p.LastRequestID)
}

func TestPaymentService_Cancel_FullDefaultsReason(t *testing.T) {
	ctx := context.Background()
	svc, m := newPaymentService(t)

	p := &models.PaymentDB{ID: 9, UserID: 1, OrderID: "o1", Status: models.PaymentCaptured, TotalAmount: 100, PointAmount: 40}

	m.payments.EXPECT().LockByOrderID(ctx, "o1").Return(p, nil)
	var refundKey string
	m.wallet.EXPECT().RefundOnce(ctx, int64(1), int64(40), gomock.Any(), "o1", "cancel:UNKNOWN").
		DoAndReturn(func(_ context.Context, _, _ int64, requestID, _, _ string) (bool, error) {
			refundKey = requestID
			return false, nil
		})
	m.cancels.EXPECT().Append(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, c *models.PaymentCancelDB) (int64, error) {
		assert.Equal(t, "UNKNOWN", c.ReasonCode)
		assert.Nil(t, c.ReasonMessage)
		require.NotNil(t, c.RequestID)
		assert.Equal(t, refundKey, *c.RequestID)
		return 2, nil
	})
	m.payments.EXPECT().Update(ctx, p).Return(nil)
	m.wallet.EXPECT().Balance(ctx, int64(1)).Return(int64(100), nil)

	snap, err := svc.Cancel(ctx, CancelCommand{UserID: 1, OrderID: "o1", CancelAmount: 40})

	require.NoError(t, err)
	assert.Equal(t, models.PaymentCanceled, snap.Status)
	assert.Equal(t, int64(0), snap.PointAmount)
	assert.NotEmpty(t, refundKey)
	assert.Equal(t, refundKey, *p.LastRequestID)
}

func TestPaymentService_Cancel_Replay(t *testing.T) {
	ctx := context.Background()

	t.Run("retry of the last applied cancel", func(t *testing.T) {
		svc, m := newPaymentService(t)
		p := &models.PaymentDB{ID: 9, UserID: 1, OrderID: "o1", Status: models.PaymentCaptured, PointAmount: 40, LastRequestID: ptr("c1")}

		m.payments.EXPECT().LockByOrderID(ctx, "o1").Return(p, nil)
		m.cancels.EXPECT().ExistsByRequestID(ctx, int64(9), "c1").Return(true, nil)
		m.wallet.EXPECT().Balance(ctx, int64(1)).Return(int64(60), nil)

		snap, err := svc.Cancel(ctx, CancelCommand{UserID: 1, OrderID: "o1", CancelAmount: 20, RequestID: "c1"})

		require.NoError(t, err)
		assert.Equal(t, int64(40), snap.PointAmount)
	})

	t.Run("retry of an earlier cancel larger than what remains", func(t *testing.T) {
		svc, m := newPaymentService(t)
		p := &models.PaymentDB{ID: 9, UserID: 1, OrderID: "o1", Status: models.PaymentCaptured, PointAmount: 20, LastRequestID: ptr("c2")}

		m.payments.EXPECT().LockByOrderID(ctx, "o1").Return(p, nil)
		m.cancels.EXPECT().ExistsByRequestID(ctx, int64(9), "c1").Return(true, nil)
		m.wallet.EXPECT().Balance(ctx, int64(1)).Return(int64(80), nil)

		snap, err := svc.Cancel(ctx, CancelCommand{UserID: 1, OrderID: "o1", CancelAmount: 60, RequestID: "c1"})

		require.NoError(t, err)
		assert.Equal(t, int64(20), snap.PointAmount)
		assert.Equal(t, "c2", *p.LastRequestID)
	})

	t.Run("request id used by another operation", func(t *testing.T) {
		svc, m := newPaymentService(t)
		p := &models.PaymentDB{ID: 9, UserID: 1, OrderID: "o1", Status: models.PaymentCaptured, PointAmount: 40, LastRequestID: ptr("r2")}

		m.payments.EXPECT().LockByOrderID(ctx, "o1").Return(p, nil)
		m.cancels.EXPECT().ExistsByRequestID(ctx, int64(9), "x").Return(false, nil)
		m.wallet.EXPECT().RefundOnce(ctx, int64(1), int64(20), "x", "o1", "cancel:UNKNOWN").Return(true, nil)

		_, err := svc.Cancel(ctx, CancelCommand{UserID: 1, OrderID: "o1", CancelAmount: 20, RequestID: "x"})

		assert.ErrorIs(t, err, ErrRequestIDReused)
	})

	t.Run("lookup failure", func(t *testing.T) {
		svc, m := newPaymentService(t)
		p := &models.PaymentDB{ID: 9, UserID: 1, OrderID: "o1", Status: models.PaymentCaptured, PointAmount: 40}

		m.payments.EXPECT().LockByOrderID(ctx, "o1").Return(p, nil)
		m.cancels.EXPECT().ExistsByRequestID(ctx, int64(9), "x").Return(false, errors.New("db down"))

		_, err := svc.Cancel(ctx, CancelCommand{UserID: 1, OrderID: "o1", CancelAmount: 20, RequestID: "x"})

		assert.EqualError(t, err, "check cancel request: db down")
	})
}

func TestPaymentService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		svc, m := newPaymentService(t)
		p := &models.PaymentDB{ID: 9, UserID: 1, OrderID: "o1", Method: models.PaymentMethodPoint, Status: models.PaymentCaptured, PointAmount: 40}
		m.payments.EXPECT().GetByOrderID(ctx, "o1").Return(p, nil)
		m.cancels.EXPECT().ListByPayment(ctx, int64(9)).Return(nil, nil)
		m.wallet.EXPECT().Balance(ctx, int64(1)).Return(int64(60), nil)

		details, err := svc.Get(ctx, 1, "o1")

		require.NoError(t, err)
		assert.Equal(t, models.PaymentMethodPoint, details.Method)
		assert.Equal(t, int64(60), details.Balance)
		assert.NotNil(t, details.Cancels)
	})

	t.Run("not found", func(t *testing.T) {
		svc, m := newPaymentService(t)
		m.payments.EXPECT().GetByOrderID(ctx, "o1").Return(nil, nil)

		_, err := svc.Get(ctx, 1, "o1")

		assert.ErrorIs(t, err, ErrPaymentNotFound)
		assert.True(t, IsNotFound(err))
	})

	t.Run("other user", func(t *testing.T) {
		svc, m := newPaymentService(t)
		m.payments.EXPECT().GetByOrderID(ctx, "o1").Return(&models.PaymentDB{UserID: 2}, nil)

		_, err := svc.Get(ctx, 1, "o1")

		assert.ErrorIs(t, err, ErrPaymentUserMismatch)
	})

	t.Run("store error", func(t *testing.T) {
		svc, m := newPaymentService(t)
		m.payments.EXPECT().GetByOrderID(ctx, "o1").Return(nil, errors.New("db down"))

		_, err := svc.Get(ctx, 1, "o1")

		assert.EqualError(t, err, "db down")
	})
}
