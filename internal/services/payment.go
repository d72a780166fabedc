package services

//go:generate mockgen -source=payment.go -destination=payment_mock.go -package=services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sbilibin2017/gw-points-wallet/internal/logger"
	"github.com/sbilibin2017/gw-points-wallet/internal/metrics"
	"github.com/sbilibin2017/gw-points-wallet/internal/models"
	"github.com/sbilibin2017/gw-points-wallet/internal/txmanager"
)

// errPaymentVanished is returned when a payment inserted in the current
// transaction cannot be read back.
var errPaymentVanished = errors.New("payment disappeared after insert")

// PaymentStore persists payments.
type PaymentStore interface {
	CreateIfAbsent(ctx context.Context, p *models.PaymentDB) (bool, error)
	LockByOrderID(ctx context.Context, orderID string) (*models.PaymentDB, error)
	GetByOrderID(ctx context.Context, orderID string) (*models.PaymentDB, error)
	Update(ctx context.Context, p *models.PaymentDB) error
}

// PaymentCancelStore persists the cancellations of a payment.
type PaymentCancelStore interface {
	Append(ctx context.Context, c *models.PaymentCancelDB) (int64, error)
	// ExistsByRequestID reports whether a cancellation of the payment was
	// recorded under requestID.
	ExistsByRequestID(ctx context.Context, paymentID int64, requestID string) (bool, error)
	ListByPayment(ctx context.Context, paymentID int64) ([]models.PaymentCancelDB, error)
}

// PointWallet is the part of the wallet the payment flow drives.
type PointWallet interface {
	DebitOnce(ctx context.Context, userID, amount int64, requestID, orderID string) (int64, bool, error)
	RefundOnce(ctx context.Context, userID, amount int64, requestID, orderID, memo string) (bool, error)
	Balance(ctx context.Context, userID int64) (int64, error)
}

// PayCommand asks to pay an order with points.
type PayCommand struct {
	UserID      int64
	OrderID     string
	TotalAmount int64
	PointAmount int64
	CashAmount  int64
	RequestID   string
}

// CancelCommand asks to return points of a captured payment.
type CancelCommand struct {
	UserID        int64
	OrderID       string
	CancelAmount  int64
	ReasonCode    string
	ReasonMessage string
	RequestID     string
}

// PaymentService drives payments through PENDING, CAPTURED and CANCELED.
// The payment row is always locked before the wallet row.
type PaymentService struct {
	tx       Transactor
	payments PaymentStore
	cancels  PaymentCancelStore
	wallet   PointWallet
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(tx Transactor, payments PaymentStore, cancels PaymentCancelStore, wallet PointWallet) *PaymentService {
	return &PaymentService{
		tx:       tx,
		payments: payments,
		cancels:  cancels,
		wallet:   wallet,
	}
}

func validatePay(cmd PayCommand) error {
	switch {
	case cmd.TotalAmount <= 0:
		return ErrInvalidTotalAmount
	case cmd.PointAmount <= 0:
		return ErrInvalidPointAmount
	case cmd.PointAmount > cmd.TotalAmount:
		return ErrPointExceedTotal
	case cmd.CashAmount != 0:
		return ErrCashAmountNotSupported
	}
	return nil
}

// Pay captures a points-only payment for an order. Paying an order that is
// already captured or canceled returns its current state without moving points.
func (s *PaymentService) Pay(ctx context.Context, cmd PayCommand) (*models.PaymentSnapshot, error) {
	if err := validatePay(cmd); err != nil {
		return nil, err
	}

	var snapshot *models.PaymentSnapshot
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if _, err := s.payments.CreateIfAbsent(ctx, &models.PaymentDB{
			UserID:      cmd.UserID,
			OrderID:     cmd.OrderID,
			Method:      models.PaymentMethodPoint,
			Status:      models.PaymentPending,
			TotalAmount: cmd.TotalAmount,
			PointAmount: cmd.PointAmount,
			CashAmount:  cmd.CashAmount,
		}); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		p, err := s.payments.LockByOrderID(ctx, cmd.OrderID)
		if err != nil {
			return fmt.Errorf("lock payment: %w", err)
		}
		if p == nil {
			return errPaymentVanished
		}
		if p.UserID != cmd.UserID {
			return ErrPaymentUserMismatch
		}

		if p.Status != models.PaymentPending {
			logger.Log.Infow("payment already settled", "order_id", p.OrderID, "status", p.Status)
			snapshot, err = s.snapshot(ctx, p)
			return err
		}

		requestKey := NormalizeRequestKey(cmd.RequestID, EndpointPay, cmd.UserID, cmd.OrderID)
		balance, replayed, err := s.wallet.DebitOnce(ctx, p.UserID, p.PointAmount, requestKey, p.OrderID)
		if err != nil {
			return err
		}
		if replayed {
			return ErrRequestIDReused
		}

		p.Status = models.PaymentCaptured
		p.LastRequestID = &requestKey
		if err := s.payments.Update(ctx, p); err != nil {
			return fmt.Errorf("update payment: %w", err)
		}

		txmanager.AfterCommit(ctx, func(context.Context) {
			logger.Log.Infow("payment captured", "order_id", p.OrderID, "user_id", p.UserID, "point_amount", p.PointAmount)
			metrics.RecordPaymentTransition(string(models.PaymentPending), string(models.PaymentCaptured))
		})

		snapshot = models.NewPaymentSnapshot(p, balance)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Cancel returns some or all points of a captured payment. The payment becomes
// CANCELED once nothing is left to return. Canceling a canceled payment, or
// repeating any earlier cancel of this payment with its request id, returns
// the current state.
func (s *PaymentService) Cancel(ctx context.Context, cmd CancelCommand) (*models.PaymentSnapshot, error) {
	var snapshot *models.PaymentSnapshot
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		p, err := s.payments.LockByOrderID(ctx, cmd.OrderID)
		if err != nil {
			return fmt.Errorf("lock payment: %w", err)
		}
		if p == nil {
			return ErrPaymentNotFound
		}
		if p.UserID != cmd.UserID {
			return ErrPaymentUserMismatch
		}

		switch p.Status {
		case models.PaymentCanceled:
			logger.Log.Infow("payment already canceled", "order_id", p.OrderID)
			snapshot, err = s.snapshot(ctx, p)
			return err
		case models.PaymentPending:
			return ErrPaymentNotCaptured
		}

		// Partial cancels share the order, so only a client key can dedupe them.
		requestKey := clientOrRandomKey(cmd.RequestID)
		if strings.TrimSpace(cmd.RequestID) != "" {
			applied, err := s.cancels.ExistsByRequestID(ctx, p.ID, requestKey)
			if err != nil {
				return fmt.Errorf("check cancel request: %w", err)
			}
			if applied {
				logger.Log.Infow("cancel already applied", "order_id", p.OrderID, "request_id", requestKey)
				snapshot, err = s.snapshot(ctx, p)
				return err
			}
		}

		if cmd.CancelAmount <= 0 {
			return ErrInvalidCancelAmount
		}
		if cmd.CancelAmount > p.PointAmount {
			return ErrExceedPointPaid
		}

		reason := cmd.ReasonCode
		if reason == "" {
			reason = models.CancelUnknown
		}

		replayed, err := s.wallet.RefundOnce(ctx, p.UserID, cmd.CancelAmount, requestKey, p.OrderID, "cancel:"+reason)
		if err != nil {
			return err
		}
		if replayed {
			return ErrRequestIDReused
		}

		var message *string
		if m := strings.TrimSpace(cmd.ReasonMessage); m != "" {
			message = &m
		}
		if _, err := s.cancels.Append(ctx, &models.PaymentCancelDB{
			PaymentID:     p.ID,
			CancelAmount:  cmd.CancelAmount,
			ReasonCode:    reason,
			ReasonMessage: message,
			RequestID:     &requestKey,
		}); err != nil {
			return fmt.Errorf("append cancel: %w", err)
		}

		p.PointAmount -= cmd.CancelAmount
		if p.PointAmount == 0 {
			p.Status = models.PaymentCanceled
		}
		p.LastRequestID = &requestKey
		if err := s.payments.Update(ctx, p); err != nil {
			return fmt.Errorf("update payment: %w", err)
		}

		status := p.Status
		remaining := p.PointAmount
		txmanager.AfterCommit(ctx, func(context.Context) {
			logger.Log.Infow("payment canceled", "order_id", p.OrderID, "cancel_amount", cmd.CancelAmount, "remaining", remaining, "reason", reason)
			metrics.RecordPaymentTransition(string(models.PaymentCaptured), string(status))
		})

		snapshot, err = s.snapshot(ctx, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Get returns a payment of the user together with its cancellations.
func (s *PaymentService) Get(ctx context.Context, userID int64, orderID string) (*models.PaymentDetails, error) {
	p, err := s.payments.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}
	if p.UserID != userID {
		return nil, ErrPaymentUserMismatch
	}

	cancels, err := s.cancels.ListByPayment(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if cancels == nil {
		cancels = []models.PaymentCancelDB{}
	}

	balance, err := s.wallet.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.PaymentDetails{
		PaymentSnapshot: *models.NewPaymentSnapshot(p, balance),
		Method:          p.Method,
		LastRequestID:   p.LastRequestID,
		Cancels:         cancels,
	}, nil
}

func (s *PaymentService) snapshot(ctx context.Context, p *models.PaymentDB) (*models.PaymentSnapshot, error) {
	balance, err := s.wallet.Balance(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return models.NewPaymentSnapshot(p, balance), nil
}
