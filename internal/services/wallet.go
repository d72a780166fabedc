package services

//go:generate mockgen -source=wallet.go -destination=wallet_mock.go -package=services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-points-wallet/internal/logger"
	"github.com/sbilibin2017/gw-points-wallet/internal/metrics"
	"github.com/sbilibin2017/gw-points-wallet/internal/models"
	"github.com/sbilibin2017/gw-points-wallet/internal/txmanager"
	"github.com/segmentio/kafka-go"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// Transactor runs a function inside a database transaction.
type Transactor interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error // Commits when fn returns nil
}

// WalletStore reads and writes wallet balances.
type WalletStore interface {
	// Get returns nil for a missing wallet.
	Get(ctx context.Context, userID int64) (*models.WalletDB, error)
	// GetBalance returns 0 for a missing wallet.
	GetBalance(ctx context.Context, userID int64) (int64, error)
	// LockForUpdate locks the wallet row until the transaction ends.
	LockForUpdate(ctx context.Context, userID int64, create bool) (*models.WalletDB, bool, error)
	SetBalance(ctx context.Context, wallet *models.WalletDB, newBalance int64) error
}

// LedgerStore appends and reads ledger entries.
type LedgerStore interface {
	Append(ctx context.Context, entry *models.LedgerEntryDB) (int64, error)
	// ListByUser returns entries newest first.
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]models.LedgerEntryDB, error)
	// SumSignedByUser returns the signed sum of SUCCESS entries.
	SumSignedByUser(ctx context.Context, userID int64) (int64, error)
}

// IdempotencyGuard records completed mutating calls.
type IdempotencyGuard interface {
	Exists(ctx context.Context, requestKey, endpoint string, userID int64) (bool, error)
	Save(ctx context.Context, rec *models.IdempotencyDB) error
}

// BalanceCache caches wallet balances for reads. A miss is not an error.
type BalanceCache interface {
	GetBalance(ctx context.Context, userID int64) (int64, bool, error)
	// SetBalance stores balance unless the cache already holds the same or a
	// newer wallet version.
	SetBalance(ctx context.Context, userID, balance, version int64) error
	Invalidate(ctx context.Context, userID int64) error
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// WalletService moves points in and out of wallets. Every mutation locks the
// wallet, consults the idempotency guard, writes the new balance, appends a
// ledger entry and records the request key in a single transaction.
type WalletService struct {
	tx          Transactor
	wallets     WalletStore
	ledger      LedgerStore
	guard       IdempotencyGuard
	cache       BalanceCache
	kafkaWriter KafkaWriter
}

// NewWalletService creates a new WalletService. cache and kafkaWriter may be nil.
func NewWalletService(
	tx Transactor,
	wallets WalletStore,
	ledger LedgerStore,
	guard IdempotencyGuard,
	cache BalanceCache,
	kafkaWriter KafkaWriter,
) *WalletService {
	return &WalletService{
		tx:          tx,
		wallets:     wallets,
		ledger:      ledger,
		guard:       guard,
		cache:       cache,
		kafkaWriter: kafkaWriter,
	}
}

// mutation describes one balance change.
type mutation struct {
	endpoint   string
	ledgerType models.LedgerType
	userID     int64
	amount     int64
	requestKey string
	orderID    string
	memo       string
	create     bool
	invalid    error
}

// mutationResult is the wallet state after a mutation or its replay.
type mutationResult struct {
	snapshot *models.WalletSnapshot
	replayed bool
}

func (s *WalletService) mutate(ctx context.Context, m mutation) (*mutationResult, error) {
	if m.amount <= 0 {
		return nil, m.invalid
	}

	var res *mutationResult
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		wallet, created, err := s.wallets.LockForUpdate(ctx, m.userID, m.create)
		if err != nil {
			return fmt.Errorf("lock wallet: %w", err)
		}
		if wallet == nil {
			return ErrWalletNotFound
		}
		if created {
			logger.Log.Infow("wallet created", "user_id", m.userID)
		}

		done, err := s.guard.Exists(ctx, m.requestKey, m.endpoint, m.userID)
		if err != nil {
			return fmt.Errorf("check request key: %w", err)
		}
		if done {
			logger.Log.Infow("request already processed", "endpoint", m.endpoint, "user_id", m.userID, "request_id", m.requestKey)
			txmanager.AfterCommit(ctx, func(context.Context) { metrics.RecordReplay(m.endpoint) })
			res = &mutationResult{
				snapshot: &models.WalletSnapshot{UserID: m.userID, Balance: wallet.Balance},
				replayed: true,
			}
			return nil
		}

		sign := m.ledgerType.Sign()
		if sign > 0 && m.amount > math.MaxInt64-wallet.Balance {
			return ErrBalanceOverflow
		}
		newBalance := wallet.Balance + sign*m.amount
		if newBalance < 0 {
			return ErrInsufficientPoint
		}
		if err := s.wallets.SetBalance(ctx, wallet, newBalance); err != nil {
			return err
		}

		entry := &models.LedgerEntryDB{
			UserID:    m.userID,
			Type:      m.ledgerType,
			Amount:    m.amount,
			OrderID:   optional(m.orderID),
			RequestID: optional(m.requestKey),
			Status:    models.LedgerSuccess,
			Memo:      optional(m.memo),
		}
		if _, err := s.ledger.Append(ctx, entry); err != nil {
			return fmt.Errorf("append ledger entry: %w", err)
		}

		snapshot := &models.WalletSnapshot{UserID: m.userID, Balance: newBalance}
		body, err := json.Marshal(snapshot)
		if err != nil {
			return err
		}
		if err := s.guard.Save(ctx, &models.IdempotencyDB{
			RequestKey:   m.requestKey,
			Endpoint:     m.endpoint,
			UserID:       m.userID,
			HTTPStatus:   http.StatusOK,
			ResponseBody: string(body),
		}); err != nil {
			return fmt.Errorf("save request key: %w", err)
		}

		version := wallet.Version
		txmanager.AfterCommit(ctx, func(ctx context.Context) {
			s.afterMutation(ctx, m, newBalance, version)
		})

		res = &mutationResult{snapshot: snapshot}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// afterMutation runs once the mutation is durable.
func (s *WalletService) afterMutation(ctx context.Context, m mutation, balance, version int64) {
	logger.Log.Infow("wallet mutated",
		"type", m.ledgerType, "user_id", m.userID, "amount", m.amount,
		"balance", balance, "order_id", m.orderID, "request_id", m.requestKey,
	)
	metrics.RecordWalletMutation(string(m.ledgerType), m.amount)

	if s.cache != nil {
		if err := s.cache.SetBalance(ctx, m.userID, balance, version); err != nil {
			logger.Log.Warnw("failed to cache balance", "user_id", m.userID, "version", version, "error", err)
			if err := s.cache.Invalidate(ctx, m.userID); err != nil {
				logger.Log.Warnw("failed to invalidate cached balance", "user_id", m.userID, "error", err)
			}
		}
	}

	s.publishEvent(ctx, models.LedgerEvent{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().Unix(),
		UserID:    m.userID,
		Type:      m.ledgerType,
		Amount:    m.amount,
		Balance:   balance,
		OrderID:   m.orderID,
		RequestID: m.requestKey,
	})
}

// publishEvent publishes a ledger event to Kafka keyed by user id.
func (s *WalletService) publishEvent(ctx context.Context, event models.LedgerEvent) {
	if s.kafkaWriter == nil {
		logger.Log.Debugw("Kafka writer not configured, skipping publishing", "event_id", event.EventID)
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal ledger event for Kafka", "event_id", event.EventID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.UserID, 10)),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish ledger event to Kafka", "event_id", event.EventID, "error", err)
	} else {
		logger.Log.Infow("Ledger event published to Kafka", "event_id", event.EventID, "type", event.Type, "amount", event.Amount)
	}
}

// Charge adds points to a wallet, creating it on first use.
func (s *WalletService) Charge(ctx context.Context, userID, amount int64, requestID, orderID string) (*models.WalletSnapshot, error) {
	res, err := s.mutate(ctx, mutation{
		endpoint:   EndpointCharge,
		ledgerType: models.LedgerCharge,
		userID:     userID,
		amount:     amount,
		requestKey: NormalizeRequestKey(requestID, EndpointCharge, userID, orderID),
		orderID:    orderID,
		memo:       "charge",
		create:     true,
		invalid:    ErrInvalidChargeAmount,
	})
	if err != nil {
		return nil, err
	}
	return res.snapshot, nil
}

// Debit removes points from an existing wallet and returns the new balance.
func (s *WalletService) Debit(ctx context.Context, userID, amount int64, requestID, orderID string) (int64, error) {
	balance, _, err := s.DebitOnce(ctx, userID, amount, requestID, orderID)
	return balance, err
}

// DebitOnce is Debit that also reports whether requestID had already been
// processed, in which case nothing was deducted.
func (s *WalletService) DebitOnce(ctx context.Context, userID, amount int64, requestID, orderID string) (int64, bool, error) {
	res, err := s.mutate(ctx, mutation{
		endpoint:   EndpointDebit,
		ledgerType: models.LedgerDebit,
		userID:     userID,
		amount:     amount,
		requestKey: NormalizeRequestKey(requestID, EndpointDebit, userID, orderID),
		orderID:    orderID,
		memo:       "debit",
		invalid:    ErrInvalidDebitAmount,
	})
	if err != nil {
		return 0, false, err
	}
	return res.snapshot.Balance, res.replayed, nil
}

// Refund returns points to an existing wallet.
func (s *WalletService) Refund(ctx context.Context, userID, amount int64, requestID, orderID, memo string) error {
	_, err := s.RefundOnce(ctx, userID, amount, requestID, orderID, memo)
	return err
}

// RefundOnce is Refund that also reports whether requestID had already been
// processed, in which case nothing was returned.
func (s *WalletService) RefundOnce(ctx context.Context, userID, amount int64, requestID, orderID, memo string) (bool, error) {
	if memo == "" {
		memo = "refund"
	}
	res, err := s.mutate(ctx, mutation{
		endpoint:   EndpointRefund,
		ledgerType: models.LedgerRefund,
		userID:     userID,
		amount:     amount,
		requestKey: NormalizeRequestKey(requestID, EndpointRefund, userID, orderID),
		orderID:    orderID,
		memo:       memo,
		invalid:    ErrInvalidRefundAmount,
	})
	if err != nil {
		return false, err
	}
	return res.replayed, nil
}

// ManualAdjust applies a signed correction as one atomic mutation. A positive
// delta is recorded as a CHARGE, a negative one as a DEBIT and zero returns the
// current state without writing anything.
func (s *WalletService) ManualAdjust(ctx context.Context, userID, delta int64, requestID, memo string) (*models.WalletSnapshot, error) {
	if delta == 0 {
		balance, err := s.wallets.GetBalance(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &models.WalletSnapshot{UserID: userID, Balance: balance}, nil
	}
	if memo == "" {
		memo = "adjust"
	}

	m := mutation{
		endpoint:   EndpointAdjust,
		ledgerType: models.LedgerCharge,
		userID:     userID,
		amount:     delta,
		requestKey: NormalizeRequestKey(requestID, EndpointAdjust, userID, ""),
		memo:       memo,
		create:     true,
		invalid:    ErrInvalidChargeAmount,
	}
	if delta < 0 {
		m.ledgerType = models.LedgerDebit
		m.amount = -delta
		m.create = false
		m.invalid = ErrInvalidDebitAmount
	}

	res, err := s.mutate(ctx, m)
	if err != nil {
		return nil, err
	}
	return res.snapshot, nil
}

// Balance reads the authoritative balance, joining a transaction carried by ctx.
func (s *WalletService) Balance(ctx context.Context, userID int64) (int64, error) {
	return s.wallets.GetBalance(ctx, userID)
}

// Get returns the wallet state, served from the cache when possible.
// A missing wallet reads as a zero balance. The cache is filled with the
// version read here, so a fill racing a newer mutation is discarded.
func (s *WalletService) Get(ctx context.Context, userID int64) (*models.WalletSnapshot, error) {
	if s.cache != nil {
		balance, found, err := s.cache.GetBalance(ctx, userID)
		if err != nil {
			logger.Log.Warnw("failed to read cached balance", "user_id", userID, "error", err)
		} else if found {
			return &models.WalletSnapshot{UserID: userID, Balance: balance}, nil
		}
	}

	wallet, err := s.wallets.Get(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get wallet", "user_id", userID, "error", err)
		return nil, err
	}
	var balance, version int64
	if wallet != nil {
		balance, version = wallet.Balance, wallet.Version
	}

	if s.cache != nil {
		if err := s.cache.SetBalance(ctx, userID, balance, version); err != nil {
			logger.Log.Warnw("failed to cache balance", "user_id", userID, "error", err)
		}
	}
	return &models.WalletSnapshot{UserID: userID, Balance: balance}, nil
}

// History returns ledger entries of a user, newest first.
func (s *WalletService) History(ctx context.Context, userID int64, limit, offset int) ([]models.LedgerEntryDB, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.ledger.ListByUser(ctx, userID, limit, offset)
}

// Reconcile compares the balance with the signed sum of the ledger while the
// wallet is locked, so no mutation can interleave between the two reads.
func (s *WalletService) Reconcile(ctx context.Context, userID int64) (*models.Reconciliation, error) {
	var rec *models.Reconciliation
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		wallet, _, err := s.wallets.LockForUpdate(ctx, userID, false)
		if err != nil {
			return fmt.Errorf("lock wallet: %w", err)
		}
		var balance int64
		if wallet != nil {
			balance = wallet.Balance
		}

		sum, err := s.ledger.SumSignedByUser(ctx, userID)
		if err != nil {
			return err
		}

		rec = &models.Reconciliation{
			UserID:     userID,
			Balance:    balance,
			LedgerSum:  sum,
			Consistent: balance == sum,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !rec.Consistent {
		logger.Log.Errorw("wallet balance drifted from ledger", "user_id", userID, "balance", rec.Balance, "ledger_sum", rec.LedgerSum)
	}
	return rec, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// IsNotFound reports whether err means the requested wallet or payment does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrWalletNotFound) || errors.Is(err, ErrPaymentNotFound)
}
