package services

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/sbilibin2017/gw-points-wallet/internal/models"
)

type memTxKey struct{}

// memStore is an in-memory stand-in for the Postgres repositories. A
// transaction holds the store mutex for its whole duration and restores a
// snapshot on error, which gives the same serialization the row locks give.
type memStore struct {
	mu       sync.Mutex
	wallets  map[int64]models.WalletDB
	ledger   []models.LedgerEntryDB
	keys     map[string]struct{}
	payments map[string]models.PaymentDB
	cancels  []models.PaymentCancelDB
	nextID   int64
}

func newMemStore() *memStore {
	return &memStore{
		wallets:  map[int64]models.WalletDB{},
		keys:     map[string]struct{}{},
		payments: map[string]models.PaymentDB{},
	}
}

type memSnapshot struct {
	wallets  map[int64]models.WalletDB
	ledger   []models.LedgerEntryDB
	keys     map[string]struct{}
	payments map[string]models.PaymentDB
	cancels  []models.PaymentCancelDB
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		wallets:  make(map[int64]models.WalletDB, len(s.wallets)),
		ledger:   append([]models.LedgerEntryDB(nil), s.ledger...),
		keys:     make(map[string]struct{}, len(s.keys)),
		payments: make(map[string]models.PaymentDB, len(s.payments)),
		cancels:  append([]models.PaymentCancelDB(nil), s.cancels...),
	}
	for k, v := range s.wallets {
		snap.wallets[k] = v
	}
	for k, v := range s.keys {
		snap.keys[k] = v
	}
	for k, v := range s.payments {
		snap.payments[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.wallets = snap.wallets
	s.ledger = snap.ledger
	s.keys = snap.keys
	s.payments = snap.payments
	s.cancels = snap.cancels
}

func (s *memStore) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memTxKey{}) != nil {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, memTxKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// read locks the store for a single read outside a transaction.
func (s *memStore) read(ctx context.Context) func() {
	if ctx.Value(memTxKey{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) balance(userID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallets[userID].Balance
}

func (s *memStore) ledgerSum(userID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum int64
	for _, e := range s.ledger {
		if e.UserID == userID && e.Status == models.LedgerSuccess {
			sum += e.SignedAmount()
		}
	}
	return sum
}

func (s *memStore) ledgerLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ledger)
}

type memWallets struct{ *memStore }

func (w memWallets) GetBalance(ctx context.Context, userID int64) (int64, error) {
	defer w.read(ctx)()
	return w.wallets[userID].Balance, nil
}

func (w memWallets) Get(ctx context.Context, userID int64) (*models.WalletDB, error) {
	defer w.read(ctx)()
	wallet, ok := w.wallets[userID]
	if !ok {
		return nil, nil
	}
	return &wallet, nil
}

func (w memWallets) LockForUpdate(ctx context.Context, userID int64, create bool) (*models.WalletDB, bool, error) {
	wallet, ok := w.wallets[userID]
	if !ok {
		if !create {
			return nil, false, nil
		}
		wallet = models.WalletDB{ID: w.id(), UserID: userID, CreatedAt: time.Now(), UpdatedAt: time.Now()}
		w.wallets[userID] = wallet
	}
	return &wallet, !ok, nil
}

func (w memWallets) SetBalance(ctx context.Context, wallet *models.WalletDB, newBalance int64) error {
	wallet.Balance = newBalance
	wallet.Version++
	wallet.UpdatedAt = time.Now()
	w.wallets[wallet.UserID] = *wallet
	return nil
}

type memLedger struct{ *memStore }

func (l memLedger) Append(ctx context.Context, entry *models.LedgerEntryDB) (int64, error) {
	entry.ID = l.id()
	entry.CreatedAt = time.Now()
	l.ledger = append(l.ledger, *entry)
	return entry.ID, nil
}

func (l memLedger) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]models.LedgerEntryDB, error) {
	defer l.read(ctx)()
	var out []models.LedgerEntryDB
	for i := len(l.ledger) - 1; i >= 0; i-- {
		if l.ledger[i].UserID == userID {
			out = append(out, l.ledger[i])
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (l memLedger) SumSignedByUser(ctx context.Context, userID int64) (int64, error) {
	var sum int64
	for _, e := range l.ledger {
		if e.UserID == userID && e.Status == models.LedgerSuccess {
			sum += e.SignedAmount()
		}
	}
	return sum, nil
}

type memGuard struct{ *memStore }

func guardKey(requestKey, endpoint string, userID int64) string {
	return requestKey + "|" + endpoint + "|" + strconv.FormatInt(userID, 10)
}

func (g memGuard) Exists(ctx context.Context, requestKey, endpoint string, userID int64) (bool, error) {
	_, ok := g.keys[guardKey(requestKey, endpoint, userID)]
	return ok, nil
}

func (g memGuard) Save(ctx context.Context, rec *models.IdempotencyDB) error {
	g.keys[guardKey(rec.RequestKey, rec.Endpoint, rec.UserID)] = struct{}{}
	return nil
}

type memPayments struct{ *memStore }

func (p memPayments) CreateIfAbsent(ctx context.Context, payment *models.PaymentDB) (bool, error) {
	if _, ok := p.payments[payment.OrderID]; ok {
		return false, nil
	}
	payment.ID = p.id()
	p.payments[payment.OrderID] = *payment
	return true, nil
}

func (p memPayments) LockByOrderID(ctx context.Context, orderID string) (*models.PaymentDB, error) {
	payment, ok := p.payments[orderID]
	if !ok {
		return nil, nil
	}
	return &payment, nil
}

func (p memPayments) GetByOrderID(ctx context.Context, orderID string) (*models.PaymentDB, error) {
	defer p.read(ctx)()
	return p.LockByOrderID(ctx, orderID)
}

func (p memPayments) Update(ctx context.Context, payment *models.PaymentDB) error {
	p.payments[payment.OrderID] = *payment
	return nil
}

type memCancels struct{ *memStore }

func (c memCancels) Append(ctx context.Context, cancel *models.PaymentCancelDB) (int64, error) {
	cancel.ID = c.id()
	c.cancels = append(c.cancels, *cancel)
	return cancel.ID, nil
}

func (c memCancels) ExistsByRequestID(ctx context.Context, paymentID int64, requestID string) (bool, error) {
	for _, cancel := range c.cancels {
		if cancel.PaymentID == paymentID && cancel.RequestID != nil && *cancel.RequestID == requestID {
			return true, nil
		}
	}
	return false, nil
}

func (c memCancels) ListByPayment(ctx context.Context, paymentID int64) ([]models.PaymentCancelDB, error) {
	defer c.read(ctx)()
	var out []models.PaymentCancelDB
	for _, cancel := range c.cancels {
		if cancel.PaymentID == paymentID {
			out = append(out, cancel)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// newMemServices wires both services over one in-memory store.
func newMemServices() (*memStore, *WalletService, *PaymentService) {
	store := newMemStore()
	wallet := NewWalletService(store, memWallets{store}, memLedger{store}, memGuard{store}, nil, nil)
	payment := NewPaymentService(store, memPayments{store}, memCancels{store}, wallet)
	return store, wallet, payment
}

// memCache mirrors the Redis cache: an entry is only replaced by a newer version.
type memCache struct {
	mu      sync.Mutex
	entries map[int64][2]int64
}

func newMemCache() *memCache {
	return &memCache{entries: map[int64][2]int64{}}
}

func (c *memCache) GetBalance(ctx context.Context, userID int64) (int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[userID]
	return e[0], ok, nil
}

func (c *memCache) SetBalance(ctx context.Context, userID, balance, version int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[userID]; ok && e[1] >= version {
		return nil
	}
	c.entries[userID] = [2]int64{balance, version}
	return nil
}

func (c *memCache) Invalidate(ctx context.Context, userID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
	return nil
}

// racingWallets runs afterGet once between reading a wallet and returning it.
type racingWallets struct {
	memWallets
	afterGet func()
}

func (w *racingWallets) Get(ctx context.Context, userID int64) (*models.WalletDB, error) {
	wallet, err := w.memWallets.Get(ctx, userID)
	if fn := w.afterGet; fn != nil {
		w.afterGet = nil
		fn()
	}
	return wallet, err
}
