// Package txmanager scopes a unit of work to one database transaction carried
// through context.Context. Nested scopes join the outermost transaction.
package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-points-wallet/internal/logger"
)

// contextKey is an unexported type for keys in context
type contextKey struct{}

var txKey = contextKey{}

type state struct {
	tx          *sqlx.Tx
	afterCommit []func(ctx context.Context)
}

// Manager begins transactions on a database handle.
type Manager struct {
	db          *sqlx.DB
	lockTimeout time.Duration
}

// New creates a Manager. A positive lockTimeout is applied to every
// transaction with SET LOCAL lock_timeout.
func New(db *sqlx.DB, lockTimeout time.Duration) *Manager {
	return &Manager{db: db, lockTimeout: lockTimeout}
}

// Scope is an open transaction started by Begin.
type Scope struct {
	st   *state
	done bool
}

// Begin starts a transaction and returns a context that carries it.
func (m *Manager) Begin(ctx context.Context) (context.Context, *Scope, error) {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return ctx, nil, fmt.Errorf("begin transaction: %w", err)
	}

	if m.lockTimeout > 0 {
		q := fmt.Sprintf("SET LOCAL lock_timeout = %d", m.lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, q); err != nil {
			_ = tx.Rollback()
			return ctx, nil, fmt.Errorf("set lock timeout: %w", err)
		}
	}

	st := &state{tx: tx}
	return context.WithValue(ctx, txKey, st), &Scope{st: st}, nil
}

// Commit commits the transaction and runs the registered after-commit hooks.
func (s *Scope) Commit(ctx context.Context) error {
	if s.done {
		return sql.ErrTxDone
	}
	s.done = true
	if err := s.st.tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	for _, fn := range s.st.afterCommit {
		fn(ctx)
	}
	return nil
}

// Rollback aborts the transaction. It is a no-op after Commit or Rollback.
func (s *Scope) Rollback() {
	if s.done {
		return
	}
	s.done = true
	if err := s.st.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logger.Log.Errorw("failed to rollback transaction", "error", err)
	}
}

// Do runs fn inside a transaction. If ctx already carries one, fn joins it and
// the outer owner decides the outcome; otherwise a new transaction is committed
// when fn returns nil and rolled back on error or panic.
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if fromContext(ctx) != nil {
		return fn(ctx)
	}

	txCtx, scope, err := m.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if rec := recover(); rec != nil {
			scope.Rollback()
			panic(rec)
		}
	}()

	if err := fn(txCtx); err != nil {
		scope.Rollback()
		return err
	}

	return scope.Commit(txCtx)
}

// GetTx retrieves the transaction from the context. Returns nil if not present.
func GetTx(ctx context.Context) *sqlx.Tx {
	if st := fromContext(ctx); st != nil {
		return st.tx
	}
	return nil
}

// AfterCommit registers fn to run once the transaction carried by ctx commits.
// Without a transaction fn runs immediately. Hooks are dropped on rollback.
func AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	st := fromContext(ctx)
	if st == nil {
		fn(ctx)
		return
	}
	st.afterCommit = append(st.afterCommit, fn)
}

func fromContext(ctx context.Context) *state {
	st, _ := ctx.Value(txKey).(*state)
	return st
}
