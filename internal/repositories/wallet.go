package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-points-wallet/internal/models"
)

// ErrNegativeBalance is returned when a balance write would go below zero.
var ErrNegativeBalance = errors.New("wallet balance cannot be negative")

const walletColumns = `id, user_id, balance, version, created_at, updated_at`

// WalletRepository stores one mutable balance per user.
type WalletRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewWalletRepository(db *sqlx.DB, txGetter TxGetter) *WalletRepository {
	return &WalletRepository{db: db, txGetter: txGetter}
}

// GetBalance returns the balance of a user, 0 when the wallet does not exist.
func (r *WalletRepository) GetBalance(ctx context.Context, userID int64) (int64, error) {
	const query = `SELECT balance FROM point_wallets WHERE user_id = $1`

	var balance int64
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &balance, query, userID)
	logQuery(query, []any{userID}, balance, err)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return balance, err
}

// Get returns the wallet of a user without locking it, nil when absent.
func (r *WalletRepository) Get(ctx context.Context, userID int64) (*models.WalletDB, error) {
	query := `SELECT ` + walletColumns + ` FROM point_wallets WHERE user_id = $1`

	var w models.WalletDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &w, query, userID)
	logQuery(query, []any{userID}, w, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// LockForUpdate takes an exclusive row lock on the user's wallet for the rest
// of the enclosing transaction. With create set, a zero-balance wallet is
// inserted first when none exists and created reports whether that happened.
// Without create a missing wallet yields (nil, false, nil).
func (r *WalletRepository) LockForUpdate(ctx context.Context, userID int64, create bool) (wallet *models.WalletDB, created bool, err error) {
	tx := transaction(ctx, r.txGetter)
	if tx == nil {
		return nil, false, ErrNoTransaction
	}

	if create {
		const insert = `
			INSERT INTO point_wallets (user_id, balance, version, created_at, updated_at)
			VALUES ($1, 0, 0, NOW(), NOW())
			ON CONFLICT (user_id) DO NOTHING
		`
		res, err := tx.ExecContext(ctx, insert, userID)
		var rows int64
		if res != nil {
			rows, _ = res.RowsAffected()
		}
		logQuery(insert, []any{userID}, rows, err)
		if err != nil {
			return nil, false, err
		}
		created = rows == 1
	}

	query := `SELECT ` + walletColumns + ` FROM point_wallets WHERE user_id = $1 FOR UPDATE`

	var w models.WalletDB
	err = tx.GetContext(ctx, &w, query, userID)
	logQuery(query, []any{userID}, w, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &w, created, nil
}

// SetBalance writes a new balance to a wallet previously locked with LockForUpdate.
func (r *WalletRepository) SetBalance(ctx context.Context, wallet *models.WalletDB, newBalance int64) error {
	if newBalance < 0 {
		return ErrNegativeBalance
	}
	tx := transaction(ctx, r.txGetter)
	if tx == nil {
		return ErrNoTransaction
	}

	const query = `
		UPDATE point_wallets
		SET balance = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2
		RETURNING version, updated_at
	`

	err := tx.QueryRowxContext(ctx, query, newBalance, wallet.ID).Scan(&wallet.Version, &wallet.UpdatedAt)
	logQuery(query, []any{newBalance, wallet.ID}, wallet.Version, err)
	if err != nil {
		return fmt.Errorf("update wallet %d: %w", wallet.ID, err)
	}

	wallet.Balance = newBalance
	return nil
}
