package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-points-wallet/internal/models"
)

// LedgerRepository is the append-only journal of point movements.
// Entries are never updated or deleted.
type LedgerRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewLedgerRepository(db *sqlx.DB, txGetter TxGetter) *LedgerRepository {
	return &LedgerRepository{db: db, txGetter: txGetter}
}

// Append writes an entry and returns its id. ID and CreatedAt are filled in.
func (r *LedgerRepository) Append(ctx context.Context, entry *models.LedgerEntryDB) (int64, error) {
	const query = `
		INSERT INTO point_ledger (user_id, type, amount, order_id, request_id, status, memo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`
	args := []any{entry.UserID, entry.Type, entry.Amount, entry.OrderID, entry.RequestID, entry.Status, entry.Memo}

	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), entry, query, args...)
	logQuery(query, args, entry.ID, err)
	if err != nil {
		return 0, err
	}
	return entry.ID, nil
}

// ListByUser returns the newest entries of a user first.
func (r *LedgerRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]models.LedgerEntryDB, error) {
	const query = `
		SELECT id, user_id, type, amount, order_id, request_id, status, memo, created_at
		FROM point_ledger
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	entries := []models.LedgerEntryDB{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &entries, query, userID, limit, offset)
	logQuery(query, []any{userID, limit, offset}, len(entries), err)

	return entries, err
}

// SumSignedByUser returns the signed sum of the user's successful entries.
func (r *LedgerRepository) SumSignedByUser(ctx context.Context, userID int64) (int64, error) {
	const query = `
		SELECT COALESCE(SUM(CASE WHEN type IN ('CHARGE', 'REFUND') THEN amount ELSE -amount END), 0)
		FROM point_ledger
		WHERE user_id = $1 AND status = 'SUCCESS'
	`

	var sum int64
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &sum, query, userID)
	logQuery(query, []any{userID}, sum, err)

	return sum, err
}
