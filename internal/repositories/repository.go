package repositories

import (
	"context"
	_ "embed"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-points-wallet/internal/logger"
)

// Schema holds the DDL for every table used by the repositories.
//
//go:embed schema.sql
var Schema string

var (
	// ErrNoTransaction is returned by operations that must run inside a transaction.
	ErrNoTransaction = errors.New("operation requires a transaction")
	// ErrIdempotencyConflict is returned when the same idempotency key is recorded twice.
	ErrIdempotencyConflict = errors.New("idempotency key already recorded")
)

const pgUniqueViolation = "23505"

// TxGetter returns the transaction carried by ctx, or nil.
type TxGetter func(ctx context.Context) *sqlx.Tx

// Migrate applies Schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, Schema)
	logger.Log.Infow("schema applied", "error", err)
	return err
}

// executor returns the transaction from ctx when present, otherwise db.
func executor(ctx context.Context, db *sqlx.DB, txGetter TxGetter) sqlx.ExtContext {
	if tx := transaction(ctx, txGetter); tx != nil {
		return tx
	}
	return db
}

func transaction(ctx context.Context, txGetter TxGetter) *sqlx.Tx {
	if txGetter == nil {
		return nil
	}
	return txGetter(ctx)
}

// logQuery logs a query on a single line together with its args, result and error.
func logQuery(query string, args []any, result any, err error) {
	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", result,
		"error", err,
	)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
