package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-points-wallet/internal/txmanager"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

// inTx runs fn inside a sqlmock transaction that is expected to commit.
func inTx(t *testing.T, db *sqlx.DB, fn func(ctx context.Context) error) error {
	t.Helper()
	return txmanager.New(db, 0).Do(context.Background(), fn)
}
