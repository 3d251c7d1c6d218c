package dbx

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+strings.ReplaceAll(t.Name(), "/", "_")+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS t (id INTEGER PRIMARY KEY, v TEXT);`)
	require.NoError(t, err)
	return db
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&n))
	return n
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO t(v) VALUES ('ok')`)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, 1, countRows(t, db), "must commit on success")
}

func TestWithTx_RollbackOnFnError(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO t(v) VALUES ('fail')`)
		require.NoError(t, e)
		return errors.New("boom")
	})
	require.Error(t, err)

	require.Equal(t, 0, countRows(t, db), "must rollback when fn returns error")
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := setupDB(t)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
		require.Equal(t, 0, countRows(t, db), "must rollback on panic")
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO t(v) VALUES ('panic')`)
		require.NoError(t, e)
		panic("kaput")
	})
}

func TestWithTx_BeginError(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return nil
	})
	require.Error(t, err, "begin should fail when DB is closed")
}

func TestParseDSN(t *testing.T) {
	driver, dialect, source := ParseDSN("sqlite:/tmp/pp.db")
	require.Equal(t, "sqlite", driver)
	require.Equal(t, DialectSQLite, dialect)
	require.Equal(t, "/tmp/pp.db", source)

	driver, dialect, source = ParseDSN("postgres://u:p@localhost:5432/pp?sslmode=disable")
	require.Equal(t, "pgx", driver)
	require.Equal(t, DialectPostgres, dialect)
	require.Equal(t, "postgres://u:p@localhost:5432/pp?sslmode=disable", source)
}

func TestOpen_SQLiteEnablesForeignKeys(t *testing.T) {
	ctx := context.Background()
	db, dialect, err := Open(ctx, "sqlite:"+filepath.Join(t.TempDir(), "pp.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.Equal(t, DialectSQLite, dialect)

	var on int
	require.NoError(t, db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&on))
	require.Equal(t, 1, on)
}
