// Package dbx provides the small database layer shared by the record-store
// repositories: a DBTX interface implemented by both *sql.DB and *sql.Tx, a
// transaction helper, and DSN-based driver selection for Postgres and SQLite.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver
)

// DBTX is the subset of database/sql used by our repos.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Dialect names the SQL flavour behind a connection.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// sqlitePrefix selects the embedded SQLite backend, e.g. "sqlite:passionpath.db".
const sqlitePrefix = "sqlite:"

// ParseDSN resolves the driver name, dialect and driver-level DSN.
// Anything that is not prefixed with "sqlite:" is handed to pgx.
func ParseDSN(dsn string) (driver string, dialect Dialect, source string) {
	if rest, ok := strings.CutPrefix(dsn, sqlitePrefix); ok {
		return "sqlite", DialectSQLite, rest
	}
	return "pgx", DialectPostgres, dsn
}

// Open opens and pings the database described by dsn.
func Open(ctx context.Context, dsn string) (*sql.DB, Dialect, error) {
	driver, dialect, source := ParseDSN(dsn)
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// foreign keys (and therefore cascades) are per-connection in SQLite
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, "", fmt.Errorf("enable foreign keys: %w", err)
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("ping %s: %w", dialect, err)
	}
	return db, dialect, nil
}

// WithTx begins a transaction, runs fn with a transactional handle, and then
// commits on success or rolls back on error/panic. Panics are rethrown.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    _, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE token = $1", token)
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
