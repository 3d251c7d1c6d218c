package dbx

import (
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Builder returns a squirrel statement builder using the placeholder style
// of the dialect.
func Builder(d Dialect) sq.StatementBuilderType {
	if d == DialectSQLite {
		return sq.StatementBuilder.PlaceholderFormat(sq.Question)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint failure from
// either backend.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
