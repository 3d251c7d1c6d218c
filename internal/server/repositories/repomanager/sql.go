// Package repomanager vends the SQL-backed repositories for one dialect and
// runs the embedded goose migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/passionpath/internal/dbx"
	"github.com/dmitrijs2005/passionpath/internal/server/migrations"
	"github.com/dmitrijs2005/passionpath/internal/server/repositories/records"
	"github.com/dmitrijs2005/passionpath/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/passionpath/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

// SQLRepositoryManager binds repositories to any DBTX using the statement
// style of its dialect.
type SQLRepositoryManager struct {
	dialect dbx.Dialect
}

func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewSQLRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Records(db dbx.DBTX) records.Repository {
	return records.NewSQLRepository(db, m.dialect)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func gooseDialect(d dbx.Dialect) string {
	if d == dbx.DialectSQLite {
		return "sqlite3"
	}
	return "pgx"
}

// RunMigrations applies the embedded migrations to db.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(gooseDialect(m.dialect)); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

func NewSQLRepositoryManager(dialect dbx.Dialect) RepositoryManager {
	return &SQLRepositoryManager{dialect: dialect}
}
