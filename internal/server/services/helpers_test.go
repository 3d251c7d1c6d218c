package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/passionpath/internal/dbx"
	"github.com/dmitrijs2005/passionpath/internal/server/config"
	"github.com/dmitrijs2005/passionpath/internal/server/repositories/repomanager"
)

// newStore opens a migrated SQLite database in the test's temp dir.
func newStore(t *testing.T) (*sql.DB, repomanager.RepositoryManager) {
	t.Helper()
	ctx := context.Background()
	db, dialect, err := dbx.Open(ctx, "sqlite:"+filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	m := repomanager.NewSQLRepositoryManager(dialect)
	if err := m.RunMigrations(ctx, db); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return db, m
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
}
