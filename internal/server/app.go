// Package server wires the record-store service: configuration, database
// and migrations, services, and the gRPC endpoint with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/passionpath/internal/dbx"
	"github.com/dmitrijs2005/passionpath/internal/logging"
	"github.com/dmitrijs2005/passionpath/internal/server/config"
	"github.com/dmitrijs2005/passionpath/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/passionpath/internal/server/services"
	"github.com/dmitrijs2005/passionpath/internal/server/storage"

	gs "github.com/dmitrijs2005/passionpath/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *gs.GRPCServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogLevel, "json")

	db, dialect, err := dbx.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewSQLRepositoryManager(dialect)
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}
	logger.Info(ctx, "Migrations applied", "dialect", string(dialect))

	as := services.NewAuthService(db, rm, c)
	recs := services.NewRecordService(db, rm)
	ps := storage.NewPresigner(c)

	srv := gs.NewGRPCServer(c.EndpointAddrGRPC, logger, as, recs, ps, c.SecretKey)

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a termination signal arrives or ctx is cancelled, then
// closes the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
