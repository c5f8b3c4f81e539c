// Package devserver runs the reference usuarios API: an Echo server over the
// users service, storing accounts in memory or in PostgreSQL.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrijs2005/usuarios/internal/devserver/config"
	"github.com/dmitrijs2005/usuarios/internal/devserver/httpapi"
	"github.com/dmitrijs2005/usuarios/internal/devserver/users"
	"github.com/dmitrijs2005/usuarios/internal/logging"
)

type App struct {
	config  *config.Config
	logger  *logging.ZerologLogger
	echo    *echo.Echo
	closers []func() error
}

// NewApp picks the account storage from c and builds the HTTP router.
func NewApp(ctx context.Context, c *config.Config, logger *logging.ZerologLogger) (*App, error) {
	var (
		repo    users.Repository
		ping    httpapi.Pinger
		closers []func() error
	)

	if c.UsesPostgres() {
		db, err := users.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		repo = users.NewPostgresRepository(db)
		ping = db.PingContext
		closers = append(closers, db.Close)
	} else {
		repo = users.NewMemoryRepository()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc := users.NewService(repo, logger.With("component", "users"), users.WithBcryptCost(c.BcryptCost))
	e := httpapi.NewRouter(httpapi.Deps{
		Users:    svc,
		Log:      logger.Zerolog(),
		Registry: reg,
		DBPing:   ping,
	})

	return &App{config: c, logger: logger, echo: e, closers: closers}, nil
}

// Handler exposes the router, e.g. for httptest servers.
func (app *App) Handler() http.Handler { return app.echo }

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// shuts down gracefully within the configured timeout.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	app.initSignalHandler(cancelFunc)

	storage := "memory"
	if app.config.UsesPostgres() {
		storage = "postgres"
	}
	app.logger.Info(ctx, "Starting devserver...", "addr", app.config.ListenAddr, "storage", storage)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.echo.Start(app.config.ListenAddr)
	}()

	var runErr error
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()
	if err := app.echo.Shutdown(shutdownCtx); err != nil {
		app.logger.Warn(ctx, "shutdown", "error", err)
	}

	for _, c := range app.closers {
		if err := c(); err != nil {
			app.logger.Warn(ctx, "close", "error", err)
		}
	}

	app.logger.Info(ctx, "devserver stopped")
	return runErr
}
