package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/usuarios/internal/client/client"
	"github.com/dmitrijs2005/usuarios/internal/client/config"
	"github.com/dmitrijs2005/usuarios/internal/client/models"
	"github.com/dmitrijs2005/usuarios/internal/client/repositories/slots"
	"github.com/dmitrijs2005/usuarios/internal/client/services"
	"github.com/dmitrijs2005/usuarios/internal/client/session"
	"github.com/dmitrijs2005/usuarios/internal/filex"
	"github.com/dmitrijs2005/usuarios/internal/logging"
)

// Session is what the views read from the session store.
type Session interface {
	Initialize(ctx context.Context)
	Ready() <-chan struct{}
	Refresh(ctx context.Context) (*models.User, error)
	Current() (models.User, bool)
}

type App struct {
	config   *config.Config
	auth     services.AuthService
	session  Session
	logger   logging.Logger
	metrics  prometheus.Gatherer
	validate *validator.Validate
	reader   *bufio.Reader
	out      io.Writer
	closers  []func() error
}

// NewApp opens the slot backend and builds the API client, the session store
// and the auth service from c.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	repo, closeRepo, err := openSlots(ctx, c)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	metrics, err := client.NewMetrics(reg)
	if err != nil {
		_ = closeRepo()
		return nil, err
	}

	apiClient, err := client.NewHTTPClient(c.ServerBaseURL,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(logger.With("component", "api")),
		client.WithMetrics(metrics),
	)
	if err != nil {
		_ = closeRepo()
		return nil, err
	}

	a := newApp(c, nil, nil, logger, os.Stdin, os.Stdout)
	a.metrics = reg
	a.closers = append(a.closers, closeRepo)

	store := session.NewStore(apiClient, repo, logger.With("component", "session"),
		session.WithSlotName(c.SlotName),
		session.WithRefreshErrorHandler(a.onRefreshError),
	)
	a.session = store
	a.auth = services.NewAuthService(apiClient, store, logger)
	return a, nil
}

func newApp(c *config.Config, auth services.AuthService, s Session, logger logging.Logger, in io.Reader, out io.Writer) *App {
	if logger == nil {
		logger = logging.Nop()
	}
	return &App{
		config:   c,
		auth:     auth,
		session:  s,
		logger:   logger,
		metrics:  prometheus.NewRegistry(),
		validate: validator.New(),
		reader:   bufio.NewReader(in),
		out:      out,
	}
}

func openSlots(ctx context.Context, c *config.Config) (slots.Repository, func() error, error) {
	switch c.SlotBackend {
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr, DB: c.RedisDB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis %s: %w", c.RedisAddr, err)
		}
		return slots.NewRedisRepository(rdb, ""), rdb.Close, nil

	case config.BackendSQLite:
		if _, err := filex.EnsureParentDir(c.DatabasePath); err != nil {
			return nil, nil, err
		}
		db, err := client.InitDatabase(ctx, c.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("error initializing database: %w", err)
		}
		return slots.NewSQLiteRepository(db), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown slot backend %q", c.SlotBackend)
	}
}

// Run blocks until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.Close(ctx); err != nil {
			a.logger.Warn(ctx, "shutdown", "error", err)
		}
	}()
	a.Root(ctx)
}

func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.auth != nil {
		errs = append(errs, a.auth.Close(ctx))
	}
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	_, ok := a.session.Current()
	return ok
}

func (a *App) onRefreshError(err error) {
	fmt.Fprintln(a.out, "Could not refresh your profile, showing saved data.")
}

func (a *App) say(args ...any) {
	fmt.Fprintln(a.out, args...)
}
