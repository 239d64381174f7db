package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/YogeshBarai/url-shortener/internal/adapter/repository/rediscache"
	"github.com/YogeshBarai/url-shortener/internal/adapter/repository/sqlstore"
	"github.com/YogeshBarai/url-shortener/internal/config"
	"github.com/YogeshBarai/url-shortener/internal/metrics"
	"github.com/YogeshBarai/url-shortener/internal/usecase"
	"github.com/YogeshBarai/url-shortener/migrations"
	"github.com/YogeshBarai/url-shortener/pkg/sqldb"

	delivery "github.com/YogeshBarai/url-shortener/internal/adapter/delivery/http"
)

const shutdownTimeout = 10 * time.Second

// App holds the wired application and the resources it owns.
type App struct {
	cfg     *config.Config
	logger  *httplog.Logger
	db      *sqlx.DB
	cache   *rediscache.Cache
	handler http.Handler
}

// New opens the database, applies migrations and wires the HTTP handler.
func New(ctx context.Context, cfg *config.Config, logger *httplog.Logger) (*App, error) {
	const op = "app.New"

	db, err := openDB(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := sqldb.RunMigrations(db, migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	a := &App{
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	urlRepo := sqlstore.NewURLRepository(db)
	userRepo := sqlstore.NewUserRepository(db)
	visitorRepo := sqlstore.NewVisitorRepository(db)

	urlOpts := []usecase.URLOption{
		usecase.WithReservedCodes(delivery.ReservedShortCodes()...),
	}

	if cfg.Redis.Addr != "" {
		cache, err := rediscache.New(ctx, logger.Logger, cfg.Redis, m)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.cache = cache
		urlOpts = append(urlOpts, usecase.WithCache(cache))
	}

	urlUseCase := usecase.NewURLUseCase(urlRepo, urlOpts...)
	userUseCase := usecase.NewUserUseCase(userRepo, cfg.Auth.BcryptCost)
	visitorUseCase := usecase.NewVisitorUseCase(visitorRepo, urlUseCase)

	a.handler = delivery.NewRouter(logger, delivery.UseCases{
		URL:     urlUseCase,
		User:    userUseCase,
		Visitor: visitorUseCase,
	}, delivery.Options{
		Sessions:       delivery.NewSessionManager(cfg.Session),
		BaseURL:        cfg.BaseURL,
		TrustProxy:     cfg.HTTPServer.TrustProxy,
		AllowAnonymous: cfg.AllowAnonymous,
		Throttle:       cfg.Auth.Throttle,
		Metrics:        m,
		Gatherer:       reg,
	})

	return a, nil
}

func (a *App) Handler() http.Handler {
	return a.handler
}

// Close releases the cache and database connections.
func (a *App) Close() error {
	var errs []error

	if a.cache != nil {
		errs = append(errs, a.cache.Close())
	}
	errs = append(errs, a.db.Close())

	return errors.Join(errs...)
}

// Run serves the application until ctx is cancelled, then shuts the server
// down gracefully.
func Run(ctx context.Context, cfg *config.Config, logger *httplog.Logger) error {
	const op = "app.Run"

	a, err := New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer a.Close()

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        a.Handler(),
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server",
			slog.String("addr", server.Addr),
			slog.String("env", cfg.Env),
			slog.String("driver", cfg.Database.Driver),
		)

		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}

func openDB(ctx context.Context, cfg config.Database) (*sqlx.DB, error) {
	const op = "app.openDB"

	driver := sqldb.DriverSQLite
	if cfg.Driver == config.DriverPostgres {
		driver = sqldb.DriverPostgres
	} else if err := os.MkdirAll(filepath.Dir(cfg.SQLite.Path), 0o755); err != nil {
		return nil, fmt.Errorf("%s: failed to create database directory: %w", op, err)
	}

	db, err := sqldb.New(
		ctx,
		driver,
		cfg.DSN(),
		sqldb.WithConnMaxIdleTime(cfg.ConnMaxIdleTime),
		sqldb.WithConnMaxLifetime(cfg.ConnMaxLifetime),
		sqldb.WithMaxIdleConns(cfg.MaxIdleConns),
		sqldb.WithMaxOpenConns(cfg.MaxOpenConns),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}

	return db, nil
}
