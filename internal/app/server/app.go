// Package server assembles the vault server: storage, migrations, session
// store and the HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/exp/slog"

	"passvault/internal/app/server/api"
	"passvault/internal/app/server/config"
	"passvault/internal/domain/session"
	"passvault/internal/infrastructure/migration"
	"passvault/internal/infrastructure/storage/memory"
	"passvault/internal/infrastructure/storage/redisstore"
	"passvault/internal/infrastructure/storage/sqlstore"
)

type App struct {
	cfg      *config.Config
	log      *slog.Logger
	storage  *sqlstore.Storage
	redis    *redis.Client
	sessions session.Store
	srv      *http.Server
}

// New opens storage, applies pending migrations and builds the HTTP server.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	if err := migration.NewMigration(cfg, migration.DefaultEngine, log).Up(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	storage, err := sqlstore.New(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:     cfg,
		log:     log.With("component", "app"),
		storage: storage,
	}

	a.sessions, err = a.sessionStore(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	mux, err := api.New(cfg, storage, a.sessions, log)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.srv = &http.Server{
		Addr:              cfg.Server.RunAddress,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a, nil
}

func (a *App) sessionStore(ctx context.Context) (session.Store, error) {
	switch a.cfg.Session.Store {
	case config.SessionStoreSQL:
		return sqlstore.NewSessionRepository(a.storage, a.log), nil
	case config.SessionStoreRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		a.redis = client
		return redisstore.NewSessionStore(client, a.log), nil
	case config.SessionStoreMemory, "":
		return memory.NewSessionStore(a.log), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", a.cfg.Session.Store)
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most the configured shutdown timeout.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.srv.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server started", "address", ln.Addr().String(), "session_store", a.cfg.Session.Store)
		if err := a.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	a.log.Info("shutting down")
	if err := a.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.storage != nil {
		errs = append(errs, a.storage.Close())
	}
	return errors.Join(errs...)
}
