// Package cli wires configuration, storage, metrics and the exercise catalog
// into the hosts started by the tracer command.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/tracer/internal/config"
	"github.com/aretw0/tracer/internal/logging"
	"github.com/aretw0/tracer/pkg/adapters/file"
	"github.com/aretw0/tracer/pkg/adapters/memory"
	"github.com/aretw0/tracer/pkg/adapters/redis"
	"github.com/aretw0/tracer/pkg/exercises"
	"github.com/aretw0/tracer/pkg/observability"
	"github.com/aretw0/tracer/pkg/persistence/middleware"
	"github.com/aretw0/tracer/pkg/ports"
	"github.com/aretw0/tracer/pkg/registry"
	"github.com/aretw0/tracer/pkg/session"
)

// App holds the long-lived collaborators of one command invocation.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Catalog  *registry.Registry
	Store    ports.StateStore
	Sessions *session.Manager
	Metrics  *observability.Metrics
	Registry *prometheus.Registry

	closers []func() error
}

// NewApp builds the application from cfg.
func NewApp(cfg config.Config) (*App, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	app := &App{
		Config:  cfg,
		Logger:  logging.New(level),
		Catalog: exercises.Default(),
	}

	var sessionOpts []session.Option
	switch cfg.Store {
	case "memory":
		app.Store = memory.NewStore()
	case "file":
		app.Store = file.New(cfg.StorePath)
	case "redis":
		opts := []redis.Option{redis.WithTTL(cfg.Redis.TTL)}
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		app.Store = store
		app.closers = append(app.closers, store.Close)
		sessionOpts = append(sessionOpts, session.WithLocker(redis.NewLocker(store.Client(), cfg.Redis.Prefix+"lock:")))
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
	if cfg.Encryption.Key != "" {
		if app.Store, err = encrypted(app.Store, cfg.Encryption); err != nil {
			return nil, err
		}
	}
	sessionOpts = append(sessionOpts, session.WithLogger(app.Logger))
	app.Sessions = session.NewManager(app.Store, sessionOpts...)

	if cfg.Metrics {
		app.Registry = prometheus.NewRegistry()
		if app.Metrics, err = observability.NewMetrics(app.Registry); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	app.Logger.Debug("application configured", "store", cfg.Store, "metrics", cfg.Metrics)
	return app, nil
}

// Close releases store connections.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func encrypted(store ports.StateStore, cfg config.Encryption) (ports.StateStore, error) {
	var enc middleware.EncryptionConfig
	var err error
	if enc.ActiveKey, err = middleware.ParseKey(cfg.Key); err != nil {
		return nil, fmt.Errorf("invalid encryption key: %w", err)
	}
	for i, raw := range cfg.FallbackKeys {
		key, err := middleware.ParseKey(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid fallback key %d: %w", i, err)
		}
		enc.FallbackKeys = append(enc.FallbackKeys, key)
	}
	mw, err := middleware.NewEncryptionMiddleware(enc)
	if err != nil {
		return nil, err
	}
	return middleware.Chain(store, mw), nil
}

// printSystemMessage prints a standardized system message to stdout.
func printSystemMessage(format string, args ...any) {
	fmt.Fprintf(os.Stdout, ">>> %s\n", fmt.Sprintf(format, args...))
}

// ping fails fast when a remote store is unreachable.
func (a *App) ping(ctx context.Context) error {
	_, err := a.Store.List(ctx)
	if err != nil {
		return fmt.Errorf("session store unavailable: %w", err)
	}
	return nil
}
