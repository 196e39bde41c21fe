package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/tracer/pkg/adapters/http"
)

// shutdownTimeout bounds how long outstanding requests may run after a stop signal.
const shutdownTimeout = 5 * time.Second

// Handler builds the HTTP host for the app.
func (a *App) Handler() http.Handler {
	opts := []httpAdapter.Option{
		httpAdapter.WithLogger(a.Logger),
		httpAdapter.WithLifecycleHooks(a.hooks()),
	}
	if a.Registry != nil {
		opts = append(opts, httpAdapter.WithMetrics(a.Registry))
	}
	return httpAdapter.NewHandler(a.Catalog, a.Sessions, opts...)
}

// Serve runs the HTTP host on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, app *App, addr string) error {
	if err := app.ping(ctx); err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		app.Logger.Info("http server listening", "addr", addr, "store", app.Config.Store)
		printSystemMessage("Starting Tracer Server on %s", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			return srv.Close()
		}
		printSystemMessage("Tracer Server stopped gracefully")
		return nil
	}
}
