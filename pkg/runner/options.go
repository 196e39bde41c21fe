package runner

import (
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/tracer/pkg/session"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithSession persists progress into the session id after every resolved step.
func WithSession(manager *session.Manager, id string) Option {
	return func(r *Runner) {
		r.Sessions = manager
		r.SessionID = id
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithIO sets the reader and writer of the default text handler.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *Runner) {
		r.Input = in
		r.Output = out
	}
}

// WithRenderer configures the content renderer (e.g. TUI, Markdown).
func WithRenderer(renderer ContentRenderer) Option {
	return func(r *Runner) {
		r.Renderer = renderer
	}
}

// WithPauseDelay sets how long pause steps stay on screen.
func WithPauseDelay(d time.Duration) Option {
	return func(r *Runner) {
		r.PauseDelay = d
	}
}
