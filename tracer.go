package tracer

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/aretw0/tracer/internal/runtime"
	"github.com/aretw0/tracer/pkg/domain"
	"github.com/aretw0/tracer/pkg/model"
	"github.com/aretw0/tracer/pkg/sim"
)

// Trace summarizes a complete silent run of a routine.
type Trace = runtime.Trace

// Engine is the high-level entry point for the Tracer library.
// It wraps the internal sequencer and provides a simplified API for hosts.
type Engine struct {
	seq         *runtime.Sequencer
	runtimeOpts []runtime.Option
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	Name        string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRenderer attaches a renderer notified of every structural change of the live run.
func WithRenderer(r model.Renderer) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithRenderer(r))
	}
}

// WithSeed fixes the random seed, making runs without a start step reproducible.
func WithSeed(seed float64) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithSeed(seed))
	}
}

// New initializes an Engine for routine. name labels logs and events.
func New(name string, routine sim.Routine, opts ...Option) (*Engine, error) {
	if routine == nil {
		return nil, errors.New("routine is required")
	}
	eng := &Engine{Name: name}
	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized so the runtime default is not overwritten with nil
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("exercise", eng.Name)
	}

	runtimeOpts := []runtime.Option{
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithName(eng.Name),
	}
	runtimeOpts = append(runtimeOpts, eng.runtimeOpts...)
	eng.seq = runtime.New(routine, runtimeOpts...)
	return eng, nil
}

// Start begins a fresh run against data and presents the first step.
func (e *Engine) Start(ctx context.Context, data any) error {
	return e.seq.Start(ctx, data)
}

// Restore resumes a run from persisted progress.
func (e *Engine) Restore(ctx context.Context, state domain.State) error {
	return e.seq.Restore(ctx, state)
}

// Count runs the routine against data silently and reports its trace.
func (e *Engine) Count(ctx context.Context, data any) (Trace, error) {
	return e.seq.Count(ctx, data)
}

// Current returns the pending step, or nil once the run has terminated.
func (e *Engine) Current() *sim.Step {
	return e.seq.Current()
}

// Index returns the index of the pending step.
func (e *Engine) Index() int {
	return e.seq.Index()
}

// Terminal reports whether the run has finished.
func (e *Engine) Terminal() bool {
	return e.seq.Phase() == runtime.PhaseTerminal
}

// Submit validates a learner action against the pending step.
// A rejected action is not an error: the outcome reports it and the step stays pending.
func (e *Engine) Submit(ctx context.Context, action sim.Action) (domain.Outcome, error) {
	return e.seq.Submit(ctx, action)
}

// Continue resolves a pending pause, next or start step.
func (e *Engine) Continue(ctx context.Context) (domain.Outcome, error) {
	return e.seq.Continue(ctx)
}

// Score returns the grading summary.
func (e *Engine) Score() domain.Score {
	return e.seq.Score()
}

// State returns the progress to persist: the data payload and the last resolved step.
func (e *Engine) State() domain.State {
	return e.seq.State()
}

// Play returns the playback description of every step of the run.
func (e *Engine) Play(ctx context.Context) ([]string, error) {
	return e.seq.Play(ctx)
}

// Arena returns the data structures of the live run.
func (e *Engine) Arena() *model.Arena {
	return e.seq.Arena()
}

// Widgets returns the code, terminal and button widgets of the live run.
func (e *Engine) Widgets() []any {
	if s := e.seq.Sim(); s != nil {
		return s.Widgets()
	}
	return nil
}

// Describe returns a display name for an element of the live run.
func (e *Engine) Describe(el domain.Element) string {
	if a := e.seq.Arena(); a != nil {
		return a.Describe(el)
	}
	return string(el)
}

// Close aborts the running routine.
func (e *Engine) Close() {
	e.seq.Close()
}
