package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/tracer/internal/logging"
	"github.com/aretw0/tracer/pkg/domain"
	"github.com/aretw0/tracer/pkg/model"
	"github.com/aretw0/tracer/pkg/prng"
	"github.com/aretw0/tracer/pkg/sim"
)

// Phase is the position of a Sequencer in its step lifecycle.
type Phase string

const (
	PhaseInit       Phase = "init"
	PhaseInProgress Phase = "step_in_progress"
	PhaseRetrying   Phase = "retrying"
	PhaseTerminal   Phase = "terminal"
)

// Sequencer drives a routine step by step: it presents each yielded step,
// validates learner actions against it, runs completion callbacks and resumes
// the routine with the resolved value.
//
// A Sequencer is not safe for concurrent use; hosts serialize access per session.
type Sequencer struct {
	routine  sim.Routine
	name     string
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	renderer model.Renderer
	seed     *float64

	arena     *model.Arena
	sim       *sim.Sim
	co        *coroutine
	silent    bool
	replaying bool

	data     any
	current  *sim.Step
	yielded  int
	index    int
	lastStep int
	achieved int
	maxScore int
	resume   model.Value
	phase    Phase
	seedUsed float64
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(q *Sequencer) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(q *Sequencer) {
		q.hooks = hooks
	}
}

// WithRenderer attaches a renderer to every live run.
func WithRenderer(r model.Renderer) Option {
	return func(q *Sequencer) {
		q.renderer = r
	}
}

// WithSeed fixes the random seed of every run.
func WithSeed(seed float64) Option {
	return func(q *Sequencer) {
		q.seed = &seed
	}
}

// WithName labels events and log lines with the exercise name.
func WithName(name string) Option {
	return func(q *Sequencer) {
		q.name = name
	}
}

// New creates a Sequencer for routine. Call Restore to begin a run.
func New(routine sim.Routine, opts ...Option) *Sequencer {
	q := &Sequencer{
		routine:  routine,
		logger:   logging.NewNop(),
		index:    -1,
		lastStep: -1,
		phase:    PhaseInit,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// fork creates a silent sibling sharing the routine and seed, for counting.
func (q *Sequencer) fork() *Sequencer {
	return &Sequencer{
		routine:  q.routine,
		name:     q.name,
		logger:   q.logger,
		seed:     q.seed,
		silent:   true,
		index:    -1,
		lastStep: -1,
		phase:    PhaseInit,
	}
}

// begin starts a fresh run of the routine against data.
func (q *Sequencer) begin(data any, seed float64) {
	q.Close()
	q.arena = model.NewArena()
	q.arena.SetSilent(q.silent)
	if !q.silent && q.renderer != nil {
		q.arena.SetRenderer(q.renderer)
	}
	var yield func(*sim.Step) model.Value
	s := sim.New(q.arena, prng.New(seed), func(step *sim.Step) model.Value {
		return yield(step)
	})
	routine := q.routine
	q.sim = s
	q.co = newCoroutine(func(y func(*sim.Step) model.Value) error {
		yield = y
		return routine(s, data)
	})
	q.seedUsed = seed
	q.data = data
	q.current = nil
	q.yielded = 0
	q.index = -1
	q.lastStep = -1
	q.achieved = 0
	q.resume = model.Undefined()
	q.phase = PhaseInit
}

// Close aborts the running routine, if any. The run is terminated.
func (q *Sequencer) Close() {
	if q.co != nil {
		q.co.close()
		q.co = nil
	}
	q.current = nil
	q.phase = PhaseTerminal
}

// Current returns the pending step, or nil when the run has terminated.
func (q *Sequencer) Current() *sim.Step { return q.current }

// Index returns the index of the pending step.
func (q *Sequencer) Index() int { return q.index }

// Phase returns the lifecycle position.
func (q *Sequencer) Phase() Phase { return q.phase }

// Arena returns the arena of the live run.
func (q *Sequencer) Arena() *model.Arena { return q.arena }

// Sim returns the facade of the live run.
func (q *Sequencer) Sim() *sim.Sim { return q.sim }

// State returns the persistable progress of the live run.
func (q *Sequencer) State() domain.State {
	return domain.State{Data: q.data, LastStep: q.lastStep}
}

// Score returns the grading summary of the live run.
func (q *Sequencer) Score() domain.Score {
	return domain.NewScore(q.maxScore, q.achieved)
}

// advance presents the next step: the same batched step while candidates
// remain, otherwise the next step yielded by the routine.
func (q *Sequencer) advance(ctx context.Context) (*sim.Step, error) {
	if q.current != nil && q.current.Batched() && q.current.Remaining() > 0 {
		q.index++
		q.phase = PhaseInProgress
		q.emitStep(ctx, domain.EventStepEnter, q.current)
		return q.current, nil
	}

	step, err := q.co.next(q.resume)
	if err != nil {
		return nil, q.fail(fmt.Errorf("routine failed at step %d: %w", q.index+1, err))
	}
	if step == nil {
		q.current = nil
		q.phase = PhaseTerminal
		q.emitTerminal(ctx)
		return nil, nil
	}
	if !step.Type.Valid() {
		return nil, q.fail(domain.ConfigurationError("unexpected step type %q", step.Type))
	}
	if step.Type == domain.StepStart && q.yielded > 0 {
		return nil, q.fail(domain.ConfigurationError("start step at position %d", q.yielded))
	}
	q.yielded++
	q.current = step
	q.index++
	q.phase = PhaseInProgress
	q.emitStep(ctx, domain.EventStepEnter, step)
	return step, nil
}

func (q *Sequencer) fail(err error) error {
	q.Close()
	return err
}

// resolve completes the pending step with the learner's value and, for a
// batched step, the candidate element chosen.
func (q *Sequencer) resolve(ctx context.Context, actual model.Value, element domain.Element) error {
	step := q.current
	err := guard(func() {
		if step.Done != nil {
			step.Done(actual)
		}
		step.Take(element)
	})
	if err != nil {
		return q.fail(fmt.Errorf("completing step %d: %w", q.index, err))
	}
	if step.Value.IsUndefined() {
		q.resume = actual
	} else {
		q.resume = step.Value
	}
	q.lastStep = q.index
	if step.Type.Scored() {
		q.achieved++
	}
	q.emitStep(ctx, domain.EventStepResolved, step)
	return nil
}

// autoResolve completes the pending step without learner input, as replay does.
func (q *Sequencer) autoResolve(ctx context.Context) error {
	return q.resolve(ctx, model.Undefined(), domain.NoElement)
}

// Submit checks action against the pending step. A matching action resolves
// the step and advances to the next one; anything else leaves it pending.
func (q *Sequencer) Submit(ctx context.Context, action sim.Action) (domain.Outcome, error) {
	step, err := q.pending()
	if err != nil {
		return domain.Outcome{}, err
	}
	if !step.Type.Interactive() {
		return domain.Outcome{}, fmt.Errorf("%w: step %d is a %s step, continue instead", domain.ErrValidation, q.index, step.Type)
	}

	at := q.index
	ok, actual, element := match(q.arena, step, action)
	if !ok {
		q.phase = PhaseRetrying
		q.logger.Debug("action rejected", "step", at, "type", step.Type)
		q.emitStep(ctx, domain.EventActionRejected, step)
		return domain.Outcome{Correct: false, Step: at, Score: q.Score()}, nil
	}
	return q.complete(ctx, at, actual, element)
}

// Continue resolves a pending pause, next or start step.
func (q *Sequencer) Continue(ctx context.Context) (domain.Outcome, error) {
	step, err := q.pending()
	if err != nil {
		return domain.Outcome{}, err
	}
	if step.Type.Interactive() {
		return domain.Outcome{}, fmt.Errorf("%w: step %d needs a %s action", domain.ErrValidation, q.index, step.Type)
	}
	return q.complete(ctx, q.index, model.Undefined(), domain.NoElement)
}

func (q *Sequencer) complete(ctx context.Context, at int, actual model.Value, element domain.Element) (domain.Outcome, error) {
	if err := q.resolve(ctx, actual, element); err != nil {
		return domain.Outcome{}, err
	}
	next, err := q.advance(ctx)
	if err != nil {
		return domain.Outcome{}, err
	}
	return domain.Outcome{Correct: true, Step: at, Terminal: next == nil, Score: q.Score()}, nil
}

func (q *Sequencer) pending() (*sim.Step, error) {
	if q.current != nil {
		return q.current, nil
	}
	if q.phase == PhaseTerminal {
		return nil, domain.ErrTerminated
	}
	return nil, domain.ErrNotStarted
}

func (q *Sequencer) emitStep(ctx context.Context, typ domain.EventType, step *sim.Step) {
	if q.silent || q.replaying {
		return
	}
	var hook func(context.Context, *domain.StepEvent)
	switch typ {
	case domain.EventStepEnter:
		hook = q.hooks.OnStepEnter
		q.logger.Debug("step presented", "step", q.index, "type", step.Type)
	case domain.EventStepResolved:
		hook = q.hooks.OnStepResolved
		q.logger.Debug("step resolved", "step", q.index, "type", step.Type)
	case domain.EventActionRejected:
		hook = q.hooks.OnActionRejected
	}
	if hook == nil {
		return
	}
	hook(ctx, &domain.StepEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      typ,
			Exercise:  q.name,
		},
		Index:       q.index,
		StepType:    step.Type,
		Prompt:      step.Prompt,
		Description: step.Description,
	})
}

func (q *Sequencer) emitTerminal(ctx context.Context) {
	if q.silent || q.replaying {
		return
	}
	q.logger.Info("routine finished", "steps", q.index, "achieved", q.achieved, "maxscore", q.maxScore)
	if q.hooks.OnTerminal == nil {
		return
	}
	q.hooks.OnTerminal(ctx, &domain.TerminalEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventTerminal,
			Exercise:  q.name,
		},
		Steps: q.index,
		Score: q.Score(),
	})
}
