package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/tracer/pkg/domain"
	"github.com/aretw0/tracer/pkg/prng"
)

// stepLimit bounds a silent run so that a routine that never returns is
// reported instead of hanging the host.
const stepLimit = 1 << 16

// Trace summarizes a complete silent run of a routine.
type Trace struct {
	// Steps counts every presented step, each batch candidate included.
	Steps int
	// MaxScore counts the scored steps.
	MaxScore int
	// StartFound reports whether the first step was a start step.
	StartFound bool
	// StartData is the payload of that start step.
	StartData any
	// Descriptions holds the playback text of each step after the start step.
	Descriptions []string
	// Seed is the random seed the run used.
	Seed float64
}

// Count runs the routine against data to completion without a renderer or
// hooks, resolving every step automatically.
func (q *Sequencer) Count(ctx context.Context, data any) (Trace, error) {
	return q.count(ctx, data, q.pickSeed())
}

func (q *Sequencer) count(ctx context.Context, data any, seed float64) (Trace, error) {
	f := q.fork()
	defer f.Close()
	f.begin(data, seed)

	tr := Trace{Seed: seed}
	step, err := f.advance(ctx)
	for err == nil && step != nil {
		if err := ctx.Err(); err != nil {
			return tr, err
		}
		if tr.Steps == stepLimit {
			return tr, domain.ConfigurationError("routine exceeded %d steps", stepLimit)
		}
		if step.Type == domain.StepStart {
			tr.StartFound = true
			tr.StartData = step.State
		} else {
			tr.Descriptions = append(tr.Descriptions, step.Description)
		}
		if step.Type.Scored() {
			tr.MaxScore++
		}
		tr.Steps++
		if err = f.autoResolve(ctx); err != nil {
			break
		}
		step, err = f.advance(ctx)
	}
	return tr, err
}

func (q *Sequencer) pickSeed() float64 {
	if q.seed != nil {
		return *q.seed
	}
	return prng.NewRandom().Current()
}

// Start begins a fresh run against data.
func (q *Sequencer) Start(ctx context.Context, data any) error {
	return q.Restore(ctx, domain.State{Data: data, LastStep: -1})
}

// Restore rebuilds a run from persisted progress: it counts the trace, starts
// a live run, replays every step up to state.LastStep silently and presents
// the next one. A LastStep beyond the trace is clamped.
func (q *Sequencer) Restore(ctx context.Context, state domain.State) error {
	seed := q.pickSeed()
	tr, err := q.count(ctx, state.Data, seed)
	if err != nil {
		return fmt.Errorf("counting steps: %w", err)
	}

	data := state.Data
	if tr.StartFound {
		data = tr.StartData
	}
	q.begin(data, seed)
	q.maxScore = tr.MaxScore

	q.replaying = true
	defer func() { q.replaying = false }()

	if tr.StartFound || tr.Steps == 0 {
		if _, err := q.advance(ctx); err != nil {
			return err
		}
		if q.current != nil {
			if err := q.autoResolve(ctx); err != nil {
				return err
			}
		}
		q.index = -1
		q.lastStep = -1
	}

	last := state.LastStep
	indexed := tr.Steps
	if tr.StartFound {
		indexed--
	}
	if last >= indexed {
		q.logger.Warn("persisted step beyond trace, clamping", "step", last, "steps", indexed)
		last = indexed - 1
	}

	step, err := q.advance(ctx)
	for err == nil && step != nil && q.index <= last {
		if err = q.autoResolve(ctx); err != nil {
			break
		}
		step, err = q.advance(ctx)
	}
	if err != nil {
		return fmt.Errorf("replaying to step %d: %w", last, err)
	}
	q.replaying = false

	q.logger.Debug("trace restored", "step", q.lastStep, "maxscore", q.maxScore, "achieved", q.achieved)
	if step != nil {
		q.emitStep(ctx, domain.EventStepEnter, step)
	} else {
		q.emitTerminal(ctx)
	}
	return nil
}

// Play returns the playback description of every step of the current run's
// data, as a silent run with the same seed produces them.
func (q *Sequencer) Play(ctx context.Context) ([]string, error) {
	if q.arena == nil {
		return nil, domain.ErrNotStarted
	}
	tr, err := q.count(ctx, q.data, q.seedUsed)
	if err != nil {
		return nil, err
	}
	return tr.Descriptions, nil
}
