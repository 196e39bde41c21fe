package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/tracer"
	"github.com/aretw0/tracer/internal/logging"
	"github.com/aretw0/tracer/pkg/domain"
	"github.com/aretw0/tracer/pkg/model"
	"github.com/aretw0/tracer/pkg/session"
	"github.com/aretw0/tracer/pkg/sim"
)

// DefaultPauseDelay is how long a pause step stays on screen.
const DefaultPauseDelay = time.Second

// Runner drives an Engine from learner commands read through an IOHandler.
// Progress is saved after every resolved step when a session is configured.
type Runner struct {
	Handler    IOHandler
	Logger     *slog.Logger
	Sessions   *session.Manager
	SessionID  string
	PauseDelay time.Duration

	Input    io.Reader
	Output   io.Writer
	Renderer ContentRenderer
}

// NewRunner creates a Runner on Stdin/Stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Input:      os.Stdin,
		Output:     os.Stdout,
		Logger:     logging.NewNop(),
		PauseDelay: DefaultPauseDelay,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run presents steps and applies commands until the run terminates, the input
// ends, the learner quits or a signal arrives.
func (r *Runner) Run(ctx context.Context, eng *tracer.Engine) error {
	handler := r.resolveHandler()
	if eng.Current() == nil && !eng.Terminal() {
		return domain.ErrNotStarted
	}

	signals := NewSignalManager(ctx)
	defer signals.Stop()

	show := true
	for !eng.Terminal() {
		ctx := signals.Context()
		step := eng.Current()

		if show {
			if err := handler.Output(ctx, r.prompt(eng, step)); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			show = false
		}

		if step.Type == domain.StepPause {
			if err := r.wait(ctx); err != nil {
				return r.interrupted(handler)
			}
			if _, err := eng.Continue(ctx); err != nil {
				return err
			}
			if err := r.save(eng); err != nil {
				return err
			}
			show = true
			continue
		}

		line, err := handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			signals.CheckRace()
			if signals.Context().Err() != nil {
				return r.interrupted(handler)
			}
			return fmt.Errorf("input error: %w", err)
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			_ = handler.SystemOutput(ctx, err.Error())
			continue
		}
		if cmd.Name == CmdQuit {
			return nil
		}

		resolved, err := r.execute(ctx, handler, eng, step, cmd)
		if err != nil {
			return err
		}
		if resolved {
			if err := r.save(eng); err != nil {
				return err
			}
			show = true
		}
	}

	score := eng.Score()
	return handler.SystemOutput(ctx, fmt.Sprintf("Finished. Score: %d/%d", score.Achieved, score.MaxScore))
}

// execute applies one command. It reports whether the pending step was resolved.
func (r *Runner) execute(ctx context.Context, h IOHandler, eng *tracer.Engine, step *sim.Step, cmd Command) (bool, error) {
	switch cmd.Name {
	case CmdHelp:
		return false, h.SystemOutput(ctx, Help)
	case CmdScore:
		s := eng.Score()
		return false, h.SystemOutput(ctx, fmt.Sprintf("Score: %d/%d", s.Achieved, s.MaxScore))
	case CmdElements:
		for _, e := range Elements(eng) {
			if err := h.SystemOutput(ctx, "  "+e.String()); err != nil {
				return false, err
			}
		}
		return false, nil
	case CmdHint:
		if !step.Type.Interactive() {
			return false, h.SystemOutput(ctx, "Hint: continue")
		}
		return false, h.SystemOutput(ctx, "Hint: "+FormatAction(eng, step.Solution()))
	case CmdContinue:
		if step.Type.Interactive() {
			return false, h.SystemOutput(ctx, "This step needs an answer (try hint).")
		}
		if _, err := eng.Continue(ctx); err != nil {
			return false, err
		}
		return true, nil
	}

	action, err := r.action(eng, step, cmd)
	if err != nil {
		return false, h.SystemOutput(ctx, err.Error())
	}
	out, err := eng.Submit(ctx, action)
	if errors.Is(err, domain.ErrValidation) {
		return false, h.SystemOutput(ctx, "This step is not answered that way (try hint).")
	}
	if err != nil {
		return false, err
	}
	if !out.Correct {
		r.Logger.Debug("action rejected", "step", out.Step, "action", cmd.Name)
		return false, h.SystemOutput(ctx, "Not quite, try again.")
	}
	return true, h.SystemOutput(ctx, "Correct.")
}

func (r *Runner) action(eng *tracer.Engine, step *sim.Step, cmd Command) (sim.Action, error) {
	entries := Elements(eng)
	switch cmd.Name {
	case CmdSelect:
		if el := resolve(entries, cmd.Rest); el != domain.NoElement {
			return sim.Action{Type: domain.StepSelect, Element: el}, nil
		}
		return sim.Action{Type: domain.StepSelect, Value: model.ParseScalar(cmd.Rest)}, nil
	case CmdInput:
		return sim.Action{Type: domain.StepInput, Element: step.Element, Text: cmd.Rest}, nil
	case CmdConnect:
		source, target := resolve(entries, cmd.Args[0]), resolve(entries, cmd.Args[1])
		if source == domain.NoElement || target == domain.NoElement {
			return sim.Action{}, fmt.Errorf("unknown element in %q (try elements)", cmd.Rest)
		}
		return sim.Action{Type: domain.StepConnect, Source: source, Target: target}, nil
	case CmdClick:
		return sim.Action{Type: domain.StepClick, Label: cmd.Rest}, nil
	}
	return sim.Action{}, fmt.Errorf("unsupported command %q", cmd.Name)
}

func (r *Runner) prompt(eng *tracer.Engine, step *sim.Step) Prompt {
	return Prompt{
		Index:     eng.Index(),
		Type:      step.Type,
		Text:      step.Prompt,
		Secondary: step.Secondary,
		Score:     eng.Score(),
	}
}

func (r *Runner) wait(ctx context.Context) error {
	if r.PauseDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(r.PauseDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (r *Runner) interrupted(h IOHandler) error {
	msg := "Interrupted."
	if r.Sessions != nil && r.SessionID != "" {
		msg = fmt.Sprintf("Interrupted. Resume with session %s.", r.SessionID)
	}
	_ = h.SystemOutput(context.Background(), msg)
	return nil
}

// save persists the engine state. It ignores the run context so a signal
// arriving mid-write cannot lose a resolved step.
func (r *Runner) save(eng *tracer.Engine) error {
	if r.Sessions == nil || r.SessionID == "" {
		return nil
	}
	state := eng.State()
	_, err := r.Sessions.Update(context.Background(), r.SessionID, func(_ context.Context, s *domain.Session) error {
		s.State = state
		return nil
	})
	if err != nil {
		return fmt.Errorf("critical persistence error: %w", err)
	}
	r.Logger.Debug("state saved", "session_id", r.SessionID, "last_step", state.LastStep)
	return nil
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	r.Handler = NewTextHandler(r.Input, r.Output, WithTextHandlerRenderer(r.Renderer))
	return r.Handler
}
