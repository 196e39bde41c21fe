package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/aretw0/tracer"
	"github.com/aretw0/tracer/internal/presentation/graph"
	"github.com/aretw0/tracer/internal/presentation/tui"
	"github.com/aretw0/tracer/pkg/domain"
	"github.com/aretw0/tracer/pkg/runner"
	"github.com/aretw0/tracer/pkg/session"
)

// RunOptions configures an interactive run.
type RunOptions struct {
	Exercise  string
	SessionID string
	Data      any
	// Board prints structural changes of the run as they happen.
	Board bool
	Quiet bool

	Input  io.Reader
	Output io.Writer
}

// RunSession runs an exercise interactively, resuming the session if it exists.
func RunSession(ctx context.Context, app *App, opts RunOptions) error {
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if err := app.ping(ctx); err != nil {
		return err
	}
	if _, err := app.Catalog.Lookup(opts.Exercise); err != nil {
		return err
	}
	if opts.SessionID == "" {
		opts.SessionID = session.NewID()
	}

	sess, err := app.Sessions.LoadOrStart(ctx, opts.SessionID, opts.Exercise, opts.Data)
	if err != nil {
		return err
	}
	resumed := sess.State.LastStep >= 0

	var engineOpts []tracer.Option
	if opts.Board {
		engineOpts = append(engineOpts, tracer.WithRenderer(tui.NewBoard(opts.Output)))
	}
	engine, err := app.NewEngine(opts.Exercise, engineOpts...)
	if err != nil {
		return err
	}
	defer engine.Close()

	interactive := isTerminal(opts.Output)
	if interactive && !opts.Quiet {
		tui.PrintBanner(opts.Output, tracer.Version)
	}
	if err := engine.Restore(ctx, sess.State); err != nil {
		return fmt.Errorf("failed to restore session %s: %w", sess.ID, err)
	}

	if !opts.Quiet {
		if resumed {
			printSystemMessage("Resuming session '%s' at step %d.", sess.ID, engine.Index())
		} else {
			printSystemMessage("Session '%s' active. Type help for commands.", sess.ID)
		}
	}
	app.Logger.Info("session opened", "session_id", sess.ID, "exercise", opts.Exercise, "resumed", resumed)

	var handler runner.IOHandler = runner.NewTextHandler(opts.Input, opts.Output, runner.WithTextHandlerRenderer(prompts(interactive)))
	if interactive {
		handler = tui.WithFeedback(handler, opts.Output)
	}

	r := runner.NewRunner(
		runner.WithInputHandler(handler),
		runner.WithSession(app.Sessions, sess.ID),
		runner.WithPauseDelay(app.Config.PauseDelay),
		runner.WithLogger(app.Logger),
	)
	return r.Run(ctx, engine)
}

// prompts returns the glamour renderer on a terminal and nil elsewhere.
func prompts(interactive bool) runner.ContentRenderer {
	if !interactive {
		return nil
	}
	render, err := tui.NewRenderer(tui.Width(os.Stdout))
	if err != nil {
		return nil
	}
	return render
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && tui.IsInteractive(f)
}

// Diagram restores a session and renders its structures as a Mermaid flowchart.
func Diagram(ctx context.Context, app *App, sessionID string) (string, error) {
	sess, err := app.Sessions.Load(ctx, sessionID)
	if err != nil {
		return "", err
	}
	engine, err := app.NewEngine(sess.Exercise)
	if err != nil {
		return "", err
	}
	defer engine.Close()

	if err := engine.Restore(ctx, sess.State); err != nil {
		return "", fmt.Errorf("failed to restore session %s: %w", sess.ID, err)
	}
	overlay := &graph.Overlay{}
	if step := engine.Current(); step != nil {
		for _, el := range append(slices.Clone(step.Elements), step.Element, step.Source, step.Target) {
			if el != domain.NoElement {
				overlay.Current = append(overlay.Current, el)
			}
		}
	}
	return graph.GenerateMermaid(engine.Arena(), overlay), nil
}
