package tui

import (
	"context"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/aretw0/tracer/pkg/runner"
)

// Feedback colors the runner's verdict messages: green for a correct answer,
// red for a rejected one, faint for hints.
type Feedback struct {
	runner.IOHandler
	out *termenv.Output
}

// WithFeedback decorates h, writing colors suited to w.
func WithFeedback(h runner.IOHandler, w io.Writer) *Feedback {
	return &Feedback{IOHandler: h, out: termenv.NewOutput(w)}
}

func (f *Feedback) SystemOutput(ctx context.Context, msg string) error {
	style := f.out.String(msg)
	switch {
	case msg == "Correct.", strings.HasPrefix(msg, "Finished."):
		msg = style.Foreground(f.out.Color("#22c55e")).Bold().String()
	case strings.HasPrefix(msg, "Not quite"):
		msg = style.Foreground(f.out.Color("#ef4444")).String()
	case strings.HasPrefix(msg, "Hint:"):
		msg = style.Faint().String()
	}
	return f.IOHandler.SystemOutput(ctx, msg)
}
