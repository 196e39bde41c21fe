package runner

import (
	"context"

	"github.com/aretw0/tracer/pkg/domain"
)

// Prompt is what the learner is shown for the pending step.
type Prompt struct {
	Index     int             `json:"index"`
	Type      domain.StepType `json:"type"`
	Text      string          `json:"text"`
	Secondary string          `json:"secondary,omitempty"`
	Score     domain.Score    `json:"score"`
}

// IOHandler defines the strategy for interacting with the learner.
type IOHandler interface {
	// Output presents the pending step.
	Output(ctx context.Context, p Prompt) error

	// Input reads one command line from the learner.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (feedback, score, listings).
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms prompt text before it is printed.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)
