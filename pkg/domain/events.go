package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStepEnter      EventType = "step_enter"
	EventStepResolved   EventType = "step_resolved"
	EventActionRejected EventType = "action_rejected"
	EventTerminal       EventType = "terminal"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Exercise  string    `json:"exercise,omitempty"`
}

// StepEvent describes a step being presented, resolved or rejected.
type StepEvent struct {
	EventBase
	Index       int      `json:"index"`
	StepType    StepType `json:"step_type"`
	Prompt      string   `json:"prompt,omitempty"`
	Description string   `json:"description,omitempty"`
}

// TerminalEvent is emitted once the routine returns.
type TerminalEvent struct {
	EventBase
	Steps int   `json:"steps"`
	Score Score `json:"score"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks are never invoked during silent replay.
type LifecycleHooks struct {
	OnStepEnter      func(context.Context, *StepEvent)
	OnStepResolved   func(context.Context, *StepEvent)
	OnActionRejected func(context.Context, *StepEvent)
	OnTerminal       func(context.Context, *TerminalEvent)
}
