package sim

import (
	"slices"

	"github.com/aretw0/tracer/pkg/domain"
	"github.com/aretw0/tracer/pkg/model"
)

// Step is one unit of learner interaction yielded by a routine.
type Step struct {
	Type domain.StepType

	// Value is the expected answer. For select steps without Elements it is
	// compared with the selected value; for input steps it is matched against
	// the typed text; for click steps it holds the button label.
	// It is also what the routine resumes with, when defined.
	Value model.Value

	// Elements lists the acceptable targets of a select step. When nil the
	// selection is compared by value instead.
	Elements []domain.Element

	// Element is the field an input step types into, if any.
	Element domain.Element

	// Source and Target are the endpoints of a connect step.
	Source domain.Element
	Target domain.Element

	Prompt      string
	Secondary   string
	Description string

	// State is the data payload carried by a start step.
	State any

	// Done runs when the step is resolved, with the resolved learner value
	// (undefined when resolved without learner input).
	Done func(actual model.Value)

	batch *batch
}

// WithPrompt replaces the main instruction.
func (s *Step) WithPrompt(prompt string) *Step {
	s.Prompt = prompt
	return s
}

// WithSecondary sets the secondary instruction.
func (s *Step) WithSecondary(secondary string) *Step {
	s.Secondary = secondary
	return s
}

// WithDescription replaces the playback description.
func (s *Step) WithDescription(description string) *Step {
	s.Description = description
	return s
}

// OnDone chains fn after the existing completion callback.
func (s *Step) OnDone(fn func(actual model.Value)) *Step {
	prev := s.Done
	s.Done = func(actual model.Value) {
		if prev != nil {
			prev(actual)
		}
		fn(actual)
	}
	return s
}

// Batched reports whether the step is an ask-all over several candidates.
func (s *Step) Batched() bool { return s.batch != nil }

// Remaining returns the candidates of a batched step not yet resolved.
func (s *Step) Remaining() int {
	if s.batch == nil {
		return 0
	}
	return len(s.batch.candidates)
}

// Take resolves one candidate of a batched step and runs the per-candidate
// callback for it. Candidates drain in declared order whichever remaining
// candidate e names, so replay rebuilds the same structure.
func (s *Step) Take(e domain.Element) {
	if s.batch == nil {
		return
	}
	s.batch.take()
	s.Elements = s.batch.elements()
}

// Accepts reports whether e is one of the acceptable targets of a select step.
func (s *Step) Accepts(e domain.Element) bool {
	return slices.Contains(s.Elements, e)
}

// Solution returns an action that resolves the step, for hints and automated play.
func (s *Step) Solution() Action {
	a := Action{Type: s.Type}
	switch s.Type {
	case domain.StepSelect:
		switch {
		case len(s.Elements) > 0:
			a.Element = s.Elements[0]
		case s.Value.Edge() != nil:
			a.Element = s.Value.Edge().Element()
		case s.Value.Node() != nil:
			a.Element = s.Value.Node().Element()
		default:
			a.Value = s.Value
		}
	case domain.StepInput:
		a.Element = s.Element
		a.Text = s.Value.Str()
	case domain.StepConnect:
		a.Source = s.Source
		a.Target = s.Target
	case domain.StepClick:
		a.Label = s.Value.Str()
	}
	return a
}

type candidate struct {
	element domain.Element
	value   model.Value
}

// batch holds the candidates of an ask-all step. Each resolution drains the
// first remaining candidate; the step stays pending until none remain.
type batch struct {
	candidates []candidate
	each       func(model.Value)
}

func (b *batch) take() {
	if len(b.candidates) == 0 {
		return
	}
	c := b.candidates[0]
	b.candidates = b.candidates[1:]
	if b.each != nil {
		b.each(c.value)
	}
}

func (b *batch) elements() []domain.Element {
	out := make([]domain.Element, len(b.candidates))
	for i, c := range b.candidates {
		out[i] = c.element
	}
	return out
}

// Action is a learner interaction submitted against the pending step.
type Action struct {
	Type domain.StepType `json:"type" mapstructure:"type"`

	// Element is the selected target (select) or the edited field (input).
	Element domain.Element `json:"element,omitempty" mapstructure:"element"`

	// Value is the selected value, for selections compared by value.
	Value model.Value `json:"-" mapstructure:"-"`

	// Text is the typed input.
	Text string `json:"text,omitempty" mapstructure:"text"`

	Source domain.Element `json:"source,omitempty" mapstructure:"source"`
	Target domain.Element `json:"target,omitempty" mapstructure:"target"`

	// Label is the clicked button.
	Label string `json:"label,omitempty" mapstructure:"label"`
}
