package domain

// Element is an opaque handle naming something the learner can point at: a node, a value
// slot, a graph edge, a code line or a button. Handles are allocated by the data model and
// mapped to visual surfaces by the renderer.
type Element string

// NoElement is the zero handle.
const NoElement Element = ""

// StepType defines the kind of interaction a step expects.
type StepType string

const (
	StepSelect  StepType = "select"
	StepInput   StepType = "input"
	StepConnect StepType = "connect"
	StepClick   StepType = "click"
	StepPause   StepType = "pause"
	StepNext    StepType = "next"
	StepStart   StepType = "start"
)

// Valid reports whether t is one of the recognized step types.
func (t StepType) Valid() bool {
	switch t {
	case StepSelect, StepInput, StepConnect, StepClick, StepPause, StepNext, StepStart:
		return true
	}
	return false
}

// Scored reports whether resolving a step of this type earns a point.
func (t StepType) Scored() bool {
	return t.Valid() && t != StepStart && t != StepNext && t != StepPause
}

// Interactive reports whether the step is resolved by a validated learner action
// rather than by a delay or an explicit continue.
func (t StepType) Interactive() bool {
	return t.Scored()
}

// Outcome is the result of submitting one learner action.
type Outcome struct {
	// Correct is false when the action did not match; the step stays pending.
	Correct bool `json:"correct"`
	// Step is the index of the step the action was checked against.
	Step int `json:"step"`
	// Terminal is true when the routine finished after this action.
	Terminal bool  `json:"terminal"`
	Score    Score `json:"score"`
}
