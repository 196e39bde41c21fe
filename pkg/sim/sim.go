// Package sim is the authoring surface handed to exercise routines.
//
// A routine is ordinary Go code that builds data structures through a Sim and
// yields Steps describing what the learner must do next:
//
//	func Swap(s *sim.Sim, data any) error {
//		vars := s.Frame()
//		x := s.Yield(s.Ask(5))
//		s.Yield(s.Set(s.Put(vars, "x", 0), x.AsInt()+1))
//		return nil
//	}
//
// Misuse of the authoring API (asking for a value that cannot be asked for,
// storing an unsupported type, ...) panics with an error wrapping
// domain.ErrConfiguration. The sequencer recovers it and reports it as an error.
package sim

import (
	"fmt"

	"github.com/aretw0/tracer/pkg/domain"
	"github.com/aretw0/tracer/pkg/model"
	"github.com/aretw0/tracer/pkg/prng"
)

// Routine is a deterministic step-producing procedure. Given the same data it
// must yield the same steps in the same order.
type Routine func(s *Sim, data any) error

// Sim binds a running routine to its arena, random generator and sequencer.
type Sim struct {
	arena   *model.Arena
	rand    *prng.Rand
	yield   func(*Step) model.Value
	widgets []any
}

// New creates the facade for one run. yield suspends the routine until the
// step is resolved and returns the value it resumes with.
func New(arena *model.Arena, rand *prng.Rand, yield func(*Step) model.Value) *Sim {
	return &Sim{
		arena: arena,
		rand:  rand,
		yield: yield,
	}
}

// Yield hands a step to the sequencer and blocks until it is resolved.
// It returns the step's expected value when one is defined, otherwise the
// value the learner supplied.
func (s *Sim) Yield(step *Step) model.Value {
	if step == nil {
		panic(domain.ConfigurationError("yielded a nil step"))
	}
	return s.yield(step)
}

// Silent reports whether the run is a silent replay. Routines may use it to
// skip purely visual work.
func (s *Sim) Silent() bool { return s.arena.Silent() }

// Arena returns the arena owning every node of the run.
func (s *Sim) Arena() *model.Arena { return s.arena }

// Rand returns the run's random generator.
func (s *Sim) Rand() *prng.Rand { return s.rand }

// Widgets returns the code, terminal and button widgets created so far.
func (s *Sim) Widgets() []any { return s.widgets }

// Check panics with err when it is not nil.
func (s *Sim) Check(err error) {
	if err != nil {
		panic(err)
	}
}

// Eq compares two values with the data model's equality rules.
func (s *Sim) Eq(x, y any) bool { return s.arena.Eq(x, y) }

// Add makes a node top-level and returns it.
func (s *Sim) Add(n model.Node) model.Node {
	s.Check(s.arena.Add(n))
	return n
}

// Remove takes a node, or a Ref to it, off the arena.
func (s *Sim) Remove(x any) {
	s.Check(s.arena.Remove(x))
}

// Put stores x under key in n and returns the slot.
func (s *Sim) Put(n model.Node, key string, x any) *model.Path {
	p, err := n.Set(key, x)
	s.Check(err)
	return p
}

// Assign stores x in an existing slot.
func (s *Sim) Assign(p *model.Path, x any) {
	if p == nil {
		panic(domain.ConfigurationError("assignment to a missing slot"))
	}
	s.Check(p.Set(x))
}

// RandDistinctInts draws n distinct integers from [low, high].
func (s *Sim) RandDistinctInts(n, low, high int) []int {
	vals, err := s.rand.DistinctInts(n, low, high)
	s.Check(err)
	return vals
}

func (s *Sim) wrap(x any) model.Value {
	v, err := s.arena.Wrap(x)
	s.Check(err)
	return v
}

// Ask builds a step asking the learner for x.
//
// A scalar (or nil) is typed in. Null is selected at its location, so it must
// be passed as the slot holding it. An address selects the slot it targets, a
// Ref or top-level node selects the node, and an edge is selected by value.
func (s *Sim) Ask(x any) *Step {
	if x == nil {
		return &Step{Type: domain.StepInput, Prompt: "Enter the value.", Description: "The new value is entered"}
	}
	slot, _ := x.(*model.Path)
	v := s.wrap(x)
	if u, ok := x.(model.Value); ok && u.IsUndefined() {
		v = u
	}

	switch v.Kind() {
	case model.KindUndefined, model.KindString, model.KindNumber, model.KindBool:
		return &Step{
			Type:        domain.StepInput,
			Value:       v,
			Prompt:      "Enter the value.",
			Description: fmt.Sprintf("The new value is %s", v),
		}
	case model.KindNull:
		if slot == nil {
			panic(domain.ConfigurationError("cannot ask for null without the slot holding it"))
		}
		return &Step{
			Type:        domain.StepSelect,
			Elements:    []domain.Element{slot.Element()},
			Value:       v,
			Prompt:      "Select the location of the null pointer.",
			Description: "Selecting " + slot.Name(),
		}
	case model.KindAddr:
		target := v.Path()
		return &Step{
			Type:        domain.StepSelect,
			Elements:    []domain.Element{target.Element()},
			Value:       v,
			Prompt:      "Select the pointer target.",
			Description: "Selecting " + target.Name(),
		}
	case model.KindRef:
		n := v.Node()
		return &Step{
			Type:        domain.StepSelect,
			Elements:    []domain.Element{n.Element()},
			Value:       v,
			Prompt:      "Select the target.",
			Description: "Selecting " + n.Name(),
		}
	case model.KindEdge:
		return &Step{
			Type:        domain.StepSelect,
			Value:       v,
			Prompt:      "Select the edge.",
			Description: "Selecting " + v.Edge().Name(),
		}
	}
	panic(domain.ConfigurationError("cannot ask for %s", v))
}

// AskAll builds a step accepting any of several values.
//
// Scalars, nulls, addresses and refs behave as in Ask, with every value
// acceptable. Top-level nodes and edges form a batch: the step stays pending
// until each candidate has been selected once, and each runs for every
// candidate as it is selected.
func (s *Sim) AskAll(each func(model.Value), values ...any) *Step {
	if len(values) == 0 {
		panic(domain.ConfigurationError("ask for no values"))
	}
	wrapped := make([]model.Value, len(values))
	kinds := make(map[model.Kind]int)
	bareNodes := 0
	for i, x := range values {
		if x == nil {
			wrapped[i] = model.Undefined()
		} else {
			wrapped[i] = s.wrap(x)
		}
		kinds[wrapped[i].Kind()]++
		if _, ok := x.(model.Node); ok {
			bareNodes++
		}
	}
	all := func(k model.Kind) bool { return kinds[k] == len(values) }

	for _, v := range wrapped {
		if v.IsUndefined() || v.IsScalar() {
			return &Step{
				Type:        domain.StepInput,
				Value:       wrapped[0],
				Prompt:      "Enter the value.",
				Description: fmt.Sprintf("The new value is %s", wrapped[0]),
			}
		}
	}

	step := &Step{Type: domain.StepSelect, Value: wrapped[0]}
	switch {
	case all(model.KindNull):
		for _, x := range values {
			slot, ok := x.(*model.Path)
			if !ok {
				panic(domain.ConfigurationError("cannot ask for null without the slot holding it"))
			}
			step.Elements = append(step.Elements, slot.Element())
		}
		step.Prompt = "Select the location of the null pointer."
		step.Description = "Selecting a null pointer"
	case all(model.KindAddr):
		for _, v := range wrapped {
			step.Elements = append(step.Elements, v.Path().Element())
		}
		step.Prompt = "Select the pointer target."
		step.Description = "Selecting " + wrapped[0].Path().Name()
	case all(model.KindRef) && bareNodes < len(values):
		for _, v := range wrapped {
			step.Elements = append(step.Elements, v.Node().Element())
		}
		step.Prompt = "Select the target."
		step.Description = "Selecting " + wrapped[0].Node().Name()
	case all(model.KindEdge), all(model.KindRef):
		b := &batch{each: each}
		for _, v := range wrapped {
			e := v.Node()
			if e != nil {
				b.candidates = append(b.candidates, candidate{element: e.Element(), value: v})
			} else {
				b.candidates = append(b.candidates, candidate{element: v.Edge().Element(), value: v})
			}
		}
		step.batch = b
		step.Elements = b.elements()
		if all(model.KindEdge) {
			step.Prompt = "Select the edge."
		} else {
			step.Prompt = "Select the target."
		}
		step.Description = "Selecting " + wrapped[0].String()
	default:
		panic(domain.ConfigurationError("cannot ask for %s", wrapped[0]))
	}
	return step
}

// Set builds a step asking the learner to store rhs in lhs. The assignment
// happens when the step is resolved.
//
// A scalar is typed into the slot. An address, Ref or top-level node is
// connected to with an arrow.
func (s *Sim) Set(lhs *model.Path, rhs any) *Step {
	if lhs == nil {
		panic(domain.ConfigurationError("set target is not a slot"))
	}
	if rhs == nil {
		panic(domain.ConfigurationError("cannot set %s to nil", lhs.Name()))
	}
	v := s.wrap(rhs)
	assign := func(model.Value) { s.Check(lhs.Set(v)) }

	switch v.Kind() {
	case model.KindString, model.KindNumber, model.KindBool:
		return &Step{
			Type:        domain.StepInput,
			Value:       v,
			Element:     lhs.Element(),
			Prompt:      "Update the value.",
			Done:        assign,
			Description: fmt.Sprintf("Setting %s to %s", lhs.Name(), v),
		}
	case model.KindAddr:
		target := v.Path()
		return &Step{
			Type:        domain.StepConnect,
			Source:      lhs.Element(),
			Target:      target.Element(),
			Prompt:      "Drag the arrow from the start to the end.",
			Done:        assign,
			Description: fmt.Sprintf("Connecting %s to %s", lhs.Name(), target.Name()),
		}
	case model.KindRef:
		n := v.Node()
		return &Step{
			Type:        domain.StepConnect,
			Source:      lhs.Element(),
			Target:      n.Element(),
			Prompt:      "Drag the arrow from the start to the end.",
			Done:        assign,
			Description: fmt.Sprintf("Connecting %s to %s", lhs.Name(), n.Name()),
		}
	}
	panic(domain.ConfigurationError("cannot set %s to %s", lhs.Name(), v))
}

// Click builds a step asking the learner to press the button labeled label.
func (s *Sim) Click(label string) *Step {
	return &Step{
		Type:        domain.StepClick,
		Value:       model.String(label),
		Prompt:      "Click the button.",
		Description: "Next step: " + label,
	}
}

// Pause builds a step that shows prompt and continues on its own after a delay.
func (s *Sim) Pause(prompt string) *Step {
	return &Step{Type: domain.StepPause, Prompt: prompt, Description: prompt}
}

// Next builds a step that shows prompt and waits for the learner to continue.
func (s *Sim) Next(prompt string) *Step {
	return &Step{Type: domain.StepNext, Prompt: prompt, Description: prompt}
}

// Start builds the optional first step, pinning the data payload the run uses.
// Restoring a session replays the routine against this payload.
func (s *Sim) Start(state any) *Step {
	return &Step{Type: domain.StepStart, State: state}
}

// Object creates an empty object.
func (s *Sim) Object() *model.Object { return model.NewObject(s.arena) }

// Frame creates an empty variable frame.
func (s *Sim) Frame() *model.Frame { return model.NewFrame(s.arena) }

// Array creates an array holding values.
func (s *Sim) Array(values ...any) *model.Array {
	a, err := model.NewArray(s.arena, values...)
	s.Check(err)
	return a
}

// Sequence creates a sequence from a string, a slice or a single value.
func (s *Sim) Sequence(values any) *model.Sequence {
	seq, err := model.NewSequence(s.arena, values)
	s.Check(err)
	return seq
}

// Matrix creates a matrix from its rows.
func (s *Sim) Matrix(rows [][]any) *model.Matrix {
	m, err := model.NewMatrix(s.arena, rows)
	s.Check(err)
	return m
}

// Graph creates an undirected graph.
func (s *Sim) Graph() *model.Graph { return model.NewGraph(s.arena) }

// Digraph creates a directed graph.
func (s *Sim) Digraph() *model.Graph { return model.NewDigraph(s.arena) }

// TreeNode creates a binary tree node holding value.
func (s *Sim) TreeNode(value any) *model.TreeNode {
	n, err := model.NewTreeNode(s.arena, value)
	s.Check(err)
	return n
}
