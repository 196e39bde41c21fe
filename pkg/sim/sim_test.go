package sim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tracer/pkg/domain"
	"github.com/aretw0/tracer/pkg/model"
	"github.com/aretw0/tracer/pkg/prng"
	"github.com/aretw0/tracer/pkg/sim"
)

func newSim() *sim.Sim {
	return sim.New(model.NewArena(), prng.New(0.5), func(*sim.Step) model.Value { return model.Undefined() })
}

func panicErr(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	fn()
	return nil
}

func TestCode_StepsThroughSelectableLines(t *testing.T) {
	s := newSim()
	code := s.Code("\nfor {\n\tx++\n}\nreturn\n\n")

	assert.Equal(t, []string{"for {", "\tx++", "}", "return"}, code.Lines())
	assert.Equal(t, 1, code.Current())
	assert.Equal(t, 2, code.NextLine())
	assert.Equal(t, 4, code.Go(2).NextLine(), "a closing brace is skipped")

	step := code.Ask()
	assert.Equal(t, domain.StepSelect, step.Type)
	assert.Equal(t, []domain.Element{"line:1:4"}, step.Elements)
	step.Done(model.Undefined())
	assert.Equal(t, 4, code.Current())
	assert.Equal(t, -1, code.NextLine())
	assert.Len(t, s.Widgets(), 1)
}

func TestTerminal_Ask(t *testing.T) {
	s := newSim()
	term := s.Terminal().Print("a").Println("b")

	expected := term.Ask("c")
	assert.Equal(t, domain.StepInput, expected.Type)
	assert.Equal(t, domain.Element("terminal:1:3"), expected.Element)
	assert.True(t, expected.Value.Matches(" c "))
	expected.Done(model.Undefined())

	free := term.Ask()
	assert.True(t, free.Value.IsUndefined())
	free.Done(model.String("hi"))

	assert.Equal(t, "ab\nc\nhi\n", term.Output())
	lines := term.Lines()
	require.Len(t, lines, 4)
	assert.False(t, lines[2].Input)
	assert.True(t, lines[3].Input)
}

func TestButtons_AskRunsAction(t *testing.T) {
	s := newSim()
	pressed := false
	buttons := s.Buttons("Done").Add("Again", func() { pressed = true }).Add("Done", nil)

	assert.Equal(t, []string{"Done", "Again"}, buttons.Labels())
	step := buttons.Ask("Again")
	assert.Equal(t, []domain.Element{"button:1:Again"}, step.Elements)
	step.Done(model.Undefined())
	assert.True(t, pressed)
}

func TestAsk(t *testing.T) {
	s := newSim()
	vars := s.Frame()
	slot := s.Put(vars, "p", model.Null())

	free := s.Ask(nil)
	assert.Equal(t, domain.StepInput, free.Type)
	assert.True(t, free.Value.IsUndefined())

	typed := s.Ask(3)
	assert.Equal(t, "The new value is 3", typed.Description)

	null := s.Ask(slot)
	assert.Equal(t, domain.StepSelect, null.Type)
	assert.Equal(t, []domain.Element{slot.Element()}, null.Elements)

	addr := s.Ask(slot.Addr())
	assert.Equal(t, "Selecting Variables 1.p", addr.Description)

	err := panicErr(func() { s.Ask(model.Null()) })
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	err = panicErr(func() { s.Yield(nil) })
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
