package sim

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/tracer/pkg/domain"
	"github.com/aretw0/tracer/pkg/model"
)

var unselectableLines = []string{"", "{", "}", "else", "else:", "else :", "do"}

// Code displays a listing whose lines the learner steps through.
// Lines are numbered from 1.
type Code struct {
	id      int
	lines   []string
	current int
	pseudo  bool
}

// Code creates a listing from src, ignoring leading and trailing blank lines.
func (s *Sim) Code(src string) *Code {
	lines := strings.Split(src, "\n")
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	c := &Code{id: s.arena.NextWidgetID(), lines: lines[start:end], current: 1}
	s.widgets = append(s.widgets, c)
	return c
}

// Pseudo marks the listing as pseudocode for display.
func (c *Code) Pseudo() *Code {
	c.pseudo = true
	return c
}

// IsPseudo reports whether the listing is pseudocode.
func (c *Code) IsPseudo() bool { return c.pseudo }

// Lines returns the listing.
func (c *Code) Lines() []string { return slices.Clone(c.lines) }

// Current returns the highlighted line.
func (c *Code) Current() int { return c.current }

// Selectable reports whether a line can be stepped to.
func (c *Code) Selectable(line string) bool {
	return !slices.Contains(unselectableLines, strings.TrimSpace(line))
}

// NextLine returns the first selectable line after the current one, or -1.
func (c *Code) NextLine() int {
	for i := c.current + 1; i <= len(c.lines); i++ {
		if c.Selectable(c.lines[i-1]) {
			return i
		}
	}
	return -1
}

// Go highlights line.
func (c *Code) Go(line int) *Code {
	c.current = line
	return c
}

// Advance highlights the next selectable line.
func (c *Code) Advance() *Code {
	return c.Go(c.NextLine())
}

// LineElement returns the handle of a line.
func (c *Code) LineElement(line int) domain.Element {
	return domain.Element(fmt.Sprintf("line:%d:%d", c.id, line))
}

// Ask builds a step asking the learner to select one of lines, or the next
// selectable line when none are given. Resolving it highlights the first line.
func (c *Code) Ask(lines ...int) *Step {
	if len(lines) == 0 {
		lines = []int{c.NextLine()}
	}
	elements := make([]domain.Element, len(lines))
	for i, l := range lines {
		elements[i] = c.LineElement(l)
	}
	target := lines[0]
	return &Step{
		Type:        domain.StepSelect,
		Elements:    elements,
		Prompt:      "Click on the next line to execute.",
		Done:        func(model.Value) { c.Go(target) },
		Description: fmt.Sprintf("Moving to line %d", target),
	}
}

// TerminalLine is one line of terminal output.
type TerminalLine struct {
	Text    string
	Input   bool
	Newline bool
}

// Terminal displays program output, some of which the learner predicts.
type Terminal struct {
	id    int
	lines []*TerminalLine
}

// Terminal creates an empty terminal.
func (s *Sim) Terminal() *Terminal {
	t := &Terminal{id: s.arena.NextWidgetID()}
	s.widgets = append(s.widgets, t)
	return t
}

// Print appends text without a line break.
func (t *Terminal) Print(text string) *Terminal {
	t.lines = append(t.lines, &TerminalLine{Text: text})
	return t
}

// Println appends a line.
func (t *Terminal) Println(text string) *Terminal {
	t.lines = append(t.lines, &TerminalLine{Text: text, Newline: true})
	return t
}

// Input appends a line of user input.
func (t *Terminal) Input(text string) *Terminal {
	t.lines = append(t.lines, &TerminalLine{Text: text, Input: true, Newline: true})
	return t
}

// Lines returns the terminal content.
func (t *Terminal) Lines() []TerminalLine {
	out := make([]TerminalLine, len(t.lines))
	for i, l := range t.lines {
		out[i] = *l
	}
	return out
}

// Output returns the terminal content as text.
func (t *Terminal) Output() string {
	var b strings.Builder
	for _, l := range t.lines {
		b.WriteString(l.Text)
		if l.Newline {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Ask builds a step asking the learner to type the next output line. With no
// expected line any text is accepted and echoed as user input.
func (t *Terminal) Ask(expected ...string) *Step {
	line := &TerminalLine{Newline: true}
	t.lines = append(t.lines, line)
	element := domain.Element(fmt.Sprintf("terminal:%d:%d", t.id, len(t.lines)))

	step := &Step{
		Type:    domain.StepInput,
		Element: element,
		Prompt:  "Enter the next output.",
	}
	if len(expected) > 0 {
		step.Value = model.String(expected[0])
		step.Description = "Terminal output " + expected[0]
		step.Done = func(model.Value) { line.Text = expected[0] }
	} else {
		line.Input = true
		step.Description = "Terminal input"
		step.Done = func(actual model.Value) { line.Text = actual.Str() }
	}
	return step
}

// Buttons is a row of labeled buttons with optional actions.
type Buttons struct {
	id      int
	labels  []string
	actions map[string]func()
}

// Buttons creates a button row with the given labels.
func (s *Sim) Buttons(labels ...string) *Buttons {
	b := &Buttons{id: s.arena.NextWidgetID(), actions: make(map[string]func())}
	for _, l := range labels {
		b.Add(l, nil)
	}
	s.widgets = append(s.widgets, b)
	return b
}

// Add appends a button running action when its step is resolved.
func (b *Buttons) Add(label string, action func()) *Buttons {
	if !slices.Contains(b.labels, label) {
		b.labels = append(b.labels, label)
	}
	if action != nil {
		b.actions[label] = action
	}
	return b
}

// Labels returns the button labels in display order.
func (b *Buttons) Labels() []string { return slices.Clone(b.labels) }

// Element returns the handle of a button.
func (b *Buttons) Element(label string) domain.Element {
	return domain.Element(fmt.Sprintf("button:%d:%s", b.id, label))
}

// Ask builds a step asking the learner to press the button labeled label.
func (b *Buttons) Ask(label string) *Step {
	return &Step{
		Type:     domain.StepSelect,
		Elements: []domain.Element{b.Element(label)},
		Prompt:   "Click the button.",
		Done: func(model.Value) {
			if action := b.actions[label]; action != nil {
				action()
			}
		},
		Description: "Next step: " + label,
	}
}
