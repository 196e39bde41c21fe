package runner

import (
	"fmt"
	"strings"

	"github.com/aretw0/tracer"
	"github.com/aretw0/tracer/pkg/domain"
	"github.com/aretw0/tracer/pkg/sim"
)

// Entry is one thing of the live run the learner can point at.
type Entry struct {
	Element domain.Element `json:"element"`
	Name    string         `json:"name"`
	Detail  string         `json:"detail,omitempty"`
}

func (e Entry) String() string {
	if e.Detail == "" {
		return fmt.Sprintf("%-14s %s", e.Element, e.Name)
	}
	return fmt.Sprintf("%-14s %s = %s", e.Element, e.Name, e.Detail)
}

// Elements lists the nodes, slots, edges, code lines and buttons of the live run.
func Elements(eng *tracer.Engine) []Entry {
	arena := eng.Arena()
	if arena == nil {
		return nil
	}
	var out []Entry
	for _, n := range arena.Nodes() {
		out = append(out, Entry{Element: n.Element(), Name: n.Name()})
		for _, key := range n.Keys() {
			p := n.Get(key)
			if p == nil || !p.Live() {
				continue
			}
			out = append(out, Entry{Element: p.Element(), Name: p.Name(), Detail: p.Value().String()})
		}
	}
	for _, e := range arena.Edges() {
		entry := Entry{Element: e.Element(), Name: e.Name()}
		if !e.Label().IsUndefined() {
			entry.Detail = e.Label().String()
		}
		out = append(out, entry)
	}
	for _, w := range eng.Widgets() {
		switch w := w.(type) {
		case *sim.Code:
			for i, line := range w.Lines() {
				if w.Selectable(line) {
					out = append(out, Entry{Element: w.LineElement(i + 1), Name: fmt.Sprintf("L%d", i+1), Detail: strings.TrimSpace(line)})
				}
			}
		case *sim.Buttons:
			for _, label := range w.Labels() {
				out = append(out, Entry{Element: w.Element(label), Name: label})
			}
		}
	}
	return out
}

// resolve finds the element designated by arg, either by handle or by display name.
func resolve(entries []Entry, arg string) domain.Element {
	for _, e := range entries {
		if string(e.Element) == arg {
			return e.Element
		}
	}
	for _, e := range entries {
		if strings.EqualFold(e.Name, arg) {
			return e.Element
		}
	}
	return domain.NoElement
}

// FormatAction renders an action as the command that submits it.
func FormatAction(eng *tracer.Engine, a sim.Action) string {
	name := func(el domain.Element) string {
		return fmt.Sprintf("%s (%s)", el, eng.Describe(el))
	}
	switch a.Type {
	case domain.StepSelect:
		if a.Element != domain.NoElement {
			return "select " + name(a.Element)
		}
		return "select " + a.Value.String()
	case domain.StepInput:
		return "input " + a.Text
	case domain.StepConnect:
		return fmt.Sprintf("connect %s %s", name(a.Source), name(a.Target))
	case domain.StepClick:
		return "click " + a.Label
	}
	return CmdContinue
}
