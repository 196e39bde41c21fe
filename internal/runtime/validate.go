package runtime

import (
	"github.com/aretw0/tracer/pkg/domain"
	"github.com/aretw0/tracer/pkg/model"
	"github.com/aretw0/tracer/pkg/sim"
)

// match checks action against step. On success it returns the learner's value
// and, for select steps, the element chosen.
func match(a *model.Arena, step *sim.Step, action sim.Action) (bool, model.Value, domain.Element) {
	if action.Type != step.Type {
		return false, model.Value{}, domain.NoElement
	}

	switch step.Type {
	case domain.StepSelect:
		selected := action.Value
		if selected.IsUndefined() && action.Element != domain.NoElement {
			selected, _ = a.Lookup(action.Element)
		}
		if step.Elements != nil {
			if !step.Accepts(action.Element) {
				return false, model.Value{}, domain.NoElement
			}
			return true, selected, action.Element
		}
		if selected.IsUndefined() || !a.Eq(selected, step.Value) {
			return false, model.Value{}, domain.NoElement
		}
		return true, selected, action.Element

	case domain.StepInput:
		if step.Element != domain.NoElement && action.Element != domain.NoElement && action.Element != step.Element {
			return false, model.Value{}, domain.NoElement
		}
		if !step.Value.Matches(action.Text) {
			return false, model.Value{}, domain.NoElement
		}
		return true, model.ParseScalar(action.Text), domain.NoElement

	case domain.StepConnect:
		if action.Source != step.Source || action.Target != step.Target {
			return false, model.Value{}, domain.NoElement
		}
		return true, model.Undefined(), domain.NoElement

	case domain.StepClick:
		if action.Label != step.Value.Str() {
			return false, model.Value{}, domain.NoElement
		}
		return true, model.String(action.Label), domain.NoElement
	}
	return false, model.Value{}, domain.NoElement
}
