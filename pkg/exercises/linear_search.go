package exercises

import (
	"github.com/aretw0/tracer/pkg/prng"
	"github.com/aretw0/tracer/pkg/sim"
)

// SearchData parametrizes LinearSearch.
type SearchData struct {
	Values []int `json:"values" mapstructure:"values" validate:"required,min=1,max=12"`
	Target int   `json:"target" mapstructure:"target"`
}

const linearSearchCode = `
for i := 0; i < len(a); i++ {
	if a[i] == target {
		return i
	}
}
return -1
`

// LinearSearch walks the learner through a linear search: each iteration sets
// i, then picks the next line to execute.
func LinearSearch(s *sim.Sim, data any) error {
	p, err := load(data, func() SearchData {
		values := s.RandDistinctInts(6, 1, 30)
		target := prng.Select(s.Rand(), values...)
		if s.Rand().Boolean() {
			target = 0
		}
		return SearchData{Values: values, Target: target}
	})
	if err != nil {
		return err
	}
	s.Yield(s.Start(p))

	code := s.Code(linearSearchCode)
	a := s.Sequence(p.Values)
	s.Add(a)
	vars := s.Frame()
	s.Add(vars)
	s.Put(vars, "target", p.Target)
	i := s.Put(vars, "i", "")

	for k, v := range p.Values {
		s.Yield(s.Set(i, k))
		a.SetIndex("i", k)
		s.Yield(code.Ask(2))
		if v == p.Target {
			s.Yield(code.Ask(3))
			return nil
		}
		s.Yield(code.Ask(1))
	}
	a.DeleteIndex("i")
	s.Yield(code.Ask(6))
	return nil
}
