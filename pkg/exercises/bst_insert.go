package exercises

import (
	"fmt"

	"github.com/aretw0/tracer/pkg/model"
	"github.com/aretw0/tracer/pkg/sim"
)

// TreeData parametrizes BSTInsert.
type TreeData struct {
	Values []int `json:"values" mapstructure:"values" validate:"required,min=1,max=10"`
}

// BSTInsert inserts each value into a binary search tree. The learner selects
// every node the new value is compared with, then links the new node in.
func BSTInsert(s *sim.Sim, data any) error {
	p, err := load(data, func() TreeData {
		return TreeData{Values: s.RandDistinctInts(5, 1, 50)}
	})
	if err != nil {
		return err
	}
	s.Yield(s.Start(p))

	vars := s.Frame()
	s.Add(vars)
	root := s.Put(vars, "root", model.Null())

	for _, v := range p.Values {
		n := s.TreeNode(v)
		slot := root
		for slot.Value().Kind() == model.KindRef {
			cur, ok := slot.Value().Node().(*model.TreeNode)
			if !ok {
				return fmt.Errorf("%s does not hold a tree node", slot.Name())
			}
			s.Yield(s.Ask(cur).
				WithPrompt(fmt.Sprintf("Select the node %d is compared with.", v)))
			if v < cur.Value().Value().AsInt() {
				slot = cur.Left()
			} else {
				slot = cur.Right()
			}
		}
		s.Yield(s.Set(slot, n))
	}
	return nil
}
