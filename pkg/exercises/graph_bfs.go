package exercises

import (
	"github.com/aretw0/tracer/pkg/model"
	"github.com/aretw0/tracer/pkg/sim"
)

// GraphData parametrizes GraphBFS. Edges are pairs of vertex indexes.
type GraphData struct {
	Vertices int      `json:"vertices" mapstructure:"vertices" validate:"min=2,max=8"`
	Edges    [][2]int `json:"edges" mapstructure:"edges" validate:"required,min=1"`
}

func randomGraph(s *sim.Sim) GraphData {
	n := s.Rand().Int(4, 6)
	var edges [][2]int
	for v := 1; v < n; v++ {
		edges = append(edges, [2]int{s.Rand().Int(0, v-1), v})
	}
	for range 2 {
		a, b := s.Rand().Int(0, n-1), s.Rand().Int(0, n-1)
		if a != b {
			edges = append(edges, [2]int{a, b})
		}
	}
	return GraphData{Vertices: n, Edges: edges}
}

// GraphBFS explores a graph breadth-first from vertex A. For every dequeued
// vertex the learner selects each edge leading to an undiscovered vertex.
func GraphBFS(s *sim.Sim, data any) error {
	p, err := load(data, func() GraphData { return randomGraph(s) })
	if err != nil {
		return err
	}
	s.Yield(s.Start(p))

	g := s.Graph()
	verts := make([]*model.Vertex, p.Vertices)
	for i := range verts {
		verts[i] = g.Vertex()
	}
	for _, e := range p.Edges {
		a, b := e[0], e[1]
		if a == b || a < 0 || b < 0 || a >= p.Vertices || b >= p.Vertices {
			continue
		}
		if g.FindEdge(verts[a], verts[b]) == nil {
			g.Edge(verts[a], verts[b])
		}
	}

	queue := s.Sequence(nil)
	s.Add(queue)
	discovered := map[*model.Vertex]bool{verts[0]: true}
	enqueue := func(v *model.Vertex) {
		v.SetColor("gray")
		_, err := queue.SetAt(queue.Len(), v)
		s.Check(err)
	}

	s.Yield(s.Ask(verts[0]).WithPrompt("Select the start vertex."))
	enqueue(verts[0])

	for head := 0; head < queue.Len(); head++ {
		v, ok := queue.At(head).Value().Node().(*model.Vertex)
		if !ok {
			break
		}
		queue.SetIndex("head", head)

		var tree []any
		var next []*model.Vertex
		for _, e := range g.Incident(v) {
			w := g.Other(e, v)
			if discovered[w] {
				continue
			}
			discovered[w] = true
			tree = append(tree, e)
			next = append(next, w)
		}
		if len(tree) > 0 {
			s.Yield(s.AskAll(func(ev model.Value) {
				ev.Edge().SetColor("blue")
			}, tree...).WithPrompt("Select every edge to an undiscovered vertex of " + v.Title() + "."))
		}
		// Enqueue in edge order, whatever order the edges were picked in.
		for _, w := range next {
			enqueue(w)
		}
		v.SetColor("black")
		s.Yield(s.Pause("Finished " + v.Title()))
	}
	return nil
}
