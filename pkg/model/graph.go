package model

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/aretw0/tracer/pkg/domain"
)

const (
	defaultVertexColor = "lightsteelblue"
	defaultEdgeColor   = "black"
)

// Vertex is a graph vertex titled A, B, C, ... It is a record with a hidden color
// and is always top-level.
type Vertex struct {
	base
	title    string
	color    string
	outgoing []*Edge
	incoming []*Edge
}

// Set stores x under the field name key. The key "color" sets the hidden color.
func (v *Vertex) Set(key string, x any) (*Path, error) {
	if key == "color" {
		c, err := v.arena.Wrap(x)
		if err != nil {
			return nil, err
		}
		v.SetColor(c.Str())
		return nil, nil
	}
	return v.setWrapped(key, x)
}

// Title returns the vertex letter.
func (v *Vertex) Title() string { return v.title }

// Color returns the hidden display color.
func (v *Vertex) Color() string { return v.color }

// SetColor changes the display color.
func (v *Vertex) SetColor(c string) {
	v.color = c
	if !v.arena.silent && v.arena.renderer != nil {
		v.arena.renderer.Place(v)
	}
}

// Edge connects two vertices and carries an optional value.
type Edge struct {
	id    EdgeID
	arena *Arena
	from  *Vertex
	to    *Vertex
	color string
	value Value
	// directed is inherited from the graph.
	directed bool
}

// Name returns the concatenated endpoint titles, e.g. "AB".
func (e *Edge) Name() string { return e.from.title + e.to.title }

// Element returns the handle of the rendered edge.
func (e *Edge) Element() domain.Element {
	return domain.Element("edge:" + strconv.Itoa(int(e.id)))
}

// Directed reports whether the edge points from From to To.
func (e *Edge) Directed() bool { return e.directed }

// From returns the first endpoint.
func (e *Edge) From() *Vertex { return e.from }

// To returns the second endpoint.
func (e *Edge) To() *Vertex { return e.to }

// Color returns the display color.
func (e *Edge) Color() string { return e.color }

// SetColor changes the display color.
func (e *Edge) SetColor(c string) { e.color = c }

// Label returns the value carried by the edge.
func (e *Edge) Label() Value { return e.value }

// SetLabel stores a value on the edge.
func (e *Edge) SetLabel(x any) error {
	v, err := e.arena.Wrap(x)
	if err != nil {
		return err
	}
	e.value = v
	return nil
}

// Value returns the edge itself as a selectable value.
func (e *Edge) Value() Value {
	return Value{kind: KindEdge, id: int(e.id), arena: e.arena}
}

func compareVertices(u, v *Vertex) int { return cmp.Compare(u.title, v.title) }

func compareEdges(e, f *Edge) int {
	if d := compareVertices(e.from, f.from); d != 0 {
		return d
	}
	return compareVertices(e.to, f.to)
}

func insertSorted[T any](s []T, x T, compare func(T, T) int) []T {
	i, _ := slices.BinarySearchFunc(s, x, compare)
	return slices.Insert(s, i, x)
}

// Graph is an undirected or directed graph of vertices and edges.
//
// In an undirected graph every edge is outgoing from both endpoints. In a
// directed graph an edge is outgoing from its source and incoming to its target.
type Graph struct {
	arena    *Arena
	directed bool
	verts    []*Vertex
	edges    []*Edge
	next     rune
}

// NewGraph creates an undirected graph.
func NewGraph(a *Arena) *Graph {
	return &Graph{arena: a, next: 'A'}
}

// NewDigraph creates a directed graph.
func NewDigraph(a *Arena) *Graph {
	return &Graph{arena: a, directed: true, next: 'A'}
}

// Directed reports whether edges have a direction.
func (g *Graph) Directed() bool { return g.directed }

// Vertex adds a vertex titled with the next letter.
func (g *Graph) Vertex() *Vertex {
	v := &Vertex{title: string(g.next), color: defaultVertexColor}
	g.next++
	v.init(g.arena, v, "")
	v.name = v.title
	g.verts = insertSorted(g.verts, v, compareVertices)
	// Vertices are top-level from the start; registering cannot fail here.
	_ = g.arena.Add(v)
	return v
}

// Edge connects v and w.
func (g *Graph) Edge(v, w *Vertex) *Edge {
	e := &Edge{arena: g.arena, from: v, to: w, color: defaultEdgeColor, directed: g.directed}
	g.arena.newEdge(e)
	g.edges = insertSorted(g.edges, e, compareEdges)
	v.outgoing = insertSorted(v.outgoing, e, compareEdges)
	if g.directed {
		w.incoming = insertSorted(w.incoming, e, compareEdges)
	} else {
		w.outgoing = insertSorted(w.outgoing, e, compareEdges)
	}
	return e
}

// Verts returns the vertices sorted by title.
func (g *Graph) Verts() []*Vertex { return slices.Clone(g.verts) }

// Edges returns the edges sorted by (from, to).
func (g *Graph) Edges() []*Edge { return slices.Clone(g.edges) }

// Incident returns the edges leaving v.
func (g *Graph) Incident(v *Vertex) []*Edge { return slices.Clone(v.outgoing) }

// Incoming returns the edges arriving at v in a directed graph.
func (g *Graph) Incoming(v *Vertex) []*Edge { return slices.Clone(v.incoming) }

// Adjacent returns the far endpoint of every incident edge of v.
func (g *Graph) Adjacent(v *Vertex) []*Vertex {
	out := make([]*Vertex, 0, len(v.outgoing))
	for _, e := range v.outgoing {
		out = append(out, g.Other(e, v))
	}
	return out
}

// FindVertex returns the vertex with the given title, or nil.
func (g *Graph) FindVertex(title string) *Vertex {
	for _, v := range g.verts {
		if v.title == title {
			return v
		}
	}
	return nil
}

// FindEdge returns the edge from v to w, or nil. Undirected graphs match
// either orientation.
func (g *Graph) FindEdge(v, w *Vertex) *Edge {
	for _, e := range v.outgoing {
		if e.to == w || (!g.directed && e.from == w) {
			return e
		}
	}
	return nil
}

// Other returns the endpoint of e that is not v.
func (g *Graph) Other(e *Edge, v *Vertex) *Vertex {
	if e.from == v {
		return e.to
	}
	return e.from
}
