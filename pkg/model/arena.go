package model

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/tracer/pkg/domain"
)

// Renderer observes structural changes in an Arena.
// It is never called while the arena is silent.
type Renderer interface {
	// Place is called when a node becomes top-level.
	Place(n Node)
	// Update is called after a visible slot changed value.
	Update(p *Path)
	// Drop is called when a node or slot leaves the display.
	Drop(e domain.Element)
}

// Arena owns every node, slot and edge created for one run of a routine.
//
// Naming counters are scoped to the arena, so two runs over the same data produce
// the same names. An Arena is not safe for concurrent use.
type Arena struct {
	nodes    []Node
	paths    map[PathID]*Path
	edges    map[EdgeID]*Edge
	counters map[string]int
	top      []Node
	renderer Renderer
	silent   bool
	nextPath PathID
	nextEdge EdgeID
	widgets  int
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{
		paths:    make(map[PathID]*Path),
		edges:    make(map[EdgeID]*Edge),
		counters: make(map[string]int),
	}
}

// SetRenderer attaches the observer notified of changes.
func (a *Arena) SetRenderer(r Renderer) { a.renderer = r }

// SetSilent suppresses renderer notifications.
func (a *Arena) SetSilent(silent bool) { a.silent = silent }

// Silent reports whether renderer notifications are suppressed.
func (a *Arena) Silent() bool { return a.silent }

// TopLevel returns the top-level nodes in the order they were added.
func (a *Arena) TopLevel() []Node {
	return slices.Clone(a.top)
}

// Nodes returns every live node of the run in creation order, top-level or not.
func (a *Arena) Nodes() []Node {
	out := make([]Node, 0, len(a.nodes))
	for _, n := range a.nodes {
		if !n.Removed() {
			out = append(out, n)
		}
	}
	return out
}

// Edges returns every graph edge of the run in creation order.
func (a *Arena) Edges() []*Edge {
	out := make([]*Edge, 0, len(a.edges))
	for id := EdgeID(1); id <= a.nextEdge; id++ {
		if e := a.edges[id]; e != nil {
			out = append(out, e)
		}
	}
	return out
}

// Add registers n as top-level. Adding a node twice is a no-op.
func (a *Arena) Add(n Node) error {
	b := n.core()
	if b.arena != a {
		return domain.ConfigurationError("%s belongs to another arena", b.Name())
	}
	if b.removed {
		return domain.ConfigurationError("cannot add removed node %s", b.name)
	}
	if b.top && slices.Contains(a.top, n) {
		return nil
	}
	b.top = true
	a.top = append(a.top, n)
	if !a.silent && a.renderer != nil {
		a.renderer.Place(n)
	}
	return nil
}

// Remove takes a node (or a Ref to it) off the arena.
//
// Its slots stop being live, and every remaining slot that referenced the node
// or addressed one of its slots is set to null.
func (a *Arena) Remove(x any) error {
	var n Node
	switch t := x.(type) {
	case Node:
		n = t
	case Value:
		n = t.Node()
	}
	if n == nil || isNilNode(n) {
		return domain.ConfigurationError("cannot remove %v", x)
	}
	b := n.core()
	if b.arena != a {
		return domain.ConfigurationError("%s belongs to another arena", b.Name())
	}
	if b.removed {
		return nil
	}
	a.top = slices.DeleteFunc(a.top, func(m Node) bool { return m.core() == b })
	a.retire(b)
	b.top = false
	a.sever()
	if !a.silent && a.renderer != nil {
		a.renderer.Drop(n.Element())
	}
	return nil
}

// Wrap converts a Go value, Node, Path or Edge into a storable Value.
//
// nil becomes the empty string, a top-level node becomes a Ref, any other node is
// embedded, and a Path contributes its current value.
func (a *Arena) Wrap(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return String(""), nil
	case Value:
		if t.kind == KindUndefined {
			return String(""), nil
		}
		if t.kind == KindAddr {
			// Validates the target is still live.
			t.Path()
		}
		if t.kind == KindRef && t.Node().Removed() {
			return Null(), nil
		}
		return t, nil
	case *Path:
		if t == nil {
			return String(""), nil
		}
		return t.value, nil
	case *Edge:
		if t == nil {
			return Null(), nil
		}
		return t.Value(), nil
	case Node:
		if isNilNode(t) {
			return Null(), nil
		}
		b := t.core()
		if b.arena != a {
			return Value{}, domain.ConfigurationError("%s belongs to another arena", b.Name())
		}
		if b.top {
			return Value{kind: KindRef, id: int(b.id), arena: a}, nil
		}
		return Value{kind: KindEmbedded, id: int(b.id), arena: a}, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(t), nil
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32:
		return Number(reflect.ValueOf(t).Convert(reflect.TypeFor[float64]()).Float()), nil
	case float64:
		return Number(t), nil
	}
	return Value{}, domain.ConfigurationError("a path cannot hold %T", x)
}

// Ref returns a reference to a top-level node.
func (a *Arena) Ref(n Node) (Value, error) {
	b := n.core()
	if !b.top {
		return Value{}, domain.ConfigurationError("%s is not top-level", b.Name())
	}
	return Value{kind: KindRef, id: int(b.id), arena: a}, nil
}

// Eq is the one equality used by exercise code and validation.
//
// Null and undefined equal only each other. Scalars compare by content, refs by
// target identity (a ref also equals the bare node it targets), addresses by the
// name of the slot they target. Anything else compares by identity.
// Operands may be Values, Paths, Nodes, Edges or Go scalars.
func (a *Arena) Eq(x, y any) bool {
	return a.operand(x).eq(a.operand(y))
}

type operand struct {
	v    Value
	bare *base
}

func (a *Arena) operand(x any) operand {
	switch t := x.(type) {
	case nil:
		return operand{}
	case Value:
		if t.kind == KindEmbedded {
			return operand{bare: t.Node().core()}
		}
		return operand{v: t}
	case *Path:
		if t == nil {
			return operand{}
		}
		return a.operand(t.value)
	case Node:
		if isNilNode(t) {
			return operand{}
		}
		return operand{bare: t.core()}
	}
	v, err := a.Wrap(x)
	if err != nil {
		return operand{v: String(fmt.Sprint(x))}
	}
	return a.operand(v)
}

func (x operand) isNil() bool { return x.bare == nil && x.v.IsNil() }

func (x operand) eq(y operand) bool {
	if x.isNil() || y.isNil() {
		return x.isNil() && y.isNil()
	}
	if x.v.IsScalar() && y.v.IsScalar() {
		return x.v.kind == y.v.kind && x.v.Interface() == y.v.Interface()
	}
	xr, yr := x.v.kind == KindRef, y.v.kind == KindRef
	switch {
	case xr && yr:
		return x.v.Node().core() == y.v.Node().core()
	case xr:
		return y.bare != nil && x.v.Node().core() == y.bare
	case yr:
		return x.bare != nil && y.v.Node().core() == x.bare
	}
	if x.v.kind == KindAddr && y.v.kind == KindAddr {
		return x.v.Path().Name() == y.v.Path().Name()
	}
	if x.bare != nil || y.bare != nil {
		return x.bare == y.bare
	}
	if x.v.kind == KindEdge && y.v.kind == KindEdge {
		return x.v.Edge() == y.v.Edge()
	}
	return false
}

// Lookup resolves an element handle to the value a learner pointing at it designates.
func (a *Arena) Lookup(e domain.Element) (Value, bool) {
	prefix, rest, ok := strings.Cut(string(e), ":")
	if !ok {
		return Value{}, false
	}
	id, err := strconv.Atoi(rest)
	if err != nil {
		return Value{}, false
	}
	switch prefix {
	case "node":
		n := a.node(NodeID(id))
		if n == nil || n.Removed() {
			return Value{}, false
		}
		v, err := a.Wrap(n)
		return v, err == nil
	case "path":
		p := a.paths[PathID(id)]
		if p == nil || !p.live {
			return Value{}, false
		}
		return p.Addr(), true
	case "edge":
		ed := a.edges[EdgeID(id)]
		if ed == nil {
			return Value{}, false
		}
		return ed.Value(), true
	}
	return Value{}, false
}

// Describe returns the display name of the thing an element designates.
func (a *Arena) Describe(e domain.Element) string {
	v, ok := a.Lookup(e)
	if !ok {
		return string(e)
	}
	if v.kind == KindAddr {
		return v.Path().Name()
	}
	if n := v.Node(); n != nil {
		return n.Name()
	}
	return v.String()
}

// NextWidgetID allocates an id for a widget living in this arena.
func (a *Arena) NextWidgetID() int {
	a.widgets++
	return a.widgets
}

func (a *Arena) count(kind string) int {
	a.counters[kind]++
	return a.counters[kind]
}

func (a *Arena) register(b *base) {
	a.nodes = append(a.nodes, b.self)
	b.id = NodeID(len(a.nodes))
}

func (a *Arena) node(id NodeID) Node {
	if id < 1 || int(id) > len(a.nodes) {
		return nil
	}
	return a.nodes[id-1]
}

func (a *Arena) newPath(owner *base, key string) *Path {
	a.nextPath++
	p := &Path{id: a.nextPath, owner: owner, key: key, live: true}
	p.assign = func(v Value) error {
		_, err := owner.self.Set(key, v)
		return err
	}
	a.paths[p.id] = p
	return p
}

func (a *Arena) newEdge(e *Edge) {
	a.nextEdge++
	e.id = a.nextEdge
	a.edges[e.id] = e
}

func (a *Arena) update(p *Path) {
	if a.silent || a.renderer == nil || !p.live {
		return
	}
	a.renderer.Update(p)
}

// invalidate retires a single slot, e.g. after a key was deleted.
func (a *Arena) invalidate(p *Path) {
	a.retirePath(p)
	a.sever()
	if !a.silent && a.renderer != nil {
		a.renderer.Drop(p.Element())
	}
}

func (a *Arena) retire(b *base) {
	b.removed = true
	for _, p := range b.slots {
		a.retirePath(p)
	}
}

func (a *Arena) retirePath(p *Path) {
	p.live = false
	if p.value.kind == KindEmbedded {
		if inner := p.value.Node().core(); inner.parent == p {
			a.retire(inner)
		}
	}
}

// sever nulls out every live slot that still points at a removed node or slot.
func (a *Arena) sever() {
	for _, n := range a.nodes {
		b := n.core()
		if b.removed {
			continue
		}
		for _, key := range b.keys {
			p := b.slots[key]
			if p == nil || !p.live || !dangling(p.value) {
				continue
			}
			p.value = Null()
			if !b.hidden[key] {
				a.update(p)
			}
		}
	}
}

func dangling(v Value) bool {
	switch v.kind {
	case KindRef:
		return v.Node().Removed()
	case KindAddr:
		p := v.arena.paths[PathID(v.id)]
		return p == nil || !p.live
	}
	return false
}

func isNilNode(n Node) bool {
	rv := reflect.ValueOf(n)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
