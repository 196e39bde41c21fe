package model

import (
	"errors"
	"testing"

	"github.com/aretw0/tracer/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNaming_CountersPerArena(t *testing.T) {
	a := NewArena()
	o1 := NewObject(a)
	o2 := NewObject(a)
	f := NewFrame(a)
	arr, err := NewArray(a)
	require.NoError(t, err)

	assert.Equal(t, "Object 1", o1.Name())
	assert.Equal(t, "Object 2", o2.Name())
	assert.Equal(t, "Variables 1", f.Name())
	assert.Equal(t, "Array 1", arr.Name())

	// A new arena restarts every counter.
	assert.Equal(t, "Object 1", NewObject(NewArena()).Name())
}

func TestPathNames(t *testing.T) {
	a := NewArena()
	o := NewObject(a)
	p, err := o.Set("next", 1)
	require.NoError(t, err)
	assert.Equal(t, "Object 1.next", p.Name())

	p, err = o.Set("my key", 1)
	require.NoError(t, err)
	assert.Equal(t, "Object 1[my key]", p.Name())

	arr, err := NewArray(a, 10, 20, 30, 40)
	require.NoError(t, err)
	assert.Equal(t, "Array 1[3]", arr.At(3).Name())
}

func TestArray_GrowsOnIndexPastEnd(t *testing.T) {
	a := NewArena()
	arr, err := NewArray(a)
	require.NoError(t, err)

	require.NoError(t, arr.SetLength(3))
	_, err = arr.SetAt(5, 7)
	require.NoError(t, err)

	assert.Equal(t, 6, arr.Len())
	assert.True(t, a.Eq(arr.At(3), ""))
	assert.True(t, a.Eq(arr.At(4), ""))
	assert.True(t, a.Eq(arr.At(5), 7))
}

func TestArray_LengthKeyAndShrink(t *testing.T) {
	a := NewArena()
	arr, err := NewArray(a, 1, 2, 3, 4)
	require.NoError(t, err)
	last := arr.At(3)

	_, err = arr.Set("length", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, arr.Len())
	assert.Nil(t, arr.At(2))
	assert.False(t, last.Live())

	_, err = arr.Set("size", 2)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}

func TestArray_LengthIsReadable(t *testing.T) {
	a := NewArena()
	arr, err := NewArray(a, 1, 2)
	require.NoError(t, err)

	_, err = arr.Set("length", 3)
	require.NoError(t, err)
	length := arr.Get("length")
	require.NotNil(t, length)
	assert.True(t, a.Eq(length, 3))
	assert.Equal(t, []string{"0", "1", "2"}, arr.Keys())

	require.NoError(t, arr.SetLength(1))
	assert.True(t, a.Eq(length, 1))

	require.NoError(t, length.Set(4))
	assert.Equal(t, 4, arr.Len())
	assert.Same(t, length, arr.Get("length"))

	s, err := NewSequence(a, "abc")
	require.NoError(t, err)
	assert.True(t, a.Eq(s.Get("length"), 3))
}

func TestWrap_TopLevelBecomesRef(t *testing.T) {
	a := NewArena()
	target := NewObject(a)
	require.NoError(t, a.Add(target))
	inner := NewObject(a)
	holder := NewObject(a)

	p, err := holder.Set("ptr", target)
	require.NoError(t, err)
	assert.Equal(t, KindRef, p.Value().Kind())

	p, err = holder.Set("inner", inner)
	require.NoError(t, err)
	assert.Equal(t, KindEmbedded, p.Value().Kind())
	assert.Equal(t, "Object 3.inner", inner.Name())

	ip, err := inner.Set("x", 1)
	require.NoError(t, err)
	assert.Equal(t, "Object 3.inner.x", ip.Name())
}

func TestWrap_Unsupported(t *testing.T) {
	_, err := NewArena().Wrap(struct{}{})
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}

func TestEq(t *testing.T) {
	a := NewArena()
	n := NewObject(a)
	require.NoError(t, a.Add(n))
	other := NewObject(a)
	require.NoError(t, a.Add(other))
	ref, err := a.Ref(n)
	require.NoError(t, err)
	ref2, err := a.Wrap(n)
	require.NoError(t, err)

	tests := []struct {
		name string
		x, y any
		want bool
	}{
		{"null equals undefined", Null(), Undefined(), true},
		{"nil equals null", nil, Null(), true},
		{"null vs scalar", Null(), 0, false},
		{"scalar vs null", String(""), Null(), false},
		{"same numbers", Number(5), 5, true},
		{"number vs string", Number(5), String("5"), false},
		{"bool vs number", Bool(true), 1, false},
		{"refs to same node", ref, ref2, true},
		{"ref vs bare node", ref, n, true},
		{"bare node vs ref", n, ref, true},
		{"ref vs other node", ref, other, false},
		{"node identity", n, n, true},
		{"different nodes", n, other, false},
		{"ref vs scalar", ref, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Eq(tt.x, tt.y))
			assert.Equal(t, tt.want, a.Eq(tt.y, tt.x), "symmetry")
		})
	}
}

func TestEq_AddrByName(t *testing.T) {
	a := NewArena()
	o := NewObject(a)
	p, err := o.Set("x", 1)
	require.NoError(t, err)
	q, err := o.Set("y", 1)
	require.NoError(t, err)

	assert.True(t, a.Eq(p.Addr(), p.Addr()))
	assert.False(t, a.Eq(p.Addr(), q.Addr()))
}

func TestSlots_AreStable(t *testing.T) {
	a := NewArena()
	o := NewObject(a)
	p1, err := o.Set("x", 1)
	require.NoError(t, err)
	addr := p1.Addr()

	p2, err := o.Set("x", 2)
	require.NoError(t, err)
	assert.Same(t, p1, p2)
	assert.True(t, a.Eq(addr.Path(), 2))

	require.NoError(t, p1.Set(3))
	assert.True(t, a.Eq(o.Get("x"), 3))
}

func TestRemove_SeversPointers(t *testing.T) {
	a := NewArena()
	target := NewObject(a)
	require.NoError(t, a.Add(target))
	tp, err := target.Set("v", 1)
	require.NoError(t, err)
	addr := tp.Addr()

	holder := NewObject(a)
	require.NoError(t, a.Add(holder))
	_, err = holder.Set("ref", target)
	require.NoError(t, err)
	_, err = holder.Set("addr", addr)
	require.NoError(t, err)

	require.NoError(t, a.Remove(target))

	assert.Len(t, a.TopLevel(), 1)
	assert.False(t, target.TopLevel())
	assert.Equal(t, KindNull, holder.Get("ref").Value().Kind())
	assert.Equal(t, KindNull, holder.Get("addr").Value().Kind())
	assert.PanicsWithError(t, domain.ErrDanglingAddr.Error(), func() { addr.Path() })

	// Removing twice is a no-op.
	assert.NoError(t, a.Remove(target))
}

func TestGraph_IncidentDependsOnDirection(t *testing.T) {
	a := NewArena()
	dg := NewDigraph(a)
	A, B := dg.Vertex(), dg.Vertex()
	dg.Edge(A, B)
	assert.Empty(t, dg.Incident(B))
	assert.Len(t, dg.Incoming(B), 1)
	assert.Nil(t, dg.FindEdge(B, A))

	g := NewGraph(a)
	u, v := g.Vertex(), g.Vertex()
	e := g.Edge(u, v)
	require.Len(t, g.Incident(v), 1)
	assert.Same(t, e, g.Incident(v)[0])
	assert.Same(t, e, g.FindEdge(v, u))
	assert.Same(t, u, g.Other(e, v))
	assert.Equal(t, []*Vertex{u}, g.Adjacent(v))
	assert.Equal(t, "AB", e.Name())
}

func TestGraph_SortedAndTopLevel(t *testing.T) {
	a := NewArena()
	g := NewGraph(a)
	A, B, C := g.Vertex(), g.Vertex(), g.Vertex()
	g.Edge(C, A)
	g.Edge(A, B)

	edges := g.Edges()
	require.Len(t, edges, 2)
	assert.Equal(t, "AB", edges[0].Name())
	assert.Equal(t, "CA", edges[1].Name())
	assert.True(t, B.TopLevel())
	assert.Same(t, C, g.FindVertex("C"))

	_, err := A.Set("color", "red")
	require.NoError(t, err)
	assert.Equal(t, "red", A.Color())
	assert.Empty(t, A.Keys())
}

func TestTreeNode_Children(t *testing.T) {
	a := NewArena()
	root, err := NewTreeNode(a, 5)
	require.NoError(t, err)
	left, err := NewTreeNode(a, 3)
	require.NoError(t, err)

	assert.Equal(t, "Node 1.left", root.Left().Name())
	assert.True(t, a.Eq(root.Left(), nil))

	require.NoError(t, root.SetLeft(left))
	assert.Same(t, left, root.LeftNode())
	assert.True(t, a.Eq(root.Left(), left))

	require.NoError(t, root.SetLeft(nil))
	assert.Nil(t, root.LeftNode())

	err = root.SetRight(NewObject(a))
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}

func TestMatrix(t *testing.T) {
	a := NewArena()
	m, err := NewMatrix(a, [][]any{{1, 2}, {3, 4, 5}})
	require.NoError(t, err)

	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, "Matrix 1[1][2]", m.At(1, 2).Name())
	_, err = m.SetAt(0, 1, 9)
	require.NoError(t, err)
	assert.True(t, a.Eq(m.At(0, 1), 9))

	_, err = m.SetAt(0, 2, 9)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
	_, err = m.Row(0).Set("length", 4)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))

	m.SetRowIndex("i", 1)
	m.SetColumnIndex("j", 0)
	m.SetColumnIndex("k", 0)
	assert.Equal(t, []string{"i"}, m.RowIndexesAt(1))
	assert.Equal(t, []string{"j", "k"}, m.ColumnIndexesAt(0))
}

func TestSequence(t *testing.T) {
	a := NewArena()
	s, err := NewSequence(a, "abc")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
	assert.True(t, a.Eq(s.At(1), "b"))

	s.SetIndex("lo", 0)
	s.SetIndex("hi", 2)
	s.SetIndex("lo", 1)
	assert.Equal(t, []string{"lo"}, s.IndexesAt(1))
	s.DeleteIndex("lo")
	assert.Empty(t, s.IndexesAt(1))

	ints, err := NewSequence(a, []int{4, 5})
	require.NoError(t, err)
	assert.Equal(t, "Sequence 2", ints.Name())
	assert.True(t, a.Eq(ints.At(0), 4))
}

type recordingRenderer struct {
	updates []string
	placed  int
	dropped []domain.Element
}

func (r *recordingRenderer) Place(Node)            { r.placed++ }
func (r *recordingRenderer) Update(p *Path)        { r.updates = append(r.updates, p.Name()) }
func (r *recordingRenderer) Drop(e domain.Element) { r.dropped = append(r.dropped, e) }

func TestRenderer_SilentSuppresses(t *testing.T) {
	a := NewArena()
	r := &recordingRenderer{}
	a.SetRenderer(r)

	o := NewObject(a)
	require.NoError(t, a.Add(o))
	_, err := o.Set("x", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, r.placed)
	assert.Equal(t, []string{"Object 1.x"}, r.updates)

	a.SetSilent(true)
	_, err = o.Set("y", 2)
	require.NoError(t, err)
	require.NoError(t, a.Remove(o))
	assert.Len(t, r.updates, 1)
	assert.Empty(t, r.dropped)
}

func TestLookup(t *testing.T) {
	a := NewArena()
	g := NewGraph(a)
	e := g.Edge(g.Vertex(), g.Vertex())

	v, ok := a.Lookup(e.Element())
	require.True(t, ok)
	assert.True(t, a.Eq(v, e))

	_, ok = a.Lookup("bogus")
	assert.False(t, ok)
}

func TestValue_Matches(t *testing.T) {
	assert.True(t, Number(6).Matches(" 6.0 "))
	assert.False(t, Number(6).Matches("six"))
	assert.True(t, String("a  b").Matches("a b "))
	assert.True(t, Undefined().Matches("anything"))
	assert.False(t, Bool(true).Matches("yes"))
}

func TestParseScalar(t *testing.T) {
	assert.Equal(t, Number(42), ParseScalar(" 42 "))
	assert.Equal(t, Bool(false), ParseScalar("false"))
	assert.Equal(t, String("inf"), ParseScalar("inf"))
	assert.Equal(t, String("hello world"), ParseScalar("hello   world"))
	assert.Equal(t, "3.5", Number(3.5).Str())
	assert.Equal(t, "7", Int(7).Str())
}
