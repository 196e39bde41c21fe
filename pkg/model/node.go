package model

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/aretw0/tracer/pkg/domain"
)

// NodeID identifies a node within its Arena.
type NodeID int

// PathID identifies a value slot within its Arena.
type PathID int

// EdgeID identifies a graph edge within its Arena.
type EdgeID int

// Node is a visual container holding named or indexed Paths.
//
// Get, Set and Delete operate on entries by key. Variants add typed accessors
// (Array.At, TreeNode.Left, ...) and apply their own rules to Set.
type Node interface {
	ID() NodeID
	Name() string
	Element() domain.Element
	TopLevel() bool
	Removed() bool

	// Get returns the slot for key, or nil when there is none.
	Get(key string) *Path
	// Set wraps x and stores it under key, creating the slot if needed.
	Set(key string, x any) (*Path, error)
	// Delete removes the slot for key.
	Delete(key string) bool
	// Keys returns the visible keys in display order.
	Keys() []string

	core() *base
}

var identifier = regexp.MustCompile(`^\p{L}[\p{L}\p{N}]*$`)

// childName derives a slot name from its owner: identifier keys use dot access,
// everything else uses brackets.
func childName(owner, key string) string {
	if identifier.MatchString(key) {
		return owner + "." + key
	}
	return owner + "[" + key + "]"
}

// base carries the bookkeeping shared by every node variant.
type base struct {
	arena   *Arena
	self    Node
	id      NodeID
	name    string
	top     bool
	removed bool
	parent  *Path
	keys    []string
	slots   map[string]*Path
	hidden  map[string]bool
	surface any
}

func (b *base) ID() NodeID { return b.id }

// Name returns the display name. Embedded nodes are named after the slot holding them.
func (b *base) Name() string {
	if !b.top && b.parent != nil {
		return b.parent.Name()
	}
	return b.name
}

func (b *base) Element() domain.Element {
	return domain.Element("node:" + strconv.Itoa(int(b.id)))
}

func (b *base) TopLevel() bool { return b.top }

func (b *base) Removed() bool { return b.removed }

// Surface returns the renderer handle attached to the node.
func (b *base) Surface() any { return b.surface }

// SetSurface attaches a renderer handle to the node.
func (b *base) SetSurface(s any) { b.surface = s }

func (b *base) Get(key string) *Path {
	return b.slots[key]
}

func (b *base) Keys() []string {
	out := make([]string, 0, len(b.keys))
	for _, k := range b.keys {
		if !b.hidden[k] {
			out = append(out, k)
		}
	}
	return out
}

func (b *base) Delete(key string) bool {
	p, ok := b.slots[key]
	if !ok {
		return false
	}
	delete(b.slots, key)
	for i, k := range b.keys {
		if k == key {
			b.keys = append(b.keys[:i], b.keys[i+1:]...)
			break
		}
	}
	b.arena.invalidate(p)
	return true
}

func (b *base) core() *base { return b }

// store puts an already wrapped value in the slot for key.
func (b *base) store(key string, v Value) (*Path, error) {
	if v.arena != nil && v.arena != b.arena {
		return nil, domain.ConfigurationError("value %s belongs to another arena", v)
	}
	p, ok := b.slots[key]
	if !ok {
		p = b.arena.newPath(b, key)
		b.slots[key] = p
		b.keys = append(b.keys, key)
	}
	if v.kind == KindEmbedded {
		inner := v.Node().core()
		if inner == b {
			return nil, domain.ConfigurationError("cannot embed %s in itself", b.Name())
		}
		inner.parent = p
	}
	p.value = v
	if !b.hidden[key] {
		b.arena.update(p)
	}
	return p, nil
}

// setWrapped is the default Set: wrap, then store.
func (b *base) setWrapped(key string, x any) (*Path, error) {
	v, err := b.arena.Wrap(x)
	if err != nil {
		return nil, fmt.Errorf("set %s: %w", childName(b.Name(), key), err)
	}
	return b.store(key, v)
}

// init registers b with the arena under a counted name like "Object 3".
func (b *base) init(a *Arena, self Node, kind string) {
	b.arena = a
	b.self = self
	b.slots = make(map[string]*Path)
	b.hidden = make(map[string]bool)
	a.register(b)
	if kind != "" {
		b.name = kind + " " + strconv.Itoa(a.count(kind))
	}
}
