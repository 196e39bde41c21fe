package model

import (
	"strconv"

	"github.com/aretw0/tracer/pkg/domain"
)

// Path is a value slot owned by a Node.
//
// A slot is stable: assigning to the same key again reuses the Path, so an Addr
// taken on it keeps pointing at the live slot. Removing the owner or deleting the
// key invalidates it.
type Path struct {
	id      PathID
	owner   *base
	key     string
	value   Value
	live    bool
	assign  func(Value) error
	surface any
}

func (p *Path) ID() PathID { return p.id }

// Key returns the entry key within the owner.
func (p *Path) Key() string { return p.key }

// Owner returns the node holding the slot.
func (p *Path) Owner() Node { return p.owner.self }

// Name returns the human-readable location, e.g. "Object 1.next" or "Array 2[3]".
func (p *Path) Name() string {
	return childName(p.owner.Name(), p.key)
}

// Value returns the current value of the slot.
func (p *Path) Value() Value { return p.value }

// Element returns the handle of the slot's rendered container.
func (p *Path) Element() domain.Element {
	return domain.Element("path:" + strconv.Itoa(int(p.id)))
}

// Live reports whether the slot still exists.
func (p *Path) Live() bool { return p.live }

// Set assigns x to the slot using the owner's assignment rules.
func (p *Path) Set(x any) error {
	v, err := p.owner.arena.Wrap(x)
	if err != nil {
		return err
	}
	return p.assign(v)
}

// Addr returns an address value targeting this slot.
func (p *Path) Addr() Value {
	return Value{kind: KindAddr, id: int(p.id), arena: p.owner.arena}
}

// Surface returns the renderer handle attached to the slot.
func (p *Path) Surface() any { return p.surface }

// SetSurface attaches a renderer handle to the slot.
func (p *Path) SetSurface(s any) { p.surface = s }

func (p *Path) String() string {
	return p.Name() + " = " + p.value.String()
}
