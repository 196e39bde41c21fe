package model

import (
	"reflect"
	"slices"
	"strconv"

	"github.com/aretw0/tracer/pkg/domain"
)

// list is the indexed storage shared by Array and Sequence.
// Keys are decimal indexes and the length is kept in sync with the slots.
type list struct {
	base
	length int
}

const lengthKey = "length"

// Get returns the slot for key. The key "length" yields a hidden slot holding
// the current length; assigning through it resizes the list.
func (l *list) Get(key string) *Path {
	if key != lengthKey {
		return l.base.Get(key)
	}
	if p := l.slots[lengthKey]; p != nil {
		return p
	}
	l.hidden[lengthKey] = true
	p, _ := l.store(lengthKey, Int(l.length))
	return p
}

// syncLength refreshes the hidden length slot once it has been read.
func (l *list) syncLength() {
	if p := l.slots[lengthKey]; p != nil {
		p.value = Int(l.length)
	}
}

// Len returns the number of slots.
func (l *list) Len() int { return l.length }

// At returns the slot at index i, or nil when out of range.
func (l *list) At(i int) *Path {
	if i < 0 || i >= l.length {
		return nil
	}
	return l.slots[strconv.Itoa(i)]
}

// Values returns the current value of every slot in index order.
func (l *list) Values() []Value {
	out := make([]Value, l.length)
	for i := range out {
		out[i] = l.At(i).Value()
	}
	return out
}

// SetLength grows the list with empty slots or deletes trailing slots.
func (l *list) SetLength(n int) error {
	if n < 0 {
		return domain.ConfigurationError("invalid length %d for %s", n, l.Name())
	}
	for l.length < n {
		l.length++
		if _, err := l.store(strconv.Itoa(l.length-1), String("")); err != nil {
			return err
		}
	}
	for l.length > n {
		l.length--
		l.base.Delete(strconv.Itoa(l.length))
	}
	l.syncLength()
	return nil
}

// SetAt stores x at index i, growing the list first when i is past the end.
func (l *list) SetAt(i int, x any) (*Path, error) {
	if i < 0 {
		return nil, domain.ConfigurationError("invalid index %d for %s", i, l.Name())
	}
	if i >= l.length {
		if err := l.SetLength(i + 1); err != nil {
			return nil, err
		}
	}
	return l.setWrapped(strconv.Itoa(i), x)
}

// Delete is not supported on indexed storage; shrink with SetLength instead.
func (l *list) Delete(string) bool { return false }

func (l *list) set(key string, x any) (*Path, error) {
	if key == lengthKey {
		v, err := l.arena.Wrap(x)
		if err != nil {
			return nil, err
		}
		f, ok := v.Float()
		if !ok || f != float64(int(f)) {
			return nil, domain.ConfigurationError("length of %s must be an integer, got %s", l.Name(), v)
		}
		return nil, l.SetLength(int(f))
	}
	i, err := strconv.Atoi(key)
	if err != nil {
		return nil, domain.ConfigurationError("%s has no field %q", l.Name(), key)
	}
	return l.SetAt(i, x)
}

func (l *list) fill(values []any) error {
	for i, v := range values {
		if _, err := l.SetAt(i, v); err != nil {
			return err
		}
	}
	return nil
}

// Array is a growable indexed node, displayed as "Array N".
type Array struct {
	list
}

// NewArray creates an array holding values.
func NewArray(a *Arena, values ...any) (*Array, error) {
	arr := &Array{}
	arr.init(a, arr, "Array")
	if err := arr.fill(values); err != nil {
		return nil, err
	}
	return arr, nil
}

// Set stores x at a decimal index key. The key "length" resizes the array.
func (arr *Array) Set(key string, x any) (*Path, error) {
	return arr.set(key, x)
}

// Sequence is an indexed node with named index markers under its cells,
// displayed as "Sequence N".
type Sequence struct {
	list
	markers []string
	indexes map[string]int
}

// NewSequence creates a sequence. A string is split into its characters, a slice
// contributes its elements, and any other value becomes a single element.
func NewSequence(a *Arena, values any) (*Sequence, error) {
	s := &Sequence{indexes: make(map[string]int)}
	s.init(a, s, "Sequence")
	if err := s.fill(spread(values)); err != nil {
		return nil, err
	}
	return s, nil
}

// Set stores x at a decimal index key. The key "length" resizes the sequence.
func (s *Sequence) Set(key string, x any) (*Path, error) {
	return s.set(key, x)
}

// SetIndex places the marker name under cell pos.
func (s *Sequence) SetIndex(name string, pos int) {
	if _, ok := s.indexes[name]; !ok {
		s.markers = append(s.markers, name)
	}
	s.indexes[name] = pos
}

// DeleteIndex removes the marker name.
func (s *Sequence) DeleteIndex(name string) {
	if _, ok := s.indexes[name]; !ok {
		return
	}
	delete(s.indexes, name)
	s.markers = slices.DeleteFunc(s.markers, func(m string) bool { return m == name })
}

// Index returns the position of a marker.
func (s *Sequence) Index(name string) (int, bool) {
	pos, ok := s.indexes[name]
	return pos, ok
}

// IndexesAt returns the markers placed under cell pos, in the order they were created.
func (s *Sequence) IndexesAt(pos int) []string {
	return markersAt(s.markers, s.indexes, pos)
}

func markersAt(order []string, indexes map[string]int, pos int) []string {
	var out []string
	for _, name := range order {
		if indexes[name] == pos {
			out = append(out, name)
		}
	}
	return out
}

func spread(values any) []any {
	switch t := values.(type) {
	case nil:
		return nil
	case string:
		out := make([]any, 0, len(t))
		for _, r := range t {
			out = append(out, string(r))
		}
		return out
	case []any:
		return t
	}
	rv := reflect.ValueOf(values)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}
	return []any{values}
}
