package model

import (
	"math"
	"strconv"
	"strings"

	"github.com/aretw0/tracer/pkg/domain"
)

// Kind discriminates the variants of a Value.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindNull
	KindString
	KindNumber
	KindBool
	KindRef
	KindAddr
	KindEmbedded
	KindEdge
)

var kindNames = [...]string{
	KindUndefined: "undefined",
	KindNull:      "null",
	KindString:    "string",
	KindNumber:    "number",
	KindBool:      "bool",
	KindRef:       "ref",
	KindAddr:      "addr",
	KindEmbedded:  "embedded",
	KindEdge:      "edge",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is anything storable in a Path. The zero Value is Undefined.
//
// Pointer-like variants (Ref, Addr, Embedded, Edge) hold an id resolved through the
// Arena that created them, so values can be copied freely without sharing ownership.
type Value struct {
	kind  Kind
	str   string
	num   float64
	flag  bool
	id    int
	arena *Arena
}

// Undefined returns the undefined value.
func Undefined() Value { return Value{} }

// Null returns the explicit null value.
func Null() Value { return Value{kind: KindNull} }

// String returns a string scalar.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric scalar.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Int returns a numeric scalar from an int.
func Int(i int) Value { return Number(float64(i)) }

// Bool returns a boolean scalar.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsUndefined reports whether v is the undefined value.
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }

// IsNil reports whether v is null or undefined.
func (v Value) IsNil() bool { return v.kind == KindUndefined || v.kind == KindNull }

// IsScalar reports whether v is a string, number or boolean.
func (v Value) IsScalar() bool {
	return v.kind == KindString || v.kind == KindNumber || v.kind == KindBool
}

// Float returns the numeric content of a number scalar.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// AsInt returns the numeric content truncated to an int, or 0 for non-numbers.
func (v Value) AsInt() int {
	if v.kind != KindNumber {
		return 0
	}
	return int(v.num)
}

// Truth returns the content of a boolean scalar.
func (v Value) Truth() bool {
	return v.kind == KindBool && v.flag
}

// Str returns the text form of a scalar, or "" for other variants.
func (v Value) Str() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return formatNumber(v.num)
	case KindBool:
		return strconv.FormatBool(v.flag)
	}
	return ""
}

// Node returns the target of a Ref or the node held by an Embedded value.
func (v Value) Node() Node {
	if (v.kind != KindRef && v.kind != KindEmbedded) || v.arena == nil {
		return nil
	}
	return v.arena.node(NodeID(v.id))
}

// Path dereferences an Addr. It panics with domain.ErrDanglingAddr when the
// target path was removed.
func (v Value) Path() *Path {
	if v.kind != KindAddr || v.arena == nil {
		return nil
	}
	p := v.arena.paths[PathID(v.id)]
	if p == nil || !p.live {
		panic(domain.ErrDanglingAddr)
	}
	return p
}

// Edge returns the edge held by an Edge value.
func (v Value) Edge() *Edge {
	if v.kind != KindEdge || v.arena == nil {
		return nil
	}
	return v.arena.edges[EdgeID(v.id)]
}

// Interface returns the Go form of a scalar (string, float64 or bool), nil otherwise.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.flag
	}
	return nil
}

// String returns a display form of v.
func (v Value) String() string {
	switch v.kind {
	case KindUndefined:
		return ""
	case KindNull:
		return "null"
	case KindRef:
		if n := v.Node(); n != nil {
			return "→ " + n.Name()
		}
	case KindAddr:
		if p := v.arena.paths[PathID(v.id)]; p != nil {
			return "→ &" + p.Name()
		}
	case KindEmbedded:
		if n := v.Node(); n != nil {
			return n.Name()
		}
	case KindEdge:
		if e := v.Edge(); e != nil {
			return e.Name()
		}
	}
	return v.Str()
}

// Matches reports whether learner text matches the expected scalar v.
// Text is trimmed and whitespace-collapsed; numbers compare numerically.
// An undefined expectation accepts any text.
func (v Value) Matches(text string) bool {
	if v.kind == KindUndefined {
		return true
	}
	got := Canonicalize(text)
	if v.kind == KindNumber {
		f, ok := parseNumber(got)
		return ok && f == v.num
	}
	return got == Canonicalize(v.Str())
}

// Canonicalize trims text and collapses internal whitespace runs to one space.
func Canonicalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// ParseScalar converts learner text into a typed scalar: numbers and booleans
// are recognized, anything else is a canonicalized string.
func ParseScalar(text string) Value {
	s := Canonicalize(text)
	switch s {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if f, ok := parseNumber(s); ok {
		return Number(f)
	}
	return String(s)
}

func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	// ParseFloat accepts "inf" and "nan" which are not numeric input here.
	c := s[0]
	if !(c >= '0' && c <= '9') && c != '-' && c != '+' && c != '.' {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
