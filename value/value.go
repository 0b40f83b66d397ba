// Package value defines the runtime Value representation shared by the
// compiler's constant pool and the VM's stack.
package value

import (
	"strconv"

	"nilan/object"
)

// Kind tags which variant a Value holds.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
)

// Value is a small, copyable tagged union: Nil, Bool, Number (float64),
// or String (an object.StringHandle). A String Value never owns storage
// directly; it only carries a handle into the object heap.
type Value struct {
	kind   Kind
	number float64
	b      bool
	handle object.StringHandle
}

// Nil is the singular Nil value.
var Nil = Value{kind: KindNil}

// Bool constructs a Bool value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number constructs a Number value.
func Number(n float64) Value { return Value{kind: KindNumber, number: n} }

// String constructs a String value from an interned handle.
func String(handle object.StringHandle) Value { return Value{kind: KindString, handle: handle} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNil() bool    { return v.kind == KindNil }
func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsString() bool { return v.kind == KindString }

// AsBool returns the wrapped bool. Only meaningful when IsBool() is true.
func (v Value) AsBool() bool { return v.b }

// AsNumber returns the wrapped float64. Only meaningful when IsNumber() is true.
func (v Value) AsNumber() float64 { return v.number }

// AsStringHandle returns the wrapped handle. Only meaningful when IsString() is true.
func (v Value) AsStringHandle() object.StringHandle { return v.handle }

// IsFalsy reports whether v is Lox-falsy: Nil or Bool(false). Every other
// value, including Number(0) and the empty string, is truthy.
func (v Value) IsFalsy() bool {
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return !v.b
	default:
		return false
	}
}

// Equal implements Value equality per the data model: Nil=Nil, Bool by
// content, Number by IEEE equality (so NaN != NaN), String by handle
// identity (which coincides with content equality because of interning).
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNil:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.number == b.number
	case KindString:
		return a.handle == b.handle
	default:
		return false
	}
}

// Print renders v the way the Print opcode and the debug tracer do:
// nil, true/false, the shortest round-tripping decimal for numbers (no
// trailing ".0" on integers), and raw string content with no quotes.
func Print(v Value, heap *object.Heap) string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		return strconv.FormatFloat(v.number, 'g', -1, 64)
	case KindString:
		return heap.Deref(v.handle)
	default:
		return ""
	}
}
