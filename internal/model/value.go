// Package model defines the value heap inspected by frostcheck and the
// report types produced when checking it.
package model

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the runtime category of a value, as reported by typeof.
type Kind string

const (
	// KindUndefined is the category of Undefined.
	KindUndefined Kind = "undefined"
	// KindNull is the category of Null. typeof reports "object" for it, but
	// it is never traversed so it gets a category of its own.
	KindNull Kind = "null"
	// KindBoolean is the category of Bool.
	KindBoolean Kind = "boolean"
	// KindNumber is the category of Number.
	KindNumber Kind = "number"
	// KindString is the category of String.
	KindString Kind = "string"
	// KindSymbol is the category of Symbol.
	KindSymbol Kind = "symbol"
	// KindObject is the category of objects and buffers.
	KindObject Kind = "object"
	// KindFunction is the category of functions and classes.
	KindFunction Kind = "function"
)

// Value is any value that can live in the heap or be stored in a property.
type Value interface {
	Kind() Kind
	// String is the default string conversion of the value.
	String() string
}

// Undefined is the absent value.
type Undefined struct{}

// Null is the empty reference.
type Null struct{}

// Bool is a boolean primitive.
type Bool bool

// Number is a double precision number primitive.
type Number float64

// String is a string primitive.
type String string

// Symbol is a unique primitive identified by its description.
type Symbol struct {
	Description string
}

// Kind implements Value.
func (Undefined) Kind() Kind { return KindUndefined }

func (Undefined) String() string { return "undefined" }

// Kind implements Value.
func (Null) Kind() Kind { return KindNull }

func (Null) String() string { return "null" }

// Kind implements Value.
func (Bool) Kind() Kind { return KindBoolean }

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// Kind implements Value.
func (Number) Kind() Kind { return KindNumber }

func (n Number) String() string {
	f := float64(n)

	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	// Shortest round-trip digits; fixed notation for decimal exponents in
	// [-6, 20], otherwise d.ddde±n without exponent padding.
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")

	e, err := strconv.Atoi(exp)
	if err != nil {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}

	if e >= -6 && e < 21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	if e > 0 {
		return mantissa + "e+" + strconv.Itoa(e)
	}

	return mantissa + "e" + strconv.Itoa(e)
}

// Kind implements Value.
func (String) Kind() Kind { return KindString }

func (s String) String() string { return string(s) }

// Kind implements Value.
func (Symbol) Kind() Kind { return KindSymbol }

func (s Symbol) String() string { return "Symbol(" + s.Description + ")" }

// Heap is implemented by every value that owns properties: objects,
// functions, classes and buffers. Heap values are compared by identity.
type Heap interface {
	Value
	heap() *Object
}

// AsObject returns the property storage of v when v is a heap value.
func AsObject(v Value) (*Object, bool) {
	h, ok := v.(Heap)
	if !ok || h == nil {
		return nil, false
	}

	obj := h.heap()

	return obj, obj != nil
}

// IsCallable reports whether v is a function or a class.
func IsCallable(v Value) bool {
	_, ok := v.(*Function)
	return ok
}

// IsObjectLike reports whether v is a non-null structured value.
func IsObjectLike(v Value) bool {
	if v == nil {
		return false
	}

	if _, ok := AsObject(v); !ok {
		return false
	}

	return v.Kind() == KindObject
}

// IsPrimitive reports whether v is a primitive (or nil, treated as undefined).
func IsPrimitive(v Value) bool {
	_, ok := AsObject(v)
	return !ok
}

// Integrity is the set of integrity operations supported by heap values.
// Call them on the heap value itself so that buffers can refuse freezing.
type Integrity interface {
	IsExtensible() bool
	PreventExtensions()
	Seal()
	Freeze() error
	IsSealed() bool
	IsFrozen() bool
}

var (
	_ Integrity = (*Object)(nil)
	_ Integrity = (*Function)(nil)
	_ Integrity = (*Buffer)(nil)
)
