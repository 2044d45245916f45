package model

// FunctionKind distinguishes the flavours of callable values.
type FunctionKind string

const (
	// FunctionOrdinary is a function declared with the function keyword.
	FunctionOrdinary FunctionKind = "function"
	// FunctionArrow is an arrow function; it has no prototype property.
	FunctionArrow FunctionKind = "arrow"
	// FunctionClass is a class constructor; its prototype is read-only.
	FunctionClass FunctionKind = "class"
)

// Function is a callable heap value. Its own properties include a
// non-enumerable length and name, and for ordinary functions and classes a
// non-enumerable prototype object.
type Function struct {
	Object
	kind   FunctionKind
	name   string
	source string
}

// NewFunction creates a callable value. When prototype is nil, ordinary
// functions and classes get a fresh prototype object whose non-enumerable
// constructor property points back at the function. Arrow functions ignore
// prototype.
func NewFunction(kind FunctionKind, name, source string, prototype Value) *Function {
	fn := &Function{
		Object: Object{props: make(map[string]*Property)},
		kind:   kind,
		name:   name,
		source: source,
	}

	_ = fn.Define("length", Property{Value: Number(0), Configurable: true})
	_ = fn.Define("name", Property{Value: String(name), Configurable: true})

	if kind == FunctionArrow {
		return fn
	}

	if prototype == nil {
		proto := NewObject()
		_ = proto.Define("constructor", HiddenProperty(fn))
		prototype = proto
	}

	_ = fn.Define("prototype", Property{Value: prototype, Writable: kind != FunctionClass})

	return fn
}

// Kind implements Value.
func (fn *Function) Kind() Kind { return KindFunction }

// String returns the source text of the function.
func (fn *Function) String() string { return fn.source }

// FunctionKind returns the flavour of the function.
func (fn *Function) FunctionKind() FunctionKind { return fn.kind }

// Name returns the name the function was created with.
func (fn *Function) Name() string { return fn.name }

// Source returns the source text of the function.
func (fn *Function) Source() string { return fn.source }

// Prototype returns the value of the prototype property, or Undefined.
func (fn *Function) Prototype() Value {
	return fn.Get("prototype")
}
