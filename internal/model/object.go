package model

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

var (
	// ErrNotWritable is returned when assigning to a read-only property.
	ErrNotWritable = errors.New("property is not writable")
	// ErrNotExtensible is returned when adding a property to a non-extensible value.
	ErrNotExtensible = errors.New("value is not extensible")
	// ErrNotConfigurable is returned when deleting or redefining a non-configurable property.
	ErrNotConfigurable = errors.New("property is not configurable")
	// ErrCannotFreeze is returned when a value only supports sealing.
	ErrCannotFreeze = errors.New("value cannot be frozen")
)

// Property is an own property descriptor. A property with a Getter is an
// accessor property; Value and Writable are ignored for it.
type Property struct {
	Value        Value
	Getter       func() Value
	Writable     bool
	Enumerable   bool
	Configurable bool
}

// IsAccessor reports whether p is an accessor property.
func (p Property) IsAccessor() bool {
	return p.Getter != nil
}

// DataProperty returns a writable, enumerable, configurable data property,
// the descriptor produced by a plain assignment.
func DataProperty(v Value) Property {
	return Property{Value: v, Writable: true, Enumerable: true, Configurable: true}
}

// HiddenProperty returns a writable, configurable, non-enumerable data property.
func HiddenProperty(v Value) Property {
	return Property{Value: v, Writable: true, Configurable: true}
}

// Object is an ordered collection of own properties with integrity levels.
type Object struct {
	order         []string
	props         map[string]*Property
	nonExtensible bool
}

// NewObject creates an empty extensible object.
func NewObject() *Object {
	return &Object{props: make(map[string]*Property)}
}

func (o *Object) heap() *Object { return o }

// Kind implements Value.
func (o *Object) Kind() Kind { return KindObject }

func (o *Object) String() string { return "[object Object]" }

// Len returns the number of own properties.
func (o *Object) Len() int {
	return len(o.order)
}

// OwnPropertyNames lists every own property name, enumerable or not.
// Array index names come first in ascending numeric order, then the other
// names in insertion order.
func (o *Object) OwnPropertyNames() []string {
	indices := make([]string, 0)
	names := make([]string, 0, len(o.order))

	for _, name := range o.order {
		if _, ok := arrayIndex(name); ok {
			indices = append(indices, name)
			continue
		}

		names = append(names, name)
	}

	sort.SliceStable(indices, func(i, j int) bool {
		a, _ := arrayIndex(indices[i])
		b, _ := arrayIndex(indices[j])

		return a < b
	})

	return append(indices, names...)
}

// GetOwnProperty returns a copy of the named own property descriptor.
func (o *Object) GetOwnProperty(name string) (Property, bool) {
	p, ok := o.props[name]
	if !ok {
		return Property{}, false
	}

	return *p, true
}

// Has reports whether name is an own property.
func (o *Object) Has(name string) bool {
	_, ok := o.props[name]
	return ok
}

// Get returns the value of the named own property, invoking its getter for
// accessor properties. Missing properties read as Undefined.
func (o *Object) Get(name string) Value {
	p, ok := o.props[name]
	if !ok {
		return Undefined{}
	}

	if p.IsAccessor() {
		return p.Getter()
	}

	if p.Value == nil {
		return Undefined{}
	}

	return p.Value
}

// Set assigns v to the named property, creating a plain data property when
// it does not exist yet.
func (o *Object) Set(name string, v Value) error {
	p, ok := o.props[name]
	if !ok {
		return o.Define(name, DataProperty(v))
	}

	if p.IsAccessor() || !p.Writable {
		return fmt.Errorf("set %q: %w", name, ErrNotWritable)
	}

	p.Value = v

	return nil
}

// Define creates or redefines the named own property. A non-configurable
// data property may only change its value while writable, or drop its
// writability.
func (o *Object) Define(name string, p Property) error {
	existing, ok := o.props[name]
	if !ok {
		if o.nonExtensible {
			return fmt.Errorf("define %q: %w", name, ErrNotExtensible)
		}

		stored := p
		o.props[name] = &stored
		o.order = append(o.order, name)

		return nil
	}

	if !existing.Configurable && !compatibleRedefinition(*existing, p) {
		return fmt.Errorf("define %q: %w", name, ErrNotConfigurable)
	}

	*existing = p

	return nil
}

func compatibleRedefinition(current, next Property) bool {
	if current.IsAccessor() || next.IsAccessor() {
		return false
	}

	if next.Configurable || next.Enumerable != current.Enumerable {
		return false
	}

	if current.Writable {
		return true
	}

	return !next.Writable && next.Value == current.Value
}

// Delete removes the named own property. Deleting a missing property succeeds.
func (o *Object) Delete(name string) error {
	p, ok := o.props[name]
	if !ok {
		return nil
	}

	if !p.Configurable {
		return fmt.Errorf("delete %q: %w", name, ErrNotConfigurable)
	}

	delete(o.props, name)

	for i, n := range o.order {
		if n == name {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}

	return nil
}

// IsExtensible reports whether new properties can be added.
func (o *Object) IsExtensible() bool {
	return !o.nonExtensible
}

// PreventExtensions forbids adding new properties.
func (o *Object) PreventExtensions() {
	o.nonExtensible = true
}

// Seal prevents extensions and makes every own property non-configurable.
func (o *Object) Seal() {
	o.nonExtensible = true

	for _, p := range o.props {
		p.Configurable = false
	}
}

// Freeze seals the object and makes every data property read-only.
func (o *Object) Freeze() error {
	o.Seal()

	for _, p := range o.props {
		if !p.IsAccessor() {
			p.Writable = false
		}
	}

	return nil
}

// IsSealed reports whether the object is non-extensible and every own
// property is non-configurable.
func (o *Object) IsSealed() bool {
	if !o.nonExtensible {
		return false
	}

	for _, p := range o.props {
		if p.Configurable {
			return false
		}
	}

	return true
}

// IsFrozen reports whether the object is sealed and no data property is writable.
func (o *Object) IsFrozen() bool {
	if !o.IsSealed() {
		return false
	}

	for _, p := range o.props {
		if !p.IsAccessor() && p.Writable {
			return false
		}
	}

	return true
}

// arrayIndex parses canonical array index names ("0", "1", ... 2^32-2).
func arrayIndex(name string) (uint32, bool) {
	if name == "" || (len(name) > 1 && name[0] == '0') {
		return 0, false
	}

	n, err := strconv.ParseUint(name, 10, 32)
	if err != nil || n == 1<<32-1 {
		return 0, false
	}

	return uint32(n), true
}
