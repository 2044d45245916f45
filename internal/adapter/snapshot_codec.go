package adapter

import (
	"errors"
	"fmt"
	"strconv"

	m "frostcheck.dev/pkg/frostcheck/internal/model"
)

// BuildGraph materialises the heap values of doc and links their properties.
// Integrity levels are applied last, once every property is defined.
func BuildGraph(doc *m.Document) (*m.Graph, error) {
	if doc.Version > m.SnapshotVersion || doc.Version < 0 {
		return nil, fmt.Errorf("version %d: %w", doc.Version, ErrUnsupportedVersion)
	}

	records := make(map[string]*m.ValueRecord, len(doc.Values))
	for i := range doc.Values {
		rec := &doc.Values[i]
		if rec.ID == "" {
			return nil, fmt.Errorf("value #%d has no id: %w", i, ErrInvalidSnapshot)
		}

		if _, dup := records[rec.ID]; dup {
			return nil, fmt.Errorf("duplicate id %q: %w", rec.ID, ErrInvalidSnapshot)
		}

		records[rec.ID] = rec
	}

	b := &graphBuilder{
		records:  records,
		values:   make(map[string]m.Value, len(records)),
		creating: make(map[string]bool),
	}

	for _, rec := range doc.Values {
		if _, err := b.create(rec.ID); err != nil {
			return nil, err
		}
	}

	for _, rec := range doc.Values {
		if err := b.defineProperties(&rec); err != nil {
			return nil, err
		}
	}

	for _, rec := range doc.Values {
		if err := applyIntegrity(b.values[rec.ID], rec.Integrity); err != nil {
			return nil, fmt.Errorf("value %q: %w", rec.ID, err)
		}
	}

	root, ok := b.values[doc.Root]
	if !ok {
		return nil, fmt.Errorf("root %q not found: %w", doc.Root, ErrInvalidSnapshot)
	}

	ids := make(map[m.Value]string, len(b.values))
	for id, v := range b.values {
		ids[v] = id
	}

	return &m.Graph{Root: root, IDs: ids}, nil
}

type graphBuilder struct {
	records  map[string]*m.ValueRecord
	values   map[string]m.Value
	creating map[string]bool
}

// create instantiates the value with the given id. Functions with an
// explicit prototype need it created first.
func (b *graphBuilder) create(id string) (m.Value, error) {
	if v, ok := b.values[id]; ok {
		return v, nil
	}

	rec, ok := b.records[id]
	if !ok {
		return nil, fmt.Errorf("unknown reference %q: %w", id, ErrInvalidSnapshot)
	}

	if b.creating[id] {
		return nil, fmt.Errorf("prototype cycle through %q: %w", id, ErrInvalidSnapshot)
	}

	b.creating[id] = true
	defer delete(b.creating, id)

	var v m.Value

	switch rec.Kind {
	case m.ValueObject, "":
		v = m.NewObject()
	case m.ValueBuffer:
		data := make([]byte, len(rec.Bytes))
		for i, n := range rec.Bytes {
			if n < 0 || n > 255 {
				return nil, fmt.Errorf("value %q byte %d out of range: %w", id, n, ErrInvalidSnapshot)
			}

			data[i] = byte(n)
		}

		v = m.NewBuffer(data)
	case m.ValueFunction, m.ValueClass:
		fn, err := b.createFunction(rec)
		if err != nil {
			return nil, err
		}

		v = fn
	default:
		return nil, fmt.Errorf("value %q has unknown kind %q: %w", id, rec.Kind, ErrInvalidSnapshot)
	}

	b.values[id] = v

	return v, nil
}

func (b *graphBuilder) createFunction(rec *m.ValueRecord) (*m.Function, error) {
	kind := m.FunctionOrdinary

	switch {
	case rec.Kind == m.ValueClass:
		kind = m.FunctionClass
	case rec.Arrow:
		kind = m.FunctionArrow
	}

	source := rec.Source
	if source == "" {
		source = defaultSource(kind, rec.Name)
	}

	var prototype m.Value

	switch {
	case rec.Prototype != "":
		if kind == m.FunctionArrow {
			return nil, fmt.Errorf("arrow function %q cannot have a prototype: %w", rec.ID, ErrInvalidSnapshot)
		}

		proto, err := b.create(rec.Prototype)
		if err != nil {
			return nil, err
		}

		prototype = proto
	case kind != m.FunctionArrow:
		// A prototype property record replaces the default prototype
		// object; class prototypes are read-only and cannot be redefined.
		for _, prop := range rec.Properties {
			if prop.Name != "prototype" {
				continue
			}

			proto, err := b.propertyValue(rec.ID, prop)
			if err != nil {
				return nil, err
			}

			prototype = proto
		}
	}

	return m.NewFunction(kind, rec.Name, source, prototype), nil
}

func defaultSource(kind m.FunctionKind, name string) string {
	switch kind {
	case m.FunctionArrow:
		return "() => {}"
	case m.FunctionClass:
		if name == "" {
			return "class {}"
		}

		return "class " + name + " {}"
	default:
		if name == "" {
			return "function () {}"
		}

		return "function " + name + "() {}"
	}
}

func (b *graphBuilder) defineProperties(rec *m.ValueRecord) error {
	obj, _ := m.AsObject(b.values[rec.ID])
	definer := definerFor(b.values[rec.ID], obj)

	for _, prop := range rec.Properties {
		if prop.Name == "" {
			return fmt.Errorf("value %q has a property without name: %w", rec.ID, ErrInvalidSnapshot)
		}

		value, err := b.propertyValue(rec.ID, prop)
		if err != nil {
			return err
		}

		desc := m.Property{
			Value:        value,
			Writable:     flag(prop.Writable),
			Enumerable:   flag(prop.Enumerable),
			Configurable: flag(prop.Configurable),
		}

		if err := definer(prop.Name, desc); err != nil {
			return fmt.Errorf("value %q: %w", rec.ID, err)
		}
	}

	return nil
}

func definerFor(v m.Value, obj *m.Object) func(string, m.Property) error {
	if buf, ok := v.(*m.Buffer); ok {
		return buf.Define
	}

	return obj.Define
}

func (b *graphBuilder) propertyValue(owner string, prop m.PropertyRecord) (m.Value, error) {
	var (
		value m.Value
		count int
	)

	if prop.Ref != "" {
		ref, err := b.create(prop.Ref)
		if err != nil {
			return nil, fmt.Errorf("value %q property %q: %w", owner, prop.Name, err)
		}

		value = ref
		count++
	}

	if prop.String != nil {
		value = m.String(*prop.String)
		count++
	}

	if prop.Number != nil {
		value = m.Number(*prop.Number)
		count++
	}

	if prop.Bool != nil {
		value = m.Bool(*prop.Bool)
		count++
	}

	if prop.Symbol != nil {
		value = m.Symbol{Description: *prop.Symbol}
		count++
	}

	if prop.Null {
		value = m.Null{}
		count++
	}

	if prop.Undefined {
		value = m.Undefined{}
		count++
	}

	if count != 1 {
		return nil, fmt.Errorf("value %q property %q needs exactly one value, got %d: %w",
			owner, prop.Name, count, ErrInvalidSnapshot)
	}

	return value, nil
}

func flag(p *bool) bool {
	return p == nil || *p
}

func applyIntegrity(v m.Value, level m.IntegrityLevel) error {
	integrity, ok := v.(m.Integrity)
	if !ok {
		return fmt.Errorf("no integrity support: %w", ErrInvalidSnapshot)
	}

	switch level {
	case "", m.IntegrityNone:
	case m.IntegrityNonExtensible:
		integrity.PreventExtensions()
	case m.IntegritySealed:
		integrity.Seal()
	case m.IntegrityFrozen:
		if err := integrity.Freeze(); err != nil {
			if errors.Is(err, m.ErrCannotFreeze) {
				return fmt.Errorf("%w: %w", err, ErrInvalidSnapshot)
			}

			return err
		}
	default:
		return fmt.Errorf("unknown integrity %q: %w", level, ErrInvalidSnapshot)
	}

	return nil
}

// ExportGraph converts graph back into a document. Values without an id
// get a generated one. Accessor properties are exported with the value
// their getter returns.
func ExportGraph(graph *m.Graph) (*m.Document, error) {
	if graph == nil || m.IsPrimitive(graph.Root) {
		return nil, fmt.Errorf("root is not a heap value: %w", ErrInvalidSnapshot)
	}

	e := &graphExporter{
		ids:   make(map[m.Value]string),
		taken: make(map[string]bool),
	}

	for v, id := range graph.IDs {
		e.ids[v] = id
		e.taken[id] = true
	}

	doc := &m.Document{Version: m.SnapshotVersion, Root: e.id(graph.Root)}

	visited := map[m.Value]struct{}{graph.Root: {}}
	pending := []m.Value{graph.Root}

	for len(pending) > 0 {
		current := pending[0]
		pending = pending[1:]

		rec, children := e.record(current)
		doc.Values = append(doc.Values, rec)

		for _, child := range children {
			if _, seen := visited[child]; seen {
				continue
			}

			visited[child] = struct{}{}
			pending = append(pending, child)
		}
	}

	return doc, nil
}

type graphExporter struct {
	ids   map[m.Value]string
	taken map[string]bool
	next  int
}

func (e *graphExporter) id(v m.Value) string {
	if id, ok := e.ids[v]; ok {
		return id
	}

	for {
		e.next++

		id := "v" + strconv.Itoa(e.next)
		if !e.taken[id] {
			e.ids[v] = id
			e.taken[id] = true

			return id
		}
	}
}

// record exports one heap value and returns the heap values it references.
func (e *graphExporter) record(v m.Value) (m.ValueRecord, []m.Value) {
	obj, _ := m.AsObject(v)
	rec := m.ValueRecord{ID: e.id(v), Kind: m.ValueObject, Integrity: integrityOf(v)}

	var children []m.Value

	skip := map[string]bool{}

	switch val := v.(type) {
	case *m.Function:
		rec.Kind = m.ValueFunction
		if val.FunctionKind() == m.FunctionClass {
			rec.Kind = m.ValueClass
		}

		rec.Arrow = val.FunctionKind() == m.FunctionArrow
		rec.Name = val.Name()
		rec.Source = val.Source()
		skip["length"], skip["name"] = true, true

		// Primitive prototypes and arrow function properties are exported
		// as plain property records.
		if proto := val.Prototype(); !rec.Arrow && !m.IsPrimitive(proto) {
			skip["prototype"] = true
			rec.Prototype = e.id(proto)
			children = append(children, proto)
		}
	case *m.Buffer:
		rec.Kind = m.ValueBuffer
		for i, c := range val.Bytes() {
			rec.Bytes = append(rec.Bytes, int(c))
			skip[strconv.Itoa(i)] = true
		}
	}

	for _, name := range obj.OwnPropertyNames() {
		if skip[name] {
			continue
		}

		p, _ := obj.GetOwnProperty(name)
		prop := m.PropertyRecord{Name: name}
		value := obj.Get(name)

		if !p.IsAccessor() && !p.Writable {
			prop.Writable = boolPtr(false)
		}

		if !p.Enumerable {
			prop.Enumerable = boolPtr(false)
		}

		if !p.Configurable {
			prop.Configurable = boolPtr(false)
		}

		if !m.IsPrimitive(value) {
			prop.Ref = e.id(value)
			children = append(children, value)
		} else {
			setScalar(&prop, value)
		}

		rec.Properties = append(rec.Properties, prop)
	}

	return rec, children
}

func setScalar(prop *m.PropertyRecord, v m.Value) {
	switch val := v.(type) {
	case m.String:
		s := string(val)
		prop.String = &s
	case m.Number:
		f := float64(val)
		prop.Number = &f
	case m.Bool:
		prop.Bool = boolPtr(bool(val))
	case m.Symbol:
		s := val.Description
		prop.Symbol = &s
	case m.Null:
		prop.Null = true
	default:
		prop.Undefined = true
	}
}

func integrityOf(v m.Value) m.IntegrityLevel {
	integrity, ok := v.(m.Integrity)

	switch {
	case !ok || integrity.IsExtensible():
		return m.IntegrityNone
	case integrity.IsFrozen():
		return m.IntegrityFrozen
	case integrity.IsSealed():
		return m.IntegritySealed
	default:
		return m.IntegrityNonExtensible
	}
}

func boolPtr(b bool) *bool {
	return &b
}
