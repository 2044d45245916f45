package adapter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "frostcheck.dev/pkg/frostcheck/internal/model"
)

const fullSnapshot = `version: 1
root: root
values:
  - id: root
    kind: object
    integrity: sealed
    properties:
      - name: greet
        ref: greet
      - name: Widget
        ref: widget
      - name: data
        ref: data
      - name: label
        string: frost
      - name: count
        number: 3
      - name: hidden
        bool: true
        enumerable: false
      - name: nothing
        "null": true
      - name: missing
        undefined: true
      - name: tag
        symbol: id
      - name: self
        ref: root
  - id: greet
    kind: function
    name: greet
    properties:
      - name: shared
        ref: shared
  - id: widget
    kind: class
    name: Widget
    prototype: widgetProto
    integrity: frozen
  - id: widgetProto
    kind: object
    integrity: frozen
    properties:
      - name: constructor
        ref: widget
        enumerable: false
  - id: data
    kind: buffer
    bytes: [1, 2, 255]
    integrity: sealed
  - id: shared
    kind: object
    integrity: nonextensible
    properties:
      - name: arrow
        ref: arrow
  - id: arrow
    kind: function
    arrow: true
`

func buildYAML(t *testing.T, content string) (*m.Graph, error) {
	t.Helper()

	doc, err := DecodeDocument("graph.yaml", []byte(content))
	require.NoError(t, err)

	return BuildGraph(doc)
}

func TestBuildGraph(t *testing.T) {
	graph, err := buildYAML(t, fullSnapshot)
	require.NoError(t, err)

	root, ok := graph.Root.(*m.Object)
	require.True(t, ok)
	assert.Equal(t, "root", graph.IDs[root])
	assert.True(t, root.IsSealed())
	assert.False(t, root.IsFrozen())
	assert.Same(t, root, root.Get("self"))

	assert.Equal(t, m.String("frost"), root.Get("label"))
	assert.Equal(t, m.Number(3), root.Get("count"))
	assert.Equal(t, m.Null{}, root.Get("nothing"))
	assert.Equal(t, m.Undefined{}, root.Get("missing"))
	assert.Equal(t, m.Symbol{Description: "id"}, root.Get("tag"))

	hidden, ok := root.GetOwnProperty("hidden")
	require.True(t, ok)
	assert.False(t, hidden.Enumerable)
	assert.False(t, hidden.Configurable)

	greet, ok := root.Get("greet").(*m.Function)
	require.True(t, ok)
	assert.Equal(t, m.FunctionOrdinary, greet.FunctionKind())
	assert.Equal(t, "function greet() {}", greet.Source())
	greetProto, ok := greet.Prototype().(*m.Object)
	require.True(t, ok)
	assert.Same(t, greet, greetProto.Get("constructor"))

	widget, ok := root.Get("Widget").(*m.Function)
	require.True(t, ok)
	assert.Equal(t, m.FunctionClass, widget.FunctionKind())
	assert.Equal(t, "class Widget {}", widget.String())
	assert.True(t, widget.IsFrozen())
	widgetProto, ok := widget.Prototype().(*m.Object)
	require.True(t, ok)
	assert.Equal(t, "widgetProto", graph.IDs[widgetProto])
	assert.Same(t, widget, widgetProto.Get("constructor"))

	data, ok := root.Get("data").(*m.Buffer)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 255}, data.Bytes())
	assert.True(t, data.IsSealed())

	shared, ok := greet.Get("shared").(*m.Object)
	require.True(t, ok)
	assert.False(t, shared.IsExtensible())
	assert.False(t, shared.IsSealed())

	arrow, ok := shared.Get("arrow").(*m.Function)
	require.True(t, ok)
	assert.Equal(t, m.FunctionArrow, arrow.FunctionKind())
	assert.Equal(t, "() => {}", arrow.Source())
}

func TestBuildGraph_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{
			name:    "newer version",
			content: "version: 2\nroot: a\nvalues:\n  - id: a\n    kind: object\n",
			want:    ErrUnsupportedVersion,
		},
		{
			name:    "missing root",
			content: "version: 1\nroot: b\nvalues:\n  - id: a\n    kind: object\n",
			want:    ErrInvalidSnapshot,
		},
		{
			name:    "value without id",
			content: "version: 1\nroot: a\nvalues:\n  - kind: object\n",
			want:    ErrInvalidSnapshot,
		},
		{
			name:    "duplicate id",
			content: "version: 1\nroot: a\nvalues:\n  - id: a\n    kind: object\n  - id: a\n    kind: object\n",
			want:    ErrInvalidSnapshot,
		},
		{
			name:    "unknown kind",
			content: "version: 1\nroot: a\nvalues:\n  - id: a\n    kind: array\n",
			want:    ErrInvalidSnapshot,
		},
		{
			name:    "unknown integrity",
			content: "version: 1\nroot: a\nvalues:\n  - id: a\n    kind: object\n    integrity: melted\n",
			want:    ErrInvalidSnapshot,
		},
		{
			name:    "unknown reference",
			content: "version: 1\nroot: a\nvalues:\n  - id: a\n    kind: object\n    properties:\n      - name: x\n        ref: nope\n",
			want:    ErrInvalidSnapshot,
		},
		{
			name:    "property with two values",
			content: "version: 1\nroot: a\nvalues:\n  - id: a\n    kind: object\n    properties:\n      - name: x\n        string: s\n        number: 1\n",
			want:    ErrInvalidSnapshot,
		},
		{
			name:    "property without value",
			content: "version: 1\nroot: a\nvalues:\n  - id: a\n    kind: object\n    properties:\n      - name: x\n",
			want:    ErrInvalidSnapshot,
		},
		{
			name:    "property without name",
			content: "version: 1\nroot: a\nvalues:\n  - id: a\n    kind: object\n    properties:\n      - string: s\n",
			want:    ErrInvalidSnapshot,
		},
		{
			name:    "byte out of range",
			content: "version: 1\nroot: a\nvalues:\n  - id: a\n    kind: buffer\n    bytes: [256]\n",
			want:    ErrInvalidSnapshot,
		},
		{
			name:    "frozen non-empty buffer",
			content: "version: 1\nroot: a\nvalues:\n  - id: a\n    kind: buffer\n    bytes: [1]\n    integrity: frozen\n",
			want:    ErrInvalidSnapshot,
		},
		{
			name:    "arrow function with prototype",
			content: "version: 1\nroot: a\nvalues:\n  - id: a\n    kind: function\n    arrow: true\n    prototype: p\n  - id: p\n    kind: object\n",
			want:    ErrInvalidSnapshot,
		},
		{
			name: "prototype cycle",
			content: "version: 1\nroot: a\nvalues:\n  - id: a\n    kind: function\n    prototype: b\n" +
				"  - id: b\n    kind: function\n    prototype: a\n",
			want: ErrInvalidSnapshot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildYAML(t, tt.content)

			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeDocument_RejectsUnknownFields(t *testing.T) {
	_, err := DecodeDocument("graph.yaml", []byte("version: 1\nroot: a\ncolour: blue\n"))
	require.Error(t, err)

	_, err = DecodeDocument("graph.json", []byte(`{"version": 1, "root": "a", "colour": "blue"}`))
	require.Error(t, err)
}

func TestExportGraph_RoundTrip(t *testing.T) {
	for _, path := range []m.Path{"graph.yaml", "graph.json"} {
		t.Run(string(path), func(t *testing.T) {
			graph, err := buildYAML(t, fullSnapshot)
			require.NoError(t, err)

			first, err := ExportGraph(graph)
			require.NoError(t, err)
			assert.Equal(t, "root", first.Root)
			assert.Equal(t, m.SnapshotVersion, first.Version)

			content, err := EncodeDocument(path, first)
			require.NoError(t, err)

			decoded, err := DecodeDocument(path, content)
			require.NoError(t, err)

			rebuilt, err := BuildGraph(decoded)
			require.NoError(t, err)

			second, err := ExportGraph(rebuilt)
			require.NoError(t, err)

			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("round trip mismatch (-first +second):\n%s", diff)
			}
		})
	}
}

func TestExportGraph_GeneratesIDs(t *testing.T) {
	child := m.NewObject()
	root := m.NewObject()
	require.NoError(t, root.Set("child", child))
	require.NoError(t, root.Set("again", child))
	require.NoError(t, root.Freeze())

	doc, err := ExportGraph(&m.Graph{Root: root, IDs: map[m.Value]string{child: "v1"}})
	require.NoError(t, err)

	require.Len(t, doc.Values, 2)
	assert.Equal(t, "v2", doc.Root)
	assert.Equal(t, m.IntegrityFrozen, doc.Values[0].Integrity)
	assert.Equal(t, "v1", doc.Values[1].ID)
	assert.Equal(t, m.IntegrityNone, doc.Values[1].Integrity)

	props := doc.Values[0].Properties
	require.Len(t, props, 2)
	assert.Equal(t, "v1", props[0].Ref)
	assert.Equal(t, "v1", props[1].Ref)
	require.NotNil(t, props[0].Writable)
	assert.False(t, *props[0].Writable)
	assert.Nil(t, props[0].Enumerable)
}

func TestExportGraph_RejectsPrimitiveRoot(t *testing.T) {
	_, err := ExportGraph(&m.Graph{Root: m.Number(1)})
	require.ErrorIs(t, err, ErrInvalidSnapshot)

	_, err = ExportGraph(nil)
	require.ErrorIs(t, err, ErrInvalidSnapshot)
}

func TestExportGraph_KeepsPrimitivePrototypes(t *testing.T) {
	graph, err := buildYAML(t, `version: 1
root: root
values:
  - id: root
    kind: object
    properties:
      - name: make
        ref: make
      - name: arrow
        ref: arrow
  - id: make
    kind: function
    name: make
    properties:
      - name: prototype
        "null": true
        enumerable: false
        configurable: false
  - id: arrow
    kind: function
    arrow: true
    properties:
      - name: prototype
        ref: shape
  - id: shape
    kind: object
`)
	require.NoError(t, err)

	root := graph.Root.(*m.Object)
	for _, v := range []m.Value{root, root.Get("make"), root.Get("arrow"), root.Get("arrow").(*m.Function).Get("prototype")} {
		require.NoError(t, v.(m.Integrity).Freeze())
	}

	doc, err := ExportGraph(graph)
	require.NoError(t, err)

	content, err := EncodeDocument("graph.yaml", doc)
	require.NoError(t, err)

	decoded, err := DecodeDocument("graph.yaml", content)
	require.NoError(t, err)

	rebuilt, err := BuildGraph(decoded)
	require.NoError(t, err)

	rebuiltRoot := rebuilt.Root.(*m.Object)

	factory, ok := rebuiltRoot.Get("make").(*m.Function)
	require.True(t, ok)
	assert.Equal(t, m.Null{}, factory.Prototype())
	assert.True(t, factory.IsFrozen())

	proto, ok := factory.GetOwnProperty("prototype")
	require.True(t, ok)
	assert.False(t, proto.Writable)
	assert.False(t, proto.Enumerable)

	arrow, ok := rebuiltRoot.Get("arrow").(*m.Function)
	require.True(t, ok)
	shape, ok := arrow.Get("prototype").(*m.Object)
	require.True(t, ok)
	assert.True(t, shape.IsFrozen())
	assert.True(t, arrow.IsFrozen())
}
