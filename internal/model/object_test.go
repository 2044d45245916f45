package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObject_OwnPropertyNamesOrder(t *testing.T) {
	obj := NewObject()
	require.NoError(t, obj.Set("b", Number(1)))
	require.NoError(t, obj.Set("10", Number(2)))
	require.NoError(t, obj.Set("a", Number(3)))
	require.NoError(t, obj.Set("2", Number(4)))
	require.NoError(t, obj.Set("01", Number(5)))
	require.NoError(t, obj.Define("hidden", HiddenProperty(Number(6))))

	assert.Equal(t, []string{"2", "10", "b", "a", "01", "hidden"}, obj.OwnPropertyNames())
}

func TestObject_Integrity(t *testing.T) {
	tests := []struct {
		name       string
		prepare    func(o *Object)
		extensible bool
		sealed     bool
		frozen     bool
	}{
		{
			name:       "fresh object",
			prepare:    func(o *Object) { _ = o.Set("a", Number(1)) },
			extensible: true,
		},
		{
			name:    "empty non-extensible object is frozen",
			prepare: func(o *Object) { o.PreventExtensions() },
			sealed:  true,
			frozen:  true,
		},
		{
			name: "non-extensible object with configurable property",
			prepare: func(o *Object) {
				_ = o.Set("a", Number(1))
				o.PreventExtensions()
			},
		},
		{
			name: "sealed object with writable property",
			prepare: func(o *Object) {
				_ = o.Set("a", Number(1))
				o.Seal()
			},
			sealed: true,
		},
		{
			name: "frozen object",
			prepare: func(o *Object) {
				_ = o.Set("a", Number(1))
				_ = o.Freeze()
			},
			sealed: true,
			frozen: true,
		},
		{
			name: "accessor properties only need to be non-configurable",
			prepare: func(o *Object) {
				_ = o.Define("get", Property{Getter: func() Value { return Number(1) }, Configurable: true})
				o.Seal()
			},
			sealed: true,
			frozen: true,
		},
		{
			name: "manually read-only properties on a non-extensible object",
			prepare: func(o *Object) {
				_ = o.Define("a", Property{Value: Number(1)})
				o.PreventExtensions()
			},
			sealed: true,
			frozen: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := NewObject()
			tt.prepare(obj)

			assert.Equal(t, tt.extensible, obj.IsExtensible(), "extensible")
			assert.Equal(t, tt.sealed, obj.IsSealed(), "sealed")
			assert.Equal(t, tt.frozen, obj.IsFrozen(), "frozen")
		})
	}
}

func TestObject_MutationsRespectIntegrity(t *testing.T) {
	obj := NewObject()
	require.NoError(t, obj.Set("a", Number(1)))
	require.NoError(t, obj.Freeze())

	assert.ErrorIs(t, obj.Set("a", Number(2)), ErrNotWritable)
	assert.ErrorIs(t, obj.Set("b", Number(2)), ErrNotExtensible)
	assert.ErrorIs(t, obj.Delete("a"), ErrNotConfigurable)
	assert.ErrorIs(t, obj.Define("a", DataProperty(Number(3))), ErrNotConfigurable)
	assert.NoError(t, obj.Delete("missing"))
	assert.Equal(t, Number(1), obj.Get("a"))
}

func TestObject_DefineNonConfigurable(t *testing.T) {
	obj := NewObject()
	require.NoError(t, obj.Define("a", Property{Value: Number(1), Writable: true}))

	require.NoError(t, obj.Define("a", Property{Value: Number(2), Writable: true}))
	require.NoError(t, obj.Define("a", Property{Value: Number(2)}))
	assert.ErrorIs(t, obj.Define("a", Property{Value: Number(2), Writable: true}), ErrNotConfigurable)
	assert.ErrorIs(t, obj.Define("a", Property{Value: Number(2), Enumerable: true}), ErrNotConfigurable)
	assert.NoError(t, obj.Define("a", Property{Value: Number(2)}))
}

func TestObject_GetAndDelete(t *testing.T) {
	obj := NewObject()
	calls := 0

	require.NoError(t, obj.Define("lazy", Property{
		Getter: func() Value {
			calls++
			return String("computed")
		},
		Configurable: true,
	}))
	require.NoError(t, obj.Set("x", Null{}))

	assert.Equal(t, String("computed"), obj.Get("lazy"))
	assert.Equal(t, 1, calls)
	assert.Equal(t, Undefined{}, obj.Get("missing"))
	assert.ErrorIs(t, obj.Set("lazy", Number(1)), ErrNotWritable)

	require.NoError(t, obj.Delete("lazy"))
	assert.False(t, obj.Has("lazy"))
	assert.Equal(t, []string{"x"}, obj.OwnPropertyNames())
}

func TestFunction_OwnProperties(t *testing.T) {
	t.Run("ordinary function has a prototype pointing back", func(t *testing.T) {
		fn := NewFunction(FunctionOrdinary, "f", "function f() {}", nil)

		assert.Equal(t, []string{"length", "name", "prototype"}, fn.OwnPropertyNames())
		assert.Equal(t, KindFunction, fn.Kind())
		assert.Equal(t, "function f() {}", fn.String())

		proto, ok := fn.Prototype().(*Object)
		require.True(t, ok)
		assert.Same(t, fn, proto.Get("constructor"))

		p, ok := fn.GetOwnProperty("prototype")
		require.True(t, ok)
		assert.False(t, p.Enumerable)
		assert.True(t, p.Writable)
		assert.False(t, p.Configurable)
	})

	t.Run("class prototype is read-only", func(t *testing.T) {
		cls := NewFunction(FunctionClass, "C", "class C {}", nil)

		p, ok := cls.GetOwnProperty("prototype")
		require.True(t, ok)
		assert.False(t, p.Writable)
	})

	t.Run("arrow function has no prototype", func(t *testing.T) {
		fn := NewFunction(FunctionArrow, "", "() => {}", nil)

		assert.Equal(t, []string{"length", "name"}, fn.OwnPropertyNames())
		assert.Equal(t, Undefined{}, fn.Prototype())
	})

	t.Run("explicit prototype is used as is", func(t *testing.T) {
		proto := NewObject()
		fn := NewFunction(FunctionOrdinary, "", "function () {}", proto)

		assert.Same(t, proto, fn.Prototype())
		assert.False(t, proto.Has("constructor"))
	})

	t.Run("frozen function with frozen prototype", func(t *testing.T) {
		fn := NewFunction(FunctionOrdinary, "", "function () {}", nil)
		require.NoError(t, fn.Freeze())

		assert.True(t, fn.IsFrozen())
		assert.ErrorIs(t, fn.Set("extra", Number(1)), ErrNotExtensible)
	})
}

func TestBuffer(t *testing.T) {
	t.Run("non-empty buffer can be sealed but not frozen", func(t *testing.T) {
		buf := NewBuffer([]byte{1, 2, 3})

		assert.ErrorIs(t, buf.Freeze(), ErrCannotFreeze)
		assert.True(t, buf.IsExtensible())

		buf.Seal()
		assert.True(t, buf.IsSealed())
		assert.False(t, buf.IsFrozen())

		require.NoError(t, buf.Set("1", Number(258)))
		assert.Equal(t, []byte{1, 2, 3}[:1], buf.Bytes()[:1])
		assert.Equal(t, byte(2), buf.Bytes()[1])
		assert.Equal(t, "1,2,3", buf.String())
	})

	t.Run("empty buffer freezes", func(t *testing.T) {
		buf := NewBuffer(nil)

		require.NoError(t, buf.Freeze())
		assert.True(t, buf.IsFrozen())
	})

	t.Run("index properties keep their attributes", func(t *testing.T) {
		buf := NewBuffer([]byte{7})

		assert.ErrorIs(t, buf.Define("0", Property{Value: Number(1)}), ErrNotConfigurable)
		assert.ErrorIs(t, buf.Define("5", Property{Value: Number(1), Writable: true, Enumerable: true}), ErrNotExtensible)
		require.NoError(t, buf.Define("0", Property{Value: Number(9), Writable: true, Enumerable: true}))
		assert.Equal(t, []byte{9}, buf.Bytes())
		assert.NoError(t, buf.Set("3", Number(1)))
		assert.Equal(t, 1, buf.Size())
	})
}

func TestValueCategories(t *testing.T) {
	fn := NewFunction(FunctionArrow, "", "() => {}", nil)

	tests := []struct {
		name      string
		value     Value
		callable  bool
		object    bool
		primitive bool
	}{
		{"undefined", Undefined{}, false, false, true},
		{"null", Null{}, false, false, true},
		{"bool", Bool(true), false, false, true},
		{"number", Number(69), false, false, true},
		{"string", String("s"), false, false, true},
		{"symbol", Symbol{Description: "s"}, false, false, true},
		{"nil", nil, false, false, true},
		{"object", NewObject(), false, true, false},
		{"buffer", NewBuffer([]byte{1}), false, true, false},
		{"function", fn, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.callable, IsCallable(tt.value), "callable")
			assert.Equal(t, tt.object, IsObjectLike(tt.value), "object")
			assert.Equal(t, tt.primitive, IsPrimitive(tt.value), "primitive")
		})
	}
}

func TestNumber_String(t *testing.T) {
	assert.Equal(t, "69", Number(69).String())
	assert.Equal(t, "-1.5", Number(-1.5).String())
	assert.Equal(t, "0", Number(0).String())
	assert.Equal(t, "1e+21", Number(1e21).String())
	assert.Equal(t, "150000000000000000000", Number(1.5e20).String())
	assert.Equal(t, "1.5e+300", Number(1.5e300).String())
	assert.Equal(t, "0.000001", Number(1e-6).String())
	assert.Equal(t, "1e-7", Number(1e-7).String())
	assert.Equal(t, "-2.5e-8", Number(-2.5e-8).String())
	assert.Equal(t, "0.1", Number(0.1).String())
}
