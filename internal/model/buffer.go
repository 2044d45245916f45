package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Buffer is a fixed-size byte buffer. Its bytes are exposed as writable,
// non-configurable index properties, so a non-empty buffer can be sealed
// but never frozen.
type Buffer struct {
	Object
	size int
}

// NewBuffer creates a buffer holding a copy of data.
func NewBuffer(data []byte) *Buffer {
	buf := &Buffer{
		Object: Object{props: make(map[string]*Property)},
		size:   len(data),
	}

	for i, b := range data {
		name := strconv.Itoa(i)
		buf.props[name] = &Property{Value: Number(b), Writable: true, Enumerable: true}
		buf.order = append(buf.order, name)
	}

	return buf
}

func (b *Buffer) String() string {
	parts := make([]string, 0, b.size)
	for _, v := range b.Bytes() {
		parts = append(parts, strconv.Itoa(int(v)))
	}

	return strings.Join(parts, ",")
}

// Size returns the number of bytes in the buffer.
func (b *Buffer) Size() int {
	return b.size
}

// Bytes returns a copy of the buffer contents.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, b.size)
	for i := range out {
		if n, ok := b.Get(strconv.Itoa(i)).(Number); ok {
			out[i] = byte(n)
		}
	}

	return out
}

// Set assigns v to the named property. Index assignments are converted to
// a byte; assignments past the end are ignored.
func (b *Buffer) Set(name string, v Value) error {
	idx, ok := arrayIndex(name)
	if !ok {
		return b.Object.Set(name, v)
	}

	if int(idx) >= b.size {
		return nil
	}

	n, ok := v.(Number)
	if !ok || math.IsNaN(float64(n)) || math.IsInf(float64(n), 0) {
		n = 0
	}

	return b.Object.Set(name, Number(uint8(int64(n))))
}

// Freeze fails for non-empty buffers: their bytes stay writable.
func (b *Buffer) Freeze() error {
	if b.size > 0 {
		return fmt.Errorf("freeze buffer of %d bytes: %w", b.size, ErrCannotFreeze)
	}

	return b.Object.Freeze()
}

// Define redefines the named property. Index properties only accept a
// writable, enumerable, non-configurable data descriptor.
func (b *Buffer) Define(name string, p Property) error {
	idx, ok := arrayIndex(name)
	if !ok {
		return b.Object.Define(name, p)
	}

	if int(idx) >= b.size {
		return fmt.Errorf("define %q: %w", name, ErrNotExtensible)
	}

	if p.IsAccessor() || !p.Writable || !p.Enumerable || p.Configurable {
		return fmt.Errorf("define %q: %w", name, ErrNotConfigurable)
	}

	return b.Set(name, p.Value)
}
