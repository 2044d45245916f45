package domain

import (
	"bytes"
	"errors"
	"math"
	"strconv"

	"github.com/goccy/go-json"

	m "frostcheck.dev/pkg/frostcheck/internal/model"
)

const describeIndent = "    "

var errCircular = errors.New("circular structure")

// Describe renders v for violation reports: a 4-space indented JSON form
// of its enumerable properties when there is one, otherwise the default
// string conversion of v. Functions, undefined, symbols and cyclic values
// fall back to the string conversion.
func Describe(v m.Value) string {
	raw, ok, err := encodeStructured(v, map[*m.Object]struct{}{})
	if err != nil || !ok {
		return fallbackString(v)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", describeIndent); err != nil {
		return fallbackString(v)
	}

	return out.String()
}

func fallbackString(v m.Value) string {
	if v == nil {
		return m.Undefined{}.String()
	}

	return v.String()
}

// encodeStructured returns the compact JSON form of v. ok is false when v
// has no JSON form and is skipped inside objects.
func encodeStructured(v m.Value, ancestors map[*m.Object]struct{}) ([]byte, bool, error) {
	switch val := v.(type) {
	case nil, m.Undefined, m.Symbol, *m.Function:
		return nil, false, nil
	case m.Null:
		return []byte("null"), true, nil
	case m.Bool:
		return []byte(strconv.FormatBool(bool(val))), true, nil
	case m.Number:
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return []byte("null"), true, nil
		}

		return []byte(val.String()), true, nil
	case m.String:
		raw, err := encodeString(string(val))
		return raw, err == nil, err
	}

	if buf, ok := v.(*m.Buffer); ok {
		return encodeBuffer(buf)
	}

	obj, ok := m.AsObject(v)
	if !ok {
		return nil, false, nil
	}

	if _, cyclic := ancestors[obj]; cyclic {
		return nil, false, errCircular
	}

	ancestors[obj] = struct{}{}
	defer delete(ancestors, obj)

	var buf bytes.Buffer

	buf.WriteByte('{')

	written := 0

	for _, name := range obj.OwnPropertyNames() {
		p, _ := obj.GetOwnProperty(name)
		if !p.Enumerable {
			continue
		}

		raw, ok, err := encodeStructured(obj.Get(name), ancestors)
		if err != nil {
			return nil, false, err
		}

		if !ok {
			continue
		}

		key, err := encodeString(name)
		if err != nil {
			return nil, false, err
		}

		if written > 0 {
			buf.WriteByte(',')
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(raw)

		written++
	}

	buf.WriteByte('}')

	return buf.Bytes(), true, nil
}

// encodeBuffer renders buf the way Node serialises buffers:
// {"type":"Buffer","data":[...]}. Other own properties are not included.
func encodeBuffer(buf *m.Buffer) ([]byte, bool, error) {
	data := make([]int, 0, buf.Size())
	for _, b := range buf.Bytes() {
		data = append(data, int(b))
	}

	raw, err := json.Marshal(struct {
		Type string `json:"type"`
		Data []int  `json:"data"`
	}{Type: "Buffer", Data: data})
	if err != nil {
		return nil, false, err
	}

	return raw, true, nil
}

func encodeString(s string) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(s); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
