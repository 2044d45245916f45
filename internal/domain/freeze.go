package domain

import (
	"errors"
	"log/slog"

	m "frostcheck.dev/pkg/frostcheck/internal/model"
)

// DeepFreeze freezes v and every heap value reachable from it through own
// properties, then returns v. Values that only support sealing (non-empty
// buffers) are sealed instead.
func DeepFreeze(v m.Value) m.Value {
	if m.IsPrimitive(v) {
		return v
	}

	visited := map[m.Value]struct{}{v: {}}
	pending := []m.Value{v}
	sealed := 0

	for len(pending) > 0 {
		current := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		if integrity, ok := current.(m.Integrity); ok {
			if err := integrity.Freeze(); err != nil {
				if !errors.Is(err, m.ErrCannotFreeze) {
					slog.Warn("failed to freeze value", "error", err)
				}

				integrity.Seal()
				sealed++
			}
		}

		obj, _ := m.AsObject(current)
		for _, name := range obj.OwnPropertyNames() {
			child := obj.Get(name)
			if m.IsPrimitive(child) {
				continue
			}

			if _, seen := visited[child]; seen {
				continue
			}

			visited[child] = struct{}{}
			pending = append(pending, child)
		}
	}

	slog.Debug("deep freeze completed", "values", len(visited), "sealed", sealed)

	return v
}
