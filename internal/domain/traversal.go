package domain

import (
	"log/slog"

	m "frostcheck.dev/pkg/frostcheck/internal/model"
)

// frame is one node on the traversal stack together with the cursor into
// its own property names. Labels are not stored: a frame only knows the
// property it was reached through and its parent frame.
type frame struct {
	parent *frame
	name   string
	value  m.Value
	names  []string
	next   int
}

func newFrame(parent *frame, name string, value m.Value) *frame {
	f := &frame{parent: parent, name: name, value: value}
	if obj, ok := m.AsObject(value); ok {
		f.names = obj.OwnPropertyNames()
	}

	return f
}

// label rebuilds the path label of the value reached through name from f.
// A nil f with an empty name is the root.
func label(f *frame, name string) string {
	depth := 0
	for p := f; p != nil && p.parent != nil; p = p.parent {
		depth++
	}

	if f != nil {
		depth++
	}

	names := make([]string, depth)
	if depth > 0 {
		names[depth-1] = name
	}

	i := depth - 2
	for p := f; p != nil && p.parent != nil; p = p.parent {
		names[i] = p.name
		i--
	}

	return m.PathLabel(names...)
}

// traversal walks a graph depth-first in pre-order. It uses an explicit
// stack so deep graphs do not grow the goroutine stack.
type traversal struct {
	policy   *Policy
	describe func(m.Value) string
	visited  map[m.Value]struct{}
	report   *reportBuilder
}

func newTraversal(policy *Policy, describe func(m.Value) string) *traversal {
	return &traversal{
		policy:   policy,
		describe: describe,
		visited:  make(map[m.Value]struct{}),
		report:   newReportBuilder(),
	}
}

// run tests root and every distinct value reachable from it. A value is
// marked visited right after it is tested and before its properties are
// enumerated, so cycles back to it are skipped.
func (t *traversal) run(root m.Value) {
	t.test(nil, "", root)

	if !t.policy.NeedsTraversal(root) {
		return
	}

	t.visited[root] = struct{}{}
	stack := []*frame{newFrame(nil, "", root)}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next >= len(top.names) {
			stack[len(stack)-1] = nil
			stack = stack[:len(stack)-1]

			continue
		}

		name := top.names[top.next]
		top.next++

		child := property(top.value, name)
		if !t.policy.NeedsTraversal(child) {
			continue
		}

		if _, seen := t.visited[child]; seen {
			continue
		}

		t.test(top, name, child)
		t.visited[child] = struct{}{}
		stack = append(stack, newFrame(top, name, child))
	}

	slog.Debug("traversal completed", "visited", len(t.visited), "violations", t.report.len())
}

// test records a violation for v, reached through name from parent. The
// label is only built for values that are not frozen.
func (t *traversal) test(parent *frame, name string, v m.Value) {
	if t.policy.IsFrozen(v) {
		return
	}

	t.report.add(m.NewViolation(label(parent, name), t.describe(v)))
}

// release drops the scratch state so nothing leaks past the call.
func (t *traversal) release() {
	clear(t.visited)
	t.visited = nil
	t.report.reset()
}

func property(v m.Value, name string) m.Value {
	obj, ok := m.AsObject(v)
	if !ok {
		return m.Undefined{}
	}

	return obj.Get(name)
}
