package domain

import (
	m "frostcheck.dev/pkg/frostcheck/internal/model"
)

// reportBuilder collects violations during a traversal. It never leaves
// the package: callers only see the immutable Result built from it.
type reportBuilder struct {
	violations []m.Violation
}

func newReportBuilder() *reportBuilder {
	return &reportBuilder{}
}

func (b *reportBuilder) add(v m.Violation) {
	b.violations = append(b.violations, v)
}

func (b *reportBuilder) len() int {
	return len(b.violations)
}

// snapshot returns an independent copy of the collected violations.
func (b *reportBuilder) snapshot() []m.Violation {
	return append([]m.Violation(nil), b.violations...)
}

func (b *reportBuilder) reset() {
	clear(b.violations)
	b.violations = nil
}

// buildResult converts the violations into the final result.
func buildResult(violations []m.Violation) m.Result {
	if len(violations) == 0 {
		return m.Result{}
	}

	return m.FailedResult(m.NewNotDeeplyFrozenError(violations))
}

// resultValue renders r as a heap object and deep freezes it:
// {} on success, otherwise
// {error: {message, name}, notDeeplyFrozen: true}.
func resultValue(r m.Result) (m.Value, error) {
	out := m.NewObject()

	if failure := r.Failure(); failure != nil {
		errValue := m.NewObject()
		if err := errValue.Set("message", m.String(failure.Message())); err != nil {
			return nil, err
		}

		if err := errValue.Set("name", m.String(failure.Name())); err != nil {
			return nil, err
		}

		if err := out.Set("error", errValue); err != nil {
			return nil, err
		}

		if err := out.Set("notDeeplyFrozen", m.Bool(true)); err != nil {
			return nil, err
		}
	}

	return DeepFreeze(out), nil
}
