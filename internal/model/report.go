package model

import (
	"fmt"
	"strings"
)

// RootLabel is the path label of the value passed to the check.
const RootLabel = "inputValue"

// NotDeeplyFrozenErrorName is the error name carried by failed results.
const NotDeeplyFrozenErrorName = "NotDeeplyFrozenError"

// ChildLabel derives the path label of the property name reached from parent.
func ChildLabel(parent, name string) string {
	return parent + `[ "` + name + `" ]`
}

// PathLabel builds the label of the value reached from the root through
// the given property names, outermost first.
func PathLabel(names ...string) string {
	size := len(RootLabel)
	for _, name := range names {
		size += len(name) + 6
	}

	var b strings.Builder

	b.Grow(size)
	b.WriteString(RootLabel)

	for _, name := range names {
		b.WriteString(`[ "`)
		b.WriteString(name)
		b.WriteString(`" ]`)
	}

	return b.String()
}

// Violation records one reachable value that is not frozen.
type Violation struct {
	path     string
	rendered string
}

// NewViolation creates a violation for the value rendered at path.
func NewViolation(path, rendered string) Violation {
	return Violation{path: path, rendered: rendered}
}

// Path returns the path label of the offending value.
func (v Violation) Path() string { return v.path }

// Rendered returns the display rendering of the offending value.
func (v Violation) Rendered() string { return v.rendered }

func (v Violation) String() string {
	return fmt.Sprintf("property: %s, value: %s", v.path, v.rendered)
}

// NotDeeplyFrozenError is the error payload of a failed check.
type NotDeeplyFrozenError struct {
	message    string
	violations []Violation
}

// NewNotDeeplyFrozenError joins violations into the error message.
func NewNotDeeplyFrozenError(violations []Violation) *NotDeeplyFrozenError {
	lines := make([]string, 0, len(violations))
	for _, v := range violations {
		lines = append(lines, v.String())
	}

	return &NotDeeplyFrozenError{
		message:    strings.Join(lines, "\n"),
		violations: append([]Violation(nil), violations...),
	}
}

// Name returns NotDeeplyFrozenErrorName.
func (e *NotDeeplyFrozenError) Name() string { return NotDeeplyFrozenErrorName }

// Message returns the newline-joined violation descriptors.
func (e *NotDeeplyFrozenError) Message() string { return e.message }

func (e *NotDeeplyFrozenError) Error() string {
	return e.Name() + ": " + e.message
}

// Violations returns a copy of the recorded violations in traversal order.
func (e *NotDeeplyFrozenError) Violations() []Violation {
	return append([]Violation(nil), e.violations...)
}

// Result is the outcome of a deep frozen check. The zero value is success.
// It has no exported fields and hands out copies only.
type Result struct {
	err *NotDeeplyFrozenError
}

// FailedResult wraps err into a failed result.
func FailedResult(err *NotDeeplyFrozenError) Result {
	return Result{err: err}
}

// NotDeeplyFrozen reports whether at least one reachable value is not frozen.
func (r Result) NotDeeplyFrozen() bool {
	return r.err != nil
}

// Failure returns the error payload, or nil on success.
func (r Result) Failure() *NotDeeplyFrozenError {
	return r.err
}

// Err returns the error payload as an error, or nil on success.
func (r Result) Err() error {
	if r.err == nil {
		return nil
	}

	return r.err
}

// Violations returns the recorded violations, empty on success.
func (r Result) Violations() []Violation {
	if r.err == nil {
		return nil
	}

	return r.err.Violations()
}

// ViolationRecord is the serialisable form of a Violation.
type ViolationRecord struct {
	Path  string `yaml:"path" json:"path"`
	Value string `yaml:"value" json:"value"`
}

// FileReport holds the check outcome for one snapshot file.
type FileReport struct {
	Path            Path              `yaml:"path" json:"path"`
	NotDeeplyFrozen bool              `yaml:"not_deeply_frozen" json:"not_deeply_frozen"`
	Violations      []ViolationRecord `yaml:"violations,omitempty" json:"violations,omitempty"`
	Error           string            `yaml:"error,omitempty" json:"error,omitempty"`
}

// NewFileReport converts a check result for the file at path.
func NewFileReport(path Path, result Result) FileReport {
	report := FileReport{Path: path, NotDeeplyFrozen: result.NotDeeplyFrozen()}

	for _, v := range result.Violations() {
		report.Violations = append(report.Violations, ViolationRecord{Path: v.Path(), Value: v.Rendered()})
	}

	return report
}

// Status classifies a file report.
func (r FileReport) Status() CheckStatus {
	switch {
	case r.Error != "":
		return StatusError
	case r.NotDeeplyFrozen:
		return StatusNotFrozen
	default:
		return StatusFrozen
	}
}

// CheckStatus is the outcome category of a file check.
type CheckStatus int

const (
	// StatusFrozen indicates the whole graph is deeply frozen.
	StatusFrozen CheckStatus = iota
	// StatusNotFrozen indicates at least one reachable value is not frozen.
	StatusNotFrozen
	// StatusError indicates the snapshot could not be checked.
	StatusError
)

func (s CheckStatus) String() string {
	switch s {
	case StatusFrozen:
		return "frozen"
	case StatusNotFrozen:
		return "not frozen"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Summary aggregates the file reports of a batch.
type Summary struct {
	Files     int
	Frozen    int
	NotFrozen int
	Errors    int
}

// Add counts report into the summary.
func (s *Summary) Add(report FileReport) {
	s.Files++

	switch report.Status() {
	case StatusFrozen:
		s.Frozen++
	case StatusNotFrozen:
		s.NotFrozen++
	case StatusError:
		s.Errors++
	}
}
