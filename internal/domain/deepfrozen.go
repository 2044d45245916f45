package domain

import (
	"errors"

	m "frostcheck.dev/pkg/frostcheck/internal/model"
)

// ErrNotDeeplyFrozen is returned by workflows when a checked graph is not deeply frozen.
var ErrNotDeeplyFrozen = errors.New("not deeply frozen")

// Option configures a Checker.
type Option func(*checkerConfig)

type checkerConfig struct {
	sealedBuffers bool
	describe      func(m.Value) string
}

// WithSealedBuffers accepts sealed buffers as frozen.
func WithSealedBuffers() Option {
	return func(c *checkerConfig) {
		c.sealedBuffers = true
	}
}

// WithDescriber replaces Describe for rendering offending values.
func WithDescriber(describe func(m.Value) string) Option {
	return func(c *checkerConfig) {
		if describe != nil {
			c.describe = describe
		}
	}
}

// Checker runs deep frozen checks. It holds no per-call state and is safe
// for concurrent use as long as the checked graphs are not being mutated.
type Checker struct {
	policy   *Policy
	describe func(m.Value) string
}

// NewChecker constructs a Checker with the given options.
func NewChecker(options ...Option) *Checker {
	cfg := checkerConfig{describe: Describe}
	for _, opt := range options {
		opt(&cfg)
	}

	return &Checker{
		policy:   NewPolicy(cfg.sealedBuffers),
		describe: cfg.describe,
	}
}

var defaultChecker = NewChecker()

// IsDeepFrozen checks v with the default checker.
func IsDeepFrozen(v m.Value) m.Result {
	return defaultChecker.Check(v)
}

// Policy returns the frozen-test policy used by the checker.
func (c *Checker) Policy() *Policy {
	return c.policy
}

// Check reports every value reachable from v that is not frozen. The whole
// graph is always walked; violations are listed in pre-order.
func (c *Checker) Check(v m.Value) m.Result {
	t := newTraversal(c.policy, c.describe)
	defer t.release()

	t.run(v)

	return buildResult(t.report.snapshot())
}

// CheckValue is Check rendered as a deep frozen heap object: {} when v is
// deeply frozen, otherwise {error: {message, name}, notDeeplyFrozen: true}.
func (c *Checker) CheckValue(v m.Value) (m.Value, error) {
	return resultValue(c.Check(v))
}
