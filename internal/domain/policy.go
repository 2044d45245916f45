package domain

import (
	m "frostcheck.dev/pkg/frostcheck/internal/model"
)

// Rule decides frozen-ness for the values it applies to.
type Rule struct {
	Name    string
	Applies func(v m.Value) bool
	Test    func(v m.Value) bool
}

// Policy decides which values are traversed and which count as frozen.
// Rules are evaluated in order and the first applicable rule decides.
type Policy struct {
	rules []Rule
}

var primitiveRule = Rule{
	Name:    "primitive",
	Applies: m.IsPrimitive,
	Test:    func(m.Value) bool { return true },
}

// sealedBufferRule is the one relaxation of the frozen predicate: buffer
// bytes stay writable after sealing, so a sealed buffer is accepted.
var sealedBufferRule = Rule{
	Name: "sealed-buffer",
	Applies: func(v m.Value) bool {
		_, ok := v.(*m.Buffer)
		return ok
	},
	Test: func(v m.Value) bool {
		buf, _ := v.(*m.Buffer)
		return buf.IsSealed()
	},
}

var defaultRule = Rule{
	Name:    "default",
	Applies: func(m.Value) bool { return true },
	Test: func(v m.Value) bool {
		integrity, ok := v.(m.Integrity)
		return ok && integrity.IsFrozen()
	},
}

// NewPolicy builds the rule list. sealedBuffers enables the sealed-buffer rule.
func NewPolicy(sealedBuffers bool) *Policy {
	rules := []Rule{primitiveRule}
	if sealedBuffers {
		rules = append(rules, sealedBufferRule)
	}

	return &Policy{rules: append(rules, defaultRule)}
}

// RuleNames lists the rules in evaluation order.
func (p *Policy) RuleNames() []string {
	names := make([]string, 0, len(p.rules))
	for _, r := range p.rules {
		names = append(names, r.Name)
	}

	return names
}

// NeedsTraversal reports whether v is callable or a non-null object.
func (p *Policy) NeedsTraversal(v m.Value) bool {
	return m.IsCallable(v) || m.IsObjectLike(v)
}

// IsFrozen reports whether v satisfies the frozen predicate.
func (p *Policy) IsFrozen(v m.Value) bool {
	for _, r := range p.rules {
		if r.Applies(v) {
			return r.Test(v)
		}
	}

	return false
}
