package assignment

import (
	"slices"
	"strings"

	"logistics-console/internal/domain"
)

// Policy decides whether an order may be (re)assigned.
// Comparison against the backend status is case-insensitive.
type Policy struct {
	states map[domain.OrderState]struct{}
	labels map[string]struct{}
}

// DefaultBlockedStatuses blocks reassignment only once transit has begun.
var DefaultBlockedStatuses = []string{"en tránsito"}

// DefaultPolicy returns the policy built from DefaultBlockedStatuses.
func DefaultPolicy() Policy { return NewPolicy(DefaultBlockedStatuses) }

// NewPolicy blocks every status in blocked. Known labels block every alias of
// their state; unknown labels block by exact case-insensitive match.
func NewPolicy(blocked []string) Policy {
	p := Policy{states: map[domain.OrderState]struct{}{}, labels: map[string]struct{}{}}
	for _, s := range blocked {
		s = domain.NormalizeStatus(s)
		if s == "" {
			continue
		}
		if st := domain.ParseOrderState(s); st != domain.OrderUnknown {
			p.states[st] = struct{}{}
			continue
		}
		p.labels[s] = struct{}{}
	}
	return p
}

// Allows reports whether the assign action may be offered for o.
func (p Policy) Allows(o domain.Order) bool {
	if _, ok := p.states[o.State()]; ok {
		return false
	}
	_, ok := p.labels[domain.NormalizeStatus(o.Status)]
	return !ok
}

// String lists the blocked statuses.
func (p Policy) String() string {
	out := make([]string, 0, len(p.states)+len(p.labels))
	for st := range p.states {
		out = append(out, string(st))
	}
	for l := range p.labels {
		out = append(out, l)
	}
	slices.Sort(out)
	return strings.Join(out, ",")
}
