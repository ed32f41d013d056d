package verify

import (
	"fmt"
	"math"

	"github.com/chazu/straightedge/pkg/construction"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// DefaultTolerance is the coincidence tolerance ε used when a policy does
// not set one. It is scaled by coordinate magnitude (see Coincident).
const DefaultTolerance = 1e-9

// Policy is a geometric rule set. Alternative geometries or exact
// arithmetic can be substituted without touching the construction graph.
type Policy interface {
	// Prepare returns a Checker bound to the given snapshot.
	Prepare(s *construction.Snapshot) Checker
}

// Checker resolves individual entities of one snapshot to nil (valid) or
// a violation. Points must be presented in insertion order; "earlier"
// means previously presented to the same Checker.
type Checker interface {
	VerifyPoint(p construction.Point) *Violation
	VerifyLine(l construction.Line) *Violation
}

// RuleSet is a set of rules, keyed by the Reason each rule reports.
type RuleSet uint8

// AllRules contains every rule Euclidean knows.
const AllRules = RuleSet(1<<ReasonNonFinite | 1<<ReasonDuplicateCoincidence |
	1<<ReasonDegenerateLine | 1<<ReasonZeroLength)

// Rules builds a RuleSet.
func Rules(rs ...Reason) RuleSet {
	var s RuleSet
	for _, r := range rs {
		s |= 1 << r
	}
	return s
}

// Has reports whether r is in the set.
func (s RuleSet) Has(r Reason) bool { return s&(1<<r) != 0 }

// Names returns the rule names in the set, in checking order.
func (s RuleSet) Names() []string {
	var names []string
	for r := ReasonNonFinite; r <= ReasonZeroLength; r++ {
		if s.Has(r) {
			names = append(names, r.String())
		}
	}
	return names
}

// ParseRules converts rule names to a RuleSet.
func ParseRules(names []string) (RuleSet, error) {
	var s RuleSet
	for _, n := range names {
		r, err := ParseReason(n)
		if err != nil {
			return 0, err
		}
		s |= Rules(r)
	}
	return s, nil
}

// Euclidean is the default policy over the real plane. The zero value
// checks every rule with DefaultTolerance.
//
// Point rules, in order: non-finite, duplicate-coincidence.
// Line rules, in order: degenerate-line, zero-length.
type Euclidean struct {
	// Tolerance is ε for coincidence; values <= 0 mean DefaultTolerance.
	Tolerance float64
	// MinLength is the absolute length floor for zero-length; values <= 0
	// mean the tolerance itself.
	MinLength float64
	// Disabled rules are skipped.
	Disabled RuleSet
}

// DefaultPolicy returns the Euclidean policy with default settings.
func DefaultPolicy() Euclidean { return Euclidean{} }

func (e Euclidean) tolerance() float64 {
	if !(e.Tolerance > 0) || math.IsInf(e.Tolerance, 1) {
		return DefaultTolerance
	}
	return e.Tolerance
}

func (e Euclidean) minLength() float64 {
	if !(e.MinLength > 0) || math.IsInf(e.MinLength, 1) {
		return e.tolerance()
	}
	return e.MinLength
}

func (e Euclidean) enabled(r Reason) bool { return !e.Disabled.Has(r) }

// Coincident reports whether a and b are equal within the policy's
// tolerance, relative to the larger of 1 and either vector's magnitude.
func (e Euclidean) Coincident(a, b v2.Vec) bool {
	return distance(a, b) <= e.tolerance()*scale(a, b)
}

func scale(a, b v2.Vec) float64 {
	return math.Max(1, math.Max(norm(a), norm(b)))
}

// norm and distance use math.Hypot so coordinates near the float64 limit
// do not overflow to +Inf.
func norm(v v2.Vec) float64 { return math.Hypot(v.X, v.Y) }

func distance(a, b v2.Vec) float64 { return math.Hypot(a.X-b.X, a.Y-b.Y) }

// searchRadius bounds the distance from v to any point coincident with
// it: |q| <= |v| + d gives d <= ε·max(1,|v|)/(1-ε). For ε >= 1 there is
// no finite bound and the caller must scan every point.
func (e Euclidean) searchRadius(v v2.Vec) float64 {
	eps := e.tolerance()
	if eps >= 1 {
		return math.Inf(1)
	}
	return 2 * eps * math.Max(1, norm(v)) / (1 - eps)
}

// Prepare implements Policy.
func (e Euclidean) Prepare(s *construction.Snapshot) Checker {
	return &euclideanChecker{policy: e, snap: s, seen: newPointIndex()}
}

type euclideanChecker struct {
	policy Euclidean
	snap   *construction.Snapshot
	seen   *pointIndex
}

func (c *euclideanChecker) VerifyPoint(p construction.Point) *Violation {
	if !p.Finite() {
		if c.policy.enabled(ReasonNonFinite) {
			return &Violation{
				Kind:    construction.KindPoint,
				ID:      p.ID.String(),
				Reason:  ReasonNonFinite,
				Message: fmt.Sprintf("coordinates (%v, %v) are not finite", p.X, p.Y),
			}
		}
		// Non-finite points cannot take part in distance checks.
		return nil
	}

	if c.policy.enabled(ReasonDuplicateCoincidence) {
		v := p.Vec()
		for _, q := range c.seen.near(v, c.policy.searchRadius(v)) {
			if c.policy.Coincident(v, q.Vec()) {
				c.seen.insert(p)
				return &Violation{
					Kind:   construction.KindPoint,
					ID:     p.ID.String(),
					Reason: ReasonDuplicateCoincidence,
					Message: fmt.Sprintf("(%g, %g) coincides with %s at (%g, %g)",
						p.X, p.Y, q.ID, q.X, q.Y),
				}
			}
		}
	}
	c.seen.insert(p)
	return nil
}

func (c *euclideanChecker) VerifyLine(l construction.Line) *Violation {
	a, okA := c.snap.Point(l.A)
	b, okB := c.snap.Point(l.B)
	if !okA || !okB || !a.Finite() || !b.Finite() {
		// Referential integrity is the graph's job and non-finite
		// endpoints are reported by the point pass.
		return nil
	}

	va, vb := a.Vec(), b.Vec()
	if c.policy.enabled(ReasonDegenerateLine) && c.policy.Coincident(va, vb) {
		return &Violation{
			Kind:    construction.KindLine,
			ID:      l.ID.String(),
			Reason:  ReasonDegenerateLine,
			Message: fmt.Sprintf("endpoints %s and %s coincide", a, b),
		}
	}

	if c.policy.enabled(ReasonZeroLength) {
		length := distance(va, vb)
		if length < c.policy.minLength() {
			return &Violation{
				Kind:   construction.KindLine,
				ID:     l.ID.String(),
				Reason: ReasonZeroLength,
				Message: fmt.Sprintf("length %g between %s and %s is below %g",
					length, l.A, l.B, c.policy.minLength()),
			}
		}
	}
	return nil
}
