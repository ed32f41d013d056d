package verify

import (
	"fmt"

	"github.com/chazu/straightedge/pkg/construction"
)

// Verify checks the current state of g against policy p and returns the
// first violation found, or a valid Result. A nil policy means
// DefaultPolicy. The graph is read through a snapshot and never mutated,
// so calling Verify again without intervening mutation yields the same
// Result.
func Verify(g *construction.Graph, p Policy) Result {
	return VerifySnapshot(g.Snapshot(), p)
}

// VerifySnapshot is Verify over an existing snapshot.
//
// All points are checked before any line, each pass in insertion order.
// A line is only judged once both of its endpoints are known-good, so a
// point fault is never reported as a line fault.
func VerifySnapshot(s *construction.Snapshot, p Policy) Result {
	if p == nil {
		p = DefaultPolicy()
	}
	c := p.Prepare(s)

	for _, pt := range s.Points() {
		if v := c.VerifyPoint(pt); v != nil {
			return invalid(*v)
		}
	}
	for _, l := range s.Lines() {
		if v := c.VerifyLine(l); v != nil {
			return invalid(*v)
		}
	}
	return Result{Status: StatusValid}
}

// VerifyAll runs the same walk as Verify but does not stop at the first
// violation. It also reports advisory warnings that never affect
// validity. Report.First always equals the Result of Verify.
func VerifyAll(g *construction.Graph, p Policy) Report {
	return VerifyAllSnapshot(g.Snapshot(), p)
}

// VerifyAllSnapshot is VerifyAll over an existing snapshot.
func VerifyAllSnapshot(s *construction.Snapshot, p Policy) Report {
	if p == nil {
		p = DefaultPolicy()
	}
	c := p.Prepare(s)

	var r Report
	for _, pt := range s.Points() {
		if v := c.VerifyPoint(pt); v != nil {
			r.Violations = append(r.Violations, *v)
		}
	}
	for _, l := range s.Lines() {
		if v := c.VerifyLine(l); v != nil {
			r.Violations = append(r.Violations, *v)
		}
	}
	r.Warnings = append(r.Warnings, Warnings(s)...)
	return r
}

// Warnings reports advisory findings without running any rule: points no
// line touches. Constructions with no lines at all produce no warnings.
func Warnings(s *construction.Snapshot) []Warning {
	if s.LineCount() == 0 {
		return nil
	}
	var warnings []Warning
	for _, pt := range s.Points() {
		if s.Degree(pt.ID) == 0 {
			warnings = append(warnings, Warning{
				Kind:    construction.KindPoint,
				ID:      pt.ID.String(),
				Message: fmt.Sprintf("point %s is not on any line", pt.ID),
			})
		}
	}
	return warnings
}
