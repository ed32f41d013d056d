// Package verify decides whether a construction is geometrically
// well-formed. Verification walks the points of a construction snapshot
// and then its lines, both in insertion order, asking a Policy about each
// entity; the first violation wins.
package verify

import (
	"fmt"
	"strings"

	"github.com/chazu/straightedge/pkg/construction"
)

// Reason names the rule an entity violated.
type Reason int

const (
	ReasonNone                 Reason = iota
	ReasonNonFinite                   // point coordinate is NaN or infinite
	ReasonDuplicateCoincidence        // point coincides with an earlier point
	ReasonDegenerateLine              // line endpoints coincide
	ReasonZeroLength                  // line shorter than the length floor
)

var reasonNames = [...]string{
	ReasonNone:                 "none",
	ReasonNonFinite:            "non-finite",
	ReasonDuplicateCoincidence: "duplicate-coincidence",
	ReasonDegenerateLine:       "degenerate-line",
	ReasonZeroLength:           "zero-length",
}

func (r Reason) String() string {
	if r >= 0 && int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// ParseReason converts a rule name such as "zero-length" to a Reason.
func ParseReason(name string) (Reason, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for r := ReasonNonFinite; int(r) < len(reasonNames); r++ {
		if reasonNames[r] == n {
			return r, nil
		}
	}
	return ReasonNone, fmt.Errorf("unknown rule %q", name)
}

// Violation describes a single entity that failed verification.
type Violation struct {
	Kind    construction.EntityKind
	ID      string // PointID or LineID
	Reason  Reason
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("invalid %s %s: %s: %s", v.Kind, v.ID, v.Reason, v.Message)
}

// Status is the tag of a Result.
type Status int

const (
	StatusValid Status = iota
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the outcome of a verification run: either valid, or invalid
// with the first violation found. Results are comparable, so two runs over
// the same construction can be checked with ==. A Result is a value, not
// an error.
type Result struct {
	Status Status
	Violation
}

// Valid reports whether the construction passed.
func (r Result) Valid() bool { return r.Status == StatusValid }

func (r Result) String() string {
	if r.Valid() {
		return "valid"
	}
	return r.Violation.String()
}

func invalid(v Violation) Result {
	return Result{Status: StatusInvalid, Violation: v}
}

// Warning is an advisory finding that does not make a construction
// invalid.
type Warning struct {
	Kind    construction.EntityKind
	ID      string
	Message string
}

// Report bundles every violation and warning found in a construction.
type Report struct {
	Violations []Violation
	Warnings   []Warning
}

// Valid reports whether the report holds no violations.
func (r Report) Valid() bool { return len(r.Violations) == 0 }

// First returns the Result that Verify would have produced.
func (r Report) First() Result {
	if len(r.Violations) == 0 {
		return Result{Status: StatusValid}
	}
	return invalid(r.Violations[0])
}
