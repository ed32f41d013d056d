package construction

import (
	"fmt"
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// PointID identifies a point within a single construction (P1, P2, ...).
type PointID string

// IsZero reports whether the ID is unset.
func (id PointID) IsZero() bool { return id == "" }

func (id PointID) String() string { return string(id) }

// LineID identifies a line within a single construction (L1, L2, ...).
// The zero LineID is returned by AddLine when no line was added.
type LineID string

// NoLine is the LineID returned for a no-op insertion.
const NoLine LineID = ""

// IsZero reports whether the ID is unset.
func (id LineID) IsZero() bool { return id == NoLine }

func (id LineID) String() string { return string(id) }

func pointIDFor(n int) PointID { return PointID(fmt.Sprintf("P%d", n)) }

func lineIDFor(n int) LineID { return LineID(fmt.Sprintf("L%d", n)) }

// EntityKind distinguishes the two kinds of construction entity.
type EntityKind int

const (
	KindPoint EntityKind = iota
	KindLine
)

func (k EntityKind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindLine:
		return "line"
	default:
		return fmt.Sprintf("EntityKind(%d)", int(k))
	}
}

// Point is an immutable location in the plane.
type Point struct {
	ID PointID `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Vec returns the point's coordinates as a vector.
func (p Point) Vec() v2.Vec {
	return v2.Vec{X: p.X, Y: p.Y}
}

// Finite reports whether both coordinates are finite.
func (p Point) Finite() bool {
	return isFinite(p.X) && isFinite(p.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("%s(%g, %g)", p.ID, p.X, p.Y)
}

// Line connects two distinct points. Its identity is the unordered pair
// of endpoints; A is the endpoint named first when the line was created.
type Line struct {
	ID LineID  `json:"id"`
	A  PointID `json:"a"`
	B  PointID `json:"b"`
}

// Touches reports whether p is one of the line's endpoints.
func (l Line) Touches(p PointID) bool {
	return l.A == p || l.B == p
}

// Other returns the endpoint opposite p, or the zero PointID if p is not
// an endpoint of l.
func (l Line) Other(p PointID) PointID {
	switch p {
	case l.A:
		return l.B
	case l.B:
		return l.A
	default:
		return ""
	}
}

func (l Line) String() string {
	return fmt.Sprintf("%s(%s-%s)", l.ID, l.A, l.B)
}

// pairKey is the canonical form of an unordered endpoint pair, so that
// (a, b) and (b, a) map to the same line.
type pairKey struct {
	lo, hi PointID
}

func makePairKey(a, b PointID) pairKey {
	if a <= b {
		return pairKey{lo: a, hi: b}
	}
	return pairKey{lo: b, hi: a}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
