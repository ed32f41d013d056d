package construction

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// store holds the points and lines of a construction together with the
// indexes needed for constant-time lookup. It carries no locking; Graph
// guards a live store and Snapshot owns a private copy.
type store struct {
	points []Point
	lines  []Line

	pointIndex map[PointID]int // position in points
	lineIndex  map[LineID]int  // position in lines
	pairs      map[pairKey]LineID
	degree     map[PointID]int
}

func newStore() store {
	return store{
		pointIndex: make(map[PointID]int),
		lineIndex:  make(map[LineID]int),
		pairs:      make(map[pairKey]LineID),
		degree:     make(map[PointID]int),
	}
}

func (s *store) clone() store {
	c := store{
		points:     make([]Point, len(s.points)),
		lines:      make([]Line, len(s.lines)),
		pointIndex: make(map[PointID]int, len(s.pointIndex)),
		lineIndex:  make(map[LineID]int, len(s.lineIndex)),
		pairs:      make(map[pairKey]LineID, len(s.pairs)),
		degree:     make(map[PointID]int, len(s.degree)),
	}
	copy(c.points, s.points)
	copy(c.lines, s.lines)
	for k, v := range s.pointIndex {
		c.pointIndex[k] = v
	}
	for k, v := range s.lineIndex {
		c.lineIndex[k] = v
	}
	for k, v := range s.pairs {
		c.pairs[k] = v
	}
	for k, v := range s.degree {
		c.degree[k] = v
	}
	return c
}

// Points returns the points in insertion order.
func (s *store) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

// Lines returns the lines in insertion order.
func (s *store) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Point returns the point with the given ID.
func (s *store) Point(id PointID) (Point, bool) {
	i, ok := s.pointIndex[id]
	if !ok {
		return Point{}, false
	}
	return s.points[i], true
}

// Line returns the line with the given ID.
func (s *store) Line(id LineID) (Line, bool) {
	i, ok := s.lineIndex[id]
	if !ok {
		return Line{}, false
	}
	return s.lines[i], true
}

// LineBetween returns the line joining a and b in either order.
func (s *store) LineBetween(a, b PointID) (Line, bool) {
	id, ok := s.pairs[makePairKey(a, b)]
	if !ok {
		return Line{}, false
	}
	return s.Line(id)
}

// Degree returns the number of lines touching the point. Unknown points
// have degree 0.
func (s *store) Degree(id PointID) int {
	return s.degree[id]
}

// PointCount returns the number of points.
func (s *store) PointCount() int { return len(s.points) }

// LineCount returns the number of lines.
func (s *store) LineCount() int { return len(s.lines) }

// Bounds returns the axis-aligned bounding box of all points. The second
// result is false for an empty construction.
func (s *store) Bounds() (sdf.Box2, bool) {
	if len(s.points) == 0 {
		return sdf.Box2{}, false
	}
	lo := v2.Vec{X: math.Inf(1), Y: math.Inf(1)}
	hi := v2.Vec{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, p := range s.points {
		lo.X = math.Min(lo.X, p.X)
		lo.Y = math.Min(lo.Y, p.Y)
		hi.X = math.Max(hi.X, p.X)
		hi.Y = math.Max(hi.Y, p.Y)
	}
	return sdf.Box2{Min: lo, Max: hi}, true
}
