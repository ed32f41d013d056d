package construction

import (
	"fmt"
	"sync"

	"github.com/deadsy/sdfx/sdf"
)

// Graph is the authoritative, append-only state of a construction.
// Points and lines are never moved or removed once added, and every line
// references points that already exist. A Graph is safe for concurrent
// use; readers that need a consistent view across several calls should
// take a Snapshot.
type Graph struct {
	mu sync.RWMutex
	s  store
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{s: newStore()}
}

// AddPoint appends a point at (x, y) and returns its ID. Non-finite
// coordinates are rejected with ErrInvalidCoordinate and the graph is left
// unchanged.
func (g *Graph) AddPoint(x, y float64) (PointID, error) {
	if !isFinite(x) || !isFinite(y) {
		return "", fmt.Errorf("add point (%v, %v): %w", x, y, ErrInvalidCoordinate)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	id := pointIDFor(len(g.s.points) + 1)
	g.s.pointIndex[id] = len(g.s.points)
	g.s.points = append(g.s.points, Point{ID: id, X: x, Y: y})
	return id, nil
}

// AddLine connects a and b. Lines are undirected: if a line between the
// two points already exists its ID is returned and nothing changes. A
// line from a point to itself is a no-op and returns NoLine with a nil
// error. Either endpoint missing from the graph yields ErrUnknownPoint.
func (g *Graph) AddLine(a, b PointID) (LineID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, id := range [2]PointID{a, b} {
		if _, ok := g.s.pointIndex[id]; !ok {
			return NoLine, fmt.Errorf("add line %s-%s: point %q: %w", a, b, id, ErrUnknownPoint)
		}
	}
	if a == b {
		return NoLine, nil
	}

	key := makePairKey(a, b)
	if existing, ok := g.s.pairs[key]; ok {
		return existing, nil
	}

	id := lineIDFor(len(g.s.lines) + 1)
	g.s.lineIndex[id] = len(g.s.lines)
	g.s.lines = append(g.s.lines, Line{ID: id, A: a, B: b})
	g.s.pairs[key] = id
	g.s.degree[a]++
	g.s.degree[b]++
	return id, nil
}

// Points returns the points in insertion order.
func (g *Graph) Points() []Point {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.s.Points()
}

// Lines returns the lines in insertion order.
func (g *Graph) Lines() []Line {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.s.Lines()
}

// Point returns the point with the given ID.
func (g *Graph) Point(id PointID) (Point, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.s.Point(id)
}

// Line returns the line with the given ID.
func (g *Graph) Line(id LineID) (Line, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.s.Line(id)
}

// LineBetween returns the line joining a and b in either order.
func (g *Graph) LineBetween(a, b PointID) (Line, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.s.LineBetween(a, b)
}

// Degree returns the number of lines touching the point.
func (g *Graph) Degree(id PointID) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.s.Degree(id)
}

// PointCount returns the number of points.
func (g *Graph) PointCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.s.PointCount()
}

// LineCount returns the number of lines.
func (g *Graph) LineCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.s.LineCount()
}

// Bounds returns the bounding box of all points, or false if the graph
// has no points.
func (g *Graph) Bounds() (sdf.Box2, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.s.Bounds()
}

// Snapshot returns a private, immutable copy of the current state.
func (g *Graph) Snapshot() *Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return &Snapshot{store: g.s.clone()}
}

// Snapshot is a frozen view of a Graph. Later mutations of the Graph are
// not visible through it, so any computation over a Snapshot is a pure
// function of the construction at the moment it was taken.
type Snapshot struct {
	store
}
