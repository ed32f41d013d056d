package verify

import (
	"math"
	"sort"

	"github.com/chazu/straightedge/pkg/construction"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/dhconnelly/rtreego"
)

// R-tree branching factors for the coincidence index.
const (
	rtreeMinChildren = 25
	rtreeMaxChildren = 50
)

// indexedPoint adapts a construction point to rtreego.Spatial. Points are
// stored as degenerate rectangles of side zero.
type indexedPoint struct {
	p    construction.Point
	seq  int
	rect rtreego.Rect
}

func (ip *indexedPoint) Bounds() rtreego.Rect { return ip.rect }

// pointIndex is a 2D spatial index over the points seen so far in a
// verification pass. It keeps the duplicate-coincidence rule from being
// quadratic in the number of points.
type pointIndex struct {
	tree *rtreego.Rtree
	pts  []construction.Point
}

func newPointIndex() *pointIndex {
	return &pointIndex{tree: rtreego.NewTree(2, rtreeMinChildren, rtreeMaxChildren)}
}

func (ix *pointIndex) insert(p construction.Point) {
	if !p.Finite() {
		return
	}
	ix.tree.Insert(&indexedPoint{p: p, seq: len(ix.pts), rect: rtreego.Point{p.X, p.Y}.ToRect(0)})
	ix.pts = append(ix.pts, p)
}

// near returns indexed points inside the square of half-width radius
// centred on v, ordered by insertion. An infinite radius returns every
// indexed point.
func (ix *pointIndex) near(v v2.Vec, radius float64) []construction.Point {
	if len(ix.pts) == 0 {
		return nil
	}
	if math.IsInf(radius, 1) || math.IsNaN(radius) {
		return append([]construction.Point(nil), ix.pts...)
	}
	hits := ix.tree.SearchIntersect(rtreego.Point{v.X, v.Y}.ToRect(radius))
	sort.Slice(hits, func(i, j int) bool {
		return hits[i].(*indexedPoint).seq < hits[j].(*indexedPoint).seq
	})
	out := make([]construction.Point, len(hits))
	for i, h := range hits {
		out[i] = h.(*indexedPoint).p
	}
	return out
}
