/*
Copyright © 2018 the geomkernel authors.
This file is part of geomkernel.

geomkernel is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

geomkernel is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with geomkernel.  If not, see <http://www.gnu.org/licenses/>.
*/

package geometry

import (
	"context"
	"fmt"

	"github.com/ctessum/geom"
	"github.com/gonum/floats"
)

// hullSource supplies the coordinates of the points a hull is built from.
type hullSource interface {
	XY(i int) geom.Point
}

// pointStream holds points added one at a time.
type pointStream struct{ pts []geom.Point }

func (s *pointStream) XY(i int) geom.Point { return s.pts[i] }

// shapeSource reads the vertices of a Shape.
type shapeSource struct{ s *Shape }

func (s shapeSource) XY(i int) geom.Point { return s.s.XY(i) }

// flatSource reads interleaved x, y coordinates.
type flatSource []float64

func (s flatSource) XY(i int) geom.Point { return geom.Point{X: s[2*i], Y: s[2*i+1]} }

// ConvexHull builds the convex hull of a point set incrementally. The hull
// vertices are kept in a treap in clockwise boundary order, so that the
// place of a new point is found by binary search and the vertices it
// hides are removed by walking outward from it.
//
// A ConvexHull is not safe for concurrent use.
type ConvexHull struct {
	NopNotifier

	// Epsilon is the distance within which a point is considered equal to
	// the first hull vertex while the hull has a single vertex.
	Epsilon float64

	tree      *Treap
	src       hullSource
	stream    *pointStream
	deletions int
}

// NewConvexHull returns an empty hull for use with AddPoint.
func NewConvexHull() *ConvexHull {
	stream := &pointStream{}
	h := newConvexHull(stream)
	h.stream = stream
	return h
}

func newConvexHull(src hullSource) *ConvexHull {
	h := &ConvexHull{src: src}
	h.tree = NewTreap(h)
	return h
}

// ConstructFromPoints returns the convex hull of pts.
func ConstructFromPoints(ctx context.Context, pts []geom.Point) (geom.Geom, error) {
	h := newConvexHull(&pointStream{pts: pts})
	for i := range pts {
		if err := h.addIndex(ctx, i); err != nil {
			return nil, err
		}
	}
	return h.Hull(), nil
}

// ConstructFromXY returns the convex hull of the points in xy, given as
// interleaved x and y coordinates.
func ConstructFromXY(ctx context.Context, xy []float64) (geom.Geom, error) {
	if len(xy)%2 != 0 {
		return nil, fmt.Errorf("geometry: odd number of coordinates (%d)", len(xy))
	}
	h := newConvexHull(flatSource(xy))
	for i := 0; i < len(xy)/2; i++ {
		if err := h.addIndex(ctx, i); err != nil {
			return nil, err
		}
	}
	return h.Hull(), nil
}

// ConstructFromGeom returns the convex hull of the vertices of g.
func ConstructFromGeom(ctx context.Context, g geom.Geom) (geom.Geom, error) {
	s, err := ShapeFromGeom(g)
	if err != nil {
		return nil, err
	}
	return ConstructFromShape(ctx, s)
}

// ConstructFromShape returns the convex hull of the live vertices of s.
func ConstructFromShape(ctx context.Context, s *Shape) (geom.Geom, error) {
	h := newConvexHull(shapeSource{s})
	for v := 0; v < s.VertexCount(); v++ {
		if s.Removed(v) {
			continue
		}
		if err := h.addIndex(ctx, v); err != nil {
			return nil, err
		}
	}
	return h.Hull(), nil
}

// AddPoint adds p to a hull created with NewConvexHull.
func (h *ConvexHull) AddPoint(p geom.Point) {
	if h.stream == nil {
		panic("geometry: AddPoint on a hull that does not own its points")
	}
	h.stream.pts = append(h.stream.pts, p)
	h.addVertex(len(h.stream.pts) - 1)
}

// AddPoints adds pts to a hull created with NewConvexHull, checking ctx
// before each point.
func (h *ConvexHull) AddPoints(ctx context.Context, pts []geom.Point) error {
	for _, p := range pts {
		if err := ctx.Err(); err != nil {
			return err
		}
		h.AddPoint(p)
	}
	return nil
}

func (h *ConvexHull) addIndex(ctx context.Context, i int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.addVertex(i)
	return nil
}

// Len returns the number of hull vertices.
func (h *ConvexHull) Len() int { return h.tree.Size(DefaultTreap) }

// Deletions returns the number of vertices that were on the hull at some
// point and were later found to be interior.
func (h *ConvexHull) Deletions() int { return h.deletions }

// slot is a hull position reserved for a vertex that is bound later.
type slot struct {
	node  NodeID
	bound bool
}

const unboundVertex = -1

func (h *ConvexHull) reserveLast() *slot {
	return &slot{node: h.tree.AddBiggestElement(unboundVertex, DefaultTreap)}
}

func (h *ConvexHull) reserveBetween(prev, next NodeID) *slot {
	return &slot{node: h.tree.AddElementAtPosition(prev, next, unboundVertex, false, false, DefaultTreap)}
}

func (h *ConvexHull) bind(s *slot, vertex int) NodeID {
	if s.bound {
		panic("geometry: hull slot bound twice")
	}
	h.tree.SetElement(s.node, vertex)
	s.bound = true
	return s.node
}

func (h *ConvexHull) xy(n NodeID) geom.Point {
	v := h.tree.Element(n)
	if v == unboundVertex {
		panic("geometry: hull slot read before it was bound")
	}
	return h.src.XY(v)
}

func (h *ConvexHull) addVertex(i int) {
	pivot := h.src.XY(i)
	switch h.tree.Size(DefaultTreap) {
	case 0:
		h.bind(h.reserveLast(), i)
		return
	case 1:
		t0 := h.xy(h.tree.First(DefaultTreap))
		if floats.EqualWithinAbsOrRel(t0.X, pivot.X, h.Epsilon, h.Epsilon) &&
			floats.EqualWithinAbsOrRel(t0.Y, pivot.Y, h.Epsilon, h.Epsilon) {
			return
		}
		h.bind(h.reserveLast(), i)
		return
	}

	first, last := h.tree.First(DefaultTreap), h.tree.Last(DefaultTreap)
	t0, tm := h.xy(first), h.xy(last)
	var n NodeID
	switch Orientation(tm, pivot, t0) {
	case Clockwise:
		// The point is beyond the edge closing the hull.
		n = h.bind(h.reserveLast(), i)
	case CounterClockwise:
		k := h.tree.SearchUpperBound(hullMoniker{h: h, pivot: pivot}, DefaultTreap)
		prev := h.tree.Prev(k)
		if Orientation(h.xy(prev), h.xy(k), pivot) != CounterClockwise {
			return // inside or on the boundary
		}
		n = h.bind(h.reserveBetween(prev, k), i)
	default:
		// On the line through the two ends of the order.
		switch {
		case between(tm, t0, pivot):
			return
		case between(pivot, tm, t0):
			h.tree.DeleteNode(first, DefaultTreap)
		default:
			h.tree.DeleteNode(last, DefaultTreap)
		}
		n = h.bind(h.reserveLast(), i)
	}
	h.prune(n, pivot)
}

// prune removes the vertices next to n that stopped being convex
// corners when n was added.
func (h *ConvexHull) prune(n NodeID, pivot geom.Point) {
	for h.tree.Size(DefaultTreap) >= 3 {
		p1 := h.cyclicPrev(n)
		p2 := h.cyclicPrev(p1)
		if Orientation(h.xy(p2), h.xy(p1), pivot) == Clockwise {
			break
		}
		h.tree.DeleteNode(p1, DefaultTreap)
	}
	for h.tree.Size(DefaultTreap) >= 3 {
		n1 := h.cyclicNext(n)
		n2 := h.cyclicNext(n1)
		if Orientation(pivot, h.xy(n1), h.xy(n2)) == Clockwise {
			break
		}
		h.tree.DeleteNode(n1, DefaultTreap)
	}
}

func (h *ConvexHull) cyclicNext(n NodeID) NodeID {
	if next := h.tree.Next(n); next != NullNode {
		return next
	}
	return h.tree.First(DefaultTreap)
}

func (h *ConvexHull) cyclicPrev(n NodeID) NodeID {
	if prev := h.tree.Prev(n); prev != NullNode {
		return prev
	}
	return h.tree.Last(DefaultTreap)
}

// hullMoniker locates a point in the fan of hull vertices seen from the
// first vertex.
type hullMoniker struct {
	h     *ConvexHull
	pivot geom.Point
}

func (m hullMoniker) CompareMoniker(t *Treap, node NodeID) int {
	return m.h.fanPosition(m.pivot, node)
}

// fanPosition returns -1 if p comes before the vertex at node in
// clockwise order around the first vertex, and +1 otherwise.
func (h *ConvexHull) fanPosition(p geom.Point, node NodeID) int {
	first := h.tree.First(DefaultTreap)
	if node == first {
		return 1
	}
	if Orientation(h.xy(first), h.xy(node), p) == CounterClockwise {
		return -1
	}
	return 1
}

// Compare implements Comparator by fan position. The hull itself only
// inserts at known positions, so it is not called while building.
func (h *ConvexHull) Compare(t *Treap, element int, node NodeID) int {
	return h.fanPosition(h.src.XY(element), node)
}

// OnDelete counts removed hull vertices.
func (h *ConvexHull) OnDelete(*Treap, NodeID) { h.deletions++ }

// Vertices returns the source indices of the hull vertices in
// counter-clockwise order, starting with the first vertex of the order.
func (h *ConvexHull) Vertices() []int {
	first := h.tree.First(DefaultTreap)
	if first == NullNode {
		return nil
	}
	out := []int{h.tree.Element(first)}
	for n := h.tree.Last(DefaultTreap); n != first; n = h.tree.Prev(n) {
		out = append(out, h.tree.Element(n))
	}
	return out
}

// Hull returns the current hull: an empty MultiPoint, a Point, a
// two-point LineString, or a Polygon with one counter-clockwise ring.
func (h *ConvexHull) Hull() geom.Geom {
	vs := h.Vertices()
	pts := make([]geom.Point, len(vs))
	for i, v := range vs {
		pts[i] = h.src.XY(v)
	}
	switch len(pts) {
	case 0:
		return geom.MultiPoint{}
	case 1:
		return pts[0]
	case 2:
		return geom.LineString(pts)
	}
	return geom.Polygon{append(pts, pts[0])}
}

// IsConvex reports whether the ring pts turns counter-clockwise or goes
// straight at every vertex. A repeated closing point is ignored.
func IsConvex(pts []geom.Point) bool {
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	n := len(pts)
	if n < 3 {
		return true
	}
	for i := range pts {
		if Orientation(pts[i], pts[(i+1)%n], pts[(i+2)%n]) == Clockwise {
			return false
		}
	}
	return true
}
