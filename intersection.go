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
	"fmt"
	"math"

	"github.com/ctessum/geom"
)

// Line is a straight segment from A to B.
type Line struct {
	A, B geom.Point
}

// Bounds returns the extent of l.
func (l Line) Bounds() *geom.Bounds {
	return &geom.Bounds{
		Min: geom.Point{X: math.Min(l.A.X, l.B.X), Y: math.Min(l.A.Y, l.B.Y)},
		Max: geom.Point{X: math.Max(l.A.X, l.B.X), Y: math.Max(l.A.Y, l.B.Y)},
	}
}

// IsDegenerate reports whether l has zero length.
func (l Line) IsDegenerate() bool { return l.A == l.B }

// normalized returns l with its end points ordered by y, then x.
func (l Line) normalized() Line {
	if compareXY(l.B, l.A) < 0 {
		return Line{A: l.B, B: l.A}
	}
	return l
}

// XAt returns the x coordinate of l at height y. For a horizontal segment
// it returns x clamped to the segment.
func (l Line) XAt(y, x float64) float64 {
	if l.A.Y == l.B.Y {
		return math.Max(math.Min(x, math.Max(l.A.X, l.B.X)), math.Min(l.A.X, l.B.X))
	}
	if y == l.A.Y {
		return l.A.X
	}
	if y == l.B.Y {
		return l.B.X
	}
	return l.A.X + (y-l.A.Y)*(l.B.X-l.A.X)/(l.B.Y-l.A.Y)
}

// NonSimpleReason classifies how two segments meet.
type NonSimpleReason int

// Classes of segment pairs.
const (
	// NoIntersection means the segments are disjoint.
	NoIntersection NonSimpleReason = iota
	// SharedEndPoint means the segments touch only at a common end point.
	SharedEndPoint
	// Coincident means the segments overlap along a segment of positive
	// length.
	Coincident
	// Cracking means the segments meet at a point that is interior to at
	// least one of them.
	Cracking
)

func (r NonSimpleReason) String() string {
	switch r {
	case NoIntersection:
		return "NoIntersection"
	case SharedEndPoint:
		return "SharedEndPoint"
	case Coincident:
		return "Coincident"
	case Cracking:
		return "Cracking"
	}
	return fmt.Sprintf("NonSimpleReason(%d)", int(r))
}

// NonSimple reports whether r makes a geometry non-simple.
func (r NonSimpleReason) NonSimple() bool { return r == Coincident || r == Cracking }

// classifySegments decides how a and b meet using exact predicates only.
// The returned point is the crossing point for Cracking and the start of
// the overlap for Coincident; it is computed in floating point and is for
// reporting.
func classifySegments(a, b Line) (NonSimpleReason, geom.Point) {
	if a.IsDegenerate() || b.IsDegenerate() {
		return classifyDegenerate(a, b)
	}
	o1 := Orientation(a.A, a.B, b.A)
	o2 := Orientation(a.A, a.B, b.B)
	o3 := Orientation(b.A, b.B, a.A)
	o4 := Orientation(b.A, b.B, a.B)

	if o1 == 0 && o2 == 0 {
		return classifyCollinear(a.normalized(), b.normalized())
	}
	if o1*o2 > 0 || o3*o4 > 0 {
		return NoIntersection, geom.Point{}
	}
	// The lines are not parallel, so they meet in exactly one point.
	for _, p := range [2]geom.Point{a.A, a.B} {
		if p == b.A || p == b.B {
			return SharedEndPoint, p
		}
	}
	switch {
	case o1 == 0:
		return Cracking, b.A
	case o2 == 0:
		return Cracking, b.B
	case o3 == 0:
		return Cracking, a.A
	case o4 == 0:
		return Cracking, a.B
	}
	return Cracking, crossingPoint(a, b)
}

// classifyCollinear handles segments on a common line, given with their
// end points in y, x order.
func classifyCollinear(a, b Line) (NonSimpleReason, geom.Point) {
	lo, hi := a.A, a.B
	if compareXY(b.A, lo) > 0 {
		lo = b.A
	}
	if compareXY(b.B, hi) < 0 {
		hi = b.B
	}
	switch c := compareXY(lo, hi); {
	case c < 0:
		return Coincident, lo
	case c == 0:
		return SharedEndPoint, lo
	}
	return NoIntersection, geom.Point{}
}

// classifyDegenerate handles zero-length segments, which only touch.
func classifyDegenerate(a, b Line) (NonSimpleReason, geom.Point) {
	if a.IsDegenerate() && b.IsDegenerate() {
		if a.A == b.A {
			return SharedEndPoint, a.A
		}
		return NoIntersection, geom.Point{}
	}
	if b.IsDegenerate() {
		a, b = b, a
	}
	p := a.A
	if Orientation(b.A, b.B, p) != 0 || !between(b.A, b.B, p) {
		return NoIntersection, geom.Point{}
	}
	if p == b.A || p == b.B {
		return SharedEndPoint, p
	}
	return Cracking, p
}

// crossingPoint returns the intersection of the lines through a and b,
// clamped to the extent of a.
func crossingPoint(a, b Line) geom.Point {
	d1x, d1y := a.B.X-a.A.X, a.B.Y-a.A.Y
	d2x, d2y := b.B.X-b.A.X, b.B.Y-b.A.Y
	den := d1x*d2y - d1y*d2x
	if den == 0 {
		return a.A
	}
	t := ((b.A.X-a.A.X)*d2y - (b.A.Y-a.A.Y)*d2x) / den
	t = math.Max(0, math.Min(1, t))
	return geom.Point{X: a.A.X + t*d1x, Y: a.A.Y + t*d1y}
}

// NonSimpleResult describes the first place where a geometry was found to
// be non-simple. VertexA and VertexB are the origin vertices of the two
// offending edges.
type NonSimpleResult struct {
	Reason           NonSimpleReason
	VertexA, VertexB int
	Point            geom.Point
}

func (r NonSimpleResult) String() string {
	if r.Reason == NoIntersection {
		return "simple"
	}
	return fmt.Sprintf("%v between edges %d and %d at (%g, %g)", r.Reason, r.VertexA, r.VertexB, r.Point.X, r.Point.Y)
}

// NonSimpleError is returned when a geometry cannot be made simple.
type NonSimpleError struct {
	NonSimpleResult
	Passes int
}

func (e *NonSimpleError) Error() string {
	return fmt.Sprintf("geometry: not simple after %d cracking passes: %v", e.Passes, e.NonSimpleResult)
}
