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

import "math"

// sweepCacheSize is the number of edge geometries the sweep comparator
// keeps between comparisons.
const sweepCacheSize = 7

// interceptRelErr bounds the relative error of a computed x-intercept.
const interceptRelErr = 1e-12

type sweepCacheEntry struct {
	node   NodeID
	vertex int
	line   Line // normalized
	epoch  int
	key    float64
}

// SweepComparator orders the edges of a Shape by their intersection with a
// horizontal sweep line, for use as the Comparator of an active edge
// table. Tree elements are edge origin vertices. Whenever two compared
// edges overlap in x it also tests them for a real intersection, and the
// first one found latches: every later comparison returns -1 until
// ClearIntersection is called.
type SweepComparator struct {
	shape     *Shape
	tolerance float64

	sweepY, sweepX float64
	epoch          int

	cache     [sweepCacheSize]sweepCacheEntry
	cacheNext int

	detected bool
	result   NonSimpleResult
}

// NewSweepComparator returns a comparator over the edges of s. Intercepts
// closer than tolerance are ordered exactly instead of numerically.
func NewSweepComparator(s *Shape, tolerance float64) *SweepComparator {
	c := &SweepComparator{shape: s, tolerance: tolerance}
	for i := range c.cache {
		c.cache[i].node = NullNode
	}
	return c
}

// SetSweep moves the sweep line to height y with the event at x.
func (c *SweepComparator) SetSweep(y, x float64) {
	c.sweepY, c.sweepX = y, x
	c.epoch++
}

// IntersectionDetected reports whether a non-simple pair has been found.
func (c *SweepComparator) IntersectionDetected() bool { return c.detected }

// NonSimpleResult returns the latched result.
func (c *SweepComparator) NonSimpleResult() NonSimpleResult { return c.result }

// ClearIntersection resets the latched state.
func (c *SweepComparator) ClearIntersection() {
	c.detected = false
	c.result = NonSimpleResult{}
}

// Compare implements Comparator.
func (c *SweepComparator) Compare(t *Treap, element int, node NodeID) int {
	if c.detected {
		return -1
	}
	other := t.Element(node)
	if element == other {
		return 0
	}
	a := c.edge(element)
	e := c.cachedEdge(node, other)
	return c.compareEdges(element, a, math.NaN(), other, e.line, e)
}

// CompareNodes compares the edges stored at two nodes of t.
func (c *SweepComparator) CompareNodes(t *Treap, left, right NodeID) int {
	if c.detected {
		return -1
	}
	ea := c.cachedEdge(left, t.Element(left))
	a, ka := ea.line, ea.key
	eb := c.cachedEdge(right, t.Element(right))
	return c.compareEdges(t.Element(left), a, ka, t.Element(right), eb.line, eb)
}

func (c *SweepComparator) compareEdges(va int, a Line, ka float64, vb int, b Line, eb *sweepCacheEntry) int {
	aMin, aMax := math.Min(a.A.X, a.B.X), math.Max(a.A.X, a.B.X)
	bMin, bMax := math.Min(b.A.X, b.B.X), math.Max(b.A.X, b.B.X)
	if aMax < bMin {
		return -1
	}
	if bMax < aMin {
		return 1
	}

	if reason, p := classifySegments(a, b); reason.NonSimple() {
		c.detected = true
		c.result = NonSimpleResult{Reason: reason, VertexA: va, VertexB: vb, Point: p}
		return -1
	}

	if math.IsNaN(ka) {
		ka = a.XAt(c.sweepY, c.sweepX)
	}
	kb := eb.key
	scale := math.Max(math.Max(math.Abs(aMin), math.Abs(aMax)), math.Max(math.Abs(bMin), math.Abs(bMax)))
	if math.Abs(ka-kb) > c.tolerance+interceptRelErr*scale {
		if ka < kb {
			return -1
		}
		return 1
	}
	if o := sweepOrder(a, b); o != 0 {
		return o
	}
	// Parallel edges that only touch end to end.
	if o := compareXY(a.A, b.A); o != 0 {
		return o
	}
	return compareInts(va, vb)
}

// sweepOrder orders two normalized segments that both cross the sweep line
// and do not intersect except at a shared end point. It returns 0 if they
// are collinear.
func sweepOrder(a, b Line) int {
	if compareXY(b.A, a.A) >= 0 {
		return sideOf(a, b)
	}
	return -sideOf(b, a)
}

// sideOf returns 1 if b lies to the left of a where both cross the sweep
// line, -1 if it lies to the right. b must start within the y range of a.
func sideOf(a, b Line) int {
	o := Orientation(a.A, a.B, b.A)
	if o == 0 {
		if a.A.Y == a.B.Y && b.A != a.A {
			if b.A.X > a.B.X {
				return -1
			}
			return 1
		}
		o = Orientation(a.A, a.B, b.B)
	}
	return o
}

// edge returns the normalized segment with origin v.
func (c *SweepComparator) edge(v int) Line {
	l, ok := c.shape.Edge(v)
	if !ok {
		panic("geometry: sweep edge starts at the end of an open path")
	}
	return l.normalized()
}

// cachedEdge returns the cache entry for the edge stored at node,
// filling a slot if needed.
func (c *SweepComparator) cachedEdge(node NodeID, v int) *sweepCacheEntry {
	for i := range c.cache {
		e := &c.cache[i]
		if e.node == node && e.vertex == v {
			if e.epoch != c.epoch {
				e.key = e.line.XAt(c.sweepY, c.sweepX)
				e.epoch = c.epoch
			}
			return e
		}
	}
	e := &c.cache[c.cacheNext]
	c.cacheNext = (c.cacheNext + 1) % sweepCacheSize
	line := c.edge(v)
	*e = sweepCacheEntry{
		node:   node,
		vertex: v,
		line:   line,
		epoch:  c.epoch,
		key:    line.XAt(c.sweepY, c.sweepX),
	}
	return e
}

func (c *SweepComparator) evict(node NodeID) {
	for i := range c.cache {
		if c.cache[i].node == node {
			c.cache[i].node = NullNode
		}
	}
}

// OnDelete drops the cached geometry of node.
func (c *SweepComparator) OnDelete(_ *Treap, node NodeID) { c.evict(node) }

// OnSet drops the cached geometry of node.
func (c *SweepComparator) OnSet(_ *Treap, node NodeID) { c.evict(node) }

// OnEndSearch does nothing.
func (c *SweepComparator) OnEndSearch(*Treap, int) {}

// OnAddUniqueFailed does nothing.
func (c *SweepComparator) OnAddUniqueFailed(*Treap, NodeID) {}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
