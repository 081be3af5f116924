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
	"sort"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultBruteForceThreshold is the vertex count below which edge pairs
	// are tested exhaustively instead of with a plane sweep.
	DefaultBruteForceThreshold = 10

	// DefaultMaxPasses bounds the number of detect-and-split rounds in
	// Execute.
	DefaultMaxPasses = 10
)

// Cracker finds and removes intersections between the edges of a Shape.
// A Cracker is not safe for concurrent use.
type Cracker struct {
	// Tolerance is the distance below which vertices are merged after
	// splitting, and below which edge intercepts on the sweep line are
	// ordered exactly.
	Tolerance float64

	BruteForceThreshold int
	MaxPasses           int

	// Log receives progress and detection messages.
	Log logrus.FieldLogger

	// forceSweep disables the brute force path.
	forceSweep bool
}

// NewCracker returns a Cracker with default settings.
func NewCracker(tolerance float64) *Cracker {
	return &Cracker{
		Tolerance:           tolerance,
		BruteForceThreshold: DefaultBruteForceThreshold,
		MaxPasses:           DefaultMaxPasses,
		Log:                 logrus.StandardLogger(),
	}
}

// NeedsCracking reports whether any two edges of s cross, overlap, or
// touch at a point that is not an end point of both. The first offending
// pair found is returned.
func NeedsCracking(ctx context.Context, s *Shape, tolerance float64) (NonSimpleResult, bool, error) {
	return NewCracker(tolerance).NeedsCracking(ctx, s)
}

// NeedsCracking reports whether any two edges of s cross, overlap, or
// touch at a point that is not an end point of both. Small shapes are
// tested pair by pair. Larger ones are swept twice, the second time with
// the axes exchanged.
func (c *Cracker) NeedsCracking(ctx context.Context, s *Shape) (NonSimpleResult, bool, error) {
	edges := shapeEdges(s)
	if !c.forceSweep && liveVertices(s) < c.BruteForceThreshold {
		r := bruteForce(s, edges)
		c.logResult(r, "brute force")
		return r, r.Reason.NonSimple(), nil
	}
	r, err := c.sweep(ctx, s, edges)
	if err != nil {
		return NonSimpleResult{}, false, err
	}
	if r.Reason.NonSimple() {
		c.logResult(r, "sweep")
		return r, true, nil
	}
	r, err = c.sweep(ctx, s.Transposed(), edges)
	if err != nil {
		return NonSimpleResult{}, false, err
	}
	if r.Reason.NonSimple() {
		r.Point = geom.Point{X: r.Point.Y, Y: r.Point.X}
		c.logResult(r, "transposed sweep")
		return r, true, nil
	}
	return NonSimpleResult{}, false, nil
}

func (c *Cracker) logResult(r NonSimpleResult, method string) {
	if !r.Reason.NonSimple() || c.Log == nil {
		return
	}
	c.Log.WithFields(logrus.Fields{
		"reason":  r.Reason.String(),
		"vertexA": r.VertexA,
		"vertexB": r.VertexB,
		"x":       r.Point.X,
		"y":       r.Point.Y,
		"method":  method,
	}).Debug("geometry: non-simple edge pair")
}

// shapeEdges returns the origin vertices of the edges of s that have
// positive length.
func shapeEdges(s *Shape) []int {
	var edges []int
	for v := 0; v < s.VertexCount(); v++ {
		if s.Removed(v) {
			continue
		}
		if l, ok := s.Edge(v); ok && !l.IsDegenerate() {
			edges = append(edges, v)
		}
	}
	return edges
}

func liveVertices(s *Shape) int {
	n := 0
	for v := 0; v < s.VertexCount(); v++ {
		if !s.Removed(v) {
			n++
		}
	}
	return n
}

// bruteForce tests every pair of edges.
func bruteForce(s *Shape, edges []int) NonSimpleResult {
	for i, va := range edges {
		a, _ := s.Edge(va)
		for _, vb := range edges[i+1:] {
			b, _ := s.Edge(vb)
			if reason, p := classifySegments(a, b); reason.NonSimple() {
				return NonSimpleResult{Reason: reason, VertexA: va, VertexB: vb, Point: p}
			}
		}
	}
	return NonSimpleResult{}
}

// sweep runs a plane sweep over the vertices of s in y, x order,
// maintaining the edges that cross the sweep line in a treap.
func (c *Cracker) sweep(ctx context.Context, s *Shape, edges []int) (NonSimpleResult, error) {
	if len(edges) < 2 {
		return NonSimpleResult{}, nil
	}
	events := make([]int, 0, 2*len(edges))
	seen := make(map[int]bool, 2*len(edges))
	for _, v := range edges {
		for _, u := range [2]int{v, s.NextVertex(v)} {
			if !seen[u] {
				seen[u] = true
				events = append(events, u)
			}
		}
	}
	sort.Slice(events, func(i, j int) bool {
		if o := compareXY(s.XY(events[i]), s.XY(events[j])); o != 0 {
			return o < 0
		}
		return events[i] < events[j]
	})

	cmp := NewSweepComparator(s, c.Tolerance)
	aet := NewTreap(cmp)
	aet.SetCapacity(len(edges))
	aet.DisableBalancing()
	nodeIndex := s.CreateUserIndex()
	defer s.RemoveUserIndex(nodeIndex)

	var ending []NodeID
	var beginning []int
	inEnding := make(map[NodeID]bool)
	for i := 0; i < len(events); {
		if err := ctx.Err(); err != nil {
			return NonSimpleResult{}, err
		}
		p := s.XY(events[i])
		j := i + 1
		for j < len(events) && s.XY(events[j]) == p {
			j++
		}
		cluster := events[i:j]
		i = j

		cmp.SetSweep(p.Y, p.X)
		ending, beginning = ending[:0], beginning[:0]
		for _, u := range cluster {
			for _, e := range [2]int{u, s.PrevVertex(u)} {
				if e < 0 {
					continue
				}
				l, ok := s.Edge(e)
				if !ok || l.IsDegenerate() {
					continue
				}
				if compareXY(l.normalized().A, p) == 0 {
					beginning = append(beginning, e)
				} else if n := NodeID(s.UserIndex(e, nodeIndex)); n != NullNode {
					ending = append(ending, n)
				}
			}
		}

		left, right := NullNode, NullNode
		if len(ending) > 0 {
			for k := range inEnding {
				delete(inEnding, k)
			}
			for _, n := range ending {
				inEnding[n] = true
			}
			lo, hi := ending[0], ending[0]
			count := 1
			for prev := aet.Prev(lo); prev != NullNode && inEnding[prev]; prev = aet.Prev(lo) {
				lo = prev
				count++
			}
			for next := aet.Next(hi); next != NullNode && inEnding[next]; next = aet.Next(hi) {
				hi = next
				count++
			}
			if count != len(ending) {
				// An edge that does not end here lies between edges that do,
				// so it passes through the event point.
				gap, end := aet.Prev(lo), lo
				for n := aet.Next(hi); n != NullNode; n = aet.Next(n) {
					if inEnding[n] {
						gap, end = aet.Next(hi), hi
						break
					}
				}
				return NonSimpleResult{
					Reason:  Cracking,
					VertexA: aet.Element(gap),
					VertexB: aet.Element(end),
					Point:   p,
				}, nil
			}
			left, right = aet.Prev(lo), aet.Next(hi)
			for _, n := range ending {
				s.SetUserIndex(aet.Element(n), nodeIndex, -1)
				aet.DeleteNode(n, DefaultTreap)
			}
		}

		switch {
		case len(beginning) == 0:
			if left != NullNode && right != NullNode {
				cmp.CompareNodes(aet, left, right)
			}
		case len(ending) == 1 && len(beginning) == 1:
			// A chain continues through the event point, so the new edge
			// takes the place of the old one.
			e := beginning[0]
			n := aet.AddElementAtPosition(left, right, e, false, false, DefaultTreap)
			s.SetUserIndex(e, nodeIndex, int(n))
			if left != NullNode {
				cmp.CompareNodes(aet, left, n)
			}
			if right != NullNode && !cmp.IntersectionDetected() {
				cmp.CompareNodes(aet, n, right)
			}
		default:
			for _, e := range beginning {
				n := aet.AddElement(e, DefaultTreap)
				s.SetUserIndex(e, nodeIndex, int(n))
				if cmp.IntersectionDetected() {
					break
				}
			}
		}
		if cmp.IntersectionDetected() {
			return cmp.NonSimpleResult(), nil
		}
	}
	return NonSimpleResult{}, nil
}

// edgeItem is an edge in a spatial index.
type edgeItem struct {
	geom.LineString
	vertex int
}

// Intersections returns every pair of edges of s that cross, overlap, or
// touch at a point interior to one of them, ordered by vertex.
func (c *Cracker) Intersections(ctx context.Context, s *Shape) ([]NonSimpleResult, error) {
	edges := shapeEdges(s)
	index := rtree.NewTree(25, 50)
	items := make([]*edgeItem, len(edges))
	for i, v := range edges {
		l, _ := s.Edge(v)
		items[i] = &edgeItem{LineString: geom.LineString{l.A, l.B}, vertex: v}
		index.Insert(items[i])
	}
	var out []NonSimpleResult
	for _, a := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		la := Line{A: a.LineString[0], B: a.LineString[1]}
		for _, bI := range index.SearchIntersect(a.Bounds()) {
			b := bI.(*edgeItem)
			if b.vertex <= a.vertex {
				continue
			}
			lb := Line{A: b.LineString[0], B: b.LineString[1]}
			if reason, p := classifySegments(la, lb); reason.NonSimple() {
				out = append(out, NonSimpleResult{Reason: reason, VertexA: a.vertex, VertexB: b.vertex, Point: p})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].VertexA != out[j].VertexA {
			return out[i].VertexA < out[j].VertexA
		}
		return out[i].VertexB < out[j].VertexB
	})
	return out, nil
}

// Execute splits the edges of s at every point where they cross or
// overlap other edges, merging vertices closer than the tolerance after
// each round, until s needs no more cracking. It returns the number of
// vertices inserted. If s is still not simple after MaxPasses rounds, or
// a round finds nothing it can split, the error is a *NonSimpleError.
func (c *Cracker) Execute(ctx context.Context, s *Shape) (int, error) {
	inserted := 0
	for pass := 1; pass <= c.MaxPasses; pass++ {
		r, needs, err := c.NeedsCracking(ctx, s)
		if err != nil {
			return inserted, err
		}
		if !needs {
			return inserted, nil
		}
		pairs, err := c.Intersections(ctx, s)
		if err != nil {
			return inserted, err
		}
		cuts := make(map[int][]geom.Point)
		for _, pr := range pairs {
			a, _ := s.Edge(pr.VertexA)
			b, _ := s.Edge(pr.VertexB)
			switch pr.Reason {
			case Cracking:
				addCut(cuts, pr.VertexA, a, pr.Point)
				addCut(cuts, pr.VertexB, b, pr.Point)
			case Coincident:
				addCut(cuts, pr.VertexA, a, b.A)
				addCut(cuts, pr.VertexA, a, b.B)
				addCut(cuts, pr.VertexB, b, a.A)
				addCut(cuts, pr.VertexB, b, a.B)
			}
		}
		if len(cuts) == 0 {
			return inserted, &NonSimpleError{NonSimpleResult: r, Passes: pass}
		}
		n := applyCuts(s, cuts)
		inserted += n
		merged := 0
		if c.Tolerance > 0 {
			merged = ClusterVertices(s, c.Tolerance)
		}
		if c.Log != nil {
			c.Log.WithFields(logrus.Fields{
				"pass":     pass,
				"pairs":    len(pairs),
				"inserted": n,
				"merged":   merged,
			}).Info("geometry: cracking pass")
		}
	}
	r, needs, err := c.NeedsCracking(ctx, s)
	if err != nil {
		return inserted, err
	}
	if needs {
		return inserted, &NonSimpleError{NonSimpleResult: r, Passes: c.MaxPasses}
	}
	return inserted, nil
}

// addCut records that edge v (with geometry l) must be split at p, unless
// p is an end point of l or does not lie on it.
func addCut(cuts map[int][]geom.Point, v int, l Line, p geom.Point) {
	if p == l.A || p == l.B || !between(l.A, l.B, p) {
		return
	}
	for _, q := range cuts[v] {
		if q == p {
			return
		}
	}
	cuts[v] = append(cuts[v], p)
}

// applyCuts splits each edge at its cut points, in order along the edge.
func applyCuts(s *Shape, cuts map[int][]geom.Point) int {
	vs := make([]int, 0, len(cuts))
	for v := range cuts {
		vs = append(vs, v)
	}
	sort.Ints(vs)
	n := 0
	for _, v := range vs {
		pts := cuts[v]
		start := s.XY(v)
		sort.Slice(pts, func(i, j int) bool {
			return dist2(start, pts[i]) < dist2(start, pts[j])
		})
		cur := v
		for _, p := range pts {
			cur = s.SplitEdge(cur, p)
			n++
		}
	}
	return n
}

func dist2(a, b geom.Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}
