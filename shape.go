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

	"github.com/ctessum/geom"
)

// Kind is the geometry type a Shape was built from.
type Kind int

// Geometry kinds a Shape can hold.
const (
	KindPoint Kind = iota
	KindMultiPoint
	KindLineString
	KindMultiLineString
	KindPolygon
	KindMultiPolygon
)

type shapePath struct {
	first  int
	size   int
	closed bool
	part   int // polygon index within a multipolygon
}

// Shape stores the vertices of a geometry together with their
// connectivity. Vertices are identified by stable integer handles; each
// vertex belongs to one path, and a path is either an open chain or a
// closed ring. The edge with origin v runs from v to NextVertex(v).
//
// Shape also carries user indices: transient integer tags per vertex that
// algorithms create for the duration of one call.
type Shape struct {
	Kind Kind

	xy      []geom.Point
	next    []int
	prev    []int
	pathOf  []int
	removed []bool
	paths   []shapePath

	userIndices [][]int
}

// NewShape returns an empty shape of the given kind.
func NewShape(kind Kind) *Shape {
	return &Shape{Kind: kind}
}

// ShapeFromGeom builds a Shape from g. Closing points repeated at the end
// of polygon rings are dropped.
func ShapeFromGeom(g geom.Geom) (*Shape, error) {
	switch t := g.(type) {
	case geom.Point:
		s := NewShape(KindPoint)
		s.AddPath([]geom.Point{t}, false, 0)
		return s, nil
	case *geom.Point:
		return ShapeFromGeom(*t)
	case geom.MultiPoint:
		s := NewShape(KindMultiPoint)
		for _, p := range t {
			s.AddPath([]geom.Point{p}, false, 0)
		}
		return s, nil
	case geom.LineString:
		s := NewShape(KindLineString)
		s.AddPath(t, false, 0)
		return s, nil
	case geom.MultiLineString:
		s := NewShape(KindMultiLineString)
		for _, l := range t {
			s.AddPath(l, false, 0)
		}
		return s, nil
	case geom.Polygon:
		s := NewShape(KindPolygon)
		for _, r := range t {
			s.AddPath(r, true, 0)
		}
		return s, nil
	case geom.MultiPolygon:
		s := NewShape(KindMultiPolygon)
		for i, poly := range t {
			for _, r := range poly {
				s.AddPath(r, true, i)
			}
		}
		return s, nil
	default:
		return nil, fmt.Errorf("geometry: unsupported geometry type %T", g)
	}
}

// AddPath appends a path with the given points and returns its index.
// part groups rings into polygons for KindMultiPolygon shapes.
func (s *Shape) AddPath(pts []geom.Point, closed bool, part int) int {
	if closed && len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	pi := len(s.paths)
	first := len(s.xy)
	for i, p := range pts {
		v := len(s.xy)
		s.xy = append(s.xy, p)
		s.pathOf = append(s.pathOf, pi)
		s.removed = append(s.removed, false)
		s.prev = append(s.prev, v-1)
		s.next = append(s.next, v+1)
		if i == 0 {
			s.prev[v] = -1
		}
		if i == len(pts)-1 {
			s.next[v] = -1
		}
	}
	if closed && len(pts) > 1 {
		last := len(s.xy) - 1
		s.next[last] = first
		s.prev[first] = last
	}
	if len(pts) == 0 {
		first = -1
	}
	s.paths = append(s.paths, shapePath{first: first, size: len(pts), closed: closed, part: part})
	for i := range s.userIndices {
		if s.userIndices[i] != nil {
			for range pts {
				s.userIndices[i] = append(s.userIndices[i], -1)
			}
		}
	}
	return pi
}

// VertexCount returns the number of vertex handles issued, including
// removed vertices.
func (s *Shape) VertexCount() int { return len(s.xy) }

// PathCount returns the number of paths.
func (s *Shape) PathCount() int { return len(s.paths) }

// PathFirst returns the first vertex of path i, or -1 if it is empty.
func (s *Shape) PathFirst(i int) int { return s.paths[i].first }

// PathSize returns the number of vertices in path i.
func (s *Shape) PathSize(i int) int { return s.paths[i].size }

// IsClosed reports whether path i is a ring.
func (s *Shape) IsClosed(i int) bool { return s.paths[i].closed }

// PathOf returns the path that v belongs to.
func (s *Shape) PathOf(v int) int { return s.pathOf[v] }

// Removed reports whether v has been removed from its path.
func (s *Shape) Removed(v int) bool { return s.removed[v] }

// XY returns the coordinates of v.
func (s *Shape) XY(v int) geom.Point { return s.xy[v] }

// SetXY moves v.
func (s *Shape) SetXY(v int, p geom.Point) { s.xy[v] = p }

// NextVertex returns the vertex after v in its path, or -1 at the end of
// an open path.
func (s *Shape) NextVertex(v int) int { return s.next[v] }

// PrevVertex returns the vertex before v in its path, or -1 at the start of
// an open path.
func (s *Shape) PrevVertex(v int) int { return s.prev[v] }

// Edge returns the segment from v to the next vertex. ok is false if v
// ends an open path.
func (s *Shape) Edge(v int) (l Line, ok bool) {
	n := s.next[v]
	if n < 0 {
		return Line{}, false
	}
	return Line{A: s.xy[v], B: s.xy[n]}, true
}

// SplitEdge inserts a new vertex at p into the edge starting at v and
// returns its handle.
func (s *Shape) SplitEdge(v int, p geom.Point) int {
	n := s.next[v]
	if n < 0 {
		panic(fmt.Errorf("geometry: SplitEdge: vertex %d ends an open path", v))
	}
	w := len(s.xy)
	pi := s.pathOf[v]
	s.xy = append(s.xy, p)
	s.pathOf = append(s.pathOf, pi)
	s.removed = append(s.removed, false)
	s.prev = append(s.prev, v)
	s.next = append(s.next, n)
	s.next[v] = w
	s.prev[n] = w
	s.paths[pi].size++
	for i := range s.userIndices {
		if s.userIndices[i] != nil {
			s.userIndices[i] = append(s.userIndices[i], -1)
		}
	}
	return w
}

// RemoveVertex unlinks v from its path. The handle stays reserved.
func (s *Shape) RemoveVertex(v int) {
	if s.removed[v] {
		return
	}
	pi := s.pathOf[v]
	p, n := s.prev[v], s.next[v]
	path := &s.paths[pi]
	path.size--
	switch {
	case path.size == 0:
		path.first = -1
	case path.closed && path.size == 1:
		s.next[n], s.prev[n] = -1, -1
		path.first = n
	default:
		if p >= 0 {
			s.next[p] = n
		}
		if n >= 0 {
			s.prev[n] = p
		}
		if path.first == v {
			path.first = n
		}
	}
	s.removed[v] = true
	s.next[v], s.prev[v] = -1, -1
}

// CreateUserIndex allocates a new per-vertex tag with every value set to
// -1 and returns its handle.
func (s *Shape) CreateUserIndex() int {
	vals := make([]int, len(s.xy))
	for i := range vals {
		vals[i] = -1
	}
	for i, u := range s.userIndices {
		if u == nil {
			s.userIndices[i] = vals
			return i
		}
	}
	s.userIndices = append(s.userIndices, vals)
	return len(s.userIndices) - 1
}

// SetUserIndex sets the value of tag index for v.
func (s *Shape) SetUserIndex(v, index, value int) { s.userIndices[index][v] = value }

// UserIndex returns the value of tag index for v.
func (s *Shape) UserIndex(v, index int) int { return s.userIndices[index][v] }

// RemoveUserIndex releases a tag.
func (s *Shape) RemoveUserIndex(index int) { s.userIndices[index] = nil }

// Bounds returns the extent of the live vertices.
func (s *Shape) Bounds() *geom.Bounds {
	b := geom.NewBounds()
	for v, p := range s.xy {
		if !s.removed[v] {
			b.Extend(geom.NewBoundsPoint(p))
		}
	}
	return b
}

// PathPoints returns the coordinates of path i in order.
func (s *Shape) PathPoints(i int) []geom.Point {
	path := s.paths[i]
	pts := make([]geom.Point, 0, path.size)
	for v, k := path.first, 0; v >= 0 && k < path.size; v, k = s.next[v], k+1 {
		pts = append(pts, s.xy[v])
	}
	return pts
}

// ring returns the points of path i with the first point repeated at the
// end if the path is closed.
func (s *Shape) ring(i int) []geom.Point {
	pts := s.PathPoints(i)
	if s.paths[i].closed && len(pts) > 1 {
		pts = append(pts, pts[0])
	}
	return pts
}

// Transposed returns a copy of s with X and Y exchanged. Vertex handles
// are preserved.
func (s *Shape) Transposed() *Shape {
	t := &Shape{
		Kind:    s.Kind,
		xy:      make([]geom.Point, len(s.xy)),
		next:    append([]int(nil), s.next...),
		prev:    append([]int(nil), s.prev...),
		pathOf:  append([]int(nil), s.pathOf...),
		removed: append([]bool(nil), s.removed...),
		paths:   append([]shapePath(nil), s.paths...),
	}
	for i, p := range s.xy {
		t.xy[i] = geom.Point{X: p.Y, Y: p.X}
	}
	return t
}

// Geom rebuilds a geometry of the shape's kind from its paths.
func (s *Shape) Geom() geom.Geom {
	switch s.Kind {
	case KindPoint:
		for i := range s.paths {
			if pts := s.PathPoints(i); len(pts) > 0 {
				return pts[0]
			}
		}
		return geom.MultiPoint{}
	case KindMultiPoint:
		mp := geom.MultiPoint{}
		for i := range s.paths {
			mp = append(mp, s.PathPoints(i)...)
		}
		return mp
	case KindLineString:
		if len(s.paths) == 0 {
			return geom.LineString{}
		}
		return geom.LineString(s.PathPoints(0))
	case KindMultiLineString:
		ml := make(geom.MultiLineString, 0, len(s.paths))
		for i := range s.paths {
			ml = append(ml, geom.LineString(s.PathPoints(i)))
		}
		return ml
	case KindPolygon:
		poly := make(geom.Polygon, 0, len(s.paths))
		for i := range s.paths {
			if pts := s.ring(i); len(pts) > 0 {
				poly = append(poly, pts)
			}
		}
		return poly
	case KindMultiPolygon:
		var mp geom.MultiPolygon
		parts := make(map[int]int)
		for i, path := range s.paths {
			pts := s.ring(i)
			if len(pts) == 0 {
				continue
			}
			j, ok := parts[path.part]
			if !ok {
				j = len(mp)
				parts[path.part] = j
				mp = append(mp, geom.Polygon{})
			}
			mp[j] = append(mp[j], pts)
		}
		return mp
	}
	panic(fmt.Errorf("geometry: invalid shape kind %d", s.Kind))
}
