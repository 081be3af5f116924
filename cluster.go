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
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/gonum/floats"
)

type vertexCluster struct {
	geom.Point
	size int
}

// ClusterVertices snaps every vertex of s that lies within tolerance (in
// each coordinate) of an earlier vertex onto that vertex's location, and
// then removes vertices that repeat their predecessor. It returns the
// number of vertices moved.
func ClusterVertices(s *Shape, tolerance float64) int {
	index := rtree.NewTree(25, 50)
	moved := 0
	for v := 0; v < s.VertexCount(); v++ {
		if s.Removed(v) {
			continue
		}
		p := s.XY(v)
		var best *vertexCluster
		for _, cI := range index.SearchIntersect(rtree.ToRect(p, tolerance)) {
			c := cI.(*vertexCluster)
			if !floats.EqualWithinAbs(c.X, p.X, tolerance) || !floats.EqualWithinAbs(c.Y, p.Y, tolerance) {
				continue
			}
			if best == nil || c.size > best.size || (c.size == best.size && compareXY(c.Point, best.Point) < 0) {
				best = c
			}
		}
		if best == nil {
			index.Insert(&vertexCluster{Point: p, size: 1})
			continue
		}
		best.size++
		if best.Point != p {
			s.SetXY(v, best.Point)
			moved++
		}
	}
	removeRepeatedVertices(s)
	return moved
}

// removeRepeatedVertices drops vertices at the same location as the
// vertex before them in their path.
func removeRepeatedVertices(s *Shape) {
	for v := 0; v < s.VertexCount(); v++ {
		if s.Removed(v) {
			continue
		}
		for {
			n := s.NextVertex(v)
			if n < 0 || n == v || s.XY(n) != s.XY(v) {
				break
			}
			s.RemoveVertex(n)
		}
	}
}
