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
	"reflect"
	"testing"

	"github.com/ctessum/geom"
)

func TestShapeFromGeom(t *testing.T) {
	square := geom.Polygon{{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}}}
	tests := []geom.Geom{
		geom.Point{X: 1, Y: 2},
		geom.MultiPoint{{X: 1, Y: 2}, {X: 3, Y: 4}},
		geom.LineString{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}},
		geom.MultiLineString{{{X: 0, Y: 0}, {X: 1, Y: 1}}, {{X: 2, Y: 0}, {X: 3, Y: 3}}},
		square,
		geom.MultiPolygon{square, {{{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 6, Y: 6}, {X: 5, Y: 5}}}},
	}
	for _, g := range tests {
		s, err := ShapeFromGeom(g)
		if err != nil {
			t.Fatal(err)
		}
		if have := s.Geom(); !reflect.DeepEqual(have, g) {
			t.Errorf("have %v, want %v", have, g)
		}
	}
	if _, err := ShapeFromGeom(nil); err == nil {
		t.Error("nil geometry accepted")
	}
}

func TestShapeTopology(t *testing.T) {
	s, err := ShapeFromGeom(geom.Polygon{{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}}})
	if err != nil {
		t.Fatal(err)
	}
	if s.NextVertex(2) != 0 || s.PrevVertex(0) != 2 {
		t.Error("ring is not closed")
	}
	w := s.SplitEdge(0, geom.Point{X: 1, Y: 0})
	if s.NextVertex(0) != w || s.NextVertex(w) != 1 || s.PrevVertex(1) != w {
		t.Error("SplitEdge did not link the new vertex")
	}
	if l, ok := s.Edge(w); !ok || l != (Line{A: geom.Point{X: 1, Y: 0}, B: geom.Point{X: 2, Y: 0}}) {
		t.Errorf("edge %v", l)
	}
	s.RemoveVertex(1)
	want := []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 2}}
	if have := s.PathPoints(0); !reflect.DeepEqual(have, want) {
		t.Errorf("have %v, want %v", have, want)
	}

	line, err := ShapeFromGeom(geom.LineString{{X: 0, Y: 0}, {X: 1, Y: 5}})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := line.Edge(1); ok {
		t.Error("edge past the end of an open path")
	}
	if tr := line.Transposed(); tr.XY(1) != (geom.Point{X: 5, Y: 1}) {
		t.Errorf("transposed %v", tr.XY(1))
	}
}

func TestShapeUserIndex(t *testing.T) {
	s, err := ShapeFromGeom(geom.LineString{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		t.Fatal(err)
	}
	a := s.CreateUserIndex()
	b := s.CreateUserIndex()
	s.SetUserIndex(1, a, 7)
	if s.UserIndex(1, a) != 7 || s.UserIndex(1, b) != -1 || s.UserIndex(0, a) != -1 {
		t.Error("user index values")
	}
	w := s.SplitEdge(0, geom.Point{X: 0.5, Y: 0.5})
	if s.UserIndex(w, a) != -1 {
		t.Error("new vertex has a tag")
	}
	s.RemoveUserIndex(a)
	if c := s.CreateUserIndex(); c != a {
		t.Errorf("index %d not reused, got %d", a, c)
	}
}
