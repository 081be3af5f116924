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
	"testing"

	"github.com/ctessum/geom"
)

func TestClassifySegments(t *testing.T) {
	pt := func(x, y float64) geom.Point { return geom.Point{X: x, Y: y} }
	tests := []struct {
		name   string
		a, b   Line
		reason NonSimpleReason
		point  geom.Point
	}{
		{
			name: "crossing", a: Line{pt(0, 0), pt(2, 2)}, b: Line{pt(0, 2), pt(2, 0)},
			reason: Cracking, point: pt(1, 1),
		},
		{
			name: "shared end point", a: Line{pt(0, 0), pt(2, 0)}, b: Line{pt(2, 0), pt(4, 0)},
			reason: SharedEndPoint, point: pt(2, 0),
		},
		{
			name: "shared end point at an angle", a: Line{pt(0, 0), pt(2, 0)}, b: Line{pt(0, 0), pt(1, 3)},
			reason: SharedEndPoint, point: pt(0, 0),
		},
		{
			name: "T junction", a: Line{pt(0, 0), pt(4, 0)}, b: Line{pt(2, 0), pt(2, 3)},
			reason: Cracking, point: pt(2, 0),
		},
		{
			name: "overlap", a: Line{pt(0, 0), pt(4, 0)}, b: Line{pt(6, 0), pt(2, 0)},
			reason: Coincident, point: pt(2, 0),
		},
		{
			name: "contained", a: Line{pt(0, 0), pt(4, 4)}, b: Line{pt(1, 1), pt(2, 2)},
			reason: Coincident, point: pt(1, 1),
		},
		{
			name: "collinear apart", a: Line{pt(0, 0), pt(1, 0)}, b: Line{pt(2, 0), pt(3, 0)},
			reason: NoIntersection,
		},
		{
			name: "parallel", a: Line{pt(0, 0), pt(4, 0)}, b: Line{pt(0, 1), pt(4, 1)},
			reason: NoIntersection,
		},
		{
			name: "disjoint", a: Line{pt(0, 0), pt(1, 1)}, b: Line{pt(3, 0), pt(2, 1.5)},
			reason: NoIntersection,
		},
		{
			name: "point on segment", a: Line{pt(1, 1), pt(1, 1)}, b: Line{pt(0, 0), pt(2, 2)},
			reason: Cracking, point: pt(1, 1),
		},
		{
			name: "point at end", a: Line{pt(0, 0), pt(2, 2)}, b: Line{pt(2, 2), pt(2, 2)},
			reason: SharedEndPoint, point: pt(2, 2),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			reason, p := classifySegments(test.a, test.b)
			if reason != test.reason {
				t.Fatalf("reason: have %v, want %v", reason, test.reason)
			}
			if reason != NoIntersection && p != test.point {
				t.Errorf("point: have %v, want %v", p, test.point)
			}
			// The classification does not depend on the argument order.
			if r2, _ := classifySegments(test.b, test.a); r2 != reason {
				t.Errorf("swapped arguments give %v", r2)
			}
		})
	}
}

func TestLineXAt(t *testing.T) {
	l := Line{A: geom.Point{X: 0, Y: 0}, B: geom.Point{X: 4, Y: 2}}
	if x := l.XAt(1, 100); x != 2 {
		t.Errorf("XAt(1) = %g", x)
	}
	h := Line{A: geom.Point{X: 3, Y: 1}, B: geom.Point{X: 1, Y: 1}}
	for _, test := range []struct{ x, want float64 }{{0, 1}, {2, 2}, {5, 3}} {
		if x := h.XAt(1, test.x); x != test.want {
			t.Errorf("horizontal XAt(1, %g) = %g, want %g", test.x, x, test.want)
		}
	}
}
