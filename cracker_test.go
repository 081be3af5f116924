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
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/ctessum/geom"
)

func mustShape(t *testing.T, g geom.Geom) *Shape {
	t.Helper()
	s, err := ShapeFromGeom(g)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// crackers returns a brute force and a sweeping cracker.
func crackers() map[string]*Cracker {
	bf := NewCracker(0)
	bf.BruteForceThreshold = math.MaxInt32
	sw := NewCracker(0)
	sw.forceSweep = true
	return map[string]*Cracker{"brute force": bf, "sweep": sw}
}

func TestNeedsCracking(t *testing.T) {
	ctx := context.Background()
	star := make(geom.Polygon, 1)
	simple := make(geom.Polygon, 1)
	for i := 0; i < 50; i++ {
		// A pentagram spiral crosses itself; a circle does not.
		a := 2 * math.Pi * float64(i) / 50
		simple[0] = append(simple[0], geom.Point{X: math.Cos(a), Y: math.Sin(a)})
		b := 2 * math.Pi * float64(2*i) / 5
		r := 1 + 0.1*float64(i)
		star[0] = append(star[0], geom.Point{X: math.Cos(b) * r, Y: math.Sin(b) * r})
	}
	tests := []struct {
		name   string
		g      geom.Geom
		needs  bool
		reason NonSimpleReason
		point  *geom.Point
	}{
		{
			name:   "crossing",
			g:      geom.MultiLineString{{{X: 0, Y: 0}, {X: 2, Y: 2}}, {{X: 0, Y: 2}, {X: 2, Y: 0}}},
			needs:  true,
			reason: Cracking,
			point:  &geom.Point{X: 1, Y: 1},
		},
		{
			name:  "shared end point",
			g:     geom.MultiLineString{{{X: 0, Y: 0}, {X: 2, Y: 0}}, {{X: 2, Y: 0}, {X: 4, Y: 0}}},
			needs: false,
		},
		{
			name:   "overlap",
			g:      geom.MultiLineString{{{X: 0, Y: 0}, {X: 4, Y: 0}}, {{X: 2, Y: 0}, {X: 6, Y: 0}}},
			needs:  true,
			reason: Coincident,
		},
		{
			name:  "square",
			g:     geom.Polygon{{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}, {X: 0, Y: 0}}},
			needs: false,
		},
		{
			name:   "bow tie",
			g:      geom.Polygon{{{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 2, Y: 0}, {X: 0, Y: 2}}},
			needs:  true,
			reason: Cracking,
			point:  &geom.Point{X: 1, Y: 1},
		},
		{
			name:  "circle",
			g:     simple,
			needs: false,
		},
		{
			name:  "star",
			g:     star,
			needs: true,
		},
		{
			name:  "touching rings",
			g:     geom.MultiPolygon{{{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}}, {{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 2}}}},
			needs: false,
		},
		{
			name:   "vertex on edge",
			g:      geom.MultiLineString{{{X: 0, Y: 0}, {X: 4, Y: 0}}, {{X: 2, Y: 0}, {X: 2, Y: 3}, {X: 5, Y: 5}}},
			needs:  true,
			reason: Cracking,
			point:  &geom.Point{X: 2, Y: 0},
		},
	}
	for _, test := range tests {
		for name, c := range crackers() {
			t.Run(test.name+"/"+name, func(t *testing.T) {
				r, needs, err := c.NeedsCracking(ctx, mustShape(t, test.g))
				if err != nil {
					t.Fatal(err)
				}
				if needs != test.needs {
					t.Fatalf("needs cracking: have %v, want %v (%v)", needs, test.needs, r)
				}
				if !needs {
					return
				}
				if test.reason != NoIntersection && r.Reason != test.reason {
					t.Errorf("reason: have %v, want %v", r.Reason, test.reason)
				}
				if test.point != nil && r.Point != *test.point {
					t.Errorf("point: have %v, want %v", r.Point, *test.point)
				}
			})
		}
	}
}

// randomSegments returns n segments on a small integer grid, so that many
// of them touch, overlap, or are horizontal.
func randomSegments(rnd *rand.Rand, n, grid int) geom.MultiLineString {
	ml := make(geom.MultiLineString, n)
	for i := range ml {
		a := geom.Point{X: float64(rnd.Intn(grid)), Y: float64(rnd.Intn(grid))}
		b := geom.Point{X: float64(rnd.Intn(grid)), Y: a.Y}
		switch rnd.Intn(3) {
		case 0:
			b.Y = float64(rnd.Intn(grid))
		case 1:
			b.Y += 1e-9 * float64(rnd.Intn(3)-1)
		}
		ml[i] = geom.LineString{a, b}
	}
	return ml
}

func TestSweepMatchesBruteForce(t *testing.T) {
	ctx := context.Background()
	rnd := rand.New(rand.NewSource(5))
	cs := crackers()
	found := 0
	for iter := 0; iter < 2000; iter++ {
		g := randomSegments(rnd, 2+rnd.Intn(5), 6)
		s := mustShape(t, g)
		bf, bfNeeds, err := cs["brute force"].NeedsCracking(ctx, s)
		if err != nil {
			t.Fatal(err)
		}
		sw, swNeeds, err := cs["sweep"].NeedsCracking(ctx, s)
		if err != nil {
			t.Fatal(err)
		}
		if bfNeeds != swNeeds {
			t.Fatalf("%v: brute force %v (%v), sweep %v (%v)", g, bfNeeds, bf, swNeeds, sw)
		}
		if bfNeeds {
			found++
		}
	}
	if found == 0 {
		t.Error("no random configuration needed cracking")
	}
}

func TestNeedsCrackingCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewCracker(0)
	c.forceSweep = true
	g := geom.MultiLineString{{{X: 0, Y: 0}, {X: 2, Y: 2}}, {{X: 0, Y: 2}, {X: 2, Y: 0}}}
	if _, _, err := c.NeedsCracking(ctx, mustShape(t, g)); err != context.Canceled {
		t.Errorf("have %v, want %v", err, context.Canceled)
	}
}

func TestIntersections(t *testing.T) {
	g := geom.MultiLineString{
		{{X: 0, Y: 0}, {X: 4, Y: 4}},
		{{X: 0, Y: 4}, {X: 4, Y: 0}},
		{{X: 0, Y: 1}, {X: 4, Y: 1}},
	}
	r, err := NewCracker(0).Intersections(context.Background(), mustShape(t, g))
	if err != nil {
		t.Fatal(err)
	}
	want := []NonSimpleResult{
		{Reason: Cracking, VertexA: 0, VertexB: 2, Point: geom.Point{X: 2, Y: 2}},
		{Reason: Cracking, VertexA: 0, VertexB: 4, Point: geom.Point{X: 1, Y: 1}},
		{Reason: Cracking, VertexA: 2, VertexB: 4, Point: geom.Point{X: 3, Y: 1}},
	}
	if !reflect.DeepEqual(r, want) {
		t.Errorf("have %v, want %v", r, want)
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	t.Run("bow tie", func(t *testing.T) {
		s := mustShape(t, geom.Polygon{{{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 2, Y: 0}, {X: 0, Y: 2}}})
		c := NewCracker(0)
		n, err := c.Execute(ctx, s)
		if err != nil {
			t.Fatal(err)
		}
		if n != 2 {
			t.Errorf("inserted %d vertices, want 2", n)
		}
		want := geom.Polygon{{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 2, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 2}, {X: 0, Y: 0}}}
		if have := s.Geom(); !reflect.DeepEqual(have, want) {
			t.Errorf("have %v, want %v", have, want)
		}
	})
	t.Run("grid", func(t *testing.T) {
		var g geom.MultiLineString
		for i := 0; i < 5; i++ {
			x := float64(i)
			g = append(g, geom.LineString{{X: x, Y: -1}, {X: x + 0.5, Y: 5}})
			g = append(g, geom.LineString{{X: -1, Y: x}, {X: 5, Y: x + 0.25}})
		}
		s := mustShape(t, g)
		c := NewCracker(1e-9)
		if _, err := c.Execute(ctx, s); err != nil {
			t.Fatal(err)
		}
		if _, needs, _ := c.NeedsCracking(ctx, s); needs {
			t.Error("still needs cracking after Execute")
		}
	})
	t.Run("overlap", func(t *testing.T) {
		s := mustShape(t, geom.MultiLineString{{{X: 0, Y: 0}, {X: 4, Y: 0}}, {{X: 2, Y: 0}, {X: 6, Y: 0}}})
		n, err := NewCracker(0).Execute(ctx, s)
		if n != 2 {
			t.Errorf("inserted %d vertices, want 2", n)
		}
		nse, ok := err.(*NonSimpleError)
		if !ok {
			t.Fatalf("have error %v, want a *NonSimpleError", err)
		}
		if nse.Reason != Coincident {
			t.Errorf("reason %v", nse.Reason)
		}
	})
}

func TestClusterVertices(t *testing.T) {
	s := mustShape(t, geom.LineString{{X: 0, Y: 0}, {X: 0.05, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 0.01}, {X: 2, Y: 2}})
	if moved := ClusterVertices(s, 0.1); moved != 2 {
		t.Errorf("moved %d vertices, want 2", moved)
	}
	want := geom.LineString{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 2}}
	if have := s.Geom(); !reflect.DeepEqual(have, want) {
		t.Errorf("have %v, want %v", have, want)
	}
}
