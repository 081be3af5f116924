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
	"math"
	"math/big"

	"github.com/ctessum/geom"
)

// Results of the orientation predicate.
const (
	Clockwise        = -1
	Collinear        = 0
	CounterClockwise = 1
)

const (
	// orientErrBound is safely greater than the relative round-off error of
	// the float64 orientation determinant.
	orientErrBound = 1e-15

	// inCircleErrBound plays the same role for the in-circle determinant.
	inCircleErrBound = 1e-14
)

// Orientation returns CounterClockwise if r lies to the left of the
// directed line p->q, Clockwise if it lies to the right, and Collinear if
// the three points lie on one line. The result is exact: when the float64
// determinant is too close to zero to trust, it is recomputed with
// arbitrary-precision rational arithmetic.
func Orientation(p, q, r geom.Point) int {
	if o, ok := orientationFilter(p, q, r); ok {
		return o
	}
	return orientationExact(p, q, r)
}

// orientationFilter computes the orientation in float64 arithmetic and
// reports whether the sign of the result can be trusted.
// The bound follows Shewchuk's adaptive predicates.
func orientationFilter(p, q, r geom.Point) (int, bool) {
	detleft := (p.X - r.X) * (q.Y - r.Y)
	detright := (p.Y - r.Y) * (q.X - r.X)
	det := detleft - detright

	var detsum float64
	switch {
	case detleft > 0:
		if detright <= 0 {
			return sign(det), true
		}
		detsum = detleft + detright
	case detleft < 0:
		if detright >= 0 {
			return sign(det), true
		}
		detsum = -detleft - detright
	default:
		return sign(det), true
	}

	errbound := orientErrBound * detsum
	if det >= errbound || -det >= errbound {
		return sign(det), true
	}
	return Collinear, false
}

// orientationExact evaluates the orientation determinant without rounding.
func orientationExact(p, q, r geom.Point) int {
	px, py, ok1 := ratPoint(p)
	qx, qy, ok2 := ratPoint(q)
	rx, ry, ok3 := ratPoint(r)
	if !ok1 || !ok2 || !ok3 {
		return Collinear
	}
	var dx1, dy1, dx2, dy2, left, right big.Rat
	dx1.Sub(qx, px)
	dy1.Sub(qy, py)
	dx2.Sub(rx, px)
	dy2.Sub(ry, py)
	left.Mul(&dx1, &dy2)
	right.Mul(&dy1, &dx2)
	return left.Sub(&left, &right).Sign()
}

// InCircle reports where s lies relative to the circle through p, q and r,
// which must be given in clockwise order: +1 if s is outside the circle,
// -1 if it is inside and 0 if the four points are cocircular.
func InCircle(p, q, r, s geom.Point) int {
	adx, ady := p.X-s.X, p.Y-s.Y
	bdx, bdy := q.X-s.X, q.Y-s.Y
	cdx, cdy := r.X-s.X, r.Y-s.Y

	bdxcdy, cdxbdy := bdx*cdy, cdx*bdy
	alift := adx*adx + ady*ady
	cdxady, adxcdy := cdx*ady, adx*cdy
	blift := bdx*bdx + bdy*bdy
	adxbdy, bdxady := adx*bdy, bdx*ady
	clift := cdx*cdx + cdy*cdy

	det := alift*(bdxcdy-cdxbdy) + blift*(cdxady-adxcdy) + clift*(adxbdy-bdxady)
	permanent := (math.Abs(bdxcdy)+math.Abs(cdxbdy))*alift +
		(math.Abs(cdxady)+math.Abs(adxcdy))*blift +
		(math.Abs(adxbdy)+math.Abs(bdxady))*clift
	errbound := inCircleErrBound * permanent
	if det > errbound || -det > errbound {
		return sign(det)
	}
	return inCircleExact(p, q, r, s)
}

func inCircleExact(p, q, r, s geom.Point) int {
	var pts [4][2]*big.Rat
	for i, pt := range [4]geom.Point{p, q, r, s} {
		x, y, ok := ratPoint(pt)
		if !ok {
			return 0
		}
		pts[i] = [2]*big.Rat{x, y}
	}
	var rows [3][3]big.Rat
	for i := 0; i < 3; i++ {
		dx, dy := &rows[i][0], &rows[i][1]
		dx.Sub(pts[i][0], pts[3][0])
		dy.Sub(pts[i][1], pts[3][1])
		var xx, yy big.Rat
		xx.Mul(dx, dx)
		yy.Mul(dy, dy)
		rows[i][2].Add(&xx, &yy)
	}
	// Expand along the lifted column.
	var det, minor, t1, t2 big.Rat
	for i := 0; i < 3; i++ {
		j, k := (i+1)%3, (i+2)%3
		t1.Mul(&rows[j][0], &rows[k][1])
		t2.Mul(&rows[k][0], &rows[j][1])
		minor.Sub(&t1, &t2)
		minor.Mul(&minor, &rows[i][2])
		det.Add(&det, &minor)
	}
	return det.Sign()
}

// ratPoint converts the coordinates of p to exact rationals. It returns
// false for non-finite coordinates.
func ratPoint(p geom.Point) (x, y *big.Rat, ok bool) {
	x, y = new(big.Rat), new(big.Rat)
	if x.SetFloat64(p.X) == nil || y.SetFloat64(p.Y) == nil {
		return nil, nil, false
	}
	return x, y, true
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// compareXY orders points by y, then by x.
func compareXY(a, b geom.Point) int {
	switch {
	case a.Y < b.Y:
		return -1
	case a.Y > b.Y:
		return 1
	case a.X < b.X:
		return -1
	case a.X > b.X:
		return 1
	}
	return 0
}

// between reports whether m lies on the closed interval a-b, tested on the
// axis along which a and b are farther apart. The three points are assumed
// to be collinear.
func between(a, b, m geom.Point) bool {
	if math.Abs(b.X-a.X) >= math.Abs(b.Y-a.Y) {
		return (a.X <= m.X && m.X <= b.X) || (b.X <= m.X && m.X <= a.X)
	}
	return (a.Y <= m.Y && m.Y <= b.Y) || (b.Y <= m.Y && m.Y <= a.Y)
}
