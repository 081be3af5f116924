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

package hash

import (
	"math"
	"testing"

	"github.com/ctessum/geom"
)

func TestKey(t *testing.T) {
	square := geom.Polygon{{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0}}}
	lines := geom.MultiLineString{{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0}}}

	if Key("hull", square) != Key("hull", square) {
		t.Error("identical inputs give different keys")
	}
	if Key("hull", square) == Key("hull", lines) {
		t.Error("polygon and multi-line string share a key")
	}
	if Key("hull", square) == Key("crack", square) {
		t.Error("operation is not part of the key")
	}
	if Key("crack", square, 0.1) == Key("crack", square, 0.2) {
		t.Error("tolerance is not part of the key")
	}
	if Key("a", "b") == Key("b", "a") {
		t.Error("key does not depend on order")
	}
	nan := geom.Point{X: math.NaN(), Y: 1}
	if k := Key(nan); k == "" || k != Key(nan) {
		t.Errorf("NaN point key %q is not stable", k)
	}
	if Key(nil) == Key("") {
		t.Error("nil and empty string share a key")
	}
}
