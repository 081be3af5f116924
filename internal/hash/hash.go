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

// Package hash computes content keys for geometries and for the parameters
// of the operations applied to them.
package hash

import (
	"encoding/gob"
	"fmt"
	"hash"
	"hash/fnv"

	"github.com/davecgh/go-spew/spew"
)

// Key returns a hash key for the specified parts. The key depends on the
// order of the parts and on their dynamic types, so a polygon and a
// multi-line string with the same coordinates have different keys.
func Key(parts ...interface{}) string {
	h := fnv.New128a()
	e := gob.NewEncoder(h)
	for _, p := range parts {
		fmt.Fprintf(h, "%T|", p)
		if p == nil {
			continue
		}
		if err := e.Encode(p); err != nil {
			return spewKey(parts)
		}
	}
	return sum(h)
}

// spewKey is used when gob cannot encode one of the parts.
func spewKey(parts []interface{}) string {
	h := fnv.New128a()
	printer := spew.ConfigState{
		Indent:                  " ",
		SortKeys:                true,
		DisableMethods:          true,
		SpewKeys:                true,
		DisablePointerAddresses: true,
		DisableCapacities:       true,
	}
	for _, p := range parts {
		printer.Fprintf(h, "%T|%#v|", p, p)
	}
	return sum(h)
}

func sum(h hash.Hash) string {
	b := h.Sum([]byte{})
	return fmt.Sprintf("%x", b[0:h.Size()])
}
