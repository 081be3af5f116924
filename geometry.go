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

// Package geometry is a planar geometry kernel. It provides robust
// orientation and in-circle predicates, an arena-backed treap used as the
// ordered container of the sweep and hull algorithms, an incremental convex
// hull, and a plane-sweep test that detects whether the edges of a shape
// intersect anywhere other than at shared end points. Shapes that are not
// simple can be cracked, which splits their edges at every intersection.
package geometry

// Version gives the version number of this package.
const Version = "0.1.0"
