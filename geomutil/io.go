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

package geomutil

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/proj"
	goshp "github.com/jonas-p/go-shp"
)

// geoJSONSR is the spatial reference GeoJSON coordinates are assumed to use.
const geoJSONSR = "+proj=longlat +datum=WGS84 +no_defs"

// isShapefile reports whether path names a shapefile.
func isShapefile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".shp")
}

// readGeometries reads every geometry in the shapefile or GeoJSON file at
// path. If srString is not empty the geometries are reprojected into that
// spatial reference.
func readGeometries(path, srString string) ([]geom.Geom, error) {
	if path == "" {
		return nil, fmt.Errorf("geomkernel: no input file specified")
	}
	var dst *proj.SR
	if srString != "" {
		var err error
		dst, err = proj.Parse(srString)
		if err != nil {
			return nil, fmt.Errorf("geomkernel: parsing output spatial reference: %v", err)
		}
	}
	if isShapefile(path) {
		return readShapefile(path, dst)
	}
	gs, err := readGeoJSON(path)
	if err != nil || dst == nil {
		return gs, err
	}
	src, err := proj.Parse(geoJSONSR)
	if err != nil {
		return nil, fmt.Errorf("geomkernel: parsing GeoJSON spatial reference: %v", err)
	}
	return transform(gs, src, dst, path)
}

func readShapefile(path string, dst *proj.SR) ([]geom.Geom, error) {
	f, err := shp.NewDecoder(path)
	if err != nil {
		return nil, fmt.Errorf("geomkernel: opening shapefile %s: %v", path, err)
	}
	defer f.Close()
	var gs []geom.Geom
	for {
		g, _, more := f.DecodeRowFields()
		if !more {
			break
		}
		gs = append(gs, g)
	}
	if err := f.Error(); err != nil {
		return nil, fmt.Errorf("geomkernel: reading shapefile %s: %v", path, err)
	}
	if dst == nil {
		return gs, nil
	}
	src, err := f.SR()
	if err != nil {
		return nil, fmt.Errorf("geomkernel: reading projection of shapefile %s: %v", path, err)
	}
	return transform(gs, src, dst, path)
}

func transform(gs []geom.Geom, src, dst *proj.SR, path string) ([]geom.Geom, error) {
	t, err := src.NewTransform(dst)
	if err != nil {
		return nil, fmt.Errorf("geomkernel: creating reprojector for %s: %v", path, err)
	}
	for i, g := range gs {
		if g == nil {
			continue
		}
		gs[i], err = g.Transform(t)
		if err != nil {
			return nil, fmt.Errorf("geomkernel: reprojecting feature %d of %s: %v", i, path, err)
		}
	}
	return gs, nil
}

// readGeoJSON reads a file holding either one GeoJSON geometry or an
// array of them.
func readGeoJSON(path string) ([]geom.Geom, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("geomkernel: reading GeoJSON file: %v", err)
	}
	var raw []*geojson.Geometry
	if trimmed := strings.TrimSpace(string(b)); strings.HasPrefix(trimmed, "[") {
		err = json.Unmarshal(b, &raw)
	} else {
		g := new(geojson.Geometry)
		err = json.Unmarshal(b, g)
		raw = []*geojson.Geometry{g}
	}
	if err != nil {
		return nil, fmt.Errorf("geomkernel: decoding GeoJSON file %s: %v", path, err)
	}
	gs := make([]geom.Geom, len(raw))
	for i, r := range raw {
		if gs[i], err = fromGeoJSON(r); err != nil {
			return nil, fmt.Errorf("geomkernel: decoding feature %d of %s: %v", i, path, err)
		}
	}
	return gs, nil
}

// fromGeoJSON extends geojson.FromGeoJSON with the multi-part types, which
// are decoded part by part.
func fromGeoJSON(g *geojson.Geometry) (geom.Geom, error) {
	if g == nil {
		return nil, geojson.InvalidGeometryError{}
	}
	var partType string
	switch g.Type {
	case "MultiPoint":
		partType = "Point"
	case "MultiLineString":
		partType = "LineString"
	case "MultiPolygon":
		partType = "Polygon"
	default:
		return geojson.FromGeoJSON(g)
	}
	parts, ok := g.Coordinates.([]interface{})
	if !ok {
		return nil, geojson.InvalidGeometryError{}
	}
	var (
		mp  geom.MultiPoint
		mls geom.MultiLineString
		mpg geom.MultiPolygon
	)
	for _, c := range parts {
		p, err := geojson.FromGeoJSON(&geojson.Geometry{Type: partType, Coordinates: c})
		if err != nil {
			return nil, err
		}
		switch p := p.(type) {
		case geom.Point:
			mp = append(mp, p)
		case geom.LineString:
			mls = append(mls, p)
		case geom.Polygon:
			mpg = append(mpg, p)
		}
	}
	switch g.Type {
	case "MultiPoint":
		return mp, nil
	case "MultiLineString":
		return mls, nil
	}
	return mpg, nil
}

// toGeoJSON extends geojson.ToGeoJSON with the multi-part types.
func toGeoJSON(g geom.Geom) (*geojson.Geometry, error) {
	var (
		typ   string
		parts []geom.Geom
	)
	switch g := g.(type) {
	case geom.MultiPoint:
		typ = "MultiPoint"
		for _, p := range g {
			parts = append(parts, p)
		}
	case geom.MultiLineString:
		typ = "MultiLineString"
		for _, l := range g {
			parts = append(parts, l)
		}
	case geom.MultiPolygon:
		typ = "MultiPolygon"
		for _, p := range g {
			parts = append(parts, p)
		}
	default:
		return geojson.ToGeoJSON(g)
	}
	coords := make([]interface{}, len(parts))
	for i, p := range parts {
		pg, err := geojson.ToGeoJSON(p)
		if err != nil {
			return nil, err
		}
		coords[i] = pg.Coordinates
	}
	return &geojson.Geometry{Type: typ, Coordinates: coords}, nil
}

// writeGeometries writes gs to path as a shapefile or, for any other
// extension, as a GeoJSON array.
func writeGeometries(path string, gs []geom.Geom) error {
	if path == "" {
		return fmt.Errorf("geomkernel: no output file specified")
	}
	if isShapefile(path) {
		return writeShapefile(path, gs)
	}
	out := make([]*geojson.Geometry, len(gs))
	for i, g := range gs {
		var err error
		if out[i], err = toGeoJSON(g); err != nil {
			return fmt.Errorf("geomkernel: encoding feature %d: %v", i, err)
		}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("geomkernel: encoding GeoJSON: %v", err)
	}
	if err := ioutil.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("geomkernel: writing output file: %v", err)
	}
	return nil
}

// writeShapefile writes gs with a "Feature" attribute holding the input
// index of each geometry. All geometries must map to the same shapefile
// shape type.
func writeShapefile(path string, gs []geom.Geom) error {
	var (
		shapeType goshp.ShapeType
		recs      = make([]geom.Geom, len(gs))
	)
	for i, g := range gs {
		t, r, err := shapefileGeom(g)
		if err != nil {
			return fmt.Errorf("geomkernel: feature %d: %v", i, err)
		}
		if shapeType != goshp.NULL && t != shapeType {
			return fmt.Errorf("geomkernel: feature %d: shapefiles cannot mix geometry types; use GeoJSON output instead", i)
		}
		shapeType, recs[i] = t, r
	}
	if shapeType == goshp.NULL {
		shapeType = goshp.POLYGON
	}
	e, err := shp.NewEncoderFromFields(path, shapeType, goshp.NumberField("Feature", 10))
	if err != nil {
		return fmt.Errorf("geomkernel: creating shapefile %s: %v", path, err)
	}
	defer e.Close()
	for i, r := range recs {
		if err := e.EncodeFields(r, i); err != nil {
			return fmt.Errorf("geomkernel: writing feature %d: %v", i, err)
		}
	}
	return nil
}

// shapefileGeom converts g to a geometry the shapefile encoder supports.
func shapefileGeom(g geom.Geom) (goshp.ShapeType, geom.Geom, error) {
	switch g := g.(type) {
	case geom.Point:
		return goshp.POINT, g, nil
	case geom.MultiPoint:
		return goshp.MULTIPOINT, g, nil
	case geom.LineString:
		return goshp.POLYLINE, geom.MultiLineString{g}, nil
	case geom.MultiLineString:
		return goshp.POLYLINE, g, nil
	case geom.Polygon:
		return goshp.POLYGON, g, nil
	case geom.MultiPolygon:
		var rings geom.Polygon
		for _, p := range g {
			rings = append(rings, p...)
		}
		return goshp.POLYGON, rings, nil
	}
	return goshp.NULL, nil, fmt.Errorf("unsupported geometry type %T", g)
}
