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
	"context"
	"fmt"

	"github.com/ctessum/geom"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	geometry "github.com/Esri/geometry-api-java-sub003"
)

// FeatureResult is one non-simple edge pair found in an input feature.
type FeatureResult struct {
	Feature int
	geometry.NonSimpleResult
}

// Hull computes the convex hulls of the features in cfg.Input and writes
// them to cfg.Output. Features that cannot be read as geometries are
// reported in the returned error and written as empty hulls.
func Hull(cfg *Config) error {
	if err := checkOutputFile(cfg.Output); err != nil {
		return err
	}
	gs, err := readGeometries(cfg.Input, cfg.Proj)
	if err != nil {
		return err
	}
	ctx := context.Background()

	if cfg.Merge {
		h := geometry.NewConvexHull()
		for i, g := range gs {
			if g == nil {
				continue
			}
			s, err := geometry.ShapeFromGeom(g)
			if err != nil {
				return fmt.Errorf("geomkernel: feature %d: %v", i, err)
			}
			if err := h.AddPoints(ctx, livePoints(s)); err != nil {
				return err
			}
		}
		Log.WithFields(logrus.Fields{
			"features": len(gs),
			"vertices": h.Len(),
		}).Info("geomkernel: merged hull computed")
		return writeGeometries(cfg.Output, []geom.Geom{h.Hull()})
	}

	cache := newResultCache(cfg.CacheSize)
	var merr *multierror.Error
	out := make([]geom.Geom, len(gs))
	for i, g := range gs {
		out[i] = geom.MultiPoint{}
		if g == nil {
			continue
		}
		h, err := cache.do(func() (interface{}, error) {
			return geometry.ConstructFromGeom(ctx, g)
		}, "hull", g)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("feature %d: %v", i, err))
			continue
		}
		out[i] = h.(geom.Geom)
		Log.WithFields(logrus.Fields{
			"feature": i,
			"hull":    fmt.Sprintf("%T", out[i]),
		}).Debug("geomkernel: hull computed")
	}
	Log.WithFields(logrus.Fields{
		"features":  len(gs),
		"cacheHits": cache.Hits(),
	}).Info("geomkernel: hulls computed")
	if err := writeGeometries(cfg.Output, out); err != nil {
		merr = multierror.Append(merr, err)
	}
	return merr.ErrorOrNil()
}

// livePoints returns the coordinates of the vertices of s that have not
// been removed.
func livePoints(s *geometry.Shape) []geom.Point {
	pts := make([]geom.Point, 0, s.VertexCount())
	for v := 0; v < s.VertexCount(); v++ {
		if !s.Removed(v) {
			pts = append(pts, s.XY(v))
		}
	}
	return pts
}

type crackStatus struct {
	result geometry.NonSimpleResult
	needs  bool
}

// NeedsCracking tests every feature in cfg.Input and returns the number of
// features that need cracking along with the total number of features.
func NeedsCracking(cfg *Config) (n, total int, err error) {
	gs, err := readGeometries(cfg.Input, cfg.Proj)
	if err != nil {
		return 0, 0, err
	}
	ctx := context.Background()
	cr := cfg.cracker()
	cache := newResultCache(cfg.CacheSize)
	var merr *multierror.Error
	for i, g := range gs {
		if g == nil {
			continue
		}
		st, err := cache.do(func() (interface{}, error) {
			s, err := geometry.ShapeFromGeom(g)
			if err != nil {
				return nil, err
			}
			r, needs, err := cr.NeedsCracking(ctx, s)
			return crackStatus{result: r, needs: needs}, err
		}, "needsCracking", g, cfg.Tolerance, cfg.SweepThreshold)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("feature %d: %v", i, err))
			continue
		}
		if s := st.(crackStatus); s.needs {
			n++
			Log.WithFields(logrus.Fields{
				"feature": i,
				"reason":  s.result.Reason.String(),
				"x":       s.result.Point.X,
				"y":       s.result.Point.Y,
			}).Info("geomkernel: feature needs cracking")
		}
	}
	return n, len(gs), merr.ErrorOrNil()
}

type crackedFeature struct {
	g        geom.Geom
	inserted int
}

// Crack cracks every feature in cfg.Input and writes the results to
// cfg.Output. Features that could not be made simple are written as far
// as they were cracked and reported in the returned error.
func Crack(cfg *Config) error {
	if err := checkOutputFile(cfg.Output); err != nil {
		return err
	}
	gs, err := readGeometries(cfg.Input, cfg.Proj)
	if err != nil {
		return err
	}
	ctx := context.Background()
	cr := cfg.cracker()
	cache := newResultCache(cfg.CacheSize)
	var merr *multierror.Error
	out := make([]geom.Geom, len(gs))
	for i, g := range gs {
		out[i] = g
		if g == nil {
			out[i] = geom.MultiPoint{}
			continue
		}
		v, err := cache.do(func() (interface{}, error) {
			s, err := geometry.ShapeFromGeom(g)
			if err != nil {
				return nil, err
			}
			n, err := cr.Execute(ctx, s)
			return crackedFeature{g: s.Geom(), inserted: n}, err
		}, "crack", g, cfg.Tolerance, cfg.SweepThreshold, cfg.MaxPasses)
		if c, ok := v.(crackedFeature); ok {
			out[i] = c.g
			if c.inserted > 0 {
				Log.WithFields(logrus.Fields{
					"feature":  i,
					"inserted": c.inserted,
				}).Info("geomkernel: feature cracked")
			}
		}
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("feature %d: %v", i, err))
		}
	}
	if err := writeGeometries(cfg.Output, out); err != nil {
		merr = multierror.Append(merr, err)
	}
	return merr.ErrorOrNil()
}

// Check returns every non-simple edge pair of every feature in cfg.Input.
// The error lists the features that are not simple.
func Check(cfg *Config) ([]FeatureResult, error) {
	gs, err := readGeometries(cfg.Input, cfg.Proj)
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	cr := cfg.cracker()
	cache := newResultCache(cfg.CacheSize)
	var (
		merr    *multierror.Error
		results []FeatureResult
	)
	for i, g := range gs {
		if g == nil {
			continue
		}
		v, err := cache.do(func() (interface{}, error) {
			s, err := geometry.ShapeFromGeom(g)
			if err != nil {
				return nil, err
			}
			r, needs, err := cr.NeedsCracking(ctx, s)
			if err != nil || !needs {
				return []geometry.NonSimpleResult(nil), err
			}
			pairs, err := cr.Intersections(ctx, s)
			if err == nil && len(pairs) == 0 {
				pairs = []geometry.NonSimpleResult{r}
			}
			return pairs, err
		}, "check", g, cfg.Tolerance, cfg.SweepThreshold)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("feature %d: %v", i, err))
			continue
		}
		pairs := v.([]geometry.NonSimpleResult)
		for _, p := range pairs {
			results = append(results, FeatureResult{Feature: i, NonSimpleResult: p})
			Log.WithFields(logrus.Fields{
				"feature": i,
				"reason":  p.Reason.String(),
				"vertexA": p.VertexA,
				"vertexB": p.VertexB,
			}).Debug("geomkernel: intersection")
		}
		if len(pairs) > 0 {
			merr = multierror.Append(merr, fmt.Errorf("feature %d is not simple: %d intersecting edge pairs", i, len(pairs)))
		}
	}
	return results, merr.ErrorOrNil()
}
