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
	"fmt"
	"os"
	"path/filepath"

	"github.com/lnashier/viper"
	"github.com/spf13/cast"

	geometry "github.com/Esri/geometry-api-java-sub003"
)

// Config holds the settings of one command invocation.
type Config struct {
	Input, Output string

	// Proj is the spatial reference geometries are reprojected into.
	Proj string

	Tolerance      float64
	SweepThreshold int
	MaxPasses      int
	CacheSize      int

	Merge, Fix bool
}

// loadConfig reads the command settings from cfg, expanding environment
// variables in file paths.
func loadConfig(cfg *viper.Viper) (*Config, error) {
	c := &Config{
		Input:  os.ExpandEnv(cfg.GetString("input")),
		Output: os.ExpandEnv(cfg.GetString("output")),
		Proj:   os.ExpandEnv(cfg.GetString("proj")),
		Merge:  cfg.GetBool("merge"),
		Fix:    cfg.GetBool("fix"),
	}
	var err error
	if c.Tolerance, err = cast.ToFloat64E(cfg.Get("tolerance")); err != nil {
		return nil, fmt.Errorf("geomkernel: reading 'tolerance': %v", err)
	}
	if c.Tolerance < 0 {
		return nil, fmt.Errorf("geomkernel: 'tolerance' must not be negative, but is %g", c.Tolerance)
	}
	if c.SweepThreshold, err = cast.ToIntE(cfg.Get("sweepThreshold")); err != nil {
		return nil, fmt.Errorf("geomkernel: reading 'sweepThreshold': %v", err)
	}
	if c.MaxPasses, err = cast.ToIntE(cfg.Get("maxPasses")); err != nil {
		return nil, fmt.Errorf("geomkernel: reading 'maxPasses': %v", err)
	}
	if c.MaxPasses < 1 {
		c.MaxPasses = geometry.DefaultMaxPasses
	}
	if c.CacheSize, err = cast.ToIntE(cfg.Get("cacheSize")); err != nil {
		return nil, fmt.Errorf("geomkernel: reading 'cacheSize': %v", err)
	}
	return c, nil
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists.
func checkOutputFile(f string) error {
	if f == "" {
		return fmt.Errorf(`geomkernel: you need to specify an output file (for example: --output="hulls.geojson")`)
	}
	if _, err := os.Stat(filepath.Dir(f)); err != nil {
		return fmt.Errorf("geomkernel: the output directory doesn't exist: %v", err)
	}
	return nil
}

// cracker returns a Cracker configured by c.
func (c *Config) cracker() *geometry.Cracker {
	cr := geometry.NewCracker(c.Tolerance)
	cr.BruteForceThreshold = c.SweepThreshold
	cr.MaxPasses = c.MaxPasses
	cr.Log = Log
	return cr
}
