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

// Package geomutil provides the command-line interface of the geometry
// kernel: configuration handling, geometry file input and output, and the
// hull, crack and check commands.
package geomutil

import (
	"fmt"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	geometry "github.com/Esri/geometry-api-java-sub003"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

// Log receives the per-feature messages of the commands.
var Log = logrus.StandardLogger()

// options are the configuration options available to the commands.
var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "input",
			usage: `
              input is the path to the file holding the geometries to process.
              Files ending in '.shp' are read as shapefiles; any other file is
              read as GeoJSON holding either one geometry or an array of them.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{hullCmd.Flags(), crackCmd.Flags(), checkCmd.Flags()},
		},
		{
			name: "output",
			usage: `
              output is the path where results are written. Files ending in
              '.shp' are written as shapefiles; any other file is written as a
              GeoJSON array with one geometry per input feature.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{hullCmd.Flags(), crackCmd.Flags()},
		},
		{
			name: "tolerance",
			usage: `
              tolerance is the distance below which vertices are merged after
              cracking, in the units of the input (or of 'proj' when set).`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{crackCmd.Flags(), checkCmd.Flags()},
		},
		{
			name: "proj",
			usage: `
              proj is a PROJ4 or WKT spatial reference that input geometries are
              reprojected into before processing. Shapefile inputs must have a
              '.prj' file; GeoJSON inputs are assumed to be longitude-latitude
              coordinates. Leave empty to process the coordinates as they are.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{hullCmd.Flags(), crackCmd.Flags(), checkCmd.Flags()},
		},
		{
			name: "sweepThreshold",
			usage: `
              sweepThreshold is the number of vertices at or above which
              intersections are detected with a plane sweep instead of by
              testing every pair of edges.`,
			defaultVal: geometry.DefaultBruteForceThreshold,
			flagsets:   []*pflag.FlagSet{crackCmd.Flags(), checkCmd.Flags()},
		},
		{
			name: "maxPasses",
			usage: `
              maxPasses is the largest number of split-and-merge rounds
              'crack --fix' runs on one feature before giving up.`,
			defaultVal: geometry.DefaultMaxPasses,
			flagsets:   []*pflag.FlagSet{crackCmd.Flags()},
		},
		{
			name: "cacheSize",
			usage: `
              cacheSize is the number of results kept so that identical
              features are processed only once. Set to 0 to disable caching.`,
			defaultVal: 100,
			flagsets:   []*pflag.FlagSet{hullCmd.Flags(), crackCmd.Flags(), checkCmd.Flags()},
		},
		{
			name: "verbose",
			usage: `
              verbose turns on debug logging of every feature processed.`,
			shorthand:  "v",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "merge",
			usage: `
              merge computes a single hull of all input features instead of
              one hull per feature.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{hullCmd.Flags()},
		},
		{
			name: "fix",
			usage: `
              fix splits the edges of every feature that needs cracking and
              writes the cracked features to 'output'. Without it the command
              only reports which features need cracking.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{crackCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("GEOMKERNEL")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(hullCmd)
	Root.AddCommand(crackCmd)
	Root.AddCommand(checkCmd)
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "geomkernel",
	Short: "A planar geometry kernel.",
	Long: `geomkernel computes convex hulls of geometries and detects and repairs
self-intersections in them. Use the subcommands specified below to access
the functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'GEOMKERNEL_var' where 'var' is the
name of the variable to be set. Many configuration variables are additionally
allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		if err := setConfig(); err != nil {
			return err
		}
		setLogLevel()
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of geomkernel.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("geomkernel v%s\n", geometry.Version)
	},
	DisableAutoGenTag: true,
}

// hullCmd computes convex hulls.
var hullCmd = &cobra.Command{
	Use:   "hull",
	Short: "Compute convex hulls",
	Long: `hull computes the convex hull of every feature in the input file and
writes the hulls to the output file, one per input feature. With --merge a
single hull of every input vertex is written instead. Hulls of one vertex are
points, hulls of collinear vertices are line strings, and all other hulls are
polygons with a single counter-clockwise ring.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(Cfg)
		if err != nil {
			return err
		}
		return Hull(cfg)
	},
	DisableAutoGenTag: true,
}

// crackCmd detects and repairs self-intersecting features.
var crackCmd = &cobra.Command{
	Use:   "crack",
	Short: "Detect or repair self-intersections",
	Long: `crack tests every feature in the input file for edges that cross,
overlap, or touch at a point that is not an end point of both, and reports
the features that need cracking. With --fix the offending edges are split at
each intersection, vertices closer than 'tolerance' are merged, and the
resulting features are written to the output file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(Cfg)
		if err != nil {
			return err
		}
		if cfg.Fix {
			return Crack(cfg)
		}
		n, total, err := NeedsCracking(cfg)
		if err != nil {
			return err
		}
		cmd.Printf("%d of %d features need cracking\n", n, total)
		return nil
	},
	DisableAutoGenTag: true,
}

// checkCmd lists every intersection.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "List every self-intersection",
	Long: `check lists every pair of edges in every feature of the input file that
cross, overlap, or touch at a point that is not an end point of both. The
command fails if any feature is not simple.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(Cfg)
		if err != nil {
			return err
		}
		results, err := Check(cfg)
		for _, r := range results {
			cmd.Printf("feature %d: %v\n", r.Feature, r.NonSimpleResult)
		}
		return err
	},
	DisableAutoGenTag: true,
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("geomkernel: problem reading configuration file: %v", err)
		}
	}
	return nil
}

func setLogLevel() {
	if Cfg.GetBool("verbose") {
		Log.SetLevel(logrus.DebugLevel)
	} else {
		Log.SetLevel(logrus.InfoLevel)
	}
}
