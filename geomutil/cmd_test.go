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
	"bytes"
	"io/ioutil"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ctessum/geom"
)

// setCfg resets the command configuration to its defaults plus the given
// values.
func setCfg(vals map[string]interface{}) {
	defaults := map[string]interface{}{
		"config":         "",
		"input":          "",
		"output":         "",
		"tolerance":      0.0,
		"proj":           "",
		"sweepThreshold": 10,
		"maxPasses":      10,
		"cacheSize":      100,
		"verbose":        false,
		"merge":          false,
		"fix":            false,
	}
	for k, v := range defaults {
		Cfg.Set(k, v)
	}
	for k, v := range vals {
		Cfg.Set(k, v)
	}
}

func writeFile(t *testing.T, dir, name, contents string) string {
	path := filepath.Join(dir, name)
	if err := ioutil.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	var buf bytes.Buffer
	Root.SetOutput(&buf)
	Root.SetArgs(args)
	err := Root.Execute()
	return buf.String(), err
}

const testFeatures = `[
{"type": "Polygon", "coordinates": [[[0, 0], [2, 0], [1, 1], [2, 2], [0, 2], [0, 0]]]},
{"type": "LineString", "coordinates": [[0, 0], [1, 1], [3, 3]]},
{"type": "Point", "coordinates": [5, 5]},
{"type": "Polygon", "coordinates": [[[0, 0], [2, 0], [1, 1], [2, 2], [0, 2], [0, 0]]]}
]`

func TestVersion(t *testing.T) {
	setCfg(nil)
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "geomkernel v") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestHullCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.json", testFeatures)
	out := filepath.Join(dir, "out.json")
	setCfg(map[string]interface{}{"input": in, "output": out})
	if _, err := execute(t, "hull"); err != nil {
		t.Fatal(err)
	}
	gs, err := readGeoJSON(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(gs) != 4 {
		t.Fatalf("have %d hulls, want 4", len(gs))
	}
	square := geom.Polygon{{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}, {X: 0, Y: 0}}}
	for _, i := range []int{0, 3} {
		if !square.Similar(gs[i], 1e-12) {
			t.Errorf("hull %d: have %v, want %v", i, gs[i], square)
		}
	}
	if l, ok := gs[1].(geom.LineString); !ok || len(l) != 2 {
		t.Errorf("hull 1: have %#v, want a two-point line string", gs[1])
	}
	if p, ok := gs[2].(geom.Point); !ok || p != (geom.Point{X: 5, Y: 5}) {
		t.Errorf("hull 2: have %#v", gs[2])
	}
}

func TestHullMerge(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.json", testFeatures)
	out := filepath.Join(dir, "out.json")
	setCfg(map[string]interface{}{"input": in, "output": out, "merge": true})
	if _, err := execute(t, "hull"); err != nil {
		t.Fatal(err)
	}
	gs, err := readGeoJSON(out)
	if err != nil {
		t.Fatal(err)
	}
	want := geom.Polygon{{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 5, Y: 5}, {X: 0, Y: 2}, {X: 0, Y: 0}}}
	if len(gs) != 1 || !want.Similar(gs[0], 1e-12) {
		t.Errorf("have %v, want %v", gs, want)
	}
}

func TestHullNoOutput(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.json", testFeatures)
	setCfg(map[string]interface{}{"input": in})
	if _, err := execute(t, "hull"); err == nil {
		t.Error("expected an error for a missing output file")
	}
}

const bowTie = `[
{"type": "Polygon", "coordinates": [[[0, 0], [2, 2], [2, 0], [0, 2], [0, 0]]]},
{"type": "Polygon", "coordinates": [[[0, 0], [2, 0], [2, 2], [0, 2], [0, 0]]]}
]`

func TestCrackCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.json", bowTie)

	t.Run("report", func(t *testing.T) {
		setCfg(map[string]interface{}{"input": in})
		out, err := execute(t, "crack")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "1 of 2 features need cracking") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("fix", func(t *testing.T) {
		out := filepath.Join(dir, "cracked.json")
		setCfg(map[string]interface{}{"input": in, "output": out, "fix": true})
		if _, err := execute(t, "crack"); err != nil {
			t.Fatal(err)
		}
		gs, err := readGeoJSON(out)
		if err != nil {
			t.Fatal(err)
		}
		want := []geom.Geom{
			geom.Polygon{{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 2, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 2}, {X: 0, Y: 0}}},
			geom.Polygon{{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}, {X: 0, Y: 0}}},
		}
		if !reflect.DeepEqual(gs, want) {
			t.Errorf("have %v, want %v", gs, want)
		}
	})

	t.Run("overlap", func(t *testing.T) {
		in := writeFile(t, dir, "overlap.json",
			`{"type": "MultiLineString", "coordinates": [[[0, 0], [4, 0]], [[2, 0], [6, 0]]]}`)
		out := filepath.Join(dir, "overlap_out.json")
		setCfg(map[string]interface{}{"input": in, "output": out, "fix": true})
		if _, err := execute(t, "crack"); err == nil {
			t.Error("expected an error for coincident edges")
		}
		gs, err := readGeoJSON(out)
		if err != nil {
			t.Fatal(err)
		}
		if len(gs) != 1 {
			t.Errorf("have %d features, want 1", len(gs))
		}
	})
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.json", bowTie)
	setCfg(map[string]interface{}{"input": in})
	cfg, err := loadConfig(Cfg)
	if err != nil {
		t.Fatal(err)
	}
	results, err := Check(cfg)
	if err == nil {
		t.Error("expected an error for the bow tie")
	}
	if len(results) != 1 {
		t.Fatalf("have %d results, want 1: %v", len(results), results)
	}
	r := results[0]
	if r.Feature != 0 || r.Point != (geom.Point{X: 1, Y: 1}) {
		t.Errorf("unexpected result %v", r)
	}

	out, err := execute(t, "check")
	if err == nil {
		t.Error("expected the check command to fail")
	}
	if !strings.Contains(out, "feature 0: ") {
		t.Errorf("unexpected output %q", out)
	}

	simple := writeFile(t, dir, "simple.json", testFeatures)
	setCfg(map[string]interface{}{"input": simple})
	if _, err := execute(t, "check"); err != nil {
		t.Error(err)
	}
}
