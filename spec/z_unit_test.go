// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package spec_test

import (
	"math"
	"slices"
	"testing"
	"testing/fstest"

	"github.com/zintix-labs/mdir/demo/demo_configs"
	"github.com/zintix-labs/mdir/errs"
	"github.com/zintix-labs/mdir/spec"
)

const sample = `
dists:
  - name: a
    dim: 2
    alpha: [3, 1]
    epsilon: 0.1
  - name: b
    dim: 3
    epsilon: 0.2
`

func TestGetCatalogByYAML(t *testing.T) {
	cat, err := spec.GetCatalogByYAML([]byte(sample))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !slices.Equal(cat.Names(), []string{"a", "b"}) {
		t.Fatalf("names: %v", cat.Names())
	}
	ds, ok := cat.Get("a")
	if !ok {
		t.Fatalf("missing dist a")
	}
	d, err := ds.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if m := d.Mode(); math.Abs(m[0]-0.9) > 1e-12 || math.Abs(m[1]-0.1) > 1e-12 {
		t.Fatalf("unexpected mode %v", m)
	}

	// alpha 留空 => 係數全 0
	ds, _ = cat.Get("b")
	d, err = ds.Build()
	if err != nil {
		t.Fatalf("build b: %v", err)
	}
	if !slices.Equal(d.Coefficients(), []float64{0, 0, 0}) {
		t.Fatalf("empty alpha should mean zero coefficients: %v", d.Coefficients())
	}
}

func TestGetCatalogByJSON(t *testing.T) {
	raw := `{"dists":[{"name":"j","dim":2,"alpha":[2,2],"epsilon":0.5}]}`
	cat, err := spec.GetCatalogByJSON([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := cat.Get("j"); !ok {
		t.Fatalf("missing dist j")
	}
}

func TestCatalogRejects(t *testing.T) {
	cases := map[string]string{
		"unknown field": "dists:\n  - name: x\n    dim: 2\n    eps: 0.1\n",
		"empty":         "dists: []\n",
		"no name":       "dists:\n  - dim: 2\n",
		"duplicate":     "dists:\n  - name: x\n    dim: 1\n  - name: x\n    dim: 1\n",
		"bad dim":       "dists:\n  - name: x\n    dim: 0\n",
		"huge dim":      "dists:\n  - name: x\n    dim: 2000000000\n",
		"alpha length":  "dists:\n  - name: x\n    dim: 2\n    alpha: [1, 2, 3]\n",
		"point length":  "dists:\n  - name: x\n    dim: 2\n    point: [1]\n",
	}
	for name, raw := range cases {
		_, err := spec.GetCatalogByYAML([]byte(raw))
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if errs.LevelOf(err) != errs.Warn {
			t.Fatalf("%s: config errors should be Warn, got %v (%v)", name, errs.LevelOf(err), err)
		}
	}
}

func TestLoadCatalog(t *testing.T) {
	fsys := fstest.MapFS{
		"c.yml":  {Data: []byte(sample)},
		"c.json": {Data: []byte(`{"dists":[{"name":"j","dim":1}]}`)},
		"c.toml": {Data: []byte("x")},
	}
	if _, err := spec.LoadCatalog(fsys, "c.yml"); err != nil {
		t.Fatalf("yml: %v", err)
	}
	if _, err := spec.LoadCatalog(fsys, "c.json"); err != nil {
		t.Fatalf("json: %v", err)
	}
	if _, err := spec.LoadCatalog(fsys, "c.toml"); err == nil {
		t.Fatalf("toml should be rejected")
	}
	_, err := spec.LoadCatalog(fsys, "missing.yaml")
	if errs.LevelOf(err) != errs.Fatal {
		t.Fatalf("missing file should be Fatal, got %v", err)
	}
}

func TestDemoCatalog(t *testing.T) {
	cat, err := spec.LoadCatalog(demo_configs.FS, demo_configs.DefaultName)
	if err != nil {
		t.Fatalf("demo catalog: %v", err)
	}
	for _, name := range cat.Names() {
		ds, _ := cat.Get(name)
		if _, err := ds.Build(); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
}
