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

package sweep

import (
	"bytes"
	"slices"
	"testing"

	"github.com/zintix-labs/mdir/errs"
	"github.com/zintix-labs/mdir/sdk/core"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Cases = 4000
	cfg.Workers = 4
	cfg.MaxDim = 10
	cfg.Seed = 20251019
	return cfg
}

func TestRunNoViolations(t *testing.T) {
	rep, err := Run(smallConfig())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !rep.OK() {
		t.Fatalf("unexpected violations: %+v", rep.Violations[0])
	}
	if rep.Cases != 4000 {
		t.Fatalf("cases = %d", rep.Cases)
	}
	if rep.MaxPasses < 1 || rep.MaxPasses > 10 {
		t.Fatalf("max passes %d out of [1, maxdim]", rep.MaxPasses)
	}
	// alpha 取 [-3,5)、epsilon 取 [0,0.2)：退化案例與夾值案例都應該出現
	if rep.Degenerate == 0 || rep.Clamped == 0 {
		t.Fatalf("sweep did not reach degenerate/clamp branches: %+v", rep)
	}
}

func TestRunDeterministic(t *testing.T) {
	r1, err := Run(smallConfig())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	r2, err := Run(smallConfig())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if r1.Degenerate != r2.Degenerate || r1.Ties != r2.Ties || r1.Clamped != r2.Clamped || r1.MaxPasses != r2.MaxPasses {
		t.Fatalf("same config should give same counts: %+v vs %+v", r1, r2)
	}
	if r1.RunID == r2.RunID {
		t.Fatalf("run ids should differ")
	}
}

func TestAlwaysDegenerate(t *testing.T) {
	// alpha 取 [-1,1)：所有 c_i < 0，必定走退化分支
	cfg := smallConfig()
	cfg.AlphaLo, cfg.AlphaHi = -1, 1
	cfg.MaxEpsilon = 0
	rep, err := Run(cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.Degenerate != rep.Cases {
		t.Fatalf("alpha < 1 everywhere should always be degenerate: %d/%d", rep.Degenerate, rep.Cases)
	}
	if !rep.OK() {
		t.Fatalf("violations: %+v", rep.Violations[0])
	}
}

func TestInvalidConfig(t *testing.T) {
	bad := []func(*Config){
		func(c *Config) { c.Workers = 0 },
		func(c *Config) { c.Cases = 0 },
		func(c *Config) { c.MaxDim = 0 },
		func(c *Config) { c.AlphaHi = c.AlphaLo },
		func(c *Config) { c.MaxEpsilon = -1 },
	}
	for i, mut := range bad {
		cfg := DefaultConfig()
		mut(&cfg)
		_, err := Run(cfg)
		if errs.LevelOf(err) != errs.Warn {
			t.Fatalf("case %d: expected Warn error, got %v", i, err)
		}
	}
}

func TestReplay(t *testing.T) {
	cfg := smallConfig()
	c := core.NewDefault(5)
	c.Uint64()
	snap, _ := c.Snapshot()
	dim, alpha, eps := draw(&cfg, c)

	d, err := Replay(cfg, Violation{Seed: snap})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if d.Dim() != dim {
		t.Fatalf("replayed dim %d, want %d", d.Dim(), dim)
	}
	if d.Epsilon() != min(eps, 1/float64(dim)) {
		t.Fatalf("replayed epsilon %v, want %v", d.Epsilon(), eps)
	}
	got := d.Alpha()
	for i := range alpha {
		if diff := got[i] - alpha[i]; diff > 1e-12 || diff < -1e-12 {
			t.Fatalf("replayed alpha %v, want %v", got, alpha)
		}
	}
}

func TestZstdRoundTrip(t *testing.T) {
	cfg := smallConfig()
	cfg.Cases = 50
	rep, err := Run(cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	rep.Violations = append(rep.Violations, Violation{Case: 3, Alpha: []float64{1, 2}, Reason: "synthetic"})

	var buf bytes.Buffer
	if err := rep.WriteZstd(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	back, err := ReadZstd(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if back.RunID != rep.RunID || back.Cases != 50 {
		t.Fatalf("header mismatch: %+v", back)
	}
	if len(back.Violations) != 1 || !slices.Equal(back.Violations[0].Alpha, []float64{1, 2}) {
		t.Fatalf("violations mismatch: %+v", back.Violations)
	}
}

func TestMergeOrdersViolations(t *testing.T) {
	tallies := []tally{
		{degenerate: 1, maxPasses: 2, violations: []Violation{{Case: 4}, {Case: 8}}},
		{ties: 3, maxPasses: 5, violations: []Violation{{Case: 1}, {Case: 5}}},
		{clamped: 2, violations: []Violation{{Case: 2}}},
	}
	rep := &Report{}
	merge(rep, tallies)

	got := make([]int, 0, len(rep.Violations))
	for _, v := range rep.Violations {
		got = append(got, v.Case)
	}
	if want := []int{1, 2, 4, 5, 8}; !slices.Equal(got, want) {
		t.Fatalf("violation cases %v, want %v", got, want)
	}
	if rep.Degenerate != 1 || rep.Ties != 3 || rep.Clamped != 2 || rep.MaxPasses != 5 {
		t.Fatalf("bad totals %+v", rep)
	}
}
