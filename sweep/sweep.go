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

// Package sweep 以隨機參數大量驗證 MDir 的不變式。
//
// 每個 worker 持有自己的 core.Core（由 base seed 派生），案例分配方式固定：
// 第 i 個 worker 處理 i, i+Workers, i+2*Workers ...，所以同一組 Config 的結果可重現。
// 每個案例開始前都會保存 PRNG 快照，違規案例可以靠 Snapshot 回放。
package sweep

import (
	"cmp"
	"encoding/json"
	"errors"
	"io"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/zintix-labs/mdir"
	"github.com/zintix-labs/mdir/errs"
	"github.com/zintix-labs/mdir/sdk/core"
	"gonum.org/v1/gonum/floats"
)

// Tolerance 是單純形總和的容忍誤差
const Tolerance = 1e-9

// Config sweep 參數
type Config struct {
	Workers      int     // 併發 worker 數
	Cases        int     // 總案例數
	MaxDim       int     // 維度取 [1, MaxDim]
	AlphaLo      float64 // alpha 取 [AlphaLo, AlphaHi)
	AlphaHi      float64
	MaxEpsilon   float64 // epsilon 取 [0, MaxEpsilon)；可以超過 1/dim，用來觸發夾值
	Seed         int64
	ShowProgress bool
}

// DefaultConfig 回傳一組涵蓋負參數與夾值的預設設定
func DefaultConfig() Config {
	return Config{
		Workers:    1,
		Cases:      100_000,
		MaxDim:     16,
		AlphaLo:    -3,
		AlphaHi:    5,
		MaxEpsilon: 0.2,
		Seed:       1,
	}
}

func (c *Config) valid() error {
	switch {
	case c.Workers < 1:
		return errs.Warnf("workers must > 0, got %d", c.Workers)
	case c.Cases < 1:
		return errs.Warnf("cases must > 0, got %d", c.Cases)
	case c.MaxDim < 1:
		return errs.Warnf("maxdim must > 0, got %d", c.MaxDim)
	case !(c.AlphaHi > c.AlphaLo):
		return errs.Warnf("alpha range [%v, %v) is empty", c.AlphaLo, c.AlphaHi)
	case c.MaxEpsilon < 0:
		return errs.Warnf("maxeps must >= 0, got %v", c.MaxEpsilon)
	}
	return nil
}

// Violation 一筆違反不變式的案例
type Violation struct {
	Case    int       `json:"case"`
	Seed    []byte    `json:"seed"` // 案例開始前的 PRNG 快照
	Dim     int       `json:"dim"`
	Alpha   []float64 `json:"alpha"`
	Epsilon float64   `json:"epsilon"`
	Mode    []float64 `json:"mode"`
	Reason  string    `json:"reason"`
}

// Report sweep 結果
type Report struct {
	RunID      uuid.UUID     `json:"run_id"`
	Config     Config        `json:"config"`
	Cases      int           `json:"cases"`
	Degenerate int           `json:"degenerate"` // 所有 c_i <= 0 的案例
	Ties       int           `json:"ties"`       // 多眾數警告
	Clamped    int           `json:"clamped"`    // epsilon 被夾值
	MaxPasses  int           `json:"max_passes"`
	Violations []Violation   `json:"violations"`
	Elapsed    time.Duration `json:"elapsed"`
}

// OK 沒有任何違規
func (r *Report) OK() bool { return len(r.Violations) == 0 }

// WriteZstd 以 zstd 壓縮寫出 JSON 報表
func (r *Report) WriteZstd(w io.Writer) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return errs.Wrap(err, "zstd writer")
	}
	if err := json.NewEncoder(zw).Encode(r); err != nil {
		zw.Close()
		return errs.Wrap(err, "encode report")
	}
	if err := zw.Close(); err != nil {
		return errs.Wrap(err, "zstd close")
	}
	return nil
}

// ReadZstd 讀回 WriteZstd 的輸出
func ReadZstd(rd io.Reader) (*Report, error) {
	zr, err := zstd.NewReader(rd)
	if err != nil {
		return nil, errs.Wrap(err, "zstd reader")
	}
	defer zr.Close()
	r := &Report{}
	if err := json.NewDecoder(zr).Decode(r); err != nil {
		return nil, errs.Wrap(err, "decode report")
	}
	return r, nil
}

// tally 每個 worker 的局部統計，最後合併，避免熱路徑上鎖
type tally struct {
	degenerate int
	ties       int
	clamped    int
	maxPasses  int
	violations []Violation
}

// Run 執行 sweep
func Run(cfg Config) (*Report, error) {
	if err := cfg.valid(); err != nil {
		return nil, err
	}
	rep := &Report{RunID: uuid.New(), Config: cfg, Cases: cfg.Cases}

	seeds := core.NewSeedMaker(cfg.Seed)
	cores := make([]*core.Core, cfg.Workers)
	for i := range cores {
		cores[i] = core.NewDefault(seeds.Next())
	}
	tallies := make([]tally, cfg.Workers)

	bar := pb.StartNew(cfg.Cases)
	if !cfg.ShowProgress {
		bar.SetWriter(io.Discard)
	}
	wg := new(sync.WaitGroup)
	wg.Add(cfg.Workers)
	for w := 0; w < cfg.Workers; w++ {
		go func(w int) {
			defer wg.Done()
			for n := w; n < cfg.Cases; n += cfg.Workers {
				checkCase(&cfg, n, cores[w], &tallies[w])
				bar.Increment()
			}
		}(w)
	}
	wg.Wait()
	rep.Elapsed = time.Since(bar.StartTime())
	bar.Finish()

	merge(rep, tallies)
	return rep, nil
}

// merge 彙總各 worker 的計數；違規依案例編號排序，與 worker 數無關。
func merge(rep *Report, tallies []tally) {
	for _, t := range tallies {
		rep.Degenerate += t.degenerate
		rep.Ties += t.ties
		rep.Clamped += t.clamped
		rep.MaxPasses = max(rep.MaxPasses, t.maxPasses)
		rep.Violations = append(rep.Violations, t.violations...)
	}
	slices.SortFunc(rep.Violations, func(a, b Violation) int {
		return cmp.Compare(a.Case, b.Case)
	})
}

// Replay 以違規紀錄的 PRNG 快照重建同一個案例
func Replay(cfg Config, v Violation) (*mdir.MDir, error) {
	c := core.NewDefault(0)
	if err := c.Restore(v.Seed); err != nil {
		return nil, errs.Wrap(err, "restore snapshot")
	}
	dim, alpha, eps := draw(&cfg, c)
	return mdir.New(dim, alpha, eps)
}

func draw(cfg *Config, c *core.Core) (int, []float64, float64) {
	dim := c.IntRange(1, cfg.MaxDim)
	alpha := make([]float64, dim)
	c.Fill(alpha, cfg.AlphaLo, cfg.AlphaHi)
	eps := c.Uniform(0, cfg.MaxEpsilon)
	return dim, alpha, eps
}

func checkCase(cfg *Config, n int, c *core.Core, t *tally) {
	snap, _ := c.Snapshot()
	dim, alpha, eps := draw(cfg, c)

	var ties, clamps int
	d, err := mdir.New(dim, alpha, eps, mdir.WithWarnHook(func(e *errs.E) {
		switch {
		case errors.Is(e, mdir.ErrMultipleModes):
			ties++
		case errors.Is(e, mdir.ErrEpsilonClamped):
			clamps++
		}
	}))
	fail := func(mode []float64, reason string) {
		t.violations = append(t.violations, Violation{
			Case: n, Seed: snap, Dim: dim, Alpha: alpha, Epsilon: eps, Mode: mode, Reason: reason,
		})
	}
	if err != nil {
		fail(nil, err.Error())
		return
	}

	mode := d.Mode()
	t.clamped += clamps
	t.ties += ties
	passes := d.Passes()
	t.maxPasses = max(t.maxPasses, passes)

	coef := d.Coefficients()
	degenerate := floats.Max(coef) <= 0
	if degenerate {
		t.degenerate++
	}

	e := d.Epsilon()
	switch {
	case len(mode) != dim:
		fail(mode, "mode length mismatch")
	case math.Abs(floats.Sum(mode)-1) > Tolerance:
		fail(mode, "mode does not sum to 1")
	case floats.Min(mode) < e-Tolerance:
		fail(mode, "mode entry below epsilon")
	case passes > dim:
		fail(mode, "renormalization exceeded dim passes")
	case !degenerate && !flooredWhereNonPositive(coef, mode, e):
		fail(mode, "non-positive coefficient not at the floor")
	case &d.Mode()[0] != &mode[0]:
		fail(mode, "mode cache not reused")
	default:
		if floats.Min(mode) > 0 {
			lp, _ := d.LogProb(mode)
			if at := d.LogProbAtMode(); math.Abs(lp-at) > Tolerance*max(1, math.Abs(at)) {
				fail(mode, "LogProb(mode) != LogProbAtMode")
			}
		}
	}
}

func flooredWhereNonPositive(coef, mode []float64, eps float64) bool {
	for i, ci := range coef {
		if ci <= 0 && mode[i] != eps {
			return false
		}
	}
	return true
}
