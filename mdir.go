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

// Package mdir 實作 Modified Dirichlet 分佈與其眾數（mode）求解演算法。
//
// Modified Dirichlet 是 Dirichlet 的延伸：形狀參數 alpha 可以 <= 0。
// 負的係數會把對應維度壓到平滑下限 epsilon，因此同時得到：
//  1. 稀疏（sparsity）：大部分質量集中在 c_i > 0 的維度。
//  2. 平滑（smoothing）：每個維度至少保有 epsilon。
//
// 它仍然與 multinomial 共軛（conjugate）。
//
// 典型用法：
//
//	d, _ := mdir.New(3, []float64{3, 1, 0.5}, 0.05)
//	mode := d.Mode()          // [0.9 0.05 0.05]
//	lp := d.LogProbAtMode()   // 未正規化的 log 密度
//
// 注意：MDir 是可變物件（內含快取），不做內部鎖；跨 goroutine 共用時請自行同步。
package mdir

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/zintix-labs/mdir/errs"
	"github.com/zintix-labs/mdir/server/logger"
)

// 警告的 Cause，可用 errors.Is 分辨警告種類。
var (
	ErrEpsilonClamped = errors.New("epsilon clamped")
	ErrMultipleModes  = errors.New("multiple modes")
)

// MDir 是 Modified Dirichlet 分佈。
//
// 內部保存 c_i = alpha_i - 1，而不是 alpha 本身。
type MDir struct {
	dim     int
	c       []float64 // c_i = alpha_i - 1
	epsilon float64

	mode     []float64 // 快取；nil 代表尚未計算或已失效
	floored  []bool    // 求眾數時的工作區：true 代表該維度已固定在 epsilon
	passes   int       // 最近一次求眾數所跑的重正規化輪數
	warnings []*errs.E

	log  *slog.Logger
	hook func(*errs.E)
}

// Option 調整 MDir 的診斷輸出方式。
type Option func(*MDir)

// WithLogger 注入 slog.Logger，警告會以 Warn 等級寫出。
func WithLogger(log *slog.Logger) Option {
	return func(d *MDir) {
		if log != nil {
			d.log = log
		}
	}
}

// WithWarnHook 注入警告回呼，每次出現可修正的異常（epsilon 被修正、多眾數）都會呼叫一次。
func WithWarnHook(fn func(*errs.E)) Option {
	return func(d *MDir) {
		d.hook = fn
	}
}

// New 建立 dim 維的 Modified Dirichlet。
//
//   - alpha 為 nil 時，所有係數 c_i 都是 0。
//   - epsilon 會被夾到 [0, 1/dim]，超出範圍只發警告，不回傳錯誤。
//   - dim <= 0 或 len(alpha) != dim 屬於呼叫端違約，直接回傳 Fatal 錯誤。
func New(dim int, alpha []float64, epsilon float64, opts ...Option) (*MDir, error) {
	if dim <= 0 {
		return nil, errs.Fatalf("mdir: dim must be positive, got %d", dim)
	}
	d := &MDir{
		dim:     dim,
		c:       make([]float64, dim),
		floored: make([]bool, dim),
		log:     logger.NewDefaultLogger(logger.ModeSilence),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.log = d.log.With(slog.String("component", "mdir"), slog.Int("dim", dim))

	if alpha != nil {
		if err := d.SetAlpha(alpha); err != nil {
			return nil, err
		}
	}

	maxEps := 1.0 / float64(dim)
	switch {
	case epsilon > maxEps:
		d.epsilon = maxEps
		d.warn(ErrEpsilonClamped, "epsilon is too large, reset to the max value", fmt.Sprintf("given %v", epsilon))
	case epsilon < 0:
		d.epsilon = 0
		d.warn(ErrEpsilonClamped, "epsilon is negative, reset to 0", fmt.Sprintf("given %v", epsilon))
	default:
		d.epsilon = epsilon
	}
	return d, nil
}

// SetAlpha 以新的形狀參數取代所有係數，並讓快取的眾數失效。
//
// 長度不符時回傳 Fatal 錯誤，原本的係數與快取保持不變。
func (d *MDir) SetAlpha(alpha []float64) error {
	if len(alpha) != d.dim {
		return errs.Fatalf("mdir: alpha has %d entries, want %d", len(alpha), d.dim)
	}
	for i := range d.dim {
		d.c[i] = alpha[i] - 1
	}
	d.mode = nil
	return nil
}

// Mode 回傳眾數（機率單純形上的點）。
//
// 結果會被快取，直到下一次 SetAlpha；回傳的 slice 即為快取本身，呼叫端不應修改。
func (d *MDir) Mode() []float64 {
	if d.mode != nil {
		return d.mode
	}

	mode := make([]float64, d.dim)
	fl := d.floored
	sum := 0.0
	nEps := 0
	for i, ci := range d.c {
		if ci > 0 {
			mode[i] = ci
			fl[i] = false
			sum += ci
		} else {
			fl[i] = true
			nEps++
		}
	}

	// 所有 c_i <= 0：沒有任何維度有正質量
	if nEps == d.dim {
		d.passes = 0
		d.mode = d.degenerateMode(mode)
		return d.mode
	}

	// 重正規化：每輪把未固定維度等比例放大，低於 epsilon 的維度固定下來，直到不再有新的維度被固定。
	// nEps 單調遞增且上限為 dim，因此最多 dim 輪。
	passes := 0
	for done := false; !done; {
		passes++
		x := (1 - d.epsilon*float64(nEps)) / sum
		sum = 0
		done = true
		for i := range mode {
			if fl[i] {
				continue
			}
			mode[i] *= x
			if mode[i] < d.epsilon {
				fl[i] = true
				nEps++
				done = false
			} else {
				sum += mode[i]
			}
		}
		// epsilon == 1/dim 時捨入誤差可能把所有維度都固定下來
		if nEps == d.dim {
			break
		}
	}

	for i := range mode {
		if fl[i] {
			mode[i] = d.epsilon
		}
	}
	d.passes = passes
	d.mode = mode
	return d.mode
}

// degenerateMode 處理所有 c_i <= 0 的情況：
// 最大 c_i 的第一個維度拿走剩餘質量，其餘皆為 epsilon。
func (d *MDir) degenerateMode(mode []float64) []float64 {
	iMax := 0
	maxC := d.c[0]
	mode[0] = d.epsilon
	multi := false
	for i := 1; i < d.dim; i++ {
		if d.c[i] > maxC {
			maxC = d.c[i]
			iMax = i
			multi = false
		} else if d.c[i] == maxC {
			multi = true
		}
		mode[i] = d.epsilon
	}
	mode[iMax] = 1 - d.epsilon*float64(d.dim-1)

	if multi {
		d.warn(ErrMultipleModes, "multiple modes, returning one of them",
			fmt.Sprintf("picked index %d (c=%v)", iMax, maxC))
	}
	return mode
}

// LogProbAtMode 回傳眾數處的未正規化 log 機率密度 Σ c_i·log(mode_i)。
//
// epsilon == 0 且某個 mode_i == 0 時，結果可能為 -Inf（不做防護）。
func (d *MDir) LogProbAtMode() float64 {
	mode := d.Mode()
	lp := 0.0
	for i, ci := range d.c {
		lp += ci * math.Log(mode[i])
	}
	return lp
}

// LogProb 回傳任意點的未正規化 log 機率密度 Σ c_i·log(point_i)。
//
// 不檢查 point 是否在單純形上。c_i == 0 且 point_i == 0 的項視為 0（0·log0 = 0），
// 其餘的 0 點照常傳遞 ±Inf。
func (d *MDir) LogProb(point []float64) (float64, error) {
	if len(point) != d.dim {
		return 0, errs.Fatalf("mdir: point has %d entries, want %d", len(point), d.dim)
	}
	lp := 0.0
	for i, ci := range d.c {
		if ci != 0 || point[i] != 0 {
			lp += ci * math.Log(point[i])
		}
	}
	return lp, nil
}

// ============================================================
// ** 存取方法 **
// ============================================================

// Dim 回傳維度數
func (d *MDir) Dim() int { return d.dim }

// Epsilon 回傳（夾值後的）平滑下限
func (d *MDir) Epsilon() float64 { return d.epsilon }

// Coefficients 回傳 c 的副本
func (d *MDir) Coefficients() []float64 {
	out := make([]float64, d.dim)
	copy(out, d.c)
	return out
}

// Alpha 回傳 alpha 的副本（c_i + 1）
func (d *MDir) Alpha() []float64 {
	out := make([]float64, d.dim)
	for i, ci := range d.c {
		out[i] = ci + 1
	}
	return out
}

// Passes 回傳最近一次計算眾數時的重正規化輪數，退化分支為 0。
func (d *MDir) Passes() int {
	d.Mode()
	return d.passes
}

// Support 回傳眾數高於 epsilon 的維度索引（稀疏支撐集）。
func (d *MDir) Support() []int {
	mode := d.Mode()
	out := make([]int, 0, d.dim)
	for i, v := range mode {
		if v > d.epsilon {
			out = append(out, i)
		}
	}
	return out
}

// Warnings 回傳到目前為止累積的所有警告。
func (d *MDir) Warnings() []*errs.E {
	return d.warnings
}

func (d *MDir) warn(cause error, msg, extra string) {
	e := errs.NewWithExtra(errs.Warn, msg, extra)
	e.Cause = cause
	d.warnings = append(d.warnings, e)
	d.log.Warn(e.Message, slog.Float64("epsilon", d.epsilon), slog.String("extra", e.Extra))
	if d.hook != nil {
		d.hook(e)
	}
}
