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

// Package stats 把 MDir 的計算結果整理成報表（JSON / YAML / 終端表格）。
package stats

import (
	"io"

	"github.com/zintix-labs/mdir"
	"github.com/zintix-labs/mdir/errs"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distmv"
)

// ModeReport 單一分佈的眾數報表
type ModeReport struct {
	Name          string    `json:"Name"          yaml:"Name"`
	Dim           int       `json:"Dim"           yaml:"Dim"`
	Epsilon       float64   `json:"Epsilon"       yaml:"Epsilon"`
	Alpha         []float64 `json:"Alpha"         yaml:"Alpha"`
	Coefficients  []float64 `json:"Coefficients"  yaml:"Coefficients"`
	Mode          []float64 `json:"Mode"          yaml:"Mode"`
	Support       []int     `json:"Support"       yaml:"Support"`       // 高於 epsilon 的維度
	Sparsity      float64   `json:"Sparsity"      yaml:"Sparsity"`      // 停在 epsilon 的維度比例
	Passes        int       `json:"Passes"        yaml:"Passes"`        // 重正規化輪數
	LogProbAtMode float64   `json:"LogProbAtMode" yaml:"LogProbAtMode"` // 未正規化
	Entropy       float64   `json:"Entropy"       yaml:"Entropy"`       // 眾數的 Shannon entropy (nats)

	Point   []float64 `json:"Point,omitempty"   yaml:"Point,omitempty"`
	LogProb *float64  `json:"LogProb,omitempty" yaml:"LogProb,omitempty"`

	// DirichletLogProb 只在經典區間（所有 alpha > 0 且眾數沒有 0）才有值：
	// 正規化後的 Dirichlet log 密度。
	DirichletLogProb *float64 `json:"DirichletLogProb,omitempty" yaml:"DirichletLogProb,omitempty"`

	Warnings []string `json:"Warnings,omitempty" yaml:"Warnings,omitempty"`
}

// NewModeReport 計算並整理 d 的眾數報表。point 可為 nil；長度不符時回傳錯誤。
//
// JSON 無法表示 ±Inf / NaN，因此非有限值的 log 機率會以 0 取代並記在 Warnings。
func NewModeReport(name string, d *mdir.MDir, point []float64) (*ModeReport, error) {
	if d == nil {
		return nil, errs.NewFatal("nil dist")
	}
	mode := d.Mode()
	support := d.Support()
	r := &ModeReport{
		Name:          name,
		Dim:           d.Dim(),
		Epsilon:       d.Epsilon(),
		Alpha:         d.Alpha(),
		Coefficients:  d.Coefficients(),
		Mode:          append([]float64(nil), mode...),
		Support:       support,
		Sparsity:      1 - float64(len(support))/float64(d.Dim()),
		Passes:        d.Passes(),
		LogProbAtMode: d.LogProbAtMode(),
		Entropy:       stat.Entropy(mode),
	}
	if point != nil {
		lp, err := d.LogProb(point)
		if err != nil {
			return nil, err
		}
		r.Point = append([]float64(nil), point...)
		r.LogProb = &lp
	}
	if lp, ok := dirichletLogProb(r.Alpha, mode); ok {
		r.DirichletLogProb = &lp
	}
	for _, w := range d.Warnings() {
		r.Warnings = append(r.Warnings, w.Message)
	}
	r.sanitize()
	return r, nil
}

// WriteWith 以指定 render 輸出
func (r *ModeReport) WriteWith(w io.Writer, rep ReportRender) error {
	return rep.Write(w, r)
}

// dirichletLogProb 以 gonum 的 Dirichlet 計算正規化 log 密度。
func dirichletLogProb(alpha, x []float64) (float64, bool) {
	for i := range alpha {
		if alpha[i] <= 0 || x[i] <= 0 {
			return 0, false
		}
	}
	return distmv.NewDirichlet(alpha, nil).LogProb(x), true
}

func (r *ModeReport) sanitize() {
	if !finite(r.LogProbAtMode) {
		r.Warnings = append(r.Warnings, "non-finite LogProbAtMode: "+fmtFloat(r.LogProbAtMode))
		r.LogProbAtMode = 0
	}
	if r.LogProb != nil && !finite(*r.LogProb) {
		r.Warnings = append(r.Warnings, "non-finite LogProb: "+fmtFloat(*r.LogProb))
		r.LogProb = nil
	}
}
