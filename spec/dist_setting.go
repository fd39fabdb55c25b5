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

package spec

import (
	"github.com/zintix-labs/mdir"
	"github.com/zintix-labs/mdir/errs"
)

// MaxDim 是設定（含 HTTP 請求）允許的最大維度；MDir 會配置數個 dim 長度的 slice。
const MaxDim = 1 << 16

// DistSetting 描述一個 Modified Dirichlet 分佈（以及可選的評估點）。
//
// Alpha 留空代表所有係數為 0（等同 alpha 全為 1）。
// Epsilon 不在這裡檢查範圍：夾值是 mdir 核心的行為，只會發警告。
type DistSetting struct {
	Name    string    `yaml:"name"              json:"name"`
	Dim     int       `yaml:"dim"               json:"dim"`
	Alpha   []float64 `yaml:"alpha,omitempty"   json:"alpha,omitempty"`
	Epsilon float64   `yaml:"epsilon"           json:"epsilon"`
	Point   []float64 `yaml:"point,omitempty"   json:"point,omitempty"`
}

// Build 依設定建立 MDir。
func (ds *DistSetting) Build(opts ...mdir.Option) (*mdir.MDir, error) {
	if err := ds.valid(); err != nil {
		return nil, err
	}
	var alpha []float64
	if len(ds.Alpha) > 0 {
		alpha = ds.Alpha
	}
	d, err := mdir.New(ds.Dim, alpha, ds.Epsilon, opts...)
	if err != nil {
		return nil, errs.WrapWithExtra(err, "build dist failed", ds.Name)
	}
	return d, nil
}

// valid 檢查維度與向量長度。設定檔錯誤屬於輸入問題，一律回傳 Warn。
func (ds *DistSetting) valid() error {
	if ds.Dim <= 0 {
		return errs.Warnf("dist %q: dim must be positive, got %d", ds.Name, ds.Dim)
	}
	if ds.Dim > MaxDim {
		return errs.Warnf("dist %q: dim %d exceeds max %d", ds.Name, ds.Dim, MaxDim)
	}
	if n := len(ds.Alpha); n != 0 && n != ds.Dim {
		return errs.Warnf("dist %q: alpha has %d entries, want %d", ds.Name, n, ds.Dim)
	}
	if n := len(ds.Point); n != 0 && n != ds.Dim {
		return errs.Warnf("dist %q: point has %d entries, want %d", ds.Name, n, ds.Dim)
	}
	return nil
}
