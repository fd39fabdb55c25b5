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

package v1

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/mdir"
	"github.com/zintix-labs/mdir/errs"
	"github.com/zintix-labs/mdir/server/httperr"
	"github.com/zintix-labs/mdir/server/svrcfg"
	"github.com/zintix-labs/mdir/spec"
	"github.com/zintix-labs/mdir/stats"
)

// MaxBodyBytes 請求 body 上限
const MaxBodyBytes = 1 << 20

// ModeHandler 每個請求各自建一個 MDir，不共用狀態。
type ModeHandler struct {
	log *slog.Logger
}

func NewModeHandler(sCfg *svrcfg.SvrCfg) (*ModeHandler, error) {
	if sCfg == nil || sCfg.Log == nil {
		return nil, errs.NewFatal("mode handler: logger is required")
	}
	return &ModeHandler{log: sCfg.Log}, nil
}

// Mode POST /v1/mode，body 為 {dim, alpha, epsilon, point?}，回傳 ModeReport。
func (h *ModeHandler) Mode(w http.ResponseWriter, r *http.Request) {
	// 內部結構 不影響外部 也不被外部使用
	type modeRequestBody struct {
		Dim     int       `json:"dim"`
		Alpha   []float64 `json:"alpha"`
		Epsilon float64   `json:"epsilon"`
		Point   []float64 `json:"point,omitempty"`
	}
	req := new(modeRequestBody)
	if err := decodeStrict(w, r, req); err != nil {
		httperr.Errs(w, err)
		return
	}
	ds := &spec.DistSetting{Name: "request", Dim: req.Dim, Alpha: req.Alpha, Epsilon: req.Epsilon, Point: req.Point}
	writeReport(w, r, h.log, ds)
}

// decodeStrict 限制 body 大小、拒絕未知欄位與多餘內容。解碼錯誤都屬於輸入問題（Warn）。
func decodeStrict(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errs.Warnf("request body exceeds %d bytes", MaxBodyBytes)
		}
		return errs.Wrap(errs.NewWarn(err.Error()), "invalid json")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errs.NewWarn("invalid json: trailing data after object")
	}
	return nil
}

// writeReport 建立 MDir、計算報表並以 JSON 回傳。核心的修正警告會寫進請求的 logger。
func writeReport(w http.ResponseWriter, r *http.Request, log *slog.Logger, ds *spec.DistSetting) {
	if err := r.Context().Err(); err != nil {
		httperr.Errs(w, err)
		return
	}
	d, err := ds.Build(mdir.WithLogger(log))
	if err != nil {
		httperr.Log(log, "build dist failed", err)
		httperr.Errs(w, err)
		return
	}
	rep, err := stats.NewModeReport(ds.Name, d, ds.Point)
	if err != nil {
		httperr.Log(log, "mode report failed", err)
		httperr.Errs(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := rep.WriteWith(w, stats.JsonReportRender{}); err != nil {
		httperr.Log(log, "write report failed", err)
	}
}
