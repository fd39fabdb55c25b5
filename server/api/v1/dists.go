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
	"log/slog"
	"net/http"

	"github.com/zintix-labs/mdir/errs"
	"github.com/zintix-labs/mdir/server/httperr"
	"github.com/zintix-labs/mdir/server/svrcfg"
	"github.com/zintix-labs/mdir/spec"
)

// DistsHandler 提供設定目錄的查詢
type DistsHandler struct {
	catalog *spec.Catalog
	log     *slog.Logger
	param   func(r *http.Request, key string) string
}

// DistEntry /v1/dists 清單中的一筆
type DistEntry struct {
	Name    string  `json:"name"`
	Dim     int     `json:"dim"`
	Epsilon float64 `json:"epsilon"`
}

// NewDistsHandler param 用來讀取路徑參數，由路由層提供。
func NewDistsHandler(sCfg *svrcfg.SvrCfg, param func(r *http.Request, key string) string) (*DistsHandler, error) {
	if sCfg == nil || sCfg.Log == nil || sCfg.Catalog == nil {
		return nil, errs.NewFatal("dists handler: logger and catalog are required")
	}
	if param == nil {
		return nil, errs.NewFatal("dists handler: path param reader is required")
	}
	return &DistsHandler{catalog: sCfg.Catalog, log: sCfg.Log, param: param}, nil
}

// List GET /v1/dists
func (h *DistsHandler) List(w http.ResponseWriter, r *http.Request) {
	out := make([]DistEntry, 0, len(h.catalog.Dists))
	for _, ds := range h.catalog.Dists {
		out = append(out, DistEntry{Name: ds.Name, Dim: ds.Dim, Epsilon: ds.Epsilon})
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		httperr.Log(h.log, "write dists failed", err)
	}
}

// Get GET /v1/dists/{name}，回傳該設定的 ModeReport；未知名稱回 404。
func (h *DistsHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := h.param(r, "name")
	ds, ok := h.catalog.Get(name)
	if !ok {
		httperr.Write(w, http.StatusNotFound, errs.Warnf("dist not found: %s", name))
		return
	}
	writeReport(w, r, h.log, ds)
}
