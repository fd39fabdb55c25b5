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

package api

import (
	"log/slog"
	"net/http"

	v1 "github.com/zintix-labs/mdir/server/api/v1"
	"github.com/zintix-labs/mdir/server/netsvr"
	"github.com/zintix-labs/mdir/server/netsvr/middleware"
	"github.com/zintix-labs/mdir/server/svrcfg"
)

const indexText = `mdir: modified Dirichlet mode service

POST /v1/mode         {"dim":3,"alpha":[3,1,0.5],"epsilon":0.05,"point":[0.5,0.3,0.2]}
GET  /v1/dists        catalog entries
GET  /v1/dists/{name} mode report of a catalog entry
`

// RegisterRoutes 註冊 middleware 與所有路由。sCfg 需已通過 Valid()。
func RegisterRoutes(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) error {
	registerMiddleware(svr, sCfg.Log) // 1. 註冊 middleware
	registerIndex(svr)                // 2. 註冊主頁
	return registerV1API(svr, sCfg)   // 3. 註冊 v1 api
}

func registerMiddleware(svr netsvr.NetSvr, log *slog.Logger) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.Compression)
	svr.Use(middleware.Recover(log)) // 最內層：panic 的 500 也經過壓縮 writer
}

func registerIndex(svr netsvr.NetSvr) {
	svr.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(indexText))
	})
}

func registerV1API(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) error {
	m, err := v1.NewModeHandler(sCfg)
	if err != nil {
		return err
	}
	d, err := v1.NewDistsHandler(sCfg, svr.Param)
	if err != nil {
		return err
	}
	svr.Group("/v1", func(vOne netsvr.NetRouter) {
		vOne.Post("/mode", m.Mode)
		vOne.Get("/dists", d.List)
		vOne.Get("/dists/{name}", d.Get)
	})
	return nil
}
