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

// Package server 組裝 HTTP 服務：驗證設定、建立 server、註冊路由、交給 app 管理生命週期。
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/mdir/errs"
	"github.com/zintix-labs/mdir/server/api"
	"github.com/zintix-labs/mdir/server/app"
	"github.com/zintix-labs/mdir/server/netsvr"
	"github.com/zintix-labs/mdir/server/svrcfg"
)

// Run 以內建的 ChiAdapter 啟動服務並阻塞，直到收到 SIGINT/SIGTERM 或 server 出錯。
func Run(sCfg *svrcfg.SvrCfg) error {
	return RunContext(context.Background(), sCfg)
}

// RunContext 同 Run，另外在 ctx 取消時優雅關閉。
func RunContext(ctx context.Context, sCfg *svrcfg.SvrCfg) error {
	if err := sCfg.Valid(); err != nil {
		return err
	}
	return RunWithSvr(ctx, sCfg, netsvr.NewChiServer(sCfg.Addr))
}

// RunWithSvr 允許注入自訂的 NetSvr（自己的 router、listener 或 TLS 設定）。
// 這一層只負責註冊路由與啟動 app，不接管其他組裝。
func RunWithSvr(ctx context.Context, sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) error {
	if err := sCfg.Valid(); err != nil {
		return err
	}
	if svr == nil {
		return errs.NewFatal("svr is required")
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
		return errs.NewFatal("default server is not ready")
	}
	if err := api.RegisterRoutes(svr, sCfg); err != nil {
		return errs.Wrap(err, "register routes")
	}

	sCfg.Log.Info("[mdir] listening", slog.String("addr", sCfg.Addr), slog.Int("dists", len(sCfg.Catalog.Dists)))
	err := app.NewWith(svr).RunContext(ctx)
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	if err != nil {
		sCfg.Log.Error("app stopped", slog.Any("err", err))
	}
	return err
}
