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

package svrcfg

import (
	"log/slog"
	"strings"

	"github.com/zintix-labs/mdir/errs"
	"github.com/zintix-labs/mdir/server/logger"
	"github.com/zintix-labs/mdir/spec"
)

// DefaultAddr 預設監聽位址
const DefaultAddr = ":5808"

type SvrCfg struct {
	Log     *slog.Logger
	Catalog *spec.Catalog // 可為 nil：/v1/dists 會回傳空清單
	Addr    string
}

// Valid 補上預設值並檢查依賴。
//   - Log 為 nil 時給一個安靜的 async logger。
//   - Addr 為空時使用 DefaultAddr。
func (sc *SvrCfg) Valid() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		sc.Log, _ = logger.NewAsync(1024, logger.ModeSilence)
	}

	if sc.Addr == "" {
		sc.Addr = DefaultAddr
	}
	if !strings.Contains(sc.Addr, ":") {
		return errs.Warnf("invalid listen address %q", sc.Addr)
	}
	if sc.Catalog == nil {
		sc.Catalog = &spec.Catalog{}
	}
	return nil
}
