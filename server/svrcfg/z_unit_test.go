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
	"testing"

	"github.com/zintix-labs/mdir/errs"
	"github.com/zintix-labs/mdir/server/logger"
)

func TestValidDefaults(t *testing.T) {
	sc := &SvrCfg{}
	if err := sc.Valid(); err != nil {
		t.Fatalf("valid: %v", err)
	}
	if sc.Log == nil || sc.Catalog == nil || sc.Addr != DefaultAddr {
		t.Fatalf("defaults not applied: %+v", sc)
	}
}

func TestValidRejects(t *testing.T) {
	sc := &SvrCfg{Addr: "localhost"}
	if err := sc.Valid(); errs.LevelOf(err) != errs.Warn {
		t.Fatalf("address without port should be Warn, got %v", err)
	}

	sc = &SvrCfg{Log: slog.New(&logger.AsyncHandler{})}
	if err := sc.Valid(); errs.LevelOf(err) != errs.Fatal {
		t.Fatalf("unready async handler should be Fatal, got %v", err)
	}
}
