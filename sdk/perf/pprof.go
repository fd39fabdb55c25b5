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

// Package perf 以 pprof 包住一段工作，輸出 cpu / heap / allocs profile。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/mdir/errs"
)

// DefaultDir pprof 檔案寫入路徑
const DefaultDir = "build/profiling"

// RunPProf 依 mode 執行 exe：
//   - ""      只執行
//   - cpu     執行期間做 CPU profiling（也可拿來給 PGO 用）
//   - heap    執行後 GC 一次再拍 in-use 快照
//   - allocs  執行後寫出累積配置
//
// exe 的錯誤優先回傳；profile 寫入失敗回傳 Fatal。
func RunPProf(dir, mode string, exe func() error) error {
	switch mode {
	case "":
		return exe()
	case "cpu":
		return pprofCPU(dir, exe)
	case "heap":
		return afterExe(dir, "heap", exe)
	case "allocs":
		return afterExe(dir, "allocs", exe)
	default:
		return errs.Warnf("unknown pprof mode %q: want cpu|heap|allocs", mode)
	}
}

func create(dir, name string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Wrap(err, "create profiling dir")
	}
	f, err := os.Create(filepath.Join(dir, name+".pprof"))
	if err != nil {
		return nil, errs.WrapWithExtra(err, "create profile", name)
	}
	return f, nil
}

func pprofCPU(dir string, exe func() error) error {
	f, err := create(dir, "cpu")
	if err != nil {
		return err
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		return errs.Wrap(err, "start cpu profile")
	}
	defer pprof.StopCPUProfile()
	return exe()
}

func afterExe(dir, name string, exe func() error) error {
	if err := exe(); err != nil {
		return err
	}
	if name == "heap" {
		// 讓快照貼近最新的 live objects
		runtime.GC()
	}
	f, err := create(dir, name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := pprof.Lookup(name).WriteTo(f, 0); err != nil {
		return errs.WrapWithExtra(err, "write profile", name)
	}
	return nil
}
