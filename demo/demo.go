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

package demo

import (
	"os"
	"path/filepath"

	"github.com/zintix-labs/mdir/demo/demo_configs"
	"github.com/zintix-labs/mdir/errs"
	"github.com/zintix-labs/mdir/server/logger"
	"github.com/zintix-labs/mdir/server/svrcfg"
	"github.com/zintix-labs/mdir/spec"
)

// New 載入內建的範例分佈目錄
func New() (*spec.Catalog, error) {
	return spec.LoadCatalog(demo_configs.FS, demo_configs.DefaultName)
}

// LoadCatalog path 為空時使用內建目錄，否則讀取該檔案。
func LoadCatalog(path string) (*spec.Catalog, error) {
	if path == "" {
		return New()
	}
	return spec.LoadCatalog(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// NewServerConfig 以範例目錄與 async logger 組出 SvrCfg。
func NewServerConfig(mode logger.LogMode) (*svrcfg.SvrCfg, error) {
	cat, err := New()
	if err != nil {
		return nil, errs.Wrap(err, "load demo catalog")
	}
	log, _ := logger.NewAsync(4096, mode)
	return &svrcfg.SvrCfg{Log: log, Catalog: cat}, nil
}
