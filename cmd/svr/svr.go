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

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/zintix-labs/mdir/demo"
	"github.com/zintix-labs/mdir/server"
	"github.com/zintix-labs/mdir/server/logger"
	"github.com/zintix-labs/mdir/server/svrcfg"
)

// 眾數計算服務。預設使用內建範例目錄與 dev log；-prod 改輸出 JSON log 到 stdout。
func main() {
	sCfg, closeLog, err := loadConfigFromFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	err = server.Run(sCfg)
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

type config struct {
	Addr    string
	CfgPath string
	Prod    bool
}

func loadConfigFromFlags() (*svrcfg.SvrCfg, func(), error) {
	cfg := new(config)
	flag.StringVar(&cfg.Addr, "addr", svrcfg.DefaultAddr, "listen address")
	flag.StringVar(&cfg.CfgPath, "cfg", "", "catalog file (.yaml/.yml/.json); empty uses the embedded demo catalog")
	flag.BoolVar(&cfg.Prod, "prod", false, "JSON logs at info level")
	flag.Parse()

	mode := logger.ModeDev
	if cfg.Prod {
		mode = logger.ModeProd
	}
	log, ah := logger.NewAsync(4096, mode)

	cat, err := demo.LoadCatalog(cfg.CfgPath)
	if err != nil {
		ah.Close()
		return nil, nil, err
	}
	return &svrcfg.SvrCfg{Log: log, Catalog: cat, Addr: cfg.Addr}, ah.Close, nil
}
