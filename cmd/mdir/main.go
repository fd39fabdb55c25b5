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

// mdir 計算分佈目錄中每個設定的眾數，並以 table / json / yaml 輸出報表。
//
// Usage:
//
//	go run ./cmd/mdir
//	go run ./cmd/mdir -name topics8 -v
//	go run ./cmd/mdir -cfg my_dists.yaml -format yaml
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/zintix-labs/mdir"
	"github.com/zintix-labs/mdir/demo"
	"github.com/zintix-labs/mdir/server/logger"
	"github.com/zintix-labs/mdir/spec"
	"github.com/zintix-labs/mdir/stats"
)

type config struct {
	cfgPath string
	name    string
	format  string
	verbose bool
}

func main() {
	cfg := new(config)
	flag.StringVar(&cfg.cfgPath, "cfg", "", "catalog file (.yaml/.yml/.json); empty uses the embedded demo catalog")
	flag.StringVar(&cfg.name, "name", "", "only report this dist (default all)")
	flag.StringVar(&cfg.format, "format", "table", "output format: table|json|yaml")
	flag.BoolVar(&cfg.verbose, "v", false, "dev logging to stderr (shows clamp / tie warnings)")
	flag.Parse()

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg *config) error {
	render, ok := stats.RenderByName(cfg.format)
	if !ok {
		return fmt.Errorf("unknown format %q: want table|json|yaml", cfg.format)
	}
	cat, err := demo.LoadCatalog(cfg.cfgPath)
	if err != nil {
		return err
	}

	dists := cat.Dists
	if cfg.name != "" {
		ds, ok := cat.Get(cfg.name)
		if !ok {
			return fmt.Errorf("dist %q not found, have %v", cfg.name, cat.Names())
		}
		dists = []*spec.DistSetting{ds}
	}

	mode := logger.ModeSilence
	if cfg.verbose {
		mode = logger.ModeDev
	}
	lg := logger.NewDefaultLogger(mode)

	for _, ds := range dists {
		d, err := ds.Build(mdir.WithLogger(lg))
		if err != nil {
			return err
		}
		rep, err := stats.NewModeReport(ds.Name, d, ds.Point)
		if err != nil {
			return err
		}
		if err := rep.WriteWith(os.Stdout, render); err != nil {
			return err
		}
	}
	return nil
}
