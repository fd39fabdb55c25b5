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

// sweep 以隨機參數大量檢查眾數計算的不變式，發現違規時以非零狀態結束。
//
// Usage:
//
//	go run ./cmd/sweep -worker 8 -cases 1000000
//	go run ./cmd/sweep -lo -1 -hi 1 -zstd build/sweep.json.zst -p cpu
//	go run ./cmd/sweep -replay <token>   # 以相同的 -maxdim/-lo/-hi/-maxeps 重建違規案例
package main

import (
	"crypto/rand"
	"flag"
	"log"
	"math"
	"math/big"
	"os"

	"github.com/zintix-labs/mdir/corefmt"
	"github.com/zintix-labs/mdir/sdk/perf"
	"github.com/zintix-labs/mdir/stats"
	"github.com/zintix-labs/mdir/sweep"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	cfg       = sweep.DefaultConfig()
	zstdOut   string
	pprofmode string
	replay    string
)

func bindVar() {
	flag.IntVar(&cfg.Workers, "worker", cfg.Workers, "number of workers")
	flag.IntVar(&cfg.Cases, "cases", cfg.Cases, "number of random cases")
	flag.IntVar(&cfg.MaxDim, "maxdim", cfg.MaxDim, "dimension drawn from [1, maxdim]")
	flag.Float64Var(&cfg.AlphaLo, "lo", cfg.AlphaLo, "alpha lower bound (inclusive)")
	flag.Float64Var(&cfg.AlphaHi, "hi", cfg.AlphaHi, "alpha upper bound (exclusive)")
	flag.Float64Var(&cfg.MaxEpsilon, "maxeps", cfg.MaxEpsilon, "epsilon drawn from [0, maxeps)")
	flag.Int64Var(&cfg.Seed, "seed", -1, "int64 seed; < 1 picks a random seed")
	flag.StringVar(&zstdOut, "zstd", "", "write the JSON report compressed with zstd to this file")
	flag.StringVar(&pprofmode, "p", "", "pprof: '', cpu, heap, allocs")
	flag.StringVar(&replay, "replay", "", "rebuild one case from a violation's replay token and print its report")
	flag.Parse()

	if cfg.Seed < 1 {
		seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
		if err != nil {
			log.Fatal(err)
		}
		cfg.Seed = seed.Int64()
	}
	cfg.ShowProgress = true
}

func main() {
	bindVar()
	if replay != "" {
		if err := replayCase(replay); err != nil {
			log.Fatal(err)
		}
		return
	}

	green, red, reset := "\033[1;32m", "\033[1;31m", "\033[0m"
	p := message.NewPrinter(language.English)
	p.Printf("%s[WORKERS:%d] [CASES:%d] [MAXDIM:%d] [ALPHA:%v..%v] [MAXEPS:%v] [SEED:%d]%s\n",
		green, cfg.Workers, cfg.Cases, cfg.MaxDim, cfg.AlphaLo, cfg.AlphaHi, cfg.MaxEpsilon, cfg.Seed, reset)

	var rep *sweep.Report
	err := perf.RunPProf(perf.DefaultDir, pprofmode, func() error {
		var err error
		rep, err = sweep.Run(cfg)
		return err
	})
	if err != nil {
		log.Fatal(err)
	}

	p.Printf("run        %s\n", rep.RunID)
	p.Printf("cases      %d (%v)\n", rep.Cases, rep.Elapsed)
	p.Printf("degenerate %d\n", rep.Degenerate)
	p.Printf("ties       %d\n", rep.Ties)
	p.Printf("clamped    %d\n", rep.Clamped)
	p.Printf("max passes %d\n", rep.MaxPasses)

	if zstdOut != "" {
		if err := writeReport(rep, zstdOut); err != nil {
			log.Fatal(err)
		}
	}

	if !rep.OK() {
		p.Printf("%sviolations %d%s\n", red, len(rep.Violations), reset)
		for i, v := range rep.Violations {
			if i == 10 {
				p.Printf("... %d more\n", len(rep.Violations)-i)
				break
			}
			p.Printf("  case %d dim=%d eps=%v: %s (replay %s)\n", v.Case, v.Dim, v.Epsilon, v.Reason, corefmt.EncodeSnapshot(v.Seed))
		}
		os.Exit(1)
	}
	p.Printf("%sok%s\n", green, reset)
}

func writeReport(rep *sweep.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := rep.WriteZstd(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func replayCase(token string) error {
	seed, err := corefmt.DecodeSnapshot(token)
	if err != nil {
		return err
	}
	d, err := sweep.Replay(cfg, sweep.Violation{Seed: seed})
	if err != nil {
		return err
	}
	message.NewPrinter(language.English).Printf("snapshot   %s\n", corefmt.EncodeHex(seed))
	rep, err := stats.NewModeReport("replay", d, nil)
	if err != nil {
		return err
	}
	return rep.StdOut(os.Stdout)
}
