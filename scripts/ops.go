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

// ops 是開發用的任務入口。
//
// Usage:
//
//	go run ./scripts test        # 只顯示每個套件的 ok/FAIL
//	go run ./scripts test-all    # 完整輸出 + coverage
//	go run ./scripts sweep       # 短 sweep，適合提交前跑一次
package main

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
)

type task struct {
	help string
	run  func() error
}

var tasks = map[string]task{
	"test":     {"go test ./... -cover -count=1, summary lines only", runTest},
	"test-all": {"go test ./... -cover with full output", runTestAll},
	"sweep":    {"short randomized invariant sweep (4 workers, 200k cases)", runSweep},
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	t, ok := tasks[os.Args[1]]
	if !ok {
		printColor(colorYellow, fmt.Sprintf("unknown task: %s", os.Args[1]))
		usage()
		os.Exit(1)
	}
	if err := t.run(); err != nil {
		printColor(colorRed, err.Error())
		os.Exit(1)
	}
}

func usage() {
	names := make([]string, 0, len(tasks))
	for n := range tasks {
		names = append(names, n)
	}
	sort.Strings(names)
	fmt.Println("Usage: go run ./scripts <task>")
	for _, n := range names {
		fmt.Printf("  %-9s %s\n", n, tasks[n].help)
	}
}

type ansiColor string

const (
	colorGreen  ansiColor = "\033[32m"
	colorYellow ansiColor = "\033[33m"
	colorRed    ansiColor = "\033[31m"
	colorReset            = "\033[0m"
)

func printColor(c ansiColor, msg string) {
	fmt.Printf("%s%s%s\n", c, strings.TrimRight(msg, "\n"), colorReset)
}

func goCmd(args ...string) *exec.Cmd {
	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}
