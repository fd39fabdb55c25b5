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
	"bufio"
	"errors"
	"strings"
)

func runTest() error {
	printColor(colorGreen, "running tests")
	// clean 失敗不影響測試
	_ = goCmd("clean", "-testcache").Run()

	cmd := goCmd("test", "./...", "-cover", "-count=1")
	cmd.Stdout = nil
	out, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	// 編譯錯誤在 stderr，一起讀
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return err
	}

	sc := bufio.NewScanner(out)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "ok"):
			printColor(colorGreen, line)
		case strings.HasPrefix(line, "FAIL"),
			strings.Contains(line, "build failed"),
			strings.Contains(line, "setup failed"):
			printColor(colorRed, line)
		}
	}
	if err := cmd.Wait(); err != nil {
		return errors.New("tests finished with errors")
	}
	return nil
}

func runTestAll() error {
	printColor(colorGreen, "running tests (all with coverage)")
	if err := goCmd("clean", "-testcache").Run(); err != nil {
		return err
	}
	return goCmd("test", "./...", "-cover").Run()
}

func runSweep() error {
	printColor(colorGreen, "running sweep")
	return goCmd("run", "./cmd/sweep", "-worker", "4", "-cases", "200000", "-seed", "20251019").Run()
}
