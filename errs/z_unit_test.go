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

package errs

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestWrapKeepsLevel(t *testing.T) {
	w := Wrap(NewWarn("bad alpha"), "load catalog")
	if w.ErrLv != Warn {
		t.Fatalf("expected warn level, got %s", w.ErrLv)
	}
	f := Wrap(io.EOF, "read")
	if f.ErrLv != Fatal {
		t.Fatalf("foreign cause should be fatal, got %s", f.ErrLv)
	}
	if !errors.Is(f, io.EOF) {
		t.Fatalf("expected errors.Is to reach io.EOF")
	}
}

func TestErrorString(t *testing.T) {
	e := WrapWithExtra(io.EOF, "decode", "dists.yaml")
	s := e.Error()
	for _, want := range []string{"errlv=fatal", "decode", "extra: dists.yaml", "cause: EOF"} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %q in %q", want, s)
		}
	}
}

func TestLevelOf(t *testing.T) {
	if LevelOf(nil) != None {
		t.Fatalf("nil should be None")
	}
	if LevelOf(Logf("x=%d", 1)) != Log {
		t.Fatalf("expected Log")
	}
	if _, ok := AsErr(io.EOF); ok {
		t.Fatalf("io.EOF is not *E")
	}
}
