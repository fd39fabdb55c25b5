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

package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/zintix-labs/mdir/errs"
	"github.com/zintix-labs/mdir/server/httperr"
)

// Recover 以 chi 的 Recoverer 攔截 handler panic：
//   - panic 經由 chi 的 LogEntry 掛勾寫進 slog（含 stack）。
//   - chi 回 500 時改寫成 httperr 的 JSON 錯誤。
//
// http.ErrAbortHandler 由 chi 照原樣往上拋。應註冊在最內層（Compression 之後），
// 錯誤內容才會經過壓縮 writer。
func Recover(log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return func(next http.Handler) http.Handler {
		rec := chimid.Recoverer(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			e := &panicEntry{log: log, r: r}
			rec.ServeHTTP(&panicWriter{ResponseWriter: w, entry: e}, chimid.WithLogEntry(r, e))
		})
	}
}

// panicEntry 實作 chimid.LogEntry，只處理 Panic；存取紀錄交給 AccessLog。
type panicEntry struct {
	log *slog.Logger
	r   *http.Request
	err *errs.E
}

func (e *panicEntry) Write(status, bytes int, header http.Header, elapsed time.Duration, extra any) {}

func (e *panicEntry) Panic(v any, stack []byte) {
	e.err = errs.NewWithExtra(errs.Fatal, "handler panic", fmt.Sprint(v))
	e.log.Error("http.panic",
		slog.String("path", e.r.URL.Path),
		slog.String("req_id", GetReqId(e.r)),
		slog.Any("err", e.err),
		slog.String("stack", string(stack)),
	)
}

// panicWriter 在 chi 於 panic 後呼叫 WriteHeader(500) 時補上 JSON body。
type panicWriter struct {
	http.ResponseWriter
	entry *panicEntry
}

func (pw *panicWriter) WriteHeader(code int) {
	if pw.entry.err != nil && code == http.StatusInternalServerError {
		httperr.Write(pw.ResponseWriter, code, pw.entry.err)
		return
	}
	pw.ResponseWriter.WriteHeader(code)
}

func (pw *panicWriter) Flush() {
	if f, ok := pw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
