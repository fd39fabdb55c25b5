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

package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/mdir/demo/demo_configs"
	"github.com/zintix-labs/mdir/server/api"
	v1 "github.com/zintix-labs/mdir/server/api/v1"
	"github.com/zintix-labs/mdir/server/httperr"
	"github.com/zintix-labs/mdir/server/netsvr"
	"github.com/zintix-labs/mdir/server/svrcfg"
	"github.com/zintix-labs/mdir/spec"
	"github.com/zintix-labs/mdir/stats"
)

func newServer(t *testing.T) *netsvr.ChiAdapter {
	t.Helper()
	cat, err := spec.LoadCatalog(demo_configs.FS, demo_configs.DefaultName)
	require.NoError(t, err)
	cfg := &svrcfg.SvrCfg{Catalog: cat}
	require.NoError(t, cfg.Valid())

	svr := netsvr.NewChiServer(cfg.Addr)
	require.True(t, svr.Ready())
	require.NoError(t, api.RegisterRoutes(svr, cfg))
	return svr
}

func newHandler(t *testing.T) http.Handler {
	t.Helper()
	return newServer(t).Handler()
}

func do(h http.Handler, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	rec := do(newHandler(t), http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "/v1/mode")
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestPostMode(t *testing.T) {
	rec := do(newHandler(t), http.MethodPost, "/v1/mode",
		`{"dim":3,"alpha":[3,1,0.5],"epsilon":0.05,"point":[0.5,0.3,0.2]}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var rep stats.ModeReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	require.InDeltaSlice(t, []float64{0.9, 0.05, 0.05}, rep.Mode, 1e-12)
	require.Equal(t, []int{0}, rep.Support)
	require.NotNil(t, rep.LogProb)
}

func TestPostModeDegenerateWarnings(t *testing.T) {
	rec := do(newHandler(t), http.MethodPost, "/v1/mode", `{"dim":3,"alpha":[1,1,1],"epsilon":0.1}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var rep stats.ModeReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	require.InDeltaSlice(t, []float64{0.8, 0.1, 0.1}, rep.Mode, 1e-12)
	require.Len(t, rep.Warnings, 1)
}

func TestPostModeBadRequest(t *testing.T) {
	h := newHandler(t)
	cases := map[string]string{
		"unknown field": `{"dim":2,"alpha":[1,1],"epsilon":0,"beta":1}`,
		"bad dim":       `{"dim":0,"epsilon":0}`,
		"alpha length":  `{"dim":3,"alpha":[1,2],"epsilon":0}`,
		"point length":  `{"dim":2,"alpha":[1,2],"epsilon":0,"point":[1]}`,
		"not json":      `dim=3`,
		"trailing":      `{"dim":1,"epsilon":0}{}`,
		"huge dim":      `{"dim":2000000000,"epsilon":0.1}`,
		"dim overflow":  `{"dim":1152921504606846976,"epsilon":0.1}`,
	}
	for name, body := range cases {
		rec := do(h, http.MethodPost, "/v1/mode", body, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code, name)

		var eb httperr.Body
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &eb), name)
		require.Equal(t, "warn", eb.Level, name)
	}
}

func TestPostModeBodyLimit(t *testing.T) {
	big := `{"dim":1,"epsilon":0,"alpha":[` + strings.Repeat("1,", v1.MaxBodyBytes) + `1]}`
	rec := do(newHandler(t), http.MethodPost, "/v1/mode", big, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "exceeds")
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(newHandler(t), http.MethodGet, "/v1/mode", "", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestListDists(t *testing.T) {
	rec := do(newHandler(t), http.MethodGet, "/v1/dists", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out []v1.DistEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out)
	require.Equal(t, "sparse3", out[0].Name)
	require.Equal(t, 3, out[0].Dim)
}

func TestGetDist(t *testing.T) {
	h := newHandler(t)
	rec := do(h, http.MethodGet, "/v1/dists/cascade3", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var rep stats.ModeReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	require.Equal(t, "cascade3", rep.Name)
	require.InDeltaSlice(t, []float64{0.8, 0.1, 0.1}, rep.Mode, 1e-12)
	require.Equal(t, 2, rep.Passes)

	rec = do(h, http.MethodGet, "/v1/dists/nope", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCompression(t *testing.T) {
	h := newHandler(t)
	body := `{"dim":3,"alpha":[3,1,0.5],"epsilon":0.05}`
	plain := do(h, http.MethodPost, "/v1/mode", body, nil)
	require.Empty(t, plain.Header().Get("Content-Encoding"))

	decoders := map[string]func(io.Reader) ([]byte, error){
		"gzip": func(r io.Reader) ([]byte, error) {
			gr, err := gzip.NewReader(r)
			if err != nil {
				return nil, err
			}
			defer gr.Close()
			return io.ReadAll(gr)
		},
		"zstd": func(r io.Reader) ([]byte, error) {
			zr, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}
			defer zr.Close()
			return io.ReadAll(zr)
		},
	}
	for enc, decode := range decoders {
		rec := do(h, http.MethodPost, "/v1/mode", body, map[string]string{"Accept-Encoding": enc})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, enc, rec.Header().Get("Content-Encoding"))

		got, err := decode(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err, enc)
		require.JSONEq(t, plain.Body.String(), string(got), enc)
	}

	// zstd 優先；q=0 表示拒絕
	rec := do(h, http.MethodPost, "/v1/mode", body, map[string]string{"Accept-Encoding": "gzip, zstd"})
	require.Equal(t, "zstd", rec.Header().Get("Content-Encoding"))
	rec = do(h, http.MethodPost, "/v1/mode", body, map[string]string{"Accept-Encoding": "zstd;q=0, gzip"})
	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
}

func TestPanicCompressed(t *testing.T) {
	svr := newServer(t)
	svr.Get("/v1/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	rec := do(svr.Handler(), http.MethodGet, "/v1/panic", "", map[string]string{"Accept-Encoding": "gzip"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	gr, err := gzip.NewReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer gr.Close()
	got, err := io.ReadAll(gr)
	require.NoError(t, err)

	var eb httperr.Body
	require.NoError(t, json.Unmarshal(got, &eb))
	require.Equal(t, "fatal", eb.Level)
	require.Contains(t, eb.Error, "handler panic")
}
