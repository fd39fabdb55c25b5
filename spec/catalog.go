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

package spec

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/zintix-labs/mdir/errs"
	"gopkg.in/yaml.v3"
)

// Catalog 是一批具名分佈設定。名稱在同一個 Catalog 內唯一。
type Catalog struct {
	Dists []*DistSetting `yaml:"dists" json:"dists"`

	byName map[string]*DistSetting
}

// GetCatalogByYAML 讀取 YAML 設定（嚴格模式：拼錯欄位直接報錯），初始化後回傳。
func GetCatalogByYAML(data []byte) (*Catalog, error) {
	cat := &Catalog{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cat); err != nil {
		return nil, errs.Wrap(errs.NewWarn(err.Error()), "failed to unmarshal yaml")
	}
	if err := cat.init(); err != nil {
		return nil, errs.Wrap(err, "catalog initialized err")
	}
	return cat, nil
}

// GetCatalogByJSON 讀取 JSON 設定，初始化後回傳。
func GetCatalogByJSON(data []byte) (*Catalog, error) {
	cat := &Catalog{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cat); err != nil {
		return nil, errs.Wrap(errs.NewWarn(err.Error()), "can not unmarshal json")
	}
	if err := cat.init(); err != nil {
		return nil, errs.Wrap(err, "catalog initialized err")
	}
	return cat, nil
}

// LoadCatalog 從 fs.FS 讀取設定檔，依副檔名選擇解碼方式（.yaml/.yml/.json）。
//
// 用 fs.FS 而不是路徑：可以是 go:embed，也可以是 os.DirFS。
func LoadCatalog(fsys fs.FS, name string) (*Catalog, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errs.WrapWithExtra(err, "read catalog failed", name)
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return GetCatalogByYAML(raw)
	case ".json":
		return GetCatalogByJSON(raw)
	default:
		return nil, errs.Warnf("unsupported catalog extension: %s", name)
	}
}

func (c *Catalog) init() error {
	if len(c.Dists) == 0 {
		return errs.NewWarn("empty dists")
	}
	c.byName = make(map[string]*DistSetting, len(c.Dists))
	for i, ds := range c.Dists {
		if ds == nil {
			return errs.Warnf("dists[%d] is null", i)
		}
		if ds.Name == "" {
			return errs.Warnf("dists[%d]: empty name", i)
		}
		if _, dup := c.byName[ds.Name]; dup {
			return errs.Warnf("duplicate dist name: %s", ds.Name)
		}
		if err := ds.valid(); err != nil {
			return err
		}
		c.byName[ds.Name] = ds
	}
	return nil
}

// Get 依名稱取得設定
func (c *Catalog) Get(name string) (*DistSetting, bool) {
	ds, ok := c.byName[name]
	return ds, ok
}

// Names 依設定檔順序回傳所有名稱
func (c *Catalog) Names() []string {
	out := make([]string, len(c.Dists))
	for i, ds := range c.Dists {
		out[i] = ds.Name
	}
	return out
}
