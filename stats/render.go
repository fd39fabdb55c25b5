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

package stats

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// ReportRender 定義輸出行為
type ReportRender interface {
	Write(w io.Writer, r *ModeReport) error
}

// JsonReportRender JSON 渲染
type JsonReportRender struct{}

func (JsonReportRender) Write(w io.Writer, r *ModeReport) error {
	return json.NewEncoder(w).Encode(r)
}

// YAMLReportRender YAML 渲染；一維陣列（Alpha、Mode...）以 flow style 輸出成 [a, b, c]
type YAMLReportRender struct{}

func (YAMLReportRender) Write(w io.Writer, r *ModeReport) error {
	return WriteYAML(w, r)
}

// TableReportRender 終端表格渲染
type TableReportRender struct{}

func (TableReportRender) Write(w io.Writer, r *ModeReport) error {
	return r.StdOut(w)
}

// RenderByName 依名稱取得 render：table / json / yaml
func RenderByName(name string) (ReportRender, bool) {
	switch name {
	case "json":
		return JsonReportRender{}, true
	case "yaml", "yml":
		return YAMLReportRender{}, true
	case "table", "":
		return TableReportRender{}, true
	default:
		return nil, false
	}
}

// WriteYAML 把任意值寫成 YAML；最內層的 sequence 改為 flow style，外層維持展開。
func WriteYAML[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}
	flowInnerSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

func flowInnerSequences(n *yaml.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			flowInnerSequences(c)
		}
	case yaml.SequenceNode:
		inner := true
		for _, c := range n.Content {
			if c != nil && (c.Kind == yaml.SequenceNode || c.Kind == yaml.MappingNode) {
				inner = false
			}
			flowInnerSequences(c)
		}
		if inner {
			n.Style = yaml.FlowStyle
		}
	}
}
