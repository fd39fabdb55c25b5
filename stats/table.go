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
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// Printer 回傳帶千分位的 printer，給 CLI 共用
func Printer() *message.Printer {
	return message.NewPrinter(lang)
}

// StdOut 以表格輸出報表
func (r *ModeReport) StdOut(w io.Writer) error {
	p := Printer()
	keys := []string{"Dim", "Epsilon", "Alpha", "Mode", "Support", "Sparsity", "Passes", "LogProb@Mode", "Entropy"}
	rows := map[string]string{
		"Dim":          p.Sprintf("%d", r.Dim),
		"Epsilon":      fmtFloat(r.Epsilon),
		"Alpha":        fmtVec(r.Alpha),
		"Mode":         fmtVec(r.Mode),
		"Support":      p.Sprintf("%v", r.Support),
		"Sparsity":     p.Sprintf("%.2f %%", 100*r.Sparsity),
		"Passes":       p.Sprintf("%d", r.Passes),
		"LogProb@Mode": fmtFloat(r.LogProbAtMode),
		"Entropy":      p.Sprintf("%.4f", r.Entropy),
	}
	if r.Point != nil {
		keys = append(keys, "Point")
		rows["Point"] = fmtVec(r.Point)
	}
	if r.LogProb != nil {
		keys = append(keys, "LogProb@Point")
		rows["LogProb@Point"] = fmtFloat(*r.LogProb)
	}
	if r.DirichletLogProb != nil {
		keys = append(keys, "Dirichlet LogPdf")
		rows["Dirichlet LogPdf"] = fmtFloat(*r.DirichletLogProb)
	}
	for i, msg := range r.Warnings {
		k := "Warning " + strconv.Itoa(i+1)
		keys = append(keys, k)
		rows[k] = msg
	}
	_, err := io.WriteString(w, FmtTable(r.Name, keys, rows))
	return err
}

// FmtTable 把 key/value 排成兩欄表格；寬度以 runewidth 計算，中文也能對齊。
func FmtTable(title string, keys []string, rows map[string]string) string {
	keyW, valW := 0, 0
	for _, k := range keys {
		keyW = max(keyW, runewidth.StringWidth(k))
		valW = max(valW, runewidth.StringWidth(rows[k]))
	}
	keyW += 2
	valW += 2
	inner := keyW + valW + 1
	if tw := runewidth.StringWidth(title) + 2; tw > inner {
		valW += tw - inner
		inner = tw
	}

	var sb strings.Builder
	top := "+" + strings.Repeat("-", inner) + "+\n"
	divider := "+" + strings.Repeat("-", keyW) + "+" + strings.Repeat("-", valW) + "+\n"

	tw := runewidth.StringWidth(title)
	left := (inner - tw) / 2
	sb.WriteString(top)
	sb.WriteString("|" + blank(left) + title + blank(inner-tw-left) + "|\n")
	sb.WriteString(divider)
	for _, k := range keys {
		v := rows[k]
		sb.WriteString("| " + k + blank(keyW-2-runewidth.StringWidth(k)) +
			" | " + v + blank(valW-2-runewidth.StringWidth(v)) + " |\n")
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func fmtVec(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmtFloat(x)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
