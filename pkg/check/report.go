// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package check

import (
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/zkcorset/corset/pkg/ir"
	"github.com/zkcorset/corset/pkg/schema"
)

const (
	ansiRed   = "\033[31m"
	ansiReset = "\033[0m"
)

// formatFailure renders the row neighbourhood around a failing
// constraint as a padded ASCII table, with the failing row picked out in
// red — the same shape as the original implementation's failure report,
// minus its interactive widgets (out of scope, see DESIGN.md).
func formatFailure(name string, expr ir.Expr, row int, set *schema.Set, settings Settings) string {
	span := settings.TraceSpan
	if span <= 0 {
		span = 5
	}

	deps := expr.Handles()

	module := ""
	if len(deps) > 0 {
		module = deps[0].Module
	}

	var columns []schema.Handle
	if settings.FullTrace {
		columns = columnsInModule(set, module)
	} else {
		columns = dedupHandles(deps)
	}

	columns = fitColumns(columns, terminalWidth())

	lo, hi := row-span, row+span
	if lo < 0 {
		lo = 0
	}

	header := make([]string, len(columns))
	widths := make([]int, len(columns))

	for i, h := range columns {
		header[i] = h.Name
		widths[i] = len(header[i])
	}

	type tableRow struct {
		at    int
		cells []string
	}

	rows := make([]tableRow, 0, hi-lo+1)

	for r := lo; r <= hi; r++ {
		cells := make([]string, len(columns))

		for i, h := range columns {
			text := "."

			if v, ok := set.Column(h).Get(r, false); ok {
				text = v.String()
			}

			cells[i] = text

			if len(text) > widths[i] {
				widths[i] = len(text)
			}
		}

		rows = append(rows, tableRow{r, cells})
	}

	var b strings.Builder

	fmt.Fprintf(&b, "constraint %q failed at row %d (module %q)\n", name, row, module)
	fmt.Fprintf(&b, "row  ")

	for i, h := range header {
		fmt.Fprintf(&b, "%-*s ", widths[i], h)
	}

	b.WriteString("\n")

	for _, tr := range rows {
		fmt.Fprintf(&b, "%-4d ", tr.at)

		for i, cell := range tr.cells {
			text := fmt.Sprintf("%-*s ", widths[i], cell)
			if tr.at == row {
				text = ansiRed + text + ansiReset
			}

			b.WriteString(text)
		}

		b.WriteString("\n")
	}

	return b.String()
}

func columnsInModule(set *schema.Set, module string) []schema.Handle {
	var out []schema.Handle

	for _, c := range set.Columns() {
		if c.Handle().Module == module {
			out = append(out, c.Handle())
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

func dedupHandles(hs []schema.Handle) []schema.Handle {
	seen := make(map[schema.Handle]bool, len(hs))

	var out []schema.Handle

	for _, h := range hs {
		if seen[h] {
			continue
		}

		seen[h] = true

		out = append(out, h)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

// terminalWidth reports the width of the controlling terminal, falling
// back to a conservative default when stdout isn't one (e.g. when
// output is piped to a file).
func terminalWidth() int {
	const fallback = 120

	width, _, err := term.GetSize(1)
	if err != nil || width <= 0 {
		return fallback
	}

	return width
}

// fitColumns drops trailing columns so the table stays within width,
// logging what was dropped rather than truncating silently.
func fitColumns(columns []schema.Handle, width int) []schema.Handle {
	const approxCellWidth = 12

	maxCols := width / approxCellWidth
	if maxCols < 1 {
		maxCols = 1
	}

	if len(columns) <= maxCols {
		return columns
	}

	log.Warnf("failure report: showing %d of %d columns to fit a %d-column terminal", maxCols, len(columns), width)

	return columns[:maxCols]
}
