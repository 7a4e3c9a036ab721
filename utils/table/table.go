/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package table

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"
)

// Formatter renders one cell value.
type Formatter func(v any) string

// Write writes rows as a bordered text table.
// Columns follow fieldOrder first; remaining columns are sorted by name.
// A nil format uses fmt's %v.
func Write(w io.Writer, data []map[string]any, fieldOrder []string, format Formatter) {
	if len(data) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}
	if format == nil {
		format = func(v any) string { return fmt.Sprintf("%v", v) }
	}

	columns := Columns(data, fieldOrder)

	cells := make([][]string, len(data))
	colWidths := make([]int, len(columns))
	for i, col := range columns {
		colWidths[i] = utf8.RuneCountInString(col)
	}
	for r, row := range data {
		cells[r] = make([]string, len(columns))
		for i, col := range columns {
			if v, exists := row[col]; exists {
				cells[r][i] = format(v)
			}
			if n := utf8.RuneCountInString(cells[r][i]); n > colWidths[i] {
				colWidths[i] = n
			}
		}
	}
	// 最小宽度为4
	for i := range colWidths {
		if colWidths[i] < 4 {
			colWidths[i] = 4
		}
	}

	WriteBorder(w, colWidths)
	writeLine(w, columns, colWidths)
	WriteBorder(w, colWidths)
	for _, line := range cells {
		writeLine(w, line, colWidths)
	}
	WriteBorder(w, colWidths)
	fmt.Fprintf(w, "(%d rows)\n", len(data))
}

// Columns returns the column names of data: fieldOrder entries present in
// data, then the others in sorted order.
func Columns(data []map[string]any, fieldOrder []string) []string {
	columnSet := make(map[string]bool)
	for _, row := range data {
		for col := range row {
			columnSet[col] = true
		}
	}

	columns := make([]string, 0, len(columnSet))
	for _, field := range fieldOrder {
		if columnSet[field] {
			columns = append(columns, field)
			delete(columnSet, field)
		}
	}
	rest := make([]string, 0, len(columnSet))
	for col := range columnSet {
		rest = append(rest, col)
	}
	sort.Strings(rest)
	return append(columns, rest...)
}

// WriteBorder writes a table border
func WriteBorder(w io.Writer, columnWidths []int) {
	var b strings.Builder
	b.WriteByte('+')
	for _, width := range columnWidths {
		b.WriteString(strings.Repeat("-", width+2))
		b.WriteByte('+')
	}
	fmt.Fprintln(w, b.String())
}

func writeLine(w io.Writer, values []string, colWidths []int) {
	var b strings.Builder
	b.WriteByte('|')
	for i, v := range values {
		b.WriteString(" " + v + strings.Repeat(" ", colWidths[i]-utf8.RuneCountInString(v)) + " |")
	}
	fmt.Fprintln(w, b.String())
}
