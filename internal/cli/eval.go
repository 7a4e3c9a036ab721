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

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/rulego/sqlnull/eval"
	"github.com/rulego/sqlnull/sqlexpr"
	"github.com/rulego/sqlnull/utils/table"
	"github.com/spf13/cobra"
)

const (
	inputColumn  = "input"
	outputColumn = "output"
)

// rawCell is a cell already rendered as text.
type rawCell string

// RowResult compares the value of the original and the rewritten tree on one
// row.
type RowResult struct {
	Row    map[string]any `json:"row"`
	Input  string         `json:"input"`
	Output string         `json:"output"`
}

// EvalResult is the outcome of the eval command.
type EvalResult struct {
	ProcessResult
	Rows []RowResult `json:"rows"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	var predicate, asTable bool

	cmd := &cobra.Command{
		Use:   "eval <tree.yaml>",
		Short: "Evaluate a tree before and after compensation",
		Long: `Evaluate the tree of a YAML file on each of its rows, with SQL three-valued
semantics, before and after the nullability pass.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(rootOpts, args[0], predicate, asTable, cmd)
		},
	}
	cmd.Flags().BoolVarP(&predicate, "predicate", "p", false, "treat the root as a WHERE clause")
	cmd.Flags().BoolVarP(&asTable, "table", "t", false, "print rows as a table")
	return cmd
}

func runEval(opts *RootOptions, path string, predicate, asTable bool, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	engine, err := newEngine(opts, cmd, formatter.TraceID)
	if err != nil {
		return formatter.Fail(err)
	}
	doc, tree, err := loadTree(path)
	if err != nil {
		return formatter.Fail(err)
	}
	processed, out := process(engine, doc, tree, predicate || doc.Predicate)

	before, err := eval.Compile(tree)
	if err != nil {
		return formatter.Fail(WrapExitError(ExitFailure, "cannot evaluate input", err))
	}
	after, err := eval.Compile(out)
	if err != nil {
		return formatter.Fail(WrapExitError(ExitFailure, "cannot evaluate output", err))
	}

	result := EvalResult{ProcessResult: processed, Rows: make([]RowResult, 0, len(doc.Rows))}
	for i, row := range doc.Rows {
		x, err := before.Run(row)
		if err != nil {
			return formatter.Fail(WrapExitError(ExitFailure, fmt.Sprintf("row %d", i+1), err))
		}
		y, err := after.Run(row)
		if err != nil {
			return formatter.Fail(WrapExitError(ExitFailure, fmt.Sprintf("row %d", i+1), err))
		}
		result.Rows = append(result.Rows, RowResult{Row: row, Input: sqlexpr.FormatValue(x), Output: sqlexpr.FormatValue(y)})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "input:    %s\n", processed.Input)
	fmt.Fprintf(&b, "output:   %s\n", processed.Output)
	fmt.Fprintf(&b, "nullable: %v\n", processed.Nullable)
	if asTable {
		writeRowTable(&b, result.Rows)
	} else {
		for i, r := range result.Rows {
			fmt.Fprintf(&b, "row %d: %s -> %s\n", i+1, r.Input, r.Output)
		}
	}
	return formatter.Success(result, b.String())
}

// writeRowTable prints the row values followed by the input and output
// results, which are already rendered as SQL literals.
func writeRowTable(w io.Writer, rows []RowResult) {
	data := make([]map[string]any, len(rows))
	for i, r := range rows {
		line := make(map[string]any, len(r.Row)+2)
		for k, v := range r.Row {
			line[k] = v
		}
		line[inputColumn] = rawCell(r.Input)
		line[outputColumn] = rawCell(r.Output)
		data[i] = line
	}
	var order []string
	for _, col := range table.Columns(data, nil) {
		if col != inputColumn && col != outputColumn {
			order = append(order, col)
		}
	}
	order = append(order, inputColumn, outputColumn)
	table.Write(w, data, order, func(v any) string {
		if s, ok := v.(rawCell); ok {
			return string(s)
		}
		return sqlexpr.FormatValue(v)
	})
}
