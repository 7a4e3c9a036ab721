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
	"strings"

	"github.com/rulego/sqlnull"
	"github.com/rulego/sqlnull/sqlexpr"
	"github.com/rulego/sqlnull/treefile"
	"github.com/spf13/cobra"
)

// ProcessResult is the outcome of processing one tree.
type ProcessResult struct {
	Name      string `json:"name,omitempty"`
	Predicate bool   `json:"predicate"`
	Input     string `json:"input"`
	Output    string `json:"output"`
	Nullable  bool   `json:"nullable"`
	Rewritten bool   `json:"rewritten"`
}

// NewProcessCommand creates the process command.
func NewProcessCommand(rootOpts *RootOptions) *cobra.Command {
	var predicate bool

	cmd := &cobra.Command{
		Use:   "process <tree.yaml>",
		Short: "Compute nullability and compensate a tree",
		Long: `Run the nullability pass over the tree described in a YAML file and print
the rewritten tree with the nullability of its root.

With --predicate the root is treated as a WHERE clause, where NULL and false
are equivalent and shorter rewrites apply.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(rootOpts, args[0], predicate, cmd)
		},
	}
	cmd.Flags().BoolVarP(&predicate, "predicate", "p", false, "treat the root as a WHERE clause")
	return cmd
}

func runProcess(opts *RootOptions, path string, predicate bool, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	engine, err := newEngine(opts, cmd, formatter.TraceID)
	if err != nil {
		return formatter.Fail(err)
	}
	doc, tree, err := loadTree(path)
	if err != nil {
		return formatter.Fail(err)
	}

	result, _ := process(engine, doc, tree, predicate || doc.Predicate)

	var b strings.Builder
	if result.Name != "" {
		fmt.Fprintf(&b, "name:     %s\n", result.Name)
	}
	fmt.Fprintf(&b, "input:    %s\n", result.Input)
	fmt.Fprintf(&b, "output:   %s\n", result.Output)
	fmt.Fprintf(&b, "nullable: %v\n", result.Nullable)
	return formatter.Success(result, b.String())
}

func loadTree(path string) (*treefile.Document, sqlexpr.Expression, error) {
	doc, err := treefile.Load(path)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to load tree", err)
	}
	tree, err := doc.Tree()
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "invalid tree", err)
	}
	return doc, tree, nil
}

func process(engine *sqlnull.Engine, doc *treefile.Document, tree sqlexpr.Expression, predicate bool) (ProcessResult, sqlexpr.Expression) {
	var out sqlexpr.Expression
	var nullable bool
	if predicate {
		out, nullable = engine.ProcessPredicate(tree)
	} else {
		out, nullable = engine.Process(tree)
	}
	return ProcessResult{
		Name:      doc.Name,
		Predicate: predicate,
		Input:     tree.String(),
		Output:    out.String(),
		Nullable:  nullable,
		Rewritten: out != tree,
	}, out
}
