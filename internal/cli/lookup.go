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

	"github.com/rulego/sqlnull/translators"
	"github.com/spf13/cobra"
)

// LookupEntry is one catalogued translation.
type LookupEntry struct {
	Signature            string `json:"signature"`
	Function             string `json:"function"`
	PropagateNullability []bool `json:"propagateNullability"`
	ReturnType           string `json:"returnType"`
}

// NewLookupCommand creates the lookup command.
func NewLookupCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup [signature]",
		Short: "Look up method translations",
		Long: `Look up the database function a method signature translates to, for example

  sqlnull lookup "FuzzyStringMatchDbFunctionsExtensions.FuzzyStringMatchSoundex(DbFunctions,string)"

Without a signature every catalogued translation is listed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runLookup(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	engine, err := newEngine(opts, cmd, formatter.TraceID)
	if err != nil {
		return formatter.Fail(err)
	}

	var keys []string
	if len(args) == 1 {
		keys = args
	} else {
		keys = engine.Registry().Signatures()
	}

	entries := make([]LookupEntry, 0, len(keys))
	for _, key := range keys {
		sig, err := translators.ParseSignature(key)
		if err != nil {
			return formatter.Fail(WrapExitError(ExitCommandError, "invalid signature", err))
		}
		t, ok := engine.Lookup(sig)
		if !ok {
			return formatter.Fail(NewExitError(ExitFailure, fmt.Sprintf("no translation for %s", sig)))
		}
		entries = append(entries, LookupEntry{
			Signature:            sig.Key(),
			Function:             t.Function,
			PropagateNullability: t.PropagateNullability,
			ReturnType:           t.ReturnType.String(),
		})
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s -> %s %v\n", e.Signature, e.Function, e.PropagateNullability)
	}
	if len(args) == 1 {
		return formatter.Success(entries[0], b.String())
	}
	return formatter.Success(entries, b.String())
}
