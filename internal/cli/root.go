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

// Package cli implements the sqlnull command line.
package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rulego/sqlnull"
	"github.com/rulego/sqlnull/logger"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose         bool
	Format          string // "json" | "text"
	ConfigPath      string
	RelationalNulls bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the sqlnull CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sqlnull",
		Short: "PostgreSQL null semantics compensation",
		Long: `Compute the nullability of SQL expression trees and rewrite them so that
three-valued results match two-valued expectations.

Trees are described in YAML files, see the treefile package.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log every rewrite to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "engine configuration file (YAML)")
	cmd.PersistentFlags().BoolVar(&opts.RelationalNulls, "relational-nulls", false, "trust three-valued results, disable compensation")

	cmd.AddCommand(NewProcessCommand(opts))
	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewLookupCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// newEngine builds the engine from the configuration file and flags. Flags
// win over the file. Log lines carry the trace id of the invocation.
func newEngine(opts *RootOptions, cmd *cobra.Command, traceID string) (*sqlnull.Engine, error) {
	config := sqlnull.NewConfig()
	if opts.ConfigPath != "" {
		loaded, err := sqlnull.LoadConfig(opts.ConfigPath)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load config", err)
		}
		config = loaded
	}
	if cmd.Flags().Changed("relational-nulls") {
		config.UseRelationalNulls = opts.RelationalNulls
	}

	level := logger.OFF
	if opts.Verbose {
		level = logger.DEBUG
		config.LogLevel = level.String()
	} else if opts.ConfigPath == "" {
		config.LogLevel = level.String()
	}

	engine, err := sqlnull.NewFromConfig(config, sqlnull.WithLogger(logger.NewPrefixedLogger(level, cmd.ErrOrStderr(), traceID)))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid config", err)
	}
	return engine, nil
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), TraceID: newTraceID()}
}

// newTraceID returns a time-ordered id correlating JSON output with log lines.
func newTraceID() string {
	return uuid.Must(uuid.NewV7()).String()
}
