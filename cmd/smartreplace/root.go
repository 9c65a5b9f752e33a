// Copyright 2025 walteh LLC
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

package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/smartreplace/cmd/smartreplace/commands"
	"github.com/walteh/smartreplace/cmd/smartreplace/opts"
	"github.com/walteh/smartreplace/pkg/config"
	"github.com/walteh/smartreplace/pkg/log"
)

// NewRootCmd creates the root command with every sub-command attached
func NewRootCmd(o *opts.RootOpts) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "smartreplace",
		Short: "Smart quotes, rule-based replacements and blank-line removal for markdown notes",
		Long: `smartreplace rewrites documents in a vault of markdown notes. It converts
straight quotes to smart quotes, applies find/replace rules read from a rules
document, and removes whitespace-only lines.

A rules document holds one rule per line:

  ; a comment
  == A section ==
  "--", "–"
  "(\d+)x(\d+)", "$1×$2"`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(o).WithContext(cmd.Context())
			cmd.SetContext(log.NewContext(ctx, o.Console(ctx)))
			return nil
		},
	}

	addRootFlags(rootCmd, o)

	rootCmd.AddCommand(
		commands.NewRunCmd(o),
		commands.NewRulesCmd(o),
		commands.NewSettingsCmd(o),
		newVersionCmd(o),
	)

	rootCmd.SetOut(o.Out)
	rootCmd.SetErr(o.ErrOut)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.SettingsPath, "settings", "s", "", "settings file path (default $XDG_CONFIG_HOME/smartreplace/settings.yaml)")
	cmd.PersistentFlags().StringVarP(&o.VaultRoot, "vault", "v", o.VaultRoot, "vault root directory")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")

	config.BindFlags(cmd.PersistentFlags())
	o.Overrides = cmd.PersistentFlags()
}

// setupLogging builds the stderr logger based on flags
func setupLogging(o *opts.RootOpts) *zerolog.Logger {
	level := zerolog.WarnLevel
	if o.Debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: o.ErrOut}).Level(level).With().Timestamp().Logger()
	return &logger
}

func newVersionCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(FormatVersion())
		},
	}
}
