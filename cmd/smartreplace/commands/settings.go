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

package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/smartreplace/cmd/smartreplace/opts"
	"github.com/walteh/smartreplace/pkg/log"
	"github.com/walteh/smartreplace/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// 🎯 NewSettingsCmd creates the settings command group
func NewSettingsCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change Smart Replace settings",
	}

	cmd.AddCommand(
		newSettingsShowCmd(o),
		newSettingsSetCmd(o),
		newSettingsPathCmd(o),
	)

	return cmd
}

func newSettingsShowCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			settings, err := o.Settings(ctx, o.Notifier())

			values := settings.Map()
			data := [][]string{{"Key", "Value"}}
			for _, k := range config.Keys() {
				data = append(data, []string{k, fmt.Sprint(values[k])})
			}
			if renderErr := pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(o.Out).Render(); renderErr != nil {
				return errors.Errorf("rendering table: %w", renderErr)
			}
			return err
		},
	}
}

func newSettingsSetCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting and save it",
		Long: fmt.Sprintf(`Set changes one setting and saves the settings file immediately.

Keys: %v`, config.Keys()),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := o.Store()
			if err != nil {
				return err
			}

			settings, err := store.Update(ctx, func(s *config.Settings) error {
				return s.Set(args[0], args[1])
			})
			if err != nil {
				return errors.Errorf("setting %s: %w", args[0], err)
			}

			log.FromContext(ctx).Successf("%s = %v", args[0], settings.Map()[args[0]])
			return nil
		},
	}
}

func newSettingsPathCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := o.Store()
			if err != nil {
				return err
			}
			fmt.Fprintln(o.Out, store.Path())
			return nil
		},
	}
}
