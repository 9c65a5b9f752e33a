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
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/smartreplace/cmd/smartreplace/opts"
	"github.com/walteh/smartreplace/pkg/log"
	"github.com/walteh/smartreplace/pkg/rules"
	"github.com/walteh/smartreplace/pkg/vault"
	"gitlab.com/tozd/go/errors"
)

// 🎯 NewRulesCmd creates the rules command group
func NewRulesCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect rules documents",
	}

	cmd.AddCommand(
		newRulesCheckCmd(o),
		newRulesBrowseCmd(o),
	)

	return cmd
}

func newRulesCheckCmd(o *opts.RootOpts) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "check [rules-document]",
		Short: "Show how every line of a rules document is read",
		Long: `Check parses a rules document strictly and prints each line's kind.
Malformed lines and patterns that do not compile are reported; run skips
them silently. Without an argument the configured rules document is checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "rules check").Logger().WithContext(cmd.Context())

			settings, _ := o.Settings(ctx, o.Notifier())
			path := settings.ReplaceRulesPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return errors.New("no rules document given and none configured")
			}

			v, err := o.Vault()
			if err != nil {
				return err
			}

			check := func() error {
				return checkRules(ctx, o, v, path, settings.RuleTimeout)
			}

			if !watch {
				return check()
			}

			console := log.FromContext(ctx)
			if err := check(); err != nil {
				console.Error(err.Error())
			}
			console.Infof("watching %s, press Ctrl+C to stop", path)
			return v.Watch(ctx, path, func() {
				console.LogNewline()
				if err := check(); err != nil {
					console.Error(err.Error())
				}
			})
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "check again whenever the document changes")

	return cmd
}

func checkRules(ctx context.Context, o *opts.RootOpts, v *vault.Vault, path string, timeout time.Duration) error {
	content, err := v.Read(ctx, path)
	if err != nil {
		return errors.Errorf("reading rules document: %w", err)
	}

	set, parseErr := rules.Parse(ctx, content, rules.WithPolicy(rules.Strict), rules.WithTimeout(timeout))

	data := [][]string{{"Line", "Kind", "Text", "Problem"}}
	for _, line := range set.Lines {
		if line.Kind == rules.LineBlank {
			continue
		}
		problem := ""
		if line.Err != nil {
			problem = line.Err.Error()
		}
		data = append(data, []string{strconv.Itoa(line.Number), line.Kind.String(), line.Text, problem})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(o.Out).Render(); err != nil {
		return errors.Errorf("rendering table: %w", err)
	}

	if parseErr != nil {
		return errors.Errorf("checking %s: %w", path, parseErr)
	}

	log.FromContext(ctx).Successf("%s: %d rule(s), %d comment(s), %d section(s)",
		path, set.Len(), set.Count(rules.LineComment), set.Count(rules.LineSection))
	return nil
}

func newRulesBrowseCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse [glob]",
		Short: "List documents that could serve as the rules document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pattern := vault.DefaultBrowsePattern
			if len(args) == 1 {
				pattern = args[0]
			}

			v, err := o.Vault()
			if err != nil {
				return err
			}

			matches, err := v.Browse(ctx, pattern)
			if err != nil {
				return err
			}

			if len(matches) == 0 {
				log.FromContext(ctx).Warningf("no documents match %s", pattern)
				return nil
			}

			for _, m := range matches {
				fmt.Fprintln(o.Out, m)
			}
			return nil
		},
	}

	return cmd
}
