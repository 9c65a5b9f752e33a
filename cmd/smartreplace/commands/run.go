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

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/smartreplace/cmd/smartreplace/opts"
	"github.com/walteh/smartreplace/pkg/log"
	"github.com/walteh/smartreplace/pkg/operation"
	"github.com/walteh/smartreplace/pkg/pipeline"
	"gitlab.com/tozd/go/errors"
)

type runOpts struct {
	dryRun bool
	ignore []string
	jobs   int
}

// 🎯 NewRunCmd creates the run command
func NewRunCmd(o *opts.RootOpts) *cobra.Command {
	ro := &runOpts{}

	cmd := &cobra.Command{
		Use:   "run <document>...",
		Short: "Smart replace, remove empty lines and smart quotes",
		Long: `Run transforms each document in the vault in place.
For every document it will:
1. Convert straight quotes to smart quotes (if enabled)
2. Apply the rules document's replacements, in order
3. Remove whitespace-only lines (if enabled)

A missing or unreadable rules document is reported and skipped; the other
steps still run. Each document is an independent transform.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "run").Logger().WithContext(cmd.Context())
			return runDocuments(ctx, o, ro, args)
		},
	}

	cmd.Flags().BoolVar(&ro.dryRun, "dry-run", false, "print a diff instead of writing documents")
	cmd.Flags().StringSliceVar(&ro.ignore, "ignore", nil, "glob patterns of documents to leave alone")
	cmd.Flags().IntVarP(&ro.jobs, "jobs", "j", operation.DefaultJobs, "documents transformed at once")

	return cmd
}

func runDocuments(ctx context.Context, o *opts.RootOpts, ro *runOpts, docs []string) error {
	for _, pattern := range ro.ignore {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid ignore pattern %q", pattern)
		}
	}

	notifier := o.Notifier()
	settings, _ := o.Settings(ctx, notifier)

	v, err := o.Vault()
	if err != nil {
		return err
	}

	console := log.FromContext(ctx)
	p := pipeline.New(v, notifier)

	var ops []operation.Operation
	for _, doc := range docs {
		if ignored(ro.ignore, doc) {
			console.Infof("ignoring %s", doc)
			continue
		}
		if ro.dryRun {
			ops = append(ops, &operation.PreviewOperation{Pipeline: p, Vault: v, Document: doc, Settings: settings})
		} else {
			ops = append(ops, &operation.TransformOperation{Pipeline: p, Vault: v, Document: doc, Settings: settings})
		}
	}

	outcomes := operation.NewRunner(zerolog.Ctx(ctx), ro.jobs).Run(ctx, ops)

	console.Header(fmt.Sprintf("rules • %s", settings.ReplaceRulesPath))

	for _, out := range outcomes {
		console.StartDocument(ctx, log.DocumentOperation{Path: out.Path, Rules: settings.ReplaceRulesPath, DryRun: ro.dryRun})
		if out.Err != nil {
			console.Errorf("%s: %v", out.Path, out.Err)
			console.EndDocument(ctx)
			continue
		}
		for _, s := range out.Result.Stages {
			op := log.StageOperation{Name: s.Name, Status: string(s.Status), Replacements: s.Replacements}
			if s.Err != nil {
				op.Detail = s.Err.Error()
			}
			console.LogStage(ctx, op)
		}
		if out.Diff != "" {
			fmt.Fprintln(o.Out, out.Diff)
		}
		console.EndDocument(ctx)
	}

	if failed := operation.Failed(outcomes); failed > 0 {
		return errors.Errorf("%d of %d document(s) failed", failed, len(outcomes))
	}
	return nil
}

func ignored(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}
