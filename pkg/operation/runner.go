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

package operation

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultJobs bounds how many documents are transformed at once
const DefaultJobs = 4

// 🏃 Runner executes operations
type Runner struct {
	logger *zerolog.Logger
	jobs   int
}

// 🏗️ NewRunner creates a runner with at most jobs operations in flight. Zero or
// less runs everything at once.
func NewRunner(logger *zerolog.Logger, jobs int) *Runner {
	return &Runner{
		logger: logger,
		jobs:   jobs,
	}
}

// 🏃 Run executes every operation and returns their outcomes in input order. A
// failed operation does not stop the others.
func (r *Runner) Run(ctx context.Context, ops []Operation) []Outcome {
	outcomes := make([]Outcome, len(ops))

	var g errgroup.Group
	if r.jobs > 0 {
		g.SetLimit(r.jobs)
	}

	for i, op := range ops {
		i, op := i, op
		g.Go(func() error {
			opCtx := r.logger.With().Str("document", op.Path()).Logger().WithContext(ctx)
			outcomes[i] = op.Execute(opCtx)
			if outcomes[i].Err != nil {
				r.logger.Warn().Err(outcomes[i].Err).Str("document", op.Path()).Msg("operation failed")
			}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// Failed counts the outcomes carrying an error
func Failed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}
