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

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/walteh/smartreplace/pkg/config"
	"github.com/walteh/smartreplace/pkg/pipeline"
	"github.com/walteh/smartreplace/pkg/vault"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is one unit of work over one document
type Operation interface {
	// Path is the document's logical path in the vault
	Path() string
	// Execute runs the operation; failures are carried in the Outcome
	Execute(ctx context.Context) Outcome
}

// 📦 Outcome is what an operation produced
type Outcome struct {
	Path   string
	Result *pipeline.Result
	Diff   string
	Err    error
}

// Changed reports whether the document's text was (or would be) changed
func (o Outcome) Changed() bool {
	return o.Result != nil && o.Result.Changed()
}

// 🔄 TransformOperation rewrites a document in place
type TransformOperation struct {
	Pipeline *pipeline.Pipeline
	Vault    *vault.Vault
	Document string
	Settings config.Settings
}

func (op *TransformOperation) Path() string { return op.Document }

func (op *TransformOperation) Execute(ctx context.Context) Outcome {
	result, err := op.Pipeline.Run(ctx, op.Vault.File(op.Document), op.Settings)
	return Outcome{Path: op.Document, Result: result, Err: err}
}

// 👀 PreviewOperation transforms a document without writing it and renders a
// diff of the change
type PreviewOperation struct {
	Pipeline *pipeline.Pipeline
	Vault    *vault.Vault
	Document string
	Settings config.Settings
}

func (op *PreviewOperation) Path() string { return op.Document }

func (op *PreviewOperation) Execute(ctx context.Context) Outcome {
	input, err := op.Vault.Read(ctx, op.Document)
	if err != nil {
		return Outcome{Path: op.Document, Err: errors.Errorf("reading document: %w", err)}
	}

	result := op.Pipeline.Transform(ctx, input, op.Settings)
	out := Outcome{Path: op.Document, Result: result}
	if result.Changed() {
		out.Diff = Diff(result.Original, result.Text)
	}
	return out
}

// 📝 Diff renders the difference between two texts for the terminal
func Diff(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.DiffPrettyText(diffs)
}
