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

package text

import (
	"context"

	"github.com/rs/zerolog"
)

// Stage names.
const (
	StageRules            = "rules"
	StageRemoveEmptyLines = "remove-empty-lines"
	StageSmartQuotes      = "smart-quotes"
)

// 🧱 Stage is one named text-to-text transform. Every stage takes the full text and
// returns the full text, so stages can be chained, reordered and tested alone.
type Stage struct {
	Name      string
	Transform func(ctx context.Context, text string) string
}

// SmartQuotesStage wraps SmartQuotes
func SmartQuotesStage() Stage {
	return Stage{Name: StageSmartQuotes, Transform: func(_ context.Context, text string) string {
		return SmartQuotes(text)
	}}
}

// RemoveEmptyLinesStage wraps RemoveEmptyLines
func RemoveEmptyLinesStage() Stage {
	return Stage{Name: StageRemoveEmptyLines, Transform: func(_ context.Context, text string) string {
		return RemoveEmptyLines(text)
	}}
}

// 🔗 Chain runs stages in order, each on the output of the previous one.
func Chain(ctx context.Context, text string, stages ...Stage) string {
	logger := zerolog.Ctx(ctx)
	for _, s := range stages {
		next := s.Transform(ctx, text)
		logger.Debug().Str("stage", s.Name).Bool("changed", next != text).Msg("stage done")
		text = next
	}
	return text
}
