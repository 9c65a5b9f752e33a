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
	"github.com/walteh/smartreplace/pkg/rules"
)

// 🔄 RuleReplacer applies rules strictly in sequence, each one on the output of all previous ones
type RuleReplacer struct{}

// 🏭 NewRuleReplacer creates a new RuleReplacer
func NewRuleReplacer() *RuleReplacer {
	return &RuleReplacer{}
}

// 📊 AppliedRule records what a single rule did
type AppliedRule struct {
	Rule  rules.Rule
	Count int
}

// ❌ RuleFailure records a rule that was skipped because matching failed
type RuleFailure struct {
	Rule rules.Rule
	Err  error
}

// 📦 ReplacementResult is the outcome of one ReplaceText call
type ReplacementResult struct {
	OriginalContent  string
	ModifiedContent  string
	ReplacementCount int
	WasModified      bool
	Applied          []AppliedRule
	Failed           []RuleFailure
}

// 🎯 ReplaceText applies every rule in order. A rule that fails to match (for
// example on timeout) is recorded in Failed and skipped; the text accumulated
// from earlier rules is kept as is.
func (r *RuleReplacer) ReplaceText(ctx context.Context, text string, set []rules.Rule) *ReplacementResult {
	logger := zerolog.Ctx(ctx)

	result := &ReplacementResult{
		OriginalContent: text,
	}

	current := text
	for _, rule := range set {
		next, count, err := rule.Apply(current)
		if err != nil {
			logger.Warn().Err(err).Int("line", rule.Line).Str("pattern", rule.Pattern).Msg("skipping rule")
			result.Failed = append(result.Failed, RuleFailure{Rule: rule, Err: err})
			continue
		}

		result.Applied = append(result.Applied, AppliedRule{Rule: rule, Count: count})
		result.ReplacementCount += count
		current = next
	}

	result.ModifiedContent = current
	result.WasModified = current != text
	return result
}
