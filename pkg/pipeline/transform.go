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

package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/smartreplace/pkg/config"
	"github.com/walteh/smartreplace/pkg/notify"
	"github.com/walteh/smartreplace/pkg/rules"
	"github.com/walteh/smartreplace/pkg/text"
	"github.com/walteh/smartreplace/pkg/vault"
	"gitlab.com/tozd/go/errors"
)

// StageStatus is what a stage did to the text
type StageStatus string

const (
	StatusChanged   StageStatus = "CHANGED"
	StatusUnchanged StageStatus = "UNCHANGED"
	StatusSkipped   StageStatus = "SKIPPED"
	StatusFailed    StageStatus = "FAILED"
)

// 📊 StageReport records one stage of one invocation
type StageReport struct {
	Name         string
	Status       StageStatus
	Replacements int
	Err          error
}

// 📦 Result is the outcome of one invocation. Text is the only value written
// back to the document.
type Result struct {
	InvocationID string
	Original     string
	Text         string
	RulesPath    string
	Rules        *rules.RuleSet
	Replacement  *text.ReplacementResult
	Stages       []StageReport
	Conditions   []error
}

// Changed reports whether the final text differs from the input
func (r *Result) Changed() bool {
	return r.Text != r.Original
}

// Replacements is the total number of rule replacements made
func (r *Result) Replacements() int {
	if r.Replacement == nil {
		return 0
	}
	return r.Replacement.ReplacementCount
}

// HasCondition reports whether any recorded condition matches target
func (r *Result) HasCondition(target error) bool {
	for _, c := range r.Conditions {
		if errors.Is(c, target) {
			return true
		}
	}
	return false
}

// 🔄 Pipeline runs smart quotes, rule replacement and blank-line removal, in
// that order, over a document. It keeps no state between invocations.
type Pipeline struct {
	source   RuleSource
	notifier Notifier
	replacer *text.RuleReplacer
}

// 🏭 New creates a pipeline reading rules documents from source and reporting
// recovered conditions to notifier
func New(source RuleSource, notifier Notifier) *Pipeline {
	return &Pipeline{
		source:   source,
		notifier: notifier,
		replacer: text.NewRuleReplacer(),
	}
}

// 🎯 Run reads doc, transforms its text with settings and writes the final text
// back when it changed. Only a failure to read or write doc itself is returned;
// everything else is recovered and recorded in the Result.
func (p *Pipeline) Run(ctx context.Context, doc Document, settings config.Settings) (*Result, error) {
	input, err := doc.Text(ctx)
	if err != nil {
		return nil, errors.Errorf("reading document: %w", err)
	}

	result := p.Transform(ctx, input, settings)
	if !result.Changed() {
		return result, nil
	}

	if err := doc.SetText(ctx, result.Text); err != nil {
		return result, errors.Errorf("writing document: %w", err)
	}
	return result, nil
}

// 🎯 Transform applies the enabled stages to input and returns the result. It
// never fails: a rules step that cannot run is skipped and reported.
func (p *Pipeline) Transform(ctx context.Context, input string, settings config.Settings) *Result {
	id := uuid.NewString()
	logger := zerolog.Ctx(ctx).With().Str("invocation", id).Logger()
	ctx = logger.WithContext(ctx)

	result := &Result{
		InvocationID: id,
		Original:     input,
		RulesPath:    strings.TrimSpace(settings.ReplaceRulesPath),
	}

	result.Text = text.Chain(ctx, input,
		p.gate(result, settings.EnableSmartQuotes, text.SmartQuotesStage()),
		p.rulesStage(result, settings),
		p.gate(result, settings.EnableRemoveEmptyLines, text.RemoveEmptyLinesStage()),
	)

	logger.Info().
		Bool("changed", result.Changed()).
		Int("replacements", result.Replacements()).
		Int("conditions", len(result.Conditions)).
		Msg("transform complete")

	return result
}

// gate wraps stage so that it only runs when enabled and records its report
func (p *Pipeline) gate(result *Result, enabled bool, stage text.Stage) text.Stage {
	return text.Stage{Name: stage.Name, Transform: func(ctx context.Context, current string) string {
		if !enabled {
			result.Stages = append(result.Stages, StageReport{Name: stage.Name, Status: StatusSkipped})
			return current
		}

		next := stage.Transform(ctx, current)
		status := StatusUnchanged
		if next != current {
			status = StatusChanged
		}
		result.Stages = append(result.Stages, StageReport{Name: stage.Name, Status: status})
		return next
	}}
}

func (p *Pipeline) rulesStage(result *Result, settings config.Settings) text.Stage {
	return text.Stage{Name: text.StageRules, Transform: func(ctx context.Context, current string) string {
		return p.applyRules(ctx, result, current, settings)
	}}
}

func (p *Pipeline) applyRules(ctx context.Context, result *Result, current string, settings config.Settings) string {
	logger := zerolog.Ctx(ctx)

	fail := func(err error, notice notify.Notice) string {
		logger.Warn().Err(err).Msg("skipping rules")
		result.Conditions = append(result.Conditions, err)
		result.Stages = append(result.Stages, StageReport{Name: text.StageRules, Status: StatusFailed, Err: err})
		p.notifier.Notify(ctx, notice)
		return current
	}

	path := result.RulesPath
	if path == "" {
		return fail(errors.WithStack(ErrConfigurationMissing),
			notify.Notice{Level: notify.LevelWarning, Message: MessageConfigurationMissing})
	}

	content, err := p.source.Read(ctx, path)
	if err != nil {
		if isNotFound(err) {
			return fail(errors.Errorf("%w: %s", ErrSourceNotFound, path),
				notify.Notice{Level: notify.LevelWarning, Message: fmt.Sprintf(MessageSourceNotFound, path), Err: err})
		}
		return fail(errors.Errorf("%w: %s", ErrSourceReadFailure, err.Error()),
			notify.Notice{Level: notify.LevelError, Message: MessageSourceReadFailure, Err: err})
	}

	// lenient parsing never fails
	set, _ := rules.Parse(ctx, content, rules.WithTimeout(settings.RuleTimeout))
	result.Rules = set

	for _, line := range set.Lines {
		if line.Kind == rules.LineInvalidPattern {
			result.Conditions = append(result.Conditions, line.Err)
		}
	}

	replaced := p.replacer.ReplaceText(ctx, current, set.Rules)
	result.Replacement = replaced

	var stageErr error
	if len(replaced.Failed) > 0 {
		lines := make([]string, 0, len(replaced.Failed))
		for _, f := range replaced.Failed {
			result.Conditions = append(result.Conditions, errors.Errorf("%w: line %d: %s", ErrRuleFailure, f.Rule.Line, f.Err.Error()))
			lines = append(lines, strconv.Itoa(f.Rule.Line))
		}
		joined := strings.Join(lines, ", ")
		stageErr = errors.Errorf("%w: skipped line(s) %s", ErrRuleFailure, joined)
		p.notifier.Notify(ctx, notify.Notice{
			Level:   notify.LevelWarning,
			Message: fmt.Sprintf(MessageRuleFailure, joined),
			Err:     replaced.Failed[0].Err,
		})
	}

	status := StatusUnchanged
	if replaced.WasModified {
		status = StatusChanged
	}
	result.Stages = append(result.Stages, StageReport{
		Name:         text.StageRules,
		Status:       status,
		Replacements: replaced.ReplacementCount,
		Err:          stageErr,
	})

	logger.Debug().
		Str("rules_path", path).
		Int("rules", set.Len()).
		Int("replacements", replaced.ReplacementCount).
		Msg("applied rules")

	return replaced.ModifiedContent
}

func isNotFound(err error) bool {
	return errors.Is(err, vault.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, ErrSourceNotFound)
}
