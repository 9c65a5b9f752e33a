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

package rules

import (
	"context"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	commentPrefix = ";"
	sectionPrefix = "=="
)

// ruleLine is the structural form of a rule: "<pattern>", "<replacement>"
var ruleLine = regexp2.MustCompile(`^"(.*?)",\s*"(.*?)"$`, regexp2.ECMAScript)

// Policy decides what a parse does with lines that look like content but do not yield a rule.
type Policy int

const (
	// Lenient drops malformed lines and invalid patterns and keeps every usable rule.
	// Commented or half-written rule files stay usable under this policy.
	Lenient Policy = iota

	// Strict still classifies every line but fails the parse when any line is a problem.
	Strict
)

func (p Policy) String() string {
	if p == Strict {
		return "strict"
	}
	return "lenient"
}

// Options tunes a parse.
type Options struct {
	Policy  Policy
	Timeout time.Duration // per-rule match timeout, none when zero
}

// Option mutates Options.
type Option func(*Options)

// WithPolicy selects the skip policy.
func WithPolicy(p Policy) Option {
	return func(o *Options) { o.Policy = p }
}

// WithTimeout sets the match timeout given to every compiled rule.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.Timeout = d }
}

// 🔍 ClassifyLine decides what a single trimmed line is. For LineRule candidates it
// also returns the raw pattern and the escape-expanded replacement; pattern
// compilation is left to the caller.
func ClassifyLine(line string) (kind LineKind, pattern, replacement string) {
	switch {
	case line == "":
		return LineBlank, "", ""
	case strings.HasPrefix(line, commentPrefix):
		return LineComment, "", ""
	case strings.HasPrefix(line, sectionPrefix):
		return LineSection, "", ""
	}

	m, err := ruleLine.FindStringMatch(line)
	if err != nil || m == nil {
		return LineMalformed, "", ""
	}
	return LineRule, m.GroupByNumber(1).String(), ExpandEscapes(m.GroupByNumber(2).String())
}

// 📝 Parse turns a rules document into a RuleSet. Lines are split on "\n" and trimmed.
// Blank lines, ";" comments and "==" section markers are ignored. A line that fails
// the structural form or whose pattern does not compile affects only itself.
//
// Under Lenient the returned error is always nil. Under Strict the full RuleSet is
// still returned alongside an error describing the first problem line.
func Parse(ctx context.Context, content string, opts ...Option) (*RuleSet, error) {
	o := Options{Policy: Lenient}
	for _, opt := range opts {
		opt(&o)
	}

	logger := zerolog.Ctx(ctx)
	set := &RuleSet{}

	for i, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		parsed := ParsedLine{Number: i + 1, Text: line}

		kind, pattern, replacement := ClassifyLine(line)
		parsed.Kind = kind

		switch kind {
		case LineMalformed:
			parsed.Err = errors.Errorf("line %d: %w", parsed.Number, ErrMalformedLine)
			logger.Debug().Int("line", parsed.Number).Str("text", line).Msg("skipping malformed rule line")
		case LineRule:
			rule, err := NewRule(pattern, replacement, o.Timeout)
			if err != nil {
				parsed.Kind = LineInvalidPattern
				parsed.Err = errors.Errorf("line %d: %w", parsed.Number, err)
				logger.Warn().Err(err).Int("line", parsed.Number).Msg("skipping rule with invalid pattern")
				break
			}
			rule.Line = parsed.Number
			set.Rules = append(set.Rules, rule)
		}

		set.Lines = append(set.Lines, parsed)
	}

	logger.Debug().
		Int("rules", set.Len()).
		Int("malformed", set.Count(LineMalformed)).
		Int("invalid", set.Count(LineInvalidPattern)).
		Str("policy", o.Policy.String()).
		Msg("parsed rules document")

	if o.Policy == Strict {
		if problems := set.Problems(); len(problems) > 0 {
			return set, errors.Errorf("%d problem line(s), first: %w", len(problems), problems[0].Err)
		}
	}

	return set, nil
}
