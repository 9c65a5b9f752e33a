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

// LineKind classifies one line of a rules document.
type LineKind int

const (
	LineBlank LineKind = iota
	LineComment
	LineSection
	LineMalformed
	LineInvalidPattern
	LineRule
)

func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineComment:
		return "comment"
	case LineSection:
		return "section"
	case LineMalformed:
		return "malformed"
	case LineInvalidPattern:
		return "invalid-pattern"
	case LineRule:
		return "rule"
	default:
		return "unknown"
	}
}

// Usable reports whether the line produced a rule.
func (k LineKind) Usable() bool { return k == LineRule }

// Ignored reports whether the line is skipped by design (blank, comment or section marker).
func (k LineKind) Ignored() bool {
	return k == LineBlank || k == LineComment || k == LineSection
}

// Problem reports whether the line looked like content but could not become a rule.
func (k LineKind) Problem() bool {
	return k == LineMalformed || k == LineInvalidPattern
}

// 📋 ParsedLine records the decision taken for one source line.
type ParsedLine struct {
	Number int      // 1-based
	Text   string   // trimmed line text
	Kind   LineKind // classification
	Err    error    // set for malformed lines and invalid patterns
}

// 📚 RuleSet is the ordered result of one parse. Rules appear in document order.
type RuleSet struct {
	Rules []Rule
	Lines []ParsedLine
}

// Len returns the number of usable rules.
func (s *RuleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Rules)
}

// Count returns how many lines were classified as kind.
func (s *RuleSet) Count(kind LineKind) int {
	if s == nil {
		return 0
	}
	n := 0
	for _, l := range s.Lines {
		if l.Kind == kind {
			n++
		}
	}
	return n
}

// Problems returns the malformed and invalid-pattern lines in document order.
func (s *RuleSet) Problems() []ParsedLine {
	if s == nil {
		return nil
	}
	var out []ParsedLine
	for _, l := range s.Lines {
		if l.Kind.Problem() {
			out = append(out, l)
		}
	}
	return out
}
