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
	"strconv"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrMalformedLine marks a non-blank line that is neither a comment, a section marker nor a rule.
	ErrMalformedLine = errors.Base("malformed rule line")

	// ErrInvalidPattern marks a rule whose pattern does not compile.
	ErrInvalidPattern = errors.Base("invalid rule pattern")
)

// 🔄 Rule is a single pattern/replacement pair read from a rules document.
type Rule struct {
	Pattern     string // expression source as written in the document
	Replacement string // replacement text with \n sequences expanded
	Line        int    // 1-based line number in the source document, 0 if built in code

	re    *regexp2.Regexp
	named bool // pattern declares at least one named group
}

// 🏭 NewRule compiles pattern with global, multiline matching. A zero timeout
// lets matching run to completion.
func NewRule(pattern, replacement string, timeout time.Duration) (Rule, error) {
	re, err := regexp2.Compile(pattern, regexp2.ECMAScript|regexp2.Multiline)
	if err != nil {
		return Rule{}, errors.Errorf("compiling %q: %w: %s", pattern, ErrInvalidPattern, err.Error())
	}
	if timeout > 0 {
		re.MatchTimeout = timeout
	}
	named := false
	for _, name := range re.GetGroupNames() {
		if _, err := strconv.Atoi(name); err != nil {
			named = true
			break
		}
	}
	return Rule{
		Pattern:     pattern,
		Replacement: replacement,
		re:          re,
		named:       named,
	}, nil
}

// 📝 ExpandEscapes turns every literal two-character \n into a newline.
func ExpandEscapes(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

// 🎯 Apply replaces every non-overlapping match in text and reports how many were replaced.
// A rule that matches nothing returns text untouched.
func (r Rule) Apply(text string) (string, int, error) {
	if r.re == nil {
		return text, 0, errors.Errorf("rule %q was not compiled", r.Pattern)
	}

	count := 0
	m, err := r.re.FindStringMatch(text)
	for m != nil && err == nil {
		count++
		m, err = r.re.FindNextMatch(m)
	}
	if err != nil {
		return text, 0, errors.Errorf("matching %q: %w", r.Pattern, err)
	}
	if count == 0 {
		return text, 0, nil
	}

	var input []rune
	if strings.ContainsAny(r.Replacement, "`'") {
		input = []rune(text)
	}
	out, err := r.re.ReplaceFunc(text, func(m regexp2.Match) string {
		return r.expand(&m, input)
	}, -1, -1)
	if err != nil {
		return text, 0, errors.Errorf("replacing %q: %w", r.Pattern, err)
	}
	return out, count, nil
}

// expand renders the replacement for one match with String.prototype.replace
// substitutions: $$, $&, $`, $', $n, $nn and $<name>. Any other $ is literal.
func (r Rule) expand(m *regexp2.Match, input []rune) string {
	repl := r.Replacement
	if !strings.Contains(repl, "$") {
		return repl
	}

	groups := m.GroupCount() - 1
	var b strings.Builder
	for i := 0; i < len(repl); i++ {
		c := repl[i]
		if c != '$' || i+1 == len(repl) {
			b.WriteByte(c)
			continue
		}

		switch next := repl[i+1]; {
		case next == '$':
			b.WriteByte('$')
			i++
		case next == '&':
			b.WriteString(m.String())
			i++
		case next == '`':
			b.WriteString(string(input[:m.Index]))
			i++
		case next == '\'':
			b.WriteString(string(input[m.Index+m.Length:]))
			i++
		case isDigit(next):
			n, width := groupRef(repl[i+1:], groups)
			if width == 0 {
				b.WriteByte('$')
				continue
			}
			if g := m.GroupByNumber(n); g != nil {
				b.WriteString(g.String())
			}
			i += width
		case next == '<' && r.named:
			end := strings.IndexByte(repl[i+2:], '>')
			if end < 0 {
				b.WriteByte('$')
				continue
			}
			if g := m.GroupByName(repl[i+2 : i+2+end]); g != nil {
				b.WriteString(g.String())
			}
			i += 2 + end
		default:
			b.WriteByte('$')
		}
	}
	return b.String()
}

// groupRef reads a one or two digit group reference at the start of s. The
// two-digit form wins when it names an existing group; $0 and references past
// the last group are not references (width 0).
func groupRef(s string, groups int) (n, width int) {
	if len(s) >= 2 && isDigit(s[1]) {
		if nn := int(s[0]-'0')*10 + int(s[1]-'0'); nn >= 1 && nn <= groups {
			return nn, 2
		}
	}
	if d := int(s[0] - '0'); d >= 1 && d <= groups {
		return d, 1
	}
	return 0, 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// String renders the rule the way it is written in a rules document.
func (r Rule) String() string {
	return `"` + r.Pattern + `", "` + strings.ReplaceAll(r.Replacement, "\n", `\n`) + `"`
}
