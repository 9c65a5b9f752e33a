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
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/smartreplace/pkg/config"
	"github.com/walteh/smartreplace/pkg/notify"
	"github.com/walteh/smartreplace/pkg/rules"
	"github.com/walteh/smartreplace/pkg/text"
	"github.com/walteh/smartreplace/pkg/vault"
	"gitlab.com/tozd/go/errors"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.TestWriter{T: t})
	return logger.WithContext(context.Background())
}

func noticeWith(level notify.Level, message string) interface{} {
	return mock.MatchedBy(func(n notify.Notice) bool {
		return n.Level == level && n.Message == message
	})
}

func rulesOnly() config.Settings {
	s := config.Defaults()
	s.EnableSmartQuotes = false
	s.EnableRemoveEmptyLines = false
	return s
}

func TestPipeline_Transform(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		settings       config.Settings
		setup          func(src *MockRuleSource, n *MockNotifier)
		want           string
		wantConditions []error
		check          func(t *testing.T, r *Result)
	}{
		{
			name:     "full_scenario_missing_rules_document",
			input:    "\"Hello\" there\n\n'world'",
			settings: config.Defaults(),
			setup: func(src *MockRuleSource, n *MockNotifier) {
				src.EXPECT().Read(mock.Anything, "replaceRules.md").Return("", errors.WithStack(vault.ErrNotFound))
				n.EXPECT().Notify(mock.Anything, noticeWith(notify.LevelWarning, "Smart Replace: File not found - replaceRules.md")).Return()
			},
			want:           "“Hello” there\n‘world’",
			wantConditions: []error{ErrSourceNotFound},
		},
		{
			name:     "full_scenario_empty_rules_document",
			input:    "\"Hello\" there\n\n'world'",
			settings: config.Defaults(),
			setup: func(src *MockRuleSource, n *MockNotifier) {
				src.EXPECT().Read(mock.Anything, "replaceRules.md").Return("", nil)
			},
			want: "“Hello” there\n‘world’",
			check: func(t *testing.T, r *Result) {
				assert.Equal(t, 0, r.Rules.Len(), "empty document should give no rules")
				assert.Equal(t, 0, r.Replacements())
			},
		},
		{
			name:     "rules_apply_in_document_order",
			input:    "a",
			settings: rulesOnly(),
			setup: func(src *MockRuleSource, n *MockNotifier) {
				src.EXPECT().Read(mock.Anything, "replaceRules.md").Return("\"a\", \"b\"\n\"b\", \"c\"\n", nil)
			},
			want: "c",
			check: func(t *testing.T, r *Result) {
				assert.Equal(t, 2, r.Replacements(), "each rule should replace once")
			},
		},
		{
			name:     "comments_and_sections_only",
			input:    "x\n\ny",
			settings: rulesOnly(),
			setup: func(src *MockRuleSource, n *MockNotifier) {
				src.EXPECT().Read(mock.Anything, "replaceRules.md").Return("; comment\n== Section ==\n\n", nil)
			},
			want: "x\n\ny",
			check: func(t *testing.T, r *Result) {
				assert.Equal(t, 0, r.Rules.Len(), "no usable rules expected")
				assert.False(t, r.Changed())
			},
		},
		{
			name:     "escaped_newline_in_replacement",
			input:    "foo",
			settings: rulesOnly(),
			setup: func(src *MockRuleSource, n *MockNotifier) {
				src.EXPECT().Read(mock.Anything, "replaceRules.md").Return(`"foo", "bar\nbaz"`, nil)
			},
			want: "bar\nbaz",
		},
		{
			name:  "configuration_missing",
			input: "'a'\n\n",
			settings: config.Settings{
				EnableSmartQuotes:      true,
				EnableRemoveEmptyLines: true,
				RuleTimeout:            config.DefaultRuleTimeout,
			},
			setup: func(src *MockRuleSource, n *MockNotifier) {
				n.EXPECT().Notify(mock.Anything, noticeWith(notify.LevelWarning, "Smart Replace: No replacement rules file set.")).Return()
			},
			want:           "‘a’\n",
			wantConditions: []error{ErrConfigurationMissing},
		},
		{
			name:     "whitespace_rules_path_is_missing",
			input:    "a",
			settings: func() config.Settings { s := rulesOnly(); s.ReplaceRulesPath = "  "; return s }(),
			setup: func(src *MockRuleSource, n *MockNotifier) {
				n.EXPECT().Notify(mock.Anything, noticeWith(notify.LevelWarning, MessageConfigurationMissing)).Return()
			},
			want:           "a",
			wantConditions: []error{ErrConfigurationMissing},
		},
		{
			name:     "read_failure",
			input:    "\"q\"",
			settings: config.Defaults(),
			setup: func(src *MockRuleSource, n *MockNotifier) {
				src.EXPECT().Read(mock.Anything, "replaceRules.md").Return("", errors.New("permission denied"))
				n.EXPECT().Notify(mock.Anything, noticeWith(notify.LevelError, "Smart Replace: Error reading rules file.")).Return()
			},
			want:           "“q”",
			wantConditions: []error{ErrSourceReadFailure},
		},
		{
			name:     "invalid_pattern_is_isolated",
			input:    "a(",
			settings: rulesOnly(),
			setup: func(src *MockRuleSource, n *MockNotifier) {
				src.EXPECT().Read(mock.Anything, "replaceRules.md").Return("\"(\", \"x\"\n\"a\", \"b\"", nil)
			},
			want:           "b(",
			wantConditions: []error{rules.ErrInvalidPattern},
			check: func(t *testing.T, r *Result) {
				assert.Equal(t, 1, r.Rules.Len(), "only the valid rule should be kept")
			},
		},
		{
			name:     "rules_run_after_quotes",
			input:    `"hi"`,
			settings: config.Defaults(),
			setup: func(src *MockRuleSource, n *MockNotifier) {
				src.EXPECT().Read(mock.Anything, "replaceRules.md").Return(`"“", "<<"`, nil)
			},
			want: "<<hi”",
		},
		{
			name:     "blank_lines_removed_after_rules",
			input:    "a\nb",
			settings: config.Defaults(),
			setup: func(src *MockRuleSource, n *MockNotifier) {
				src.EXPECT().Read(mock.Anything, "replaceRules.md").Return(`"\n", "\n\n"`, nil)
			},
			want: "a\nb",
		},
		{
			name:     "custom_rules_path",
			input:    "cat",
			settings: func() config.Settings { s := rulesOnly(); s.ReplaceRulesPath = " rules/animals.md "; return s }(),
			setup: func(src *MockRuleSource, n *MockNotifier) {
				src.EXPECT().Read(mock.Anything, "rules/animals.md").Return(`"cat", "dog"`, nil)
			},
			want: "dog",
			check: func(t *testing.T, r *Result) {
				assert.Equal(t, "rules/animals.md", r.RulesPath, "path should be trimmed")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewMockRuleSource(t)
			n := NewMockNotifier(t)
			if tt.setup != nil {
				tt.setup(src, n)
			}

			r := New(src, n).Transform(testContext(t), tt.input, tt.settings)

			assert.Equal(t, tt.want, r.Text, "transformed text should match")
			assert.Equal(t, tt.input, r.Original, "original should be kept")
			assert.NotEmpty(t, r.InvocationID, "invocation id should be set")
			require.Len(t, r.Conditions, len(tt.wantConditions), "conditions should match")
			for _, want := range tt.wantConditions {
				assert.True(t, r.HasCondition(want), "should report %v", want)
			}
			if tt.check != nil {
				tt.check(t, r)
			}
		})
	}
}

func TestPipeline_StageReports(t *testing.T) {
	src := NewMockRuleSource(t)
	src.EXPECT().Read(mock.Anything, "replaceRules.md").Return(`"x", "y"`, nil)

	settings := config.Defaults()
	settings.EnableRemoveEmptyLines = false

	r := New(src, NewMockNotifier(t)).Transform(testContext(t), `"x"`, settings)

	require.Len(t, r.Stages, 3)
	assert.Equal(t, StageReport{Name: text.StageSmartQuotes, Status: StatusChanged}, r.Stages[0])
	assert.Equal(t, StageReport{Name: text.StageRules, Status: StatusChanged, Replacements: 1}, r.Stages[1])
	assert.Equal(t, StageReport{Name: text.StageRemoveEmptyLines, Status: StatusSkipped}, r.Stages[2])
	assert.Equal(t, "“y”", r.Text)
}

func TestPipeline_FailedRulesStage(t *testing.T) {
	n := NewMockNotifier(t)
	n.EXPECT().Notify(mock.Anything, mock.Anything).Return()

	settings := config.Defaults()
	settings.ReplaceRulesPath = ""

	r := New(NewMockRuleSource(t), n).Transform(testContext(t), "plain", settings)

	require.Len(t, r.Stages, 3)
	assert.Equal(t, StatusFailed, r.Stages[1].Status)
	assert.ErrorIs(t, r.Stages[1].Err, ErrConfigurationMissing)
	assert.Equal(t, StatusUnchanged, r.Stages[0].Status)
	assert.Equal(t, StatusUnchanged, r.Stages[2].Status)
	assert.Nil(t, r.Rules)
	assert.Equal(t, 0, r.Replacements())
}

func TestPipeline_RuleTimeoutIsNotified(t *testing.T) {
	src := NewMockRuleSource(t)
	src.EXPECT().Read(mock.Anything, "replaceRules.md").Return("\"(a+)+$\", \"x\"\n\"foo\", \"bar\"\n", nil)

	n := NewMockNotifier(t)
	n.EXPECT().Notify(mock.Anything, noticeWith(notify.LevelWarning, "Smart Replace: Skipped rule(s) that failed to match on line(s) 1.")).Return().Once()

	settings := rulesOnly()
	settings.RuleTimeout = time.Millisecond

	input := strings.Repeat("a", 64) + "!\nfoo"
	r := New(src, n).Transform(testContext(t), input, settings)

	assert.Equal(t, strings.Repeat("a", 64)+"!\nbar", r.Text, "later rules should still apply")
	assert.True(t, r.HasCondition(ErrRuleFailure), "skipped rule should be a condition")

	require.Len(t, r.Stages, 3)
	assert.Equal(t, StatusChanged, r.Stages[1].Status)
	assert.Equal(t, 1, r.Stages[1].Replacements)
	require.Error(t, r.Stages[1].Err, "rules stage should carry the skipped rule")
	assert.ErrorIs(t, r.Stages[1].Err, ErrRuleFailure)
	assert.Contains(t, r.Stages[1].Err.Error(), "line(s) 1")
}

type memDocument struct {
	text    string
	readErr error
	setErr  error
	writes  []string
}

func (d *memDocument) Text(ctx context.Context) (string, error) {
	return d.text, d.readErr
}

func (d *memDocument) SetText(ctx context.Context, text string) error {
	if d.setErr != nil {
		return d.setErr
	}
	d.writes = append(d.writes, text)
	d.text = text
	return nil
}

func TestPipeline_Run(t *testing.T) {
	tests := []struct {
		name       string
		doc        *memDocument
		wantErr    bool
		wantResult bool
		wantWrites []string
	}{
		{
			name:       "writes_final_text_once",
			doc:        &memDocument{text: "\"a\"\n\n'b'"},
			wantResult: true,
			wantWrites: []string{"“a”\n‘b’"},
		},
		{
			name:       "unchanged_text_is_not_written",
			doc:        &memDocument{text: "plain\n"},
			wantResult: true,
		},
		{
			name:    "document_read_failure",
			doc:     &memDocument{readErr: errors.New("closed")},
			wantErr: true,
		},
		{
			name:       "document_write_failure",
			doc:        &memDocument{text: `"a"`, setErr: errors.New("read only")},
			wantErr:    true,
			wantResult: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewMockRuleSource(t)
			src.EXPECT().Read(mock.Anything, "replaceRules.md").Return("", nil).Maybe()

			r, err := New(src, NewMockNotifier(t)).Run(testContext(t), tt.doc, config.Defaults())
			if tt.wantErr {
				require.Error(t, err, "should error")
			} else {
				require.NoError(t, err, "should not error")
			}
			assert.Equal(t, tt.wantResult, r != nil, "result presence should match")
			assert.Equal(t, tt.wantWrites, tt.doc.writes, "writes should match")
		})
	}
}

func TestPipeline_RunWithVault(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "notes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "replaceRules.md"), []byte(`; typography
== Dashes ==
"--", "–"
"\.\.\.", "…"
not a rule
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes", "today.md"), []byte("She said \"wait...\" -- then left.\n\n\nDone.\n"), 0o644))

	v, err := vault.New(root)
	require.NoError(t, err)

	recorder := notify.NewRecorder()
	r, err := New(v, recorder).Run(ctx, v.File("notes/today.md"), config.Defaults())
	require.NoError(t, err)

	assert.Empty(t, recorder.Notices(), "no notices expected")
	assert.Empty(t, r.Conditions)
	assert.Equal(t, 2, r.Replacements())

	got, err := v.Read(ctx, "notes/today.md")
	require.NoError(t, err)
	assert.Equal(t, "She said “wait…” – then left.\nDone.\n", got)
}

func TestPipeline_RunWithVaultMissingRules(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "doc.md"), []byte("'x'\n\n"), 0o644))

	v, err := vault.New(root)
	require.NoError(t, err)

	recorder := notify.NewRecorder()
	r, err := New(v, recorder).Run(ctx, v.File("doc.md"), config.Defaults())
	require.NoError(t, err)

	assert.Equal(t, []string{"Smart Replace: File not found - replaceRules.md"}, recorder.Messages())
	assert.True(t, r.HasCondition(ErrSourceNotFound))
	assert.False(t, r.HasCondition(vault.ErrNotFound), "vault error should be replaced by the pipeline condition")
	assert.Equal(t, "‘x’\n", r.Text)
}

func TestPipeline_RunWithVaultRulesDirectory(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "doc.md"), []byte("'x'\n\n"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "rules"), 0o755))

	v, err := vault.New(root)
	require.NoError(t, err)

	settings := config.Defaults()
	settings.ReplaceRulesPath = "rules"

	recorder := notify.NewRecorder()
	r, err := New(v, recorder).Run(ctx, v.File("doc.md"), settings)
	require.NoError(t, err)

	assert.Equal(t, []string{"Smart Replace: Error reading rules file."}, recorder.Messages())
	assert.True(t, r.HasCondition(ErrSourceReadFailure), "a folder should be a read failure")
	assert.False(t, r.HasCondition(ErrSourceNotFound))
	assert.Equal(t, "‘x’\n", r.Text)
}

func TestPipeline_IndependentInvocations(t *testing.T) {
	ctx := testContext(t)
	p := New(staticSource(`"a", "b"`), notify.NewRecorder())

	const n = 16
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := p.Transform(ctx, "aaa", rulesOnly())
			assert.Equal(t, "bbb", r.Text)
			ids[i] = r.InvocationID
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, id := range ids {
		assert.False(t, seen[id], "invocation ids should be unique")
		seen[id] = true
	}
}

type staticSource string

func (s staticSource) Read(ctx context.Context, path string) (string, error) {
	return string(s), nil
}

func TestLoadSettings(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		loader := &MockSettingsLoader{}
		loader.Test(t)
		want := rulesOnly()
		loader.On("Load", mock.Anything).Return(want, nil)

		got, err := LoadSettings(testContext(t), loader, NewMockNotifier(t))
		require.NoError(t, err)
		assert.Equal(t, want, got)
		loader.AssertExpectations(t)
	})

	t.Run("failure_falls_back_to_defaults", func(t *testing.T) {
		loader := &MockSettingsLoader{}
		loader.Test(t)
		loader.On("Load", mock.Anything).Return(config.Settings{}, errors.New("bad yaml"))

		n := NewMockNotifier(t)
		n.EXPECT().Notify(mock.Anything, noticeWith(notify.LevelError, "Smart Replace: Failed to load settings.")).Return()

		got, err := LoadSettings(testContext(t), loader, n)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSettingsLoadFailure)
		assert.Contains(t, err.Error(), "bad yaml")
		assert.Equal(t, config.Defaults(), got, "should fall back to defaults")
	})

	t.Run("failure_keeps_loader_fallback", func(t *testing.T) {
		loader := &MockSettingsLoader{}
		loader.Test(t)
		fallback := rulesOnly()
		loader.On("Load", mock.Anything).Return(fallback, errors.New("bad env"))

		recorder := notify.NewRecorder()
		got, err := LoadSettings(testContext(t), loader, recorder)
		require.Error(t, err)
		assert.Equal(t, fallback, got)
		assert.Equal(t, []string{MessageSettingsLoadFailure}, recorder.Messages())
	})
}
