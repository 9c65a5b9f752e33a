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

package vault

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.TestWriter{T: t}).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

func newTestVault(t *testing.T, files map[string]string) *Vault {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	v, err := New(dir)
	require.NoError(t, err, "opening vault")
	return v
}

func TestNew_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.md")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := New(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestClean(t *testing.T) {
	tests := []struct {
		name    string
		logical string
		want    string
		wantErr bool
	}{
		{name: "plain", logical: "replaceRules.md", want: "replaceRules.md"},
		{name: "nested", logical: "notes/rules.md", want: "notes/rules.md"},
		{name: "leading_slash", logical: "/notes/rules.md", want: "notes/rules.md"},
		{name: "dot_segments", logical: "notes/./a/../rules.md", want: "notes/rules.md"},
		{name: "surrounding_space", logical: "  rules.md ", want: "rules.md"},
		{name: "escape", logical: "../secret.md", wantErr: true},
		{name: "empty", logical: "", wantErr: true},
		{name: "root", logical: "/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Clean(tt.logical)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrOutsideVault)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVault_Resolve(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"replaceRules.md":  "\"a\", \"b\"",
		"folder/nested.md": "x",
		"folder/sub/.keep": "",
	})
	ctx := testContext(t)

	full, err := v.Resolve(ctx, "replaceRules.md")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(v.Root(), "replaceRules.md"), full)

	_, err = v.Resolve(ctx, "missing.md")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = v.Resolve(ctx, "folder/sub")
	assert.ErrorIs(t, err, ErrNotDocument, "directories are not documents")
	assert.NotErrorIs(t, err, ErrNotFound, "a directory exists")

	_, err = v.Resolve(ctx, "../outside.md")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVault_ReadWrite(t *testing.T) {
	v := newTestVault(t, map[string]string{"doc.md": "before"})
	ctx := testContext(t)

	got, err := v.Read(ctx, "doc.md")
	require.NoError(t, err)
	assert.Equal(t, "before", got)

	require.NoError(t, os.Chmod(filepath.Join(v.Root(), "doc.md"), 0o600))
	require.NoError(t, v.Write(ctx, "doc.md", "after"))

	got, err = v.Read(ctx, "doc.md")
	require.NoError(t, err)
	assert.Equal(t, "after", got)

	info, err := os.Stat(filepath.Join(v.Root(), "doc.md"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	err = v.Write(ctx, "new.md", "x")
	assert.ErrorIs(t, err, ErrNotFound, "write only replaces existing documents")
}

func TestVault_File(t *testing.T) {
	v := newTestVault(t, map[string]string{"notes/today.md": "hello"})
	ctx := testContext(t)

	f := v.File("notes/today.md")
	assert.Equal(t, "notes/today.md", f.Path())

	got, err := f.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	require.NoError(t, f.SetText(ctx, "bye"))
	got, err = f.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bye", got)
}

func TestVault_Browse(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"replaceRules.md":     "",
		"b/rules.md":          "",
		"a/deeper/rules.md":   "",
		"a/notes.txt":         "",
		"folder.md/inside.md": "",
	})
	ctx := testContext(t)

	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{
			name:    "default_pattern",
			pattern: "",
			want:    []string{"a/deeper/rules.md", "b/rules.md", "folder.md/inside.md", "replaceRules.md"},
		},
		{
			name:    "named_rules_only",
			pattern: "**/rules.md",
			want:    []string{"a/deeper/rules.md", "b/rules.md"},
		},
		{
			name:    "top_level",
			pattern: "*.md",
			want:    []string{"replaceRules.md"},
		},
		{
			name:    "no_matches",
			pattern: "**/*.yaml",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Browse(ctx, tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := v.Browse(ctx, "[unclosed")
	require.Error(t, err)
}

func TestVault_Watch(t *testing.T) {
	v := newTestVault(t, map[string]string{"rules.md": "\"a\", \"b\""})
	ctx, cancel := context.WithCancel(testContext(t))
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- v.Watch(ctx, "rules.md", func() { calls.Add(1) })
	}()

	full := filepath.Join(v.Root(), "rules.md")
	other := filepath.Join(v.Root(), "other.md")
	require.Eventually(t, func() bool {
		_ = os.WriteFile(other, []byte("ignored"), 0o644)
		_ = os.WriteFile(full, []byte("\"a\", \"c\""), 0o644)
		return calls.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
