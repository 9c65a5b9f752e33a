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
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultBrowsePattern matches every markdown document in a vault.
const DefaultBrowsePattern = "**/*.md"

var (
	// ErrNotFound means a logical path does not name a readable document in the vault.
	ErrNotFound = errors.Base("document not found")

	// ErrNotDocument means a logical path names a directory.
	ErrNotDocument = errors.Base("path is a directory")

	// ErrOutsideVault means a logical path escapes the vault root.
	ErrOutsideVault = errors.Base("path is outside the vault")
)

// 📦 Vault is a directory-rooted store of text documents addressed by vault-relative
// slash-separated paths, such as "replaceRules.md" or "notes/rules.md".
type Vault struct {
	root string
	fsys fs.FS
}

// 🏭 New opens the directory at root as a vault.
func New(root string) (*Vault, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("getting absolute vault path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Errorf("opening vault: %w", err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("opening vault %s: not a directory", abs)
	}

	return &Vault{root: abs, fsys: os.DirFS(abs)}, nil
}

// Root returns the absolute vault directory.
func (v *Vault) Root() string {
	return v.root
}

// 🔍 Clean normalizes a logical path and rejects paths that leave the vault.
func Clean(logical string) (string, error) {
	p := path.Clean(strings.TrimSpace(filepath.ToSlash(logical)))
	p = strings.TrimLeft(p, "/")
	if p == "" || p == "." || !fs.ValidPath(p) {
		return "", errors.Errorf("%q: %w", logical, ErrOutsideVault)
	}
	return p, nil
}

// 🎯 Resolve maps a logical path to the document's path on disk. It fails with
// ErrNotFound when nothing exists there and ErrNotDocument for a directory.
func (v *Vault) Resolve(ctx context.Context, logical string) (string, error) {
	p, err := Clean(logical)
	if err != nil {
		return "", errors.Errorf("resolving %q (%s): %w", logical, err.Error(), ErrNotFound)
	}

	info, err := fs.Stat(v.fsys, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", errors.Errorf("resolving %q: %w", logical, ErrNotFound)
		}
		return "", errors.Errorf("resolving %q: %w", logical, err)
	}
	if info.IsDir() {
		return "", errors.Errorf("resolving %q: %w", logical, ErrNotDocument)
	}

	zerolog.Ctx(ctx).Debug().Str("logical", p).Str("root", v.root).Msg("resolved document")
	return filepath.Join(v.root, filepath.FromSlash(p)), nil
}

// 📖 Read returns the full text of a document.
func (v *Vault) Read(ctx context.Context, logical string) (string, error) {
	if _, err := v.Resolve(ctx, logical); err != nil {
		return "", err
	}

	p, _ := Clean(logical)
	data, err := fs.ReadFile(v.fsys, p)
	if err != nil {
		return "", errors.Errorf("reading %q: %w", logical, err)
	}
	return string(data), nil
}

// ✏️ Write replaces the full text of an existing document, keeping its permissions.
func (v *Vault) Write(ctx context.Context, logical string, text string) error {
	full, err := v.Resolve(ctx, logical)
	if err != nil {
		return err
	}

	info, err := os.Stat(full)
	if err != nil {
		return errors.Errorf("stating %q: %w", logical, err)
	}

	if err := os.WriteFile(full, []byte(text), info.Mode().Perm()); err != nil {
		return errors.Errorf("writing %q: %w", logical, err)
	}

	zerolog.Ctx(ctx).Debug().Str("logical", logical).Int("bytes", len(text)).Msg("wrote document")
	return nil
}

// 🗂️ Browse lists the documents matching a doublestar glob, sorted. An empty
// pattern means DefaultBrowsePattern.
func (v *Vault) Browse(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultBrowsePattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.Errorf("invalid glob pattern %q", pattern)
	}

	matches, err := doublestar.Glob(v.fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("globbing %q: %w", pattern, err)
	}

	sort.Strings(matches)
	zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Int("matches", len(matches)).Msg("browsed vault")
	return matches, nil
}

// 📄 File returns a handle on one document of the vault.
func (v *Vault) File(logical string) *File {
	return &File{vault: v, path: logical}
}

// File is a single vault document whose full text can be read and replaced.
type File struct {
	vault *Vault
	path  string
}

// Path returns the logical path of the document.
func (f *File) Path() string {
	return f.path
}

// Text returns the current document text.
func (f *File) Text(ctx context.Context) (string, error) {
	return f.vault.Read(ctx, f.path)
}

// SetText replaces the document text.
func (f *File) SetText(ctx context.Context, text string) error {
	return f.vault.Write(ctx, f.path, text)
}
