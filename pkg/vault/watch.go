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
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// WatchDebounce coalesces bursts of events from editors that write in several steps.
const WatchDebounce = 100 * time.Millisecond

// 👀 Watch calls onChange each time the document at logical is written, created,
// renamed or removed, until ctx is done. The parent directory is watched so that
// editors replacing the file atomically are still seen. The document does not
// need to exist when watching starts.
func (v *Vault) Watch(ctx context.Context, logical string, onChange func()) error {
	p, err := Clean(logical)
	if err != nil {
		return errors.Errorf("watching %q: %w", logical, err)
	}
	full := filepath.Join(v.root, filepath.FromSlash(p))

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(full)); err != nil {
		return errors.Errorf("watching %s: %w", filepath.Dir(full), err)
	}

	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", full).Msg("watching document")

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != full {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}

			logger.Debug().Str("op", event.Op.String()).Str("path", event.Name).Msg("document changed")
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(WatchDebounce, onChange)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watcher error")
		}
	}
}
