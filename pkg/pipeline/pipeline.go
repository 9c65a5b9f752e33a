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

	"github.com/walteh/smartreplace/pkg/config"
	"github.com/walteh/smartreplace/pkg/notify"
	"gitlab.com/tozd/go/errors"
)

// Recovered conditions. None of them stops a transform; each is reported through
// the Notifier and returned in Result.Conditions.
var (
	ErrConfigurationMissing = errors.Base("no replacement rules path set")
	ErrSourceNotFound       = errors.Base("rules document not found")
	ErrSourceReadFailure    = errors.Base("error reading rules document")
	ErrSettingsLoadFailure  = errors.Base("settings failed to load")
	ErrRuleFailure          = errors.Base("rule failed to match")
)

// Notice texts shown to the user.
const (
	MessageConfigurationMissing = "Smart Replace: No replacement rules file set."
	MessageSourceNotFound       = "Smart Replace: File not found - %s"
	MessageSourceReadFailure    = "Smart Replace: Error reading rules file."
	MessageSettingsLoadFailure  = "Smart Replace: Failed to load settings."
	MessageRuleFailure          = "Smart Replace: Skipped rule(s) that failed to match on line(s) %s."
)

// 📄 Document is the text being edited. The pipeline reads it once and replaces
// its full text once.
type Document interface {
	Text(ctx context.Context) (string, error)
	SetText(ctx context.Context, text string) error
}

// 📚 RuleSource resolves a logical path and returns the document's full text.
// A missing document is reported with an error matching vault.ErrNotFound,
// fs.ErrNotExist or ErrSourceNotFound.
type RuleSource interface {
	Read(ctx context.Context, path string) (string, error)
}

// 📢 Notifier shows transient messages to the user
type Notifier interface {
	Notify(ctx context.Context, n notify.Notice)
}

// ⚙️ SettingsLoader yields the settings snapshot for an invocation
type SettingsLoader interface {
	Load(ctx context.Context) (config.Settings, error)
}

// 🎯 LoadSettings loads settings for a transform. On failure the user is notified
// and the returned settings are the loader's fallback, or Defaults when the
// loader returned none, together with an error matching ErrSettingsLoadFailure.
func LoadSettings(ctx context.Context, loader SettingsLoader, n Notifier) (config.Settings, error) {
	settings, err := loader.Load(ctx)
	if err == nil {
		return settings, nil
	}

	if settings == (config.Settings{}) {
		settings = config.Defaults()
	}

	n.Notify(ctx, notify.Notice{Level: notify.LevelError, Message: MessageSettingsLoadFailure, Err: err})
	return settings, errors.Errorf("%w: %s", ErrSettingsLoadFailure, err.Error())
}
