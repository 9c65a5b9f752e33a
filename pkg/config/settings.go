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

package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"gitlab.com/tozd/go/errors"
)

// Persisted setting keys.
const (
	KeyReplaceRulesPath       = "replaceRulesPath"
	KeyEnableSmartQuotes      = "enableSmartQuotes"
	KeyEnableRemoveEmptyLines = "enableRemoveEmptyLines"
	KeyRuleTimeout            = "ruleTimeout"
)

// DefaultReplaceRulesPath is the rules document used when nothing else is configured.
const DefaultReplaceRulesPath = "replaceRules.md"

// DefaultRuleTimeout bounds each rule's matching over a document. Zero means no bound.
const DefaultRuleTimeout time.Duration = 0

// 📚 Settings is a read-only snapshot of the user's configuration, handed to the
// transform pipeline at invocation time.
type Settings struct {
	ReplaceRulesPath       string        `koanf:"replaceRulesPath"`
	EnableSmartQuotes      bool          `koanf:"enableSmartQuotes"`
	EnableRemoveEmptyLines bool          `koanf:"enableRemoveEmptyLines"`
	RuleTimeout            time.Duration `koanf:"ruleTimeout"`
}

// 🏭 Defaults returns the settings used when nothing is stored.
func Defaults() Settings {
	return Settings{
		ReplaceRulesPath:       DefaultReplaceRulesPath,
		EnableSmartQuotes:      true,
		EnableRemoveEmptyLines: true,
		RuleTimeout:            DefaultRuleTimeout,
	}
}

// Keys returns every persisted key, sorted.
func Keys() []string {
	keys := []string{KeyReplaceRulesPath, KeyEnableSmartQuotes, KeyEnableRemoveEmptyLines, KeyRuleTimeout}
	sort.Strings(keys)
	return keys
}

// 🗺️ Map returns the settings as the flat key/value record that is persisted.
func (s Settings) Map() map[string]interface{} {
	return map[string]interface{}{
		KeyReplaceRulesPath:       s.ReplaceRulesPath,
		KeyEnableSmartQuotes:      s.EnableSmartQuotes,
		KeyEnableRemoveEmptyLines: s.EnableRemoveEmptyLines,
		KeyRuleTimeout:            s.RuleTimeout.String(),
	}
}

// 🔧 Set parses value and assigns it to key.
func (s *Settings) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case KeyReplaceRulesPath:
		s.ReplaceRulesPath = value
	case KeyEnableSmartQuotes, KeyEnableRemoveEmptyLines:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Errorf("parsing %s: %w", key, err)
		}
		if key == KeyEnableSmartQuotes {
			s.EnableSmartQuotes = b
		} else {
			s.EnableRemoveEmptyLines = b
		}
	case KeyRuleTimeout:
		d, err := time.ParseDuration(value)
		if err != nil {
			return errors.Errorf("parsing %s: %w", key, err)
		}
		s.RuleTimeout = d
	default:
		return errors.Errorf("unknown setting %q, options: %s", key, strings.Join(Keys(), ", "))
	}
	return s.Validate()
}

// 🔍 Validate checks the settings. An empty rules path is valid here; the
// pipeline reports it when it runs.
func (s Settings) Validate() error {
	if s.RuleTimeout < 0 {
		return errors.Errorf("%s must not be negative", KeyRuleTimeout)
	}
	return nil
}

// 📝 String returns a one-line representation of the settings
func (s Settings) String() string {
	return fmt.Sprintf("rules=%q smartQuotes=%t removeEmptyLines=%t ruleTimeout=%s",
		s.ReplaceRulesPath, s.EnableSmartQuotes, s.EnableRemoveEmptyLines, s.RuleTimeout)
}
