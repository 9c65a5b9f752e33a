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
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"gitlab.com/tozd/go/errors"
)

// EnvPrefix prefixes every environment override, e.g. SMARTREPLACE_RULE_TIMEOUT.
const EnvPrefix = "SMARTREPLACE_"

// Flag names bound by BindFlags.
const (
	FlagRules            = "rules"
	FlagSmartQuotes      = "smart-quotes"
	FlagRemoveEmptyLines = "remove-empty-lines"
	FlagRuleTimeout      = "rule-timeout"
)

var envKeys = map[string]string{
	"REPLACE_RULES_PATH":        KeyReplaceRulesPath,
	"ENABLE_SMART_QUOTES":       KeyEnableSmartQuotes,
	"ENABLE_REMOVE_EMPTY_LINES": KeyEnableRemoveEmptyLines,
	"RULE_TIMEOUT":              KeyRuleTimeout,
}

var flagKeys = map[string]string{
	FlagRules:            KeyReplaceRulesPath,
	FlagSmartQuotes:      KeyEnableSmartQuotes,
	FlagRemoveEmptyLines: KeyEnableRemoveEmptyLines,
	FlagRuleTimeout:      KeyRuleTimeout,
}

// 📂 DefaultPath returns the per-user settings file location.
func DefaultPath() (string, error) {
	p, err := xdg.ConfigFile(filepath.Join("smartreplace", "settings.yaml"))
	if err != nil {
		return "", errors.Errorf("resolving settings path: %w", err)
	}
	return p, nil
}

// 🏁 BindFlags registers per-invocation overrides on fs. Only flags the user
// actually sets take effect.
func BindFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.String(FlagRules, d.ReplaceRulesPath, "rules document path, relative to the vault")
	fs.Bool(FlagSmartQuotes, d.EnableSmartQuotes, "convert straight quotes to curly quotes")
	fs.Bool(FlagRemoveEmptyLines, d.EnableRemoveEmptyLines, "strip whitespace-only lines")
	fs.Duration(FlagRuleTimeout, d.RuleTimeout, "match timeout for each rule")
}

// 💾 Store persists Settings to a single file and layers overrides on load.
type Store struct {
	path  string
	codec Codec
	flags *pflag.FlagSet
	mu    sync.Mutex
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithFlags layers changed flags from fs over the stored settings.
func WithFlags(fs *pflag.FlagSet) StoreOption {
	return func(s *Store) {
		s.flags = fs
	}
}

// 🏭 NewStore creates a store for the settings file at path. The file format
// is picked from its extension.
func NewStore(path string, opts ...StoreOption) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("settings path is empty")
	}
	codec := GetCodec(path)
	if codec == nil {
		return nil, errors.Errorf("unsupported settings format: %s", filepath.Ext(path))
	}
	s := &Store{path: path, codec: codec}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the settings file path
func (s *Store) Path() string {
	return s.path
}

// Codec returns the codec used for the settings file
func (s *Store) Codec() Codec {
	return s.codec
}

// 🎯 Load returns defaults overlaid with the settings file, SMARTREPLACE_*
// environment variables and changed flags, in that order. A missing file is
// not an error. When the file cannot be read or parsed, Load returns Defaults
// together with the error so the caller can notify and carry on.
func (s *Store) Load(ctx context.Context) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := zerolog.Ctx(ctx)

	k, err := s.loadFile(ctx)
	if err != nil {
		return Defaults(), err
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Defaults(), errors.Errorf("loading environment: %w", err)
	}

	if s.flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(s.flags, ".", nil, flagKey), nil); err != nil {
			return Defaults(), errors.Errorf("loading flags: %w", err)
		}
	}

	settings, err := unmarshal(k)
	if err != nil {
		return Defaults(), err
	}

	logger.Debug().Str("path", s.path).Str("settings", settings.String()).Msg("loaded settings")
	return settings, nil
}

// 💾 Save writes settings to the file, creating parent directories.
func (s *Store) Save(ctx context.Context, settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, settings)
}

// 🔄 Update applies fn to the stored settings and saves the result. Environment
// and flag overrides are not persisted.
func (s *Store) Update(ctx context.Context, fn func(*Settings) error) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k, err := s.loadFile(ctx)
	if err != nil {
		return Settings{}, err
	}
	settings, err := unmarshal(k)
	if err != nil {
		return Settings{}, err
	}
	if err := fn(&settings); err != nil {
		return Settings{}, err
	}
	if err := s.save(ctx, settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func (s *Store) loadFile(ctx context.Context) (*koanf.Koanf, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(Defaults().Map(), "."), nil); err != nil {
		return nil, errors.Errorf("loading defaults: %w", err)
	}

	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			zerolog.Ctx(ctx).Debug().Str("path", s.path).Msg("no settings file, using defaults")
			return k, nil
		}
		return nil, errors.Errorf("checking settings file: %w", err)
	}

	if err := k.Load(file.Provider(s.path), s.codec); err != nil {
		return nil, errors.Errorf("loading %s: %w", s.path, err)
	}
	return k, nil
}

func (s *Store) save(ctx context.Context, settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	data, err := s.codec.Marshal(settings.Map())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Errorf("creating settings directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return errors.Errorf("writing settings: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("path", s.path).Str("settings", settings.String()).Msg("saved settings")
	return nil
}

func unmarshal(k *koanf.Koanf) (Settings, error) {
	var settings Settings
	if err := k.Unmarshal("", &settings); err != nil {
		return Settings{}, errors.Errorf("decoding settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func envKey(name string) string {
	return envKeys[strings.TrimPrefix(name, EnvPrefix)]
}

func flagKey(f *pflag.Flag) (string, interface{}) {
	key, ok := flagKeys[f.Name]
	if !ok {
		return "", nil
	}
	return key, f.Value.String()
}
