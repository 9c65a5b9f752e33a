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

package opts

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/walteh/smartreplace/pkg/config"
	"github.com/walteh/smartreplace/pkg/log"
	"github.com/walteh/smartreplace/pkg/notify"
	"github.com/walteh/smartreplace/pkg/pipeline"
	"github.com/walteh/smartreplace/pkg/vault"
	"gitlab.com/tozd/go/errors"
)

// 🎯 RootOpts holds the options and collaborators shared by every command
type RootOpts struct {
	SettingsPath string
	VaultRoot    string
	Debug        bool

	// Overrides is the flag set carrying per-invocation setting overrides
	Overrides *pflag.FlagSet

	Out    io.Writer
	ErrOut io.Writer
}

// 🏭 NewRootOpts creates options writing to stdout and stderr
func NewRootOpts() *RootOpts {
	return &RootOpts{
		VaultRoot: ".",
		Out:       os.Stdout,
		ErrOut:    os.Stderr,
	}
}

// 💾 Store opens the settings store
func (o *RootOpts) Store() (*config.Store, error) {
	path := o.SettingsPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	var storeOpts []config.StoreOption
	if o.Overrides != nil {
		storeOpts = append(storeOpts, config.WithFlags(o.Overrides))
	}
	return config.NewStore(path, storeOpts...)
}

// 📁 Vault opens the vault at VaultRoot
func (o *RootOpts) Vault() (*vault.Vault, error) {
	v, err := vault.New(o.VaultRoot)
	if err != nil {
		return nil, errors.Errorf("opening vault: %w", err)
	}
	return v, nil
}

// 📢 Notifier returns the terminal notifier
func (o *RootOpts) Notifier() *notify.Printer {
	return notify.NewPrinter(o.ErrOut)
}

// 🖥️ Console returns the console summary logger
func (o *RootOpts) Console(ctx context.Context) *log.Logger {
	return log.New(o.Out, *zerolog.Ctx(ctx))
}

// ⚙️ Settings loads the effective settings. A load failure is notified and the
// defaults are used.
func (o *RootOpts) Settings(ctx context.Context, n pipeline.Notifier) (config.Settings, error) {
	store, err := o.Store()
	if err != nil {
		n.Notify(ctx, notify.Notice{Level: notify.LevelError, Message: pipeline.MessageSettingsLoadFailure, Err: err})
		return config.Defaults(), errors.Errorf("%w: %s", pipeline.ErrSettingsLoadFailure, err.Error())
	}
	return pipeline.LoadSettings(ctx, store, n)
}
