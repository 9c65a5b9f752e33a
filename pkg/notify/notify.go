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

package notify

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 🎨 Level is the severity of a notice
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// 📢 Notice is one transient, user-facing message
type Notice struct {
	Level   Level
	Message string
	Err     error
}

// 🖨️ Printer shows notices in the terminal through pterm prefix printers and
// mirrors each one to the context logger.
type Printer struct {
	out io.Writer
	mu  sync.Mutex
}

// 🏭 NewPrinter creates a printer writing to out, or stderr when out is nil
func NewPrinter(out io.Writer) *Printer {
	if out == nil {
		out = os.Stderr
	}
	return &Printer{out: out}
}

// 📝 Notify prints the notice with the prefix matching its level
func (p *Printer) Notify(ctx context.Context, n Notice) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var printer *pterm.PrefixPrinter
	switch n.Level {
	case LevelSuccess:
		printer = pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"})
	case LevelWarning:
		printer = pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"})
	case LevelError:
		printer = pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"})
	default:
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: "💬"})
	}
	printer.WithWriter(p.out).Println(n.Message)

	logger := zerolog.Ctx(ctx)
	var event *zerolog.Event
	switch n.Level {
	case LevelWarning:
		event = logger.Warn()
	case LevelError:
		event = logger.Error()
	default:
		event = logger.Info()
	}
	if n.Err != nil {
		event = event.Err(n.Err)
	}
	event.Str("severity", n.Level.String()).Msg(n.Message)
}

// 📼 Recorder keeps every notice in memory
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(ctx context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns a copy of the recorded notices, oldest first
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Messages returns the recorded messages, oldest first
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.notices))
	for _, n := range r.notices {
		out = append(out, n.Message)
	}
	return out
}

// Reset drops all recorded notices
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = nil
}
