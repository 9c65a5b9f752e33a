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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	stageIndent = 4  // spaces to indent stage entries
	nameWidth   = 22 // Width for stage name
	statusWidth = 10 // Width for status text
)

// Stage statuses
const (
	StatusChanged   = "CHANGED"
	StatusUnchanged = "UNCHANGED"
	StatusSkipped   = "SKIPPED"
	StatusFailed    = "FAILED"
)

// 🎯 StageOperation is one transform stage's outcome for a document
type StageOperation struct {
	Name         string // Stage name
	Status       string // One of the Status constants
	Replacements int    // Number of rule replacements, rules stage only
	Detail       string // Extra context, e.g. the skip reason
}

// 📦 DocumentOperation is one document going through the pipeline
type DocumentOperation struct {
	Path   string // Document path
	Rules  string // Rules document path
	DryRun bool   // Whether the result is only previewed
}

// 🎯 Logger prints per-document stage summaries to the console and mirrors them to zerolog
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	mu        sync.Mutex
	currentOp *DocumentOperation
	stages    []StageOperation
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context. Without one, console output is
// discarded and only the zerolog mirror in ctx is kept.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return logger
	}
	return New(io.Discard, *zerolog.Ctx(ctx))
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatStageOperation formats a stage operation for display
func (l *Logger) formatStageOperation(op StageOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch op.Status {
	case StatusFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	case StatusChanged:
		symbol = '⟳'
		symbolColor = color.FgBlue
	case StatusSkipped:
		symbol = '-'
		symbolColor = color.FgYellow
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	line := fmt.Sprintf("%s%s %s %s",
		fmt.Sprintf("%*s", stageIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Name),
		fmt.Sprintf("%-*s", statusWidth, op.Status))

	if op.Replacements > 0 {
		line += color.New(color.Faint).Sprintf(" %d replacement(s)", op.Replacements)
	}
	if op.Detail != "" {
		line += color.New(color.Faint).Sprintf(" (%s)", op.Detail)
	}
	return line
}

// 📝 LogStage logs a stage operation
func (l *Logger) LogStage(ctx context.Context, op StageOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stages = append(l.stages, op)

	fmt.Fprintln(l.console, l.formatStageOperation(op))

	l.zlog.Info().
		Str("stage", op.Name).
		Str("status", op.Status).
		Int("replacements", op.Replacements).
		Str("detail", op.Detail).
		Msg("stage operation")
}

// 📝 StartDocument starts a new document operation
func (l *Logger) StartDocument(ctx context.Context, op DocumentOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.stages = nil

	verb := "transforming"
	if op.DryRun {
		verb = "previewing"
	}
	fmt.Fprintf(l.console, "[%s %s]\n", verb, color.New(color.FgCyan).Sprint(op.Path))

	if op.Rules != "" {
		fmt.Fprintf(l.console, "%s %s %s\n",
			color.New(color.FgMagenta).Sprint("◆"),
			color.New(color.Faint).Sprint("rules •"),
			color.New(color.FgYellow).Sprint(op.Rules))
	}

	l.zlog.Info().
		Str("document", op.Path).
		Str("rules", op.Rules).
		Bool("dry_run", op.DryRun).
		Msg("starting document")
}

// 📝 EndDocument ends the current document operation
func (l *Logger) EndDocument(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	changed := 0
	for _, s := range l.stages {
		if s.Status == StatusChanged {
			changed++
		}
	}

	l.zlog.Info().
		Str("document", l.currentOp.Path).
		Int("stages", len(l.stages)).
		Int("changed", changed).
		Msg("document complete")

	l.currentOp = nil
	l.stages = nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("smartreplace")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
