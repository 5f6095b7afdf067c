// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package relight

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the logger for relight and all its sub-packages.
// By default, relight produces no log output. Call SetLogger to enable it.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by relight:
//   - [slog.LevelDebug]: internal diagnostics (graph compilation, readback sizes)
//   - [slog.LevelInfo]: important lifecycle events (GPU executor selected)
//   - [slog.LevelWarn]: non-fatal issues (CPU fallback, unknown effect name)
//
// Example:
//
//	// Enable info-level logging to stderr:
//	relight.SetLogger(slog.Default())
//
//	// Enable debug-level logging for full diagnostics:
//	relight.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	// Propagate to the kernel executor if it supports logging.
	execMu.RLock()
	e := executor
	execMu.RUnlock()
	if e != nil {
		propagateLogger(e, l)
	}
}

// Logger returns the current logger used by relight.
// Sub-packages (graph/, capture/, gpu/) call this to share the same
// logger configuration without introducing import cycles.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by executors that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger passes the logger to an executor if it implements the
// loggerSetter interface. Called from both SetLogger and RegisterExecutor
// to ensure the executor always has the current logger.
func propagateLogger(e KernelExecutor, l *slog.Logger) {
	if ls, ok := e.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}