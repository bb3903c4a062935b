// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger holds the process-wide structured logger used for debug
// diagnostics. Until Setup enables it, every record is discarded.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Config controls the logger installed by Setup.
type Config struct {
	// Debug enables debug-level output. When false the logger discards.
	Debug bool

	// Out receives log lines (default os.Stderr).
	Out io.Writer
}

var (
	mu     sync.RWMutex
	global = discard()
)

// Setup installs the global logger and returns it.
func Setup(cfg Config) *slog.Logger {
	if !cfg.Debug {
		Reset()
		return L()
	}

	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}

	h := slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				t := a.Value.Time().UTC()
				a.Value = slog.StringValue(t.Format(time.RFC3339Nano))
			}
			return a
		},
	})
	l := slog.New(h)

	mu.Lock()
	global = l
	mu.Unlock()

	l.Debug("logger.initialized")
	return l
}

// L returns the current global logger.
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Reset restores the discarding logger.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	global = discard()
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
