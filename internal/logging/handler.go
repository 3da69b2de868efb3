// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging builds the process logger and provides one-shot warnings
// for conditions that should be reported once per process, such as the use
// of deprecated setting names.
package logging

import (
	"io"
	"log/slog"
	"strings"
	"sync"
)

// warned holds the keys already reported by WarnOnce.
var warned sync.Map

// New creates a logger writing to w in the given format ("text" or "json").
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// ParseLevel maps a level name to a slog level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WarnOnce logs msg at WARN level the first time key is seen in this process.
// It reports whether the warning was emitted.
func WarnOnce(logger *slog.Logger, key, msg string, args ...any) bool {
	if _, loaded := warned.LoadOrStore(key, struct{}{}); loaded {
		return false
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn(msg, args...)
	return true
}

// forget clears the record of a key. Used by tests.
func forget(key string) {
	warned.Delete(key)
}
