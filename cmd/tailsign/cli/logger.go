// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates a structured logger on stderr for CLI
// command operations. Format "text" and "json" force a handler; "auto"
// (or empty) uses slog.TextHandler when stderr is a terminal and
// slog.JSONHandler when it is piped or redirected (CI, scripts), so
// machine consumers get parseable records.
func NewCommandLogger(level, format string) (*slog.Logger, error) {
	return newLogger(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), level, format)
}

func newLogger(w io.Writer, terminal bool, level, format string) (*slog.Logger, error) {
	var slogLevel slog.Level
	if level != "" {
		if err := slogLevel.UnmarshalText([]byte(level)); err != nil {
			return nil, Validation("invalid log level %q", level)
		}
	}
	options := &slog.HandlerOptions{Level: slogLevel}

	var handler slog.Handler
	switch format {
	case "text":
		handler = slog.NewTextHandler(w, options)
	case "json":
		handler = slog.NewJSONHandler(w, options)
	case "", "auto":
		if terminal {
			handler = slog.NewTextHandler(w, options)
		} else {
			handler = slog.NewJSONHandler(w, options)
		}
	default:
		return nil, Validation("invalid log format %q", format).
			WithHint("Use one of: auto, text, json.")
	}
	return slog.New(handler), nil
}
