/*
 * MIT License
 *
 * Copyright (c) 2026 Nguyen Thanh Phuong
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package logging builds the daemon's structured logger: a slog.Logger with
// an extra TRACE level below Debug, writing to stdout or to a rotated file
// via lumberjack depending on configuration.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelTrace sits one tier below slog.LevelDebug for per-sample collector
// tracing that is too noisy even for debug builds.
const LevelTrace slog.Level = slog.LevelDebug - 4

// Options configures logger construction. Zero value is a sane default:
// info level, text handler, stdout.
type Options struct {
	Level      string // "trace", "debug", "info", "warn", "error"
	Format     string // "text" or "json"
	FilePath   string // empty = stdout
	MaxSizeMB  int    // lumberjack MaxSize, only used when FilePath is set
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// New builds a slog.Logger from Options. When FilePath is set, writes are
// rotated through lumberjack; otherwise it writes straight to stdout.
func New(opts Options) *slog.Logger {
	level := parseLevel(opts.Level)

	var out io.Writer = os.Stdout
	if opts.FilePath != "" {
		out = &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    nonZero(opts.MaxSizeMB, 100),
			MaxBackups: nonZero(opts.MaxBackups, 5),
			MaxAge:     nonZero(opts.MaxAgeDays, 28),
			Compress:   opts.Compress,
		}
	}

	handlerOpts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}

	var handler slog.Handler
	if opts.Format == "json" {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}

	return slog.New(handler)
}

// Trace logs at LevelTrace, mirroring slog's Debug/Info/Warn/Error helpers.
func Trace(logger *slog.Logger, msg string, args ...any) {
	logger.Log(nil, LevelTrace, msg, args...)
}

func parseLevel(s string) slog.Level {
	switch s {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func nonZero(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// ValidateLevel returns an error if s is not a recognized log level name.
func ValidateLevel(s string) error {
	switch s {
	case "trace", "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("invalid log level %q", s)
	}
}
