// Package cli implements the tilewall command-line interface.
//
// Every command resolves its settings the same way: flags override
// tilewall.toml, which overrides built-in defaults. Datasets come from a CSV
// file or URL, falling back to generated sample rows.
//
// # Commands
//
//   - layout: write the target sets for a dataset size as JSON
//   - play: animate the tiles in the terminal
//   - serve: HTTP API, websocket pose stream and Prometheus metrics
//   - record: run one transition on a manual clock and write frames
//   - cache: inspect or clear the local cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging and
// --log-format for text, json or logfmt output. The logger is also attached
// to the command context for helpers that only see a ctx.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Log output formats for --log-format.
const (
	logFormatText   = "text"
	logFormatJSON   = "json"
	logFormatLogfmt = "logfmt"
)

// newLogger creates a text logger writing to w with "HH:MM:SS.ms" stamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// setLogFormat switches l to the named formatter. json and logfmt suit
// `tilewall serve` behind a log collector.
func setLogFormat(l *log.Logger, name string) error {
	switch name {
	case "", logFormatText:
		l.SetFormatter(log.TextFormatter)
	case logFormatJSON:
		l.SetFormatter(log.JSONFormatter)
	case logFormatLogfmt:
		l.SetFormatter(log.LogfmtFormatter)
	default:
		return fmt.Errorf("unknown log format %q (want %s, %s or %s)", name, logFormatText, logFormatJSON, logFormatLogfmt)
	}
	return nil
}

// component returns a child logger prefixed with name, so scene, server and
// dataset lines can be told apart.
func component(l *log.Logger, name string) *log.Logger {
	return l.WithPrefix(name)
}

// progress logs how long an operation took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with an elapsed field rounded to the millisecond, followed
// by any extra key/value pairs.
func (p *progress) done(msg string, kv ...any) {
	fields := append([]any{"elapsed", time.Since(p.start).Round(time.Millisecond)}, kv...)
	p.logger.Info(msg, fields...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for helpers that only see a context.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
