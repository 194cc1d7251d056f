package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ekisa-team/modelstore/internal/env"
)

const (
	defaultLogFile    = "logs/modelstore.log"
	defaultMaxSizeMB  = 10
	defaultMaxBackups = 3
	defaultMaxAgeDays = 28
)

type options struct {
	writer    io.Writer
	logFile   string
	level     slog.Leveler
	logToFile bool
	noColor   bool
}

// Option configures the logger built by New.
type Option func(*options)

// WithLogToFile enables or disables the rotating log file.
func WithLogToFile(enabled bool) Option {
	return func(o *options) {
		o.logToFile = enabled
	}
}

// WithLogFile sets the path of the rotating log file.
func WithLogFile(path string) Option {
	return func(o *options) {
		if path != "" {
			o.logFile = path
		}
	}
}

// WithLevel sets the minimum level.
func WithLevel(level slog.Leveler) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithWriter sets the console writer. The default is os.Stderr.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.writer = w
	}
}

// WithNoColor disables ANSI colors on the console in development.
func WithNoColor() Option {
	return func(o *options) {
		o.noColor = true
	}
}

// New builds a logger for the environment. Development logs go to the console
// through tint; production logs are JSON. With WithLogToFile the records are also
// written as JSON to a lumberjack rotating file.
func New(e env.Environment, opts ...Option) *slog.Logger {
	o := options{
		writer:  os.Stderr,
		logFile: defaultLogFile,
		level:   defaultLevel(e),
	}
	for _, opt := range opts {
		opt(&o)
	}

	var console slog.Handler
	switch e {
	case env.Production:
		console = slog.NewJSONHandler(o.writer, &slog.HandlerOptions{Level: o.level, AddSource: true})
	default:
		console = tint.NewHandler(o.writer, &tint.Options{
			Level:      o.level,
			TimeFormat: time.Kitchen,
			NoColor:    o.noColor || e == env.Test,
		})
	}

	if !o.logToFile {
		return slog.New(console)
	}

	file := &lumberjack.Logger{
		Filename:   o.logFile,
		MaxSize:    defaultMaxSizeMB,
		MaxBackups: defaultMaxBackups,
		MaxAge:     defaultMaxAgeDays,
		Compress:   true,
	}

	return slog.New(tee{console, slog.NewJSONHandler(file, &slog.HandlerOptions{Level: o.level})})
}

// ParseLevel parses debug, info, warn or error (case-insensitive).
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("logger: invalid level %q: %w", name, err)
	}

	return level, nil
}

func defaultLevel(e env.Environment) slog.Level {
	switch e {
	case env.Production:
		return slog.LevelInfo
	case env.Test:
		return slog.LevelWarn
	default:
		return slog.LevelDebug
	}
}

// tee fans records out to several handlers.
type tee []slog.Handler

func (t tee) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t tee) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (t tee) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(tee, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t tee) WithGroup(name string) slog.Handler {
	out := make(tee, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}
