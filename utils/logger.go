package utils

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger provides leveled, printf-style logging throughout the application.
// Messages go through zerolog so the same call sites can emit console or JSON output.
type Logger struct {
	zl zerolog.Logger
}

// LoggerOptions selects the output format and minimum level.
type LoggerOptions struct {
	Level  string // debug, info, warn, error
	Format string // console (default) or json
	Out    io.Writer
}

// NewLogger creates a Logger writing human-readable lines to stdout at debug level.
func NewLogger() *Logger {
	return NewLoggerWith(LoggerOptions{Level: "debug"})
}

// NewLoggerWith creates a Logger from explicit options.
func NewLoggerWith(opts LoggerOptions) *Logger {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if !strings.EqualFold(opts.Format, "json") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "2006-01-02 15:04:05"}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	return &Logger{zl: zerolog.New(out).Level(level).With().Timestamp().Logger()}
}

// NopLogger discards everything. Useful in tests that assert on behaviour, not output.
func NopLogger() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func (l *Logger) Info(format string, args ...any) {
	l.zl.Info().Msgf(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.zl.Warn().Msgf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.zl.Error().Msgf(format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.zl.Debug().Msgf(format, args...)
}
