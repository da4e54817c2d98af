// Package log provides structured logging handler construction for use with
// [log/slog].
//
// It supports JSON and logfmt output and the standard severity levels. Use
// [NewHandler] to create a handler directly, or a [Config] with CLI flag
// integration via [github.com/spf13/pflag] and shell completion support via
// [github.com/spf13/cobra]:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//
//	handler, err := cfg.NewHandler(os.Stderr)
//	slog.SetDefault(slog.New(handler))
package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Format is a log output format.
type Format string

const (
	// FormatJSON emits one JSON object per record.
	FormatJSON Format = "json"
	// FormatLogfmt emits logfmt key=value pairs.
	FormatLogfmt Format = "logfmt"
)

var (
	// ErrUnknownLevel indicates an unrecognized log level string.
	ErrUnknownLevel = errors.New("unknown log level")
	// ErrUnknownFormat indicates an unrecognized log format string.
	ErrUnknownFormat = errors.New("unknown log format")
)

// NewHandler creates a [slog.Handler] writing to w with the given level and
// format.
func NewHandler(w io.Writer, level slog.Level, format Format) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}

	if format == FormatJSON {
		return slog.NewJSONHandler(w, opts)
	}

	return slog.NewTextHandler(w, opts)
}

// NewHandlerFromStrings creates a [slog.Handler] from level and format
// strings, as received from CLI flags.
func NewHandlerFromStrings(w io.Writer, level, format string) (slog.Handler, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	return NewHandler(w, lvl, f), nil
}

// ParseLevel parses a level string into a [slog.Level].
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "error":
		return slog.LevelError, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
}

// ParseFormat parses a format string into a [Format].
func ParseFormat(format string) (Format, error) {
	switch f := Format(strings.ToLower(format)); f {
	case FormatJSON, FormatLogfmt:
		return f, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// LevelStrings returns the accepted level flag values.
func LevelStrings() []string {
	return []string{"error", "warn", "info", "debug"}
}

// FormatStrings returns the accepted format flag values.
func FormatStrings() []string {
	return []string{string(FormatJSON), string(FormatLogfmt)}
}
