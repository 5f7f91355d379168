package common

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// SlogResetLevel sets the default slog level and returns a function restoring
// the previous one, pairs well with defer.
// Use like:
// func Test123(t *testing.T) {
//     defer common.SlogResetLevel(slog.Level(slog.LevelWarn + 1))()
func SlogResetLevel(level slog.Level) (reset func()) {
	oldLevel := slog.SetLogLoggerLevel(level)
	return func() {
		slog.SetLogLoggerLevel(oldLevel)
	}
}

// ParseSlogLevel accepts debug, info, warn or error, case-insensitively.
func ParseSlogLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}

// NewSlogHandler writes text records to w and, when jsonW is not nil,
// a JSON copy of every record to jsonW.
func NewSlogHandler(level slog.Level, w io.Writer, jsonW io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	text := slog.NewTextHandler(w, opts)
	if jsonW == nil {
		return text
	}
	return slogmulti.Fanout(text, slog.NewJSONHandler(jsonW, opts))
}

// SetupSlog installs the default logger.
// The returned closer releases the log file, if any.
func SetupSlog(level, file string) (io.Closer, error) {
	l, err := ParseSlogLevel(level)
	if err != nil {
		return nil, err
	}
	var f *os.File
	var jsonW io.Writer
	if file != "" {
		f, err = os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		jsonW = f
	}
	slog.SetDefault(slog.New(NewSlogHandler(l, os.Stderr, jsonW)))
	if f == nil {
		return io.NopCloser(nil), nil
	}
	return f, nil
}
