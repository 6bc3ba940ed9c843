package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	clog "github.com/charmbracelet/log"
)

// Logger writes one JSON object per event. A nil *Logger is valid and drops
// everything.
type Logger struct {
	base   *clog.Logger
	closer io.Closer
}

// NewLogger logs to path, or discards when path is empty.
func NewLogger(path, level string) (*Logger, error) {
	if path == "" {
		return NewWriterLogger(io.Discard, level)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	l, err := NewWriterLogger(f, level)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	l.closer = f
	return l, nil
}

func NewWriterLogger(w io.Writer, level string) (*Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	base := clog.NewWithOptions(w, clog.Options{
		Level:           lvl,
		Formatter:       clog.JSONFormatter,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339Nano,
		TimeFunction:    func(t time.Time) time.Time { return t.UTC() },
	})
	return &Logger{base: base}, nil
}

// Nop returns a logger that writes nowhere.
func Nop() *Logger {
	l, _ := NewWriterLogger(io.Discard, "error")
	return l
}

func parseLevel(level string) (clog.Level, error) {
	if strings.TrimSpace(level) == "" {
		return clog.InfoLevel, nil
	}
	lvl, err := clog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return clog.InfoLevel, fmt.Errorf("invalid log level %q", level)
	}
	return lvl, nil
}

// With returns a child logger that adds fields to every event.
func (l *Logger) With(fields map[string]any) *Logger {
	if l == nil || l.base == nil {
		return l
	}
	return &Logger{base: l.base.With(keyvals(fields)...)}
}

func (l *Logger) Debug(msg string, fields map[string]any) {
	if l == nil || l.base == nil {
		return
	}
	l.base.Debug(msg, keyvals(fields)...)
}

func (l *Logger) Info(msg string, fields map[string]any) {
	if l == nil || l.base == nil {
		return
	}
	l.base.Info(msg, keyvals(fields)...)
}

func (l *Logger) Warn(msg string, fields map[string]any) {
	if l == nil || l.base == nil {
		return
	}
	l.base.Warn(msg, keyvals(fields)...)
}

func (l *Logger) Error(msg string, fields map[string]any) {
	if l == nil || l.base == nil {
		return
	}
	l.base.Error(msg, keyvals(fields)...)
}

func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func keyvals(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		out = append(out, k, fields[k])
	}
	return out
}
