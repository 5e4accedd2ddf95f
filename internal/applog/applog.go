// Package applog writes structured JSON-lines events to a log file.
package applog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level orders log entries by severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel parses "debug", "info", "warn" or "error".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Fields are the event attributes.
type Fields map[string]any

// Logger writes one JSON object per line. A nil *Logger discards everything.
type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	close func() error
	level Level
	seq   int
	now   func() time.Time
}

// New returns a logger writing to w.
func New(w io.Writer, level Level) *Logger {
	return &Logger{out: w, level: level, now: time.Now}
}

// Open appends to the file at path, creating parent directories.
func Open(path string, level Level) (*Logger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	l := New(f, level)
	l.close = f.Close
	l.Info("LOG_START", Fields{"path": path, "level": level.String()})
	return l, nil
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return nil
}

// Close flushes the end marker and closes the underlying file.
func (l *Logger) Close() error {
	if l == nil || l.close == nil {
		return nil
	}
	l.Info("LOG_END", nil)
	return l.close()
}

// Enabled reports whether entries at level are written.
func (l *Logger) Enabled(level Level) bool {
	return l != nil && level >= l.level
}

// Debug logs a debug event.
func (l *Logger) Debug(event string, f Fields) { l.log(LevelDebug, event, f) }

// Info logs an info event.
func (l *Logger) Info(event string, f Fields) { l.log(LevelInfo, event, f) }

// Warn logs a warning event.
func (l *Logger) Warn(event string, f Fields) { l.log(LevelWarn, event, f) }

// Error logs err under event.
func (l *Logger) Error(event string, err error, f Fields) {
	if !l.Enabled(LevelError) {
		return
	}
	entry := make(Fields, len(f)+1)
	for k, v := range f {
		entry[k] = v
	}
	if err != nil {
		entry["error"] = err.Error()
	}
	l.log(LevelError, event, entry)
}

func (l *Logger) log(level Level, event string, f Fields) {
	if !l.Enabled(level) {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	entry := map[string]any{
		"seq":   l.seq,
		"ts":    l.now().Format("2006-01-02T15:04:05.000"),
		"level": level.String(),
		"event": event,
	}
	for k, v := range f {
		entry[k] = v
	}

	b, _ := json.Marshal(entry)
	_, _ = fmt.Fprintf(l.out, "%s\n", b)
}
