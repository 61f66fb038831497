package logging

import (
	"io"
	"log"
	"os"
	"strings"
)

// Level represents logging verbosity.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelTrace:
		return "TRACE"
	}
	return "UNKNOWN"
}

// ParseLevel maps a case-insensitive level name to a Level.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LevelError, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "INFO":
		return LevelInfo, true
	case "DEBUG":
		return LevelDebug, true
	case "TRACE":
		return LevelTrace, true
	}
	return LevelInfo, false
}

// Logger provides leveled logging with an optional component tag.
// A nil *Logger discards everything.
type Logger struct {
	level     Level
	component string
	out       *log.Logger
}

// New creates a logger writing to w at the given level.
func New(level Level, w io.Writer) *Logger {
	return &Logger{level: level, out: log.New(w, "", log.LstdFlags)}
}

// NewFromEnv creates a stderr logger with the level taken from LOG_LEVEL (default WARN).
func NewFromEnv() *Logger {
	level := LevelWarn
	if lv, ok := ParseLevel(os.Getenv("LOG_LEVEL")); ok {
		level = lv
	}
	return New(level, os.Stderr)
}

// With returns a copy tagged with component, e.g. "[csv]".
func (l *Logger) With(component string) *Logger {
	if l == nil {
		return nil
	}
	cp := *l
	cp.component = component
	return &cp
}

// Level returns the current level.
func (l *Logger) Level() Level {
	if l == nil {
		return LevelError
	}
	return l.level
}

func (l *Logger) logf(level Level, format string, args ...any) {
	if l == nil || l.level < level {
		return
	}
	prefix := "[" + level.String() + "] "
	if l.component != "" {
		prefix += "[" + l.component + "] "
	}
	l.out.Printf(prefix+format, args...)
}

func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *Logger) Tracef(format string, args ...any) { l.logf(LevelTrace, format, args...) }

var defaultLogger = NewFromEnv()

// Default returns the process-wide logger.
func Default() *Logger { return defaultLogger }

// SetDefault replaces the process-wide logger.
func SetDefault(l *Logger) {
	if l != nil {
		defaultLogger = l
	}
}
