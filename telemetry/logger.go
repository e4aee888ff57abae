// Package telemetry provides the structured-ish logging wrapper every
// other package in this module logs through, instead of calling the
// stdlib log package directly.
package telemetry

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// Level selects which log calls are actually emitted.
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
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger wraps a stdlib *log.Logger with a minimum level and a
// terminal-aware prefix: when writing to an attached terminal, each line
// is tagged with an aligned level label; otherwise the label is plain,
// matching how the source corpus's terminal-facing tools gate formatting
// on an isatty check rather than always emitting ANSI color codes.
type Logger struct {
	out        *log.Logger
	level      Level
	isTerminal bool
}

// New builds a Logger writing to w at the given minimum level.
func New(w io.Writer, level Level) *Logger {
	return &Logger{
		out:        log.New(w, "", log.LstdFlags),
		level:      level,
		isTerminal: isTerminalWriter(w),
	}
}

// Default builds a Logger writing to stderr at LevelInfo.
func Default() *Logger {
	return New(os.Stderr, LevelInfo)
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (l *Logger) logf(level Level, format string, args ...interface{}) {
	if l == nil || level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.isTerminal {
		l.out.Printf("[%-5s] %s", level, msg)
		return
	}
	l.out.Printf("level=%s msg=%q", level, msg)
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.logf(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.logf(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.logf(LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.logf(LevelError, format, args...) }

// FormatCount renders n with thousands separators, e.g. for the node
// count in a graph's diagnostic String().
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatSince renders a human-relative duration since t (e.g. "3 minutes
// ago").
func FormatSince(t time.Time) string {
	return humanize.Time(t)
}
