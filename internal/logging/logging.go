package logging

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync/atomic"
)

// Level represents logging severity.
type Level int32

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

var (
	currentLevel     atomic.Int32
	currentVerbosity atomic.Int32
)

func init() {
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	currentLevel.Store(int32(LevelWarn))
}

// SetVerbosity configures logger output from count of -v flags (0-4).
func SetVerbosity(count int) {
	if count < 0 {
		count = 0
	}
	if count > 4 {
		count = 4
	}
	currentVerbosity.Store(int32(count))
	switch count {
	case 0:
		currentLevel.Store(int32(LevelWarn))
	case 1:
		currentLevel.Store(int32(LevelInfo))
	case 2:
		currentLevel.Store(int32(LevelDebug))
	default:
		currentLevel.Store(int32(LevelTrace))
	}
}

// SetOutput redirects every level to w.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// Verbosity returns the stored -v count.
func Verbosity() int {
	return int(currentVerbosity.Load())
}

// LevelName returns current level label.
func LevelName() string {
	return Level(currentLevel.Load()).String()
}

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	case LevelTrace:
		return "trace"
	default:
		return "unknown"
	}
}

// ParseLevel returns Level + verbosity count from string.
func ParseLevel(s string) (Level, int, error) {
	switch strings.ToLower(s) {
	case "error":
		return LevelError, 0, nil
	case "warn", "warning":
		return LevelWarn, 0, nil
	case "info":
		return LevelInfo, 1, nil
	case "debug":
		return LevelDebug, 2, nil
	case "trace":
		return LevelTrace, 4, nil
	default:
		return LevelWarn, Verbosity(), fmt.Errorf("unknown level %s", s)
	}
}

// Enabled reports whether messages at l are printed.
func Enabled(l Level) bool {
	return l <= Level(currentLevel.Load())
}

func logf(l Level, prefix, format string, args ...any) {
	if !Enabled(l) {
		return
	}
	log.Printf("[%s] %s", strings.ToUpper(prefix), fmt.Sprintf(format, args...))
}

// Errorf always prints.
func Errorf(format string, args ...any) {
	logf(LevelError, "err", format, args...)
}

func Warnf(format string, args ...any) {
	logf(LevelWarn, "warn", format, args...)
}

func Infof(format string, args ...any) {
	logf(LevelInfo, "info", format, args...)
}

func Debugf(format string, args ...any) {
	logf(LevelDebug, "dbg", format, args...)
}

func Tracef(format string, args ...any) {
	logf(LevelTrace, "trc", format, args...)
}
