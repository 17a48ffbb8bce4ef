package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// Logger provides levelled, printf-style logging throughout the application.
// Debug lines are dropped unless debug output is enabled.
type Logger struct {
	info  *log.Logger
	warn  *log.Logger
	err   *log.Logger
	debug *log.Logger

	debugEnabled bool
	color        bool
}

// NewLoggerTo creates a Logger writing every level to w. The CLI passes
// stderr so stdout stays free for report and JSON output.
func NewLoggerTo(w io.Writer, debug bool) *Logger {
	flags := 0
	return &Logger{
		info:         log.New(w, "", flags),
		warn:         log.New(w, "", flags),
		err:          log.New(w, "", flags),
		debug:        log.New(w, "", flags),
		debugEnabled: debug,
		color:        w == os.Stderr || w == os.Stdout,
	}
}

// Discard returns a Logger that writes nothing. The terminal dashboard uses
// it when no log file is configured, since stderr would corrupt the screen.
func Discard() *Logger {
	return NewLoggerTo(io.Discard, false)
}

// SetLevel enables debug output for "debug" and disables it otherwise.
func (l *Logger) SetLevel(level string) {
	l.debugEnabled = strings.EqualFold(strings.TrimSpace(level), "debug")
}

func (l *Logger) timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func (l *Logger) tag(name, code string) string {
	if !l.color {
		return fmt.Sprintf("%-5s", name)
	}
	return fmt.Sprintf("\033[%sm%-5s\033[0m", code, name)
}

func (l *Logger) Info(format string, args ...any) {
	l.info.Printf("[%s] %s %s", l.timestamp(), l.tag("INFO", "32"), fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...any) {
	l.warn.Printf("[%s] %s %s", l.timestamp(), l.tag("WARN", "33"), fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...any) {
	l.err.Printf("[%s] %s %s", l.timestamp(), l.tag("ERROR", "31"), fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(format string, args ...any) {
	if !l.debugEnabled {
		return
	}
	l.debug.Printf("[%s] %s %s", l.timestamp(), l.tag("DEBUG", "36"), fmt.Sprintf(format, args...))
}
