package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
)

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelCritical
	LevelOff
)

var levelNames = map[string]Level{
	"DEBUG":    LevelDebug,
	"INFO":     LevelInfo,
	"WARNING":  LevelWarning,
	"ERROR":    LevelError,
	"CRITICAL": LevelCritical,
	"OFF":      LevelOff,
}

// ParseLevel maps a level name to a Level. Unknown names report false.
func ParseLevel(name string) (Level, bool) {
	level, ok := levelNames[strings.ToUpper(strings.TrimSpace(name))]
	return level, ok
}

// ValidLevel reports whether name is one of the accepted level names.
func ValidLevel(name string) bool {
	_, ok := ParseLevel(name)
	return ok
}

func (l Level) String() string {
	for name, level := range levelNames {
		if level == l {
			return name
		}
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// StdLogger is a lightweight implementation backed by Go's log package.
type StdLogger struct {
	level Level
	out   *log.Logger
}

// NewStd creates a StdLogger writing to stderr; verbose enables DEBUG, otherwise nothing is logged.
func NewStd(verbose bool) *StdLogger {
	if !verbose {
		return New(io.Discard, LevelOff)
	}
	return New(os.Stderr, LevelDebug)
}

// New creates a StdLogger writing records at or above level to w.
func New(w io.Writer, level Level) *StdLogger {
	if w == nil {
		w = io.Discard
	}
	return &StdLogger{level: level, out: log.New(w, "", log.LstdFlags)}
}

// Nop returns a logger that drops everything.
func Nop() *StdLogger {
	return New(io.Discard, LevelOff)
}

// Level returns the minimum level written.
func (l *StdLogger) Level() Level {
	return l.level
}

func (l *StdLogger) Debug(msg string, fields map[string]interface{}) {
	l.write(LevelDebug, msg, nil, fields)
}

func (l *StdLogger) Info(msg string, fields map[string]interface{}) {
	l.write(LevelInfo, msg, nil, fields)
}

func (l *StdLogger) Warn(msg string, fields map[string]interface{}) {
	l.write(LevelWarning, msg, nil, fields)
}

func (l *StdLogger) Error(msg string, err error, fields map[string]interface{}) {
	l.write(LevelError, msg, err, fields)
}

func (l *StdLogger) write(level Level, msg string, err error, fields map[string]interface{}) {
	if l == nil || level < l.level || l.level == LevelOff {
		return
	}
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(level.String())
	b.WriteString("] ")
	b.WriteString(msg)
	if err != nil {
		b.WriteString(" error=")
		b.WriteString(quoteIfNeeded(err.Error()))
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(" ")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(quoteIfNeeded(fmt.Sprint(fields[k])))
	}
	l.out.Println(b.String())
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
