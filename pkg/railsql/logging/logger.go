// Package logging provides the leveled logger shared across the module. On a
// terminal it renders colored single-line output and lets payloads that
// implement PrettyPrint draw themselves; everywhere else it emits one JSON
// object per entry.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

// Logger is the logging surface used throughout the module.
type Logger interface {
	Debug(args ...any)
	Debugf(format string, args ...any)
	Log(args ...any)
	Logf(format string, args ...any)
	Info(args ...any)
	Infof(format string, args ...any)
	Notice(args ...any)
	Noticef(format string, args ...any)
	Warn(args ...any)
	Warnf(format string, args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	ChangeLevel(level Level)
}

// PrettyPrint lets a log payload control its own terminal rendering.
type PrettyPrint interface {
	PrettyPrint(writer io.Writer)
}

type logger struct {
	level      Level
	normalOut  io.Writer
	errorOut   io.Writer
	isTerminal bool
	exit       func(code int)
}

type logEntry struct {
	Level   Level     `json:"level"`
	Time    time.Time `json:"time"`
	Message any       `json:"message"`
	TraceID string    `json:"trace_id,omitempty"`
}

// New returns a Logger writing to stdout and stderr at the given level.
func New(level Level) Logger {
	return &logger{
		level:      level,
		normalOut:  os.Stdout,
		errorOut:   os.Stderr,
		isTerminal: checkIfTerminal(os.Stdout),
		exit:       os.Exit,
	}
}

// NewWithWriter returns a Logger writing everything to w. Terminal detection
// still applies, so buffers in tests receive plain JSON.
func NewWithWriter(w io.Writer, level Level) Logger {
	return &logger{
		level:      level,
		normalOut:  w,
		errorOut:   w,
		isTerminal: checkIfTerminal(w),
		exit:       os.Exit,
	}
}

func checkIfTerminal(w io.Writer) bool {
	switch v := w.(type) {
	case *os.File:
		return term.IsTerminal(int(v.Fd()))
	default:
		return false
	}
}

func (l *logger) logf(level Level, format string, args ...any) {
	if level < l.level {
		return
	}

	out := l.normalOut
	if level >= ERROR {
		out = l.errorOut
	}

	entry := logEntry{Level: level, Time: time.Now()}
	entry.TraceID, args = extractTraceID(args)

	switch {
	case format != "":
		entry.Message = fmt.Sprintf(format, args...)
	case len(args) == 1:
		entry.Message = args[0]
	default:
		entry.Message = args
	}

	if l.isTerminal {
		l.prettyPrint(entry, out)
	} else {
		_ = json.NewEncoder(out).Encode(entry)
	}
}

// extractTraceID pulls the trace marker ContextLogger appends as the last
// argument, so it never leaks into the formatted message.
func extractTraceID(args []any) (string, []any) {
	if len(args) == 0 {
		return "", args
	}

	if m, ok := args[len(args)-1].(map[string]any); ok {
		if id, ok := m["__trace_id__"].(string); ok {
			return id, args[:len(args)-1]
		}
	}

	return "", args
}

func (l *logger) prettyPrint(entry logEntry, out io.Writer) {
	fmt.Fprintf(out, "\u001B[38;5;%dm%s\u001B[0m [%s] ",
		entry.Level.color(), entry.Level.String()[0:4], entry.Time.Format("15:04:05"))

	if entry.TraceID != "" {
		fmt.Fprintf(out, "\u001B[38;5;8m%s\u001B[0m ", entry.TraceID)
	}

	if printer, ok := entry.Message.(PrettyPrint); ok {
		printer.PrettyPrint(out)
	} else {
		fmt.Fprintf(out, "%v\n", entry.Message)
	}
}

func (l *logger) Debug(args ...any)                  { l.logf(DEBUG, "", args...) }
func (l *logger) Debugf(format string, args ...any)  { l.logf(DEBUG, format, args...) }
func (l *logger) Log(args ...any)                    { l.logf(INFO, "", args...) }
func (l *logger) Logf(format string, args ...any)    { l.logf(INFO, format, args...) }
func (l *logger) Info(args ...any)                   { l.logf(INFO, "", args...) }
func (l *logger) Infof(format string, args ...any)   { l.logf(INFO, format, args...) }
func (l *logger) Notice(args ...any)                 { l.logf(NOTICE, "", args...) }
func (l *logger) Noticef(format string, args ...any) { l.logf(NOTICE, format, args...) }
func (l *logger) Warn(args ...any)                   { l.logf(WARN, "", args...) }
func (l *logger) Warnf(format string, args ...any)   { l.logf(WARN, format, args...) }
func (l *logger) Error(args ...any)                  { l.logf(ERROR, "", args...) }
func (l *logger) Errorf(format string, args ...any)  { l.logf(ERROR, format, args...) }

func (l *logger) Fatal(args ...any) {
	l.logf(FATAL, "", args...)
	l.exit(1)
}

func (l *logger) Fatalf(format string, args ...any) {
	l.logf(FATAL, format, args...)
	l.exit(1)
}

func (l *logger) ChangeLevel(level Level) {
	l.level = level
}
