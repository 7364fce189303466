package logging

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// ContextLogger wraps a base Logger and injects the OpenTelemetry trace ID
// found in the construction context into every entry. It is meant for
// request-scoped use where trace information is available.
type ContextLogger struct {
	base    Logger
	traceID string
}

// NewContextLogger captures the current trace ID from ctx, when a valid span
// context is present, and returns a logger that tags all output with it.
func NewContextLogger(ctx context.Context, base Logger) *ContextLogger {
	var traceID string

	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		traceID = sc.TraceID().String()
	}

	return &ContextLogger{base: base, traceID: traceID}
}

// withTraceInfo appends the trace marker as the final argument; the base
// logger strips it back out during formatting.
func (l *ContextLogger) withTraceInfo(args []any) []any {
	if l.traceID == "" {
		return args
	}

	return append(args, map[string]any{"__trace_id__": l.traceID})
}

func (l *ContextLogger) dispatch(level Level, format string, args ...any) {
	args = l.withTraceInfo(args)
	plain := format == ""

	switch level {
	case DEBUG:
		if plain {
			l.base.Debug(args...)
		} else {
			l.base.Debugf(format, args...)
		}
	case INFO:
		if plain {
			l.base.Info(args...)
		} else {
			l.base.Infof(format, args...)
		}
	case NOTICE:
		if plain {
			l.base.Notice(args...)
		} else {
			l.base.Noticef(format, args...)
		}
	case WARN:
		if plain {
			l.base.Warn(args...)
		} else {
			l.base.Warnf(format, args...)
		}
	case ERROR:
		if plain {
			l.base.Error(args...)
		} else {
			l.base.Errorf(format, args...)
		}
	case FATAL:
		if plain {
			l.base.Fatal(args...)
		} else {
			l.base.Fatalf(format, args...)
		}
	}
}

func (l *ContextLogger) Debug(args ...any)                  { l.dispatch(DEBUG, "", args...) }
func (l *ContextLogger) Debugf(format string, args ...any)  { l.dispatch(DEBUG, format, args...) }
func (l *ContextLogger) Log(args ...any)                    { l.dispatch(INFO, "", args...) }
func (l *ContextLogger) Logf(format string, args ...any)    { l.dispatch(INFO, format, args...) }
func (l *ContextLogger) Info(args ...any)                   { l.dispatch(INFO, "", args...) }
func (l *ContextLogger) Infof(format string, args ...any)   { l.dispatch(INFO, format, args...) }
func (l *ContextLogger) Notice(args ...any)                 { l.dispatch(NOTICE, "", args...) }
func (l *ContextLogger) Noticef(format string, args ...any) { l.dispatch(NOTICE, format, args...) }
func (l *ContextLogger) Warn(args ...any)                   { l.dispatch(WARN, "", args...) }
func (l *ContextLogger) Warnf(format string, args ...any)   { l.dispatch(WARN, format, args...) }
func (l *ContextLogger) Error(args ...any)                  { l.dispatch(ERROR, "", args...) }
func (l *ContextLogger) Errorf(format string, args ...any)  { l.dispatch(ERROR, format, args...) }
func (l *ContextLogger) Fatal(args ...any)                  { l.dispatch(FATAL, "", args...) }
func (l *ContextLogger) Fatalf(format string, args ...any)  { l.dispatch(FATAL, format, args...) }
func (l *ContextLogger) ChangeLevel(level Level)            { l.base.ChangeLevel(level) }
