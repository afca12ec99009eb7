package wex

import (
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"testing"
)

// Field is a structured logging key/value pair. It lets request-scoped
// middleware (e.g. RequestLogger) emit structured fields through the
// [Logger] interface without binding the interface itself to any one
// structured-logging library; concrete [Logger]s translate Fields into
// their own library's representation (zapadapter maps one onto
// zap.Field, for instance).
type Field struct {
	Key   string
	Value any
}

// F constructs a [Field].
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Logger is notified of errors that escape the middleware chain unhandled,
// of failures emitting the final response, and of request-scoped events
// (Info/Error) that middleware chooses to record. Implementations must be
// safe for concurrent use since requests run concurrently.
type Logger interface {
	LogUnhandledServeError(err error)
	LogImplicitFlushError(err error)

	// Info records a request-scoped event at informational level, e.g. one
	// access-log line per completed request.
	Info(msg string, fields ...Field)

	// Error records a request-scoped failure, e.g. a handler returning an
	// error that a middleware observed but chose to recover from.
	Error(msg string, fields ...Field)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogUnhandledServeError(err error) {
	l.Logger.Printf("wex: unhandled server error: %s", err)
}

func (l stdLogger) LogImplicitFlushError(err error) {
	l.Logger.Printf("wex: error while writing response: %s", err)
}

func (l stdLogger) Info(msg string, fields ...Field) {
	l.Logger.Printf("wex: %s%s", msg, formatFields(fields))
}

func (l stdLogger) Error(msg string, fields ...Field) {
	l.Logger.Printf("wex: %s%s", msg, formatFields(fields))
}

func formatFields(fields []Field) string {
	if len(fields) == 0 {
		return ""
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf("%s=%v", f.Key, f.Value)
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

// NewStdLogger wraps a standard library *log.Logger as a [Logger]. It is
// the zero-dependency default; production apps typically install a
// structured logger instead (see the zapadapter package).
func NewStdLogger(l *log.Logger) Logger {
	return stdLogger{l}
}

// TestLogger records how many times each hook fired, for assertions in
// tests, and forwards the message to testing.TB's own log.
type TestLogger struct {
	tb testing.TB

	NumLogUnhandledServeError int64
	NumLogImplicitFlushError  int64
	NumInfo                   int64
	NumError                  int64
}

// NewTestLogger returns a Logger suitable for use in tests.
func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogUnhandledServeError(err error) {
	atomic.AddInt64(&l.NumLogUnhandledServeError, 1)
	if l.tb != nil {
		l.tb.Logf("wex: unhandled server error: %s", err)
	}
}

func (l *TestLogger) LogImplicitFlushError(err error) {
	atomic.AddInt64(&l.NumLogImplicitFlushError, 1)
	if l.tb != nil {
		l.tb.Logf("wex: error while writing response: %s", err)
	}
}

func (l *TestLogger) Info(msg string, fields ...Field) {
	atomic.AddInt64(&l.NumInfo, 1)
	if l.tb != nil {
		l.tb.Logf("wex: %s%s", msg, formatFields(fields))
	}
}

func (l *TestLogger) Error(msg string, fields ...Field) {
	atomic.AddInt64(&l.NumError, 1)
	if l.tb != nil {
		l.tb.Logf("wex: %s%s", msg, formatFields(fields))
	}
}

var _ Logger = &TestLogger{}
