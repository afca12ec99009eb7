// Package zapadapter wraps a *zap.Logger as a wex.Logger.
package zapadapter

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/arjunvbhat/wex"
)

// New returns a wex.Logger backed by l.
func New(l *zap.Logger) wex.Logger {
	return logger{l.Named("wex")}
}

// NewProduction builds a JSON-encoding *zap.Logger at level and wraps it.
func NewProduction(level zapcore.Level) (wex.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return New(l), nil
}

type logger struct{ *zap.Logger }

func (l logger) LogUnhandledServeError(err error) {
	l.Logger.Error("unhandled server error", zap.Error(err))
}

func (l logger) LogImplicitFlushError(err error) {
	l.Logger.Error("error while writing response", zap.Error(err))
}

func (l logger) Info(msg string, fields ...wex.Field) {
	l.Logger.Info(msg, toZapFields(fields)...)
}

func (l logger) Error(msg string, fields ...wex.Field) {
	l.Logger.Error(msg, toZapFields(fields)...)
}

func toZapFields(fields []wex.Field) []zap.Field {
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		out[i] = zap.Any(f.Key, f.Value)
	}
	return out
}

var _ wex.Logger = logger{}
