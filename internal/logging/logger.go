// Package logging provides categorized structured logging on top of
// go.uber.org/zap. The engine itself never writes to stdout/stderr; Logger
// is injected by the host and used only for diagnostics.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category scopes a log line to one pipeline subsystem.
type Category string

const (
	CategoryExtraction  Category = "extraction"
	CategoryCompilation Category = "compilation"
	CategoryCache       Category = "cache"
	CategoryDSL         Category = "dsl"
	CategorySerializer  Category = "serializer"
)

// Logger wraps a *zap.Logger and attaches a "category" field per call,
// instead of maintaining one zap.Logger instance per category; this module
// has no per-category log file requirement.
type Logger struct {
	base *zap.Logger
}

// New builds a Logger. debug controls whether Debug-level lines are kept;
// everything is JSON-encoded to stderr so a host process gets
// machine-parseable diagnostics.
func New(debug bool) (*Logger, error) {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{base: z}, nil
}

// Noop returns a Logger that discards everything, for tests and for hosts
// that don't want engine diagnostics.
func Noop() *Logger {
	return &Logger{base: zap.NewNop()}
}

func (l *Logger) scoped(category Category) *zap.Logger {
	if l == nil || l.base == nil {
		return zap.NewNop()
	}
	return l.base.With(zap.String("category", string(category)))
}

func (l *Logger) Debug(category Category, msg string, fields ...zap.Field) {
	l.scoped(category).Debug(msg, fields...)
}

func (l *Logger) Info(category Category, msg string, fields ...zap.Field) {
	l.scoped(category).Info(msg, fields...)
}

func (l *Logger) Warn(category Category, msg string, fields ...zap.Field) {
	l.scoped(category).Warn(msg, fields...)
}

func (l *Logger) Error(category Category, msg string, fields ...zap.Field) {
	l.scoped(category).Error(msg, fields...)
}

// Sync flushes buffered log entries; callers should defer this after New.
func (l *Logger) Sync() error {
	if l == nil || l.base == nil {
		return nil
	}
	return l.base.Sync()
}
