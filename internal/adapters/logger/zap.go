// Package logger provides the zap-backed logging adapter.
package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines the logging interface used throughout the application.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]any)
	Debug(ctx context.Context, msg string, fields map[string]any)
	Warn(ctx context.Context, msg string, fields map[string]any)
	Error(ctx context.Context, msg string, err error, fields map[string]any)
}

// ZapAdapter implements Logger on top of a zap.Logger.
type ZapAdapter struct {
	log *zap.Logger
}

// New builds a console logger writing to stderr. Verbose lowers the level
// to debug; quiet raises it to error. Verbose wins when both are set.
func New(verbose, quiet bool) *ZapAdapter {
	level := zapcore.InfoLevel
	switch {
	case verbose:
		level = zapcore.DebugLevel
	case quiet:
		level = zapcore.ErrorLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		level,
	)
	return &ZapAdapter{log: zap.New(core)}
}

// NewNop returns a logger that discards everything. Used in tests.
func NewNop() *ZapAdapter {
	return &ZapAdapter{log: zap.NewNop()}
}

// Info logs an info message.
func (a *ZapAdapter) Info(_ context.Context, msg string, fields map[string]any) {
	a.log.Info(msg, zapFields(fields)...)
}

// Debug logs a debug message.
func (a *ZapAdapter) Debug(_ context.Context, msg string, fields map[string]any) {
	a.log.Debug(msg, zapFields(fields)...)
}

// Warn logs a warning message.
func (a *ZapAdapter) Warn(_ context.Context, msg string, fields map[string]any) {
	a.log.Warn(msg, zapFields(fields)...)
}

// Error logs an error message.
func (a *ZapAdapter) Error(_ context.Context, msg string, err error, fields map[string]any) {
	zf := zapFields(fields)
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	a.log.Error(msg, zf...)
}

// Sync flushes buffered log entries.
func (a *ZapAdapter) Sync() {
	_ = a.log.Sync()
}

func zapFields(fields map[string]any) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	zf := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zf = append(zf, zap.Any(k, v))
	}
	return zf
}
