// Package logging provides the context-aware structured logger used across
// songbook. It is backed by zap.
package logging

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are key-value pairs:
//
//	log.Info(ctx, "song created", "id", id, "author", author)
type Logger interface {
	Debug(ctx context.Context, msg string, kv ...any)
	Info(ctx context.Context, msg string, kv ...any)
	Warn(ctx context.Context, msg string, kv ...any)
	Error(ctx context.Context, msg string, kv ...any)
	With(kv ...any) Logger
}

type zapLogger struct {
	z *zap.SugaredLogger
}

var _ Logger = (*zapLogger)(nil)

// New builds a Logger writing to stderr and, when file is non-empty, to a
// size-rotated log file. format is "json" or "console".
func New(level, format, file string) (Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if format == "console" {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	ws := zapcore.Lock(zapcore.AddSync(os.Stderr))
	if file != "" {
		ws = zapcore.NewMultiWriteSyncer(ws, zapcore.AddSync(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    100, // MB
			MaxBackups: 7,
			MaxAge:     30,
			Compress:   true,
		}))
	}

	core := zapcore.NewCore(enc, ws, zap.NewAtomicLevelAt(lvl))
	z := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.PanicLevel))
	return &zapLogger{z: z.Sugar()}, nil
}

// FromZap wraps an existing zap logger.
func FromZap(z *zap.Logger) Logger {
	return &zapLogger{z: z.Sugar()}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &zapLogger{z: zap.NewNop().Sugar()}
}

func (l *zapLogger) With(kv ...any) Logger {
	return &zapLogger{z: l.z.With(kv...)}
}

func (l *zapLogger) Debug(ctx context.Context, msg string, kv ...any) {
	l.z.Debugw(msg, append(fromContext(ctx), kv...)...)
}

func (l *zapLogger) Info(ctx context.Context, msg string, kv ...any) {
	l.z.Infow(msg, append(fromContext(ctx), kv...)...)
}

func (l *zapLogger) Warn(ctx context.Context, msg string, kv ...any) {
	l.z.Warnw(msg, append(fromContext(ctx), kv...)...)
}

func (l *zapLogger) Error(ctx context.Context, msg string, kv ...any) {
	l.z.Errorw(msg, append(fromContext(ctx), kv...)...)
}
