package clog

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var cfg = zap.Config{
	Level:       zap.NewAtomicLevelAt(zap.InfoLevel),
	Development: false,
	Sampling: &zap.SamplingConfig{
		Initial:    100,
		Thereafter: 100,
	},
	Encoding: "json",
	EncoderConfig: zapcore.EncoderConfig{
		TimeKey:        "",
		LevelKey:       "severity",
		NameKey:        "logger",
		CallerKey:      "",
		MessageKey:     "message",
		StacktraceKey:  "",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    googleLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	},
	OutputPaths:      []string{"stderr"},
	ErrorOutputPaths: []string{"stderr"},
}

var Logger, _ = cfg.Build()

// SetLevel adjusts the level of Logger at runtime.
func SetLevel(l zapcore.Level) {
	cfg.Level.SetLevel(l)
}

func googleLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch l {
	case zapcore.DebugLevel:
		enc.AppendString("DEBUG")
	case zapcore.InfoLevel:
		enc.AppendString("INFO")
	case zapcore.WarnLevel:
		enc.AppendString("WARNING")
	case zapcore.ErrorLevel:
		enc.AppendString("ERROR")
	case zapcore.DPanicLevel:
		enc.AppendString("CRITICAL")
	case zapcore.PanicLevel:
		enc.AppendString("ALERT")
	case zapcore.FatalLevel:
		enc.AppendString("EMERGENCY")
	default:
		enc.AppendString("DEFAULT")
	}
}

type ctxKey struct{}

type ctxValue struct {
	fields []zap.Field
	sync.Mutex
}

func Context(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, &ctxValue{})
}

func fromContext(ctx context.Context) *ctxValue {
	v, _ := ctx.Value(ctxKey{}).(*ctxValue)
	return v
}

// Set adds fields to the next Log or Error call made with ctx. It is a no-op
// on a context not prepared with Context.
func Set(ctx context.Context, f ...zap.Field) {
	ctxVal := fromContext(ctx)
	if ctxVal == nil {
		return
	}
	ctxVal.Lock()
	ctxVal.fields = append(ctxVal.fields, f...)
	ctxVal.Unlock()
}

func drain(ctx context.Context) []zap.Field {
	ctxVal := fromContext(ctx)
	if ctxVal == nil {
		return nil
	}
	ctxVal.Lock()
	defer ctxVal.Unlock()
	fields := append([]zap.Field(nil), ctxVal.fields...)
	ctxVal.fields = ctxVal.fields[:0]
	return fields
}

func Log(ctx context.Context, msg string) {
	Logger.Info(msg, drain(ctx)...)
}

// Error logs err with the fields accumulated on ctx.
func Error(ctx context.Context, err error, fields ...zap.Field) {
	ErrorWithLogger(Logger, err, append(drain(ctx), fields...)...)
}

func ErrorWithLogger(logger *zap.Logger, err error, fields ...zap.Field) {
	if frame := source(err); frame != nil {
		fields = append(fields, zap.Object("context", errContext{frame}))
	}
	logger.Error(err.Error(), fields...)
}
