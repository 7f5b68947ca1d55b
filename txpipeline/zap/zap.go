package zap

import (
	"context"

	logpkg "github.com/tokenlayer/lib-txpipeline/txpipeline/log"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger adapts zap to log.Logger and correlates records with the active span.
type Logger struct {
	logger *zap.Logger
	level  zap.AtomicLevel
}

var _ logpkg.Logger = (*Logger)(nil)

var levels = map[logpkg.Level]zapcore.Level{
	logpkg.LevelError: zapcore.ErrorLevel,
	logpkg.LevelWarn:  zapcore.WarnLevel,
	logpkg.LevelInfo:  zapcore.InfoLevel,
	logpkg.LevelDebug: zapcore.DebugLevel,
}

func toZapLevel(level logpkg.Level) zapcore.Level {
	if l, ok := levels[level]; ok {
		return l
	}

	return zapcore.InfoLevel
}

// Wrap adapts an existing zap logger, typically one built on zaptest/observer.
func Wrap(z *zap.Logger) *Logger {
	return &Logger{logger: z, level: zap.NewAtomicLevelAt(z.Level())}
}

func (l *Logger) zap() *zap.Logger {
	if l == nil || l.logger == nil {
		return zap.NewNop()
	}

	return l.logger
}

// Log writes one record. trace_id and span_id are added when ctx carries a valid span.
func (l *Logger) Log(ctx context.Context, level logpkg.Level, msg string, fields ...logpkg.Field) {
	zl := l.zap()

	ce := zl.Check(toZapLevel(level), msg)
	if ce == nil {
		return
	}

	out := toZapFields(fields)

	if ctx != nil {
		if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
			out = append(out, zap.String("trace_id", sc.TraceID().String()), zap.String("span_id", sc.SpanID().String()))
		}
	}

	ce.Write(out...)
}

//nolint:ireturn
func (l *Logger) With(fields ...logpkg.Field) logpkg.Logger {
	return &Logger{logger: l.zap().With(toZapFields(fields)...), level: l.level}
}

// WithGroup nests later fields under name.
//
//nolint:ireturn
func (l *Logger) WithGroup(name string) logpkg.Logger {
	return &Logger{logger: l.zap().With(zap.Namespace(name)), level: l.level}
}

func (l *Logger) Enabled(level logpkg.Level) bool {
	return l.zap().Core().Enabled(toZapLevel(level))
}

// Sync flushes buffered records unless ctx ends first.
func (l *Logger) Sync(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)

	go func() { done <- l.zap().Sync() }()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// Raw exposes the underlying zap logger.
func (l *Logger) Raw() *zap.Logger {
	return l.zap()
}

// Level is the runtime-adjustable level of loggers built by New.
func (l *Logger) Level() zap.AtomicLevel {
	return l.level
}

func toZapFields(fields []logpkg.Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))

	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			out = append(out, zap.NamedError(f.Key, err))

			continue
		}

		out = append(out, zap.Any(f.Key, f.Value))
	}

	return out
}
