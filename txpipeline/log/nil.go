package log

import "context"

// NopLogger discards everything. Its zero value is ready to use.
type NopLogger struct{}

// NewNop returns a Logger that discards everything.
func NewNop() Logger {
	return &NopLogger{}
}

func (l *NopLogger) Log(context.Context, Level, string, ...Field) {}

//nolint:ireturn
func (l *NopLogger) With(...Field) Logger { return l }

//nolint:ireturn
func (l *NopLogger) WithGroup(string) Logger { return l }

func (l *NopLogger) Enabled(Level) bool { return false }

func (l *NopLogger) Sync(context.Context) error { return nil }

// OrNop substitutes a NopLogger for a nil logger.
//
//nolint:ireturn
func OrNop(logger Logger) Logger {
	if logger != nil {
		return logger
	}

	return NewNop()
}
