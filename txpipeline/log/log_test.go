package log

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       string
		expected    Level
		expectError bool
	}{
		{name: "error", input: "error", expected: LevelError},
		{name: "warn", input: "warn", expected: LevelWarn},
		{name: "warning alias", input: "warning", expected: LevelWarn},
		{name: "info", input: "info", expected: LevelInfo},
		{name: "debug", input: "debug", expected: LevelDebug},
		{name: "mixed case with spaces", input: "  DeBuG ", expected: LevelDebug},
		{name: "invalid", input: "fatal", expectError: true},
		{name: "empty", input: "", expectError: true},
	}

	for _, tt := range tests {

		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			level, err := ParseLevel(tt.input)
			if tt.expectError {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestLevelString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "error", LevelError.String())
	assert.Equal(t, "warn", LevelWarn.String())
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "debug", LevelDebug.String())
	assert.Equal(t, "unknown", Level(42).String())
}

func TestFieldConstructors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	assert.Equal(t, Field{Key: "error", Value: boom}, Err(boom))
	assert.Equal(t, Field{Key: "txid", Value: "abc"}, TxID("abc"))
	assert.Equal(t, Field{Key: "operation", Value: "send"}, Operation("send"))
	assert.Equal(t, Field{Key: "property_id", Value: uint32(3)}, Property(3))
	assert.Equal(t, Field{Key: "amount", Value: int64(7)}, Int64("amount", 7))
}

func TestMaskAddress(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", MaskAddress("short"))
	assert.Equal(t, "1ExoDu...xYz123", MaskAddress("1ExoDusAbCdEfGhIjKlMnxYz123"))
	assert.Equal(t, Field{Key: "from", Value: "1ExoDu...xYz123"}, Address("from", "1ExoDusAbCdEfGhIjKlMnxYz123"))
}

func TestNopLogger(t *testing.T) {
	t.Parallel()

	logger := NewNop()

	assert.NotPanics(t, func() {
		logger.Log(context.Background(), LevelError, "dropped", String("k", "v"))
	})
	assert.False(t, logger.Enabled(LevelError))
	assert.Same(t, logger, logger.With(String("k", "v")))
	assert.Same(t, logger, logger.WithGroup("g"))
	assert.NoError(t, logger.Sync(context.Background()))
}

func TestOrNop(t *testing.T) {
	t.Parallel()

	assert.IsType(t, &NopLogger{}, OrNop(nil))

	custom := NewNop()
	assert.Same(t, custom, OrNop(custom))
}
