package txpipeline

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetenvOrDefault(t *testing.T) {
	t.Setenv("TXP_TEST_STRING", "value")
	assert.Equal(t, "value", GetenvOrDefault("TXP_TEST_STRING", "default"))

	t.Setenv("TXP_TEST_BLANK", "   ")
	assert.Equal(t, "default", GetenvOrDefault("TXP_TEST_BLANK", "default"))

	t.Setenv("TXP_TEST_MISSING", "")
	os.Unsetenv("TXP_TEST_MISSING")
	assert.Equal(t, "default", GetenvOrDefault("TXP_TEST_MISSING", "default"))
}

func TestGetenvBoolOrDefault(t *testing.T) {
	t.Setenv("TXP_TEST_BOOL", "false")
	assert.False(t, GetenvBoolOrDefault("TXP_TEST_BOOL", true))

	t.Setenv("TXP_TEST_BOOL_BAD", "not-a-bool")
	assert.True(t, GetenvBoolOrDefault("TXP_TEST_BOOL_BAD", true))
}

func TestGetenvIntOrDefault(t *testing.T) {
	t.Setenv("TXP_TEST_INT", "-42")
	assert.Equal(t, int64(-42), GetenvIntOrDefault("TXP_TEST_INT", 0))

	t.Setenv("TXP_TEST_INT_BAD", "4x")
	assert.Equal(t, int64(99), GetenvIntOrDefault("TXP_TEST_INT_BAD", 99))
}

func TestSetConfigFromEnvVars(t *testing.T) {
	type config struct {
		Name     string        `env:"TXP_TEST_NAME"`
		Enabled  bool          `env:"TXP_TEST_ENABLED"`
		Limit    int64         `env:"TXP_TEST_LIMIT"`
		Window   uint8         `env:"TXP_TEST_WINDOW"`
		Timeout  time.Duration `env:"TXP_TEST_TIMEOUT"`
		Untagged string
		Kept     int `env:"TXP_TEST_KEPT"`
	}

	t.Setenv("TXP_TEST_NAME", "pipeline")
	t.Setenv("TXP_TEST_ENABLED", "true")
	t.Setenv("TXP_TEST_LIMIT", "123")
	t.Setenv("TXP_TEST_WINDOW", "12")
	t.Setenv("TXP_TEST_TIMEOUT", "1500ms")
	t.Setenv("TXP_TEST_KEPT", "")

	cfg := &config{Untagged: "u", Kept: 7}
	require.NoError(t, SetConfigFromEnvVars(cfg))

	assert.Equal(t, "pipeline", cfg.Name)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, int64(123), cfg.Limit)
	assert.Equal(t, uint8(12), cfg.Window)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, "u", cfg.Untagged)
	assert.Equal(t, 7, cfg.Kept)
}

func TestSetConfigFromEnvVarsErrors(t *testing.T) {
	type config struct {
		Window uint8 `env:"TXP_TEST_WINDOW_OVERFLOW"`
	}

	assert.ErrorIs(t, SetConfigFromEnvVars(config{}), ErrNotPointer)
	assert.ErrorIs(t, SetConfigFromEnvVars((*config)(nil)), ErrNotPointer)

	t.Setenv("TXP_TEST_WINDOW_OVERFLOW", "300")
	err := SetConfigFromEnvVars(&config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TXP_TEST_WINDOW_OVERFLOW")
}
