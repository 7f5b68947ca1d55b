package zap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tokenlayer/lib-txpipeline/txpipeline"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvLogEnvironment = "TXPIPELINE_LOG_ENV"
	EnvLogLevel       = "TXPIPELINE_LOG_LEVEL"
)

// DefaultInstrumentation names the OpenTelemetry log scope when Config leaves it empty.
const DefaultInstrumentation = "github.com/tokenlayer/lib-txpipeline"

// ErrInvalidConfig wraps every rejected Config.
var ErrInvalidConfig = errors.New("invalid zap config")

// Environment selects the encoder profile and the default level.
type Environment string

const (
	EnvironmentProduction  Environment = "production"
	EnvironmentStaging     Environment = "staging"
	EnvironmentUAT         Environment = "uat"
	EnvironmentDevelopment Environment = "development"
	EnvironmentLocal       Environment = "local"
)

func (e Environment) verbose() bool {
	return e == EnvironmentDevelopment || e == EnvironmentLocal
}

func (e Environment) known() bool {
	switch e {
	case EnvironmentProduction, EnvironmentStaging, EnvironmentUAT, EnvironmentDevelopment, EnvironmentLocal:
		return true
	default:
		return false
	}
}

// Config describes the pipeline logger.
type Config struct {
	Environment Environment
	// Level overrides the environment default (debug for development and local, info otherwise).
	Level string
	// OTelLibraryName is the instrumentation scope of bridged records.
	OTelLibraryName string
}

// ConfigFromEnv reads the logger profile from TXPIPELINE_LOG_ENV and TXPIPELINE_LOG_LEVEL.
func ConfigFromEnv() Config {
	return Config{
		Environment:     Environment(strings.ToLower(txpipeline.GetenvOrDefault(EnvLogEnvironment, string(EnvironmentProduction)))),
		Level:           txpipeline.GetenvOrDefault(EnvLogLevel, ""),
		OTelLibraryName: DefaultInstrumentation,
	}
}

func (c Config) level() (zap.AtomicLevel, error) {
	if strings.TrimSpace(c.Level) == "" {
		if c.Environment.verbose() {
			return zap.NewAtomicLevelAt(zapcore.DebugLevel), nil
		}

		return zap.NewAtomicLevelAt(zapcore.InfoLevel), nil
	}

	var parsed zapcore.Level
	if err := parsed.Set(c.Level); err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("%w: level %q: %w", ErrInvalidConfig, c.Level, err)
	}

	return zap.NewAtomicLevelAt(parsed), nil
}

func (c Config) base() zap.Config {
	zc := zap.NewProductionConfig()
	if c.Environment.verbose() {
		zc = zap.NewDevelopmentConfig()
	}

	zc.Encoding = "json"
	zc.DisableStacktrace = true
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	return zc
}

// New builds a JSON logger teed into the OpenTelemetry log bridge.
func New(cfg Config) (*Logger, error) {
	if !cfg.Environment.known() {
		return nil, fmt.Errorf("%w: environment %q", ErrInvalidConfig, cfg.Environment)
	}

	if cfg.OTelLibraryName == "" {
		cfg.OTelLibraryName = DefaultInstrumentation
	}

	level, err := cfg.level()
	if err != nil {
		return nil, err
	}

	zc := cfg.base()
	zc.Level = level

	bridge := otelzap.NewCore(cfg.OTelLibraryName)

	built, err := zc.Build(
		zap.AddCallerSkip(1),
		zap.WrapCore(func(core zapcore.Core) zapcore.Core { return zapcore.NewTee(core, bridge) }),
	)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return &Logger{logger: built, level: level}, nil
}
