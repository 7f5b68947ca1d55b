package dispatch

import (
	"fmt"
	"math"

	"github.com/tokenlayer/lib-txpipeline/txpipeline"
	constant "github.com/tokenlayer/lib-txpipeline/txpipeline/constants"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvAutoCommit         = "TXPIPELINE_AUTOCOMMIT"
	EnvMaxReferenceAmount = "TXPIPELINE_MAX_REFERENCE_AMOUNT"
	EnvMaxAcceptFee       = "TXPIPELINE_MAX_ACCEPT_FEE"
	EnvMinPaymentWindow   = "TXPIPELINE_MIN_PAYMENT_WINDOW"
	EnvMintConfirmations  = "TXPIPELINE_MINT_CONFIRMATIONS"
)

// Config controls dispatcher behavior.
type Config struct {
	// AutoCommit broadcasts composed transactions. When false operations
	// return the signed raw transaction instead.
	AutoCommit bool
	// MaxReferenceAmount bounds the reference output of sends and spends.
	MaxReferenceAmount int64
	// MaxAcceptFee bounds the minimum accept fee a seller may demand.
	MaxAcceptFee int64
	// MinPaymentWindow is the shortest payment window an accept tolerates.
	MinPaymentWindow uint8
	// DefaultMintConfirmations applies to mints that do not set their own depth.
	DefaultMintConfirmations int
	// AcceptFeeReferenceSize is the virtual size the seller's fee is quoted against.
	AcceptFeeReferenceSize int
	// MaxDenominations caps the denominations a property may hold.
	MaxDenominations int
}

// DefaultConfig returns the protocol defaults with auto-commit enabled.
func DefaultConfig() Config {
	return Config{
		AutoCommit:               true,
		MaxReferenceAmount:       constant.DefaultMaxReferenceAmount,
		MaxAcceptFee:             constant.DefaultMaxAcceptFee,
		MinPaymentWindow:         constant.DefaultMinPaymentWindow,
		DefaultMintConfirmations: constant.DefaultMintConfirmations,
		AcceptFeeReferenceSize:   constant.AcceptFeeReferenceSize,
		MaxDenominations:         constant.MaxDenominations,
	}
}

// ConfigFromEnv overlays the environment onto DefaultConfig.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	cfg.AutoCommit = txpipeline.GetenvBoolOrDefault(EnvAutoCommit, cfg.AutoCommit)
	cfg.MaxReferenceAmount = txpipeline.GetenvIntOrDefault(EnvMaxReferenceAmount, cfg.MaxReferenceAmount)
	cfg.MaxAcceptFee = txpipeline.GetenvIntOrDefault(EnvMaxAcceptFee, cfg.MaxAcceptFee)

	window := txpipeline.GetenvIntOrDefault(EnvMinPaymentWindow, int64(cfg.MinPaymentWindow))
	if window < 0 || window > math.MaxUint8 {
		return Config{}, fmt.Errorf("%w: %s must be between 0 and %d, got %d",
			ErrInvalidConfig, EnvMinPaymentWindow, math.MaxUint8, window)
	}

	cfg.MinPaymentWindow = uint8(window)

	confirmations := txpipeline.GetenvIntOrDefault(EnvMintConfirmations, int64(cfg.DefaultMintConfirmations))
	if confirmations < 0 || confirmations > math.MaxInt32 {
		return Config{}, fmt.Errorf("%w: %s must not be negative, got %d",
			ErrInvalidConfig, EnvMintConfirmations, confirmations)
	}

	cfg.DefaultMintConfirmations = int(confirmations)

	cfg.normalize()

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// normalize replaces unset limits with their defaults. AutoCommit and
// MinPaymentWindow are taken as given, zero being meaningful for both.
func (c *Config) normalize() {
	defaults := DefaultConfig()

	if c.MaxReferenceAmount <= 0 {
		c.MaxReferenceAmount = defaults.MaxReferenceAmount
	}

	if c.MaxAcceptFee <= 0 {
		c.MaxAcceptFee = defaults.MaxAcceptFee
	}

	if c.DefaultMintConfirmations < 0 {
		c.DefaultMintConfirmations = defaults.DefaultMintConfirmations
	}

	if c.AcceptFeeReferenceSize <= 0 {
		c.AcceptFeeReferenceSize = defaults.AcceptFeeReferenceSize
	}

	if c.MaxDenominations <= 0 {
		c.MaxDenominations = defaults.MaxDenominations
	}
}

func (c Config) validate() error {
	if c.MaxDenominations > constant.MaxDenominations {
		return fmt.Errorf("%w: max denominations must not exceed %d, got %d",
			ErrInvalidConfig, constant.MaxDenominations, c.MaxDenominations)
	}

	return nil
}
