package dispatch

import "errors"

var (
	// ErrLedgerRequired is returned when New is called without a ledger reader.
	ErrLedgerRequired = errors.New("ledger reader is required")
	// ErrComposerRequired is returned when New is called without a composer.
	ErrComposerRequired = errors.New("composer is required")
	// ErrEncoderRequired is returned when New is called without a payload encoder.
	ErrEncoderRequired = errors.New("payload encoder is required")
	// ErrInvalidConfig wraps configuration validation failures.
	ErrInvalidConfig = errors.New("invalid dispatch config")
	// ErrUnsupportedIntent is the cause of the error Execute returns for unknown variants.
	ErrUnsupportedIntent = errors.New("unsupported intent")
)
