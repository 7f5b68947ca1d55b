package pending

import "errors"

var (
	ErrTxIDRequired       = errors.New("pending entry txid is required")
	ErrNegativeAmount     = errors.New("pending entry amount must not be negative")
	ErrClientRequired     = errors.New("redis client is required")
	ErrEntryUnreadable    = errors.New("pending entry could not be decoded")
	ErrOutstandingCorrupt = errors.New("outstanding pending amount is not an integer")
)
