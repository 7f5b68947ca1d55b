package composer

import (
	"context"
	"errors"
	"fmt"

	"github.com/tokenlayer/lib-txpipeline/txpipeline/feepolicy"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
)

// InputMode selects how the composer funds the transaction.
type InputMode uint8

const (
	// InputModeNormal funds from ordinary wallet outputs.
	InputModeNormal InputMode = iota
	// InputModeSigma funds through a sigma spend; the sender address is not used.
	InputModeSigma
)

// String returns the mode name.
func (m InputMode) String() string {
	if m == InputModeSigma {
		return "sigma"
	}

	return "normal"
}

// Request is one call to the composer.
type Request struct {
	From            string
	To              string
	Redeem          string
	ReferenceAmount int64
	Payload         []byte
	InputMode       InputMode
	// Commit asks the composer to broadcast. When false only the raw hex is returned.
	Commit bool
	// Fee overrides the default fee policy for this call when non-nil.
	Fee *feepolicy.Rate
}

// Result is a successfully composed transaction. TxID is set in both modes;
// RawHex only when the transaction was not committed.
type Result struct {
	TxID   string
	RawHex string
}

// Composer builds, signs and optionally broadcasts a transaction.
type Composer interface {
	Compose(ctx context.Context, req Request) (Result, error)
}

// Func adapts a function to Composer.
type Func func(ctx context.Context, req Request) (Result, error)

// Compose calls f.
func (f Func) Compose(ctx context.Context, req Request) (Result, error) {
	return f(ctx, req)
}

// StatusError reports a non-zero composer status.
type StatusError struct {
	Code    int
	Message string
}

// Error returns the status and message.
func (e *StatusError) Error() string {
	return fmt.Sprintf("composer status %d: %s", e.Code, e.Message)
}

// Classify maps a composer error onto the DomainError taxonomy: status errors
// become CompositionFailed, anything else WalletError. Domain errors pass through.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var de *protocol.DomainError
	if errors.As(err, &de) {
		return err
	}

	var se *StatusError
	if errors.As(err, &se) {
		return protocol.CompositionFailed(se.Code, se.Message)
	}

	return protocol.WalletError("composer call failed", err)
}
