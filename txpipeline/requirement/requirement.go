package requirement

import (
	"context"

	"github.com/tokenlayer/lib-txpipeline/txpipeline/ledger"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
)

// Check is one named predicate over a ledger snapshot.
type Check func(ctx context.Context, v ledger.View) error

// Outstanding reports provisional amounts already committed by broadcast but
// unconfirmed transactions. pending.Reader satisfies it.
type Outstanding interface {
	Outstanding(ctx context.Context, address string, property protocol.PropertyID) (int64, error)
}

// Run evaluates checks in order and returns the first failure.
func Run(ctx context.Context, v ledger.View, checks ...Check) error {
	for _, check := range checks {
		if check == nil {
			continue
		}

		if err := check(ctx, v); err != nil {
			return err
		}
	}

	return nil
}

// Validate runs checks against one snapshot of reader.
func Validate(ctx context.Context, reader ledger.Reader, checks ...Check) error {
	return reader.View(ctx, func(v ledger.View) error {
		return Run(ctx, v, checks...)
	})
}

// When returns check if cond holds, nil otherwise. Run skips nil checks.
func When(cond bool, check Check) Check {
	if !cond {
		return nil
	}

	return check
}
