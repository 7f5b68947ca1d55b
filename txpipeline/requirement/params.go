package requirement

import (
	"context"

	"github.com/tokenlayer/lib-txpipeline/txpipeline/ledger"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
)

// InRange requires lo <= value <= hi.
func InRange(field string, value, lo, hi int64) Check {
	return func(context.Context, ledger.View) error {
		if value < lo || value > hi {
			return protocol.Errorf(protocol.KindInvalidParameter, protocol.ErrorOutOfRange,
				field, "%s must be between %d and %d, got %d", field, lo, hi, value)
		}

		return nil
	}
}

// PositiveAmount requires amount > 0.
func PositiveAmount(field string, amount int64) Check {
	return func(context.Context, ledger.View) error {
		if amount <= 0 {
			return protocol.Errorf(protocol.KindInvalidParameter, protocol.ErrorInvalidAmount,
				field, "%s must be positive", field)
		}

		return nil
	}
}

// SaneReferenceAmount bounds the reference output value.
func SaneReferenceAmount(amount, limit int64) Check {
	return func(context.Context, ledger.View) error {
		if amount < 0 {
			return protocol.NewDomainError(protocol.KindInvalidParameter, protocol.ErrorInvalidAmount,
				"referenceAmount", "reference amount must not be negative")
		}

		if amount > limit {
			return protocol.Errorf(protocol.KindInvalidParameter, protocol.ErrorReferenceAmountTooHigh,
				"referenceAmount", "reference amount %s is higher than expected", protocol.FormatAmount(amount, true))
		}

		return nil
	}
}
