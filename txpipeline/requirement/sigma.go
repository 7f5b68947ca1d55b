package requirement

import (
	"context"

	constant "github.com/tokenlayer/lib-txpipeline/txpipeline/constants"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/ledger"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
)

// SigmaEnabled requires id to accept sigma operations.
func SigmaEnabled(id protocol.PropertyID) Check {
	return func(_ context.Context, v ledger.View) error {
		p, err := lookup(v, id)
		if err != nil {
			return err
		}

		if !p.SigmaStatus.Enabled() {
			return protocol.Errorf(protocol.KindPreconditionFailed, protocol.ErrorSigmaDisabled,
				"property", "property %d does not have sigma enabled", id)
		}

		return nil
	}
}

// SigmaStatus requires status to be a known sigma mode.
func SigmaStatus(status constant.SigmaStatus) Check {
	return func(context.Context, ledger.View) error {
		if !status.Valid() {
			return protocol.Errorf(protocol.KindInvalidParameter, protocol.ErrorInvalidSigmaStatus,
				"sigma", "invalid sigma status %d", status)
		}

		return nil
	}
}

// ExistingDenomination requires denomination d to exist on id.
func ExistingDenomination(id protocol.PropertyID, d protocol.DenominationID) Check {
	return func(_ context.Context, v ledger.View) error {
		p, err := lookup(v, id)
		if err != nil {
			return err
		}

		if _, ok := p.DenominationValue(d); !ok {
			return protocol.Errorf(protocol.KindPreconditionFailed, protocol.ErrorDenominationNotFound,
				"denomination", "denomination %d does not exist on property %d", d, id)
		}

		return nil
	}
}

// DenominationConfirmed requires the creation of d to have at least minConfirms confirmations.
// An unknown denomination is a parameter error here, as the caller named it.
func DenominationConfirmed(id protocol.PropertyID, d protocol.DenominationID, minConfirms int) Check {
	return func(_ context.Context, v ledger.View) error {
		confirmations, ok := v.DenominationConfirmations(id, d)
		if !ok {
			return protocol.Errorf(protocol.KindInvalidParameter, protocol.ErrorUnknownDenomination,
				"denomination", "denomination %d does not exist on property %d", d, id)
		}

		if remaining := minConfirms - confirmations; remaining > 0 {
			return protocol.Errorf(protocol.KindPreconditionFailed, protocol.ErrorDenominationUnconfirmed,
				"denomination", "denomination %d of property %d needs %d more confirmations", d, id, remaining)
		}

		return nil
	}
}

// DenominationCapacity requires id to hold fewer than limit denominations.
func DenominationCapacity(id protocol.PropertyID, limit int) Check {
	return func(_ context.Context, v ledger.View) error {
		p, err := lookup(v, id)
		if err != nil {
			return err
		}

		if len(p.Denominations) >= limit {
			return protocol.Errorf(protocol.KindInvalidParameter, protocol.ErrorDenominationLimit,
				"property", "property %d already has the maximum of %d denominations", id, limit)
		}

		return nil
	}
}

// NewDenominationValue requires value not to be an existing denomination of id.
func NewDenominationValue(id protocol.PropertyID, value int64) Check {
	return func(_ context.Context, v ledger.View) error {
		p, err := lookup(v, id)
		if err != nil {
			return err
		}

		if p.HasDenominationValue(value) {
			return protocol.Errorf(protocol.KindInvalidParameter, protocol.ErrorDenominationExists,
				"value", "denomination with value %s already exists", protocol.FormatAmount(value, p.Divisible))
		}

		return nil
	}
}
