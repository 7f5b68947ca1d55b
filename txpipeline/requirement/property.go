package requirement

import (
	"context"
	"strings"

	constant "github.com/tokenlayer/lib-txpipeline/txpipeline/constants"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/ledger"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
)

func lookup(v ledger.View, id protocol.PropertyID) (protocol.Property, error) {
	p, ok := v.Property(id)
	if !ok {
		return protocol.Property{}, protocol.Errorf(protocol.KindPreconditionFailed, protocol.ErrorPropertyNotFound,
			"property", "property %d does not exist", id)
	}

	return p, nil
}

// ExistingProperty requires property id to exist.
func ExistingProperty(id protocol.PropertyID) Check {
	return func(_ context.Context, v ledger.View) error {
		_, err := lookup(v, id)
		return err
	}
}

// ManagedProperty requires id to be a managed property.
func ManagedProperty(id protocol.PropertyID) Check {
	return func(_ context.Context, v ledger.View) error {
		p, err := lookup(v, id)
		if err != nil {
			return err
		}

		if !p.Managed {
			return protocol.Errorf(protocol.KindPreconditionFailed, protocol.ErrorPropertyNotManaged,
				"property", "property %d is not a managed property", id)
		}

		return nil
	}
}

// TokenIssuer requires address to be the issuer of id.
func TokenIssuer(address string, id protocol.PropertyID) Check {
	return func(_ context.Context, v ledger.View) error {
		p, err := lookup(v, id)
		if err != nil {
			return err
		}

		if p.Issuer != address {
			return protocol.Errorf(protocol.KindPreconditionFailed, protocol.ErrorNotIssuer,
				"from", "sender is not the issuer of property %d", id)
		}

		return nil
	}
}

// PrimaryToken requires id to be the main or test ecosystem token.
func PrimaryToken(id protocol.PropertyID) Check {
	return func(context.Context, ledger.View) error {
		if !id.IsPrimaryToken() {
			return protocol.Errorf(protocol.KindPreconditionFailed, protocol.ErrorNotPrimaryToken,
				"property", "property %d is not a primary token; only %d and %d are traded on the distributed exchange",
				id, constant.PropertyMainToken, constant.PropertyTestToken)
		}

		return nil
	}
}

// PropertyName requires a non-blank name.
func PropertyName(name string) Check {
	return func(context.Context, ledger.View) error {
		if strings.TrimSpace(name) == "" {
			return protocol.NewDomainError(protocol.KindInvalidParameter, protocol.ErrorEmptyPropertyName,
				"name", "property name must not be empty")
		}

		return nil
	}
}

// Crowdsale requires id to have been issued through a crowdsale.
func Crowdsale(id protocol.PropertyID) Check {
	return func(_ context.Context, v ledger.View) error {
		p, err := lookup(v, id)
		if err != nil {
			return err
		}

		if !p.FromCrowdsale {
			return protocol.Errorf(protocol.KindPreconditionFailed, protocol.ErrorNotCrowdsale,
				"property", "property %d was not issued by a crowdsale", id)
		}

		return nil
	}
}

// ActiveCrowdsale requires an open crowdsale for id.
func ActiveCrowdsale(id protocol.PropertyID) Check {
	return func(_ context.Context, v ledger.View) error {
		if !v.ActiveCrowdsale(id) {
			return protocol.Errorf(protocol.KindPreconditionFailed, protocol.ErrorCrowdsaleInactive,
				"property", "property %d has no active crowdsale", id)
		}

		return nil
	}
}

// SameEcosystem requires a and b to share an ecosystem.
func SameEcosystem(a, b protocol.PropertyID) Check {
	return func(context.Context, ledger.View) error {
		if a.Ecosystem() != b.Ecosystem() {
			return protocol.Errorf(protocol.KindPreconditionFailed, protocol.ErrorEcosystemMismatch,
				"property", "properties %d and %d are not in the same ecosystem", a, b)
		}

		return nil
	}
}

// EcosystemOf requires id to live in ecosystem.
func EcosystemOf(ecosystem constant.Ecosystem, id protocol.PropertyID) Check {
	return func(context.Context, ledger.View) error {
		if id.Ecosystem() != ecosystem {
			return protocol.Errorf(protocol.KindPreconditionFailed, protocol.ErrorEcosystemMismatch,
				"ecosystem", "property %d is not in the %s ecosystem", id, ecosystem)
		}

		return nil
	}
}

// ValidEcosystem rejects anything but the main and test ecosystems, including the "none" sentinel.
func ValidEcosystem(ecosystem constant.Ecosystem) Check {
	return func(context.Context, ledger.View) error {
		if !ecosystem.Valid() {
			return protocol.Errorf(protocol.KindInvalidParameter, protocol.ErrorInvalidEcosystem,
				"ecosystem", "invalid ecosystem %d; properties must share the main or test ecosystem", ecosystem)
		}

		return nil
	}
}

// DifferentIDs requires a and b to differ.
func DifferentIDs(a, b protocol.PropertyID) Check {
	return func(context.Context, ledger.View) error {
		if a == b {
			return protocol.Errorf(protocol.KindPreconditionFailed, protocol.ErrorSameProperty,
				"property", "property identifiers must differ, both are %d", a)
		}

		return nil
	}
}
