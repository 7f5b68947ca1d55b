package protocol

import (
	constant "github.com/tokenlayer/lib-txpipeline/txpipeline/constants"
)

// PropertyID identifies a token-layer property.
type PropertyID uint32

// Ecosystem returns the namespace the property lives in.
func (id PropertyID) Ecosystem() constant.Ecosystem {
	return constant.EcosystemOf(uint32(id))
}

// IsPrimaryToken reports whether id is the main or test ecosystem's own token.
func (id PropertyID) IsPrimaryToken() bool {
	return uint32(id) == constant.PropertyMainToken || uint32(id) == constant.PropertyTestToken
}

// DenominationID indexes a property's denomination table.
type DenominationID uint8

// Property is the ledger's view of an issued property.
type Property struct {
	ID            PropertyID
	Name          string
	Issuer        string
	Divisible     bool
	Managed       bool
	FromCrowdsale bool
	SigmaStatus   constant.SigmaStatus
	// Denominations holds denomination values indexed by DenominationID.
	Denominations []int64
}

// DenominationValue returns the value of denomination d.
func (p Property) DenominationValue(d DenominationID) (int64, bool) {
	if int(d) >= len(p.Denominations) {
		return 0, false
	}

	return p.Denominations[d], true
}

// HasDenominationValue reports whether a denomination with this value already exists.
func (p Property) HasDenominationValue(value int64) bool {
	for _, v := range p.Denominations {
		if v == value {
			return true
		}
	}

	return false
}

// Offer is an open sell offer on the distributed exchange.
type Offer struct {
	Seller        string
	Property      PropertyID
	AmountForSale int64
	AmountDesired int64
	MinAcceptFee  int64
	PaymentWindow uint8
}
