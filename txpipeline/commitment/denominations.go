package commitment

import (
	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/safe"
)

// DenominationCount asks for Count mints of one denomination.
type DenominationCount struct {
	Denomination protocol.DenominationID
	Count        int
}

// ExpandUnits flattens counts into one denomination per mint, preserving order.
func ExpandUnits(counts []DenominationCount) []protocol.DenominationID {
	var units []protocol.DenominationID

	for _, c := range counts {
		for i := 0; i < c.Count; i++ {
			units = append(units, c.Denomination)
		}
	}

	return units
}

// SumDenominations returns the total value of counts on property. An unknown
// denomination and a sum beyond int64 are reported as distinct invalid
// parameters.
func SumDenominations(property protocol.Property, counts []DenominationCount) (int64, error) {
	var total int64

	for _, c := range counts {
		value, ok := property.DenominationValue(c.Denomination)
		if !ok {
			return 0, protocol.Errorf(protocol.KindInvalidParameter, protocol.ErrorUnknownDenomination, "denomination",
				"denomination %d does not exist on property %d", c.Denomination, property.ID)
		}

		part, err := safe.MulInt64(value, int64(c.Count))
		if err != nil {
			return 0, overflow(err)
		}

		if total, err = safe.AddInt64(total, part); err != nil {
			return 0, overflow(err)
		}
	}

	return total, nil
}

func overflow(cause error) error {
	return &protocol.DomainError{
		Kind:    protocol.KindInvalidParameter,
		Code:    protocol.ErrorAmountOverflow,
		Field:   "denominations",
		Message: "total mint amount overflows",
		Cause:   cause,
	}
}
