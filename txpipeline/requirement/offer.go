package requirement

import (
	"context"

	"github.com/tokenlayer/lib-txpipeline/txpipeline/ledger"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
)

func offerOf(v ledger.View, seller string, id protocol.PropertyID) (protocol.Offer, error) {
	o, ok := v.Offer(seller, id)
	if !ok {
		return protocol.Offer{}, protocol.Errorf(protocol.KindPreconditionFailed, protocol.ErrorOfferNotFound,
			"offer", "no active sell offer of property %d from this seller", id)
	}

	return o, nil
}

// MatchingOffer requires an open sell offer of id by seller.
func MatchingOffer(seller string, id protocol.PropertyID) Check {
	return func(_ context.Context, v ledger.View) error {
		_, err := offerOf(v, seller, id)
		return err
	}
}

// NoOtherOffer requires seller to have no open offer of id.
func NoOtherOffer(seller string, id protocol.PropertyID) Check {
	return func(_ context.Context, v ledger.View) error {
		if _, ok := v.Offer(seller, id); ok {
			return protocol.Errorf(protocol.KindPreconditionFailed, protocol.ErrorOfferExists,
				"offer", "sender already has an active sell offer of property %d", id)
		}

		return nil
	}
}

// SaneOfferFee requires the seller's minimum accept fee not to exceed maxFee.
func SaneOfferFee(seller string, id protocol.PropertyID, maxFee int64) Check {
	return func(_ context.Context, v ledger.View) error {
		o, err := offerOf(v, seller, id)
		if err != nil {
			return err
		}

		if o.MinAcceptFee > maxFee {
			return protocol.Errorf(protocol.KindPreconditionFailed, protocol.ErrorOfferFeeTooHigh,
				"fee", "minimum accept fee %s is higher than expected",
				protocol.FormatAmount(o.MinAcceptFee, true))
		}

		return nil
	}
}

// SaneOfferPaymentWindow requires the offer's payment window to be at least minBlocks.
func SaneOfferPaymentWindow(seller string, id protocol.PropertyID, minBlocks uint8) Check {
	return func(_ context.Context, v ledger.View) error {
		o, err := offerOf(v, seller, id)
		if err != nil {
			return err
		}

		if o.PaymentWindow < minBlocks {
			return protocol.Errorf(protocol.KindPreconditionFailed, protocol.ErrorPaymentWindowTooShort,
				"paymentWindow", "payment window of %d blocks is lower than expected", o.PaymentWindow)
		}

		return nil
	}
}
