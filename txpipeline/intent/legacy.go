package intent

import (
	constant "github.com/tokenlayer/lib-txpipeline/txpipeline/constants"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
)

// FromLegacyTrade maps the combined trade entry point onto the specific
// intent its action selects. It performs no ledger access.
//
// Cancel-everything derives the ecosystem from both property ids and yields
// EcosystemNone when they disagree; the dispatcher rejects that value.
func FromLegacyTrade(t LegacyTrade) (Intent, error) {
	switch t.Action {
	case constant.TradeActionAdd:
		return Trade{
			From:            t.From,
			PropertyForSale: t.PropertyForSale,
			AmountForSale:   t.AmountForSale,
			PropertyDesired: t.PropertyDesired,
			AmountDesired:   t.AmountDesired,
		}, nil
	case constant.TradeActionCancelPrice:
		return CancelTradesByPrice{
			From:            t.From,
			PropertyForSale: t.PropertyForSale,
			AmountForSale:   t.AmountForSale,
			PropertyDesired: t.PropertyDesired,
			AmountDesired:   t.AmountDesired,
		}, nil
	case constant.TradeActionCancelPair:
		return CancelTradesByPair{
			From:            t.From,
			PropertyForSale: t.PropertyForSale,
			PropertyDesired: t.PropertyDesired,
		}, nil
	case constant.TradeActionCancelEverything:
		return CancelAllTrades{
			From:      t.From,
			Ecosystem: constant.SharedEcosystem(uint32(t.PropertyForSale), uint32(t.PropertyDesired)),
		}, nil
	}

	return nil, protocol.NewDomainError(protocol.KindInvalidParameter, protocol.ErrorInvalidAction,
		"action", "Invalid action (1,2,3,4 only)")
}
