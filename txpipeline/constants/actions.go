package constant

// OfferAction selects what a sell offer on the distributed exchange does.
type OfferAction uint8

const (
	OfferActionNew    OfferAction = 1
	OfferActionUpdate OfferAction = 2
	OfferActionCancel OfferAction = 3
)

// String returns the action name.
func (a OfferAction) String() string {
	switch a {
	case OfferActionNew:
		return "new"
	case OfferActionUpdate:
		return "update"
	case OfferActionCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// ReservesFunds reports whether the action locks tokens for sale.
func (a OfferAction) ReservesFunds() bool {
	return a == OfferActionNew || a == OfferActionUpdate
}

// TradeAction is the action code of the legacy combined trade entry point.
type TradeAction uint8

const (
	TradeActionAdd              TradeAction = 1
	TradeActionCancelPrice      TradeAction = 2
	TradeActionCancelPair       TradeAction = 3
	TradeActionCancelEverything TradeAction = 4
)

// SigmaStatus is the sigma (private denomination) mode of a managed or fixed property.
type SigmaStatus uint8

const (
	SigmaSoftDisabled SigmaStatus = 0
	SigmaSoftEnabled  SigmaStatus = 1
	SigmaHardDisabled SigmaStatus = 2
	SigmaHardEnabled  SigmaStatus = 3
)

// Valid reports whether s is a known status.
func (s SigmaStatus) Valid() bool {
	return s <= SigmaHardEnabled
}

// Enabled reports whether sigma operations are allowed under s.
func (s SigmaStatus) Enabled() bool {
	return s == SigmaSoftEnabled || s == SigmaHardEnabled
}
