package intent

import (
	constant "github.com/tokenlayer/lib-txpipeline/txpipeline/constants"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/payload"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
)

// Intent is one requested action. The set of implementations is closed.
type Intent interface {
	// Operation names the action for logs, spans and metrics.
	Operation() string
	isIntent()
}

// Operation names.
const (
	OpSendRaw             = "send_raw"
	OpSend                = "send"
	OpSendAll             = "send_all"
	OpOfferSell           = "offer_sell"
	OpOfferAccept         = "offer_accept"
	OpIssueCrowdsale      = "issue_crowdsale"
	OpIssueFixed          = "issue_fixed"
	OpIssueManaged        = "issue_managed"
	OpSendToOwners        = "send_to_owners"
	OpGrant               = "grant"
	OpRevoke              = "revoke"
	OpCloseCrowdsale      = "close_crowdsale"
	OpTrade               = "trade"
	OpCancelTradesByPrice = "cancel_trades_by_price"
	OpCancelTradesByPair  = "cancel_trades_by_pair"
	OpCancelAllTrades     = "cancel_all_trades"
	OpChangeIssuer        = "change_issuer"
	OpEnableFreezing      = "enable_freezing"
	OpDisableFreezing     = "disable_freezing"
	OpFreeze              = "freeze"
	OpUnfreeze            = "unfreeze"
	OpActivateFeature     = "activate_feature"
	OpDeactivateFeature   = "deactivate_feature"
	OpAlert               = "alert"
	OpCreateDenomination  = "create_denomination"
	OpMint                = "mint"
	OpSpend               = "spend"
	OpLegacyTrade         = "legacy_trade"
)

// SendRaw broadcasts a caller-encoded payload as is.
type SendRaw struct {
	From            string
	To              string
	Redeem          string
	ReferenceAmount int64
	Payload         []byte
}

type Send struct {
	From            string
	To              string
	Property        protocol.PropertyID
	Amount          int64
	Redeem          string
	ReferenceAmount int64
}

// SendAll transfers every available token of an ecosystem.
type SendAll struct {
	From            string
	To              string
	Ecosystem       constant.Ecosystem
	Redeem          string
	ReferenceAmount int64
}

// OfferSell places, updates or cancels a sell offer for a primary token.
// Amounts, window and fee are ignored for cancels.
type OfferSell struct {
	From          string
	Property      protocol.PropertyID
	AmountForSale int64
	AmountDesired int64
	// PaymentWindow is in blocks, 1 to 255.
	PaymentWindow int64
	MinAcceptFee  int64
	Action        constant.OfferAction
}

// OfferAccept accepts the sell offer of To. Override skips the fee and
// payment-window sanity checks.
type OfferAccept struct {
	From     string
	To       string
	Property protocol.PropertyID
	Amount   int64
	Override bool
}

// IssueCrowdsale creates a property sold for PropertyDesired until Deadline.
type IssueCrowdsale struct {
	From             string
	Info             payload.PropertyInfo
	PropertyDesired  protocol.PropertyID
	TokensPerUnit    int64
	Deadline         int64
	EarlyBonus       uint8
	IssuerPercentage uint8
}

type IssueFixed struct {
	From   string
	Info   payload.PropertyInfo
	Amount int64
	Sigma  *constant.SigmaStatus
}

type IssueManaged struct {
	From  string
	Info  payload.PropertyInfo
	Sigma *constant.SigmaStatus
}

// SendToOwners distributes Amount to the holders of DistributionProperty,
// which defaults to Property when zero.
type SendToOwners struct {
	From                 string
	Property             protocol.PropertyID
	Amount               int64
	Redeem               string
	DistributionProperty protocol.PropertyID
}

// Grant issues new tokens of a managed property, to To or to the issuer when empty.
type Grant struct {
	From     string
	To       string
	Property protocol.PropertyID
	Amount   int64
	Memo     string
}

type Revoke struct {
	From     string
	Property protocol.PropertyID
	Amount   int64
	Memo     string
}

type CloseCrowdsale struct {
	From     string
	Property protocol.PropertyID
}

// Trade places an order on the token exchange.
type Trade struct {
	From            string
	PropertyForSale protocol.PropertyID
	AmountForSale   int64
	PropertyDesired protocol.PropertyID
	AmountDesired   int64
}

// CancelTradesByPrice cancels the sender's orders at exactly this price.
type CancelTradesByPrice struct {
	From            string
	PropertyForSale protocol.PropertyID
	AmountForSale   int64
	PropertyDesired protocol.PropertyID
	AmountDesired   int64
}

// CancelTradesByPair cancels the sender's orders for one pair.
type CancelTradesByPair struct {
	From            string
	PropertyForSale protocol.PropertyID
	PropertyDesired protocol.PropertyID
}

// CancelAllTrades cancels every order of the sender in one ecosystem.
type CancelAllTrades struct {
	From      string
	Ecosystem constant.Ecosystem
}

type ChangeIssuer struct {
	From     string
	To       string
	Property protocol.PropertyID
}

type EnableFreezing struct {
	From     string
	Property protocol.PropertyID
}

type DisableFreezing struct {
	From     string
	Property protocol.PropertyID
}

// Freeze freezes Amount of Property held by Reference.
type Freeze struct {
	From      string
	Reference string
	Property  protocol.PropertyID
	Amount    int64
}

type Unfreeze struct {
	From      string
	Reference string
	Property  protocol.PropertyID
	Amount    int64
}

type ActivateFeature struct {
	From             string
	FeatureID        uint16
	ActivationBlock  uint32
	MinClientVersion uint32
}

type DeactivateFeature struct {
	From      string
	FeatureID uint16
}

// Alert broadcasts a protocol alert. AlertType and Expiry are range checked.
type Alert struct {
	From      string
	AlertType int64
	Expiry    int64
	Message   string
}

type CreateDenomination struct {
	From     string
	Property protocol.PropertyID
	Value    int64
}

// MintUnit requests Count mints of one denomination. Both are range checked
// before use.
type MintUnit struct {
	Denomination int64
	Count        int64
}

// Mint creates blinded-token commitments for Units, in order. A zero
// MinConfirmations uses the configured default.
type Mint struct {
	From             string
	Property         protocol.PropertyID
	Units            []MintUnit
	MinConfirmations int
}

// Spend redeems one commitment of Denomination to To. No sender address is used.
type Spend struct {
	To              string
	Property        protocol.PropertyID
	Denomination    int64
	ReferenceAmount int64
}

// LegacyTrade is the combined trade entry point selecting its effect by action code.
type LegacyTrade struct {
	From            string
	PropertyForSale protocol.PropertyID
	AmountForSale   int64
	PropertyDesired protocol.PropertyID
	AmountDesired   int64
	Action          constant.TradeAction
}

func (SendRaw) Operation() string             { return OpSendRaw }
func (Send) Operation() string                { return OpSend }
func (SendAll) Operation() string             { return OpSendAll }
func (OfferSell) Operation() string           { return OpOfferSell }
func (OfferAccept) Operation() string         { return OpOfferAccept }
func (IssueCrowdsale) Operation() string      { return OpIssueCrowdsale }
func (IssueFixed) Operation() string          { return OpIssueFixed }
func (IssueManaged) Operation() string        { return OpIssueManaged }
func (SendToOwners) Operation() string        { return OpSendToOwners }
func (Grant) Operation() string               { return OpGrant }
func (Revoke) Operation() string              { return OpRevoke }
func (CloseCrowdsale) Operation() string      { return OpCloseCrowdsale }
func (Trade) Operation() string               { return OpTrade }
func (CancelTradesByPrice) Operation() string { return OpCancelTradesByPrice }
func (CancelTradesByPair) Operation() string  { return OpCancelTradesByPair }
func (CancelAllTrades) Operation() string     { return OpCancelAllTrades }
func (ChangeIssuer) Operation() string        { return OpChangeIssuer }
func (EnableFreezing) Operation() string      { return OpEnableFreezing }
func (DisableFreezing) Operation() string     { return OpDisableFreezing }
func (Freeze) Operation() string              { return OpFreeze }
func (Unfreeze) Operation() string            { return OpUnfreeze }
func (ActivateFeature) Operation() string     { return OpActivateFeature }
func (DeactivateFeature) Operation() string   { return OpDeactivateFeature }
func (Alert) Operation() string               { return OpAlert }
func (CreateDenomination) Operation() string  { return OpCreateDenomination }
func (Mint) Operation() string                { return OpMint }
func (Spend) Operation() string               { return OpSpend }
func (LegacyTrade) Operation() string         { return OpLegacyTrade }

func (SendRaw) isIntent()             {}
func (Send) isIntent()                {}
func (SendAll) isIntent()             {}
func (OfferSell) isIntent()           {}
func (OfferAccept) isIntent()         {}
func (IssueCrowdsale) isIntent()      {}
func (IssueFixed) isIntent()          {}
func (IssueManaged) isIntent()        {}
func (SendToOwners) isIntent()        {}
func (Grant) isIntent()               {}
func (Revoke) isIntent()              {}
func (CloseCrowdsale) isIntent()      {}
func (Trade) isIntent()               {}
func (CancelTradesByPrice) isIntent() {}
func (CancelTradesByPair) isIntent()  {}
func (CancelAllTrades) isIntent()     {}
func (ChangeIssuer) isIntent()        {}
func (EnableFreezing) isIntent()      {}
func (DisableFreezing) isIntent()     {}
func (Freeze) isIntent()              {}
func (Unfreeze) isIntent()            {}
func (ActivateFeature) isIntent()     {}
func (DeactivateFeature) isIntent()   {}
func (Alert) isIntent()               {}
func (CreateDenomination) isIntent()  {}
func (Mint) isIntent()                {}
func (Spend) isIntent()               {}
func (LegacyTrade) isIntent()         {}
