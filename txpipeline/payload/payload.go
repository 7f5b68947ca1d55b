package payload

import (
	"context"

	"github.com/tokenlayer/lib-txpipeline/txpipeline/commitment"
	constant "github.com/tokenlayer/lib-txpipeline/txpipeline/constants"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
)

// Params is a typed parameter set for one transaction type.
type Params interface {
	TxType() constant.TxType
}

// Encoder turns parameters into an encoded payload.
type Encoder interface {
	Encode(ctx context.Context, params Params) ([]byte, error)
}

// EncoderFunc adapts a function to Encoder.
type EncoderFunc func(ctx context.Context, params Params) ([]byte, error)

// Encode calls f.
func (f EncoderFunc) Encode(ctx context.Context, params Params) ([]byte, error) {
	return f(ctx, params)
}

type SimpleSend struct {
	Property protocol.PropertyID
	Amount   int64
}

func (SimpleSend) TxType() constant.TxType { return constant.TxTypeSimpleSend }

type SendAll struct {
	Ecosystem constant.Ecosystem
}

func (SendAll) TxType() constant.TxType { return constant.TxTypeSendAll }

// DExSell places, updates or cancels a sell offer. Cancels carry zero amounts.
type DExSell struct {
	Property      protocol.PropertyID
	AmountForSale int64
	AmountDesired int64
	PaymentWindow uint8
	MinAcceptFee  int64
	Action        constant.OfferAction
}

func (DExSell) TxType() constant.TxType { return constant.TxTypeTradeOffer }

type DExAccept struct {
	Property protocol.PropertyID
	Amount   int64
}

func (DExAccept) TxType() constant.TxType { return constant.TxTypeAcceptOffer }

// PropertyInfo is the descriptive part shared by every issuance.
type PropertyInfo struct {
	Ecosystem   constant.Ecosystem
	Divisible   bool
	PreviousID  protocol.PropertyID
	Category    string
	Subcategory string
	Name        string
	URL         string
	Data        string
}

// IssuanceVariable creates a crowdsale.
type IssuanceVariable struct {
	PropertyInfo
	PropertyDesired  protocol.PropertyID
	TokensPerUnit    int64
	Deadline         int64
	EarlyBonus       uint8
	IssuerPercentage uint8
}

func (IssuanceVariable) TxType() constant.TxType { return constant.TxTypeCreatePropertyVariable }

type IssuanceFixed struct {
	PropertyInfo
	Amount int64
	// Sigma is nil when the caller left the status unspecified.
	Sigma *constant.SigmaStatus
}

func (IssuanceFixed) TxType() constant.TxType { return constant.TxTypeCreatePropertyFixed }

type IssuanceManaged struct {
	PropertyInfo
	Sigma *constant.SigmaStatus
}

func (IssuanceManaged) TxType() constant.TxType { return constant.TxTypeCreatePropertyManaged }

type SendToOwners struct {
	Property             protocol.PropertyID
	Amount               int64
	DistributionProperty protocol.PropertyID
}

func (SendToOwners) TxType() constant.TxType { return constant.TxTypeSendToOwners }

type Grant struct {
	Property protocol.PropertyID
	Amount   int64
	Memo     string
}

func (Grant) TxType() constant.TxType { return constant.TxTypeGrantTokens }

type Revoke struct {
	Property protocol.PropertyID
	Amount   int64
	Memo     string
}

func (Revoke) TxType() constant.TxType { return constant.TxTypeRevokeTokens }

type CloseCrowdsale struct {
	Property protocol.PropertyID
}

func (CloseCrowdsale) TxType() constant.TxType { return constant.TxTypeCloseCrowdsale }

type MetaDExTrade struct {
	PropertyForSale protocol.PropertyID
	AmountForSale   int64
	PropertyDesired protocol.PropertyID
	AmountDesired   int64
}

func (MetaDExTrade) TxType() constant.TxType { return constant.TxTypeMetaDExTrade }

type MetaDExCancelPrice struct {
	PropertyForSale protocol.PropertyID
	AmountForSale   int64
	PropertyDesired protocol.PropertyID
	AmountDesired   int64
}

func (MetaDExCancelPrice) TxType() constant.TxType { return constant.TxTypeMetaDExCancelPrice }

type MetaDExCancelPair struct {
	PropertyForSale protocol.PropertyID
	PropertyDesired protocol.PropertyID
}

func (MetaDExCancelPair) TxType() constant.TxType { return constant.TxTypeMetaDExCancelPair }

type MetaDExCancelEcosystem struct {
	Ecosystem constant.Ecosystem
}

func (MetaDExCancelEcosystem) TxType() constant.TxType { return constant.TxTypeMetaDExCancelEcosystem }

type ChangeIssuer struct {
	Property protocol.PropertyID
}

func (ChangeIssuer) TxType() constant.TxType { return constant.TxTypeChangeIssuer }

type EnableFreezing struct {
	Property protocol.PropertyID
}

func (EnableFreezing) TxType() constant.TxType { return constant.TxTypeEnableFreezing }

type DisableFreezing struct {
	Property protocol.PropertyID
}

func (DisableFreezing) TxType() constant.TxType { return constant.TxTypeDisableFreezing }

// FreezeTokens carries the frozen address inside the payload rather than as a
// transaction output.
type FreezeTokens struct {
	Property  protocol.PropertyID
	Amount    int64
	Reference string
}

func (FreezeTokens) TxType() constant.TxType { return constant.TxTypeFreezeTokens }

type UnfreezeTokens struct {
	Property  protocol.PropertyID
	Amount    int64
	Reference string
}

func (UnfreezeTokens) TxType() constant.TxType { return constant.TxTypeUnfreezeTokens }

type ActivateFeature struct {
	FeatureID        uint16
	ActivationBlock  uint32
	MinClientVersion uint32
}

func (ActivateFeature) TxType() constant.TxType { return constant.TxTypeActivation }

type DeactivateFeature struct {
	FeatureID uint16
}

func (DeactivateFeature) TxType() constant.TxType { return constant.TxTypeDeactivation }

type Alert struct {
	AlertType uint16
	Expiry    uint32
	Message   string
}

func (Alert) TxType() constant.TxType { return constant.TxTypeAlert }

type CreateDenomination struct {
	Property protocol.PropertyID
	Value    int64
}

func (CreateDenomination) TxType() constant.TxType { return constant.TxTypeCreateDenomination }

// SimpleMint publishes the public values of freshly created commitments.
type SimpleMint struct {
	Property protocol.PropertyID
	Mints    []commitment.PublicCommitment
}

func (SimpleMint) TxType() constant.TxType { return constant.TxTypeSimpleMint }

// SimpleSpend consumes one commitment. Proof construction is left to the encoder.
type SimpleSpend struct {
	Property     protocol.PropertyID
	Denomination protocol.DenominationID
	Spend        commitment.Spend
}

func (SimpleSpend) TxType() constant.TxType { return constant.TxTypeSimpleSpend }
