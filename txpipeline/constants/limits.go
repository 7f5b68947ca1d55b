package constant

const (
	// MaxDenominations is the number of denominations a property can hold.
	MaxDenominations = 255
	// MaxDenominationID is the largest denomination identifier.
	MaxDenominationID = 255
	// MaxMintCount is the largest number of coins of one denomination in a mint request.
	MaxMintCount = 255
	// DefaultMintConfirmations is the confirmation depth a denomination needs before minting.
	DefaultMintConfirmations = 6
	// DefaultMaxReferenceAmount bounds the reference output value, in base units.
	DefaultMaxReferenceAmount int64 = 1_000_000
	// DefaultMaxAcceptFee bounds the minimum fee a seller may demand from an accept.
	DefaultMaxAcceptFee int64 = 1_000_000
	// DefaultMinPaymentWindow is the smallest payment window, in blocks, accepted without override.
	DefaultMinPaymentWindow uint8 = 10
	// AcceptFeeReferenceSize is the virtual size the seller's minimum fee is quoted against.
	AcceptFeeReferenceSize = 225
	// MaxAlertType and MaxAlertExpiry bound alert parameters.
	MaxAlertType   int64 = 65535
	MaxAlertExpiry int64 = 4294967295
)
