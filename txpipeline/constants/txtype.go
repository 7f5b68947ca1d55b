package constant

import "strconv"

// TxType is the protocol transaction type code carried by a payload.
type TxType uint16

const (
	TxTypeSimpleSend             TxType = 0
	TxTypeSendToOwners           TxType = 3
	TxTypeSendAll                TxType = 4
	TxTypeTradeOffer             TxType = 20
	TxTypeAcceptOffer            TxType = 22
	TxTypeMetaDExTrade           TxType = 25
	TxTypeMetaDExCancelPrice     TxType = 26
	TxTypeMetaDExCancelPair      TxType = 27
	TxTypeMetaDExCancelEcosystem TxType = 28
	TxTypeCreatePropertyFixed    TxType = 50
	TxTypeCreatePropertyVariable TxType = 51
	TxTypeCloseCrowdsale         TxType = 53
	TxTypeCreatePropertyManaged  TxType = 54
	TxTypeGrantTokens            TxType = 55
	TxTypeRevokeTokens           TxType = 56
	TxTypeChangeIssuer           TxType = 70
	TxTypeEnableFreezing         TxType = 71
	TxTypeDisableFreezing        TxType = 72
	TxTypeFreezeTokens           TxType = 185
	TxTypeUnfreezeTokens         TxType = 186
	TxTypeCreateDenomination     TxType = 1025
	TxTypeSimpleMint             TxType = 1026
	TxTypeSimpleSpend            TxType = 1027
	TxTypeDeactivation           TxType = 65533
	TxTypeActivation             TxType = 65534
	TxTypeAlert                  TxType = 65535
)

var txTypeNames = map[TxType]string{
	TxTypeSimpleSend:             "simple_send",
	TxTypeSendToOwners:           "send_to_owners",
	TxTypeSendAll:                "send_all",
	TxTypeTradeOffer:             "dex_sell_offer",
	TxTypeAcceptOffer:            "dex_accept_offer",
	TxTypeMetaDExTrade:           "metadex_trade",
	TxTypeMetaDExCancelPrice:     "metadex_cancel_price",
	TxTypeMetaDExCancelPair:      "metadex_cancel_pair",
	TxTypeMetaDExCancelEcosystem: "metadex_cancel_ecosystem",
	TxTypeCreatePropertyFixed:    "create_property_fixed",
	TxTypeCreatePropertyVariable: "create_property_variable",
	TxTypeCloseCrowdsale:         "close_crowdsale",
	TxTypeCreatePropertyManaged:  "create_property_managed",
	TxTypeGrantTokens:            "grant_tokens",
	TxTypeRevokeTokens:           "revoke_tokens",
	TxTypeChangeIssuer:           "change_issuer",
	TxTypeEnableFreezing:         "enable_freezing",
	TxTypeDisableFreezing:        "disable_freezing",
	TxTypeFreezeTokens:           "freeze_tokens",
	TxTypeUnfreezeTokens:         "unfreeze_tokens",
	TxTypeCreateDenomination:     "create_denomination",
	TxTypeSimpleMint:             "simple_mint",
	TxTypeSimpleSpend:            "simple_spend",
	TxTypeDeactivation:           "deactivation",
	TxTypeActivation:             "activation",
	TxTypeAlert:                  "alert",
}

// String returns the snake_case name of the type, or its numeric code when unknown.
func (t TxType) String() string {
	if name, ok := txTypeNames[t]; ok {
		return name
	}

	return "tx_type_" + strconv.FormatUint(uint64(t), 10)
}
