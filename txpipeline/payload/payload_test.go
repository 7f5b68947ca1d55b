package payload

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	constant "github.com/tokenlayer/lib-txpipeline/txpipeline/constants"
)

func TestParamsTxType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		params Params
		want   constant.TxType
	}{
		{SimpleSend{}, constant.TxTypeSimpleSend},
		{SendAll{}, constant.TxTypeSendAll},
		{DExSell{}, constant.TxTypeTradeOffer},
		{DExAccept{}, constant.TxTypeAcceptOffer},
		{IssuanceVariable{}, constant.TxTypeCreatePropertyVariable},
		{IssuanceFixed{}, constant.TxTypeCreatePropertyFixed},
		{IssuanceManaged{}, constant.TxTypeCreatePropertyManaged},
		{SendToOwners{}, constant.TxTypeSendToOwners},
		{Grant{}, constant.TxTypeGrantTokens},
		{Revoke{}, constant.TxTypeRevokeTokens},
		{CloseCrowdsale{}, constant.TxTypeCloseCrowdsale},
		{MetaDExTrade{}, constant.TxTypeMetaDExTrade},
		{MetaDExCancelPrice{}, constant.TxTypeMetaDExCancelPrice},
		{MetaDExCancelPair{}, constant.TxTypeMetaDExCancelPair},
		{MetaDExCancelEcosystem{}, constant.TxTypeMetaDExCancelEcosystem},
		{ChangeIssuer{}, constant.TxTypeChangeIssuer},
		{EnableFreezing{}, constant.TxTypeEnableFreezing},
		{DisableFreezing{}, constant.TxTypeDisableFreezing},
		{FreezeTokens{}, constant.TxTypeFreezeTokens},
		{UnfreezeTokens{}, constant.TxTypeUnfreezeTokens},
		{ActivateFeature{}, constant.TxTypeActivation},
		{DeactivateFeature{}, constant.TxTypeDeactivation},
		{Alert{}, constant.TxTypeAlert},
		{CreateDenomination{}, constant.TxTypeCreateDenomination},
		{SimpleMint{}, constant.TxTypeSimpleMint},
		{SimpleSpend{}, constant.TxTypeSimpleSpend},
	}

	for _, tt := range tests {

		tt := tt
		t.Run(tt.want.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.params.TxType())
		})
	}
}

func TestEncoderFunc(t *testing.T) {
	t.Parallel()

	var enc Encoder = EncoderFunc(func(_ context.Context, p Params) ([]byte, error) {
		return []byte{byte(p.TxType())}, nil
	})

	out, err := enc.Encode(context.Background(), SendAll{Ecosystem: constant.EcosystemMain})
	require.NoError(t, err)
	assert.Equal(t, []byte{4}, out)
}
