package constant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEcosystemOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		property uint32
		expected Ecosystem
	}{
		{name: "native coin", property: PropertyNative, expected: EcosystemNone},
		{name: "main token", property: PropertyMainToken, expected: EcosystemMain},
		{name: "test token", property: PropertyTestToken, expected: EcosystemTest},
		{name: "main user property", property: 31, expected: EcosystemMain},
		{name: "last main id", property: FirstTestEcosystemProperty - 1, expected: EcosystemMain},
		{name: "first test user property", property: FirstTestEcosystemProperty, expected: EcosystemTest},
	}

	for _, tt := range tests {

		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, EcosystemOf(tt.property))
		})
	}
}

func TestSharedEcosystem(t *testing.T) {
	t.Parallel()

	assert.Equal(t, EcosystemMain, SharedEcosystem(1, 31))
	assert.Equal(t, EcosystemTest, SharedEcosystem(2, FirstTestEcosystemProperty+7))
	assert.Equal(t, EcosystemNone, SharedEcosystem(1, FirstTestEcosystemProperty))
	assert.False(t, SharedEcosystem(1, 2).Valid())
	assert.Equal(t, "none", EcosystemNone.String())
}

func TestTxTypeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "simple_send", TxTypeSimpleSend.String())
	assert.Equal(t, "simple_mint", TxTypeSimpleMint.String())
	assert.Equal(t, "tx_type_9", TxType(9).String())
}

func TestOfferActionAndSigma(t *testing.T) {
	t.Parallel()

	assert.True(t, OfferActionNew.ReservesFunds())
	assert.True(t, OfferActionUpdate.ReservesFunds())
	assert.False(t, OfferActionCancel.ReservesFunds())
	assert.Equal(t, "unknown", OfferAction(9).String())

	assert.True(t, SigmaSoftEnabled.Enabled())
	assert.True(t, SigmaHardEnabled.Enabled())
	assert.False(t, SigmaHardDisabled.Enabled())
	assert.False(t, SigmaStatus(4).Valid())
}
