package txpipeline

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
)

func TestToResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		rpcCode int
		kind    string
		code    string
	}{
		{
			name:    "invalid parameter",
			err:     protocol.NewDomainError(protocol.KindInvalidParameter, protocol.ErrorOutOfRange, "count", "count out of range"),
			rpcCode: RPCInvalidParameter,
			kind:    "invalid_parameter",
			code:    "0120",
		},
		{
			name:    "precondition failed",
			err:     protocol.NewDomainError(protocol.KindPreconditionFailed, protocol.ErrorNotIssuer, "", "not the issuer"),
			rpcCode: RPCInvalidParameter,
			kind:    "precondition_failed",
			code:    "0103",
		},
		{
			name:    "invalid action",
			err:     protocol.NewDomainError(protocol.KindInvalidParameter, protocol.ErrorInvalidAction, "action", "Invalid action (1,2,3,4 only)"),
			rpcCode: RPCTypeError,
			kind:    "invalid_parameter",
			code:    "0126",
		},
		{
			name:    "insufficient funds",
			err:     protocol.ErrNoSpendableCommitment,
			rpcCode: RPCWalletInsufficientFunds,
			kind:    "insufficient_funds",
			code:    "0127",
		},
		{
			name:    "wallet",
			err:     protocol.WalletError("store failed", errors.New("disk")),
			rpcCode: RPCWalletError,
			kind:    "wallet_error",
			code:    "0202",
		},
		{
			name:    "composition keeps status",
			err:     fmt.Errorf("compose: %w", protocol.CompositionFailed(-212, "not enough inputs")),
			rpcCode: -212,
			kind:    "composition_failed",
			code:    "0201",
		},
		{
			name:    "foreign error",
			err:     errors.New("boom"),
			rpcCode: RPCMiscError,
			kind:    "unknown",
		},
	}

	for _, tt := range tests {

		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp := ToResponse(tt.err)
			assert.Equal(t, tt.rpcCode, resp.RPCCode)
			assert.Equal(t, tt.kind, resp.Kind)
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Title)
			assert.ErrorIs(t, resp, tt.err)
		})
	}
}

func TestToResponseHidesForeignMessage(t *testing.T) {
	t.Parallel()

	resp := ToResponse(errors.New("secret connection string"))
	assert.NotContains(t, resp.Message, "secret")
	assert.Equal(t, Response{}, ToResponse(nil))
}
