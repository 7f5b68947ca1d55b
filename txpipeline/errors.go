package txpipeline

import (
	"errors"

	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
)

// Wallet RPC error codes surfaced to callers.
const (
	RPCMiscError               = -1
	RPCTypeError               = -3
	RPCWalletError             = -4
	RPCWalletInsufficientFunds = -6
	RPCInvalidParameter        = -8
)

// Response is the caller-facing form of a pipeline failure.
type Response struct {
	Kind    string `json:"kind,omitempty"`
	Code    string `json:"code,omitempty"`
	RPCCode int    `json:"rpcCode"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
	Err     error  `json:"-"`
}

func (e Response) Error() string {
	return e.Message
}

// Unwrap returns the error the response was built from.
func (e Response) Unwrap() error {
	return e.Err
}

var kindTitles = map[protocol.Kind]string{
	protocol.KindInvalidParameter:   "Invalid Parameter",
	protocol.KindPreconditionFailed: "Precondition Failed",
	protocol.KindInsufficientFunds:  "Insufficient Funds",
	protocol.KindCompositionFailed:  "Transaction Composition Failed",
	protocol.KindWalletError:        "Wallet Error",
}

// ToResponse maps err onto a Response. Errors outside the domain taxonomy map
// to a miscellaneous error without exposing their text.
func ToResponse(err error) Response {
	if err == nil {
		return Response{}
	}

	var de *protocol.DomainError
	if !errors.As(err, &de) {
		return Response{
			Kind:    protocol.KindUnknown.String(),
			RPCCode: RPCMiscError,
			Title:   "Internal Error",
			Message: "the operation failed unexpectedly",
			Err:     err,
		}
	}

	resp := Response{
		Kind:    de.Kind.String(),
		Code:    string(de.Code),
		Title:   kindTitles[de.Kind],
		Message: de.Message,
		Field:   de.Field,
		Err:     err,
	}

	switch {
	case de.Code == protocol.ErrorInvalidAction:
		resp.RPCCode = RPCTypeError
	case de.Kind == protocol.KindInvalidParameter, de.Kind == protocol.KindPreconditionFailed:
		resp.RPCCode = RPCInvalidParameter
	case de.Kind == protocol.KindInsufficientFunds:
		resp.RPCCode = RPCWalletInsufficientFunds
	case de.Kind == protocol.KindWalletError:
		resp.RPCCode = RPCWalletError
	case de.Kind == protocol.KindCompositionFailed:
		resp.RPCCode = de.Status
	default:
		resp.RPCCode = RPCMiscError
	}

	return resp
}
