package protocol

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the caller.
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindInvalidParameter means the caller supplied a value outside its domain.
	KindInvalidParameter
	// KindPreconditionFailed means the ledger state does not allow the operation.
	KindPreconditionFailed
	// KindInsufficientFunds means the balance or spendable commitments do not cover the amount.
	KindInsufficientFunds
	// KindCompositionFailed means the composer reported a non-zero status; nothing was broadcast.
	KindCompositionFailed
	// KindWalletError means a commitment or wallet operation failed.
	KindWalletError
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInvalidParameter:
		return "invalid_parameter"
	case KindPreconditionFailed:
		return "precondition_failed"
	case KindInsufficientFunds:
		return "insufficient_funds"
	case KindCompositionFailed:
		return "composition_failed"
	case KindWalletError:
		return "wallet_error"
	default:
		return "unknown"
	}
}

// ErrorCode identifies the named condition behind a DomainError.
type ErrorCode string

const (
	ErrorPropertyNotFound        ErrorCode = "0101"
	ErrorPropertyNotManaged      ErrorCode = "0102"
	ErrorNotIssuer               ErrorCode = "0103"
	ErrorInsufficientBalance     ErrorCode = "0104"
	ErrorEcosystemMismatch       ErrorCode = "0105"
	ErrorSameProperty            ErrorCode = "0106"
	ErrorOfferNotFound           ErrorCode = "0107"
	ErrorOfferExists             ErrorCode = "0108"
	ErrorNotPrimaryToken         ErrorCode = "0109"
	ErrorEmptyPropertyName       ErrorCode = "0110"
	ErrorNotCrowdsale            ErrorCode = "0111"
	ErrorCrowdsaleInactive       ErrorCode = "0112"
	ErrorSigmaDisabled           ErrorCode = "0113"
	ErrorInvalidSigmaStatus      ErrorCode = "0114"
	ErrorDenominationNotFound    ErrorCode = "0115"
	ErrorDenominationUnconfirmed ErrorCode = "0116"
	ErrorReferenceAmountTooHigh  ErrorCode = "0117"
	ErrorOfferFeeTooHigh         ErrorCode = "0118"
	ErrorPaymentWindowTooShort   ErrorCode = "0119"
	ErrorOutOfRange              ErrorCode = "0120"
	ErrorInvalidEcosystem        ErrorCode = "0121"
	ErrorDenominationLimit       ErrorCode = "0122"
	ErrorDenominationExists      ErrorCode = "0123"
	ErrorUnknownDenomination     ErrorCode = "0124"
	ErrorAmountOverflow          ErrorCode = "0125"
	ErrorInvalidAction           ErrorCode = "0126"
	ErrorNoSpendableCommitment   ErrorCode = "0127"
	ErrorInvalidAmount           ErrorCode = "0128"
	ErrorPayloadRejected         ErrorCode = "0129"
	ErrorCompositionFailed       ErrorCode = "0201"
	ErrorWallet                  ErrorCode = "0202"
)

// DomainError is the single error shape returned by pipeline operations.
type DomainError struct {
	Kind    Kind
	Code    ErrorCode
	Field   string
	Message string
	// Status is the composer status for KindCompositionFailed, zero otherwise.
	Status int
	Cause  error
}

// Error returns the formatted domain error string.
func (e *DomainError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Field != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Field)
	}

	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}

	return msg
}

// Unwrap exposes the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches another DomainError carrying the same code, so code templates
// work as sentinels with errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}

	return t.Code != "" && t.Code == e.Code
}

// NewDomainError creates a domain error with kind, code, field and message.
func NewDomainError(kind Kind, code ErrorCode, field, message string) error {
	return &DomainError{Kind: kind, Code: code, Field: field, Message: message}
}

// Errorf creates a domain error with a formatted message.
func Errorf(kind Kind, code ErrorCode, field, format string, args ...any) error {
	return &DomainError{Kind: kind, Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}

// CompositionFailed reports a non-zero composer status.
func CompositionFailed(status int, message string) error {
	return &DomainError{
		Kind:    KindCompositionFailed,
		Code:    ErrorCompositionFailed,
		Message: message,
		Status:  status,
	}
}

// WalletError wraps a wallet or commitment store failure.
func WalletError(message string, cause error) error {
	return &DomainError{Kind: KindWalletError, Code: ErrorWallet, Message: message, Cause: cause}
}

// KindOf returns the kind of the first DomainError in err's chain.
func KindOf(err error) Kind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}

	return KindUnknown
}

// IsKind reports whether err carries a DomainError of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Sentinel templates for conditions callers commonly branch on.
var (
	ErrUnknownDenomination   = &DomainError{Kind: KindInvalidParameter, Code: ErrorUnknownDenomination, Message: "denomination not found"}
	ErrAmountOverflow        = &DomainError{Kind: KindInvalidParameter, Code: ErrorAmountOverflow, Message: "amount overflow"}
	ErrNoSpendableCommitment = &DomainError{Kind: KindInsufficientFunds, Code: ErrorNoSpendableCommitment, Message: "no spendable commitment"}
	ErrInvalidEcosystem      = &DomainError{Kind: KindInvalidParameter, Code: ErrorInvalidEcosystem, Message: "invalid ecosystem"}
)
