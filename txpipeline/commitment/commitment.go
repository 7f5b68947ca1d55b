package commitment

import (
	"context"
	"errors"
	"time"

	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
)

var (
	// ErrNotFound is returned for an unknown commitment id.
	ErrNotFound = errors.New("commitment not found")
	// ErrNoSpendableMint is returned when no broadcast, unused commitment matches a spend.
	ErrNoSpendableMint = errors.New("no spendable mint")
	// ErrInvalidTransition is returned when an operation does not apply to the commitment's state.
	ErrInvalidTransition = errors.New("invalid commitment state transition")
)

// State is the lifecycle stage of a commitment.
type State uint8

const (
	// StateCreated commitments exist only locally.
	StateCreated State = iota
	// StateBroadcast commitments are carried by a broadcast mint transaction.
	StateBroadcast
	// StateFinalized commitments are carried by a confirmed mint transaction.
	StateFinalized
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateBroadcast:
		return "broadcast"
	case StateFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// Commitment is one locally held mint.
type Commitment struct {
	ID           string
	Property     protocol.PropertyID
	Denomination protocol.DenominationID
	PublicValue  []byte
	State        State
	MintTxID     string
	// Reserved is set while a spend plan holds the commitment.
	Reserved  bool
	Used      bool
	SpendTxID string
	CreatedAt time.Time
}

// Spendable reports whether a spend may select c.
func (c Commitment) Spendable() bool {
	return (c.State == StateBroadcast || c.State == StateFinalized) && !c.Used && !c.Reserved
}

// PublicCommitment is the part of a commitment carried in a mint payload.
type PublicCommitment struct {
	Denomination protocol.DenominationID
	PublicValue  []byte
}

// Spend is the material a spend payload is built from.
type Spend struct {
	CommitmentID string
	Property     protocol.PropertyID
	Denomination protocol.DenominationID
	Serial       []byte
}

// Store holds commitments. Implementations must make every method atomic.
type Store interface {
	CreateMint(ctx context.Context, property protocol.PropertyID, denomination protocol.DenominationID) (Commitment, error)
	// EraseMint removes a commitment that was never broadcast.
	EraseMint(ctx context.Context, id string) error
	MarkBroadcast(ctx context.Context, id, txid string) error
	// MarkFinalized moves a broadcast commitment to StateFinalized once its mint confirms.
	MarkFinalized(ctx context.Context, id string) error
	// CreateSpend reserves the oldest spendable commitment of property and denomination.
	CreateSpend(ctx context.Context, property protocol.PropertyID, denomination protocol.DenominationID) (Spend, error)
	ReleaseSpend(ctx context.Context, id string) error
	MarkUsed(ctx context.Context, id, txid string) error
	Get(ctx context.Context, id string) (Commitment, error)
	// List returns all commitments in creation order.
	List(ctx context.Context) ([]Commitment, error)
}
