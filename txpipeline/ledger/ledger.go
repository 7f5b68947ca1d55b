package ledger

import (
	"context"

	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
)

// View is a consistent, read-only snapshot of ledger state.
type View interface {
	Property(id protocol.PropertyID) (protocol.Property, bool)
	Balance(address string, id protocol.PropertyID) int64
	Offer(seller string, id protocol.PropertyID) (protocol.Offer, bool)
	ActiveCrowdsale(id protocol.PropertyID) bool
	// DenominationConfirmations returns how many blocks confirm the creation of denomination d.
	DenominationConfirmations(id protocol.PropertyID, d protocol.DenominationID) (int, bool)
}

// Reader runs fn against one snapshot. Implementations hold their read lock for
// the duration of fn and return fn's error unchanged.
type Reader interface {
	View(ctx context.Context, fn func(View) error) error
}
