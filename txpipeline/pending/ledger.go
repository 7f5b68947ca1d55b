package pending

import (
	"context"

	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
)

// Recorder appends entries. Duplicate calls append duplicate entries.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// Reader answers read-side balance queries.
type Reader interface {
	// Outstanding sums the amounts of subtracting entries for address and property.
	Outstanding(ctx context.Context, address string, property protocol.PropertyID) (int64, error)
	Entries(ctx context.Context) ([]Entry, error)
	ByTxID(ctx context.Context, txid string) ([]Entry, error)
}

// Ledger is the full pending ledger, including the confirmation hook.
type Ledger interface {
	Recorder
	Reader
	// Supersede drops every entry of txid once the transaction is confirmed or abandoned.
	Supersede(ctx context.Context, txid string) (int, error)
}
