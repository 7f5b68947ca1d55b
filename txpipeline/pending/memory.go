package pending

import (
	"context"
	"sync"

	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
)

// MemoryLedger keeps entries in process memory.
type MemoryLedger struct {
	mu      sync.RWMutex
	entries []Entry
}

var _ Ledger = (*MemoryLedger)(nil)

// NewMemoryLedger returns an empty ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

// Record appends entry.
func (l *MemoryLedger) Record(ctx context.Context, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)

	return nil
}

// Outstanding sums subtracting entries for address and property.
func (l *MemoryLedger) Outstanding(_ context.Context, address string, property protocol.PropertyID) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var total int64

	for _, e := range l.entries {
		if e.Subtract && e.Address == address && e.Property == property {
			total += e.Amount
		}
	}

	return total, nil
}

// Entries returns a copy of all entries in record order.
func (l *MemoryLedger) Entries(_ context.Context) ([]Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return append([]Entry(nil), l.entries...), nil
}

// ByTxID returns the entries recorded for txid.
func (l *MemoryLedger) ByTxID(_ context.Context, txid string) ([]Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []Entry

	for _, e := range l.entries {
		if e.TxID == txid {
			out = append(out, e)
		}
	}

	return out, nil
}

// Supersede removes the entries of txid and reports how many were removed.
func (l *MemoryLedger) Supersede(_ context.Context, txid string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.entries[:0]
	removed := 0

	for _, e := range l.entries {
		if e.TxID == txid {
			removed++
			continue
		}

		kept = append(kept, e)
	}

	l.entries = kept

	return removed, nil
}
