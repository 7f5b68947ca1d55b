package requirement

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
)

// ErrPendingNotLoaded is returned for a holding that was not read by Load.
var ErrPendingNotLoaded = errors.New("pending amount not loaded")

type holding struct {
	address  string
	property protocol.PropertyID
}

// PendingSnapshot reads the outstanding pending amounts an operation needs
// before the ledger snapshot is opened. Balance registers its holding when it
// is built; Load reads them all; Outstanding then answers from memory.
type PendingSnapshot struct {
	source Outstanding

	mu      sync.Mutex
	wanted  []holding
	amounts map[holding]int64
}

var _ Outstanding = (*PendingSnapshot)(nil)

// NewPendingSnapshot returns an empty snapshot over source. A nil source reads as zero.
func NewPendingSnapshot(source Outstanding) *PendingSnapshot {
	return &PendingSnapshot{source: source, amounts: make(map[holding]int64)}
}

// Require registers a holding to be read by Load.
func (p *PendingSnapshot) Require(address string, property protocol.PropertyID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	h := holding{address: address, property: property}
	for _, w := range p.wanted {
		if w == h {
			return
		}
	}

	p.wanted = append(p.wanted, h)
}

// Load reads every registered holding. A read failure is a WalletError.
func (p *PendingSnapshot) Load(ctx context.Context) error {
	p.mu.Lock()
	wanted := append([]holding(nil), p.wanted...)
	p.mu.Unlock()

	for _, h := range wanted {
		var amount int64

		if p.source != nil {
			var err error

			amount, err = p.source.Outstanding(ctx, h.address, h.property)
			if err != nil {
				return protocol.WalletError("read pending balance", err)
			}
		}

		p.mu.Lock()
		p.amounts[h] = amount
		p.mu.Unlock()
	}

	return nil
}

// Outstanding returns the amount read by Load without further I/O.
func (p *PendingSnapshot) Outstanding(_ context.Context, address string, property protocol.PropertyID) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	amount, ok := p.amounts[holding{address: address, property: property}]
	if !ok {
		return 0, fmt.Errorf("%w: %s property %d", ErrPendingNotLoaded, address, property)
	}

	return amount, nil
}
