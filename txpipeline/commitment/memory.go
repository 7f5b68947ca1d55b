package commitment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
)

// MemoryStore keeps commitments in process memory. Public values and serials
// are random placeholders; wallets with real key material supply their own Store.
type MemoryStore struct {
	mu    sync.Mutex
	byID  map[string]*Commitment
	order []string
	now   func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID: make(map[string]*Commitment),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func randomBytes() []byte {
	id := uuid.New()
	return id[:]
}

func clone(c *Commitment) Commitment {
	out := *c
	out.PublicValue = append([]byte(nil), c.PublicValue...)

	return out
}

// CreateMint stores a new commitment in StateCreated.
func (s *MemoryStore) CreateMint(ctx context.Context, property protocol.PropertyID, denomination protocol.DenominationID) (Commitment, error) {
	if err := ctx.Err(); err != nil {
		return Commitment{}, err
	}

	c := &Commitment{
		ID:           uuid.NewString(),
		Property:     property,
		Denomination: denomination,
		PublicValue:  randomBytes(),
		State:        StateCreated,
		CreatedAt:    s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[c.ID] = c
	s.order = append(s.order, c.ID)

	return clone(c), nil
}

// EraseMint deletes a commitment still in StateCreated.
func (s *MemoryStore) EraseMint(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if c.State != StateCreated {
		return fmt.Errorf("%w: erase %s commitment %s", ErrInvalidTransition, c.State, id)
	}

	delete(s.byID, id)

	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	return nil
}

// MarkBroadcast records the mint transaction carrying the commitment.
func (s *MemoryStore) MarkBroadcast(_ context.Context, id, txid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if c.State != StateCreated {
		return fmt.Errorf("%w: broadcast %s commitment %s", ErrInvalidTransition, c.State, id)
	}

	c.State = StateBroadcast
	c.MintTxID = txid

	return nil
}

// MarkFinalized records that the mint carrying the commitment confirmed.
func (s *MemoryStore) MarkFinalized(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if c.State != StateBroadcast {
		return fmt.Errorf("%w: finalize %s commitment %s", ErrInvalidTransition, c.State, id)
	}

	c.State = StateFinalized

	return nil
}

// CreateSpend reserves the oldest spendable commitment.
func (s *MemoryStore) CreateSpend(ctx context.Context, property protocol.PropertyID, denomination protocol.DenominationID) (Spend, error) {
	if err := ctx.Err(); err != nil {
		return Spend{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.order {
		c := s.byID[id]
		if c.Property != property || c.Denomination != denomination || !c.Spendable() {
			continue
		}

		c.Reserved = true

		return Spend{
			CommitmentID: c.ID,
			Property:     c.Property,
			Denomination: c.Denomination,
			Serial:       randomBytes(),
		}, nil
	}

	return Spend{}, fmt.Errorf("%w: property %d denomination %d", ErrNoSpendableMint, property, denomination)
}

// ReleaseSpend drops a reservation that did not lead to a transaction.
func (s *MemoryStore) ReleaseSpend(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if !c.Reserved || c.Used {
		return fmt.Errorf("%w: release unreserved commitment %s", ErrInvalidTransition, id)
	}

	c.Reserved = false

	return nil
}

// MarkUsed records the spending transaction.
func (s *MemoryStore) MarkUsed(_ context.Context, id, txid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if c.Used {
		return fmt.Errorf("%w: commitment %s already used", ErrInvalidTransition, id)
	}

	c.Used = true
	c.Reserved = false
	c.SpendTxID = txid

	return nil
}

// Get returns a copy of the commitment.
func (s *MemoryStore) Get(_ context.Context, id string) (Commitment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byID[id]
	if !ok {
		return Commitment{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return clone(c), nil
}

// List returns copies of all commitments in creation order.
func (s *MemoryStore) List(_ context.Context) ([]Commitment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Commitment, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, clone(s.byID[id]))
	}

	return out, nil
}
