package commitment

import (
	"context"
	"fmt"

	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
)

// Locker runs fn while holding a named mutual-exclusion lock.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(context.Context) error) error
}

// LockedStore serializes spend selection and settlement per property and
// denomination, for stores shared by several processes. Releasing a
// reservation takes no lock, so a failed spend is compensated even when the
// lock service is unavailable.
type LockedStore struct {
	Store
	locker Locker
	prefix string
}

var _ Store = (*LockedStore)(nil)

// NewLockedStore wraps store. Lock keys are "<prefix>:spend:<property>:<denomination>".
func NewLockedStore(store Store, locker Locker, prefix string) *LockedStore {
	if prefix == "" {
		prefix = "txpipeline:commitment"
	}

	return &LockedStore{Store: store, locker: locker, prefix: prefix}
}

// LockKey returns the lock guarding spends of property and denomination.
func (s *LockedStore) LockKey(property protocol.PropertyID, denomination protocol.DenominationID) string {
	return fmt.Sprintf("%s:spend:%d:%d", s.prefix, property, denomination)
}

// CreateSpend selects and reserves under the lock.
func (s *LockedStore) CreateSpend(ctx context.Context, property protocol.PropertyID, denomination protocol.DenominationID) (Spend, error) {
	var spend Spend

	err := s.locker.WithLock(ctx, s.LockKey(property, denomination), func(ctx context.Context) error {
		var err error

		spend, err = s.Store.CreateSpend(ctx, property, denomination)

		return err
	})

	return spend, err
}

// ReleaseSpend clears the reservation directly on the wrapped store.
func (s *LockedStore) ReleaseSpend(ctx context.Context, id string) error {
	return s.Store.ReleaseSpend(ctx, id)
}

// MarkUsed settles under the lock of the commitment's denomination.
func (s *LockedStore) MarkUsed(ctx context.Context, id, txid string) error {
	return s.withCommitmentLock(ctx, id, func(ctx context.Context) error {
		return s.Store.MarkUsed(ctx, id, txid)
	})
}

func (s *LockedStore) withCommitmentLock(ctx context.Context, id string, fn func(context.Context) error) error {
	c, err := s.Store.Get(ctx, id)
	if err != nil {
		return err
	}

	return s.locker.WithLock(ctx, s.LockKey(c.Property, c.Denomination), fn)
}
