package feepolicy

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrScopeReleased is returned when a released scope is used.
var ErrScopeReleased = errors.New("fee policy scope already released")

// Store holds the process default rate.
type Store struct {
	mu      sync.RWMutex
	current Rate
}

// NewStore returns a store initialised to rate.
func NewStore(rate Rate) *Store {
	return &Store{current: rate}
}

// Current returns the default rate.
func (s *Store) Current() Rate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

// SetDefault replaces the default rate. It is a configuration call; pipeline
// operations never use it.
func (s *Store) SetDefault(rate Rate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = rate
}

// Override opens a scope carrying rate for one operation. The store is not modified.
func (s *Store) Override(rate Rate) *Scope {
	return &Scope{rate: rate}
}

// Resolve returns override when set, the default otherwise.
func (s *Store) Resolve(override *Rate) Rate {
	if override != nil {
		return *override
	}

	return s.Current()
}

// Scope carries an overriding rate for the composer calls of one operation.
type Scope struct {
	rate     Rate
	released atomic.Bool
}

// Rate returns a pointer to the scope's rate for a composer request.
func (sc *Scope) Rate() (*Rate, error) {
	if sc.released.Load() {
		return nil, ErrScopeReleased
	}

	r := sc.rate

	return &r, nil
}

// Release closes the scope. It is idempotent.
func (sc *Scope) Release() {
	sc.released.Store(true)
}
