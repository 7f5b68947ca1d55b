package ledger

import (
	"context"
	"sync"

	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
)

type balanceKey struct {
	address  string
	property protocol.PropertyID
}

type denominationKey struct {
	property     protocol.PropertyID
	denomination protocol.DenominationID
}

// Memory is an in-memory Reader. Mutators take the write lock, so a View
// callback never observes a half-applied change.
type Memory struct {
	mu            sync.RWMutex
	properties    map[protocol.PropertyID]protocol.Property
	balances      map[balanceKey]int64
	offers        map[balanceKey]protocol.Offer
	crowdsales    map[protocol.PropertyID]bool
	confirmations map[denominationKey]int
}

var _ Reader = (*Memory)(nil)

// NewMemory returns an empty ledger.
func NewMemory() *Memory {
	return &Memory{
		properties:    make(map[protocol.PropertyID]protocol.Property),
		balances:      make(map[balanceKey]int64),
		offers:        make(map[balanceKey]protocol.Offer),
		crowdsales:    make(map[protocol.PropertyID]bool),
		confirmations: make(map[denominationKey]int),
	}
}

// View runs fn under the read lock.
func (m *Memory) View(ctx context.Context, fn func(View) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return fn(memoryView{m})
}

// PutProperty inserts or replaces a property.
func (m *Memory) PutProperty(p protocol.Property) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.Denominations = append([]int64(nil), p.Denominations...)
	m.properties[p.ID] = p
}

// SetBalance sets the confirmed balance of address in property id.
func (m *Memory) SetBalance(address string, id protocol.PropertyID, amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.balances[balanceKey{address, id}] = amount
}

// PutOffer opens or replaces the seller's offer for o.Property.
func (m *Memory) PutOffer(o protocol.Offer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.offers[balanceKey{o.Seller, o.Property}] = o
}

// RemoveOffer closes the seller's offer for property id.
func (m *Memory) RemoveOffer(seller string, id protocol.PropertyID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.offers, balanceKey{seller, id})
}

// SetCrowdsaleActive flags whether property id has an open crowdsale.
func (m *Memory) SetCrowdsaleActive(id protocol.PropertyID, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.crowdsales[id] = active
}

// AddDenomination appends a denomination to property id and returns its identifier.
// Unknown properties are ignored and report false.
func (m *Memory) AddDenomination(id protocol.PropertyID, value int64, confirmations int) (protocol.DenominationID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.properties[id]
	if !ok {
		return 0, false
	}

	d := protocol.DenominationID(len(p.Denominations))
	p.Denominations = append(p.Denominations, value)
	m.properties[id] = p
	m.confirmations[denominationKey{id, d}] = confirmations

	return d, true
}

// SetDenominationConfirmations updates the confirmation depth of denomination d.
func (m *Memory) SetDenominationConfirmations(id protocol.PropertyID, d protocol.DenominationID, confirmations int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.confirmations[denominationKey{id, d}] = confirmations
}

type memoryView struct {
	m *Memory
}

func (v memoryView) Property(id protocol.PropertyID) (protocol.Property, bool) {
	p, ok := v.m.properties[id]
	if ok {
		p.Denominations = append([]int64(nil), p.Denominations...)
	}

	return p, ok
}

func (v memoryView) Balance(address string, id protocol.PropertyID) int64 {
	return v.m.balances[balanceKey{address, id}]
}

func (v memoryView) Offer(seller string, id protocol.PropertyID) (protocol.Offer, bool) {
	o, ok := v.m.offers[balanceKey{seller, id}]
	return o, ok
}

func (v memoryView) ActiveCrowdsale(id protocol.PropertyID) bool {
	return v.m.crowdsales[id]
}

func (v memoryView) DenominationConfirmations(id protocol.PropertyID, d protocol.DenominationID) (int, bool) {
	c, ok := v.m.confirmations[denominationKey{id, d}]
	return c, ok
}
