package commitment

import (
	"context"
	"errors"

	"github.com/tokenlayer/lib-txpipeline/txpipeline/log"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/opentelemetry/metrics"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
)

// Manager drives the mint and spend lifecycles over a Store.
type Manager struct {
	store   Store
	logger  log.Logger
	metrics *metrics.MetricsFactory
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for compensation failures.
func WithLogger(logger log.Logger) Option {
	return func(m *Manager) {
		m.logger = log.OrNop(logger)
	}
}

// WithMetrics sets the factory rollback counts are recorded on.
func WithMetrics(factory *metrics.MetricsFactory) Option {
	return func(m *Manager) {
		if factory != nil {
			m.metrics = factory
		}
	}
}

// NewManager returns a manager over store.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		logger:  log.NewNop(),
		metrics: metrics.NewNopFactory(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Store returns the underlying store.
func (m *Manager) Store() Store {
	return m.store
}

// MintBatch is the set of commitments created for one mint transaction.
type MintBatch struct {
	manager     *Manager
	property    protocol.PropertyID
	commitments []Commitment
	undo        *UndoStack
}

// PrepareMint creates one commitment per unit, in order. When a creation
// fails the commitments created so far are erased and a WalletError is returned.
func (m *Manager) PrepareMint(ctx context.Context, property protocol.PropertyID, units []protocol.DenominationID) (*MintBatch, error) {
	batch := &MintBatch{
		manager:  m,
		property: property,
		undo:     NewUndoStack(m.logger),
	}

	for _, d := range units {
		c, err := m.store.CreateMint(ctx, property, d)
		if err != nil {
			batch.Rollback(ctx)

			return nil, protocol.WalletError("failed to create mint commitment", err)
		}

		id := c.ID
		batch.commitments = append(batch.commitments, c)
		batch.undo.Push("erase mint "+id, func(ctx context.Context) error {
			return m.store.EraseMint(ctx, id)
		})
	}

	return batch, nil
}

// Commitments returns the batch's commitments in creation order.
func (b *MintBatch) Commitments() []Commitment {
	return append([]Commitment(nil), b.commitments...)
}

// Public returns the denomination and public value of each commitment for the payload.
func (b *MintBatch) Public() []PublicCommitment {
	out := make([]PublicCommitment, 0, len(b.commitments))
	for _, c := range b.commitments {
		out = append(out, PublicCommitment{Denomination: c.Denomination, PublicValue: c.PublicValue})
	}

	return out
}

// Rollback erases the batch's commitments in reverse creation order. Erase
// failures are logged and counted, never returned. It returns the number of
// commitments that could not be erased.
func (b *MintBatch) Rollback(ctx context.Context) int {
	total := b.undo.Len()
	if total == 0 {
		return 0
	}

	failed := b.undo.Unwind(ctx)
	b.commitments = nil

	if err := b.manager.metrics.RecordCommitmentRollback(ctx, total-failed, false); err != nil {
		b.manager.logger.Log(ctx, log.LevelWarn, "failed to record rollback metric", log.Err(err))
	}

	if failed > 0 {
		_ = b.manager.metrics.RecordCommitmentRollback(ctx, failed, true)
	}

	return failed
}

// Broadcast attaches txid to every commitment of the batch. The transaction
// is already on its way, so failures are logged rather than returned.
func (b *MintBatch) Broadcast(ctx context.Context, txid string) {
	b.undo.Discard()

	for _, c := range b.commitments {
		if err := b.manager.store.MarkBroadcast(ctx, c.ID, txid); err != nil {
			b.manager.logger.Log(ctx, log.LevelError, "failed to record mint broadcast",
				log.String("commitment_id", c.ID), log.TxID(txid), log.Err(err))
		}
	}
}

// Keep retains the commitments in StateCreated without a transaction, as for
// a raw transaction handed back to the caller.
func (b *MintBatch) Keep() {
	b.undo.Discard()
}

// ConfirmMint finalizes every broadcast commitment carried by mintTxID and
// returns how many moved. It is called by the consumer of block confirmations.
func (m *Manager) ConfirmMint(ctx context.Context, mintTxID string) (int, error) {
	all, err := m.store.List(ctx)
	if err != nil {
		return 0, protocol.WalletError("failed to list commitments", err)
	}

	confirmed := 0

	for _, c := range all {
		if c.MintTxID != mintTxID || c.State != StateBroadcast {
			continue
		}

		if err := m.store.MarkFinalized(ctx, c.ID); err != nil {
			return confirmed, protocol.WalletError("failed to finalize commitment", err)
		}

		confirmed++
	}

	return confirmed, nil
}

// SpendPlan holds the commitment reserved for one spend transaction.
type SpendPlan struct {
	manager *Manager
	spend   Spend
	settled bool
}

// PrepareSpend reserves a spendable commitment of property and denomination.
// An empty selection is InsufficientFunds; other store failures are WalletError.
func (m *Manager) PrepareSpend(ctx context.Context, property protocol.PropertyID, denomination protocol.DenominationID) (*SpendPlan, error) {
	spend, err := m.store.CreateSpend(ctx, property, denomination)
	if err != nil {
		if errors.Is(err, ErrNoSpendableMint) {
			return nil, &protocol.DomainError{
				Kind:    protocol.KindInsufficientFunds,
				Code:    protocol.ErrorNoSpendableCommitment,
				Field:   "denomination",
				Message: "no spendable mint of this denomination",
				Cause:   err,
			}
		}

		return nil, protocol.WalletError("failed to create spend", err)
	}

	return &SpendPlan{manager: m, spend: spend}, nil
}

// Spend returns the reserved spend material.
func (p *SpendPlan) Spend() Spend {
	return p.spend
}

// Finalize marks the reserved commitment used by txid.
func (p *SpendPlan) Finalize(ctx context.Context, txid string) error {
	if p.settled {
		return ErrInvalidTransition
	}

	if err := p.manager.store.MarkUsed(ctx, p.spend.CommitmentID, txid); err != nil {
		return protocol.WalletError("failed to mark commitment used", err)
	}

	p.settled = true

	return nil
}

// Abort releases the reservation. It is a no-op once the plan is settled.
func (p *SpendPlan) Abort(ctx context.Context) {
	if p.settled {
		return
	}

	p.settled = true

	if err := p.manager.store.ReleaseSpend(context.WithoutCancel(ctx), p.spend.CommitmentID); err != nil {
		p.manager.logger.Log(ctx, log.LevelError, "failed to release spend reservation",
			log.String("commitment_id", p.spend.CommitmentID), log.Err(err))
	}
}
