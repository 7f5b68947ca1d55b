package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
)

func TestMemoryView(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	m.PutProperty(protocol.Property{ID: 3, Name: "Gold", Issuer: "issuer"})
	m.SetBalance("alice", 3, 500)
	m.PutOffer(protocol.Offer{Seller: "alice", Property: 1, MinAcceptFee: 20})
	m.SetCrowdsaleActive(3, true)

	d, ok := m.AddDenomination(3, 100, 2)
	require.True(t, ok)
	assert.Equal(t, protocol.DenominationID(0), d)

	_, ok = m.AddDenomination(99, 100, 2)
	assert.False(t, ok)

	err := m.View(context.Background(), func(v View) error {
		p, ok := v.Property(3)
		require.True(t, ok)
		assert.Equal(t, []int64{100}, p.Denominations)

		assert.Equal(t, int64(500), v.Balance("alice", 3))
		assert.Zero(t, v.Balance("bob", 3))

		o, ok := v.Offer("alice", 1)
		require.True(t, ok)
		assert.Equal(t, int64(20), o.MinAcceptFee)

		assert.True(t, v.ActiveCrowdsale(3))
		assert.False(t, v.ActiveCrowdsale(4))

		c, ok := v.DenominationConfirmations(3, 0)
		require.True(t, ok)
		assert.Equal(t, 2, c)

		return nil
	})
	require.NoError(t, err)

	m.RemoveOffer("alice", 1)
	m.SetDenominationConfirmations(3, 0, 9)

	_ = m.View(context.Background(), func(v View) error {
		_, ok := v.Offer("alice", 1)
		assert.False(t, ok)

		c, _ := v.DenominationConfirmations(3, 0)
		assert.Equal(t, 9, c)

		return nil
	})
}

func TestMemoryViewReturnsCallbackError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	err := NewMemory().View(context.Background(), func(View) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestMemoryViewHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := NewMemory().View(ctx, func(View) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestMemoryPropertyIsCopied(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	m.PutProperty(protocol.Property{ID: 3, Denominations: []int64{1}})

	_ = m.View(context.Background(), func(v View) error {
		p, _ := v.Property(3)
		p.Denominations[0] = 42

		return nil
	})

	_ = m.View(context.Background(), func(v View) error {
		p, _ := v.Property(3)
		assert.Equal(t, int64(1), p.Denominations[0])

		return nil
	})
}

func TestMemoryConcurrentAccess(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	m.PutProperty(protocol.Property{ID: 3})

	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func(n int) {
			defer wg.Done()
			m.SetBalance("alice", 3, int64(n))
		}(i)

		go func() {
			defer wg.Done()
			_ = m.View(context.Background(), func(v View) error {
				_ = v.Balance("alice", 3)
				return nil
			})
		}()
	}

	wg.Wait()
}
