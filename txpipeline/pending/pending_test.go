package pending

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	constant "github.com/tokenlayer/lib-txpipeline/txpipeline/constants"
)

func mustEntry(t *testing.T, txid, address string, txType constant.TxType, property uint32, amount int64, subtract bool) Entry {
	t.Helper()

	e, err := NewEntry(context.Background(), txid, address, txType, protocolID(property), amount, subtract)
	require.NoError(t, err)

	return e
}

// ---------------------------------------------------------------------------
// NewEntry
// ---------------------------------------------------------------------------

func TestNewEntry(t *testing.T) {
	t.Parallel()

	e, err := NewEntry(context.Background(), " tx1 ", "alice", constant.TxTypeSimpleSend, 3, 100, true)
	require.NoError(t, err)

	assert.Equal(t, "tx1", e.TxID)
	assert.Equal(t, "alice", e.Address)
	assert.Equal(t, constant.TxTypeSimpleSend, e.TxType)
	assert.Equal(t, int64(100), e.Amount)
	assert.True(t, e.Subtract)
	assert.False(t, e.RecordedAt.IsZero())
}

func TestNewEntryValidation(t *testing.T) {
	t.Parallel()

	_, err := NewEntry(context.Background(), "", "alice", constant.TxTypeSimpleSend, 3, 1, true)
	assert.ErrorIs(t, err, ErrTxIDRequired)

	_, err = NewEntry(context.Background(), "tx", "alice", constant.TxTypeSimpleSend, 3, -1, true)
	assert.ErrorIs(t, err, ErrNegativeAmount)

	e, err := NewEntry(context.Background(), "tx", "", constant.TxTypeSimpleSpend, 3, 0, false)
	require.NoError(t, err)
	assert.Empty(t, e.Address)
}

// ---------------------------------------------------------------------------
// MemoryLedger
// ---------------------------------------------------------------------------

func TestMemoryLedgerRecordAndOutstanding(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := NewMemoryLedger()

	require.NoError(t, l.Record(ctx, mustEntry(t, "tx1", "alice", constant.TxTypeSimpleSend, 3, 100, true)))
	require.NoError(t, l.Record(ctx, mustEntry(t, "tx2", "alice", constant.TxTypeMetaDExTrade, 3, 50, true)))
	require.NoError(t, l.Record(ctx, mustEntry(t, "tx3", "alice", constant.TxTypeMetaDExCancelPair, 3, 0, false)))
	require.NoError(t, l.Record(ctx, mustEntry(t, "tx4", "bob", constant.TxTypeSimpleSend, 3, 7, true)))

	out, err := l.Outstanding(ctx, "alice", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(150), out)

	out, err = l.Outstanding(ctx, "alice", 4)
	require.NoError(t, err)
	assert.Zero(t, out)

	all, err := l.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "tx1", all[0].TxID)
	assert.Equal(t, "tx4", all[3].TxID)
}

func TestMemoryLedgerDoesNotDeduplicate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := NewMemoryLedger()
	e := mustEntry(t, "tx1", "alice", constant.TxTypeSimpleSend, 3, 10, true)

	require.NoError(t, l.Record(ctx, e))
	require.NoError(t, l.Record(ctx, e))

	byTx, err := l.ByTxID(ctx, "tx1")
	require.NoError(t, err)
	assert.Len(t, byTx, 2)
}

func TestMemoryLedgerSupersede(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := NewMemoryLedger()

	require.NoError(t, l.Record(ctx, mustEntry(t, "tx1", "alice", constant.TxTypeSimpleSend, 3, 100, true)))
	require.NoError(t, l.Record(ctx, mustEntry(t, "tx2", "alice", constant.TxTypeSimpleSend, 3, 5, true)))

	removed, err := l.Supersede(ctx, "tx1")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	out, err := l.Outstanding(ctx, "alice", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), out)

	removed, err = l.Supersede(ctx, "missing")
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestMemoryLedgerRecordHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := NewMemoryLedger()
	assert.ErrorIs(t, l.Record(ctx, Entry{TxID: "tx"}), context.Canceled)

	all, _ := l.Entries(context.Background())
	assert.Empty(t, all)
}

func TestMemoryLedgerConcurrentRecord(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := NewMemoryLedger()

	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			_ = l.Record(ctx, Entry{TxID: "tx", Address: "alice", Property: 3, Amount: 1, Subtract: true})
		}()
	}

	wg.Wait()

	out, err := l.Outstanding(ctx, "alice", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(100), out)
}
