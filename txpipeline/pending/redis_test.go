package pending

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	constant "github.com/tokenlayer/lib-txpipeline/txpipeline/constants"
)

func setupRedisLedger(t *testing.T) (*RedisLedger, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() { _ = client.Close() })

	l, err := NewRedisLedger(client, "")
	require.NoError(t, err)

	return l, mr
}

func TestNewRedisLedgerRequiresClient(t *testing.T) {
	t.Parallel()

	_, err := NewRedisLedger(nil, "x")
	assert.ErrorIs(t, err, ErrClientRequired)
}

func TestRedisLedgerRecordAndRead(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l, mr := setupRedisLedger(t)

	require.NoError(t, l.Record(ctx, mustEntry(t, "tx1", "alice", constant.TxTypeSimpleSend, 3, 100, true)))
	require.NoError(t, l.Record(ctx, mustEntry(t, "tx2", "alice", constant.TxTypeMetaDExCancelPrice, 3, 40, false)))
	require.NoError(t, l.Record(ctx, mustEntry(t, "tx3", "alice", constant.TxTypeSendToOwners, 3, 25, true)))

	out, err := l.Outstanding(ctx, "alice", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(125), out)

	out, err = l.Outstanding(ctx, "nobody", 3)
	require.NoError(t, err)
	assert.Zero(t, out)

	all, err := l.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "tx2", all[1].TxID)
	assert.False(t, all[1].Subtract)
	assert.Equal(t, constant.TxTypeMetaDExCancelPrice, all[1].TxType)

	byTx, err := l.ByTxID(ctx, "tx3")
	require.NoError(t, err)
	require.Len(t, byTx, 1)
	assert.Equal(t, int64(25), byTx[0].Amount)

	assert.True(t, mr.Exists(defaultKeyPrefix+":tx:tx1"))
}

func TestRedisLedgerSupersede(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l, mr := setupRedisLedger(t)

	require.NoError(t, l.Record(ctx, mustEntry(t, "tx1", "alice", constant.TxTypeSimpleSend, 3, 100, true)))
	require.NoError(t, l.Record(ctx, mustEntry(t, "tx2", "alice", constant.TxTypeSimpleSend, 3, 5, true)))

	removed, err := l.Supersede(ctx, "tx1")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	out, err := l.Outstanding(ctx, "alice", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), out)

	all, err := l.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "tx2", all[0].TxID)
	assert.False(t, mr.Exists(defaultKeyPrefix+":tx:tx1"))

	removed, err = l.Supersede(ctx, "tx1")
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestRedisLedgerCorruptOutstanding(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l, mr := setupRedisLedger(t)

	mr.HSet(defaultKeyPrefix+":outstanding:alice", "3", "not-a-number")

	_, err := l.Outstanding(ctx, "alice", 3)
	assert.ErrorIs(t, err, ErrOutstandingCorrupt)
}

func TestRedisLedgerCustomPrefix(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	l, err := NewRedisLedger(client, "wallet-a")
	require.NoError(t, err)

	require.NoError(t, l.Record(context.Background(), mustEntry(t, "tx1", "alice", constant.TxTypeSimpleSend, 3, 1, true)))
	assert.True(t, mr.Exists("wallet-a:entries"))
}

func TestRedisLedgerUnavailable(t *testing.T) {
	t.Parallel()

	l, mr := setupRedisLedger(t)
	mr.Close()

	err := l.Record(context.Background(), mustEntry(t, "tx1", "alice", constant.TxTypeSimpleSend, 3, 1, true))
	assert.Error(t, err)
}
