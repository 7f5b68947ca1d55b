package pending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
)

const defaultKeyPrefix = "txpipeline:pending"

// RedisLedger stores entries in Redis so several pipeline processes share one
// view of outstanding amounts.
//
// Layout under the key prefix:
//
//	<prefix>:entries                 list of every entry, in record order
//	<prefix>:tx:<txid>               list of the entries of one transaction
//	<prefix>:outstanding:<address>   hash of property -> outstanding subtracted amount
type RedisLedger struct {
	client redis.UniversalClient
	prefix string
}

var _ Ledger = (*RedisLedger)(nil)

// NewRedisLedger builds a ledger on client. An empty prefix selects the default.
func NewRedisLedger(client redis.UniversalClient, prefix string) (*RedisLedger, error) {
	if client == nil {
		return nil, ErrClientRequired
	}

	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultKeyPrefix
	}

	return &RedisLedger{client: client, prefix: prefix}, nil
}

func (l *RedisLedger) entriesKey() string { return l.prefix + ":entries" }

func (l *RedisLedger) txKey(txid string) string { return l.prefix + ":tx:" + txid }

func (l *RedisLedger) outstandingKey(address string) string {
	return l.prefix + ":outstanding:" + address
}

func propertyField(property protocol.PropertyID) string {
	return strconv.FormatUint(uint64(property), 10)
}

// Record appends entry atomically to the global and per-transaction lists.
func (l *RedisLedger) Record(ctx context.Context, entry Entry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode pending entry: %w", err)
	}

	_, err = l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, l.entriesKey(), raw)
		pipe.RPush(ctx, l.txKey(entry.TxID), raw)

		if entry.Subtract {
			pipe.HIncrBy(ctx, l.outstandingKey(entry.Address), propertyField(entry.Property), entry.Amount)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("record pending entry %s: %w", entry.TxID, err)
	}

	return nil
}

// Outstanding reads the maintained outstanding amount for address and property.
func (l *RedisLedger) Outstanding(ctx context.Context, address string, property protocol.PropertyID) (int64, error) {
	raw, err := l.client.HGet(ctx, l.outstandingKey(address), propertyField(property)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}

	if err != nil {
		return 0, fmt.Errorf("read outstanding amount: %w", err)
	}

	amount, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrOutstandingCorrupt, raw)
	}

	return amount, nil
}

// Entries returns every entry in record order.
func (l *RedisLedger) Entries(ctx context.Context) ([]Entry, error) {
	return l.readList(ctx, l.entriesKey())
}

// ByTxID returns the entries recorded for txid.
func (l *RedisLedger) ByTxID(ctx context.Context, txid string) ([]Entry, error) {
	return l.readList(ctx, l.txKey(txid))
}

// Supersede removes the entries of txid and reverses their outstanding amounts.
// It retries once if the transaction's list changes concurrently.
func (l *RedisLedger) Supersede(ctx context.Context, txid string) (int, error) {
	txKey := l.txKey(txid)
	removed := 0

	supersede := func(tx *redis.Tx) error {
		raws, err := tx.LRange(ctx, txKey, 0, -1).Result()
		if err != nil {
			return err
		}

		entries := make([]Entry, 0, len(raws))

		for _, raw := range raws {
			var e Entry
			if err := json.Unmarshal([]byte(raw), &e); err != nil {
				return fmt.Errorf("%w: %w", ErrEntryUnreadable, err)
			}

			entries = append(entries, e)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for i, e := range entries {
				pipe.LRem(ctx, l.entriesKey(), 1, raws[i])

				if e.Subtract {
					pipe.HIncrBy(ctx, l.outstandingKey(e.Address), propertyField(e.Property), -e.Amount)
				}
			}

			pipe.Del(ctx, txKey)

			return nil
		})
		if err != nil {
			return err
		}

		removed = len(entries)

		return nil
	}

	const attempts = 2

	var err error

	for i := 0; i < attempts; i++ {
		err = l.client.Watch(ctx, supersede, txKey)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}

	if err != nil {
		return 0, fmt.Errorf("supersede pending entries of %s: %w", txid, err)
	}

	return removed, nil
}

func (l *RedisLedger) readList(ctx context.Context, key string) ([]Entry, error) {
	raws, err := l.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read pending entries: %w", err)
	}

	entries := make([]Entry, 0, len(raws))

	for _, raw := range raws {
		var e Entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEntryUnreadable, err)
		}

		entries = append(entries, e)
	}

	return entries, nil
}
