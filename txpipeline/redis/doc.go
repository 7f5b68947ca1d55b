// Package redis provides the Redis-backed distributed lock used to serialize
// commitment selection between pipeline processes sharing one wallet.
//
// Locks follow the RedLock algorithm through redsync:
//
//	locks, err := redis.NewLockManager(client)
//	if err != nil {
//	    return err
//	}
//
//	err = locks.WithLock(ctx, "txpipeline:commitment:spend:3:0", func(ctx context.Context) error {
//	    return selectCommitment(ctx)
//	})
package redis
