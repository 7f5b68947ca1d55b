package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"github.com/tokenlayer/lib-txpipeline/txpipeline"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/log"
	"go.opentelemetry.io/otel/codes"
)

const maxLockTries = 1000

var (
	// ErrNilClient is returned when no Redis client is supplied.
	ErrNilClient = errors.New("redis client is nil")
	// ErrNilLockManager is returned when a method is called on a nil LockManager.
	ErrNilLockManager = errors.New("lock manager is nil")
	// ErrNilLockFn is returned when a nil function is passed to WithLock.
	ErrNilLockFn = errors.New("lock function is nil")
	// ErrEmptyLockKey is returned when an empty lock key is provided.
	ErrEmptyLockKey = errors.New("lock key cannot be empty")
	// ErrLockExpiryInvalid is returned when lock expiry is not positive.
	ErrLockExpiryInvalid = errors.New("lock expiry must be greater than 0")
	// ErrLockTriesInvalid is returned when lock tries is outside [1, 1000].
	ErrLockTriesInvalid = errors.New("lock tries must be between 1 and 1000")
	// ErrLockRetryDelayNegative is returned when retry delay is negative.
	ErrLockRetryDelayNegative = errors.New("lock retry delay cannot be negative")
	// ErrLockDriftFactorInvalid is returned when drift factor is outside [0, 1).
	ErrLockDriftFactorInvalid = errors.New("lock drift factor must be between 0 (inclusive) and 1 (exclusive)")
	// ErrLockNotHeld is returned when a lock expired before it was released.
	ErrLockNotHeld = errors.New("lock was not held or already expired")
)

// LockOptions configures lock acquisition.
type LockOptions struct {
	// Expiry bounds how long a crashed holder can block others.
	Expiry time.Duration
	// Tries is the number of acquisition attempts.
	Tries int
	// RetryDelay is the pause between attempts.
	RetryDelay time.Duration
	// DriftFactor accounts for clock drift between Redis nodes.
	DriftFactor float64
}

// DefaultLockOptions returns options sized for commitment selection, which
// completes in milliseconds but may queue behind a concurrent spend.
func DefaultLockOptions() LockOptions {
	return LockOptions{
		Expiry:      10 * time.Second,
		Tries:       20,
		RetryDelay:  50 * time.Millisecond,
		DriftFactor: 0.01,
	}
}

func (o LockOptions) validate() error {
	switch {
	case o.Expiry <= 0:
		return ErrLockExpiryInvalid
	case o.Tries < 1 || o.Tries > maxLockTries:
		return ErrLockTriesInvalid
	case o.RetryDelay < 0:
		return ErrLockRetryDelayNegative
	case o.DriftFactor < 0 || o.DriftFactor >= 1:
		return ErrLockDriftFactorInvalid
	}

	return nil
}

// LockManager hands out RedLock mutexes over a single Redis deployment.
type LockManager struct {
	redsync *redsync.Redsync
	opts    LockOptions
}

// NewLockManager builds a lock manager over client with DefaultLockOptions.
func NewLockManager(client redis.UniversalClient) (*LockManager, error) {
	return NewLockManagerWithOptions(client, DefaultLockOptions())
}

// NewLockManagerWithOptions builds a lock manager with custom options.
func NewLockManagerWithOptions(client redis.UniversalClient, opts LockOptions) (*LockManager, error) {
	if client == nil {
		return nil, ErrNilClient
	}

	if err := opts.validate(); err != nil {
		return nil, err
	}

	return &LockManager{
		redsync: redsync.New(goredis.NewPool(client)),
		opts:    opts,
	}, nil
}

// WithLock runs fn while holding the lock named key. The lock is released
// when fn returns or panics; a failed release is logged, not returned.
func (m *LockManager) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	if m == nil || m.redsync == nil {
		return ErrNilLockManager
	}

	if fn == nil {
		return ErrNilLockFn
	}

	if strings.TrimSpace(key) == "" {
		return ErrEmptyLockKey
	}

	logger, tracer, _, _ := txpipeline.NewTrackingFromContext(ctx)
	safeKey := safeLockKeyForLogs(key)

	ctx, span := tracer.Start(ctx, "txpipeline.redis.with_lock")
	defer span.End()

	mutex := m.redsync.NewMutex(
		key,
		redsync.WithExpiry(m.opts.Expiry),
		redsync.WithTries(m.opts.Tries),
		redsync.WithRetryDelay(m.opts.RetryDelay),
		redsync.WithDriftFactor(m.opts.DriftFactor),
	)

	if err := mutex.LockContext(ctx); err != nil {
		logger.Log(ctx, log.LevelError, "failed to acquire lock", log.String("lock_key", safeKey), log.Err(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to acquire lock")

		return fmt.Errorf("acquire lock %s: %w", safeKey, err)
	}

	defer func() {
		if ok, err := mutex.UnlockContext(context.WithoutCancel(ctx)); !ok || err != nil {
			logger.Log(ctx, log.LevelWarn, "failed to release lock",
				log.String("lock_key", safeKey), log.Bool("unlock_ok", ok), log.Err(err))
		}
	}()

	return fn(ctx)
}

// TryLock acquires key once without retrying. It returns a release function
// and true when the lock was taken, false when another holder has it.
func (m *LockManager) TryLock(ctx context.Context, key string) (func(context.Context) error, bool, error) {
	if m == nil || m.redsync == nil {
		return nil, false, ErrNilLockManager
	}

	if strings.TrimSpace(key) == "" {
		return nil, false, ErrEmptyLockKey
	}

	mutex := m.redsync.NewMutex(key, redsync.WithExpiry(m.opts.Expiry), redsync.WithTries(1))

	if err := mutex.LockContext(ctx); err != nil {
		var taken *redsync.ErrTaken
		if errors.Is(err, redsync.ErrFailed) || errors.As(err, &taken) || strings.Contains(err.Error(), "lock already taken") {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("try lock %s: %w", safeLockKeyForLogs(key), err)
	}

	release := func(ctx context.Context) error {
		ok, err := mutex.UnlockContext(ctx)
		if err != nil {
			return fmt.Errorf("release lock: %w", err)
		}

		if !ok {
			return ErrLockNotHeld
		}

		return nil
	}

	return release, true, nil
}

func safeLockKeyForLogs(key string) string {
	const maxLockKeyLogLength = 128

	quoted := strconv.QuoteToASCII(key)
	if len(quoted) <= maxLockKeyLogLength {
		return quoted
	}

	return quoted[:maxLockKeyLogLength] + "...(truncated)"
}
