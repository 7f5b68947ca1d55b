package composer

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/log"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
)

// BreakerConfig tunes the fail-fast guard around the wallet.
type BreakerConfig struct {
	Name                string
	MaxRequests         uint32        // requests allowed while half-open
	Interval            time.Duration // closed-state count reset period
	Timeout             time.Duration // open-state duration before half-open
	ConsecutiveFailures uint32
	FailureRatio        float64
	MinRequests         uint32
}

// DefaultBreakerConfig returns the defaults used when fields are zero.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:                "wallet-composer",
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
		FailureRatio:        0.5,
		MinRequests:         10,
	}
}

func (c BreakerConfig) normalize() BreakerConfig {
	d := DefaultBreakerConfig()

	if c.Name == "" {
		c.Name = d.Name
	}

	if c.MaxRequests == 0 {
		c.MaxRequests = d.MaxRequests
	}

	if c.Interval <= 0 {
		c.Interval = d.Interval
	}

	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}

	if c.ConsecutiveFailures == 0 {
		c.ConsecutiveFailures = d.ConsecutiveFailures
	}

	if c.FailureRatio <= 0 || c.FailureRatio > 1 {
		c.FailureRatio = d.FailureRatio
	}

	if c.MinRequests == 0 {
		c.MinRequests = d.MinRequests
	}

	return c
}

// Breaker short-circuits composer calls while the wallet keeps failing.
// A StatusError counts as an answer from the wallet, not a failure.
type Breaker struct {
	next    Composer
	breaker *gobreaker.CircuitBreaker
	logger  log.Logger
}

// WithBreaker wraps next in a circuit breaker.
func WithBreaker(next Composer, cfg BreakerConfig, logger log.Logger) *Breaker {
	cfg = cfg.normalize()
	b := &Breaker{next: next, logger: log.OrNop(logger)}

	b.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= cfg.ConsecutiveFailures {
				return true
			}

			if counts.Requests < cfg.MinRequests {
				return false
			}

			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			var se *StatusError
			return err == nil || errors.As(err, &se)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.logger.Log(context.Background(), log.LevelWarn, "composer circuit breaker changed state",
				log.String("breaker", name), log.String("from", from.String()), log.String("to", to.String()))
		},
	})

	return b
}

// Compose forwards to the wrapped composer unless the breaker is open.
func (b *Breaker) Compose(ctx context.Context, req Request) (Result, error) {
	out, err := b.breaker.Execute(func() (any, error) {
		return b.next.Compose(ctx, req)
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		b.logger.Log(ctx, log.LevelWarn, "composer call rejected by circuit breaker", log.Err(err))
		return Result{}, protocol.WalletError("wallet composer unavailable", err)
	}

	res, _ := out.(Result)

	return res, err
}

// State returns the breaker state name: closed, open or half-open.
func (b *Breaker) State() string {
	return b.breaker.State().String()
}
