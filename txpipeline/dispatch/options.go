package dispatch

import (
	"github.com/tokenlayer/lib-txpipeline/txpipeline/commitment"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/composer"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/feepolicy"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/log"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/opentelemetry/metrics"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/pending"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Service. Nil values are ignored.
type Option func(*Service)

func WithLogger(logger log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

func WithMetrics(factory *metrics.MetricsFactory) Option {
	return func(s *Service) {
		if factory != nil {
			s.metrics = factory
		}
	}
}

// WithPending sets the ledger committed operations are recorded in and
// balance checks read outstanding amounts from.
func WithPending(ledger pending.Ledger) Option {
	return func(s *Service) {
		if ledger != nil {
			s.pending = ledger
		}
	}
}

// WithFeeStore sets the process fee policy. Operations only read it.
func WithFeeStore(store *feepolicy.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.fees = store
		}
	}
}

// WithCommitments sets the commitment manager used by mints and spends.
func WithCommitments(manager *commitment.Manager) Option {
	return func(s *Service) {
		if manager != nil {
			s.commitments = manager
		}
	}
}

// WithComposerBreaker guards the composer with a circuit breaker.
func WithComposerBreaker(cfg composer.BreakerConfig) Option {
	return func(s *Service) {
		s.breaker = &cfg
	}
}

// WithConfig replaces the whole configuration. Unset limits fall back to
// their defaults; AutoCommit is taken as given.
func WithConfig(cfg Config) Option {
	return func(s *Service) {
		s.cfg = cfg
	}
}
