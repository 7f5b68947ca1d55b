package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/tokenlayer/lib-txpipeline/txpipeline"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/assert"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/commitment"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/composer"
	constant "github.com/tokenlayer/lib-txpipeline/txpipeline/constants"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/feepolicy"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/intent"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/ledger"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/log"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/opentelemetry/metrics"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/payload"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/pending"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/requirement"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Outcome is the result of a successful operation. Committed operations
// carry TxID; otherwise RawHex holds the signed transaction.
type Outcome struct {
	TxID      string
	RawHex    string
	Committed bool
}

// Service dispatches intents through validation, encoding and composition.
type Service struct {
	reader      ledger.Reader
	composer    composer.Composer
	encoder     payload.Encoder
	commitments *commitment.Manager
	pending     pending.Ledger
	fees        *feepolicy.Store
	logger      log.Logger
	tracer      trace.Tracer
	metrics     *metrics.MetricsFactory
	breaker     *composer.BreakerConfig
	cfg         Config
}

// New builds a Service. The pending ledger, fee store and commitment manager
// default to in-memory implementations.
func New(reader ledger.Reader, comp composer.Composer, encoder payload.Encoder, opts ...Option) (*Service, error) {
	s := &Service{
		reader:  reader,
		encoder: encoder,
		logger:  log.NewNop(),
		tracer:  noop.NewTracerProvider().Tracer("txpipeline.dispatch.noop"),
		metrics: metrics.NewNopFactory(),
		cfg:     DefaultConfig(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	ctx := context.Background()
	asserter := assert.New(ctx, s.logger, "dispatch", "dispatch.new")

	if err := asserter.NotNil(ctx, reader, "ledger reader is required"); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLedgerRequired, err)
	}

	if err := asserter.NotNil(ctx, comp, "composer is required"); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrComposerRequired, err)
	}

	if err := asserter.NotNil(ctx, encoder, "payload encoder is required"); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoderRequired, err)
	}

	s.cfg.normalize()

	if err := s.cfg.validate(); err != nil {
		return nil, err
	}

	if s.pending == nil {
		s.pending = pending.NewMemoryLedger()
	}

	if s.fees == nil {
		s.fees = feepolicy.NewStore(feepolicy.Rate{})
	}

	if s.commitments == nil {
		s.commitments = commitment.NewManager(commitment.NewMemoryStore(),
			commitment.WithLogger(s.logger), commitment.WithMetrics(s.metrics))
	}

	if s.breaker != nil {
		comp = composer.WithBreaker(comp, *s.breaker, s.logger)
	}

	s.composer = composer.WithTracing(composer.WithFeePolicy(comp, s.fees), s.tracer)

	return s, nil
}

// Config returns the effective configuration.
func (s *Service) Config() Config {
	return s.cfg
}

// Pending returns the ledger committed operations are recorded in.
func (s *Service) Pending() pending.Ledger {
	return s.pending
}

// Commitments returns the commitment manager used by mints and spends.
func (s *Service) Commitments() *commitment.Manager {
	return s.commitments
}

// effect is the pending entry a committed operation records.
type effect struct {
	address  string
	txType   constant.TxType
	property protocol.PropertyID
	amount   int64
	subtract bool
}

// plan describes an operation without side effects besides composition.
type plan struct {
	operation string
	// pending holds the outstanding amounts read before validation; nil when no check needs them.
	pending *requirement.PendingSnapshot
	checks  []requirement.Check
	params  payload.Params
	request composer.Request
	effect  *effect
}

func (s *Service) dispatch(ctx context.Context, p plan) (Outcome, error) {
	return s.observe(ctx, p.operation, func(ctx context.Context) (Outcome, error) {
		return s.run(ctx, p)
	})
}

// observe runs fn inside the operation span and records its result.
func (s *Service) observe(ctx context.Context, operation string, fn func(context.Context) (Outcome, error)) (Outcome, error) {
	ctx, operationID := txpipeline.EnsureOperationID(ctx)

	ctx, span := s.tracer.Start(ctx, "txpipeline.dispatch."+operation, trace.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("operation_id", operationID),
		attribute.Bool("commit", s.cfg.AutoCommit),
	))
	defer span.End()

	logger := s.logger.With(log.Operation(operation), log.String("operation_id", operationID))
	ctx = txpipeline.ContextWithLogger(ctx, logger)

	out, err := fn(ctx)

	if mErr := s.metrics.RecordOperation(ctx, operation, resultLabel(out, err)); mErr != nil {
		logger.Log(ctx, log.LevelWarn, "failed to record operation metric", log.Err(mErr))
	}

	if err != nil {
		kind := protocol.KindOf(err)

		span.RecordError(err)
		span.SetStatus(codes.Error, kind.String())
		logger.Log(ctx, log.LevelWarn, "operation failed", log.String("kind", kind.String()), log.Err(err))

		return Outcome{}, err
	}

	if out.Committed {
		span.SetAttributes(attribute.String("txid", out.TxID))
	}

	logger.Log(ctx, log.LevelInfo, "operation completed", log.Bool("committed", out.Committed), log.TxID(out.TxID))

	return out, nil
}

func resultLabel(out Outcome, err error) string {
	switch {
	case err != nil:
		return protocol.KindOf(err).String()
	case out.Committed:
		return "committed"
	default:
		return "raw"
	}
}

func (s *Service) run(ctx context.Context, p plan) (Outcome, error) {
	if err := s.validate(ctx, p.pending, p.checks...); err != nil {
		return Outcome{}, err
	}

	req := p.request

	if p.params != nil {
		data, err := s.encode(ctx, p.params)
		if err != nil {
			return Outcome{}, err
		}

		req.Payload = data
	}

	res, err := s.compose(ctx, p.operation, req)
	if err != nil {
		return Outcome{}, err
	}

	return s.settle(ctx, res, p.effect), nil
}

// validate loads pending amounts, then runs checks inside one ledger snapshot.
// No I/O other than the ledger read happens while the snapshot is open.
func (s *Service) validate(ctx context.Context, pend *requirement.PendingSnapshot, checks ...requirement.Check) error {
	if pend != nil {
		if err := pend.Load(ctx); err != nil {
			return err
		}
	}

	return requirement.Validate(ctx, s.reader, checks...)
}

// encode asks the payload provider for the payload bytes. Provider failures
// that are not already domain errors become InvalidParameter.
func (s *Service) encode(ctx context.Context, params payload.Params) ([]byte, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("tx_type", params.TxType().String()))

	data, err := s.encoder.Encode(ctx, params)
	if err != nil {
		if protocol.KindOf(err) != protocol.KindUnknown {
			return nil, err
		}

		return nil, &protocol.DomainError{
			Kind:    protocol.KindInvalidParameter,
			Code:    protocol.ErrorPayloadRejected,
			Field:   "payload",
			Message: fmt.Sprintf("payload provider rejected %s parameters", params.TxType()),
			Cause:   err,
		}
	}

	return data, nil
}

func (s *Service) compose(ctx context.Context, operation string, req composer.Request) (composer.Result, error) {
	req.Commit = s.cfg.AutoCommit

	start := time.Now()
	res, err := s.composer.Compose(ctx, req)

	if mErr := s.metrics.RecordComposeDuration(ctx, operation, time.Since(start)); mErr != nil {
		txpipeline.NewLoggerFromContext(ctx).Log(ctx, log.LevelWarn, "failed to record compose duration", log.Err(mErr))
	}

	if err != nil {
		return composer.Result{}, composer.Classify(err)
	}

	if req.Commit {
		asserter := assert.New(ctx, txpipeline.NewLoggerFromContext(ctx), "dispatch", operation)
		if aErr := asserter.NotEmpty(ctx, res.TxID, "committed transaction has no id"); aErr != nil {
			return composer.Result{}, protocol.WalletError("composer returned no transaction id", aErr)
		}
	}

	return res, nil
}

// settle turns a successful composition into the outcome, recording the
// pending effect of committed transactions.
func (s *Service) settle(ctx context.Context, res composer.Result, eff *effect) Outcome {
	if !s.cfg.AutoCommit {
		return Outcome{RawHex: res.RawHex}
	}

	if eff != nil {
		s.recordPending(ctx, res.TxID, *eff)
	}

	return Outcome{TxID: res.TxID, Committed: true}
}

// recordPending never fails the operation: the transaction is already broadcast.
func (s *Service) recordPending(ctx context.Context, txid string, eff effect) {
	ctx = context.WithoutCancel(ctx)
	logger := txpipeline.NewLoggerFromContext(ctx)

	entry, err := pending.NewEntry(ctx, txid, eff.address, eff.txType, eff.property, eff.amount, eff.subtract)
	if err == nil {
		err = s.pending.Record(ctx, entry)
	}

	if err != nil {
		logger.Log(ctx, log.LevelError, "failed to record pending entry",
			log.TxID(txid), log.Property(uint32(eff.property)), log.Err(err))

		return
	}

	if mErr := s.metrics.RecordPendingEntry(ctx, eff.txType, eff.subtract); mErr != nil {
		logger.Log(ctx, log.LevelWarn, "failed to record pending entry metric", log.Err(mErr))
	}
}

// Execute dispatches in to the operation its variant names.
func (s *Service) Execute(ctx context.Context, in intent.Intent) (Outcome, error) {
	switch v := in.(type) {
	case intent.SendRaw:
		return s.SendRaw(ctx, v)
	case intent.Send:
		return s.Send(ctx, v)
	case intent.SendAll:
		return s.SendAll(ctx, v)
	case intent.OfferSell:
		return s.OfferSell(ctx, v)
	case intent.OfferAccept:
		return s.OfferAccept(ctx, v)
	case intent.IssueCrowdsale:
		return s.IssueCrowdsale(ctx, v)
	case intent.IssueFixed:
		return s.IssueFixed(ctx, v)
	case intent.IssueManaged:
		return s.IssueManaged(ctx, v)
	case intent.SendToOwners:
		return s.SendToOwners(ctx, v)
	case intent.Grant:
		return s.Grant(ctx, v)
	case intent.Revoke:
		return s.Revoke(ctx, v)
	case intent.CloseCrowdsale:
		return s.CloseCrowdsale(ctx, v)
	case intent.Trade:
		return s.Trade(ctx, v)
	case intent.CancelTradesByPrice:
		return s.CancelTradesByPrice(ctx, v)
	case intent.CancelTradesByPair:
		return s.CancelTradesByPair(ctx, v)
	case intent.CancelAllTrades:
		return s.CancelAllTrades(ctx, v)
	case intent.ChangeIssuer:
		return s.ChangeIssuer(ctx, v)
	case intent.EnableFreezing:
		return s.EnableFreezing(ctx, v)
	case intent.DisableFreezing:
		return s.DisableFreezing(ctx, v)
	case intent.Freeze:
		return s.Freeze(ctx, v)
	case intent.Unfreeze:
		return s.Unfreeze(ctx, v)
	case intent.ActivateFeature:
		return s.ActivateFeature(ctx, v)
	case intent.DeactivateFeature:
		return s.DeactivateFeature(ctx, v)
	case intent.Alert:
		return s.Alert(ctx, v)
	case intent.CreateDenomination:
		return s.CreateDenomination(ctx, v)
	case intent.Mint:
		return s.Mint(ctx, v)
	case intent.Spend:
		return s.Spend(ctx, v)
	case intent.LegacyTrade:
		return s.LegacyTrade(ctx, v)
	}

	return Outcome{}, &protocol.DomainError{
		Kind:    protocol.KindInvalidParameter,
		Code:    protocol.ErrorInvalidAction,
		Field:   "intent",
		Message: fmt.Sprintf("unsupported intent %T", in),
		Cause:   ErrUnsupportedIntent,
	}
}

// LegacyTrade maps the combined trade entry point onto its specific operation.
func (s *Service) LegacyTrade(ctx context.Context, in intent.LegacyTrade) (Outcome, error) {
	mapped, err := intent.FromLegacyTrade(in)
	if err != nil {
		return s.observe(ctx, intent.OpLegacyTrade, func(context.Context) (Outcome, error) {
			return Outcome{}, err
		})
	}

	return s.Execute(ctx, mapped)
}
