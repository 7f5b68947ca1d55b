package txpipeline

import (
	"context"
	"strings"

	"github.com/google/uuid"
	constant "github.com/tokenlayer/lib-txpipeline/txpipeline/constants"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/log"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/opentelemetry/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type customContextKey string

// CustomContextKey is the context key used to store CustomContextKeyValue.
var CustomContextKey = customContextKey("txpipeline_context")

// defaultTracerName names the tracer used when none was attached to the context.
const defaultTracerName = constant.TelemetrySDKName

// CustomContextKeyValue holds the operation-scoped facilities attached to a context.
type CustomContextKeyValue struct {
	OperationID   string
	Tracer        trace.Tracer
	Logger        log.Logger
	MetricFactory *metrics.MetricsFactory
}

// valuesFrom returns a copy of the values stored in ctx so that derived
// contexts never mutate their parent.
func valuesFrom(ctx context.Context) CustomContextKeyValue {
	if values, ok := ctx.Value(CustomContextKey).(*CustomContextKeyValue); ok && values != nil {
		return *values
	}

	return CustomContextKeyValue{}
}

func withValues(ctx context.Context, values CustomContextKeyValue) context.Context {
	return context.WithValue(ctx, CustomContextKey, &values)
}

// ContextWithLogger returns a context carrying logger.
func ContextWithLogger(ctx context.Context, logger log.Logger) context.Context {
	values := valuesFrom(ctx)
	values.Logger = logger

	return withValues(ctx, values)
}

// NewLoggerFromContext returns the context logger, or a no-op logger.
//
//nolint:ireturn
func NewLoggerFromContext(ctx context.Context) log.Logger {
	return log.OrNop(valuesFrom(ctx).Logger)
}

// ContextWithTracer returns a context carrying tracer.
func ContextWithTracer(ctx context.Context, tracer trace.Tracer) context.Context {
	values := valuesFrom(ctx)
	values.Tracer = tracer

	return withValues(ctx, values)
}

// NewTracerFromContext returns the context tracer, or the global default tracer.
//
//nolint:ireturn
func NewTracerFromContext(ctx context.Context) trace.Tracer {
	if tracer := valuesFrom(ctx).Tracer; tracer != nil {
		return tracer
	}

	return otel.Tracer(defaultTracerName)
}

// ContextWithMetricFactory returns a context carrying factory.
func ContextWithMetricFactory(ctx context.Context, factory *metrics.MetricsFactory) context.Context {
	values := valuesFrom(ctx)
	values.MetricFactory = factory

	return withValues(ctx, values)
}

// NewMetricFactoryFromContext returns the context metrics factory, or a no-op factory.
func NewMetricFactoryFromContext(ctx context.Context) *metrics.MetricsFactory {
	if factory := valuesFrom(ctx).MetricFactory; factory != nil {
		return factory
	}

	return metrics.NewNopFactory()
}

// ContextWithOperationID returns a context carrying the operation correlation id.
func ContextWithOperationID(ctx context.Context, operationID string) context.Context {
	values := valuesFrom(ctx)
	values.OperationID = strings.TrimSpace(operationID)

	return withValues(ctx, values)
}

// OperationIDFromContext returns the operation id stored in ctx, or "".
func OperationIDFromContext(ctx context.Context) string {
	return valuesFrom(ctx).OperationID
}

// EnsureOperationID returns ctx with an operation id, generating one when missing.
func EnsureOperationID(ctx context.Context) (context.Context, string) {
	if id := OperationIDFromContext(ctx); id != "" {
		return ctx, id
	}

	id := uuid.New().String()

	return ContextWithOperationID(ctx, id), id
}

// NewTrackingFromContext returns the logger, tracer, operation id and metrics
// factory of ctx, substituting working defaults for anything missing.
//
//nolint:ireturn
func NewTrackingFromContext(ctx context.Context) (log.Logger, trace.Tracer, string, *metrics.MetricsFactory) {
	return NewLoggerFromContext(ctx), NewTracerFromContext(ctx), OperationIDFromContext(ctx), NewMetricFactoryFromContext(ctx)
}
