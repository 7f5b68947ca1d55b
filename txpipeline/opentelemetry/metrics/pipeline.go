package metrics

import (
	"context"
	"time"

	constant "github.com/tokenlayer/lib-txpipeline/txpipeline/constants"
	"go.opentelemetry.io/otel/attribute"
)

// Pipeline metrics.
var (
	MetricOperations = Metric{
		Name:        "txpipeline_operations_total",
		Unit:        "1",
		Description: "Operations handled by the dispatcher, by operation and result.",
	}

	MetricCommitmentRollbacks = Metric{
		Name:        "txpipeline_commitment_rollbacks_total",
		Unit:        "1",
		Description: "Commitments erased while compensating a failed mint.",
	}

	MetricPendingEntries = Metric{
		Name:        "txpipeline_pending_entries_total",
		Unit:        "1",
		Description: "Pending ledger entries recorded after a broadcast.",
	}

	MetricComposeDuration = Metric{
		Name:        "txpipeline_compose_duration_ms",
		Unit:        "ms",
		Description: "Time spent in the transaction composer.",
		Buckets:     DefaultLatencyBuckets,
	}
)

// RecordOperation counts one finished operation. result is "committed", "raw" or an error kind.
func (f *MetricsFactory) RecordOperation(ctx context.Context, operation, result string) error {
	b, err := f.Counter(MetricOperations)
	if err != nil {
		return err
	}

	return b.WithAttributes(
		attribute.String("operation", constant.SanitizeMetricLabel(operation)),
		attribute.String("result", constant.SanitizeMetricLabel(result)),
	).AddOne(ctx)
}

// RecordCommitmentRollback counts erased commitments; failed reports whether the erase itself failed.
func (f *MetricsFactory) RecordCommitmentRollback(ctx context.Context, count int, failed bool) error {
	b, err := f.Counter(MetricCommitmentRollbacks)
	if err != nil {
		return err
	}

	return b.WithAttributes(attribute.Bool("failed", failed)).Add(ctx, int64(count))
}

// RecordPendingEntry counts one pending ledger entry.
func (f *MetricsFactory) RecordPendingEntry(ctx context.Context, txType constant.TxType, subtract bool) error {
	b, err := f.Counter(MetricPendingEntries)
	if err != nil {
		return err
	}

	return b.WithAttributes(
		attribute.String("tx_type", txType.String()),
		attribute.Bool("subtract", subtract),
	).AddOne(ctx)
}

// RecordComposeDuration records how long one composer call took.
func (f *MetricsFactory) RecordComposeDuration(ctx context.Context, operation string, elapsed time.Duration) error {
	b, err := f.Histogram(MetricComposeDuration)
	if err != nil {
		return err
	}

	return b.WithAttributes(attribute.String("operation", constant.SanitizeMetricLabel(operation))).
		Record(ctx, elapsed.Milliseconds())
}
