package metrics

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	// ErrNilCounter reports a CounterBuilder that was not obtained from a factory.
	ErrNilCounter = errors.New("counter instrument is nil")
	// ErrNilHistogram reports a HistogramBuilder that was not obtained from a factory.
	ErrNilHistogram = errors.New("histogram instrument is nil")
)

// labels is an immutable attribute list; extend always copies.
type labels []attribute.KeyValue

func (l labels) extend(more []attribute.KeyValue) labels {
	out := make(labels, 0, len(l)+len(more))

	return append(append(out, l...), more...)
}

func (l labels) option() metric.MeasurementOption {
	return metric.WithAttributes(l...)
}

// CounterBuilder is a counter bound to a set of labels.
type CounterBuilder struct {
	counter metric.Int64Counter
	name    string
	labels  labels
}

// WithAttributes derives a builder with more labels. The receiver is unchanged.
func (c *CounterBuilder) WithAttributes(attrs ...attribute.KeyValue) *CounterBuilder {
	return &CounterBuilder{counter: c.counter, name: c.name, labels: c.labels.extend(attrs)}
}

func (c *CounterBuilder) Add(ctx context.Context, value int64) error {
	if c.counter == nil {
		return ErrNilCounter
	}

	c.counter.Add(ctx, value, c.labels.option())

	return nil
}

func (c *CounterBuilder) AddOne(ctx context.Context) error {
	return c.Add(ctx, 1)
}

// HistogramBuilder is a histogram bound to a set of labels.
type HistogramBuilder struct {
	histogram metric.Int64Histogram
	name      string
	labels    labels
}

// WithAttributes derives a builder with more labels. The receiver is unchanged.
func (h *HistogramBuilder) WithAttributes(attrs ...attribute.KeyValue) *HistogramBuilder {
	return &HistogramBuilder{histogram: h.histogram, name: h.name, labels: h.labels.extend(attrs)}
}

func (h *HistogramBuilder) Record(ctx context.Context, value int64) error {
	if h.histogram == nil {
		return ErrNilHistogram
	}

	h.histogram.Record(ctx, value, h.labels.option())

	return nil
}
