package metrics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/tokenlayer/lib-txpipeline/txpipeline/log"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// MetricsFactory lazily creates pipeline instruments and caches them by name. Safe for concurrent use.
type MetricsFactory struct {
	meter      metric.Meter
	counters   sync.Map // string -> metric.Int64Counter
	histograms sync.Map // string -> metric.Int64Histogram
	logger     log.Logger
}

// ErrNilMeter indicates that a nil OTEL meter was provided.
var ErrNilMeter = errors.New("metric meter cannot be nil")

// Metric describes an instrument.
type Metric struct {
	Name        string
	Description string
	Unit        string
	// Buckets are histogram bucket boundaries.
	Buckets []float64
}

// DefaultLatencyBuckets are compose latency boundaries in milliseconds.
var DefaultLatencyBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}

// NewMetricsFactory binds a factory to meter.
func NewMetricsFactory(meter metric.Meter, logger log.Logger) (*MetricsFactory, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}

	return &MetricsFactory{
		meter:  meter,
		logger: log.OrNop(logger),
	}, nil
}

// NewNopFactory returns a MetricsFactory backed by OpenTelemetry's no-op meter.
func NewNopFactory() *MetricsFactory {
	return &MetricsFactory{
		meter:  noop.NewMeterProvider().Meter("nop"),
		logger: log.NewNop(),
	}
}

// Counter returns an unlabelled builder for m, creating the instrument on first use.
func (f *MetricsFactory) Counter(m Metric) (*CounterBuilder, error) {
	counter, err := f.getOrCreateCounter(m)
	if err != nil {
		return nil, err
	}

	return &CounterBuilder{counter: counter, name: m.Name}, nil
}

// Histogram is Counter for histograms; nil Buckets means DefaultLatencyBuckets.
func (f *MetricsFactory) Histogram(m Metric) (*HistogramBuilder, error) {
	if m.Buckets == nil {
		m.Buckets = DefaultLatencyBuckets
	}

	histogram, err := f.getOrCreateHistogram(m)
	if err != nil {
		return nil, err
	}

	return &HistogramBuilder{histogram: histogram, name: m.Name}, nil
}

// instrument returns the cached instrument under key, creating it at most once
// per winner of the LoadOrStore race.
func instrument[T any](f *MetricsFactory, cache *sync.Map, key, kind string, create func() (T, error)) (T, error) {
	var zero T

	if cached, ok := cache.Load(key); ok {
		if v, ok := cached.(T); ok {
			return v, nil
		}

		return zero, fmt.Errorf("%s cache contains invalid type for %q", kind, key)
	}

	created, err := create()
	if err != nil {
		f.logger.Log(context.Background(), log.LevelError, "failed to create "+kind+" metric",
			log.String("metric_name", key), log.Err(err))

		return zero, fmt.Errorf("create %s %q: %w", kind, key, err)
	}

	actual, _ := cache.LoadOrStore(key, created)
	if v, ok := actual.(T); ok {
		return v, nil
	}

	return zero, fmt.Errorf("%s cache contains invalid type for %q", kind, key)
}

func (f *MetricsFactory) getOrCreateCounter(m Metric) (metric.Int64Counter, error) {
	return instrument(f, &f.counters, m.Name, "counter", func() (metric.Int64Counter, error) {
		return f.meter.Int64Counter(m.Name, metric.WithDescription(m.Description), metric.WithUnit(m.Unit))
	})
}

// getOrCreateHistogram keys the cache by name and bucket layout.
func (f *MetricsFactory) getOrCreateHistogram(m Metric) (metric.Int64Histogram, error) {
	return instrument(f, &f.histograms, histogramCacheKey(m.Name, m.Buckets), "histogram", func() (metric.Int64Histogram, error) {
		opts := []metric.Int64HistogramOption{metric.WithDescription(m.Description), metric.WithUnit(m.Unit)}
		if len(m.Buckets) > 0 {
			opts = append(opts, metric.WithExplicitBucketBoundaries(m.Buckets...))
		}

		return f.meter.Int64Histogram(m.Name, opts...)
	})
}

func histogramCacheKey(name string, buckets []float64) string {
	if len(buckets) == 0 {
		return name
	}

	sorted := make([]float64, len(buckets))
	copy(sorted, buckets)
	sort.Float64s(sorted)

	parts := make([]string, len(sorted))
	for i, b := range sorted {
		parts[i] = strconv.FormatFloat(b, 'g', -1, 64)
	}

	return fmt.Sprintf("%s:%s", name, strings.Join(parts, ","))
}
