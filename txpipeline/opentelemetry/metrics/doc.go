// Package metrics provides a fluent factory for OpenTelemetry metric instruments.
//
// MetricsFactory caches instruments and exposes builder-style APIs for counters
// and histograms. Convenience recorders cover the pipeline's own metrics:
// operations, commitment rollbacks, pending entries and compose latency.
package metrics
