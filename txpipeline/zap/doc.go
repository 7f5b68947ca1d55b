// Package zap adapts go.uber.org/zap to the pipeline log.Logger interface.
//
// Logs carry trace_id and span_id when the context holds an active span, and
// every core is teed into the OpenTelemetry log bridge.
package zap
