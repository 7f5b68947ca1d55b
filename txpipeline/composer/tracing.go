package composer

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type tracing struct {
	next   Composer
	tracer trace.Tracer
}

// WithTracing wraps next so every call runs in a child span.
func WithTracing(next Composer, tracer trace.Tracer) Composer {
	return &tracing{next: next, tracer: tracer}
}

func (t *tracing) Compose(ctx context.Context, req Request) (Result, error) {
	ctx, span := t.tracer.Start(ctx, "txpipeline.composer.compose", trace.WithAttributes(
		attribute.Bool("commit", req.Commit),
		attribute.String("input_mode", req.InputMode.String()),
		attribute.Int("payload_bytes", len(req.Payload)),
		attribute.Bool("fee_override", req.Fee != nil),
	))
	defer span.End()

	res, err := t.next.Compose(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "compose failed")

		return res, err
	}

	if res.TxID != "" {
		span.SetAttributes(attribute.String("txid", res.TxID))
	}

	return res, nil
}
