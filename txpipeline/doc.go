// Package txpipeline provides the shared plumbing of the transaction pipeline:
// context-carried telemetry, environment configuration helpers and the
// mapping of domain errors onto caller-facing responses.
//
// Typical usage at the entry point of an operation:
//
//	ctx = txpipeline.ContextWithLogger(ctx, logger)
//	ctx = txpipeline.ContextWithTracer(ctx, tracer)
//	ctx = txpipeline.ContextWithOperationID(ctx, operationID)
//
// The pipeline stages live in subpackages: requirement, feepolicy, commitment,
// composer, pending and dispatch.
package txpipeline
