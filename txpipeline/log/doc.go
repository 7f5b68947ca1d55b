// Package log defines the logging interface and typed fields used across the pipeline.
//
// Adapters (such as the zap package) implement Logger so dispatcher, commitment
// and pending code log the same way regardless of backend.
package log
