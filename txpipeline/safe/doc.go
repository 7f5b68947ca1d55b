// Package safe provides panic-free arithmetic helpers.
//
// Integer helpers detect signed 64-bit overflow instead of wrapping; decimal
// helpers guard against division by zero. Failures are explicit errors.
package safe
