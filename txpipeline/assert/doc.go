// Package assert provides invariant checks that return errors instead of panicking.
//
// A failed assertion is logged, counted and recorded on the active span, then
// returned as an *AssertionError wrapping ErrAssertionFailed.
package assert
