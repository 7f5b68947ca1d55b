// Package requirement implements the ordered precondition checks run before a
// transaction is composed.
//
// Checks are pure functions of one ledger snapshot. Validate runs them in order
// inside a single ledger.Reader.View call and returns the first failure
// unchanged; later checks are not evaluated.
package requirement
