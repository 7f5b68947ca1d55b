// Package dispatch turns intents into composed transactions.
//
// Every operation runs the same pipeline: requirement checks against one
// ledger snapshot, payload encoding, composition, and then either the pending
// ledger update (commit) or the raw transaction hex. Failures after side
// effects were created are compensated before the error is returned.
package dispatch
