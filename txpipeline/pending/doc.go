// Package pending records provisional balance effects of broadcast transactions.
//
// The ledger is append-only from the pipeline's point of view: entries are
// recorded after a successful broadcast and only superseded by a confirmation
// consumer. Read-side balance queries subtract the outstanding amounts.
package pending
