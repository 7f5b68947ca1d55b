// Package ledger defines the read contract the pipeline uses against token-layer
// state, and an in-memory implementation for embedding and tests.
//
// All reads for one operation happen inside a single Reader.View call, which
// gives them one consistent snapshot.
package ledger
