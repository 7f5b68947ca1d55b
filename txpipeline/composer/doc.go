// Package composer defines the contract of the wallet-side transaction composer
// and the decorators the pipeline puts around it.
//
// A composer call either returns a transaction (id when committed, raw hex
// otherwise) or fails. A *StatusError means the composer answered with a
// non-zero status and nothing was broadcast. Failed calls are never retried.
package composer
