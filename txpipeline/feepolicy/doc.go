// Package feepolicy models the fee rate the composer pays and how an operation
// overrides it.
//
// The process-wide default lives in a Store that operations never write. An
// operation that needs a different rate opens a Scope and passes the scope's
// rate explicitly on every composer request it makes; concurrent operations
// keep resolving the default.
package feepolicy
