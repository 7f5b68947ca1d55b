// Package intent defines the closed set of high-level actions the pipeline
// can turn into a transaction. Each variant carries exactly the inputs its
// operation needs; the dispatcher switches over the variants.
package intent
