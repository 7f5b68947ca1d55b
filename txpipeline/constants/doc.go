// Package constant provides protocol codes and limits shared across the pipeline.
//
// Keep this package free of runtime behavior beyond pure lookups.
package constant
