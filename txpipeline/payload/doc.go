// Package payload defines the contract of the payload provider: typed
// parameter sets in, opaque encoded protocol instructions out. The byte
// layout is owned by the encoder implementation.
package payload
