// Package protocol holds the token-layer data model shared by every pipeline stage:
// properties, offers, denominations, amount formatting and the DomainError taxonomy.
package protocol
