// Package commitment manages the locally held blinded-token commitments
// created by mints and consumed by spends.
//
// A mint creates one commitment per requested unit before the transaction is
// composed. If composition fails the batch is rolled back in reverse creation
// order, so a failed mint leaves the store exactly as it found it. A spend
// reserves one eligible commitment and only marks it used once the spending
// transaction was composed; an aborted plan releases the reservation.
package commitment
