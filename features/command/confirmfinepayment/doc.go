// Package confirmfinepayment implements the Confirm Fine Payment use case.
//
// Settlement is terminal: an unpaid fine becomes paid exactly once. The
// conditional update in the storage layer guarantees that two concurrent
// confirmations resolve to one success and one ErrAlreadySettled.
package confirmfinepayment
