// Package createmanualfine implements the Create Manual Fine use case.
//
// Accounting staff can record a fine that is not tied to a loan: damaged
// books, lost cards, whatever the library charges for. A manual fine carries
// a null loan reference; the engine never fabricates a placeholder loan to
// fill it. Manual fines can also reference an existing loan, in which case
// the one-active-fine-per-loan guard applies.
package createmanualfine
