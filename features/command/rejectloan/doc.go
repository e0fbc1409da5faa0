// Package rejectloan implements the Reject Borrow Request use case.
//
// Rejection is the approver declining a requested loan. The loan stays in
// the ledger as a terminal record, so the audit trail shows what was asked
// for and turned down. Copy counters are untouched because a requested loan
// never held a copy.
package rejectloan
