// Package returnloan implements the Return Loan use case.
//
// Returning closes an issued loan, releases the copy back to the pool, and
// assesses an overdue fine when the accrual policy says one is due. The
// whole transition is committed atomically by the storage layer; a fine
// skipped by the one-active-fine-per-loan guard does not fail the return.
package returnloan
