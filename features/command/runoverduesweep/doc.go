// Package runoverduesweep implements the Run Overdue Sweep use case.
//
// The sweep assesses fines for issued loans that are past due and still out.
// It is idempotent: each loan can carry at most one active fine, so a loan
// fined by a previous sweep is skipped by the duplicate guard. A failure on
// one loan never aborts the sweep; the loan is reported and the sweep moves
// on, to be retried by the next run.
package runoverduesweep
