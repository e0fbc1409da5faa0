// Package issueloan implements the Issue Loan use case.
//
// Issuing approves a requested loan: it checks the student's eligibility,
// reserves a copy, and stamps the lending window. The handler runs an
// advisory eligibility check first so most denials fail before opening a
// transaction; the storage layer re-derives the snapshot under a student row
// lock inside the atomic transition, so the advisory result is never trusted
// for correctness.
package issueloan
