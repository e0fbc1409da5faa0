// Package submitborrowrequest implements the Submit Borrow Request use case.
//
// A borrow request records a student's intent to borrow one copy of a book.
// It does not touch copy counters and does not check eligibility: the request
// queue accepts everything, and an approver decides later. The only guard is
// that a (student, book) pair may have at most one open loan at a time.
package submitborrowrequest
