package lending

import (
	"time"

	"github.com/google/uuid"
)

// LoanStatus is the lifecycle state of a loan.
// requested and issued are open states, returned and rejected are terminal.
type LoanStatus string

const (
	LoanStatusRequested LoanStatus = "requested"
	LoanStatusIssued    LoanStatus = "issued"
	LoanStatusReturned  LoanStatus = "returned"
	LoanStatusRejected  LoanStatus = "rejected"
)

// DefaultLoanDays is the lending period applied when an approver issues a
// loan without specifying one.
const DefaultLoanDays = 14

// Loan is one instance of a student borrowing one copy of a book.
//
// IssuedAt and DueAt are set together, exactly once, on the transition to
// issued. ReturnedAt is set exactly once, only from issued.
type Loan struct {
	ID          uuid.UUID
	StudentID   uuid.UUID
	BookID      uuid.UUID
	Status      LoanStatus
	RequestedAt time.Time
	IssuedAt    *time.Time
	DueAt       *time.Time
	ReturnedAt  *time.Time
}

// IsOpen reports whether the loan still occupies the (student, book) pair,
// blocking a second request for the same pair.
func (l Loan) IsOpen() bool {
	return l.Status == LoanStatusRequested || l.Status == LoanStatusIssued
}

// IsOverdue reports whether an issued loan is past its due date at the given
// time. Loans in any other state are never overdue.
func (l Loan) IsOverdue(asOf time.Time) bool {
	return l.Status == LoanStatusIssued && l.DueAt != nil && l.DueAt.Before(asOf)
}

// ValidStatus reports whether s is one of the known loan statuses.
func ValidStatus(s LoanStatus) bool {
	switch s {
	case LoanStatusRequested, LoanStatusIssued, LoanStatusReturned, LoanStatusRejected:
		return true
	default:
		return false
	}
}

// LoanFilter narrows a loan listing. Zero-valued fields match everything.
type LoanFilter struct {
	Status    LoanStatus
	StudentID uuid.NullUUID
	BookID    uuid.NullUUID
	Page      int
	PageSize  int
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Normalize clamps pagination to sane bounds and returns the effective filter.
func (f LoanFilter) Normalize() LoanFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}
	return f
}

// Pagination describes the position of a result page within the full result set.
type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalRecords int  `json:"totalRecords"`
	HasNext      bool `json:"hasNext"`
	HasPrev      bool `json:"hasPrev"`
}

// BuildPagination computes the pagination envelope for a page of a result set
// with the given total record count.
func BuildPagination(page, pageSize, totalRecords int) Pagination {
	totalPages := (totalRecords + pageSize - 1) / pageSize
	return Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalRecords: totalRecords,
		HasNext:      page < totalPages,
		HasPrev:      page > 1,
	}
}

// LoanPage is one page of loans plus its pagination envelope.
type LoanPage struct {
	Loans      []Loan
	Pagination Pagination
}
