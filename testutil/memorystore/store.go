package memorystore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/libreshelf/lending-engine/lending"
)

// Store is an in-memory lending store with the same behavior as the
// Postgres engine. All operations are serialized by one mutex, which gives
// the same guarantees the database provides through conditional updates and
// row locks.
type Store struct {
	mu       sync.Mutex
	books    map[uuid.UUID]lending.Book
	students map[uuid.UUID]lending.Student
	loans    map[uuid.UUID]lending.Loan
	fines    map[uuid.UUID]lending.Fine
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		books:    make(map[uuid.UUID]lending.Book),
		students: make(map[uuid.UUID]lending.Student),
		loans:    make(map[uuid.UUID]lending.Loan),
		fines:    make(map[uuid.UUID]lending.Fine),
	}
}

// PutBook seeds a book, bypassing all guards.
func (s *Store) PutBook(book lending.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.books[book.ID] = book
}

// PutStudent seeds a student, bypassing all guards.
func (s *Store) PutStudent(student lending.Student) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.students[student.ID] = student
}

// PutLoan seeds a loan, bypassing all guards.
func (s *Store) PutLoan(loan lending.Loan) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loans[loan.ID] = loan
}

// PutFine seeds a fine, bypassing all guards.
func (s *Store) PutFine(fine lending.Fine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fines[fine.ID] = fine
}

// GetBook returns the copy counters for a book.
func (s *Store) GetBook(_ context.Context, bookID lending.BookID) (lending.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, exists := s.books[bookID]
	if !exists {
		return lending.Book{}, lending.ErrNotFound
	}

	return book, nil
}

// SaveBook inserts or updates a book's copy counters.
func (s *Store) SaveBook(_ context.Context, book lending.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.books[book.ID] = book

	return nil
}

// ReserveCopy atomically decrements a book's available copies.
func (s *Store) ReserveCopy(_ context.Context, bookID lending.BookID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.reserveCopyLocked(bookID)
}

// ReleaseCopy atomically increments a book's available copies.
func (s *Store) ReleaseCopy(_ context.Context, bookID lending.BookID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.releaseCopyLocked(bookID)
}

func (s *Store) reserveCopyLocked(bookID lending.BookID) error {
	book, exists := s.books[bookID]
	if !exists {
		return lending.ErrNotFound
	}

	if book.AvailableCopies <= 0 {
		return lending.ErrBookUnavailable
	}

	book.AvailableCopies--
	s.books[bookID] = book

	return nil
}

func (s *Store) releaseCopyLocked(bookID lending.BookID) error {
	book, exists := s.books[bookID]
	if !exists {
		return lending.ErrNotFound
	}

	if book.AvailableCopies >= book.TotalCopies {
		return lending.ErrCopyCountCorrupted
	}

	book.AvailableCopies++
	s.books[bookID] = book

	return nil
}

// GetStudent returns the account slice of a student record.
func (s *Store) GetStudent(_ context.Context, studentID lending.StudentID) (lending.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	student, exists := s.students[studentID]
	if !exists {
		return lending.Student{}, lending.ErrNotFound
	}

	return student, nil
}

// SaveStudent inserts or updates a student record.
func (s *Store) SaveStudent(_ context.Context, student lending.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.students[student.ID] = student

	return nil
}

// EligibilitySnapshot derives the student's current standing.
func (s *Store) EligibilitySnapshot(_ context.Context, studentID lending.StudentID) (lending.EligibilitySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.eligibilitySnapshotLocked(studentID)
}

func (s *Store) eligibilitySnapshotLocked(studentID lending.StudentID) (lending.EligibilitySnapshot, error) {
	student, exists := s.students[studentID]
	if !exists {
		return lending.EligibilitySnapshot{}, lending.ErrNotFound
	}

	issuedCount := 0
	for _, loan := range s.loans {
		if loan.StudentID == studentID && loan.Status == lending.LoanStatusIssued {
			issuedCount++
		}
	}

	hasUnpaidFine := false
	for _, fine := range s.fines {
		if fine.StudentID == studentID && fine.Status == lending.FineStatusUnpaid {
			hasUnpaidFine = true
			break
		}
	}

	return lending.EligibilitySnapshot{
		AccountStatus:   student.AccountStatus,
		IssuedLoanCount: issuedCount,
		HasUnpaidFine:   hasUnpaidFine,
		MaxBooks:        student.EffectiveMaxBooks(),
	}, nil
}

// InsertRequestedLoan records a new borrow request, enforcing the
// one-open-loan-per-pair guard.
func (s *Store) InsertRequestedLoan(_ context.Context, loan lending.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.loans {
		if existing.StudentID == loan.StudentID && existing.BookID == loan.BookID && existing.IsOpen() {
			return lending.ErrDuplicateRequest
		}
	}

	loan.Status = lending.LoanStatusRequested
	s.loans[loan.ID] = loan

	return nil
}

// GetLoan returns a single loan by id.
func (s *Store) GetLoan(_ context.Context, loanID lending.LoanID) (lending.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loan, exists := s.loans[loanID]
	if !exists {
		return lending.Loan{}, lending.ErrNotFound
	}

	return loan, nil
}

// RejectLoan moves a loan from requested to rejected.
func (s *Store) RejectLoan(_ context.Context, loanID lending.LoanID) (lending.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loan, exists := s.loans[loanID]
	if !exists {
		return lending.Loan{}, lending.ErrNotFound
	}

	if loan.Status != lending.LoanStatusRequested {
		return lending.Loan{}, lending.ErrInvalidState
	}

	loan.Status = lending.LoanStatusRejected
	s.loans[loanID] = loan

	return loan, nil
}

// CommitIssue performs the atomic issue transition.
func (s *Store) CommitIssue(
	_ context.Context,
	loanID lending.LoanID,
	issuedAt time.Time,
	dueAt time.Time,
) (lending.Loan, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	loan, exists := s.loans[loanID]
	if !exists {
		return lending.Loan{}, lending.ErrNotFound
	}

	if loan.Status != lending.LoanStatusRequested {
		return lending.Loan{}, lending.ErrInvalidState
	}

	snapshot, snapErr := s.eligibilitySnapshotLocked(loan.StudentID)
	if snapErr != nil {
		return lending.Loan{}, snapErr
	}

	if policyErr := lending.CheckEligibility(snapshot); policyErr != nil {
		return lending.Loan{}, policyErr
	}

	if reserveErr := s.reserveCopyLocked(loan.BookID); reserveErr != nil {
		return lending.Loan{}, reserveErr
	}

	loan.Status = lending.LoanStatusIssued
	loan.IssuedAt = &issuedAt
	loan.DueAt = &dueAt
	s.loans[loanID] = loan

	return loan, nil
}

// CommitReturn performs the atomic return transition.
func (s *Store) CommitReturn(
	_ context.Context,
	loanID lending.LoanID,
	returnedAt time.Time,
	fine *lending.Fine,
) (lending.Loan, bool, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	loan, exists := s.loans[loanID]
	if !exists {
		return lending.Loan{}, false, lending.ErrNotFound
	}

	if loan.Status != lending.LoanStatusIssued || loan.ReturnedAt != nil {
		return lending.Loan{}, false, lending.ErrInvalidState
	}

	if releaseErr := s.releaseCopyLocked(loan.BookID); releaseErr != nil {
		return lending.Loan{}, false, releaseErr
	}

	loan.Status = lending.LoanStatusReturned
	loan.ReturnedAt = &returnedAt
	s.loans[loanID] = loan

	fineCreated := false
	if fine != nil && !s.hasActiveFineForLoanLocked(fine.LoanID) {
		s.fines[fine.ID] = *fine
		fineCreated = true
	}

	return loan, fineCreated, nil
}

// ListLoans returns a page of loans matching the filter, newest requests first.
func (s *Store) ListLoans(_ context.Context, filter lending.LoanFilter) (lending.LoanPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	filter = filter.Normalize()

	matching := make([]lending.Loan, 0)
	for _, loan := range s.loans {
		if filter.Status != "" && loan.Status != filter.Status {
			continue
		}
		if filter.StudentID.Valid && loan.StudentID != filter.StudentID.UUID {
			continue
		}
		if filter.BookID.Valid && loan.BookID != filter.BookID.UUID {
			continue
		}
		matching = append(matching, loan)
	}

	sort.Slice(matching, func(i, j int) bool {
		return matching[i].RequestedAt.After(matching[j].RequestedAt)
	})

	totalRecords := len(matching)

	start := (filter.Page - 1) * filter.PageSize
	if start > totalRecords {
		start = totalRecords
	}

	end := start + filter.PageSize
	if end > totalRecords {
		end = totalRecords
	}

	return lending.LoanPage{
		Loans:      matching[start:end],
		Pagination: lending.BuildPagination(filter.Page, filter.PageSize, totalRecords),
	}, nil
}

// ListOverdueLoans returns every issued loan past due at asOf.
func (s *Store) ListOverdueLoans(_ context.Context, asOf time.Time) ([]lending.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	overdue := make([]lending.Loan, 0)
	for _, loan := range s.loans {
		if loan.IsOverdue(asOf) {
			overdue = append(overdue, loan)
		}
	}

	sort.Slice(overdue, func(i, j int) bool {
		return overdue[i].DueAt.Before(*overdue[j].DueAt)
	})

	return overdue, nil
}

// InsertFine records a new fine, enforcing the one-active-fine-per-loan guard.
func (s *Store) InsertFine(_ context.Context, fine lending.Fine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasActiveFineForLoanLocked(fine.LoanID) {
		return lending.ErrDuplicateFine
	}

	s.fines[fine.ID] = fine

	return nil
}

func (s *Store) hasActiveFineForLoanLocked(loanID uuid.NullUUID) bool {
	if !loanID.Valid {
		return false
	}

	for _, existing := range s.fines {
		if existing.LoanID.Valid && existing.LoanID.UUID == loanID.UUID && existing.IsActive() {
			return true
		}
	}

	return false
}

// GetFine returns a single fine by id.
func (s *Store) GetFine(_ context.Context, fineID lending.FineID) (lending.Fine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fine, exists := s.fines[fineID]
	if !exists {
		return lending.Fine{}, lending.ErrNotFound
	}

	return fine, nil
}

// MarkFinePaid settles an unpaid fine.
func (s *Store) MarkFinePaid(_ context.Context, fineID lending.FineID, paidAt time.Time) (lending.Fine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fine, exists := s.fines[fineID]
	if !exists {
		return lending.Fine{}, lending.ErrNotFound
	}

	if fine.Status != lending.FineStatusUnpaid {
		return lending.Fine{}, lending.ErrAlreadySettled
	}

	fine.Status = lending.FineStatusPaid
	fine.PaidDate = &paidAt
	s.fines[fineID] = fine

	return fine, nil
}

// ListFines returns every fine matching the filter, newest first.
func (s *Store) ListFines(_ context.Context, filter lending.FineFilter) ([]lending.Fine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matching := make([]lending.Fine, 0)
	for _, fine := range s.fines {
		if filter.StudentID.Valid && fine.StudentID != filter.StudentID.UUID {
			continue
		}
		if filter.Status != "" && fine.Status != filter.Status {
			continue
		}
		if filter.CreatedOn != nil {
			dayStart := filter.CreatedOn.UTC().Truncate(24 * time.Hour)
			issued := fine.IssuedDate.UTC()
			if issued.Before(dayStart) || !issued.Before(dayStart.Add(24*time.Hour)) {
				continue
			}
		}
		matching = append(matching, fine)
	}

	sort.Slice(matching, func(i, j int) bool {
		return matching[i].IssuedDate.After(matching[j].IssuedDate)
	})

	return matching, nil
}
