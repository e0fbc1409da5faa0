package lending

// CheckEligibility implements the eligibility policy as a pure decision
// function over a freshly derived snapshot.
//
// Denial reasons are checked in priority order and the first match is
// terminal:
//
//	ErrAccountInactive    - account status is not active
//	ErrUnpaidFinesPresent - any unpaid fine exists for the student
//	ErrBorrowLimitReached - issued loan count has reached the borrow limit
//
// Returns nil when the student may borrow. Callers run this immediately
// before a state-changing operation and again inside the same atomic unit as
// the reservation, because the snapshot can go stale under concurrency.
func CheckEligibility(s EligibilitySnapshot) error {
	if s.AccountStatus != AccountStatusActive {
		return ErrAccountInactive
	}

	if s.HasUnpaidFine {
		return ErrUnpaidFinesPresent
	}

	maxBooks := s.MaxBooks
	if maxBooks <= 0 {
		maxBooks = DefaultMaxBooks
	}

	if s.IssuedLoanCount >= maxBooks {
		return ErrBorrowLimitReached
	}

	return nil
}
