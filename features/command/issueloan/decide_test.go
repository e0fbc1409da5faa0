package issueloan_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/libreshelf/lending-engine/features/command/issueloan"
	"github.com/libreshelf/lending-engine/lending"
)

func Test_Decide_Success_ComputesLendingWindow(t *testing.T) {
	// arrange
	now := time.Now()
	loan := givenRequestedLoan(now)
	snapshot := givenEligibleSnapshot()

	command := issueloan.BuildCommand(loan.ID, now, 14)

	// act
	decision, err := issueloan.Decide(loan, snapshot, command)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, now, decision.IssuedAt)
	assert.Equal(t, now.AddDate(0, 0, 14), decision.DueAt)
}

func Test_Decide_DefaultLoanDays_WhenNotSpecified(t *testing.T) {
	// arrange
	now := time.Now()
	loan := givenRequestedLoan(now)

	command := issueloan.BuildCommand(loan.ID, now, 0)

	// act
	decision, err := issueloan.Decide(loan, givenEligibleSnapshot(), command)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, lending.DefaultLoanDays), decision.DueAt)
}

func Test_Decide_InvalidState_WhenLoanNotRequested(t *testing.T) {
	now := time.Now()

	for _, status := range []lending.LoanStatus{
		lending.LoanStatusIssued,
		lending.LoanStatusReturned,
		lending.LoanStatusRejected,
	} {
		t.Run(string(status), func(t *testing.T) {
			// arrange
			loan := givenRequestedLoan(now)
			loan.Status = status

			command := issueloan.BuildCommand(loan.ID, now, 14)

			// act
			_, err := issueloan.Decide(loan, givenEligibleSnapshot(), command)

			// assert
			assert.ErrorIs(t, err, lending.ErrInvalidState)
		})
	}
}

func Test_Decide_DeniesInPriorityOrder(t *testing.T) {
	// arrange - every denial reason applies at once
	now := time.Now()
	loan := givenRequestedLoan(now)

	snapshot := lending.EligibilitySnapshot{
		AccountStatus:   lending.AccountStatusSuspended,
		IssuedLoanCount: 5,
		HasUnpaidFine:   true,
		MaxBooks:        2,
	}

	command := issueloan.BuildCommand(loan.ID, now, 14)

	// act
	_, err := issueloan.Decide(loan, snapshot, command)

	// assert - account status outranks fines and the limit
	assert.ErrorIs(t, err, lending.ErrAccountInactive)
}

func Test_Decide_DeniesOnUnpaidFine(t *testing.T) {
	// arrange
	now := time.Now()
	loan := givenRequestedLoan(now)

	snapshot := givenEligibleSnapshot()
	snapshot.HasUnpaidFine = true

	command := issueloan.BuildCommand(loan.ID, now, 14)

	// act
	_, err := issueloan.Decide(loan, snapshot, command)

	// assert
	assert.ErrorIs(t, err, lending.ErrUnpaidFinesPresent)
}

func givenRequestedLoan(now time.Time) lending.Loan {
	return lending.Loan{
		ID:          uuid.New(),
		StudentID:   uuid.New(),
		BookID:      uuid.New(),
		Status:      lending.LoanStatusRequested,
		RequestedAt: now.Add(-time.Hour),
	}
}

func givenEligibleSnapshot() lending.EligibilitySnapshot {
	return lending.EligibilitySnapshot{
		AccountStatus:   lending.AccountStatusActive,
		IssuedLoanCount: 0,
		HasUnpaidFine:   false,
		MaxBooks:        lending.DefaultMaxBooks,
	}
}
