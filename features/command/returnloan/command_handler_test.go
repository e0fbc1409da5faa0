package returnloan_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/libreshelf/lending-engine/features/command/returnloan"
	"github.com/libreshelf/lending-engine/lending"
	"github.com/libreshelf/lending-engine/testutil/memorystore"
)

func Test_CommandHandler_ReturnsLoanAndReleasesCopy(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memorystore.New()
	now := time.Now()

	loan := givenIssuedLoanInStore(store, now.Add(-5*24*time.Hour))

	handler := returnloan.NewCommandHandler(store)

	// act
	result, err := handler.Handle(ctx, returnloan.BuildCommand(loan.ID, now))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, lending.LoanStatusReturned, result.Loan.Status)
	assert.Equal(t, now, *result.Loan.ReturnedAt)
	assert.Nil(t, result.Fine)

	book, _ := store.GetBook(ctx, loan.BookID)
	assert.Equal(t, 1, book.AvailableCopies)
}

func Test_CommandHandler_RecordsFine_WhenReturnedLate(t *testing.T) {
	// arrange - 20 elapsed days with default policy means a fine of 10
	ctx := context.Background()
	store := memorystore.New()
	now := time.Now()

	loan := givenIssuedLoanInStore(store, now.Add(-20*24*time.Hour))

	handler := returnloan.NewCommandHandler(store)

	// act
	result, err := handler.Handle(ctx, returnloan.BuildCommand(loan.ID, now))

	// assert
	assert.NoError(t, err)
	assert.NotNil(t, result.Fine)
	assert.True(t, result.Fine.Amount.Equal(decimal.NewFromInt(10)))

	stored, getErr := store.GetFine(ctx, result.Fine.ID)
	assert.NoError(t, getErr)
	assert.Equal(t, lending.FineStatusUnpaid, stored.Status)
}

func Test_CommandHandler_ReturnSucceeds_WhenSweepAlreadyFinedTheLoan(t *testing.T) {
	// arrange - the sweep fined this loan yesterday; the return must still
	// commit and must not create a second fine
	ctx := context.Background()
	store := memorystore.New()
	now := time.Now()

	loan := givenIssuedLoanInStore(store, now.Add(-20*24*time.Hour))

	store.PutFine(lending.Fine{
		ID:         uuid.New(),
		LoanID:     uuid.NullUUID{UUID: loan.ID, Valid: true},
		StudentID:  loan.StudentID,
		Amount:     decimal.NewFromInt(8),
		Reason:     lending.ReasonOverdueReturn,
		Status:     lending.FineStatusUnpaid,
		IssuedDate: now.Add(-24 * time.Hour),
	})

	handler := returnloan.NewCommandHandler(store)

	// act
	result, err := handler.Handle(ctx, returnloan.BuildCommand(loan.ID, now))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, lending.LoanStatusReturned, result.Loan.Status)
	assert.Nil(t, result.Fine)

	fines, _ := store.ListFines(ctx, lending.FineFilter{
		StudentID: uuid.NullUUID{UUID: loan.StudentID, Valid: true},
	})
	assert.Len(t, fines, 1)
}

func Test_CommandHandler_InvalidState_WhenReturnedTwice(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memorystore.New()
	now := time.Now()

	loan := givenIssuedLoanInStore(store, now.Add(-5*24*time.Hour))

	handler := returnloan.NewCommandHandler(store)

	_, firstErr := handler.Handle(ctx, returnloan.BuildCommand(loan.ID, now))
	assert.NoError(t, firstErr)

	// act
	_, err := handler.Handle(ctx, returnloan.BuildCommand(loan.ID, now.Add(time.Minute)))

	// assert - the copy counter must not be incremented twice
	assert.ErrorIs(t, err, lending.ErrInvalidState)

	book, _ := store.GetBook(ctx, loan.BookID)
	assert.Equal(t, 1, book.AvailableCopies)
}

func Test_CommandHandler_CustomFinePolicy(t *testing.T) {
	// arrange - no free days, 1.50 per day, 4 elapsed days: fine of 6
	ctx := context.Background()
	store := memorystore.New()
	now := time.Now()

	loan := givenIssuedLoanInStore(store, now.Add(-4*24*time.Hour))

	policy := lending.FinePolicy{
		FreeDays:   0,
		RatePerDay: decimal.RequireFromString("1.50"),
	}
	handler := returnloan.NewCommandHandler(store, returnloan.WithFinePolicy(policy))

	// act
	result, err := handler.Handle(ctx, returnloan.BuildCommand(loan.ID, now))

	// assert
	assert.NoError(t, err)
	assert.NotNil(t, result.Fine)
	assert.True(t, result.Fine.Amount.Equal(decimal.RequireFromString("6")))
}

func givenIssuedLoanInStore(store *memorystore.Store, issuedAt time.Time) lending.Loan {
	dueAt := issuedAt.AddDate(0, 0, lending.DefaultLoanDays)

	loan := lending.Loan{
		ID:          uuid.New(),
		StudentID:   uuid.New(),
		BookID:      uuid.New(),
		Status:      lending.LoanStatusIssued,
		RequestedAt: issuedAt.Add(-time.Hour),
		IssuedAt:    &issuedAt,
		DueAt:       &dueAt,
	}
	store.PutLoan(loan)

	store.PutStudent(lending.Student{
		ID:            loan.StudentID,
		AccountStatus: lending.AccountStatusActive,
		MaxBooks:      lending.DefaultMaxBooks,
	})

	store.PutBook(lending.Book{
		ID:              loan.BookID,
		TotalCopies:     1,
		AvailableCopies: 0,
	})

	return loan
}
