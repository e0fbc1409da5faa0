package runoverduesweep_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/libreshelf/lending-engine/features/command/runoverduesweep"
	"github.com/libreshelf/lending-engine/lending"
	"github.com/libreshelf/lending-engine/testutil/memorystore"
)

func Test_CommandHandler_FinesOverdueLoans(t *testing.T) {
	// arrange - one loan 20 days out, one 5 days out, one returned
	ctx := context.Background()
	store := memorystore.New()
	now := time.Now()

	lateLoan := givenIssuedLoan(store, now.Add(-20*24*time.Hour))
	givenIssuedLoan(store, now.Add(-5*24*time.Hour))
	givenReturnedLoan(store, now.Add(-30*24*time.Hour), now.Add(-10*24*time.Hour))

	handler := runoverduesweep.NewCommandHandler(store)

	// act
	result, err := handler.Handle(ctx, runoverduesweep.BuildCommand(now))

	// assert - only the late, still-out loan gets fined
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Scanned)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 0, result.Failed)

	fines, _ := store.ListFines(ctx, lending.FineFilter{
		StudentID: uuid.NullUUID{UUID: lateLoan.StudentID, Valid: true},
	})
	assert.Len(t, fines, 1)
	assert.True(t, fines[0].Amount.Equal(decimal.NewFromInt(10)), "20 days out, 15 free, 2 per day")
	assert.Equal(t, lateLoan.ID, fines[0].LoanID.UUID)
	assert.Equal(t, now, fines[0].IssuedDate)
	assert.NotNil(t, fines[0].DueDate)
	assert.Equal(t, now, *fines[0].DueDate)
}

func Test_CommandHandler_SecondRunIsIdempotent(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memorystore.New()
	now := time.Now()

	lateLoan := givenIssuedLoan(store, now.Add(-20*24*time.Hour))

	handler := runoverduesweep.NewCommandHandler(store)

	first, firstErr := handler.Handle(ctx, runoverduesweep.BuildCommand(now))
	assert.NoError(t, firstErr)
	assert.Equal(t, 1, first.Created)

	// act - same day, second run
	second, err := handler.Handle(ctx, runoverduesweep.BuildCommand(now.Add(time.Hour)))

	// assert - the duplicate guard skips the already-fined loan
	assert.NoError(t, err)
	assert.Equal(t, 1, second.Scanned)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Skipped)

	fines, _ := store.ListFines(ctx, lending.FineFilter{
		StudentID: uuid.NullUUID{UUID: lateLoan.StudentID, Valid: true},
	})
	assert.Len(t, fines, 1)
}

func Test_CommandHandler_SkipsOverdueLoanStillInFreeDays(t *testing.T) {
	// arrange - due after 14 days, 16 elapsed: past due, but only 1 day past
	// the 15 free days would accrue from day 16 on; at exactly day 15 the
	// amount is still zero
	ctx := context.Background()
	store := memorystore.New()
	now := time.Now()

	givenIssuedLoan(store, now.Add(-15*24*time.Hour))

	handler := runoverduesweep.NewCommandHandler(store)

	// act
	result, err := handler.Handle(ctx, runoverduesweep.BuildCommand(now))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Scanned)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Skipped)
}

func Test_CommandHandler_EmptyLedger(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memorystore.New()

	handler := runoverduesweep.NewCommandHandler(store)

	// act
	result, err := handler.Handle(ctx, runoverduesweep.BuildCommand(time.Now()))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, runoverduesweep.Result{}, result)
}

func givenIssuedLoan(store *memorystore.Store, issuedAt time.Time) lending.Loan {
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

	return loan
}

func givenReturnedLoan(store *memorystore.Store, issuedAt, returnedAt time.Time) lending.Loan {
	loan := givenIssuedLoan(store, issuedAt)
	loan.Status = lending.LoanStatusReturned
	loan.ReturnedAt = &returnedAt
	store.PutLoan(loan)

	return loan
}
