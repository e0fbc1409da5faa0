package createmanualfine_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/libreshelf/lending-engine/features/command/createmanualfine"
	"github.com/libreshelf/lending-engine/lending"
	"github.com/libreshelf/lending-engine/testutil/memorystore"
)

func Test_CommandHandler_RecordsManualFine(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memorystore.New()
	now := time.Now()

	student := lending.Student{ID: uuid.New(), AccountStatus: lending.AccountStatusActive}
	store.PutStudent(student)

	handler := createmanualfine.NewCommandHandler(store)

	// act
	fine, err := handler.Handle(ctx, createmanualfine.BuildCommand(
		student.ID, uuid.NullUUID{}, decimal.NewFromInt(30), "lost book", now, nil))

	// assert
	assert.NoError(t, err)

	stored, getErr := store.GetFine(ctx, fine.ID)
	assert.NoError(t, getErr)
	assert.Equal(t, lending.FineStatusUnpaid, stored.Status)
	assert.False(t, stored.LoanID.Valid)
}

func Test_CommandHandler_LoanLinkedManualFine_HitsDuplicateGuard(t *testing.T) {
	// arrange - the loan already carries an active fine
	ctx := context.Background()
	store := memorystore.New()
	now := time.Now()

	student := lending.Student{ID: uuid.New(), AccountStatus: lending.AccountStatusActive}
	store.PutStudent(student)

	loanID := uuid.New()
	store.PutFine(lending.Fine{
		ID:         uuid.New(),
		LoanID:     uuid.NullUUID{UUID: loanID, Valid: true},
		StudentID:  student.ID,
		Amount:     decimal.NewFromInt(10),
		Reason:     lending.ReasonOverdueReturn,
		Status:     lending.FineStatusUnpaid,
		IssuedDate: now.Add(-24 * time.Hour),
	})

	handler := createmanualfine.NewCommandHandler(store)

	// act
	_, err := handler.Handle(ctx, createmanualfine.BuildCommand(
		student.ID, uuid.NullUUID{UUID: loanID, Valid: true}, decimal.NewFromInt(5), "extra charge", now, nil))

	// assert
	assert.ErrorIs(t, err, lending.ErrDuplicateFine)
}

func Test_CommandHandler_NotFound_ForUnknownStudent(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memorystore.New()

	handler := createmanualfine.NewCommandHandler(store)

	// act
	_, err := handler.Handle(ctx, createmanualfine.BuildCommand(
		uuid.New(), uuid.NullUUID{}, decimal.NewFromInt(5), "damaged cover", time.Now(), nil))

	// assert
	assert.ErrorIs(t, err, lending.ErrNotFound)
}

func Test_CommandHandler_RejectsInvalidAmount_BeforeStorageAccess(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memorystore.New()

	handler := createmanualfine.NewCommandHandler(store)

	// act
	_, err := handler.Handle(ctx, createmanualfine.BuildCommand(
		uuid.New(), uuid.NullUUID{}, decimal.Zero, "damaged cover", time.Now(), nil))

	// assert
	assert.ErrorIs(t, err, lending.ErrInvalidAmount)
}
