package runoverduesweep_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/libreshelf/lending-engine/features/command/runoverduesweep"
	"github.com/libreshelf/lending-engine/lending"
	"github.com/libreshelf/lending-engine/testutil/memorystore"
	"github.com/libreshelf/lending-engine/testutil/testdoubles"
)

func Test_Handle_LogsSweepCompletion(t *testing.T) {
	// arrange
	store := memorystore.New()
	loggerSpy := testdoubles.NewLoggerSpy()
	now := time.Now()

	issuedAt := now.Add(-20 * 24 * time.Hour)
	dueAt := issuedAt.AddDate(0, 0, lending.DefaultLoanDays)
	store.PutLoan(lending.Loan{
		ID:          uuid.New(),
		StudentID:   uuid.New(),
		BookID:      uuid.New(),
		Status:      lending.LoanStatusIssued,
		RequestedAt: issuedAt.Add(-time.Hour),
		IssuedAt:    &issuedAt,
		DueAt:       &dueAt,
	})

	handler := runoverduesweep.NewCommandHandler(store, runoverduesweep.WithLogger(loggerSpy))

	// act
	result, err := handler.Handle(context.Background(), runoverduesweep.BuildCommand(now))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	infoMessages := loggerSpy.MessagesWithLevel("info")
	assert.Len(t, infoMessages, 1)
	assert.Equal(t, "overdue sweep completed", infoMessages[0])
}

func Test_Handle_ContextualLoggerTakesPrecedence(t *testing.T) {
	// arrange
	store := memorystore.New()
	plainSpy := testdoubles.NewLoggerSpy()
	contextualSpy := testdoubles.NewLoggerSpy()

	handler := runoverduesweep.NewCommandHandler(
		store,
		runoverduesweep.WithLogger(plainSpy),
		runoverduesweep.WithContextualLogger(contextualSpy),
	)

	// act
	_, err := handler.Handle(context.Background(), runoverduesweep.BuildCommand(time.Now()))

	// assert
	assert.NoError(t, err)
	assert.Empty(t, plainSpy.Records())
	assert.Len(t, contextualSpy.MessagesWithLevel("info"), 1)
}
