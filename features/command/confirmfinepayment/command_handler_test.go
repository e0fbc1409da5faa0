package confirmfinepayment_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/libreshelf/lending-engine/features/command/confirmfinepayment"
	"github.com/libreshelf/lending-engine/lending"
	"github.com/libreshelf/lending-engine/testutil/memorystore"
)

func Test_CommandHandler_SettlesUnpaidFine(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memorystore.New()
	now := time.Now()

	fine := givenUnpaidFine(store, now)

	handler := confirmfinepayment.NewCommandHandler(store)

	// act
	paid, err := handler.Handle(ctx, confirmfinepayment.BuildCommand(fine.ID, now))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, lending.FineStatusPaid, paid.Status)
	assert.Equal(t, now, *paid.PaidDate)
}

func Test_CommandHandler_AlreadySettled_WhenPaidTwice(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memorystore.New()
	now := time.Now()

	fine := givenUnpaidFine(store, now)

	handler := confirmfinepayment.NewCommandHandler(store)

	_, firstErr := handler.Handle(ctx, confirmfinepayment.BuildCommand(fine.ID, now))
	assert.NoError(t, firstErr)

	// act
	_, err := handler.Handle(ctx, confirmfinepayment.BuildCommand(fine.ID, now.Add(time.Minute)))

	// assert
	assert.ErrorIs(t, err, lending.ErrAlreadySettled)
}

func Test_CommandHandler_AlreadySettled_ForWaivedFine(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memorystore.New()
	now := time.Now()

	fine := givenUnpaidFine(store, now)
	fine.Status = lending.FineStatusWaived
	store.PutFine(fine)

	handler := confirmfinepayment.NewCommandHandler(store)

	// act
	_, err := handler.Handle(ctx, confirmfinepayment.BuildCommand(fine.ID, now))

	// assert
	assert.ErrorIs(t, err, lending.ErrAlreadySettled)
}

func Test_CommandHandler_NotFound_ForUnknownFine(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memorystore.New()

	handler := confirmfinepayment.NewCommandHandler(store)

	// act
	_, err := handler.Handle(ctx, confirmfinepayment.BuildCommand(uuid.New(), time.Now()))

	// assert
	assert.ErrorIs(t, err, lending.ErrNotFound)
}

func Test_CommandHandler_ConcurrentPayments_ExactlyOneSucceeds(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memorystore.New()
	now := time.Now()

	fine := givenUnpaidFine(store, now)

	handler := confirmfinepayment.NewCommandHandler(store)

	const contenders = 4

	// act
	var wg sync.WaitGroup
	errs := make([]error, contenders)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, errs[slot] = handler.Handle(ctx, confirmfinepayment.BuildCommand(fine.ID, now))
		}(i)
	}
	wg.Wait()

	// assert
	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, lending.ErrAlreadySettled)
		}
	}
	assert.Equal(t, 1, successes)
}

func givenUnpaidFine(store *memorystore.Store, now time.Time) lending.Fine {
	fine := lending.Fine{
		ID:         uuid.New(),
		StudentID:  uuid.New(),
		Amount:     decimal.NewFromInt(10),
		Reason:     lending.ReasonOverdueReturn,
		Status:     lending.FineStatusUnpaid,
		IssuedDate: now.Add(-24 * time.Hour),
	}
	store.PutFine(fine)

	return fine
}
