package lending_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/libreshelf/lending-engine/lending"
)

func Test_CheckEligibility_Allow_WhenAllPreconditionsMet(t *testing.T) {
	snapshot := lending.EligibilitySnapshot{
		AccountStatus:   lending.AccountStatusActive,
		IssuedLoanCount: 1,
		HasUnpaidFine:   false,
		MaxBooks:        2,
	}

	assert.NoError(t, lending.CheckEligibility(snapshot))
}

func Test_CheckEligibility_DenialReasons(t *testing.T) {
	testCases := []struct {
		name        string
		snapshot    lending.EligibilitySnapshot
		expectedErr error
	}{
		{
			name: "inactive account",
			snapshot: lending.EligibilitySnapshot{
				AccountStatus: lending.AccountStatusSuspended,
				MaxBooks:      2,
			},
			expectedErr: lending.ErrAccountInactive,
		},
		{
			name: "unpaid fine present",
			snapshot: lending.EligibilitySnapshot{
				AccountStatus: lending.AccountStatusActive,
				HasUnpaidFine: true,
				MaxBooks:      2,
			},
			expectedErr: lending.ErrUnpaidFinesPresent,
		},
		{
			name: "borrow limit reached",
			snapshot: lending.EligibilitySnapshot{
				AccountStatus:   lending.AccountStatusActive,
				IssuedLoanCount: 2,
				MaxBooks:        2,
			},
			expectedErr: lending.ErrBorrowLimitReached,
		},
		{
			name: "default limit of two applies when unset",
			snapshot: lending.EligibilitySnapshot{
				AccountStatus:   lending.AccountStatusActive,
				IssuedLoanCount: 2,
				MaxBooks:        0,
			},
			expectedErr: lending.ErrBorrowLimitReached,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := lending.CheckEligibility(tc.snapshot)

			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func Test_CheckEligibility_FirstDenialIsTerminal(t *testing.T) {
	// All three denial conditions hold at once - only the highest priority
	// reason must be reported.
	snapshot := lending.EligibilitySnapshot{
		AccountStatus:   lending.AccountStatusClosed,
		IssuedLoanCount: 5,
		HasUnpaidFine:   true,
		MaxBooks:        2,
	}

	err := lending.CheckEligibility(snapshot)

	assert.ErrorIs(t, err, lending.ErrAccountInactive)
	assert.NotErrorIs(t, err, lending.ErrUnpaidFinesPresent)
	assert.NotErrorIs(t, err, lending.ErrBorrowLimitReached)
}

func Test_CheckEligibility_Allow_WhenOneBelowLimit(t *testing.T) {
	snapshot := lending.EligibilitySnapshot{
		AccountStatus:   lending.AccountStatusActive,
		IssuedLoanCount: 1,
		MaxBooks:        0, // falls back to the default of 2
	}

	assert.NoError(t, lending.CheckEligibility(snapshot))
}
