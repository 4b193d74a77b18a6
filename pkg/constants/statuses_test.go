package constants

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "borrow-system/pkg/errors"
)

func TestNextBorrowStatus_HappyPath(t *testing.T) {
	steps := []struct {
		from  BorrowStatus
		event BorrowEvent
		to    BorrowStatus
	}{
		{BorrowPendingApproval, EventApprove, BorrowPendingDelivery},
		{BorrowPendingDelivery, EventDeliver, BorrowBorrowed},
		{BorrowBorrowed, EventReturn, BorrowReturnedPending},
		{BorrowReturnedPending, EventAssess, BorrowCompleted},
	}

	for _, step := range steps {
		next, err := NextBorrowStatus(step.from, step.event)
		require.NoError(t, err)
		assert.Equal(t, step.to, next)
	}
}

func TestNextBorrowStatus_Reject(t *testing.T) {
	next, err := NextBorrowStatus(BorrowPendingApproval, EventReject)
	require.NoError(t, err)
	assert.Equal(t, BorrowRejected, next)
}

func TestNextBorrowStatus_IllegalTransitions(t *testing.T) {
	cases := []struct {
		from  BorrowStatus
		event BorrowEvent
	}{
		{BorrowPendingApproval, EventDeliver},
		{BorrowPendingApproval, EventReturn},
		{BorrowPendingDelivery, EventApprove},
		{BorrowPendingDelivery, EventReject},
		{BorrowBorrowed, EventApprove},
		{BorrowBorrowed, EventDeliver},
		{BorrowReturnedPending, EventReturn},
		{BorrowCompleted, EventApprove},
		{BorrowCompleted, EventReturn},
		{BorrowRejected, EventApprove},
		{BorrowRejected, EventReject},
	}

	for _, c := range cases {
		_, err := NextBorrowStatus(c.from, c.event)
		assert.Truef(t, errors.Is(err, apperrors.ErrIllegalTransition),
			"expected illegal transition for %q while %q, got %v", c.event, c.from, err)
	}
}

func TestNextRepairStatus(t *testing.T) {
	next, err := NextRepairStatus(RepairPendingApproval, EventApprove)
	require.NoError(t, err)
	assert.Equal(t, RepairApproved, next)

	next, err = NextRepairStatus(RepairPendingApproval, EventReject)
	require.NoError(t, err)
	assert.Equal(t, RepairRejected, next)

	next, err = NextRepairStatus(RepairApproved, EventAssess)
	require.NoError(t, err)
	assert.Equal(t, RepairCompleted, next)

	_, err = NextRepairStatus(RepairCompleted, EventApprove)
	assert.True(t, errors.Is(err, apperrors.ErrIllegalTransition))

	_, err = NextRepairStatus(RepairRejected, EventAssess)
	assert.True(t, errors.Is(err, apperrors.ErrIllegalTransition))
}

func TestIsFinalBorrowStatus(t *testing.T) {
	assert.True(t, IsFinalBorrowStatus(BorrowCompleted))
	assert.True(t, IsFinalBorrowStatus(BorrowRejected))
	assert.False(t, IsFinalBorrowStatus(BorrowPendingApproval))
	assert.False(t, IsFinalBorrowStatus(BorrowBorrowed))
}
