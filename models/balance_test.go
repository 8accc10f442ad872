package models_test

import (
	"testing"
	"time"

	"leavedesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaveBalances_SumsApprovedWithinYear(t *testing.T) {
	db := newTestDB(t)
	casual := createLeaveType(t, db, "Casual Leave", "casual_leave", 8)
	user := createUser(t, db, "alice", models.RoleEmployee, nil)

	createRequest(t, db, user.ID, casual.ID, date(2025, time.March, 1), date(2025, time.March, 3), models.LeaveStatusApproved)
	// Pending and rejected requests do not count toward the year view.
	createRequest(t, db, user.ID, casual.ID, date(2025, time.April, 1), date(2025, time.April, 2), models.LeaveStatusPending)
	createRequest(t, db, user.ID, casual.ID, date(2025, time.May, 1), date(2025, time.May, 4), models.LeaveStatusRejected)
	// Approved in another year does not count.
	createRequest(t, db, user.ID, casual.ID, date(2024, time.June, 1), date(2024, time.June, 2), models.LeaveStatusApproved)

	balances, err := models.LeaveBalances(db, user.ID, 2025)
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, 3, balances[0].Used)
	assert.Equal(t, 5, balances[0].Remaining)
}

func TestLeaveBalances_YearBoundarySpanCountsInNeitherYear(t *testing.T) {
	db := newTestDB(t)
	casual := createLeaveType(t, db, "Casual Leave", "casual_leave", 8)
	user := createUser(t, db, "alice", models.RoleEmployee, nil)

	createRequest(t, db, user.ID, casual.ID, date(2024, time.December, 30), date(2025, time.January, 2), models.LeaveStatusApproved)

	for _, year := range []int{2024, 2025} {
		balances, err := models.LeaveBalances(db, user.ID, year)
		require.NoError(t, err)
		require.Len(t, balances, 1)
		assert.Equal(t, 0, balances[0].Used, "year %d", year)
		assert.Equal(t, 8, balances[0].Remaining, "year %d", year)
	}
}

func TestLeaveBalances_RemainingClampedToZero(t *testing.T) {
	db := newTestDB(t)
	casual := createLeaveType(t, db, "Casual Leave", "casual_leave", 2)
	user := createUser(t, db, "alice", models.RoleEmployee, nil)

	createRequest(t, db, user.ID, casual.ID, date(2025, time.March, 1), date(2025, time.March, 5), models.LeaveStatusApproved)

	balances, err := models.LeaveBalances(db, user.ID, 2025)
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, 5, balances[0].Used)
	assert.Equal(t, 0, balances[0].Remaining)
}

func TestLeaveBalances_ExcludesLieuLeave(t *testing.T) {
	db := newTestDB(t)
	createLeaveType(t, db, "Casual Leave", "casual_leave", 8)
	createLeaveType(t, db, "Lieu Leave", models.LieuLeaveKey, 0)
	user := createUser(t, db, "alice", models.RoleEmployee, nil)

	balances, err := models.LeaveBalances(db, user.ID, 2025)
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, "casual_leave", balances[0].LeaveType.Key)
}

func TestCreationBalances_PendingReservesAcrossYears(t *testing.T) {
	db := newTestDB(t)
	casual := createLeaveType(t, db, "Casual Leave", "casual_leave", 8)
	user := createUser(t, db, "alice", models.RoleEmployee, nil)

	// A pending request reserves balance immediately, and the reservation
	// view ignores calendar years entirely.
	createRequest(t, db, user.ID, casual.ID, date(2024, time.December, 1), date(2024, time.December, 2), models.LeaveStatusApproved)
	createRequest(t, db, user.ID, casual.ID, date(2025, time.March, 1), date(2025, time.March, 3), models.LeaveStatusPending)

	balances, err := models.CreationBalances(db, user.ID)
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, 5, balances[0].Used)
	assert.Equal(t, 3, balances[0].Remaining)
}
