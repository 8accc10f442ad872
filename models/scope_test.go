package models_test

import (
	"testing"
	"time"

	"leavedesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// org builds one manager heading shift A, one employee per shift, plus an
// admin and a super admin.
type org struct {
	manager, empA, empB, admin, superAdmin *models.User
	shiftA, shiftB                         *models.Shift
}

func buildOrg(t *testing.T, db *gorm.DB) org {
	t.Helper()
	manager := createUser(t, db, "manager", models.RoleManager, nil)
	shiftA := createShift(t, db, "Shift A", &manager.ID)
	shiftB := createShift(t, db, "Shift B", nil)
	return org{
		manager:    manager,
		empA:       createUser(t, db, "emp-a", models.RoleEmployee, &shiftA.ID),
		empB:       createUser(t, db, "emp-b", models.RoleEmployee, &shiftB.ID),
		admin:      createUser(t, db, "admin", models.RoleAdmin, nil),
		superAdmin: createUser(t, db, "root", models.RoleSuperAdmin, nil),
		shiftA:     shiftA,
		shiftB:     shiftB,
	}
}

func visibleRequestIDs(t *testing.T, db *gorm.DB, actor *models.User) []uint {
	t.Helper()
	var requests []models.LeaveRequest
	require.NoError(t, db.Model(&models.LeaveRequest{}).
		Scopes(models.LeaveRequestsVisibleTo(actor)).
		Find(&requests).Error)
	ids := make([]uint, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestLeaveRequestsVisibleTo(t *testing.T) {
	db := newTestDB(t)
	o := buildOrg(t, db)
	casual := createLeaveType(t, db, "Casual Leave", "casual_leave", 8)

	reqA := createRequest(t, db, o.empA.ID, casual.ID, date(2025, time.March, 1), date(2025, time.March, 2), models.LeaveStatusPending)
	reqB := createRequest(t, db, o.empB.ID, casual.ID, date(2025, time.March, 3), date(2025, time.March, 4), models.LeaveStatusPending)

	// Manager sees only requests from shifts they head.
	assert.ElementsMatch(t, []uint{reqA.ID}, visibleRequestIDs(t, db, o.manager))
	// Employees see only their own.
	assert.ElementsMatch(t, []uint{reqA.ID}, visibleRequestIDs(t, db, o.empA))
	assert.ElementsMatch(t, []uint{reqB.ID}, visibleRequestIDs(t, db, o.empB))
	// Admins and super admins see everything.
	assert.ElementsMatch(t, []uint{reqA.ID, reqB.ID}, visibleRequestIDs(t, db, o.admin))
	assert.ElementsMatch(t, []uint{reqA.ID, reqB.ID}, visibleRequestIDs(t, db, o.superAdmin))
}

func TestCanReviewRequest(t *testing.T) {
	db := newTestDB(t)
	o := buildOrg(t, db)
	casual := createLeaveType(t, db, "Casual Leave", "casual_leave", 8)

	reqA := createRequest(t, db, o.empA.ID, casual.ID, date(2025, time.March, 1), date(2025, time.March, 2), models.LeaveStatusPending)
	reqA.User = *o.empA
	reqB := createRequest(t, db, o.empB.ID, casual.ID, date(2025, time.March, 3), date(2025, time.March, 4), models.LeaveStatusPending)
	reqB.User = *o.empB

	check := func(actor *models.User, req *models.LeaveRequest) bool {
		ok, err := models.CanReviewRequest(db, actor, req)
		require.NoError(t, err)
		return ok
	}

	assert.True(t, check(o.manager, reqA))
	// Out-of-shift requests are not reviewable even when addressed by ID.
	assert.False(t, check(o.manager, reqB))
	assert.False(t, check(o.empA, reqA))
	assert.True(t, check(o.admin, reqB))
	assert.True(t, check(o.superAdmin, reqB))
}

func TestUsersVisibleTo(t *testing.T) {
	db := newTestDB(t)
	o := buildOrg(t, db)
	otherAdmin := createUser(t, db, "admin2", models.RoleAdmin, nil)

	visible := func(actor *models.User) []string {
		var users []models.User
		require.NoError(t, db.Model(&models.User{}).
			Scopes(models.UsersVisibleTo(actor)).
			Find(&users).Error)
		names := make([]string, 0, len(users))
		for _, u := range users {
			names = append(names, u.Username)
		}
		return names
	}

	// Admin sees everyone except other admins, self included.
	assert.ElementsMatch(t, []string{"manager", "emp-a", "emp-b", "admin", "root"}, visible(o.admin))
	assert.NotContains(t, visible(o.admin), otherAdmin.Username)
	// Super admin is unrestricted.
	assert.ElementsMatch(t, []string{"manager", "emp-a", "emp-b", "admin", "admin2", "root"}, visible(o.superAdmin))
	// Manager sees only their shift members.
	assert.ElementsMatch(t, []string{"emp-a"}, visible(o.manager))
}

func TestCanGrantLieuOffTo(t *testing.T) {
	db := newTestDB(t)
	o := buildOrg(t, db)

	check := func(actor, target *models.User) bool {
		ok, err := models.CanGrantLieuOffTo(db, actor, target)
		require.NoError(t, err)
		return ok
	}

	assert.True(t, check(o.manager, o.empA))
	assert.False(t, check(o.manager, o.empB))
	assert.False(t, check(o.empA, o.empA))
	assert.True(t, check(o.admin, o.empB))
}
