package models_test

import (
	"testing"
	"time"

	"leavedesk/database"
	"leavedesk/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func uintPtr(u uint) *uint {
	return &u
}

func createUser(t *testing.T, db *gorm.DB, username string, role models.Role, shiftID *uint) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		FullName:     username,
		PasswordHash: "x",
		Role:         role,
		ShiftID:      shiftID,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createShift(t *testing.T, db *gorm.DB, name string, inchargeID *uint) *models.Shift {
	t.Helper()
	shift := &models.Shift{Name: name, ShiftInchargeID: inchargeID}
	require.NoError(t, db.Create(shift).Error)
	return shift
}

func createLeaveType(t *testing.T, db *gorm.DB, name, key string, defaultDays int) *models.LeaveType {
	t.Helper()
	lt := &models.LeaveType{Name: name, Key: key, DefaultDays: defaultDays}
	require.NoError(t, db.Create(lt).Error)
	return lt
}

func createRequest(t *testing.T, db *gorm.DB, userID, typeID uint, from, to time.Time, status models.LeaveStatus) *models.LeaveRequest {
	t.Helper()
	req := &models.LeaveRequest{
		UserID:      userID,
		LeaveTypeID: typeID,
		FromDate:    from,
		ToDate:      to,
		TotalDays:   models.DaysInclusive(from, to),
		Status:      status,
	}
	require.NoError(t, db.Create(req).Error)
	return req
}

func createLieuOff(t *testing.T, db *gorm.DB, userID, grantedBy uint, work, expiry time.Time, status models.LieuStatus) *models.LieuOff {
	t.Helper()
	lo := &models.LieuOff{
		UserID:     userID,
		GrantedBy:  grantedBy,
		WorkDate:   work,
		ExpiryDate: expiry,
		Status:     status,
	}
	require.NoError(t, db.Create(lo).Error)
	return lo
}
