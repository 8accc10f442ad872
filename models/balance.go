package models

import (
	"time"

	"gorm.io/gorm"
)

type LeaveBalance struct {
	LeaveType LeaveType `json:"leave_type"`
	Used      int       `json:"used"`
	Remaining int       `json:"remaining"`
}

// LeaveBalances computes per-type balances for a calendar year. Only
// approved requests with both endpoints inside the year count; a request
// spanning a year boundary counts in neither year. Split-year requests are
// deliberately not prorated.
func LeaveBalances(db *gorm.DB, userID uint, year int) ([]LeaveBalance, error) {
	yearStart := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)

	var types []LeaveType
	if err := db.Where("key <> ?", LieuLeaveKey).Order("id asc").Find(&types).Error; err != nil {
		return nil, err
	}

	balances := make([]LeaveBalance, 0, len(types))
	for _, t := range types {
		var used int
		err := db.Model(&LeaveRequest{}).
			Select("COALESCE(SUM(total_days), 0)").
			Where("user_id = ? AND leave_type_id = ? AND status = ?", userID, t.ID, LeaveStatusApproved).
			Where("from_date >= ? AND to_date < ?", yearStart, yearEnd).
			Scan(&used).Error
		if err != nil {
			return nil, err
		}

		remaining := t.DefaultDays - used
		if remaining < 0 {
			remaining = 0
		}
		balances = append(balances, LeaveBalance{LeaveType: t, Used: used, Remaining: remaining})
	}
	return balances, nil
}

// ReservedDays sums approved and pending request days for one leave type
// with no year filter, so a pending request reserves balance the moment it
// is submitted.
func ReservedDays(db *gorm.DB, userID, leaveTypeID uint) (int, error) {
	var reserved int
	err := db.Model(&LeaveRequest{}).
		Select("COALESCE(SUM(total_days), 0)").
		Where("user_id = ? AND leave_type_id = ? AND status IN ?",
			userID, leaveTypeID, []LeaveStatus{LeaveStatusApproved, LeaveStatusPending}).
		Scan(&reserved).Error
	return reserved, err
}

// CreationBalances annotates every non-lieu leave type with the remaining
// days available to a new request (the reservation variant of the
// calculator).
func CreationBalances(db *gorm.DB, userID uint) ([]LeaveBalance, error) {
	var types []LeaveType
	if err := db.Where("key <> ?", LieuLeaveKey).Order("id asc").Find(&types).Error; err != nil {
		return nil, err
	}

	balances := make([]LeaveBalance, 0, len(types))
	for _, t := range types {
		reserved, err := ReservedDays(db, userID, t.ID)
		if err != nil {
			return nil, err
		}
		remaining := t.DefaultDays - reserved
		if remaining < 0 {
			remaining = 0
		}
		balances = append(balances, LeaveBalance{LeaveType: t, Used: reserved, Remaining: remaining})
	}
	return balances, nil
}
