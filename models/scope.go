package models

import (
	"gorm.io/gorm"
)

// Visibility is role-based and identical for list endpoints and action
// authorization: a manager cannot approve by direct ID a request the team
// list would hide.

func headedShiftsSubquery(tx *gorm.DB, managerID uint) *gorm.DB {
	return tx.Session(&gorm.Session{NewDB: true}).
		Model(&Shift{}).
		Select("id").
		Where("shift_incharge_id = ?", managerID)
}

// LeaveRequestsVisibleTo scopes a leave request query to what the actor may
// see: employees their own rows, managers their headed shifts, admins and
// super admins everything.
func LeaveRequestsVisibleTo(actor *User) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		switch actor.Role {
		case RoleAdmin, RoleSuperAdmin:
			return tx
		case RoleManager:
			return tx.Joins("JOIN users ON users.id = leave_requests.user_id").
				Where("users.shift_id IN (?)", headedShiftsSubquery(tx, actor.ID))
		default:
			return tx.Where("leave_requests.user_id = ?", actor.ID)
		}
	}
}

// LieuOffsVisibleTo mirrors LeaveRequestsVisibleTo for the lieu ledger.
func LieuOffsVisibleTo(actor *User) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		switch actor.Role {
		case RoleAdmin, RoleSuperAdmin:
			return tx
		case RoleManager:
			return tx.Joins("JOIN users ON users.id = lieu_offs.user_id").
				Where("users.shift_id IN (?)", headedShiftsSubquery(tx, actor.ID))
		default:
			return tx.Where("lieu_offs.user_id = ?", actor.ID)
		}
	}
}

// UsersVisibleTo scopes the user list: admins see everyone but other
// admins, managers their own shift members, super admins everyone.
// Employees never reach this (the route is role gated).
func UsersVisibleTo(actor *User) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		switch actor.Role {
		case RoleSuperAdmin:
			return tx
		case RoleAdmin:
			return tx.Where("users.role <> ? OR users.id = ?", RoleAdmin, actor.ID)
		case RoleManager:
			return tx.Where("users.shift_id IN (?)", headedShiftsSubquery(tx, actor.ID))
		default:
			return tx.Where("users.id = ?", actor.ID)
		}
	}
}

// CanReviewRequest reports whether the actor may decide this request.
// The request's owner must be loaded.
func CanReviewRequest(db *gorm.DB, actor *User, req *LeaveRequest) (bool, error) {
	switch actor.Role {
	case RoleAdmin, RoleSuperAdmin:
		return true, nil
	case RoleManager:
		if req.User.ShiftID == nil {
			return false, nil
		}
		var n int64
		err := db.Model(&Shift{}).
			Where("id = ? AND shift_incharge_id = ?", *req.User.ShiftID, actor.ID).
			Count(&n).Error
		return n > 0, err
	default:
		return false, nil
	}
}

// CanGrantLieuOffTo reports whether the actor may grant a lieu off to the
// target user: admins to anyone, managers only to their shift members.
func CanGrantLieuOffTo(db *gorm.DB, actor *User, target *User) (bool, error) {
	switch actor.Role {
	case RoleAdmin, RoleSuperAdmin:
		return true, nil
	case RoleManager:
		if target.ShiftID == nil {
			return false, nil
		}
		var n int64
		err := db.Model(&Shift{}).
			Where("id = ? AND shift_incharge_id = ?", *target.ShiftID, actor.ID).
			Count(&n).Error
		return n > 0, err
	default:
		return false, nil
	}
}
