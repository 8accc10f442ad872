package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleEmployee   Role = "employee"
	RoleManager    Role = "manager"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleEmployee, RoleManager, RoleAdmin, RoleSuperAdmin:
		return Role(s), true
	}
	return "", false
}

type User struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
	Username           string         `gorm:"uniqueIndex;not null;size:100" json:"username"`
	FullName           string         `gorm:"not null;size:200" json:"full_name"`
	Email              string         `gorm:"size:200" json:"email"`
	PasswordHash       string         `gorm:"not null" json:"-"`
	Role               Role           `gorm:"not null;size:20" json:"role"`
	MustChangePassword bool           `gorm:"default:true" json:"must_change_password"`
	LastLoginAt        *time.Time     `json:"last_login_at"`
	ShiftID            *uint          `gorm:"index" json:"shift_id"`
	Shift              *Shift         `gorm:"foreignKey:ShiftID" json:"shift,omitempty"`
	DesignationID      *uint          `gorm:"index" json:"designation_id"`
	Designation        *Designation   `gorm:"foreignKey:DesignationID" json:"designation,omitempty"`
	LeaveRequests      []LeaveRequest `gorm:"foreignKey:UserID" json:"leave_requests,omitempty"`
}

func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

func (u *User) IsEmployee() bool {
	return u.Role == RoleEmployee
}

func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// CanReviewLeave reports whether the role may approve or reject leave
// requests at all; shift scoping for managers is checked separately.
func (u *User) CanReviewLeave() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

func (u *User) CanManageReferenceData() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}
