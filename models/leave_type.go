package models

import (
	"time"
)

// LieuLeaveKey marks the leave type backed by the lieu-off ledger instead of
// an annual allotment.
const LieuLeaveKey = "lieu_leave"

type LeaveType struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"uniqueIndex;not null;size:100" json:"name"`
	Key         string    `gorm:"uniqueIndex;not null;size:50" json:"key"`
	DefaultDays int       `gorm:"not null;default:0" json:"default_days"`
}

func (t *LeaveType) IsLieu() bool {
	return t.Key == LieuLeaveKey
}
