package models

import (
	"time"
)

type Shift struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Name            string    `gorm:"uniqueIndex;not null;size:100" json:"name"`
	ShiftInchargeID *uint     `gorm:"index" json:"shift_incharge_id"`
	ShiftIncharge   *User     `gorm:"foreignKey:ShiftInchargeID" json:"shift_incharge,omitempty"`
	Users           []User    `gorm:"foreignKey:ShiftID" json:"users,omitempty"`
}
