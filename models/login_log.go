package models

import (
	"time"
)

type LoginEvent string

const (
	LoginEventLogin       LoginEvent = "login"
	LoginEventLogout      LoginEvent = "logout"
	LoginEventFailedLogin LoginEvent = "failed_login"
)

// LoginLog is an append-only audit row; the API exposes no update or delete
// for it.
type LoginLog struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UserID    *uint      `gorm:"index" json:"user_id"`
	User      *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Username  string     `gorm:"size:100;index" json:"username"`
	Event     LoginEvent `gorm:"not null;size:20;index" json:"event"`
	IP        string     `gorm:"size:45" json:"ip"`
	UserAgent string     `gorm:"size:500" json:"user_agent"`
}
