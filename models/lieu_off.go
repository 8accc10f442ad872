package models

import (
	"time"

	"gorm.io/gorm"
)

type LieuStatus string

const (
	LieuStatusAvailable       LieuStatus = "available"
	LieuStatusPendingApproval LieuStatus = "pending_approval"
	LieuStatusUsed            LieuStatus = "used"
	LieuStatusExpired         LieuStatus = "expired"
)

// LieuOff is a compensatory day off granted for working an off-day. It is
// consumed by claiming it against a same-day lieu leave request.
type LieuOff struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	User       User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	GrantedBy  uint       `gorm:"not null" json:"granted_by"`
	Granter    User       `gorm:"foreignKey:GrantedBy" json:"granter,omitempty"`
	WorkDate   time.Time  `gorm:"not null;type:date" json:"work_date"`
	ExpiryDate time.Time  `gorm:"not null;type:date" json:"expiry_date"`
	Status     LieuStatus `gorm:"not null;size:20;index;default:available" json:"status"`
	Reason     string     `gorm:"size:255" json:"reason"`
}

// EffectiveStatus applies read-time expiry: an available lieu off past its
// expiry date reads as expired without a stored transition.
func (lo *LieuOff) EffectiveStatus(today time.Time) LieuStatus {
	if lo.Status == LieuStatusAvailable && lo.ExpiryDate.Before(today) {
		return LieuStatusExpired
	}
	return lo.Status
}

// ClaimableLieuOffs returns the lieu offs a user can still put a claim
// against, honoring read-time expiry.
func ClaimableLieuOffs(db *gorm.DB, userID uint, today time.Time) ([]LieuOff, error) {
	var offs []LieuOff
	err := db.Where("user_id = ? AND status = ? AND expiry_date >= ?",
		userID, LieuStatusAvailable, today).
		Order("expiry_date asc").
		Find(&offs).Error
	return offs, err
}

type LieuOffCounts struct {
	Available int64 `json:"available"`
	Pending   int64 `json:"pending"`
	Used      int64 `json:"used"`
	Expired   int64 `json:"expired"`
}

// CountLieuOffs tallies a user's ledger with expiry applied at read time:
// available rows past expiry count as expired alongside any rows an
// external process already flipped.
func CountLieuOffs(db *gorm.DB, userID uint, today time.Time) (LieuOffCounts, error) {
	var c LieuOffCounts
	base := func() *gorm.DB { return db.Model(&LieuOff{}).Where("user_id = ?", userID) }

	if err := base().Where("status = ? AND expiry_date >= ?", LieuStatusAvailable, today).
		Count(&c.Available).Error; err != nil {
		return c, err
	}
	if err := base().Where("status = ?", LieuStatusPendingApproval).Count(&c.Pending).Error; err != nil {
		return c, err
	}
	if err := base().Where("status = ?", LieuStatusUsed).Count(&c.Used).Error; err != nil {
		return c, err
	}
	if err := base().Where("status = ? OR (status = ? AND expiry_date < ?)",
		LieuStatusExpired, LieuStatusAvailable, today).
		Count(&c.Expired).Error; err != nil {
		return c, err
	}
	return c, nil
}
