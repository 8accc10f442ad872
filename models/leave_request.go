package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

var (
	ErrOverlappingRequest    = errors.New("an overlapping pending request already exists")
	ErrInsufficientBalance   = errors.New("insufficient leave balance")
	ErrNotPending            = errors.New("request has already been decided")
	ErrLieuOffUnavailable    = errors.New("lieu off is not available")
	ErrLieuOffNotSingleDay   = errors.New("lieu leave must be a single day")
	ErrLieuOffRequired       = errors.New("lieu leave requires a lieu off to claim")
	ErrLieuOffWrongLeaveType = errors.New("lieu off can only back lieu leave")
)

type LeaveRequest struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	User        User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	LeaveTypeID uint           `gorm:"not null;index" json:"leave_type_id"`
	LeaveType   LeaveType      `gorm:"foreignKey:LeaveTypeID" json:"leave_type,omitempty"`
	FromDate    time.Time      `gorm:"not null;type:date" json:"from_date"`
	ToDate      time.Time      `gorm:"not null;type:date" json:"to_date"`
	TotalDays   int            `gorm:"not null" json:"total_days"`
	Reason      string         `gorm:"size:255" json:"reason"`
	Status      LeaveStatus    `gorm:"not null;size:20;index;default:pending" json:"status"`
	ReviewedBy  *uint          `json:"reviewed_by"`
	Reviewer    *User          `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
	ReviewedAt  *time.Time     `json:"reviewed_at"`
	Remarks     string         `gorm:"size:1000" json:"remarks"`
	LieuOffID   *uint          `gorm:"index" json:"lieu_off_id"`
	LieuOff     *LieuOff       `gorm:"foreignKey:LieuOffID" json:"lieu_off,omitempty"`
}

func (lr *LeaveRequest) IsPending() bool {
	return lr.Status == LeaveStatusPending
}

// DaysInclusive counts both endpoints, so a same-day range is 1 day.
// Dates are expected at UTC midnight.
func DaysInclusive(from, to time.Time) int {
	return int(to.Sub(from)/(24*time.Hour)) + 1
}

// Overlaps is the inclusive interval intersection test.
func (lr *LeaveRequest) Overlaps(from, to time.Time) bool {
	return !from.After(lr.ToDate) && !to.Before(lr.FromDate)
}

type NewLeaveRequest struct {
	UserID      uint
	LeaveTypeID uint
	FromDate    time.Time
	ToDate      time.Time
	Reason      string
	LieuOffID   *uint
}

// SubmitLeaveRequest runs the overlap and balance checks and the insert in
// one transaction so concurrent submissions from the same user cannot
// double-book. The caller has already validated dates and field lengths.
func SubmitLeaveRequest(db *gorm.DB, in NewLeaveRequest) (*LeaveRequest, error) {
	req := &LeaveRequest{
		UserID:      in.UserID,
		LeaveTypeID: in.LeaveTypeID,
		FromDate:    in.FromDate,
		ToDate:      in.ToDate,
		TotalDays:   DaysInclusive(in.FromDate, in.ToDate),
		Reason:      in.Reason,
		Status:      LeaveStatusPending,
		LieuOffID:   in.LieuOffID,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var leaveType LeaveType
		if err := tx.First(&leaveType, in.LeaveTypeID).Error; err != nil {
			return err
		}

		var overlapping int64
		if err := tx.Model(&LeaveRequest{}).
			Where("user_id = ? AND status = ?", in.UserID, LeaveStatusPending).
			Where("from_date <= ? AND to_date >= ?", in.ToDate, in.FromDate).
			Count(&overlapping).Error; err != nil {
			return err
		}
		if overlapping > 0 {
			return ErrOverlappingRequest
		}

		if leaveType.IsLieu() {
			if in.LieuOffID == nil {
				return ErrLieuOffRequired
			}
			if !in.FromDate.Equal(in.ToDate) {
				return ErrLieuOffNotSingleDay
			}
			// Claiming takes the lieu off out of circulation while the
			// request is in flight. The conditional update also rejects
			// claims on a lieu off that expired (read-time expiry).
			res := tx.Model(&LieuOff{}).
				Where("id = ? AND user_id = ? AND status = ? AND expiry_date >= ?",
					*in.LieuOffID, in.UserID, LieuStatusAvailable, in.FromDate).
				Update("status", LieuStatusPendingApproval)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrLieuOffUnavailable
			}
		} else {
			if in.LieuOffID != nil {
				return ErrLieuOffWrongLeaveType
			}
			// Pending requests reserve balance immediately, across years.
			reserved, err := ReservedDays(tx, in.UserID, in.LeaveTypeID)
			if err != nil {
				return err
			}
			if req.TotalDays > leaveType.DefaultDays-reserved {
				return ErrInsufficientBalance
			}
		}

		return tx.Create(req).Error
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// DecideLeaveRequest flips a pending request to approved or rejected. The
// status write is a single conditional update so two concurrent reviewers
// cannot both win; the loser gets ErrNotPending. Authorization is the
// caller's job.
func DecideLeaveRequest(db *gorm.DB, req *LeaveRequest, status LeaveStatus, reviewerID uint, remarks string) error {
	if status != LeaveStatusApproved && status != LeaveStatusRejected {
		return errors.New("invalid decision status")
	}

	now := time.Now()
	return db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":      status,
			"reviewed_by": reviewerID,
			"reviewed_at": now,
		}
		if status == LeaveStatusRejected {
			updates["remarks"] = remarks
		}

		res := tx.Model(&LeaveRequest{}).
			Where("id = ? AND status = ?", req.ID, LeaveStatusPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotPending
		}

		if req.LieuOffID != nil {
			lieuStatus := LieuStatusUsed
			if status == LeaveStatusRejected {
				// A rejected claim releases the lieu off for another try.
				lieuStatus = LieuStatusAvailable
			}
			if err := tx.Model(&LieuOff{}).
				Where("id = ? AND status = ?", *req.LieuOffID, LieuStatusPendingApproval).
				Update("status", lieuStatus).Error; err != nil {
				return err
			}
		}

		req.Status = status
		req.ReviewedBy = &reviewerID
		req.ReviewedAt = &now
		if status == LeaveStatusRejected {
			req.Remarks = remarks
		}
		return nil
	})
}

// WithdrawLeaveRequest removes a still-pending request. The owner check is
// the caller's job; the pending check is part of the delete itself so a
// request decided in between is left intact.
func WithdrawLeaveRequest(db *gorm.DB, req *LeaveRequest) error {
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND status = ?", req.ID, LeaveStatusPending).
			Delete(&LeaveRequest{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotPending
		}

		if req.LieuOffID != nil {
			if err := tx.Model(&LieuOff{}).
				Where("id = ? AND status = ?", *req.LieuOffID, LieuStatusPendingApproval).
				Update("status", LieuStatusAvailable).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
