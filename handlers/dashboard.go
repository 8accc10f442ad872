package handlers

import (
	"net/http"
	"time"

	"leavedesk/config"
	"leavedesk/database"
	"leavedesk/middleware"
	"leavedesk/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	config *config.Config
	log    *zap.Logger
}

func NewDashboardHandler(cfg *config.Config, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		config: cfg,
		log:    log,
	}
}

// Dashboard composes the calculator, ledger and scoping into one view model
// shaped by the actor's role.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	db := database.GetDB()
	now := time.Now().UTC()
	day := today()

	balances, err := models.LeaveBalances(db, user.ID, now.Year())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute balances")
		return
	}

	lieuCounts, err := models.CountLieuOffs(db, user.ID, day)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to count lieu offs")
		return
	}

	var recent []models.LeaveRequest
	if err := db.Preload("LeaveType").
		Where("user_id = ?", user.ID).
		Order("created_at desc").Limit(5).
		Find(&recent).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load recent requests")
		return
	}

	data := map[string]interface{}{
		"role":            user.Role,
		"balances":        balances,
		"lieu_off_counts": lieuCounts,
		"recent_requests": recent,
	}

	if user.IsManager() {
		if err := h.addTeamData(db, user, day, data); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to load team data")
			return
		}
	}

	if user.CanManageReferenceData() {
		if err := h.addOrgData(db, day, data); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to load org data")
			return
		}
	}

	respondJSON(w, http.StatusOK, data)
}

func (h *DashboardHandler) addTeamData(db *gorm.DB, user *models.User, day time.Time, data map[string]interface{}) error {
	var pending []models.LeaveRequest
	if err := db.Model(&models.LeaveRequest{}).
		Scopes(models.LeaveRequestsVisibleTo(user)).
		Where("leave_requests.status = ?", models.LeaveStatusPending).
		Preload("User").Preload("LeaveType").
		Order("leave_requests.from_date asc").
		Find(&pending).Error; err != nil {
		return err
	}

	// Approved team leave overlapping the current month, for the calendar.
	monthStart := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)
	var calendar []models.LeaveRequest
	if err := db.Model(&models.LeaveRequest{}).
		Scopes(models.LeaveRequestsVisibleTo(user)).
		Where("leave_requests.status = ?", models.LeaveStatusApproved).
		Where("leave_requests.from_date < ? AND leave_requests.to_date >= ?", monthEnd, monthStart).
		Preload("User").Preload("LeaveType").
		Order("leave_requests.from_date asc").
		Find(&calendar).Error; err != nil {
		return err
	}

	data["pending_team_requests"] = pending
	data["team_calendar"] = calendar
	return nil
}

func (h *DashboardHandler) addOrgData(db *gorm.DB, day time.Time, data map[string]interface{}) error {
	counts := map[string]int64{}
	for _, status := range []models.LeaveStatus{
		models.LeaveStatusPending, models.LeaveStatusApproved, models.LeaveStatusRejected,
	} {
		var n int64
		if err := db.Model(&models.LeaveRequest{}).
			Where("status = ?", status).Count(&n).Error; err != nil {
			return err
		}
		counts[string(status)] = n
	}

	var onLeaveToday []models.LeaveRequest
	if err := db.Model(&models.LeaveRequest{}).
		Where("status = ? AND from_date <= ? AND to_date >= ?",
			models.LeaveStatusApproved, day, day).
		Preload("User").Preload("User.Shift").Preload("LeaveType").
		Find(&onLeaveToday).Error; err != nil {
		return err
	}

	data["request_counts"] = counts
	data["on_leave_today"] = onLeaveToday
	return nil
}
