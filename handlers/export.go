package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"leavedesk/database"
	"leavedesk/models"
)

// ExportCSV streams the month's decided leave as CSV for payroll handoff.
func (h *AdminHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	monthStr := r.URL.Query().Get("month")
	yearStr := r.URL.Query().Get("year")

	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		respondError(w, http.StatusBadRequest, "invalid month")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		respondError(w, http.StatusBadRequest, "invalid year")
		return
	}

	startDate := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	endDate := startDate.AddDate(0, 1, 0)

	var requests []models.LeaveRequest
	if err := database.GetDB().
		Preload("User").Preload("User.Shift").Preload("LeaveType").Preload("Reviewer").
		Where("status IN ?", []models.LeaveStatus{models.LeaveStatusApproved, models.LeaveStatusRejected}).
		Where("from_date >= ? AND from_date < ?", startDate, endDate).
		Order("from_date asc, user_id asc").
		Find(&requests).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to export")
		return
	}

	filename := fmt.Sprintf("leave_%d_%02d.csv", year, month)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write([]string{"Employee", "Shift", "Type", "From", "To", "Days", "Status", "Reviewer", "Remarks"})

	for _, req := range requests {
		shiftName := ""
		if req.User.Shift != nil {
			shiftName = req.User.Shift.Name
		}
		reviewerName := ""
		if req.Reviewer != nil {
			reviewerName = req.Reviewer.DisplayName()
		}
		writer.Write([]string{
			req.User.DisplayName(),
			shiftName,
			req.LeaveType.Name,
			req.FromDate.Format(dateLayout),
			req.ToDate.Format(dateLayout),
			strconv.Itoa(req.TotalDays),
			string(req.Status),
			reviewerName,
			req.Remarks,
		})
	}
}
