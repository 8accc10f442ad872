package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"leavedesk/config"
	"leavedesk/database"
	"leavedesk/middleware"
	"leavedesk/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const leavePageSize = 10

type LeaveHandler struct {
	config *config.Config
	log    *zap.Logger
}

func NewLeaveHandler(cfg *config.Config, log *zap.Logger) *LeaveHandler {
	return &LeaveHandler{
		config: cfg,
		log:    log,
	}
}

// List returns the actor's own requests, newest first.
func (h *LeaveHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	db := database.GetDB()
	p := paginate(r, leavePageSize)

	query := db.Model(&models.LeaveRequest{}).Where("user_id = ?", user.ID)
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list requests")
		return
	}

	var requests []models.LeaveRequest
	if err := query.Preload("LeaveType").Preload("Reviewer").Preload("LieuOff").
		Order("leave_requests.from_date desc").
		Limit(p.PerPage).Offset(p.Offset()).
		Find(&requests).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list requests")
		return
	}

	respondPage(w, p, total, requests)
}

// TeamList returns the requests visible to a reviewer: headed shifts for
// managers, everything for admins. The route is role gated, so employees
// get a 403 before reaching here.
func (h *LeaveHandler) TeamList(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	db := database.GetDB()
	p := paginate(r, leavePageSize)

	query := db.Model(&models.LeaveRequest{}).Scopes(models.LeaveRequestsVisibleTo(user))
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("leave_requests.status = ?", status)
	}
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		query = query.Where("leave_requests.user_id = ?", userID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list requests")
		return
	}

	var requests []models.LeaveRequest
	if err := query.Preload("User").Preload("User.Shift").Preload("LeaveType").Preload("Reviewer").
		Order("leave_requests.from_date desc").
		Limit(p.PerPage).Offset(p.Offset()).
		Find(&requests).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list requests")
		return
	}

	respondPage(w, p, total, requests)
}

func (h *LeaveHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	db := database.GetDB()
	var req models.LeaveRequest
	if err := db.Preload("User").Preload("User.Shift").Preload("LeaveType").
		Preload("Reviewer").Preload("LieuOff").
		First(&req, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	if req.UserID != user.ID {
		canReview, err := models.CanReviewRequest(db, user, &req)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !canReview {
			respondError(w, http.StatusForbidden, "forbidden")
			return
		}
	}

	respondJSON(w, http.StatusOK, req)
}

// NewRequestView is the balance-annotated form view model: every leave type
// with the days still open to a new request, plus claimable lieu offs.
func (h *LeaveHandler) NewRequestView(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	db := database.GetDB()

	balances, err := models.CreationBalances(db, user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute balances")
		return
	}

	lieuOffs, err := models.ClaimableLieuOffs(db, user.ID, today())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load lieu offs")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"balances":  balances,
		"lieu_offs": lieuOffs,
	})
}

type createLeaveRequest struct {
	LeaveTypeID uint   `json:"leave_type_id" validate:"required"`
	FromDate    string `json:"from_date" validate:"required"`
	ToDate      string `json:"to_date" validate:"required"`
	Reason      string `json:"reason" validate:"max=255"`
	LieuOffID   *uint  `json:"lieu_off_id"`
}

func (h *LeaveHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req createLeaveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	from, err := parseDate(req.FromDate)
	if err != nil {
		respondFieldErrors(w, map[string]string{"from_date": "must be a valid yyyy-MM-dd date"})
		return
	}
	to, err := parseDate(req.ToDate)
	if err != nil {
		respondFieldErrors(w, map[string]string{"to_date": "must be a valid yyyy-MM-dd date"})
		return
	}
	if to.Before(from) {
		respondFieldErrors(w, map[string]string{"to_date": "must not be before from_date"})
		return
	}

	db := database.GetDB()

	var leaveType models.LeaveType
	if err := db.First(&leaveType, req.LeaveTypeID).Error; err != nil {
		respondFieldErrors(w, map[string]string{"leave_type_id": "unknown leave type"})
		return
	}

	created, err := models.SubmitLeaveRequest(db, models.NewLeaveRequest{
		UserID:      user.ID,
		LeaveTypeID: req.LeaveTypeID,
		FromDate:    from,
		ToDate:      to,
		Reason:      req.Reason,
		LieuOffID:   req.LieuOffID,
	})
	if err != nil {
		if errors.Is(err, models.ErrInsufficientBalance) {
			// Tell the submitter how much is actually left.
			reserved, rerr := models.ReservedDays(db, user.ID, leaveType.ID)
			if rerr == nil {
				remaining := leaveType.DefaultDays - reserved
				if remaining < 0 {
					remaining = 0
				}
				respondFieldErrors(w, map[string]string{
					"total_days": fmt.Sprintf("insufficient leave balance: %d day(s) remaining", remaining),
				})
				return
			}
		}
		writeDomainError(w, err)
		return
	}

	h.log.Info("leave request created",
		zap.Uint("request_id", created.ID),
		zap.Uint("user_id", user.ID),
		zap.Int("total_days", created.TotalDays))
	respondJSON(w, http.StatusCreated, created)
}

func (h *LeaveHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	db := database.GetDB()
	var req models.LeaveRequest
	if err := db.First(&req, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	// Only the owner may withdraw, and only while still pending.
	if req.UserID != user.ID || !req.IsPending() {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	if err := models.WithdrawLeaveRequest(db, &req); err != nil {
		if errors.Is(err, models.ErrNotPending) {
			respondError(w, http.StatusForbidden, "forbidden")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete request")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "request deleted"})
}

func (h *LeaveHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, models.LeaveStatusApproved, "")
}

type rejectRequest struct {
	Remarks string `json:"remarks" validate:"required,max=1000"`
}

func (h *LeaveHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.decide(w, r, models.LeaveStatusRejected, req.Remarks)
}

func (h *LeaveHandler) decide(w http.ResponseWriter, r *http.Request, status models.LeaveStatus, remarks string) {
	user := middleware.GetUserFromContext(r.Context())
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	db := database.GetDB()
	var req models.LeaveRequest
	if err := db.Preload("User").First(&req, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	canReview, err := models.CanReviewRequest(db, user, &req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !canReview {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	if err := models.DecideLeaveRequest(db, &req, status, user.ID, remarks); err != nil {
		if errors.Is(err, models.ErrNotPending) {
			// Expected race with another reviewer, not a hard failure.
			// Re-read so the message names the decision that won.
			current := req.Status
			var fresh models.LeaveRequest
			if db.Select("status").First(&fresh, req.ID).Error == nil {
				current = fresh.Status
			}
			respondError(w, http.StatusConflict,
				fmt.Sprintf("request is already %s", current))
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to update request")
		return
	}

	h.log.Info("leave request decided",
		zap.Uint("request_id", req.ID),
		zap.String("status", string(status)),
		zap.Uint("reviewed_by", user.ID))
	respondJSON(w, http.StatusOK, req)
}
