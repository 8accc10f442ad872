package handlers

import (
	"net/http"
	"time"

	"leavedesk/config"
	"leavedesk/database"
	"leavedesk/middleware"
	"leavedesk/models"

	"go.uber.org/zap"
)

type LieuHandler struct {
	config *config.Config
	log    *zap.Logger
}

func NewLieuHandler(cfg *config.Config, log *zap.Logger) *LieuHandler {
	return &LieuHandler{
		config: cfg,
		log:    log,
	}
}

type lieuOffView struct {
	models.LieuOff
	EffectiveStatus models.LieuStatus `json:"effective_status"`
}

func lieuViews(offs []models.LieuOff, day time.Time) []lieuOffView {
	views := make([]lieuOffView, 0, len(offs))
	for _, lo := range offs {
		views = append(views, lieuOffView{LieuOff: lo, EffectiveStatus: lo.EffectiveStatus(day)})
	}
	return views
}

// List returns the actor's own ledger with read-time expiry applied.
func (h *LieuHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var offs []models.LieuOff
	if err := database.GetDB().
		Preload("Granter").
		Where("user_id = ?", user.ID).
		Order("work_date desc").
		Find(&offs).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list lieu offs")
		return
	}

	respondJSON(w, http.StatusOK, lieuViews(offs, today()))
}

// TeamList is the reviewer view, scoped like leave requests.
func (h *LieuHandler) TeamList(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var offs []models.LieuOff
	if err := database.GetDB().
		Scopes(models.LieuOffsVisibleTo(user)).
		Preload("User").Preload("Granter").
		Order("lieu_offs.work_date desc").
		Find(&offs).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list lieu offs")
		return
	}

	respondJSON(w, http.StatusOK, lieuViews(offs, today()))
}

type grantLieuOffRequest struct {
	UserID     uint   `json:"user_id" validate:"required"`
	WorkDate   string `json:"work_date" validate:"required"`
	ExpiryDate string `json:"expiry_date"`
	Reason     string `json:"reason" validate:"max=255"`
}

func (h *LieuHandler) Grant(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	var req grantLieuOffRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	workDate, err := parseDate(req.WorkDate)
	if err != nil {
		respondFieldErrors(w, map[string]string{"work_date": "must be a valid yyyy-MM-dd date"})
		return
	}

	expiryDate := workDate.AddDate(0, 0, h.config.LieuExpiryDays)
	if req.ExpiryDate != "" {
		expiryDate, err = parseDate(req.ExpiryDate)
		if err != nil {
			respondFieldErrors(w, map[string]string{"expiry_date": "must be a valid yyyy-MM-dd date"})
			return
		}
		if expiryDate.Before(workDate) {
			respondFieldErrors(w, map[string]string{"expiry_date": "must not be before work_date"})
			return
		}
	}

	db := database.GetDB()
	var target models.User
	if err := db.First(&target, req.UserID).Error; err != nil {
		respondFieldErrors(w, map[string]string{"user_id": "unknown user"})
		return
	}

	canGrant, err := models.CanGrantLieuOffTo(db, actor, &target)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !canGrant {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	lieuOff := models.LieuOff{
		UserID:     target.ID,
		GrantedBy:  actor.ID,
		WorkDate:   workDate,
		ExpiryDate: expiryDate,
		Status:     models.LieuStatusAvailable,
		Reason:     req.Reason,
	}
	if err := db.Create(&lieuOff).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create lieu off")
		return
	}

	h.log.Info("lieu off granted",
		zap.Uint("lieu_off_id", lieuOff.ID),
		zap.Uint("user_id", target.ID),
		zap.Uint("granted_by", actor.ID))
	respondJSON(w, http.StatusCreated, lieuOff)
}
