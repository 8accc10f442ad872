package handlers

import (
	"net/http"

	"leavedesk/config"
	"leavedesk/database"
	"leavedesk/middleware"
	"leavedesk/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	userPageSize     = 10
	loginLogPageSize = 15
)

type UserHandler struct {
	config *config.Config
	log    *zap.Logger
}

func NewUserHandler(cfg *config.Config, log *zap.Logger) *UserHandler {
	return &UserHandler{
		config: cfg,
		log:    log,
	}
}

// List returns the role-scoped user list with an optional search over
// username, full name and email.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())
	db := database.GetDB()
	p := paginate(r, userPageSize)

	query := db.Model(&models.User{}).Scopes(models.UsersVisibleTo(actor))
	if search := r.URL.Query().Get("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("users.username LIKE ? OR users.full_name LIKE ? OR users.email LIKE ?",
			like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	var users []models.User
	if err := query.Preload("Shift").Preload("Designation").
		Order("users.username asc").
		Limit(p.PerPage).Offset(p.Offset()).
		Find(&users).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	respondPage(w, p, total, users)
}

type createUserRequest struct {
	Username      string `json:"username" validate:"required,max=100"`
	FullName      string `json:"full_name" validate:"required,max=200"`
	Email         string `json:"email" validate:"omitempty,email,max=200"`
	Password      string `json:"password" validate:"required,min=8"`
	Role          string `json:"role" validate:"required"`
	ShiftID       *uint  `json:"shift_id"`
	DesignationID *uint  `json:"designation_id"`
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	var req createUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	role, ok := models.ParseRole(req.Role)
	if !ok {
		respondFieldErrors(w, map[string]string{"role": "unknown role"})
		return
	}
	// Only a super admin may mint admins or other super admins.
	if (role == models.RoleAdmin || role == models.RoleSuperAdmin) && !actor.IsSuperAdmin() {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	db := database.GetDB()
	var count int64
	db.Model(&models.User{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		respondFieldErrors(w, map[string]string{"username": "username is already taken"})
		return
	}

	if req.ShiftID != nil {
		var shift models.Shift
		if err := db.First(&shift, *req.ShiftID).Error; err != nil {
			respondFieldErrors(w, map[string]string{"shift_id": "unknown shift"})
			return
		}
	}
	if req.DesignationID != nil {
		var d models.Designation
		if err := db.First(&d, *req.DesignationID).Error; err != nil {
			respondFieldErrors(w, map[string]string{"designation_id": "unknown designation"})
			return
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := models.User{
		Username:           req.Username,
		FullName:           req.FullName,
		Email:              req.Email,
		PasswordHash:       string(hashed),
		Role:               role,
		MustChangePassword: true,
		ShiftID:            req.ShiftID,
		DesignationID:      req.DesignationID,
	}
	if err := db.Create(&user).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	h.log.Info("user created",
		zap.Uint("user_id", user.ID),
		zap.String("role", string(role)),
		zap.Uint("created_by", actor.ID))
	respondJSON(w, http.StatusCreated, user)
}

type updateUserRequest struct {
	FullName      string `json:"full_name" validate:"required,max=200"`
	Email         string `json:"email" validate:"omitempty,email,max=200"`
	Role          string `json:"role" validate:"required"`
	ShiftID       *uint  `json:"shift_id"`
	DesignationID *uint  `json:"designation_id"`
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	var req updateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	role, parsed := models.ParseRole(req.Role)
	if !parsed {
		respondFieldErrors(w, map[string]string{"role": "unknown role"})
		return
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	// Admins cannot touch super admins or promote into admin ranks.
	if !actor.IsSuperAdmin() {
		if user.IsSuperAdmin() || user.IsAdmin() && user.ID != actor.ID {
			respondError(w, http.StatusForbidden, "forbidden")
			return
		}
		if role == models.RoleAdmin || role == models.RoleSuperAdmin {
			if !(user.ID == actor.ID && role == user.Role) {
				respondError(w, http.StatusForbidden, "forbidden")
				return
			}
		}
	}

	if req.ShiftID != nil {
		var shift models.Shift
		if err := db.First(&shift, *req.ShiftID).Error; err != nil {
			respondFieldErrors(w, map[string]string{"shift_id": "unknown shift"})
			return
		}
	}
	if req.DesignationID != nil {
		var d models.Designation
		if err := db.First(&d, *req.DesignationID).Error; err != nil {
			respondFieldErrors(w, map[string]string{"designation_id": "unknown designation"})
			return
		}
	}

	user.FullName = req.FullName
	user.Email = req.Email
	user.Role = role
	user.ShiftID = req.ShiftID
	user.DesignationID = req.DesignationID
	if err := db.Save(&user).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update user")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	// Super admins are never deletable, and nobody deletes themselves.
	if user.IsSuperAdmin() || user.ID == actor.ID {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}
	if user.IsAdmin() && !actor.IsSuperAdmin() {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	if err := db.Delete(&user).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}

	h.log.Info("user deleted", zap.Uint("user_id", user.ID), zap.Uint("deleted_by", actor.ID))
	respondJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

// LoginLogs lists the append-only authentication audit trail.
func (h *UserHandler) LoginLogs(w http.ResponseWriter, r *http.Request) {
	db := database.GetDB()
	p := paginate(r, loginLogPageSize)

	query := db.Model(&models.LoginLog{})
	if event := r.URL.Query().Get("event"); event != "" {
		query = query.Where("event = ?", event)
	}
	if search := r.URL.Query().Get("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("username LIKE ? OR ip LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list login logs")
		return
	}

	var logs []models.LoginLog
	if err := query.Preload("User").
		Order("created_at desc").
		Limit(p.PerPage).Offset(p.Offset()).
		Find(&logs).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list login logs")
		return
	}

	respondPage(w, p, total, logs)
}
