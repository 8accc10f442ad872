package handlers

import (
	"net/http"
	"time"

	"leavedesk/config"
	"leavedesk/database"
	"leavedesk/middleware"
	"leavedesk/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	config *config.Config
	log    *zap.Logger
}

func NewAuthHandler(cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		config: cfg,
		log:    log,
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var user models.User
	if err := database.GetDB().Where("username = ?", req.Username).First(&user).Error; err != nil {
		h.logAuthEvent(r, nil, req.Username, models.LoginEventFailedLogin)
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.logAuthEvent(r, &user.ID, user.Username, models.LoginEventFailedLogin)
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := middleware.GenerateToken(&user, h.config.JWTExpiration)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	now := time.Now()
	database.GetDB().Model(&user).Update("last_login_at", now)
	h.logAuthEvent(r, &user.ID, user.Username, models.LoginEventLogin)

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.config.JWTExpiration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if user := middleware.GetUserFromContext(r.Context()); user != nil {
		h.logAuthEvent(r, &user.ID, user.Username, models.LoginEventLogout)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req changePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		respondFieldErrors(w, map[string]string{"current_password": "current password is incorrect"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	if err := database.GetDB().Model(user).Updates(map[string]interface{}{
		"password_hash":        string(hashed),
		"must_change_password": false,
	}).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update password")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

func (h *AuthHandler) logAuthEvent(r *http.Request, userID *uint, username string, event models.LoginEvent) {
	entry := models.LoginLog{
		UserID:    userID,
		Username:  username,
		Event:     event,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
	}
	if err := database.GetDB().Create(&entry).Error; err != nil {
		h.log.Warn("failed to write login log",
			zap.String("username", username),
			zap.String("event", string(event)),
			zap.Error(err))
	}
}
