package handlers

import (
	"net/http"

	"leavedesk/config"
	"leavedesk/database"
	"leavedesk/models"

	"go.uber.org/zap"
)

// AdminHandler owns the reference-data CRUD: leave types, shifts and
// designations. All routes are gated to admin and super admin.
type AdminHandler struct {
	config *config.Config
	log    *zap.Logger
}

func NewAdminHandler(cfg *config.Config, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		config: cfg,
		log:    log,
	}
}

// --- Leave types ---

func (h *AdminHandler) ListLeaveTypes(w http.ResponseWriter, r *http.Request) {
	var types []models.LeaveType
	if err := database.GetDB().Order("id asc").Find(&types).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list leave types")
		return
	}
	respondJSON(w, http.StatusOK, types)
}

type leaveTypeRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Key         string `json:"key" validate:"required,max=50"`
	DefaultDays int    `json:"default_days" validate:"min=0"`
}

func (h *AdminHandler) CreateLeaveType(w http.ResponseWriter, r *http.Request) {
	var req leaveTypeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	db := database.GetDB()
	var count int64
	db.Model(&models.LeaveType{}).Where("name = ? OR key = ?", req.Name, req.Key).Count(&count)
	if count > 0 {
		respondFieldErrors(w, map[string]string{"name": "a leave type with this name or key already exists"})
		return
	}

	lt := models.LeaveType{Name: req.Name, Key: req.Key, DefaultDays: req.DefaultDays}
	if err := db.Create(&lt).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create leave type")
		return
	}
	respondJSON(w, http.StatusCreated, lt)
}

func (h *AdminHandler) UpdateLeaveType(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	var req leaveTypeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	db := database.GetDB()
	var lt models.LeaveType
	if err := db.First(&lt, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	var count int64
	db.Model(&models.LeaveType{}).
		Where("(name = ? OR key = ?) AND id <> ?", req.Name, req.Key, id).
		Count(&count)
	if count > 0 {
		respondFieldErrors(w, map[string]string{"name": "a leave type with this name or key already exists"})
		return
	}

	lt.Name = req.Name
	lt.Key = req.Key
	lt.DefaultDays = req.DefaultDays
	if err := db.Save(&lt).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update leave type")
		return
	}
	respondJSON(w, http.StatusOK, lt)
}

func (h *AdminHandler) DeleteLeaveType(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	db := database.GetDB()
	var lt models.LeaveType
	if err := db.First(&lt, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	var inUse int64
	db.Model(&models.LeaveRequest{}).Where("leave_type_id = ?", id).Count(&inUse)
	if inUse > 0 {
		respondError(w, http.StatusConflict, "leave type has requests and cannot be deleted")
		return
	}

	if err := db.Delete(&lt).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete leave type")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "leave type deleted"})
}

// --- Shifts ---

func (h *AdminHandler) ListShifts(w http.ResponseWriter, r *http.Request) {
	var shifts []models.Shift
	if err := database.GetDB().Preload("ShiftIncharge").Order("id asc").Find(&shifts).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list shifts")
		return
	}
	respondJSON(w, http.StatusOK, shifts)
}

type shiftRequest struct {
	Name            string `json:"name" validate:"required,max=100"`
	ShiftInchargeID *uint  `json:"shift_incharge_id"`
}

func (h *AdminHandler) validShiftIncharge(w http.ResponseWriter, inchargeID *uint) bool {
	if inchargeID == nil {
		return true
	}
	var incharge models.User
	if err := database.GetDB().First(&incharge, *inchargeID).Error; err != nil {
		respondFieldErrors(w, map[string]string{"shift_incharge_id": "unknown user"})
		return false
	}
	if !incharge.IsManager() {
		respondFieldErrors(w, map[string]string{"shift_incharge_id": "shift incharge must hold the manager role"})
		return false
	}
	return true
}

func (h *AdminHandler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req shiftRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	db := database.GetDB()
	var count int64
	db.Model(&models.Shift{}).Where("name = ?", req.Name).Count(&count)
	if count > 0 {
		respondFieldErrors(w, map[string]string{"name": "a shift with this name already exists"})
		return
	}

	if !h.validShiftIncharge(w, req.ShiftInchargeID) {
		return
	}

	shift := models.Shift{Name: req.Name, ShiftInchargeID: req.ShiftInchargeID}
	if err := db.Create(&shift).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create shift")
		return
	}
	respondJSON(w, http.StatusCreated, shift)
}

func (h *AdminHandler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	var req shiftRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	db := database.GetDB()
	var shift models.Shift
	if err := db.First(&shift, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	var count int64
	db.Model(&models.Shift{}).Where("name = ? AND id <> ?", req.Name, id).Count(&count)
	if count > 0 {
		respondFieldErrors(w, map[string]string{"name": "a shift with this name already exists"})
		return
	}

	if !h.validShiftIncharge(w, req.ShiftInchargeID) {
		return
	}

	shift.Name = req.Name
	shift.ShiftInchargeID = req.ShiftInchargeID
	if err := db.Save(&shift).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update shift")
		return
	}
	respondJSON(w, http.StatusOK, shift)
}

func (h *AdminHandler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	db := database.GetDB()
	var shift models.Shift
	if err := db.First(&shift, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	var members int64
	db.Model(&models.User{}).Where("shift_id = ?", id).Count(&members)
	if members > 0 {
		respondError(w, http.StatusConflict, "shift still has members and cannot be deleted")
		return
	}

	if err := db.Delete(&shift).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete shift")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "shift deleted"})
}

// --- Designations ---

func (h *AdminHandler) ListDesignations(w http.ResponseWriter, r *http.Request) {
	var designations []models.Designation
	if err := database.GetDB().Preload("Parent").Order("id asc").Find(&designations).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list designations")
		return
	}
	respondJSON(w, http.StatusOK, designations)
}

type designationRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	ParentID *uint  `json:"parent_id"`
}

func (h *AdminHandler) CreateDesignation(w http.ResponseWriter, r *http.Request) {
	var req designationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	db := database.GetDB()
	var count int64
	db.Model(&models.Designation{}).Where("name = ?", req.Name).Count(&count)
	if count > 0 {
		respondFieldErrors(w, map[string]string{"name": "a designation with this name already exists"})
		return
	}

	if req.ParentID != nil {
		var parent models.Designation
		if err := db.First(&parent, *req.ParentID).Error; err != nil {
			respondFieldErrors(w, map[string]string{"parent_id": "unknown designation"})
			return
		}
	}

	d := models.Designation{Name: req.Name, ParentID: req.ParentID}
	if err := db.Create(&d).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create designation")
		return
	}
	respondJSON(w, http.StatusCreated, d)
}

func (h *AdminHandler) UpdateDesignation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	var req designationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	db := database.GetDB()
	var d models.Designation
	if err := db.First(&d, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	var count int64
	db.Model(&models.Designation{}).Where("name = ? AND id <> ?", req.Name, id).Count(&count)
	if count > 0 {
		respondFieldErrors(w, map[string]string{"name": "a designation with this name already exists"})
		return
	}

	if req.ParentID != nil {
		if *req.ParentID == id {
			respondFieldErrors(w, map[string]string{"parent_id": "designation cannot be its own parent"})
			return
		}
		var parent models.Designation
		if err := db.First(&parent, *req.ParentID).Error; err != nil {
			respondFieldErrors(w, map[string]string{"parent_id": "unknown designation"})
			return
		}
	}

	d.Name = req.Name
	d.ParentID = req.ParentID
	if err := db.Save(&d).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update designation")
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func (h *AdminHandler) DeleteDesignation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	db := database.GetDB()
	var d models.Designation
	if err := db.First(&d, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	var children int64
	db.Model(&models.Designation{}).Where("parent_id = ?", id).Count(&children)
	if children > 0 {
		respondError(w, http.StatusConflict, "designation has children and cannot be deleted")
		return
	}

	var holders int64
	db.Model(&models.User{}).Where("designation_id = ?", id).Count(&holders)
	if holders > 0 {
		respondError(w, http.StatusConflict, "designation is assigned to users and cannot be deleted")
		return
	}

	if err := db.Delete(&d).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete designation")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "designation deleted"})
}
