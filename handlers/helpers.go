package handlers

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"leavedesk/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error":   http.StatusText(status),
		"message": message,
	})
}

func respondFieldErrors(w http.ResponseWriter, fields map[string]string) {
	respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"error":   http.StatusText(http.StatusUnprocessableEntity),
		"message": "validation failed",
		"fields":  fields,
	})
}

// decodeJSON decodes and validates a request body, writing the error
// response itself. Returns false when the handler should stop.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[strings.ToLower(fe.Field())] = validationMessage(fe)
			}
			respondFieldErrors(w, fields)
		} else {
			respondError(w, http.StatusBadRequest, "invalid request body")
		}
		return false
	}
	return true
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param()
	case "email":
		return "must be a valid email address"
	default:
		return "is invalid"
	}
}

// writeDomainError maps lifecycle and ledger errors onto the HTTP error
// taxonomy: validation conflicts are 422, stale-state races are 409 with a
// user-facing message, unknown IDs are 404.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrOverlappingRequest):
		respondFieldErrors(w, map[string]string{"from_date": err.Error()})
	case errors.Is(err, models.ErrInsufficientBalance):
		respondFieldErrors(w, map[string]string{"total_days": err.Error()})
	case errors.Is(err, models.ErrLieuOffUnavailable),
		errors.Is(err, models.ErrLieuOffNotSingleDay),
		errors.Is(err, models.ErrLieuOffRequired),
		errors.Is(err, models.ErrLieuOffWrongLeaveType):
		respondFieldErrors(w, map[string]string{"lieu_off_id": err.Error()})
	case errors.Is(err, models.ErrNotPending):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondError(w, http.StatusNotFound, "not found")
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func parseIDParam(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

type pagination struct {
	Page    int
	PerPage int
}

func (p pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

func paginate(r *http.Request, perPage int) pagination {
	page := 1
	if s := r.URL.Query().Get("page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			page = n
		}
	}
	return pagination{Page: page, PerPage: perPage}
}

func respondPage(w http.ResponseWriter, p pagination, total int64, data interface{}) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"data":     data,
		"page":     p.Page,
		"per_page": p.PerPage,
		"total":    total,
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
