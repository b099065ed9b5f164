// Package handler contains the chi HTTP handlers that translate requests and
// responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ybenamar/guestlist/internal/model"
)

// Stable error kinds in the JSON envelope.
const (
	kindAuthFailed = "auth_failed"
	kindMembership = "membership"
	kindValidation = "validation"
	kindCapacity   = "capacity"
	kindNotFound   = "not_found"
	kindConflict   = "conflict"
	kindInternal   = "internal"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, field, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: model.ErrorBody{
		Kind:    kind,
		Field:   field,
		Message: msg,
	}})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// respondError maps domain errors to HTTP status and stable kind. Validation
// failures carry the offending field; everything unexpected becomes an
// opaque 500.
func respondError(w http.ResponseWriter, err error) {
	var verr *model.ValidationError
	switch {
	case errors.Is(err, model.ErrAuthFailed):
		writeError(w, http.StatusUnauthorized, kindAuthFailed, "", err.Error())
	case errors.Is(err, model.ErrNotInGroup):
		writeError(w, http.StatusForbidden, kindMembership, "", err.Error())
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, kindValidation, verr.Field, verr.Reason)
	case errors.Is(err, model.ErrTooManyGuests):
		writeError(w, http.StatusConflict, kindCapacity, "", err.Error())
	case errors.Is(err, model.ErrCodeImmutable), errors.Is(err, model.ErrGuestProtected):
		writeError(w, http.StatusConflict, kindConflict, "", err.Error())
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, kindNotFound, "", "not found")
	default:
		writeError(w, http.StatusInternalServerError, kindInternal, "", "internal error")
	}
}

// HealthCheck handles GET /health.
func HealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
