package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"linkup_server/services"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrDuplicateMatch):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrRequestAlreadyActive):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrRequestNotPending):
		writeError(w, http.StatusConflict, "this request is no longer available")
	case errors.Is(err, services.ErrRequestExpired):
		writeError(w, http.StatusGone, "this request is no longer available")
	case errors.Is(err, services.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrStorageNotConfigured):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
