package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"shareit/internal/database"
	"shareit/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps the error taxonomy onto HTTP statuses. Self-booking
// deliberately reads as not-found so item existence is not confirmed to the
// owner probing through another account.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound), errors.Is(err, service.ErrSelfBooking):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAccessDenied):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, database.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrItemUnavailable),
		errors.Is(err, service.ErrAlreadyDecided),
		errors.Is(err, service.ErrNotBooked),
		errors.Is(err, service.ErrBookingNotStarted),
		errors.Is(err, service.ErrInvalidPeriod):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
