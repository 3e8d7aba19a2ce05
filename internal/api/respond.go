package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"carshow/internal/booking"
	apperrors "carshow/internal/errors"
	"carshow/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps engine errors to their HTTP status and renders a JSON
// error body.
func writeError(w http.ResponseWriter, err error) {
	var httpErr *apperrors.HTTPError
	status := 0
	switch {
	case errors.As(err, &httpErr):
		status = httpErr.Code
	case errors.Is(err, booking.ErrPaymentNotAllowed), errors.Is(err, booking.ErrAlreadyCompleted):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	default:
		status = apperrors.StatusFor(err)
	}
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}
