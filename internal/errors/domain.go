package errors

import (
	"errors"
	"net/http"
)

// Engine error taxonomy. All of these are recoverable by the caller,
// surfaced synchronously, and leave no partial state behind.
var (
	ErrInvalidWindow    = errors.New("invalid reservation window")
	ErrPastBooking      = errors.New("reservation start is in the past")
	ErrNoUnitsAvailable = errors.New("no units available for the requested window")
	ErrAmountMismatch   = errors.New("payment amount does not match the required amount")
	ErrNotFound         = errors.New("not found")
)

// StatusFor maps an engine error to the HTTP status the API surfaces.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNoUnitsAvailable):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidWindow), errors.Is(err, ErrPastBooking):
		return http.StatusBadRequest
	case errors.Is(err, ErrAmountMismatch):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
