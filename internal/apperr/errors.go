// Package apperr holds the error kinds every layer wraps its failures with.
// The HTTP layer maps them to status codes with errors.Is.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("already exists")
	ErrPaymentFailed  = errors.New("payment failed")
	ErrInternal       = errors.New("internal error")
)

// StatusCode returns the HTTP status for err. Unknown errors are 500.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
