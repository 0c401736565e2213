package claims

import (
	"errors"
	"net/http"
)

// Domain errors for claim operations.
var (
	ErrNotFound          = errors.New("claim not found")
	ErrDuplicate         = errors.New("claim already exists")
	ErrInvalidClaim      = errors.New("invalid claim")
	ErrInvalidCategory   = errors.New("category not in vocabulary")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// MapHTTPStatus maps claim domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidTransition) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidClaim) || errors.Is(err, ErrInvalidCategory) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
