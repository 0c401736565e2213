package enriched

import (
	"errors"
	"net/http"
)

// Domain errors for enrichment record operations.
var (
	ErrNotFound  = errors.New("enriched item not found")
	ErrDuplicate = errors.New("enriched item already exists")
	ErrInvalid   = errors.New("invalid enriched item")
)

// MapHTTPStatus maps enrichment record errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalid) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
