package items

import (
	"errors"
	"net/http"
)

// Domain errors for found-item operations.
var (
	ErrNotFound        = errors.New("found item not found")
	ErrDuplicate       = errors.New("found item already exists")
	ErrInvalidItem     = errors.New("invalid found item")
	ErrInvalidManifest = errors.New("invalid ingest manifest")
)

// MapHTTPStatus maps found-item domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidItem) || errors.Is(err, ErrInvalidManifest) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
