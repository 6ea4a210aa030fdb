package http

import (
	"errors"
	"net/http"

	"github.com/knagano/go-meal-log/internal/mirror"
	"github.com/knagano/go-meal-log/internal/photo"
	"github.com/knagano/go-meal-log/internal/remote"
	"github.com/knagano/go-meal-log/internal/store"
	"github.com/knagano/go-meal-log/internal/validators"
)

var errorStatusMap = map[error]int{
	store.ErrEntryNotFound:  http.StatusNotFound,
	remote.ErrEntryNotFound: http.StatusNotFound,

	store.ErrDuplicateEntry:  http.StatusConflict,
	remote.ErrDuplicateEntry: http.StatusConflict,

	validators.ErrInvalidID:       http.StatusBadRequest,
	validators.ErrInvalidDate:     http.StatusBadRequest,
	validators.ErrInvalidTime:     http.StatusBadRequest,
	validators.ErrInvalidMealType: http.StatusBadRequest,
	mirror.ErrInvalidFormat:       http.StatusBadRequest,
	photo.ErrEncoding:             http.StatusBadRequest,

	mirror.ErrPermissionDenied: http.StatusForbidden,

	remote.ErrNotConfigured: http.StatusServiceUnavailable,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError maps err to its HTTP status and writes a plain-text response.
func writeError(w http.ResponseWriter, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		http.Error(w, http.StatusText(status), status)
		return
	}
	http.Error(w, err.Error(), status)
}
