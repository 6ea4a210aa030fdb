package http

import (
	"net/http"

	"github.com/knagano/go-meal-log/internal/logger"
)

// version reports the running application version.
func (h *Handler) version(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	appVersion := h.appInfo.GetAppVersion(r.Context())
	log.Debug().Str("version", appVersion).Msg("version requested")

	writeJSON(w, http.StatusOK, map[string]string{"version": appVersion})
}
