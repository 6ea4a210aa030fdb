// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keisuke Nagano

package http

import (
	"encoding/json"
	"net/http"

	"github.com/knagano/go-meal-log/internal/logger"
	"github.com/knagano/go-meal-log/internal/mirror"
	"github.com/knagano/go-meal-log/models"
)

// importEntries accepts an export envelope (or any JSON object with a
// top-level "entries" array) and upserts its entries into the local store.
func (h *Handler) importEntries(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var envelope struct {
		Entries *[]models.SerializedEntry `json:"entries"`
	}
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		log.Err(err).Str("func", "*Handler.importEntries").Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}
	if envelope.Entries == nil {
		log.Err(mirror.ErrInvalidFormat).Str("func", "*Handler.importEntries").Msg("missing entries array")
		writeError(w, mirror.ErrInvalidFormat)
		return
	}

	count, err := h.entries.Import(r.Context(), *envelope.Entries)
	if err != nil {
		log.Err(err).Str("func", "*Handler.importEntries").Msg("error importing entries")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"imported": count})
}

// exportEntries streams the full entry set as a downloadable export file.
func (h *Handler) exportEntries(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	export, err := h.entries.Export(r.Context())
	if err != nil {
		log.Err(err).Str("func", "*Handler.exportEntries").Msg("error exporting entries")
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+mirror.FileName+`"`)
	writeJSON(w, http.StatusOK, export)
}
