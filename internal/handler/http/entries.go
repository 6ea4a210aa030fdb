// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keisuke Nagano

package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/knagano/go-meal-log/internal/logger"
	"github.com/knagano/go-meal-log/models"
)

// list returns all entries, newest date first, as serialized projections.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	entries, err := h.entries.ListAll(r.Context())
	if err != nil {
		log.Err(err).Str("func", "*Handler.list").Msg("error listing entries")
		writeError(w, err)
		return
	}

	serialized := make([]models.SerializedEntry, 0, len(entries))
	for _, e := range entries {
		serialized = append(serialized, e.Serialize())
	}

	writeJSON(w, http.StatusOK, serialized)
}

// create decodes a serialized entry and stores it. Missing id, created-at
// and meal type are filled in by the service.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	entry, ok := decodeEntry(w, r)
	if !ok {
		return
	}

	added, err := h.entries.Add(r.Context(), entry, nil)
	if err != nil {
		log.Err(err).Str("func", "*Handler.create").Msg("error adding entry")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, added.Serialize())
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	id := chi.URLParam(r, "id")

	entry, err := h.entries.Get(r.Context(), id)
	if err != nil {
		log.Err(err).Str("func", "*Handler.get").Str("id", id).Msg("error getting entry")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entry.Serialize())
}

// update replaces the entry named in the path; the path id wins over any id
// in the body.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	id := chi.URLParam(r, "id")

	entry, ok := decodeEntry(w, r)
	if !ok {
		return
	}
	entry.ID = id

	updated, err := h.entries.Update(r.Context(), entry, nil)
	if err != nil {
		log.Err(err).Str("func", "*Handler.update").Str("id", id).Msg("error updating entry")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated.Serialize())
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	id := chi.URLParam(r, "id")

	if err := h.entries.Delete(r.Context(), id); err != nil {
		log.Err(err).Str("func", "*Handler.delete").Str("id", id).Msg("error deleting entry")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeEntry reads a serialized entry from the request body. On failure it
// writes a 400 response and returns ok=false.
func decodeEntry(w http.ResponseWriter, r *http.Request) (models.FoodEntry, bool) {
	log := logger.FromRequest(r)

	var serialized models.SerializedEntry
	if err := json.NewDecoder(r.Body).Decode(&serialized); err != nil {
		log.Err(err).Str("func", "decodeEntry").Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return models.FoodEntry{}, false
	}

	entry, err := serialized.Deserialize()
	if err != nil {
		log.Err(err).Str("func", "decodeEntry").Msg("invalid photo payload")
		http.Error(w, "invalid photo payload", http.StatusBadRequest)
		return models.FoodEntry{}, false
	}

	return entry, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
