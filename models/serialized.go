// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keisuke Nagano

package models

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// photoDataURIPrefix tags base64-encoded photo payloads in serialized
// entries. The mirror file embeds binary photos as JPEG data URIs so the
// whole entry set round-trips through a single text file.
const photoDataURIPrefix = "data:image/jpeg;base64,"

// ExportFileVersion is the current schema version of the mirror/export file.
const ExportFileVersion = 1

// SerializedEntry is the JSON-safe projection of [FoodEntry] used in mirror
// and export files. A binary photo is carried as a base64 data URI in Photo
// with PhotoIsBase64 set; entries without a photo leave both fields empty.
//
// Legacy compatibility: files written by the first schema carried a single
// "menuName" field and no "mealType". Deserialize maps MenuName into Menu and
// defaults MealType to [DefaultMealType] for such entries.
type SerializedEntry struct {
	ID            string   `json:"id"`
	Date          string   `json:"date"`
	Time          string   `json:"time,omitempty"`
	MealType      MealType `json:"mealType,omitempty"`
	Menu          string   `json:"menu,omitempty"`
	MenuName      string   `json:"menuName,omitempty"`
	Photo         string   `json:"photo,omitempty"`
	PhotoIsBase64 bool     `json:"_photoIsBase64,omitempty"`
	CreatedAt     int64    `json:"createdAt"`
}

// ExportFile is the envelope written to the mirror directory and offered as a
// manual download.
type ExportFile struct {
	Version    int               `json:"version"`
	ExportedAt string            `json:"exportedAt"`
	Entries    []SerializedEntry `json:"entries"`
}

// NewExportFile wraps entries in an [ExportFile] envelope stamped with the
// given export time.
func NewExportFile(entries []FoodEntry, exportedAt time.Time) ExportFile {
	serialized := make([]SerializedEntry, 0, len(entries))
	for _, e := range entries {
		serialized = append(serialized, e.Serialize())
	}
	return ExportFile{
		Version:    ExportFileVersion,
		ExportedAt: exportedAt.UTC().Format(time.RFC3339),
		Entries:    serialized,
	}
}

// Serialize converts the entry into its JSON-safe projection. A binary photo
// is base64-encoded into a JPEG data URI and tagged with PhotoIsBase64.
func (e FoodEntry) Serialize() SerializedEntry {
	s := SerializedEntry{
		ID:        e.ID,
		Date:      e.Date,
		Time:      e.Time,
		MealType:  e.MealType,
		Menu:      e.Menu,
		CreatedAt: e.CreatedAt,
	}
	if e.HasPhoto() {
		s.Photo = photoDataURIPrefix + base64.StdEncoding.EncodeToString(e.Photo)
		s.PhotoIsBase64 = true
	}
	return s
}

// Deserialize converts the projection back into a [FoodEntry], decoding the
// base64 photo payload and applying legacy-field fallbacks. Returns an error
// only when the photo payload is present but not valid base64.
func (s SerializedEntry) Deserialize() (FoodEntry, error) {
	e := FoodEntry{
		ID:        s.ID,
		Date:      s.Date,
		Time:      s.Time,
		MealType:  s.MealType,
		Menu:      s.Menu,
		CreatedAt: s.CreatedAt,
	}

	if e.Menu == "" && s.MenuName != "" {
		e.Menu = s.MenuName
	}
	if e.MealType == "" {
		e.MealType = DefaultMealType
	}

	if s.Photo != "" {
		raw := strings.TrimPrefix(s.Photo, photoDataURIPrefix)
		// Tolerate data URIs produced with a different media type.
		if i := strings.Index(raw, ","); i >= 0 && strings.HasPrefix(raw, "data:") {
			raw = raw[i+1:]
		}
		photo, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return FoodEntry{}, fmt.Errorf("decode photo payload for entry %s: %w", s.ID, err)
		}
		e.Photo = photo
	}

	return e, nil
}
