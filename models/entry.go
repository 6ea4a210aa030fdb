// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keisuke Nagano

// Package models defines the meal entry record and its projections: the
// in-memory [FoodEntry], the JSON-safe [SerializedEntry] used by the mirror
// and export files, and the relational [RemoteEntry] used by the remote
// backend.
package models

// MealType classifies an entry within the fixed set of meal slots.
type MealType string

const (
	MealTypeBreakfast      MealType = "breakfast"
	MealTypeLunch          MealType = "lunch"
	MealTypeDinner         MealType = "dinner"
	MealTypeLateNightSnack MealType = "late-night snack"
	MealTypeSnack          MealType = "snack"
)

// DefaultMealType is applied to legacy records that predate the meal_type
// field.
const DefaultMealType = MealTypeLunch

// Valid reports whether m is one of the fixed meal slots.
func (m MealType) Valid() bool {
	switch m {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeLateNightSnack, MealTypeSnack:
		return true
	}
	return false
}

// FoodEntry is one meal record. The Photo slice, when present, holds a
// compressed JPEG owned exclusively by the entry; it is never shared between
// entries.
type FoodEntry struct {
	// ID is an opaque unique identifier generated on creation. Immutable.
	ID string `json:"id"`

	// Date is the calendar date of the meal, "YYYY-MM-DD". Always present.
	Date string `json:"date"`

	// Time is an optional 24-hour "HH:MM" clock time. Entries without a
	// time sort as if it were "00:00".
	Time string `json:"time,omitempty"`

	// MealType is one of the fixed meal slots.
	MealType MealType `json:"mealType"`

	// Menu is an optional free-text description of what was eaten.
	Menu string `json:"menu,omitempty"`

	// Photo is an optional compressed JPEG payload.
	Photo []byte `json:"-"`

	// CreatedAt is the creation timestamp in epoch milliseconds. Immutable.
	CreatedAt int64 `json:"createdAt"`
}

// HasPhoto reports whether the entry carries a photo payload.
func (e *FoodEntry) HasPhoto() bool {
	return len(e.Photo) > 0
}

// Clone returns a deep copy of the entry. The photo payload is copied so the
// clone owns its own bytes.
func (e FoodEntry) Clone() FoodEntry {
	c := e
	if e.Photo != nil {
		c.Photo = append([]byte(nil), e.Photo...)
	}
	return c
}

// Session describes the caller's authentication state as reported by the
// external auth provider. The facade consumes only UserID and Authenticated;
// Plan is carried through for callers that surface subscription tiers.
type Session struct {
	UserID        string
	Authenticated bool
	Plan          string
}
