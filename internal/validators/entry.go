// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keisuke Nagano

package validators

import (
	"context"
	"time"

	"github.com/knagano/go-meal-log/models"
)

// Field name constants used to specify which fields should be validated.
// They are passed to Validate to restrict validation to a subset of fields.
const (
	// FieldID targets the entry identifier.
	FieldID = "id"

	// FieldDate targets the calendar date ("YYYY-MM-DD") of the entry.
	FieldDate = "date"

	// FieldTime targets the optional time of day ("HH:MM") of the entry.
	FieldTime = "time"

	// FieldMealType targets the meal type enum value.
	FieldMealType = "meal_type"
)

// FoodEntryValidator implements the Validator interface for the FoodEntry
// model. Both value and pointer forms are accepted, and validation can be
// scoped to named fields.
type FoodEntryValidator struct {
}

// NewFoodEntryValidator constructs a new FoodEntryValidator and returns it
// as the Validator interface.
func NewFoodEntryValidator() Validator {
	return &FoodEntryValidator{}
}

// Validate dispatches validation based on the dynamic type of obj.
// Returns ErrUnsupportedType if obj is not a FoodEntry.
func (v *FoodEntryValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.FoodEntry:
		return v.validateEntry(ctx, value, fields...)
	case *models.FoodEntry:
		return v.validateEntry(ctx, *value, fields...)
	default:
		return ErrUnsupportedType
	}
}

// validateEntry validates a single FoodEntry.
//
// Default validated fields (when none specified): ID, Date, Time, MealType.
// Returns the first encountered validation error or nil.
func (v *FoodEntryValidator) validateEntry(_ context.Context, entry models.FoodEntry, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldDate, FieldTime, FieldMealType}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if entry.ID == "" {
				return ErrInvalidID
			}
		case FieldDate:
			if _, err := time.Parse("2006-01-02", entry.Date); err != nil {
				return ErrInvalidDate
			}
		case FieldTime:
			if entry.Time != "" {
				if _, err := time.Parse("15:04", entry.Time); err != nil {
					return ErrInvalidTime
				}
			}
		case FieldMealType:
			if !entry.MealType.Valid() {
				return ErrInvalidMealType
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
