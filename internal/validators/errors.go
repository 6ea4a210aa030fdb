package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidID       = errors.New("invalid entry id")
	ErrInvalidDate     = errors.New("invalid date: expected YYYY-MM-DD")
	ErrInvalidTime     = errors.New("invalid time: expected HH:MM")
	ErrInvalidMealType = errors.New("invalid meal type")
)
