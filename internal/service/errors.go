package service

import "errors"

var (
	// ErrVersionIsNotSpecified is returned when the application version is
	// missing from the configuration.
	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	// ErrNoLocalRepository is returned when the facade is constructed
	// without the local repository it needs.
	ErrNoLocalRepository = errors.New("local repository is required")
)
