// Package config loads the go-meal-log configuration from environment
// variables, command-line flags, and an optional JSON file, merging the
// sources in that order and validating the result.
package config
