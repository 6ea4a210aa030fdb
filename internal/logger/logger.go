// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keisuke Nagano

// Package logger wraps zerolog.Logger with the constructors and context
// helpers used across go-meal-log.
//
// Logger embeds zerolog.Logger, so the full zerolog API (Debug, Info, Warn,
// Error, Fatal, ...) is available on *Logger directly. Request-scoped loggers
// are obtained via FromContext or FromRequest.
package logger

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// NewLogger constructs a JSON logger writing to stdout, labelled with the
// given role ("server", "client", "mirror-sync", ...). The caller field
// records the fully-qualified function name under "func".
func NewLogger(role string) *Logger {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"

	l := zerolog.New(os.Stdout).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{l}
}

// NewClientLogger constructs a logger for the interactive client. Output goes
// to a "logs" file next to the executable so it does not interleave with the
// client's own terminal output; stdout is the fallback when the file cannot
// be opened.
func NewClientLogger(role string) *Logger {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"

	execPath, _ := os.Executable()
	logPath := filepath.Join(filepath.Dir(execPath), "logs")
	out, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	var w *os.File = out
	if err != nil {
		w = os.Stdout
	}

	l := zerolog.New(w).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{l}
}

// Nop returns a *Logger that discards everything. Intended for tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// FromRequest returns the request-scoped logger attached to r's context by
// the logging middleware.
func FromRequest(r *http.Request) *Logger {
	return &Logger{*log.Ctx(r.Context())}
}

// FromContext returns the logger attached to ctx via zerolog's WithContext.
// Falls back to zerolog's global logger when none is attached, so the result
// is never nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
