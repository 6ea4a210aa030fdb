// Package http implements the HTTP transport layer of the application:
// middleware, route handlers and the error-to-status mapping for the REST
// API over meal entries. Requests are decoded here and forwarded to the
// service layer; no business rules live in this package.
package http

import (
	"github.com/knagano/go-meal-log/internal/logger"
	"github.com/knagano/go-meal-log/internal/service"
)

type Handler struct {
	entries EntryService
	appInfo service.AppInfoService

	logger *logger.Logger
}

func NewHandler(entries EntryService, appInfo service.AppInfoService, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		entries: entries,
		appInfo: appInfo,
		logger:  logger,
	}
}
