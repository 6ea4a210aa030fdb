package service

import (
	"context"

	"github.com/knagano/go-meal-log/internal/config"
	"github.com/knagano/go-meal-log/internal/logger"
)

type appInfoService struct {
	appVersion string

	logger *logger.Logger
}

// AppInfoService exposes build metadata to the transport layer.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

func NewAppInfoService(cfg config.App, logger *logger.Logger) (AppInfoService, error) {
	if cfg.Version == "" {
		return nil, ErrVersionIsNotSpecified
	}

	return &appInfoService{
		appVersion: cfg.Version,
		logger:     logger,
	}, nil
}

func (s *appInfoService) GetAppVersion(ctx context.Context) string {
	return s.appVersion
}
