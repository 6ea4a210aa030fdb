package main

import (
	"context"
	"fmt"

	"github.com/knagano/go-meal-log/internal/config"
	handlerhttp "github.com/knagano/go-meal-log/internal/handler/http"
	"github.com/knagano/go-meal-log/internal/logger"
	"github.com/knagano/go-meal-log/internal/mirror"
	"github.com/knagano/go-meal-log/internal/photo"
	"github.com/knagano/go-meal-log/internal/server"
	"github.com/knagano/go-meal-log/internal/service"
	"github.com/knagano/go-meal-log/internal/store"
	"github.com/knagano/go-meal-log/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("meal-log-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.App.Version == "" {
		cfg.App.Version = buildVersion
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	db := store.NewDB(cfg.Storage.DB, log)
	repo := store.NewEntryRepository(db, log)

	mir := mirror.New(cfg.Storage.Mirror, repo, log)
	syncWorker := workers.NewMirrorSync(mir, log)
	syncWorker.Start(context.Background())
	defer syncWorker.Stop()

	compressor := photo.NewCompressor(cfg.Photo.MaxWidth, cfg.Photo.MaxHeight, cfg.Photo.Quality)

	entries, err := service.NewEntryService(service.Capabilities{}, repo, compressor, syncWorker, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating entry service")
	}

	appInfo, err := service.NewAppInfoService(cfg.App, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating app info service")
	}

	handlers := handlerhttp.NewHandler(entries, appInfo, log)

	srv, err := server.NewServer(handlers.Init(), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
