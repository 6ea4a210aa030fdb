package main

import (
	"context"
	"fmt"
	"os"

	"github.com/knagano/go-meal-log/internal/client"
	"github.com/knagano/go-meal-log/internal/config"
	"github.com/knagano/go-meal-log/internal/logger"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewClientLogger("meal-log-client")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.App.Version == "" {
		cfg.App.Version = buildVersion
	}

	ctx := context.Background()

	app, err := client.NewApp(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating application")
	}

	if err = app.Run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
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
