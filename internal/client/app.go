// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keisuke Nagano

package client

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/knagano/go-meal-log/internal/config"
	"github.com/knagano/go-meal-log/internal/logger"
	"github.com/knagano/go-meal-log/internal/mirror"
	"github.com/knagano/go-meal-log/internal/photo"
	"github.com/knagano/go-meal-log/internal/remote"
	"github.com/knagano/go-meal-log/internal/service"
	"github.com/knagano/go-meal-log/internal/session"
	"github.com/knagano/go-meal-log/internal/store"
	"github.com/knagano/go-meal-log/internal/workers"
	"github.com/knagano/go-meal-log/models"
)

// accessTokenEnv carries the auth provider's access token. When set and the
// remote backend is configured, entry operations run against the remote
// store instead of the local one.
const accessTokenEnv = "MEAL_LOG_ACCESS_TOKEN"

const photoFetchTimeout = 30 * time.Second

type App struct {
	entries    *service.EntryService
	mirror     *mirror.Mirror
	syncWorker *workers.MirrorSync

	// local is true when entry operations run against the local store. Only
	// local mutations schedule mirror exports worth waiting for.
	local bool

	logger *logger.Logger
}

func NewApp(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (*App, error) {
	db := store.NewDB(cfg.Storage.DB, log)
	repo := store.NewEntryRepository(db, log)

	mir := mirror.New(cfg.Storage.Mirror, repo, log)
	syncWorker := workers.NewMirrorSync(mir, log)

	compressor := photo.NewCompressor(cfg.Photo.MaxWidth, cfg.Photo.MaxHeight, cfg.Photo.Quality)

	caps, err := buildCapabilities(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	entries, err := service.NewEntryService(caps, repo, compressor, syncWorker, log)
	if err != nil {
		return nil, fmt.Errorf("create entry service: %w", err)
	}

	return &App{
		entries:    entries,
		mirror:     mir,
		syncWorker: syncWorker,
		local:      caps.Session == nil,
		logger:     log,
	}, nil
}

// buildCapabilities derives the capability descriptor from the environment:
// an access token plus a configured remote backend unlock the remote store.
func buildCapabilities(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (service.Capabilities, error) {
	token := os.Getenv(accessTokenEnv)
	if token == "" || !cfg.RemoteConfigured() {
		return service.Capabilities{}, nil
	}

	parser, err := session.NewTokenParser(cfg.App.TokenVerifyKey, cfg.App.TokenIssuer)
	if err != nil {
		return service.Capabilities{}, fmt.Errorf("create token parser: %w", err)
	}
	sess, err := parser.Parse(token)
	if err != nil {
		return service.Capabilities{}, fmt.Errorf("parse access token: %w", err)
	}

	conn, err := remote.NewConnectPostgres(ctx, cfg.Remote, log)
	if err != nil {
		return service.Capabilities{}, err
	}
	blobs, err := remote.NewS3BlobStore(ctx, cfg.Remote.S3)
	if err != nil {
		return service.Capabilities{}, err
	}

	remoteStore, err := remote.NewStore(conn, blobs, remote.NewPhotoFetcher(photoFetchTimeout), cfg.Remote.S3.SignedURLTTL, log)
	if err != nil {
		return service.Capabilities{}, err
	}

	return service.Capabilities{Session: &sess, Remote: remoteStore}, nil
}

// Run dispatches one subcommand. The mirror worker runs for the lifetime of
// the call so mutations can schedule exports.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: meal-log <add|list|get|delete|export|import|sync> [flags]")
	}

	a.syncWorker.Start(ctx)
	defer a.syncWorker.Stop()

	var (
		err     error
		mutated bool
	)

	switch cmd := args[0]; cmd {
	case "add":
		err = a.add(ctx, args[1:])
		mutated = true
	case "list":
		err = a.list(ctx)
	case "get":
		err = a.get(ctx, args[1:])
	case "delete":
		err = a.delete(ctx, args[1:])
		mutated = true
	case "export":
		err = a.export(ctx, args[1:])
	case "import":
		err = a.importFile(ctx, args[1:])
		mutated = true
	case "sync":
		err = a.sync(ctx)
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		return err
	}

	if mutated {
		a.awaitMirrorExport()
	}
	return nil
}

// awaitMirrorExport blocks until the scheduled mirror export completes, so
// short-lived CLI invocations do not exit before the file is written. Remote
// mutations never schedule an export, so there is nothing to wait for.
func (a *App) awaitMirrorExport() {
	if !a.local || !a.mirror.Enabled() {
		return
	}
	select {
	case result := <-a.syncWorker.Events():
		if result.Err != nil {
			fmt.Fprintf(os.Stderr, "mirror export warning: %v\n", result.Err)
		}
	case <-time.After(5 * time.Second):
		fmt.Fprintln(os.Stderr, "mirror export still pending, giving up waiting")
	}
}

func (a *App) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	date := fs.String("date", time.Now().Format("2006-01-02"), "entry date (YYYY-MM-DD)")
	timeOfDay := fs.String("time", "", "time of day (HH:MM)")
	meal := fs.String("meal", string(models.DefaultMealType), "meal type")
	menu := fs.String("menu", "", "menu text")
	photoPath := fs.String("photo", "", "path to a photo file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	entry := models.FoodEntry{
		Date:     *date,
		Time:     *timeOfDay,
		MealType: models.MealType(*meal),
		Menu:     *menu,
	}

	var rawPhoto *os.File
	if *photoPath != "" {
		f, err := os.Open(*photoPath)
		if err != nil {
			return fmt.Errorf("open photo: %w", err)
		}
		defer f.Close()
		rawPhoto = f
	}

	added, err := a.entries.Add(ctx, entry, readerOrNil(rawPhoto))
	if err != nil {
		return err
	}

	fmt.Printf("added entry %s\n", added.ID)
	return nil
}

func (a *App) list(ctx context.Context) error {
	entries, err := a.entries.ListAll(ctx)
	if err != nil {
		return err
	}

	for _, e := range entries {
		printEntry(e)
	}
	return nil
}

func (a *App) get(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: meal-log get <id>")
	}

	entry, err := a.entries.Get(ctx, args[0])
	if err != nil {
		return err
	}

	printEntry(entry)
	return nil
}

func (a *App) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: meal-log delete <id>")
	}

	if err := a.entries.Delete(ctx, args[0]); err != nil {
		return err
	}

	fmt.Printf("deleted entry %s\n", args[0])
	return nil
}

func (a *App) export(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	out := fs.String("o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	export, err := a.entries.Export(ctx)
	if err != nil {
		return err
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(export)
}

func (a *App) importFile(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: meal-log import <file>")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}

	var envelope struct {
		Entries *[]models.SerializedEntry `json:"entries"`
	}
	if err = json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("%w: %w", mirror.ErrInvalidFormat, err)
	}
	if envelope.Entries == nil {
		return fmt.Errorf("%w: missing entries array", mirror.ErrInvalidFormat)
	}

	count, err := a.entries.Import(ctx, *envelope.Entries)
	if err != nil {
		return err
	}

	fmt.Printf("imported %d entries\n", count)
	return nil
}

func (a *App) sync(ctx context.Context) error {
	if !a.mirror.Enabled() {
		return fmt.Errorf("no mirror directory configured")
	}

	if err := a.mirror.EnsurePermission(); err != nil {
		return err
	}
	if err := a.mirror.Sync(ctx); err != nil {
		return err
	}

	fmt.Println("mirror file is up to date")
	return nil
}

func printEntry(e models.FoodEntry) {
	timeOfDay := e.Time
	if timeOfDay == "" {
		timeOfDay = "--:--"
	}
	photoMark := ""
	if e.HasPhoto() {
		photoMark = " [photo]"
	}
	fmt.Printf("%s  %s %s  %-16s %s%s\n", e.ID, e.Date, timeOfDay, e.MealType, e.Menu, photoMark)
}

// readerOrNil avoids handing the service a typed nil inside a non-nil
// interface value.
func readerOrNil(f *os.File) io.Reader {
	if f == nil {
		return nil
	}
	return f
}
