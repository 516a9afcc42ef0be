// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mccastellazzob/motoclub/internal/auth"
	"github.com/mccastellazzob/motoclub/internal/cache"
	"github.com/mccastellazzob/motoclub/internal/config"
	"github.com/mccastellazzob/motoclub/internal/demo"
	"github.com/mccastellazzob/motoclub/internal/geo"
	"github.com/mccastellazzob/motoclub/internal/model"
	"github.com/mccastellazzob/motoclub/internal/service"
	"github.com/mccastellazzob/motoclub/internal/store"
	"github.com/mccastellazzob/motoclub/internal/translation"
	"github.com/mccastellazzob/motoclub/internal/version"
)

// cliEnv opens the configuration and the database on first use, so
// --help and --version work without either.
type cliEnv struct {
	loadConfig func() (*config.Config, error)
	out        io.Writer
	logger     *slog.Logger

	cfg        *config.Config
	db         *sql.DB
	translator translation.Translator // Overrides the configured backend
	now        func() time.Time
}

func (e *cliEnv) config() (*config.Config, error) {
	if e.cfg != nil {
		return e.cfg, nil
	}
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	e.cfg = cfg
	return cfg, nil
}

func (e *cliEnv) database() (*sql.DB, error) {
	if e.db != nil {
		return e.db, nil
	}
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	e.db = db
	return db, nil
}

func (e *cliEnv) close() {
	if e.db != nil {
		_ = e.db.Close()
		e.db = nil
	}
}

func (e *cliEnv) clock() time.Time {
	if e.now != nil {
		return e.now()
	}
	return time.Now()
}

func (e *cliEnv) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(e.out, format, args...)
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(env *cliEnv, info version.Info) *cli.App {
	app := &cli.App{
		Name:    "mcadmin",
		Usage:   "Editor tasks for the Moto Club Castellazzo Bormida site",
		Version: info.String(),
		Writer:  env.out,
		Commands: []*cli.Command{
			syncTranslationsCmd(env),
			syncTreeCmd(env),
			createMissingPagesCmd(env),
			bulkUploadCmd(env),
			geocodeCmd(env),
			seedDemoCmd(env),
			createEditorCmd(env),
			migrateCmd(env),
			statusCmd(env),
			rebuildSearchCmd(env),
		},
	}
	// Errors are returned to main instead of exiting inside the library.
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func (e *cliEnv) synchronizer() (*translation.Synchronizer, error) {
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	db, err := e.database()
	if err != nil {
		return nil, err
	}

	translator := e.translator
	if translator == nil {
		c := cache.Open(context.Background(), cache.Options{
			RedisURL: cfg.RedisURL,
			Prefix:   cfg.CachePrefix,
		})
		translator, err = translation.FromConfig(cfg, c)
		if err != nil {
			return nil, fmt.Errorf("configuring translator: %w", err)
		}
	}

	return translation.NewSynchronizer(translation.Config{
		DB:             db,
		Translator:     translator,
		SourceLanguage: cfg.SourceLanguage,
		CallTimeout:    cfg.TranslateTimeout,
		Logger:         e.logger,
	}), nil
}

// syncTranslationsCmd creates the sync-translations command.
func syncTranslationsCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "sync-translations",
		Usage: "Translate source pages into every other locale",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "page", Usage: "Only the source page with this ID"},
			&cli.StringFlag{Name: "slug", Usage: "Only source pages with this slug"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Report what would change without writing"},
			&cli.BoolFlag{Name: "skip-existing", Usage: "Keep segments that already have a translation"},
		},
		Action: func(c *cli.Context) error {
			s, err := env.synchronizer()
			if err != nil {
				return err
			}

			stats, err := s.Run(c.Context, translation.Options{
				PageID:       c.Int64("page"),
				Slug:         c.String("slug"),
				DryRun:       c.Bool("dry-run"),
				SkipExisting: c.Bool("skip-existing"),
			})
			if err != nil {
				return err
			}

			if c.Bool("dry-run") {
				env.printf("Dry run: nothing was written\n")
			}
			env.printf("Sources created: %d\n", stats.SourcesCreated)
			env.printf("Translations created: %d\n", stats.TranslationsCreated)
			env.printf("Segments translated: %d\n", stats.SegmentsTranslated)
			env.printf("Pages published: %d\n", stats.PagesPublished)
			env.printf("Errors: %d\n", stats.Errors)
			return nil
		},
	}
}

// syncTreeCmd creates the sync-tree command.
func syncTreeCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "sync-tree",
		Usage: "Create draft copies of source pages missing in other locales",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "Report what would change without writing"},
		},
		Action: func(c *cli.Context) error {
			s, err := env.synchronizer()
			if err != nil {
				return err
			}
			stats, err := s.SyncTree(c.Context, c.Bool("dry-run"))
			if err != nil {
				return err
			}
			env.printf("Pages created: %d\n", stats.PagesCreated)
			env.printf("Errors: %d\n", stats.Errors)
			return nil
		},
	}
}

// createMissingPagesCmd creates the create-missing-pages command.
func createMissingPagesCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "create-missing-pages",
		Usage: "Create the standard pages of the source locale",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "Report what would be created"},
		},
		Action: func(c *cli.Context) error {
			db, err := env.database()
			if err != nil {
				return err
			}
			res, err := service.NewPageService(db, env.logger).EnsureStandardPages(c.Context, c.Bool("dry-run"))
			if err != nil {
				return err
			}
			for _, slug := range res.Created {
				if c.Bool("dry-run") {
					env.printf("would create: %s\n", slug)
				} else {
					env.printf("created: %s\n", slug)
				}
			}
			for _, slug := range res.Existing {
				env.printf("exists: %s\n", slug)
			}
			return nil
		},
	}
}

// bulkUploadCmd creates the bulk-upload command.
func bulkUploadCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "bulk-upload",
		Usage:     "Optimize and store images for the gallery",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "prefix", Required: true, Usage: "File name prefix, slugified"},
			&cli.StringFlag{Name: "collection", Usage: "Gallery collection"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return errors.New("no files given")
			}
			cfg, err := env.config()
			if err != nil {
				return err
			}
			db, err := env.database()
			if err != nil {
				return err
			}

			var files []service.UploadFile
			for _, name := range c.Args().Slice() {
				f, err := os.Open(name)
				if err != nil {
					return fmt.Errorf("opening %s: %w", name, err)
				}
				defer func() { _ = f.Close() }()
				files = append(files, service.UploadFile{Name: filepath.Base(name), Reader: f})
			}

			media := service.NewMediaService(db, cfg.UploadsDir)
			res, err := media.BulkUpload(c.Context, c.String("prefix"), c.String("collection"), files)
			if err != nil {
				return err
			}
			for _, img := range res.Saved {
				env.printf("saved: %s (%dx%d)\n", service.ImageURL(img), img.Width, img.Height)
			}
			for _, ue := range res.Errors {
				env.printf("failed: %s\n", ue.Error())
			}
			env.printf("Uploaded %d of %d images\n", len(res.Saved), len(files))
			return nil
		},
	}
}

// geocodeCmd creates the geocode command.
func geocodeCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "geocode",
		Usage: "Fill an event's coordinates from its location address",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "page", Required: true, Usage: "Page ID"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := env.config()
			if err != nil {
				return err
			}
			db, err := env.database()
			if err != nil {
				return err
			}
			queries := store.New(db)

			page, err := queries.GetPage(c.Context, c.Int64("page"))
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("page %d not found", c.Int64("page"))
			}
			if err != nil {
				return fmt.Errorf("loading page: %w", err)
			}
			address := strings.TrimSpace(page.LocationAddress)
			if address == "" {
				return fmt.Errorf("page %d has no location address", page.ID)
			}

			geocoder := geo.NewGeocoder(cfg.NominatimURL, cfg.NominatimUserAgent)
			loc, found := geocoder.GeocodeOrDefault(c.Context, address)
			if !found {
				env.logger.Warn("address not found, using default location", "address", address)
			}

			err = queries.UpdatePageLocation(c.Context, store.UpdatePageLocationParams{
				LocationLat: sql.NullFloat64{Float64: loc.Lat, Valid: true},
				LocationLon: sql.NullFloat64{Float64: loc.Lon, Valid: true},
				UpdatedAt:   env.clock(),
				ID:          page.ID,
			})
			if err != nil {
				return fmt.Errorf("saving location: %w", err)
			}
			env.printf("%s: %.6f, %.6f\n", page.Title, loc.Lat, loc.Lon)
			return nil
		},
	}
}

// seedDemoCmd creates the seed-demo command.
func seedDemoCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "seed-demo",
		Usage: "Create locales, a home page, the standard pages and a demo event",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "reset", Usage: "Delete the database and uploads first"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("reset") {
				cfg, err := env.config()
				if err != nil {
					return err
				}
				env.close()
				if err := demo.Reset(cfg.DBPath, cfg.UploadsDir); err != nil {
					return err
				}
			}
			db, err := env.database()
			if err != nil {
				return err
			}

			res, err := demo.Seed(c.Context, db, env.logger, env.clock())
			if err != nil {
				return err
			}
			env.printf("Home page created: %t\n", res.HomeCreated)
			env.printf("Standard pages created: %d\n", len(res.Pages))
			env.printf("Demo event created: %t\n", res.EventCreated)
			return nil
		},
	}
}

// createEditorCmd creates the create-editor command.
func createEditorCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "create-editor",
		Usage: "Create an account for the editor pages",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "name", Required: true},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"MC_EDITOR_PASSWORD"}},
		},
		Action: func(c *cli.Context) error {
			email := auth.NormalizeEmail(c.String("email"))
			if !strings.Contains(email, "@") {
				return fmt.Errorf("invalid email %q", email)
			}
			password := c.String("password")
			if err := auth.ValidatePassword(password); err != nil {
				return err
			}

			db, err := env.database()
			if err != nil {
				return err
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return fmt.Errorf("hashing password: %w", err)
			}
			editor, err := store.New(db).CreateEditor(c.Context, store.CreateEditorParams{
				Email:        email,
				Name:         strings.TrimSpace(c.String("name")),
				PasswordHash: hash,
				CreatedAt:    env.clock(),
			})
			if err != nil {
				return fmt.Errorf("creating editor: %w", err)
			}
			_ = service.NewEventService(db).LogInfo(c.Context, model.EventCategoryAuth, "Editor created", map[string]any{"editor_id": editor.ID, "email": email})
			env.printf("Editor %d created: %s\n", editor.ID, editor.Email)
			return nil
		},
	}
}

// migrateCmd creates the migrate command.
func migrateCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply database migrations and seed the locales",
		Action: func(c *cli.Context) error {
			db, err := env.database()
			if err != nil {
				return err
			}
			if err := store.Seed(c.Context, db); err != nil {
				return err
			}
			v, err := store.SchemaVersion(db)
			if err != nil {
				return err
			}
			env.printf("Schema version: %d\n", v)
			return nil
		},
	}
}

// statusCmd creates the status command.
func statusCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show schema version and content counts",
		Action: func(c *cli.Context) error {
			db, err := env.database()
			if err != nil {
				return err
			}
			q := store.New(db)

			v, err := store.SchemaVersion(db)
			if err != nil {
				return err
			}
			pages, err := q.CountPages(c.Context)
			if err != nil {
				return err
			}
			sources, err := q.CountTranslationSources(c.Context)
			if err != nil {
				return err
			}
			contacts, err := q.CountContactSubmissions(c.Context)
			if err != nil {
				return err
			}

			env.printf("Schema version: %d\n", v)
			env.printf("Pages: %d\n", pages)
			env.printf("Translation sources: %d\n", sources)
			env.printf("Contact submissions: %d\n", contacts)
			return nil
		},
	}
}

// rebuildSearchCmd creates the rebuild-search command.
func rebuildSearchCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "rebuild-search",
		Usage: "Rebuild the full-text search index",
		Action: func(c *cli.Context) error {
			db, err := env.database()
			if err != nil {
				return err
			}
			if err := service.NewSearchService(db).RebuildIndex(c.Context); err != nil {
				return fmt.Errorf("rebuilding search index: %w", err)
			}
			env.printf("Search index rebuilt\n")
			return nil
		},
	}
}
