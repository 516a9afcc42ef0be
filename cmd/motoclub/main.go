// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mccastellazzob/motoclub/internal/antispam"
	"github.com/mccastellazzob/motoclub/internal/cache"
	"github.com/mccastellazzob/motoclub/internal/config"
	"github.com/mccastellazzob/motoclub/internal/geoip"
	"github.com/mccastellazzob/motoclub/internal/handler"
	"github.com/mccastellazzob/motoclub/internal/i18n"
	"github.com/mccastellazzob/motoclub/internal/logging"
	"github.com/mccastellazzob/motoclub/internal/mailer"
	"github.com/mccastellazzob/motoclub/internal/middleware"
	"github.com/mccastellazzob/motoclub/internal/render"
	"github.com/mccastellazzob/motoclub/internal/scheduler"
	"github.com/mccastellazzob/motoclub/internal/service"
	"github.com/mccastellazzob/motoclub/internal/session"
	"github.com/mccastellazzob/motoclub/internal/store"
	"github.com/mccastellazzob/motoclub/internal/translation"
	"github.com/mccastellazzob/motoclub/internal/version"
	"github.com/mccastellazzob/motoclub/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// Retention of housekeeping jobs
const (
	eventRetention = 90 * 24 * time.Hour
	cleanupCron    = "0 3 * * *"
	geoipCron      = "0 4 * * 0"
	pruneCron      = "*/10 * * * *"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "motoclub - Moto Club Castellazzo Bormida website\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MC_SECRET_KEY      Token and CSRF signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MC_DB_PATH         SQLite database path (default: ./data/motoclub.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MC_SERVER_PORT     Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MC_ENV             Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MC_SYNC_CRON       Cron spec for the translation sync (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MC_REDIS_URL       Redis URL for the shared cache (optional)\n")
	}

	flag.Parse()

	if *showVersion {
		info := versionInfo()
		_, _ = fmt.Printf("motoclub %s\n", info.String())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func versionInfo() version.Info {
	return version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}
}

func run() error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	site, err := config.LoadSite(cfg.SiteFile)
	if err != nil {
		return fmt.Errorf("loading site settings: %w", err)
	}

	logLevel := parseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if err := i18n.Init(logger); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// From here on WARN and ERROR records are also kept in the event log
	eventLogHandler := logging.NewEventLogHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}), db)
	logger = slog.New(eventLogHandler)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := store.Seed(ctx, db); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	appCache := cache.Open(ctx, cache.Options{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: time.Hour,
		MaxItems:   10000,
	})
	defer func() { _ = appCache.Close() }()

	var geo *geoip.Lookup
	if cfg.GeoIPEnabled() {
		geo, err = geoip.Open(cfg.GeoIPDBPath)
		if err != nil {
			slog.Warn("geoip database unavailable", "path", cfg.GeoIPDBPath, "error", err)
			geo = nil
		} else {
			defer func() { _ = geo.Close() }()
		}
	}

	sessionManager := session.New(db, cfg.IsDevelopment())

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	sched := scheduler.New(logger)
	if err := registerJobs(sched, cfg, db, appCache, geo, loginProtection, logger); err != nil {
		return err
	}
	sched.Start(ctx)
	defer sched.Stop()

	mail := mailer.New(cfg, logger)
	if !mail.Enabled() {
		slog.Warn("MC_SMTP_ADDR not set, contact messages are stored but not mailed")
	}

	contactHandler := handler.NewContactHandler(db, antispam.NewGuard(cfg.SecretKey), mail, logger)
	frontendHandler := handler.NewFrontendHandler(handler.FrontendConfig{
		DB:         db,
		Renderer:   renderer,
		Menu:       service.NewMenuService(db, appCache),
		Search:     service.NewSearchService(db),
		Negotiator: middleware.NewLanguageNegotiator(db, geo, logger),
		Contact:    contactHandler,
		Site:       site,
		SiteURL:    cfg.SiteURL,
		Logger:     logger,
	})

	r, err := newRouter(routerDeps{
		cfg:             cfg,
		db:              db,
		sessionManager:  sessionManager,
		loginProtection: loginProtection,
		frontend:        frontendHandler,
		contact:         contactHandler,
		auth:            handler.NewAuthHandler(db, renderer, sessionManager, loginProtection),
		admin:           handler.NewAdminHandler(db, renderer),
		media:           handler.NewMediaHandler(db, renderer, service.NewMediaService(db, cfg.UploadsDir)),
		health:          handler.NewHealthHandler(db, sessionManager, cfg.UploadsDir, versionInfo()),
		seo:             handler.NewSEOHandler(db, appCache, cfg.SiteURL, !cfg.IsDevelopment()),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Bulk uploads
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", appVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// registerJobs adds the translation sync and the housekeeping jobs.
func registerJobs(sched *scheduler.Scheduler, cfg *config.Config, db *sql.DB, c cache.Cache, geo *geoip.Lookup, lp *middleware.LoginProtection, logger *slog.Logger) error {
	if cfg.SyncCron != "" {
		translator, err := translation.FromConfig(cfg, c)
		if err != nil {
			return fmt.Errorf("configuring translator: %w", err)
		}
		synchronizer := translation.NewSynchronizer(translation.Config{
			DB:             db,
			Translator:     translator,
			SourceLanguage: cfg.SourceLanguage,
			CallTimeout:    cfg.TranslateTimeout,
			Logger:         logger,
		})
		if err := sched.Register("translation-sync", cfg.SyncCron, scheduler.SyncJob(synchronizer, logger)); err != nil {
			return fmt.Errorf("scheduling translation sync: %w", err)
		}
	}

	events := service.NewEventService(db)
	if err := sched.Register("event-log-cleanup", cleanupCron, func(ctx context.Context) error {
		n, err := events.DeleteOldEvents(ctx, eventRetention)
		if err != nil {
			return err
		}
		logger.Info("event log cleaned", "deleted", n)
		return nil
	}); err != nil {
		return err
	}

	if err := sched.Register("login-protection-prune", pruneCron, func(context.Context) error {
		if n := lp.Prune(); n > 0 {
			logger.Debug("pruned login attempts", "entries", n)
		}
		return nil
	}); err != nil {
		return err
	}

	if geo != nil {
		if err := sched.Register("geoip-reload", geoipCron, func(context.Context) error {
			return geo.Reload()
		}); err != nil {
			return err
		}
	}
	return nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
