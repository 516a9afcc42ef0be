// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"database/sql"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mccastellazzob/motoclub/internal/config"
	"github.com/mccastellazzob/motoclub/internal/handler"
	"github.com/mccastellazzob/motoclub/internal/middleware"
	"github.com/mccastellazzob/motoclub/web"
)

// Cache lifetimes in seconds
const (
	staticMaxAge  = 31536000 // 1 year
	uploadsMaxAge = 604800   // 1 week
)

// Contact form limits per client IP: one message every 30 seconds with a
// burst of three.
const (
	contactRate  = 1.0 / 30
	contactBurst = 3
)

type routerDeps struct {
	cfg             *config.Config
	db              *sql.DB
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection

	frontend *handler.FrontendHandler
	contact  *handler.ContactHandler
	auth     *handler.AuthHandler
	admin    *handler.AdminHandler
	media    *handler.MediaHandler
	health   *handler.HealthHandler
	seo      *handler.SEOHandler
}

func newRouter(d routerDeps) (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(d.cfg.IsDevelopment())))
	r.Use(middleware.Timeout(30*time.Second, "/admin/images/bulk"))
	r.Use(d.sessionManager.LoadAndSave)

	r.Get("/health", d.health.Health)
	r.Get("/sitemap.xml", d.seo.Sitemap)
	r.Get("/robots.txt", d.seo.Robots)

	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return nil, fmt.Errorf("getting static fs: %w", err)
	}
	r.With(middleware.CacheControl(middleware.StaticCacheControl(staticMaxAge))).
		Handle("/static/dist/*", http.StripPrefix("/static/dist/", http.FileServer(http.FS(staticFS))))
	r.With(middleware.CacheControl(middleware.StaticCacheControl(uploadsMaxAge))).
		Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(d.cfg.UploadsDir))))

	// Editor pages
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(d.cfg.SecretKey), d.cfg.IsDevelopment(), d.cfg.ServerPort)))
		r.Use(middleware.CacheControl("no-store"))

		r.Get("/login", d.auth.LoginForm)
		r.With(d.loginProtection.Middleware()).Post("/login", d.auth.Login)
		r.Post("/logout", d.auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireEditor(d.sessionManager, d.db))
			r.Get("/", d.admin.Dashboard)
			r.Get("/images/bulk", d.media.BulkForm)
			r.Post("/images/bulk", d.media.BulkUpload)
		})
	})

	// Public site
	r.Get("/", d.frontend.Root)
	contactLimiter := middleware.NewIPRateLimiter("contact", contactRate, contactBurst)
	r.Route("/{lang}", func(r chi.Router) {
		r.Use(middleware.AppendSlash("/search"))
		r.Use(middleware.URLLanguage(d.db))
		r.Get("/search", d.frontend.Search)
		r.Get("/*", d.frontend.Page)
		r.With(contactLimiter.Middleware(http.HandlerFunc(d.contact.RateLimited))).Post("/*", d.frontend.Submit)
	})

	r.NotFound(d.frontend.NotFound)

	return r, nil
}
