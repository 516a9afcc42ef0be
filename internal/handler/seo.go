// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mccastellazzob/motoclub/internal/cache"
	"github.com/mccastellazzob/motoclub/internal/seo"
	"github.com/mccastellazzob/motoclub/internal/store"
)

// Sitemap caching
const (
	sitemapCacheKey = "sitemap.xml"
	sitemapTTL      = time.Hour
)

// SEOHandler serves sitemap.xml and robots.txt.
type SEOHandler struct {
	queries    *store.Queries
	cache      cache.Cache
	siteURL    string
	production bool
}

// NewSEOHandler creates a new SEOHandler. Crawlers are turned away unless
// production is set.
func NewSEOHandler(db *sql.DB, c cache.Cache, siteURL string, production bool) *SEOHandler {
	return &SEOHandler{queries: store.New(db), cache: c, siteURL: siteURL, production: production}
}

// Sitemap handles GET /sitemap.xml.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	data, err := cache.Remember(r.Context(), h.cache, sitemapCacheKey, sitemapTTL, func() ([]byte, error) {
		rows, err := h.queries.ListLivePages(r.Context())
		if err != nil {
			return nil, fmt.Errorf("listing live pages: %w", err)
		}
		b := seo.NewSitemapBuilder(h.siteURL)
		for _, p := range rows {
			b.AddPages(seo.SitemapPage{
				TranslationKey: p.TranslationKey,
				Lang:           p.LocaleCode,
				URLPath:        localeURL(p.LocaleCode, p.UrlPath),
				UpdatedAt:      p.UpdatedAt,
			})
		}
		return b.Build()
	})
	if err != nil {
		slog.Error("building sitemap", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(data)
}

// Robots handles GET /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.GenerateRobots(seo.RobotsConfig{
		SiteURL:     h.siteURL,
		DisallowAll: !h.production,
	})))
}
