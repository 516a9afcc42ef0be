// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mccastellazzob/motoclub/internal/model"
	"github.com/mccastellazzob/motoclub/internal/store"
)

// ErrHomeNotFound means the source locale has no home page yet.
var ErrHomeNotFound = errors.New("home page not found")

// StandardPage is a page every installation is expected to have.
type StandardPage struct {
	Slug        string
	ParentSlug  string // Empty places the page under the home page
	Title       string
	PageType    string
	ShowInMenus bool
	Intro       string
	Body        string
}

// StandardPages are created by EnsureStandardPages, parents first.
var StandardPages = []StandardPage{
	{
		Slug: "chi-siamo", Title: "Chi siamo", PageType: model.PageTypeAbout, ShowInMenus: true,
		Intro: "<p>La storia e la passione del Moto Club Castellazzo Bormida.</p>",
	},
	{
		Slug: "consiglio", ParentSlug: "chi-siamo", Title: "Il Consiglio Direttivo", PageType: model.PageTypeBoard, ShowInMenus: true,
		Intro: "<p>Conosci i membri che guidano il club con passione e dedizione.</p>",
	},
	{
		Slug: "galleria", Title: "Galleria Fotografica", PageType: model.PageTypeGallery, ShowInMenus: true,
		Intro: "<p>Le nostre avventure su due ruote immortalate in immagini.</p>",
	},
	{
		Slug: "contatti", ParentSlug: "chi-siamo", Title: "Contatti", PageType: model.PageTypeContact, ShowInMenus: true,
		Intro: "<p>Entra in contatto con il Moto Club Castellazzo Bormida.</p>",
	},
	{
		Slug: "privacy", Title: "Privacy Policy", PageType: model.PageTypePrivacy,
		Intro: "<p>Informativa sulla privacy e trattamento dei dati personali secondo GDPR.</p>",
		Body: "<h2>Informativa Privacy</h2>" +
			"<p>Il Moto Club Castellazzo Bormida tratta i dati personali nel rispetto del Regolamento UE 2016/679 (GDPR).</p>" +
			"<h3>Finalità del trattamento</h3>" +
			"<ul><li>Gestione iscrizioni e tesseramenti</li><li>Organizzazione eventi</li><li>Comunicazioni istituzionali</li></ul>",
	},
	{
		Slug: "eventi", Title: "Eventi", PageType: model.PageTypeEvents, ShowInMenus: true,
		Intro: "<p>Raduni, giri e appuntamenti del club.</p>",
	},
}

// EnsureResult lists the slugs handled by EnsureStandardPages.
type EnsureResult struct {
	Created  []string
	Existing []string
}

// PageService manages the page tree outside the synchronizer.
type PageService struct {
	db      *sql.DB
	queries *store.Queries
	logger  *slog.Logger
}

// NewPageService creates a new PageService.
func NewPageService(db *sql.DB, logger *slog.Logger) *PageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PageService{db: db, queries: store.New(db), logger: logger}
}

// EnsureStandardPages creates the missing StandardPages in the default
// locale as live pages. A page whose parent is missing goes under the home
// page. Nothing is written in dry-run.
func (s *PageService) EnsureStandardPages(ctx context.Context, dryRun bool) (EnsureResult, error) {
	var result EnsureResult

	locale, err := s.queries.GetDefaultLocale(ctx)
	if err != nil {
		return result, fmt.Errorf("loading default locale: %w", err)
	}
	home, err := s.queries.GetHomePage(ctx, locale.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return result, fmt.Errorf("%w for locale %s", ErrHomeNotFound, locale.Code)
	}
	if err != nil {
		return result, fmt.Errorf("loading home page: %w", err)
	}

	for _, sp := range StandardPages {
		_, err := s.queries.GetPageBySlug(ctx, store.GetPageBySlugParams{Slug: sp.Slug, LocaleID: locale.ID})
		if err == nil {
			s.logger.Info("page already exists", "slug", sp.Slug)
			result.Existing = append(result.Existing, sp.Slug)
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return result, fmt.Errorf("looking up %s: %w", sp.Slug, err)
		}

		parent := home
		if sp.ParentSlug != "" {
			p, err := s.queries.GetPageBySlug(ctx, store.GetPageBySlugParams{Slug: sp.ParentSlug, LocaleID: locale.ID})
			switch {
			case err == nil:
				parent = p
			case errors.Is(err, sql.ErrNoRows):
				if !dryRun {
					s.logger.Warn("parent page not found, using home page", "slug", sp.Slug, "parent", sp.ParentSlug)
				}
			default:
				return result, fmt.Errorf("looking up %s: %w", sp.ParentSlug, err)
			}
		}

		if dryRun {
			s.logger.Info("would create page", "slug", sp.Slug, "url_path", store.ChildURLPath(&parent, sp.Slug))
			result.Created = append(result.Created, sp.Slug)
			continue
		}

		page, err := s.queries.AddPage(ctx, &parent, store.NewPageParams{
			LocaleID:    locale.ID,
			Slug:        sp.Slug,
			Title:       sp.Title,
			PageType:    sp.PageType,
			Intro:       sp.Intro,
			Body:        sp.Body,
			ShowInMenus: sp.ShowInMenus,
			Live:        true,
		})
		if err != nil {
			return result, fmt.Errorf("creating %s: %w", sp.Slug, err)
		}
		s.logger.Info("created page", "slug", sp.Slug, "id", page.ID, "url_path", page.UrlPath)
		result.Created = append(result.Created, sp.Slug)
	}
	return result, nil
}
