// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides HTTP handlers for the application.
package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mccastellazzob/motoclub/internal/config"
	"github.com/mccastellazzob/motoclub/internal/i18n"
	"github.com/mccastellazzob/motoclub/internal/middleware"
	"github.com/mccastellazzob/motoclub/internal/model"
	"github.com/mccastellazzob/motoclub/internal/render"
	"github.com/mccastellazzob/motoclub/internal/seo"
	"github.com/mccastellazzob/motoclub/internal/service"
	"github.com/mccastellazzob/motoclub/internal/store"
	"github.com/mccastellazzob/motoclub/internal/uikit"
	"github.com/mccastellazzob/motoclub/internal/util"
)

// Listing sizes
const (
	upcomingLimit   = 50
	pastPerPage     = 12
	galleryPerPage  = 24
	sectionChildren = 20
)

// PageView holds a resolved page and everything its template lists.
type PageView struct {
	Page       store.Page
	URL        string
	Children   []ChildLink
	Upcoming   []EventView
	Past       []EventView
	Images     []ImageView
	Pagination uikit.Pagination
	Contact    *ContactForm
}

// ChildLink is a live child page shown as a section card.
type ChildLink struct {
	Title string
	URL   string
	Intro string
}

// EventView is an event page prepared for listing and detail templates.
type EventView struct {
	Title           string
	URL             string
	Intro           string
	Start           time.Time
	End             *time.Time
	Status          string
	LocationName    string
	LocationAddress string
	ImageURL        string
	Lat             *float64
	Lon             *float64
}

// Cancelled reports whether the event will not take place.
func (e EventView) Cancelled() bool { return e.Status == model.EventCancelled }

// Postponed reports whether the event was moved to a later date.
func (e EventView) Postponed() bool { return e.Status == model.EventPostponed }

// ImageView is a gallery image.
type ImageView struct {
	URL    string
	Title  string
	Width  int64
	Height int64
}

// SearchView holds data for the search results template.
type SearchView struct {
	Result     *service.SearchPage
	Pagination uikit.Pagination
}

// FrontendConfig wires the public site handler.
type FrontendConfig struct {
	DB         *sql.DB
	Renderer   *render.Renderer
	Menu       *service.MenuService
	Search     *service.SearchService
	Negotiator *middleware.LanguageNegotiator
	Contact    *ContactHandler
	Site       config.Site
	SiteURL    string
	Logger     *slog.Logger
}

// FrontendHandler handles public frontend routes.
type FrontendHandler struct {
	queries    *store.Queries
	renderer   *render.Renderer
	menu       *service.MenuService
	search     *service.SearchService
	negotiator *middleware.LanguageNegotiator
	contact    *ContactHandler
	site       config.Site
	siteURL    string
	logger     *slog.Logger
	now        func() time.Time
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(cfg FrontendConfig) *FrontendHandler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	siteURL := cfg.SiteURL
	if siteURL == "" {
		siteURL = seo.DefaultSiteURL
	}
	return &FrontendHandler{
		queries:    store.New(cfg.DB),
		renderer:   cfg.Renderer,
		menu:       cfg.Menu,
		search:     cfg.Search,
		negotiator: cfg.Negotiator,
		contact:    cfg.Contact,
		site:       cfg.Site,
		siteURL:    strings.TrimRight(siteURL, "/"),
		logger:     logger,
		now:        time.Now,
	}
}

// Root redirects "/" to the home page of the negotiated language.
func (h *FrontendHandler) Root(w http.ResponseWriter, r *http.Request) {
	locale, remember, err := h.negotiator.Negotiate(r)
	if err != nil {
		h.logger.Error("negotiating language", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if remember {
		middleware.SetLanguageCookie(w, locale.Code)
	}
	w.Header().Add("Vary", "Accept-Language, Cookie")
	http.Redirect(w, r, "/"+locale.Code+"/", http.StatusFound)
}

// Page renders the page at /{lang}/{path...}/.
func (h *FrontendHandler) Page(w http.ResponseWriter, r *http.Request) {
	locale := middleware.GetLanguage(r)
	page, ok := h.resolvePage(w, r, locale)
	if !ok {
		return
	}

	var form *ContactForm
	if page.PageType == model.PageTypeContact && h.contact != nil {
		form = h.contact.NewForm(locale.Code)
	}
	h.renderPage(w, r, locale, page, form, http.StatusOK)
}

// resolvePage looks up the live page for the wildcard path. Writes the 404
// or 500 response itself when it returns false.
func (h *FrontendHandler) resolvePage(w http.ResponseWriter, r *http.Request, locale *store.Locale) (store.Page, bool) {
	urlPath := pageURLPath(chi.URLParam(r, "*"))
	page, err := h.queries.GetPageByURLPath(r.Context(), store.GetPageByURLPathParams{
		LocaleID: locale.ID,
		UrlPath:  urlPath,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.NotFound(w, r)
			return store.Page{}, false
		}
		h.serverError(w, r, "loading page", err, "path", urlPath)
		return store.Page{}, false
	}
	if !page.Live {
		h.NotFound(w, r)
		return store.Page{}, false
	}
	return page, true
}

// pageURLPath converts the chi wildcard into a stored url_path.
func pageURLPath(wildcard string) string {
	trimmed := strings.Trim(wildcard, "/")
	if trimmed == "" {
		return "/"
	}
	return "/" + trimmed + "/"
}

// renderPage collects the type-specific listings and renders page.
func (h *FrontendHandler) renderPage(w http.ResponseWriter, r *http.Request, locale *store.Locale, page store.Page, form *ContactForm, status int) {
	ctx := r.Context()
	view := PageView{Page: page, URL: localeURL(locale.Code, page.UrlPath), Contact: form}
	pageNum := util.ParsePositiveInt(r.URL.Query().Get("page"), 1)

	var err error
	switch page.PageType {
	case model.PageTypeEvents:
		if view.Upcoming, err = h.upcomingEvents(ctx, locale); err == nil {
			view.Past, view.Pagination, err = h.pastEvents(ctx, locale, view.URL, pageNum)
		}
	case model.PageTypeEventsArchive:
		view.Past, view.Pagination, err = h.pastEvents(ctx, locale, view.URL, pageNum)
	case model.PageTypeGallery:
		view.Images, view.Pagination, err = h.galleryImages(ctx, view.URL, pageNum)
	case model.PageTypeHome:
		if view.Upcoming, err = h.upcomingEvents(ctx, locale); err == nil && len(view.Upcoming) > 3 {
			view.Upcoming = view.Upcoming[:3]
		}
	}
	if err != nil {
		h.serverError(w, r, "loading page listings", err, "page_id", page.ID)
		return
	}
	if page.PageType == model.PageTypeHome || page.PageType == model.PageTypeAbout {
		view.Children = h.children(ctx, locale.Code, page.ID)
	}

	data := h.baseData(r, locale, page)
	crumbs := h.breadcrumbs(ctx, locale, page)
	data.Breadcrumbs = crumbs
	data.JSONLD = h.structuredData(locale, page, view, crumbs)
	data.Data = view

	name := "pages/" + page.PageType
	if !h.renderer.Has(name) {
		name = "pages/page"
	}
	if err := h.renderer.RenderStatus(w, r, status, name, data); err != nil {
		h.serverError(w, r, "rendering page", err, "template", name)
	}
}

// baseData builds the layout data shared by every public page.
func (h *FrontendHandler) baseData(r *http.Request, locale *store.Locale, page store.Page) render.TemplateData {
	ctx := r.Context()

	menu, err := h.menu.Menu(ctx, *locale)
	if err != nil {
		h.logger.Warn("loading menu", "locale", locale.Code, "error", err)
	}

	var alternates []seo.Alternate
	if page.TranslationKey != "" {
		rows, err := h.queries.ListPageTranslations(ctx, page.TranslationKey)
		if err != nil {
			h.logger.Warn("loading page translations", "page_id", page.ID, "error", err)
		}
		for _, t := range rows {
			if t.Live {
				alternates = append(alternates, seo.Alternate{Lang: t.LocaleCode, URL: localeURL(t.LocaleCode, t.UrlPath)})
			}
		}
	}

	defaultLang := i18n.DefaultLanguage
	if def, err := h.queries.GetDefaultLocale(ctx); err == nil {
		defaultLang = def.Code
	}

	meta := seo.BuildMeta(seo.PageData{
		Title:             page.Title,
		SeoTitle:          page.SeoTitle,
		SearchDescription: page.SearchDescription,
		Intro:             page.Intro,
		Body:              page.Body,
		URLPath:           r.URL.Path,
		ImageURL:          page.ImageUrl,
		Lang:              locale.Code,
		PageType:          page.PageType,
		Translations:      alternates,
	}, h.seoSite(defaultLang))
	if page.ID != 0 && page.PageType != "" {
		meta.Canonical = h.siteURL + localeURL(locale.Code, page.UrlPath)
	}

	return render.TemplateData{
		Title:       meta.Title,
		Lang:        locale.Code,
		SiteName:    h.site.Name,
		Meta:        meta,
		Menu:        menu,
		Languages:   h.languages(ctx, locale.Code, alternates),
		CurrentPath: r.URL.Path,
	}
}

func (h *FrontendHandler) seoSite(defaultLang string) seo.SiteConfig {
	return seo.SiteConfig{
		SiteName:        h.site.Name,
		SiteURL:         h.siteURL,
		SiteDescription: h.site.Description,
		DefaultOGImage:  h.site.LogoURL,
		DefaultLang:     defaultLang,
	}
}

// languages builds the language switcher. Locales without a live copy of
// the page link to their home page.
func (h *FrontendHandler) languages(ctx context.Context, current string, alternates []seo.Alternate) []render.LanguageLink {
	locales, err := h.queries.ListLocales(ctx)
	if err != nil {
		h.logger.Warn("listing locales", "error", err)
		return nil
	}
	urls := make(map[string]string, len(alternates))
	for _, a := range alternates {
		urls[a.Lang] = a.URL
	}

	links := make([]render.LanguageLink, 0, len(locales))
	for _, l := range locales {
		u, ok := urls[l.Code]
		if !ok {
			u = "/" + l.Code + "/"
		}
		links = append(links, render.LanguageLink{
			Code:    l.Code,
			Name:    l.Name,
			URL:     u + "?lang=" + l.Code,
			Current: l.Code == current,
		})
	}
	return links
}

// breadcrumbs resolves every ancestor url_path of page, home first.
func (h *FrontendHandler) breadcrumbs(ctx context.Context, locale *store.Locale, page store.Page) []uikit.Breadcrumb {
	if page.UrlPath == "/" {
		return nil
	}

	paths := []string{"/"}
	parts := strings.Split(strings.Trim(page.UrlPath, "/"), "/")
	for i := range parts {
		paths = append(paths, "/"+strings.Join(parts[:i+1], "/")+"/")
	}

	crumbs := make([]uikit.Breadcrumb, 0, len(paths))
	for _, p := range paths {
		title := page.Title
		if p != page.UrlPath {
			ancestor, err := h.queries.GetPageByURLPath(ctx, store.GetPageByURLPathParams{LocaleID: locale.ID, UrlPath: p})
			if err != nil || !ancestor.Live {
				continue
			}
			title = ancestor.Title
			if p == "/" {
				title = i18n.T(locale.Code, "nav.home")
			}
		}
		crumbs = append(crumbs, uikit.Breadcrumb{Label: title, URL: localeURL(locale.Code, p)})
	}
	return uikit.MarkLast(crumbs)
}

// structuredData returns the JSON-LD blocks for page by type.
func (h *FrontendHandler) structuredData(locale *store.Locale, page store.Page, view PageView, crumbs []uikit.Breadcrumb) []string {
	abs := h.siteURL + view.URL
	description := seo.StripHTML(page.SearchDescription)
	if description == "" {
		description = seo.StripHTML(page.Intro)
	}

	var blocks []string
	switch page.PageType {
	case model.PageTypeHome:
		blocks = append(blocks, seo.GenerateSportsClub(h.club()),
			seo.GenerateOrganization(h.site.Name, h.siteURL, absoluteURL(h.site.LogoURL, h.siteURL)))
	case model.PageTypeEventDetail:
		// startDate is required for an Event
		if page.EventStart.Valid {
			blocks = append(blocks, seo.GenerateEvent(h.schemaEvent(page, abs)))
		}
	case model.PageTypeEvents, model.PageTypeEventsArchive:
		events := view.Upcoming
		if page.PageType == model.PageTypeEventsArchive {
			events = view.Past
		}
		items := make([]seo.ListItem, 0, len(events))
		for _, e := range events {
			items = append(items, seo.ListItem{Name: e.Title, URL: h.siteURL + e.URL})
		}
		blocks = append(blocks, seo.GenerateItemList(page.Title, items))
	case model.PageTypeContact:
		blocks = append(blocks, seo.GenerateWebPage(seo.TypeContactPage, page.Title, abs, description, locale.Code))
	case model.PageTypeAbout, model.PageTypeBoard:
		blocks = append(blocks, seo.GenerateWebPage(seo.TypeAboutPage, page.Title, abs, description, locale.Code))
	case model.PageTypeGallery:
		blocks = append(blocks, seo.GenerateWebPage(seo.TypeCollectionPage, page.Title, abs, description, locale.Code))
	default:
		blocks = append(blocks, seo.GenerateWebPage(seo.TypeWebPage, page.Title, abs, description, locale.Code))
	}

	if len(crumbs) > 1 {
		items := make([]seo.Crumb, 0, len(crumbs))
		for _, c := range crumbs {
			items = append(items, seo.Crumb{Name: c.Label, URL: h.siteURL + c.URL})
		}
		blocks = append(blocks, seo.GenerateBreadcrumbs(items))
	}
	return blocks
}

func (h *FrontendHandler) club() seo.Club {
	s := h.site
	return seo.Club{
		Name:         s.Name,
		URL:          h.siteURL,
		LogoURL:      s.LogoURL,
		Description:  s.Description,
		Email:        s.Email,
		Phone:        s.Phone,
		FoundingYear: s.FoundedYear,
		Address: seo.Address{
			Street:     s.Address.Street,
			Locality:   s.Address.Locality,
			Region:     s.Address.Region,
			PostalCode: s.Address.PostalCode,
			Country:    s.Address.Country,
		},
		Latitude:  floatPtr(s.Geo.Lat),
		Longitude: floatPtr(s.Geo.Lon),
		SameAs:    s.SameAs,
	}
}

func (h *FrontendHandler) schemaEvent(page store.Page, abs string) seo.Event {
	e := seo.Event{
		Name:          page.Title,
		URL:           abs,
		LocationName:  page.LocationName,
		Address:       page.LocationAddress,
		Latitude:      util.PtrFromNullFloat64(page.LocationLat),
		Longitude:     util.PtrFromNullFloat64(page.LocationLon),
		Description:   seo.StripHTML(page.Intro),
		ImageURL:      absoluteURL(page.ImageUrl, h.siteURL),
		OrganizerName: h.site.Name,
		Status:        page.EventStatus,
		StartDate:     page.EventStart.Time,
	}
	if page.EventEnd.Valid {
		e.EndDate = page.EventEnd.Time
	}
	return e
}

func (h *FrontendHandler) upcomingEvents(ctx context.Context, locale *store.Locale) ([]EventView, error) {
	pages, err := h.queries.ListUpcomingEvents(ctx, store.ListUpcomingEventsParams{
		LocaleID: locale.ID,
		Now:      h.now(),
		Limit:    upcomingLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("listing upcoming events: %w", err)
	}
	return eventViews(locale.Code, pages), nil
}

// pastEvents returns one page of past events. One extra row is fetched to
// know whether a next page exists.
func (h *FrontendHandler) pastEvents(ctx context.Context, locale *store.Locale, baseURL string, page int) ([]EventView, uikit.Pagination, error) {
	pages, err := h.queries.ListPastEvents(ctx, store.ListPastEventsParams{
		LocaleID: locale.ID,
		Now:      h.now(),
		Limit:    pastPerPage + 1,
		Offset:   int64((page - 1) * pastPerPage),
	})
	if err != nil {
		return nil, uikit.Pagination{}, fmt.Errorf("listing past events: %w", err)
	}
	pages, pagination := paginateSlice(pages, page, pastPerPage, baseURL)
	return eventViews(locale.Code, pages), pagination, nil
}

func (h *FrontendHandler) galleryImages(ctx context.Context, baseURL string, page int) ([]ImageView, uikit.Pagination, error) {
	images, err := h.queries.ListImages(ctx, store.ListImagesParams{
		Limit:  galleryPerPage + 1,
		Offset: int64((page - 1) * galleryPerPage),
	})
	if err != nil {
		return nil, uikit.Pagination{}, fmt.Errorf("listing images: %w", err)
	}
	images, pagination := paginateSlice(images, page, galleryPerPage, baseURL)

	views := make([]ImageView, 0, len(images))
	for _, img := range images {
		views = append(views, imageView(img))
	}
	return views, pagination, nil
}

func (h *FrontendHandler) children(ctx context.Context, localeCode string, pageID int64) []ChildLink {
	pages, err := h.queries.ListChildPages(ctx, pageID)
	if err != nil {
		h.logger.Warn("listing child pages", "page_id", pageID, "error", err)
		return nil
	}
	var links []ChildLink
	for _, p := range pages {
		if !p.Live || p.PageType == model.PageTypeEventDetail {
			continue
		}
		links = append(links, ChildLink{Title: p.Title, URL: localeURL(localeCode, p.UrlPath), Intro: p.Intro})
		if len(links) == sectionChildren {
			break
		}
	}
	return links
}

// paginateSlice trims the look-ahead row and builds prev/next links.
func paginateSlice[T any](items []T, page, perPage int, baseURL string) ([]T, uikit.Pagination) {
	total := page
	if len(items) > perPage {
		items = items[:perPage]
		total = page + 1
	}
	return items, uikit.BuildPagination(page, total, 0, perPage, func(n int) string {
		return fmt.Sprintf("%s?page=%d", baseURL, n)
	})
}

func eventViews(localeCode string, pages []store.Page) []EventView {
	views := make([]EventView, 0, len(pages))
	for _, p := range pages {
		views = append(views, EventView{
			Title:           p.Title,
			URL:             localeURL(localeCode, p.UrlPath),
			Intro:           p.Intro,
			Start:           p.EventStart.Time,
			End:             util.PtrFromNullTime(p.EventEnd),
			Status:          p.EventStatus,
			LocationName:    p.LocationName,
			LocationAddress: p.LocationAddress,
			ImageURL:        p.ImageUrl,
			Lat:             util.PtrFromNullFloat64(p.LocationLat),
			Lon:             util.PtrFromNullFloat64(p.LocationLon),
		})
	}
	return views
}

// Search handles GET /{lang}/search.
func (h *FrontendHandler) Search(w http.ResponseWriter, r *http.Request) {
	locale := middleware.GetLanguage(r)
	q := r.URL.Query()

	result, err := h.search.Search(r.Context(), q.Get("q"), locale.Code, service.ParsePage(q.Get("page")))
	if err != nil {
		h.serverError(w, r, "searching", err, "query", q.Get("q"))
		return
	}

	base := "/" + locale.Code + "/search"
	view := SearchView{
		Result: result,
		Pagination: uikit.BuildPagination(result.Page, result.TotalPages, result.Total, service.SearchPageSize, func(n int) string {
			return fmt.Sprintf("%s?q=%s&page=%d", base, url.QueryEscape(result.Query), n)
		}),
	}

	data := h.baseData(r, locale, store.Page{Title: i18n.T(locale.Code, "search.title")})
	data.Meta.Robots = "noindex,follow"
	data.SearchQuery = result.Query
	data.Data = view
	if err := h.renderer.Render(w, r, "pages/search", data); err != nil {
		h.serverError(w, r, "rendering search", err)
	}
}

// NotFound renders the localized 404 page.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	locale := middleware.GetLanguage(r)
	if locale == nil {
		def, err := h.queries.GetDefaultLocale(r.Context())
		if err != nil {
			http.NotFound(w, r)
			return
		}
		locale = &def
	}

	data := h.baseData(r, locale, store.Page{Title: i18n.T(locale.Code, "error.not_found")})
	data.Meta.Robots = "noindex,nofollow"
	if err := h.renderer.RenderStatus(w, r, http.StatusNotFound, "pages/not_found", data); err != nil {
		h.logger.Error("rendering 404", "error", err)
		http.NotFound(w, r)
	}
}

func (h *FrontendHandler) serverError(w http.ResponseWriter, r *http.Request, msg string, err error, args ...any) {
	h.logger.Error(msg, append([]any{"error", err, "path", r.URL.Path}, args...)...)
	http.Error(w, i18n.T(middleware.LanguageCode(r, i18n.DefaultLanguage), "error.server"), http.StatusInternalServerError)
}

func localeURL(code, urlPath string) string {
	return "/" + code + urlPath
}

func absoluteURL(u, siteURL string) string {
	if u == "" || strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return siteURL + "/" + strings.TrimPrefix(u, "/")
}

func floatPtr(f float64) *float64 {
	if f == 0 {
		return nil
	}
	return &f
}
