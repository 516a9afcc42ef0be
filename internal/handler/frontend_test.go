// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mccastellazzob/motoclub/internal/antispam"
	"github.com/mccastellazzob/motoclub/internal/cache"
	"github.com/mccastellazzob/motoclub/internal/config"
	"github.com/mccastellazzob/motoclub/internal/mailer"
	"github.com/mccastellazzob/motoclub/internal/middleware"
	"github.com/mccastellazzob/motoclub/internal/model"
	"github.com/mccastellazzob/motoclub/internal/service"
	"github.com/mccastellazzob/motoclub/internal/store"
	"github.com/mccastellazzob/motoclub/internal/testutil"
)

const testSecret = "test-Secret-key-32-bytes-long!!!"

// fakeSender records contact messages instead of sending them.
type fakeSender struct {
	mu   sync.Mutex
	sent []mailer.ContactMessage
	err  error
}

func (f *fakeSender) SendContact(_ context.Context, msg mailer.ContactMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type siteFixture struct {
	db       *sql.DB
	tree     testutil.Tree
	frontend *FrontendHandler
	contact  *ContactHandler
	sender   *fakeSender
	guard    *antispam.Guard
	router   http.Handler
	now      time.Time
}

// newSiteFixture builds the public site over a home tree in every locale,
// routed the way the server routes it.
func newSiteFixture(t *testing.T) *siteFixture {
	t.Helper()

	db := testDB(t)
	sm := testSessionManager(t)
	logger := testutil.TestLogger()

	mc := cache.NewMemoryCache(cache.MemoryOptions{DefaultTTL: time.Hour})
	t.Cleanup(func() { _ = mc.Close() })

	f := &siteFixture{
		db:     db,
		tree:   testutil.HomeTree(t, db),
		sender: &fakeSender{},
		guard:  antispam.NewGuard(testSecret),
		now:    time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC),
	}

	f.contact = NewContactHandler(db, f.guard, f.sender, logger)
	f.contact.now = func() time.Time { return f.now }

	f.frontend = NewFrontendHandler(FrontendConfig{
		DB:         db,
		Renderer:   testRenderer(t, sm),
		Menu:       service.NewMenuService(db, mc),
		Search:     service.NewSearchService(db),
		Negotiator: middleware.NewLanguageNegotiator(db, nil, logger),
		Contact:    f.contact,
		Site:       config.DefaultSite(),
		SiteURL:    "https://example.org",
		Logger:     logger,
	})
	f.frontend.now = func() time.Time { return f.now }

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Get("/", f.frontend.Root)
	r.Route("/{lang}", func(r chi.Router) {
		r.Use(middleware.URLLanguage(db))
		r.Get("/search", f.frontend.Search)
		r.Get("/*", f.frontend.Page)
		r.Post("/*", f.frontend.Submit)
	})
	r.NotFound(f.frontend.NotFound)
	f.router = r

	return f
}

func (f *siteFixture) addPage(t *testing.T, parent store.Page, arg store.NewPageParams) store.Page {
	t.Helper()
	if arg.LocaleID == 0 {
		arg.LocaleID = parent.LocaleID
	}
	return testutil.AddPage(t, f.db, &parent, arg)
}

func (f *siteFixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestRoot_RedirectsToNegotiatedLanguage(t *testing.T) {
	f := newSiteFixture(t)

	tests := []struct {
		name       string
		target     string
		accept     string
		wantLoc    string
		wantCookie bool
	}{
		{"default", "/", "", "/it/", false},
		{"accept-language", "/", "fr-FR,fr;q=0.9", "/fr/", false},
		{"query wins", "/?lang=en", "fr", "/en/", true},
		{"unknown query ignored", "/?lang=de", "", "/it/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			w := f.do(req)

			assertStatus(t, w.Code, http.StatusFound)
			if got := w.Header().Get("Location"); got != tt.wantLoc {
				t.Errorf("Location = %q; want %q", got, tt.wantLoc)
			}
			hasCookie := strings.Contains(w.Header().Get("Set-Cookie"), middleware.LanguageCookieName+"=")
			if hasCookie != tt.wantCookie {
				t.Errorf("language cookie set = %v; want %v", hasCookie, tt.wantCookie)
			}
		})
	}
}

func TestRoot_CookieBeatsAcceptLanguage(t *testing.T) {
	f := newSiteFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "fr")
	req.AddCookie(&http.Cookie{Name: middleware.LanguageCookieName, Value: "en"})
	w := f.do(req)

	assertStatus(t, w.Code, http.StatusFound)
	if got := w.Header().Get("Location"); got != "/en/" {
		t.Errorf("Location = %q; want /en/", got)
	}
}

func TestPage_Home(t *testing.T) {
	f := newSiteFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/it/", nil))

	assertStatus(t, w.Code, http.StatusOK)
	body := w.Body.String()
	if !strings.Contains(body, `<html lang="it"`) {
		t.Error("expected lang attribute it")
	}
	if !strings.Contains(body, "application/ld+json") {
		t.Error("expected JSON-LD block")
	}
	if !strings.Contains(body, "SportsClub") {
		t.Error("expected SportsClub structured data on the home page")
	}
	if !strings.Contains(body, `hreflang="en"`) {
		t.Error("expected hreflang alternate for en")
	}
}

func TestPage_UnknownLanguage(t *testing.T) {
	f := newSiteFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/de/", nil))
	assertStatus(t, w.Code, http.StatusNotFound)
}

func TestPage_NotFound(t *testing.T) {
	f := newSiteFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/it/non-esiste/", nil))

	assertStatus(t, w.Code, http.StatusNotFound)
	if !strings.Contains(w.Body.String(), "noindex") {
		t.Error("expected noindex on 404 page")
	}
}

func TestPage_NotLive(t *testing.T) {
	f := newSiteFixture(t)
	f.addPage(t, f.tree.Homes["it"], store.NewPageParams{
		Slug:     "bozza",
		Title:    "Bozza",
		PageType: model.PageTypeAbout,
	})

	w := f.do(httptest.NewRequest(http.MethodGet, "/it/bozza/", nil))
	assertStatus(t, w.Code, http.StatusNotFound)
}

func TestPage_EventDetail(t *testing.T) {
	f := newSiteFixture(t)
	events := f.addPage(t, f.tree.Homes["it"], store.NewPageParams{
		Slug:     "eventi",
		Title:    "Eventi",
		PageType: model.PageTypeEvents,
		Live:     true,
	})
	start := f.now.Add(72 * time.Hour)
	f.addPage(t, events, store.NewPageParams{
		Slug:            "raduno",
		Title:           "Raduno di primavera",
		PageType:        model.PageTypeEventDetail,
		Live:            true,
		EventStart:      sql.NullTime{Time: start, Valid: true},
		EventStatus:     model.EventCancelled,
		LocationName:    "Piazza Vittorio Emanuele",
		LocationAddress: "Castellazzo Bormida",
		LocationLat:     sql.NullFloat64{Float64: 44.8456, Valid: true},
		LocationLon:     sql.NullFloat64{Float64: 8.5781, Valid: true},
	})

	w := f.do(httptest.NewRequest(http.MethodGet, "/it/eventi/raduno/", nil))

	assertStatus(t, w.Code, http.StatusOK)
	body := w.Body.String()
	for _, want := range []string{"Raduno di primavera", `"@type": "Event"`, "EventCancelled", "BreadcrumbList"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}

	w = f.do(httptest.NewRequest(http.MethodGet, "/it/eventi/", nil))
	assertStatus(t, w.Code, http.StatusOK)
	if !strings.Contains(w.Body.String(), "Raduno di primavera") {
		t.Error("events listing should include the upcoming event")
	}
	if !strings.Contains(w.Body.String(), "ItemList") {
		t.Error("events listing should carry ItemList structured data")
	}
}

func TestPage_EventDetailWithoutDate(t *testing.T) {
	f := newSiteFixture(t)
	f.addPage(t, f.tree.Homes["it"], store.NewPageParams{
		Slug:     "gita",
		Title:    "Gita da definire",
		PageType: model.PageTypeEventDetail,
		Live:     true,
	})

	w := f.do(httptest.NewRequest(http.MethodGet, "/it/gita/", nil))

	assertStatus(t, w.Code, http.StatusOK)
	body := w.Body.String()
	if strings.Contains(body, `"@type": "Event"`) || strings.Contains(body, "0001-01-01") {
		t.Error("event without a start date must not carry Event structured data")
	}
	if !strings.Contains(body, "BreadcrumbList") {
		t.Error("breadcrumbs should still be emitted")
	}
}

func TestSubmit_NotContactPage(t *testing.T) {
	f := newSiteFixture(t)

	w := f.do(httptest.NewRequest(http.MethodPost, "/it/", strings.NewReader("")))

	assertStatus(t, w.Code, http.StatusMethodNotAllowed)
	if got := w.Header().Get("Allow"); got != http.MethodGet {
		t.Errorf("Allow = %q; want GET", got)
	}
}

func TestSearch(t *testing.T) {
	f := newSiteFixture(t)
	f.addPage(t, f.tree.Homes["it"], store.NewPageParams{
		Slug:     "storia",
		Title:    "La nostra storia",
		PageType: model.PageTypeAbout,
		Body:     "<p>Il club nasce a Castellazzo nel 1970.</p>",
		Live:     true,
	})

	t.Run("results in locale", func(t *testing.T) {
		w := f.do(httptest.NewRequest(http.MethodGet, "/it/search?q=storia", nil))
		assertStatus(t, w.Code, http.StatusOK)
		body := w.Body.String()
		if !strings.Contains(body, "/it/storia/") {
			t.Error("expected link to the matching page")
		}
		if !strings.Contains(body, "noindex,follow") {
			t.Error("search results should not be indexed")
		}
	})

	t.Run("falls back to all locales", func(t *testing.T) {
		w := f.do(httptest.NewRequest(http.MethodGet, "/en/search?q=storia", nil))
		assertStatus(t, w.Code, http.StatusOK)
		if !strings.Contains(w.Body.String(), "/it/storia/") {
			t.Error("expected cross-locale result")
		}
	})

	t.Run("empty query", func(t *testing.T) {
		w := f.do(httptest.NewRequest(http.MethodGet, "/it/search", nil))
		assertStatus(t, w.Code, http.StatusOK)
	})
}

func TestPageURLPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/", "/"},
		{"eventi", "/eventi/"},
		{"eventi/raduno/", "/eventi/raduno/"},
	}
	for _, tt := range tests {
		if got := pageURLPath(tt.in); got != tt.want {
			t.Errorf("pageURLPath(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/media/a.jpg", "https://example.org/media/a.jpg"},
		{"media/a.jpg", "https://example.org/media/a.jpg"},
		{"https://cdn.example.org/a.jpg", "https://cdn.example.org/a.jpg"},
	}
	for _, tt := range tests {
		if got := absoluteURL(tt.in, "https://example.org"); got != tt.want {
			t.Errorf("absoluteURL(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
