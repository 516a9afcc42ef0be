// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mccastellazzob/motoclub/internal/store"
	"github.com/mccastellazzob/motoclub/internal/testutil"
)

func TestMatchAcceptLanguage(t *testing.T) {
	locales := []store.Locale{
		{ID: 1, Code: "it", IsDefault: true},
		{ID: 2, Code: "en"},
		{ID: 3, Code: "fr"},
	}

	tests := []struct {
		accept   string
		wantCode string
		wantOK   bool
	}{
		{"en", "en", true},
		{"fr;q=0.9", "fr", true},
		{"de,en;q=0.9,fr;q=0.8", "en", true},
		{"en-US", "en", true},
		{"fr-BE,en;q=0.5", "fr", true},
		{"EN-GB", "en", true},
		{"de,es", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.accept, func(t *testing.T) {
			got, ok := matchAcceptLanguage(tt.accept, locales)
			if ok != tt.wantOK {
				t.Fatalf("matchAcceptLanguage(%q) ok = %v, want %v", tt.accept, ok, tt.wantOK)
			}
			if ok && got.Code != tt.wantCode {
				t.Errorf("matchAcceptLanguage(%q) = %q, want %q", tt.accept, got.Code, tt.wantCode)
			}
		})
	}
}

func TestNegotiate(t *testing.T) {
	db := testutil.TestDB(t)
	n := NewLanguageNegotiator(db, nil, testutil.TestLogger())

	tests := []struct {
		name         string
		target       string
		cookie       string
		accept       string
		wantCode     string
		wantRemember bool
	}{
		{"default", "/", "", "", "it", false},
		{"query wins", "/?lang=fr", "en", "en", "fr", true},
		{"unknown query ignored", "/?lang=xx", "en", "", "en", false},
		{"cookie before header", "/", "fr", "en", "fr", false},
		{"accept-language", "/", "", "en-GB,it;q=0.5", "en", false},
		{"unsupported header", "/", "", "de", "it", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LanguageCookieName, Value: tt.cookie})
			}
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}

			locale, remember, err := n.Negotiate(req)
			if err != nil {
				t.Fatalf("Negotiate() error: %v", err)
			}
			if locale.Code != tt.wantCode {
				t.Errorf("Negotiate() = %q, want %q", locale.Code, tt.wantCode)
			}
			if remember != tt.wantRemember {
				t.Errorf("remember = %v, want %v", remember, tt.wantRemember)
			}
		})
	}
}

func TestURLLanguage(t *testing.T) {
	db := testutil.TestDB(t)

	r := chi.NewRouter()
	r.Route("/{lang}", func(r chi.Router) {
		r.Use(URLLanguage(db))
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(LanguageCode(r, "")))
		})
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/en/", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "en" {
		t.Errorf("GET /en/ = %d %q, want 200 \"en\"", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/xx/", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("GET /xx/ = %d, want 404", rr.Code)
	}
}

func TestGetLanguage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if GetLanguage(req) != nil {
		t.Error("GetLanguage() without context should be nil")
	}
	if got := LanguageCode(req, "it"); got != "it" {
		t.Errorf("LanguageCode() = %q, want default", got)
	}

	req = req.WithContext(WithLanguage(req.Context(), store.Locale{ID: 2, Code: "en"}))
	if l := GetLanguage(req); l == nil || l.Code != "en" {
		t.Errorf("GetLanguage() = %v, want en", l)
	}
}

func TestSetLanguageCookie(t *testing.T) {
	rr := httptest.NewRecorder()
	SetLanguageCookie(rr, "fr")

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != LanguageCookieName || c.Value != "fr" || c.Path != "/" || !c.HttpOnly {
		t.Errorf("cookie = %+v", c)
	}
}
