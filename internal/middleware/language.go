// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/mccastellazzob/motoclub/internal/geoip"
	"github.com/mccastellazzob/motoclub/internal/store"
	"github.com/mccastellazzob/motoclub/internal/util"
)

// ContextKeyLanguage holds the resolved store.Locale.
const ContextKeyLanguage ContextKey = "language"

// LanguageCookieName is the cookie name for language preference.
const LanguageCookieName = "mc_lang"

// LanguageNegotiator picks a locale for visitors that did not name one in
// the URL.
type LanguageNegotiator struct {
	queries *store.Queries
	geo     *geoip.Lookup
	logger  *slog.Logger
}

// NewLanguageNegotiator creates a negotiator over the configured locales.
// geo may be nil.
func NewLanguageNegotiator(db *sql.DB, geo *geoip.Lookup, logger *slog.Logger) *LanguageNegotiator {
	return &LanguageNegotiator{queries: store.New(db), geo: geo, logger: logger}
}

// Negotiate resolves the visitor's language in priority order:
// 1. Query parameter ?lang=xx
// 2. Language cookie
// 3. Accept-Language header
// 4. GeoIP country of the client address
// 5. Default locale
//
// The second return value is true when the choice came from ?lang and should
// be remembered in the cookie.
func (n *LanguageNegotiator) Negotiate(r *http.Request) (store.Locale, bool, error) {
	locales, err := n.queries.ListLocales(r.Context())
	if err != nil {
		return store.Locale{}, false, err
	}
	if len(locales) == 0 {
		return store.Locale{}, false, sql.ErrNoRows
	}

	byCode := make(map[string]store.Locale, len(locales))
	fallback := locales[0]
	for _, l := range locales {
		byCode[l.Code] = l
		if l.IsDefault {
			fallback = l
		}
	}

	if q := strings.ToLower(r.URL.Query().Get("lang")); q != "" {
		if l, ok := byCode[q]; ok {
			return l, true, nil
		}
	}

	if c, err := r.Cookie(LanguageCookieName); err == nil {
		if l, ok := byCode[strings.ToLower(c.Value)]; ok {
			return l, false, nil
		}
	}

	if accept := r.Header.Get("Accept-Language"); accept != "" {
		if l, ok := matchAcceptLanguage(accept, locales); ok {
			return l, false, nil
		}
	}

	if n.geo != nil {
		if code := n.geo.Language(util.ClientIP(r)); code != "" {
			if l, ok := byCode[code]; ok {
				n.logger.Debug("language from geoip", "lang", code)
				return l, false, nil
			}
		}
	}

	return fallback, false, nil
}

// matchAcceptLanguage matches an Accept-Language header against the locale
// codes with x/text. Only exact or high-confidence matches count.
func matchAcceptLanguage(accept string, locales []store.Locale) (store.Locale, bool) {
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return store.Locale{}, false
	}

	supported := make([]language.Tag, 0, len(locales))
	valid := make([]store.Locale, 0, len(locales))
	for _, l := range locales {
		tag, err := language.Parse(l.Code)
		if err != nil {
			continue
		}
		supported = append(supported, tag)
		valid = append(valid, l)
	}
	if len(supported) == 0 {
		return store.Locale{}, false
	}

	_, idx, conf := language.NewMatcher(supported).Match(tags...)
	if conf < language.High {
		return store.Locale{}, false
	}
	return valid[idx], true
}

// URLLanguage loads the locale named by the {lang} route parameter into the
// request context and answers 404 for unknown codes.
func URLLanguage(db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := strings.ToLower(chi.URLParam(r, "lang"))
			locale, err := queries.GetLocaleByCode(r.Context(), code)
			if err != nil {
				http.NotFound(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithLanguage(r.Context(), locale)))
		})
	}
}

// WithLanguage returns a context carrying locale.
func WithLanguage(ctx context.Context, locale store.Locale) context.Context {
	return context.WithValue(ctx, ContextKeyLanguage, locale)
}

// GetLanguage retrieves the current locale from the request context.
// Returns nil if no language is in context.
func GetLanguage(r *http.Request) *store.Locale {
	locale, ok := r.Context().Value(ContextKeyLanguage).(store.Locale)
	if !ok {
		return nil
	}
	return &locale
}

// LanguageCode returns the current locale code, or def when none is set.
func LanguageCode(r *http.Request, def string) string {
	if l := GetLanguage(r); l != nil {
		return l.Code
	}
	return def
}

// SetLanguageCookie sets the language preference cookie.
func SetLanguageCookie(w http.ResponseWriter, langCode string) {
	http.SetCookie(w, &http.Cookie{
		Name:     LanguageCookieName,
		Value:    langCode,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
