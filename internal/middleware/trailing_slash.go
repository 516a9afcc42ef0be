// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"path"
	"strings"
)

// AppendSlash redirects GET and HEAD requests for page URLs without a
// trailing slash to the canonical form (HTTP 301). Paths whose last segment
// looks like a file, and paths listed in except, are left alone.
func AppendSlash(except ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := r.URL.Path
			if (r.Method != http.MethodGet && r.Method != http.MethodHead) ||
				strings.HasSuffix(p, "/") || strings.Contains(path.Base(p), ".") {
				next.ServeHTTP(w, r)
				return
			}
			for _, e := range except {
				if strings.HasSuffix(p, e) {
					next.ServeHTTP(w, r)
					return
				}
			}

			target := p + "/"
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusMovedPermanently)
		})
	}
}
