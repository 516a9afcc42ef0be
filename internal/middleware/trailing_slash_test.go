// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAppendSlash(t *testing.T) {
	handler := AppendSlash("/search")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		method   string
		target   string
		wantCode int
		wantLoc  string
	}{
		{http.MethodGet, "/it/eventi", http.StatusMovedPermanently, "/it/eventi/"},
		{http.MethodGet, "/it/eventi?archivio=1", http.StatusMovedPermanently, "/it/eventi/?archivio=1"},
		{http.MethodGet, "/it/eventi/", http.StatusOK, ""},
		{http.MethodGet, "/it/search", http.StatusOK, ""},
		{http.MethodGet, "/it/brochure.pdf", http.StatusOK, ""},
		{http.MethodPost, "/it/chi-siamo/contatti", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.target, nil))

			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantCode)
			}
			if loc := rr.Header().Get("Location"); loc != tt.wantLoc {
				t.Errorf("Location = %q, want %q", loc, tt.wantLoc)
			}
		})
	}
}
