// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mccastellazzob/motoclub/internal/testutil"
)

func TestNew_DevMode(t *testing.T) {
	sm := New(testutil.TestDB(t), true)

	if sm.Store == nil {
		t.Fatal("expected Store to be initialized")
	}
	if sm.Cookie.Secure {
		t.Error("expected Cookie.Secure = false in dev mode")
	}
	if sm.Cookie.Name != "mc_session" {
		t.Errorf("Cookie.Name = %q, want mc_session", sm.Cookie.Name)
	}
}

func TestNew_ProductionMode(t *testing.T) {
	sm := New(testutil.TestDB(t), false)

	if !sm.Cookie.Secure {
		t.Error("expected Cookie.Secure = true in production mode")
	}
	if sm.Cookie.Name != "__Host-mc_session" {
		t.Errorf("Cookie.Name = %q, want __Host-mc_session", sm.Cookie.Name)
	}
	if sm.Cookie.Path != "/" {
		t.Errorf("Cookie.Path = %q, want /", sm.Cookie.Path)
	}
}

func TestNew_SessionSettings(t *testing.T) {
	sm := New(testutil.TestDB(t), true)

	if sm.Lifetime != Lifetime {
		t.Errorf("Lifetime = %v, want %v", sm.Lifetime, Lifetime)
	}
	if sm.IdleTimeout != IdleTimeout {
		t.Errorf("IdleTimeout = %v, want %v", sm.IdleTimeout, IdleTimeout)
	}
	if !sm.Cookie.HttpOnly {
		t.Error("expected Cookie.HttpOnly = true")
	}
	if sm.Cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want Lax", sm.Cookie.SameSite)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	sm := New(testutil.TestDB(t), true)

	put := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sm.Put(r.Context(), "editor_id", int64(42))
	}))
	rr := httptest.NewRecorder()
	put.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/login", nil))

	var got int64
	get := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = sm.GetInt64(r.Context(), "editor_id")
	}))
	req := httptest.NewRequest(http.MethodGet, "/admin/images/bulk", nil)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
	get.ServeHTTP(httptest.NewRecorder(), req)

	if got != 42 {
		t.Errorf("editor_id = %d, want 42 (stored in sqlite)", got)
	}
}
