// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mccastellazzob/motoclub/internal/session"
	"github.com/mccastellazzob/motoclub/internal/store"
	"github.com/mccastellazzob/motoclub/internal/testutil"
)

func TestGetEditor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if GetEditor(req) != nil {
		t.Error("GetEditor() without context should be nil")
	}

	ctx := context.WithValue(req.Context(), ContextKeyEditor, store.Editor{ID: 7, Email: "ed@example.org"})
	editor := GetEditor(req.WithContext(ctx))
	if editor == nil || editor.ID != 7 {
		t.Errorf("GetEditor() = %v, want editor 7", editor)
	}
}

func TestRequireEditor(t *testing.T) {
	db := testutil.TestDB(t)
	sm := session.New(db, true)

	editor, err := store.New(db).CreateEditor(context.Background(), store.CreateEditorParams{
		Email:        "ed@example.org",
		Name:         "Ed",
		PasswordHash: "x",
		CreatedAt:    time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateEditor: %v", err)
	}

	protected := RequireEditor(sm, db)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetEditor(r).Email))
	}))

	login := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sm.Put(r.Context(), SessionKeyEditorID, editor.ID)
	})

	// Anonymous request is redirected
	rr := httptest.NewRecorder()
	sm.LoadAndSave(protected).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/images/bulk", nil))
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != LoginPath {
		t.Fatalf("anonymous = %d %q, want redirect to login", rr.Code, rr.Header().Get("Location"))
	}

	// Sign in and reuse the session cookie
	rr = httptest.NewRecorder()
	sm.LoadAndSave(login).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, LoginPath, nil))
	cookies := rr.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login did not set a session cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/images/bulk", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr = httptest.NewRecorder()
	sm.LoadAndSave(protected).ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || rr.Body.String() != "ed@example.org" {
		t.Errorf("signed in = %d %q", rr.Code, rr.Body.String())
	}
}

func TestRequestPath(t *testing.T) {
	var got string
	handler := RequestPath(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetRequestPath(r.Context())
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/it/eventi/", nil))
	if got != "/it/eventi/" {
		t.Errorf("GetRequestPath() = %q", got)
	}
}
