// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for editor authentication,
// language negotiation, rate limiting and response headers.
package middleware

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/mccastellazzob/motoclub/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for editor data.
const (
	ContextKeyEditor      ContextKey = "editor"
	ContextKeyRequestPath ContextKey = "request_path"
)

// SessionKeyEditorID stores the signed-in editor in the session.
const SessionKeyEditorID = "editor_id"

// LoginPath is where unauthenticated editors are sent.
const LoginPath = "/admin/login"

// RequireEditor redirects to the login page unless an editor is signed in,
// then loads the editor into the request context.
func RequireEditor(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			editorID := sm.GetInt64(r.Context(), SessionKeyEditorID)
			if editorID == 0 {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			editor, err := queries.GetEditor(r.Context(), editorID)
			if err != nil {
				// Stale session for a removed editor
				_ = sm.Destroy(r.Context())
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyEditor, editor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetEditor retrieves the signed-in editor from the request context.
// Returns nil if no editor is in context.
func GetEditor(r *http.Request) *store.Editor {
	editor, ok := r.Context().Value(ContextKeyEditor).(store.Editor)
	if !ok {
		return nil
	}
	return &editor
}

// RequestPath stores the request path in the context so log records
// written deeper in the stack can include it.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, _ := ctx.Value(ContextKeyRequestPath).(string)
	return path
}
