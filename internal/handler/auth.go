// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/mccastellazzob/motoclub/internal/auth"
	"github.com/mccastellazzob/motoclub/internal/i18n"
	"github.com/mccastellazzob/motoclub/internal/middleware"
	"github.com/mccastellazzob/motoclub/internal/model"
	"github.com/mccastellazzob/motoclub/internal/render"
	"github.com/mccastellazzob/motoclub/internal/service"
	"github.com/mccastellazzob/motoclub/internal/store"
)

// adminLang is the editor interface language.
const adminLang = i18n.DefaultLanguage

// Editor routes
const (
	redirectAdmin = "/admin/"
	redirectLogin = middleware.LoginPath
)

// LoginView holds data for the login template.
type LoginView struct {
	Email string
}

// AuthHandler handles editor authentication routes.
type AuthHandler struct {
	queries         *store.Queries
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	eventService    *service.EventService
	loginProtection *middleware.LoginProtection
	now             func() time.Time
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		queries:         store.New(db),
		renderer:        renderer,
		sessionManager:  sm,
		eventService:    service.NewEventService(db),
		loginProtection: lp,
		now:             time.Now,
	}
}

// LoginForm renders the login page. Signed-in editors go to the dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyEditorID) > 0 {
		http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
		return
	}

	data := render.TemplateData{
		Title: i18n.T(adminLang, "admin.login_title"),
		Lang:  adminLang,
		Data:  LoginView{},
	}
	if err := h.renderer.Render(w, r, "admin/login", data); err != nil {
		logAndInternalError(w, "rendering login", "error", err)
	}
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, redirectLogin, i18n.T(adminLang, "admin.invalid_credentials"))
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		flashError(w, r, h.renderer, redirectLogin, i18n.T(adminLang, "admin.invalid_credentials"))
		return
	}

	clientIP := middleware.GetClientIP(r)
	meta := map[string]any{"email": email, "ip": clientIP}

	if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
		_ = h.eventService.LogEvent(ctx, model.EventLevelWarning, model.EventCategoryAuth, "Login attempt on locked account", meta)
		flashError(w, r, h.renderer, redirectLogin, i18n.T(adminLang, "admin.locked", formatDuration(remaining)))
		return
	}

	editor, err := h.queries.GetEditorByEmail(ctx, auth.NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("database error during login", "error", err)
		}
		auth.SimulateCheck(password)
		// Unknown accounts count too, so probing cannot enumerate editors
		h.failLogin(w, r, email, meta, "Login failed: unknown editor")
		return
	}

	valid, err := auth.CheckPassword(password, editor.PasswordHash)
	if err != nil {
		slog.Error("password check error", "error", err, "editor_id", editor.ID)
	}
	if !valid {
		h.failLogin(w, r, email, meta, "Login failed: invalid password")
		return
	}

	h.loginProtection.RecordSuccessfulLogin(email)

	hash := editor.PasswordHash
	if auth.NeedsRehash(hash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			hash = newHash
			slog.Info("password re-hashed with updated parameters", "editor_id", editor.ID)
		}
	}
	if err := h.queries.UpdateEditorLogin(ctx, store.UpdateEditorLoginParams{
		LastLoginAt:  sql.NullTime{Time: h.now(), Valid: true},
		PasswordHash: hash,
		ID:           editor.ID,
	}); err != nil {
		slog.Error("failed to update last login time", "error", err, "editor_id", editor.ID)
	}

	// Regenerate session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(ctx); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}
	h.sessionManager.Put(ctx, middleware.SessionKeyEditorID, editor.ID)

	slog.Info("editor logged in", "editor_id", editor.ID, "email", editor.Email)
	_ = h.eventService.LogInfo(ctx, model.EventCategoryAuth, "Editor logged in", meta)

	http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
}

func (h *AuthHandler) failLogin(w http.ResponseWriter, r *http.Request, email string, meta map[string]any, event string) {
	_ = h.eventService.LogEvent(r.Context(), model.EventLevelWarning, model.EventCategoryAuth, event, meta)

	if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
		flashError(w, r, h.renderer, redirectLogin, i18n.T(adminLang, "admin.locked", formatDuration(lockDuration)))
		return
	}
	flashError(w, r, h.renderer, redirectLogin, i18n.T(adminLang, "admin.invalid_credentials"))
}

// Logout destroys the editor session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	editorID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyEditorID)
	if editorID > 0 {
		_ = h.eventService.LogInfo(r.Context(), model.EventCategoryAuth, "Editor logged out", map[string]any{"editor_id": editorID})
	}

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	flashAndRedirect(w, r, h.renderer, redirectLogin, i18n.T(adminLang, "admin.logged_out"), "info")
}

// formatDuration formats a lockout duration for messages.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%d min", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}
