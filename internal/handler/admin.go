// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/mccastellazzob/motoclub/internal/i18n"
	"github.com/mccastellazzob/motoclub/internal/middleware"
	"github.com/mccastellazzob/motoclub/internal/render"
	"github.com/mccastellazzob/motoclub/internal/service"
	"github.com/mccastellazzob/motoclub/internal/store"
)

// recentEventsLimit is the number of event log rows on the dashboard.
const recentEventsLimit = 50

// DashboardStats holds the counters shown on the dashboard.
type DashboardStats struct {
	Pages        int64
	Contacts     int64
	Translations int64
}

// DashboardView holds data for the dashboard template.
type DashboardView struct {
	Editor store.Editor
	Stats  DashboardStats
	Events []store.Event
}

// AdminHandler handles the editor dashboard.
type AdminHandler struct {
	queries      *store.Queries
	renderer     *render.Renderer
	eventService *service.EventService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *sql.DB, renderer *render.Renderer) *AdminHandler {
	return &AdminHandler{
		queries:      store.New(db),
		renderer:     renderer,
		eventService: service.NewEventService(db),
	}
}

// Dashboard renders counters and the recent event log.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view := DashboardView{}
	if editor := middleware.GetEditor(r); editor != nil {
		view.Editor = *editor
	}

	var err error
	if view.Stats.Pages, err = h.queries.CountPages(ctx); err != nil {
		slog.Error("counting pages", "error", err)
	}
	if view.Stats.Contacts, err = h.queries.CountContactSubmissions(ctx); err != nil {
		slog.Error("counting contact submissions", "error", err)
	}
	if view.Stats.Translations, err = h.queries.CountTranslations(ctx); err != nil {
		slog.Error("counting translations", "error", err)
	}
	if view.Events, err = h.eventService.Recent(ctx, recentEventsLimit); err != nil {
		slog.Error("listing events", "error", err)
	}

	data := render.TemplateData{
		Title: i18n.T(adminLang, "admin.dashboard"),
		Lang:  adminLang,
		Data:  view,
	}
	if err := h.renderer.Render(w, r, "admin/dashboard", data); err != nil {
		logAndInternalError(w, "rendering dashboard", "error", err)
	}
}
