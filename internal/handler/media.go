// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/mccastellazzob/motoclub/internal/i18n"
	"github.com/mccastellazzob/motoclub/internal/model"
	"github.com/mccastellazzob/motoclub/internal/render"
	"github.com/mccastellazzob/motoclub/internal/service"
	"github.com/mccastellazzob/motoclub/internal/store"
)

// Bulk upload limits
const (
	maxBulkFiles    = 50
	maxBulkBodySize = maxBulkFiles * service.MaxUploadSize
	bulkFormMemory  = 32 << 20
	bulkUploadPath  = "/admin/images/bulk"
)

// BulkUploadView holds data for the bulk upload template.
type BulkUploadView struct {
	Prefix     string
	Collection string
	Saved      []ImageView
	Errors     []string
}

// MediaHandler handles image uploads from the editor pages.
type MediaHandler struct {
	renderer     *render.Renderer
	media        *service.MediaService
	eventService *service.EventService
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(db *sql.DB, renderer *render.Renderer, media *service.MediaService) *MediaHandler {
	return &MediaHandler{
		renderer:     renderer,
		media:        media,
		eventService: service.NewEventService(db),
	}
}

// BulkForm renders the bulk upload form.
func (h *MediaHandler) BulkForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, BulkUploadView{})
}

// BulkUpload optimizes and stores every posted image under one prefix.
func (h *MediaHandler) BulkUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBulkBodySize)
	if err := r.ParseMultipartForm(bulkFormMemory); err != nil {
		slog.Warn("parsing bulk upload", "error", err)
		flashError(w, r, h.renderer, bulkUploadPath, i18n.T(adminLang, "admin.upload_errors"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	view := BulkUploadView{
		Prefix:     strings.TrimSpace(r.PostFormValue("prefix")),
		Collection: strings.TrimSpace(r.PostFormValue("collection")),
	}
	headers := r.MultipartForm.File["images"]
	if len(headers) > maxBulkFiles {
		headers = headers[:maxBulkFiles]
	}

	files := make([]service.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			view.Errors = append(view.Errors, fh.Filename+": "+err.Error())
			continue
		}
		defer func(f multipart.File) { _ = f.Close() }(f)
		files = append(files, service.UploadFile{Name: fh.Filename, Reader: f})
	}

	result, err := h.media.BulkUpload(r.Context(), view.Prefix, view.Collection, files)
	if err != nil {
		logAndInternalError(w, "bulk upload", "error", err)
		return
	}

	for _, img := range result.Saved {
		view.Saved = append(view.Saved, imageView(img))
	}
	for _, e := range result.Errors {
		view.Errors = append(view.Errors, e.Error())
	}

	slog.Info("bulk upload finished", "prefix", view.Prefix, "saved", len(result.Saved), "failed", len(result.Errors))
	_ = h.eventService.LogInfo(r.Context(), model.EventCategoryMedia, "Bulk upload", map[string]any{
		"prefix": view.Prefix,
		"saved":  len(result.Saved),
		"failed": len(result.Errors),
	})

	status := http.StatusOK
	if len(view.Saved) == 0 && len(view.Errors) > 0 {
		status = http.StatusUnprocessableEntity
	}
	h.render(w, r, status, view)
}

func (h *MediaHandler) render(w http.ResponseWriter, r *http.Request, status int, view BulkUploadView) {
	data := render.TemplateData{
		Title: i18n.T(adminLang, "admin.bulk_title"),
		Lang:  adminLang,
		Data:  view,
	}
	if err := h.renderer.RenderStatus(w, r, status, "admin/bulk", data); err != nil {
		logAndInternalError(w, "rendering bulk upload", "error", err)
	}
}

func imageView(img store.Image) ImageView {
	return ImageView{URL: service.ImageURL(img), Title: img.Title, Width: img.Width, Height: img.Height}
}
