// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/mccastellazzob/motoclub/internal/middleware"
	"github.com/mccastellazzob/motoclub/internal/uikit"
	"github.com/mccastellazzob/motoclub/internal/version"
)

// dbCheckTimeout bounds the database ping.
const dbCheckTimeout = 2 * time.Second

// HealthHandler handles health check requests.
type HealthHandler struct {
	db         *sql.DB
	sm         *scs.SessionManager
	uploadsDir string
	version    version.Info
	startTime  time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *sql.DB, sm *scs.SessionManager, uploadsDir string, info version.Info) *HealthHandler {
	return &HealthHandler{
		db:         db,
		sm:         sm,
		uploadsDir: uploadsDir,
		version:    info,
		startTime:  time.Now(),
	}
}

// HealthStatusPublic is the minimal health response for anonymous callers.
type HealthStatusPublic struct {
	Status string `json:"status"`
}

// HealthStatus is the detailed response for signed-in editors.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains runtime information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	MemAlloc     string `json:"mem_alloc"`
}

// Health handles GET /health. Anonymous callers only get the status.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbCheck := h.checkDatabase(r.Context())
	uploadsCheck := h.checkUploads()

	overall := "healthy"
	if dbCheck.Status != "healthy" || uploadsCheck.Status != "healthy" {
		overall = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if overall != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	if !h.isEditor(r) {
		_ = json.NewEncoder(w).Encode(HealthStatusPublic{Status: overall})
		return
	}

	status := HealthStatus{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version.String(),
		Checks: map[string]Check{
			"database": dbCheck,
			"uploads":  uploadsCheck,
		},
	}
	if r.URL.Query().Get("verbose") == "true" {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		status.System = &SystemInfo{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			MemAlloc:     uikit.FormatBytes(int64(m.Alloc)),
		}
	}
	_ = json.NewEncoder(w).Encode(status)
}

// isEditor reports whether the request carries an editor session. SCS
// panics when the session was not loaded, which counts as anonymous.
func (h *HealthHandler) isEditor(r *http.Request) (ok bool) {
	if h.sm == nil {
		return false
	}
	defer func() {
		if rec := recover(); rec != nil {
			ok = false
		}
	}()
	return h.sm.GetInt64(r.Context(), middleware.SessionKeyEditorID) > 0
}

func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, dbCheckTimeout)
	defer cancel()

	start := time.Now()
	err := h.db.PingContext(ctx)
	latency := time.Since(start).String()
	if err != nil {
		return Check{Status: "unhealthy", Message: err.Error(), Latency: latency}
	}
	return Check{Status: "healthy", Message: "Connected", Latency: latency}
}

// checkUploads verifies the uploads directory is writable.
func (h *HealthHandler) checkUploads() Check {
	info, err := os.Stat(h.uploadsDir)
	if os.IsNotExist(err) {
		return Check{Status: "healthy", Message: "Uploads directory does not exist yet"}
	}
	if err != nil {
		return Check{Status: "unhealthy", Message: err.Error()}
	}
	if !info.IsDir() {
		return Check{Status: "unhealthy", Message: "Uploads path is not a directory"}
	}

	f, err := os.CreateTemp(h.uploadsDir, ".health-*")
	if err != nil {
		return Check{Status: "unhealthy", Message: "Uploads directory is not writable"}
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return Check{Status: "healthy", Message: "Writable"}
}
