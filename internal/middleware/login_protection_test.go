// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// testLoginProtection returns a protection instance driven by a fake clock.
func testLoginProtection(maxAttempts int, lockout, window time.Duration) (*LoginProtection, *time.Time) {
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       10,
		IPBurst:           100,
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   lockout,
		AttemptWindow:     window,
	})
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	lp.now = func() time.Time { return now }
	return lp, &now
}

func TestDefaultLoginProtectionConfig(t *testing.T) {
	cfg := DefaultLoginProtectionConfig()

	if cfg.IPRateLimit != 0.5 {
		t.Errorf("IPRateLimit = %v, want 0.5", cfg.IPRateLimit)
	}
	if cfg.IPBurst != 5 {
		t.Errorf("IPBurst = %d, want 5", cfg.IPBurst)
	}
	if cfg.MaxFailedAttempts != 5 {
		t.Errorf("MaxFailedAttempts = %d, want 5", cfg.MaxFailedAttempts)
	}
	if cfg.LockoutDuration != 15*time.Minute {
		t.Errorf("LockoutDuration = %v, want 15m", cfg.LockoutDuration)
	}
}

func TestNewLoginProtectionDefaultValues(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{})

	if lp.maxFailedAttempts != 5 {
		t.Errorf("maxFailedAttempts = %d, want 5", lp.maxFailedAttempts)
	}
	if lp.lockoutDuration != 15*time.Minute {
		t.Errorf("lockoutDuration = %v, want 15m", lp.lockoutDuration)
	}
}

func TestLoginProtectionLockout(t *testing.T) {
	lp, _ := testLoginProtection(3, time.Minute, time.Hour)
	email := "editor@example.org"

	if locked, _ := lp.IsAccountLocked(email); locked {
		t.Fatal("fresh account should not be locked")
	}

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	if got := lp.GetRemainingAttempts(email); got != 1 {
		t.Errorf("GetRemainingAttempts() = %d, want 1", got)
	}

	locked, d := lp.RecordFailedAttempt(email)
	if !locked || d != time.Minute {
		t.Fatalf("RecordFailedAttempt() = (%v, %v), want (true, 1m)", locked, d)
	}
	if locked, remaining := lp.IsAccountLocked("Editor@Example.org "); !locked || remaining != time.Minute {
		t.Errorf("IsAccountLocked() = (%v, %v), want (true, 1m), keys are case-insensitive", locked, remaining)
	}
}

func TestLoginProtectionExponentialBackoff(t *testing.T) {
	lp, now := testLoginProtection(2, time.Minute, time.Hour)
	email := "editor@example.org"

	lp.RecordFailedAttempt(email)
	_, first := lp.RecordFailedAttempt(email)

	*now = now.Add(2 * time.Minute)
	lp.RecordFailedAttempt(email)
	_, second := lp.RecordFailedAttempt(email)

	if first != time.Minute || second != 2*time.Minute {
		t.Errorf("lockouts = %v, %v, want 1m, 2m", first, second)
	}
}

func TestLoginProtectionSuccessClears(t *testing.T) {
	lp, _ := testLoginProtection(5, time.Minute, time.Hour)
	email := "editor@example.org"

	lp.RecordFailedAttempt(email)
	lp.RecordSuccessfulLogin(email)

	if got := lp.GetRemainingAttempts(email); got != 5 {
		t.Errorf("GetRemainingAttempts() = %d, want 5", got)
	}
}

func TestLoginProtectionAttemptWindowReset(t *testing.T) {
	lp, now := testLoginProtection(5, time.Minute, 10*time.Minute)
	email := "editor@example.org"

	lp.RecordFailedAttempt(email)
	if got := lp.GetRemainingAttempts(email); got != 4 {
		t.Errorf("GetRemainingAttempts() = %d, want 4", got)
	}

	*now = now.Add(11 * time.Minute)
	if got := lp.GetRemainingAttempts(email); got != 5 {
		t.Errorf("GetRemainingAttempts() after window = %d, want 5", got)
	}
	if removed := lp.Prune(); removed != 1 {
		t.Errorf("Prune() = %d, want 1", removed)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xForwarded string
		xRealIP    string
		want       string
	}{
		{"simple remote addr", "192.168.1.1:12345", "", "", "192.168.1.1"},
		{"X-Forwarded-For multiple", "127.0.0.1:8080", "10.0.0.1, 10.0.0.2", "", "10.0.0.1"},
		{"X-Real-IP", "127.0.0.1:8080", "", "10.0.0.5", "10.0.0.5"},
		{"X-Forwarded-For wins", "127.0.0.1:8080", "10.0.0.1", "10.0.0.5", "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xForwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.xForwarded)
			}
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}
			if got := GetClientIP(req); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginProtectionMiddleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 1})
	wrapped := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, LoginPath, nil)
	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("GET status = %d, want 200", rr.Code)
	}

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req = httptest.NewRequest(http.MethodPost, LoginPath, nil)
		rr = httptest.NewRecorder()
		wrapped.ServeHTTP(rr, req)
		if rr.Code != want {
			t.Errorf("POST %d status = %d, want %d", i+1, rr.Code, want)
		}
	}
}
