// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testSecret = "test-Secret-key-32-bytes-long!!!"

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	setEnv(t, "MC_SECRET_KEY", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/motoclub.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/motoclub.db")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if cfg.Translator != TranslatorLibre {
		t.Errorf("Translator = %q, want %q", cfg.Translator, TranslatorLibre)
	}
	if cfg.SourceLanguage != "it" {
		t.Errorf("SourceLanguage = %q, want %q", cfg.SourceLanguage, "it")
	}
	if cfg.TranslateTimeout != 30*time.Second {
		t.Errorf("TranslateTimeout = %v, want 30s", cfg.TranslateTimeout)
	}
	if cfg.SyncCron != "" {
		t.Errorf("SyncCron = %q, want empty", cfg.SyncCron)
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}
	if cfg.MailEnabled() {
		t.Error("MailEnabled() = true, want false")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	setEnv(t, "MC_SECRET_KEY", testSecret)
	setEnv(t, "MC_SERVER_HOST", "0.0.0.0")
	setEnv(t, "MC_SERVER_PORT", "3000")
	setEnv(t, "MC_ENV", "production")
	setEnv(t, "MC_SITE_URL", "https://example.org/")
	setEnv(t, "MC_SMTP_ADDR", "smtp.example.org:587")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "0.0.0.0:3000")
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}
	if cfg.SiteURL != "https://example.org" {
		t.Errorf("SiteURL = %q, want trailing slash trimmed", cfg.SiteURL)
	}
	if !cfg.MailEnabled() {
		t.Error("MailEnabled() = false, want true")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"short secret", map[string]string{"MC_SECRET_KEY": "short"}},
		{"weak secret", map[string]string{"MC_SECRET_KEY": "change-me-to-32-byte-secret-key!"}},
		{"unknown translator", map[string]string{"MC_SECRET_KEY": testSecret, "MC_TRANSLATOR": "babel"}},
		{"openai without key", map[string]string{"MC_SECRET_KEY": testSecret, "MC_TRANSLATOR": "openai"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.env {
				setEnv(t, k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("Load() error = nil, want error")
			}
		})
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		secret string
		want   bool
	}{
		{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", false},
		{"abcABC123", true},
		{"abc123!!!", true},
		{"ABCDEFG", false},
	}

	for _, tt := range tests {
		if got := hasMinimumEntropy(tt.secret); got != tt.want {
			t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.secret, got, tt.want)
		}
	}
}

func TestLoadSite(t *testing.T) {
	site, err := LoadSite("")
	if err != nil {
		t.Fatalf("LoadSite(\"\") error: %v", err)
	}
	if site.Name != "Moto Club Castellazzo Bormida" {
		t.Errorf("default Name = %q", site.Name)
	}

	path := filepath.Join(t.TempDir(), "site.yaml")
	content := "phone: \"+39 0131 000000\"\nsame_as:\n  - https://www.facebook.com/mccastellazzob\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	site, err = LoadSite(path)
	if err != nil {
		t.Fatalf("LoadSite() error: %v", err)
	}
	if site.Phone != "+39 0131 000000" {
		t.Errorf("Phone = %q", site.Phone)
	}
	if site.Name != "Moto Club Castellazzo Bormida" {
		t.Errorf("Name = %q, want default kept", site.Name)
	}
	if len(site.SameAs) != 1 {
		t.Errorf("SameAs = %v, want one entry", site.SameAs)
	}
}

func TestLoadSite_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	if err := os.WriteFile(path, []byte("name: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSite(path); err == nil {
		t.Error("LoadSite() error = nil, want parse error")
	}
	if _, err := LoadSite(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadSite() error = nil, want read error")
	}
}
