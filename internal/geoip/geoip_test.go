// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package geoip

import (
	"path/filepath"
	"testing"
)

func TestCountryLanguage(t *testing.T) {
	tests := map[string]string{
		"":   "",
		"IT": "it",
		"SM": "it",
		"FR": "fr",
		"BE": "fr",
		"DE": "en",
		"US": "en",
	}
	for country, want := range tests {
		if got := CountryLanguage(country); got != want {
			t.Errorf("CountryLanguage(%q) = %q, want %q", country, got, want)
		}
	}
}

func TestNilLookup(t *testing.T) {
	var g *Lookup
	if got := g.Country("8.8.8.8"); got != "" {
		t.Errorf("Country() = %q, want empty", got)
	}
	if got := g.Language("8.8.8.8"); got != "" {
		t.Errorf("Language() = %q, want empty", got)
	}
	if err := g.Reload(); err != nil {
		t.Errorf("Reload() error: %v", err)
	}
	if err := g.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestClosedLookup(t *testing.T) {
	g := &Lookup{}
	for _, ip := range []string{"not-an-ip", "127.0.0.1", "192.168.1.10", "8.8.8.8"} {
		if got := g.Country(ip); got != "" {
			t.Errorf("Country(%q) = %q, want empty", ip, got)
		}
	}
}

func TestOpen_Missing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.mmdb")); err == nil {
		t.Error("Open() error = nil, want error for missing file")
	}
}
