// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import (
	"database/sql"
	"strconv"
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		length   int
		expected string
	}{
		{"hello world", 5, "hello..."},
		{"hello", 5, "hello"},
		{"", 5, ""},
		{"perché così", 6, "perché..."},
	}

	for _, tt := range tests {
		if got := Truncate(tt.input, tt.length); got != tt.expected {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.expected)
		}
	}
}

func TestTemplateFuncs_Seq(t *testing.T) {
	seq := TemplateFuncs()["seq"].(func(int, int) []int)
	got := seq(1, 3)
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("seq(1, 3) = %v", got)
	}
	if got := seq(3, 1); len(got) != 0 {
		t.Errorf("seq(3, 1) = %v, want empty", got)
	}
}

func TestTemplateFuncs_Dict(t *testing.T) {
	dict := TemplateFuncs()["dict"].(func(...any) map[string]any)

	d := dict("lang", "it", "page", 2)
	if d["lang"] != "it" || d["page"] != 2 {
		t.Errorf("dict() = %v", d)
	}
	if dict("odd") != nil {
		t.Error("dict() with odd args should be nil")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDateForLocale(t *testing.T) {
	d := time.Date(2025, time.August, 15, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		lang string
		date string
		full string
	}{
		{"it", "15 agosto 2025", "15 agosto 2025, ore 09:30"},
		{"fr", "15 août 2025", "15 août 2025 à 09:30"},
		{"en", "15 August 2025", "15 August 2025, 09:30"},
		{"", "15 August 2025", "15 August 2025, 09:30"},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			if got := FormatDateForLocale(d, tt.lang); got != tt.date {
				t.Errorf("FormatDateForLocale() = %q, want %q", got, tt.date)
			}
			if got := FormatDateTimeForLocale(d, tt.lang); got != tt.full {
				t.Errorf("FormatDateTimeForLocale() = %q, want %q", got, tt.full)
			}
		})
	}
}

func TestFormatDateForLocale_AllMonths(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		d := time.Date(2025, m, 1, 0, 0, 0, 0, time.UTC)
		for _, lang := range []string{"it", "fr"} {
			got := FormatDateForLocale(d, lang)
			if got == "" || got[:2] != "1 " {
				t.Errorf("FormatDateForLocale(%s, %s) = %q", m, lang, got)
			}
		}
	}
}

func TestApplyTimeFormatter(t *testing.T) {
	d := time.Date(2025, time.May, 4, 0, 0, 0, 0, time.UTC)
	year := func(t time.Time, _ string) string { return strconv.Itoa(t.Year()) }

	var nilTime *time.Time
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"value", d, "2025"},
		{"pointer", &d, "2025"},
		{"nil pointer", nilTime, ""},
		{"valid null time", sql.NullTime{Time: d, Valid: true}, "2025"},
		{"invalid null time", sql.NullTime{}, ""},
		{"unsupported", "2025-05-04", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ApplyTimeFormatter(tt.in, "it", year); got != tt.want {
				t.Errorf("ApplyTimeFormatter() = %q, want %q", got, tt.want)
			}
		})
	}
}
