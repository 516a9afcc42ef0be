// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package uikit provides reusable template helpers, pagination logic,
// and view model types for the public site and the editor pages.
package uikit

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// Month names for the site languages.
var (
	MonthsIt = []string{
		"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno",
		"luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre",
	}
	MonthsFr = []string{
		"janvier", "février", "mars", "avril", "mai", "juin",
		"juillet", "août", "septembre", "octobre", "novembre", "décembre",
	}
)

// TemplateFuncs returns a template.FuncMap with pure helper functions.
// Callers merge project-specific functions on top.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"lower":     strings.ToLower,
		"upper":     strings.ToUpper,
		"hasPrefix": strings.HasPrefix,
		"truncate":  Truncate,
		"safeURL": func(s string) template.URL {
			return template.URL(s)
		},

		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"seq": func(start, end int) []int {
			var result []int
			for i := start; i <= end; i++ {
				result = append(result, i)
			}
			return result
		},

		"now": time.Now,
		"timeBefore": func(t1, t2 time.Time) bool {
			return t1.Before(t2)
		},
		"formatDateLocale": func(t any, lang string) string {
			return ApplyTimeFormatter(t, lang, FormatDateForLocale)
		},
		"formatDateTimeLocale": func(t any, lang string) string {
			return ApplyTimeFormatter(t, lang, FormatDateTimeForLocale)
		},
		"isoDate": func(t time.Time) string {
			return t.Format("2006-01-02")
		},

		"toJSON": func(v any) template.JS {
			b, err := json.Marshal(v)
			if err != nil {
				return "null"
			}
			return template.JS(b)
		},
		"formatBytes": FormatBytes,
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			dict := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				dict[key] = values[i+1]
			}
			return dict
		},
	}
}

// Truncate shortens s to at most length runes, appending "...".
func Truncate(s string, length int) string {
	r := []rune(s)
	if len(r) <= length {
		return s
	}
	return string(r[:length]) + "..."
}

// FormatBytes renders a byte count with a binary unit.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatDateForLocale formats a date the way readers of lang expect.
func FormatDateForLocale(t time.Time, lang string) string {
	switch lang {
	case "it":
		return fmt.Sprintf("%d %s %d", t.Day(), MonthsIt[t.Month()-1], t.Year())
	case "fr":
		return fmt.Sprintf("%d %s %d", t.Day(), MonthsFr[t.Month()-1], t.Year())
	default:
		return t.Format("2 January 2006")
	}
}

// FormatDateTimeForLocale formats a date and a 24-hour time for lang.
func FormatDateTimeForLocale(t time.Time, lang string) string {
	sep := ", "
	switch lang {
	case "it":
		sep = ", ore "
	case "fr":
		sep = " à "
	}
	return FormatDateForLocale(t, lang) + sep + t.Format("15:04")
}

// ApplyTimeFormatter applies formatter to a time.Time, *time.Time or
// sql.NullTime-like value. Returns "" for nil or unsupported values.
func ApplyTimeFormatter(t any, lang string, formatter func(time.Time, string) string) string {
	switch v := t.(type) {
	case time.Time:
		return formatter(v, lang)
	case *time.Time:
		if v == nil {
			return ""
		}
		return formatter(*v, lang)
	case interface{ Value() (any, error) }:
		val, err := v.Value()
		if err != nil {
			return ""
		}
		if tt, ok := val.(time.Time); ok {
			return formatter(tt, lang)
		}
		return ""
	default:
		return ""
	}
}
