// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides URL slug generation, request and path helpers.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultSlug is used when nothing usable survives sanitizing.
const DefaultSlug = "page"

var (
	// nonSlugChars matches runs of characters that cannot appear in a slug
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
	// slugFallbackStrip removes everything a slug may not contain
	slugFallbackStrip = regexp.MustCompile(`[^a-zA-Z0-9\-_]`)
)

// Slugify converts a string to a URL-friendly slug.
// Accents are stripped, other scripts are transliterated to ASCII, and every
// run of non-alphanumeric characters becomes a single hyphen.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)

	result = unidecode.Unidecode(result)
	result = strings.ToLower(result)
	result = nonSlugChars.ReplaceAllString(result, "-")

	return strings.Trim(result, "-")
}

// SanitizeSlug turns a machine-translated value into a usable slug.
// It tries Slugify first, then strips invalid characters from the lowercased
// input, and finally falls back to DefaultSlug.
func SanitizeSlug(s string) string {
	if slug := Slugify(s); slug != "" {
		return slug
	}
	if stripped := slugFallbackStrip.ReplaceAllString(strings.ToLower(s), ""); stripped != "" {
		return stripped
	}
	return DefaultSlug
}

// TruncateSlug shortens slug to at most max bytes without leaving a
// trailing hyphen.
func TruncateSlug(slug string, max int) string {
	if max <= 0 || len(slug) <= max {
		return slug
	}
	return strings.TrimRight(slug[:max], "-")
}

// IsValidSlug checks if a string is a valid slug format.
func IsValidSlug(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_') {
			return false
		}
	}

	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}

	return !strings.Contains(s, "--")
}
