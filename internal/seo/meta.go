// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds meta tags, schema.org structured data, sitemaps and
// robots.txt for the multilingual site.
package seo

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Meta holds the SEO tags rendered in the page head.
type Meta struct {
	Title         string
	Description   string
	Canonical     string
	OGTitle       string
	OGDescription string
	OGImage       string
	OGType        string
	OGSiteName    string
	OGLocale      string
	Robots        string
	Alternates    []Alternate // hreflang links, x-default last
}

// Alternate is one hreflang link.
type Alternate struct {
	Lang string
	URL  string
}

// PageData contains the page fields used for meta tags.
type PageData struct {
	Title             string
	SeoTitle          string
	SearchDescription string
	Intro             string
	Body              string
	URLPath           string // Site-relative, including the locale prefix
	ImageURL          string
	Lang              string
	PageType          string
	NoIndex           bool
	Translations      []Alternate // Live copies in every locale, site-relative URLs
}

// SiteConfig contains site-wide settings.
type SiteConfig struct {
	SiteName        string
	SiteURL         string
	SiteDescription string
	DefaultOGImage  string
	DefaultLang     string
}

// ogLocales maps site languages to Open Graph locales.
var ogLocales = map[string]string{
	"it": "it_IT",
	"en": "en_GB",
	"fr": "fr_FR",
}

// BuildMeta creates the meta tags for page with fallbacks to site values.
func BuildMeta(page PageData, site SiteConfig) Meta {
	meta := Meta{
		OGType:     "website",
		OGSiteName: site.SiteName,
		OGLocale:   ogLocales[page.Lang],
		Robots:     "index,follow",
	}
	if page.NoIndex {
		meta.Robots = "noindex,nofollow"
	}
	if page.PageType == "event_detail" || page.PageType == "news" {
		meta.OGType = "article"
	}

	switch {
	case page.SeoTitle != "":
		meta.Title = page.SeoTitle
	case page.Title != "":
		meta.Title = page.Title + " | " + site.SiteName
	default:
		meta.Title = site.SiteName
	}
	meta.OGTitle = meta.Title

	switch {
	case page.SearchDescription != "":
		meta.Description = page.SearchDescription
	case page.Intro != "":
		meta.Description = truncateText(StripHTML(page.Intro), 160)
	case page.Body != "":
		meta.Description = truncateText(StripHTML(page.Body), 160)
	default:
		meta.Description = site.SiteDescription
	}
	meta.OGDescription = meta.Description

	switch {
	case page.ImageURL != "":
		meta.OGImage = makeAbsoluteURL(page.ImageURL, site.SiteURL)
	case site.DefaultOGImage != "":
		meta.OGImage = makeAbsoluteURL(site.DefaultOGImage, site.SiteURL)
	}

	meta.Canonical = makeAbsoluteURL(page.URLPath, site.SiteURL)

	var xDefault string
	for _, t := range page.Translations {
		abs := makeAbsoluteURL(t.URL, site.SiteURL)
		meta.Alternates = append(meta.Alternates, Alternate{Lang: t.Lang, URL: abs})
		if t.Lang == site.DefaultLang {
			xDefault = abs
		}
	}
	if xDefault != "" && len(meta.Alternates) > 1 {
		meta.Alternates = append(meta.Alternates, Alternate{Lang: "x-default", URL: xDefault})
	}

	return meta
}

var stripPolicy = bluemonday.StrictPolicy()

// StripHTML removes markup and collapses whitespace.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	// Block-level closing tags would otherwise glue words together.
	s = strings.NewReplacer("</p>", "</p> ", "<br>", " ", "<br/>", " ", "<br />", " ", "</li>", "</li> ").Replace(s)
	text := html.UnescapeString(stripPolicy.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}

// truncateText shortens text to at most maxLen runes at a word boundary.
func truncateText(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}

	truncated := string(runes[:maxLen])
	if i := strings.LastIndex(truncated, " "); i > len(truncated)/2 {
		truncated = truncated[:i]
	}
	return strings.TrimSpace(truncated) + "..."
}

// makeAbsoluteURL prefixes site-relative URLs with siteURL.
func makeAbsoluteURL(url, siteURL string) string {
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return strings.TrimSuffix(siteURL, "/") + url
}
