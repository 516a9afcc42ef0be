// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
)

// RobotsConfig configures robots.txt.
type RobotsConfig struct {
	SiteURL       string   // Used for the Sitemap line
	DisallowAll   bool     // Block all crawlers outside production
	DisallowPaths []string // Extra paths to block
}

// defaultDisallow are never crawled.
var defaultDisallow = []string{"/admin/", "/media/private/", "/*/search"}

// GenerateRobots returns robots.txt content.
func GenerateRobots(cfg RobotsConfig) string {
	var sb strings.Builder
	sb.WriteString("User-agent: *\n")

	if cfg.DisallowAll {
		sb.WriteString("Disallow: /\n")
		return sb.String()
	}

	for _, path := range append(append([]string{}, defaultDisallow...), cfg.DisallowPaths...) {
		sb.WriteString("Disallow: " + path + "\n")
	}
	sb.WriteString("Allow: /\n")

	if cfg.SiteURL != "" {
		sb.WriteString("\nSitemap: " + strings.TrimSuffix(cfg.SiteURL, "/") + "/sitemap.xml\n")
	}
	return sb.String()
}
