// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

// Breadcrumb represents a single breadcrumb item.
type Breadcrumb struct {
	Label  string
	URL    string
	Active bool
}

// MarkLast flags the final crumb as the current page.
func MarkLast(crumbs []Breadcrumb) []Breadcrumb {
	if len(crumbs) > 0 {
		crumbs[len(crumbs)-1].Active = true
	}
	return crumbs
}
