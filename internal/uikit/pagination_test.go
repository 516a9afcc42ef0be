// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import (
	"fmt"
	"testing"
)

func pageURL(n int) string {
	return fmt.Sprintf("/it/search?q=raduno&page=%d", n)
}

func TestBuildPagination(t *testing.T) {
	p := BuildPagination(1, 3, 45, 20, pageURL)

	if p.HasPrev || !p.HasNext {
		t.Errorf("HasPrev=%v HasNext=%v, want false true", p.HasPrev, p.HasNext)
	}
	if p.NextURL != pageURL(2) || p.PrevURL != "" {
		t.Errorf("PrevURL=%q NextURL=%q", p.PrevURL, p.NextURL)
	}
	if len(p.Pages) != 3 || !p.Pages[0].IsCurrent {
		t.Errorf("Pages = %+v", p.Pages)
	}
	if !p.ShouldShow() {
		t.Error("ShouldShow() = false for 3 pages")
	}

	single := BuildPagination(1, 1, 4, 20, pageURL)
	if single.ShouldShow() {
		t.Error("ShouldShow() = true for a single page")
	}
}

func TestBuildPaginationPagesEllipsis(t *testing.T) {
	p := BuildPagination(10, 20, 400, 20, pageURL)

	var got []string
	for _, pg := range p.Pages {
		if pg.IsEllipsis {
			got = append(got, "...")
			continue
		}
		got = append(got, fmt.Sprint(pg.Number))
	}
	want := "[1 ... 8 9 10 11 12 ... 20]"
	if fmt.Sprint(got) != want {
		t.Errorf("pages = %v, want %s", got, want)
	}
}

func TestMarkLast(t *testing.T) {
	crumbs := MarkLast([]Breadcrumb{{Label: "Home", URL: "/it/"}, {Label: "Eventi", URL: "/it/eventi/"}})
	if crumbs[0].Active || !crumbs[1].Active {
		t.Errorf("crumbs = %+v", crumbs)
	}
	if len(MarkLast(nil)) != 0 {
		t.Error("MarkLast(nil) should be empty")
	}
}
