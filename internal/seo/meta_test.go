package seo

import (
	"strings"
	"testing"
)

var testSite = SiteConfig{
	SiteName:        "MC Castellazzo",
	SiteURL:         "https://example.org/",
	SiteDescription: "Moto club",
	DefaultOGImage:  "/static/img/og.jpg",
	DefaultLang:     "it",
}

func TestBuildMeta_Fallbacks(t *testing.T) {
	meta := BuildMeta(PageData{URLPath: "/it/"}, testSite)

	if meta.Title != "MC Castellazzo" {
		t.Errorf("Title = %q", meta.Title)
	}
	if meta.Description != "Moto club" {
		t.Errorf("Description = %q", meta.Description)
	}
	if meta.OGImage != "https://example.org/static/img/og.jpg" {
		t.Errorf("OGImage = %q", meta.OGImage)
	}
	if meta.Canonical != "https://example.org/it/" {
		t.Errorf("Canonical = %q", meta.Canonical)
	}
	if meta.Robots != "index,follow" || meta.OGType != "website" {
		t.Errorf("Robots/OGType = %q/%q", meta.Robots, meta.OGType)
	}
	if len(meta.Alternates) != 0 {
		t.Errorf("Alternates = %v", meta.Alternates)
	}
}

func TestBuildMeta_PageValues(t *testing.T) {
	tests := []struct {
		name     string
		page     PageData
		title    string
		desc     string
		ogType   string
		ogLocale string
	}{
		{
			name:     "seo title wins",
			page:     PageData{Title: "Eventi", SeoTitle: "Tutti gli eventi", SearchDescription: "Calendario", Lang: "it"},
			title:    "Tutti gli eventi",
			desc:     "Calendario",
			ogType:   "website",
			ogLocale: "it_IT",
		},
		{
			name:     "intro stripped",
			page:     PageData{Title: "Raduno", Intro: "<p>Il <strong>raduno</strong> &amp; la cena</p>", PageType: "event_detail", Lang: "en"},
			title:    "Raduno | MC Castellazzo",
			desc:     "Il raduno & la cena",
			ogType:   "article",
			ogLocale: "en_GB",
		},
		{
			name:   "body fallback",
			page:   PageData{Title: "Privacy", Body: "<p>Uno</p><p>Due</p>"},
			title:  "Privacy | MC Castellazzo",
			desc:   "Uno Due",
			ogType: "website",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := BuildMeta(tt.page, testSite)
			if meta.Title != tt.title || meta.OGTitle != tt.title {
				t.Errorf("Title = %q, OGTitle = %q, want %q", meta.Title, meta.OGTitle, tt.title)
			}
			if meta.Description != tt.desc {
				t.Errorf("Description = %q, want %q", meta.Description, tt.desc)
			}
			if meta.OGType != tt.ogType {
				t.Errorf("OGType = %q, want %q", meta.OGType, tt.ogType)
			}
			if meta.OGLocale != tt.ogLocale {
				t.Errorf("OGLocale = %q, want %q", meta.OGLocale, tt.ogLocale)
			}
		})
	}
}

func TestBuildMeta_Alternates(t *testing.T) {
	meta := BuildMeta(PageData{
		URLPath: "/en/events/",
		Lang:    "en",
		NoIndex: true,
		Translations: []Alternate{
			{Lang: "it", URL: "/it/eventi/"},
			{Lang: "en", URL: "/en/events/"},
		},
	}, testSite)

	want := []Alternate{
		{Lang: "it", URL: "https://example.org/it/eventi/"},
		{Lang: "en", URL: "https://example.org/en/events/"},
		{Lang: "x-default", URL: "https://example.org/it/eventi/"},
	}
	if len(meta.Alternates) != len(want) {
		t.Fatalf("Alternates = %v", meta.Alternates)
	}
	for i := range want {
		if meta.Alternates[i] != want[i] {
			t.Errorf("Alternates[%d] = %v, want %v", i, meta.Alternates[i], want[i])
		}
	}
	if meta.Robots != "noindex,nofollow" {
		t.Errorf("Robots = %q", meta.Robots)
	}
}

func TestStripHTML(t *testing.T) {
	tests := map[string]string{
		"":                                   "",
		"plain":                              "plain",
		"<p>a</p><p>b</p>":                   "a b",
		"<script>alert(1)</script>ok":        "ok",
		"l&#39;evento &egrave; <em>qui</em>": "l'evento è qui",
		"riga<br>due":                        "riga due",
	}
	for in, want := range tests {
		if got := StripHTML(in); got != want {
			t.Errorf("StripHTML(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncateText(t *testing.T) {
	if got := truncateText("breve", 160); got != "breve" {
		t.Errorf("short = %q", got)
	}
	long := strings.Repeat("parola ", 40)
	got := truncateText(long, 50)
	if !strings.HasSuffix(got, "...") || len([]rune(got)) > 53 {
		t.Errorf("long = %q", got)
	}
	if strings.Contains(got, "parol...") {
		t.Errorf("cut mid-word: %q", got)
	}
}

func TestMakeAbsoluteURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"/it/", "https://example.org/it/"},
		{"media/a.jpg", "https://example.org/media/a.jpg"},
		{"https://cdn.example.com/x.jpg", "https://cdn.example.com/x.jpg"},
	}
	for _, tt := range tests {
		if got := makeAbsoluteURL(tt.in, "https://example.org/"); got != tt.want {
			t.Errorf("makeAbsoluteURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
