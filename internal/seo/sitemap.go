package seo

import (
	"encoding/xml"
	"sort"
	"time"
)

// Sitemap namespaces
const (
	XMLNamespace   = "http://www.sitemaps.org/schemas/sitemap/0.9"
	XHTMLNamespace = "http://www.w3.org/1999/xhtml"
)

// SitemapURL is one <url> entry.
type SitemapURL struct {
	Loc        string         `xml:"loc"`
	LastMod    string         `xml:"lastmod,omitempty"`
	ChangeFreq string         `xml:"changefreq,omitempty"`
	Priority   string         `xml:"priority,omitempty"`
	Links      []SitemapXLink `xml:"xhtml:link"`
}

// SitemapXLink is an hreflang alternate of a sitemap entry.
type SitemapXLink struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// Sitemap is the <urlset> document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	XHTML   string       `xml:"xmlns:xhtml,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapPage is a live page with its translation group.
type SitemapPage struct {
	TranslationKey string
	Lang           string
	URLPath        string
	UpdatedAt      time.Time
}

// SitemapBuilder collects pages and renders the sitemap.
type SitemapBuilder struct {
	siteURL string
	pages   []SitemapPage
}

// NewSitemapBuilder creates a builder for siteURL.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{siteURL: siteURL}
}

// AddPages adds pages to the sitemap.
func (b *SitemapBuilder) AddPages(pages ...SitemapPage) {
	b.pages = append(b.pages, pages...)
}

// Build renders the XML. Every page lists the other live copies of its
// translation group as xhtml:link alternates.
func (b *SitemapBuilder) Build() ([]byte, error) {
	groups := make(map[string][]SitemapPage)
	for _, p := range b.pages {
		groups[p.TranslationKey] = append(groups[p.TranslationKey], p)
	}

	sitemap := Sitemap{XMLNS: XMLNamespace, XHTML: XHTMLNamespace}
	for _, p := range b.pages {
		u := SitemapURL{
			Loc:        makeAbsoluteURL(p.URLPath, b.siteURL),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		}
		if isLocaleHome(p.URLPath) {
			u.ChangeFreq = "daily"
			u.Priority = "1.0"
		}
		if !p.UpdatedAt.IsZero() {
			u.LastMod = p.UpdatedAt.UTC().Format(time.RFC3339)
		}

		group := groups[p.TranslationKey]
		if len(group) > 1 {
			for _, alt := range group {
				u.Links = append(u.Links, SitemapXLink{
					Rel:      "alternate",
					Hreflang: alt.Lang,
					Href:     makeAbsoluteURL(alt.URLPath, b.siteURL),
				})
			}
			sort.Slice(u.Links, func(i, j int) bool { return u.Links[i].Hreflang < u.Links[j].Hreflang })
		}
		sitemap.URLs = append(sitemap.URLs, u)
	}

	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), xmlBytes...), nil
}

// isLocaleHome reports whether path is a locale root such as "/it/".
func isLocaleHome(path string) bool {
	return len(path) == 4 && path[0] == '/' && path[3] == '/'
}
